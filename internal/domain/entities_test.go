package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResume_HasSentences(t *testing.T) {
	assert.False(t, Resume{}.HasSentences())
	assert.True(t, Resume{Sentences: []ResumeSentence{{Section: SectionSkills, Text: "go"}}}.HasSentences())
}

func TestResume_SentencesInSection(t *testing.T) {
	r := Resume{Sentences: []ResumeSentence{
		{Section: SectionSkills, Idx: 0, Text: "python"},
		{Section: SectionSummary, Idx: 0, Text: "summary line"},
		{Section: SectionSkills, Idx: 1, Text: "go"},
	}}
	got := r.SentencesInSection(SectionSkills)
	assert.Len(t, got, 2)
	assert.Equal(t, "python", got[0].Text)
	assert.Equal(t, "go", got[1].Text)
}

func TestExperienceBucket_Range(t *testing.T) {
	cases := []struct {
		bucket  ExperienceBucket
		wantMin float64
		wantMax float64
	}{
		{BucketJunior, 0, 3},
		{BucketMid, 3, 7},
	}
	for _, tc := range cases {
		min, max := tc.bucket.Range()
		assert.Equal(t, tc.wantMin, min, string(tc.bucket))
		assert.Equal(t, tc.wantMax, max, string(tc.bucket))
	}

	_, max := BucketSenior.Range()
	assert.True(t, math.IsInf(max, 1))
}

func TestJobPosting_SentencesInSection(t *testing.T) {
	j := JobPosting{Sentences: []JobSentence{
		{Section: JobSectionRequired, Text: "a"},
		{Section: JobSectionPreferred, Text: "b"},
	}}
	assert.Len(t, j.SentencesInSection(JobSectionRequired), 1)
	assert.Len(t, j.SentencesInSection(JobSectionDescription), 0)
}
