package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreSkills_MatchedAndMissingConditions(t *testing.T) {
	conditions := []string{"Python 3년 이상 경험", "Kubernetes 운영 경험"}
	result := ScoreSkills(conditions, []string{"python"}, nil)

	assert.Equal(t, []string{"Python 3년 이상 경험"}, result.Matched)
	assert.Equal(t, []string{"Kubernetes 운영 경험"}, result.Missing)
	// universe = {python, kubernetes, r} ("r" occurs inside "kubernetes");
	// matched = {python}
	assert.InDelta(t, 1.0/3.0, result.Score, 0.0001)
}

func TestScoreSkills_EmptyUniverseScoresOne(t *testing.T) {
	result := ScoreSkills(nil, []string{"python"}, nil)
	assert.Equal(t, 1.0, result.Score)
}

func TestScoreSkills_ParsedJobSkillsExtendUniverse(t *testing.T) {
	result := ScoreSkills([]string{"백엔드 개발"}, []string{"aws"}, []string{"aws", "docker"})
	// universe = {aws, docker}; matched = {aws}
	assert.InDelta(t, 0.5, result.Score, 0.0001)
}

func TestDifficultyFactor(t *testing.T) {
	cases := []struct {
		n    int
		want float64
	}{
		{0, 0.0},
		{3, 0.0},
		{4, 0.3},
		{6, 0.3},
		{7, 0.6},
		{10, 0.6},
		{11, 0.65},
		{20, 1.0},
	}
	for _, tc := range cases {
		assert.InDelta(t, tc.want, difficultyFactor(tc.n), 0.0001)
	}
}
