// Package domain defines core entities, ports, and domain-specific errors
// for the résumé×job matching core.
package domain

import (
	"context"
	"errors"
	"math"
	"time"
)

// Error taxonomy (sentinels)
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNotFound        = errors.New("not found")
	ErrInvalidToken    = errors.New("invalid token")
	ErrNoSentences     = errors.New("resume has no sentence embeddings")
	ErrConfigInvalid   = errors.New("config invalid")
	ErrInternal        = errors.New("internal error")
)

// EmbeddingDim is the fixed dimensionality every stored and computed
// embedding must satisfy.
const EmbeddingDim = 768

// ResumeSection enumerates the sections a ResumeSentence can belong to.
type ResumeSection string

// Résumé sentence sections.
const (
	SectionSummary    ResumeSection = "summary"
	SectionSkills     ResumeSection = "skills"
	SectionExperience ResumeSection = "experience"
	SectionProjects   ResumeSection = "projects"
	SectionRaw        ResumeSection = "raw"
	SectionNone       ResumeSection = ""
)

// JobSection enumerates the sections a JobSentence can belong to.
type JobSection string

// Job posting sentence sections.
const (
	JobSectionRequired    JobSection = "required"
	JobSectionPreferred   JobSection = "preferred"
	JobSectionDescription JobSection = "description"
)

// EducationLevel enumerates the Korean education-level vocabulary used by
// extracted résumé facts.
type EducationLevel string

// Education level values.
const (
	EducationNone      EducationLevel = ""
	EducationBachelors EducationLevel = "학사"
	EducationMasters   EducationLevel = "석사"
	EducationDoctorate EducationLevel = "박사"
)

// ResumeSentence is one splittable unit of résumé text with its embedding.
// Ordered by Idx within a Section.
type ResumeSentence struct {
	Section   ResumeSection
	Idx       int
	Text      string
	Embedding []float32
}

// WorkHistoryEntry is one job held by the candidate.
type WorkHistoryEntry struct {
	Company          string
	Title            string
	Start            time.Time
	End              time.Time // zero value means "present"
	Description      string
	Responsibilities []string
}

// ProjectEntry is one project listed on the résumé.
type ProjectEntry struct {
	Name             string
	Role             string
	Description      string
	Responsibilities []string
}

// ParsedResume holds the structured body of a résumé, as produced by
// upstream parsing/extraction. It is the fallback source for sentence
// collection when no ResumeSentence rows exist.
type ParsedResume struct {
	PersonalName      string
	Summary           string
	WorkHistory       []WorkHistoryEntry
	Projects          []ProjectEntry
	Education         []string
	SkillsNarrative   string
	ProjectsNarrative string
}

// Resume is the domain model for a candidate résumé.
type Resume struct {
	ID       string
	RawText  string
	Parsed   ParsedResume
	Sentences []ResumeSentence

	// Extracted scalar facts.
	Skills          []string // lower-cased canonical tokens
	ExperienceYears float64
	Education       EducationLevel
	Domains         []string

	// FullTextEmbedding is the optional whole-résumé embedding used for
	// overall_similarity.
	FullTextEmbedding []float32
}

// HasSentences reports whether the résumé carries at least one sentence
// embedding, the precondition for search_jobs_for_resume.
func (r Resume) HasSentences() bool { return len(r.Sentences) > 0 }

// SentencesInSection returns the résumé's sentences restricted to section,
// in stored order.
func (r Resume) SentencesInSection(section ResumeSection) []ResumeSentence {
	out := make([]ResumeSentence, 0, len(r.Sentences))
	for _, s := range r.Sentences {
		if s.Section == section {
			out = append(out, s)
		}
	}
	return out
}

// ExperienceBucket enumerates the coarse seniority buckets a job posting
// can request.
type ExperienceBucket string

// Experience bucket values.
const (
	BucketJunior ExperienceBucket = "junior"
	BucketMid    ExperienceBucket = "mid"
	BucketSenior ExperienceBucket = "senior"
	BucketNone   ExperienceBucket = ""
)

// Range returns the [min, max) years range of the bucket. Senior's upper
// bound is unbounded and reported as +Inf.
func (b ExperienceBucket) Range() (min, max float64) {
	switch b {
	case BucketJunior:
		return 0, 3
	case BucketMid:
		return 3, 7
	case BucketSenior:
		return 7, math.Inf(1)
	default:
		return 0, math.Inf(1)
	}
}

// JobSentence is one splittable unit of job-posting text with its embedding.
type JobSentence struct {
	Section   JobSection
	Idx       int
	Text      string
	Embedding []float32
}

// Requirements groups a job posting's required and preferred condition
// phrases prior to normalization.
type Requirements struct {
	Required  []string
	Preferred []string
}

// JobPosting is the domain model for a job posting.
type JobPosting struct {
	ID               string
	Title            string
	CompanyName      string
	Description      string
	Requirements     Requirements
	Qualifications   []string
	Responsibilities []string
	Benefits         []string
	ExperienceBucket ExperienceBucket
	MinExperience    float64
	MaxExperience    *float64 // nil means unbounded
	Location         string
	EmploymentType   string
	Active           bool
	PostedAt         time.Time
	Sentences        []JobSentence

	FullTextEmbedding []float32
	ParsedSkills      []string // lower-cased canonical tokens
}

// SentencesInSection returns the job's sentences restricted to section, in
// stored order.
func (j JobPosting) SentencesInSection(section JobSection) []JobSentence {
	out := make([]JobSentence, 0, len(j.Sentences))
	for _, s := range j.Sentences {
		if s.Section == section {
			out = append(out, s)
		}
	}
	return out
}

// Condition is one atomic, normalized phrase drawn from a job's
// requirements list, ready for a single semantic judgment.
type Condition struct {
	Text    string
	Section JobSection // required or preferred
}

// SearchFilters narrows search_jobs_for_resume to a subset of active
// postings.
type SearchFilters struct {
	Location           string
	EmploymentType     string
	ExperienceLevel    ExperienceBucket
	MinSalary          *int64
	MinExperienceYears *float64
	RequiredSkills     []string
}

// Context is a type alias to stdlib context.Context for convenience across
// layers without importing context in every file that embeds a port.
type Context = context.Context
