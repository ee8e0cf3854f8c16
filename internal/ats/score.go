// Package ats estimates how well a CV will fare in applicant tracking systems.
// Scoring is a pure function of the CV: it performs no I/O and never mutates
// its input, so it is safe to call from any number of goroutines.
package ats

import (
	"strings"
	"unicode/utf8"

	"github.com/mikemtdev/career-lift/resume/model"
)

// Category caps.
const (
	MaxPersonalInfo = 20
	MaxEducation    = 20
	MaxExperience   = 30
	MaxSkills       = 20
	MaxFormatting   = 10
	MaxScore        = 100
)

// Breakdown holds the per-category sub-scores.
type Breakdown struct {
	PersonalInfo int `json:"personalInfo"`
	Education    int `json:"education"`
	Experience   int `json:"experience"`
	Skills       int `json:"skills"`
	Formatting   int `json:"formatting"`
}

// Total sums the sub-scores without clamping.
func (b Breakdown) Total() int {
	return b.PersonalInfo + b.Education + b.Experience + b.Skills + b.Formatting
}

// Result is the output of Score.
type Result struct {
	Score       int       `json:"score"`
	Suggestions []string  `json:"suggestions"`
	Breakdown   Breakdown `json:"breakdown"`
}

// Score rates cv from 0 to 100. Suggestions start with an overall message
// followed by triggered hints in personal info, education, experience,
// skills, formatting order.
func Score(cv model.CV) Result {
	var s scorer
	b := Breakdown{
		PersonalInfo: s.personalInfo(cv.PersonalInfo),
		Education:    s.education(cv.Education),
		Experience:   s.experience(cv.Experience),
		Skills:       s.skills(cv.Skills),
		Formatting:   s.formatting(cv.PersonalInfo),
	}

	total := clamp(b.Total(), 0, MaxScore)
	suggestions := make([]string, 0, len(s.suggestions)+1)
	suggestions = append(suggestions, overallMessage(total))
	suggestions = append(suggestions, s.suggestions...)

	return Result{Score: total, Suggestions: suggestions, Breakdown: b}
}

type scorer struct {
	suggestions []string
}

func (s *scorer) suggest(msg string) {
	s.suggestions = append(s.suggestions, msg)
}

func (s *scorer) personalInfo(info model.PersonalInfo) int {
	score := 0
	if length(info.FullName) > 0 {
		score += 5
	} else {
		s.suggest(SuggestFullName)
	}
	if strings.Contains(info.Email, "@") {
		score += 5
	} else {
		s.suggest(SuggestEmail)
	}
	if length(info.Phone) >= 10 {
		score += 5
	} else {
		s.suggest(SuggestPhone)
	}
	switch n := length(info.Summary); {
	case n >= 50:
		score += 5
	case n > 0:
		score += 2
		s.suggest(SuggestExpandSummary)
	default:
		s.suggest(SuggestAddSummary)
	}
	return score
}

func (s *scorer) education(entries []model.Education) int {
	if len(entries) == 0 {
		s.suggest(SuggestAddEducation)
		return 0
	}
	score := 10
	described, dated := 0, 0
	for _, edu := range entries {
		if length(edu.Description) > 20 {
			described++
		}
		if edu.StartDate != "" && edu.EndDate != "" {
			dated++
		}
	}
	if described > 0 {
		score += 5
	} else {
		s.suggest(SuggestEducationDescriptions)
	}
	if dated == len(entries) {
		score += 5
	} else {
		s.suggest(SuggestEducationDates)
	}
	return score
}

func (s *scorer) experience(entries []model.Experience) int {
	score := 0
	switch len(entries) {
	case 0:
		s.suggest(SuggestAddExperience)
	case 1:
		score += 10
		s.suggest(SuggestMoreExperience)
	default:
		score += 15
	}

	described, totalLen := 0, 0
	for _, exp := range entries {
		if n := length(exp.Description); n > 0 {
			described++
			totalLen += n
		}
	}

	switch {
	case len(entries) > 0 && described == len(entries):
		score += 10
	case described > 0:
		score += 5
		s.suggest(SuggestAllExperienceDescriptions)
	case len(entries) > 0:
		s.suggest(SuggestExperienceDescriptions)
	}

	// Entries without a description count toward the average as zero.
	avg := 0.0
	if len(entries) > 0 {
		avg = float64(totalLen) / float64(len(entries))
	}
	if avg >= 100 {
		score += 5
	} else if len(entries) > 0 && described > 0 {
		s.suggest(SuggestExpandExperience)
	}
	return score
}

func (s *scorer) skills(list []string) int {
	switch n := len(list); {
	case n == 0:
		s.suggest(SuggestAddSkills)
		return 0
	case n < 5:
		s.suggest(SuggestMoreSkills)
		return 10
	case n < 10:
		s.suggest(SuggestFewMoreSkills)
		return 15
	default:
		return 20
	}
}

func (s *scorer) formatting(info model.PersonalInfo) int {
	score := MaxFormatting
	var issues []string
	if n := length(info.Summary); n > 0 && n < 30 {
		score -= 2
		issues = append(issues, IssueBriefSummary)
	}
	if info.Address == "" {
		score -= 2
		issues = append(issues, IssueMissingAddress)
	}
	if len(issues) > 0 {
		s.suggest(FormattingPrefix + strings.Join(issues, ", "))
	}
	return score
}

func overallMessage(total int) string {
	switch {
	case total < 50:
		return OverallNeedsWork
	case total < 70:
		return OverallOnTrack
	case total < 85:
		return OverallGood
	default:
		return OverallExcellent
	}
}

func length(s string) int {
	return utf8.RuneCountInString(s)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
