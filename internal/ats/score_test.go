package ats

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mikemtdev/career-lift/resume/model"
)

func fullCV() model.CV {
	longDesc := strings.Repeat("Delivered measurable outcomes across teams. ", 3)
	return model.CV{
		PersonalInfo: model.PersonalInfo{
			FullName: "Ada Lovelace",
			Email:    "ada@example.com",
			Phone:    "0971234567",
			Address:  "Lusaka, Zambia",
			Summary:  "Backend engineer with eight years of experience building payment systems.",
		},
		Education: []model.Education{
			{Institution: "UNZA", Degree: "BSc", Field: "CS", StartDate: "2010", EndDate: "2014", Description: "Graduated with distinction in algorithms."},
			{Institution: "UCT", Degree: "MSc", Field: "CS", StartDate: "2015", EndDate: "2016"},
		},
		Experience: []model.Experience{
			{Company: "Acme", Position: "Engineer", StartDate: "2016", EndDate: "2020", Description: longDesc},
			{Company: "Globex", Position: "Lead", StartDate: "2020", Current: true, Description: longDesc},
		},
		Skills: []string{"Go", "SQL", "Postgres", "Redis", "AWS", "Docker", "Kubernetes", "gRPC", "Kafka", "Terraform"},
	}
}

func TestScoreCompleteCV(t *testing.T) {
	res := Score(fullCV())

	assert.Equal(t, 100, res.Score)
	assert.Equal(t, Breakdown{PersonalInfo: 20, Education: 20, Experience: 30, Skills: 20, Formatting: 10}, res.Breakdown)
	assert.Equal(t, []string{OverallExcellent}, res.Suggestions)
}

func TestScoreEmptyCV(t *testing.T) {
	res := Score(model.CV{})

	assert.Equal(t, 8, res.Score)
	assert.Equal(t, Breakdown{Formatting: 8}, res.Breakdown)
	assert.Equal(t, []string{
		OverallNeedsWork,
		SuggestFullName,
		SuggestEmail,
		SuggestPhone,
		SuggestAddSummary,
		SuggestAddEducation,
		SuggestAddExperience,
		SuggestAddSkills,
		FormattingPrefix + IssueMissingAddress,
	}, res.Suggestions)
}

func TestScoreEducationWithoutDescription(t *testing.T) {
	cv := model.CV{Education: []model.Education{{Institution: "X", Degree: "BSc", Field: "CS", StartDate: "2018", EndDate: "2022"}}}
	res := Score(cv)

	assert.Equal(t, 15, res.Breakdown.Education)
	assert.Contains(t, res.Suggestions, SuggestEducationDescriptions)
	assert.NotContains(t, res.Suggestions, SuggestEducationDates)
}

func TestScoreEducationIncompleteDates(t *testing.T) {
	cv := model.CV{Education: []model.Education{
		{Institution: "X", StartDate: "2018", EndDate: "2022", Description: "A description long enough to count."},
		{Institution: "Y", StartDate: "2022"},
	}}
	res := Score(cv)

	assert.Equal(t, 15, res.Breakdown.Education)
	assert.Contains(t, res.Suggestions, SuggestEducationDates)
}

func TestScoreSummaryTiersAndDoublePenalty(t *testing.T) {
	cases := []struct {
		name        string
		summary     string
		personal    int
		formatting  int
		suggestions []string
	}{
		{"absent", "", 15, 10, []string{SuggestAddSummary}},
		{"very short", "Go dev", 17, 8, []string{SuggestExpandSummary, FormattingPrefix + IssueBriefSummary}},
		{"medium", strings.Repeat("a", 40), 17, 10, []string{SuggestExpandSummary}},
		{"full", strings.Repeat("a", 50), 20, 10, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cv := fullCV()
			cv.PersonalInfo.Summary = tc.summary
			res := Score(cv)

			assert.Equal(t, tc.personal, res.Breakdown.PersonalInfo)
			assert.Equal(t, tc.formatting, res.Breakdown.Formatting)
			for _, s := range tc.suggestions {
				assert.Contains(t, res.Suggestions, s)
			}
		})
	}
}

func TestScoreSummaryCountsRunes(t *testing.T) {
	cv := fullCV()
	cv.PersonalInfo.Summary = strings.Repeat("é", 50)
	res := Score(cv)
	assert.Equal(t, 20, res.Breakdown.PersonalInfo)
}

func TestScoreExperienceBranches(t *testing.T) {
	long := strings.Repeat("x", 120)
	cases := []struct {
		name        string
		entries     []model.Experience
		want        int
		suggestions []string
		absent      []string
	}{
		{
			name:        "none",
			entries:     nil,
			want:        0,
			suggestions: []string{SuggestAddExperience},
			absent:      []string{SuggestExpandExperience, SuggestExperienceDescriptions},
		},
		{
			name:        "single without description",
			entries:     []model.Experience{{Company: "A"}},
			want:        10,
			suggestions: []string{SuggestMoreExperience, SuggestExperienceDescriptions},
			absent:      []string{SuggestExpandExperience},
		},
		{
			name:        "single detailed",
			entries:     []model.Experience{{Company: "A", Description: long}},
			want:        25,
			suggestions: []string{SuggestMoreExperience},
		},
		{
			name:        "partial descriptions",
			entries:     []model.Experience{{Company: "A", Description: "short"}, {Company: "B"}},
			want:        20,
			suggestions: []string{SuggestAllExperienceDescriptions, SuggestExpandExperience},
		},
		{
			name: "average drags below threshold",
			entries: []model.Experience{
				{Company: "A", Description: strings.Repeat("x", 150)},
				{Company: "B"},
			},
			want:        20,
			suggestions: []string{SuggestAllExperienceDescriptions, SuggestExpandExperience},
		},
		{
			name:    "two detailed",
			entries: []model.Experience{{Company: "A", Description: long}, {Company: "B", Description: long}},
			want:    30,
			absent:  []string{SuggestExpandExperience, SuggestMoreExperience},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := Score(model.CV{Experience: tc.entries})
			assert.Equal(t, tc.want, res.Breakdown.Experience)
			for _, s := range tc.suggestions {
				assert.Contains(t, res.Suggestions, s)
			}
			for _, s := range tc.absent {
				assert.NotContains(t, res.Suggestions, s)
			}
		})
	}
}

func TestScoreSkillBrackets(t *testing.T) {
	cases := []struct {
		n       int
		want    int
		suggest string
	}{
		{0, 0, SuggestAddSkills},
		{1, 10, SuggestMoreSkills},
		{4, 10, SuggestMoreSkills},
		{5, 15, SuggestFewMoreSkills},
		{9, 15, SuggestFewMoreSkills},
		{10, 20, ""},
		{25, 20, ""},
	}
	for _, tc := range cases {
		skills := make([]string, tc.n)
		for i := range skills {
			skills[i] = "skill"
		}
		res := Score(model.CV{Skills: skills})
		assert.Equal(t, tc.want, res.Breakdown.Skills, "n=%d", tc.n)
		if tc.suggest != "" {
			assert.Contains(t, res.Suggestions, tc.suggest, "n=%d", tc.n)
		}
	}
}

func TestScoreOverallBrackets(t *testing.T) {
	assert.Equal(t, OverallNeedsWork, overallMessage(0))
	assert.Equal(t, OverallNeedsWork, overallMessage(49))
	assert.Equal(t, OverallOnTrack, overallMessage(50))
	assert.Equal(t, OverallOnTrack, overallMessage(69))
	assert.Equal(t, OverallGood, overallMessage(70))
	assert.Equal(t, OverallGood, overallMessage(84))
	assert.Equal(t, OverallExcellent, overallMessage(85))
	assert.Equal(t, OverallExcellent, overallMessage(100))
}

func TestScoreSuggestionOrderFollowsSections(t *testing.T) {
	cv := model.CV{
		PersonalInfo: model.PersonalInfo{FullName: "A", Email: "a@b.c", Phone: "0971234567", Summary: "short"},
		Experience:   []model.Experience{{Company: "A"}},
		Skills:       []string{"Go"},
	}
	res := Score(cv)
	require.NotEmpty(t, res.Suggestions)

	order := []string{SuggestExpandSummary, SuggestAddEducation, SuggestMoreExperience, SuggestMoreSkills, FormattingPrefix}
	last := 0
	for _, want := range order {
		idx := indexWithPrefix(res.Suggestions, want)
		require.GreaterOrEqual(t, idx, 1, "missing %q", want)
		assert.Greater(t, idx, last, "%q out of order", want)
		last = idx
	}
}

func TestScoreInvariants(t *testing.T) {
	inputs := []model.CV{{}, fullCV(), {Skills: []string{"a", "b"}}, {PersonalInfo: model.PersonalInfo{Summary: "x"}}}
	for _, cv := range inputs {
		res := Score(cv)
		assert.GreaterOrEqual(t, res.Score, 0)
		assert.LessOrEqual(t, res.Score, MaxScore)
		if res.Breakdown.Total() <= MaxScore {
			assert.Equal(t, res.Breakdown.Total(), res.Score)
		}
		assert.LessOrEqual(t, res.Breakdown.PersonalInfo, MaxPersonalInfo)
		assert.LessOrEqual(t, res.Breakdown.Education, MaxEducation)
		assert.LessOrEqual(t, res.Breakdown.Experience, MaxExperience)
		assert.LessOrEqual(t, res.Breakdown.Skills, MaxSkills)
		assert.LessOrEqual(t, res.Breakdown.Formatting, MaxFormatting)
	}
}

func TestScoreDoesNotMutateInput(t *testing.T) {
	cv := fullCV()
	before := fullCV()
	_ = Score(cv)
	assert.Equal(t, before, cv)
}

func indexWithPrefix(list []string, prefix string) int {
	for i, s := range list {
		if strings.HasPrefix(s, prefix) {
			return i
		}
	}
	return -1
}
