package ats

// Overall messages, selected by total score bracket.
const (
	OverallNeedsWork = "Your CV needs significant improvement. Focus on completing all sections with detailed information."
	OverallOnTrack   = "Your CV is on the right track. Address the suggestions below to improve your ATS score."
	OverallGood      = "Good CV! A few improvements will make it excellent for ATS systems."
	OverallExcellent = "Excellent CV! Your CV is well-optimized for ATS systems."
)

const (
	SuggestFullName      = "Add your full name to improve ATS compatibility"
	SuggestEmail         = "Add a valid email address"
	SuggestPhone         = "Add a complete phone number"
	SuggestExpandSummary = "Expand your professional summary to at least 50 characters for better impact"
	SuggestAddSummary    = "Add a professional summary to highlight your key qualifications"

	SuggestAddEducation          = "Add at least one education entry"
	SuggestEducationDescriptions = "Add descriptions to your education entries to provide context"
	SuggestEducationDates        = "Ensure all education entries have complete date ranges"

	SuggestAddExperience             = "Add work experience to strengthen your CV"
	SuggestMoreExperience            = "Add more work experience entries to showcase your career progression"
	SuggestAllExperienceDescriptions = "Add detailed descriptions to all work experience entries"
	SuggestExperienceDescriptions    = "Add descriptions to your work experience to highlight your achievements and responsibilities"
	SuggestExpandExperience          = "Expand work experience descriptions to at least 100 characters each for better detail"

	SuggestAddSkills     = "Add relevant skills to improve ATS matching"
	SuggestMoreSkills    = "Add more skills (aim for at least 5-10) to improve keyword matching"
	SuggestFewMoreSkills = "Consider adding a few more skills to reach 10+ for optimal ATS performance"

	FormattingPrefix    = "Formatting improvements: "
	IssueBriefSummary   = "summary is too brief"
	IssueMissingAddress = "missing address/location"
)
