// Package resumedoc extracts structured sections from markdown resumes.
package resumedoc

import "strings"

// Sections is the structured view of a resume used by prompt templates.
// Every field is empty when its section is absent or malformed.
type Sections struct {
	Summary    string   `json:"summary"`
	Skills     string   `json:"skills"`
	SkillList  []string `json:"skillList"`
	Experience []string `json:"experience"`
	Education  []string `json:"education"`
}

// Heading aliases accepted for each field, first match wins.
var (
	summaryHeadings    = []string{"Professional Summary", "Summary"}
	skillsHeadings     = []string{"Skills"}
	experienceHeadings = []string{"Work Experience", "Experience"}
	educationHeadings  = []string{"Education"}
)

// Parse runs the section splitter and entry extractor over a resume.
func Parse(markdown string) Sections {
	sections := SplitSections(markdown)

	out := Sections{
		Summary:    FindSection(sections, summaryHeadings...),
		Experience: []string{},
		Education:  []string{},
		SkillList:  []string{},
	}

	if items := BulletItems(FindSection(sections, skillsHeadings...)); len(items) > 0 {
		out.SkillList = items
		out.Skills = strings.Join(items, ", ")
	}
	for _, e := range ExtractEntries(FindSection(sections, experienceHeadings...)) {
		out.Experience = append(out.Experience, ExperienceLine(e))
	}
	for _, e := range ExtractEntries(FindSection(sections, educationHeadings...)) {
		out.Education = append(out.Education, EducationLine(e))
	}
	return out
}
