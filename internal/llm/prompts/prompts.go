// Package prompts renders the fixed prompt templates for each generation task.
// Rendering is pure: identical inputs always produce the identical prompt.
package prompts

import (
	"embed"
	"fmt"
	"strconv"
	"strings"
)

//go:embed templates/*.txt
var templateFS embed.FS

// Task names, used for logging and metrics labels.
const (
	TaskCoverLetter     = "cover_letter"
	TaskQuiz            = "interview_quiz"
	TaskImprovementTip  = "improvement_tip"
	TaskATSFeedback     = "ats_feedback"
	TaskImproveSection  = "improve_section"
	TaskCourseLayout    = "course_layout"
	TaskChapterContent  = "chapter_content"
	TaskIndustryInsight = "industry_insight"
)

// QuizQuestionCount is the number of questions requested per quiz.
const QuizQuestionCount = 10

func mustTemplate(name string) string {
	data, err := templateFS.ReadFile("templates/" + name)
	if err != nil {
		panic(fmt.Sprintf("prompts: missing template %s: %v", name, err))
	}
	return string(data)
}

var (
	coverLetterTemplate     = mustTemplate("cover_letter.txt")
	quizTemplate            = mustTemplate("quiz.txt")
	improvementTipTemplate  = mustTemplate("improvement_tip.txt")
	atsFeedbackTemplate     = mustTemplate("ats_feedback.txt")
	improveSectionTemplate  = mustTemplate("improve_section.txt")
	courseLayoutTemplate    = mustTemplate("course_layout.txt")
	chapterContentTemplate  = mustTemplate("chapter_content.txt")
	industryInsightTemplate = mustTemplate("industry_insight.txt")
)

func render(tmpl string, pairs ...string) string {
	return strings.TrimSpace(strings.NewReplacer(pairs...).Replace(tmpl))
}

// CoverLetterInput feeds the cover letter template. Resume-derived fields win
// over profile fields when both are present.
type CoverLetterInput struct {
	FullName        string
	Industry        string
	ExperienceYears int
	ProfileSkills   []string
	Bio             string

	ResumeSummary    string
	ResumeSkills     string
	ResumeExperience []string
	ResumeEducation  []string

	JobTitle       string
	CompanyName    string
	JobDescription string
}

// CoverLetter renders the markdown-mode cover letter prompt.
func CoverLetter(in CoverLetterInput) string {
	skills := in.ResumeSkills
	if skills == "" {
		skills = strings.Join(in.ProfileSkills, ", ")
	}
	summary := in.ResumeSummary
	if summary == "" {
		summary = in.Bio
	}

	var lines strings.Builder
	if len(in.ResumeExperience) > 0 {
		lines.WriteString("- Recent Experience:\n  - ")
		lines.WriteString(strings.Join(in.ResumeExperience, "\n  - "))
		lines.WriteString("\n")
	}
	if len(in.ResumeEducation) > 0 {
		lines.WriteString("- Education:\n  - ")
		lines.WriteString(strings.Join(in.ResumeEducation, "\n  - "))
		lines.WriteString("\n")
	}

	return render(coverLetterTemplate,
		"{{JOB_TITLE}}", in.JobTitle,
		"{{COMPANY_NAME}}", in.CompanyName,
		"{{FULL_NAME}}", orUnknown(in.FullName),
		"{{INDUSTRY}}", orUnknown(in.Industry),
		"{{EXPERIENCE_YEARS}}", strconv.Itoa(in.ExperienceYears),
		"{{SKILLS}}", orUnknown(skills),
		"{{SUMMARY}}", orUnknown(summary),
		"{{RESUME_LINES}}", lines.String(),
		"{{JOB_DESCRIPTION}}", strings.TrimSpace(in.JobDescription),
	)
}

// Quiz renders the json-mode interview quiz prompt.
func Quiz(industry string, skills []string) string {
	clause := ""
	if len(skills) > 0 {
		clause = " with expertise in " + strings.Join(skills, ", ")
	}
	return render(quizTemplate,
		"{{COUNT}}", strconv.Itoa(QuizQuestionCount),
		"{{INDUSTRY}}", orUnknown(industry),
		"{{SKILLS_CLAUSE}}", clause,
	)
}

// WrongAnswer is one incorrectly answered quiz question.
type WrongAnswer struct {
	Question      string
	CorrectAnswer string
	UserAnswer    string
}

// ImprovementTip renders the markdown-mode improvement tip prompt.
func ImprovementTip(industry string, wrong []WrongAnswer) string {
	blocks := make([]string, 0, len(wrong))
	for _, w := range wrong {
		blocks = append(blocks, fmt.Sprintf("Question: %q\nCorrect Answer: %q\nYour Answer: %q", w.Question, w.CorrectAnswer, w.UserAnswer))
	}
	return render(improvementTipTemplate,
		"{{INDUSTRY}}", orUnknown(industry),
		"{{WRONG_ANSWERS}}", strings.Join(blocks, "\n\n"),
	)
}

// ATSFeedback renders the json-mode resume feedback prompt.
func ATSFeedback(industry, resumeMarkdown string) string {
	return render(atsFeedbackTemplate,
		"{{INDUSTRY}}", orUnknown(industry),
		"{{RESUME}}", strings.TrimSpace(resumeMarkdown),
	)
}

// ImproveSection renders the markdown-mode prompt that rewrites one resume section.
func ImproveSection(industry, section, current string) string {
	return render(improveSectionTemplate,
		"{{SECTION}}", section,
		"{{INDUSTRY}}", orUnknown(industry),
		"{{CURRENT}}", strings.TrimSpace(current),
	)
}

// CourseLayoutInput are the user-chosen course parameters.
type CourseLayoutInput struct {
	Category     string
	Topic        string
	Level        string
	Duration     string
	ChapterCount int
}

// CourseLayout renders the json-mode course outline prompt.
func CourseLayout(in CourseLayoutInput) string {
	return render(courseLayoutTemplate,
		"{{CATEGORY}}", in.Category,
		"{{TOPIC}}", in.Topic,
		"{{LEVEL}}", in.Level,
		"{{DURATION}}", in.Duration,
		"{{CHAPTERS}}", strconv.Itoa(in.ChapterCount),
	)
}

// ChapterContent renders the json-mode prompt for one chapter's material.
func ChapterContent(courseName, chapterName, about string) string {
	return render(chapterContentTemplate,
		"{{CHAPTER}}", chapterName,
		"{{COURSE}}", courseName,
		"{{ABOUT}}", orUnknown(about),
	)
}

// IndustryInsight renders the json-mode market insight prompt.
func IndustryInsight(industry string) string {
	return render(industryInsightTemplate, "{{INDUSTRY}}", industry)
}

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return "not provided"
	}
	return strings.TrimSpace(s)
}
