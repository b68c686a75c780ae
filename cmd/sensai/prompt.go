package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"sensai-backend/internal/llm/prompts"
	"sensai-backend/internal/resumedoc"
)

// promptFlags holds every flag any task might read.
type promptFlags struct {
	industry    string
	skills      []string
	contentFile string
	section     string
	jobTitle    string
	company     string
	jobDesc     string
	fullName    string
	category    string
	topic       string
	level       string
	duration    string
	chapters    int
	course      string
	chapter     string
	about       string
}

//nolint:gochecknoglobals // Cobra boilerplate
var pf promptFlags

//nolint:gochecknoglobals // Cobra boilerplate
var promptRenderers = map[string]func(promptFlags) (string, error){
	prompts.TaskCoverLetter: func(f promptFlags) (string, error) {
		in := prompts.CoverLetterInput{
			FullName:       f.fullName,
			Industry:       f.industry,
			ProfileSkills:  f.skills,
			JobTitle:       f.jobTitle,
			CompanyName:    f.company,
			JobDescription: f.jobDesc,
		}
		if f.contentFile != "" {
			md, err := readContent(f.contentFile)
			if err != nil {
				return "", err
			}
			sections := resumedoc.Parse(md)
			in.ResumeSummary = sections.Summary
			in.ResumeSkills = sections.Skills
			in.ResumeExperience = sections.Experience
			in.ResumeEducation = sections.Education
		}
		return prompts.CoverLetter(in), nil
	},
	prompts.TaskQuiz: func(f promptFlags) (string, error) {
		return prompts.Quiz(f.industry, f.skills), nil
	},
	prompts.TaskATSFeedback: func(f promptFlags) (string, error) {
		md, err := readContent(f.contentFile)
		if err != nil {
			return "", err
		}
		return prompts.ATSFeedback(f.industry, md), nil
	},
	prompts.TaskImproveSection: func(f promptFlags) (string, error) {
		md, err := readContent(f.contentFile)
		if err != nil {
			return "", err
		}
		return prompts.ImproveSection(f.industry, f.section, md), nil
	},
	prompts.TaskCourseLayout: func(f promptFlags) (string, error) {
		return prompts.CourseLayout(prompts.CourseLayoutInput{
			Category:     f.category,
			Topic:        f.topic,
			Level:        f.level,
			Duration:     f.duration,
			ChapterCount: f.chapters,
		}), nil
	},
	prompts.TaskChapterContent: func(f promptFlags) (string, error) {
		return prompts.ChapterContent(f.course, f.chapter, f.about), nil
	},
	prompts.TaskIndustryInsight: func(f promptFlags) (string, error) {
		if strings.TrimSpace(f.industry) == "" {
			return "", errors.New("--industry is required")
		}
		return prompts.IndustryInsight(f.industry), nil
	},
}

//nolint:gochecknoglobals // Cobra boilerplate
var promptCmd = &cobra.Command{
	Use:   "prompt <task>",
	Short: "Render the prompt a feature would send to the model",
	Long: fmt.Sprintf(`Render a prompt from flags without calling any provider.

Tasks: %s

Example:
  sensai prompt course_layout --topic Go --category Programming --level Beginner --chapters 5
  sensai prompt ats_feedback --industry tech-software --content resume.md`, strings.Join(promptTasks(), ", ")),
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		render, ok := promptRenderers[args[0]]
		if !ok {
			return errors.Errorf("unknown task %q (want one of %s)", args[0], strings.Join(promptTasks(), ", "))
		}
		out, err := render(pf)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
		return err
	},
}

func promptTasks() []string {
	tasks := make([]string, 0, len(promptRenderers))
	for task := range promptRenderers {
		tasks = append(tasks, task)
	}
	sort.Strings(tasks)
	return tasks
}

func readContent(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", errors.New("--content is required for this task")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrapf(err, "read %s", path)
	}
	return string(data), nil
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	f := promptCmd.Flags()
	f.StringVar(&pf.industry, "industry", "", "user industry, e.g. tech-software")
	f.StringSliceVar(&pf.skills, "skills", nil, "comma-separated skills")
	f.StringVar(&pf.contentFile, "content", "", "markdown file with resume or section content")
	f.StringVar(&pf.section, "section", "summary", "resume section to improve")
	f.StringVar(&pf.jobTitle, "job-title", "", "cover letter job title")
	f.StringVar(&pf.company, "company", "", "cover letter company")
	f.StringVar(&pf.jobDesc, "job-description", "", "cover letter job description")
	f.StringVar(&pf.fullName, "name", "", "applicant name")
	f.StringVar(&pf.category, "category", "", "course category")
	f.StringVar(&pf.topic, "topic", "", "course topic")
	f.StringVar(&pf.level, "level", "Beginner", "course level")
	f.StringVar(&pf.duration, "duration", "", "course duration")
	f.IntVar(&pf.chapters, "chapters", 5, "number of course chapters")
	f.StringVar(&pf.course, "course", "", "course name for chapter content")
	f.StringVar(&pf.chapter, "chapter", "", "chapter name for chapter content")
	f.StringVar(&pf.about, "about", "", "chapter summary for chapter content")
}
