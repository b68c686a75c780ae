package resumes

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Resume is the single markdown resume a user owns.
type Resume struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Content   string    `json:"content"`
	ATSScore  int       `json:"atsScore"`
	Feedback  string    `json:"feedback"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Feedback is the ATS review returned by the oracle.
type Feedback struct {
	Score           Score    `json:"score"`
	Feedback        string   `json:"feedback"`
	ImprovementTips []string `json:"improvementTips"`
}

// Score accepts 72, 72.5 or "72" and clamps to 0..100.
type Score int

func (s *Score) UnmarshalJSON(data []byte) error {
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		parsed, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(str), "%"), 64)
		if err != nil {
			return err
		}
		f = parsed
	}
	*s = Score(clampScore(int(f + 0.5)))
	return nil
}

func clampScore(n int) int {
	if n < 0 {
		return 0
	}
	if n > 100 {
		return 100
	}
	return n
}

// Combined joins feedback and tips into the stored feedback text.
func (f Feedback) Combined() string {
	text := strings.TrimSpace(f.Feedback)
	var tips []string
	for _, tip := range f.ImprovementTips {
		if t := strings.TrimSpace(tip); t != "" {
			tips = append(tips, "- "+t)
		}
	}
	if len(tips) == 0 {
		return text
	}
	return text + "\n\nKey Improvement Tips:\n" + strings.Join(tips, "\n")
}

// SaveResult is the persisted resume plus the fresh review.
type SaveResult struct {
	Resume   Resume `json:"resume"`
	ATSScore int    `json:"atsScore"`
	Feedback string `json:"feedback"`
	Fallback bool   `json:"fallback"`
}

// Section names accepted by Improve.
const (
	SectionSummary    = "summary"
	SectionExperience = "experience"
	SectionEducation  = "education"
	SectionProject    = "project"
)

func validSection(s string) bool {
	switch s {
	case SectionSummary, SectionExperience, SectionEducation, SectionProject:
		return true
	}
	return false
}
