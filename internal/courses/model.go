package courses

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	MinChapters = 1
	MaxChapters = 20
)

var errEmptyOutline = errors.New("layout has no chapters")

// Levels accepted for a course.
const (
	LevelBeginner     = "Beginner"
	LevelIntermediate = "Intermediate"
	LevelAdvanced     = "Advanced"
)

// NormalizeLevel returns the canonical spelling of level, or "" when unknown.
func NormalizeLevel(level string) string {
	for _, l := range []string{LevelBeginner, LevelIntermediate, LevelAdvanced} {
		if strings.EqualFold(strings.TrimSpace(level), l) {
			return l
		}
	}
	return ""
}

// ChapterOutline is one entry of a generated course layout.
type ChapterOutline struct {
	ChapterName string `json:"chapterName"`
	About       string `json:"about"`
	Duration    string `json:"duration"`
}

// Layout is the generated course outline. It is stored as-is.
type Layout struct {
	CourseName   string           `json:"courseName"`
	Description  string           `json:"description"`
	Category     string           `json:"category"`
	Topic        string           `json:"topic"`
	Level        string           `json:"level"`
	Duration     string           `json:"duration"`
	NoOfChapters looseInt         `json:"noOfChapters"`
	Chapters     []ChapterOutline `json:"chapters"`
}

// Course is owned by its creator and readable by anyone once published.
type Course struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Category     string    `json:"category"`
	Level        string    `json:"level"`
	IncludeVideo bool      `json:"includeVideo"`
	Layout       Layout    `json:"courseOutput"`
	CreatedBy    string    `json:"createdBy"`
	Publish      bool      `json:"publish"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
	Chapters     []Chapter `json:"chapters"`
}

// Chapter is keyed by (CourseID, Position). Position is 1-based and dense.
type Chapter struct {
	ID        string          `json:"id"`
	CourseID  string          `json:"courseId"`
	Position  int             `json:"chapterId"`
	Content   json.RawMessage `json:"content"`
	VideoID   string          `json:"videoId,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// ChapterInput is one payload to reconcile at the position matching its index.
type ChapterInput struct {
	Content json.RawMessage `json:"content"`
	VideoID string          `json:"videoId"`
}

// OutlineInputs turns the layout's outline into chapter payloads whose content
// is the outline entry itself.
func (l Layout) OutlineInputs() ([]ChapterInput, error) {
	inputs := make([]ChapterInput, 0, len(l.Chapters))
	for _, ch := range l.Chapters {
		raw, err := json.Marshal(ch)
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, ChapterInput{Content: raw})
	}
	return inputs, nil
}

// looseInt accepts 5 or "5".
type looseInt int

func (n *looseInt) UnmarshalJSON(data []byte) error {
	var i int
	if err := json.Unmarshal(data, &i); err == nil {
		*n = looseInt(i)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		*n = looseInt(int(f))
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("expected a number")
	}
	if strings.TrimSpace(s) == "" {
		*n = 0
		return nil
	}
	i, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("expected a number, got %q", s)
	}
	*n = looseInt(i)
	return nil
}

// flexBool accepts true/false and the "Yes"/"No" strings older clients send.
type flexBool bool

func (b *flexBool) UnmarshalJSON(data []byte) error {
	var v bool
	if err := json.Unmarshal(data, &v); err == nil {
		*b = flexBool(v)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("includeVideo must be a boolean or Yes/No")
	}
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "true", "1":
		*b = true
	case "no", "false", "0", "":
		*b = false
	default:
		return fmt.Errorf("includeVideo must be a boolean or Yes/No, got %q", s)
	}
	return nil
}

func contentOrEmpty(raw []byte) json.RawMessage {
	if len(raw) == 0 {
		return json.RawMessage(`{}`)
	}
	return json.RawMessage(append([]byte(nil), raw...))
}

// checkOutline reports an outline that cannot seed chapters: no entries, or
// an entry without a name.
func (l Layout) checkOutline() error {
	if len(l.Chapters) == 0 {
		return errEmptyOutline
	}
	for i, ch := range l.Chapters {
		if strings.TrimSpace(ch.ChapterName) == "" {
			return fmt.Errorf("chapter %d needs a name", i+1)
		}
	}
	return nil
}
