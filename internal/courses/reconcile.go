package courses

import "github.com/google/uuid"

// WriteOp is what reconciliation does at one position.
type WriteOp string

const (
	OpCreate WriteOp = "created"
	OpUpdate WriteOp = "updated"
)

// ChapterWrite is one planned write. ID is the existing chapter for updates
// and a fresh id for creates.
type ChapterWrite struct {
	Op       WriteOp
	ID       string
	Position int
	Input    ChapterInput
}

// Plan is the full set of writes for one reconciliation.
type Plan struct {
	Writes []ChapterWrite
	// Prune holds ids of chapters positioned after the last input.
	Prune []string
	// Keep is the number of positions the course has after the plan applies.
	Keep int
}

// Count returns how many writes have op.
func (p Plan) Count(op WriteOp) int {
	n := 0
	for _, w := range p.Writes {
		if w.Op == op {
			n++
		}
	}
	return n
}

// PlanChapters maps inputs[i] to position i+1: the chapter already at that
// position is updated in place, otherwise one is created. Chapters past the
// last input are left alone unless prune is set.
func PlanChapters(existing []Chapter, inputs []ChapterInput, prune bool) Plan {
	byPosition := make(map[int]Chapter, len(existing))
	for _, ch := range existing {
		if _, dup := byPosition[ch.Position]; !dup {
			byPosition[ch.Position] = ch
		}
	}

	plan := Plan{Writes: make([]ChapterWrite, 0, len(inputs)), Keep: len(inputs)}
	for i, in := range inputs {
		pos := i + 1
		if ch, ok := byPosition[pos]; ok {
			plan.Writes = append(plan.Writes, ChapterWrite{Op: OpUpdate, ID: ch.ID, Position: pos, Input: in})
			continue
		}
		plan.Writes = append(plan.Writes, ChapterWrite{Op: OpCreate, ID: uuid.NewString(), Position: pos, Input: in})
	}

	for _, ch := range existing {
		if ch.Position <= len(inputs) {
			continue
		}
		if prune {
			plan.Prune = append(plan.Prune, ch.ID)
		} else if ch.Position > plan.Keep {
			plan.Keep = ch.Position
		}
	}
	return plan
}

// ReconcileOptions control what happens around the chapter writes.
type ReconcileOptions struct {
	Prune   bool
	Publish bool
	// Details, when set, replaces the course metadata in the same write.
	Details *CourseDetails
}

// CourseDetails is the editable part of a course row.
type CourseDetails struct {
	Name         string
	Category     string
	Level        string
	IncludeVideo bool
	Layout       Layout
}

// ReconcileResult reports what a reconciliation wrote.
type ReconcileResult struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Pruned  int `json:"pruned"`
}
