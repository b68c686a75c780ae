package resumedoc

import (
	"regexp"
	"strings"
)

// Section is one top-level heading of a markdown resume and the text under it.
type Section struct {
	Heading string
	Body    string
}

var bulletRe = regexp.MustCompile(`^\s*(?:[-+•]\s*|\*\s+)`)

// Only "#" and "##" start a new section; "###" entries stay inside the body.
var sectionHeadingRe = regexp.MustCompile(`^#{1,2}(?:[ \t]+(.*))?$`)

// SplitSections breaks markdown into (heading, body) pairs in document order.
// Text before the first heading is dropped. Bodies are whitespace-trimmed, so
// consecutive headings produce sections with an empty body.
func SplitSections(markdown string) []Section {
	if strings.TrimSpace(markdown) == "" {
		return nil
	}

	var (
		sections []Section
		current  *Section
		body     strings.Builder
	)

	flush := func() {
		if current == nil {
			return
		}
		current.Body = strings.TrimSpace(body.String())
		sections = append(sections, *current)
		body.Reset()
	}

	lines := strings.Split(strings.ReplaceAll(markdown, "\r\n", "\n"), "\n")
	for _, line := range lines {
		if m := sectionHeadingRe.FindStringSubmatch(strings.TrimRight(line, " \t")); m != nil {
			flush()
			current = &Section{Heading: strings.TrimSpace(m[1])}
			continue
		}
		if current == nil {
			continue
		}
		body.WriteString(line)
		body.WriteByte('\n')
	}
	flush()

	return sections
}

// FindSection returns the body of the first section whose heading matches one
// of names, compared case-insensitively. Missing sections return "".
func FindSection(sections []Section, names ...string) string {
	for _, name := range names {
		for _, s := range sections {
			if strings.EqualFold(s.Heading, strings.TrimSpace(name)) {
				return s.Body
			}
		}
	}
	return ""
}

// BulletItems splits a section body into list items, stripping leading
// "-", "*" or "+" markers. Blank lines are skipped.
func BulletItems(body string) []string {
	var items []string
	for _, line := range strings.Split(body, "\n") {
		item := strings.TrimSpace(bulletRe.ReplaceAllString(line, ""))
		if item == "" {
			continue
		}
		items = append(items, item)
	}
	return items
}
