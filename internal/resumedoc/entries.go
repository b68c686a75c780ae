package resumedoc

import (
	"fmt"
	"regexp"
	"strings"
)

// Entry is one dated sub-entry of an experience, education or project section.
type Entry struct {
	Title        string `json:"title"`
	Organization string `json:"organization"`
	StartDate    string `json:"startDate"`
	EndDate      string `json:"endDate"`
	Current      bool   `json:"current"`
	Description  string `json:"description"`
}

var entryRe = regexp.MustCompile(`^### ([^\n]+?) @ ([^\n]+?)\s+\*\*([^\n]+?)\s+-\s+([^\n]+?)\*\*\s+([\s\S]+)$`)

// ExtractEntries decomposes a section body into entries shaped as
//
//	### title @ organization
//	**start - end**
//
//	description
//
// Chunks that do not match (for example a missing date range) are skipped.
func ExtractEntries(body string) []Entry {
	var entries []Entry
	for _, chunk := range entryChunks(body) {
		m := entryRe.FindStringSubmatch(chunk)
		if m == nil {
			continue
		}
		desc := strings.TrimSpace(m[5])
		if desc == "" {
			continue
		}
		end := strings.TrimSpace(m[4])
		entries = append(entries, Entry{
			Title:        strings.TrimSpace(m[1]),
			Organization: strings.TrimSpace(m[2]),
			StartDate:    strings.TrimSpace(m[3]),
			EndDate:      end,
			Current:      strings.Contains(strings.ToLower(end), "present"),
			Description:  desc,
		})
	}
	return entries
}

func entryChunks(body string) []string {
	var (
		chunks []string
		cur    strings.Builder
		open   bool
	)
	for _, line := range strings.Split(strings.ReplaceAll(body, "\r\n", "\n"), "\n") {
		if strings.HasPrefix(line, "### ") {
			if open {
				chunks = append(chunks, strings.TrimSpace(cur.String()))
				cur.Reset()
			}
			open = true
		}
		if !open {
			continue
		}
		cur.WriteString(line)
		cur.WriteByte('\n')
	}
	if open {
		chunks = append(chunks, strings.TrimSpace(cur.String()))
	}
	return chunks
}

// EntriesToMarkdown renders entries under a "## sectionName" heading in the
// shape ExtractEntries reads back. It returns "" for no entries.
func EntriesToMarkdown(sectionName string, entries []Entry) string {
	if len(entries) == 0 {
		return ""
	}
	parts := make([]string, 0, len(entries))
	for _, e := range entries {
		end := e.EndDate
		if e.Current {
			end = "Present"
		}
		parts = append(parts, fmt.Sprintf("### %s @ %s\n**%s - %s**\n\n%s", e.Title, e.Organization, e.StartDate, end, e.Description))
	}
	return fmt.Sprintf("## %s\n\n%s", sectionName, strings.Join(parts, "\n\n"))
}

// ExperienceLine summarizes an entry as "title at org (start - end): first line".
func ExperienceLine(e Entry) string {
	first := e.Description
	if i := strings.IndexByte(first, '\n'); i >= 0 {
		first = first[:i]
	}
	return fmt.Sprintf("%s at %s (%s - %s): %s", e.Title, e.Organization, e.StartDate, e.EndDate, strings.TrimSpace(first))
}

// EducationLine summarizes an entry as "title at org (start - end)".
func EducationLine(e Entry) string {
	return fmt.Sprintf("%s at %s (%s - %s)", e.Title, e.Organization, e.StartDate, e.EndDate)
}
