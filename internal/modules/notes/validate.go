package notes

import (
	"fmt"
	"strings"

	"github.com/studykit/core/internal/llm"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// canonicalSections are the H2 headings canonical notes must carry, in order.
var canonicalSections = []string{"BACKGROUND", "KEY POINTS", "SUMMARY"}

var markdown = goldmark.New()

// ValidateCanonicalNotes parses the generated notes and checks the H2
// structural contract: BACKGROUND, KEY POINTS and SUMMARY present in order,
// each with body content.
func ValidateCanonicalNotes(notes string) error {
	if strings.TrimSpace(notes) == "" {
		return &llm.IncompleteArtifactError{Reason: "notes are empty"}
	}

	source := []byte(notes)
	doc := markdown.Parser().Parse(text.NewReader(source))

	var (
		headings []string
		body     = map[string]bool{}
		current  string
	)
	for child := doc.FirstChild(); child != nil; child = child.NextSibling() {
		if h, ok := child.(*ast.Heading); ok && h.Level == 2 {
			current = strings.ToUpper(strings.TrimSpace(string(h.Text(source))))
			headings = append(headings, current)
			continue
		}
		if current != "" {
			body[current] = true
		}
	}

	cursor := 0
	for _, want := range canonicalSections {
		idx := -1
		for i := cursor; i < len(headings); i++ {
			if headings[i] == want {
				idx = i
				break
			}
		}
		if idx < 0 {
			return &llm.IncompleteArtifactError{Reason: fmt.Sprintf("notes are missing the %s section", want)}
		}
		if !body[want] {
			return &llm.IncompleteArtifactError{Reason: fmt.Sprintf("notes have an empty %s section", want)}
		}
		cursor = idx + 1
	}
	return nil
}
