package domain

import (
	"html/template"
	"strings"
)

// LineKind classifies one formatted suggestion line.
type LineKind int

const (
	LineParagraph LineKind = iota
	LineHeading
	LineBullet
)

// SuggestionLine is one non-blank line of formatted suggestion text.
type SuggestionLine struct {
	Kind LineKind
	Text string
}

// FormatSuggestions splits suggestion text into headings, bullets, and
// paragraphs. A line ending in ':' is a heading, a line starting with '-' or
// '•' is a bullet with the marker stripped, any other non-blank line is a
// paragraph. Blank lines are dropped.
func FormatSuggestions(text string) []SuggestionLine {
	var lines []SuggestionLine
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
			continue
		case strings.HasSuffix(trimmed, ":"):
			lines = append(lines, SuggestionLine{Kind: LineHeading, Text: trimmed})
		case strings.HasPrefix(trimmed, "-"):
			lines = append(lines, SuggestionLine{Kind: LineBullet, Text: strings.TrimSpace(strings.TrimPrefix(trimmed, "-"))})
		case strings.HasPrefix(trimmed, "•"):
			lines = append(lines, SuggestionLine{Kind: LineBullet, Text: strings.TrimSpace(strings.TrimPrefix(trimmed, "•"))})
		default:
			lines = append(lines, SuggestionLine{Kind: LineParagraph, Text: trimmed})
		}
	}
	return lines
}

// SuggestionsHTML renders formatted suggestion text as escaped HTML.
func SuggestionsHTML(text string) template.HTML {
	var b strings.Builder
	for _, l := range FormatSuggestions(text) {
		esc := template.HTMLEscapeString(l.Text)
		switch l.Kind {
		case LineHeading:
			b.WriteString(`<h4 class="font-bold text-lg mt-4 mb-2 text-gray-800">` + esc + `</h4>`)
		case LineBullet:
			b.WriteString(`<li class="ml-4 text-gray-700">` + esc + `</li>`)
		default:
			b.WriteString(`<p class="text-gray-700 mb-2">` + esc + `</p>`)
		}
	}
	return template.HTML(b.String()) //nolint:gosec // every fragment is escaped above
}
