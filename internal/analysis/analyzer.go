// Package analysis turns extracted document text into a Markdown report
// without calling any external inference service. It is pure string
// processing: a fixed rule table matched against lower-cased text.
package analysis

import (
	"fmt"
	"strings"
	"time"
)

const excerptLimit = 600

// Report is the analyzer's output: rendered Markdown plus the fixed
// follow-up suggestions for the document's file type.
type Report struct {
	Markdown    string
	Suggestions []string
	Matched     []string
}

// Analyzer evaluates a rule table in fixed order.
type Analyzer struct {
	rules []Rule
	now   func() time.Time
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithRules replaces the default rule table.
func WithRules(rules []Rule) Option {
	return func(a *Analyzer) { a.rules = rules }
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(a *Analyzer) { a.now = now }
}

// New creates an Analyzer with the default rule table.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{rules: defaultRules, now: time.Now}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze renders a report for the given text and question. It never fails:
// when no rule matches, the report carries the overview and excerpt alone.
func (a *Analyzer) Analyze(text, question, fileName, fileType string) Report {
	in := Input{
		Text:     strings.ToLower(text),
		Question: strings.ToLower(question),
		RawText:  text,
		FileName: fileName,
		FileType: strings.ToLower(fileType),
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# Analysis: %s\n\n", fileName)
	if strings.TrimSpace(question) != "" {
		fmt.Fprintf(&sb, "**Question:** %s\n\n", strings.TrimSpace(question))
	}
	fmt.Fprintf(&sb, "## Overview\n\nAnalyzed a %s document containing %d characters of extracted content.\n",
		displayType(in.FileType), len(text))

	var matched []string
	for _, rule := range a.rules {
		if !rule.Match(in) {
			continue
		}
		matched = append(matched, rule.Name)
		sb.WriteString("\n")
		sb.WriteString(strings.TrimSpace(rule.Section(in)))
		sb.WriteString("\n")
	}

	if ex := excerpt(text); ex != "" {
		sb.WriteString("\n## Content Excerpt\n\n")
		sb.WriteString(ex)
		sb.WriteString("\n")
	}

	fmt.Fprintf(&sb, "\n---\n*Generated %s*\n", a.now().UTC().Format(time.RFC3339))

	return Report{
		Markdown:    sb.String(),
		Suggestions: SuggestionsFor(fileType),
		Matched:     matched,
	}
}

func displayType(fileType string) string {
	switch fileType {
	case "csv":
		return "CSV"
	case "excel":
		return "spreadsheet"
	case "pdf":
		return "PDF"
	case "powerpoint":
		return "presentation"
	default:
		return "text"
	}
}

// excerpt returns the leading portion of the text, cut at a word boundary.
func excerpt(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	if len(text) <= excerptLimit {
		return text
	}
	cut := text[:excerptLimit]
	if idx := strings.LastIndexByte(cut, ' '); idx > excerptLimit/2 {
		cut = cut[:idx]
	}
	return cut + "..."
}
