package analysis

import "strings"

// Rule pairs a predicate over the lower-cased document text and question
// with a section renderer. Rules are evaluated in table order so the report
// layout is stable.
type Rule struct {
	Name    string
	Match   func(in Input) bool
	Section func(in Input) string
}

// Input is the normalized material a rule sees. Text and Question are
// already lower-cased; RawText preserves the original casing for excerpts.
type Input struct {
	Text     string
	Question string
	RawText  string
	FileName string
	FileType string
}

func containsAny(s string, terms ...string) bool {
	for _, t := range terms {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}

// defaultRules is the fixed rule table. Adding a rule means adding an entry,
// not touching the report assembler.
var defaultRules = []Rule{
	{
		Name: "financial",
		Match: func(in Input) bool {
			return containsAny(in.Text, "budget", "cost", "expense", "profit", "margin", "forecast") ||
				containsAny(in.Question, "financial", "budget", "cost")
		},
		Section: func(in Input) string {
			return "## Financial Signals\n\n" +
				"The document contains financial terminology (budgets, costs, or margins). " +
				"Review the figures against your current planning cycle and flag any line items that deviate from forecast."
		},
	},
	{
		Name: "revenue",
		Match: func(in Input) bool {
			return containsAny(in.Text, "revenue", "sales", "income", "earnings") ||
				containsAny(in.Question, "revenue", "sales")
		},
		Section: func(in Input) string {
			return "## Revenue Highlights\n\n" +
				"Revenue-related content was detected. Compare the reported numbers period-over-period " +
				"and check whether growth is concentrated in specific segments or spread evenly."
		},
	},
	{
		Name: "business",
		Match: func(in Input) bool {
			return containsAny(in.Text, "strategy", "market", "customer", "stakeholder", "initiative", "roadmap") ||
				containsAny(in.Question, "strategy", "market", "business")
		},
		Section: func(in Input) string {
			return "## Business Context\n\n" +
				"Strategic or market-facing language appears in the document. " +
				"Consider which stakeholders are affected and whether the stated initiatives have owners and timelines."
		},
	},
	{
		Name: "trends",
		Match: func(in Input) bool {
			return containsAny(in.Question, "trend", "pattern", "over time", "growth", "decline", "compare") ||
				containsAny(in.Text, "trend", "quarter-over-quarter", "year-over-year")
		},
		Section: func(in Input) string {
			return "## Trends and Patterns\n\n" +
				"You asked about trends. Look for repeated measures across time periods in the data; " +
				"numeric columns and per-period rows are the best candidates for a trend line."
		},
	},
	{
		Name: "risk",
		Match: func(in Input) bool {
			return containsAny(in.Text, "risk", "issue", "blocker", "delay", "mitigation") ||
				containsAny(in.Question, "risk", "problem")
		},
		Section: func(in Input) string {
			return "## Risks\n\n" +
				"Risk or issue language was found. Verify that each named risk has a mitigation and an owner, " +
				"and that blockers are escalated rather than buried in status text."
		},
	},
}

// suggestionsByType maps a file type to its fixed follow-up questions.
// Suggestions are keyed by type only, never by content.
var suggestionsByType = map[string][]string{
	"csv": {
		"Which columns show the strongest trend over time?",
		"Summarize the key statistics for each numeric column",
		"Are there any outliers or anomalies in this data?",
		"What does this data suggest about overall performance?",
	},
	"excel": {
		"Summarize the main findings across all sheets",
		"Which sheet contains the most important metrics?",
		"Compare the numeric totals between sheets",
		"What trends can you identify in the numbers?",
	},
	"pdf": {
		"What are the key takeaways from this document?",
		"Summarize the main sections in a few bullet points",
		"Are there any action items or decisions mentioned?",
		"What risks or concerns does this document raise?",
	},
	"powerpoint": {
		"What is the main message of this presentation?",
		"Summarize each slide in one sentence",
		"What decisions or next steps does the deck propose?",
		"Which slides contain the most important data?",
	},
}

var defaultSuggestions = []string{
	"What are the most important points in this document?",
	"Summarize this document in three bullet points",
	"What questions should I ask about this content?",
}

// SuggestionsFor returns the follow-up questions for a file type, falling
// back to a generic set for unknown types.
func SuggestionsFor(fileType string) []string {
	if s, ok := suggestionsByType[strings.ToLower(fileType)]; ok {
		out := make([]string, len(s))
		copy(out, s)
		return out
	}
	out := make([]string, len(defaultSuggestions))
	copy(out, defaultSuggestions)
	return out
}
