package extract

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// CSVExtractor turns delimited text into a normalized summary: headers,
// sampled rows, and numeric column detection by coercion.
type CSVExtractor struct {
	sampleRows int
}

// NewCSVExtractor creates a CSV extractor. sampleRows controls how many data
// rows are included verbatim in the normalized text.
func NewCSVExtractor(sampleRows int) *CSVExtractor {
	if sampleRows < 1 {
		sampleRows = 5
	}
	return &CSVExtractor{sampleRows: sampleRows}
}

// Extract parses CSV bytes. An empty file yields Succeeded=false with
// guidance text rather than an error.
func (e *CSVExtractor) Extract(ctx context.Context, doc Document) Result {
	lines := splitCSVLines(string(doc.RawBytes))
	if len(lines) == 0 {
		return Result{
			Format:    FormatCSV,
			Method:    "delimited",
			Text:      fmt.Sprintf("The file %q appears to be empty. Upload a CSV with a header row and at least one data row.", doc.FileName),
			Succeeded: false,
		}
	}

	headers := splitCSVRecord(lines[0])
	dataRows := lines[1:]

	details := &CSVDetails{
		Headers:    headers,
		DataRows:   len(dataRows),
		DataPoints: len(headers) * len(dataRows),
	}

	sample := dataRows
	if len(sample) > e.sampleRows {
		sample = sample[:e.sampleRows]
	}

	details.NumericColumns = detectNumericColumns(headers, sample)

	var sb strings.Builder
	fmt.Fprintf(&sb, "CSV file: %s\n", doc.FileName)
	fmt.Fprintf(&sb, "Columns (%d): %s\n", len(headers), strings.Join(headers, ", "))
	fmt.Fprintf(&sb, "Data rows: %d\n", len(dataRows))
	fmt.Fprintf(&sb, "Data points: %d\n", details.DataPoints)
	if len(details.NumericColumns) > 0 {
		fmt.Fprintf(&sb, "Numeric columns: %s\n", strings.Join(details.NumericColumns, ", "))
	}
	sb.WriteString("\nSample rows:\n")
	sb.WriteString(lines[0])
	sb.WriteString("\n")
	for _, row := range sample {
		sb.WriteString(row)
		sb.WriteString("\n")
	}

	text := strings.TrimRight(sb.String(), "\n")
	return Result{
		Format:     FormatCSV,
		Method:     "delimited",
		Units:      1,
		Text:       text,
		Characters: len(text),
		Succeeded:  true,
		CSV:        details,
	}
}

// splitCSVLines splits on newlines and drops blank trailing lines.
func splitCSVLines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")

	var lines []string
	for _, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

// splitCSVRecord splits a single record on commas, honoring double quotes.
func splitCSVRecord(line string) []string {
	var (
		fields  []string
		current strings.Builder
		quoted  bool
	)
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == '"':
			if quoted && i+1 < len(line) && line[i+1] == '"' {
				current.WriteByte('"')
				i++
			} else {
				quoted = !quoted
			}
		case c == ',' && !quoted:
			fields = append(fields, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteByte(c)
		}
	}
	fields = append(fields, strings.TrimSpace(current.String()))
	return fields
}

// detectNumericColumns returns headers whose sampled values all coerce to
// numbers. Columns with no sampled values are not numeric.
func detectNumericColumns(headers []string, sample []string) []string {
	if len(sample) == 0 {
		return nil
	}

	numeric := make([]bool, len(headers))
	seen := make([]bool, len(headers))
	for i := range numeric {
		numeric[i] = true
	}

	for _, row := range sample {
		fields := splitCSVRecord(row)
		for i := range headers {
			if i >= len(fields) || strings.TrimSpace(fields[i]) == "" {
				continue
			}
			seen[i] = true
			if _, ok := coerceNumber(fields[i]); !ok {
				numeric[i] = false
			}
		}
	}

	var cols []string
	for i, h := range headers {
		if seen[i] && numeric[i] {
			cols = append(cols, h)
		}
	}
	return cols
}

// coerceNumber parses a cell as a number, tolerating currency symbols,
// thousands separators, and percent signs.
func coerceNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, "$€£%")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
