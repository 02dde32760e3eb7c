// Package extract converts uploaded document bytes into a normalized text
// representation. Each format has its own extractor; formats with unreliable
// parsers (PowerPoint) run an ordered chain of strategies and degrade
// gracefully instead of failing outright, because the downstream consumers
// (heuristic analyzer, LLM bridge) can work with partial text.
package extract

import "fmt"

// Format identifies a supported document format.
type Format string

const (
	FormatPDF        Format = "pdf"
	FormatCSV        Format = "csv"
	FormatExcel      Format = "excel"
	FormatPowerPoint Format = "powerpoint"
)

// Document is an uploaded file held in memory for the duration of a request.
type Document struct {
	FileName  string
	MimeType  string
	SizeBytes int
	RawBytes  []byte
}

// NewDocument builds a Document from upload fields.
func NewDocument(fileName, mimeType string, raw []byte) Document {
	return Document{
		FileName:  fileName,
		MimeType:  mimeType,
		SizeBytes: len(raw),
		RawBytes:  raw,
	}
}

// Result is the normalized output of an extractor.
type Result struct {
	Text       string `json:"text"`
	Format     Format `json:"format"`
	Method     string `json:"method"`
	Units      int    `json:"units"` // pages, sheets, or slides
	Characters int    `json:"characters"`
	Succeeded  bool   `json:"succeeded"`

	// Limited is set when the parser ran fine but found almost no text
	// (scanned PDFs, image-only slides). Text then carries guidance
	// rather than content so the caller always has something to show.
	Limited bool `json:"limited,omitempty"`

	PDF    *PDFDetails   `json:"pdf,omitempty"`
	CSV    *CSVDetails   `json:"csv,omitempty"`
	Excel  *ExcelDetails `json:"excel,omitempty"`
	Slides *SlideDetails `json:"slides,omitempty"`
}

// PDFDetails carries PDF-specific metadata.
type PDFDetails struct {
	Pages  int    `json:"pages"`
	Title  string `json:"title,omitempty"`
	Author string `json:"author,omitempty"`
}

// CSVDetails carries CSV-specific metadata.
type CSVDetails struct {
	Headers        []string `json:"headers"`
	DataRows       int      `json:"dataRows"`
	DataPoints     int      `json:"dataPoints"`
	NumericColumns []string `json:"numericColumns,omitempty"`
}

// ExcelDetails carries workbook-wide metadata.
type ExcelDetails struct {
	Sheets     []SheetDetails `json:"sheets"`
	TotalCells int            `json:"totalCells"`
	Stats      *NumericStats  `json:"stats,omitempty"`
}

// SheetDetails describes a single sheet's declared dimensions.
type SheetDetails struct {
	Name    string `json:"name"`
	Rows    int    `json:"rows"`
	Columns int    `json:"columns"`
}

// NumericStats aggregates every numeric-coercible cell in a workbook.
type NumericStats struct {
	Count   int     `json:"count"`
	Sum     float64 `json:"sum"`
	Average float64 `json:"average"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
}

// SlideDetails carries PowerPoint-specific metadata.
type SlideDetails struct {
	Slides int `json:"slides"`
}

// Strategy is one way of turning document bytes into a Result. Strategies
// are tried in order by a Chain; returning an error hands off to the next.
type Strategy struct {
	Name    string
	Extract func(doc Document) (Result, error)
}

// Error describes a failed extraction attempt with enough context for a
// user-facing remediation message.
type Error struct {
	Format   Format
	Strategy string
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s extraction failed (%s): %v", e.Format, e.Strategy, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
