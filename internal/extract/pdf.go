package extract

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"go.uber.org/zap"

	"github.com/intelliconnect/insightd/internal/logging"
)

// minPDFTextLength is the threshold below which a PDF is treated as having
// limited extractable content (scanned or image-based documents).
const minPDFTextLength = 10

// PDFExtractor extracts page text and document metadata from PDF bytes.
//
// A parse failure never propagates as an error: the result instead carries
// remediation guidance with Succeeded=false, so the API always has a
// user-facing message to return.
type PDFExtractor struct {
	logger *logging.Logger
}

// NewPDFExtractor creates a PDF extractor.
func NewPDFExtractor(logger *logging.Logger) *PDFExtractor {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &PDFExtractor{logger: logger}
}

// Extract converts PDF bytes into normalized text.
func (e *PDFExtractor) Extract(ctx context.Context, doc Document) Result {
	pageCount := e.pageCount(doc.RawBytes)

	text, details, err := readPDFText(doc.RawBytes)
	if err != nil {
		e.logger.Warn(ctx, "pdf parse failed",
			zap.String("file", doc.FileName),
			zap.Error(err),
		)
		return Result{
			Format: FormatPDF,
			Method: "ledongthuc",
			Units:  pageCount,
			Text: fmt.Sprintf(
				"Unable to extract text from %q. The file may be corrupted, password-protected, or use an unsupported encoding. "+
					"Try re-exporting the PDF from its source application, or convert it to a text format before uploading.",
				doc.FileName),
			Succeeded: false,
			PDF:       &PDFDetails{Pages: pageCount},
		}
	}

	if pageCount == 0 && details.Pages > 0 {
		pageCount = details.Pages
	}
	details.Pages = pageCount

	text = cleanText(text)
	res := Result{
		Format:     FormatPDF,
		Method:     "ledongthuc",
		Units:      pageCount,
		Text:       text,
		Characters: len(text),
		Succeeded:  true,
		PDF:        details,
	}

	if len(strings.TrimSpace(text)) < minPDFTextLength {
		res.Limited = true
		res.Text = fmt.Sprintf(
			"The document %q contains very little extractable text (%d pages scanned). "+
				"It may consist of images or scanned pages. Consider running OCR on the file, "+
				"or describe its contents in your question so the analysis can still help.",
			doc.FileName, pageCount)
		res.Characters = len(res.Text)
	}

	return res
}

// pageCount reads the page count with relaxed validation; a failure here is
// non-fatal because the text reader keeps its own count.
func (e *PDFExtractor) pageCount(raw []byte) int {
	cfg := model.NewDefaultConfiguration()
	cfg.ValidationMode = model.ValidationRelaxed

	n, err := api.PageCount(bytes.NewReader(raw), cfg)
	if err != nil {
		return 0
	}
	return n
}

// readPDFText walks every page and concatenates its plain text. The reader
// panics on some malformed files, so the panic is converted to an error.
func readPDFText(raw []byte) (text string, details *PDFDetails, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf reader panic: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return "", nil, fmt.Errorf("open pdf: %w", err)
	}

	details = &PDFDetails{Pages: r.NumPage()}
	if info := r.Trailer().Key("Info"); !info.IsNull() {
		details.Title = pdfString(info.Key("Title"))
		details.Author = pdfString(info.Key("Author"))
	}

	var sb strings.Builder
	fonts := make(map[string]*pdf.Font)
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, perr := page.GetPlainText(fonts)
		if perr != nil {
			continue
		}
		sb.WriteString(pageText)
		sb.WriteString("\n")
	}

	return sb.String(), details, nil
}

func pdfString(v pdf.Value) string {
	if v.Kind() != pdf.String {
		return ""
	}
	return strings.TrimSpace(v.RawString())
}

var (
	wsRun      = regexp.MustCompile(`[ \t]+`)
	blankLines = regexp.MustCompile(`\n{3,}`)
)

// cleanText squeezes whitespace runs and excessive blank lines out of
// extracted text.
func cleanText(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = wsRun.ReplaceAllString(s, " ")
	s = blankLines.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}
