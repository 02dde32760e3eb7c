package api

import (
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/intelliconnect/insightd/internal/extract"
)

// Per-route MIME allow-lists. Validation keys off the declared part type,
// matching the upload contract; the extractors themselves cope with bytes
// that do not match the label.
var (
	pdfMIMETypes   = []string{"application/pdf"}
	csvMIMETypes   = []string{"text/csv", "application/csv", "text/plain"}
	excelMIMETypes = []string{
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		"application/vnd.ms-excel",
	}
	powerPointMIMETypes = []string{
		"application/vnd.openxmlformats-officedocument.presentationml.presentation",
		"application/vnd.ms-powerpoint",
	}
)

const (
	errNoFile           = "No file uploaded"
	errNotPDF           = "File must be a PDF file"
	errNotCSV           = "File must be a CSV file"
	errNotExcel         = "File must be an Excel file (.xlsx or .xls)"
	errNotPowerPoint    = "File must be a PowerPoint file (.pptx or .ppt)"
	errUnreadableUpload = "Could not read uploaded file"
)

// readUpload pulls the single "file" part into memory after checking its
// declared MIME type against the route's allow-list.
func (s *Server) readUpload(c echo.Context, allowed []string, mismatchMsg string) (extract.Document, error) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return extract.Document{}, NewBadRequestError(errNoFile)
	}

	mimeType := partMIMEType(fileHeader)
	if !mimeAllowed(mimeType, allowed) {
		return extract.Document{}, NewBadRequestError(mismatchMsg)
	}

	src, err := fileHeader.Open()
	if err != nil {
		return extract.Document{}, NewBadRequestError(errUnreadableUpload)
	}
	defer src.Close()

	raw, err := io.ReadAll(src)
	if err != nil {
		return extract.Document{}, NewBadRequestError(errUnreadableUpload)
	}

	return extract.NewDocument(fileHeader.Filename, mimeType, raw), nil
}

func partMIMEType(fh *multipart.FileHeader) string {
	ct := fh.Header.Get("Content-Type")
	if idx := strings.IndexByte(ct, ';'); idx >= 0 {
		ct = ct[:idx]
	}
	return strings.TrimSpace(strings.ToLower(ct))
}

func mimeAllowed(mimeType string, allowed []string) bool {
	for _, a := range allowed {
		if mimeType == a {
			return true
		}
	}
	return false
}

// PDFInfo is the info block of the extract-pdf response.
type PDFInfo struct {
	Pages               int    `json:"pages"`
	FileSize            int    `json:"fileSize"`
	FileName            string `json:"fileName"`
	Title               string `json:"title,omitempty"`
	Author              string `json:"author,omitempty"`
	ExtractionMethod    string `json:"extractionMethod"`
	CharactersExtracted int    `json:"charactersExtracted"`
}

// PDFMetadata flags how much content the extraction recovered.
type PDFMetadata struct {
	ExtractedContent bool `json:"extractedContent"`
	LimitedContent   bool `json:"limitedContent"`
}

// ExtractPDFResponse is the body of POST /api/analysis/extract-pdf.
type ExtractPDFResponse struct {
	Text     string      `json:"text"`
	Success  bool        `json:"success"`
	Info     PDFInfo     `json:"info"`
	Metadata PDFMetadata `json:"metadata"`
}

func (s *Server) handleExtractPDF(c echo.Context) error {
	doc, err := s.readUpload(c, pdfMIMETypes, errNotPDF)
	if err != nil {
		return err
	}

	res := s.pdf.Extract(c.Request().Context(), doc)
	s.metrics.ObserveExtraction(string(res.Format), res.Method, res.Succeeded)

	info := PDFInfo{
		FileSize:            doc.SizeBytes,
		FileName:            doc.FileName,
		ExtractionMethod:    res.Method,
		CharactersExtracted: res.Characters,
		Pages:               res.Units,
	}
	if res.PDF != nil {
		info.Pages = res.PDF.Pages
		info.Title = res.PDF.Title
		info.Author = res.PDF.Author
	}

	return c.JSON(http.StatusOK, ExtractPDFResponse{
		Text:    res.Text,
		Success: res.Succeeded,
		Info:    info,
		Metadata: PDFMetadata{
			ExtractedContent: res.Succeeded,
			LimitedContent:   res.Limited,
		},
	})
}

// CSVInfo is the info block of the extract-csv response.
type CSVInfo struct {
	Headers        []string `json:"headers"`
	DataRows       int      `json:"dataRows"`
	DataPoints     int      `json:"dataPoints"`
	NumericColumns []string `json:"numericColumns,omitempty"`
	FileSize       int      `json:"fileSize"`
	FileName       string   `json:"fileName"`
}

// ExtractCSVResponse is the body of POST /api/analysis/extract-csv.
type ExtractCSVResponse struct {
	Text    string  `json:"text"`
	Success bool    `json:"success"`
	Info    CSVInfo `json:"info"`
}

func (s *Server) handleExtractCSV(c echo.Context) error {
	doc, err := s.readUpload(c, csvMIMETypes, errNotCSV)
	if err != nil {
		return err
	}

	res := s.csv.Extract(c.Request().Context(), doc)
	s.metrics.ObserveExtraction(string(res.Format), res.Method, res.Succeeded)

	info := CSVInfo{FileSize: doc.SizeBytes, FileName: doc.FileName}
	if res.CSV != nil {
		info.Headers = res.CSV.Headers
		info.DataRows = res.CSV.DataRows
		info.DataPoints = res.CSV.DataPoints
		info.NumericColumns = res.CSV.NumericColumns
	}

	return c.JSON(http.StatusOK, ExtractCSVResponse{
		Text:    res.Text,
		Success: res.Succeeded,
		Info:    info,
	})
}

// ExcelInfo is the info block of the extract-excel response.
type ExcelInfo struct {
	Sheets     []extract.SheetDetails `json:"sheets"`
	TotalCells int                    `json:"totalCells"`
	Stats      *extract.NumericStats  `json:"stats,omitempty"`
	FileSize   int                    `json:"fileSize"`
	FileName   string                 `json:"fileName"`
}

// ExtractExcelResponse is the body of POST /api/analysis/extract-excel.
type ExtractExcelResponse struct {
	Text    string    `json:"text"`
	Success bool      `json:"success"`
	Info    ExcelInfo `json:"info"`
}

func (s *Server) handleExtractExcel(c echo.Context) error {
	doc, err := s.readUpload(c, excelMIMETypes, errNotExcel)
	if err != nil {
		return err
	}

	res := s.excel.Extract(c.Request().Context(), doc)
	s.metrics.ObserveExtraction(string(res.Format), res.Method, res.Succeeded)

	info := ExcelInfo{FileSize: doc.SizeBytes, FileName: doc.FileName}
	if res.Excel != nil {
		info.Sheets = res.Excel.Sheets
		info.TotalCells = res.Excel.TotalCells
		info.Stats = res.Excel.Stats
	}

	return c.JSON(http.StatusOK, ExtractExcelResponse{
		Text:    res.Text,
		Success: res.Succeeded,
		Info:    info,
	})
}

// PowerPointInfo is the info block of the extract-powerpoint response.
type PowerPointInfo struct {
	Slides   int    `json:"slides"`
	Method   string `json:"method"`
	FileSize int    `json:"fileSize"`
	FileName string `json:"fileName"`
}

// ExtractPowerPointResponse is the body of POST /api/analysis/extract-powerpoint.
type ExtractPowerPointResponse struct {
	Text     string         `json:"text"`
	Success  bool           `json:"success"`
	Fallback bool           `json:"fallback,omitempty"`
	Info     PowerPointInfo `json:"info"`
}

func (s *Server) handleExtractPowerPoint(c echo.Context) error {
	doc, err := s.readUpload(c, powerPointMIMETypes, errNotPowerPoint)
	if err != nil {
		return err
	}

	res, runErr := s.slides.Run(c.Request().Context(), doc)
	if runErr != nil {
		// The chain's terminal strategy always yields guidance text, so a
		// hard error here means the chain itself is misconfigured.
		return NewInternalError("presentation extraction failed", runErr)
	}
	s.metrics.ObserveExtraction(string(res.Format), res.Method, res.Succeeded)

	info := PowerPointInfo{
		Method:   res.Method,
		FileSize: doc.SizeBytes,
		FileName: doc.FileName,
	}
	if res.Slides != nil {
		info.Slides = res.Slides.Slides
	}

	return c.JSON(http.StatusOK, ExtractPowerPointResponse{
		Text:     res.Text,
		Success:  res.Succeeded,
		Fallback: res.Limited,
		Info:     info,
	})
}
