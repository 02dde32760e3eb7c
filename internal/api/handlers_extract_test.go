package api

import (
	"archive/zip"
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func postUpload(t *testing.T, s *Server, path, fileName, mimeType string, content []byte) *httptest.ResponseRecorder {
	t.Helper()
	body, contentType := multipartBody(t, fileName, mimeType, content)
	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", contentType)
	return doRequest(s, req)
}

// minimalPDF assembles a one-page PDF drawing the given string, computing
// xref offsets while writing.
func minimalPDF(t *testing.T, text string) []byte {
	t.Helper()

	stream := fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", text)
	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 4 0 R >> >> /Contents 5 0 R >>",
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream),
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, 0, len(objects))
	for i, obj := range objects {
		offsets = append(offsets, buf.Len())
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}

func TestExtractRoutes_MIMEValidation(t *testing.T) {
	s := setupTestServer(t)

	tests := []struct {
		path    string
		wantErr string
	}{
		{"/api/analysis/extract-pdf", "File must be a PDF file"},
		{"/api/analysis/extract-excel", "File must be an Excel file (.xlsx or .xls)"},
		{"/api/analysis/extract-powerpoint", "File must be a PowerPoint file (.pptx or .ppt)"},
		{"/api/analysis/extract-csv", "File must be a CSV file"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := postUpload(t, s, tt.path, "file.bin", "application/octet-stream", []byte("data"))

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			var body map[string]interface{}
			decodeJSON(t, rec, &body)
			assert.Equal(t, tt.wantErr, body["error"])
		})
	}
}

func TestExtractRoutes_MissingFile(t *testing.T) {
	s := setupTestServer(t)

	var buf bytes.Buffer
	req := httptest.NewRequest(http.MethodPost, "/api/analysis/extract-pdf", &buf)
	req.Header.Set("Content-Type", "multipart/form-data; boundary=empty")
	rec := doRequest(s, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var body map[string]interface{}
	decodeJSON(t, rec, &body)
	assert.Equal(t, "No file uploaded", body["error"])
}

func TestExtractCSV(t *testing.T) {
	s := setupTestServer(t)

	raw := []byte("region,revenue\nEMEA,1200\nAPAC,900\n")
	rec := postUpload(t, s, "/api/analysis/extract-csv", "sales.csv", "text/csv", raw)

	require.Equal(t, http.StatusOK, rec.Code)
	var body ExtractCSVResponse
	decodeJSON(t, rec, &body)

	assert.True(t, body.Success)
	assert.Equal(t, []string{"region", "revenue"}, body.Info.Headers)
	assert.Equal(t, 2, body.Info.DataRows)
	assert.Equal(t, 4, body.Info.DataPoints)
	assert.Equal(t, "sales.csv", body.Info.FileName)
	assert.Contains(t, body.Text, "EMEA,1200")
}

func TestExtractExcel(t *testing.T) {
	s := setupTestServer(t)

	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"value"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{1}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A3", &[]interface{}{2}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A4", &[]interface{}{3}))
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	require.NoError(t, f.Close())

	rec := postUpload(t, s, "/api/analysis/extract-excel", "numbers.xlsx",
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())

	require.Equal(t, http.StatusOK, rec.Code)
	var body ExtractExcelResponse
	decodeJSON(t, rec, &body)

	assert.True(t, body.Success)
	require.Len(t, body.Info.Sheets, 1)
	require.NotNil(t, body.Info.Stats)
	assert.InDelta(t, 6.0, body.Info.Stats.Sum, 1e-9)
	assert.InDelta(t, 2.0, body.Info.Stats.Average, 1e-9)
	assert.InDelta(t, 1.0, body.Info.Stats.Min, 1e-9)
	assert.InDelta(t, 3.0, body.Info.Stats.Max, 1e-9)
}

func TestExtractExcel_CorruptedStillHTTP200(t *testing.T) {
	s := setupTestServer(t)

	rec := postUpload(t, s, "/api/analysis/extract-excel", "broken.xlsx",
		"application/vnd.ms-excel", []byte("definitely not a workbook"))

	require.Equal(t, http.StatusOK, rec.Code)
	var body ExtractExcelResponse
	decodeJSON(t, rec, &body)
	assert.False(t, body.Success)
	assert.NotEmpty(t, body.Text)
}

func TestExtractPowerPoint(t *testing.T) {
	s := setupTestServer(t)

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for i, text := range []string{"Roadmap overview", "Budget ask"} {
		part, err := w.Create(fmt.Sprintf("ppt/slides/slide%d.xml", i+1))
		require.NoError(t, err)
		_, err = part.Write([]byte(fmt.Sprintf(
			`<p:sld xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"><p:cSld><p:spTree><p:sp><p:txBody><a:p><a:r><a:t>%s</a:t></a:r></a:p></p:txBody></p:sp></p:spTree></p:cSld></p:sld>`, text)))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	rec := postUpload(t, s, "/api/analysis/extract-powerpoint", "deck.pptx",
		"application/vnd.openxmlformats-officedocument.presentationml.presentation", buf.Bytes())

	require.Equal(t, http.StatusOK, rec.Code)
	var body ExtractPowerPointResponse
	decodeJSON(t, rec, &body)

	assert.True(t, body.Success)
	assert.Equal(t, 2, body.Info.Slides)
	assert.Contains(t, body.Text, "Roadmap overview")
	assert.Contains(t, body.Text, "Budget ask")
}

func TestExtractPowerPoint_GarbageNeverEmptyText(t *testing.T) {
	s := setupTestServer(t)

	rec := postUpload(t, s, "/api/analysis/extract-powerpoint", "junk.ppt",
		"application/vnd.ms-powerpoint", []byte{0x00, 0x01, 0x02})

	require.Equal(t, http.StatusOK, rec.Code)
	var body ExtractPowerPointResponse
	decodeJSON(t, rec, &body)
	assert.NotEmpty(t, body.Text)
}

func TestExtractPDF(t *testing.T) {
	s := setupTestServer(t)

	rec := postUpload(t, s, "/api/analysis/extract-pdf", "report.pdf",
		"application/pdf", minimalPDF(t, "Hello World"))

	require.Equal(t, http.StatusOK, rec.Code)
	var body ExtractPDFResponse
	decodeJSON(t, rec, &body)

	assert.True(t, body.Success)
	assert.True(t, body.Metadata.ExtractedContent)
	assert.False(t, body.Metadata.LimitedContent)
	assert.Contains(t, body.Text, "Hello World")
	assert.Equal(t, 1, body.Info.Pages)
	assert.Equal(t, "report.pdf", body.Info.FileName)
}

func TestExtractPDF_LimitedContent(t *testing.T) {
	s := setupTestServer(t)

	rec := postUpload(t, s, "/api/analysis/extract-pdf", "scan.pdf",
		"application/pdf", minimalPDF(t, "Hi"))

	require.Equal(t, http.StatusOK, rec.Code)
	var body ExtractPDFResponse
	decodeJSON(t, rec, &body)

	assert.True(t, body.Success)
	assert.True(t, body.Metadata.LimitedContent)
	assert.NotEmpty(t, body.Text)
}

func TestExtractPDF_CorruptedStillHTTP200(t *testing.T) {
	s := setupTestServer(t)

	rec := postUpload(t, s, "/api/analysis/extract-pdf", "broken.pdf",
		"application/pdf", []byte("%PDF-1.7 nope"))

	require.Equal(t, http.StatusOK, rec.Code)
	var body ExtractPDFResponse
	decodeJSON(t, rec, &body)
	assert.False(t, body.Success)
	assert.False(t, body.Metadata.ExtractedContent)
	assert.NotEmpty(t, body.Text)
	assert.Equal(t, "broken.pdf", body.Info.FileName)
}
