package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intelliconnect/insightd/internal/logging"
)

const slideTemplate = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<p:sld xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main">
<p:cSld><p:spTree><p:sp><p:txBody><a:p><a:r><a:t>%s</a:t></a:r></a:p></p:txBody></p:sp></p:spTree></p:cSld>
</p:sld>`

func buildPresentation(t *testing.T, slideTexts ...string) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for i, text := range slideTexts {
		f, err := w.Create(fmt.Sprintf("ppt/slides/slide%d.xml", i+1))
		require.NoError(t, err)
		_, err = f.Write([]byte(fmt.Sprintf(slideTemplate, text)))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestPowerPointChain_StructuredExtraction(t *testing.T) {
	chain, err := NewPowerPointChain(logging.NewNop(), 15)
	require.NoError(t, err)

	raw := buildPresentation(t, "Q3 Business Review", "Revenue grew 14 percent")
	res, err := chain.Run(context.Background(), NewDocument("deck.pptx", "application/vnd.openxmlformats-officedocument.presentationml.presentation", raw))

	require.NoError(t, err)
	assert.True(t, res.Succeeded)
	assert.Equal(t, "slide-xml", res.Method)
	assert.Equal(t, FormatPowerPoint, res.Format)
	require.NotNil(t, res.Slides)
	assert.Equal(t, 2, res.Slides.Slides)
	assert.Contains(t, res.Text, "--- Slide 1 ---")
	assert.Contains(t, res.Text, "Q3 Business Review")
	assert.Contains(t, res.Text, "--- Slide 2 ---")
	assert.Contains(t, res.Text, "Revenue grew 14 percent")
}

func TestPowerPointChain_SlideOrdering(t *testing.T) {
	// slide10 must come after slide2, not between slide1 and slide2.
	var texts []string
	for i := 1; i <= 11; i++ {
		texts = append(texts, fmt.Sprintf("slide number %d", i))
	}
	raw := buildPresentation(t, texts...)

	chain, err := NewPowerPointChain(logging.NewNop(), 15)
	require.NoError(t, err)
	res, err := chain.Run(context.Background(), NewDocument("long.pptx", "", raw))

	require.NoError(t, err)
	idx2 := bytes.Index([]byte(res.Text), []byte("slide number 2"))
	idx10 := bytes.Index([]byte(res.Text), []byte("slide number 10"))
	require.GreaterOrEqual(t, idx2, 0)
	require.GreaterOrEqual(t, idx10, 0)
	assert.Less(t, idx2, idx10)
}

func TestPowerPointChain_TextRunFallback(t *testing.T) {
	// Malformed XML that still carries <a:t> runs defeats the structured
	// parse but not the regex scan.
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	f, err := w.Create("ppt/slides/slide1.xml")
	require.NoError(t, err)
	_, err = f.Write([]byte(`<p:sld><unclosed><a:t>Milestone recap &amp; next steps</a:t>`))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	chain, err := NewPowerPointChain(logging.NewNop(), 15)
	require.NoError(t, err)
	res, err := chain.Run(context.Background(), NewDocument("odd.pptx", "", buf.Bytes()))

	require.NoError(t, err)
	assert.True(t, res.Succeeded)
	assert.Contains(t, res.Text, "Milestone recap & next steps")
}

func TestPowerPointChain_BinaryFallback(t *testing.T) {
	// Not a zip at all: only the binary sweep can find anything.
	raw := append([]byte{0xd0, 0xcf, 0x11, 0xe0, 0x00, 0x01}, []byte("Strategic initiatives for the fiscal year")...)
	raw = append(raw, 0x00, 0x02, 0x03)

	chain, err := NewPowerPointChain(logging.NewNop(), 15)
	require.NoError(t, err)
	res, err := chain.Run(context.Background(), NewDocument("legacy.ppt", "application/vnd.ms-powerpoint", raw))

	require.NoError(t, err)
	assert.True(t, res.Succeeded)
	assert.True(t, res.Limited)
	assert.Equal(t, "binary-scan", res.Method)
	assert.Contains(t, res.Text, "Strategic initiatives for the fiscal year")
}

func TestPowerPointChain_NeverEmpty(t *testing.T) {
	chain, err := NewPowerPointChain(logging.NewNop(), 15)
	require.NoError(t, err)

	res, err := chain.Run(context.Background(), NewDocument("junk.pptx", "", []byte{0x00, 0x01, 0x02}))

	require.NoError(t, err)
	assert.False(t, res.Succeeded)
	assert.NotEmpty(t, res.Text)
	assert.Contains(t, res.Text, "junk.pptx")
}

func TestChain_RequiresStrategies(t *testing.T) {
	_, err := NewChain(FormatPowerPoint, logging.NewNop())
	assert.Error(t, err)
}

func TestLooksLikeXMLNoise(t *testing.T) {
	assert.True(t, looksLikeXMLNoise(`<Relationship Id="rId1"/>`))
	assert.True(t, looksLikeXMLNoise("[Content_Types].xml data"))
	assert.True(t, looksLikeXMLNoise("ppt/slides/_rels/slide1.xml.rels"))
	assert.False(t, looksLikeXMLNoise("Quarterly revenue summary for leadership"))
}
