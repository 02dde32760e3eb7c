package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"

	"github.com/intelliconnect/insightd/internal/logging"
)

var (
	textRunRe = regexp.MustCompile(`<a:t[^>]*>([^<]*)</a:t>`)
	xmlTagRe  = regexp.MustCompile(`<[^>]+>`)
)

// slideXML models the subset of DrawingML we care about: text runs inside
// paragraphs inside shapes.
type slideXML struct {
	Texts []string `xml:"cSld>spTree>sp>txBody>p>r>t"`
}

// NewPowerPointChain builds the presentation extraction chain. Strategies run
// in order: structured XML parse, raw text-run scan, then a binary string
// sweep. The chain never produces an empty result: if every strategy fails
// the final fallback returns guidance text.
func NewPowerPointChain(logger *logging.Logger, minASCIIRun int) (*Chain, error) {
	if minASCIIRun < 4 {
		minASCIIRun = 15
	}
	return NewChain(FormatPowerPoint, logger,
		Strategy{Name: "slide-xml", Extract: extractSlidesStructured},
		Strategy{Name: "text-runs", Extract: extractSlidesTextRuns},
		Strategy{Name: "binary-scan", Extract: binaryScanStrategy(minASCIIRun)},
		Strategy{Name: "guidance", Extract: presentationGuidance},
	)
}

// extractSlidesStructured opens the file as a zip archive and unmarshals each
// slide's XML, collecting text runs in slide order.
func extractSlidesStructured(doc Document) (Result, error) {
	slides, err := readSlideParts(doc.RawBytes)
	if err != nil {
		return Result{}, err
	}

	var sb strings.Builder
	count := 0
	for i, data := range slides {
		var slide slideXML
		if err := xml.Unmarshal(removeXMLNamespaces(data), &slide); err != nil {
			continue
		}
		text := strings.TrimSpace(strings.Join(slide.Texts, "\n"))
		if text == "" {
			continue
		}
		count++
		fmt.Fprintf(&sb, "--- Slide %d ---\n%s\n\n", i+1, text)
	}

	text := strings.TrimSpace(sb.String())
	if text == "" {
		return Result{}, fmt.Errorf("no text runs in %d slide parts", len(slides))
	}
	return Result{
		Text:      text,
		Units:     len(slides),
		Succeeded: true,
		Slides:    &SlideDetails{Slides: len(slides)},
	}, nil
}

// extractSlidesTextRuns scans slide XML for <a:t> runs without unmarshaling,
// which survives schema variations the structured parse chokes on.
func extractSlidesTextRuns(doc Document) (Result, error) {
	slides, err := readSlideParts(doc.RawBytes)
	if err != nil {
		return Result{}, err
	}

	var sb strings.Builder
	for i, data := range slides {
		matches := textRunRe.FindAllSubmatch(data, -1)
		var runs []string
		for _, m := range matches {
			if t := strings.TrimSpace(decodeXMLEntities(string(m[1]))); t != "" {
				runs = append(runs, t)
			}
		}
		if len(runs) == 0 {
			continue
		}
		fmt.Fprintf(&sb, "--- Slide %d ---\n%s\n\n", i+1, strings.Join(runs, "\n"))
	}

	text := strings.TrimSpace(sb.String())
	if text == "" {
		return Result{}, fmt.Errorf("no text runs matched in %d slide parts", len(slides))
	}
	return Result{
		Text:      text,
		Units:     len(slides),
		Succeeded: true,
		Slides:    &SlideDetails{Slides: len(slides)},
	}, nil
}

// binaryScanStrategy sweeps the raw bytes for printable ASCII runs, which
// recovers something from legacy .ppt binaries and truncated archives.
func binaryScanStrategy(minRun int) func(Document) (Result, error) {
	return func(doc Document) (Result, error) {
		runs := printableRuns(doc.RawBytes, minRun)
		var kept []string
		for _, r := range runs {
			if looksLikeXMLNoise(r) {
				continue
			}
			kept = append(kept, r)
		}
		if len(kept) == 0 {
			return Result{}, fmt.Errorf("no printable runs of length >= %d", minRun)
		}
		text := strings.Join(kept, "\n")
		return Result{
			Text:      text,
			Units:     1,
			Limited:   true,
			Succeeded: true,
		}, nil
	}
}

// presentationGuidance is the terminal fallback: always succeeds, returning
// remediation text instead of slide content.
func presentationGuidance(doc Document) (Result, error) {
	return Result{
		Text:      fmt.Sprintf("No readable text could be recovered from %q. The file may be image-only, corrupted, or in an unsupported legacy format. Export it as .pptx from your presentation software and upload again.", doc.FileName),
		Limited:   true,
		Succeeded: false,
	}, nil
}

// readSlideParts extracts ppt/slides/slideN.xml entries in slide order.
func readSlideParts(raw []byte) ([][]byte, error) {
	reader, err := zip.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}

	type part struct {
		name string
		data []byte
	}
	var parts []part
	for _, file := range reader.File {
		if !strings.HasPrefix(file.Name, "ppt/slides/slide") || !strings.HasSuffix(file.Name, ".xml") {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			continue
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			continue
		}
		parts = append(parts, part{name: file.Name, data: data})
	}
	if len(parts) == 0 {
		return nil, fmt.Errorf("archive contains no slide parts")
	}

	// slide2.xml must sort after slide1.xml but before slide10.xml.
	sort.Slice(parts, func(i, j int) bool {
		if len(parts[i].name) != len(parts[j].name) {
			return len(parts[i].name) < len(parts[j].name)
		}
		return parts[i].name < parts[j].name
	})

	out := make([][]byte, len(parts))
	for i, p := range parts {
		out[i] = p.data
	}
	return out, nil
}

// removeXMLNamespaces strips xmlns attributes and tag prefixes so a plain
// struct unmarshal works against DrawingML.
func removeXMLNamespaces(data []byte) []byte {
	nsRe := regexp.MustCompile(`\s+xmlns[^=]*="[^"]*"`)
	data = nsRe.ReplaceAll(data, nil)
	prefixRe := regexp.MustCompile(`<(/?)(\w+):`)
	return prefixRe.ReplaceAll(data, []byte("<$1"))
}

func decodeXMLEntities(s string) string {
	r := strings.NewReplacer(
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", `"`,
		"&apos;", "'",
	)
	return r.Replace(s)
}

// printableRuns returns contiguous printable-ASCII substrings of at least
// minRun characters.
func printableRuns(raw []byte, minRun int) []string {
	var (
		runs    []string
		current strings.Builder
	)
	flush := func() {
		if current.Len() >= minRun {
			runs = append(runs, strings.TrimSpace(current.String()))
		}
		current.Reset()
	}
	for _, b := range raw {
		if b >= 0x20 && b < 0x7f {
			current.WriteByte(b)
		} else {
			flush()
		}
	}
	flush()
	return runs
}

// looksLikeXMLNoise filters archive structure and markup fragments out of a
// binary scan.
func looksLikeXMLNoise(s string) bool {
	if strings.Contains(s, "xml") || strings.Contains(s, "<?") {
		return true
	}
	if xmlTagRe.MatchString(s) || strings.Contains(s, "xmlns") {
		return true
	}
	if strings.Contains(s, ".rels") || strings.Contains(s, "Content_Types") || strings.HasPrefix(s, "ppt/") {
		return true
	}
	letters := 0
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == ' ' {
			letters++
		}
	}
	return letters*2 < len(s)
}
