package udc

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// pdfPageDescriptor mirrors pdfcpu's "create" JSON page-description schema
// (github.com/pdfcpu/pdfcpu/pkg/api.CreatePDFFile): a page with one or more
// positioned text boxes.
type pdfPageDescriptor struct {
	PageDim string         `json:"pageDim"`
	Content pdfContentBox  `json:"content"`
}

type pdfContentBox struct {
	Texts []pdfTextBlock `json:"texts"`
}

type pdfTextBlock struct {
	Value    string `json:"value"`
	Position string `json:"position"`
	Font     pdfFont `json:"font"`
}

type pdfFont struct {
	Name string `json:"name"`
	Size int    `json:"size"`
}

type pdfDescriptor struct {
	Pages []pdfPageDescriptor `json:"pages"`
}

// DisclosurePDF assembles a PDF containing every Disclosure attached to
// output (the TILA/Reg M federal box plus any state-specific pages), one
// page per disclosure, via pdfcpu's JSON "create" pipeline.
func DisclosurePDF(output UdcOutput, outPath string) error {
	desc := pdfDescriptor{}
	for _, d := range output.Disclosures {
		desc.Pages = append(desc.Pages, pdfPageDescriptor{
			PageDim: "A4",
			Content: pdfContentBox{
				Texts: []pdfTextBlock{
					{Value: d.Title, Position: "tc, 50", Font: pdfFont{Name: "Helvetica-Bold", Size: 14}},
					{Value: wrapText(d.Text, 90), Position: "tl, 20", Font: pdfFont{Name: "Helvetica", Size: 10}},
				},
			},
		})
	}
	if len(desc.Pages) == 0 {
		desc.Pages = []pdfPageDescriptor{{PageDim: "A4", Content: pdfContentBox{
			Texts: []pdfTextBlock{{Value: output.Summary, Position: "tc, 50", Font: pdfFont{Name: "Helvetica", Size: 12}}},
		}}}
	}

	b, err := json.Marshal(desc)
	if err != nil {
		return fmt.Errorf("pdf export: encode descriptor: %w", err)
	}
	tmp, err := os.CreateTemp("", "udc-disclosure-*.json")
	if err != nil {
		return fmt.Errorf("pdf export: temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return fmt.Errorf("pdf export: write descriptor: %w", err)
	}
	tmp.Close()

	if err := api.CreatePDFFile(tmp.Name(), outPath, model.NewDefaultConfiguration()); err != nil {
		return fmt.Errorf("pdf export: create pdf: %w", err)
	}
	return nil
}

// wrapText inserts newlines so no line exceeds width characters, wrapping
// on whitespace — good enough for the disclosure bodies' short paragraphs.
func wrapText(text string, width int) string {
	words := strings.Fields(text)
	var b strings.Builder
	lineLen := 0
	for i, w := range words {
		if lineLen > 0 && lineLen+1+len(w) > width {
			b.WriteByte('\n')
			lineLen = 0
		} else if i > 0 {
			b.WriteByte(' ')
			lineLen++
		}
		b.WriteString(w)
		lineLen += len(w)
	}
	return b.String()
}
