package documents

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"hrrecords/internal/domain/core"
)

// Renderer lays a document out on an A4 page. With FontPath set the page uses
// that UTF-8 TrueType font; otherwise Helvetica with cp1252 translation.
type Renderer struct {
	FontPath string
}

func (r Renderer) Render(doc Document, employeeName string) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	family := "Helvetica"
	translate := func(s string) string { return s }
	if r.FontPath != "" {
		pdf.AddUTF8Font("document", "", r.FontPath)
		pdf.AddUTF8Font("document", "B", r.FontPath)
		family = "document"
	} else {
		translate = pdf.UnicodeTranslatorFromDescriptor("")
	}
	pdf.SetTitle(doc.DocumentNumber, true)
	pdf.AddPage()

	pdf.SetFont(family, "B", 16)
	pdf.Cell(0, 10, translate(fmt.Sprintf("Document %s", doc.DocumentNumber)))
	pdf.Ln(12)

	pdf.SetFont(family, "", 12)
	lines := []struct{ label, value string }{
		{"Type", doc.DocumentType},
		{"Subject", doc.Subject},
		{"Recipient", doc.Recipient},
		{"Employee", employeeName},
		{"Date", doc.CreatedAt.Format(core.DateLayout)},
	}
	for _, line := range lines {
		if line.value == "" {
			continue
		}
		pdf.Cell(0, 8, translate(fmt.Sprintf("%s: %s", line.label, line.value)))
		pdf.Ln(7)
	}
	if doc.Content != "" {
		pdf.Ln(5)
		pdf.MultiCell(0, 6, translate(doc.Content), "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
