package script

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/jung-kurt/gofpdf"

	"github.com/hyperifyio/reportcast/internal/article"
)

// WritePDF renders a printable script. Section captions and headings are set
// in bold, images become clickable links. Text is translated to the core
// font encoding, so characters outside cp1252 degrade to '?'.
func WritePDF(out article.Output, path string) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(out.Title, true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.MultiCell(0, 8, tr(out.Title), "", "L", false)
	pdf.Ln(4)
	for _, s := range out.Sections {
		pdf.SetFont("Helvetica", "B", 13)
		pdf.MultiCell(0, 7, tr(s.Name), "", "L", false)
		pdf.Ln(2)
		for _, b := range s.Blocks {
			switch b.Kind {
			case article.Heading:
				pdf.SetFont("Helvetica", "B", 11)
				pdf.MultiCell(0, 6, tr(b.Value), "", "L", false)
			case article.Image:
				pdf.SetFont("Helvetica", "U", 9)
				pdf.WriteLinkString(5, "[image] "+tr(b.Value), b.Value)
				pdf.Ln(6)
			default:
				pdf.SetFont("Helvetica", "", 11)
				pdf.MultiCell(0, 5, tr(b.Value), "", "L", false)
				pdf.Ln(2)
			}
		}
		pdf.Ln(3)
	}
	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

// WriteJSON stores out as indented JSON with block kinds by name.
func WriteJSON(out article.Output, path string) error {
	b, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(b, '\n'), 0o644)
}

// WriteMarkdown stores the Markdown script at path.
func WriteMarkdown(out article.Output, path string) error {
	return os.WriteFile(path, []byte(Markdown(out)), 0o644)
}
