package ingest

import (
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ExtractedDocument is the text content of a single PDF.
type ExtractedDocument struct {
	Path      string
	PageCount int
	Text      string
}

// ExtractPDF pulls the plain text from every page of the PDF at path.
// Pages that fail to decode are skipped rather than failing the document.
func ExtractPDF(path string) (*ExtractedDocument, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF %s: %w", path, err)
	}
	defer f.Close()

	numPages := reader.NumPage()
	var sb strings.Builder
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		sb.WriteString(text)
		sb.WriteString("\n\n")
	}

	text := strings.TrimSpace(sb.String())
	if text == "" {
		return nil, fmt.Errorf("no extractable text in %s", path)
	}

	return &ExtractedDocument{
		Path:      path,
		PageCount: numPages,
		Text:      text,
	}, nil
}
