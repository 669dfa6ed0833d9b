package services

import (
	"strings"

	"github.com/ledongthuc/pdf"
)

// CVTextExtractor pulls plain text out of an uploaded CV for ATS scoring.
type CVTextExtractor interface {
	ExtractText(filePath string) (string, error)
}

type pdfTextExtractor struct{}

func NewPDFTextExtractor() CVTextExtractor {
	return &pdfTextExtractor{}
}

func (p *pdfTextExtractor) ExtractText(filePath string) (string, error) {
	f, r, err := pdf.Open(filePath)
	if err != nil {
		return "", invalidRequest("the uploaded CV is not a readable PDF")
	}
	defer f.Close()

	var textBuilder strings.Builder
	for pageIndex := 1; pageIndex <= r.NumPage(); pageIndex++ {
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			// Scanned or damaged pages are skipped.
			continue
		}

		textBuilder.WriteString(text)
		textBuilder.WriteString("\n")
	}

	text := CleanText(textBuilder.String())
	if text == "" {
		return "", invalidRequest("no text content found in the uploaded CV")
	}

	return text, nil
}

// CleanText trims every line and drops blank ones.
func CleanText(text string) string {
	lines := strings.Split(text, "\n")
	cleaned := make([]string, 0, len(lines))

	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			cleaned = append(cleaned, line)
		}
	}

	return strings.Join(cleaned, "\n")
}

