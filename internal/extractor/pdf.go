package extractor

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/ledongthuc/pdf"

	"github.com/insightdelivered/statement-table-extractor/internal/models"
)

// ErrNoPages is returned when extractor output carries no page structure at
// all. A PDF whose page tree is empty is not an error; it yields an empty
// Document for the integrity gate to reject.
var ErrNoPages = errors.New("PDF has no pages")

// defaultPageHeight is A4 in points, used when a page has no MediaBox.
const defaultPageHeight = 841.89

// Options controls the extraction cascade.
type Options struct {
	// FallbackPdftotext allows running poppler's pdftotext -bbox when the
	// Go library yields nothing readable.
	FallbackPdftotext bool
}

// ExtractDocument reads a PDF file and returns the positioned words and the
// plain text of each page. It tries the structured library first and falls
// back to pdftotext -bbox. A document that opens but whose text is poor is
// still returned, so the integrity gate can score it.
func ExtractDocument(filePath string, opts Options) (models.Document, error) {
	doc, libErr := extractWithLibrary(filePath)
	if libErr == nil && isReadable(doc) {
		return doc, nil
	}

	if opts.FallbackPdftotext {
		bboxDoc, bboxErr := extractWithPdftotextBBox(filePath)
		if bboxErr == nil && isReadable(bboxDoc) {
			return bboxDoc, nil
		}
		if libErr != nil && bboxErr != nil {
			return models.Document{}, fmt.Errorf("PDF text extraction failed: %w (pdftotext: %v)", libErr, bboxErr)
		}
		if libErr != nil {
			return bboxDoc, nil
		}
	}

	if libErr != nil {
		return models.Document{}, fmt.Errorf("PDF text extraction failed: %w", libErr)
	}
	return doc, nil
}

// extractWithLibrary uses the ledongthuc/pdf glyph stream.
func extractWithLibrary(filePath string) (doc models.Document, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("PDF library crashed: %v", r)
		}
	}()

	f, r, openErr := pdf.Open(filePath)
	if openErr != nil {
		return models.Document{}, openErr
	}
	defer f.Close()

	numPages := r.NumPage()

	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			doc.Pages = append(doc.Pages, models.Page{Number: i})
			continue
		}
		words, text := wordsFromGlyphs(page.Content().Text, pageHeight(page))
		doc.Pages = append(doc.Pages, models.Page{Number: i, Words: words, Text: text})
	}
	return doc, nil
}

// pageHeight reads the MediaBox, walking up the page tree for inherited boxes.
func pageHeight(page pdf.Page) float64 {
	v := page.V
	for depth := 0; depth < 16 && !v.IsNull(); depth++ {
		box := v.Key("MediaBox")
		if box.Len() == 4 {
			if h := box.Index(3).Float64() - box.Index(1).Float64(); h > 0 {
				return h
			}
		}
		v = v.Key("Parent")
	}
	return defaultPageHeight
}

// textQuality returns the ratio of basic ASCII readable characters to all
// characters across the document's page text.
func textQuality(doc models.Document) float64 {
	total, readable := 0, 0
	for _, p := range doc.Pages {
		for _, r := range p.Text {
			total++
			if r < unicode.MaxASCII && (unicode.IsPrint(r) || unicode.IsSpace(r)) {
				readable++
			}
		}
	}
	if total == 0 {
		return 0
	}
	return float64(readable) / float64(total)
}

// isReadable reports whether the document has words and its text is mostly
// readable ASCII, which rules out identity-encoded font garbage.
func isReadable(doc models.Document) bool {
	words, chars := 0, 0
	for _, p := range doc.Pages {
		words += len(p.Words)
		chars += len(strings.TrimSpace(p.Text))
	}
	if words == 0 || chars <= 50 {
		return false
	}
	return textQuality(doc) > 0.6
}
