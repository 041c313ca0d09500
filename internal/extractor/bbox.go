package extractor

import (
	"bytes"
	"fmt"
	"io"
	"os/exec"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/insightdelivered/statement-table-extractor/internal/models"
)

// extractWithPdftotextBBox runs poppler's pdftotext -bbox, which emits every
// word with its box in top-left page coordinates.
func extractWithPdftotextBBox(filePath string) (models.Document, error) {
	if _, err := exec.LookPath("pdftotext"); err != nil {
		return models.Document{}, fmt.Errorf("pdftotext not available: %w", err)
	}
	out, err := exec.Command("pdftotext", "-bbox", filePath, "-").Output()
	if err != nil {
		return models.Document{}, fmt.Errorf("pdftotext failed: %w", err)
	}
	return parseBBoxHTML(bytes.NewReader(out))
}

// parseBBoxHTML reads pdftotext -bbox output:
//
//	<page width="595" height="842">
//	  <word xMin="20.0" yMin="96.1" xMax="62.3" yMax="104.2">01/01/2022</word>
//	</page>
func parseBBoxHTML(r io.Reader) (models.Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return models.Document{}, fmt.Errorf("parse bbox html: %w", err)
	}

	var doc models.Document
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "page":
				doc.Pages = append(doc.Pages, models.Page{Number: len(doc.Pages) + 1})
			case "word":
				if len(doc.Pages) > 0 {
					if w, ok := parseWordNode(n); ok {
						p := &doc.Pages[len(doc.Pages)-1]
						p.Words = append(p.Words, w)
					}
				}
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	if len(doc.Pages) == 0 {
		return models.Document{}, fmt.Errorf("pdftotext output: %w", ErrNoPages)
	}
	for i := range doc.Pages {
		doc.Pages[i].Text = pageText(doc.Pages[i].Words)
	}
	return doc, nil
}

func parseWordNode(n *html.Node) (models.WordToken, bool) {
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
		}
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		return models.WordToken{}, false
	}

	w := models.WordToken{Text: text}
	fields := map[string]*float64{"xmin": &w.X0, "ymin": &w.Y0, "xmax": &w.X1, "ymax": &w.Y1}
	found := 0
	for _, a := range n.Attr {
		// The HTML parser lowercases attribute names.
		if dst, ok := fields[strings.ToLower(a.Key)]; ok {
			v, err := strconv.ParseFloat(a.Val, 64)
			if err != nil {
				return models.WordToken{}, false
			}
			*dst = v
			found++
		}
	}
	return w, found == len(fields)
}

// pageText rebuilds reading-order text. A word starts a new line when its
// top sits more than half its height below the line's first word.
func pageText(words []models.WordToken) string {
	if len(words) == 0 {
		return ""
	}
	sorted := append([]models.WordToken(nil), words...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Y0 < sorted[j].Y0 })

	var lines [][]models.WordToken
	lineTop := sorted[0].Y0
	for i, w := range sorted {
		if i == 0 || w.Y0-lineTop > (w.Y1-w.Y0)/2 {
			lines = append(lines, nil)
			lineTop = w.Y0
		}
		lines[len(lines)-1] = append(lines[len(lines)-1], w)
	}

	out := make([]string, len(lines))
	for i, line := range lines {
		sort.SliceStable(line, func(a, b int) bool { return line[a].X0 < line[b].X0 })
		parts := make([]string, len(line))
		for k, w := range line {
			parts[k] = w.Text
		}
		out[i] = strings.Join(parts, " ")
	}
	return strings.Join(out, "\n")
}
