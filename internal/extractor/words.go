package extractor

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/ledongthuc/pdf"

	"github.com/insightdelivered/statement-table-extractor/internal/models"
)

// baselineNudge merges glyph baselines closer than this many points.
const baselineNudge = 1.0

// wordsFromGlyphs assembles the library's per-glyph text runs into words and
// flips coordinates to a top-left origin. It also returns the page text with
// one baseline per line.
func wordsFromGlyphs(glyphs []pdf.Text, height float64) ([]models.WordToken, string) {
	chars := make([]pdf.Text, 0, len(glyphs))
	for _, g := range glyphs {
		if g.S != "" {
			chars = append(chars, g)
		}
	}
	if len(chars) == 0 {
		return nil, ""
	}

	// PDF y grows upward: sort top to bottom, then left to right.
	sort.SliceStable(chars, func(i, j int) bool {
		if chars[i].Y != chars[j].Y {
			return chars[i].Y > chars[j].Y
		}
		return chars[i].X < chars[j].X
	})
	prev := chars[0].Y
	for i := range chars {
		if math.Abs(chars[i].Y-prev) < baselineNudge {
			chars[i].Y = prev
		} else {
			prev = chars[i].Y
		}
	}
	sort.SliceStable(chars, func(i, j int) bool {
		if chars[i].Y != chars[j].Y {
			return chars[i].Y > chars[j].Y
		}
		return chars[i].X < chars[j].X
	})

	var (
		words []models.WordToken
		lines []string
	)
	for i := 0; i < len(chars); {
		j := i + 1
		for j < len(chars) && chars[j].Y == chars[i].Y {
			j++
		}
		lineWords := splitBaseline(chars[i:j], height)
		words = append(words, lineWords...)
		if len(lineWords) > 0 {
			parts := make([]string, len(lineWords))
			for k, w := range lineWords {
				parts[k] = w.Text
			}
			lines = append(lines, strings.Join(parts, " "))
		}
		i = j
	}
	return words, strings.Join(lines, "\n")
}

// splitBaseline cuts one baseline of glyphs into words at whitespace and at
// horizontal gaps wider than a quarter of the font size.
func splitBaseline(chars []pdf.Text, height float64) []models.WordToken {
	var (
		words []models.WordToken
		sb    strings.Builder
		cur   models.WordToken
		open  bool
	)

	flush := func() {
		if open && strings.TrimSpace(sb.String()) != "" {
			cur.Text = sb.String()
			words = append(words, cur)
		}
		sb.Reset()
		open = false
	}

	for _, c := range expandRuns(chars) {
		if strings.TrimFunc(c.S, unicode.IsSpace) == "" {
			flush()
			continue
		}
		gap := c.FontSize / 4
		if gap <= 0 {
			gap = 1
		}
		if open && c.X > cur.X1+gap {
			flush()
		}
		if !open {
			top := height - c.Y - c.FontSize
			cur = models.WordToken{X0: c.X, Y0: top, X1: c.X + c.W, Y1: height - c.Y}
			open = true
		}
		sb.WriteString(c.S)
		if end := c.X + c.W; end > cur.X1 {
			cur.X1 = end
		}
	}
	flush()
	return words
}

// expandRuns splits multi-character runs that contain spaces into per-rune
// glyphs with evenly divided widths, so word splitting sees the spaces.
func expandRuns(chars []pdf.Text) []pdf.Text {
	out := make([]pdf.Text, 0, len(chars))
	for _, c := range chars {
		runes := []rune(c.S)
		if len(runes) < 2 || !strings.ContainsFunc(c.S, unicode.IsSpace) {
			out = append(out, c)
			continue
		}
		w := c.W / float64(len(runes))
		for k, r := range runes {
			g := c
			g.S = string(r)
			g.X = c.X + float64(k)*w
			g.W = w
			out = append(out, g)
		}
	}
	return out
}
