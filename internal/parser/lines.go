package parser

import (
	"math"
	"sort"

	"github.com/insightdelivered/statement-table-extractor/internal/models"
)

// lineAnchor is one cluster under construction. y is the y0 of the word that
// opened it and never moves.
type lineAnchor struct {
	y     float64
	words []models.WordToken
}

// withinProximity is the grouping comparator: a word joins an anchor when
// their y values differ by strictly less than proximity.
func withinProximity(anchorY, wordY, proximity float64) bool {
	return math.Abs(anchorY-wordY) < proximity
}

// GroupLines clusters words into visual rows. Each word joins the first
// existing anchor (in creation order) within proximity of its y0, or opens a
// new anchor. Lines are returned top to bottom with words left to right.
func GroupLines(words []models.WordToken, proximity float64) []models.Line {
	if len(words) == 0 {
		return nil
	}

	var anchors []*lineAnchor
	for _, w := range words {
		var target *lineAnchor
		for _, a := range anchors {
			if withinProximity(a.y, w.Y0, proximity) {
				target = a
				break
			}
		}
		if target == nil {
			target = &lineAnchor{y: w.Y0}
			anchors = append(anchors, target)
		}
		target.words = append(target.words, w)
	}

	sort.SliceStable(anchors, func(i, j int) bool {
		return anchors[i].y < anchors[j].y
	})

	lines := make([]models.Line, 0, len(anchors))
	for _, a := range anchors {
		sortWordsByX(a.words)
		lines = append(lines, models.Line{Y: a.y, Words: a.words})
	}
	return lines
}

// sortWordsByX orders by x0, breaking ties on y0 then text so the result does
// not depend on input order.
func sortWordsByX(words []models.WordToken) {
	sort.SliceStable(words, func(i, j int) bool {
		a, b := words[i], words[j]
		if a.X0 != b.X0 {
			return a.X0 < b.X0
		}
		if a.Y0 != b.Y0 {
			return a.Y0 < b.Y0
		}
		return a.Text < b.Text
	})
}
