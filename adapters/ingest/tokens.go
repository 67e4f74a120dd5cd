// Package ingest turns raw text, CSV/XLSX sheets and JSON documents into the
// cleaned numeric samples and study lists the estimators consume.
// Non-numeric tokens are dropped and reported, never coerced.
package ingest

import (
	"math"
	"strconv"
	"strings"
	"unicode"
)

// Parsed is a cleaned sample plus the tokens that were discarded
type Parsed struct {
	Values  []float64 `json:"values"`
	Dropped []string  `json:"dropped,omitempty"`
}

func (p *Parsed) add(token string) {
	if v, ok := ParseNumber(token); ok {
		p.Values = append(p.Values, v)
		return
	}
	if t := strings.TrimSpace(token); t != "" {
		p.Dropped = append(p.Dropped, t)
	}
}

// ParseNumber parses a finite decimal number. Blank cells, NaN and
// infinities are rejected.
func ParseNumber(token string) (float64, bool) {
	t := strings.TrimSpace(token)
	if t == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(t, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func isSeparator(r rune) bool {
	return unicode.IsSpace(r) || r == ',' || r == ';' || r == '|'
}

// ParseTokens splits free text on whitespace, commas, semicolons and pipes
// and keeps the numeric tokens in order
func ParseTokens(text string) Parsed {
	var p Parsed
	for _, tok := range strings.FieldsFunc(text, isSeparator) {
		p.add(tok)
	}
	if p.Values == nil {
		p.Values = []float64{}
	}
	return p
}
