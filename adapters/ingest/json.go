package ingest

import (
	"fmt"
	"math"

	"github.com/tidwall/gjson"

	"statlab/domain/meta"
	"statlab/internal/errors"
)

func selectPath(data []byte, path string) (gjson.Result, error) {
	if !gjson.ValidBytes(data) {
		return gjson.Result{}, errors.InvalidInput("input is not valid JSON")
	}
	if path == "" || path == "." {
		return gjson.ParseBytes(data), nil
	}
	result := gjson.GetBytes(data, path)
	if !result.Exists() {
		return gjson.Result{}, errors.InvalidInput(fmt.Sprintf("data path '%s' not found in document", path))
	}
	return result, nil
}

// SampleFromJSON reads the array at path (gjson syntax; empty for the root).
// Numbers and numeric strings are kept, anything else is dropped.
func SampleFromJSON(data []byte, path string) (Parsed, error) {
	result, err := selectPath(data, path)
	if err != nil {
		return Parsed{}, err
	}
	if !result.IsArray() {
		return Parsed{}, errors.InvalidInput(fmt.Sprintf("data path '%s' is not an array", path))
	}

	p := Parsed{Values: []float64{}}
	result.ForEach(func(_, v gjson.Result) bool {
		switch v.Type {
		case gjson.Number:
			p.add(v.Raw)
		case gjson.String:
			p.add(v.Str)
		default:
			p.Dropped = append(p.Dropped, v.Raw)
		}
		return true
	})
	return p, nil
}

func jsonNumber(obj gjson.Result, keys ...string) (float64, bool) {
	for _, k := range keys {
		v := obj.Get(k)
		if !v.Exists() {
			continue
		}
		switch v.Type {
		case gjson.Number:
			return ParseNumber(v.Raw)
		case gjson.String:
			return ParseNumber(v.Str)
		}
		return 0, false
	}
	return 0, false
}

// StudiesFromJSON reads an array of study objects at path. Recognized keys
// are label, effect, se (or standard_error), n1, n2 and quality. Missing or
// non-numeric effect and SE become NaN.
func StudiesFromJSON(data []byte, path string) ([]meta.StudySummary, error) {
	result, err := selectPath(data, path)
	if err != nil {
		return nil, err
	}
	if !result.IsArray() {
		return nil, errors.InvalidInput(fmt.Sprintf("data path '%s' is not an array of studies", path))
	}

	var out []meta.StudySummary
	var bad error
	result.ForEach(func(_, v gjson.Result) bool {
		if !v.IsObject() {
			bad = errors.InvalidInput(fmt.Sprintf("study %d is not an object", len(out)+1))
			return false
		}
		s := meta.StudySummary{Label: v.Get("label").String()}
		if s.Label == "" {
			s.Label = fmt.Sprintf("study_%d", len(out)+1)
		}
		s.Effect = numberOrNaNFrom(jsonNumber(v, "effect"))
		s.StandardError = numberOrNaNFrom(jsonNumber(v, "se", "standard_error"))
		s.N1 = int(v.Get("n1").Int())
		s.N2 = int(v.Get("n2").Int())
		s.Quality = int(v.Get("quality").Int())
		out = append(out, s)
		return true
	})
	if bad != nil {
		return nil, bad
	}
	return out, nil
}

func numberOrNaNFrom(v float64, ok bool) float64 {
	if !ok {
		return math.NaN()
	}
	return v
}
