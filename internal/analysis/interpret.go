// Package analysis turns free-form model replies into analysis records.
package analysis

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

var (
	// greedyObjectRe spans from the first '{' to the last '}'.
	greedyObjectRe = regexp.MustCompile(`(?s)\{.*\}`)
	numberRe       = regexp.MustCompile(`\d+(\.\d+)?`)
)

const (
	minMetric = 0
	maxMetric = 10
)

// Interpret never fails: any reply it cannot use yields a record with a nil
// score and FailureMessage. The specific reason is logged.
func Interpret(raw string) Record {
	logger := slog.With("component", "analysis")
	logger.Debug("interpreting AI reply", "raw", raw)

	rec, err := Parse(raw)
	if err != nil {
		logger.Warn("AI reply rejected",
			"reason", err,
			"preview", preview(raw, 100))
		return Failed(FailureMessage)
	}
	return rec
}

// Parse is Interpret with the failure reason exposed. The returned error
// wraps one of ErrNoJSONFound, ErrJSONParse, ErrMissingScore or
// ErrInvalidScore.
func Parse(raw string) (Record, error) {
	obj, err := locateObject(raw)
	if err != nil {
		return Record{}, err
	}

	scoreVal, hasScore := obj[keyOverallScore]
	errVal, hasErr := obj[keyError]
	hasScore = hasScore && present(scoreVal)
	hasErr = hasErr && present(errVal)
	if !hasScore && !hasErr {
		return Record{}, ErrMissingScore
	}

	rec := Record{}
	if msg, ok := errVal.(string); ok {
		rec.Error = msg
	}
	if m, ok := obj[keyPerformanceMetrics].(map[string]any); ok {
		if metrics, ok := coerceMetrics(m); ok {
			rec.PerformanceMetrics = metrics
			delete(obj, keyPerformanceMetrics)
		}
	}
	delete(obj, keyOverallScore)
	delete(obj, keyError)
	if len(obj) > 0 {
		rec.Fields = obj
	}

	if !hasScore {
		// The model reported its own failure.
		if rec.Error != "" {
			return rec, nil
		}
		return Record{}, fmt.Errorf("%w: %q", ErrInvalidScore, stringify(scoreVal))
	}

	score, ok := coerceNumber(scoreVal)
	if !ok {
		return Record{}, fmt.Errorf("%w: %q", ErrInvalidScore, stringify(scoreVal))
	}
	rec.OverallScore = &score
	return rec, nil
}

// locateObject tries every balanced {...} span in order and returns the first
// that decodes into an object. When none does, the greedy first-'{'-to-last-'}'
// span is decoded instead and its error is reported.
func locateObject(raw string) (map[string]any, error) {
	for start := strings.IndexByte(raw, '{'); start >= 0; {
		if end := matchBrace(raw, start); end > start {
			var obj map[string]any
			if err := json.Unmarshal([]byte(raw[start:end+1]), &obj); err == nil && obj != nil {
				return obj, nil
			}
		}
		next := strings.IndexByte(raw[start+1:], '{')
		if next < 0 {
			break
		}
		start += next + 1
	}

	span := greedyObjectRe.FindString(raw)
	if span == "" {
		return nil, ErrNoJSONFound
	}
	var obj map[string]any
	if err := json.Unmarshal([]byte(span), &obj); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrJSONParse, err)
	}
	if obj == nil {
		return nil, fmt.Errorf("%w: not an object", ErrJSONParse)
	}
	return obj, nil
}

// matchBrace returns the index of the '}' closing the '{' at start, or -1.
// Braces inside JSON strings are ignored.
func matchBrace(s string, start int) int {
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// present reports whether a field counts as supplied. Unlike a plain
// truthiness test, a numeric zero is present.
func present(v any) bool {
	switch v := v.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return v != ""
	default:
		return true
	}
}

// coerceNumber extracts the first decimal number from the value's text form,
// so "8 out of 10" gives 8 and "Score: 9/10" gives 9.
func coerceNumber(v any) (float64, bool) {
	m := numberRe.FindString(stringify(v))
	if m == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(m, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// coerceMetrics converts a flat map of numeric or textual scores. Any other
// value, or a value without a number in it, leaves the map to the caller
// untouched.
func coerceMetrics(m map[string]any) (map[string]int, bool) {
	out := make(map[string]int, len(m))
	for k, v := range m {
		switch v.(type) {
		case float64, string:
		default:
			slog.Debug("keeping structured performance metrics", "component", "analysis", "key", k)
			return nil, false
		}
		f, ok := coerceNumber(v)
		if !ok {
			slog.Debug("keeping unparsable performance metrics", "component", "analysis", "key", k, "value", v)
			return nil, false
		}
		out[k] = int(math.Round(min(max(f, minMetric), maxMetric)))
	}
	return out, true
}

// preview cuts s to at most n bytes without splitting a rune.
func preview(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func stringify(v any) string {
	switch v := v.(type) {
	case nil:
		return "null"
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(b)
	}
}
