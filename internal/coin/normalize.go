package coin

import (
	"encoding/json"
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

var currencyPattern = regexp.MustCompile(`^[A-Z]{3}$`)

// ErrNoJSON is returned by ParseModelText when the text holds no JSON value.
var ErrNoJSON = errors.New("model output is not valid JSON")

// Normalize coerces an arbitrary decoded model answer into a bounded Result.
// It accepts any value (nil, arrays, scalars, objects with wrong-typed
// fields) and always returns a fully populated result.
func Normalize(raw any) Result {
	fields := asObject(raw)

	low := clampAmount(fields["estimatedValueMin"], 0)
	high := clampAmount(fields["estimatedValueMax"], low)
	if high < low {
		high = low
	}

	return Result{
		Country:           boundedString(fields["country"], DefaultCountry, MaxCountryLen),
		Denomination:      boundedString(fields["denomination"], DefaultDenomination, MaxDenominationLen),
		Year:              boundedString(fields["year"], DefaultYear, MaxYearLen),
		EstimatedValueMin: low,
		EstimatedValueMax: high,
		Currency:          normalizeCurrency(fields["currency"]),
		Confidence:        normalizeConfidence(fields["confidence"]),
	}
}

// ParseModelText decodes the JSON object a model returned as text. A
// surrounding Markdown code fence is tolerated.
func ParseModelText(text string) (any, error) {
	cleaned := stripCodeFence(strings.TrimSpace(text))
	if cleaned == "" {
		return nil, ErrNoJSON
	}
	var out any
	if err := json.Unmarshal([]byte(cleaned), &out); err != nil {
		return nil, errors.Join(ErrNoJSON, err)
	}
	return out, nil
}

func asObject(raw any) map[string]any {
	switch v := raw.(type) {
	case map[string]any:
		return v
	case Result:
		return v.Map()
	case *Result:
		if v != nil {
			return v.Map()
		}
	}
	return map[string]any{}
}

func normalizeConfidence(v any) Confidence {
	s, ok := v.(string)
	if !ok {
		return ConfidenceLow
	}
	switch c := Confidence(strings.ToLower(strings.TrimSpace(s))); c {
	case ConfidenceLow, ConfidenceMedium, ConfidenceHigh:
		return c
	default:
		return ConfidenceLow
	}
}

func normalizeCurrency(v any) string {
	s, ok := scalarString(v)
	if !ok {
		return DefaultCurrency
	}
	s = strings.ToUpper(strings.TrimSpace(s))
	if !currencyPattern.MatchString(s) {
		return DefaultCurrency
	}
	return s
}

// clampAmount returns a finite, non-negative amount rounded to cents, or
// fallback when v cannot be read as one.
func clampAmount(v any, fallback float64) float64 {
	n, ok := toNumber(v)
	if !ok || math.IsNaN(n) || math.IsInf(n, 0) || n < 0 {
		return fallback
	}
	return decimal.NewFromFloat(n).Round(2).InexactFloat64()
}

func toNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case bool:
		if n {
			return 1, true
		}
		return 0, true
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// boundedString renders a scalar and truncates it to limit runes. Blank
// text and non-scalar values (objects, arrays) take the fallback instead of
// being kept as "" or stringified.
func boundedString(v any, fallback string, limit int) string {
	s, ok := scalarString(v)
	if !ok {
		return fallback
	}
	s = truncateRunes(s, limit)
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}

func scalarString(v any) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, true
	case float64:
		if math.IsNaN(s) || math.IsInf(s, 0) {
			return "", false
		}
		return strconv.FormatFloat(s, 'f', -1, 64), true
	case int:
		return strconv.Itoa(s), true
	case int64:
		return strconv.FormatInt(s, 10), true
	case json.Number:
		return s.String(), true
	case bool:
		return strconv.FormatBool(s), true
	default:
		return "", false
	}
}

func truncateRunes(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit])
}

func stripCodeFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	body := strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(body, '\n'); nl >= 0 {
		// drop the language tag line, e.g. ```json
		body = body[nl+1:]
	}
	if end := strings.LastIndex(body, "```"); end >= 0 {
		body = body[:end]
	}
	return strings.TrimSpace(body)
}
