package coin

import (
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"
	"unicode/utf8"
)

func checkBounds(t *testing.T, label string, r Result) {
	t.Helper()
	if r.EstimatedValueMin < 0 || r.EstimatedValueMax < r.EstimatedValueMin {
		t.Fatalf("%s: bad value range %v-%v", label, r.EstimatedValueMin, r.EstimatedValueMax)
	}
	if math.IsNaN(r.EstimatedValueMax) || math.IsInf(r.EstimatedValueMax, 0) {
		t.Fatalf("%s: non-finite max %v", label, r.EstimatedValueMax)
	}
	if !currencyPattern.MatchString(r.Currency) {
		t.Fatalf("%s: bad currency %q", label, r.Currency)
	}
	switch r.Confidence {
	case ConfidenceLow, ConfidenceMedium, ConfidenceHigh:
	default:
		t.Fatalf("%s: bad confidence %q", label, r.Confidence)
	}
	if utf8.RuneCountInString(r.Country) > MaxCountryLen ||
		utf8.RuneCountInString(r.Denomination) > MaxDenominationLen ||
		utf8.RuneCountInString(r.Year) > MaxYearLen {
		t.Fatalf("%s: string field too long: %+v", label, r)
	}
	if r.Country == "" || r.Denomination == "" || r.Year == "" {
		t.Fatalf("%s: empty string field: %+v", label, r)
	}
}

func TestNormalizeTotal(t *testing.T) {
	inputs := map[string]any{
		"nil":          nil,
		"empty object": map[string]any{},
		"array":        []any{1, "two", nil},
		"string":       "high",
		"number":       42.0,
		"wrong types": map[string]any{
			"country":           []any{"US"},
			"denomination":      map[string]any{"a": 1},
			"year":              true,
			"estimatedValueMin": "abc",
			"estimatedValueMax": map[string]any{},
			"currency":          12.0,
			"confidence":        7.0,
		},
		"negative": map[string]any{
			"estimatedValueMin": -3.0,
			"estimatedValueMax": -1.0,
		},
		"non-finite": map[string]any{
			"estimatedValueMin": math.Inf(1),
			"estimatedValueMax": math.NaN(),
		},
		"long strings": map[string]any{
			"country":      strings.Repeat("x", 500),
			"denomination": strings.Repeat("é", 200),
			"year":         strings.Repeat("9", 40),
		},
	}

	for label, raw := range inputs {
		got := Normalize(raw)
		checkBounds(t, label, got)
		if again := Normalize(got.Map()); again != got {
			t.Fatalf("%s: not idempotent: %+v then %+v", label, got, again)
		}
	}
}

func TestNormalizeDefaults(t *testing.T) {
	got := Normalize(nil)
	want := Result{
		Country:      DefaultCountry,
		Denomination: DefaultDenomination,
		Year:         DefaultYear,
		Currency:     DefaultCurrency,
		Confidence:   ConfidenceLow,
	}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

func TestNormalizeRaisesMaxToMin(t *testing.T) {
	got := Normalize(map[string]any{"estimatedValueMin": 5.0, "estimatedValueMax": 2.0})
	if got.EstimatedValueMin != 5 || got.EstimatedValueMax != 5 {
		t.Fatalf("expected 5-5, got %v-%v", got.EstimatedValueMin, got.EstimatedValueMax)
	}
}

func TestNormalizeNegativeBothClampToZero(t *testing.T) {
	got := Normalize(map[string]any{"estimatedValueMin": -4.0, "estimatedValueMax": -4.0})
	if got.EstimatedValueMin != 0 || got.EstimatedValueMax != 0 {
		t.Fatalf("expected 0-0, got %v-%v", got.EstimatedValueMin, got.EstimatedValueMax)
	}
}

func TestNormalizeMissingMaxFallsBackToMin(t *testing.T) {
	got := Normalize(map[string]any{"estimatedValueMin": 3.5})
	if got.EstimatedValueMax != 3.5 {
		t.Fatalf("expected max 3.5, got %v", got.EstimatedValueMax)
	}
}

func TestNormalizeRoundsToCents(t *testing.T) {
	got := Normalize(map[string]any{"estimatedValueMin": 1.005, "estimatedValueMax": "12.3456"})
	if got.EstimatedValueMin != 1.01 {
		t.Fatalf("expected min 1.01, got %v", got.EstimatedValueMin)
	}
	if got.EstimatedValueMax != 12.35 {
		t.Fatalf("expected max 12.35, got %v", got.EstimatedValueMax)
	}
}

func TestNormalizeConfidence(t *testing.T) {
	cases := map[any]Confidence{
		"extreme": ConfidenceLow,
		"medium":  ConfidenceMedium,
		" High ":  ConfidenceHigh,
		"":        ConfidenceLow,
		1.0:       ConfidenceLow,
	}
	for in, want := range cases {
		if got := Normalize(map[string]any{"confidence": in}).Confidence; got != want {
			t.Fatalf("confidence %v: expected %s, got %s", in, want, got)
		}
	}
}

func TestNormalizeCurrency(t *testing.T) {
	cases := map[string]string{
		"us":    "USD",
		" eur ": "EUR",
		"cad":   "CAD",
		"EURO":  "USD",
		"U$D":   "USD",
		"":      "USD",
		"jpy\n": "JPY",
	}
	for in, want := range cases {
		if got := Normalize(map[string]any{"currency": in}).Currency; got != want {
			t.Fatalf("currency %q: expected %s, got %s", in, want, got)
		}
	}
}

func TestNormalizeYearIsText(t *testing.T) {
	got := Normalize(map[string]any{"year": 1999.0})
	if got.Year != "1999" {
		t.Fatalf("expected year 1999, got %q", got.Year)
	}
	got = Normalize(map[string]any{"year": "   "})
	if got.Year != DefaultYear {
		t.Fatalf("expected blank year to default, got %q", got.Year)
	}
}

func TestNormalizeFromDecodedJSON(t *testing.T) {
	var raw any
	payload := `{"country":"Canada","denomination":"1 Dollar","year":2005,"estimatedValueMin":"1","estimatedValueMax":4,"currency":"cad","confidence":"MEDIUM"}`
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		t.Fatalf("decode: %v", err)
	}
	got := Normalize(raw)
	want := Result{
		Country:           "Canada",
		Denomination:      "1 Dollar",
		Year:              "2005",
		EstimatedValueMin: 1,
		EstimatedValueMax: 4,
		Currency:          "CAD",
		Confidence:        ConfidenceMedium,
	}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

func TestParseModelText(t *testing.T) {
	fenced := "```json\n{\"country\":\"France\"}\n```"
	raw, err := ParseModelText(fenced)
	if err != nil {
		t.Fatalf("parse fenced: %v", err)
	}
	if got := Normalize(raw).Country; got != "France" {
		t.Fatalf("expected France, got %q", got)
	}

	if _, err := ParseModelText("not json at all"); !errors.Is(err, ErrNoJSON) {
		t.Fatalf("expected ErrNoJSON, got %v", err)
	}
	if _, err := ParseModelText("  "); !errors.Is(err, ErrNoJSON) {
		t.Fatalf("expected ErrNoJSON for blank text, got %v", err)
	}
}

func TestNormalizeStringsFallBackForBlankAndNonScalar(t *testing.T) {
	got := Normalize(map[string]any{
		"country":      "",
		"denomination": map[string]any{"name": "Quarter"},
		"year":         []any{1999.0},
	})
	if got.Country != DefaultCountry || got.Denomination != DefaultDenomination || got.Year != DefaultYear {
		t.Fatalf("expected defaults, got %+v", got)
	}

	got = Normalize(map[string]any{"country": true, "denomination": 2.0})
	if got.Country != "true" || got.Denomination != "2" {
		t.Fatalf("expected scalars rendered as text, got %+v", got)
	}
}
