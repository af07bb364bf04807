package coin

// Confidence is the coarse trust label attached to an identification.
type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

const (
	DefaultCountry      = "Unknown"
	DefaultDenomination = "Unknown Coin"
	DefaultYear         = "N/A"
	DefaultCurrency     = "USD"
	DefaultMimeType     = "image/jpeg"

	MaxCountryLen      = 80
	MaxDenominationLen = 80
	MaxYearLen         = 20
)

// Result is the canonical, normalized outcome of a coin identification.
type Result struct {
	Country           string     `json:"country"`
	Denomination      string     `json:"denomination"`
	Year              string     `json:"year"`
	EstimatedValueMin float64    `json:"estimatedValueMin"`
	EstimatedValueMax float64    `json:"estimatedValueMax"`
	Currency          string     `json:"currency"`
	Confidence        Confidence `json:"confidence"`
}

// Map renders the result in the loosely typed shape Normalize accepts.
func (r Result) Map() map[string]any {
	return map[string]any{
		"country":           r.Country,
		"denomination":      r.Denomination,
		"year":              r.Year,
		"estimatedValueMin": r.EstimatedValueMin,
		"estimatedValueMax": r.EstimatedValueMax,
		"currency":          r.Currency,
		"confidence":        string(r.Confidence),
	}
}

// SideImage is one face of a coin captured during a scan session.
type SideImage struct {
	ImageURI    string `json:"imageUri,omitempty"`
	ImageBase64 string `json:"imageBase64,omitempty"`
	MimeType    string `json:"mimeType,omitempty"`
}

// MimeTypeOrDefault returns the declared MIME type, falling back to JPEG.
func (s SideImage) MimeTypeOrDefault() string {
	if s.MimeType == "" {
		return DefaultMimeType
	}
	return s.MimeType
}

// IsZero reports whether the side carries neither a reference nor image data.
func (s SideImage) IsZero() bool {
	return s.ImageURI == "" && s.ImageBase64 == ""
}

// Input is a request to identify a coin. Obverse is mandatory.
type Input struct {
	Obverse SideImage  `json:"obverse"`
	Reverse *SideImage `json:"reverse,omitempty"`
}

// HasReverse reports whether a usable reverse side was supplied.
func (in Input) HasReverse() bool {
	return in.Reverse != nil && !in.Reverse.IsZero()
}
