package toon

// ============================================================
// Token Counting (Estimation)
// ============================================================

// EstimateTokens estimates the number of LLM tokens in a string.
// Uses a simple heuristic: ~4 chars per token, rounded up.
func EstimateTokens(s string) int {
	return (len(s) + 3) / 4
}

// EstimateSavings returns the estimated token saving of toonText over the
// compact JSON form of v, as a percentage clamped to [0, 100].
// This is advisory telemetry.
func EstimateSavings(toonText string, v *Value) float64 {
	data, err := v.MarshalJSON()
	if err != nil {
		return 0
	}
	return savingsPercent(EstimateTokens(toonText), EstimateTokens(string(data)))
}

// Savings compares the TOON and compact JSON forms of one value.
type Savings struct {
	JSONBytes  int
	TOONBytes  int
	JSONTokens int
	TOONTokens int
	Percent    float64 // token saving, clamped to [0, 100]
}

// Compare encodes v both ways and measures them.
func Compare(v *Value, opts Options) (Savings, error) {
	text, err := EncodeWithOptions(v, opts)
	if err != nil {
		return Savings{}, err
	}
	data, err := v.MarshalJSON()
	if err != nil {
		return Savings{}, err
	}
	s := Savings{
		JSONBytes:  len(data),
		TOONBytes:  len(text),
		JSONTokens: EstimateTokens(string(data)),
		TOONTokens: EstimateTokens(text),
	}
	s.Percent = savingsPercent(s.TOONTokens, s.JSONTokens)
	return s, nil
}

func savingsPercent(toonTokens, jsonTokens int) float64 {
	if jsonTokens == 0 {
		return 0
	}
	pct := (1 - float64(toonTokens)/float64(jsonTokens)) * 100
	if pct < 0 {
		return 0
	}
	return pct
}
