package toon

// Format re-indents and canonicalises TOON text: it parses text and encodes
// the result with opts. Structural errors in text are returned alongside the
// formatted partial result.
func Format(text string, opts Options) (string, error) {
	r := Parse(text)
	out, err := EncodeWithOptions(r.Value, opts)
	if err != nil {
		return "", err
	}
	return out, r.Err()
}
