package toon

import (
	"crypto/sha256"
	"strconv"
	"testing"

	"lukechampine.com/frand"
)

// ============================================================
// Randomised Round-Trip Tests
// ============================================================
//
// Each test builds a fresh deterministic RNG so failures reproduce.

// alphabet is weighted towards characters that force quoting.
var alphabet = []rune("abcXYZ019 ,:{}[]\"\\\n\r\t#-|;é日")

var words = []string{"true", "false", "null", "123", "-4", "1.5", "{}", "[]", "#2{a}:", "x: y", ""}

func newRand(t *testing.T) *frand.RNG {
	seed := sha256.Sum256([]byte(t.Name()))
	return frand.NewCustom(seed[:], 32, 12)
}

func randString(rng *frand.RNG, max int) string {
	if rng.Intn(5) == 0 {
		return words[rng.Intn(len(words))]
	}
	n := rng.Intn(max + 1)
	rs := make([]rune, n)
	for i := range rs {
		rs[i] = alphabet[rng.Intn(len(alphabet))]
	}
	return string(rs)
}

func randScalar(rng *frand.RNG) *Value {
	switch rng.Intn(6) {
	case 0:
		return Null()
	case 1:
		return Bool(rng.Intn(2) == 1)
	case 2:
		return Int(int64(rng.Intn(2_000_000)) - 1_000_000)
	case 3:
		return Float(float64(rng.Intn(2_000_000)-1_000_000) / 1000)
	default:
		return Str(randString(rng, 12))
	}
}

func randKeys(rng *frand.RNG, n int) []string {
	seen := make(map[string]bool, n)
	keys := make([]string, 0, n)
	for len(keys) < n {
		k := randString(rng, 8)
		if rng.Intn(2) == 0 {
			k = "k" + strconv.Itoa(rng.Intn(1000))
		}
		if seen[k] {
			continue
		}
		seen[k] = true
		keys = append(keys, k)
	}
	return keys
}

// randTable builds a table-shaped array with scalar cells.
func randTable(rng *frand.RNG) *Value {
	cols := randKeys(rng, 1+rng.Intn(4))
	arr := Array()
	for r := 0; r < 1+rng.Intn(5); r++ {
		row := Object()
		for _, c := range cols {
			row.Set(c, randScalar(rng))
		}
		arr.Append(row)
	}
	return arr
}

func randObject(rng *frand.RNG, depth int) *Value {
	obj := Object()
	for _, k := range randKeys(rng, rng.Intn(6)) {
		var v *Value
		switch n := rng.Intn(10); {
		case n < 5:
			v = randScalar(rng)
		case n == 5 && depth > 0:
			v = randObject(rng, depth-1)
		case n == 6:
			v = Array()
			for i := 0; i < rng.Intn(5); i++ {
				v.Append(randScalar(rng))
			}
		case n == 7:
			v = randTable(rng)
		case n == 8:
			v = Object()
		default:
			v = Str(randString(rng, 20))
		}
		obj.Set(k, v)
	}
	return obj
}

func TestRoundTrip_RandomObjects(t *testing.T) {
	rng := newRand(t)
	for i := 0; i < 300; i++ {
		v := randObject(rng, 3)
		text, err := EncodeWithOptions(v, StrictOptions())
		if err != nil {
			t.Fatalf("iteration %d: strict encode failed: %v", i, err)
		}
		r := Parse(text)
		if r.HasErrors() || len(r.Warnings) > 0 {
			t.Fatalf("iteration %d: parse problems %v %v\n%s", i, r.Errors, r.Warnings, text)
		}
		if !Equal(r.Value, v) {
			t.Fatalf("iteration %d: round trip mismatch\n--- text ---\n%s\n--- reencoded ---\n%s", i, text, Encode(r.Value))
		}
	}
}

func TestRoundTrip_RandomTablesWithDelimiters(t *testing.T) {
	rng := newRand(t)
	delims := []rune{',', '|', '\t', ';'}
	for i := 0; i < 200; i++ {
		delim := delims[i%len(delims)]
		v := Object(FieldVal("rows", randTable(rng)), FieldVal("tags", Array(randScalar(rng), randScalar(rng))))

		text, err := EncodeWithOptions(v, Options{Delimiter: delim, Strict: true, LengthMarker: "#"})
		if err != nil {
			t.Fatalf("iteration %d: %v", i, err)
		}
		got, err := Decode(text)
		if err != nil {
			t.Fatalf("iteration %d (delim %q): %v\n%s", i, delim, err, text)
		}
		if !Equal(got, v) {
			t.Fatalf("iteration %d (delim %q): mismatch\n%s", i, delim, text)
		}
	}
}

func TestRoundTrip_RandomRootForms(t *testing.T) {
	rng := newRand(t)
	for i := 0; i < 200; i++ {
		var v *Value
		switch i % 3 {
		case 0:
			v = randScalar(rng)
		case 1:
			v = Array(randScalar(rng), randScalar(rng), randScalar(rng))
		default:
			v = randTable(rng)
		}
		text := Encode(v)
		got, err := Decode(text)
		if err != nil {
			t.Fatalf("iteration %d: %v\n%s", i, err, text)
		}
		if !Equal(got, v) {
			t.Fatalf("iteration %d: mismatch\n%s", i, text)
		}
	}
}

func TestRoundTrip_IndentWidths(t *testing.T) {
	rng := newRand(t)
	for _, indent := range []int{1, 2, 4, 8} {
		for i := 0; i < 50; i++ {
			v := randObject(rng, 3)
			text, err := EncodeWithOptions(v, Options{Indent: indent, Strict: true})
			if err != nil {
				t.Fatal(err)
			}
			got, err := Decode(text)
			if err != nil {
				t.Fatalf("indent %d: %v\n%s", indent, err, text)
			}
			if !Equal(got, v) {
				t.Fatalf("indent %d: mismatch\n%s", indent, text)
			}
		}
	}
}
