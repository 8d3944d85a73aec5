package convert

import (
	"bytes"
	"fmt"
	"sort"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/Neumenon/toon/toon"
)

// FromTOML reads a TOML document. TOML tables are unordered once decoded,
// so object keys come out sorted. Dates and times become strings.
func FromTOML(data []byte) (*toon.Value, error) {
	var doc map[string]any
	if len(bytes.TrimSpace(data)) > 0 {
		if err := toml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("convert: failed to parse TOML: %w", err)
		}
	}
	return tomlToValue(doc)
}

func tomlToValue(x any) (*toon.Value, error) {
	switch t := x.(type) {
	case nil:
		return toon.Object(), nil
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		obj := toon.Object()
		for _, k := range keys {
			v, err := tomlToValue(t[k])
			if err != nil {
				return nil, err
			}
			obj.Set(k, v)
		}
		return obj, nil
	case []any:
		arr := toon.Array()
		for _, item := range t {
			v, err := tomlToValue(item)
			if err != nil {
				return nil, err
			}
			arr.Append(v)
		}
		return arr, nil
	case time.Time:
		return toon.Str(t.Format(time.RFC3339Nano)), nil
	case fmt.Stringer:
		// toml.LocalDate, toml.LocalTime and toml.LocalDateTime.
		return toon.Str(t.String()), nil
	}
	return toon.FromGo(x)
}

// ToTOML writes v as a TOML document. v must be an object, and TOML has no
// null, so null values anywhere are an error.
func ToTOML(v *toon.Value) ([]byte, error) {
	if v.Kind() != toon.KindObject {
		return nil, fmt.Errorf("convert: TOML documents must be objects, got %s", v.Kind())
	}
	doc, err := valueToTOML(v, "")
	if err != nil {
		return nil, err
	}
	data, err := toml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("convert: failed to marshal TOML: %w", err)
	}
	return data, nil
}

func valueToTOML(v *toon.Value, path string) (any, error) {
	switch v.Kind() {
	case toon.KindNull:
		if path == "" {
			path = "(root)"
		}
		return nil, fmt.Errorf("convert: TOML cannot represent null at %s", path)
	case toon.KindArray:
		items := v.Items()
		out := make([]any, len(items))
		for i, item := range items {
			x, err := valueToTOML(item, fmt.Sprintf("%s[%d]", path, i))
			if err != nil {
				return nil, err
			}
			out[i] = x
		}
		return out, nil
	case toon.KindObject:
		out := make(map[string]any, v.Len())
		for _, f := range v.Fields() {
			p := f.Key
			if path != "" {
				p = path + "." + f.Key
			}
			x, err := valueToTOML(f.Value, p)
			if err != nil {
				return nil, err
			}
			out[f.Key] = x
		}
		return out, nil
	}
	return v.Interface(), nil
}
