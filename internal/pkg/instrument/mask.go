package instrument

import (
	"encoding/json"
	"log/slog"
	"strings"
)

// Masked replaces every redacted value.
const Masked = "***"

// seedLen is the length of a hex encoded 32 byte seed.
const seedLen = 64

// Masker redacts configured keys (case-insensitive) anywhere in a log value.
// Strings shaped like a seed are redacted whatever their key, so a seed that
// reaches a log line through an error message or a raw body is still hidden.
type Masker struct {
	keys map[string]struct{}
}

func NewMasker(fields []string) *Masker {
	keys := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if f = strings.ToLower(strings.TrimSpace(f)); f != "" {
			keys[f] = struct{}{}
		}
	}
	return &Masker{keys: keys}
}

// Masks reports whether values under key are redacted.
func (m *Masker) Masks(key string) bool {
	_, ok := m.keys[strings.ToLower(key)]
	return ok
}

// Value returns v with masked keys replaced. Maps and slices are copied,
// never modified in place.
func (m *Masker) Value(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, inner := range val {
			if m.Masks(k) {
				out[k] = Masked
				continue
			}
			out[k] = m.Value(inner)
		}
		return out
	case map[string]string:
		out := make(map[string]any, len(val))
		for k, inner := range val {
			out[k] = inner
		}
		return m.Value(out)
	case []any:
		out := make([]any, len(val))
		for i, inner := range val {
			out[i] = m.Value(inner)
		}
		return out
	case string:
		return m.String(val)
	default:
		return v
	}
}

// String masks a seed-shaped value and masks keys inside a JSON document.
// Other strings are returned unchanged.
func (m *Masker) String(s string) string {
	if looksLikeSeed(s) {
		return Masked
	}
	if s == "" || (s[0] != '{' && s[0] != '[') {
		return s
	}

	var doc any
	if err := json.Unmarshal([]byte(s), &doc); err != nil {
		return s
	}
	out, err := json.Marshal(m.Value(doc))
	if err != nil {
		return s
	}
	return string(out)
}

// Attr applies Value to a slog attribute, descending into groups.
func (m *Masker) Attr(a slog.Attr) slog.Attr {
	if m.Masks(a.Key) {
		return slog.String(a.Key, Masked)
	}

	switch a.Value.Kind() {
	case slog.KindGroup:
		group := a.Value.Group()
		out := make([]slog.Attr, len(group))
		for i, ga := range group {
			out[i] = m.Attr(ga)
		}
		a.Value = slog.GroupValue(out...)
	case slog.KindString:
		a.Value = slog.StringValue(m.String(a.Value.String()))
	case slog.KindAny:
		switch val := a.Value.Any().(type) {
		case []byte:
			a.Value = slog.StringValue(m.String(string(val)))
		case error:
			a.Value = slog.StringValue(m.String(val.Error()))
		case map[string]any, map[string]string, []any:
			a.Value = slog.AnyValue(m.Value(val))
		}
	}
	return a
}

func looksLikeSeed(s string) bool {
	if len(s) != seedLen {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
