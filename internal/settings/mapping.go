package settings

import (
	"fmt"
	"strings"
)

const (
	mappingEntrySep = ";"
	mappingFieldSep = ":"
)

// ValueMapping maps a monitored value to display text, an image and
// optional colours. A sequence of mappings is stored in a single string
// field; order is display order.
type ValueMapping struct {
	Value     string `json:"value"`
	Text      string `json:"text"`
	Image     string `json:"image"`
	TextColor string `json:"text_color,omitempty"`
	BgColor   string `json:"bg_color,omitempty"`
}

func (m ValueMapping) fields() []string {
	return []string{m.Value, m.Text, m.Image, m.TextColor, m.BgColor}
}

// FormatMappings serialises mappings as "value:text:image:textColor:bgColor"
// entries joined with ";". Every entry carries all five positions, so empty
// trailing sub-fields keep their separators.
func FormatMappings(mappings []ValueMapping) (string, error) {
	entries := make([]string, 0, len(mappings))
	for i, m := range mappings {
		fields := m.fields()
		for _, f := range fields {
			if strings.ContainsAny(f, mappingEntrySep+mappingFieldSep) {
				return "", fmt.Errorf("%w: entry %d field %q contains a separator", ErrInvalidMapping, i, f)
			}
		}
		entries = append(entries, strings.Join(fields, mappingFieldSep))
	}
	return strings.Join(entries, mappingEntrySep), nil
}

// ParseMappings parses a serialised mapping string.
// Empty entries are skipped. Entries with fewer than five sub-fields are
// accepted (older records stored only value:text or value:text:image) and
// the missing positions are left empty. Entries without any ":" carry no
// display data and are skipped.
func ParseMappings(s string) []ValueMapping {
	if s == "" {
		return nil
	}

	var out []ValueMapping
	for _, entry := range strings.Split(s, mappingEntrySep) {
		if entry == "" || !strings.Contains(entry, mappingFieldSep) {
			continue
		}
		parts := strings.SplitN(entry, mappingFieldSep, 5)
		var m ValueMapping
		m.Value = parts[0]
		m.Text = parts[1]
		if len(parts) > 2 {
			m.Image = parts[2]
		}
		if len(parts) > 3 {
			m.TextColor = parts[3]
		}
		if len(parts) > 4 {
			m.BgColor = parts[4]
		}
		out = append(out, m)
	}
	return out
}

// FindMapping returns the first mapping whose Value equals value.
func FindMapping(mappings []ValueMapping, value string) (ValueMapping, bool) {
	for _, m := range mappings {
		if m.Value == value {
			return m, true
		}
	}
	return ValueMapping{}, false
}
