package lookup

import (
	"strings"

	"github.com/nerrad567/dcs-inspector-core/internal/reconcile"
)

// clickableFields is the number of comma-separated fields in a row.
const clickableFields = 9

// Row is one parsed clickable-data entry.
type Row struct {
	Device      string `json:"device"`
	DeviceID    string `json:"device_id"`
	ButtonID    string `json:"button_id"`
	Element     string `json:"element"`
	Type        string `json:"type"`
	DcsID       string `json:"dcs_id"`
	ClickValue  string `json:"click_value"`
	LimitMin    string `json:"limit_min"`
	LimitMax    string `json:"limit_max"`
	Description string `json:"description"`
}

// ParseRow parses "device(id),button,element,type,dcs_id,click,min,max,description".
// Missing trailing fields are left empty.
func ParseRow(s string) Row {
	parts := strings.SplitN(s, ",", clickableFields)
	field := func(i int) string {
		if i < len(parts) {
			return parts[i]
		}
		return ""
	}

	return Row{
		Device:      field(0),
		DeviceID:    ExtractDeviceID(field(0)),
		ButtonID:    field(1),
		Element:     field(2),
		Type:        field(3),
		DcsID:       field(4),
		ClickValue:  field(5),
		LimitMin:    field(6),
		LimitMax:    field(7),
		Description: field(8),
	}
}

// ParseClickable parses every row.
func ParseClickable(rows []string) []Row {
	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		out = append(out, ParseRow(r))
	}
	return out
}

// ExtractDeviceID returns the id embedded in the last parenthesised group
// of a device name, e.g. "12" from "Device (12)". It returns "" when the
// name has no parentheses.
func ExtractDeviceID(device string) string {
	open := strings.LastIndex(device, "(")
	if open < 0 || !strings.Contains(device, ")") {
		return ""
	}
	rest := device[open+1:]
	if end := strings.Index(rest, ")"); end >= 0 {
		return rest[:end]
	}
	return rest
}

// Selection converts the row into an import selection.
func (r Row) Selection(direction string) reconcile.Selection {
	return reconcile.Selection{
		DeviceID:        r.DeviceID,
		ButtonID:        r.ButtonID,
		DcsID:           r.DcsID,
		ClickValue:      r.ClickValue,
		LimitMin:        r.LimitMin,
		LimitMax:        r.LimitMax,
		SwitchDirection: direction,
	}
}

// Matches reports whether query appears, case-insensitively, in the
// device, element, dcs id or description. An empty query matches.
func (r Row) Matches(query string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(r.Device), q) ||
		strings.Contains(strings.ToLower(r.Element), q) ||
		strings.Contains(strings.ToLower(r.DcsID), q) ||
		strings.Contains(strings.ToLower(r.Description), q)
}

// IndexedRow is a row with its position in the unfiltered table.
type IndexedRow struct {
	Index int `json:"index"`
	Row
}

// Filter returns the rows matching query, keeping their original indices.
func Filter(rows []Row, query string) []IndexedRow {
	out := make([]IndexedRow, 0, len(rows))
	for i, r := range rows {
		if r.Matches(query) {
			out = append(out, IndexedRow{Index: i, Row: r})
		}
	}
	return out
}
