package models

import "strings"

// SummaryStyle selects the instruction sent to the model and the shaping
// applied to its output.
type SummaryStyle int

const (
	StyleBrief SummaryStyle = iota
	StyleDetailed
	StyleSOAP
	StyleStructured
	StyleRawJSON

	styleCount
)

// DefaultStyle is used for empty and unrecognised style names.
const DefaultStyle = StyleBrief

var styleNames = [styleCount]string{
	StyleBrief:      "brief",
	StyleDetailed:   "detailed",
	StyleSOAP:       "soap",
	StyleStructured: "structured",
	StyleRawJSON:    "rawjson",
}

// ParseStyle resolves a style name case-insensitively. The second return
// value is false when the name was empty or unknown and DefaultStyle was
// substituted.
func ParseStyle(name string) (SummaryStyle, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range styleNames {
		if n == name {
			return SummaryStyle(i), true
		}
	}
	return DefaultStyle, false
}

func (s SummaryStyle) String() string {
	if s < 0 || s >= styleCount {
		return styleNames[DefaultStyle]
	}
	return styleNames[s]
}

// Styles returns every known style in declaration order.
func Styles() []SummaryStyle {
	out := make([]SummaryStyle, 0, styleCount)
	for s := SummaryStyle(0); s < styleCount; s++ {
		out = append(out, s)
	}
	return out
}
