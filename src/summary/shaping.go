package summary

import (
	"bytes"
	"encoding/json"
	"strings"

	"www.github.com/Wanderer0074348/ClinicalSummary/src/models"
)

// Shaped is a raw summary rendered for one style. Structured is set only for
// the structured style.
type Shaped struct {
	Text       string
	Structured *models.StructuredSummary
}

type shaper func(raw string) Shaped

// shapers has one entry per style. Shape treats a missing entry as verbatim.
var shapers = map[models.SummaryStyle]shaper{
	models.StyleBrief:      shapeVerbatim,
	models.StyleDetailed:   shapeVerbatim,
	models.StyleSOAP:       shapeVerbatim,
	models.StyleStructured: shapeStructured,
	models.StyleRawJSON:    shapeRawJSON,
}

// Shape renders a raw cached or freshly completed summary for style. It never
// fails: unparseable structured output yields empty lists and unparseable
// rawjson output is returned unchanged.
func Shape(style models.SummaryStyle, raw string) Shaped {
	if fn, ok := shapers[style]; ok {
		return fn(raw)
	}
	return shapeVerbatim(raw)
}

func shapeVerbatim(raw string) Shaped {
	return Shaped{Text: raw}
}

func shapeStructured(raw string) Shaped {
	out := models.EmptyStructuredSummary()

	var parsed models.StructuredSummary
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &parsed); err != nil {
		return Shaped{Structured: out}
	}

	if parsed.Diagnoses != nil {
		out.Diagnoses = parsed.Diagnoses
	}
	if parsed.Medications != nil {
		out.Medications = parsed.Medications
	}
	if parsed.Plan != nil {
		out.Plan = parsed.Plan
	}

	return Shaped{Structured: out}
}

func shapeRawJSON(raw string) Shaped {
	var buf bytes.Buffer
	if err := json.Indent(&buf, []byte(stripCodeFence(raw)), "", "  "); err != nil {
		return Shaped{Text: raw}
	}
	return Shaped{Text: buf.String()}
}

// stripCodeFence removes a surrounding markdown ``` or ```json fence.
func stripCodeFence(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") || !strings.HasSuffix(s, "```") || len(s) < 6 {
		return s
	}

	s = strings.TrimSuffix(strings.TrimPrefix(s, "```"), "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		lang := strings.TrimSpace(s[:nl])
		if lang == "" || lang == "json" || lang == "JSON" {
			s = s[nl+1:]
		}
	}

	return strings.TrimSpace(s)
}
