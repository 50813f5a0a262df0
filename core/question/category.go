package question

import (
	"strings"
	"unicode"
)

// Canonical category tags: the language-agnostic subject labels used for
// filtering, distinct from the raw bilingual labels stored on questions.
const (
	CategoryGeneral = "aircraft-general"
)

type categoryMapping struct {
	Tag      string
	Patterns []string
}

// categoryMappings maps free-text, bilingual (English/Spanish) category
// labels to canonical tags. First mapping with any matching pattern wins,
// so table order encodes priority and must be preserved.
var categoryMappings = []categoryMapping{
	{"electrical", []string{"electrical", "electrical system", "electrics", "sistema electrico", "electricidad"}},
	{"hydraulics", []string{"hydraulics", "hydraulic system", "sistema hidraulico", "hidraulica"}},
	{"pneumatics", []string{"pneumatics", "pneumatic system", "bleed air", "sistema neumatico", "neumatica"}},
	{"fuel", []string{"fuel", "fuel system", "sistema de combustible", "combustible"}},
	{"flight-controls", []string{"flight controls", "flight control system", "mandos de vuelo", "controles de vuelo"}},
	{"landing-gear", []string{"landing gear", "gear and brakes", "tren de aterrizaje"}},
	{"powerplant", []string{"powerplant", "engines", "engine systems", "motores", "planta de poder"}},
	{"apu", []string{"apu", "auxiliary power unit", "unidad auxiliar de potencia"}},
	{"air-conditioning", []string{"air conditioning", "pressurization", "air systems", "aire acondicionado", "presurizacion"}},
	{"fire-protection", []string{"fire protection", "fire detection", "proteccion contra incendios", "fuego"}},
	{"ice-rain-protection", []string{"ice and rain protection", "anti-ice", "proteccion contra hielo"}},
	{"oxygen", []string{"oxygen", "oxygen system", "oxigeno"}},
	{"autoflight", []string{"autoflight", "autopilot", "automatic flight", "piloto automatico", "vuelo automatico"}},
	{"navigation", []string{"navigation", "instruments and navigation", "navegacion", "instrumentos"}},
	{"communications", []string{"communications", "radio", "comunicaciones"}},
	{"warning-systems", []string{"warning systems", "alerts and warnings", "ecam", "eicas", "sistemas de alerta", "avisos"}},
	{"performance", []string{"performance", "takeoff performance", "landing performance", "rendimiento", "performancia"}},
	{"weight-balance", []string{"weight and balance", "mass and balance", "peso y balance", "masa y centrado"}},
	{"limitations", []string{"limitations", "operational limits", "limitaciones"}},
	{"emergency-procedures", []string{"emergency procedures", "abnormal procedures", "emergencies", "procedimientos de emergencia", "emergencias"}},
	{"meteorology", []string{"meteorology", "weather", "meteorologia"}},
	{"regulations", []string{"regulations", "air law", "regulaciones", "normativa", "reglamentacion"}},
	{CategoryGeneral, []string{"general", "general knowledge", "aircraft systems", "sistemas de aeronave", "conocimientos generales"}},
}

// sanitized pattern lists, with each canonical tag listed as its own first
// pattern so that normalizing an already-canonical tag returns itself.
var sanitizedMappings []categoryMapping

func init() {
	sanitizedMappings = make([]categoryMapping, 0, len(categoryMappings))
	for _, m := range categoryMappings {
		patterns := make([]string, 0, len(m.Patterns)+1)
		patterns = append(patterns, sanitizeLabel(m.Tag))
		for _, p := range m.Patterns {
			patterns = append(patterns, sanitizeLabel(p))
		}
		sanitizedMappings = append(sanitizedMappings, categoryMapping{Tag: m.Tag, Patterns: patterns})
	}
}

// CategoryTags returns the canonical tags in priority order.
func CategoryTags() []string {
	tags := make([]string, 0, len(categoryMappings))
	for _, m := range categoryMappings {
		tags = append(tags, m.Tag)
	}
	return tags
}

// Normalize maps a free-text category label to its canonical tag.
// Secondary signals (exam title, aircraft) may be passed as hints and are
// tried in order when the label itself does not match. When nothing matches,
// the original label is returned unchanged: callers must be prepared to
// receive non-canonical values.
func Normalize(category string, hints ...string) string {
	if strings.TrimSpace(category) == "" {
		return CategoryGeneral
	}

	if tag, ok := matchCategory(category); ok {
		return tag
	}
	for _, hint := range hints {
		if strings.TrimSpace(hint) == "" {
			continue
		}
		if tag, ok := matchCategory(hint); ok {
			return tag
		}
	}
	return category
}

func matchCategory(label string) (string, bool) {
	s := sanitizeLabel(label)
	if s == "" {
		return "", false
	}
	for _, m := range sanitizedMappings {
		for _, p := range m.Patterns {
			if labelsMatch(s, p) {
				return m.Tag, true
			}
		}
	}
	return "", false
}

// labelsMatch applies the three-test match shared by the normalizer and the
// category filter strategy: exact equality, s contains pattern, or pattern
// contains s. Both sides are assumed sanitized.
func labelsMatch(s, pattern string) bool {
	return s == pattern || strings.Contains(s, pattern) || strings.Contains(pattern, s)
}

// sanitizeLabel lowercases, strips punctuation and accents, and collapses
// whitespace, so that "Sistema Eléctrico" and "sistema electrico" compare equal.
func sanitizeLabel(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	lastSpace := true
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(stripAccent(r))
			lastSpace = false
		case r == '-' || unicode.IsSpace(r):
			if !lastSpace {
				b.WriteRune(' ')
				lastSpace = true
			}
		default:
			// punctuation: dropped
		}
	}
	return strings.TrimSpace(b.String())
}

var accentFold = map[rune]rune{
	'á': 'a', 'à': 'a', 'ä': 'a', 'â': 'a',
	'é': 'e', 'è': 'e', 'ë': 'e', 'ê': 'e',
	'í': 'i', 'ì': 'i', 'ï': 'i', 'î': 'i',
	'ó': 'o', 'ò': 'o', 'ö': 'o', 'ô': 'o',
	'ú': 'u', 'ù': 'u', 'ü': 'u', 'û': 'u',
	'ñ': 'n', 'ç': 'c',
}

func stripAccent(r rune) rune {
	if f, ok := accentFold[r]; ok {
		return f
	}
	return r
}
