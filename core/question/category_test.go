package question

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		category string
		hints    []string
		want     string
	}{
		{name: "empty returns general", category: "", want: CategoryGeneral},
		{name: "blank returns general", category: "   ", want: CategoryGeneral},
		{name: "english label", category: "Electrical System", want: "electrical"},
		{name: "spanish label with accents", category: "Sistema Eléctrico", want: "electrical"},
		{name: "spanish lowercase", category: "sistema hidraulico", want: "hydraulics"},
		{name: "label with punctuation", category: "Fuel, System.", want: "fuel"},
		{name: "contains pattern", category: "Advanced Landing Gear Operations", want: "landing-gear"},
		{name: "pattern contains input", category: "emergencias", want: "emergency-procedures"},
		{name: "unmatched falls through to exam title hint", category: "Módulo 7", hints: []string{"A320 Hydraulics Exam"}, want: "hydraulics"},
		{name: "unmatched with no hints returns original", category: "Zzz Unknown Subject", want: "Zzz Unknown Subject"},
		{name: "second hint used when first does not match", category: "Módulo 9", hints: []string{"Parte 2", "Curso de Meteorología"}, want: "meteorology"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.category, tt.hints...); got != tt.want {
				t.Errorf("Normalize(%q, %v) = %q; want %q", tt.category, tt.hints, got, tt.want)
			}
		})
	}
}

// Normalizing an already-canonical tag must return itself: every canonical
// tag is listed as its own pattern.
func TestNormalize_idempotence(t *testing.T) {
	for _, tag := range CategoryTags() {
		if got := Normalize(tag); got != tag {
			t.Errorf("Normalize(%q) = %q; want itself", tag, got)
		}
	}

	inputs := []string{"Sistema Eléctrico", "performance", "", "unmatched label"}
	for _, in := range inputs {
		once := Normalize(in)
		if twice := Normalize(once); twice != once {
			t.Errorf("Normalize(Normalize(%q)): got %q; want %q", in, twice, once)
		}
	}
}

func TestNormalize_tableOrderIsPriority(t *testing.T) {
	// "general knowledge of hydraulics" contains patterns of both the
	// hydraulics and the general mappings; hydraulics comes first in the
	// table and must win.
	if got := Normalize("general knowledge of hydraulics"); got != "hydraulics" {
		t.Errorf("Normalize() = %q; want %q", got, "hydraulics")
	}
}

func TestSanitizeLabel(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Sistema Eléctrico", "sistema electrico"},
		{"  Fuel,  System!  ", "fuel system"},
		{"anti-ice", "anti ice"},
		{"ALL-CAPS", "all caps"},
		{"...", ""},
	}
	for _, tt := range tests {
		if got := sanitizeLabel(tt.in); got != tt.want {
			t.Errorf("sanitizeLabel(%q) = %q; want %q", tt.in, got, tt.want)
		}
	}
}
