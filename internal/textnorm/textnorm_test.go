package textnorm

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Amanhã às 15h", "amanha as 15h"},
		{"REUNIÃO", "reuniao"},
		{"  café com os pais  ", "cafe com os pais"},
		{"terça-feira", "terca-feira"},
		{"já normalizado", "ja normalizado"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
