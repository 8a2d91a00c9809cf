package interpret

import (
	"testing"

	"github.com/guilhermexp/lifebetter/internal/model"
	"github.com/guilhermexp/lifebetter/internal/textnorm"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		text string
		want model.CommandType
	}{
		{"agendar reunião amanhã às 15h", model.CommandCreate},
		{"marcar consulta dia 20/3", model.CommandCreate},
		{"lembrar de comprar pão", model.CommandCreate},
		{"reagendar reunião para amanhã", model.CommandUpdate},
		{"mudar o horário da consulta", model.CommandUpdate},
		{"cancelar o jantar de sexta", model.CommandDelete},
		{"apagar a tarefa de ontem", model.CommandDelete},
		{"o que tenho para hoje?", model.CommandQuery},
		{"mostrar minha agenda da semana", model.CommandQuery},
		{"resumo da semana", model.CommandSummary},
		{"como foi minha produtividade?", model.CommandSummary},
		{"otimizar minha agenda", model.CommandOptimize},
		{"reorganizar meus horários", model.CommandOptimize},
		{"bom dia!", model.CommandUnknown},
		{"", model.CommandUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			if got := Classify(textnorm.Normalize(tt.text)); got != tt.want {
				t.Errorf("Classify(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

// A text hitting both the create and delete keyword sets resolves to the
// earliest rule in priority order.
func TestClassifyPriorityOrder(t *testing.T) {
	got := Classify(textnorm.Normalize("agendar nova consulta e cancelar a antiga"))
	if got != model.CommandCreate {
		t.Errorf("Classify() = %q, want %q", got, model.CommandCreate)
	}
}

func TestClassifyWordBoundaries(t *testing.T) {
	// "reagendar" must not trip the "agendar" creation keyword.
	got := Classify(textnorm.Normalize("reagendar reunião"))
	if got != model.CommandUpdate {
		t.Errorf("Classify(\"reagendar reunião\") = %q, want %q", got, model.CommandUpdate)
	}
}
