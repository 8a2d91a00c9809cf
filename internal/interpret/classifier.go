// Package interpret turns free-form pt-BR utterances into structured
// commands: classification, parameter extraction and context refinement.
package interpret

import (
	"regexp"
	"strings"

	"github.com/guilhermexp/lifebetter/internal/model"
)

// classificationRules is an ordered rule table. A text matching several
// keyword sets resolves to the earliest rule; this tie-break order
// (create > update > delete > query > summary > optimize) is a deliberate
// policy, so "agendar outra coisa e cancelar a antiga" still reads as a
// creation.
var classificationRules = []struct {
	Type     model.CommandType
	Keywords []string
}{
	{model.CommandCreate, []string{
		"criar", "adicionar", "agendar", "marcar", "marque",
		"lembrar", "lembre", "anotar", "anote", "nova tarefa",
		"novo evento", "novo compromisso", "preciso de",
	}},
	{model.CommandUpdate, []string{
		"reagendar", "remarcar", "mudar", "alterar", "atualizar",
		"editar", "mover", "adiar", "transferir", "trocar",
	}},
	{model.CommandDelete, []string{
		"cancelar", "cancela", "desmarcar", "excluir", "apagar",
		"remover", "deletar",
	}},
	{model.CommandQuery, []string{
		"listar", "liste", "mostrar", "mostre", "quais", "o que tenho",
		"o que eu tenho", "minha agenda", "meus compromissos",
		"minhas tarefas", "ver tarefas", "ver agenda",
	}},
	{model.CommandSummary, []string{
		"resumo", "resumir", "resuma", "balanco", "como foi",
		"estatisticas", "produtividade", "quanto fiz",
	}},
	{model.CommandOptimize, []string{
		"otimizar", "otimize", "organizar", "reorganizar", "organize",
		"melhorar minha", "sugerir horario", "sugira",
	}},
}

var punctRe = regexp.MustCompile(`[[:punct:]]+`)

// Classify assigns a command type to an already-normalized text, testing
// rules in priority order. Keywords match on word boundaries, so
// "reagendar" does not trip the "agendar" creation keyword.
func Classify(norm string) model.CommandType {
	padded := " " + punctRe.ReplaceAllString(norm, " ") + " "
	for _, rule := range classificationRules {
		for _, kw := range rule.Keywords {
			if strings.Contains(padded, " "+kw+" ") {
				return rule.Type
			}
		}
	}
	return model.CommandUnknown
}
