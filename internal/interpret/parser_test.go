package interpret

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guilhermexp/lifebetter/internal/model"
)

func TestParseProducesTypedParams(t *testing.T) {
	cmd := Parse("agendar reunião amanhã às 15h", nil, ref)

	assert.Equal(t, model.CommandCreate, cmd.Type)
	require.NotNil(t, cmd.Create)
	assert.Equal(t, "reunião", cmd.Create.Title)
	assert.Equal(t, "2025-03-13", cmd.Create.Date)
	assert.Equal(t, "15:00", cmd.Create.Time)
	assert.Nil(t, cmd.Update)
	assert.Nil(t, cmd.Query)
}

func TestParseUnknownWithoutContextStaysUnknown(t *testing.T) {
	cmd := Parse("às 16h", nil, ref)
	assert.Equal(t, model.CommandUnknown, cmd.Type)
}

func TestParseRefinesTimeReply(t *testing.T) {
	history := []model.Message{
		{Role: model.RoleUser, Content: "agendar reunião amanhã"},
		{Role: model.RoleAssistant, Content: "Para que horas devo marcar a reunião?"},
	}
	cmd := Parse("às 16h", history, ref)

	assert.Equal(t, model.CommandCreate, cmd.Type)
	require.NotNil(t, cmd.Create)
	assert.Equal(t, "16:00", cmd.Create.Time)
	assert.Empty(t, cmd.Create.Title)
}

func TestParseRefinesDateReply(t *testing.T) {
	history := []model.Message{
		{Role: model.RoleAssistant, Content: "Para que dia devo agendar?"},
	}
	cmd := Parse("sexta-feira", history, ref)

	assert.Equal(t, model.CommandCreate, cmd.Type)
	require.NotNil(t, cmd.Create)
	assert.Equal(t, "2025-03-14", cmd.Create.Date)
}

func TestParseRefinesLocationReply(t *testing.T) {
	history := []model.Message{
		{Role: model.RoleAssistant, Content: "Onde será o almoço?"},
	}
	cmd := Parse("Restaurante Vila Madá", history, ref)

	assert.Equal(t, model.CommandCreate, cmd.Type)
	require.NotNil(t, cmd.Create)
	assert.Equal(t, "Restaurante Vila Madá", cmd.Create.Location)
}

func TestParseRefinementWindowIsLimited(t *testing.T) {
	history := []model.Message{
		{Role: model.RoleAssistant, Content: "Para que horas devo marcar?"},
		{Role: model.RoleUser, Content: "deixa pra lá"},
		{Role: model.RoleUser, Content: "outra coisa"},
		{Role: model.RoleUser, Content: "mais uma"},
	}
	// The prompt fell outside the 3-turn window.
	cmd := Parse("às 16h", history, ref)
	assert.Equal(t, model.CommandUnknown, cmd.Type)
}

func TestParseRefinementDoesNotOverrideClassified(t *testing.T) {
	history := []model.Message{
		{Role: model.RoleAssistant, Content: "Para que horas devo marcar?"},
	}
	cmd := Parse("cancelar a reunião", history, ref)
	assert.Equal(t, model.CommandDelete, cmd.Type)
}
