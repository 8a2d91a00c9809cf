package executor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guilhermexp/lifebetter/internal/model"
)

// ref is a Wednesday.
var ref = time.Date(2025, 3, 12, 10, 0, 0, 0, time.UTC)

func newExecutor() *Executor {
	cfg := model.DefaultConfig().Schedule
	return New(cfg)
}

func TestExecuteCreate_RequiresTitle(t *testing.T) {
	e := newExecutor()
	res := e.Execute(model.Command{
		Type:   model.CommandCreate,
		Create: &model.CreateParams{Date: "2025-03-14"},
	}, nil, ref)

	assert.False(t, res.Success)
	assert.Contains(t, res.Message, "título")
}

func TestExecuteCreate_EchoesFields(t *testing.T) {
	e := newExecutor()
	res := e.Execute(model.Command{
		Type: model.CommandCreate,
		Create: &model.CreateParams{
			Title:    "almoço com pais de Gardenia",
			Date:     "2025-03-16",
			Time:     "12:30",
			Location: "restaurante",
		},
	}, nil, ref)

	require.True(t, res.Success)
	assert.Contains(t, res.Message, `"almoço com pais de Gardenia"`)
	assert.Contains(t, res.Message, "16/03")
	assert.Contains(t, res.Message, "12:30")
	assert.Contains(t, res.Message, "restaurante")

	preview, ok := res.Data.(CreatePreview)
	require.True(t, ok)
	assert.Equal(t, "almoço com pais de Gardenia", preview.Task.Title)
	assert.Equal(t, "2025-03-16", preview.Task.ScheduledDate)
	assert.Empty(t, preview.Conflicts)
}

func TestExecuteCreate_ReportsOverlap(t *testing.T) {
	e := newExecutor()
	all := []model.Task{
		{ID: "task_a", Title: "reunião", ScheduledDate: "2025-03-12", StartTime: "10:00", DurationMin: 60},
	}
	res := e.Execute(model.Command{
		Type: model.CommandCreate,
		Create: &model.CreateParams{
			Title:       "dentista",
			Date:        "2025-03-12",
			Time:        "10:30",
			DurationMin: 30,
		},
	}, all, ref)

	require.True(t, res.Success)
	assert.Contains(t, res.Message, "Atenção:")

	preview := res.Data.(CreatePreview)
	require.Len(t, preview.Conflicts, 1)
	assert.Equal(t, model.ConflictOverlap, preview.Conflicts[0].Type)
	assert.Equal(t, model.SeverityHigh, preview.Conflicts[0].Severity)
}

func TestExecuteUpdate_NotFound(t *testing.T) {
	e := newExecutor()
	res := e.Execute(model.Command{
		Type:   model.CommandUpdate,
		Update: &model.UpdateParams{Title: "dentista", Time: "16:00"},
	}, []model.Task{{ID: "task_a", Title: "reunião"}}, ref)

	assert.False(t, res.Success)
	assert.Contains(t, res.Message, "Não encontrei")
}

func TestExecuteUpdate_Ambiguous(t *testing.T) {
	e := newExecutor()
	all := []model.Task{
		{ID: "task_a", Title: "reunião com equipe"},
		{ID: "task_b", Title: "reunião com cliente"},
	}
	res := e.Execute(model.Command{
		Type:   model.CommandUpdate,
		Update: &model.UpdateParams{Title: "reunião", Time: "16:00"},
	}, all, ref)

	assert.False(t, res.Success)
	assert.Contains(t, res.Message, "2 tarefas")
}

func TestExecuteUpdate_AppliesChanges(t *testing.T) {
	e := newExecutor()
	all := []model.Task{
		{ID: "task_a", Title: "reunião com equipe", ScheduledDate: "2025-03-13", StartTime: "10:00"},
	}
	res := e.Execute(model.Command{
		Type:   model.CommandUpdate,
		Update: &model.UpdateParams{Title: "equipe", Date: "2025-03-14", Time: "16:00"},
	}, all, ref)

	require.True(t, res.Success)
	decision := res.Data.(UpdateDecision)
	assert.Equal(t, "task_a", decision.Task.ID)
	assert.Equal(t, "2025-03-14", decision.Task.ScheduledDate)
	assert.Equal(t, "16:00", decision.Task.StartTime)
}

func TestExecuteUpdate_RescheduleDetectsConflict(t *testing.T) {
	e := newExecutor()
	all := []model.Task{
		{ID: "task_a", Title: "dentista", ScheduledDate: "2025-03-13", StartTime: "09:00", DurationMin: 60},
		{ID: "task_b", Title: "reunião", ScheduledDate: "2025-03-14", StartTime: "10:00", DurationMin: 60},
	}
	res := e.Execute(model.Command{
		Type:   model.CommandUpdate,
		Update: &model.UpdateParams{Title: "dentista", Date: "2025-03-14", Time: "10:30"},
	}, all, ref)

	require.True(t, res.Success)
	decision := res.Data.(UpdateDecision)
	require.Len(t, decision.Conflicts, 1)
	assert.Equal(t, model.ConflictOverlap, decision.Conflicts[0].Type)
	assert.Contains(t, res.Message, "Atenção:")
}

func TestExecuteDelete_SingleMatch(t *testing.T) {
	e := newExecutor()
	all := []model.Task{
		{ID: "task_a", Title: "Academia"},
		{ID: "task_b", Title: "reunião"},
	}
	res := e.Execute(model.Command{
		Type:   model.CommandDelete,
		Delete: &model.DeleteParams{Title: "academia"},
	}, all, ref)

	require.True(t, res.Success)
	decision := res.Data.(DeleteDecision)
	assert.Equal(t, "task_a", decision.Task.ID)
}

func TestExecuteQuery_FilterToday(t *testing.T) {
	e := newExecutor()
	all := []model.Task{
		{ID: "a", Title: "hoje cedo", ScheduledDate: "2025-03-12", StartTime: "09:00"},
		{ID: "b", Title: "amanhã", ScheduledDate: "2025-03-13"},
		{ID: "c", Title: "hoje tarde", ScheduledDate: "2025-03-12", StartTime: "15:00"},
	}
	res := e.Execute(model.Command{
		Type:  model.CommandQuery,
		Query: &model.QueryParams{Filter: model.FilterToday},
	}, all, ref)

	require.True(t, res.Success)
	assert.Contains(t, res.Message, "- hoje cedo (09:00)")
	assert.Contains(t, res.Message, "- hoje tarde (15:00)")
	assert.NotContains(t, res.Message, "amanhã")
}

func TestExecuteQuery_FilterWeekAndMonth(t *testing.T) {
	e := newExecutor()
	all := []model.Task{
		{ID: "a", Title: "dentro da semana", ScheduledDate: "2025-03-18"},
		{ID: "b", Title: "fora da semana", ScheduledDate: "2025-03-19"},
		{ID: "c", Title: "mês que vem", ScheduledDate: "2025-04-02"},
	}

	res := e.Execute(model.Command{
		Type:  model.CommandQuery,
		Query: &model.QueryParams{Filter: model.FilterWeek},
	}, all, ref)
	require.True(t, res.Success)
	assert.Contains(t, res.Message, "dentro da semana")
	assert.NotContains(t, res.Message, "fora da semana")

	res = e.Execute(model.Command{
		Type:  model.CommandQuery,
		Query: &model.QueryParams{Filter: model.FilterMonth},
	}, all, ref)
	require.True(t, res.Success)
	assert.Contains(t, res.Message, "dentro da semana")
	assert.Contains(t, res.Message, "fora da semana")
	assert.NotContains(t, res.Message, "mês que vem")
}

func TestExecuteQuery_ExplicitDateWins(t *testing.T) {
	e := newExecutor()
	all := []model.Task{
		{ID: "a", Title: "consulta", ScheduledDate: "2025-03-20"},
		{ID: "b", Title: "hoje", ScheduledDate: "2025-03-12"},
	}
	res := e.Execute(model.Command{
		Type:  model.CommandQuery,
		Query: &model.QueryParams{Filter: model.FilterToday, Date: "2025-03-20"},
	}, all, ref)

	require.True(t, res.Success)
	assert.Contains(t, res.Message, "consulta")
	assert.NotContains(t, res.Message, "- hoje")
}

func TestExecuteQuery_Empty(t *testing.T) {
	e := newExecutor()
	res := e.Execute(model.Command{
		Type:  model.CommandQuery,
		Query: &model.QueryParams{Filter: model.FilterTomorrow},
	}, nil, ref)

	require.True(t, res.Success)
	assert.Equal(t, "Você não tem tarefas para esse período.", res.Message)
}

func TestExecuteSummary_CountsAndUpcoming(t *testing.T) {
	e := newExecutor()
	all := []model.Task{
		{ID: "a", Title: "feita", ScheduledDate: "2025-03-10", Completed: true},
		{ID: "b", Title: "passada", ScheduledDate: "2025-03-11"},
		{ID: "c", Title: "quarta", ScheduledDate: "2025-03-12", StartTime: "14:00"},
		{ID: "d", Title: "quinta", ScheduledDate: "2025-03-13", StartTime: "09:00"},
		{ID: "e", Title: "sexta", ScheduledDate: "2025-03-14"},
		{ID: "f", Title: "sábado", ScheduledDate: "2025-03-15"},
	}
	res := e.Execute(model.Command{Type: model.CommandSummary, Summary: &model.SummaryParams{}}, all, ref)

	require.True(t, res.Success)
	assert.Contains(t, res.Message, "1 concluídas")
	assert.Contains(t, res.Message, "5 pendentes")

	// Only the 3 nearest upcoming, past-dated pending excluded.
	upcoming := res.Data.([]model.Task)
	require.Len(t, upcoming, 3)
	assert.Equal(t, "quarta", upcoming[0].Title)
	assert.Equal(t, "quinta", upcoming[1].Title)
	assert.Equal(t, "sexta", upcoming[2].Title)
	assert.NotContains(t, res.Message, "sábado")
	assert.NotContains(t, res.Message, "passada")
}

func TestExecuteOptimize_ProposesSlotForUnscheduledTime(t *testing.T) {
	e := newExecutor()
	all := []model.Task{
		{ID: "a", Title: "reunião", ScheduledDate: "2025-03-12", StartTime: "09:00", DurationMin: 120},
		{ID: "b", Title: "estudar", ScheduledDate: "2025-03-12"},
	}
	res := e.Execute(model.Command{Type: model.CommandOptimize}, all, ref)

	require.True(t, res.Success)
	proposals, ok := res.Data.([]OptimizeProposal)
	require.True(t, ok)
	require.Len(t, proposals, 1)
	assert.Equal(t, "estudar", proposals[0].Task.Title)
	assert.Equal(t, "2025-03-12", proposals[0].Slot.Date)
	// Work hours start 09:00; 09:00-11:00 is busy, so the first gap opens at 11:00.
	assert.Equal(t, "11:00", proposals[0].Slot.Time)
}

func TestExecuteOptimize_NothingToDo(t *testing.T) {
	e := newExecutor()
	all := []model.Task{
		{ID: "a", Title: "reunião", ScheduledDate: "2025-03-12", StartTime: "09:00"},
	}
	res := e.Execute(model.Command{Type: model.CommandOptimize}, all, ref)

	require.True(t, res.Success)
	assert.Contains(t, res.Message, "bem organizada")
}

func TestExecuteUnknown(t *testing.T) {
	e := newExecutor()
	res := e.Execute(model.Command{Type: model.CommandUnknown, OriginalText: "blablabla"}, nil, ref)

	assert.False(t, res.Success)
	assert.Contains(t, res.Message, "não entendi")
}
