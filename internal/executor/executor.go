// Package executor dispatches classified commands to per-type handlers.
// Handlers are pure over their inputs: they decide what should happen and
// phrase the reply, but persistence belongs to the caller.
package executor

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/guilhermexp/lifebetter/internal/model"
	"github.com/guilhermexp/lifebetter/internal/schedule"
)

// CreatePreview is the payload of a successful create dispatch. The task
// has not been persisted; the caller routes it through confirmation first.
type CreatePreview struct {
	Task      model.Task                 `json:"task"`
	Conflicts []model.SchedulingConflict `json:"conflicts,omitempty"`
}

// UpdateDecision carries the matched task with the requested changes
// applied, ready for the caller to persist.
type UpdateDecision struct {
	Task      model.Task                 `json:"task"`
	Conflicts []model.SchedulingConflict `json:"conflicts,omitempty"`
}

// DeleteDecision carries the single task matched for removal.
type DeleteDecision struct {
	Task model.Task `json:"task"`
}

// OptimizeProposal pairs a task with the free slot suggested for it.
type OptimizeProposal struct {
	Task model.Task `json:"task"`
	Slot model.Slot `json:"slot"`
}

type Executor struct {
	cfg      model.ScheduleConfig
	detector *schedule.Detector
	finder   *schedule.Finder
}

func New(cfg model.ScheduleConfig) *Executor {
	return &Executor{
		cfg:      cfg,
		detector: schedule.NewDetector(cfg),
		finder:   schedule.NewFinder(cfg),
	}
}

// Execute runs the handler for cmd.Type against the task snapshot.
func (e *Executor) Execute(cmd model.Command, all []model.Task, ref time.Time) model.CommandResult {
	switch cmd.Type {
	case model.CommandCreate:
		return e.executeCreate(cmd, all)
	case model.CommandUpdate:
		return e.executeUpdate(cmd, all, ref)
	case model.CommandDelete:
		return e.executeDelete(cmd, all)
	case model.CommandQuery:
		return e.executeQuery(cmd, all, ref)
	case model.CommandSummary:
		return e.executeSummary(cmd, all, ref)
	case model.CommandOptimize:
		return e.executeOptimize(all, ref)
	default:
		return model.CommandResult{
			Success: false,
			Message: "Desculpe, não entendi. Pode reformular?",
		}
	}
}

func (e *Executor) executeCreate(cmd model.Command, all []model.Task) model.CommandResult {
	p := cmd.Create
	if p == nil || p.Title == "" {
		return model.CommandResult{
			Success: false,
			Message: "Preciso de um título para criar a tarefa. O que você quer agendar?",
		}
	}

	task := model.Task{
		Title:         p.Title,
		Type:          model.TaskTypeTask,
		ScheduledDate: p.Date,
		StartTime:     p.Time,
		DurationMin:   p.DurationMin,
		Location:      p.Location,
		Priority:      p.Priority,
	}

	conflicts := e.detector.Detect(task, all)

	var b strings.Builder
	fmt.Fprintf(&b, "Vou agendar %q", task.Title)
	if task.ScheduledDate != "" {
		fmt.Fprintf(&b, " para %s", formatDate(task.ScheduledDate))
	}
	if task.StartTime != "" {
		fmt.Fprintf(&b, " às %s", task.StartTime)
	}
	if task.Location != "" {
		fmt.Fprintf(&b, " em %s", task.Location)
	}
	b.WriteString(".")
	for _, c := range conflicts {
		b.WriteString("\nAtenção: ")
		b.WriteString(c.Suggestion)
	}

	return model.CommandResult{
		Success: true,
		Message: b.String(),
		Data:    CreatePreview{Task: task, Conflicts: conflicts},
	}
}

func (e *Executor) executeUpdate(cmd model.Command, all []model.Task, ref time.Time) model.CommandResult {
	p := cmd.Update
	if p == nil || p.Title == "" {
		return model.CommandResult{
			Success: false,
			Message: "Qual tarefa você quer alterar?",
		}
	}

	matches := findByTitle(all, p.Title)
	if res, ok := lookupFailure(matches, p.Title); !ok {
		return res
	}

	task := matches[0]
	if p.Date != "" {
		task.ScheduledDate = p.Date
	}
	if p.Time != "" {
		task.StartTime = p.Time
	}
	if p.Location != "" {
		task.Location = p.Location
	}

	// Rescheduling can introduce new conflicts; check the moved task
	// against everything else.
	conflicts := e.detector.Detect(task, all)

	var b strings.Builder
	fmt.Fprintf(&b, "Atualizei %q", task.Title)
	if p.Date != "" {
		fmt.Fprintf(&b, " para %s", formatDate(task.ScheduledDate))
	}
	if p.Time != "" {
		fmt.Fprintf(&b, " às %s", task.StartTime)
	}
	if p.Location != "" {
		fmt.Fprintf(&b, " em %s", task.Location)
	}
	b.WriteString(".")
	for _, c := range conflicts {
		b.WriteString("\nAtenção: ")
		b.WriteString(c.Suggestion)
	}

	return model.CommandResult{
		Success: true,
		Message: b.String(),
		Data:    UpdateDecision{Task: task, Conflicts: conflicts},
	}
}

func (e *Executor) executeDelete(cmd model.Command, all []model.Task) model.CommandResult {
	p := cmd.Delete
	if p == nil || p.Title == "" {
		return model.CommandResult{
			Success: false,
			Message: "Qual tarefa você quer remover?",
		}
	}

	matches := findByTitle(all, p.Title)
	if res, ok := lookupFailure(matches, p.Title); !ok {
		return res
	}

	task := matches[0]
	return model.CommandResult{
		Success: true,
		Message: fmt.Sprintf("Removi %q da sua agenda.", task.Title),
		Data:    DeleteDecision{Task: task},
	}
}

func (e *Executor) executeQuery(cmd model.Command, all []model.Task, ref time.Time) model.CommandResult {
	p := cmd.Query
	if p == nil {
		p = &model.QueryParams{}
	}

	var selected []model.Task
	for _, t := range all {
		if p.Date != "" {
			if t.ScheduledDate == p.Date {
				selected = append(selected, t)
			}
			continue
		}
		if withinFilter(t.ScheduledDate, p.Filter, ref) {
			selected = append(selected, t)
		}
	}

	if len(selected) == 0 {
		return model.CommandResult{
			Success: true,
			Message: "Você não tem tarefas para esse período.",
			Data:    []model.Task{},
		}
	}

	sortByDateTime(selected)
	var b strings.Builder
	b.WriteString("Suas tarefas:")
	for _, t := range selected {
		b.WriteString("\n- ")
		b.WriteString(t.Title)
		if t.StartTime != "" {
			fmt.Fprintf(&b, " (%s)", t.StartTime)
		}
	}

	return model.CommandResult{Success: true, Message: b.String(), Data: selected}
}

func (e *Executor) executeSummary(cmd model.Command, all []model.Task, ref time.Time) model.CommandResult {
	completed := 0
	pending := 0
	today := isoDate(ref)

	var upcoming []model.Task
	for _, t := range all {
		if t.Completed {
			completed++
			continue
		}
		pending++
		if t.ScheduledDate >= today {
			upcoming = append(upcoming, t)
		}
	}

	// ISO date and clock strings order correctly as plain strings.
	sortByDateTime(upcoming)
	if len(upcoming) > 3 {
		upcoming = upcoming[:3]
	}

	var b strings.Builder
	period := ""
	if cmd.Summary != nil && cmd.Summary.Period != "" {
		period = " de " + cmd.Summary.Period
	}
	fmt.Fprintf(&b, "Resumo%s: %d concluídas, %d pendentes.", period, completed, pending)
	if len(upcoming) > 0 {
		b.WriteString("\nPróximas:")
		for _, t := range upcoming {
			b.WriteString("\n- ")
			b.WriteString(t.Title)
			if t.ScheduledDate != "" {
				fmt.Fprintf(&b, " %s", formatDate(t.ScheduledDate))
			}
			if t.StartTime != "" {
				fmt.Fprintf(&b, " %s", t.StartTime)
			}
		}
	}

	return model.CommandResult{Success: true, Message: b.String(), Data: upcoming}
}

// executeOptimize looks at today's and tomorrow's tasks and proposes a
// free slot for each one that has no start time yet. It only suggests;
// nothing moves without the user asking for it.
func (e *Executor) executeOptimize(all []model.Task, ref time.Time) model.CommandResult {
	today := isoDate(ref)
	tomorrow := isoDate(ref.AddDate(0, 0, 1))

	var proposals []OptimizeProposal
	for _, t := range all {
		if t.Completed || t.HasStart() {
			continue
		}
		if t.ScheduledDate != today && t.ScheduledDate != tomorrow {
			continue
		}
		slot := e.finder.FindSlot(t, all, ref)
		if slot == nil {
			continue
		}
		proposals = append(proposals, OptimizeProposal{Task: t, Slot: *slot})
	}

	if len(proposals) == 0 {
		return model.CommandResult{
			Success: true,
			Message: "Sua agenda já está bem organizada. Não encontrei melhorias óbvias.",
		}
	}

	var b strings.Builder
	b.WriteString("Sugestões para organizar sua agenda:")
	for _, p := range proposals {
		fmt.Fprintf(&b, "\n- %q: %s às %s", p.Task.Title, formatDate(p.Slot.Date), p.Slot.Time)
	}

	return model.CommandResult{Success: true, Message: b.String(), Data: proposals}
}

// findByTitle matches tasks whose title contains the query,
// case-insensitively.
func findByTitle(all []model.Task, query string) []model.Task {
	q := strings.ToLower(query)
	var matches []model.Task
	for _, t := range all {
		if strings.Contains(strings.ToLower(t.Title), q) {
			matches = append(matches, t)
		}
	}
	return matches
}

// lookupFailure translates a match count into the shared not-found and
// ambiguity replies. ok is true when exactly one task matched.
func lookupFailure(matches []model.Task, title string) (model.CommandResult, bool) {
	switch len(matches) {
	case 0:
		return model.CommandResult{
			Success: false,
			Message: fmt.Sprintf("Não encontrei nenhuma tarefa com %q.", title),
		}, false
	case 1:
		return model.CommandResult{}, true
	default:
		return model.CommandResult{
			Success: false,
			Message: fmt.Sprintf("Encontrei %d tarefas parecidas com %q. Pode ser mais específico?", len(matches), title),
		}, false
	}
}

func withinFilter(dateStr string, filter model.QueryFilter, ref time.Time) bool {
	if filter == "" {
		return true
	}
	switch filter {
	case model.FilterToday:
		return dateStr == isoDate(ref)
	case model.FilterTomorrow:
		return dateStr == isoDate(ref.AddDate(0, 0, 1))
	case model.FilterWeek:
		d, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			return false
		}
		start := midnight(ref)
		return !d.Before(start) && d.Before(start.AddDate(0, 0, 7))
	case model.FilterMonth:
		d, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			return false
		}
		return d.Year() == ref.Year() && d.Month() == ref.Month()
	}
	return true
}

func sortByDateTime(tasks []model.Task) {
	sort.Slice(tasks, func(i, j int) bool {
		if tasks[i].ScheduledDate != tasks[j].ScheduledDate {
			return tasks[i].ScheduledDate < tasks[j].ScheduledDate
		}
		return tasks[i].StartTime < tasks[j].StartTime
	})
}

func isoDate(t time.Time) string {
	return t.Format("2006-01-02")
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// formatDate renders an ISO date the way a pt-BR reply reads it.
func formatDate(iso string) string {
	d, err := time.Parse("2006-01-02", iso)
	if err != nil {
		return iso
	}
	return d.Format("02/01")
}
