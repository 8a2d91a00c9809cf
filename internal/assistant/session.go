// Package assistant wires the interpreter core to the task store and the
// event bus, one session per conversation.
package assistant

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/guilhermexp/lifebetter/internal/conversation"
	"github.com/guilhermexp/lifebetter/internal/events"
	"github.com/guilhermexp/lifebetter/internal/executor"
	"github.com/guilhermexp/lifebetter/internal/interpret"
	"github.com/guilhermexp/lifebetter/internal/model"
	"github.com/guilhermexp/lifebetter/internal/store"
	"github.com/guilhermexp/lifebetter/internal/textnorm"
)

type LogLevel int

const (
	LogLevelDebug LogLevel = iota
	LogLevelInfo
	LogLevelWarn
	LogLevelError
)

func ParseLogLevel(s string) LogLevel {
	switch strings.ToLower(s) {
	case "debug":
		return LogLevelDebug
	case "info":
		return LogLevelInfo
	case "warn", "warning":
		return LogLevelWarn
	case "error":
		return LogLevelError
	default:
		return LogLevelInfo
	}
}

// OnlineChecker reports whether the full parser path may run. When it
// returns false the session falls back to the degraded local replies.
type OnlineChecker func() bool

// Session owns one conversation: its confirmation flow, its history ring
// and the link to the shared store and bus. Sessions are not safe for
// concurrent use; the Manager serializes access per conversation.
type Session struct {
	id    string
	cfg   model.Config
	store store.TaskStore
	exec  *executor.Executor
	flow  *conversation.Flow
	bus   *events.Bus

	isOnline OnlineChecker
	history  []model.Message

	logger   *log.Logger
	logLevel LogLevel

	// now is split out so tests can pin the reference date.
	now func() time.Time
}

func NewSession(id string, cfg model.Config, st store.TaskStore, bus *events.Bus, online OnlineChecker, logger *log.Logger) *Session {
	if online == nil {
		online = func() bool { return true }
	}
	return &Session{
		id:       id,
		cfg:      cfg,
		store:    st,
		exec:     executor.New(cfg.Schedule),
		flow:     conversation.NewFlow(),
		bus:      bus,
		isOnline: online,
		logger:   logger,
		logLevel: ParseLogLevel(cfg.Logging.Level),
		now:      time.Now,
	}
}

// Flow exposes the confirmation state machine for inspection.
func (s *Session) Flow() *conversation.Flow {
	return s.flow
}

// History returns a copy of the retained conversation turns.
func (s *Session) History() []model.Message {
	out := make([]model.Message, len(s.history))
	copy(out, s.history)
	return out
}

// Handle processes one utterance and returns the assistant's reply.
func (s *Session) Handle(text string) (model.CommandResult, error) {
	ref := s.now()

	var res model.CommandResult
	var err error
	switch {
	case s.flow.State() == conversation.StateAwaitingConfirmation && !isCreateIntent(text):
		res, err = s.resolveConfirmation(text)
	case !s.isOnline():
		res = s.degradedReply(text, ref)
	default:
		res, err = s.dispatch(text, ref)
	}
	if err != nil {
		return model.CommandResult{}, err
	}

	s.remember(model.Message{Role: model.RoleUser, Content: text})
	s.remember(model.Message{Role: model.RoleAssistant, Content: res.Message})
	return res, nil
}

// isCreateIntent lets a fresh creation utterance replace a pending task
// instead of being swallowed as a malformed yes/no reply.
func isCreateIntent(text string) bool {
	return interpret.Classify(textnorm.Normalize(text)) == model.CommandCreate
}

func (s *Session) resolveConfirmation(reply string) (model.CommandResult, error) {
	outcome, pending, err := s.flow.Resolve(reply)
	if err != nil {
		return model.CommandResult{}, err
	}

	switch outcome {
	case conversation.OutcomeConfirmed:
		created, err := s.store.Create(model.Task{
			Title:         pending.Title,
			Type:          model.TaskTypeTask,
			ScheduledDate: pending.Date,
			StartTime:     pending.Time,
			Location:      pending.Location,
		})
		if err != nil {
			s.logf(LogLevelError, "persist confirmed task: %v", err)
			return model.CommandResult{
				Success: false,
				Message: "Não consegui salvar a tarefa. Pode tentar de novo?",
			}, nil
		}
		s.publish(events.EventTaskCreated, map[string]interface{}{
			"task_id": created.ID,
			"title":   created.Title,
			"date":    created.ScheduledDate,
		})
		s.logf(LogLevelInfo, "task created id=%s title=%q", created.ID, created.Title)
		return model.CommandResult{
			Success: true,
			Message: fmt.Sprintf("Pronto! Criei %q na sua agenda.", created.Title),
			Data:    created,
		}, nil

	case conversation.OutcomeCancelled:
		s.logf(LogLevelInfo, "pending task cancelled title=%q", pending.Title)
		return model.CommandResult{
			Success: true,
			Message: "Tudo bem, não vou criar a tarefa.",
		}, nil

	default:
		return model.CommandResult{
			Success: false,
			Message: fmt.Sprintf("Não entendi. Confirma a criação de %q? (sim/não)", pending.Title),
		}, nil
	}
}

func (s *Session) dispatch(text string, ref time.Time) (model.CommandResult, error) {
	cmd := interpret.Parse(text, s.history, ref)
	s.logf(LogLevelDebug, "parsed type=%s text=%q", cmd.Type, text)

	snapshot, err := s.store.List()
	if err != nil {
		return model.CommandResult{}, fmt.Errorf("load task snapshot: %w", err)
	}

	res := s.exec.Execute(cmd, snapshot, ref)
	if !res.Success {
		return res, nil
	}

	switch cmd.Type {
	case model.CommandCreate:
		return s.proposeCreate(res)
	case model.CommandUpdate:
		return s.applyUpdate(res)
	case model.CommandDelete:
		return s.applyDelete(res)
	default:
		return res, nil
	}
}

// proposeCreate routes a successful create decision through the
// confirmation flow instead of persisting right away.
func (s *Session) proposeCreate(res model.CommandResult) (model.CommandResult, error) {
	preview, ok := res.Data.(executor.CreatePreview)
	if !ok {
		return res, nil
	}

	replaced := s.flow.Propose(model.PendingTask{
		Title:    preview.Task.Title,
		Date:     preview.Task.ScheduledDate,
		Time:     preview.Task.StartTime,
		Location: preview.Task.Location,
	})

	var b strings.Builder
	if replaced {
		b.WriteString("Deixei a proposta anterior de lado. ")
	}
	b.WriteString(s.flow.Prompt())
	for _, c := range preview.Conflicts {
		b.WriteString("\nAtenção: ")
		b.WriteString(c.Suggestion)
		s.publish(events.EventConflictDetected, map[string]interface{}{
			"task_id":    c.TaskID,
			"type":       string(c.Type),
			"severity":   string(c.Severity),
			"suggestion": c.Suggestion,
		})
	}

	return model.CommandResult{Success: true, Message: b.String(), Data: preview}, nil
}

func (s *Session) applyUpdate(res model.CommandResult) (model.CommandResult, error) {
	decision, ok := res.Data.(executor.UpdateDecision)
	if !ok {
		return res, nil
	}
	updated, err := s.store.Update(decision.Task)
	if err != nil {
		return model.CommandResult{}, fmt.Errorf("persist update: %w", err)
	}
	s.publish(events.EventTaskUpdated, map[string]interface{}{
		"task_id": updated.ID,
		"title":   updated.Title,
		"date":    updated.ScheduledDate,
	})
	s.logf(LogLevelInfo, "task updated id=%s", updated.ID)
	res.Data = executor.UpdateDecision{Task: updated, Conflicts: decision.Conflicts}
	return res, nil
}

func (s *Session) applyDelete(res model.CommandResult) (model.CommandResult, error) {
	decision, ok := res.Data.(executor.DeleteDecision)
	if !ok {
		return res, nil
	}
	if err := s.store.Delete(decision.Task.ID); err != nil {
		return model.CommandResult{}, fmt.Errorf("persist delete: %w", err)
	}
	s.publish(events.EventTaskDeleted, map[string]interface{}{
		"task_id": decision.Task.ID,
		"title":   decision.Task.Title,
	})
	s.logf(LogLevelInfo, "task deleted id=%s", decision.Task.ID)
	return res, nil
}

// Fixed replies for the offline path. Matched by substring against the
// normalized utterance, first hit wins.
var degradedReplies = []struct {
	keywords []string
	reply    string
}{
	{[]string{"bom dia", "boa tarde", "boa noite", "ola", "oi"},
		"Olá! Estou sem conexão agora, mas posso anotar refeições com horário. O resto fica para quando eu voltar."},
	{[]string{"obrigado", "obrigada", "valeu"},
		"De nada!"},
	{[]string{"ajuda", "o que voce faz", "como funciona"},
		"Posso criar, alterar e consultar tarefas da sua agenda. No momento estou offline, então só consigo anotar eventos simples."},
}

// degradedReply is the local-only path: a fixed keyword table plus the
// meal-event fallback, which still produces a pending creation.
func (s *Session) degradedReply(text string, ref time.Time) model.CommandResult {
	if p, ok := interpret.MealFallback(text, ref); ok {
		replaced := s.flow.Propose(model.PendingTask{
			Title:    p.Title,
			Date:     p.Date,
			Time:     p.Time,
			Location: p.Location,
		})
		msg := s.flow.Prompt()
		if replaced {
			msg = "Deixei a proposta anterior de lado. " + msg
		}
		return model.CommandResult{Success: true, Message: msg}
	}

	norm := textnorm.Normalize(text)
	for _, entry := range degradedReplies {
		for _, kw := range entry.keywords {
			if strings.Contains(norm, kw) {
				return model.CommandResult{Success: true, Message: entry.reply}
			}
		}
	}
	return model.CommandResult{
		Success: false,
		Message: "Estou sem conexão no momento. Tente de novo em instantes.",
	}
}

// remember appends a turn and trims the ring to the configured window.
func (s *Session) remember(m model.Message) {
	s.history = append(s.history, m)
	max := s.cfg.Conversation.HistoryTurns * 2
	if max > 0 && len(s.history) > max {
		s.history = s.history[len(s.history)-max:]
	}
}

func (s *Session) publish(t events.EventType, data map[string]interface{}) {
	if s.bus != nil {
		s.bus.Publish(t, data)
	}
}

func (s *Session) logf(level LogLevel, format string, args ...any) {
	if s.logger == nil || level < s.logLevel {
		return
	}
	levelStr := "INFO"
	switch level {
	case LogLevelDebug:
		levelStr = "DEBUG"
	case LogLevelWarn:
		levelStr = "WARN"
	case LogLevelError:
		levelStr = "ERROR"
	}
	msg := fmt.Sprintf(format, args...)
	s.logger.Printf("%s %s session=%s: %s", time.Now().Format(time.RFC3339), levelStr, s.id, msg)
}
