// Package conversation holds the per-conversation confirmation state
// machine. One Flow instance belongs to exactly one conversation; sharing an
// instance across sessions is a correctness bug.
package conversation

import (
	"fmt"
	"strings"

	"github.com/guilhermexp/lifebetter/internal/model"
)

type State string

const (
	StateIdle                 State = "idle"
	StateAwaitingConfirmation State = "awaiting_confirmation"
)

type Outcome string

const (
	// OutcomeConfirmed means the pending task should be persisted now.
	OutcomeConfirmed Outcome = "confirmed"
	// OutcomeCancelled means the pending task was discarded.
	OutcomeCancelled Outcome = "cancelled"
	// OutcomeReprompt means the reply matched neither keyword set and the
	// machine stays in AwaitingConfirmation.
	OutcomeReprompt Outcome = "reprompt"
)

// Keyword match is substring containment against the lowercased reply, so
// "sim, pode confirmar" confirms. Confirm keywords are tested before cancel
// ones ("no" is a substring of too many ordinary words), except for cancel
// phrasings that textually contain a confirm keyword: those are ruled out
// first, or "incorreto" would match "correto" and "não pode" would match
// "pode".
var (
	confirmKeywords = []string{
		"sim", "yes", "confirmar", "confirmo", "ok", "certo",
		"pode", "correto", "adicionar",
	}
	cancelKeywords = []string{
		"não", "nao", "no", "cancela", "cancelar", "errado", "incorreto",
	}
	cancelFirst = func() []string {
		out := []string{"incorreto"}
		for _, kw := range confirmKeywords {
			out = append(out, "não "+kw, "nao "+kw)
		}
		return out
	}()
)

// Flow is the confirmation state machine. It starts Idle, moves to
// AwaitingConfirmation when a creation is proposed, and returns to Idle on
// a confirming or cancelling reply. There is no terminal state.
type Flow struct {
	state   State
	pending *model.PendingTask
}

func NewFlow() *Flow {
	return &Flow{state: StateIdle}
}

func (f *Flow) State() State {
	return f.state
}

// Pending returns a copy of the task awaiting confirmation, or nil.
func (f *Flow) Pending() *model.PendingTask {
	if f.pending == nil {
		return nil
	}
	p := *f.pending
	return &p
}

// Propose stores a provisional task and moves to AwaitingConfirmation.
// A proposal arriving while another is pending replaces it (last writer
// wins); replaced reports whether that happened so the prompt can mention
// the discarded task.
func (f *Flow) Propose(p model.PendingTask) (replaced bool) {
	replaced = f.state == StateAwaitingConfirmation
	f.pending = &p
	f.state = StateAwaitingConfirmation
	return replaced
}

// Prompt renders the confirmation question for the pending task.
func (f *Flow) Prompt() string {
	if f.pending == nil {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Vou criar %q", f.pending.Title)
	if f.pending.Date != "" {
		fmt.Fprintf(&b, " em %s", f.pending.Date)
	}
	if f.pending.Time != "" {
		fmt.Fprintf(&b, " às %s", f.pending.Time)
	}
	if f.pending.Location != "" {
		fmt.Fprintf(&b, " em %s", f.pending.Location)
	}
	b.WriteString(". Confirma? (sim/não)")
	return b.String()
}

// Resolve consumes a reply while awaiting confirmation. On confirmation or
// cancellation the machine returns to Idle and hands the (former) pending
// task back to the caller; the caller persists it on OutcomeConfirmed.
// Calling Resolve with no pending task is a programmer error.
func (f *Flow) Resolve(reply string) (Outcome, model.PendingTask, error) {
	if f.state != StateAwaitingConfirmation || f.pending == nil {
		return "", model.PendingTask{}, fmt.Errorf("resolve called in state %q with no pending task", f.state)
	}

	lowered := strings.ToLower(reply)
	pending := *f.pending

	if containsAny(lowered, cancelFirst) {
		f.reset()
		return OutcomeCancelled, pending, nil
	}
	if containsAny(lowered, confirmKeywords) {
		f.reset()
		return OutcomeConfirmed, pending, nil
	}
	if containsAny(lowered, cancelKeywords) {
		f.reset()
		return OutcomeCancelled, pending, nil
	}
	return OutcomeReprompt, pending, nil
}

func (f *Flow) reset() {
	f.pending = nil
	f.state = StateIdle
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
