package notify

import (
	"fmt"
	"log"

	"github.com/guilhermexp/lifebetter/internal/events"
)

// SendFunc delivers a single notification. It exists so tests can
// capture notifications without touching osascript.
type SendFunc func(title, message string) error

// Notifier turns assistant events into desktop notifications.
type Notifier struct {
	send   SendFunc
	logger *log.Logger
	unsubs []func()
}

// NewNotifier creates a Notifier that delivers via send. Pass nil to
// use the platform default (osascript on macOS).
func NewNotifier(send SendFunc, logger *log.Logger) *Notifier {
	if send == nil {
		send = Send
	}
	return &Notifier{send: send, logger: logger}
}

// Attach subscribes the notifier to the event types it cares about.
func (n *Notifier) Attach(bus *events.Bus) {
	n.unsubs = append(n.unsubs,
		bus.Subscribe(events.EventTaskCreated, n.onTaskCreated),
		bus.Subscribe(events.EventConflictDetected, n.onConflict),
	)
}

// Detach removes all subscriptions registered by Attach.
func (n *Notifier) Detach() {
	for _, unsub := range n.unsubs {
		unsub()
	}
	n.unsubs = nil
}

func (n *Notifier) onTaskCreated(e events.Event) {
	title, _ := e.Data["title"].(string)
	if title == "" {
		return
	}
	msg := fmt.Sprintf("Tarefa criada: %s", title)
	if date, _ := e.Data["date"].(string); date != "" {
		msg = fmt.Sprintf("Tarefa criada: %s em %s", title, date)
	}
	if err := n.send("Assistente", msg); err != nil && n.logger != nil {
		n.logger.Printf("[WARN] notification failed: %v", err)
	}
}

func (n *Notifier) onConflict(e events.Event) {
	suggestion, _ := e.Data["suggestion"].(string)
	if suggestion == "" {
		suggestion = "Há um conflito na sua agenda."
	}
	if err := n.send("Conflito de agenda", suggestion); err != nil && n.logger != nil {
		n.logger.Printf("[WARN] notification failed: %v", err)
	}
}
