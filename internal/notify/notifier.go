// Package notify pushes scanner findings to operators. Notifications are
// dispatched to all registered senders (Telegram, Discord) and filtered by
// event type so a watch-mode deployment only alerts on what matters.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/alanyoungcy/moonshotbot/internal/domain"
)

// Event types emitted by the scan pipeline and strategy services.
const (
	EventHighEdge      = "high_edge"
	EventScanComplete  = "scan_complete"
	EventStageAdvanced = "stage_advanced"
	EventError         = "error"
)

// ChannelScan is the signal-bus channel carrying scan summaries; the ws hub
// relays it to dashboard clients.
const ChannelScan = "ch:scan"

// Sender is the interface that each notification channel must implement.
type Sender interface {
	// Send delivers a notification with the given title and message body.
	Send(ctx context.Context, title, message string) error
	// Name returns a human-readable identifier for the sender (e.g. "telegram").
	Name() string
}

// Notifier dispatches notifications to one or more Senders, filtered by an
// allowed event set. An empty event list allows everything.
type Notifier struct {
	senders []Sender
	events  map[string]bool
	logger  *slog.Logger
}

// NewNotifier creates a Notifier that will deliver to the given senders. Only
// events whose type appears in the events slice will be forwarded by Notify.
func NewNotifier(senders []Sender, events []string, logger *slog.Logger) *Notifier {
	allowed := make(map[string]bool, len(events))
	for _, e := range events {
		allowed[strings.TrimSpace(e)] = true
	}
	return &Notifier{
		senders: senders,
		events:  allowed,
		logger:  logger.With(slog.String("component", "notifier")),
	}
}

// Notify sends a notification to all senders if the event type is allowed.
func (n *Notifier) Notify(ctx context.Context, event, title, message string) error {
	if len(n.events) > 0 && !n.events[event] {
		n.logger.DebugContext(ctx, "event filtered out",
			slog.String("event", event),
		)
		return nil
	}
	return n.dispatch(ctx, title, message)
}

// dispatch fans the notification out to every sender. A single sender failure
// does not prevent delivery to the rest; failures are combined into one error.
func (n *Notifier) dispatch(ctx context.Context, title, message string) error {
	if len(n.senders) == 0 {
		return nil
	}

	var errs []string
	for _, s := range n.senders {
		if err := s.Send(ctx, title, message); err != nil {
			n.logger.ErrorContext(ctx, "sender failed",
				slog.String("sender", s.Name()),
				slog.String("error", err.Error()),
			)
			errs = append(errs, fmt.Sprintf("%s: %v", s.Name(), err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("notify: %d sender(s) failed: %s", len(errs), strings.Join(errs, "; "))
	}
	return nil
}

// FormatOpportunities renders up to limit opportunities as a compact message
// body for alert channels.
func FormatOpportunities(opps []domain.Opportunity, limit int) string {
	if limit > 0 && len(opps) > limit {
		opps = opps[:limit]
	}

	var b strings.Builder
	for i, o := range opps {
		fmt.Fprintf(&b, "%d. [%s] %s @ $%.4f -> %.0fx (edge %.0f)\n",
			i+1, o.RiskTier, o.Side, o.Price, o.PotentialMultiplier, o.EdgeScore)
		fmt.Fprintf(&b, "   %s\n   %s\n", truncateLine(o.Question, 65), o.URL())
	}
	return b.String()
}

func truncateLine(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
