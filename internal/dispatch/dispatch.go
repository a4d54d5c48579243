// Package dispatch delivers notifications to outbound sinks (desktop
// command, Slack, Discord). Delivery is fire-and-forget: the scheduler logs
// sink failures and moves on, it never depends on delivery succeeding.
package dispatch

import (
	"context"

	"github.com/zulandar/cadence/internal/models"
)

// Sink consumes emitted notifications. Implementations own their connection
// management and must tolerate repeated Close calls.
type Sink interface {
	// Name identifies the sink in logs.
	Name() string

	// Deliver pushes one notification to the sink.
	Deliver(ctx context.Context, n *models.Notification) error

	// Close releases any connection held by the sink.
	Close() error
}

// PriorityColor maps a notification priority to the sidebar color hint used
// by the chat sinks.
func PriorityColor(priority string) string {
	switch priority {
	case models.PriorityHigh:
		return "#d62828"
	case models.PriorityMedium:
		return "#f4a623"
	default:
		return "#36a64f"
	}
}
