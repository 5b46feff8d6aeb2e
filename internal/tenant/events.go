package tenant

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
)

// SubjectChanged carries tenant change events between instances.
const SubjectChanged = "tenants.changed"

// Change operations.
const (
	OpCreated = "created"
	OpUpdated = "updated"
	OpPurged  = "purged"
)

// Change announces that a tenant record changed and cached copies are stale.
type Change struct {
	Op             string    `json:"op"`
	ID             uuid.UUID `json:"id"`
	Slug           string    `json:"slug"`
	Domain         string    `json:"domain,omitempty"`
	PreviousDomain string    `json:"previousDomain,omitempty"`
}

// Publisher announces tenant changes.
type Publisher interface {
	Publish(ctx context.Context, ch Change) error
}

// NopPublisher drops events. Used when NATS is not configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Change) error { return nil }

// NATSPublisher publishes changes as JSON on SubjectChanged.
type NATSPublisher struct {
	nc *nats.Conn
}

func NewNATSPublisher(nc *nats.Conn) *NATSPublisher {
	return &NATSPublisher{nc: nc}
}

func (p *NATSPublisher) Publish(ctx context.Context, ch Change) error {
	data, err := json.Marshal(ch)
	if err != nil {
		return fmt.Errorf("marshal tenant change: %w", err)
	}
	if err := p.nc.Publish(SubjectChanged, data); err != nil {
		return fmt.Errorf("publish tenant change: %w", err)
	}
	return nil
}

// Applier consumes change events.
type Applier interface {
	Apply(ch Change)
}

// Subscribe applies every change received on SubjectChanged to a.
// Callers unsubscribe when done.
func Subscribe(nc *nats.Conn, a Applier, logger zerolog.Logger) (*nats.Subscription, error) {
	sub, err := nc.Subscribe(SubjectChanged, func(msg *nats.Msg) {
		ch, err := DecodeChange(msg.Data)
		if err != nil {
			logger.Error().Err(err).Str("subject", msg.Subject).Msg("Failed to decode tenant change")
			return
		}
		a.Apply(ch)
		logger.Debug().
			Str("op", ch.Op).
			Str("tenant_id", ch.ID.String()).
			Str("slug", ch.Slug).
			Msg("Tenant cache invalidated")
	})
	if err != nil {
		return nil, fmt.Errorf("subscribe %s: %w", SubjectChanged, err)
	}
	return sub, nil
}

// DecodeChange parses a change event payload.
func DecodeChange(data []byte) (Change, error) {
	var ch Change
	if err := json.Unmarshal(data, &ch); err != nil {
		return Change{}, fmt.Errorf("unmarshal tenant change: %w", err)
	}
	return ch, nil
}
