// Package events publishes audit events to NATS so other services can follow
// changes without polling the audit log.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	nats "github.com/nats-io/nats.go"
)

// AuditEvent is the message body published for every recorded audit row.
type AuditEvent struct {
	ID         string          `json:"id"`
	EntityType string          `json:"entity_type"`
	EntityID   string          `json:"entity_id"`
	Action     string          `json:"action"`
	UserEmail  string          `json:"user_email"`
	OldValue   json.RawMessage `json:"old_value,omitempty"`
	NewValue   json.RawMessage `json:"new_value,omitempty"`
	Timestamp  time.Time       `json:"timestamp"`
}

type Publisher interface {
	PublishAudit(ctx context.Context, event AuditEvent) error
}

// Noop discards every event. Used when NATS_URL is empty.
type Noop struct{}

func (Noop) PublishAudit(context.Context, AuditEvent) error { return nil }

type conn interface {
	Publish(subject string, data []byte) error
}

// NATSPublisher publishes on "<prefix>.<entity_type>.<action>".
type NATSPublisher struct {
	conn   conn
	prefix string
}

func NewNATSPublisher(nc *nats.Conn, prefix string) *NATSPublisher {
	return &NATSPublisher{conn: nc, prefix: prefix}
}

func (p *NATSPublisher) PublishAudit(ctx context.Context, event AuditEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal audit event: %w", err)
	}
	return p.conn.Publish(Subject(p.prefix, event.EntityType, event.Action), data)
}

// Subject builds the NATS subject for an audit event.
func Subject(prefix, entityType, action string) string {
	parts := make([]string, 0, 3)
	if prefix = strings.Trim(prefix, "."); prefix != "" {
		parts = append(parts, prefix)
	}
	return strings.Join(append(parts, entityType, action), ".")
}

// Connect dials NATS, retrying with exponential backoff until maxElapsed.
func Connect(ctx context.Context, url, name string, maxElapsed time.Duration) (*nats.Conn, error) {
	var nc *nats.Conn
	op := func() error {
		c, err := nats.Connect(url,
			nats.Name(name),
			nats.MaxReconnects(-1),
			nats.ReconnectWait(2*time.Second),
		)
		if err != nil {
			return err
		}
		nc = c
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 200 * time.Millisecond
	bo.MaxElapsedTime = maxElapsed
	if err := backoff.Retry(op, backoff.WithContext(bo, ctx)); err != nil {
		return nil, fmt.Errorf("connect to nats %s: %w", url, err)
	}
	return nc, nil
}
