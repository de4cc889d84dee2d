package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"
)

type recordingConn struct {
	subject string
	data    []byte
	err     error
}

func (c *recordingConn) Publish(subject string, data []byte) error {
	c.subject = subject
	c.data = data
	return c.err
}

func TestSubject(t *testing.T) {
	cases := []struct {
		prefix, entity, action, want string
	}{
		{"smarttest.audit", "test", "created", "smarttest.audit.test.created"},
		{"smarttest.audit.", "testTask", "status_changed", "smarttest.audit.testTask.status_changed"},
		{"", "macroarea", "deleted", "macroarea.deleted"},
	}
	for _, tc := range cases {
		if got := Subject(tc.prefix, tc.entity, tc.action); got != tc.want {
			t.Errorf("Subject(%q,%q,%q) = %q, want %q", tc.prefix, tc.entity, tc.action, got, tc.want)
		}
	}
}

func TestNATSPublisherPublishAudit(t *testing.T) {
	c := &recordingConn{}
	p := &NATSPublisher{conn: c, prefix: "smarttest.audit"}

	event := AuditEvent{
		ID:         "a1",
		EntityType: "test",
		EntityID:   "t1",
		Action:     "created",
		UserEmail:  "anna@example.com",
		NewValue:   json.RawMessage(`{"name":"T1"}`),
		Timestamp:  time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	if err := p.PublishAudit(context.Background(), event); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if c.subject != "smarttest.audit.test.created" {
		t.Fatalf("unexpected subject %q", c.subject)
	}

	var got AuditEvent
	if err := json.Unmarshal(c.data, &got); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if got.EntityID != "t1" || got.UserEmail != "anna@example.com" {
		t.Fatalf("unexpected payload %+v", got)
	}
	if got.OldValue != nil {
		t.Fatalf("expected old_value to be omitted, got %s", got.OldValue)
	}
}

func TestNATSPublisherPropagatesErrors(t *testing.T) {
	c := &recordingConn{err: errors.New("nats: connection closed")}
	p := &NATSPublisher{conn: c, prefix: "x"}
	if err := p.PublishAudit(context.Background(), AuditEvent{EntityType: "test", Action: "updated"}); err == nil {
		t.Fatal("expected publish error")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := p.PublishAudit(ctx, AuditEvent{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
