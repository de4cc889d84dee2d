package logging

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/ahmetcoskunkizilkaya/smarttest/internal/models"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const batchSize = 50

// batchWriter persists a batch of system log rows.
type batchWriter func(batch []models.SystemLog) error

// PGHandler is an slog.Handler that batches ERROR+ logs to PostgreSQL.
type PGHandler struct {
	write  batchWriter
	attrs  []slog.Attr
	state  *pgState
	ticker *time.Ticker
}

type pgState struct {
	mu     sync.Mutex
	buffer []models.SystemLog
	done    chan struct{}
	stopped chan struct{}
	once    sync.Once
}

func NewPGHandler(db *gorm.DB) *PGHandler {
	return newPGHandler(func(batch []models.SystemLog) error {
		return db.CreateInBatches(batch, batchSize).Error
	}, 5*time.Second)
}

func newPGHandler(write batchWriter, interval time.Duration) *PGHandler {
	h := &PGHandler{
		write: write,
		state: &pgState{
			buffer: make([]models.SystemLog, 0, batchSize),
			done:    make(chan struct{}),
			stopped: make(chan struct{}),
		},
		ticker: time.NewTicker(interval),
	}
	go h.flushLoop()
	return h
}

func (h *PGHandler) flushLoop() {
	defer close(h.state.stopped)
	for {
		select {
		case <-h.ticker.C:
			h.flush()
		case <-h.state.done:
			h.flush()
			return
		}
	}
}

func (h *PGHandler) flush() {
	s := h.state
	s.mu.Lock()
	if len(s.buffer) == 0 {
		s.mu.Unlock()
		return
	}
	batch := s.buffer
	s.buffer = make([]models.SystemLog, 0, batchSize)
	s.mu.Unlock()

	if err := h.write(batch); err != nil {
		// stdout only; routing this through the default logger would loop
		slog.New(slog.NewJSONHandler(stdout, nil)).Error("failed to flush system logs to DB", "error", err, "count", len(batch))
	}
}

// Stop ends the background loop and returns once the buffered records have
// been written.
func (h *PGHandler) Stop() {
	h.state.once.Do(func() {
		h.ticker.Stop()
		close(h.state.done)
		<-h.state.stopped
	})
}

// Enabled only handles ERROR and above.
func (h *PGHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= slog.LevelError
}

func (h *PGHandler) Handle(_ context.Context, record slog.Record) error {
	entry := models.SystemLog{
		ID:        uuid.New(),
		Timestamp: record.Time,
		Level:     record.Level.String(),
		Message:   record.Message,
		CreatedAt: time.Now(),
	}

	extra := make(map[string]interface{})
	apply := func(a slog.Attr) bool {
		switch a.Key {
		case "request_id":
			entry.RequestID = a.Value.String()
		case "user_email":
			entry.UserEmail = a.Value.String()
		case "entity":
			entry.Entity = a.Value.String()
		case "entity_id":
			entry.EntityID = a.Value.String()
		case "error":
			entry.Error = a.Value.String()
		default:
			extra[a.Key] = a.Value.Any()
		}
		return true
	}
	for _, a := range h.attrs {
		apply(a)
	}
	record.Attrs(apply)

	if len(extra) > 0 {
		if b, err := json.Marshal(extra); err == nil {
			entry.Extra = datatypes.JSON(b)
		}
	}

	s := h.state
	s.mu.Lock()
	s.buffer = append(s.buffer, entry)
	needFlush := len(s.buffer) >= batchSize
	s.mu.Unlock()

	if needFlush {
		go h.flush()
	}
	return nil
}

func (h *PGHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &clone
}

// WithGroup is a no-op: system_logs has a flat schema.
func (h *PGHandler) WithGroup(string) slog.Handler {
	return h
}
