// Package logger — mongo_handler.go
//
// MongoHandler is an slog.Handler that asynchronously stores log records in
// a MongoDB collection. It is designed for zero impact on the hot request
// path:
//
//   - Writes are enqueued into a buffered channel (non-blocking).
//   - A single background goroutine drains the channel and performs
//     InsertMany in batches (default 50).
//   - If the channel is full, the record is silently dropped; logging must
//     never block application code.
//   - Graceful shutdown: call Close() to flush pending records.
package logger

import (
	"context"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	mongoQueueSize = 4096 // buffered channel capacity
	mongoBatchSize = 50   // maximum documents per InsertMany
	mongoDrainTick = 2 * time.Second
)

// LogDocument is the shape written to MongoDB.
type LogDocument struct {
	Time      time.Time `bson:"time"`
	Level     string    `bson:"level"`
	Msg       string    `bson:"msg"`
	RequestID string    `bson:"request_id,omitempty"`
	Attrs     bson.M    `bson:"attrs,omitempty"`
}

// MongoHandler is a slog.Handler that writes to MongoDB asynchronously.
// It shares the application's Mongo connection rather than opening its own.
type MongoHandler struct {
	fallback slog.Handler // also receives every record (stdout)
	col      *mongo.Collection
	queue    chan LogDocument
	done     chan struct{}
	attrs    []slog.Attr
}

// NewMongoHandler wraps fallback with an async Mongo sink writing to the
// named collection of db. The caller must eventually call Close().
func NewMongoHandler(fallback slog.Handler, db *mongo.Database, collection string) *MongoHandler {
	h := &MongoHandler{
		fallback: fallback,
		col:      db.Collection(collection),
		queue:    make(chan LogDocument, mongoQueueSize),
		done:     make(chan struct{}),
	}
	go h.drainLoop()
	return h
}

// ─── slog.Handler interface ───────────────────────────────────────────────────

func (h *MongoHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.fallback.Enabled(ctx, level)
}

func (h *MongoHandler) Handle(ctx context.Context, r slog.Record) error {
	doc := LogDocument{
		Time:  r.Time,
		Level: r.Level.String(),
		Msg:   r.Message,
		Attrs: bson.M{},
	}

	// Collect attrs from WithAttrs plus the record itself.
	for _, a := range h.attrs {
		if a.Key == "request_id" {
			doc.RequestID = a.Value.String()
		} else {
			doc.Attrs[a.Key] = a.Value.Any()
		}
	}
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == "request_id" {
			doc.RequestID = a.Value.String()
		} else {
			doc.Attrs[a.Key] = a.Value.Any()
		}
		return true
	})

	// Non-blocking enqueue: drop if the channel is full.
	select {
	case h.queue <- doc:
	default:
	}

	return h.fallback.Handle(ctx, r)
}

func (h *MongoHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newAttrs := make([]slog.Attr, len(h.attrs)+len(attrs))
	copy(newAttrs, h.attrs)
	copy(newAttrs[len(h.attrs):], attrs)
	return &MongoHandler{
		fallback: h.fallback.WithAttrs(attrs),
		col:      h.col,
		queue:    h.queue,
		done:     h.done,
		attrs:    newAttrs,
	}
}

func (h *MongoHandler) WithGroup(name string) slog.Handler {
	return &MongoHandler{
		fallback: h.fallback.WithGroup(name),
		col:      h.col,
		queue:    h.queue,
		done:     h.done,
		attrs:    h.attrs,
	}
}

// ─── Internals ────────────────────────────────────────────────────────────────

// drainLoop runs in the background, flushing queued documents into MongoDB.
func (h *MongoHandler) drainLoop() {
	ticker := time.NewTicker(mongoDrainTick)
	defer ticker.Stop()

	batch := make([]interface{}, 0, mongoBatchSize)

	flush := func() {
		if len(batch) == 0 {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		_, _ = h.col.InsertMany(ctx, batch) // errors are intentionally ignored
		cancel()
		batch = batch[:0]
	}

	for {
		select {
		case doc := <-h.queue:
			batch = append(batch, doc)
			if len(batch) >= mongoBatchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		case <-h.done:
			for len(h.queue) > 0 {
				batch = append(batch, <-h.queue)
			}
			flush()
			return
		}
	}
}

// Close flushes pending logs. Safe to call multiple times.
func (h *MongoHandler) Close() {
	select {
	case <-h.done:
	default:
		close(h.done)
	}
}
