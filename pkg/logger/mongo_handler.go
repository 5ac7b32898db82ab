// Package logger — mongo_handler.go
//
// MongoHandler is an slog.Handler that also stores log records in a MongoDB
// collection, without touching the hot request path:
//
//   - Records are forwarded to the wrapped handler synchronously, then
//     enqueued into a buffered channel.
//   - A single background goroutine drains the channel and performs
//     InsertMany in batches.
//   - If the channel is full the Mongo copy is dropped; logging must never
//     block application code.
//   - Call Close() on shutdown to flush and disconnect.
package logger

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	mongoQueueSize = 4096
	mongoBatchSize = 50
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

// MongoHandler is a slog.Handler that tees records to MongoDB asynchronously.
type MongoHandler struct {
	inner  slog.Handler
	col    *mongo.Collection
	client *mongo.Client
	queue  chan LogDocument
	done   chan struct{}
	attrs  []slog.Attr
}

// NewMongoHandler connects to uri/db/collection and wraps inner.
// The caller must eventually call Close().
func NewMongoHandler(inner slog.Handler, uri, db, collection string) (*MongoHandler, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	clientOpts := options.Client().ApplyURI(uri).
		SetConnectTimeout(5 * time.Second).
		SetServerSelectionTimeout(5 * time.Second).
		SetMaxPoolSize(10)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("mongo_handler: connect: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo_handler: ping: %w", err)
	}

	col := client.Database(db).Collection(collection)

	_, _ = col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "time", Value: -1}},
	})

	h := &MongoHandler{
		inner:  inner,
		col:    col,
		client: client,
		queue:  make(chan LogDocument, mongoQueueSize),
		done:   make(chan struct{}),
	}
	go h.drain()
	return h, nil
}

func (h *MongoHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *MongoHandler) Handle(ctx context.Context, rec slog.Record) error {
	err := h.inner.Handle(ctx, rec)

	doc := LogDocument{
		Time:  rec.Time,
		Level: rec.Level.String(),
		Msg:   rec.Message,
		Attrs: bson.M{},
	}
	for _, a := range h.attrs {
		addAttr(&doc, a)
	}
	rec.Attrs(func(a slog.Attr) bool {
		addAttr(&doc, a)
		return true
	})

	select {
	case h.queue <- doc:
	default:
		// Queue full — drop the Mongo copy rather than block.
	}
	return err
}

func addAttr(doc *LogDocument, a slog.Attr) {
	if a.Key == "request_id" {
		doc.RequestID = a.Value.String()
		return
	}
	doc.Attrs[a.Key] = a.Value.Any()
}

func (h *MongoHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.inner = h.inner.WithAttrs(attrs)
	clone.attrs = append(append([]slog.Attr(nil), h.attrs...), attrs...)
	return &clone
}

func (h *MongoHandler) WithGroup(name string) slog.Handler {
	clone := *h
	clone.inner = h.inner.WithGroup(name)
	return &clone
}

// drain batches queued documents into InsertMany calls.
func (h *MongoHandler) drain() {
	ticker := time.NewTicker(mongoDrainTick)
	defer ticker.Stop()

	batch := make([]interface{}, 0, mongoBatchSize)

	flush := func() {
		if len(batch) == 0 {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		_, _ = h.col.InsertMany(ctx, batch)
		cancel()
		batch = batch[:0]
	}

	for {
		select {
		case doc, ok := <-h.queue:
			if !ok {
				flush()
				close(h.done)
				return
			}
			batch = append(batch, doc)
			if len(batch) >= mongoBatchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		}
	}
}

// Close flushes pending documents and disconnects the client.
func (h *MongoHandler) Close() error {
	close(h.queue)
	<-h.done
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return h.client.Disconnect(ctx)
}
