package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
)

// failedJobDoc is the document persisted to the failed_jobs collection.
type failedJobDoc struct {
	JobType  string    `bson:"jobType"`
	Payload  string    `bson:"payload"`
	Error    string    `bson:"error"`
	Attempts int       `bson:"attempts"`
	FailedAt time.Time `bson:"failedAt"`
}

// failedJobColl is the optional document-store backend for persisting failed
// jobs. Set via UseCollection() — nil means in-memory only.
var failedJobColl *mongo.Collection

// UseCollection configures the queue to persist failed jobs to MongoDB.
// Call once at boot (after docstore.Connect()):
//
//	queue.UseCollection(docstore.Collection("failed_jobs"))
func UseCollection(coll *mongo.Collection) {
	failedJobColl = coll
}

// persistFailed writes a failed job record to the collection (if configured)
// and also appends to the in-memory slice as a fallback.
func (m *Manager) persistFailed(job Job, typeName string, lastErr error, attempts int) {
	// Always append to in-memory slice.
	m.mu.Lock()
	m.failed = append(m.failed, FailedJob{
		Job: job, Err: lastErr, FailedAt: time.Now(), Attempts: attempts,
	})
	m.mu.Unlock()

	if failedJobColl == nil {
		return
	}

	payload, err := json.Marshal(job)
	if err != nil {
		payload = []byte(fmt.Sprintf(`{"error": "could not marshal: %v"}`, err))
	}

	doc := failedJobDoc{
		JobType:  typeName,
		Payload:  string(payload),
		Error:    lastErr.Error(),
		Attempts: attempts,
		FailedAt: time.Now(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := failedJobColl.InsertOne(ctx, doc); err != nil {
		// Non-fatal — the in-memory slice still has it.
		// logger is not imported here to avoid import cycle, use fmt.
		fmt.Printf("queue: failed to persist failed job %s: %v\n", typeName, err)
	}
}
