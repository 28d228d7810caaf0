package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/horarios/sgh-api/internal/dto"
	"github.com/horarios/sgh-api/pkg/jobs"
)

// GenerationCompletedJob is the job type carrying a sealed run summary.
const GenerationCompletedJob = "schedule.generation.completed"

type eventPublisher interface {
	Publish(ctx context.Context, channel string, payload interface{}) (int64, error)
}

type jobEnqueuer interface {
	Enqueue(job jobs.Job) error
}

// GenerationNotifier hands run summaries to a background queue whose workers
// publish them on a Redis channel. Delivery never affects the run outcome.
type GenerationNotifier struct {
	queue     jobEnqueuer
	publisher eventPublisher
	channel   string
	metrics   *MetricsService
	logger    *zap.Logger
}

// NewGenerationNotifier builds a notifier. Attach a queue before use.
func NewGenerationNotifier(publisher eventPublisher, channel string, metrics *MetricsService, logger *zap.Logger) *GenerationNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GenerationNotifier{publisher: publisher, channel: channel, metrics: metrics, logger: logger}
}

// Attach sets the queue that Notify feeds. The queue's handler is normally Handle.
func (n *GenerationNotifier) Attach(queue jobEnqueuer) {
	n.queue = queue
}

// Notify enqueues the event. Failures are logged and counted, never returned.
func (n *GenerationNotifier) Notify(_ context.Context, event dto.GenerationEvent) {
	if n == nil || n.queue == nil {
		return
	}
	job := jobs.Job{ID: uuid.NewString(), Type: GenerationCompletedJob, Payload: event}
	if err := n.queue.Enqueue(job); err != nil {
		n.metrics.RecordNotification("dropped")
		n.logger.Warn("failed to enqueue generation notification", zap.String("run_id", event.RunID), zap.Error(err))
	}
}

// Handle publishes one queued event. Returned errors make the queue retry.
func (n *GenerationNotifier) Handle(ctx context.Context, job jobs.Job) error {
	event, ok := job.Payload.(dto.GenerationEvent)
	if !ok {
		n.metrics.RecordNotification("invalid")
		n.logger.Error("unexpected notification payload", zap.String("job_id", job.ID), zap.String("type", job.Type))
		return nil
	}
	receivers, err := n.publisher.Publish(ctx, n.channel, event)
	if err != nil {
		n.metrics.RecordNotification("failed")
		return fmt.Errorf("publish run %s: %w", event.RunID, err)
	}
	n.metrics.RecordNotification("published")
	n.logger.Debug("generation notification published",
		zap.String("run_id", event.RunID),
		zap.String("channel", n.channel),
		zap.Int64("receivers", receivers),
	)
	return nil
}
