package workers

import (
	"context"
	"fmt"
	"log"

	"github.com/werkgeheugen/backend/internal/database"
	"github.com/werkgeheugen/backend/internal/queue"
)

// Sender delivers a rendered notification to the user
type Sender interface {
	Send(ctx context.Context, text string) error
}

// LogSender writes notifications to the process log. It is the default
// sender when no delivery channel is configured.
type LogSender struct{}

// Send logs the notification
func (LogSender) Send(_ context.Context, text string) error {
	log.Printf("notification: %s", text)
	return nil
}

// Notifier processes reward and badge jobs into user notifications
type Notifier struct {
	sender   Sender
	taskRepo database.TaskRepositoryInterface
}

// NewNotifier creates a new notifier
func NewNotifier(sender Sender, taskRepo database.TaskRepositoryInterface) *Notifier {
	if sender == nil {
		sender = LogSender{}
	}
	return &Notifier{
		sender:   sender,
		taskRepo: taskRepo,
	}
}

// ProcessRewardJob renders and delivers a reward notification
func (n *Notifier) ProcessRewardJob(ctx context.Context, job *queue.Job) error {
	if job.Points <= 0 {
		return fmt.Errorf("reward job %s has no points", job.ID)
	}

	text := fmt.Sprintf("🎉 +%d punten", job.Points)
	if job.Reason != "" {
		text += ": " + job.Reason
	}

	// Attach the task title when the reward is task-linked. A missing
	// task is not fatal, the task may have been deleted since.
	if job.TaskID != nil && n.taskRepo != nil {
		task, err := n.taskRepo.GetByID(ctx, *job.TaskID)
		if err == nil {
			text += fmt.Sprintf(" (%s)", task.Title)
		} else if err != database.ErrNotFound {
			return fmt.Errorf("failed to load task for reward job: %w", err)
		}
	}

	if err := n.sender.Send(ctx, text); err != nil {
		return fmt.Errorf("failed to send reward notification: %w", err)
	}

	log.Printf("Delivered reward notification for job %s (+%d punten)", job.ID, job.Points)
	return nil
}

// ProcessBadgeJob renders and delivers a badge unlock notification
func (n *Notifier) ProcessBadgeJob(ctx context.Context, job *queue.Job) error {
	kind := job.BadgeKind
	if kind == "" {
		return fmt.Errorf("badge job %s has no badge kind", job.ID)
	}

	text := fmt.Sprintf("🏅 Badge ontgrendeld: %s - %s", kind.Title(), kind.Description())
	if err := n.sender.Send(ctx, text); err != nil {
		return fmt.Errorf("failed to send badge notification: %w", err)
	}

	log.Printf("Delivered badge notification for job %s (%s)", job.ID, kind)
	return nil
}

// ProcessJob processes a job based on its type
func (n *Notifier) ProcessJob(ctx context.Context, msg *queue.Message) error {
	job := msg.Job

	// Check if job should be processed now (respect NotBefore)
	if !job.ShouldProcess() {
		log.Printf("Job %s not ready yet (NotBefore: %v), skipping", job.ID, job.NotBefore)
		if ackErr := msg.Ack(); ackErr != nil {
			log.Printf("Failed to ack job for later processing: %v", ackErr)
		}
		return nil
	}

	switch job.Type {
	case queue.JobTypeRewardNotification:
		if err := n.ProcessRewardJob(ctx, job); err != nil {
			return n.handleJobError(msg, job, err, "reward notification")
		}
		if ackErr := msg.Ack(); ackErr != nil {
			return fmt.Errorf("failed to ack job: %w", ackErr)
		}
		return nil

	case queue.JobTypeBadgeUnlocked:
		if err := n.ProcessBadgeJob(ctx, job); err != nil {
			return n.handleJobError(msg, job, err, "badge unlock")
		}
		if ackErr := msg.Ack(); ackErr != nil {
			return fmt.Errorf("failed to ack job: %w", ackErr)
		}
		return nil

	default:
		if nackErr := msg.Nack(false); nackErr != nil { // Unknown job type, send to DLQ
			log.Printf("Failed to nack unknown job type: %v", nackErr)
		}
		return fmt.Errorf("unknown job type: %s", job.Type)
	}
}

// handleJobError applies the standard retry policy: requeue until the
// retry budget runs out, then dead-letter.
func (n *Notifier) handleJobError(msg *queue.Message, job *queue.Job, err error, jobType string) error {
	if job.CanRetry() {
		job.IncrementRetry()
		log.Printf("%s job %s failed (attempt %d/%d): %v, will retry", jobType, job.ID, job.RetryCount, job.MaxRetries, err)
		if nackErr := msg.Nack(true); nackErr != nil {
			log.Printf("Failed to nack job: %v", nackErr)
		}
		return fmt.Errorf("job failed (will retry): %w", err)
	}

	log.Printf("%s job %s failed after %d retries: %v, sending to DLQ", jobType, job.ID, job.MaxRetries, err)
	if nackErr := msg.Nack(false); nackErr != nil {
		log.Printf("Failed to nack job to DLQ: %v", nackErr)
	}
	return fmt.Errorf("job failed (max retries): %w", err)
}
