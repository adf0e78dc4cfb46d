package queue

import (
	"time"

	"github.com/google/uuid"

	"github.com/werkgeheugen/backend/internal/models"
)

// JobType represents the type of job
type JobType string

const (
	// JobTypeRewardNotification is a job for announcing earned points
	JobTypeRewardNotification JobType = "reward_notification"
	// JobTypeBadgeUnlocked is a job for announcing a freshly unlocked badge
	JobTypeBadgeUnlocked JobType = "badge_unlocked"
)

// Job represents a job in the queue
type Job struct {
	ID         uuid.UUID        `json:"id"`
	Type       JobType          `json:"type"`
	TaskID     *uuid.UUID       `json:"task_id,omitempty"`    // Optional, for task-linked rewards
	Points     int              `json:"points,omitempty"`     // Points awarded, for reward notifications
	BadgeKind  models.BadgeKind `json:"badge_kind,omitempty"` // For badge unlock jobs
	Reason     string           `json:"reason,omitempty"`     // Human-readable cause of the reward
	NotBefore  *time.Time       `json:"not_before,omitempty"` // Earliest time to process job (nil = immediate)
	NotAfter   *time.Time       `json:"not_after,omitempty"`  // Latest time to process job (nil = no expiration)
	Metadata   map[string]any   `json:"metadata,omitempty"`   // Job-specific data
	CreatedAt  time.Time        `json:"created_at"`
	RetryCount int              `json:"retry_count"`
	MaxRetries int              `json:"max_retries"`
}

// NewRewardJob creates a reward notification job
func NewRewardJob(points int, reason string, taskID *uuid.UUID) *Job {
	job := newJob(JobTypeRewardNotification)
	job.Points = points
	job.Reason = reason
	job.TaskID = taskID
	return job
}

// NewBadgeJob creates a badge unlock notification job
func NewBadgeJob(kind models.BadgeKind) *Job {
	job := newJob(JobTypeBadgeUnlocked)
	job.BadgeKind = kind
	return job
}

func newJob(jobType JobType) *Job {
	return &Job{
		ID:         uuid.New(),
		Type:       jobType,
		Metadata:   make(map[string]any),
		CreatedAt:  time.Now(),
		RetryCount: 0,
		MaxRetries: 3,
	}
}

// ShouldProcess checks if the job should be processed now
func (j *Job) ShouldProcess() bool {
	now := time.Now()

	// Check NotBefore
	if j.NotBefore != nil && now.Before(*j.NotBefore) {
		return false
	}

	// Check NotAfter
	if j.NotAfter != nil && now.After(*j.NotAfter) {
		return false
	}

	return true
}

// IsExpired checks if the job has expired
func (j *Job) IsExpired() bool {
	if j.NotAfter == nil {
		return false
	}

	return time.Now().After(*j.NotAfter)
}

// CanRetry checks if the job can be retried
func (j *Job) CanRetry() bool {
	return j.RetryCount < j.MaxRetries
}

// IncrementRetry increments the retry count
func (j *Job) IncrementRetry() {
	j.RetryCount++
}
