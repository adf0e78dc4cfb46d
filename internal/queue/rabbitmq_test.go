package queue

import (
	"context"
	"testing"
	"time"
)

var _ JobQueue = (*RabbitMQQueue)(nil)

func TestMessage_CarriesJob(t *testing.T) {
	t.Parallel()

	job := NewRewardJob(25, "taak afgerond", nil)
	msg := &Message{Job: job, DeliveryTag: 7}

	if msg.Job.ID != job.ID {
		t.Errorf("message job ID = %s, want %s", msg.Job.ID, job.ID)
	}
	if msg.Job.Type != JobTypeRewardNotification {
		t.Errorf("message job type = %s, want %s", msg.Job.Type, JobTypeRewardNotification)
	}
}

func TestHealthCheck_NoConnection(t *testing.T) {
	t.Parallel()

	q := &RabbitMQQueue{}
	if err := q.HealthCheck(context.Background()); err == nil {
		t.Error("expected an error without a live connection")
	}
}

func TestHealthCheck_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	<-ctx.Done()

	q := &RabbitMQQueue{}
	if err := q.HealthCheck(ctx); err != context.DeadlineExceeded {
		t.Errorf("expected context.DeadlineExceeded, got %v", err)
	}
}
