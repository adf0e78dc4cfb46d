package handlers

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/werkgeheugen/backend/internal/database"
	"github.com/werkgeheugen/backend/internal/gamify"
	"github.com/werkgeheugen/backend/internal/models"
	"github.com/werkgeheugen/backend/internal/queue"
)

// rewarder centralizes the award flow shared by the task and stats
// handlers: persist the updated stats, unlock any badges that the new
// counters trigger, and enqueue notification jobs. Queue publication
// is best effort; a broker outage must not fail the user's request.
type rewarder struct {
	statsRepo database.StatsRepositoryInterface
	badgeRepo database.BadgeRepositoryInterface
	taskRepo  database.TaskRepositoryInterface
	engine    *gamify.Engine
	jobQueue  queue.JobQueue
	logger    *zap.Logger
}

// settle saves stats, evaluates stat-driven badges, and publishes the
// reward notification. Returns the kinds unlocked by this action.
func (rw *rewarder) settle(ctx context.Context, stats *models.UserStats, points int, reason string, taskID *uuid.UUID) ([]models.BadgeKind, error) {
	if err := rw.statsRepo.Save(ctx, stats); err != nil {
		return nil, err
	}

	unlocked, err := rw.unlockedKinds(ctx)
	if err != nil {
		return nil, err
	}

	newKinds := gamify.EvaluateBadges(stats, unlocked)
	if err := rw.persistBadges(ctx, newKinds); err != nil {
		return nil, err
	}

	if points > 0 {
		rw.publish(ctx, queue.NewRewardJob(points, reason, taskID))
	}

	return newKinds, nil
}

// unlockExtras persists badge kinds triggered outside the stat counters
// (finance tasks, inbox zero) and notifies for them.
func (rw *rewarder) unlockExtras(ctx context.Context, kinds []models.BadgeKind) error {
	return rw.persistBadges(ctx, kinds)
}

func (rw *rewarder) unlockedKinds(ctx context.Context) (gamify.KindSet, error) {
	kinds, err := rw.badgeRepo.Kinds(ctx)
	if err != nil {
		return nil, err
	}
	set := make(gamify.KindSet, len(kinds))
	for _, k := range kinds {
		set[k] = struct{}{}
	}
	return set, nil
}

func (rw *rewarder) persistBadges(ctx context.Context, kinds []models.BadgeKind) error {
	for _, kind := range kinds {
		if err := rw.badgeRepo.Create(ctx, models.NewBadge(kind)); err != nil {
			return err
		}
		rw.publish(ctx, queue.NewBadgeJob(kind))
	}
	return nil
}

func (rw *rewarder) publish(ctx context.Context, job *queue.Job) {
	if rw.jobQueue == nil {
		return
	}
	if err := rw.jobQueue.Enqueue(ctx, job); err != nil {
		rw.logger.Warn("notification_enqueue_failed",
			zap.String("job_type", string(job.Type)),
			zap.Error(err),
		)
	}
}

// checkFinancienNinja counts completed finance tasks and reports
// whether the badge should unlock.
func (rw *rewarder) checkFinancienNinja(ctx context.Context, unlocked gamify.KindSet) (bool, error) {
	done := models.StatusDone
	financien := models.CategoryFinancien
	tasks, err := rw.taskRepo.List(ctx, &done, &financien)
	if err != nil {
		return false, err
	}
	return gamify.CheckFinancienNinja(len(tasks), unlocked), nil
}

// checkInboxZero reports whether the inbox just hit empty.
func (rw *rewarder) checkInboxZero(ctx context.Context, unlocked gamify.KindSet) (bool, error) {
	count, err := rw.taskRepo.CountByStatus(ctx, models.StatusInbox)
	if err != nil {
		return false, err
	}
	return gamify.CheckInboxZero(count, unlocked), nil
}
