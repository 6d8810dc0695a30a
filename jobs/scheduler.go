package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/kkarimsherif/iron-forge/models"
	"github.com/kkarimsherif/iron-forge/services"
)

// Scheduler is the application's job registry. It is constructed once during
// startup and owns its timers; nothing registers jobs at import time.
type Scheduler struct {
	cron          *cron.Cron
	users         *services.UserService
	notifications *services.NotificationService
	log           *zap.Logger
}

func NewScheduler(users *services.UserService, notifications *services.NotificationService, log *zap.Logger) *Scheduler {
	return &Scheduler{
		cron:          cron.New(),
		users:         users,
		notifications: notifications,
		log:           log,
	}
}

// Register adds the standing jobs: daily membership renewal reminders at
// 9 AM and a weekly sweep of old read notifications on Sunday at 2 AM.
func (s *Scheduler) Register() error {
	if _, err := s.cron.AddFunc("0 9 * * *", s.sendRenewalReminders); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc("0 2 * * 0", s.cleanupNotifications); err != nil {
		return err
	}
	return nil
}

// Start begins running registered jobs on their schedules
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info("schedulers started")
}

// Stop halts the timers and waits for running jobs to finish
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info("schedulers stopped")
}

// sendRenewalReminders notifies members whose membership renews exactly 7
// days from now.
func (s *Scheduler) sendRenewalReminders() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	users, err := s.users.MembersRenewingOn(ctx, time.Now().AddDate(0, 0, 7))
	if err != nil {
		s.log.Error("renewal reminder job failed", zap.Error(err))
		return
	}

	sent := 0
	for _, user := range users {
		if _, err := s.notifications.Send(ctx, user.Id, renewalReminder(user)); err != nil {
			s.log.Error("failed to send renewal reminder",
				zap.String("user", user.Id.Hex()), zap.Error(err))
			continue
		}
		sent++
	}

	s.log.Info("renewal reminders sent", zap.Int("count", sent))
}

// renewalReminder builds the expiration warning sent 7 days ahead of a
// member's renewal date.
func renewalReminder(user models.User) services.NotificationInput {
	return services.NotificationInput{
		Title: "Membership Expiring Soon",
		Message: fmt.Sprintf("Your %s membership is set to expire in 7 days on %s. Renew now to maintain your benefits!",
			user.Membership.Type, user.Membership.RenewalDate.Format("January 2, 2006")),
		Type:     models.NotificationMembership,
		Priority: models.PriorityHigh,
		Action: &models.Action{
			URL:  "/membership/renew",
			Text: "Renew Membership",
		},
	}
}

// cleanupNotifications deletes read notifications older than 30 days
func (s *Scheduler) cleanupNotifications() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	deleted, err := s.notifications.Cleanup(ctx, 30, true, "")
	if err != nil {
		s.log.Error("notification cleanup job failed", zap.Error(err))
		return
	}

	s.log.Info("old notifications cleaned up", zap.Int64("deleted", deleted))
}
