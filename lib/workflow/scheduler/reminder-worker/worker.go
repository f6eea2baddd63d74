package reminderworker

import (
	"context"
	"time"

	"recruit-flow-backend/config"
	"recruit-flow-backend/db"
	"recruit-flow-backend/lib/notification"
	baseworker "recruit-flow-backend/lib/utils/base-worker"
	"recruit-flow-backend/lib/utils/helpers"
	initchecker "recruit-flow-backend/lib/utils/init-checker"
	"recruit-flow-backend/lib/workflow/registry"
	applicationstore "recruit-flow-backend/lib/workflow/store"
	"recruit-flow-backend/models"
	dbmodels "recruit-flow-backend/models/db"
)

// Ежечасные напоминания. Три условия проверяются независимо, одна заявка
// может получить несколько напоминаний за один запуск

func StartWorker(ctx context.Context) {
	i := &impl{
		BaseImpl: *baseworker.NewInstance("WorkflowReminderWorker", 90*time.Second, time.Hour),
		store:    applicationstore.NewInstance(db.DB),
		notifier: notification.Instance,
	}
	initchecker.CheckInit(
		"notifier", i.notifier,
	)
	go i.Run(ctx, i.handle)
}

type impl struct {
	baseworker.BaseImpl
	store    applicationstore.Provider
	notifier notification.Provider
}

// Policy - окна напоминаний, значения берутся из конфигурации
type Policy struct {
	ReviewSlaDays          int
	InterviewReminderHours int
	OfferExpiringDays      int
	OfferValidityDays      int
}

func policyFromConfig() Policy {
	wf := config.Conf.Workflow
	return Policy{
		ReviewSlaDays:          wf.ReviewSlaDays,
		InterviewReminderHours: wf.InterviewReminderHours,
		OfferExpiringDays:      wf.OfferExpiringDays,
		OfferValidityDays:      wf.OfferValidityDays,
	}
}

// IsReviewOverdue - первичное рассмотрение висит дольше SLA этапа
func IsReviewOverdue(app dbmodels.Application, now time.Time, policy Policy) bool {
	if app.Status != models.StageFirstLevelReview {
		return false
	}
	return helpers.DaysSince(app.StageEnteredAt, now) > policy.ReviewSlaDays
}

// NeedsInterviewReminder - интервью в ближайшем окне и напоминание еще не уходило
func NeedsInterviewReminder(app dbmodels.Application, now time.Time, policy Policy) bool {
	if app.Status != models.StageInterviewScheduled || app.InterviewScheduledAt == nil {
		return false
	}
	if app.InterviewReminderSentAt != nil {
		return false
	}
	untilInterview := app.InterviewScheduledAt.Sub(now)
	return untilInterview > 0 && untilInterview <= time.Duration(policy.InterviewReminderHours)*time.Hour
}

// IsOfferExpiring - срок ответа на оффер истекает в ближайшие дни
func IsOfferExpiring(app dbmodels.Application, now time.Time, policy Policy) bool {
	if app.Status != models.StageOfferExtended || app.OfferedAt == nil {
		return false
	}
	expiresAt := app.OfferExpiresAt()
	if expiresAt == nil {
		return false
	}
	untilExpiry := expiresAt.Sub(now)
	return untilExpiry > 0 && untilExpiry <= time.Duration(policy.OfferExpiringDays)*24*time.Hour
}

func (i impl) handle(ctx context.Context) {
	logger := i.GetLogger()
	list, err := i.store.ListByStatuses(registry.ActiveStages())
	if err != nil {
		logger.WithError(err).Error("ошибка получения списка активных заявок")
		return
	}
	now := time.Now()
	policy := policyFromConfig()
	remindersSent := 0
	for _, app := range list {
		if helpers.IsContextDone(ctx) {
			return
		}
		if IsReviewOverdue(app, now, policy) {
			assignee := app.AssignedReviewer
			if assignee == "" || assignee == models.SystemActor {
				assignee = app.CompanyID
			}
			i.notifier.Notify(assignee, models.NotificationReviewOverdue, payload(app))
			remindersSent++
		}
		if NeedsInterviewReminder(app, now, policy) {
			i.notifier.Notify(app.StudentID, models.NotificationInterviewReminder, payload(app))
			remindersSent++
			// отметка защищает от повторной отправки на следующем запуске
			err = i.store.UpdateFields(app.ID, map[string]interface{}{
				"interview_reminder_sent_at": now,
			})
			if err != nil {
				logger.
					WithError(err).
					WithField("application_id", app.ID).
					Error("ошибка сохранения отметки о напоминании")
			}
		}
		if IsOfferExpiring(app, now, policy) {
			i.notifier.Notify(app.StudentID, models.NotificationOfferExpiring, payload(app))
			remindersSent++
		}
	}
	logger.WithField("reminders_sent", remindersSent).Info("напоминания обработаны")
}

func payload(app dbmodels.Application) map[string]interface{} {
	return map[string]interface{}{
		"application_id": app.ID,
		"stage":          string(app.Status),
	}
}
