package slaworker

import (
	"context"
	"time"

	"recruit-flow-backend/config"
	"recruit-flow-backend/db"
	"recruit-flow-backend/lib/notification"
	baseworker "recruit-flow-backend/lib/utils/base-worker"
	"recruit-flow-backend/lib/utils/helpers"
	initchecker "recruit-flow-backend/lib/utils/init-checker"
	slastore "recruit-flow-backend/lib/workflow/sla-store"
	applicationstore "recruit-flow-backend/lib/workflow/store"
	"recruit-flow-backend/models"
	dbmodels "recruit-flow-backend/models/db"
)

// Контроль SLA этапов. Для каждого этапа с нормативом ищем заявки,
// превысившие срок, фиксируем нарушение и эскалируем серьезные случаи

func StartWorker(ctx context.Context) {
	i := &impl{
		BaseImpl: *baseworker.NewInstance("WorkflowSlaWorker", 45*time.Second, 30*time.Minute),
		store:    applicationstore.NewInstance(db.DB),
		slaStore: slastore.NewInstance(db.DB),
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
	slaStore slastore.Provider
	notifier notification.Provider
}

// SlaDefinitions - норматив на этап в днях
func SlaDefinitions() map[models.ApplicationStage]int {
	wf := config.Conf.Workflow
	return map[models.ApplicationStage]int{
		models.StageFirstLevelReview:   wf.ReviewSlaDays,
		models.StagePendingAcceptance:  wf.AcceptanceSlaDays,
		models.StageInterviewScheduled: wf.InterviewSlaDays,
		models.StageOfferExtended:      wf.OfferSlaDays,
	}
}

// Severity - серьезность нарушения пропорционально превышению норматива
func Severity(daysOver int) models.SlaSeverity {
	switch {
	case daysOver <= 2:
		return models.SlaSeverityLow
	case daysOver <= 5:
		return models.SlaSeverityMedium
	case daysOver <= 10:
		return models.SlaSeverityHigh
	default:
		return models.SlaSeverityCritical
	}
}

func needsEscalation(severity models.SlaSeverity) bool {
	return severity == models.SlaSeverityHigh || severity == models.SlaSeverityCritical
}

func (i impl) handle(ctx context.Context) {
	logger := i.GetLogger()
	now := time.Now()
	violationsFound := 0
	for stage, maxDays := range SlaDefinitions() {
		if helpers.IsContextDone(ctx) {
			return
		}
		list, err := i.store.ListByStatuses([]models.ApplicationStage{stage})
		if err != nil {
			logger.
				WithError(err).
				WithField("stage", string(stage)).
				Error("ошибка получения заявок этапа")
			continue
		}
		for _, app := range list {
			daysInStage := helpers.DaysSince(app.StageEnteredAt, now)
			if daysInStage <= maxDays {
				continue
			}
			daysOver := daysInStage - maxDays
			// повторная фиксация только при росте превышения
			last, err := i.slaStore.GetLastByApplication(app.ID, stage)
			if err != nil {
				logger.
					WithError(err).
					WithField("application_id", app.ID).
					Error("ошибка чтения последнего нарушения SLA")
				continue
			}
			if last != nil && last.DaysOver >= daysOver {
				continue
			}
			severity := Severity(daysOver)
			rec := dbmodels.SlaViolation{
				ApplicationID: app.ID,
				Stage:         stage,
				DaysInStage:   daysInStage,
				SlaMaxDays:    maxDays,
				DaysOver:      daysOver,
				Severity:      severity,
				DetectedAt:    now,
				Escalated:     needsEscalation(severity),
			}
			_, err = i.slaStore.Create(rec)
			if err != nil {
				logger.
					WithError(err).
					WithField("application_id", app.ID).
					Error("ошибка сохранения нарушения SLA")
				continue
			}
			violationsFound++
			if needsEscalation(severity) {
				i.notifier.NotifyAdmins(models.NotificationSlaEscalation, map[string]interface{}{
					"application_id": app.ID,
					"stage":          string(stage),
					"days_over":      daysOver,
					"severity":       string(severity),
				})
			}
		}
	}
	if violationsFound > 0 {
		logger.WithField("violations", violationsFound).Warn("зафиксированы нарушения SLA")
	} else {
		logger.Info("нарушений SLA не обнаружено")
	}
}
