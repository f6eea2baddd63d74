package actions

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"recruit-flow-backend/lib/notification"
	applicationstore "recruit-flow-backend/lib/workflow/store"
	"recruit-flow-backend/models"
	dbmodels "recruit-flow-backend/models/db"
)

// Реестр автоматических действий при входе на этап. Каждое действие - это
// отдельный обработчик, тестируемый независимо от движка переходов.
// Ошибка одного действия не отменяет ни переход, ни остальные действия

type Handler func(app dbmodels.Application, data map[string]interface{}) error

type Registry struct {
	handlers map[models.WorkflowActionID]Handler
}

func NewRegistry(notifier notification.Provider, appStore applicationstore.Provider) *Registry {
	r := &Registry{handlers: map[models.WorkflowActionID]Handler{}}

	r.handlers[models.ActionNotifyCompany] = func(app dbmodels.Application, data map[string]interface{}) error {
		notifier.Notify(app.CompanyID, models.NotificationNewApplication, payload(app))
		return nil
	}
	r.handlers[models.ActionAssignReviewer] = func(app dbmodels.Application, data map[string]interface{}) error {
		if app.AssignedReviewer != "" {
			return nil
		}
		// подбор ревьюера по нагрузке не реализован, назначаем работодателя
		return appStore.UpdateFields(app.ID, map[string]interface{}{
			"assigned_reviewer": app.CompanyID,
		})
	}
	r.handlers[models.ActionCreateReviewTask] = func(app dbmodels.Application, data map[string]interface{}) error {
		assignee := app.AssignedReviewer
		if assignee == "" || assignee == models.SystemActor {
			assignee = app.CompanyID
		}
		notifier.Notify(assignee, models.NotificationReviewTask, payload(app))
		return nil
	}
	r.handlers[models.ActionNotifyHiringManager] = func(app dbmodels.Application, data map[string]interface{}) error {
		notifier.Notify(app.CompanyID, models.NotificationHiringManager, payload(app))
		return nil
	}
	r.handlers[models.ActionStartDetailedReview] = func(app dbmodels.Application, data map[string]interface{}) error {
		log.WithField("application_id", app.ID).Info("начато детальное рассмотрение отклика")
		return nil
	}
	r.handlers[models.ActionPrepareInterview] = func(app dbmodels.Application, data map[string]interface{}) error {
		log.WithField("application_id", app.ID).Info("подготовка материалов к интервью")
		return nil
	}
	r.handlers[models.ActionSendInterviewInvite] = func(app dbmodels.Application, data map[string]interface{}) error {
		notifier.Notify(app.StudentID, models.NotificationInterviewInvite, payload(app))
		return nil
	}
	r.handlers[models.ActionCollectFeedback] = func(app dbmodels.Application, data map[string]interface{}) error {
		notifier.Notify(app.CompanyID, models.NotificationStageChanged, payload(app))
		return nil
	}
	r.handlers[models.ActionSendOfferLetter] = func(app dbmodels.Application, data map[string]interface{}) error {
		notifier.Notify(app.StudentID, models.NotificationOfferLetter, payload(app))
		return nil
	}
	r.handlers[models.ActionStartOnboarding] = func(app dbmodels.Application, data map[string]interface{}) error {
		notifier.Notify(app.CompanyID, models.NotificationStageChanged, payload(app))
		log.WithField("application_id", app.ID).Info("запущен процесс онбординга")
		return nil
	}
	r.handlers[models.ActionUpdateTalentPool] = func(app dbmodels.Application, data map[string]interface{}) error {
		log.WithField("application_id", app.ID).Info("кандидат возвращен в кадровый резерв")
		return nil
	}
	r.handlers[models.ActionSendRejectionNotice] = func(app dbmodels.Application, data map[string]interface{}) error {
		notifier.Notify(app.StudentID, models.NotificationRejection, payload(app))
		return nil
	}
	r.handlers[models.ActionNotifyStageChanged] = func(app dbmodels.Application, data map[string]interface{}) error {
		notifier.Notify(app.CompanyID, models.NotificationStageChanged, payload(app))
		return nil
	}
	return r
}

func (r *Registry) Known(id models.WorkflowActionID) bool {
	_, ok := r.handlers[id]
	return ok
}

func (r *Registry) Execute(id models.WorkflowActionID, app dbmodels.Application, data map[string]interface{}) error {
	handler, ok := r.handlers[id]
	if !ok {
		return errors.Errorf("неизвестное действие %q", id)
	}
	return handler(app, data)
}

func payload(app dbmodels.Application) map[string]interface{} {
	return map[string]interface{}{
		"application_id": app.ID,
		"job_id":         app.JobID,
		"stage":          string(app.Status),
	}
}
