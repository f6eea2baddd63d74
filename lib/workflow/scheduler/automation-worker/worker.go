package automationworker

import (
	"context"
	"time"

	"recruit-flow-backend/db"
	"recruit-flow-backend/lib/utils/helpers"
	initchecker "recruit-flow-backend/lib/utils/init-checker"

	baseworker "recruit-flow-backend/lib/utils/base-worker"
	"recruit-flow-backend/lib/workflow"
	"recruit-flow-backend/lib/workflow/registry"
	applicationstore "recruit-flow-backend/lib/workflow/store"
	"recruit-flow-backend/lib/workflow/wferrors"
)

// Периодический прогон автоматических переходов по всем активным заявкам.
// Ошибка по одной заявке логируется и не прерывает проход

func StartWorker(ctx context.Context) {
	i := &impl{
		BaseImpl: *baseworker.NewInstance("WorkflowAutomationWorker", 30*time.Second, 15*time.Minute),
		engine:   workflow.Instance,
		store:    applicationstore.NewInstance(db.DB),
	}
	initchecker.CheckInit(
		"engine", i.engine,
	)
	go i.Run(ctx, i.handle)
}

type impl struct {
	baseworker.BaseImpl
	engine workflow.Provider
	store  applicationstore.Provider
}

func (i impl) handle(ctx context.Context) {
	logger := i.GetLogger()
	list, err := i.store.ListByStatuses(registry.ActiveStages())
	if err != nil {
		logger.WithError(err).Error("ошибка получения списка активных заявок")
		return
	}
	processed := 0
	errored := 0
	for _, app := range list {
		if helpers.IsContextDone(ctx) {
			return
		}
		err = i.engine.ProcessAutomatedWorkflow(ctx, app.ID)
		if err != nil {
			// конкурентный переход между выборкой и обработкой - не сбой
			if wferrors.IsValidation(err) {
				logger.
					WithError(err).
					WithField("application_id", app.ID).
					Warn("заявка изменена конкурентно, пропущена")
				continue
			}
			errored++
			logger.
				WithError(err).
				WithField("application_id", app.ID).
				Error("ошибка автоматической обработки заявки")
			continue
		}
		processed++
	}
	logger.
		WithField("total", len(list)).
		WithField("processed", processed).
		WithField("errors", errored).
		Info("проход автоматических переходов завершен")
}
