package initializers

import (
	"context"
	"time"

	"recruit-flow-backend/config"
	"recruit-flow-backend/fiberlog"
	"recruit-flow-backend/lib/notification"
	"recruit-flow-backend/lib/workflow"
	"recruit-flow-backend/lib/workflow/registry"
	analyticsworker "recruit-flow-backend/lib/workflow/scheduler/analytics-worker"
	automationworker "recruit-flow-backend/lib/workflow/scheduler/automation-worker"
	healthworker "recruit-flow-backend/lib/workflow/scheduler/health-worker"
	reminderworker "recruit-flow-backend/lib/workflow/scheduler/reminder-worker"
	slaworker "recruit-flow-backend/lib/workflow/scheduler/sla-worker"
)

var LoggerConfig *fiberlog.Config

func InitAllServices(ctx context.Context) {
	LoggerConfig = InitLogger()
	config.InitConfig()
	// конфигурация этапов проверяется до подключения внешних сервисов
	if err := registry.Validate(); err != nil {
		panic(err.Error())
	}
	InitDBConnection()
	InitSmtp()
	notification.NewHandler()
	workflow.NewHandler()
	go initWorkers(ctx)
}

// запускаем с промежутком в 10 сек чтоб размыть нагрузку
func initWorkers(ctx context.Context) {
	// Задача автоматических переходов по активным заявкам
	automationworker.StartWorker(ctx)

	if makeTimeGap(ctx) {
		// Задача напоминаний об интервью, офферах и затянувшихся проверках
		reminderworker.StartWorker(ctx)
	}
	if makeTimeGap(ctx) {
		// Задача контроля сроков нахождения заявок на этапах
		slaworker.StartWorker(ctx)
	}
	if makeTimeGap(ctx) {
		// Задача проверки состояния процесса подбора
		healthworker.StartWorker(ctx)
	}
	if makeTimeGap(ctx) {
		// Задача еженедельного аналитического отчета
		analyticsworker.StartWorker(ctx)
	}
}

func makeTimeGap(ctx context.Context) (canRun bool) {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(time.Second * 10):
		return true
	}
}
