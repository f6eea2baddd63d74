package baseworker

import (
	"context"
	"runtime/debug"
	"time"

	log "github.com/sirupsen/logrus"

	"recruit-flow-backend/lib/utils/lock"
)

// Базовый цикл периодической задачи: запуск по таймеру, восстановление после
// паники, защита от наложения запусков одной и той же задачи через именованную
// блокировку. Разные задачи друг друга не блокируют

type BaseImpl struct {
	WorkerName    string
	firstRunDelay time.Duration
	runInterval   time.Duration
}

func NewInstance(WorkerName string, firstRunDelay, runInterval time.Duration) *BaseImpl {
	return &BaseImpl{
		WorkerName:    WorkerName,
		firstRunDelay: firstRunDelay,
		runInterval:   runInterval,
	}
}

func (i BaseImpl) GetLogger() *log.Entry {
	logger := log.
		WithField("worker_name", i.WorkerName)
	return logger
}

func (i BaseImpl) Run(ctx context.Context, jobFunc func(ctx context.Context)) {
	period := i.firstRunDelay
	logger := i.GetLogger()
	for {
		select {
		// проверяем не завершён ли ещё контекст и выходим, если завершён
		case <-ctx.Done():
			logger.Info("Задача остановлена")
			return
		case <-time.After(period):
			started, _ := lock.TryRun(ctx, "worker:"+i.WorkerName, func() error {
				logger.Info("Задача запущена")
				i.safeRun(ctx, jobFunc)
				logger.Info("Задача выполнена")
				return nil
			})
			if !started {
				logger.Warn("Запуск пропущен, предыдущий еще выполняется")
			}
		}
		period = i.runInterval
	}
}

// safeRun гасит панику внутри одного запуска: цикл задачи продолжает
// жить, следующий запуск произойдет по расписанию
func (i BaseImpl) safeRun(ctx context.Context, jobFunc func(ctx context.Context)) {
	defer func() {
		if r := recover(); r != nil {
			i.GetLogger().
				WithField("panic_stack", string(debug.Stack())).
				Errorf("panic: (%v)", r)
		}
	}()
	jobFunc(ctx)
}
