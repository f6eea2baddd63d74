package analyticsworker

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"recruit-flow-backend/db"
	baseworker "recruit-flow-backend/lib/utils/base-worker"
	workflowanalytics "recruit-flow-backend/lib/workflow/analytics"
	applicationstore "recruit-flow-backend/lib/workflow/store"
)

// Недельный отчет по процессу подбора. Только чтение: считаем свод,
// пишем в лог и выгружаем xlsx

const reportsDir = "reports"

func StartWorker(ctx context.Context) {
	i := &impl{
		BaseImpl: *baseworker.NewInstance("WorkflowAnalyticsWorker", 2*time.Minute, 7*24*time.Hour),
		store:    applicationstore.NewInstance(db.DB),
	}
	go i.Run(ctx, i.handle)
}

type impl struct {
	baseworker.BaseImpl
	store applicationstore.Provider
}

func (i impl) handle(ctx context.Context) {
	logger := i.GetLogger()
	now := time.Now()
	weekStart := now.AddDate(0, 0, -7)

	apps, err := i.store.ListUpdatedSince(weekStart)
	if err != nil {
		logger.WithError(err).Error("ошибка получения заявок за отчетную неделю")
		return
	}
	report := workflowanalytics.BuildWeeklyReport(apps, weekStart, now)
	logger.
		WithField("new_applications", report.NewApplications).
		WithField("transitions", report.TotalTransitions).
		WithField("completed", report.CompletedApplications).
		Info("недельная аналитика посчитана")

	buf, err := workflowanalytics.ExportToXls(report)
	if err != nil {
		logger.WithError(err).Error("ошибка формирования xlsx отчета")
		return
	}
	if err = os.MkdirAll(reportsDir, 0o755); err != nil {
		logger.WithError(err).Error("ошибка создания каталога отчетов")
		return
	}
	fileName := filepath.Join(reportsDir, fmt.Sprintf("weekly-%s.xlsx", now.Format("2006-01-02")))
	if err = os.WriteFile(fileName, buf.Bytes(), 0o644); err != nil {
		logger.WithError(err).Error("ошибка сохранения xlsx отчета")
		return
	}
	logger.WithField("file", fileName).Info("недельный отчет выгружен")
}
