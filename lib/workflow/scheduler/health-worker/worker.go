package healthworker

import (
	"context"
	"time"

	"recruit-flow-backend/config"
	"recruit-flow-backend/db"
	"recruit-flow-backend/lib/notification"
	baseworker "recruit-flow-backend/lib/utils/base-worker"
	"recruit-flow-backend/lib/utils/helpers"
	initchecker "recruit-flow-backend/lib/utils/init-checker"
	healthstore "recruit-flow-backend/lib/workflow/health-store"
	"recruit-flow-backend/lib/workflow/registry"
	slastore "recruit-flow-backend/lib/workflow/sla-store"
	applicationstore "recruit-flow-backend/lib/workflow/store"
	"recruit-flow-backend/models"
	dbmodels "recruit-flow-backend/models/db"
)

// Ежедневная проверка состояния процесса подбора: зависшие заявки, перегруженные
// этапы, нарушения SLA. Итоговая классификация и алерт администраторам

func StartWorker(ctx context.Context) {
	i := &impl{
		BaseImpl:    *baseworker.NewInstance("WorkflowHealthWorker", 1*time.Minute, 24*time.Hour),
		store:       applicationstore.NewInstance(db.DB),
		slaStore:    slastore.NewInstance(db.DB),
		healthStore: healthstore.NewInstance(db.DB),
		notifier:    notification.Instance,
	}
	initchecker.CheckInit(
		"notifier", i.notifier,
	)
	go i.Run(ctx, i.handle)
}

type impl struct {
	baseworker.BaseImpl
	store       applicationstore.Provider
	slaStore    slastore.Provider
	healthStore healthstore.Provider
	notifier    notification.Provider
}

// Bands - границы классификации, degraded и critical по каждому счетчику
type Bands struct {
	StuckDegraded      int
	StuckCritical      int
	BottleneckDegraded int
	BottleneckCritical int
	SlaDegraded        int
	SlaCritical        int
}

func bandsFromConfig() Bands {
	wf := config.Conf.Workflow
	return Bands{
		StuckDegraded:      wf.StuckDegraded,
		StuckCritical:      wf.StuckCritical,
		BottleneckDegraded: wf.BottleneckDegraded,
		BottleneckCritical: wf.BottleneckCritical,
		SlaDegraded:        wf.SlaDegraded,
		SlaCritical:        wf.SlaCritical,
	}
}

// Classify - сперва критичная граница, затем деградация, иначе процесс здоров
func Classify(stuckCount, bottleneckCount int, slaCount int, bands Bands) models.WorkflowHealth {
	if stuckCount >= bands.StuckCritical ||
		bottleneckCount >= bands.BottleneckCritical ||
		slaCount >= bands.SlaCritical {
		return models.WorkflowCritical
	}
	if stuckCount >= bands.StuckDegraded ||
		bottleneckCount >= bands.BottleneckDegraded ||
		slaCount >= bands.SlaDegraded {
		return models.WorkflowDegraded
	}
	return models.WorkflowHealthy
}

// FindBottlenecks - этапы с объемом выше порога и длительностью выше нормы
func FindBottlenecks(stats []applicationstore.StageStat, volumeThreshold int, dwellThresholdDays float64) []dbmodels.StageBottleneck {
	result := []dbmodels.StageBottleneck{}
	for _, stat := range stats {
		if stat.Count <= volumeThreshold || stat.AverageDwellDays <= dwellThresholdDays {
			continue
		}
		severity := "medium"
		if stat.Count > volumeThreshold*2 {
			severity = "high"
		}
		result = append(result, dbmodels.StageBottleneck{
			Stage:            stat.Stage,
			ApplicationCount: stat.Count,
			AverageDwellDays: stat.AverageDwellDays,
			Severity:         severity,
		})
	}
	return result
}

func (i impl) handle(ctx context.Context) {
	logger := i.GetLogger()
	now := time.Now()
	wf := config.Conf.Workflow

	stuckThreshold := now.AddDate(0, 0, -wf.StuckThresholdDays)
	stuckList, err := i.store.ListStuckSince(registry.ActiveStages(), stuckThreshold)
	if err != nil {
		logger.WithError(err).Error("ошибка поиска зависших заявок")
		return
	}
	stuck := make([]dbmodels.StuckApplication, 0, len(stuckList))
	for _, app := range stuckList {
		stuck = append(stuck, dbmodels.StuckApplication{
			ApplicationID:   app.ID,
			Stage:           app.Status,
			LastUpdated:     app.UpdatedAt,
			DaysSinceUpdate: helpers.DaysSince(app.UpdatedAt, now),
		})
	}

	stats, err := i.store.StageStatistics(registry.ActiveStages())
	if err != nil {
		logger.WithError(err).Error("ошибка получения статистики по этапам")
		return
	}
	bottlenecks := FindBottlenecks(stats, wf.BottleneckVolume, wf.BottleneckDwellDays)

	slaCount, err := i.slaStore.CountSince(now.AddDate(0, 0, -1))
	if err != nil {
		logger.WithError(err).Error("ошибка подсчета нарушений SLA")
		return
	}

	health := Classify(len(stuck), len(bottlenecks), int(slaCount), bandsFromConfig())
	report := dbmodels.HealthReport{
		CheckedAt:         now,
		Health:            health,
		StuckCount:        len(stuck),
		BottleneckCount:   len(bottlenecks),
		SlaViolationCount: int(slaCount),
		Details: dbmodels.HealthDetails{
			StuckApplications: stuck,
			Bottlenecks:       bottlenecks,
		},
	}
	reportID, err := i.healthStore.Create(report)
	if err != nil {
		logger.WithError(err).Error("ошибка сохранения отчета о состоянии процесса")
		return
	}
	logger.
		WithField("health", string(health)).
		WithField("stuck", len(stuck)).
		WithField("bottlenecks", len(bottlenecks)).
		WithField("sla_violations", slaCount).
		Info("проверка состояния процесса завершена")

	if health != models.WorkflowHealthy {
		i.notifier.NotifyAdmins(models.NotificationHealthAlert, map[string]interface{}{
			"report_id": reportID,
			"health":    string(health),
		})
	}
}
