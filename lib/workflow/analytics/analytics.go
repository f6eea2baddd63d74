package workflowanalytics

import (
	"time"

	"recruit-flow-backend/lib/workflow/registry"
	"recruit-flow-backend/models"
	dbmodels "recruit-flow-backend/models/db"
)

// Недельная аналитика процесса подбора. Только чтение и расчет,
// состояние заявок не меняется

type WeeklyReport struct {
	WeekStart             time.Time                       `json:"week_start"`
	WeekEnd               time.Time                       `json:"week_end"`
	NewApplications       int                             `json:"new_applications"`
	TotalTransitions      int                             `json:"total_transitions"`
	CompletedApplications int                             `json:"completed_applications"`
	AverageDaysToComplete float64                         `json:"average_days_to_complete"`
	StageDistribution     map[models.ApplicationStage]int `json:"stage_distribution"`
}

// BuildWeeklyReport считает свод по заявкам, менявшимся за отчетную неделю.
// История статусов - единственный источник: каждая запись в окне считается
// переходом, терминальная запись - завершением
func BuildWeeklyReport(apps []dbmodels.Application, weekStart, weekEnd time.Time) WeeklyReport {
	report := WeeklyReport{
		WeekStart:         weekStart,
		WeekEnd:           weekEnd,
		StageDistribution: map[models.ApplicationStage]int{},
	}
	totalCompletionDays := 0.0
	for _, app := range apps {
		report.StageDistribution[app.Status]++
		for _, entry := range app.StatusHistory {
			if entry.ChangedAt.Before(weekStart) || entry.ChangedAt.After(weekEnd) {
				continue
			}
			if entry.Status == registry.EntryStage {
				report.NewApplications++
				continue
			}
			report.TotalTransitions++
			if registry.IsTerminal(entry.Status) {
				report.CompletedApplications++
				totalCompletionDays += entry.ChangedAt.Sub(app.CreatedAt).Hours() / 24
			}
		}
	}
	if report.CompletedApplications > 0 {
		report.AverageDaysToComplete = totalCompletionDays / float64(report.CompletedApplications)
	}
	return report
}
