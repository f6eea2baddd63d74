package workflowanalytics

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

const reportSheet = "Недельный отчет"

// ExportToXls - отчет в виде xlsx для выгрузки администраторам
func ExportToXls(report WeeklyReport) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()
	idx, err := f.NewSheet(reportSheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	rows := [][]interface{}{
		{"Начало недели", report.WeekStart.Format("02.01.2006")},
		{"Конец недели", report.WeekEnd.Format("02.01.2006")},
		{"Новые отклики", report.NewApplications},
		{"Всего переходов", report.TotalTransitions},
		{"Завершено", report.CompletedApplications},
		{"Среднее время до завершения, дней", fmt.Sprintf("%.1f", report.AverageDaysToComplete)},
		{},
		{"Этап", "Заявок на этапе"},
	}
	for stage, count := range report.StageDistribution {
		rows = append(rows, []interface{}{stage.ToHuman(), count})
	}
	if err = f.SetColWidth(reportSheet, "A", "B", 35); err != nil {
		return nil, err
	}
	for rowIdx, row := range rows {
		for colIdx, value := range row {
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+1)
			if err != nil {
				return nil, err
			}
			if err = f.SetCellValue(reportSheet, cell, value); err != nil {
				return nil, err
			}
		}
	}
	return f.WriteToBuffer()
}
