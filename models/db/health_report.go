package dbmodels

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"recruit-flow-backend/models"
)

type HealthReport struct {
	BaseModel
	CheckedAt         time.Time             `gorm:"index"`
	Health            models.WorkflowHealth `gorm:"type:varchar(20)"`
	StuckCount        int
	BottleneckCount   int
	SlaViolationCount int
	Details           HealthDetails `gorm:"type:jsonb"`
}

type HealthDetails struct {
	StuckApplications []StuckApplication `json:"stuck_applications"`
	Bottlenecks       []StageBottleneck  `json:"bottlenecks"`
}

type StuckApplication struct {
	ApplicationID   string                  `json:"application_id"`
	Stage           models.ApplicationStage `json:"stage"`
	LastUpdated     time.Time               `json:"last_updated"`
	DaysSinceUpdate int                     `json:"days_since_update"`
}

type StageBottleneck struct {
	Stage            models.ApplicationStage `json:"stage"`
	ApplicationCount int                     `json:"application_count"`
	AverageDwellDays float64                 `json:"average_dwell_days"`
	Severity         string                  `json:"severity"`
}

func (j HealthDetails) Value() (driver.Value, error) {
	valueString, err := json.Marshal(j)
	return string(valueString), err
}

func (j *HealthDetails) Scan(value interface{}) error {
	if err := json.Unmarshal(value.([]byte), &j); err != nil {
		return err
	}
	return nil
}
