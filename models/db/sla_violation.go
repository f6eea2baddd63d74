package dbmodels

import (
	"time"

	"recruit-flow-backend/models"
)

type SlaViolation struct {
	BaseModel
	ApplicationID string                  `gorm:"type:varchar(36);index:idx_sla_app"`
	Stage         models.ApplicationStage `gorm:"type:varchar(50);index:idx_sla_app"`
	DaysInStage   int
	SlaMaxDays    int
	DaysOver      int
	Severity      models.SlaSeverity `gorm:"type:varchar(20)"`
	DetectedAt    time.Time          `gorm:"index"`
	Escalated     bool
}
