package dbmodels

import (
	"database/sql/driver"
	"encoding/json"

	"recruit-flow-backend/models"
)

type Notification struct {
	BaseModel
	UserID  string                  `gorm:"type:varchar(36);index"`
	Code    models.NotificationCode `gorm:"type:varchar(50)"`
	Subject string                  `gorm:"type:varchar(255)"`
	Body    string
	Payload NotificationPayload `gorm:"type:jsonb"`
	IsRead  bool
}

type NotificationPayload map[string]interface{}

func (j NotificationPayload) Value() (driver.Value, error) {
	valueString, err := json.Marshal(j)
	return string(valueString), err
}

func (j *NotificationPayload) Scan(value interface{}) error {
	if err := json.Unmarshal(value.([]byte), &j); err != nil {
		return err
	}
	return nil
}
