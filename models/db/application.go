package dbmodels

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"recruit-flow-backend/models"
)

type Application struct {
	BaseModel
	JobID     string `gorm:"type:varchar(36);index"`
	StudentID string `gorm:"type:varchar(36);index"`
	CompanyID string `gorm:"type:varchar(36);index"`

	Status         models.ApplicationStage `gorm:"type:varchar(50);index"`
	StatusHistory  StatusHistory           `gorm:"type:jsonb"`
	StageEnteredAt time.Time               `gorm:"index"` // момент входа в текущий этап, чтобы не сканировать историю

	// Данные заявки
	PersonalInformation string
	ResumeUrl           string `gorm:"type:varchar(1024)"`
	CoverLetter         string

	// Поля этапов, заполняются по мере прохождения процесса
	AssignedReviewer          string `gorm:"type:varchar(36)"`
	InterviewScheduledAt      *time.Time
	InterviewReminderSentAt   *time.Time // отметка об отправленном напоминании, защита от дублей
	OfferedAt                 *time.Time
	OfferValidityDays         int
	OfferLetterUrl            string `gorm:"type:varchar(1024)"`
	RejectionReason           string
}

// OfferExpiresAt - срок действия оффера, nil если оффер не направлялся.
// offered_at и offer_validity_days записываются вместе при переходе на
// этап оффера, поэтому срок считается только по сохраненному значению
func (a Application) OfferExpiresAt() *time.Time {
	if a.OfferedAt == nil || a.OfferValidityDays <= 0 {
		return nil
	}
	expires := a.OfferedAt.AddDate(0, 0, a.OfferValidityDays)
	return &expires
}

func (a Application) DaysInStage(now time.Time) int {
	if a.StageEnteredAt.IsZero() {
		return 0
	}
	return int(now.Sub(a.StageEnteredAt).Hours() / 24)
}

type StatusHistory []StatusHistoryEntry

type StatusHistoryEntry struct {
	Status    models.ApplicationStage `json:"status"`     // этап
	ChangedAt time.Time               `json:"changed_at"` // время перехода
	ChangedBy string                  `json:"changed_by"` // кто перевел (ид пользователя или system)
	Reason    string                  `json:"reason"`     // причина перехода
}

func (j StatusHistory) Value() (driver.Value, error) {
	valueString, err := json.Marshal(j)
	return string(valueString), err
}

func (j *StatusHistory) Scan(value interface{}) error {
	if err := json.Unmarshal(value.([]byte), &j); err != nil {
		return err
	}
	return nil
}

// LastEntry - последняя запись истории, nil для пустой истории
func (j StatusHistory) LastEntry() *StatusHistoryEntry {
	if len(j) == 0 {
		return nil
	}
	return &j[len(j)-1]
}
