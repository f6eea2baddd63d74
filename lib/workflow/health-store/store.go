package healthstore

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"

	dbmodels "recruit-flow-backend/models/db"
)

type Provider interface {
	Create(rec dbmodels.HealthReport) (id string, err error)
	GetLatest() (rec *dbmodels.HealthReport, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.HealthReport) (id string, err error) {
	err = i.db.
		Save(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetLatest() (*dbmodels.HealthReport, error) {
	rec := dbmodels.HealthReport{}
	err := i.db.
		Order("checked_at DESC").
		First(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}
