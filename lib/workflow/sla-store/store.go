package slastore

import (
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"recruit-flow-backend/models"
	dbmodels "recruit-flow-backend/models/db"
)

type Provider interface {
	Create(rec dbmodels.SlaViolation) (id string, err error)
	GetLastByApplication(applicationID string, stage models.ApplicationStage) (rec *dbmodels.SlaViolation, err error)
	CountSince(threshold time.Time) (int64, error)
	ListSince(threshold time.Time) ([]dbmodels.SlaViolation, error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.SlaViolation) (id string, err error) {
	err = i.db.
		Save(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetLastByApplication(applicationID string, stage models.ApplicationStage) (*dbmodels.SlaViolation, error) {
	rec := dbmodels.SlaViolation{}
	err := i.db.
		Where("application_id = ?", applicationID).
		Where("stage = ?", stage).
		Order("detected_at DESC").
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

func (i impl) CountSince(threshold time.Time) (count int64, err error) {
	err = i.db.
		Model(&dbmodels.SlaViolation{}).
		Where("detected_at >= ?", threshold).
		Count(&count).
		Error
	return count, err
}

func (i impl) ListSince(threshold time.Time) (list []dbmodels.SlaViolation, err error) {
	list = []dbmodels.SlaViolation{}
	err = i.db.
		Where("detected_at >= ?", threshold).
		Order("detected_at DESC").
		Find(&list).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return list, nil
}
