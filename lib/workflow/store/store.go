package applicationstore

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"recruit-flow-backend/models"
	dbmodels "recruit-flow-backend/models/db"
)

// ErrStaleStatus - условное обновление не прошло: запись отсутствует либо
// статус уже изменён конкурентным переходом. Вызывающий перечитывает запись
var ErrStaleStatus = errors.New("статус заявки изменен или запись не найдена")

type StageStat struct {
	Stage            models.ApplicationStage `json:"stage"`
	Count            int                     `json:"count"`
	AverageDwellDays float64                 `json:"average_dwell_days"`
}

type Provider interface {
	Create(rec dbmodels.Application) (id string, err error)
	GetByID(id string) (rec *dbmodels.Application, err error)
	ListByStatuses(statuses []models.ApplicationStage) ([]dbmodels.Application, error)
	ListStuckSince(statuses []models.ApplicationStage, threshold time.Time) ([]dbmodels.Application, error)
	ListUpdatedSince(threshold time.Time) ([]dbmodels.Application, error)
	UpdateStatus(id string, expected, newStatus models.ApplicationStage, entry dbmodels.StatusHistoryEntry, updMap map[string]interface{}) error
	UpdateFields(id string, updMap map[string]interface{}) error
	StageStatistics(statuses []models.ApplicationStage) ([]StageStat, error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.Application) (id string, err error) {
	// ид назначаем до вставки, чтобы сразу вернуть его вызывающему
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	err = i.db.
		Save(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(id string) (*dbmodels.Application, error) {
	rec := dbmodels.Application{}
	err := i.db.
		Where("id = ?", id).
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

func (i impl) ListByStatuses(statuses []models.ApplicationStage) (list []dbmodels.Application, err error) {
	list = []dbmodels.Application{}
	err = i.db.
		Where("status IN ?", statuses).
		Order("created_at ASC").
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

func (i impl) ListStuckSince(statuses []models.ApplicationStage, threshold time.Time) (list []dbmodels.Application, err error) {
	list = []dbmodels.Application{}
	err = i.db.
		Where("status IN ?", statuses).
		Where("updated_at < ?", threshold).
		Order("updated_at ASC").
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

func (i impl) ListUpdatedSince(threshold time.Time) (list []dbmodels.Application, err error) {
	list = []dbmodels.Application{}
	err = i.db.
		Where("updated_at >= ?", threshold).
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

// UpdateStatus выполняет атомарный переход: смена статуса и дозапись истории
// одним UPDATE с условием на ожидаемый текущий статус. Если условие не
// сработало - конкурентный переход уже состоялся, возвращаем ErrStaleStatus
func (i impl) UpdateStatus(id string, expected, newStatus models.ApplicationStage, entry dbmodels.StatusHistoryEntry, updMap map[string]interface{}) error {
	entryJSON, err := json.Marshal([]dbmodels.StatusHistoryEntry{entry})
	if err != nil {
		return errors.Wrap(err, "ошибка сериализации записи истории")
	}
	values := map[string]interface{}{
		"status":           newStatus,
		"stage_entered_at": entry.ChangedAt,
		"updated_at":       entry.ChangedAt,
		"status_history":   gorm.Expr("status_history || ?::jsonb", string(entryJSON)),
	}
	for column, value := range updMap {
		values[column] = value
	}
	tx := i.db.
		Model(&dbmodels.Application{}).
		Where("id = ?", id).
		Where("status = ?", expected).
		Updates(values)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrStaleStatus
	}
	return nil
}

// UpdateFields обновляет данные заявки без смены статуса.
// Поле status через этот метод менять запрещено
func (i impl) UpdateFields(id string, updMap map[string]interface{}) error {
	if len(updMap) == 0 {
		return nil
	}
	delete(updMap, "status")
	delete(updMap, "status_history")
	delete(updMap, "stage_entered_at")
	tx := i.db.
		Model(&dbmodels.Application{}).
		Where("id = ?", id).
		Updates(updMap)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return errors.New("запись не найдена")
	}
	return nil
}

// StageStatistics - количество заявок и средняя длительность нахождения на
// этапе. Считается по stage_entered_at одним запросом, без сканирования истории
func (i impl) StageStatistics(statuses []models.ApplicationStage) ([]StageStat, error) {
	result := []StageStat{}
	err := i.db.
		Model(&dbmodels.Application{}).
		Select("status as stage, count(*) as count, coalesce(avg(extract(epoch from (now() - stage_entered_at)) / 86400), 0) as average_dwell_days").
		Where("status IN ?", statuses).
		Group("status").
		Find(&result).
		Error
	if err != nil {
		return nil, err
	}
	return result, nil
}
