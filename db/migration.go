package db

import (
	dbmodels "recruit-flow-backend/models/db"
)

func AutoMigrateDB() error {
	err := DB.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error
	if err != nil {
		return err
	}
	return DB.AutoMigrate(
		&dbmodels.User{},
		&dbmodels.Application{},
		&dbmodels.SlaViolation{},
		&dbmodels.HealthReport{},
		&dbmodels.Notification{},
	)
}
