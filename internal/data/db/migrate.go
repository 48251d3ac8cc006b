package db

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/applyflow-backend/internal/data/models"
)

func AutoMigrateAll(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.JobApplication{},
		&models.ApplicationEvent{},
		&models.Notification{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return EnsureApplicationIndexes(db)
}

// EnsureApplicationIndexes adds the composite indexes the listing queries rely on.
func EnsureApplicationIndexes(db *gorm.DB) error {
	stmts := []struct {
		name string
		sql  string
	}{
		{"idx_job_applications_status_applied", `CREATE INDEX IF NOT EXISTS idx_job_applications_status_applied ON job_applications(current_status, applied_date);`},
		{"idx_notifications_read_created", `CREATE INDEX IF NOT EXISTS idx_notifications_read_created ON notifications("read", created_at);`},
	}
	for _, s := range stmts {
		if err := db.Exec(s.sql).Error; err != nil {
			return fmt.Errorf("create %s: %w", s.name, err)
		}
	}
	return nil
}
