package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/applyflow-backend/internal/data/models"
)

func SeedApplication(tb testing.TB, ctx context.Context, tx *gorm.DB, company, position, status string, at time.Time) *models.JobApplication {
	tb.Helper()
	at = at.UTC()
	row := &models.JobApplication{
		ID:            uuid.New(),
		Company:       company,
		Position:      position,
		CurrentStatus: status,
		AppliedDate:   at,
		Version:       1,
		CreatedAt:     at,
		UpdatedAt:     at,
	}
	if err := tx.WithContext(ctx).Create(row).Error; err != nil {
		tb.Fatalf("seed application: %v", err)
	}
	return row
}

func SeedEvent(tb testing.TB, ctx context.Context, tx *gorm.DB, applicationID uuid.UUID, seq int, from, to string, at time.Time) *models.ApplicationEvent {
	tb.Helper()
	row := &models.ApplicationEvent{
		ID:             uuid.New(),
		ApplicationID:  applicationID,
		Seq:            seq,
		PreviousStatus: from,
		NewStatus:      to,
		Timestamp:      at.UTC(),
	}
	if err := tx.WithContext(ctx).Create(row).Error; err != nil {
		tb.Fatalf("seed event: %v", err)
	}
	return row
}

func SeedNotification(tb testing.TB, ctx context.Context, tx *gorm.DB, applicationID *uuid.UUID, message string, read bool, at time.Time) *models.Notification {
	tb.Helper()
	row := &models.Notification{
		ID:            uuid.New(),
		ApplicationID: applicationID,
		Message:       message,
		Type:          "STATUS_CHANGE",
		Read:          read,
		Data:          datatypes.JSON([]byte(`{}`)),
		CreatedAt:     at.UTC(),
	}
	if err := tx.WithContext(ctx).Create(row).Error; err != nil {
		tb.Fatalf("seed notification: %v", err)
	}
	return row
}
