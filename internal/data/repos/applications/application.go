package applications

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yungbote/applyflow-backend/internal/data/models"
	"github.com/yungbote/applyflow-backend/internal/platform/dbctx"
	"github.com/yungbote/applyflow-backend/internal/platform/logger"
)

type ApplicationRepo interface {
	Create(dbc dbctx.Context, row *models.JobApplication) error
	GetByID(dbc dbctx.Context, id uuid.UUID) (*models.JobApplication, error)
	GetByIDForShare(dbc dbctx.Context, id uuid.UUID) (*models.JobApplication, error)
	List(dbc dbctx.Context) ([]*models.JobApplication, error)
	ListByStatus(dbc dbctx.Context, status string) ([]*models.JobApplication, error)
	Count(dbc dbctx.Context) (int64, error)
	CountByStatus(dbc dbctx.Context) (map[string]int64, error)
	Exists(dbc dbctx.Context, id uuid.UUID) (bool, error)
	DeleteByID(dbc dbctx.Context, id uuid.UUID) (int64, error)
}

type applicationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewApplicationRepo(db *gorm.DB, baseLog *logger.Logger) ApplicationRepo {
	return &applicationRepo{
		db:  db,
		log: baseLog.With("repo", "ApplicationRepo"),
	}
}

func (r *applicationRepo) Create(dbc dbctx.Context, row *models.JobApplication) error {
	if row == nil {
		return nil
	}
	return dbc.Or(r.db).Create(row).Error
}

func (r *applicationRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*models.JobApplication, error) {
	return r.getByID(dbc.Or(r.db), id)
}

// GetByIDForShare takes a shared row lock on Postgres so a follow-up read in
// the same transaction sees history consistent with the row.
func (r *applicationRepo) GetByIDForShare(dbc dbctx.Context, id uuid.UUID) (*models.JobApplication, error) {
	q := dbc.Or(r.db)
	if q.Dialector != nil && q.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "SHARE"})
	}
	return r.getByID(q, id)
}

func (r *applicationRepo) getByID(q *gorm.DB, id uuid.UUID) (*models.JobApplication, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var out []*models.JobApplication
	if err := q.Where("id = ?", id).Limit(1).Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *applicationRepo) List(dbc dbctx.Context) ([]*models.JobApplication, error) {
	var out []*models.JobApplication
	if err := dbc.Or(r.db).
		Order("applied_date DESC").
		Order("id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *applicationRepo) ListByStatus(dbc dbctx.Context, status string) ([]*models.JobApplication, error) {
	var out []*models.JobApplication
	if status == "" {
		return out, nil
	}
	if err := dbc.Or(r.db).
		Where("current_status = ?", status).
		Order("applied_date DESC").
		Order("id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *applicationRepo) Count(dbc dbctx.Context) (int64, error) {
	var n int64
	if err := dbc.Or(r.db).Model(&models.JobApplication{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *applicationRepo) CountByStatus(dbc dbctx.Context) (map[string]int64, error) {
	var rows []struct {
		CurrentStatus string
		N             int64
	}
	if err := dbc.Or(r.db).
		Model(&models.JobApplication{}).
		Select("current_status, COUNT(*) AS n").
		Group("current_status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.CurrentStatus] = row.N
	}
	return out, nil
}

func (r *applicationRepo) Exists(dbc dbctx.Context, id uuid.UUID) (bool, error) {
	if id == uuid.Nil {
		return false, nil
	}
	var n int64
	if err := dbc.Or(r.db).Model(&models.JobApplication{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *applicationRepo) DeleteByID(dbc dbctx.Context, id uuid.UUID) (int64, error) {
	if id == uuid.Nil {
		return 0, nil
	}
	res := dbc.Or(r.db).Where("id = ?", id).Delete(&models.JobApplication{})
	return res.RowsAffected, res.Error
}
