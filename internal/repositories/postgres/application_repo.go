package postgres

import (
	"context"

	"github.com/yoockh/jobtrack/internal/models"
	"github.com/yoockh/jobtrack/internal/repositories"
	"github.com/yoockh/jobtrack/internal/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type applicationRow struct {
	UserID      string  `gorm:"column:user_id;type:text;primaryKey"`
	ID          string  `gorm:"column:id;type:text;primaryKey"`
	Company     string  `gorm:"column:company;type:text;not null"`
	Role        string  `gorm:"column:role;type:text;not null"`
	DateApplied string  `gorm:"column:date_applied;type:text;not null"`
	Status      string  `gorm:"column:status;type:text;not null;default:Waiting"`
	JobLink     string  `gorm:"column:job_link;type:text"`
	CVFileName  *string `gorm:"column:cv_file_name;type:text"`
	CVBase64    *string `gorm:"column:cv_base64;type:text"`
	Notes       string  `gorm:"column:notes;type:text"`
}

func (applicationRow) TableName() string { return "job_applications" }

func toRow(userID string, a models.JobApplication) applicationRow {
	return applicationRow{
		UserID:      userID,
		ID:          a.ID,
		Company:     a.Company,
		Role:        a.Role,
		DateApplied: a.DateApplied,
		Status:      string(a.Status),
		JobLink:     a.JobLink,
		CVFileName:  a.CVFileName,
		CVBase64:    a.CVBase64,
		Notes:       a.Notes,
	}
}

func (r applicationRow) record() models.JobApplication {
	return models.JobApplication{
		ID:          r.ID,
		Company:     r.Company,
		Role:        r.Role,
		DateApplied: r.DateApplied,
		Status:      models.Status(r.Status),
		JobLink:     r.JobLink,
		CVFileName:  r.CVFileName,
		CVBase64:    r.CVBase64,
		Notes:       r.Notes,
	}
}

type applicationRepo struct {
	db *gorm.DB
}

func NewApplicationRepo(db *gorm.DB) repositories.ApplicationRepository {
	return &applicationRepo{db: db}
}

// Migrate creates or updates the job_applications table.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&applicationRow{})
}

func (r *applicationRepo) List(ctx context.Context, userID string) ([]models.JobApplication, error) {
	var rows []applicationRow
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]models.JobApplication, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.record())
	}
	return out, nil
}

func (r *applicationRepo) Create(ctx context.Context, userID string, app models.JobApplication) error {
	row := toRow(userID, app)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "id"}},
			UpdateAll: true,
		}).
		Create(&row).Error
}

func (r *applicationRepo) Update(ctx context.Context, userID string, app models.JobApplication) error {
	res := r.db.WithContext(ctx).
		Model(&applicationRow{}).
		Where("user_id = ? AND id = ?", userID, app.ID).
		Updates(map[string]any{
			"company":      app.Company,
			"role":         app.Role,
			"date_applied": app.DateApplied,
			"status":       string(app.Status),
			"job_link":     app.JobLink,
			"cv_file_name": app.CVFileName,
			"cv_base64":    app.CVBase64,
			"notes":        app.Notes,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.ErrNotFound
	}
	return nil
}

func (r *applicationRepo) Delete(ctx context.Context, userID, id string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, id).
		Delete(&applicationRow{}).Error
}
