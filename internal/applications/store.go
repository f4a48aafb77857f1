package applications

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"jobLobby/internal/database"
)

// Store persists applications.
type Store interface {
	Create(ctx context.Context, app *database.Application) error
	// FindByID loads the application with its full job.
	FindByID(ctx context.Context, id uint) (*database.Application, error)
	Exists(ctx context.Context, jobID, applicantID uint) (bool, error)
	ListByApplicant(ctx context.Context, applicantID uint) ([]database.Application, error)
	ListByJob(ctx context.Context, jobID uint) ([]database.Application, error)
	UpdateStatus(ctx context.Context, id uint, status database.ApplicationStatus) error
	Delete(ctx context.Context, id uint) error
}

type gormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) Create(ctx context.Context, app *database.Application) error {
	err := s.db.WithContext(ctx).Omit(clause.Associations).Create(app).Error
	return database.TranslateError("create application", err)
}

func (s *gormStore) FindByID(ctx context.Context, id uint) (*database.Application, error) {
	var app database.Application
	if err := s.db.WithContext(ctx).Preload("Job").First(&app, id).Error; err != nil {
		return nil, database.TranslateError("find application", err)
	}
	return &app, nil
}

func (s *gormStore) Exists(ctx context.Context, jobID, applicantID uint) (bool, error) {
	var app database.Application
	err := s.db.WithContext(ctx).
		Select("id").
		Where("job_id = ? AND applicant_id = ?", jobID, applicantID).
		First(&app).Error
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return false, nil
	default:
		return false, database.TranslateError("check existing application", err)
	}
}

// 求职者视角：附带职位标题、公司与地点，按投递时间倒序。
func (s *gormStore) ListByApplicant(ctx context.Context, applicantID uint) ([]database.Application, error) {
	var apps []database.Application
	err := s.db.WithContext(ctx).
		Preload("Job", func(tx *gorm.DB) *gorm.DB {
			return tx.Select("id", "title", "company_name", "location")
		}).
		Where("applicant_id = ?", applicantID).
		Order("applied_at DESC").Order("id DESC").
		Find(&apps).Error
	if err != nil {
		return nil, database.TranslateError("list applications by applicant", err)
	}
	return apps, nil
}

// 招聘者视角：附带申请人联系方式，按投递时间正序。
func (s *gormStore) ListByJob(ctx context.Context, jobID uint) ([]database.Application, error) {
	var apps []database.Application
	err := s.db.WithContext(ctx).
		Preload("Applicant", func(tx *gorm.DB) *gorm.DB {
			return tx.Select("id", "username", "email", "profile_name", "profile_contact_number", "profile_resume_url")
		}).
		Where("job_id = ?", jobID).
		Order("applied_at ASC").Order("id ASC").
		Find(&apps).Error
	if err != nil {
		return nil, database.TranslateError("list applications by job", err)
	}
	return apps, nil
}

func (s *gormStore) UpdateStatus(ctx context.Context, id uint, status database.ApplicationStatus) error {
	res := s.db.WithContext(ctx).Model(&database.Application{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return database.TranslateError("update application status", res.Error)
	}
	if res.RowsAffected == 0 {
		return database.TranslateError("update application status", gorm.ErrRecordNotFound)
	}
	return nil
}

func (s *gormStore) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&database.Application{}, id)
	if res.Error != nil {
		return database.TranslateError("delete application", res.Error)
	}
	if res.RowsAffected == 0 {
		return database.TranslateError("delete application", gorm.ErrRecordNotFound)
	}
	return nil
}
