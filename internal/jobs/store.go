package jobs

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"jobLobby/internal/database"
)

// Filter narrows the public job listing. Empty fields are ignored.
type Filter struct {
	Search          string
	Location        string
	JobType         string
	ExperienceLevel string
	// WithSalary keeps only postings that carry a salary range.
	WithSalary bool
}

// Store persists job postings.
type Store interface {
	Create(ctx context.Context, job *database.Job) error
	FindByID(ctx context.Context, id uint) (*database.Job, error)
	List(ctx context.Context, filter Filter) ([]database.Job, error)
	ListByOwner(ctx context.Context, ownerID uint) ([]database.Job, error)
	Save(ctx context.Context, job *database.Job) error
	// Delete removes the job together with every application filed against it.
	Delete(ctx context.Context, id uint) error
}

type gormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
}

// withOwner 只加载 postedBy 的公开字段。
func withOwner(db *gorm.DB) *gorm.DB {
	return db.Preload("PostedBy", func(tx *gorm.DB) *gorm.DB {
		return tx.Select("id", "username", "email", "company_company_name")
	})
}

func (s *gormStore) Create(ctx context.Context, job *database.Job) error {
	err := s.db.WithContext(ctx).Omit(clause.Associations).Create(job).Error
	return database.TranslateError("create job", err)
}

func (s *gormStore) FindByID(ctx context.Context, id uint) (*database.Job, error) {
	var job database.Job
	if err := withOwner(s.db.WithContext(ctx)).First(&job, id).Error; err != nil {
		return nil, database.TranslateError("find job", err)
	}
	return &job, nil
}

func (s *gormStore) List(ctx context.Context, filter Filter) ([]database.Job, error) {
	query := withOwner(s.db.WithContext(ctx).Model(&database.Job{}))

	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := containsPattern(search)
		query = query.Where(
			`LOWER(title) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\' OR LOWER(company_name) LIKE ? ESCAPE '\'`,
			pattern, pattern, pattern,
		)
	}
	if location := strings.TrimSpace(filter.Location); location != "" {
		query = query.Where(`LOWER(location) LIKE ? ESCAPE '\'`, containsPattern(location))
	}
	if filter.JobType != "" {
		query = query.Where("job_type = ?", filter.JobType)
	}
	if filter.ExperienceLevel != "" {
		query = query.Where("experience_level = ?", filter.ExperienceLevel)
	}
	if filter.WithSalary {
		query = query.Where("salary_range IS NOT NULL AND salary_range <> ''")
	}

	var jobs []database.Job
	if err := query.Order("created_at DESC").Order("id DESC").Find(&jobs).Error; err != nil {
		return nil, database.TranslateError("list jobs", err)
	}
	return jobs, nil
}

func (s *gormStore) ListByOwner(ctx context.Context, ownerID uint) ([]database.Job, error) {
	var jobs []database.Job
	err := s.db.WithContext(ctx).
		Where("posted_by_id = ?", ownerID).
		Order("created_at DESC").Order("id DESC").
		Find(&jobs).Error
	if err != nil {
		return nil, database.TranslateError("list own jobs", err)
	}
	return jobs, nil
}

func (s *gormStore) Save(ctx context.Context, job *database.Job) error {
	err := s.db.WithContext(ctx).Omit(clause.Associations).Save(job).Error
	return database.TranslateError("save job", err)
}

func (s *gormStore) Delete(ctx context.Context, id uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("job_id = ?", id).Delete(&database.Application{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&database.Job{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	return database.TranslateError("delete job", err)
}
