package jobs

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"jobLobby/internal/database"
	"jobLobby/internal/errcode"
)

// Input carries job fields from a create or update request. On update, empty fields keep the stored value.
type Input struct {
	Title               string
	Description         string
	CompanyName         string
	Location            string
	SalaryRange         string
	Requirements        []string
	Responsibilities    []string
	JobType             string
	ExperienceLevel     string
	ApplicationDeadline string
	Status              string
}

// Service 管理职位的发布、查询、修改与删除。只有发布者可以修改或删除自己的职位。
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Create publishes a posting owned by the calling recruiter.
func (s *Service) Create(ctx context.Context, caller *database.User, in Input) (*database.Job, error) {
	if caller.Role != database.RoleRecruiter {
		return nil, errcode.Forbidden("Not authorized. Only recruiters can create jobs.")
	}

	in = trimInput(in)
	if in.Title == "" || in.Description == "" || in.CompanyName == "" || in.Location == "" {
		return nil, errcode.Invalid("Please include title, description, company name, and location.")
	}

	job := &database.Job{
		Title:            in.Title,
		Description:      in.Description,
		CompanyName:      in.CompanyName,
		Location:         in.Location,
		SalaryRange:      in.SalaryRange,
		Requirements:     nonNil(in.Requirements),
		Responsibilities: nonNil(in.Responsibilities),
		JobType:          database.JobTypeFullTime,
		ExperienceLevel:  database.ExperienceEntry,
		Status:           database.JobStatusActive,
		PostedByID:       caller.ID,
	}
	if err := applyEnums(job, in); err != nil {
		return nil, err
	}
	if in.ApplicationDeadline != "" {
		deadline, err := ParseDeadline(in.ApplicationDeadline)
		if err != nil {
			return nil, err
		}
		job.ApplicationDeadline = &deadline
	}

	if err := s.store.Create(ctx, job); err != nil {
		return nil, errcode.Internalf("Server error creating job.", err)
	}
	return s.Get(ctx, job.ID)
}

// List returns public postings newest-first.
func (s *Service) List(ctx context.Context, filter Filter) ([]database.Job, error) {
	jobs, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, errcode.Internalf("Server error fetching jobs.", err)
	}
	return jobs, nil
}

// Get returns one posting with its owner's public fields.
func (s *Service) Get(ctx context.Context, id uint) (*database.Job, error) {
	job, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, errcode.Missing("Job not found.")
		}
		return nil, errcode.Internalf("Server error fetching job.", err)
	}
	return job, nil
}

// Update patches a posting owned by caller.
func (s *Service) Update(ctx context.Context, caller *database.User, id uint, in Input) (*database.Job, error) {
	job, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if job.PostedByID != caller.ID {
		return nil, errcode.Forbidden("Not authorized to update this job.")
	}

	in = trimInput(in)
	job.Title = orDefault(in.Title, job.Title)
	job.Description = orDefault(in.Description, job.Description)
	job.CompanyName = orDefault(in.CompanyName, job.CompanyName)
	job.Location = orDefault(in.Location, job.Location)
	job.SalaryRange = orDefault(in.SalaryRange, job.SalaryRange)
	// nil 表示未提交该字段；空数组会清空。
	if in.Requirements != nil {
		job.Requirements = in.Requirements
	}
	if in.Responsibilities != nil {
		job.Responsibilities = in.Responsibilities
	}
	if err := applyEnums(job, in); err != nil {
		return nil, err
	}
	if in.ApplicationDeadline != "" {
		deadline, err := ParseDeadline(in.ApplicationDeadline)
		if err != nil {
			return nil, err
		}
		job.ApplicationDeadline = &deadline
	}

	if err := s.store.Save(ctx, job); err != nil {
		return nil, errcode.Internalf("Server error updating job.", err)
	}
	return job, nil
}

// Delete removes a posting owned by caller along with its applications.
func (s *Service) Delete(ctx context.Context, caller *database.User, id uint) error {
	job, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if job.PostedByID != caller.ID {
		return errcode.Forbidden("Not authorized to delete this job.")
	}
	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return errcode.Missing("Job not found.")
		}
		return errcode.Internalf("Server error deleting job.", err)
	}
	return nil
}

// ListMine returns the calling recruiter's postings newest-first.
func (s *Service) ListMine(ctx context.Context, caller *database.User) ([]database.Job, error) {
	if caller.Role != database.RoleRecruiter {
		return nil, errcode.Forbidden("Not authorized. Only recruiters can view their posted jobs.")
	}
	jobs, err := s.store.ListByOwner(ctx, caller.ID)
	if err != nil {
		return nil, errcode.Internalf("Server error fetching your jobs.", err)
	}
	return jobs, nil
}

// ParseDeadline accepts RFC 3339 timestamps and plain dates.
func ParseDeadline(raw string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, errcode.Invalid("Invalid application_deadline. Use YYYY-MM-DD or RFC 3339.")
}

func applyEnums(job *database.Job, in Input) error {
	if in.JobType != "" {
		if !slices.Contains(database.JobTypes, in.JobType) {
			return errcode.Invalid("Invalid job_type. Must be one of: " + strings.Join(database.JobTypes, ", "))
		}
		job.JobType = in.JobType
	}
	if in.ExperienceLevel != "" {
		if !slices.Contains(database.ExperienceLevels, in.ExperienceLevel) {
			return errcode.Invalid("Invalid experience_level. Must be one of: " + strings.Join(database.ExperienceLevels, ", "))
		}
		job.ExperienceLevel = in.ExperienceLevel
	}
	if in.Status != "" {
		status := database.JobStatus(in.Status)
		if !status.Valid() {
			return errcode.Invalid("Invalid status. Must be one of: active, closed, draft")
		}
		job.Status = status
	}
	return nil
}

func trimInput(in Input) Input {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.CompanyName = strings.TrimSpace(in.CompanyName)
	in.Location = strings.TrimSpace(in.Location)
	in.SalaryRange = strings.TrimSpace(in.SalaryRange)
	in.JobType = strings.TrimSpace(in.JobType)
	in.ExperienceLevel = strings.TrimSpace(in.ExperienceLevel)
	in.ApplicationDeadline = strings.TrimSpace(in.ApplicationDeadline)
	in.Status = strings.TrimSpace(in.Status)
	return in
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
