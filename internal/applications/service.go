package applications

import (
	"context"
	"errors"
	"strings"
	"time"

	"jobLobby/internal/database"
	"jobLobby/internal/errcode"
	"jobLobby/internal/metrics"
	"jobLobby/internal/tasks"
)

const resumeLinkTTL = 15 * time.Minute

var errAlreadyApplied = errcode.Duplicate("You have already applied for this job.")

// JobLookup finds the job an application refers to.
type JobLookup interface {
	FindByID(ctx context.Context, id uint) (*database.Job, error)
}

// Presigner issues temporary download links for stored resume objects.
type Presigner interface {
	GeneratePresignedURL(ctx context.Context, objectKey string, duration time.Duration) (string, error)
}

// ApplyInput is a job seeker's application. ResumeURL falls back to the profile resume when empty.
type ApplyInput struct {
	JobID           uint
	CoverLetterText string
	ResumeURL       string
}

// Service 维护申请记录：投递、查询、状态变更与撤回，并负责所有权校验。
type Service struct {
	store     Store
	jobs      JobLookup
	events    EventPublisher
	presigner Presigner
	now       func() time.Time
}

func NewService(store Store, jobs JobLookup, events EventPublisher, presigner Presigner) *Service {
	if events == nil {
		events = NopPublisher{}
	}
	return &Service{store: store, jobs: jobs, events: events, presigner: presigner, now: time.Now}
}

// Apply files an application for caller. A second application to the same job is a conflict.
func (s *Service) Apply(ctx context.Context, caller *database.User, in ApplyInput) (*database.Application, error) {
	if in.JobID == 0 {
		return nil, errcode.Invalid("Job ID is required to apply.")
	}
	if caller.Role != database.RoleJobSeeker {
		return nil, errcode.Forbidden("Not authorized. Only job seekers can apply for jobs.")
	}

	job, err := s.findJob(ctx, in.JobID, "Server error applying for job.")
	if err != nil {
		return nil, err
	}

	exists, err := s.store.Exists(ctx, job.ID, caller.ID)
	if err != nil {
		return nil, errcode.Internalf("Server error applying for job.", err)
	}
	if exists {
		return nil, errAlreadyApplied
	}

	resume := strings.TrimSpace(in.ResumeURL)
	if resume == "" {
		resume = caller.Profile.ResumeURL
	}
	app := &database.Application{
		JobID:           job.ID,
		ApplicantID:     caller.ID,
		Status:          database.StatusPending,
		CoverLetterText: strings.TrimSpace(in.CoverLetterText),
		ResumeURL:       resume,
		AppliedAt:       s.now().UTC(),
	}
	if err := s.store.Create(ctx, app); err != nil {
		// 并发投递时由唯一索引兜底。
		if errors.Is(err, database.ErrDuplicate) {
			return nil, errAlreadyApplied
		}
		return nil, errcode.Internalf("Server error applying for job.", err)
	}

	s.publish(ctx, tasks.EventApplied, app, job, job.PostedByID)
	return app, nil
}

// ListMine returns caller's applications newest-first with job summary fields.
func (s *Service) ListMine(ctx context.Context, caller *database.User) ([]database.Application, error) {
	if caller.Role != database.RoleJobSeeker {
		return nil, errcode.Forbidden("Not authorized. Only job seekers can view their applications.")
	}
	apps, err := s.store.ListByApplicant(ctx, caller.ID)
	if err != nil {
		return nil, errcode.Internalf("Server error fetching your applications.", err)
	}
	return apps, nil
}

// ListForJob returns applications to a job owned by caller, oldest-first.
func (s *Service) ListForJob(ctx context.Context, caller *database.User, jobID uint) ([]database.Application, error) {
	if caller.Role != database.RoleRecruiter {
		return nil, errcode.Forbidden("Not authorized. Only recruiters can view applications for their jobs.")
	}
	job, err := s.findJob(ctx, jobID, "Server error fetching applications for job.")
	if err != nil {
		return nil, err
	}
	if job.PostedByID != caller.ID {
		return nil, errcode.Forbidden("Not authorized to view applications for this job.")
	}
	apps, err := s.store.ListByJob(ctx, job.ID)
	if err != nil {
		return nil, errcode.Internalf("Server error fetching applications for job.", err)
	}
	return apps, nil
}

// UpdateStatus sets any of the known statuses on an application to a job owned by caller.
// An unknown status leaves the record untouched.
func (s *Service) UpdateStatus(ctx context.Context, caller *database.User, id uint, status string) (*database.Application, error) {
	status = strings.TrimSpace(status)
	if status == "" {
		return nil, errcode.Invalid("Status is required.")
	}
	if caller.Role != database.RoleRecruiter {
		return nil, errcode.Forbidden("Not authorized to update application status.")
	}

	app, err := s.find(ctx, id, "Server error updating application status.")
	if err != nil {
		return nil, err
	}
	if app.Job.PostedByID != caller.ID {
		return nil, errcode.Forbidden("Not authorized to update this application.")
	}

	next := database.ApplicationStatus(status)
	if !next.Valid() {
		return nil, errcode.Invalid("Invalid status. Must be one of: " + statusList())
	}

	if err := s.store.UpdateStatus(ctx, app.ID, next); err != nil {
		return nil, errcode.Internalf("Server error updating application status.", err)
	}
	app.Status = next
	app.UpdatedAt = s.now().UTC()

	s.publish(ctx, tasks.EventStatusChanged, app, &app.Job, app.ApplicantID)
	return app, nil
}

// Withdraw deletes caller's own application.
func (s *Service) Withdraw(ctx context.Context, caller *database.User, id uint) error {
	app, err := s.find(ctx, id, "Server error deleting application.")
	if err != nil {
		return err
	}
	if app.ApplicantID != caller.ID {
		return errcode.Forbidden("Not authorized to delete this application.")
	}
	if err := s.store.Delete(ctx, app.ID); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return errcode.Missing("Application not found.")
		}
		return errcode.Internalf("Server error deleting application.", err)
	}

	app.Status = database.StatusWithdrawn
	s.publish(ctx, tasks.EventWithdrawn, app, &app.Job, app.Job.PostedByID)
	return nil
}

// ResumeLink resolves the resume attached to an application for its applicant or the job owner.
// Stored object keys become presigned URLs; external URLs are returned as-is.
func (s *Service) ResumeLink(ctx context.Context, caller *database.User, id uint) (string, error) {
	app, err := s.find(ctx, id, "Server error fetching resume.")
	if err != nil {
		return "", err
	}
	if app.ApplicantID != caller.ID && app.Job.PostedByID != caller.ID {
		return "", errcode.Forbidden("Not authorized to view this resume.")
	}
	return ResolveResume(ctx, s.presigner, app.ResumeURL)
}

// ResolveResume turns a stored resume reference into a downloadable URL.
func ResolveResume(ctx context.Context, presigner Presigner, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", errcode.Missing("No resume on file.")
	}
	if IsExternalURL(ref) {
		return ref, nil
	}
	if presigner == nil {
		return "", errcode.Internalf("Resume storage is not configured.", errors.New("nil presigner"))
	}
	link, err := presigner.GeneratePresignedURL(ctx, ref, resumeLinkTTL)
	if err != nil {
		return "", errcode.Internalf("Server error fetching resume.", err)
	}
	return link, nil
}

// IsExternalURL reports whether ref points outside the object store.
func IsExternalURL(ref string) bool {
	lower := strings.ToLower(ref)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

func (s *Service) find(ctx context.Context, id uint, failMsg string) (*database.Application, error) {
	app, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, errcode.Missing("Application not found.")
		}
		return nil, errcode.Internalf(failMsg, err)
	}
	return app, nil
}

func (s *Service) findJob(ctx context.Context, id uint, failMsg string) (*database.Job, error) {
	job, err := s.jobs.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, errcode.Missing("Job not found.")
		}
		return nil, errcode.Internalf(failMsg, err)
	}
	return job, nil
}

func (s *Service) publish(ctx context.Context, event string, app *database.Application, job *database.Job, recipient uint) {
	metrics.ApplicationEvent(event)
	s.events.Publish(ctx, tasks.ApplicationEventPayload{
		Event:         event,
		ApplicationID: app.ID,
		JobID:         app.JobID,
		JobTitle:      job.Title,
		RecipientID:   recipient,
		Status:        string(app.Status),
		OccurredAt:    s.now().UTC(),
	})
}

func statusList() string {
	names := make([]string, len(database.ApplicationStatuses))
	for i, st := range database.ApplicationStatuses {
		names[i] = string(st)
	}
	return strings.Join(names, ", ")
}
