package api

import (
	"time"

	"jobLobby/internal/database"
)

// JSON 字段名与前端保持一致（_id、postedBy、appliedAt 等）。

type profileView struct {
	Name          string   `json:"name"`
	ContactNumber string   `json:"contact_number"`
	Location      string   `json:"location"`
	ResumeURL     string   `json:"resume_url"`
	Skills        []string `json:"skills"`
	Experience    string   `json:"experience"`
	Education     string   `json:"education"`
}

type companyView struct {
	CompanyName string `json:"company_name"`
	Description string `json:"description,omitempty"`
	Website     string `json:"website,omitempty"`
	LogoURL     string `json:"logo_url,omitempty"`
}

type userView struct {
	ID                 uint         `json:"_id"`
	Username           string       `json:"username"`
	Email              string       `json:"email"`
	Role               string       `json:"role"`
	Profile            *profileView `json:"profile,omitempty"`
	CompanyDetails     *companyView `json:"company_details,omitempty"`
	MustChangePassword bool         `json:"must_change_password,omitempty"`
	Token              string       `json:"token,omitempty"`
	Message            string       `json:"message,omitempty"`
}

func newProfileView(p database.Profile) *profileView {
	skills := []string(p.Skills)
	if skills == nil {
		skills = []string{}
	}
	return &profileView{
		Name:          p.Name,
		ContactNumber: p.ContactNumber,
		Location:      p.Location,
		ResumeURL:     p.ResumeURL,
		Skills:        skills,
		Experience:    p.Experience,
		Education:     p.Education,
	}
}

func newCompanyView(c database.CompanyDetails) *companyView {
	return &companyView{
		CompanyName: c.CompanyName,
		Description: c.Description,
		Website:     c.Website,
		LogoURL:     c.LogoURL,
	}
}

// newUserView renders an account. withDetails adds profile and company_details.
func newUserView(u *database.User, withDetails bool) userView {
	v := userView{
		ID:                 u.ID,
		Username:           u.Username,
		Email:              u.Email,
		Role:               string(u.Role),
		MustChangePassword: u.MustChangePassword,
	}
	if withDetails {
		v.Profile = newProfileView(u.Profile)
		v.CompanyDetails = newCompanyView(u.CompanyDetails)
	}
	return v
}

type ownerView struct {
	ID             uint                 `json:"_id"`
	Username       string               `json:"username"`
	Email          string               `json:"email"`
	CompanyDetails ownerCompanyNameView `json:"company_details"`
}

type ownerCompanyNameView struct {
	CompanyName string `json:"company_name"`
}

type jobView struct {
	ID                  uint       `json:"_id"`
	Title               string     `json:"title"`
	Description         string     `json:"description,omitempty"`
	CompanyName         string     `json:"company_name"`
	Location            string     `json:"location"`
	SalaryRange         string     `json:"salary_range,omitempty"`
	Requirements        []string   `json:"requirements"`
	Responsibilities    []string   `json:"responsibilities"`
	JobType             string     `json:"job_type,omitempty"`
	ExperienceLevel     string     `json:"experience_level,omitempty"`
	PostedBy            any        `json:"postedBy,omitempty"`
	ApplicationDeadline *time.Time `json:"application_deadline,omitempty"`
	Status              string     `json:"status,omitempty"`
	CreatedAt           *time.Time `json:"createdAt,omitempty"`
	UpdatedAt           *time.Time `json:"updatedAt,omitempty"`
}

// newJobView renders a full posting. postedBy is an object when the owner was loaded, otherwise the owner id.
func newJobView(j *database.Job) jobView {
	v := jobView{
		ID:                  j.ID,
		Title:               j.Title,
		Description:         j.Description,
		CompanyName:         j.CompanyName,
		Location:            j.Location,
		SalaryRange:         j.SalaryRange,
		Requirements:        orEmpty(j.Requirements),
		Responsibilities:    orEmpty(j.Responsibilities),
		JobType:             j.JobType,
		ExperienceLevel:     j.ExperienceLevel,
		ApplicationDeadline: j.ApplicationDeadline,
		Status:              string(j.Status),
		CreatedAt:           timePtr(j.CreatedAt),
		UpdatedAt:           timePtr(j.UpdatedAt),
	}
	if j.PostedBy.ID != 0 {
		v.PostedBy = ownerView{
			ID:             j.PostedBy.ID,
			Username:       j.PostedBy.Username,
			Email:          j.PostedBy.Email,
			CompanyDetails: ownerCompanyNameView{CompanyName: j.PostedBy.CompanyDetails.CompanyName},
		}
	} else if j.PostedByID != 0 {
		v.PostedBy = j.PostedByID
	}
	return v
}

func newJobViews(jobs []database.Job) []jobView {
	out := make([]jobView, 0, len(jobs))
	for i := range jobs {
		out = append(out, newJobView(&jobs[i]))
	}
	return out
}

type jobSummaryView struct {
	ID          uint   `json:"_id"`
	Title       string `json:"title"`
	CompanyName string `json:"company_name"`
	Location    string `json:"location"`
}

type applicantView struct {
	ID       uint                 `json:"_id"`
	Username string               `json:"username"`
	Email    string               `json:"email"`
	Profile  applicantProfileView `json:"profile"`
}

type applicantProfileView struct {
	Name          string `json:"name"`
	ContactNumber string `json:"contact_number"`
	ResumeURL     string `json:"resume_url"`
}

type applicationView struct {
	ID              uint       `json:"_id"`
	Job             any        `json:"job"`
	Applicant       any        `json:"applicant"`
	Status          string     `json:"status"`
	CoverLetterText string     `json:"cover_letter_text"`
	ResumeURL       string     `json:"resume_url"`
	AppliedAt       time.Time  `json:"appliedAt"`
	UpdatedAt       *time.Time `json:"updatedAt,omitempty"`
}

// newApplicationView renders an application; job and applicant are objects only when loaded.
func newApplicationView(a *database.Application) applicationView {
	v := applicationView{
		ID:              a.ID,
		Job:             a.JobID,
		Applicant:       a.ApplicantID,
		Status:          string(a.Status),
		CoverLetterText: a.CoverLetterText,
		ResumeURL:       a.ResumeURL,
		AppliedAt:       a.AppliedAt,
		UpdatedAt:       timePtr(a.UpdatedAt),
	}
	if a.Job.ID != 0 {
		v.Job = jobSummaryView{
			ID:          a.Job.ID,
			Title:       a.Job.Title,
			CompanyName: a.Job.CompanyName,
			Location:    a.Job.Location,
		}
	}
	if a.Applicant.ID != 0 {
		v.Applicant = applicantView{
			ID:       a.Applicant.ID,
			Username: a.Applicant.Username,
			Email:    a.Applicant.Email,
			Profile: applicantProfileView{
				Name:          a.Applicant.Profile.Name,
				ContactNumber: a.Applicant.Profile.ContactNumber,
				ResumeURL:     a.Applicant.Profile.ResumeURL,
			},
		}
	}
	return v
}

func newApplicationViews(apps []database.Application) []applicationView {
	out := make([]applicationView, 0, len(apps))
	for i := range apps {
		out = append(out, newApplicationView(&apps[i]))
	}
	return out
}

func orEmpty(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
