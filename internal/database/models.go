package database

import (
	"time"

	"gorm.io/datatypes"
)

// Role is the account type stored on every user.
type Role string

const (
	RoleJobSeeker Role = "job_seeker"
	RoleRecruiter Role = "recruiter"
	RoleAdmin     Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleJobSeeker, RoleRecruiter, RoleAdmin:
		return true
	}
	return false
}

// Profile holds job seeker details. Stored for every user, only used for job seekers.
type Profile struct {
	Name          string                      `gorm:"size:128"`
	ContactNumber string                      `gorm:"size:64"`
	Location      string                      `gorm:"size:255"`
	ResumeURL     string                      `gorm:"size:512"`
	Skills        datatypes.JSONSlice[string] `gorm:"type:json"`
	Experience    string                      `gorm:"size:255"`
	Education     string                      `gorm:"size:255"`
}

// CompanyDetails holds recruiter details. Stored for every user, only used for recruiters.
type CompanyDetails struct {
	CompanyName string `gorm:"size:255"`
	Description string `gorm:"type:text"`
	Website     string `gorm:"size:512"`
	LogoURL     string `gorm:"size:512"`
}

// User 表示系统中的账号信息。
type User struct {
	ID                 uint           `gorm:"primaryKey"`
	Username           string         `gorm:"uniqueIndex;size:64;not null"`
	Email              string         `gorm:"uniqueIndex;size:255;not null"`
	PasswordHash       string         `gorm:"size:255;not null"`
	Role               Role           `gorm:"size:32;not null;default:job_seeker"`
	MustChangePassword bool           `gorm:"not null;default:false"`
	Profile            Profile        `gorm:"embedded;embeddedPrefix:profile_"`
	CompanyDetails     CompanyDetails `gorm:"embedded;embeddedPrefix:company_"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Job types and experience levels accepted on postings.
const (
	JobTypeFullTime   = "Full-time"
	JobTypePartTime   = "Part-time"
	JobTypeContract   = "Contract"
	JobTypeInternship = "Internship"
	JobTypeTemporary  = "Temporary"

	ExperienceEntry     = "Entry-level"
	ExperienceMid       = "Mid-level"
	ExperienceSenior    = "Senior"
	ExperienceDirector  = "Director"
	ExperienceExecutive = "Executive"
)

var (
	JobTypes         = []string{JobTypeFullTime, JobTypePartTime, JobTypeContract, JobTypeInternship, JobTypeTemporary}
	ExperienceLevels = []string{ExperienceEntry, ExperienceMid, ExperienceSenior, ExperienceDirector, ExperienceExecutive}
)

// JobStatus is the publication state of a posting.
type JobStatus string

const (
	JobStatusActive JobStatus = "active"
	JobStatusClosed JobStatus = "closed"
	JobStatusDraft  JobStatus = "draft"
)

func (s JobStatus) Valid() bool {
	switch s {
	case JobStatusActive, JobStatusClosed, JobStatusDraft:
		return true
	}
	return false
}

// Job 表示招聘者发布的职位。PostedByID 仅在创建时写入。
type Job struct {
	ID                  uint                        `gorm:"primaryKey"`
	Title               string                      `gorm:"size:255;not null"`
	Description         string                      `gorm:"type:text;not null"`
	CompanyName         string                      `gorm:"size:255;not null"`
	Location            string                      `gorm:"size:255;not null"`
	SalaryRange         string                      `gorm:"size:128"`
	Requirements        datatypes.JSONSlice[string] `gorm:"type:json"`
	Responsibilities    datatypes.JSONSlice[string] `gorm:"type:json"`
	JobType             string                      `gorm:"size:32;not null;default:Full-time"`
	ExperienceLevel     string                      `gorm:"size:32;not null;default:Entry-level"`
	PostedByID          uint                        `gorm:"index;not null;<-:create"`
	PostedBy            User                        `gorm:"foreignKey:PostedByID;constraint:OnDelete:CASCADE"`
	ApplicationDeadline *time.Time
	Status              JobStatus     `gorm:"size:16;not null;default:active"`
	Applications        []Application `gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt           time.Time     `gorm:"index"`
	UpdatedAt           time.Time
}

// ApplicationStatus is the review state of an application.
type ApplicationStatus string

const (
	StatusPending   ApplicationStatus = "pending"
	StatusReviewed  ApplicationStatus = "reviewed"
	StatusInterview ApplicationStatus = "interview"
	StatusRejected  ApplicationStatus = "rejected"
	StatusAccepted  ApplicationStatus = "accepted"
	StatusWithdrawn ApplicationStatus = "withdrawn"
)

// ApplicationStatuses lists every accepted status in display order.
var ApplicationStatuses = []ApplicationStatus{
	StatusPending, StatusReviewed, StatusInterview, StatusRejected, StatusAccepted, StatusWithdrawn,
}

func (s ApplicationStatus) Valid() bool {
	for _, known := range ApplicationStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Application 表示求职者对某个职位的申请。(job_id, applicant_id) 唯一。
type Application struct {
	ID              uint              `gorm:"primaryKey"`
	JobID           uint              `gorm:"not null;uniqueIndex:idx_applications_job_applicant"`
	Job             Job               `gorm:"constraint:OnDelete:CASCADE"`
	ApplicantID     uint              `gorm:"not null;index;uniqueIndex:idx_applications_job_applicant"`
	Applicant       User              `gorm:"foreignKey:ApplicantID;constraint:OnDelete:CASCADE"`
	Status          ApplicationStatus `gorm:"size:16;not null;default:pending"`
	CoverLetterText string            `gorm:"type:text"`
	ResumeURL       string            `gorm:"size:512"`
	AppliedAt       time.Time         `gorm:"index"`
	UpdatedAt       time.Time
}
