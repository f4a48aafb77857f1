package users

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"jobLobby/internal/auth"
	"jobLobby/internal/database"
	"jobLobby/internal/errcode"
	"jobLobby/internal/metrics"
)

const minPasswordLength = 6

var emailPattern = regexp.MustCompile(`.+@.+\..+`)

// invalidCredentials is returned for unknown emails and wrong passwords alike.
var invalidCredentials = errcode.Unauthorized("Invalid credentials.")

// Service registers and authenticates accounts and manages the caller's own profile.
type Service struct {
	store Store
	auth  *auth.AuthService
	guard LoginGuard
}

func NewService(store Store, authService *auth.AuthService, guard LoginGuard) *Service {
	if guard == nil {
		guard = NopLoginGuard{}
	}
	return &Service{store: store, auth: authService, guard: guard}
}

// Session is an account together with a freshly issued token.
type Session struct {
	User  *database.User
	Token string
}

type ProfileInput struct {
	Name          string
	ContactNumber string
	Location      string
	ResumeURL     string
	Skills        []string
	Experience    string
	Education     string
}

type CompanyInput struct {
	CompanyName string
	Description string
	Website     string
	LogoURL     string
}

type RegisterInput struct {
	Username       string
	Email          string
	Password       string
	Role           database.Role
	Profile        *ProfileInput
	CompanyDetails *CompanyInput
}

// Register creates an account and returns it with a signed token.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	username := strings.TrimSpace(in.Username)
	email := normalizeEmail(in.Email)
	if username == "" || email == "" || in.Password == "" || in.Role == "" {
		return nil, errcode.Invalid("Please enter all required fields: username, email, password, and role.")
	}
	if !in.Role.Valid() {
		return nil, errcode.Invalid("Invalid role. Must be one of: job_seeker, recruiter, admin.")
	}
	if !emailPattern.MatchString(email) {
		return nil, errcode.Invalid("Please fill a valid email address")
	}
	if len(in.Password) < minPasswordLength {
		return nil, errcode.Invalid("Password must be at least 6 characters.")
	}

	taken, err := s.store.Taken(ctx, username, email, 0)
	if err != nil {
		return nil, errcode.Internalf("Server error during registration.", err)
	}
	if taken {
		return nil, errcode.Duplicate("User with this email or username already exists.")
	}

	hashed, err := s.auth.HashPassword(in.Password)
	if err != nil {
		return nil, errcode.Internalf("Server error during registration.", err)
	}

	user := &database.User{
		Username:     username,
		Email:        email,
		PasswordHash: hashed,
		Role:         in.Role,
	}
	switch in.Role {
	case database.RoleJobSeeker:
		if in.Profile != nil {
			applyProfile(&user.Profile, *in.Profile)
		}
	case database.RoleRecruiter:
		if in.CompanyDetails != nil {
			applyCompany(&user.CompanyDetails, *in.CompanyDetails)
		}
	}

	if err := s.store.Create(ctx, user); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, errcode.Duplicate("User with this email or username already exists.")
		}
		return nil, errcode.Internalf("Server error during registration.", err)
	}

	return s.session(user, "Server error during registration.")
}

// Login verifies credentials. Unknown email and wrong password produce the same error.
func (s *Service) Login(ctx context.Context, clientIP, email, password string) (*Session, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, errcode.Invalid("Please enter both email and password.")
	}

	if err := s.guard.Allow(ctx, clientIP, email); err != nil {
		metrics.LoginFailure("throttled")
		return nil, err
	}

	user, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			s.guard.RecordFailure(ctx, email)
			metrics.LoginFailure("credentials")
			return nil, invalidCredentials
		}
		return nil, errcode.Internalf("Server error during login.", err)
	}

	if !s.auth.CheckPasswordHash(password, user.PasswordHash) {
		s.guard.RecordFailure(ctx, email)
		metrics.LoginFailure("credentials")
		return nil, invalidCredentials
	}

	s.guard.Reset(ctx, email)
	return s.session(user, "Server error during login.")
}

// Get loads one account.
func (s *Service) Get(ctx context.Context, userID uint) (*database.User, error) {
	user, err := s.store.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, errcode.Missing("User not found.")
		}
		return nil, errcode.Internalf("Server error fetching profile.", err)
	}
	return user, nil
}

type UpdateInput struct {
	Username       string
	Email          string
	Password       string
	Profile        *ProfileInput
	CompanyDetails *CompanyInput
}

// UpdateProfile patches the caller's own record. Empty fields keep their current value.
func (s *Service) UpdateProfile(ctx context.Context, userID uint, in UpdateInput) (*Session, error) {
	user, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	username := strings.TrimSpace(in.Username)
	email := normalizeEmail(in.Email)
	if email != "" && !emailPattern.MatchString(email) {
		return nil, errcode.Invalid("Please fill a valid email address")
	}

	if (username != "" && username != user.Username) || (email != "" && email != user.Email) {
		candidateUsername, candidateEmail := orDefault(username, user.Username), orDefault(email, user.Email)
		taken, err := s.store.Taken(ctx, candidateUsername, candidateEmail, user.ID)
		if err != nil {
			return nil, errcode.Internalf("Server error updating profile.", err)
		}
		if taken {
			return nil, errcode.Duplicate("User with this email or username already exists.")
		}
		user.Username = candidateUsername
		user.Email = candidateEmail
	}

	if in.Password != "" {
		if len(in.Password) < minPasswordLength {
			return nil, errcode.Invalid("Password must be at least 6 characters.")
		}
		hashed, err := s.auth.HashPassword(in.Password)
		if err != nil {
			return nil, errcode.Internalf("Server error updating profile.", err)
		}
		user.PasswordHash = hashed
		user.MustChangePassword = false
	}

	if user.Role == database.RoleJobSeeker && in.Profile != nil {
		applyProfile(&user.Profile, *in.Profile)
	}
	if user.Role == database.RoleRecruiter && in.CompanyDetails != nil {
		applyCompany(&user.CompanyDetails, *in.CompanyDetails)
	}

	if err := s.store.Save(ctx, user); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, errcode.Duplicate("User with this email or username already exists.")
		}
		return nil, errcode.Internalf("Server error updating profile.", err)
	}

	return s.session(user, "Server error updating profile.")
}

// SetResume points the job seeker's profile resume at a stored object key.
func (s *Service) SetResume(ctx context.Context, userID uint, objectKey string) (*database.User, error) {
	user, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Role != database.RoleJobSeeker {
		return nil, errcode.Forbidden("Only job seekers can upload a resume.")
	}
	user.Profile.ResumeURL = objectKey
	if err := s.store.Save(ctx, user); err != nil {
		return nil, errcode.Internalf("Server error saving resume.", err)
	}
	return user, nil
}

func (s *Service) session(user *database.User, failMsg string) (*Session, error) {
	token, err := s.auth.GenerateToken(user.ID, user.MustChangePassword)
	if err != nil {
		return nil, errcode.Internalf(failMsg, err)
	}
	return &Session{User: user, Token: token}, nil
}

func applyProfile(dst *database.Profile, in ProfileInput) {
	dst.Name = orDefault(strings.TrimSpace(in.Name), dst.Name)
	dst.ContactNumber = orDefault(strings.TrimSpace(in.ContactNumber), dst.ContactNumber)
	dst.Location = orDefault(strings.TrimSpace(in.Location), dst.Location)
	dst.ResumeURL = orDefault(strings.TrimSpace(in.ResumeURL), dst.ResumeURL)
	dst.Experience = orDefault(strings.TrimSpace(in.Experience), dst.Experience)
	dst.Education = orDefault(strings.TrimSpace(in.Education), dst.Education)
	if in.Skills != nil {
		dst.Skills = trimAll(in.Skills)
	}
}

func applyCompany(dst *database.CompanyDetails, in CompanyInput) {
	dst.CompanyName = orDefault(strings.TrimSpace(in.CompanyName), dst.CompanyName)
	dst.Description = orDefault(strings.TrimSpace(in.Description), dst.Description)
	dst.Website = orDefault(strings.TrimSpace(in.Website), dst.Website)
	dst.LogoURL = orDefault(strings.TrimSpace(in.LogoURL), dst.LogoURL)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if t := strings.TrimSpace(v); t != "" {
			out = append(out, t)
		}
	}
	return out
}
