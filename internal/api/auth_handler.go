package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"jobLobby/internal/api/middleware"
	"jobLobby/internal/database"
	"jobLobby/internal/users"
)

// AuthHandler 处理注册、登录与个人资料。
type AuthHandler struct {
	users *users.Service
}

func NewAuthHandler(userService *users.Service) *AuthHandler {
	return &AuthHandler{users: userService}
}

type profileRequest struct {
	Name          string   `json:"name"`
	ContactNumber string   `json:"contact_number"`
	Location      string   `json:"location"`
	ResumeURL     string   `json:"resume_url"`
	Skills        []string `json:"skills"`
	Experience    string   `json:"experience"`
	Education     string   `json:"education"`
}

func (p *profileRequest) input() *users.ProfileInput {
	if p == nil {
		return nil
	}
	return &users.ProfileInput{
		Name:          p.Name,
		ContactNumber: p.ContactNumber,
		Location:      p.Location,
		ResumeURL:     p.ResumeURL,
		Skills:        p.Skills,
		Experience:    p.Experience,
		Education:     p.Education,
	}
}

type companyRequest struct {
	CompanyName string `json:"company_name"`
	Description string `json:"description"`
	Website     string `json:"website"`
	LogoURL     string `json:"logo_url"`
}

func (r *companyRequest) input() *users.CompanyInput {
	if r == nil {
		return nil
	}
	return &users.CompanyInput{
		CompanyName: r.CompanyName,
		Description: r.Description,
		Website:     r.Website,
		LogoURL:     r.LogoURL,
	}
}

type registerRequest struct {
	Username       string          `json:"username"`
	Email          string          `json:"email"`
	Password       string          `json:"password"`
	Role           string          `json:"role" binding:"omitempty,role"`
	Profile        *profileRequest `json:"profile"`
	CompanyDetails *companyRequest `json:"company_details"`
}

// Register 创建新用户账号并返回令牌。
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if !bindJSON(c, &req) {
		return
	}

	sess, err := h.users.Register(c.Request.Context(), users.RegisterInput{
		Username:       req.Username,
		Email:          req.Email,
		Password:       req.Password,
		Role:           database.Role(req.Role),
		Profile:        req.Profile.input(),
		CompanyDetails: req.CompanyDetails.input(),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	middleware.LoggerFromContext(c).Info("user registered",
		slog.Uint64("user_id", uint64(sess.User.ID)),
		slog.String("role", string(sess.User.Role)),
	)

	resp := newUserView(sess.User, false)
	resp.Token = sess.Token
	resp.Message = "User registered successfully."
	c.JSON(http.StatusCreated, resp)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login 校验口令并返回令牌。
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, &req) {
		return
	}

	sess, err := h.users.Login(c.Request.Context(), c.ClientIP(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := newUserView(sess.User, false)
	resp.Token = sess.Token
	resp.Message = "Logged in successfully."
	c.JSON(http.StatusOK, resp)
}

// GetProfile 返回当前用户的资料。
func (h *AuthHandler) GetProfile(c *gin.Context) {
	caller, ok := middleware.CurrentUser(c)
	if !ok {
		Error(c, http.StatusUnauthorized, "Not authorized, no token provided")
		return
	}

	user, err := h.users.Get(c.Request.Context(), caller.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newUserView(user, true))
}

type updateProfileRequest struct {
	Username       string          `json:"username"`
	Email          string          `json:"email"`
	Password       string          `json:"password"`
	Profile        *profileRequest `json:"profile"`
	CompanyDetails *companyRequest `json:"company_details"`
}

// UpdateProfile 修改当前用户资料，返回新令牌。
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	caller, ok := middleware.CurrentUser(c)
	if !ok {
		Error(c, http.StatusUnauthorized, "Not authorized, no token provided")
		return
	}

	var req updateProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	sess, err := h.users.UpdateProfile(c.Request.Context(), caller.ID, users.UpdateInput{
		Username:       req.Username,
		Email:          req.Email,
		Password:       req.Password,
		Profile:        req.Profile.input(),
		CompanyDetails: req.CompanyDetails.input(),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	resp := newUserView(sess.User, true)
	resp.Token = sess.Token
	resp.Message = "Profile updated successfully."
	c.JSON(http.StatusOK, resp)
}
