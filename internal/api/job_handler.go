package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"jobLobby/internal/api/middleware"
	"jobLobby/internal/errcode"
	"jobLobby/internal/jobs"
)

// JobHandler 处理职位的增删改查。
type JobHandler struct {
	jobs *jobs.Service
}

func NewJobHandler(jobService *jobs.Service) *JobHandler {
	return &JobHandler{jobs: jobService}
}

type jobRequest struct {
	Title               string   `json:"title"`
	Description         string   `json:"description"`
	CompanyName         string   `json:"company_name"`
	Location            string   `json:"location"`
	SalaryRange         string   `json:"salary_range"`
	Requirements        []string `json:"requirements"`
	Responsibilities    []string `json:"responsibilities"`
	JobType             string   `json:"job_type" binding:"omitempty,jobtype"`
	ExperienceLevel     string   `json:"experience_level" binding:"omitempty,explevel"`
	ApplicationDeadline string   `json:"application_deadline"`
	Status              string   `json:"status" binding:"omitempty,jobstatus"`
}

func (r jobRequest) input() jobs.Input {
	return jobs.Input{
		Title:               r.Title,
		Description:         r.Description,
		CompanyName:         r.CompanyName,
		Location:            r.Location,
		SalaryRange:         r.SalaryRange,
		Requirements:        r.Requirements,
		Responsibilities:    r.Responsibilities,
		JobType:             r.JobType,
		ExperienceLevel:     r.ExperienceLevel,
		ApplicationDeadline: r.ApplicationDeadline,
		Status:              r.Status,
	}
}

// pathID parses a numeric path parameter. Anything else is treated as a missing record.
func pathID(c *gin.Context, name, notFoundMsg string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		respondError(c, errcode.Missing(notFoundMsg))
		return 0, false
	}
	return uint(id), true
}

// Create 发布职位（仅招聘者）。
func (h *JobHandler) Create(c *gin.Context) {
	caller, _ := middleware.CurrentUser(c)
	var req jobRequest
	if !bindJSON(c, &req) {
		return
	}

	job, err := h.jobs.Create(c.Request.Context(), caller, req.input())
	if err != nil {
		respondError(c, err)
		return
	}

	middleware.LoggerFromContext(c).Info("job created", slog.Uint64("job_id", uint64(job.ID)))
	c.JSON(http.StatusCreated, newJobView(job))
}

// List 公开的职位列表，支持 search/location/job_type/experience_level/minSalary/maxSalary。
func (h *JobHandler) List(c *gin.Context) {
	filter := jobs.Filter{
		Search:          c.Query("search"),
		Location:        c.Query("location"),
		JobType:         c.Query("job_type"),
		ExperienceLevel: c.Query("experience_level"),
		WithSalary:      c.Query("minSalary") != "" || c.Query("maxSalary") != "",
	}

	list, err := h.jobs.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newJobViews(list))
}

func (h *JobHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id", "Job not found.")
	if !ok {
		return
	}
	job, err := h.jobs.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newJobView(job))
}

func (h *JobHandler) Update(c *gin.Context) {
	caller, _ := middleware.CurrentUser(c)
	id, ok := pathID(c, "id", "Job not found.")
	if !ok {
		return
	}
	var req jobRequest
	if !bindJSON(c, &req) {
		return
	}

	job, err := h.jobs.Update(c.Request.Context(), caller, id, req.input())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newJobView(job))
}

func (h *JobHandler) Delete(c *gin.Context) {
	caller, _ := middleware.CurrentUser(c)
	id, ok := pathID(c, "id", "Job not found.")
	if !ok {
		return
	}
	if err := h.jobs.Delete(c.Request.Context(), caller, id); err != nil {
		respondError(c, err)
		return
	}

	middleware.LoggerFromContext(c).Info("job deleted", slog.Uint64("job_id", uint64(id)))
	Message(c, http.StatusOK, "Job removed successfully.")
}

// ListMine 招聘者自己发布的职位。
func (h *JobHandler) ListMine(c *gin.Context) {
	caller, _ := middleware.CurrentUser(c)
	list, err := h.jobs.ListMine(c.Request.Context(), caller)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newJobViews(list))
}
