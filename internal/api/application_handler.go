package api

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"jobLobby/internal/api/middleware"
	"jobLobby/internal/applications"
)

// ApplicationHandler 处理投递、查看与状态变更。
type ApplicationHandler struct {
	ledger *applications.Service
}

func NewApplicationHandler(ledger *applications.Service) *ApplicationHandler {
	return &ApplicationHandler{ledger: ledger}
}

// flexibleID accepts a job id sent either as a JSON number or a numeric string.
type flexibleID struct {
	Value   uint
	Invalid bool
}

func (f *flexibleID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	var raw string
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
	} else {
		raw = string(data)
	}
	if raw == "" {
		return nil
	}
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || n == 0 {
		f.Invalid = true
		return nil
	}
	f.Value = uint(n)
	return nil
}

type applyRequest struct {
	JobID           flexibleID `json:"jobId"`
	CoverLetterText string     `json:"cover_letter_text"`
	ResumeURL       string     `json:"resume_url"`
}

// Apply 求职者投递职位。
func (h *ApplicationHandler) Apply(c *gin.Context) {
	caller, _ := middleware.CurrentUser(c)
	var req applyRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.JobID.Invalid {
		Error(c, http.StatusNotFound, "Job not found.")
		return
	}

	app, err := h.ledger.Apply(c.Request.Context(), caller, applications.ApplyInput{
		JobID:           req.JobID.Value,
		CoverLetterText: req.CoverLetterText,
		ResumeURL:       req.ResumeURL,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	middleware.LoggerFromContext(c).Info("application submitted",
		slog.Uint64("application_id", uint64(app.ID)),
		slog.Uint64("job_id", uint64(app.JobID)),
	)
	c.JSON(http.StatusCreated, newApplicationView(app))
}

func (h *ApplicationHandler) ListMine(c *gin.Context) {
	caller, _ := middleware.CurrentUser(c)
	apps, err := h.ledger.ListMine(c.Request.Context(), caller)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newApplicationViews(apps))
}

func (h *ApplicationHandler) ListForJob(c *gin.Context) {
	caller, _ := middleware.CurrentUser(c)
	jobID, ok := pathID(c, "jobId", "Job not found.")
	if !ok {
		return
	}
	apps, err := h.ledger.ListForJob(c.Request.Context(), caller, jobID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newApplicationViews(apps))
}

type statusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus 招聘者修改申请状态。
func (h *ApplicationHandler) UpdateStatus(c *gin.Context) {
	caller, _ := middleware.CurrentUser(c)
	id, ok := pathID(c, "id", "Application not found.")
	if !ok {
		return
	}
	var req statusRequest
	if !bindJSON(c, &req) {
		return
	}

	app, err := h.ledger.UpdateStatus(c.Request.Context(), caller, id, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newApplicationView(app))
}

// Withdraw 求职者撤回（删除）自己的申请。
func (h *ApplicationHandler) Withdraw(c *gin.Context) {
	caller, _ := middleware.CurrentUser(c)
	id, ok := pathID(c, "id", "Application not found.")
	if !ok {
		return
	}
	if err := h.ledger.Withdraw(c.Request.Context(), caller, id); err != nil {
		respondError(c, err)
		return
	}
	Message(c, http.StatusOK, "Application removed successfully.")
}

// ResumeLink 返回申请附带简历的可下载地址。
func (h *ApplicationHandler) ResumeLink(c *gin.Context) {
	caller, _ := middleware.CurrentUser(c)
	id, ok := pathID(c, "id", "Application not found.")
	if !ok {
		return
	}
	link, err := h.ledger.ResumeLink(c.Request.Context(), caller, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": link})
}
