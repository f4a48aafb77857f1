package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/dutchcoders/go-clamd"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"jobLobby/internal/api/middleware"
	"jobLobby/internal/applications"
	"jobLobby/internal/users"
)

const maxResumeBytes = 5 * 1024 * 1024

// ResumeStorage 是简历上传所需的对象存储能力。
type ResumeStorage interface {
	UploadFile(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) error
	GeneratePresignedURL(ctx context.Context, objectKey string, duration time.Duration) (string, error)
	DeleteObject(ctx context.Context, objectKey string) error
}

// ErrMalicious is returned by a Scanner that found something in the stream.
var ErrMalicious = errors.New("malicious file detected")

// Scanner checks an upload before it is stored.
type Scanner interface {
	Scan(r io.Reader) error
}

// ClamdScanner streams uploads to a clamd daemon.
type ClamdScanner struct {
	client *clamd.Clamd
}

// NewClamdScanner returns nil when addr is empty so scanning is skipped.
func NewClamdScanner(addr string) Scanner {
	if strings.TrimSpace(addr) == "" {
		return nil
	}
	return &ClamdScanner{client: clamd.NewClamd(addr)}
}

func (s *ClamdScanner) Scan(r io.Reader) error {
	abort := make(chan bool)
	defer close(abort)

	results, err := s.client.ScanStream(r, abort)
	if err != nil {
		return fmt.Errorf("scan stream: %w", err)
	}
	for result := range results {
		switch result.Status {
		case clamd.RES_OK:
		case clamd.RES_FOUND:
			return ErrMalicious
		default:
			return fmt.Errorf("clamd: %s %s", result.Status, result.Description)
		}
	}
	return nil
}

// ResumeHandler 负责求职者简历文件的上传与访问。
type ResumeHandler struct {
	users   *users.Service
	storage ResumeStorage
	scanner Scanner
}

func NewResumeHandler(userService *users.Service, storage ResumeStorage, scanner Scanner) *ResumeHandler {
	return &ResumeHandler{users: userService, storage: storage, scanner: scanner}
}

// Upload 处理简历上传：校验类型与大小，可选病毒扫描，存入 MinIO 并写回 profile.resume_url。
func (h *ResumeHandler) Upload(c *gin.Context) {
	caller, _ := middleware.CurrentUser(c)
	log := middleware.LoggerFromContext(c).With(slog.Uint64("user_id", uint64(caller.ID)))

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxResumeBytes+1024*1024)
	file, err := c.FormFile("file")
	if err != nil {
		BadRequest(c, "Please attach a resume file.")
		return
	}
	if file.Size <= 0 || file.Size > maxResumeBytes {
		BadRequest(c, "Resume must be smaller than 5 MB.")
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	contentType, ok := resumeExtensions[ext]
	if !ok {
		BadRequest(c, "Resume must be a PDF, DOC or DOCX file.")
		return
	}

	head := make([]byte, 8)
	reader, err := file.Open()
	if err != nil {
		Internal(c, "Server error uploading resume.")
		return
	}
	n, _ := io.ReadFull(reader, head)
	reader.Close()
	if !sniffResume(ext, head[:n]) {
		BadRequest(c, "Resume content does not match its file type.")
		return
	}

	if h.scanner != nil {
		reader, err = file.Open()
		if err != nil {
			Internal(c, "Server error uploading resume.")
			return
		}
		err = h.scanner.Scan(reader)
		reader.Close()
		if errors.Is(err, ErrMalicious) {
			log.Warn("malicious resume rejected", slog.String("filename", file.Filename))
			BadRequest(c, "malicious file detected")
			return
		}
		if err != nil {
			log.Error("scan file", slog.Any("error", err))
			Internal(c, "failed to scan file")
			return
		}
	}

	reader, err = file.Open()
	if err != nil {
		Internal(c, "Server error uploading resume.")
		return
	}
	defer reader.Close()

	objectKey := resumeObjectPrefix(caller.ID) + uuid.NewString() + ext
	if err := h.storage.UploadFile(c.Request.Context(), objectKey, reader, file.Size, contentType); err != nil {
		log.Error("upload file", slog.Any("error", err))
		Internal(c, "failed to upload file")
		return
	}

	previous := caller.Profile.ResumeURL
	user, err := h.users.SetResume(c.Request.Context(), caller.ID, objectKey)
	if err != nil {
		_ = h.storage.DeleteObject(c.Request.Context(), objectKey)
		respondError(c, err)
		return
	}

	if previous != "" && previous != objectKey && isValidResumeObjectKey(caller.ID, previous) {
		if err := h.storage.DeleteObject(c.Request.Context(), previous); err != nil {
			log.Warn("delete previous resume failed", slog.String("object_key", previous), slog.Any("error", err))
		}
	}

	log.Info("resume uploaded", slog.String("object_key", objectKey))
	c.JSON(http.StatusCreated, gin.H{
		"objectKey":  objectKey,
		"resume_url": user.Profile.ResumeURL,
		"message":    "Resume uploaded successfully.",
	})
}

// Link 返回当前用户简历的临时下载地址；外部链接原样返回。
func (h *ResumeHandler) Link(c *gin.Context) {
	caller, _ := middleware.CurrentUser(c)
	user, err := h.users.Get(c.Request.Context(), caller.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	ref := user.Profile.ResumeURL
	if ref != "" && !applications.IsExternalURL(ref) && !isValidResumeObjectKey(user.ID, ref) {
		Error(c, http.StatusForbidden, "access denied")
		return
	}

	link, err := applications.ResolveResume(c.Request.Context(), h.storage, ref)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": link})
}
