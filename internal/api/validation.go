package api

import (
	"errors"
	"io"
	"reflect"
	"slices"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"jobLobby/internal/database"
)

var registerOnce sync.Once

// RegisterValidators 在 gin 的校验引擎上注册枚举校验，并让错误信息使用 JSON 字段名。
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(jsonFieldName)
		_ = v.RegisterValidation("jobtype", oneOfStrings(database.JobTypes))
		_ = v.RegisterValidation("explevel", oneOfStrings(database.ExperienceLevels))
		_ = v.RegisterValidation("jobstatus", func(fl validator.FieldLevel) bool {
			return database.JobStatus(fl.Field().String()).Valid()
		})
		_ = v.RegisterValidation("role", func(fl validator.FieldLevel) bool {
			return database.Role(fl.Field().String()).Valid()
		})
	})
}

func oneOfStrings(allowed []string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return slices.Contains(allowed, fl.Field().String())
	}
}

func jsonFieldName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	if name == "-" || name == "" {
		return f.Name
	}
	return name
}

// bindErrorMessage 将绑定错误转换为面向客户端的简短提示。
func bindErrorMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		switch fe.Tag() {
		case "jobtype":
			return "Invalid job_type. Must be one of: " + strings.Join(database.JobTypes, ", ")
		case "explevel":
			return "Invalid experience_level. Must be one of: " + strings.Join(database.ExperienceLevels, ", ")
		case "jobstatus":
			return "Invalid status. Must be one of: active, closed, draft"
		case "role":
			return "Invalid role. Must be one of: job_seeker, recruiter, admin."
		default:
			return "Invalid " + fe.Field() + "."
		}
	}
	return "Invalid request body."
}

// bindJSON decodes the request body into dst. An empty body leaves dst zeroed so that
// services report their own missing-field messages.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil && !errors.Is(err, io.EOF) {
		BadRequest(c, bindErrorMessage(err))
		return false
	}
	return true
}
