package storage

import (
	"errors"
	"slices"
	"strings"

	"github.com/minio/minio-go/v7"
)

// IsNoSuchKey 判断对象是否不存在。删除旧简历时据此忽略已被清理的对象。
func IsNoSuchKey(err error) bool {
	return matches(err,
		[]string{"nosuchkey", "notfound"},
		[]string{"nosuchkey", "specified key does not exist", "not found"},
	)
}

// IsNoSuchBucket 判断简历 Bucket 是否不存在。
func IsNoSuchBucket(err error) bool {
	return matches(err,
		[]string{"nosuchbucket"},
		[]string{"nosuchbucket", "specified bucket does not exist"},
	)
}

// matches checks the S3 error code first and falls back to the message text,
// since some gateways flatten the response into a plain error.
func matches(err error, codes, phrases []string) bool {
	if err == nil {
		return false
	}

	var resp minio.ErrorResponse
	if errors.As(err, &resp) && slices.Contains(codes, strings.ToLower(strings.TrimSpace(resp.Code))) {
		return true
	}

	lower := strings.ToLower(err.Error())
	return slices.ContainsFunc(phrases, func(p string) bool { return strings.Contains(lower, p) })
}
