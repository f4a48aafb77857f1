package api

import (
	"fmt"
	"path"
	"strings"
	"unicode/utf8"
)

var resumeExtensions = map[string]string{
	".pdf":  "application/pdf",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

func resumeObjectPrefix(userID uint) string {
	return fmt.Sprintf("resumes/%d/", userID)
}

// isValidResumeObjectKey 校验对象键属于该用户且未包含路径穿越。
func isValidResumeObjectKey(userID uint, key string) bool {
	if key == "" || !utf8.ValidString(key) || len(key) > 200 {
		return false
	}
	if !strings.HasPrefix(key, resumeObjectPrefix(userID)) {
		return false
	}
	if strings.Contains(key, "..") || strings.Contains(key, "\\") || strings.Contains(key, "//") {
		return false
	}
	_, ok := resumeExtensions[strings.ToLower(path.Ext(key))]
	return ok
}

// sniffResume checks the file's leading bytes against the declared extension.
func sniffResume(ext string, head []byte) bool {
	switch ext {
	case ".pdf":
		return len(head) >= 5 && string(head[:5]) == "%PDF-"
	case ".doc":
		return len(head) >= 8 && string(head[:8]) == "\xd0\xcf\x11\xe0\xa1\xb1\x1a\xe1"
	case ".docx":
		return len(head) >= 4 && string(head[:4]) == "PK\x03\x04"
	}
	return false
}
