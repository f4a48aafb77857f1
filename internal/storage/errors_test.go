package storage

import (
	"errors"
	"fmt"
	"testing"

	"github.com/minio/minio-go/v7"
)

func TestIsNoSuchKey(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"typed", minio.ErrorResponse{Code: "NoSuchKey"}, true},
		{"wrapped typed", fmt.Errorf("remove: %w", minio.ErrorResponse{Code: "NotFound"}), true},
		{"text", errors.New("The specified key does not exist."), true},
		{"other", errors.New("access denied"), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsNoSuchKey(tc.err); got != tc.want {
				t.Fatalf("IsNoSuchKey(%v) = %v, want %v", tc.err, got, tc.want)
			}
		})
	}
}

func TestIsNoSuchBucket(t *testing.T) {
	if !IsNoSuchBucket(minio.ErrorResponse{Code: "NoSuchBucket"}) {
		t.Fatal("typed NoSuchBucket not detected")
	}
	if IsNoSuchBucket(errors.New("timeout")) {
		t.Fatal("timeout misdetected as missing bucket")
	}
}
