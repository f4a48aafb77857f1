package errcode

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestStatus(t *testing.T) {
	tests := []struct {
		kind Kind
		want int
	}{
		{Validation, http.StatusBadRequest},
		{Authentication, http.StatusUnauthorized},
		{Authorization, http.StatusForbidden},
		{NotFound, http.StatusNotFound},
		{Conflict, http.StatusBadRequest},
		{RateLimited, http.StatusTooManyRequests},
		{Internal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			if got := Status(tt.kind); got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestAsKeepsKindThroughWrapping(t *testing.T) {
	err := fmt.Errorf("handler: %w", Forbidden("not yours"))
	got := As(err)
	if got.Kind != Authorization || got.Message != "not yours" {
		t.Fatalf("unexpected %+v", got)
	}
	if !Is(err, Authorization) {
		t.Fatal("expected Is to match")
	}
}

func TestAsClassifiesPlainErrorsAsInternal(t *testing.T) {
	cause := errors.New("connection reset")
	got := As(cause)
	if got.Kind != Internal {
		t.Fatalf("expected internal, got %s", got.Kind)
	}
	if !errors.Is(got, cause) {
		t.Fatal("cause must stay reachable through Unwrap")
	}
	if As(nil) != nil {
		t.Fatal("nil error must stay nil")
	}
}
