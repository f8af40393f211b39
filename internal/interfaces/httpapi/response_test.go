package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/team-roster/internal/domain/event"
	"github.com/riskibarqy/team-roster/internal/usecase"
)

func TestWriteSuccess_GoogleEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	writeSuccess(context.Background(), rec, http.StatusOK, map[string]string{"status": "ok"})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != "application/json" {
		t.Fatalf("unexpected content type: %q", got)
	}

	var body map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}
	if got, _ := body["apiVersion"].(string); got != "2.0" {
		t.Fatalf("expected apiVersion=2.0, got %v", body["apiVersion"])
	}
	if _, ok := body["data"]; !ok {
		t.Fatalf("expected data key in success response")
	}
	if _, ok := body["error"]; ok {
		t.Fatalf("did not expect error key in success response")
	}
}

func TestWriteError_GoogleEnvelope(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantCode   int
		wantStatus string
		wantReason string
	}{
		{
			name:       "invalid input",
			err:        fmt.Errorf("%w: bad payload", usecase.ErrInvalidInput),
			wantCode:   http.StatusBadRequest,
			wantStatus: "INVALID_ARGUMENT",
			wantReason: "invalidInput",
		},
		{
			name:       "roster rule",
			err:        fmt.Errorf("%w: %w", usecase.ErrInvalidInput, event.ErrCapacityExceeded),
			wantCode:   http.StatusBadRequest,
			wantStatus: "INVALID_ARGUMENT",
			wantReason: "invalidRoster",
		},
		{
			name:       "not found",
			err:        fmt.Errorf("%w: event=x", usecase.ErrNotFound),
			wantCode:   http.StatusNotFound,
			wantStatus: "NOT_FOUND",
			wantReason: "notFound",
		},
		{
			name:       "unexpected",
			err:        errors.New("pq: connection reset"),
			wantCode:   http.StatusInternalServerError,
			wantStatus: "INTERNAL",
			wantReason: "internalError",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeError(context.Background(), rec, tc.err)

			if rec.Code != tc.wantCode {
				t.Fatalf("expected status %d, got %d", tc.wantCode, rec.Code)
			}

			var body googleResponseEnvelope
			if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("unmarshal response body: %v", err)
			}
			if body.Error == nil {
				t.Fatalf("expected error object in response")
			}
			if body.Error.Status != tc.wantStatus {
				t.Fatalf("expected error status %s, got %s", tc.wantStatus, body.Error.Status)
			}
			if len(body.Error.Errors) != 1 || body.Error.Errors[0].Reason != tc.wantReason {
				t.Fatalf("unexpected error items: %+v", body.Error.Errors)
			}
		})
	}
}

func TestWriteError_HidesInternalDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(context.Background(), rec, errors.New("pq: password authentication failed"))

	var body googleResponseEnvelope
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}
	if body.Error.Message != "internal server error" {
		t.Fatalf("internal error leaked: %q", body.Error.Message)
	}
}
