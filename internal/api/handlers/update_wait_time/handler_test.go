package update_wait_time

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/MediTime-BookingService/internal/api/middleware"
	"github.com/m04kA/MediTime-BookingService/internal/domain"
	"github.com/m04kA/MediTime-BookingService/internal/service/practices"
	"github.com/m04kA/MediTime-BookingService/internal/service/practices/models"
	"github.com/m04kA/MediTime-BookingService/pkg/logger"
)

type waitTimeFunc func(ctx context.Context, id int64, req *models.UpdateWaitTimeRequest) (*models.WaitTimeResponse, error)

func (f waitTimeFunc) UpdateWaitTime(ctx context.Context, id int64, req *models.UpdateWaitTimeRequest) (*models.WaitTimeResponse, error) {
	return f(ctx, id, req)
}

func serve(h *Handler, body string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/api/v1/practices/{practiceId}/wait-time", h.Handle).Methods(http.MethodPut)
	req := httptest.NewRequest(http.MethodPut, "/api/v1/practices/7/wait-time", bytes.NewBufferString(body))
	req = req.WithContext(middleware.WithPrincipal(req.Context(), &domain.Principal{UserID: 2, Role: domain.RolePractice}))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandle_Updated(t *testing.T) {
	svc := waitTimeFunc(func(_ context.Context, id int64, req *models.UpdateWaitTimeRequest) (*models.WaitTimeResponse, error) {
		assert.Equal(t, int64(7), id)
		assert.Equal(t, int64(2), req.UserID)
		assert.Equal(t, 0, req.Minutes)
		return &models.WaitTimeResponse{PracticeID: id, Minutes: req.Minutes, Tier: string(domain.WaitTierShort)}, nil
	})

	rec := serve(NewHandler(svc, logger.NewNop()), `{"minutes":0}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp models.WaitTimeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.Minutes)
	assert.Equal(t, string(domain.WaitTierShort), resp.Tier)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		err    error
		status int
	}{
		{name: "minutes missing", body: `{}`, status: http.StatusUnprocessableEntity},
		{name: "broken json", body: `{"minutes":`, status: http.StatusBadRequest},
		{name: "out of range", body: `{"minutes":601}`, err: practices.ErrInvalidInput, status: http.StatusUnprocessableEntity},
		{name: "not owner", body: `{"minutes":5}`, err: practices.ErrAccessDenied, status: http.StatusForbidden},
		{name: "not found", body: `{"minutes":5}`, err: practices.ErrPracticeNotFound, status: http.StatusNotFound},
		{name: "internal", body: `{"minutes":5}`, err: practices.ErrInternal, status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := waitTimeFunc(func(context.Context, int64, *models.UpdateWaitTimeRequest) (*models.WaitTimeResponse, error) {
				return nil, tt.err
			})
			rec := serve(NewHandler(svc, logger.NewNop()), tt.body)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}
