package cancel_appointment

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"github.com/m04kA/MediTime-BookingService/internal/api/middleware"
	"github.com/m04kA/MediTime-BookingService/internal/domain"
	"github.com/m04kA/MediTime-BookingService/internal/service/appointments"
	"github.com/m04kA/MediTime-BookingService/internal/service/appointments/models"
	"github.com/m04kA/MediTime-BookingService/pkg/logger"
)

type cancelFunc func(ctx context.Context, id int64, req *models.CancelRequest) (*models.AppointmentResponse, error)

func (f cancelFunc) Cancel(ctx context.Context, id int64, req *models.CancelRequest) (*models.AppointmentResponse, error) {
	return f(ctx, id, req)
}

func serve(h *Handler, target string, principal *domain.Principal) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/api/v1/appointments/{appointmentId}/cancel", h.Handle).Methods(http.MethodPatch)
	req := httptest.NewRequest(http.MethodPatch, target, nil)
	if principal != nil {
		req = req.WithContext(middleware.WithPrincipal(req.Context(), principal))
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandle(t *testing.T) {
	patient := &domain.Principal{UserID: 3, Role: domain.RolePatient}

	tests := []struct {
		name      string
		target    string
		principal *domain.Principal
		err       error
		status    int
	}{
		{name: "cancelled", target: "/api/v1/appointments/5/cancel", principal: patient, status: http.StatusOK},
		{name: "anonymous", target: "/api/v1/appointments/5/cancel", status: http.StatusUnauthorized},
		{name: "bad id", target: "/api/v1/appointments/0/cancel", principal: patient, status: http.StatusBadRequest},
		{name: "not found", target: "/api/v1/appointments/5/cancel", principal: patient, err: appointments.ErrAppointmentNotFound, status: http.StatusNotFound},
		{name: "foreign", target: "/api/v1/appointments/5/cancel", principal: patient, err: appointments.ErrAccessDenied, status: http.StatusForbidden},
		{name: "completed", target: "/api/v1/appointments/5/cancel", principal: patient, err: fmt.Errorf("%w: status completed", appointments.ErrCannotCancel), status: http.StatusConflict},
		{name: "internal", target: "/api/v1/appointments/5/cancel", principal: patient, err: errors.New("db down"), status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := cancelFunc(func(_ context.Context, id int64, req *models.CancelRequest) (*models.AppointmentResponse, error) {
				assert.Equal(t, int64(5), id)
				assert.Equal(t, int64(3), req.PatientID)
				if tt.err != nil {
					return nil, tt.err
				}
				return &models.AppointmentResponse{ID: id, Status: string(domain.StatusCancelled)}, nil
			})

			rec := serve(NewHandler(svc, logger.NewNop()), tt.target, tt.principal)

			assert.Equal(t, tt.status, rec.Code)
		})
	}
}
