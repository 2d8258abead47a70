package change_reservation_status

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-PetBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-PetBookingService/internal/service/reservations/models"
	changeStatus "github.com/m04kA/SMC-PetBookingService/internal/usecase/change_status"
	"github.com/m04kA/SMC-PetBookingService/pkg/logger"
)

type fakeUseCase struct {
	got *changeStatus.Request
	err error
}

func (f *fakeUseCase) Execute(_ context.Context, req *changeStatus.Request) (*models.ReservationResponse, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return &models.ReservationResponse{ID: req.ReservationID, Status: req.Status}, nil
}

func doRequest(h *Handler, id, body string, userID int64) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/reservations/"+id+"/status", strings.NewReader(body))
	req = mux.SetURLVars(req, map[string]string{"reservationId": id})
	req = req.WithContext(middleware.WithUserID(req.Context(), userID))
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

func TestHandle_OK(t *testing.T) {
	uc := &fakeUseCase{}
	h := NewHandler(uc, logger.NewNop())

	rec := doRequest(h, "5", `{"status":"cancelled","reason":"заболел"}`, 42)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, uc.got)
	assert.Equal(t, int64(5), uc.got.ReservationID)
	assert.Equal(t, int64(42), uc.got.ActorID)
	assert.Equal(t, "cancelled", uc.got.Status)
	require.NotNil(t, uc.got.Reason)
	assert.Equal(t, "заболел", *uc.got.Reason)
}

func TestHandle_BadInput(t *testing.T) {
	tests := []struct {
		name string
		id   string
		body string
	}{
		{"non numeric id", "abc", `{"status":"accepted"}`},
		{"zero id", "0", `{"status":"accepted"}`},
		{"broken json", "5", `{"status":`},
		{"unknown field", "5", `{"status":"accepted","actorId":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &fakeUseCase{}
			rec := doRequest(NewHandler(uc, logger.NewNop()), tt.id, tt.body, 42)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Nil(t, uc.got)
		})
	}
}

func TestHandle_ErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", changeStatus.ErrReservationNotFound, http.StatusNotFound},
		{"wrong party", changeStatus.ErrAccessDenied, http.StatusForbidden},
		{"bad transition", fmt.Errorf("%w: completed -> accepted", changeStatus.ErrInvalidTransition), http.StatusUnprocessableEntity},
		{"unknown status", fmt.Errorf("%w: status", changeStatus.ErrInvalidInput), http.StatusBadRequest},
		{"internal", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(&fakeUseCase{err: tt.err}, logger.NewNop())
			rec := doRequest(h, "5", `{"status":"accepted"}`, 42)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
