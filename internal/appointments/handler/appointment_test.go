package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	apperrors "rendezvous/pkg/errors"
	"rendezvous/pkg/logger"
	"rendezvous/pkg/middleware"
	"rendezvous/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type mockAppointmentService struct {
	listFunc   func(ctx context.Context) ([]model.Appointment, error)
	bookFunc   func(ctx context.Context, req *model.BookingRequest) (*model.Appointment, error)
	cancelFunc func(ctx context.Context, id string) error
}

func (m *mockAppointmentService) List(ctx context.Context) ([]model.Appointment, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return []model.Appointment{}, nil
}

func (m *mockAppointmentService) Book(ctx context.Context, req *model.BookingRequest) (*model.Appointment, error) {
	if m.bookFunc != nil {
		return m.bookFunc(ctx, req)
	}
	return &model.Appointment{}, nil
}

func (m *mockAppointmentService) Cancel(ctx context.Context, id string) error {
	if m.cancelFunc != nil {
		return m.cancelFunc(ctx, id)
	}
	return nil
}

type tokenChecker string

func (c tokenChecker) IsValidAdminToken(_ context.Context, token string) bool {
	return token == string(c)
}

func newTestRouter(svc *mockAppointmentService) *httprouter.Router {
	log := logger.New(logger.Config{Output: io.Discard})
	h := NewAppointmentHandler(svc, middleware.RequireAdmin(tokenChecker("secret"), log), log)
	router := httprouter.New()
	h.RegisterRoutes(router)
	return router
}

func TestList_RequiresAdmin(t *testing.T) {
	router := newTestRouter(&mockAppointmentService{
		listFunc: func(context.Context) ([]model.Appointment, error) {
			return []model.Appointment{{ID: "a1"}}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/appointments", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/appointments", nil)
	req.Header.Set("Authorization", "Bearer secret")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var body struct {
		Data []model.Appointment `json:"data"`
	}
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(body.Data) != 1 || body.Data[0].ID != "a1" {
		t.Errorf("unexpected body: %+v", body.Data)
	}
}

func TestBook(t *testing.T) {
	var got *model.BookingRequest
	router := newTestRouter(&mockAppointmentService{
		bookFunc: func(_ context.Context, req *model.BookingRequest) (*model.Appointment, error) {
			got = req
			return &model.Appointment{ID: "a1", SlotID: req.SlotID, Status: model.StatusConfirmed}, nil
		},
	})

	body := `{"firstName":"Marie","lastName":"Curie","email":"marie@example.com","phone":"0612345678","date":"2025-06-10","slotId":"A"}`
	req := httptest.NewRequest(http.MethodPost, "/api/appointments", strings.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if got == nil || got.SlotID != "A" || got.Date != "2025-06-10" {
		t.Errorf("request not decoded: %+v", got)
	}
}

func TestBook_ErrorStatuses(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", apperrors.Validation("Booking validation failed", nil), http.StatusBadRequest},
		{"slot missing", apperrors.NotFoundWithID("Slot", "Z"), http.StatusNotFound},
		{"already booked", apperrors.Conflict("Slot already booked"), http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(&mockAppointmentService{
				bookFunc: func(context.Context, *model.BookingRequest) (*model.Appointment, error) {
					return nil, tt.err
				},
			})

			req := httptest.NewRequest(http.MethodPost, "/api/appointments", strings.NewReader(`{"slotId":"A"}`))
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.want {
				t.Errorf("expected %d, got %d", tt.want, w.Code)
			}
		})
	}
}

func TestBook_InvalidBody(t *testing.T) {
	router := newTestRouter(&mockAppointmentService{})

	req := httptest.NewRequest(http.MethodPost, "/api/appointments", strings.NewReader("nope"))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestCancel(t *testing.T) {
	var gotID string
	router := newTestRouter(&mockAppointmentService{
		cancelFunc: func(_ context.Context, id string) error {
			gotID = id
			if id == "missing" {
				return apperrors.NotFoundWithID("Appointment", id)
			}
			return nil
		},
	})

	req := httptest.NewRequest(http.MethodDelete, "/api/appointments/a1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", w.Code)
	}
	if gotID != "a1" {
		t.Errorf("expected id a1, got %q", gotID)
	}

	req = httptest.NewRequest(http.MethodDelete, "/api/appointments/missing", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}
