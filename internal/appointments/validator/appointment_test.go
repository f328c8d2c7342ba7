package validator

import (
	"errors"
	"io"
	"strings"
	"testing"

	"rendezvous/pkg/logger"
	"rendezvous/pkg/model"
)

func validRequest() model.BookingRequest {
	return model.BookingRequest{
		FirstName: "Marie",
		LastName:  "Curie",
		Email:     "marie@example.com",
		Phone:     "0612345678",
		Date:      "2025-06-10",
		SlotID:    "A",
	}
}

func TestValidate_RequiredFields(t *testing.T) {
	v := NewAppointmentValidator(logger.New(logger.Config{Output: io.Discard}))

	tests := []struct {
		name      string
		mutate    func(r *model.BookingRequest)
		wantField string
	}{
		{name: "valid", mutate: func(*model.BookingRequest) {}},
		{name: "missing first name", mutate: func(r *model.BookingRequest) { r.FirstName = "" }, wantField: "firstName"},
		{name: "missing last name", mutate: func(r *model.BookingRequest) { r.LastName = "" }, wantField: "lastName"},
		{name: "missing email", mutate: func(r *model.BookingRequest) { r.Email = "" }, wantField: "email"},
		{name: "missing phone", mutate: func(r *model.BookingRequest) { r.Phone = "" }, wantField: "phone"},
		{name: "missing date", mutate: func(r *model.BookingRequest) { r.Date = "" }, wantField: "date"},
		{name: "missing slot", mutate: func(r *model.BookingRequest) { r.SlotID = "" }, wantField: "slotId"},
		{name: "malformed date", mutate: func(r *model.BookingRequest) { r.Date = "June 10" }, wantField: "date"},
		{name: "notes too long", mutate: func(r *model.BookingRequest) { r.Notes = strings.Repeat("x", 2001) }, wantField: "notes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(&req)

			err := v.Validate(&req)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}

			var verrs ValidationErrors
			if !errors.As(err, &verrs) {
				t.Fatalf("expected ValidationErrors, got %v", err)
			}
			if verrs[0].Field != tt.wantField {
				t.Errorf("expected field %q, got %q", tt.wantField, verrs[0].Field)
			}
		})
	}
}
