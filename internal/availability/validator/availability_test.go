package validator

import (
	"errors"
	"testing"

	"rendezvous/pkg/logger"
	"rendezvous/pkg/model"
)

func newTestValidator() *AvailabilityValidator {
	log := logger.New(logger.Config{
		Level:     "error",
		Format:    logger.FormatJSON,
		AddSource: false,
		Service:   "test",
	})
	return NewAvailabilityValidator(log)
}

func TestValidateCreate(t *testing.T) {
	v := newTestValidator()

	tests := []struct {
		name      string
		req       *model.AvailabilityCreate
		wantError bool
		wantField string
	}{
		{
			name: "valid day with default duration",
			req: &model.AvailabilityCreate{
				Date:  "2025-06-10",
				Slots: []model.SlotSpec{{Time: "09:00"}, {Time: "10:30", DurationMin: 45}},
			},
		},
		{
			name:      "missing date",
			req:       &model.AvailabilityCreate{Slots: []model.SlotSpec{{Time: "09:00"}}},
			wantError: true,
			wantField: "date",
		},
		{
			name:      "malformed date",
			req:       &model.AvailabilityCreate{Date: "10/06/2025", Slots: []model.SlotSpec{{Time: "09:00"}}},
			wantError: true,
			wantField: "date",
		},
		{
			name:      "no slots",
			req:       &model.AvailabilityCreate{Date: "2025-06-10", Slots: []model.SlotSpec{}},
			wantError: true,
			wantField: "slots",
		},
		{
			name:      "bad time of day",
			req:       &model.AvailabilityCreate{Date: "2025-06-10", Slots: []model.SlotSpec{{Time: "25:00"}}},
			wantError: true,
			wantField: "slots[0].time",
		},
		{
			name:      "negative duration",
			req:       &model.AvailabilityCreate{Date: "2025-06-10", Slots: []model.SlotSpec{{Time: "09:00", DurationMin: -5}}},
			wantError: true,
			wantField: "slots[0].duration",
		},
		{
			name: "same time twice",
			req: &model.AvailabilityCreate{
				Date:  "2025-06-10",
				Slots: []model.SlotSpec{{Time: "09:00"}, {Time: "09:00", DurationMin: 30}},
			},
			wantError: true,
			wantField: "slots[1].time",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateCreate(tt.req)
			if (err != nil) != tt.wantError {
				t.Fatalf("ValidateCreate() error = %v, wantError %v", err, tt.wantError)
			}
			if !tt.wantError {
				return
			}
			var verrs ValidationErrors
			if !errors.As(err, &verrs) {
				t.Fatalf("expected ValidationErrors, got %T", err)
			}
			if verrs[0].Field != tt.wantField {
				t.Errorf("expected field %q, got %q", tt.wantField, verrs[0].Field)
			}
		})
	}
}

func TestValidateSlots(t *testing.T) {
	v := newTestValidator()

	if err := v.ValidateSlots(&model.AvailabilitySlotsUpdate{Slots: []model.SlotSpec{}}); err != nil {
		t.Errorf("empty slot list should be accepted, got %v", err)
	}
	if err := v.ValidateSlots(&model.AvailabilitySlotsUpdate{}); err == nil {
		t.Error("missing slot list should be rejected")
	}
	if err := v.ValidateSlots(&model.AvailabilitySlotsUpdate{Slots: []model.SlotSpec{{Time: "9h"}}}); err == nil {
		t.Error("malformed time should be rejected")
	}
}
