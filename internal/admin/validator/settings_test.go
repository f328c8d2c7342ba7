package validator

import (
	"errors"
	"io"
	"strings"
	"testing"

	"rendezvous/pkg/logger"
	"rendezvous/pkg/model"
)

func TestValidate(t *testing.T) {
	v := NewSettingsValidator(logger.New(logger.Config{Output: io.Discard}))

	tests := []struct {
		name      string
		settings  model.Settings
		wantField string
	}{
		{name: "empty is allowed", settings: model.Settings{}},
		{name: "full", settings: model.Settings{BusinessName: "Cabinet", BusinessEmail: "contact@cabinet.fr", EmailNotifications: true}},
		{name: "bad email", settings: model.Settings{BusinessEmail: "not-an-email"}, wantField: "businessEmail"},
		{name: "name too long", settings: model.Settings{BusinessName: strings.Repeat("a", 201)}, wantField: "businessName"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(&tt.settings)
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
