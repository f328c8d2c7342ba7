package service

import (
	"context"
	"errors"
	"io"
	"net/http"
	"testing"
	"time"

	"rendezvous/internal/admin/validator"
	"rendezvous/pkg/config"
	apperrors "rendezvous/pkg/errors"
	"rendezvous/pkg/logger"
	"rendezvous/pkg/model"
	"rendezvous/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, now time.Time, loc *time.Location) (*adminService, *store.Store) {
	t.Helper()
	cfg := &config.Config{
		Log:      logger.New(logger.Config{Output: io.Discard}),
		Location: loc,
	}
	backend, err := store.NewFileBackend(t.TempDir())
	require.NoError(t, err)
	st := store.New(backend, cfg.Log)
	require.NoError(t, st.Init(context.Background(), model.Settings{BusinessName: "Cabinet"}))

	svc := NewAdminService(st, validator.NewSettingsValidator(cfg.Log), cfg).(*adminService)
	svc.now = func() time.Time { return now }
	return svc, st
}

func TestIsValidAdminToken(t *testing.T) {
	svc, st := newTestService(t, time.Now(), time.UTC)
	ctx := context.Background()

	tok, err := st.AdminToken(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, tok.Token)

	assert.True(t, svc.IsValidAdminToken(ctx, tok.Token))
	assert.False(t, svc.IsValidAdminToken(ctx, ""))
	assert.False(t, svc.IsValidAdminToken(ctx, tok.Token+"x"))
}

func TestRotateToken_InvalidatesPrevious(t *testing.T) {
	svc, _ := newTestService(t, time.Now(), time.UTC)
	ctx := context.Background()

	old, err := svc.Token(ctx)
	require.NoError(t, err)

	rotated, err := svc.RotateToken(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, old.Token, rotated.Token)

	assert.False(t, svc.IsValidAdminToken(ctx, old.Token))
	assert.True(t, svc.IsValidAdminToken(ctx, rotated.Token))
}

func TestStats(t *testing.T) {
	// 23:30 UTC on June 9 is already June 10 in Paris.
	paris, err := time.LoadLocation("Europe/Paris")
	require.NoError(t, err)
	svc, st := newTestService(t, time.Date(2025, 6, 9, 23, 30, 0, 0, time.UTC), paris)
	ctx := context.Background()

	days := []model.AvailabilityDay{
		{ID: "d1", Date: model.MustParseDate("2025-06-10"), Slots: []model.Slot{
			{ID: "A", IsBooked: true},
			{ID: "B"},
			{ID: "C", IsBooked: true},
		}},
		{ID: "d2", Date: model.MustParseDate("2025-06-12"), Slots: []model.Slot{
			{ID: "D", IsBooked: true},
		}},
	}
	appointments := []model.Appointment{
		{ID: "a1", Date: model.MustParseDate("2025-06-10"), SlotID: "A"},
		{ID: "a2", Date: model.MustParseDate("2025-06-12"), SlotID: "D"},
		{ID: "a3", Date: model.MustParseDate("2025-06-01"), SlotID: "Z"},
	}
	require.NoError(t, st.UpdateDays(ctx, func([]model.AvailabilityDay) ([]model.AvailabilityDay, error) { return days, nil }))
	require.NoError(t, st.UpdateAppointments(ctx, func([]model.Appointment) ([]model.Appointment, error) { return appointments, nil }))

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)

	assert.Equal(t, model.Stats{
		TotalAppointments:    3,
		TodayAppointments:    1,
		UpcomingAppointments: 2,
		TotalSlots:           4,
		BookedSlots:          3,
		AvailableSlots:       1,
		OrphanedSlots:        1,
	}, stats)
}

func TestUpdateSettings(t *testing.T) {
	svc, st := newTestService(t, time.Now(), time.UTC)
	ctx := context.Background()

	updated, err := svc.UpdateSettings(ctx, &model.Settings{
		BusinessName:       "  Cabinet   Dupont ",
		BusinessEmail:      "Contact@Cabinet.FR",
		SMSNotifications:   true,
		EmailNotifications: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "Cabinet Dupont", updated.BusinessName)
	assert.Equal(t, "contact@cabinet.fr", updated.BusinessEmail)

	stored, err := st.Settings(ctx)
	require.NoError(t, err)
	assert.Equal(t, updated, stored)
}

func TestUpdateSettings_ValidationFailure(t *testing.T) {
	svc, st := newTestService(t, time.Now(), time.UTC)
	ctx := context.Background()

	_, err := svc.UpdateSettings(ctx, &model.Settings{BusinessEmail: "nope"})
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, http.StatusBadRequest, appErr.HTTPStatus)

	stored, err := st.Settings(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Cabinet", stored.BusinessName)
}
