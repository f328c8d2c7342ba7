// Package store persists the four logical collections (availability days,
// appointments, admin token, settings) as whole JSON documents on a pluggable
// key-value backend.
//
// Every collection has its own lock. Update* methods run read-modify-write as a
// single critical section and never write when the callback fails.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"rendezvous/pkg/logger"
	"rendezvous/pkg/metrics"
	"rendezvous/pkg/model"

	"github.com/google/uuid"
)

type Collection string

const (
	Availabilities Collection = "availabilities"
	Appointments   Collection = "appointments"
	AdminToken     Collection = "admin-token"
	Settings       Collection = "settings"
)

var Collections = []Collection{Availabilities, Appointments, AdminToken, Settings}

const (
	OpRead   = "read"
	OpDecode = "decode"
	OpEncode = "encode"
	OpWrite  = "write"
)

var (
	// ErrMissing is returned by a Backend when a collection has never been written.
	ErrMissing = errors.New("collection not found")

	// ErrCorrupt marks a stored document that cannot be decoded.
	ErrCorrupt = errors.New("collection is corrupt")

	// ErrSkipWrite may be returned from an update callback to leave the collection untouched.
	ErrSkipWrite = errors.New("skip write")
)

// Backend reads and writes whole collections as raw JSON documents.
type Backend interface {
	Load(ctx context.Context, c Collection) ([]byte, error)
	Save(ctx context.Context, c Collection, data []byte) error
	Ping(ctx context.Context) error
	Close() error
}

type IOError struct {
	Collection Collection
	Op         string
	Err        error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("store %s %s: %v", e.Op, e.Collection, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

type Store struct {
	backend  Backend
	log      *logger.Logger
	locks    map[Collection]*sync.RWMutex
	newToken func() string
	now      func() time.Time
}

func New(backend Backend, log *logger.Logger) *Store {
	locks := make(map[Collection]*sync.RWMutex, len(Collections))
	for _, c := range Collections {
		locks[c] = &sync.RWMutex{}
	}
	return &Store{
		backend:  backend,
		log:      log.Component("store"),
		locks:    locks,
		newToken: uuid.NewString,
		now:      time.Now,
	}
}

// Init seeds every collection that is missing, empty or unreadable.
func (s *Store) Init(ctx context.Context, seed model.Settings) error {
	defaults := map[Collection]any{
		Availabilities: []model.AvailabilityDay{},
		Appointments:   []model.Appointment{},
		AdminToken:     s.freshToken(),
		Settings:       seed,
	}

	for _, c := range Collections {
		if err := s.seed(ctx, c, defaults[c]); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) seed(ctx context.Context, c Collection, def any) error {
	mu := s.locks[c]
	mu.Lock()
	defer mu.Unlock()

	raw, err := s.backend.Load(ctx, c)
	switch {
	case errors.Is(err, ErrMissing):
	case err != nil:
		return s.fail(c, OpRead, err)
	case len(bytes.TrimSpace(raw)) > 0 && json.Valid(raw):
		return nil
	}

	if err := s.save(ctx, c, def); err != nil {
		return err
	}
	s.log.Info("Collection initialized", "collection", c)
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.backend.Ping(ctx)
}

func (s *Store) Close() error {
	return s.backend.Close()
}

func (s *Store) Days(ctx context.Context) ([]model.AvailabilityDay, error) {
	return readLenient(ctx, s, Availabilities, emptyDays)
}

func (s *Store) UpdateDays(ctx context.Context, fn func([]model.AvailabilityDay) ([]model.AvailabilityDay, error)) error {
	return update(ctx, s, Availabilities, emptyDays, func(days []model.AvailabilityDay) ([]model.AvailabilityDay, error) {
		next, err := fn(days)
		if next == nil {
			next = []model.AvailabilityDay{}
		}
		return next, err
	})
}

func (s *Store) Appointments(ctx context.Context) ([]model.Appointment, error) {
	return readLenient(ctx, s, Appointments, emptyAppointments)
}

func (s *Store) UpdateAppointments(ctx context.Context, fn func([]model.Appointment) ([]model.Appointment, error)) error {
	return update(ctx, s, Appointments, emptyAppointments, func(appts []model.Appointment) ([]model.Appointment, error) {
		next, err := fn(appts)
		if next == nil {
			next = []model.Appointment{}
		}
		return next, err
	})
}

func (s *Store) AdminToken(ctx context.Context) (model.AdminToken, error) {
	return readLenient(ctx, s, AdminToken, s.freshToken)
}

// RotateAdminToken replaces the admin token with a freshly generated one.
func (s *Store) RotateAdminToken(ctx context.Context) (model.AdminToken, error) {
	tok := s.freshToken()
	mu := s.locks[AdminToken]
	mu.Lock()
	defer mu.Unlock()

	if err := s.save(ctx, AdminToken, tok); err != nil {
		return model.AdminToken{}, err
	}
	return tok, nil
}

func (s *Store) Settings(ctx context.Context) (model.Settings, error) {
	return readLenient(ctx, s, Settings, func() model.Settings { return model.Settings{} })
}

func (s *Store) ReplaceSettings(ctx context.Context, settings model.Settings) error {
	mu := s.locks[Settings]
	mu.Lock()
	defer mu.Unlock()
	return s.save(ctx, Settings, settings)
}

func (s *Store) freshToken() model.AdminToken {
	return model.AdminToken{Token: s.newToken(), CreatedAt: s.now().UTC()}
}

func emptyDays() []model.AvailabilityDay     { return []model.AvailabilityDay{} }
func emptyAppointments() []model.Appointment { return []model.Appointment{} }

// readLenient falls back to def when the collection is missing, empty or corrupt.
// Backend failures are still reported.
func readLenient[T any](ctx context.Context, s *Store, c Collection, def func() T) (T, error) {
	mu := s.locks[c]
	mu.RLock()
	defer mu.RUnlock()

	v, err := load(ctx, s, c, def)
	if errors.Is(err, ErrCorrupt) {
		s.log.Warn("Collection unreadable, serving default", "collection", c, "error", err)
		return def(), nil
	}
	return v, err
}

func update[T any](ctx context.Context, s *Store, c Collection, def func() T, fn func(T) (T, error)) error {
	mu := s.locks[c]
	mu.Lock()
	defer mu.Unlock()

	current, err := load(ctx, s, c, def)
	if err != nil {
		return err
	}

	next, err := fn(current)
	if errors.Is(err, ErrSkipWrite) {
		return nil
	}
	if err != nil {
		return err
	}

	return s.save(ctx, c, next)
}

func load[T any](ctx context.Context, s *Store, c Collection, def func() T) (T, error) {
	var zero T

	raw, err := s.backend.Load(ctx, c)
	if errors.Is(err, ErrMissing) {
		return def(), nil
	}
	if err != nil {
		return zero, s.fail(c, OpRead, err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return def(), nil
	}

	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return zero, s.fail(c, OpDecode, fmt.Errorf("%w: %v", ErrCorrupt, err))
	}
	return v, nil
}

func (s *Store) save(ctx context.Context, c Collection, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return s.fail(c, OpEncode, err)
	}

	start := time.Now()
	if err := s.backend.Save(ctx, c, data); err != nil {
		return s.fail(c, OpWrite, err)
	}
	metrics.StoreWriteDuration.WithLabelValues(string(c)).Observe(time.Since(start).Seconds())
	return nil
}

func (s *Store) fail(c Collection, op string, err error) error {
	metrics.StoreErrors.WithLabelValues(string(c), op).Inc()
	s.log.Error("Store operation failed", "collection", c, "op", op, "error", err)
	return &IOError{Collection: c, Op: op, Err: err}
}
