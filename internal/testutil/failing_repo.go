package testutil

import (
	"context"
	"errors"
	"sync/atomic"
)

// ErrInjected is returned by FailingPreferenceRepo on the chosen write.
var ErrInjected = errors.New("injected write failure")

// PreferenceStorage mirrors repository.PreferenceRepo; importing the
// repository package here would cycle with its own tests.
type PreferenceStorage interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
	All(ctx context.Context) (map[string]string, error)
}

// FailingPreferenceRepo wraps a PreferenceRepo and fails the Nth Set call,
// counting from 1. Reads and deletes pass through. FailOn <= 0 fails every Set.
type FailingPreferenceRepo struct {
	PreferenceStorage
	FailOn int32
	count  atomic.Int32
}

// NewFailingPreferenceRepo wraps inner.
func NewFailingPreferenceRepo(inner PreferenceStorage, failOn int32) *FailingPreferenceRepo {
	return &FailingPreferenceRepo{PreferenceStorage: inner, FailOn: failOn}
}

func (r *FailingPreferenceRepo) Set(ctx context.Context, key, value string) error {
	n := r.count.Add(1)
	if r.FailOn <= 0 || n == r.FailOn {
		return ErrInjected
	}
	return r.PreferenceStorage.Set(ctx, key, value)
}

// Sets returns how many Set calls were attempted.
func (r *FailingPreferenceRepo) Sets() int {
	return int(r.count.Load())
}
