package settings

import (
	"context"
	"time"

	"golang.org/x/sync/semaphore"
	"golang.org/x/sync/singleflight"

	"github.com/rbac-console/admin-console/src/internal/errors"
	"github.com/rbac-console/admin-console/src/internal/log"
)

// loadTimeout bounds a shared load once it no longer follows any caller's context.
const loadTimeout = 30 * time.Second

// ErrSaveInProgress is returned by Save while another save has not finished.
var ErrSaveInProgress = errors.NewConflictError("a settings save is already in progress")

// Source is the remote settings store. apiclient.Client implements it.
type Source interface {
	// FetchSettings returns the full settings document.
	FetchSettings(ctx context.Context) (Tree, error)
	// ReplaceSettings overwrites the full settings document.
	ReplaceSettings(ctx context.Context, tree Tree) error
}

// Reconciler performs the network side of a settings session: loading the
// document and saving a gathered tree. It keeps no session state itself.
type Reconciler struct {
	source Source
	saving *semaphore.Weighted
	loads  singleflight.Group
}

// NewReconciler creates a reconciler backed by source.
func NewReconciler(source Source) *Reconciler {
	return &Reconciler{
		source: source,
		saving: semaphore.NewWeighted(1),
	}
}

// Load fetches the settings document and starts a clean session from it.
// Loads issued while one is already running share its result. The shared
// fetch is detached from the caller that started it, so a caller giving up
// only abandons its own wait.
func (r *Reconciler) Load(ctx context.Context) (Session, error) {
	ch := r.loads.DoChan("load", func() (interface{}, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), loadTimeout)
		defer cancel()
		return r.source.FetchSettings(fetchCtx)
	})

	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		return Session{}, errors.NewNetworkError("settings load abandoned", ctx.Err())
	}

	if res.Err != nil {
		if errors.HasCode(res.Err, errors.ErrCodeNetwork) || errors.HasCode(res.Err, errors.ErrCodeAuth) {
			return Session{}, res.Err
		}
		return Session{}, errors.NewNetworkError("failed to load settings", res.Err)
	}
	if res.Shared {
		log.Debugf("Settings load shared with a concurrent caller")
	}
	tree, _ := res.Val.(Tree)
	return NewSession(tree), nil
}

// Save replaces the remote document with tree. On success the returned
// session has Saved equal to a copy of tree, Working equal to tree and is
// clean. On failure the given session is returned unchanged with the error.
// A Save started while another is running fails with ErrSaveInProgress and
// sends nothing.
func (r *Reconciler) Save(ctx context.Context, s Session, tree Tree) (Session, error) {
	if tree == nil {
		return s, errors.NewValidationError("refusing to save an empty document", nil)
	}
	if !r.saving.TryAcquire(1) {
		return s, ErrSaveInProgress
	}
	defer r.saving.Release(1)

	if err := r.source.ReplaceSettings(ctx, tree); err != nil {
		if errors.HasCode(err, errors.ErrCodeNetwork) || errors.HasCode(err, errors.ErrCodeAuth) {
			return s, err
		}
		return s, errors.NewNetworkError("failed to save settings", err)
	}
	return s.saved(tree), nil
}

// GatherAndSave gathers fields and saves the result. Invalid input rejects
// the save before anything is sent.
func (r *Reconciler) GatherAndSave(ctx context.Context, s Session, fields []FieldDescriptor) (Session, error) {
	tree, err := Gather(fields)
	if err != nil {
		return s, err
	}
	return r.Save(ctx, s, tree)
}
