package console

import (
	"context"
	stderrors "errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/rbac-console/admin-console/src/internal/apiclient"
	"github.com/rbac-console/admin-console/src/internal/errors"
	"github.com/rbac-console/admin-console/src/internal/forms"
	"github.com/rbac-console/admin-console/src/internal/log"
	"github.com/rbac-console/admin-console/src/internal/settings"
)

// Backend is the remote side of the console. apiclient.Client implements it.
type Backend interface {
	settings.Source
	CreateBackup(ctx context.Context) (apiclient.BackupResult, error)
	ListBackups(ctx context.Context) ([]apiclient.Backup, error)
	RestoreBackup(ctx context.Context, id string) error
	DeleteBackup(ctx context.Context, id string) error
}

// FieldEdit is one raw change made in the form. Only the member matching
// the field kind is used.
type FieldEdit struct {
	Path     string   `json:"path"`
	Value    string   `json:"value,omitempty"`
	Checked  bool     `json:"checked,omitempty"`
	Selected []string `json:"selected,omitempty"`
}

// State is a snapshot of the console session.
type State struct {
	Loaded      bool                 `json:"loaded"`
	Dirty       bool                 `json:"dirty"`
	HasChanges  bool                 `json:"has_changes"`
	Changes     []settings.Change    `json:"changes"`
	Errors      settings.FieldErrors `json:"errors,omitempty"`
	Saved       settings.Tree        `json:"saved"`
	Working     settings.Tree        `json:"working"`
	Fingerprint string               `json:"fingerprint,omitempty"`
}

// BackupView is a backup as shown in the backup list.
type BackupView struct {
	apiclient.Backup
	SizeHuman    string `json:"size_human"`
	CreatedHuman string `json:"created_human"`
}

// Controller is the settings page controller.
type Controller struct {
	backend    Backend
	reconciler *settings.Reconciler
	notes      *Notifications

	mu      sync.Mutex
	session settings.Session
	loaded  bool
	edits   map[string]settings.FieldDescriptor
	// generation counts completed loads; a save finishing after one keeps
	// the reloaded session.
	generation uint64
}

// NewController creates a controller over backend keeping at most
// notificationsLimit notifications.
func NewController(backend Backend, notificationsLimit int) *Controller {
	return &Controller{
		backend:    backend,
		reconciler: settings.NewReconciler(backend),
		notes:      NewNotifications(notificationsLimit),
		session:    settings.NewSession(settings.Tree{}),
		edits:      make(map[string]settings.FieldDescriptor),
	}
}

// Notifications returns the notification feed.
func (c *Controller) Notifications() *Notifications {
	return c.notes
}

// Load fetches the settings and starts a clean session, dropping pending
// edits. On failure the previous session is kept and an error
// notification is recorded.
func (c *Controller) Load(ctx context.Context) (State, error) {
	s, err := c.reconciler.Load(ctx)
	metricLoads.WithLabelValues(resultLabel(err)).Inc()
	if err != nil {
		c.notes.Error("Error loading settings: " + errorMessage(err))
		return c.State(), err
	}

	c.mu.Lock()
	c.session = s
	c.loaded = true
	c.edits = make(map[string]settings.FieldDescriptor)
	c.generation++
	recordDirty(false)
	c.mu.Unlock()

	log.Infof("Settings loaded")
	return c.State(), nil
}

// Fields returns the form fields for a render pass: the catalog bound to
// the working tree, overlaid with unsaved edits.
func (c *Controller) Fields() ([]forms.BoundField, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.loaded {
		return nil, errors.New(errors.ErrCodeNotLoaded, "settings have not been loaded yet")
	}
	return c.fieldsLocked(), nil
}

func (c *Controller) fieldsLocked() []forms.BoundField {
	fields := forms.Bind(c.session.Working)
	for i, f := range fields {
		if edit, ok := c.edits[f.Path.String()]; ok {
			fields[i].FieldDescriptor = edit
		}
	}
	return fields
}

// submittedLocked selects the fields written on save: every catalog field
// and the hidden leaves that were edited. Other hidden leaves stay in the
// working tree exactly as loaded.
func (c *Controller) submittedLocked(fields []forms.BoundField) []settings.FieldDescriptor {
	out := make([]settings.FieldDescriptor, 0, len(fields))
	for _, f := range fields {
		if f.Hidden {
			if _, edited := c.edits[f.Path.String()]; !edited {
				continue
			}
		}
		out = append(out, f.FieldDescriptor)
	}
	return out
}

// Edit records raw input for the given fields and marks the session dirty.
// Unknown paths are rejected without applying any of the edits.
func (c *Controller) Edit(edits []FieldEdit) (State, error) {
	c.mu.Lock()
	if !c.loaded {
		c.mu.Unlock()
		return State{}, errors.New(errors.ErrCodeNotLoaded, "settings have not been loaded yet")
	}

	kinds := make(map[string]settings.FieldDescriptor)
	for _, f := range c.fieldsLocked() {
		kinds[f.Path.String()] = f.FieldDescriptor
	}

	var fieldErrors settings.FieldErrors
	staged := make(map[string]settings.FieldDescriptor, len(edits))
	for _, e := range edits {
		current, ok := kinds[e.Path]
		if !ok {
			fieldErrors = append(fieldErrors, settings.FieldError{Path: e.Path, Message: "unknown field"})
			continue
		}
		fd := settings.FieldDescriptor{Path: current.Path, Kind: current.Kind}
		switch current.Kind {
		case settings.KindCheckbox:
			fd.Checked = e.Checked
		case settings.KindMultiSelect:
			fd.Selected = append([]string{}, e.Selected...)
		default:
			fd.Value = e.Value
		}
		staged[e.Path] = fd
	}
	if len(fieldErrors) > 0 {
		c.mu.Unlock()
		return State{}, errors.NewValidationError("cannot apply edits", fieldErrors)
	}

	for path, fd := range staged {
		c.edits[path] = fd
	}
	c.session = c.session.MarkDirty()
	recordDirty(true)
	c.mu.Unlock()

	return c.State(), nil
}

// Save gathers every field over the working tree, validates the changed
// values and replaces the remote settings. Invalid input rejects the save
// before anything is sent. Edits made while the save is in flight stay
// pending, and a load finishing meanwhile wins over the saved tree.
func (c *Controller) Save(ctx context.Context) (State, error) {
	c.mu.Lock()
	if !c.loaded {
		c.mu.Unlock()
		return State{}, errors.New(errors.ErrCodeNotLoaded, "settings have not been loaded yet")
	}
	fields := c.submittedLocked(c.fieldsLocked())
	working := c.session.Working.Clone()
	session := c.session
	generation := c.generation
	sent := make(map[string]settings.FieldDescriptor, len(c.edits))
	for k, v := range c.edits {
		sent[k] = v
	}
	c.mu.Unlock()

	tree, err := settings.Overlay(working, fields)
	if err == nil {
		err = forms.Validate(tree, working)
	}
	if err != nil {
		metricSaves.WithLabelValues("rejected").Inc()
		c.notes.Error("Error saving settings: " + errorMessage(err))
		return c.State(), err
	}

	saved, err := c.reconciler.Save(ctx, session, tree)
	if err != nil {
		label := resultError
		if errors.HasCode(err, errors.ErrCodeConflict) {
			label = "rejected"
		}
		metricSaves.WithLabelValues(label).Inc()
		c.notes.Error("Error saving settings: " + errorMessage(err))
		return c.State(), err
	}
	metricSaves.WithLabelValues(resultSuccess).Inc()

	c.mu.Lock()
	if c.generation != generation {
		c.mu.Unlock()
		log.Warnf("Settings were reloaded while saving; keeping the reloaded session")
		c.notes.Success("Settings saved successfully")
		return c.State(), nil
	}
	for path, fd := range sent {
		if current, ok := c.edits[path]; ok && reflect.DeepEqual(current, fd) {
			delete(c.edits, path)
		}
	}
	c.session = saved
	if len(c.edits) > 0 {
		c.session = c.session.MarkDirty()
	}
	recordDirty(c.session.Dirty)
	c.mu.Unlock()

	c.notes.Success("Settings saved successfully")
	return c.State(), nil
}

// Reset drops all unsaved edits. No remote call is made.
func (c *Controller) Reset() State {
	c.mu.Lock()
	c.session = c.session.Reset()
	c.edits = make(map[string]settings.FieldDescriptor)
	recordDirty(false)
	c.mu.Unlock()
	return c.State()
}

// State returns a snapshot of the session. Changes compare the form as
// currently filled against the form bound to the working tree.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	st := State{
		Loaded:  c.loaded,
		Dirty:   c.session.Dirty,
		Saved:   c.session.Saved.Clone(),
		Working: c.session.Working.Clone(),
		Changes: []settings.Change{},
	}
	if fp, err := settings.Fingerprint(c.session.Saved); err == nil {
		st.Fingerprint = fp
	}
	if !c.loaded || len(c.edits) == 0 {
		return st
	}

	base, err := settings.Overlay(c.session.Working, c.submittedLocked(forms.Bind(c.session.Working)))
	if err != nil {
		return st
	}
	pending, err := settings.Overlay(c.session.Working, c.submittedLocked(c.fieldsLocked()))
	if err != nil {
		st.HasChanges = true
		if fe, ok := fieldErrorsOf(err); ok {
			st.Errors = fe
		}
		return st
	}
	st.Changes = settings.Diff(base, pending)
	st.HasChanges = len(st.Changes) > 0
	return st
}

// ThemeCSS renders the stylesheet for the saved appearance settings.
func (c *Controller) ThemeCSS() string {
	c.mu.Lock()
	saved := c.session.Saved.Clone()
	c.mu.Unlock()
	return RenderTheme(saved)
}

// CreateBackup snapshots the current remote settings.
func (c *Controller) CreateBackup(ctx context.Context) (apiclient.BackupResult, error) {
	result, err := c.backend.CreateBackup(ctx)
	metricBackupOps.WithLabelValues("create", resultLabel(err)).Inc()
	if err != nil {
		c.notes.Error("Error creating backup: " + errorMessage(err))
		return result, err
	}
	c.notes.Success("Backup created successfully")
	return result, nil
}

// Backups lists the stored backups, newest first.
func (c *Controller) Backups(ctx context.Context) ([]BackupView, error) {
	backups, err := c.backend.ListBackups(ctx)
	if err != nil {
		return nil, err
	}
	return BackupViews(backups, time.Now()), nil
}

// RestoreBackup restores a backup and reloads the settings from the server.
func (c *Controller) RestoreBackup(ctx context.Context, id string) (State, error) {
	err := c.backend.RestoreBackup(ctx, id)
	metricBackupOps.WithLabelValues("restore", resultLabel(err)).Inc()
	if err != nil {
		c.notes.Error("Error restoring backup: " + errorMessage(err))
		return c.State(), err
	}
	c.notes.Success(fmt.Sprintf("Backup %s restored", id))
	return c.Load(ctx)
}

// DeleteBackup removes a backup.
func (c *Controller) DeleteBackup(ctx context.Context, id string) error {
	err := c.backend.DeleteBackup(ctx, id)
	metricBackupOps.WithLabelValues("delete", resultLabel(err)).Inc()
	if err != nil {
		c.notes.Error("Error deleting backup: " + errorMessage(err))
		return err
	}
	c.notes.Success(fmt.Sprintf("Backup %s deleted", id))
	return nil
}

// BackupViews decorates backups with human readable size and age, newest
// first.
func BackupViews(backups []apiclient.Backup, now time.Time) []BackupView {
	views := make([]BackupView, len(backups))
	for i, b := range backups {
		views[i] = BackupView{
			Backup:       b,
			SizeHuman:    humanize.IBytes(uint64(max(b.Size, 0))),
			CreatedHuman: humanize.RelTime(b.CreatedAt, now, "ago", "from now"),
		}
	}
	sort.SliceStable(views, func(i, j int) bool {
		return views[i].CreatedAt.After(views[j].CreatedAt)
	})
	return views
}

func fieldErrorsOf(err error) (settings.FieldErrors, bool) {
	var fe settings.FieldErrors
	if stderrors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

// errorMessage is the operator-facing text of err: the domain message plus
// any per-field detail.
func errorMessage(err error) string {
	if fe, ok := fieldErrorsOf(err); ok && len(fe) > 0 {
		parts := make([]string, len(fe))
		for i, e := range fe {
			parts[i] = e.Path + ": " + e.Message
		}
		return strings.Join(parts, "; ")
	}
	return err.Error()
}
