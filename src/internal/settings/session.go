package settings

// Session holds the last saved settings and the live edits of one settings view.
//
// Session is a value: every transition returns a new Session and never
// mutates the receiver's trees, so the view holding it decides when a new
// state becomes current.
type Session struct {
	// Saved is the last tree confirmed persisted by the remote API.
	Saved Tree `json:"saved"`
	// Working is the tree being edited.
	Working Tree `json:"working"`
	// Dirty is set by any edit event and cleared only by a save or a reset.
	Dirty bool `json:"dirty"`
}

// NewSession starts a clean session from a freshly loaded tree.
// Saved and Working are independent copies.
func NewSession(loaded Tree) Session {
	if loaded == nil {
		loaded = Tree{}
	}
	return Session{
		Saved:   loaded.Clone(),
		Working: loaded.Clone(),
	}
}

// MarkDirty records that a field changed. No value comparison is made:
// editing a field back to its saved value still leaves the session dirty.
func (s Session) MarkDirty() Session {
	s.Dirty = true
	return s
}

// Reset discards edits: Working becomes a deep copy of Saved.
func (s Session) Reset() Session {
	return Session{
		Saved:   s.Saved,
		Working: s.Saved.Clone(),
		Dirty:   false,
	}
}

// saved is the transition applied after the remote API accepted tree.
func (s Session) saved(tree Tree) Session {
	return Session{
		Saved:   tree.Clone(),
		Working: tree,
		Dirty:   false,
	}
}

// HasChanges compares Working with Saved by value. Unlike Dirty it is false
// when edits were reverted by hand.
func (s Session) HasChanges() bool {
	return !s.Working.Equal(s.Saved)
}

// Changes lists the leaves that differ between Saved and Working.
func (s Session) Changes() []Change {
	return Diff(s.Saved, s.Working)
}
