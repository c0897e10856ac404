// Package settings reconciles flat settings form state with the nested
// settings document served by the remote admin API.
//
// # Model
//
//   - Tree: the nested settings document (map of sections and leaves).
//   - Path: a validated key sequence locating one leaf ("security.password.min_length").
//   - FieldDescriptor: one form input bound to a path, with its raw value and kind.
//   - Session: the saved and working trees plus the dirty flag.
//
// # Flow
//
//	rec := settings.NewReconciler(client)
//	s, err := rec.Load(ctx)            // Saved == Working, clean
//	s = s.MarkDirty()                  // on every change event
//	tree, err := settings.Gather(fields)
//	s, err = rec.Save(ctx, s, tree)    // PUT, then Saved == Working == tree
//	s = s.Reset()                      // drop edits, no network call
//
// Gather rejects empty or non-integer numeric input instead of coercing it
// to zero. Save is guarded: a second Save while one is in flight fails with a
// CONFLICT error.
package settings
