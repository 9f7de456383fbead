package viewstate

import (
	"log/slog"
)

// allowedDialogs is the fixed set of dialog IDs the shell knows how to
// render. The dialog URL parameter is attacker-controlled (anyone can
// craft a link), so unknown IDs are dropped and logged, never stored.
var allowedDialogs = map[string]bool{
	"about":   true,
	"index":   true,
	"login":   true,
	"exports": true,
}

// OpenDialog opens the dialog with the given ID, implicitly closing any
// other open dialog: at most one dialog is ever open. Unrecognized IDs
// are a no-op.
func (s *Store) OpenDialog(id string) {
	if !allowedDialogs[id] {
		slog.Warn("dropping unrecognized dialog id",
			slog.String("dialog", id),
		)
		return
	}
	s.openDialog = id
	s.query.Set(paramDialog, id)
}

// CloseDialog closes the open dialog, if any.
func (s *Store) CloseDialog() {
	s.clearDialog()
}

// ToggleDialog closes the dialog if it is the open one, and opens it
// (closing any other) otherwise.
func (s *Store) ToggleDialog(id string) {
	if s.openDialog == id {
		s.clearDialog()
		return
	}
	s.OpenDialog(id)
}

// clearDialog clears the dialog state and its URL parameter. Shared
// by the dialog operations and the selection transitions.
func (s *Store) clearDialog() {
	s.openDialog = ""
	s.query.Del(paramDialog)
}
