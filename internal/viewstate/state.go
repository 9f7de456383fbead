// Package viewstate implements the selection/view state container that
// drives the showcase shell: which garment is selected, whether the
// visitor is in public or research mode, the backdrop state, and which
// dialog (if any) is open. All mutation goes through named transitions --
// there is no way to poke a field directly -- so the invariants (research
// requires auth, at most one open dialog, URL mirrors selection) hold by
// construction.
//
// A Store is NOT safe for concurrent use. It models a single-threaded,
// event-driven UI: the embedding shell must call it from one event-loop
// goroutine, which is also why transitions are synchronous and applied in
// the order issued.
package viewstate

import (
	"context"
	"log/slog"
	"net/url"

	"github.com/eccearchive/ecce/internal/plugins/auth"
	"github.com/eccearchive/ecce/internal/plugins/garments"
)

// Mode is the active view mode.
type Mode string

const (
	ModePublic   Mode = "public"
	ModeResearch Mode = "research"
)

// Background is the full-screen backdrop state, independent of garment
// selection.
type Background string

const (
	BackgroundImage Background = "backgroundImage"
	BackgroundLight Background = "light"
	BackgroundDark  Background = "dark"
)

// URL query parameter names owned by the store.
const (
	paramGarment = "garment"
	paramMode    = "mode"
	paramDialog  = "dialog"
)

// SessionEnder ends the server-side session. Implemented by the auth
// gate's HTTP client in the shell; faked in tests.
type SessionEnder interface {
	EndSession(ctx context.Context) error
}

// Store is the selection/view state container. Construct with New; the
// zero value is not usable.
type Store struct {
	selected       *garments.GarmentView
	viewMode       Mode
	backgroundMode Background
	backdropTheme  garments.Theme
	overlayOpen    bool
	openDialog     string

	authenticated bool
	role          auth.Role

	// authInitialized gates InitializeFromURL: the URL cannot be resolved
	// until the session check has completed, or a research link would be
	// downgraded before auth state is known.
	authInitialized bool
	urlInitialized  bool

	query    url.Values
	sessions SessionEnder
}

// New creates a store in the initial state: nothing selected, public
// mode, image backdrop, overlay closed, no dialog.
func New(sessions SessionEnder) *Store {
	return &Store{
		viewMode:       ModePublic,
		backgroundMode: BackgroundImage,
		backdropTheme:  garments.ThemeLight,
		query:          url.Values{},
		sessions:       sessions,
	}
}

// --- Accessors ---

// Selected returns the selected garment, or nil when none is selected.
func (s *Store) Selected() *garments.GarmentView {
	return s.selected
}

// Mode returns the active view mode.
func (s *Store) Mode() Mode {
	return s.viewMode
}

// Background returns the backdrop state.
func (s *Store) Background() Background {
	return s.backgroundMode
}

// DetailOverlayOpen reports whether the detail overlay is open. Only
// meaningful while the backdrop shows the background image.
func (s *Store) DetailOverlayOpen() bool {
	return s.overlayOpen
}

// OpenDialogID returns the ID of the open dialog, or "" when none is open.
func (s *Store) OpenDialogID() string {
	return s.openDialog
}

// Authenticated reports whether a research session is active.
func (s *Store) Authenticated() bool {
	return s.authenticated
}

// Role returns the authenticated role, or "" when unauthenticated.
func (s *Store) Role() auth.Role {
	return s.role
}

// Query returns a copy of the URL query the shell should display. Copied
// so callers cannot bypass the transition methods.
func (s *Store) Query() url.Values {
	q := url.Values{}
	for key, values := range s.query {
		q[key] = append([]string(nil), values...)
	}
	return q
}

// --- Transitions ---

// SelectGarment selects a garment. Research mode survives the selection
// only if the visitor is authenticated and already in research mode;
// otherwise the view is forced public. Any open dialog and the detail
// overlay are closed, and garment/mode are reflected into the URL.
func (s *Store) SelectGarment(g garments.GarmentView) {
	s.selected = &g

	if !(s.authenticated && s.viewMode == ModeResearch) {
		s.viewMode = ModePublic
	}

	s.overlayOpen = false
	s.clearDialog()

	s.query.Set(paramGarment, g.Slug)
	s.query.Set(paramMode, string(s.viewMode))
}

// DeselectGarment clears the selection, any open dialog, and the
// garment/mode URL parameters.
func (s *Store) DeselectGarment() {
	s.selected = nil
	s.clearDialog()
	s.query.Del(paramGarment)
	s.query.Del(paramMode)
}

// SetViewMode switches between public and research. Research is silently
// downgraded to public when unauthenticated. The URL mode parameter is
// updated only while a garment is selected.
func (s *Store) SetViewMode(mode Mode) {
	if mode == ModeResearch && !s.authenticated {
		mode = ModePublic
	}
	s.viewMode = mode

	if s.selected != nil {
		s.query.Set(paramMode, string(s.viewMode))
	}
}

// SetAuthenticated records the session state. On transition to
// unauthenticated the role is cleared and research mode is forced back to
// public, updating the URL if a garment is selected. Also marks auth as
// initialized, unblocking InitializeFromURL.
func (s *Store) SetAuthenticated(authenticated bool, role auth.Role) {
	s.authInitialized = true
	s.authenticated = authenticated

	if !authenticated {
		s.role = ""
		if s.viewMode == ModeResearch {
			s.viewMode = ModePublic
			if s.selected != nil {
				s.query.Set(paramMode, string(ModePublic))
			}
		}
		return
	}

	s.role = role
}

// Logout ends the server-side session and forces local state to
// unauthenticated/public. The network call is best-effort: a failure is
// logged but local state is reset regardless, because the visitor asked
// to leave research mode and the UI must obey even without a backend.
func (s *Store) Logout(ctx context.Context) {
	if s.sessions != nil {
		if err := s.sessions.EndSession(ctx); err != nil {
			slog.Warn("ending session failed, forcing local logout",
				slog.Any("error", err),
			)
		}
	}
	s.SetAuthenticated(false, "")
}

// SetBackdropTheme records the declared theme of the current backdrop
// image. ToggleTheme uses it to pick the complementary solid background.
func (s *Store) SetBackdropTheme(theme garments.Theme) {
	s.backdropTheme = theme
}

// ToggleAperture flips the detail overlay while the image backdrop is
// showing; from a solid background it returns to the image backdrop with
// the overlay closed.
func (s *Store) ToggleAperture() {
	if s.backgroundMode == BackgroundImage {
		s.overlayOpen = !s.overlayOpen
		return
	}
	s.backgroundMode = BackgroundImage
	s.overlayOpen = false
}

// ToggleTheme cycles the backdrop. From the image backdrop it switches to
// the solid background complementing the image's declared theme and
// closes the overlay; between solids it alternates light and dark.
func (s *Store) ToggleTheme() {
	switch s.backgroundMode {
	case BackgroundImage:
		if s.backdropTheme == garments.ThemeLight {
			s.backgroundMode = BackgroundDark
		} else {
			s.backgroundMode = BackgroundLight
		}
		s.overlayOpen = false
	case BackgroundDark:
		s.backgroundMode = BackgroundLight
	case BackgroundLight:
		s.backgroundMode = BackgroundDark
	}
}

// InitializeFromURL applies the garment/mode/dialog query parameters once,
// after both the session check and the garment list are ready. Calls
// before SetAuthenticated, and all calls after the first successful one,
// are ignored. A research request without authentication is rewritten
// back to public in the URL.
func (s *Store) InitializeFromURL(query url.Values, available []garments.GarmentView) {
	if !s.authInitialized || s.urlInitialized {
		return
	}
	s.urlInitialized = true

	if slug := query.Get(paramGarment); slug != "" {
		for _, g := range available {
			if g.Slug == slug {
				garment := g
				s.selected = &garment
				s.query.Set(paramGarment, slug)
				break
			}
		}
	}

	if Mode(query.Get(paramMode)) == ModeResearch && s.authenticated {
		s.viewMode = ModeResearch
	} else {
		s.viewMode = ModePublic
	}
	if s.selected != nil {
		s.query.Set(paramMode, string(s.viewMode))
	}

	if dialog := query.Get(paramDialog); dialog != "" {
		s.OpenDialog(dialog)
	}
}
