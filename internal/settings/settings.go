package settings

import (
	"sync"

	"bizcards/internal/notify"
)

// Values is a point-in-time copy of a session's settings.
type Values struct {
	DarkMode   bool   `json:"darkMode"`
	SearchText string `json:"searchText"`
}

// Theme is the notification theme matching DarkMode.
func (v Values) Theme() notify.Theme { return notify.ThemeFor(v.DarkMode) }

// Settings is the per-session theme and search text. Views read it; only
// the navbar actions write it.
type Settings struct {
	mu sync.RWMutex
	v  Values
}

func New() *Settings { return &Settings{} }

func (s *Settings) Get() Values {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.v
}

// SetSearchText stores the text submitted in the navigation search box.
func (s *Settings) SetSearchText(text string) {
	s.mu.Lock()
	s.v.SearchText = text
	s.mu.Unlock()
}

// ClearSearch runs when the user navigates home via the brand link.
func (s *Settings) ClearSearch() { s.SetSearchText("") }

// ToggleDarkMode flips the theme and returns the new value.
func (s *Settings) ToggleDarkMode() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.v.DarkMode = !s.v.DarkMode
	return s.v.DarkMode
}
