package views

import (
	"context"
	"log"

	"bizcards/internal/auth"
	"bizcards/internal/notify"
	"bizcards/internal/settings"
)

// NavPage is what the navigation bar renders.
type NavPage struct {
	Roles     auth.Roles      `json:"roles"`
	Settings  settings.Values `json:"settings"`
	CanCreate bool            `json:"canCreate"`
	ShowMine  bool            `json:"showMyCards"`
	ShowLiked bool            `json:"showFavorites"`
	ShowAdmin bool            `json:"showSandbox"`
}

// Navbar owns the global settings writes: search, theme and logout.
type Navbar struct {
	env   Env
	roles auth.Roles
}

func MountNavbar(ctx context.Context, env Env) *Navbar {
	return &Navbar{env: env, roles: auth.Snapshot(ctx, env.Tokens)}
}

func (n *Navbar) Render() NavPage {
	return NavPage{
		Roles:     n.roles,
		Settings:  n.env.Settings.Get(),
		CanCreate: n.roles.CanCreate(),
		ShowMine:  n.roles.IsLoggedIn && n.roles.IsBusiness,
		ShowLiked: n.roles.IsLoggedIn,
		ShowAdmin: n.roles.IsLoggedIn && n.roles.IsAdmin,
	}
}

// SetSearch stores the submitted search text for the home list.
func (n *Navbar) SetSearch(text string) { n.env.Settings.SetSearchText(text) }

// GoHome is the brand link: it clears the search.
func (n *Navbar) GoHome() { n.env.Settings.ClearSearch() }

func (n *Navbar) ToggleTheme() bool { return n.env.Settings.ToggleDarkMode() }

// Logout asks for confirmation and removes the stored token. Views mounted
// before the logout keep their roles until they are mounted again.
func (n *Navbar) Logout(ctx context.Context, confirm notify.Confirmer) error {
	if !n.roles.IsLoggedIn {
		return ErrNotLoggedIn
	}
	ask := notify.Notice{
		Title:   "Leaving so soon?",
		Text:    "Sad to see you go - come back again!",
		Theme:   n.env.theme(),
		Confirm: true,
	}
	if !confirm.Confirm(ctx, ask) {
		return ErrCancelled
	}
	if err := n.env.Tokens.ClearToken(ctx); err != nil {
		log.Printf("[views] logout: %v", err)
		n.env.oops(ctx)
		return err
	}
	return nil
}
