package views

import (
	"context"
	"errors"

	"bizcards/internal/auth"
	"bizcards/internal/cards"
	"bizcards/internal/geocode"
	"bizcards/internal/notify"
	"bizcards/internal/settings"
	"bizcards/internal/users"
)

var (
	ErrNotLoggedIn = errors.New("not logged in")
	ErrForbidden   = errors.New("not allowed for this account")
	ErrCancelled   = errors.New("cancelled")
)

// Locator resolves a card address to a map position.
type Locator interface {
	Locate(ctx context.Context, a cards.Address) (*geocode.Position, error)
}

// Env is everything a view of one session depends on.
type Env struct {
	Cards    cards.Repository
	Users    users.Repository
	Tokens   auth.TokenStore
	Settings *settings.Settings
	Notifier notify.Notifier
	Geocoder Locator
}

func (e Env) theme() notify.Theme { return e.Settings.Get().Theme() }

func (e Env) notify(ctx context.Context, n notify.Notice) {
	if e.Notifier != nil {
		e.Notifier.Notify(ctx, n)
	}
}

func (e Env) oops(ctx context.Context) {
	e.notify(ctx, notify.Oops(e.theme()))
}
