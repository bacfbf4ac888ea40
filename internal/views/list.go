package views

import (
	"context"
	"errors"
	"log"

	"bizcards/internal/auth"
	"bizcards/internal/cards"
	"bizcards/internal/notify"
	"bizcards/internal/settings"
)

// Kind selects which derived list a ListView shows.
type Kind string

const (
	Home      Kind = "home"
	MyCards   Kind = "my-cards"
	Favorites Kind = "favorites"
)

// ParseKind maps a route segment to a Kind.
func ParseKind(s string) (Kind, bool) {
	switch k := Kind(s); k {
	case Home, MyCards, Favorites:
		return k, true
	}
	return "", false
}

// Item is a card plus the controls the current roles allow on it.
type Item struct {
	cards.Card
	Liked     bool `json:"liked"`
	CanEdit   bool `json:"canEdit"`
	CanDelete bool `json:"canDelete"`
}

// ListPage is what a list view renders.
type ListPage struct {
	Kind      Kind            `json:"kind"`
	State     cards.State     `json:"state"`
	Roles     auth.Roles      `json:"roles"`
	Settings  settings.Values `json:"settings"`
	Gate      string          `json:"gate,omitempty"`
	CanCreate bool            `json:"canCreate"`
	CanLike   bool            `json:"canLike"`
	Cards     []Item          `json:"cards"`
}

// ListView is the card list of the home, my-cards and favorites pages. The
// three differ only in the gate and the predicate.
type ListView struct {
	kind  Kind
	env   Env
	roles auth.Roles
	store *cards.ListStore
}

// MountList snapshots the roles and, if the gate allows, loads the cards.
func MountList(ctx context.Context, kind Kind, env Env) *ListView {
	v := &ListView{
		kind:  kind,
		env:   env,
		roles: auth.Snapshot(ctx, env.Tokens),
		store: cards.NewListStore(env.Cards),
	}
	v.load(ctx, false)
	return v
}

func (v *ListView) Kind() Kind        { return v.kind }
func (v *ListView) Roles() auth.Roles { return v.roles }

// Unmount stops the view from applying results still in flight.
func (v *ListView) Unmount() { v.store.Close() }

// gate returns the message shown instead of the list, "" when allowed.
func (v *ListView) gate() string {
	switch v.kind {
	case MyCards:
		if !v.roles.IsLoggedIn {
			return "Please log in to view your business cards."
		}
		if !v.roles.IsBusiness {
			return "You need a business account to view your cards."
		}
	case Favorites:
		if !v.roles.IsLoggedIn {
			return "Please log in to view your favorite cards."
		}
	}
	return ""
}

func (v *ListView) predicate() cards.Predicate {
	switch v.kind {
	case MyCards:
		return cards.OwnedBy(v.roles.UserID)
	case Favorites:
		return cards.LikedBy(v.roles.UserID)
	}
	return cards.MatchesSearch(v.env.Settings.Get().SearchText)
}

func (v *ListView) load(ctx context.Context, reload bool) error {
	if v.gate() != "" {
		return nil
	}
	var err error
	if reload {
		err = v.store.Reload(ctx)
	} else {
		err = v.store.Load(ctx)
	}
	if err != nil && !errors.Is(err, cards.ErrClosed) {
		log.Printf("[views] %s: load cards: %v", v.kind, err)
		v.env.oops(ctx)
	}
	return err
}

// Refresh reloads the list from the backend.
func (v *ListView) Refresh(ctx context.Context) error { return v.load(ctx, true) }

// Visible is the derived list, recomputed on every call.
func (v *ListView) Visible() []cards.Card {
	if v.gate() != "" {
		return []cards.Card{}
	}
	return v.store.Select(v.predicate())
}

// Render builds the page model.
func (v *ListView) Render() ListPage {
	visible := v.Visible()
	items := make([]Item, len(visible))
	for i, c := range visible {
		manage := v.roles.CanManage(c.UserID)
		items[i] = Item{
			Card:      c,
			Liked:     v.roles.IsLoggedIn && c.LikedBy(v.roles.UserID),
			CanEdit:   manage,
			CanDelete: manage,
		}
	}
	return ListPage{
		Kind:      v.kind,
		State:     v.store.State(),
		Roles:     v.roles,
		Settings:  v.env.Settings.Get(),
		Gate:      v.gate(),
		CanCreate: v.roles.CanCreate(),
		CanLike:   v.roles.IsLoggedIn,
		Cards:     items,
	}
}

// ToggleFavorite flips the like of the current user, then reloads. Logged
// out it does nothing and makes no call.
func (v *ListView) ToggleFavorite(ctx context.Context, cardID string) error {
	if !v.roles.IsLoggedIn {
		return ErrNotLoggedIn
	}
	if _, err := v.env.Cards.ToggleFavorite(ctx, cardID); err != nil {
		log.Printf("[views] %s: toggle favorite %s: %v", v.kind, cardID, err)
		v.env.oops(ctx)
		return err
	}
	v.Refresh(ctx)
	return nil
}

// Delete asks for confirmation, deletes the card and reloads. A failed
// delete leaves the list as it was.
func (v *ListView) Delete(ctx context.Context, cardID string, confirm notify.Confirmer) error {
	if !v.roles.IsLoggedIn {
		return ErrNotLoggedIn
	}
	if !v.roles.CanManage(v.ownerOf(cardID)) {
		return ErrForbidden
	}

	theme := v.env.theme()
	ask := notify.Notice{
		Title:   "Are you sure?",
		Text:    "Once deleted, you will not be able to recover this card!",
		Icon:    notify.IconWarning,
		Theme:   theme,
		Confirm: true,
	}
	if !confirm.Confirm(ctx, ask) {
		return ErrCancelled
	}

	if err := v.env.Cards.Delete(ctx, cardID); err != nil {
		log.Printf("[views] %s: delete %s: %v", v.kind, cardID, err)
		v.env.oops(ctx)
		return err
	}
	v.Refresh(ctx)
	v.env.notify(ctx, notify.Success("Deleted!", "Your card has been deleted.", theme))
	return nil
}

func (v *ListView) ownerOf(cardID string) string {
	for _, c := range v.store.Cards() {
		if c.ID == cardID {
			return c.UserID
		}
	}
	return ""
}
