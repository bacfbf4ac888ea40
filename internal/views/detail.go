package views

import (
	"context"
	"log"

	"bizcards/internal/auth"
	"bizcards/internal/cards"
	"bizcards/internal/geocode"
	"bizcards/internal/notify"
)

// DetailPage is the single-card page with its map pin.
type DetailPage struct {
	Card      cards.Card        `json:"card"`
	Position  *geocode.Position `json:"position,omitempty"`
	Roles     auth.Roles        `json:"roles"`
	Liked     bool              `json:"liked"`
	CanEdit   bool              `json:"canEdit"`
	CanDelete bool              `json:"canDelete"`
}

// CardDetail loads one card and, best effort, its map position. A failed
// geocode only shows a warning.
func CardDetail(ctx context.Context, env Env, id string) (*DetailPage, error) {
	roles := auth.Snapshot(ctx, env.Tokens)
	c, err := env.Cards.GetByID(ctx, id)
	if err != nil {
		log.Printf("[views] card %s: %v", id, err)
		env.oops(ctx)
		return nil, err
	}

	manage := roles.CanManage(c.UserID)
	page := &DetailPage{
		Card:      *c,
		Roles:     roles,
		Liked:     roles.IsLoggedIn && c.LikedBy(roles.UserID),
		CanEdit:   manage,
		CanDelete: manage,
	}

	if env.Geocoder != nil && c.Address.City != "" {
		pos, err := env.Geocoder.Locate(ctx, c.Address)
		if err != nil {
			log.Printf("[views] card %s: locate: %v", id, err)
			env.notify(ctx, notify.Warning("Location not found", "Could not find the address on the map", env.theme()))
		} else {
			page.Position = pos
		}
	}
	return page, nil
}
