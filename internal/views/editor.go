package views

import (
	"context"
	"log"

	"bizcards/internal/auth"
	"bizcards/internal/cards"
	"bizcards/internal/notify"
)

// CreateCard validates the form and creates the card. Validation errors are
// returned as validation.Errors and nothing is sent.
func CreateCard(ctx context.Context, env Env, form cards.Form) (*cards.Card, error) {
	roles := auth.Snapshot(ctx, env.Tokens)
	if !roles.IsLoggedIn {
		return nil, ErrNotLoggedIn
	}
	if !roles.CanCreate() {
		return nil, ErrForbidden
	}
	in, err := form.Input()
	if err != nil {
		return nil, err
	}

	c, err := env.Cards.Create(ctx, in)
	if err != nil {
		log.Printf("[views] create card: %v", err)
		env.notify(ctx, notify.Failure("Something went wrong...", "Card couldn't be added. Try again", env.theme()))
		return nil, err
	}
	env.notify(ctx, notify.Success("Success!", "Card added successfully", env.theme()))
	return c, nil
}

// EditForm loads a card and pre-fills the edit form.
func EditForm(ctx context.Context, env Env, id string) (*cards.Form, error) {
	c, err := env.Cards.GetByID(ctx, id)
	if err != nil {
		log.Printf("[views] edit card %s: %v", id, err)
		env.oops(ctx)
		return nil, err
	}
	f := cards.FormFrom(*c)
	return &f, nil
}

// UpdateCard validates the form and saves it over card id.
func UpdateCard(ctx context.Context, env Env, id string, form cards.Form) (*cards.Card, error) {
	roles := auth.Snapshot(ctx, env.Tokens)
	if !roles.IsLoggedIn {
		return nil, ErrNotLoggedIn
	}
	in, err := form.Input()
	if err != nil {
		return nil, err
	}

	c, err := env.Cards.Update(ctx, id, in)
	if err != nil {
		log.Printf("[views] update card %s: %v", id, err)
		env.oops(ctx)
		return nil, err
	}
	env.notify(ctx, notify.Success("Success!", "Card updated successfully", env.theme()))
	return c, nil
}
