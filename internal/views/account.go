package views

import (
	"context"
	"log"

	"bizcards/internal/auth"
	"bizcards/internal/notify"
	"bizcards/internal/users"
)

// Login validates the credentials, exchanges them for a token and stores it.
func Login(ctx context.Context, env Env, c users.Credentials) error {
	if err := c.Validate(); err != nil {
		return err
	}
	tok, err := env.Users.Login(ctx, c)
	if err != nil {
		log.Printf("[views] login %s: %v", c.Email, err)
		env.notify(ctx, notify.Failure("Oops...", "Something went wrong. Try again", env.theme()))
		return err
	}
	if err := env.Tokens.SetToken(ctx, tok); err != nil {
		log.Printf("[views] login: store token: %v", err)
		env.oops(ctx)
		return err
	}
	env.notify(ctx, notify.Success("Welcome!", "Enjoy your stay!", env.theme()))
	return nil
}

// Register validates the sign-up form and creates the account. The user is
// not logged in afterwards.
func Register(ctx context.Context, env Env, form users.RegisterForm) (*users.User, error) {
	reg, err := form.Registration()
	if err != nil {
		return nil, err
	}
	u, err := env.Users.Register(ctx, reg)
	if err != nil {
		log.Printf("[views] register %s: %v", reg.Email, err)
		env.oops(ctx)
		return nil, err
	}
	env.notify(ctx, notify.Success("Welcome!", "You signed up successfully! Login to test your new user", env.theme()))
	return u, nil
}

// ProfilePage is the profile page with its pre-filled edit form.
type ProfilePage struct {
	User  users.User        `json:"user"`
	Form  users.ProfileForm `json:"form"`
	Roles auth.Roles        `json:"roles"`
}

// Profile is the logged-in user's own account page.
type Profile struct {
	env   Env
	roles auth.Roles
	user  *users.User
}

func MountProfile(ctx context.Context, env Env) (*Profile, error) {
	p := &Profile{env: env, roles: auth.Snapshot(ctx, env.Tokens)}
	if !p.roles.IsLoggedIn {
		return nil, ErrNotLoggedIn
	}
	if err := p.load(ctx); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Profile) load(ctx context.Context) error {
	u, err := p.env.Users.GetByID(ctx, p.roles.UserID)
	if err != nil {
		log.Printf("[views] profile %s: %v", p.roles.UserID, err)
		p.env.oops(ctx)
		return err
	}
	p.user = u
	return nil
}

func (p *Profile) Render() ProfilePage {
	return ProfilePage{User: *p.user, Form: users.ProfileFormFrom(*p.user), Roles: p.roles}
}

// Update saves name, phone, image and address, then reloads the user.
func (p *Profile) Update(ctx context.Context, form users.ProfileForm) error {
	upd, err := form.Update()
	if err != nil {
		return err
	}
	if _, err := p.env.Users.Update(ctx, p.roles.UserID, upd); err != nil {
		log.Printf("[views] update profile %s: %v", p.roles.UserID, err)
		p.env.oops(ctx)
		return err
	}
	p.env.notify(ctx, notify.Success("Success!", "Your profile has been updated successfully!", p.env.theme()))
	return p.load(ctx)
}

// ListUsers is the admin sandbox table.
func ListUsers(ctx context.Context, env Env) ([]users.User, error) {
	roles := auth.Snapshot(ctx, env.Tokens)
	if !roles.IsLoggedIn {
		return nil, ErrNotLoggedIn
	}
	if !roles.IsAdmin {
		return nil, ErrForbidden
	}
	us, err := env.Users.List(ctx)
	if err != nil {
		log.Printf("[views] list users: %v", err)
		env.oops(ctx)
		return nil, err
	}
	return us, nil
}
