package auth

import (
	"context"
	"log"

	"bizcards/pkg/jwt"
)

// Roles gates which actions a view offers. It is a snapshot taken when a
// view mounts and is not updated while the view stays mounted.
type Roles struct {
	IsLoggedIn bool   `json:"isLoggedIn"`
	IsBusiness bool   `json:"isBusiness"`
	IsAdmin    bool   `json:"isAdmin"`
	UserID     string `json:"userId"`
}

// DeriveRoles maps decoded claims to roles. Nil claims mean logged out.
func DeriveRoles(c *jwt.Claims) Roles {
	if c == nil {
		return Roles{}
	}
	return Roles{
		IsLoggedIn: true,
		IsBusiness: c.IsBusiness,
		IsAdmin:    c.IsAdmin,
		UserID:     c.UserID,
	}
}

// Snapshot reads the stored token and derives roles from it. A storage
// failure is treated like a missing token.
func Snapshot(ctx context.Context, tokens TokenStore) Roles {
	raw, err := tokens.Token(ctx)
	if err != nil {
		log.Printf("[auth] read token: %v", err)
		return Roles{}
	}
	return DeriveRoles(jwt.FromToken(raw))
}

// CanCreate reports whether the "new card" entry point is shown.
func (r Roles) CanCreate() bool {
	return r.IsLoggedIn && (r.IsBusiness || r.IsAdmin)
}

// CanManage reports whether edit/delete controls are shown for a card owned
// by ownerID. Admins manage every card, business users their own.
func (r Roles) CanManage(ownerID string) bool {
	if !r.IsLoggedIn {
		return false
	}
	if r.IsAdmin {
		return true
	}
	return r.IsBusiness && ownerID != "" && ownerID == r.UserID
}
