package cards

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"bizcards/internal/auth"
	"bizcards/pkg/rest"
)

// ErrNotFound is returned by GetByID for any non-2xx answer.
var ErrNotFound = errors.New("card not found")

// Repository is the network façade for cards. It never caches.
type Repository interface {
	ListAll(ctx context.Context) ([]Card, error)
	GetByID(ctx context.Context, id string) (*Card, error)
	Create(ctx context.Context, in Input) (*Card, error)
	Update(ctx context.Context, id string, in Input) (*Card, error)
	Delete(ctx context.Context, id string) error
	ToggleFavorite(ctx context.Context, id string) (*Card, error)
}

// HTTPRepository implements Repository against the REST backend, reading
// the bearer token from the session's token store on every authenticated call.
type HTTPRepository struct {
	api    *rest.Client
	tokens auth.TokenStore
}

// NewHTTPRepository wires a repository to the backend client and a session's tokens.
func NewHTTPRepository(api *rest.Client, tokens auth.TokenStore) *HTTPRepository {
	return &HTTPRepository{api: api, tokens: tokens}
}

func cardPath(id string) string { return "/cards/" + url.PathEscape(id) }

// authed attaches the stored token; a missing token is sent as an empty header.
func (r *HTTPRepository) authed(ctx context.Context) (rest.Auth, error) {
	tok, err := r.tokens.Token(ctx)
	if err != nil {
		return rest.Auth{}, fmt.Errorf("read token: %w", err)
	}
	return rest.WithToken(tok), nil
}

func (r *HTTPRepository) ListAll(ctx context.Context) ([]Card, error) {
	var out []Card
	if err := r.api.JSON(ctx, http.MethodGet, "/cards", rest.NoAuth, nil, &out); err != nil {
		return nil, err
	}
	for i := range out {
		out[i].normalize()
	}
	return out, nil
}

func (r *HTTPRepository) GetByID(ctx context.Context, id string) (*Card, error) {
	var c Card
	err := r.api.JSON(ctx, http.MethodGet, cardPath(id), rest.NoAuth, nil, &c)
	var se *rest.StatusError
	if errors.As(err, &se) {
		return nil, fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	if err != nil {
		return nil, err
	}
	c.normalize()
	return &c, nil
}

func (r *HTTPRepository) Create(ctx context.Context, in Input) (*Card, error) {
	return r.send(ctx, http.MethodPost, "/cards", in)
}

func (r *HTTPRepository) Update(ctx context.Context, id string, in Input) (*Card, error) {
	return r.send(ctx, http.MethodPut, cardPath(id), in)
}

// ToggleFavorite flips the caller's membership in the card's likes.
// Each call flips again; it is not idempotent.
func (r *HTTPRepository) ToggleFavorite(ctx context.Context, id string) (*Card, error) {
	return r.send(ctx, http.MethodPatch, cardPath(id), struct{}{})
}

func (r *HTTPRepository) Delete(ctx context.Context, id string) error {
	a, err := r.authed(ctx)
	if err != nil {
		return err
	}
	_, err = r.api.Do(ctx, http.MethodDelete, cardPath(id), a, nil)
	return err
}

func (r *HTTPRepository) send(ctx context.Context, method, path string, body any) (*Card, error) {
	a, err := r.authed(ctx)
	if err != nil {
		return nil, err
	}
	var c Card
	if err := r.api.JSON(ctx, method, path, a, body, &c); err != nil {
		return nil, err
	}
	c.normalize()
	return &c, nil
}
