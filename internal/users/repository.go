package users

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"bizcards/internal/auth"
	"bizcards/pkg/rest"
)

// Repository is the network façade for users.
type Repository interface {
	Login(ctx context.Context, c Credentials) (string, error)
	Register(ctx context.Context, r Registration) (*User, error)
	List(ctx context.Context) ([]User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	Update(ctx context.Context, id string, u ProfileUpdate) (*User, error)
}

// HTTPRepository implements Repository against the REST backend.
type HTTPRepository struct {
	api    *rest.Client
	tokens auth.TokenStore
}

func NewHTTPRepository(api *rest.Client, tokens auth.TokenStore) *HTTPRepository {
	return &HTTPRepository{api: api, tokens: tokens}
}

func userPath(id string) string { return "/users/" + url.PathEscape(id) }

// Login returns the bearer token. The backend answers with the bare token
// string; a JSON-quoted string is accepted too.
func (r *HTTPRepository) Login(ctx context.Context, c Credentials) (string, error) {
	resp, err := r.api.Do(ctx, http.MethodPost, "/users/login", rest.NoAuth, c)
	if err != nil {
		return "", err
	}
	tok := strings.TrimSpace(string(resp.Body))
	if strings.HasPrefix(tok, `"`) {
		var s string
		if err := json.Unmarshal([]byte(tok), &s); err != nil {
			return "", fmt.Errorf("decode token: %w", err)
		}
		tok = s
	}
	if tok == "" {
		return "", fmt.Errorf("login: empty token")
	}
	return tok, nil
}

func (r *HTTPRepository) Register(ctx context.Context, reg Registration) (*User, error) {
	resp, err := r.api.Do(ctx, http.MethodPost, "/users", rest.NoAuth, reg)
	if err != nil {
		return nil, err
	}
	// anything but 201 counts as a failed sign-up
	if resp.Status != http.StatusCreated {
		return nil, &rest.StatusError{Method: http.MethodPost, Path: "/users", Status: resp.Status, Body: string(resp.Body)}
	}
	var u User
	if len(resp.Body) > 0 {
		if err := json.Unmarshal(resp.Body, &u); err != nil {
			return nil, fmt.Errorf("decode user: %w", err)
		}
	}
	u.Password = ""
	return &u, nil
}

func (r *HTTPRepository) List(ctx context.Context) ([]User, error) {
	a, err := r.authed(ctx)
	if err != nil {
		return nil, err
	}
	var out []User
	if err := r.api.JSON(ctx, http.MethodGet, "/users", a, nil, &out); err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Password = ""
	}
	return out, nil
}

func (r *HTTPRepository) GetByID(ctx context.Context, id string) (*User, error) {
	return r.one(ctx, http.MethodGet, userPath(id), nil)
}

func (r *HTTPRepository) Update(ctx context.Context, id string, u ProfileUpdate) (*User, error) {
	return r.one(ctx, http.MethodPut, userPath(id), u)
}

func (r *HTTPRepository) one(ctx context.Context, method, path string, body any) (*User, error) {
	a, err := r.authed(ctx)
	if err != nil {
		return nil, err
	}
	var u User
	if err := r.api.JSON(ctx, method, path, a, body, &u); err != nil {
		return nil, err
	}
	// password is write-only
	u.Password = ""
	return &u, nil
}

func (r *HTTPRepository) authed(ctx context.Context) (rest.Auth, error) {
	tok, err := r.tokens.Token(ctx)
	if err != nil {
		return rest.Auth{}, fmt.Errorf("read token: %w", err)
	}
	return rest.WithToken(tok), nil
}
