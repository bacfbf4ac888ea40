package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"bizcards/internal/cards"
	"bizcards/internal/notify"
	"bizcards/internal/session"
	"bizcards/internal/users"
	"bizcards/internal/views"
	"bizcards/pkg/validation"
)

// Handler exposes the page actions of a session over HTTP.
type Handler struct {
	hub *notify.Hub
}

// NewHandler wires a handler to the notification hub. hub may be nil.
func NewHandler(hub *notify.Hub) *Handler { return &Handler{hub: hub} }

// Routes returns a chi.Router with all page routes. It expects WithSession
// to run first.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/nav", h.Nav)
	r.Post("/nav/search", h.Search)
	r.Post("/nav/home", h.GoHome)
	r.Post("/nav/theme", h.ToggleTheme)
	r.Post("/nav/logout", h.Logout)

	r.Post("/login", h.Login)
	r.Post("/register", h.Register)
	r.Get("/profile", h.Profile)
	r.Put("/profile", h.UpdateProfile)
	r.Get("/users", h.Users)

	r.Route("/views/{kind}", func(r chi.Router) {
		r.Get("/", h.MountView)
		r.Post("/refresh", h.RefreshView)
		r.Post("/cards/{id}/like", h.Like)
		r.Delete("/cards/{id}", h.Delete)
	})

	r.Post("/cards", h.CreateCard)
	r.Get("/cards/{id}", h.CardDetail)
	r.Get("/cards/{id}/form", h.EditForm)
	r.Put("/cards/{id}", h.UpdateCard)

	r.Get("/notices", h.Notices)

	return r
}

func current(r *http.Request) *session.Session { return FromContext(r.Context()) }

// cardID reads and checks the {id} route parameter.
func cardID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := chi.URLParam(r, "id")
	if !validation.ValidateID(id) {
		writeError(w, http.StatusBadRequest, "invalid card id")
		return "", false
	}
	return id, true
}

func kindOf(w http.ResponseWriter, r *http.Request) (views.Kind, bool) {
	k, ok := views.ParseKind(chi.URLParam(r, "kind"))
	if !ok {
		writeError(w, http.StatusNotFound, "unknown view")
	}
	return k, ok
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return false
	}
	return true
}

// ── navbar ──

func (h *Handler) Nav(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, views.MountNavbar(r.Context(), current(r).Env).Render())
}

func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if !decode(w, r, &req) {
		return
	}
	nav := views.MountNavbar(r.Context(), current(r).Env)
	nav.SetSearch(req.Text)
	writeJSON(w, http.StatusOK, nav.Render())
}

func (h *Handler) GoHome(w http.ResponseWriter, r *http.Request) {
	nav := views.MountNavbar(r.Context(), current(r).Env)
	nav.GoHome()
	writeJSON(w, http.StatusOK, nav.Render())
}

func (h *Handler) ToggleTheme(w http.ResponseWriter, r *http.Request) {
	nav := views.MountNavbar(r.Context(), current(r).Env)
	nav.ToggleTheme()
	writeJSON(w, http.StatusOK, nav.Render())
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	env := current(r).Env
	confirm := confirmFrom(r)
	err := views.MountNavbar(r.Context(), env).Logout(r.Context(), confirm)
	if errors.Is(err, views.ErrCancelled) {
		confirm.needConfirm(w)
		return
	}
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, views.MountNavbar(r.Context(), env).Render())
}

// ── account ──

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req users.Credentials
	if !decode(w, r, &req) {
		return
	}
	env := current(r).Env
	if err := views.Login(r.Context(), env, req); err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, views.MountNavbar(r.Context(), env).Render())
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req users.RegisterForm
	if !decode(w, r, &req) {
		return
	}
	u, err := views.Register(r.Context(), current(r).Env, req)
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	p, err := views.MountProfile(r.Context(), current(r).Env)
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p.Render())
}

func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req users.ProfileForm
	if !decode(w, r, &req) {
		return
	}
	p, err := views.MountProfile(r.Context(), current(r).Env)
	if err != nil {
		fail(w, err)
		return
	}
	if err := p.Update(r.Context(), req); err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p.Render())
}

func (h *Handler) Users(w http.ResponseWriter, r *http.Request) {
	us, err := views.ListUsers(r.Context(), current(r).Env)
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, us)
}

// ── card lists ──

// MountView mounts the list page afresh: roles are read and cards fetched now.
func (h *Handler) MountView(w http.ResponseWriter, r *http.Request) {
	kind, ok := kindOf(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, current(r).Mount(r.Context(), kind).Render())
}

func (h *Handler) RefreshView(w http.ResponseWriter, r *http.Request) {
	kind, ok := kindOf(w, r)
	if !ok {
		return
	}
	v := current(r).List(r.Context(), kind)
	v.Refresh(r.Context())
	writeJSON(w, http.StatusOK, v.Render())
}

func (h *Handler) Like(w http.ResponseWriter, r *http.Request) {
	kind, ok := kindOf(w, r)
	if !ok {
		return
	}
	id, ok := cardID(w, r)
	if !ok {
		return
	}
	v := current(r).List(r.Context(), kind)
	if err := v.ToggleFavorite(r.Context(), id); err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v.Render())
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	kind, ok := kindOf(w, r)
	if !ok {
		return
	}
	id, ok := cardID(w, r)
	if !ok {
		return
	}
	v := current(r).List(r.Context(), kind)
	confirm := confirmFrom(r)
	err := v.Delete(r.Context(), id, confirm)
	if errors.Is(err, views.ErrCancelled) {
		confirm.needConfirm(w)
		return
	}
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v.Render())
}

// ── single cards ──

func (h *Handler) CardDetail(w http.ResponseWriter, r *http.Request) {
	id, ok := cardID(w, r)
	if !ok {
		return
	}
	page, err := views.CardDetail(r.Context(), current(r).Env, id)
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (h *Handler) EditForm(w http.ResponseWriter, r *http.Request) {
	id, ok := cardID(w, r)
	if !ok {
		return
	}
	f, err := views.EditForm(r.Context(), current(r).Env, id)
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, f)
}

func (h *Handler) CreateCard(w http.ResponseWriter, r *http.Request) {
	var req cards.Form
	if !decode(w, r, &req) {
		return
	}
	c, err := views.CreateCard(r.Context(), current(r).Env, req)
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (h *Handler) UpdateCard(w http.ResponseWriter, r *http.Request) {
	id, ok := cardID(w, r)
	if !ok {
		return
	}
	var req cards.Form
	if !decode(w, r, &req) {
		return
	}
	c, err := views.UpdateCard(r.Context(), current(r).Env, id, req)
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// Notices returns the notices queued while no socket was connected.
func (h *Handler) Notices(w http.ResponseWriter, r *http.Request) {
	if h.hub == nil {
		writeJSON(w, http.StatusOK, []notify.Notice{})
		return
	}
	writeJSON(w, http.StatusOK, h.hub.Drain(current(r).ID))
}
