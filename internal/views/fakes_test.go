package views

import (
	"context"
	"errors"
	"sync"
	"testing"

	gojwt "github.com/golang-jwt/jwt/v5"

	"bizcards/internal/auth"
	"bizcards/internal/cards"
	"bizcards/internal/geocode"
	"bizcards/internal/notify"
	"bizcards/internal/settings"
	"bizcards/internal/users"
	"bizcards/pkg/validation"
)

var errBackend = errors.New("backend down")

type fakeCards struct {
	mu      sync.Mutex
	cards   []cards.Card
	calls   map[string]int
	created []cards.Input
	failOn  map[string]error
}

func newFakeCards(cs ...cards.Card) *fakeCards {
	return &fakeCards{cards: cs, calls: map[string]int{}, failOn: map[string]error{}}
}

func (f *fakeCards) hit(op string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[op]++
	return f.failOn[op]
}

func (f *fakeCards) count(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *fakeCards) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

func (f *fakeCards) ListAll(context.Context) ([]cards.Card, error) {
	if err := f.hit("ListAll"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]cards.Card(nil), f.cards...), nil
}

func (f *fakeCards) GetByID(_ context.Context, id string) (*cards.Card, error) {
	if err := f.hit("GetByID"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.cards {
		if c.ID == id {
			return &c, nil
		}
	}
	return nil, cards.ErrNotFound
}

func (f *fakeCards) Create(_ context.Context, in cards.Input) (*cards.Card, error) {
	if err := f.hit("Create"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, in)
	return &cards.Card{ID: "new", Title: in.Title, Address: in.Address}, nil
}

func (f *fakeCards) Update(_ context.Context, id string, in cards.Input) (*cards.Card, error) {
	if err := f.hit("Update"); err != nil {
		return nil, err
	}
	return &cards.Card{ID: id, Title: in.Title}, nil
}

func (f *fakeCards) Delete(_ context.Context, id string) error {
	if err := f.hit("Delete"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, c := range f.cards {
		if c.ID == id {
			f.cards = append(f.cards[:i], f.cards[i+1:]...)
			break
		}
	}
	return nil
}

func (f *fakeCards) ToggleFavorite(_ context.Context, id string) (*cards.Card, error) {
	if err := f.hit("ToggleFavorite"); err != nil {
		return nil, err
	}
	return &cards.Card{ID: id}, nil
}

type fakeUsers struct {
	token    string
	user     users.User
	updated  []users.ProfileUpdate
	listed   int
	loginErr error
}

func (f *fakeUsers) Login(context.Context, users.Credentials) (string, error) {
	if f.loginErr != nil {
		return "", f.loginErr
	}
	return f.token, nil
}

func (f *fakeUsers) Register(_ context.Context, r users.Registration) (*users.User, error) {
	return &users.User{ID: "u-new", Name: r.Name, Email: r.Email}, nil
}

func (f *fakeUsers) List(context.Context) ([]users.User, error) {
	f.listed++
	return []users.User{f.user}, nil
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (*users.User, error) {
	if id != f.user.ID {
		return nil, errBackend
	}
	u := f.user
	return &u, nil
}

func (f *fakeUsers) Update(_ context.Context, id string, u users.ProfileUpdate) (*users.User, error) {
	f.updated = append(f.updated, u)
	f.user.Name = u.Name
	f.user.Phone = u.Phone
	out := f.user
	return &out, nil
}

type recorder struct {
	mu      sync.Mutex
	notices []notify.Notice
}

func (r *recorder) Notify(_ context.Context, n notify.Notice) {
	r.mu.Lock()
	r.notices = append(r.notices, n)
	r.mu.Unlock()
}

func (r *recorder) titles() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.notices))
	for i, n := range r.notices {
		out[i] = n.Title
	}
	return out
}

func (r *recorder) last() notify.Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.notices) == 0 {
		return notify.Notice{}
	}
	return r.notices[len(r.notices)-1]
}

type fakeLocator struct {
	pos *geocode.Position
	err error
}

func (f fakeLocator) Locate(context.Context, cards.Address) (*geocode.Position, error) {
	return f.pos, f.err
}

// asking counts confirmation prompts and answers with ok.
type asking struct {
	ok    bool
	asked []notify.Notice
}

func (a *asking) Confirm(_ context.Context, n notify.Notice) bool {
	a.asked = append(a.asked, n)
	return a.ok
}

func isValidation(err error) bool {
	var verrs validation.Errors
	return errors.As(err, &verrs)
}

func signed(t *testing.T, claims gojwt.MapClaims) string {
	t.Helper()
	raw, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatal(err)
	}
	return raw
}

var (
	regular  = gojwt.MapClaims{"_id": "u-reg"}
	business = gojwt.MapClaims{"_id": "u-biz", "isBusiness": true}
	admin    = gojwt.MapClaims{"_id": "u-admin", "isAdmin": true}
)

// newEnv builds an Env logged in with claims (nil for logged out).
func newEnv(t *testing.T, repo *fakeCards, claims gojwt.MapClaims) (Env, *recorder) {
	t.Helper()
	tokens := auth.NewMemoryTokens()
	if claims != nil {
		tokens.SetToken(context.Background(), signed(t, claims))
	}
	rec := &recorder{}
	return Env{
		Cards:    repo,
		Users:    &fakeUsers{},
		Tokens:   tokens,
		Settings: settings.New(),
		Notifier: rec,
	}, rec
}

func sampleCards() []cards.Card {
	return []cards.Card{
		{ID: "c1", Title: "Falafel King", Address: cards.Address{City: "Haifa", Country: "Israel"}, UserID: "u-biz", Likes: []string{"u-reg"}},
		{ID: "c2", Title: "Tel Aviv Bikes", Address: cards.Address{City: "Tel Aviv", Country: "Israel"}, UserID: "u-other", Likes: []string{}},
		{ID: "c3", Title: "Jaffa Print", Description: "posters", Address: cards.Address{City: "Jaffa", Country: "Israel"}, UserID: "u-biz", Likes: []string{"u-biz", "u-reg"}},
	}
}
