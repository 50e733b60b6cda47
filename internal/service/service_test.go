package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/wmbogo12/profiles-rest-api/internal/cache"
	"github.com/wmbogo12/profiles-rest-api/internal/crypto"
	"github.com/wmbogo12/profiles-rest-api/internal/model"
	"github.com/wmbogo12/profiles-rest-api/internal/repository"
	"github.com/wmbogo12/profiles-rest-api/internal/serializer"
)

type reverseHasher struct{}

func (reverseHasher) Hash(password string) (string, error) {
	r := []rune(password)
	for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
		r[i], r[j] = r[j], r[i]
	}
	return "rev$" + string(r), nil
}

func (h reverseHasher) Verify(password, hash string) (bool, error) {
	want, _ := h.Hash(password)
	return want == hash, nil
}

type memCache struct {
	mu      sync.Mutex
	entries map[int64]model.UserProfileResponse
	gets    int
}

func newMemCache() *memCache {
	return &memCache{entries: make(map[int64]model.UserProfileResponse)}
}

func (c *memCache) Get(_ context.Context, id int64) (*model.UserProfileResponse, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	p, ok := c.entries[id]
	if !ok {
		return nil, cache.ErrMiss
	}
	return &p, nil
}

func (c *memCache) Set(_ context.Context, p model.UserProfileResponse) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[p.ID] = p
	return nil
}

func (c *memCache) Delete(_ context.Context, id int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, id)
	return nil
}

type published struct {
	topic string
	key   string
	value any
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []published
}

func (p *recordingPublisher) Publish(_ context.Context, topic, key string, value any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, published{topic, key, value})
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) topics() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.topic)
	}
	return out
}

type fixture struct {
	profiles *ProfileService
	feed     *FeedService
	auth     *AuthService
	tokens   *crypto.TokenManager
	repo     *repository.ProfileRepository
	cache    *memCache
	events   *recordingPublisher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := repository.NewDB(repository.DriverSQLite, ":memory:")
	if err != nil {
		t.Fatalf("NewDB() unexpected error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := repository.Migrate(context.Background(), db, repository.DriverSQLite); err != nil {
		t.Fatalf("Migrate() unexpected error: %v", err)
	}

	repo := repository.NewProfileRepository(db)
	c := newMemCache()
	pub := &recordingPublisher{}
	tokens := crypto.NewTokenManager("test-secret", time.Hour)
	return &fixture{
		profiles: NewProfileService(repo, reverseHasher{}, c, pub),
		feed:     NewFeedService(repository.NewFeedRepository(db), repo, pub),
		auth:     NewAuthService(repo, reverseHasher{}, tokens),
		tokens:   tokens,
		repo:     repo,
		cache:    c,
		events:   pub,
	}
}

func ptr(s string) *string { return &s }

func (f *fixture) register(t *testing.T, email, name, password string) model.UserProfileResponse {
	t.Helper()
	p, err := f.profiles.Create(context.Background(), model.UserProfileInput{
		Email: ptr(email), Name: ptr(name), Password: ptr(password),
	})
	if err != nil {
		t.Fatalf("Create(%s) unexpected error: %v", email, err)
	}
	return p
}

func TestProfileCreate(t *testing.T) {
	f := newFixture(t)

	got := f.register(t, "a@x.com", "Alice", "secret1")
	want := model.UserProfileResponse{ID: 1, Email: "a@x.com", Name: "Alice"}
	if got != want {
		t.Errorf("Create() = %+v, want %+v", got, want)
	}

	stored, err := f.repo.GetByID(context.Background(), got.ID)
	if err != nil {
		t.Fatalf("GetByID() unexpected error: %v", err)
	}
	if stored.PasswordHash == "secret1" || stored.PasswordHash == "" {
		t.Errorf("stored password = %q, want a hash", stored.PasswordHash)
	}

	if topics := f.events.topics(); len(topics) != 1 || topics[0] != "profile.created" {
		t.Errorf("published topics = %v, want [profile.created]", topics)
	}
	if _, ok := f.events.events[0].value.(model.UserProfileResponse); !ok {
		t.Errorf("profile.created payload is %T, want UserProfileResponse", f.events.events[0].value)
	}
}

func TestProfileCreateErrors(t *testing.T) {
	f := newFixture(t)
	f.register(t, "a@x.com", "Alice", "secret1")

	_, err := f.profiles.Create(context.Background(), model.UserProfileInput{
		Email: ptr("a@X.com"), Name: ptr("Again"), Password: ptr("p"),
	})
	if !errors.Is(err, ErrEmailTaken) {
		t.Errorf("Create(duplicate) error = %v, want ErrEmailTaken", err)
	}

	_, err = f.profiles.Create(context.Background(), model.UserProfileInput{Email: ptr("b@x.com")})
	var ve *serializer.ValidationError
	if !errors.As(err, &ve) || len(ve.Fields["name"]) == 0 || len(ve.Fields["password"]) == 0 {
		t.Errorf("Create(incomplete) error = %v, want name and password field errors", err)
	}
}

func TestProfileGetUsesCache(t *testing.T) {
	f := newFixture(t)
	alice := f.register(t, "a@x.com", "Alice", "secret1")
	ctx := context.Background()

	if _, err := f.profiles.Get(ctx, alice.ID); err != nil {
		t.Fatalf("Get() unexpected error: %v", err)
	}
	if _, ok := f.cache.entries[alice.ID]; !ok {
		t.Fatal("Get() did not populate the cache")
	}

	f.cache.entries[alice.ID] = model.UserProfileResponse{ID: alice.ID, Email: "a@x.com", Name: "cached"}
	got, _ := f.profiles.Get(ctx, alice.ID)
	if got.Name != "cached" {
		t.Errorf("Get() Name = %q, want the cached value", got.Name)
	}

	if _, err := f.profiles.Get(ctx, 404); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(404) error = %v, want ErrNotFound", err)
	}
}

func TestProfileUpdatePermissions(t *testing.T) {
	f := newFixture(t)
	alice := f.register(t, "a@x.com", "Alice", "secret1")
	bob := f.register(t, "b@x.com", "Bob", "secret2")
	ctx := context.Background()
	in := model.UserProfileInput{Name: ptr("Hacked")}

	tests := []struct {
		name   string
		caller int64
		id     int64
		want   error
	}{
		{name: "anonymous", caller: 0, id: alice.ID, want: ErrNotAuthenticated},
		{name: "other user", caller: bob.ID, id: alice.ID, want: ErrPermissionDenied},
		{name: "missing", caller: alice.ID, id: 99, want: ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := f.profiles.Update(ctx, tt.caller, tt.id, in, true); !errors.Is(err, tt.want) {
				t.Errorf("Update() error = %v, want %v", err, tt.want)
			}
			if err := f.profiles.Delete(ctx, tt.caller, tt.id); !errors.Is(err, tt.want) {
				t.Errorf("Delete() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestProfileUpdateRehashesAndInvalidates(t *testing.T) {
	f := newFixture(t)
	alice := f.register(t, "a@x.com", "Alice", "secret1")
	ctx := context.Background()

	if _, err := f.profiles.Get(ctx, alice.ID); err != nil {
		t.Fatalf("Get() unexpected error: %v", err)
	}

	got, err := f.profiles.Update(ctx, alice.ID, alice.ID, model.UserProfileInput{Password: ptr("newpass")}, true)
	if err != nil {
		t.Fatalf("Update() unexpected error: %v", err)
	}
	if got.Name != "Alice" {
		t.Errorf("Update() Name = %q, want unchanged", got.Name)
	}
	if _, ok := f.cache.entries[alice.ID]; ok {
		t.Error("Update() did not invalidate the cache")
	}

	stored, _ := f.repo.GetByID(ctx, alice.ID)
	if stored.PasswordHash == "newpass" {
		t.Fatal("Update() stored the plaintext password")
	}
	if _, err := f.auth.Login(ctx, model.LoginRequest{Username: "a@x.com", Password: "newpass"}); err != nil {
		t.Errorf("Login() with new password error = %v", err)
	}
	if _, err := f.auth.Login(ctx, model.LoginRequest{Username: "a@x.com", Password: "secret1"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Login() with old password error = %v, want ErrInvalidCredentials", err)
	}
}

func TestProfileFullUpdateRequiresAllFields(t *testing.T) {
	f := newFixture(t)
	alice := f.register(t, "a@x.com", "Alice", "secret1")

	_, err := f.profiles.Update(context.Background(), alice.ID, alice.ID, model.UserProfileInput{Name: ptr("A")}, false)
	var ve *serializer.ValidationError
	if !errors.As(err, &ve) || len(ve.Fields["email"]) == 0 {
		t.Errorf("Update(put, partial body) error = %v, want email field error", err)
	}
}

func TestProfileDeleteCascades(t *testing.T) {
	f := newFixture(t)
	alice := f.register(t, "a@x.com", "Alice", "secret1")
	ctx := context.Background()

	if _, err := f.feed.Create(ctx, alice.ID, model.FeedItemInput{StatusText: ptr("hi")}); err != nil {
		t.Fatalf("feed Create() unexpected error: %v", err)
	}
	if err := f.profiles.Delete(ctx, alice.ID, alice.ID); err != nil {
		t.Fatalf("Delete() unexpected error: %v", err)
	}

	bob := f.register(t, "b@x.com", "Bob", "secret2")
	items, err := f.feed.List(ctx, bob.ID)
	if err != nil {
		t.Fatalf("feed List() unexpected error: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("feed after profile delete = %+v, want empty", items)
	}

	topics := strings.Join(f.events.topics(), ",")
	if !strings.Contains(topics, "profile.deleted") {
		t.Errorf("published topics = %s, want profile.deleted", topics)
	}
}

func TestProfileListSearch(t *testing.T) {
	f := newFixture(t)
	f.register(t, "alice@x.com", "Alice", "p")
	f.register(t, "bob@y.com", "Bob", "p")

	all, err := f.profiles.List(context.Background(), "")
	if err != nil || len(all) != 2 {
		t.Fatalf("List() = %v, %v; want 2 profiles", all, err)
	}
	found, err := f.profiles.List(context.Background(), "Y.COM")
	if err != nil || len(found) != 1 || found[0].Name != "Bob" {
		t.Errorf("List(Y.COM) = %v, %v; want Bob", found, err)
	}
}

func TestFeedCreateOwnedByCaller(t *testing.T) {
	f := newFixture(t)
	alice := f.register(t, "a@x.com", "Alice", "p")
	ctx := context.Background()

	in := model.FeedItemInput{StatusText: ptr("hello"), UserProfileID: 999}
	item, err := f.feed.Create(ctx, alice.ID, in)
	if err != nil {
		t.Fatalf("Create() unexpected error: %v", err)
	}
	if item.UserProfile != alice.ID {
		t.Errorf("Create() UserProfile = %d, want %d", item.UserProfile, alice.ID)
	}
	if item.CreatedOn.IsZero() {
		t.Error("Create() CreatedOn not set")
	}

	if _, err := f.feed.Create(ctx, 0, in); !errors.Is(err, ErrNotAuthenticated) {
		t.Errorf("Create(anonymous) error = %v, want ErrNotAuthenticated", err)
	}
	if _, err := f.feed.Create(ctx, 77, in); !errors.Is(err, ErrNotAuthenticated) {
		t.Errorf("Create(unknown caller) error = %v, want ErrNotAuthenticated", err)
	}
	var ve *serializer.ValidationError
	if _, err := f.feed.Create(ctx, alice.ID, model.FeedItemInput{}); !errors.As(err, &ve) {
		t.Errorf("Create(no status) error = %v, want ValidationError", err)
	}
}

func TestFeedOwnership(t *testing.T) {
	f := newFixture(t)
	alice := f.register(t, "a@x.com", "Alice", "p")
	bob := f.register(t, "b@x.com", "Bob", "p")
	ctx := context.Background()

	item, err := f.feed.Create(ctx, alice.ID, model.FeedItemInput{StatusText: ptr("mine")})
	if err != nil {
		t.Fatalf("Create() unexpected error: %v", err)
	}

	if _, err := f.feed.Get(ctx, bob.ID, item.ID); err != nil {
		t.Errorf("Get() by other user error = %v, want nil", err)
	}
	if _, err := f.feed.Get(ctx, 0, item.ID); !errors.Is(err, ErrNotAuthenticated) {
		t.Errorf("Get(anonymous) error = %v, want ErrNotAuthenticated", err)
	}
	if _, err := f.feed.Update(ctx, bob.ID, item.ID, model.FeedItemInput{StatusText: ptr("x")}, true); !errors.Is(err, ErrPermissionDenied) {
		t.Errorf("Update() by other user error = %v, want ErrPermissionDenied", err)
	}
	if err := f.feed.Delete(ctx, bob.ID, item.ID); !errors.Is(err, ErrPermissionDenied) {
		t.Errorf("Delete() by other user error = %v, want ErrPermissionDenied", err)
	}

	updated, err := f.feed.Update(ctx, alice.ID, item.ID, model.FeedItemInput{StatusText: ptr("edited")}, false)
	if err != nil {
		t.Fatalf("Update() by owner unexpected error: %v", err)
	}
	if updated.StatusText != "edited" || !updated.CreatedOn.Equal(item.CreatedOn) {
		t.Errorf("Update() = %+v", updated)
	}

	if err := f.feed.Delete(ctx, alice.ID, item.ID); err != nil {
		t.Fatalf("Delete() by owner unexpected error: %v", err)
	}
	if _, err := f.feed.Get(ctx, alice.ID, item.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(deleted) error = %v, want ErrNotFound", err)
	}
}

func TestLogin(t *testing.T) {
	f := newFixture(t)
	alice := f.register(t, "Alice@Example.com", "Alice", "secret1")
	ctx := context.Background()

	tests := []struct {
		name string
		req  model.LoginRequest
		want error
	}{
		{name: "username field", req: model.LoginRequest{Username: "Alice@example.com", Password: "secret1"}},
		{name: "email field", req: model.LoginRequest{Email: "Alice@EXAMPLE.com", Password: "secret1"}},
		{name: "wrong password", req: model.LoginRequest{Username: "Alice@example.com", Password: "nope"}, want: ErrInvalidCredentials},
		{name: "unknown email", req: model.LoginRequest{Username: "who@example.com", Password: "secret1"}, want: ErrInvalidCredentials},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := f.auth.Login(ctx, tt.req)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Login() error = %v, want %v", err, tt.want)
			}
			if tt.want != nil {
				return
			}
			id, err := f.tokens.Verify(resp.Token)
			if err != nil || id != alice.ID {
				t.Errorf("token resolves to %d, %v; want %d", id, err, alice.ID)
			}
		})
	}

	var ve *serializer.ValidationError
	if _, err := f.auth.Login(ctx, model.LoginRequest{}); !errors.As(err, &ve) {
		t.Errorf("Login(empty) error = %v, want ValidationError", err)
	}
}
