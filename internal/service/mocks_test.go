package service

import (
	"context"
	"sync"
	"time"

	"github.com/iliyamo/user-account-service/internal/model"
	"github.com/iliyamo/user-account-service/internal/repository"
)

// --- fakes shared by the service tests ---

type fakeUserStore struct {
	mu        sync.Mutex
	users     map[uint64]model.User
	getErr    error
	updateErr error
}

func newFakeUserStore(users ...model.User) *fakeUserStore {
	f := &fakeUserStore{users: map[uint64]model.User{}}
	for _, u := range users {
		f.users[u.ID] = u
	}
	return f
}

func (f *fakeUserStore) GetByEmail(ctx context.Context, email string) (model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return model.User{}, f.getErr
	}
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, repository.ErrUserNotFound
}

func (f *fakeUserStore) GetByID(ctx context.Context, id uint64) (model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return model.User{}, f.getErr
	}
	u, ok := f.users[id]
	if !ok {
		return model.User{}, repository.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserStore) UpdatePasswordHash(ctx context.Context, id uint64, hash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	u, ok := f.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.PasswordHash = hash
	f.users[id] = u
	return nil
}

type fakeSessionStore struct {
	mu     sync.Mutex
	nextID uint64
	rows   map[string]model.Session // keyed by token fingerprint
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{rows: map[string]model.Session{}}
}

func (f *fakeSessionStore) Create(ctx context.Context, userID uint64, tokenHash string, expiresAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	f.rows[tokenHash] = model.Session{
		ID:        f.nextID,
		UserID:    userID,
		TokenHash: tokenHash,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
	}
	return nil
}

func (f *fakeSessionStore) FindByTokenHash(ctx context.Context, tokenHash string) (model.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.rows[tokenHash]
	if !ok {
		return model.Session{}, repository.ErrSessionNotFound
	}
	return s, nil
}

func (f *fakeSessionStore) DeleteByTokenHash(ctx context.Context, tokenHash string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[tokenHash]; !ok {
		return 0, nil
	}
	delete(f.rows, tokenHash)
	return 1, nil
}

func (f *fakeSessionStore) DeleteAllForUser(ctx context.Context, userID uint64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for hash, s := range f.rows {
		if s.UserID == userID {
			delete(f.rows, hash)
			n++
		}
	}
	return n, nil
}

func (f *fakeSessionStore) InTx(ctx context.Context, fn func(repository.SessionStore) error) error {
	return fn(f)
}

func (f *fakeSessionStore) countForUser(userID uint64) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, s := range f.rows {
		if s.UserID == userID {
			n++
		}
	}
	return n
}

type fakeNotifier struct {
	mu     sync.Mutex
	emails []string
	tokens []string
	err    error
}

func (f *fakeNotifier) SendPasswordReset(ctx context.Context, email, resetToken string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.emails = append(f.emails, email)
	f.tokens = append(f.tokens, resetToken)
	return nil
}

func (f *fakeNotifier) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.emails)
}

type fakeResetMarker struct {
	mu   sync.Mutex
	used map[string]bool
	err  error
}

func newFakeResetMarker() *fakeResetMarker {
	return &fakeResetMarker{used: map[string]bool{}}
}

func (f *fakeResetMarker) MarkUsed(ctx context.Context, fingerprint string, ttl time.Duration) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}
	if f.used[fingerprint] {
		return false, nil
	}
	f.used[fingerprint] = true
	return true, nil
}

func (f *fakeResetMarker) Unmark(ctx context.Context, fingerprint string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	delete(f.used, fingerprint)
	return nil
}
