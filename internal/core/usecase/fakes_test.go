package usecase

import (
	"context"
	"time"

	"flats-service/internal/core/domain"

	"github.com/google/uuid"
)

// Простые in-memory фейки для портов ядра.

type fakeUserRepo struct {
	usersByEmail map[string]*domain.User
	createErr    error
	findByIDErr  error
	created      []*domain.User
	displayNames map[uuid.UUID]string
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		usersByEmail: make(map[string]*domain.User),
		displayNames: make(map[uuid.UUID]string),
	}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *domain.User) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.usersByEmail[user.Email] = user
	r.created = append(r.created, user)
	return nil
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.usersByEmail[email], nil
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if r.findByIDErr != nil {
		return nil, r.findByIDErr
	}
	for _, user := range r.usersByEmail {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) UpdateDisplayName(ctx context.Context, id uuid.UUID, displayName string) error {
	r.displayNames[id] = displayName
	return nil
}

type fakeTokenService struct {
	token       string
	generateErr error
	claims      *domain.Claims
	validateErr error
}

func (s *fakeTokenService) GenerateToken(ctx context.Context, user *domain.User, ttl time.Duration) (string, error) {
	if s.generateErr != nil {
		return "", s.generateErr
	}
	return s.token, nil
}

func (s *fakeTokenService) ValidateToken(ctx context.Context, tokenString string) (*domain.Claims, error) {
	if s.validateErr != nil {
		return nil, s.validateErr
	}
	return s.claims, nil
}

type setCall struct {
	userID       uuid.UUID
	notification domain.Notification
}

type fakeNotifier struct {
	setCalls []setCall
}

func (n *fakeNotifier) Set(ctx context.Context, userID uuid.UUID, notification domain.Notification) {
	n.setCalls = append(n.setCalls, setCall{userID: userID, notification: notification})
}

func (n *fakeNotifier) Dismiss(ctx context.Context, userID uuid.UUID) {}

func (n *fakeNotifier) Current(userID uuid.UUID) (domain.Notification, bool) {
	if len(n.setCalls) == 0 {
		return domain.Notification{}, false
	}
	return n.setCalls[len(n.setCalls)-1].notification, true
}

type fakeFlatStorage struct {
	flats     map[string][]domain.Flat // ключ - query.Key()
	err       error
	findCalls []domain.FlatQuery
}

func newFakeFlatStorage() *fakeFlatStorage {
	return &fakeFlatStorage{flats: make(map[string][]domain.Flat)}
}

func (s *fakeFlatStorage) Find(ctx context.Context, query domain.FlatQuery) ([]domain.Flat, error) {
	s.findCalls = append(s.findCalls, query)
	if s.err != nil {
		return nil, s.err
	}
	return s.flats[query.Key()], nil
}

func (s *fakeFlatStorage) Upsert(ctx context.Context, flat domain.Flat) error {
	if s.err != nil {
		return s.err
	}
	s.flats[domain.FlatQuery{}.Key()] = append(s.flats[domain.FlatQuery{}.Key()], flat)
	return nil
}

type fakeFlatCache struct {
	entries     map[uuid.UUID]map[string][]domain.Flat
	invalidated []uuid.UUID
}

func newFakeFlatCache() *fakeFlatCache {
	return &fakeFlatCache{entries: make(map[uuid.UUID]map[string][]domain.Flat)}
}

func (c *fakeFlatCache) Get(sessionID uuid.UUID, queryKey string) ([]domain.Flat, bool) {
	flats, ok := c.entries[sessionID][queryKey]
	return flats, ok
}

func (c *fakeFlatCache) Put(sessionID uuid.UUID, queryKey string, flats []domain.Flat) {
	if c.entries[sessionID] == nil {
		c.entries[sessionID] = make(map[string][]domain.Flat)
	}
	c.entries[sessionID][queryKey] = flats
}

func (c *fakeFlatCache) InvalidateSession(sessionID uuid.UUID) {
	delete(c.entries, sessionID)
	c.invalidated = append(c.invalidated, sessionID)
}

type fakeFlatFeed struct {
	refreshCalls int
}

func (f *fakeFlatFeed) Refresh(ctx context.Context) {
	f.refreshCalls++
}
