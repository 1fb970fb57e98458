package storage

import (
	"context"
	"sync"

	"greenspark-backend/internal/models"
)

// Memory keeps everything in process. Used for local runs and tests.
type Memory struct {
	mu        sync.RWMutex
	users     map[string]models.User
	byEmail   map[string]string
	campaigns []models.Campaign
}

func NewMemory() *Memory {
	return &Memory{
		users:   make(map[string]models.User),
		byEmail: make(map[string]string),
	}
}

func (m *Memory) CreateUser(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byEmail[user.Email]; ok {
		return ErrEmailTaken
	}
	m.users[user.ID] = *user
	m.byEmail[user.Email] = user.ID
	return nil
}

func (m *Memory) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.byEmail[email]
	if !ok {
		return nil, ErrUserNotFound
	}
	user := m.users[id]
	return &user, nil
}

func (m *Memory) GetUser(_ context.Context, id string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	user, ok := m.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return &user, nil
}

func (m *Memory) CreateCampaign(_ context.Context, c *models.Campaign) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.campaigns = append(m.campaigns, *c)
	return nil
}

func (m *Memory) ListCampaigns(_ context.Context) ([]models.Campaign, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.Campaign, len(m.campaigns))
	copy(out, m.campaigns)
	return out, nil
}

// DeleteUser is not part of Store. Tests use it to simulate an account that
// disappears while a session for it is still live.
func (m *Memory) DeleteUser(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if user, ok := m.users[id]; ok {
		delete(m.byEmail, user.Email)
		delete(m.users, id)
	}
}

func (m *Memory) Ping(context.Context) error { return nil }

func (m *Memory) Close() error { return nil }
