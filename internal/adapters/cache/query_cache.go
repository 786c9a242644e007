package cache

import (
	"flats-service/internal/core/domain"
	"flats-service/internal/core/port"
	"sync"

	"github.com/google/uuid"
)

// QueryCache - потокобезопасный кэш последних выдач, ключ - сессия.
// Вся семантика, которая тут важна: выход из аккаунта инвалидирует
// кэш сессии целиком, чтобы следующий вход не увидел чужую выдачу.
type QueryCache struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]map[string][]domain.Flat
	logger  port.LoggerPort
}

func NewQueryCache(baseLogger port.LoggerPort) *QueryCache {
	return &QueryCache{
		entries: make(map[uuid.UUID]map[string][]domain.Flat),
		logger:  baseLogger.WithFields(port.Fields{"component": "QueryCache"}),
	}
}

func (c *QueryCache) Get(sessionID uuid.UUID, queryKey string) ([]domain.Flat, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	session, ok := c.entries[sessionID]
	if !ok {
		return nil, false
	}
	flats, ok := session[queryKey]
	return flats, ok
}

func (c *QueryCache) Put(sessionID uuid.UUID, queryKey string, flats []domain.Flat) {
	c.mu.Lock()
	defer c.mu.Unlock()

	session, ok := c.entries[sessionID]
	if !ok {
		session = make(map[string][]domain.Flat)
		c.entries[sessionID] = session
	}
	session[queryKey] = flats
}

// InvalidateSession удаляет все закэшированные выдачи сессии.
func (c *QueryCache) InvalidateSession(sessionID uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, sessionID)
	c.logger.Debug("Session cache invalidated.", port.Fields{"session_id": sessionID.String()})
}
