package auth

import (
	"sync"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

// StaticAuthenticator — конфигурируемая реализация Authenticator для
// локальной разработки и тестов: принципалы регистрируются по токену.
type StaticAuthenticator struct {
	mu     sync.RWMutex
	tokens map[string]domain.Principal

	AuthenticateCalls int
}

// NewStaticAuthenticator возвращает аутентификатор без известных токенов.
func NewStaticAuthenticator() *StaticAuthenticator {
	return &StaticAuthenticator{tokens: make(map[string]domain.Principal)}
}

// Register связывает токен с принципалом.
func (a *StaticAuthenticator) Register(token string, principal domain.Principal) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.tokens[token] = principal
}

// Authenticate возвращает принципала по токену или ErrUnauthenticated.
func (a *StaticAuthenticator) Authenticate(token string) (domain.Principal, error) {
	a.mu.Lock()
	a.AuthenticateCalls++
	principal, ok := a.tokens[token]
	a.mu.Unlock()

	if !ok {
		return domain.Principal{}, domain.ErrUnauthenticated
	}
	return principal, nil
}

var _ domain.Authenticator = (*StaticAuthenticator)(nil)
