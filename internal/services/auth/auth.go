// Package auth содержит контроллер сессии: вход, регистрацию, выход и
// оформление подписки поверх реестра пользователей.
//
// Контроллер владеет единственным слотом активной сессии. Сессия — проекция
// записи реестра без секретов; она сохраняется в локальном хранилище отдельно
// от реестра и восстанавливается при старте процесса.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/recipestreet/recipe-street/internal/lib/jwt"
	"github.com/recipestreet/recipe-street/internal/lib/password"
	"github.com/recipestreet/recipe-street/internal/lib/sl"
	"github.com/recipestreet/recipe-street/internal/models"
	"github.com/recipestreet/recipe-street/internal/storage/registry"
)

// SessionKey — ключ хранилища с записью активной сессии.
const SessionKey = "recipe_street_session"

var (
	// ErrInvalidCredentials — неизвестная почта или неверный пароль.
	// Вход всегда закрывается без уточнения причины.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrMissingFields — при регистрации передан пустой аргумент.
	ErrMissingFields = errors.New("email, password and name are required")
	// ErrNoActiveSession — операция требует выполненного входа.
	ErrNoActiveSession = errors.New("no active session")
)

// UserRegistry описывает контракт реестра, нужный контроллеру сессии.
type UserRegistry interface {
	Create(name, email, passwordHash string) (*models.UserRecord, error)
	FindByEmail(email string) (*models.UserRecord, error)
	TouchLastLogin(email string) error
	SetSubscription(id string, subscribed bool) error
}

// SessionStore описывает контракт хранилища для записи активной сессии.
type SessionStore interface {
	Get(key string, dest any) (bool, error)
	Set(key string, value any) error
	Delete(key string) error
}

// Service — контроллер сессии поверх реестра пользователей.
type Service struct {
	users    UserRegistry
	sessions SessionStore
	jwtMaker jwt.Maker
	log      *slog.Logger

	// loginDelay имитирует сетевую задержку входа и регистрации.
	loginDelay time.Duration

	mu      sync.Mutex
	current *models.SessionRecord
}

// New создает контроллер и восстанавливает сохранённую сессию.
//
// Повреждённая запись сессии не фатальна: процесс стартует разлогиненным.
func New(users UserRegistry, sessions SessionStore, jwtMaker jwt.Maker, log *slog.Logger, loginDelay time.Duration) *Service {
	s := &Service{
		users:      users,
		sessions:   sessions,
		jwtMaker:   jwtMaker,
		log:        log,
		loginDelay: loginDelay,
	}

	var saved models.SessionRecord
	found, err := sessions.Get(SessionKey, &saved)
	switch {
	case err != nil:
		log.Warn("stored session is malformed, starting signed out", sl.Err(err))
	case found:
		s.current = &saved
		log.Info("session restored", slog.String("email", saved.Email))
	}
	return s
}

// IsEmailRegistered сообщает, есть ли в реестре запись с такой почтой.
func (s *Service) IsEmailRegistered(email string) bool {
	_, err := s.users.FindByEmail(email)
	return err == nil
}

// Login выполняет вход по почте и паролю.
//
// Неизвестная почта и неверный пароль неразличимы для вызывающего: обе
// ситуации дают ErrInvalidCredentials, состояние сессии не меняется.
// При успехе обновляется дата последнего входа, сессия замещается новой
// проекцией записи, возвращается JWT для HTTP-слоя.
func (s *Service) Login(ctx context.Context, email, rawPassword string) (*models.SessionRecord, string, error) {
	const op = "auth.Login"

	if err := s.simulateLatency(ctx); err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}

	user, err := s.users.FindByEmail(email)
	if err != nil {
		if errors.Is(err, registry.ErrUserNotFound) {
			return nil, "", fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}
	if err := password.Verify(user.PasswordHash, rawPassword); err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	if err := s.users.TouchLastLogin(user.Email); err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}

	session := models.NewSessionRecord(user)
	if err := s.replaceSession(session); err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}

	token, err := s.jwtMaker.GenerateToken(user.Email, user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("login success", slog.String("email", user.Email))
	return session, token, nil
}

// Signup регистрирует нового пользователя и сразу выполняет вход.
//
// Пустые аргументы отклоняются. Занятая почта возвращает
// registry.ErrEmailTaken — вызывающий должен предложить вход вместо
// регистрации. Шаг подтверждения почты отсутствует.
func (s *Service) Signup(ctx context.Context, email, rawPassword, name string) (*models.SessionRecord, string, error) {
	const op = "auth.Signup"

	if email == "" || rawPassword == "" || name == "" {
		return nil, "", fmt.Errorf("%s: %w", op, ErrMissingFields)
	}

	if err := s.simulateLatency(ctx); err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}

	hash, err := password.Hash(rawPassword)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}

	user, err := s.users.Create(name, email, hash)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}

	session := models.NewSessionRecord(user)
	if err := s.replaceSession(session); err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}

	token, err := s.jwtMaker.GenerateToken(user.Email, user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("signup success", slog.String("email", user.Email))
	return session, token, nil
}

// Logout сбрасывает активную сессию. Реестр не затрагивается.
func (s *Service) Logout() error {
	const op = "auth.Logout"
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.sessions.Delete(SessionKey); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.current = nil
	s.log.Info("session cleared")
	return nil
}

// Subscribe включает подписку у пользователя активной сессии и обновляет
// проекцию на месте.
//
// Без активной сессии операция отклоняется: подписка требует явной
// регистрации, учетная запись с паролем-заглушкой не создается.
func (s *Service) Subscribe(ctx context.Context) (*models.SessionRecord, error) {
	const op = "auth.Subscribe"

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	s.mu.Lock()
	current := s.current
	s.mu.Unlock()
	if current == nil {
		return nil, fmt.Errorf("%s: %w", op, ErrNoActiveSession)
	}

	if err := s.users.SetSubscription(current.UserID, true); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	user, err := s.users.FindByEmail(current.Email)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	session := models.NewSessionRecord(user)
	if err := s.replaceSession(session); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("subscription activated", slog.String("email", user.Email))
	return session, nil
}

// Current возвращает активную сессию или nil, если вход не выполнен.
func (s *Service) Current() *models.SessionRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// replaceSession сохраняет новую сессию в хранилище и в слоте контроллера.
func (s *Service) replaceSession(session *models.SessionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.sessions.Set(SessionKey, session); err != nil {
		return err
	}
	s.current = session
	return nil
}

// simulateLatency выдерживает фиксированную паузу вместо сетевого вызова,
// прерываясь по отмене контекста.
func (s *Service) simulateLatency(ctx context.Context) error {
	if s.loginDelay <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(s.loginDelay):
		return nil
	}
}
