// Package registry реализует реестр пользователей — единственного владельца
// коллекции записей UserRecord в локальном хранилище. Все мутации проходят
// через реестр и сериализуются, поэтому потерянные обновления между двумя
// конкурирующими писателями исключены внутри одного процесса.
package registry

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/recipestreet/recipe-street/internal/models"
	"github.com/recipestreet/recipe-street/internal/storage/localstore"
)

// UsersKey — ключ хранилища с полным списком записей пользователей.
const UsersKey = "recipe_street_users"

// legacyRegistryKey — ключ старого формата реестра. Остался в данных ранних
// установок, никогда не читается и не пишется.
const legacyRegistryKey = "recipeStreetUserRegistry"

var (
	// ErrEmailTaken — запись с такой почтой уже существует (без учёта регистра).
	ErrEmailTaken = errors.New("email already registered")
	// ErrUserNotFound — запись не найдена; для поиска это штатный результат.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidSnapshot — снимок импорта не является JSON-массивом записей.
	ErrInvalidSnapshot = errors.New("snapshot is not a user list")
)

// Registry — реестр пользователей поверх локального хранилища.
type Registry struct {
	store *localstore.Store
	log   *slog.Logger
	mu    sync.Mutex
	now   func() time.Time
}

// New создает реестр поверх открытого хранилища.
func New(store *localstore.Store, log *slog.Logger) *Registry {
	return &Registry{
		store: store,
		log:   log,
		now:   time.Now,
	}
}

// Create добавляет новую запись с уникальной почтой и возвращает её.
//
// Почта приводится к нижнему регистру и для проверки уникальности, и для
// хранения. Новая запись не подписана и не одобрена, платёжных данных нет.
func (r *Registry) Create(name, email, passwordHash string) (*models.UserRecord, error) {
	const op = "registry.Create"
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.load()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	normalized := strings.ToLower(email)
	for _, u := range users {
		if u.Email == normalized {
			return nil, fmt.Errorf("%s: %w", op, ErrEmailTaken)
		}
	}

	now := r.now().UTC()
	user := models.UserRecord{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        normalized,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		LastLogin:    now,
	}
	users = append(users, user)
	if err := r.save(users); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	r.log.Info("user created",
		slog.String("id", user.ID),
		slog.String("email", user.Email),
	)
	return &user, nil
}

// FindByEmail возвращает запись по почте без учёта регистра.
func (r *Registry) FindByEmail(email string) (*models.UserRecord, error) {
	const op = "registry.FindByEmail"
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.load()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	normalized := strings.ToLower(email)
	for i := range users {
		if users[i].Email == normalized {
			return &users[i], nil
		}
	}
	return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
}

// FindByID возвращает запись по идентификатору.
func (r *Registry) FindByID(id string) (*models.UserRecord, error) {
	const op = "registry.FindByID"
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.load()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	for i := range users {
		if users[i].ID == id {
			return &users[i], nil
		}
	}
	return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
}

// TouchLastLogin обновляет дату последнего входа. Отсутствие записи
// молча игнорируется.
func (r *Registry) TouchLastLogin(email string) error {
	const op = "registry.TouchLastLogin"
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.load()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	normalized := strings.ToLower(email)
	for i := range users {
		if users[i].Email == normalized {
			users[i].LastLogin = r.now().UTC()
			if err := r.save(users); err != nil {
				return fmt.Errorf("%s: %w", op, err)
			}
			return nil
		}
	}
	return nil
}

// SetSubscription устанавливает или снимает подписку вместе с парной датой.
func (r *Registry) SetSubscription(id string, subscribed bool) error {
	const op = "registry.SetSubscription"
	return r.setFlag(op, id, func(u *models.UserRecord, at *time.Time) {
		u.IsSubscribed = subscribed
		u.SubscriptionDate = at
	}, subscribed)
}

// SetApproval устанавливает или снимает одобрение премиум-доступа.
func (r *Registry) SetApproval(id string, approved bool) error {
	const op = "registry.SetApproval"
	return r.setFlag(op, id, func(u *models.UserRecord, at *time.Time) {
		u.IsApproved = approved
		u.ApprovedAt = at
	}, approved)
}

// SetCourseApproval устанавливает или снимает одобрение доступа к курсу.
func (r *Registry) SetCourseApproval(id string, approved bool) error {
	const op = "registry.SetCourseApproval"
	return r.setFlag(op, id, func(u *models.UserRecord, at *time.Time) {
		u.IsCourseApproved = approved
		u.CourseApprovedAt = at
	}, approved)
}

// setFlag применяет единый инвариант флаг/дата: дата ставится ровно при
// установке флага и сбрасывается при снятии.
func (r *Registry) setFlag(op, id string, apply func(*models.UserRecord, *time.Time), on bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.load()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	for i := range users {
		if users[i].ID != id {
			continue
		}
		var at *time.Time
		if on {
			now := r.now().UTC()
			at = &now
		}
		apply(&users[i], at)
		if err := r.save(users); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		return nil
	}
	return fmt.Errorf("%s: %w", op, ErrUserNotFound)
}

// SaveCardInfo сохраняет платёжные метаданные (last4 и адрес) в записи.
func (r *Registry) SaveCardInfo(id string, card models.CardInfo) error {
	const op = "registry.SaveCardInfo"
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.load()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	for i := range users {
		if users[i].ID == id {
			users[i].CardInfo = &card
			if err := r.save(users); err != nil {
				return fmt.Errorf("%s: %w", op, err)
			}
			return nil
		}
	}
	return fmt.Errorf("%s: %w", op, ErrUserNotFound)
}

// Pending возвращает записи, ожидающие одобрения премиум-доступа.
func (r *Registry) Pending() ([]models.UserRecord, error) {
	const op = "registry.Pending"
	return r.filter(op, func(u *models.UserRecord) bool { return !u.IsApproved })
}

// Approved возвращает одобренные записи.
func (r *Registry) Approved() ([]models.UserRecord, error) {
	const op = "registry.Approved"
	return r.filter(op, func(u *models.UserRecord) bool { return u.IsApproved })
}

// All возвращает все записи в порядке добавления.
func (r *Registry) All() ([]models.UserRecord, error) {
	const op = "registry.All"
	return r.filter(op, func(*models.UserRecord) bool { return true })
}

func (r *Registry) filter(op string, keep func(*models.UserRecord) bool) ([]models.UserRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.load()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	result := make([]models.UserRecord, 0, len(users))
	for i := range users {
		if keep(&users[i]) {
			result = append(result, users[i])
		}
	}
	return result, nil
}

// Delete удаляет запись. Возвращает true, если запись действительно была удалена.
func (r *Registry) Delete(id string) (bool, error) {
	const op = "registry.Delete"
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.load()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	kept := users[:0]
	for _, u := range users {
		if u.ID != id {
			kept = append(kept, u)
		}
	}
	if len(kept) == len(users) {
		return false, nil
	}
	if err := r.save(kept); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	r.log.Info("user deleted", slog.String("id", id))
	return true, nil
}

// Stats считает агрегированную статистику по реестру.
//
// RecentUsers — записи, созданные за последние 30 дней. SubscriptionRate —
// процент подписанных с одним знаком после запятой, "0" при пустом реестре.
func (r *Registry) Stats() (*models.UserStats, error) {
	const op = "registry.Stats"
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.load()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	stats := &models.UserStats{
		TotalUsers:       len(users),
		SubscriptionRate: "0",
	}
	cutoff := r.now().UTC().AddDate(0, 0, -30)
	for _, u := range users {
		if u.IsSubscribed {
			stats.SubscribedUsers++
		}
		if u.CreatedAt.After(cutoff) {
			stats.RecentUsers++
		}
	}
	if stats.TotalUsers > 0 {
		rate := float64(stats.SubscribedUsers) / float64(stats.TotalUsers) * 100
		stats.SubscriptionRate = fmt.Sprintf("%.1f", rate)
	}
	return stats, nil
}

// Export возвращает отформатированный JSON-снимок полного списка записей.
func (r *Registry) Export() ([]byte, error) {
	const op = "registry.Export"
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.load()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	raw, err := json.MarshalIndent(users, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return raw, nil
}

// Import заменяет весь список записей содержимым снимка.
//
// Снимок обязан быть JSON-массивом записей; иначе текущее состояние остается
// нетронутым и возвращается ErrInvalidSnapshot. Поштучная валидация записей
// не выполняется, ответственность на вызывающем.
func (r *Registry) Import(snapshot []byte) error {
	const op = "registry.Import"
	r.mu.Lock()
	defer r.mu.Unlock()

	var users []models.UserRecord
	if err := json.Unmarshal(snapshot, &users); err != nil {
		return fmt.Errorf("%s: %w", op, ErrInvalidSnapshot)
	}
	if users == nil {
		return fmt.Errorf("%s: %w", op, ErrInvalidSnapshot)
	}
	if err := r.save(users); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	r.log.Info("user list imported", slog.Int("count", len(users)))
	return nil
}

// load всегда возвращает не-nil список: пустой реестр сериализуется как "[]",
// и его снимок проходит обратно через Import.
func (r *Registry) load() ([]models.UserRecord, error) {
	users := []models.UserRecord{}
	if _, err := r.store.Get(UsersKey, &users); err != nil {
		return nil, err
	}
	if users == nil {
		users = []models.UserRecord{}
	}
	return users, nil
}

func (r *Registry) save(users []models.UserRecord) error {
	return r.store.Set(UsersKey, users)
}
