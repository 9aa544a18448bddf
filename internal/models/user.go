// Package models содержит доменные модели сервиса: запись пользователя в реестре,
// платёжные метаданные карты и агрегированную статистику для админ-панели.
// Структуры используются в бизнес-логике и при сериализации в локальное хранилище.
package models

import "time"

// UserRecord представляет запись пользователя в реестре.
//
// Email хранится в нижнем регистре и уникален без учёта регистра.
// Пары флаг/дата (IsSubscribed/SubscriptionDate и т.д.) связаны инвариантом:
// дата присутствует тогда и только тогда, когда флаг установлен.
type UserRecord struct {
	ID           string    `json:"id"`            // Уникальный идентификатор, назначается при создании
	Name         string    `json:"name"`          // Отображаемое имя
	Email        string    `json:"email"`         // Электронная почта, в нижнем регистре
	PasswordHash string    `json:"password_hash"` // bcrypt-хэш пароля, никогда не отдается наружу
	CreatedAt    time.Time `json:"created_at"`    // Дата регистрации
	LastLogin    time.Time `json:"last_login"`    // Дата последнего входа

	IsSubscribed     bool       `json:"is_subscribed"`
	SubscriptionDate *time.Time `json:"subscription_date,omitempty"`

	IsApproved bool       `json:"is_approved"` // Одобрение премиум-доступа администратором
	ApprovedAt *time.Time `json:"approved_at,omitempty"`

	IsCourseApproved bool       `json:"is_course_approved,omitempty"` // Отдельное одобрение доступа к курсу
	CourseApprovedAt *time.Time `json:"course_approved_at,omitempty"`

	CardInfo *CardInfo `json:"card_info,omitempty"`
}

// CardInfo хранит платёжные метаданные, сохранённые формой оплаты.
// Полный номер карты и CVV не сохраняются никогда.
type CardInfo struct {
	Last4          string `json:"last4"`
	ExpiryDate     string `json:"expiry_date"`
	CardholderName string `json:"cardholder_name"`
	BillingAddress string `json:"billing_address"`
	City           string `json:"city"`
	PostalCode     string `json:"postal_code"`
	Country        string `json:"country"`
}

// UserStats агрегированная статистика по реестру для админ-панели.
type UserStats struct {
	TotalUsers       int    `json:"total_users"`
	SubscribedUsers  int    `json:"subscribed_users"`
	RecentUsers      int    `json:"recent_users"`      // Зарегистрированы за последние 30 дней
	SubscriptionRate string `json:"subscription_rate"` // Процент с одним знаком, "0" при пустом реестре
}
