package models

import "time"

// SessionRecord — проекция UserRecord без секретов, описывающая текущий вход
// на устройстве. Не содержит ни хэша пароля, ни платёжных данных.
// Одновременно активна не более одной сессии.
type SessionRecord struct {
	UserID           string     `json:"user_id"`
	Name             string     `json:"name"`
	Email            string     `json:"email"`
	IsSubscribed     bool       `json:"is_subscribed"`
	IsApproved       bool       `json:"is_approved"`
	IsCourseApproved bool       `json:"is_course_approved,omitempty"`
	CourseApprovedAt *time.Time `json:"course_approved_at,omitempty"`
}

// NewSessionRecord строит сессию из записи реестра, отбрасывая секретные поля.
func NewSessionRecord(u *UserRecord) *SessionRecord {
	return &SessionRecord{
		UserID:           u.ID,
		Name:             u.Name,
		Email:            u.Email,
		IsSubscribed:     u.IsSubscribed,
		IsApproved:       u.IsApproved,
		IsCourseApproved: u.IsCourseApproved,
		CourseApprovedAt: u.CourseApprovedAt,
	}
}
