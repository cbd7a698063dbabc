package db

import (
	"database/sql"
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type EmailFrequency string

const (
	EmailFrequencyDaily   EmailFrequency = "daily"
	EmailFrequencyWeekly  EmailFrequency = "weekly"
	EmailFrequencyMonthly EmailFrequency = "monthly"
	EmailFrequencyOff     EmailFrequency = "off"
)

func (e *EmailFrequency) Scan(src interface{}) error {
	switch s := src.(type) {
	case []byte:
		*e = EmailFrequency(s)
	case string:
		*e = EmailFrequency(s)
	default:
		return fmt.Errorf("unsupported scan type for EmailFrequency: %T", src)
	}
	return nil
}

type NullEmailFrequency struct {
	EmailFrequency EmailFrequency `json:"email_frequency"`
	Valid          bool           `json:"valid"` // Valid is true if EmailFrequency is not NULL
}

// Scan implements the Scanner interface.
func (ns *NullEmailFrequency) Scan(value interface{}) error {
	if value == nil {
		ns.EmailFrequency, ns.Valid = "", false
		return nil
	}
	ns.Valid = true
	return ns.EmailFrequency.Scan(value)
}

// Value implements the driver Valuer interface.
func (ns NullEmailFrequency) Value() (driver.Value, error) {
	if !ns.Valid {
		return nil, nil
	}
	return string(ns.EmailFrequency), nil
}

type Child struct {
	ID          uuid.UUID    `json:"id"`
	UserID      uuid.UUID    `json:"user_id"`
	Name        string       `json:"name"`
	IsBorn      bool         `json:"is_born"`
	DueDate     sql.NullTime `json:"due_date"`
	DateOfBirth sql.NullTime `json:"date_of_birth"`
	CreatedAt   time.Time    `json:"created_at"`
}

type NotificationPreference struct {
	ID              uuid.UUID      `json:"id"`
	UserID          uuid.UUID      `json:"user_id"`
	EmailEnabled    bool           `json:"email_enabled"`
	EmailFrequency  EmailFrequency `json:"email_frequency"`
	PreferredDay    int16          `json:"preferred_day"`
	PreferredHour   int16          `json:"preferred_hour"`
	LastEmailSentAt sql.NullTime   `json:"last_email_sent_at"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

type Resource struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Summary     string    `json:"summary"`
	IsPublished bool      `json:"is_published"`
	CreatedAt   time.Time `json:"created_at"`
}

type User struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
}
