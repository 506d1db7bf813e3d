package db

import (
	"database/sql"
	"encoding/json"
	"time"
)

type User struct {
	ID                     int64
	Email                  string
	PasswordHash           string
	Username               string
	Address                string
	Latitude               sql.NullFloat64
	Longitude              sql.NullFloat64
	IsActive               bool
	ConfirmationToken      sql.NullString
	SelectedShoppingListID sql.NullInt64
	CreatedAt              time.Time
}

// DisplayName é o username ou, sem ele, o e-mail.
func (u User) DisplayName() string {
	if u.Username != "" {
		return u.Username
	}
	return u.Email
}

type Market struct {
	ID        int64
	Name      string
	CreatedAt time.Time
}

type Product struct {
	ID          int64
	Name        string
	Description string
	ImageUrl    string
	CreatedAt   time.Time
}

type Price struct {
	ID          int64
	ProductID   int64
	MarketID    int64
	AmountCents int64
	Currency    string
	CreatedAt   time.Time
}

type ShoppingList struct {
	ID        int64
	UserID    int64
	Name      string
	Emoji     string
	CreatedAt time.Time
}

type ShoppingListItem struct {
	ShoppingListID int64
	ProductID      int64
	CreatedAt      time.Time
}

type Contact struct {
	ID         int64
	FromUserID int64
	ToUserID   int64
	Confirmed  bool
	CreatedAt  time.Time
}

type Post struct {
	ID        int64
	UserID    int64
	Body      string
	CreatedAt time.Time
}

type Job struct {
	ID           int64
	UserID       sql.NullInt64
	Type         string
	Payload      json.RawMessage
	Status       string
	AttemptCount int64
	MaxAttempts  int64
	LastError    sql.NullString
	RunAt        time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type DeadLetterJob struct {
	ID            int64
	OriginalJobID int64
	UserID        sql.NullInt64
	Type          string
	Payload       json.RawMessage
	AttemptCount  int64
	LastError     sql.NullString
	FailedAt      time.Time
}
