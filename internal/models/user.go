package models

import "time"

// LoginHistoryCapacity bounds the number of login events retained per account.
const LoginHistoryCapacity = 8

// LoginEvent records one successful authentication.
type LoginEvent struct {
	DateTime  time.Time `json:"dateTime"`
	UserAgent string    `json:"userAgent"`
}

// UserAccount is a registered user. UserName is unique and never changes;
// LoginHistory is ordered newest first and holds at most LoginHistoryCapacity entries.
type UserAccount struct {
	UserName     string
	PasswordHash string
	Email        string
	LoginHistory []LoginEvent
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
