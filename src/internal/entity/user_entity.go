package entity

import (
	"database/sql"
	"time"
)

type User struct {
	UserID       string         `db:"user_id" json:"user_id"`
	FullName     string         `db:"full_name" json:"full_name"`
	Email        string         `db:"email" json:"email"`
	MobileNumber sql.NullString `db:"mobile_number" json:"mobile_number"`
	CreatedAt    time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt    *time.Time     `db:"updated_at" json:"updated_at,omitempty"`
}
