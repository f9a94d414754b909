package entity

import "time"

// User representa una cuenta; Email es la identidad de login.
type User struct {
	ID           int64
	Email        string
	PasswordHash string // bcrypt, nunca se serializa
	Name         string
	IsActive     bool
	CreatedAt    time.Time
}
