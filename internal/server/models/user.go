// Package models defines the records stored by the development backend.
package models

import "time"

type User struct {
	ID        string
	Email     string
	Name      string
	Salt      []byte
	Verifier  []byte
	CreatedAt time.Time
}

type Note struct {
	ID        string
	UserID    string
	Title     string
	Body      string
	CreatedAt time.Time
}
