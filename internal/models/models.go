package models

import (
	"fmt"
	"time"
)

// Role identifies a user's privilege level as reported by the backend.
type Role string

const (
	RoleUser       Role = "USER"
	RoleAdmin      Role = "ADMIN"
	RoleSuperAdmin Role = "SUPERADMIN"
)

// Elevated reports whether the role grants administrative capabilities.
func (r Role) Elevated() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

// Valid reports whether the role is one the backend issues.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

// Difficulty levels assigned to archive books.
const (
	DifficultyBeginner     = "Beginner"
	DifficultyIntermediate = "Intermediate"
	DifficultyAdvanced     = "Advanced"
)

// User represents an authenticated identity.
type User struct {
	ID       string `json:"id"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
}

// Category represents a book category.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Book represents an archive record. Owned and mutated by the backend; the
// client reads it and writes only through API mutation calls.
type Book struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Author        string    `json:"author"`
	Category      Category  `json:"category"`
	Difficulty    string    `json:"difficulty"`
	Language      string    `json:"language"`
	CoverImageURL string    `json:"coverImageUrl,omitempty"`
	PDFURL        string    `json:"pdfUrl"`
	DownloadCount int       `json:"downloadCount"`
	FileSize      int64     `json:"fileSize"`
	Description   string    `json:"description,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Favorite represents a user's saved book as returned by the backend.
type Favorite struct {
	ID        string    `json:"id"`
	Book      Book      `json:"book"`
	CreatedAt time.Time `json:"createdAt"`
}

// Session holds the current identity and bearer credential. The zero value is
// the logged-out state.
type Session struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

// Validate checks the session invariant: a token is held iff a user is set.
func (s Session) Validate() error {
	if (s.User == nil) != (s.Token == "") {
		return fmt.Errorf("user and token must be set together")
	}
	if s.User != nil && !s.User.Role.Valid() {
		return fmt.Errorf("unknown role %q", s.User.Role)
	}
	return nil
}

// Authenticated reports whether the session holds an identity.
func (s Session) Authenticated() bool {
	return s.User != nil
}
