// Package dao provides data access objects for use in the GramLab server.
package dao

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sscalderod/ProyectoFinalLenguajesSM/internal/grammar"
)

// Store holds all the repositories.
type Store interface {
	Users() UserRepository
	Grammars() GrammarRepository
	Close() error
}

type UserRepository interface {

	// Create creates a new User. All attributes except for auto-generated
	// fields are taken from the provided User.
	Create(ctx context.Context, user User) (User, error)
	GetAll(ctx context.Context) ([]User, error)
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	GetByUsername(ctx context.Context, username string) (User, error)
	Update(ctx context.Context, id uuid.UUID, user User) (User, error)
	Delete(ctx context.Context, id uuid.UUID) (User, error)
	Close() error
}

type GrammarRepository interface {

	// Create creates a new Grammar. All attributes except for auto-generated
	// fields are taken from the provided Grammar.
	Create(ctx context.Context, g Grammar) (Grammar, error)
	GetAll(ctx context.Context) ([]Grammar, error)

	// GetAllByUser returns every Grammar owned by the given user. An empty
	// slice and a nil error are returned if the user owns none.
	GetAllByUser(ctx context.Context, userID uuid.UUID) ([]Grammar, error)
	GetByID(ctx context.Context, id uuid.UUID) (Grammar, error)
	Delete(ctx context.Context, id uuid.UUID) (Grammar, error)

	// DeleteAllByUser removes every Grammar owned by the given user and
	// returns the removed ones.
	DeleteAllByUser(ctx context.Context, userID uuid.UUID) ([]Grammar, error)
	Close() error
}

type Role int

const (
	Guest Role = iota
	Unverified
	Normal

	Admin Role = 100
)

func (r Role) String() string {
	switch r {
	case Guest:
		return "guest"
	case Unverified:
		return "unverified"
	case Normal:
		return "normal"
	case Admin:
		return "admin"
	default:
		return fmt.Sprintf("Role(%d)", r)
	}
}

func ParseRole(s string) (Role, error) {
	check := strings.ToLower(s)
	switch check {
	case "guest":
		return Guest, nil
	case "unverified":
		return Unverified, nil
	case "normal":
		return Normal, nil
	case "admin":
		return Admin, nil
	default:
		return Guest, fmt.Errorf("must be one of 'guest', 'unverified', 'normal', or 'admin'")
	}
}

type User struct {
	ID             uuid.UUID
	Username       string
	Password       string
	Email          *mail.Address
	Role           Role
	Created        time.Time
	Modified       time.Time
	LastLogoutTime time.Time
	LastLoginTime  time.Time
}

// Grammar is a grammar stored on behalf of a user. Source holds the text it
// was submitted as, and Grammar the parsed form.
type Grammar struct {
	ID       uuid.UUID
	UserID   uuid.UUID
	Name     string
	Notation string
	Source   string
	Grammar  grammar.Grammar
	Created  time.Time
	Modified time.Time
}
