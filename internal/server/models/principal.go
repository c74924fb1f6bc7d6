// Package models defines server-side data models persisted by the repositories.
package models

import (
	"fmt"
	"time"
)

// Kind distinguishes the two principal namespaces. A user and an admin may
// share an email address; they never share credentials or privileges.
type Kind string

const (
	KindUser  Kind = "user"
	KindAdmin Kind = "admin"
)

// ParseKind converts s into a Kind, rejecting anything unknown.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case KindUser, KindAdmin:
		return k, nil
	default:
		return "", fmt.Errorf("unknown principal kind %q", s)
	}
}

func (k Kind) String() string { return string(k) }

type Principal struct {
	ID           string
	Kind         Kind
	Email        string
	PasswordHash []byte
	FirstName    string
	LastName     string
	CreatedAt    time.Time
}
