// Package pin models token PIN codes together with their provenance.
//
// A PIN is either supplied by the operator or stands in for an absent value.
// The stand-in carries the factory default for its role so that operations
// which administer a freshly issued token (format, drive format) can still
// authenticate, but it must never be used as the new value of a PIN change.
package pin

import (
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"
)

// Role identifies the principal a PIN belongs to.
type Role int

const (
	// RoleAdmin is the security officer (CKU_SO).
	RoleAdmin Role = iota
	// RoleUser is the token user (CKU_USER).
	RoleUser
)

// Factory defaults shipped on a new token.
const (
	DefaultAdminPIN = "87654321"
	DefaultUserPIN  = "12345678"
)

func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "admin"
	case RoleUser:
		return "user"
	default:
		return fmt.Sprintf("role(%d)", int(r))
	}
}

// PIN is an immutable PIN code value.
type PIN struct {
	value         string
	role          Role
	enteredByUser bool
}

// New returns a PIN explicitly supplied by the operator.
func New(role Role, value string) PIN {
	return PIN{value: value, role: role, enteredByUser: true}
}

// Default returns the "no value supplied" stand-in for role.
func Default(role Role) PIN {
	value := DefaultUserPIN
	if role == RoleAdmin {
		value = DefaultAdminPIN
	}
	return PIN{value: value, role: role}
}

// FromOption returns New(role, value) when value holds anything other than
// whitespace and Default(role) otherwise.
func FromOption(role Role, value string) PIN {
	if strings.TrimSpace(value) == "" {
		return Default(role)
	}
	return New(role, value)
}

// Value returns the raw secret.
func (p PIN) Value() string { return p.value }

// Role returns the principal the PIN belongs to.
func (p PIN) Role() Role { return p.role }

// EnteredByUser reports whether the operator supplied the value.
func (p PIN) EnteredByUser() bool { return p.enteredByUser }

// Len returns the PIN length in characters.
func (p PIN) Len() int { return utf8.RuneCountInString(p.value) }

// String never reveals the secret.
func (p PIN) String() string {
	if !p.enteredByUser {
		return p.role.String() + " PIN (default)"
	}
	return p.role.String() + " PIN"
}

// LogValue keeps the secret out of structured logs.
func (p PIN) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("role", p.role.String()),
		slog.Bool("entered", p.enteredByUser),
		slog.Int("len", p.Len()),
	)
}
