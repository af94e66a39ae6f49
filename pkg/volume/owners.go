// Package volume parses flash drive volume arguments and reports the volume
// layout of a token.
package volume

import (
	"errors"
	"fmt"
	"strings"
)

// Token owner ids.
const (
	OwnerAdmin      uint = 0
	OwnerUser       uint = 1
	OwnerLocalFirst uint = 3
	OwnerLocalLast  uint = 8
)

// ErrUnknownOwner indicates an owner name that maps to no token owner id.
var ErrUnknownOwner = errors.New("volume: unknown owner")

// Owners maps operator-facing owner names to token owner ids.
type Owners struct {
	ids  map[string]uint
	pin2 uint
}

// DefaultOwners knows "a"/"admin", "u"/"user" and "local3".."local8". PIN2
// is bound to the first local owner.
func DefaultOwners() *Owners {
	ids := map[string]uint{
		"a":     OwnerAdmin,
		"admin": OwnerAdmin,
		"u":     OwnerUser,
		"user":  OwnerUser,
	}
	for id := OwnerLocalFirst; id <= OwnerLocalLast; id++ {
		ids[fmt.Sprintf("local%d", id)] = id
	}
	return &Owners{ids: ids, pin2: OwnerLocalFirst}
}

// Lookup returns the owner id for name, ignoring case.
func (o *Owners) Lookup(name string) (uint, error) {
	id, ok := o.ids[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownOwner, name)
	}
	return id, nil
}

// LookupLocal is Lookup restricted to local owners.
func (o *Owners) LookupLocal(name string) (uint, error) {
	id, err := o.Lookup(name)
	if err != nil {
		return 0, err
	}
	if !IsLocal(id) {
		return 0, fmt.Errorf("%w: %q is not a local user", ErrUnknownOwner, name)
	}
	return id, nil
}

// PIN2Owner returns the owner id PIN2 is set for.
func (o *Owners) PIN2Owner() uint { return o.pin2 }

// SetPIN2Owner binds PIN2 to the local owner called name.
func (o *Owners) SetPIN2Owner(name string) error {
	id, err := o.LookupLocal(name)
	if err != nil {
		return err
	}
	o.pin2 = id
	return nil
}

// Name returns the canonical name of id.
func Name(id uint) string {
	switch {
	case id == OwnerAdmin:
		return "admin"
	case id == OwnerUser:
		return "user"
	case IsLocal(id):
		return fmt.Sprintf("local%d", id)
	default:
		return fmt.Sprintf("owner%d", id)
	}
}

// IsLocal reports whether id belongs to a local user.
func IsLocal(id uint) bool {
	return id >= OwnerLocalFirst && id <= OwnerLocalLast
}
