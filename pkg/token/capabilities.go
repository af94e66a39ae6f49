package token

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jeremyhahn/go-rtadmin/pkg/pin"
)

// ErrPINLength is matched by every *LengthError.
var ErrPINLength = errors.New("token: PIN length out of range")

// Capabilities is the snapshot of device facts captured once per session.
// It is never refreshed; all later decisions read from it.
type Capabilities struct {
	Serial        string
	SerialDecimal string
	Label         string
	Flags         Flags

	MinAdminPINLen int
	MaxAdminPINLen int
	MinUserPINLen  int
	MaxUserPINLen  int
}

// Capture reads the token identity and extended info. It does not mutate
// the device.
func Capture(ctx context.Context, dev Device) (Capabilities, error) {
	if dev == nil {
		return Capabilities{}, errors.New("token: device is nil")
	}
	if err := ctx.Err(); err != nil {
		return Capabilities{}, err
	}

	info, err := dev.TokenInfo(ctx)
	if err != nil {
		return Capabilities{}, fmt.Errorf("token: read token info: %w", err)
	}
	ext, err := dev.ExtendedTokenInfo(ctx)
	if err != nil {
		return Capabilities{}, fmt.Errorf("token: read extended token info: %w", err)
	}

	serial := strings.TrimSpace(info.Serial)
	decimal, err := strconv.ParseUint(serial, 16, 64)
	if err != nil {
		return Capabilities{}, fmt.Errorf("token: serial %q is not hexadecimal: %w", serial, err)
	}

	return Capabilities{
		Serial:         serial,
		SerialDecimal:  strconv.FormatUint(decimal, 10),
		Label:          strings.TrimSpace(info.Label),
		Flags:          ext.Flags,
		MinAdminPINLen: ext.MinAdminPINLen,
		MaxAdminPINLen: ext.MaxAdminPINLen,
		MinUserPINLen:  ext.MinUserPINLen,
		MaxUserPINLen:  ext.MaxUserPINLen,
	}, nil
}

// AdminCanChangeUserPIN reports whether the admin may set the user PIN.
func (c Capabilities) AdminCanChangeUserPIN() bool {
	return c.Flags.Has(FlagAdminChangeUserPIN)
}

// UserCanChangeUserPIN reports whether the user may change their own PIN.
func (c Capabilities) UserCanChangeUserPIN() bool {
	return c.Flags.Has(FlagUserChangeUserPIN)
}

// HasFlashDrive reports whether the token carries a flash drive.
func (c Capabilities) HasFlashDrive() bool {
	return c.Flags.Has(FlagHasFlashDrive)
}

// SupportsSecureMessaging reports whether the token supports secure
// messaging, which activation passwords require.
func (c Capabilities) SupportsSecureMessaging() bool {
	return c.Flags.Has(FlagSupportSM)
}

// DefaultPINs reports which roles still use their factory default PIN.
func (c Capabilities) DefaultPINs() (admin, user bool) {
	return !c.Flags.Has(FlagAdminPINNotDefault), !c.Flags.Has(FlagUserPINNotDefault)
}

// Bounds returns the inclusive PIN length range for role.
func (c Capabilities) Bounds(role pin.Role) (min, max int) {
	if role == pin.RoleAdmin {
		return c.MinAdminPINLen, c.MaxAdminPINLen
	}
	return c.MinUserPINLen, c.MaxUserPINLen
}

// CheckLength returns a *LengthError when length is outside the bounds of role.
func (c Capabilities) CheckLength(role pin.Role, length int) error {
	min, max := c.Bounds(role)
	if length < min || length > max {
		return &LengthError{Role: role, Length: length, Min: min, Max: max}
	}
	return nil
}

// LengthError reports a PIN length outside the device bounds.
type LengthError struct {
	Role   pin.Role
	Length int
	Min    int
	Max    int
}

// Bound names the violated bound, "minimum" or "maximum".
func (e *LengthError) Bound() string {
	if e.Length < e.Min {
		return "minimum"
	}
	return "maximum"
}

func (e *LengthError) Error() string {
	limit := e.Max
	if e.Length < e.Min {
		limit = e.Min
	}
	return fmt.Sprintf("token: %s PIN length %d violates %s %d (allowed %d..%d)",
		e.Role, e.Length, e.Bound(), limit, e.Min, e.Max)
}

func (e *LengthError) Unwrap() error { return ErrPINLength }
