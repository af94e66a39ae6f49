// Package pkcs11 drives Rutoken-style tokens through a PKCS#11 module.
//
// Token implements token.Device. Every call opens its own session, logs in
// as the principal the operation needs, runs and logs out again, so a Token
// holds no session state between calls. Vendor extensions (flash drive,
// local PINs, activation passwords) are available only when the session
// provider hands out sessions implementing ExtendedSession.
package pkcs11

import (
	"context"
	"errors"

	"github.com/jeremyhahn/go-rtadmin/pkg/pin"
	"github.com/jeremyhahn/go-rtadmin/pkg/token"
)

// Session is an open PKCS#11 session on the configured slot.
type Session interface {
	Login(ctx context.Context, role pin.Role, pin string) error
	Logout(ctx context.Context) error
	TokenInfo(ctx context.Context) (TokenInfo, error)
	// SetPIN changes the PIN of the logged in principal (C_SetPIN).
	SetPIN(ctx context.Context, oldPIN, newPIN string) error
	// InitPIN sets the user PIN while logged in as SO (C_InitPIN).
	InitPIN(ctx context.Context, pin string) error
	// InitToken reinitializes the token (C_InitToken). The session stays
	// usable afterwards but is logged out.
	InitToken(ctx context.Context, soPIN, label string) error
	GenerateRandom(ctx context.Context, n int) ([]byte, error)
	// Close releases the session and the module.
	Close(ctx context.Context) error
}

// ExtendedSession is a Session that also exposes the vendor extensions.
type ExtendedSession interface {
	Session
	ExtendedTokenInfo(ctx context.Context) (token.ExtendedInfo, error)
	// FormatToken replaces the InitToken sequence with the vendor format,
	// which also applies PIN policy, minimum lengths and retry counters.
	FormatToken(ctx context.Context, params token.FormatParams) error
	SetTokenLabel(ctx context.Context, label []byte) error
	UnblockUserPIN(ctx context.Context) error
	SetLocalPIN(ctx context.Context, userPIN, localPIN string, ownerID uint) error
	SetPIN2(ctx context.Context, ownerID uint) error
	VolumesInfo(ctx context.Context) ([]token.VolumeInfo, error)
	DriveSize(ctx context.Context) (uint64, error)
	FormatDrive(ctx context.Context, adminPIN string, volumes []token.VolumeFormat) error
	ChangeVolumeAttributes(ctx context.Context, change token.VolumeAttributesChange) error
	GenerateActivationPasswords(ctx context.Context, charset token.ActivationCharset, smMode uint) ([][]byte, error)
}

// SessionProvider abstracts creation of PKCS#11 sessions from configuration.
type SessionProvider interface {
	Open(ctx context.Context, cfg Config) (Session, error)
}

// CK_TOKEN_INFO flags the driver reads.
const (
	ckfUserPINToBeChanged uint = 0x00080000
	ckfSOPINToBeChanged   uint = 0x00800000
)

// TokenInfo is the subset of CK_TOKEN_INFO the driver reads.
type TokenInfo struct {
	Flags          uint
	Label          string
	ManufacturerID string
	Model          string
	SerialNumber   string
	MinPINLen      uint
	MaxPINLen      uint
}

var (
	errSystemProviderUnavailable = errors.New("pkcs11: system provider unavailable; build with PKCS#11 support to use default")
	// ErrInvalidPIN indicates the supplied PIN was rejected by the token.
	ErrInvalidPIN = errors.New("pkcs11: invalid PIN")
	// ErrPINLenRange indicates a new PIN outside the token length bounds.
	ErrPINLenRange = errors.New("pkcs11: PIN length out of range")
	// ErrPINLocked indicates the PIN retry counter is exhausted.
	ErrPINLocked = errors.New("pkcs11: PIN locked")
)

// Config supplies the parameters required to locate and access a PKCS#11 token.
type Config struct {
	ModulePath string
	TokenLabel string
	Slot       string
}

func (c Config) validate() error {
	if c.ModulePath == "" {
		return errors.New("pkcs11: module path must not be empty")
	}
	if c.TokenLabel == "" && c.Slot == "" {
		return errors.New("pkcs11: either token label or slot must be specified")
	}
	return nil
}

var systemSessionProvider SessionProvider

// SetSystemSessionProvider installs the default session provider used when
// callers pass nil to NewToken.
func SetSystemSessionProvider(p SessionProvider) {
	systemSessionProvider = p
}
