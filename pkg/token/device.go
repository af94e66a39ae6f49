// Package token describes the hardware token as seen by the administration
// pipeline: the operations a token driver must provide and the immutable
// capability snapshot captured from a token once per session.
package token

import (
	"context"
	"errors"
	"fmt"

	"github.com/jeremyhahn/go-rtadmin/pkg/pin"
)

// Device is implemented by token drivers. Every call may fail with a
// driver-reported error which callers treat as fatal for the operation.
type Device interface {
	TokenInfo(ctx context.Context) (Info, error)
	ExtendedTokenInfo(ctx context.Context) (ExtendedInfo, error)

	// ChangePIN changes the PIN of role, authorized by its current value.
	ChangePIN(ctx context.Context, role pin.Role, oldPIN, newPIN string) error
	// ChangeUserPINByAdmin sets the user PIN, authorized by the admin PIN.
	ChangeUserPINByAdmin(ctx context.Context, adminPIN, newUserPIN string) error
	// UnblockPIN resets the retry counter of role, authorized by the admin PIN.
	UnblockPIN(ctx context.Context, role pin.Role, adminPIN string) error
	SetLabel(ctx context.Context, userPIN string, label []byte) error
	// GeneratePIN returns a random PIN of length characters drawn by the token.
	GeneratePIN(ctx context.Context, length int) (string, error)
	Format(ctx context.Context, params FormatParams) error

	SetLocalPIN(ctx context.Context, userPIN, localPIN string, ownerID uint) error
	SetPIN2(ctx context.Context, ownerID uint) error

	VolumesInfo(ctx context.Context) ([]VolumeInfo, error)
	// DriveSize returns the flash drive size in megabytes.
	DriveSize(ctx context.Context) (uint64, error)
	FormatDrive(ctx context.Context, adminPIN string, volumes []VolumeFormat) error
	ChangeVolumeAttributes(ctx context.Context, change VolumeAttributesChange) error

	GenerateActivationPasswords(ctx context.Context, adminPIN string, charset ActivationCharset, smMode uint) ([][]byte, error)
}

// ErrNotSupported is returned by drivers for operations the token lacks.
var ErrNotSupported = errors.New("token: operation not supported by device")

// Info is the basic identity reported by a token.
type Info struct {
	// Serial is the hexadecimal serial number.
	Serial       string
	Label        string
	Model        string
	Manufacturer string
}

// ExtendedInfo carries the vendor-specific token facts.
type ExtendedInfo struct {
	Flags          Flags
	MinAdminPINLen int
	MaxAdminPINLen int
	MinUserPINLen  int
	MaxUserPINLen  int
}

// Flags is the capability bit mask reported in the extended token info.
type Flags uint64

const (
	FlagAdminChangeUserPIN Flags = 0x00000001
	FlagUserChangeUserPIN  Flags = 0x00000002
	FlagAdminPINNotDefault Flags = 0x00000004
	FlagUserPINNotDefault  Flags = 0x00000008
	FlagSupportSM          Flags = 0x00000040
	FlagHasFlashDrive      Flags = 0x00000080
)

// Has reports whether every bit of mask is set.
func (f Flags) Has(mask Flags) bool {
	return f&mask == mask
}

// PINChangePolicy selects who may change the user PIN after formatting.
type PINChangePolicy = Flags

const (
	PolicyAdmin PINChangePolicy = FlagAdminChangeUserPIN
	PolicyUser  PINChangePolicy = FlagUserChangeUserPIN
	PolicyBoth  PINChangePolicy = FlagAdminChangeUserPIN | FlagUserChangeUserPIN
)

// ParsePINChangePolicy accepts "admin", "user" or "both".
func ParsePINChangePolicy(s string) (PINChangePolicy, error) {
	switch s {
	case "admin":
		return PolicyAdmin, nil
	case "user":
		return PolicyUser, nil
	case "both":
		return PolicyBoth, nil
	default:
		return 0, fmt.Errorf("token: unknown PIN change policy %q", s)
	}
}

// FormatParams describes a token format. Zero-valued limits leave the
// device default in place.
type FormatParams struct {
	// AdminPIN authorizes the format.
	AdminPIN         string
	NewAdminPIN      string
	NewUserPIN       string
	Label            string
	PINChangePolicy  PINChangePolicy
	MinAdminPINLen   int
	MinUserPINLen    int
	MaxAdminAttempts int
	MaxUserAttempts  int
}

// AccessMode is the access mode of a flash drive volume.
type AccessMode uint

const (
	AccessHidden    AccessMode = 0x00
	AccessReadOnly  AccessMode = 0x01
	AccessReadWrite AccessMode = 0x03
	AccessCDROM     AccessMode = 0x05
)

func (m AccessMode) String() string {
	switch m {
	case AccessHidden:
		return "hi"
	case AccessReadOnly:
		return "ro"
	case AccessReadWrite:
		return "rw"
	case AccessCDROM:
		return "cd"
	default:
		return fmt.Sprintf("mode(%#x)", uint(m))
	}
}

// VolumeInfo describes an existing flash drive volume. Size is in megabytes.
type VolumeInfo struct {
	ID         uint
	Size       uint64
	AccessMode AccessMode
	Owner      uint
}

// VolumeFormat describes a volume to create. Size is in megabytes.
type VolumeFormat struct {
	Size       uint64
	AccessMode AccessMode
	Owner      uint
}

// VolumeAttributesChange switches the access mode of one volume, authorized
// by the PIN of the volume owner.
type VolumeAttributesChange struct {
	VolumeID   uint
	AccessMode AccessMode
	Permanent  bool
	Owner      uint
	OwnerPIN   string
}

// ActivationCharset selects the alphabet of activation passwords.
type ActivationCharset int

const (
	CharsetCapsOnly ActivationCharset = iota
	CharsetCapsAndDigits
)

func (c ActivationCharset) String() string {
	if c == CharsetCapsAndDigits {
		return "caps+digits"
	}
	return "caps"
}
