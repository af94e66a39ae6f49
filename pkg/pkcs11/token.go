package pkcs11

import (
	"context"
	"errors"
	"strings"

	"github.com/jeremyhahn/go-rtadmin/pkg/pin"
	"github.com/jeremyhahn/go-rtadmin/pkg/token"
)

var _ token.Device = (*Token)(nil)

// Token is a token.Device backed by PKCS#11 sessions.
type Token struct {
	cfg      Config
	provider SessionProvider
}

// NewToken constructs a driver for the token selected by cfg. If provider
// is nil the package-level system provider is used, which requires linking
// against a real PKCS#11 implementation.
func NewToken(cfg Config, provider SessionProvider) (*Token, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if provider == nil {
		if systemSessionProvider == nil {
			return nil, errSystemProviderUnavailable
		}
		provider = systemSessionProvider
	}
	return &Token{cfg: cfg, provider: provider}, nil
}

type credential struct {
	role pin.Role
	pin  string
}

func as(role pin.Role, value string) *credential {
	return &credential{role: role, pin: value}
}

// run opens a session, logs in with cred when given, runs fn and releases
// everything again. Logout and close failures are joined onto the result.
func (t *Token) run(ctx context.Context, cred *credential, extended bool, fn func(Session) error) (err error) {
	if t == nil {
		return errors.New("pkcs11: token is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if cred != nil && cred.pin == "" {
		return errors.New("pkcs11: pin must not be empty")
	}

	session, err := t.provider.Open(ctx, t.cfg)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := session.Close(ctx); cerr != nil {
			err = errors.Join(err, cerr)
		}
	}()

	if extended {
		if _, ok := session.(ExtendedSession); !ok {
			return token.ErrNotSupported
		}
	}

	if cred != nil {
		if err := session.Login(ctx, cred.role, cred.pin); err != nil {
			return err
		}
		defer func() {
			if lerr := session.Logout(ctx); lerr != nil {
				err = errors.Join(err, lerr)
			}
		}()
	}
	return fn(session)
}

func (t *Token) runExtended(ctx context.Context, cred *credential, fn func(ExtendedSession) error) error {
	return t.run(ctx, cred, true, func(s Session) error {
		return fn(s.(ExtendedSession))
	})
}

func (t *Token) TokenInfo(ctx context.Context) (token.Info, error) {
	var out token.Info
	err := t.run(ctx, nil, false, func(s Session) error {
		info, err := s.TokenInfo(ctx)
		if err != nil {
			return err
		}
		out = token.Info{
			Serial:       strings.TrimSpace(info.SerialNumber),
			Label:        strings.TrimSpace(info.Label),
			Model:        strings.TrimSpace(info.Model),
			Manufacturer: strings.TrimSpace(info.ManufacturerID),
		}
		return nil
	})
	return out, err
}

// ExtendedTokenInfo asks the vendor extension when available. Otherwise it
// derives the facts from CK_TOKEN_INFO: both roles share its PIN length
// bounds, both the SO and the user may set the user PIN, and a PIN that
// is flagged to be changed is taken to be the factory default.
func (t *Token) ExtendedTokenInfo(ctx context.Context) (token.ExtendedInfo, error) {
	var out token.ExtendedInfo
	err := t.run(ctx, nil, false, func(s Session) error {
		if ext, ok := s.(ExtendedSession); ok {
			info, err := ext.ExtendedTokenInfo(ctx)
			out = info
			return err
		}
		info, err := s.TokenInfo(ctx)
		if err != nil {
			return err
		}
		flags := token.FlagAdminChangeUserPIN | token.FlagUserChangeUserPIN
		if info.Flags&ckfSOPINToBeChanged == 0 {
			flags |= token.FlagAdminPINNotDefault
		}
		if info.Flags&ckfUserPINToBeChanged == 0 {
			flags |= token.FlagUserPINNotDefault
		}
		out = token.ExtendedInfo{
			Flags:          flags,
			MinAdminPINLen: int(info.MinPINLen),
			MaxAdminPINLen: int(info.MaxPINLen),
			MinUserPINLen:  int(info.MinPINLen),
			MaxUserPINLen:  int(info.MaxPINLen),
		}
		return nil
	})
	return out, err
}

func (t *Token) ChangePIN(ctx context.Context, role pin.Role, oldPIN, newPIN string) error {
	return t.run(ctx, as(role, oldPIN), false, func(s Session) error {
		return s.SetPIN(ctx, oldPIN, newPIN)
	})
}

func (t *Token) ChangeUserPINByAdmin(ctx context.Context, adminPIN, newUserPIN string) error {
	return t.run(ctx, as(pin.RoleAdmin, adminPIN), false, func(s Session) error {
		return s.InitPIN(ctx, newUserPIN)
	})
}

func (t *Token) UnblockPIN(ctx context.Context, role pin.Role, adminPIN string) error {
	if role != pin.RoleUser {
		return token.ErrNotSupported
	}
	return t.runExtended(ctx, as(pin.RoleAdmin, adminPIN), func(s ExtendedSession) error {
		return s.UnblockUserPIN(ctx)
	})
}

func (t *Token) SetLabel(ctx context.Context, userPIN string, label []byte) error {
	return t.runExtended(ctx, as(pin.RoleUser, userPIN), func(s ExtendedSession) error {
		return s.SetTokenLabel(ctx, label)
	})
}

// GeneratePIN draws random bytes from the token and keeps those that map
// to a decimal digit without bias.
func (t *Token) GeneratePIN(ctx context.Context, length int) (string, error) {
	if length <= 0 {
		return "", errors.New("pkcs11: PIN length must be positive")
	}
	var b strings.Builder
	err := t.run(ctx, nil, false, func(s Session) error {
		for b.Len() < length {
			if err := ctx.Err(); err != nil {
				return err
			}
			random, err := s.GenerateRandom(ctx, length)
			if err != nil {
				return err
			}
			for _, r := range random {
				if r >= 250 || b.Len() == length {
					continue
				}
				b.WriteByte('0' + r%10)
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return b.String(), nil
}

// Format reinitializes the token. Empty new PINs fall back to the factory
// defaults. Without the vendor extension the PIN policy, minimum lengths
// and retry counters of params are not applied.
func (t *Token) Format(ctx context.Context, params token.FormatParams) error {
	if params.AdminPIN == "" {
		params.AdminPIN = pin.DefaultAdminPIN
	}
	if params.NewAdminPIN == "" {
		params.NewAdminPIN = pin.DefaultAdminPIN
	}
	if params.NewUserPIN == "" {
		params.NewUserPIN = pin.DefaultUserPIN
	}

	return t.run(ctx, nil, false, func(s Session) (err error) {
		if ext, ok := s.(ExtendedSession); ok {
			return ext.FormatToken(ctx, params)
		}
		if err := s.InitToken(ctx, params.AdminPIN, params.Label); err != nil {
			return err
		}

		if err := s.Login(ctx, pin.RoleAdmin, params.AdminPIN); err != nil {
			return err
		}
		defer func() {
			if lerr := s.Logout(ctx); lerr != nil {
				err = errors.Join(err, lerr)
			}
		}()
		if err := s.InitPIN(ctx, params.NewUserPIN); err != nil {
			return err
		}
		if params.NewAdminPIN == params.AdminPIN {
			return nil
		}
		return s.SetPIN(ctx, params.AdminPIN, params.NewAdminPIN)
	})
}

func (t *Token) SetLocalPIN(ctx context.Context, userPIN, localPIN string, ownerID uint) error {
	return t.runExtended(ctx, nil, func(s ExtendedSession) error {
		return s.SetLocalPIN(ctx, userPIN, localPIN, ownerID)
	})
}

func (t *Token) SetPIN2(ctx context.Context, ownerID uint) error {
	return t.runExtended(ctx, nil, func(s ExtendedSession) error {
		return s.SetPIN2(ctx, ownerID)
	})
}

func (t *Token) VolumesInfo(ctx context.Context) ([]token.VolumeInfo, error) {
	var out []token.VolumeInfo
	err := t.runExtended(ctx, nil, func(s ExtendedSession) error {
		volumes, err := s.VolumesInfo(ctx)
		out = volumes
		return err
	})
	return out, err
}

func (t *Token) DriveSize(ctx context.Context) (uint64, error) {
	var out uint64
	err := t.runExtended(ctx, nil, func(s ExtendedSession) error {
		size, err := s.DriveSize(ctx)
		out = size
		return err
	})
	return out, err
}

func (t *Token) FormatDrive(ctx context.Context, adminPIN string, volumes []token.VolumeFormat) error {
	return t.runExtended(ctx, nil, func(s ExtendedSession) error {
		return s.FormatDrive(ctx, adminPIN, volumes)
	})
}

func (t *Token) ChangeVolumeAttributes(ctx context.Context, change token.VolumeAttributesChange) error {
	return t.runExtended(ctx, nil, func(s ExtendedSession) error {
		return s.ChangeVolumeAttributes(ctx, change)
	})
}

func (t *Token) GenerateActivationPasswords(ctx context.Context, adminPIN string, charset token.ActivationCharset, smMode uint) ([][]byte, error) {
	var out [][]byte
	err := t.runExtended(ctx, as(pin.RoleAdmin, adminPIN), func(s ExtendedSession) error {
		passwords, err := s.GenerateActivationPasswords(ctx, charset, smMode)
		out = passwords
		return err
	})
	return out, err
}
