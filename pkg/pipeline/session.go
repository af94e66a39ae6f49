package pipeline

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/jeremyhahn/go-rtadmin/pkg/pin"
	"github.com/jeremyhahn/go-rtadmin/pkg/token"
	"github.com/jeremyhahn/go-rtadmin/pkg/volume"
)

// Options is the operator configuration. Commands read the fields they need
// when they run; nothing is validated at enqueue time.
type Options struct {
	LabelUTF8   string
	LabelCP1251 string

	OldAdminPIN string
	OldUserPIN  string
	NewAdminPIN string
	NewUserPIN  string

	// Lengths of generated PINs; nil when not given.
	AdminPINLength *int
	UserPINLength  *int

	PINChangePolicy  token.PINChangePolicy
	MinAdminPINLen   int
	MinUserPINLen    int
	MaxAdminAttempts int
	MaxUserAttempts  int

	// ActivationPasswords holds [smMode, charset].
	ActivationPasswords []string
	// LocalPIN holds [owner, localPIN].
	LocalPIN []string
	// LocalPINLogins holds [owner, pin] pairs.
	LocalPINLogins []string
	// FormatVolumes holds "owner:size:access" tokens.
	FormatVolumes []string
	// VolumeAttributes holds "id:access[:p|t]" tokens.
	VolumeAttributes []string
}

// PINSource supplies pre-generated PINs.
type PINSource interface {
	Next() (string, error)
}

// Session is the context shared by every command of one pipeline run.
// Commands may replace PIN slots and fill LocalPINs; the capability snapshot
// is read-only.
type Session struct {
	Device  token.Device
	Options Options

	Label         string
	LabelEncoding token.LabelEncoding

	OldAdminPIN pin.PIN
	OldUserPIN  pin.PIN
	NewAdminPIN pin.PIN
	NewUserPIN  pin.PIN

	// LocalPINs maps local owner ids to the PINs used to log them in.
	LocalPINs map[uint]string

	Pool   PINSource
	Owners *volume.Owners
	Out    io.Writer
	Logger *slog.Logger

	caps token.Capabilities
}

// NewSession builds a session from an already captured snapshot. The PIN
// slots are filled from opts: operator values where given, defaults
// otherwise. A CP1251 label, when given, wins over a UTF-8 one; blank
// labels count as not given.
func NewSession(dev token.Device, caps token.Capabilities, opts Options) *Session {
	s := &Session{
		Device:      dev,
		Options:     opts,
		Label:       caps.Label,
		OldAdminPIN: pin.FromOption(pin.RoleAdmin, opts.OldAdminPIN),
		OldUserPIN:  pin.FromOption(pin.RoleUser, opts.OldUserPIN),
		NewAdminPIN: pin.FromOption(pin.RoleAdmin, opts.NewAdminPIN),
		NewUserPIN:  pin.FromOption(pin.RoleUser, opts.NewUserPIN),
		LocalPINs:   map[uint]string{},
		Owners:      volume.DefaultOwners(),
		Out:         io.Discard,
		Logger:      slog.Default(),
		caps:        caps,
	}
	if strings.TrimSpace(opts.LabelUTF8) != "" {
		s.Label, s.LabelEncoding = opts.LabelUTF8, token.LabelUTF8
	}
	if strings.TrimSpace(opts.LabelCP1251) != "" {
		s.Label, s.LabelEncoding = opts.LabelCP1251, token.LabelCP1251
	}
	return s
}

// Capture reads the capability snapshot from dev and returns a session over
// it.
func Capture(ctx context.Context, dev token.Device, opts Options) (*Session, error) {
	caps, err := token.Capture(ctx, dev)
	if err != nil {
		return nil, err
	}
	return NewSession(dev, caps, opts), nil
}

// Capabilities returns the snapshot captured at configuration time.
func (s *Session) Capabilities() token.Capabilities { return s.caps }

// adminAuthority is the admin PIN that authorizes drive-level operations:
// the new admin PIN once requested, the old one otherwise. When neither was
// entered this is the factory default, which is sent as the authorizing PIN
// so a freshly issued token can be administered without typing it.
func (s *Session) adminAuthority() pin.PIN {
	if s.NewAdminPIN.EnteredByUser() {
		return s.NewAdminPIN
	}
	return s.OldAdminPIN
}

// userAuthority is the user-side counterpart of adminAuthority and falls
// back to the factory default user PIN the same way.
func (s *Session) userAuthority() pin.PIN {
	if s.NewUserPIN.EnteredByUser() {
		return s.NewUserPIN
	}
	return s.OldUserPIN
}

func (s *Session) ownerPIN(owner uint) (string, error) {
	switch owner {
	case volume.OwnerAdmin:
		return s.adminAuthority().Value(), nil
	case volume.OwnerUser:
		return s.userAuthority().Value(), nil
	}
	if p, ok := s.LocalPINs[owner]; ok {
		return p, nil
	}
	return "", missingOption("local PIN for " + volume.Name(owner))
}
