package pipeline

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jeremyhahn/go-rtadmin/pkg/policy"
	"github.com/jeremyhahn/go-rtadmin/pkg/token"
)

// WithFormat queues formatting the token with the requested PINs, label
// and PIN policy.
func (b *Builder) WithFormat() *Builder { return b.Then(formatToken{}) }

// WithLabel queues writing the configured label, authorized by the user PIN.
func (b *Builder) WithLabel() *Builder { return b.Then(setLabel{}) }

// WithActivationPasswords queues generating and printing activation
// passwords.
func (b *Builder) WithActivationPasswords() *Builder { return b.Then(activationPasswords{}) }

type formatToken struct{}

func (formatToken) Name() string { return "format" }

// Execute leaves NewAdminPIN and NewUserPIN empty when the operator did not
// request them; the driver then applies its factory defaults.
func (formatToken) Execute(ctx context.Context, s *Session) error {
	params := token.FormatParams{
		AdminPIN:         s.OldAdminPIN.Value(),
		Label:            s.Label,
		PINChangePolicy:  s.Options.PINChangePolicy,
		MinAdminPINLen:   s.Options.MinAdminPINLen,
		MinUserPINLen:    s.Options.MinUserPINLen,
		MaxAdminAttempts: s.Options.MaxAdminAttempts,
		MaxUserAttempts:  s.Options.MaxUserAttempts,
	}
	if s.NewAdminPIN.EnteredByUser() {
		params.NewAdminPIN = s.NewAdminPIN.Value()
	}
	if s.NewUserPIN.EnteredByUser() {
		params.NewUserPIN = s.NewUserPIN.Value()
	}

	if err := s.Device.Format(ctx, params); err != nil {
		return deviceError("Format", err)
	}
	s.Logger.Info("token formatted", "label", params.Label, "policy", fmt.Sprintf("%#x", uint64(params.PINChangePolicy)))
	return nil
}

type setLabel struct{}

func (setLabel) Name() string { return "set-label" }

func (setLabel) Execute(ctx context.Context, s *Session) error {
	if strings.TrimSpace(s.Options.LabelUTF8) == "" && strings.TrimSpace(s.Options.LabelCP1251) == "" {
		return missingOption("label")
	}
	d := policy.ResolveLabelChange(s.OldUserPIN)
	if err := d.Err(); err != nil {
		return err
	}
	raw, err := token.EncodeLabel(s.Label, s.LabelEncoding)
	if err != nil {
		return &ValidationError{Subject: "label", Err: err}
	}
	if err := s.Device.SetLabel(ctx, d.Authority.Value(), raw); err != nil {
		return deviceError("SetLabel", err)
	}
	s.Logger.Info("token label changed", "label", s.Label, "encoding", s.LabelEncoding.String())
	return nil
}

// ParseActivationArgs parses the [smMode, charset] arguments of activation
// password generation. smMode must be 1..3, charset is "caps" or "digits"
// in any case.
func ParseActivationArgs(args []string) (uint, token.ActivationCharset, error) {
	const subject = "activation password arguments"
	if len(args) != 2 {
		return 0, 0, invalidArgument(subject, "want [smMode charset], got %d values", len(args))
	}

	smMode, err := strconv.ParseUint(strings.TrimSpace(args[0]), 10, 32)
	if err != nil {
		return 0, 0, invalidArgument(subject, "SM mode %q is not a number", args[0])
	}
	if smMode < 1 || smMode > 3 {
		return 0, 0, invalidArgument(subject, "SM mode %d must be from 1 to 3", smMode)
	}

	charset := strings.TrimSpace(args[1])
	switch {
	case strings.EqualFold(charset, "caps"):
		return uint(smMode), token.CharsetCapsOnly, nil
	case strings.EqualFold(charset, "digits"):
		return uint(smMode), token.CharsetCapsAndDigits, nil
	default:
		return 0, 0, invalidArgument(subject, "character set %q, want caps or digits", args[1])
	}
}

type activationPasswords struct{}

func (activationPasswords) Name() string { return "activation-passwords" }

func (activationPasswords) Execute(ctx context.Context, s *Session) error {
	if len(s.Options.ActivationPasswords) == 0 {
		return missingOption("activation password mode")
	}
	smMode, charset, err := ParseActivationArgs(s.Options.ActivationPasswords)
	if err != nil {
		return err
	}
	if !s.caps.SupportsSecureMessaging() {
		return fmt.Errorf("%w: token has no secure messaging", token.ErrNotSupported)
	}

	s.Logger.Info("generating activation passwords", "sm_mode", smMode, "charset", charset.String())
	passwords, err := s.Device.GenerateActivationPasswords(ctx, s.OldAdminPIN.Value(), charset, smMode)
	if err != nil {
		return deviceError("GenerateActivationPasswords", err)
	}
	for _, p := range passwords {
		if _, err := fmt.Fprintln(s.Out, string(p)); err != nil {
			return err
		}
	}
	s.Logger.Info("activation passwords generated", "count", len(passwords))
	return nil
}
