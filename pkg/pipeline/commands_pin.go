package pipeline

import (
	"context"
	"errors"

	"github.com/jeremyhahn/go-rtadmin/pkg/pin"
	"github.com/jeremyhahn/go-rtadmin/pkg/policy"
	"github.com/jeremyhahn/go-rtadmin/pkg/token"
)

// WithPINsFromPool queues replacing the new admin and new user PINs with
// the next two entries of the PIN pool.
func (b *Builder) WithPINsFromPool() *Builder { return b.Then(poolPINs{}) }

// WithGeneratedAdminPIN queues generating the new admin PIN on the token.
func (b *Builder) WithGeneratedAdminPIN() *Builder {
	return b.Then(generatePIN{role: pin.RoleAdmin})
}

// WithGeneratedUserPIN queues generating the new user PIN on the token.
func (b *Builder) WithGeneratedUserPIN() *Builder {
	return b.Then(generatePIN{role: pin.RoleUser})
}

// WithPINsChange queues changing the user and admin PINs to the requested
// new values, authorized as the device policy demands.
func (b *Builder) WithPINsChange() *Builder { return b.Then(changePINs{}) }

// WithPINsUnblock queues unblocking the user PIN with the admin PIN.
func (b *Builder) WithPINsUnblock() *Builder { return b.Then(unblockPIN{}) }

type poolPINs struct{}

func (poolPINs) Name() string { return "pins-from-pool" }

func (poolPINs) Execute(_ context.Context, s *Session) error {
	if s.Pool == nil {
		return missingOption("PIN pool")
	}
	admin, err := s.Pool.Next()
	if err != nil {
		return &ConfigurationError{Option: "PIN pool", Err: err}
	}
	user, err := s.Pool.Next()
	if err != nil {
		return &ConfigurationError{Option: "PIN pool", Err: err}
	}
	s.NewAdminPIN = pin.New(pin.RoleAdmin, admin)
	s.NewUserPIN = pin.New(pin.RoleUser, user)
	return nil
}

type generatePIN struct {
	role pin.Role
}

func (g generatePIN) Name() string { return "generate-" + g.role.String() + "-pin" }

func (g generatePIN) Execute(ctx context.Context, s *Session) error {
	length := s.Options.UserPINLength
	if g.role == pin.RoleAdmin {
		length = s.Options.AdminPINLength
	}
	if length == nil {
		return missingOption(g.role.String() + " PIN length")
	}

	p, err := token.GeneratePIN(ctx, s.Device, s.caps, g.role, *length)
	if err != nil {
		var lengthErr *token.LengthError
		if errors.As(err, &lengthErr) {
			return &ValidationError{Subject: "generated PIN length", Err: err}
		}
		return deviceError("GeneratePIN", err)
	}

	if g.role == pin.RoleAdmin {
		s.NewAdminPIN = p
	} else {
		s.NewUserPIN = p
	}
	s.Logger.Info("PIN generated", "pin", p)
	return nil
}

type changePINs struct{}

func (changePINs) Name() string { return "change-pins" }

// Execute resolves both decisions before touching the device, so a rejection
// of either change leaves both PINs as they were.
func (changePINs) Execute(ctx context.Context, s *Session) error {
	user := policy.ResolveUserPINChange(s.caps, s.OldAdminPIN, s.OldUserPIN, s.NewUserPIN.EnteredByUser())
	admin := policy.ResolveAdminPINChange(s.OldAdminPIN, s.NewAdminPIN.EnteredByUser())
	if err := firstRejections(user, admin); err != nil {
		return err
	}

	switch user.Kind {
	case policy.ChangeByAdmin:
		if err := s.Device.ChangeUserPINByAdmin(ctx, user.Authority.Value(), s.NewUserPIN.Value()); err != nil {
			return deviceError("ChangeUserPINByAdmin", err)
		}
		s.Logger.Info("user PIN changed", "by", pin.RoleAdmin)
	case policy.ChangeByUser:
		if err := s.Device.ChangePIN(ctx, pin.RoleUser, user.Authority.Value(), s.NewUserPIN.Value()); err != nil {
			return deviceError("ChangePIN", err)
		}
		s.Logger.Info("user PIN changed", "by", pin.RoleUser)
	}

	if admin.Kind == policy.ChangeByAdmin {
		if err := s.Device.ChangePIN(ctx, pin.RoleAdmin, admin.Authority.Value(), s.NewAdminPIN.Value()); err != nil {
			return deviceError("ChangePIN", err)
		}
		s.Logger.Info("admin PIN changed")
	}
	return nil
}

func firstRejections(decisions ...policy.Decision) error {
	var errs []error
	for _, d := range decisions {
		if err := d.Err(); err != nil {
			errs = append(errs, err)
		}
	}
	switch len(errs) {
	case 0:
		return nil
	case 1:
		return errs[0]
	default:
		return errors.Join(errs...)
	}
}

type unblockPIN struct{}

func (unblockPIN) Name() string { return "unblock-pin" }

func (unblockPIN) Execute(ctx context.Context, s *Session) error {
	if err := s.Device.UnblockPIN(ctx, pin.RoleUser, s.OldAdminPIN.Value()); err != nil {
		return deviceError("UnblockPIN", err)
	}
	s.Logger.Info("user PIN unblocked")
	return nil
}
