//go:build pkcs11 && cgo

package pkcs11

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	pkcs "github.com/miekg/pkcs11"

	"github.com/jeremyhahn/go-rtadmin/pkg/pin"
)

func init() {
	systemSessionProvider = &nativeProvider{}
}

type nativeProvider struct{}

func (nativeProvider) Open(ctx context.Context, cfg Config) (Session, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	module := pkcs.New(cfg.ModulePath)
	if module == nil {
		return nil, errors.New("pkcs11: failed to load module")
	}
	if err := module.Initialize(); err != nil {
		module.Destroy()
		return nil, mapError(err)
	}

	slot, err := selectSlot(module, cfg)
	if err != nil {
		module.Finalize()
		module.Destroy()
		return nil, err
	}

	sessionHandle, err := module.OpenSession(slot, pkcs.CKF_SERIAL_SESSION|pkcs.CKF_RW_SESSION)
	if err != nil {
		module.Finalize()
		module.Destroy()
		return nil, mapError(err)
	}

	return &nativeSession{module: module, slot: slot, session: sessionHandle}, nil
}

func selectSlot(module *pkcs.Ctx, cfg Config) (uint, error) {
	if cfg.Slot != "" {
		id, err := strconv.ParseUint(cfg.Slot, 10, 32)
		if err != nil {
			return 0, fmt.Errorf("pkcs11: slot %q: %w", cfg.Slot, err)
		}
		return uint(id), nil
	}

	slots, err := module.GetSlotList(true)
	if err != nil {
		return 0, mapError(err)
	}
	label := strings.TrimSpace(cfg.TokenLabel)
	for _, slot := range slots {
		info, err := module.GetTokenInfo(slot)
		if err != nil {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(info.Label), label) {
			return slot, nil
		}
	}
	return 0, errors.New("pkcs11: token not found")
}

// mapError translates the CKR codes callers act on into package sentinels,
// keeping the original code in the message.
func mapError(err error) error {
	var e pkcs.Error
	if !errors.As(err, &e) {
		return err
	}
	switch e {
	case pkcs.CKR_PIN_INCORRECT, pkcs.CKR_PIN_INVALID:
		return fmt.Errorf("%w: %v", ErrInvalidPIN, err)
	case pkcs.CKR_PIN_LEN_RANGE:
		return fmt.Errorf("%w: %v", ErrPINLenRange, err)
	case pkcs.CKR_PIN_LOCKED:
		return fmt.Errorf("%w: %v", ErrPINLocked, err)
	default:
		return err
	}
}

type nativeSession struct {
	module  *pkcs.Ctx
	slot    uint
	session pkcs.SessionHandle
}

func userType(role pin.Role) uint {
	if role == pin.RoleAdmin {
		return pkcs.CKU_SO
	}
	return pkcs.CKU_USER
}

func (s *nativeSession) Login(ctx context.Context, role pin.Role, pin string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := s.module.Login(s.session, userType(role), pin)
	if err != nil && err != pkcs.Error(pkcs.CKR_USER_ALREADY_LOGGED_IN) {
		return mapError(err)
	}
	return nil
}

func (s *nativeSession) Logout(ctx context.Context) error {
	if err := s.module.Logout(s.session); err != nil && err != pkcs.Error(pkcs.CKR_USER_NOT_LOGGED_IN) {
		return mapError(err)
	}
	return nil
}

func (s *nativeSession) TokenInfo(ctx context.Context) (TokenInfo, error) {
	if err := ctx.Err(); err != nil {
		return TokenInfo{}, err
	}
	info, err := s.module.GetTokenInfo(s.slot)
	if err != nil {
		return TokenInfo{}, mapError(err)
	}
	return TokenInfo{
		Flags:          info.Flags,
		Label:          info.Label,
		ManufacturerID: info.ManufacturerID,
		Model:          info.Model,
		SerialNumber:   info.SerialNumber,
		MinPINLen:      info.MinPinLen,
		MaxPINLen:      info.MaxPinLen,
	}, nil
}

func (s *nativeSession) SetPIN(ctx context.Context, oldPIN, newPIN string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return mapError(s.module.SetPIN(s.session, oldPIN, newPIN))
}

func (s *nativeSession) InitPIN(ctx context.Context, pin string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return mapError(s.module.InitPIN(s.session, pin))
}

// InitToken needs every session on the slot closed, so the session handle
// is reopened afterwards.
func (s *nativeSession) InitToken(ctx context.Context, soPIN, label string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.module.CloseSession(s.session); err != nil {
		return mapError(err)
	}
	initErr := s.module.InitToken(s.slot, soPIN, label)

	handle, err := s.module.OpenSession(s.slot, pkcs.CKF_SERIAL_SESSION|pkcs.CKF_RW_SESSION)
	if err != nil {
		return errors.Join(mapError(initErr), mapError(err))
	}
	s.session = handle
	return mapError(initErr)
}

func (s *nativeSession) GenerateRandom(ctx context.Context, n int) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	random, err := s.module.GenerateRandom(s.session, n)
	if err != nil {
		return nil, mapError(err)
	}
	return random, nil
}

func (s *nativeSession) Close(ctx context.Context) error {
	defer func() {
		s.module.Finalize()
		s.module.Destroy()
	}()
	return mapError(s.module.CloseSession(s.session))
}
