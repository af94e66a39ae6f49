package token

import (
	"context"
	"errors"
	"fmt"

	"github.com/jeremyhahn/go-rtadmin/pkg/pin"
)

// GeneratePIN asks the device for a random PIN of length characters. The
// length must lie within the bounds caps reports for role; otherwise a
// *LengthError naming the violated bound is returned and the device is not
// touched.
func GeneratePIN(ctx context.Context, dev Device, caps Capabilities, role pin.Role, length int) (pin.PIN, error) {
	if err := caps.CheckLength(role, length); err != nil {
		return pin.PIN{}, err
	}
	if dev == nil {
		return pin.PIN{}, errors.New("token: device is nil")
	}
	value, err := dev.GeneratePIN(ctx, length)
	if err != nil {
		return pin.PIN{}, fmt.Errorf("token: generate %s PIN: %w", role, err)
	}
	return pin.New(role, value), nil
}
