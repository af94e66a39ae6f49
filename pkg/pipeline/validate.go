package pipeline

import (
	"errors"

	"github.com/jeremyhahn/go-rtadmin/pkg/pin"
	"github.com/jeremyhahn/go-rtadmin/pkg/token"
)

// Validate checks the requested new PINs against the device bounds. Each
// role is checked on its own and only when the operator asked for a new
// value; a PIN that was not requested is always valid.
func Validate(caps token.Capabilities, newAdmin, newUser pin.PIN) error {
	var errs []error
	for _, p := range []pin.PIN{newAdmin, newUser} {
		if !p.EnteredByUser() {
			continue
		}
		if err := caps.CheckLength(p.Role(), p.Len()); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return &ValidationError{Subject: "PIN length", Err: errors.Join(errs...)}
}
