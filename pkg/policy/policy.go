// Package policy decides which principal authorizes a PIN change.
//
// The decision depends on two capability flags reported by the token (may
// the admin change the user PIN, may the user change it) and on which old
// PINs the operator actually supplied. Resolvers are pure: they never touch
// the device and always return one of the Decision kinds below.
package policy

import (
	"errors"
	"fmt"

	"github.com/jeremyhahn/go-rtadmin/pkg/pin"
	"github.com/jeremyhahn/go-rtadmin/pkg/token"
)

var (
	// ErrAdminPINRequired indicates the change must be authorized by the admin PIN.
	ErrAdminPINRequired = errors.New("policy: admin PIN required")
	// ErrUserPINRequired indicates the change must be authorized by the user PIN.
	ErrUserPINRequired = errors.New("policy: user PIN required")
	// ErrEitherPINRequired indicates the admin or the user PIN must be supplied.
	ErrEitherPINRequired = errors.New("policy: admin or user PIN required")
	// ErrChangeNotPermitted indicates the device policy forbids the change.
	ErrChangeNotPermitted = errors.New("policy: change not permitted by device policy")
)

// Kind enumerates the possible outcomes of a resolver.
type Kind int

const (
	NoChangeRequested Kind = iota
	ChangeByUser
	ChangeByAdmin
	Rejected
)

func (k Kind) String() string {
	switch k {
	case NoChangeRequested:
		return "no-change"
	case ChangeByUser:
		return "change-by-user"
	case ChangeByAdmin:
		return "change-by-admin"
	case Rejected:
		return "rejected"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Decision is the outcome of resolving one PIN change.
type Decision struct {
	Kind Kind
	// Authority is the old PIN that authorizes the change. Set only for
	// ChangeByUser and ChangeByAdmin.
	Authority pin.PIN
	// Rejection is set only for Rejected.
	Rejection *Rejection
}

// Err returns the rejection as an error, or nil.
func (d Decision) Err() error {
	if d.Kind != Rejected || d.Rejection == nil {
		return nil
	}
	return d.Rejection
}

// Rejection explains why a change of Target was refused.
type Rejection struct {
	Target string
	Reason error
}

func (r *Rejection) Error() string {
	return fmt.Sprintf("%v: cannot change %s", r.Reason, r.Target)
}

func (r *Rejection) Unwrap() error { return r.Reason }

const (
	TargetUserPIN  = "user PIN"
	TargetAdminPIN = "admin PIN"
	TargetLabel    = "label"
)

type flags struct {
	adminCanChange bool
	userCanChange  bool
}

type rule func(oldAdmin, oldUser pin.PIN) Decision

// userPINRules is the user PIN decision table. When both principals may
// change the user PIN and both old PINs are supplied the admin path wins.
var userPINRules = map[flags]rule{
	{adminCanChange: true, userCanChange: false}: func(oldAdmin, _ pin.PIN) Decision {
		if oldAdmin.EnteredByUser() {
			return byAdmin(oldAdmin)
		}
		return reject(TargetUserPIN, ErrAdminPINRequired)
	},
	{adminCanChange: false, userCanChange: true}: func(_, oldUser pin.PIN) Decision {
		if oldUser.EnteredByUser() {
			return byUser(oldUser)
		}
		return reject(TargetUserPIN, ErrUserPINRequired)
	},
	{adminCanChange: true, userCanChange: true}: func(oldAdmin, oldUser pin.PIN) Decision {
		switch {
		case oldAdmin.EnteredByUser():
			return byAdmin(oldAdmin)
		case oldUser.EnteredByUser():
			return byUser(oldUser)
		default:
			return reject(TargetUserPIN, ErrEitherPINRequired)
		}
	},
	{adminCanChange: false, userCanChange: false}: func(_, _ pin.PIN) Decision {
		return reject(TargetUserPIN, ErrChangeNotPermitted)
	},
}

// ResolveUserPINChange decides how a new user PIN is authorized.
func ResolveUserPINChange(caps token.Capabilities, oldAdmin, oldUser pin.PIN, requested bool) Decision {
	if !requested {
		return Decision{Kind: NoChangeRequested}
	}
	key := flags{
		adminCanChange: caps.AdminCanChangeUserPIN(),
		userCanChange:  caps.UserCanChangeUserPIN(),
	}
	return userPINRules[key](oldAdmin, oldUser)
}

// ResolveAdminPINChange decides how a new admin PIN is authorized. Only the
// old admin PIN can authorize it.
func ResolveAdminPINChange(oldAdmin pin.PIN, requested bool) Decision {
	if !requested {
		return Decision{Kind: NoChangeRequested}
	}
	if !oldAdmin.EnteredByUser() {
		return reject(TargetAdminPIN, ErrAdminPINRequired)
	}
	return byAdmin(oldAdmin)
}

// ResolveLabelChange decides how a label change is authorized. The token
// only accepts the user PIN, and it must be operator supplied.
func ResolveLabelChange(oldUser pin.PIN) Decision {
	if !oldUser.EnteredByUser() {
		return reject(TargetLabel, ErrUserPINRequired)
	}
	return byUser(oldUser)
}

func byAdmin(authority pin.PIN) Decision {
	return Decision{Kind: ChangeByAdmin, Authority: authority}
}

func byUser(authority pin.PIN) Decision {
	return Decision{Kind: ChangeByUser, Authority: authority}
}

func reject(target string, reason error) Decision {
	return Decision{Kind: Rejected, Rejection: &Rejection{Target: target, Reason: reason}}
}
