package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeremyhahn/go-rtadmin/pkg/pin"
	"github.com/jeremyhahn/go-rtadmin/pkg/token"
)

func capsWith(adminCan, userCan bool) token.Capabilities {
	var f token.Flags
	if adminCan {
		f |= token.FlagAdminChangeUserPIN
	}
	if userCan {
		f |= token.FlagUserChangeUserPIN
	}
	return token.Capabilities{Flags: f}
}

func oldAdmin(supplied bool) pin.PIN {
	if supplied {
		return pin.New(pin.RoleAdmin, "87654321")
	}
	return pin.Default(pin.RoleAdmin)
}

func oldUser(supplied bool) pin.PIN {
	if supplied {
		return pin.New(pin.RoleUser, "12345678")
	}
	return pin.Default(pin.RoleUser)
}

func TestResolveUserPINChangeTable(t *testing.T) {
	cases := []struct {
		name      string
		adminCan  bool
		userCan   bool
		admin     bool
		user      bool
		want      Kind
		authority pin.Role
		reason    error
	}{
		{"admin only, admin supplied", true, false, true, false, ChangeByAdmin, pin.RoleAdmin, nil},
		{"admin only, admin and user supplied", true, false, true, true, ChangeByAdmin, pin.RoleAdmin, nil},
		{"admin only, admin missing", true, false, false, true, Rejected, 0, ErrAdminPINRequired},
		{"admin only, nothing supplied", true, false, false, false, Rejected, 0, ErrAdminPINRequired},
		{"user only, user supplied", false, true, false, true, ChangeByUser, pin.RoleUser, nil},
		{"user only, both supplied", false, true, true, true, ChangeByUser, pin.RoleUser, nil},
		{"user only, user missing", false, true, true, false, Rejected, 0, ErrUserPINRequired},
		{"both, admin supplied", true, true, true, false, ChangeByAdmin, pin.RoleAdmin, nil},
		{"both, user supplied", true, true, false, true, ChangeByUser, pin.RoleUser, nil},
		{"both, nothing supplied", true, true, false, false, Rejected, 0, ErrEitherPINRequired},
		{"neither, both supplied", false, false, true, true, Rejected, 0, ErrChangeNotPermitted},
		{"neither, nothing supplied", false, false, false, false, Rejected, 0, ErrChangeNotPermitted},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := ResolveUserPINChange(capsWith(tc.adminCan, tc.userCan), oldAdmin(tc.admin), oldUser(tc.user), true)
			require.Equal(t, tc.want, d.Kind)

			if tc.want == Rejected {
				require.NotNil(t, d.Rejection)
				assert.ErrorIs(t, d.Err(), tc.reason)
				assert.Equal(t, TargetUserPIN, d.Rejection.Target)
				return
			}
			assert.NoError(t, d.Err())
			assert.Equal(t, tc.authority, d.Authority.Role())
			assert.True(t, d.Authority.EnteredByUser())
		})
	}
}

func TestResolveUserPINChangeAdminPrecedence(t *testing.T) {
	// Regression guard: with both flags and both PINs the admin path is taken.
	for i := 0; i < 10; i++ {
		d := ResolveUserPINChange(capsWith(true, true), oldAdmin(true), oldUser(true), true)
		require.Equal(t, ChangeByAdmin, d.Kind)
		assert.Equal(t, "87654321", d.Authority.Value())
	}
}

func TestResolveUserPINChangeNotRequested(t *testing.T) {
	for _, adminCan := range []bool{true, false} {
		for _, userCan := range []bool{true, false} {
			d := ResolveUserPINChange(capsWith(adminCan, userCan), oldAdmin(false), oldUser(false), false)
			assert.Equal(t, NoChangeRequested, d.Kind)
			assert.NoError(t, d.Err())
		}
	}
}

func TestResolveAdminPINChange(t *testing.T) {
	d := ResolveAdminPINChange(oldAdmin(true), true)
	assert.Equal(t, ChangeByAdmin, d.Kind)
	assert.Equal(t, pin.RoleAdmin, d.Authority.Role())

	d = ResolveAdminPINChange(oldAdmin(false), true)
	require.Equal(t, Rejected, d.Kind)
	assert.ErrorIs(t, d.Err(), ErrAdminPINRequired)
	assert.Equal(t, TargetAdminPIN, d.Rejection.Target)

	d = ResolveAdminPINChange(oldAdmin(false), false)
	assert.Equal(t, NoChangeRequested, d.Kind)
}

func TestResolveLabelChange(t *testing.T) {
	d := ResolveLabelChange(oldUser(true))
	assert.Equal(t, ChangeByUser, d.Kind)
	assert.Equal(t, "12345678", d.Authority.Value())

	d = ResolveLabelChange(oldUser(false))
	require.Equal(t, Rejected, d.Kind)
	assert.ErrorIs(t, d.Err(), ErrUserPINRequired)
	assert.Equal(t, TargetLabel, d.Rejection.Target)
}

func TestRejectionMessage(t *testing.T) {
	d := ResolveUserPINChange(capsWith(true, false), oldAdmin(false), oldUser(false), true)
	assert.Equal(t, "policy: admin PIN required: cannot change user PIN", d.Err().Error())
}
