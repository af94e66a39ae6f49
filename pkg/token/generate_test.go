package token_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jeremyhahn/go-rtadmin/pkg/pin"
	"github.com/jeremyhahn/go-rtadmin/pkg/token"
	"github.com/jeremyhahn/go-rtadmin/pkg/token/mocks"
)

func TestGeneratePINBounds(t *testing.T) {
	caps := token.Capabilities{MinUserPINLen: 4, MaxUserPINLen: 8}

	cases := []struct {
		name   string
		length int
		bound  string
	}{
		{"one below minimum", 3, "minimum"},
		{"at minimum", 4, ""},
		{"at maximum", 8, ""},
		{"one above maximum", 9, "maximum"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			dev := mocks.NewMockDevice(t)
			if tc.bound == "" {
				dev.On("GeneratePIN", mock.Anything, tc.length).Return("123456789"[:tc.length], nil).Once()
			}

			p, err := token.GeneratePIN(context.Background(), dev, caps, pin.RoleUser, tc.length)
			if tc.bound != "" {
				var lengthErr *token.LengthError
				require.ErrorAs(t, err, &lengthErr)
				assert.Equal(t, tc.bound, lengthErr.Bound())
				dev.AssertNotCalled(t, "GeneratePIN", mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			assert.True(t, p.EnteredByUser())
			assert.Equal(t, pin.RoleUser, p.Role())
			assert.Equal(t, tc.length, p.Len())
		})
	}
}

func TestGeneratePINDeviceError(t *testing.T) {
	want := errors.New("rng failure")
	dev := mocks.NewMockDevice(t)
	dev.On("GeneratePIN", mock.Anything, 6).Return("", want).Once()

	caps := token.Capabilities{MinAdminPINLen: 6, MaxAdminPINLen: 10}
	_, err := token.GeneratePIN(context.Background(), dev, caps, pin.RoleAdmin, 6)
	assert.ErrorIs(t, err, want)
}
