package pin

import (
	"bytes"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromOption(t *testing.T) {
	cases := []struct {
		name      string
		role      Role
		value     string
		wantValue string
		entered   bool
	}{
		{"user supplied", RoleUser, "1234", "1234", true},
		{"admin supplied", RoleAdmin, "abcdef", "abcdef", true},
		{"empty user", RoleUser, "", DefaultUserPIN, false},
		{"whitespace admin", RoleAdmin, "  \t", DefaultAdminPIN, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := FromOption(tc.role, tc.value)
			assert.Equal(t, tc.wantValue, p.Value())
			assert.Equal(t, tc.entered, p.EnteredByUser())
			assert.Equal(t, tc.role, p.Role())
		})
	}
}

func TestLenCountsCharacters(t *testing.T) {
	assert.Equal(t, 4, New(RoleUser, "1234").Len())
	assert.Equal(t, 3, New(RoleUser, "пин").Len())
	assert.Equal(t, len(DefaultAdminPIN), Default(RoleAdmin).Len())
}

func TestSecretNotFormatted(t *testing.T) {
	p := New(RoleUser, "s3cr3t")
	assert.NotContains(t, fmt.Sprintf("%v %s", p, p), "s3cr3t")
	assert.Equal(t, "user PIN (default)", Default(RoleUser).String())
}

func TestSecretNotLogged(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	logger.Info("changing", "pin", New(RoleAdmin, "s3cr3t"))

	require.NotEmpty(t, buf.String())
	assert.NotContains(t, buf.String(), "s3cr3t")
	assert.Contains(t, buf.String(), "pin.role=admin")
}
