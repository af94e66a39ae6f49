//go:build integration && cgo && pkcs11

package softhsm_integration_test

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeremyhahn/go-rtadmin/pkg/pin"
	"github.com/jeremyhahn/go-rtadmin/pkg/pipeline"
	"github.com/jeremyhahn/go-rtadmin/pkg/pkcs11"
	"github.com/jeremyhahn/go-rtadmin/pkg/token"
)

const (
	soPIN   = "87654321"
	userPIN = "12345678"
)

func setupSoftHSMToken(t *testing.T) pkcs11.Config {
	modulePath := "/usr/lib/softhsm/libsofthsm2.so"
	if _, err := os.Stat(modulePath); err != nil {
		t.Skipf("SoftHSM module not present at %s", modulePath)
	}
	if _, err := exec.LookPath("softhsm2-util"); err != nil {
		t.Skip("softhsm2-util not installed")
	}

	tempDir := t.TempDir()
	confPath := filepath.Join(tempDir, "softhsm2.conf")
	conf := fmt.Sprintf("directories.tokendir = %s\nobjectstore.backend = file\n", filepath.Join(tempDir, "tokens"))
	require.NoError(t, os.WriteFile(confPath, []byte(conf), 0o600))
	require.NoError(t, os.MkdirAll(filepath.Join(tempDir, "tokens"), 0o700))
	t.Setenv("SOFTHSM2_CONF", confPath)

	label := "rtadmin-" + uuid.NewString()[:8]
	cmd := exec.Command("softhsm2-util", "--init-token", "--free", "--label", label, "--so-pin", soPIN, "--pin", userPIN)
	cmd.Env = append(os.Environ(), "SOFTHSM2_CONF="+confPath)
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, string(out))

	return pkcs11.Config{ModulePath: modulePath, TokenLabel: label}
}

func newBuilder(t *testing.T, cfg pkcs11.Config, opts pipeline.Options) *pipeline.Builder {
	t.Helper()
	dev, err := pkcs11.NewToken(cfg, nil)
	require.NoError(t, err)

	b := pipeline.New(pipeline.Config{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})
	require.NoError(t, b.Configure(context.Background(), dev, opts))
	return b
}

func TestCapabilitiesFromSoftHSM(t *testing.T) {
	cfg := setupSoftHSMToken(t)
	dev, err := pkcs11.NewToken(cfg, nil)
	require.NoError(t, err)

	caps, err := token.Capture(context.Background(), dev)
	require.NoError(t, err)
	assert.Equal(t, cfg.TokenLabel, caps.Label)
	assert.NotEmpty(t, caps.SerialDecimal)
	assert.True(t, caps.AdminCanChangeUserPIN())
	assert.Positive(t, caps.MaxUserPINLen)
}

func TestChangeUserPINByAdmin(t *testing.T) {
	cfg := setupSoftHSMToken(t)

	b := newBuilder(t, cfg, pipeline.Options{OldAdminPIN: soPIN, NewUserPIN: "24681357"})
	require.NoError(t, b.WithPINsChange().Execute(context.Background()))

	dev, err := pkcs11.NewToken(cfg, nil)
	require.NoError(t, err)
	assert.NoError(t, dev.ChangePIN(context.Background(), pin.RoleUser, "24681357", userPIN))
}

func TestWrongAdminPIN(t *testing.T) {
	cfg := setupSoftHSMToken(t)

	b := newBuilder(t, cfg, pipeline.Options{OldAdminPIN: "00000000", NewUserPIN: "24681357"})
	err := b.WithPINsChange().Execute(context.Background())
	assert.ErrorIs(t, err, pkcs11.ErrInvalidPIN)
}

func TestGeneratedPINs(t *testing.T) {
	cfg := setupSoftHSMToken(t)
	length := 8

	b := newBuilder(t, cfg, pipeline.Options{OldAdminPIN: soPIN, OldUserPIN: userPIN, UserPINLength: &length})
	require.NoError(t, b.WithGeneratedUserPIN().WithPINsChange().Execute(context.Background()))

	generated := b.Session().NewUserPIN
	assert.Len(t, generated.Value(), length)
	assert.True(t, generated.EnteredByUser())
}

func TestVendorOperationsUnsupported(t *testing.T) {
	cfg := setupSoftHSMToken(t)

	var out bytes.Buffer
	dev, err := pkcs11.NewToken(cfg, nil)
	require.NoError(t, err)
	b := pipeline.New(pipeline.Config{Logger: slog.New(slog.NewTextHandler(io.Discard, nil)), Out: &out})
	require.NoError(t, b.Configure(context.Background(), dev, pipeline.Options{}))

	err = b.WithVolumeReport().Execute(context.Background())
	assert.ErrorIs(t, err, token.ErrNotSupported)
	assert.Empty(t, out.String())
}
