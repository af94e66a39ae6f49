package volume

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/jeremyhahn/go-rtadmin/pkg/token"
)

// --- owners ---

func TestOwnersLookup(t *testing.T) {
	owners := DefaultOwners()

	cases := map[string]uint{"a": 0, "Admin": 0, "u": 1, "USER": 1, "local3": 3, "local8": 8}
	for name, want := range cases {
		got, err := owners.Lookup(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}

	_, err := owners.Lookup("local9")
	assert.ErrorIs(t, err, ErrUnknownOwner)
	_, err = owners.LookupLocal("u")
	assert.ErrorIs(t, err, ErrUnknownOwner)
}

func TestPIN2Owner(t *testing.T) {
	owners := DefaultOwners()
	assert.Equal(t, OwnerLocalFirst, owners.PIN2Owner())

	require.NoError(t, owners.SetPIN2Owner("local5"))
	assert.Equal(t, uint(5), owners.PIN2Owner())
	assert.Error(t, owners.SetPIN2Owner("admin"))
	assert.Equal(t, uint(5), owners.PIN2Owner())
}

// --- format specs ---

func TestParseSize(t *testing.T) {
	cases := []struct {
		in   string
		want uint64
		ok   bool
	}{
		{"512", 512, true},
		{"512MiB", 512, true},
		{"1GiB", 1024, true},
		{"1.5GiB", 1536, true},
		{"512MB", 0, false},
		{"0", 0, false},
		{"lots", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseSize(tc.in)
		if !tc.ok {
			assert.ErrorIs(t, err, ErrInvalidSpec, tc.in)
			continue
		}
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}

func TestParseFormat(t *testing.T) {
	volumes, err := ParseFormat([]string{"u:512:rw", "a:1GiB:ro", "local3:*:hi"}, DefaultOwners(), 4096)
	require.NoError(t, err)
	assert.Equal(t, []token.VolumeFormat{
		{Size: 512, AccessMode: token.AccessReadWrite, Owner: OwnerUser},
		{Size: 1024, AccessMode: token.AccessReadOnly, Owner: OwnerAdmin},
		{Size: 2560, AccessMode: token.AccessHidden, Owner: 3},
	}, volumes)
}

func TestParseFormatErrors(t *testing.T) {
	cases := map[string][]string{
		"empty":              nil,
		"missing field":      {"u:512"},
		"bad owner":          {"x:512:rw"},
		"bad access":         {"u:512:wx"},
		"remaining not last": {"u:*:rw", "a:10:ro"},
		"too large":          {"u:3000:rw", "a:2000:ro"},
		"nothing remaining":  {"u:4096:rw", "a:*:ro"},
	}
	for name, specs := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseFormat(specs, DefaultOwners(), 4096)
			assert.Error(t, err)
		})
	}
}

// --- attributes ---

func TestParseAttributes(t *testing.T) {
	specs, err := ParseAttributes([]string{"1:ro", "2:rw:p", "3:cd:T"})
	require.NoError(t, err)
	assert.Equal(t, []AttributeSpec{
		{VolumeID: 1, AccessMode: token.AccessReadOnly},
		{VolumeID: 2, AccessMode: token.AccessReadWrite, Permanent: true},
		{VolumeID: 3, AccessMode: token.AccessCDROM},
	}, specs)

	for _, bad := range []string{"1", "0:ro", "x:ro", "1:zz", "1:ro:forever", "1:ro:p:extra"} {
		_, err := ParseAttributes([]string{bad})
		assert.ErrorIs(t, err, ErrInvalidSpec, bad)
	}
}

func TestResolveAttributes(t *testing.T) {
	volumes := []token.VolumeInfo{
		{ID: 1, Size: 100, AccessMode: token.AccessReadWrite, Owner: OwnerUser},
		{ID: 2, Size: 100, AccessMode: token.AccessReadWrite, Owner: 4},
	}
	pins := map[uint]string{OwnerUser: "12345678"}
	pinFor := func(owner uint) (string, error) {
		if p, ok := pins[owner]; ok {
			return p, nil
		}
		return "", errors.New("no PIN for owner")
	}

	changes, err := ResolveAttributes([]AttributeSpec{{VolumeID: 1, AccessMode: token.AccessReadOnly}}, volumes, pinFor)
	require.NoError(t, err)
	require.Len(t, changes, 1)
	assert.Equal(t, token.VolumeAttributesChange{
		VolumeID: 1, AccessMode: token.AccessReadOnly, Owner: OwnerUser, OwnerPIN: "12345678",
	}, changes[0])

	_, err = ResolveAttributes([]AttributeSpec{{VolumeID: 2}}, volumes, pinFor)
	assert.Error(t, err)
	_, err = ResolveAttributes([]AttributeSpec{{VolumeID: 7}}, volumes, pinFor)
	assert.ErrorIs(t, err, ErrInvalidSpec)
}

// --- report ---

func TestReportWrite(t *testing.T) {
	r := NewReport("43794", 2048, []token.VolumeInfo{
		{ID: 1, Size: 1024, AccessMode: token.AccessReadWrite, Owner: OwnerUser},
		{ID: 2, Size: 1024, AccessMode: token.AccessHidden, Owner: 3},
	})

	var buf bytes.Buffer
	require.NoError(t, r.Write(&buf))

	var decoded Report
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "2.0 GiB", decoded.DriveSize)
	require.Len(t, decoded.Volumes, 2)
	assert.Equal(t, VolumeEntry{ID: 2, Size: "1.0 GiB", Access: "hi", Owner: "local3"}, decoded.Volumes[1])
}
