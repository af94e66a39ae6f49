package volume

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/jeremyhahn/go-rtadmin/pkg/token"
)

// ErrInvalidSpec indicates a malformed volume argument.
var ErrInvalidSpec = errors.New("volume: invalid volume specification")

// RemainingSize is the size placeholder that takes the rest of the drive.
const RemainingSize = "*"

const megabyte = 1 << 20

// ParseAccessMode accepts "hi", "ro", "rw" and "cd".
func ParseAccessMode(s string) (token.AccessMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "hi":
		return token.AccessHidden, nil
	case "ro":
		return token.AccessReadOnly, nil
	case "rw":
		return token.AccessReadWrite, nil
	case "cd":
		return token.AccessCDROM, nil
	default:
		return 0, fmt.Errorf("%w: access mode %q", ErrInvalidSpec, s)
	}
}

// ParseSize parses a volume size in megabytes. A bare number is megabytes,
// anything else goes through humanize and must be a whole number of MiB.
func ParseSize(s string) (uint64, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.ParseUint(s, 10, 64); err == nil {
		if n == 0 {
			return 0, fmt.Errorf("%w: size must be positive", ErrInvalidSpec)
		}
		return n, nil
	}
	b, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, fmt.Errorf("%w: size %q: %v", ErrInvalidSpec, s, err)
	}
	if b == 0 || b%megabyte != 0 {
		return 0, fmt.Errorf("%w: size %q is not a whole number of megabytes", ErrInvalidSpec, s)
	}
	return b / megabyte, nil
}

// ParseFormat parses "owner:size:access" tokens into the volumes to create
// on a drive of driveSize megabytes. Only the last token may use "*" as
// size.
func ParseFormat(specs []string, owners *Owners, driveSize uint64) ([]token.VolumeFormat, error) {
	if len(specs) == 0 {
		return nil, fmt.Errorf("%w: no volumes given", ErrInvalidSpec)
	}

	volumes := make([]token.VolumeFormat, 0, len(specs))
	var used uint64
	for i, spec := range specs {
		fields := strings.Split(spec, ":")
		if len(fields) != 3 {
			return nil, fmt.Errorf("%w: %q, want owner:size:access", ErrInvalidSpec, spec)
		}
		owner, err := owners.Lookup(fields[0])
		if err != nil {
			return nil, err
		}
		mode, err := ParseAccessMode(fields[2])
		if err != nil {
			return nil, err
		}

		var size uint64
		if strings.TrimSpace(fields[1]) == RemainingSize {
			if i != len(specs)-1 {
				return nil, fmt.Errorf("%w: %q, only the last volume may take the remaining space", ErrInvalidSpec, spec)
			}
			if used >= driveSize {
				return nil, fmt.Errorf("%w: no space left for %q", ErrInvalidSpec, spec)
			}
			size = driveSize - used
		} else if size, err = ParseSize(fields[1]); err != nil {
			return nil, err
		}

		used += size
		if used > driveSize {
			return nil, fmt.Errorf("%w: volumes need %d MB, drive has %d MB", ErrInvalidSpec, used, driveSize)
		}
		volumes = append(volumes, token.VolumeFormat{Size: size, AccessMode: mode, Owner: owner})
	}
	return volumes, nil
}

// AttributeSpec is one parsed "id:access[:p|t]" token.
type AttributeSpec struct {
	VolumeID   uint
	AccessMode token.AccessMode
	Permanent  bool
}

// ParseAttributes parses volume attribute changes. The optional third field
// is "p" (permanent) or "t" (temporary, the default).
func ParseAttributes(specs []string) ([]AttributeSpec, error) {
	if len(specs) == 0 {
		return nil, fmt.Errorf("%w: no volume attributes given", ErrInvalidSpec)
	}
	out := make([]AttributeSpec, 0, len(specs))
	for _, spec := range specs {
		fields := strings.Split(spec, ":")
		if len(fields) < 2 || len(fields) > 3 {
			return nil, fmt.Errorf("%w: %q, want id:access[:p|t]", ErrInvalidSpec, spec)
		}
		id, err := strconv.ParseUint(strings.TrimSpace(fields[0]), 10, 32)
		if err != nil || id == 0 {
			return nil, fmt.Errorf("%w: volume id %q", ErrInvalidSpec, fields[0])
		}
		mode, err := ParseAccessMode(fields[1])
		if err != nil {
			return nil, err
		}
		permanent := false
		if len(fields) == 3 {
			switch strings.ToLower(strings.TrimSpace(fields[2])) {
			case "p":
				permanent = true
			case "t":
			default:
				return nil, fmt.Errorf("%w: persistence flag %q", ErrInvalidSpec, fields[2])
			}
		}
		out = append(out, AttributeSpec{VolumeID: uint(id), AccessMode: mode, Permanent: permanent})
	}
	return out, nil
}

// ResolveAttributes binds each attribute change to its volume owner and the owner's
// PIN, as returned by pinFor.
func ResolveAttributes(specs []AttributeSpec, volumes []token.VolumeInfo, pinFor func(owner uint) (string, error)) ([]token.VolumeAttributesChange, error) {
	byID := make(map[uint]token.VolumeInfo, len(volumes))
	for _, v := range volumes {
		byID[v.ID] = v
	}

	changes := make([]token.VolumeAttributesChange, 0, len(specs))
	for _, spec := range specs {
		v, ok := byID[spec.VolumeID]
		if !ok {
			return nil, fmt.Errorf("%w: volume %d does not exist", ErrInvalidSpec, spec.VolumeID)
		}
		ownerPIN, err := pinFor(v.Owner)
		if err != nil {
			return nil, fmt.Errorf("volume %d: %w", spec.VolumeID, err)
		}
		changes = append(changes, token.VolumeAttributesChange{
			VolumeID:   spec.VolumeID,
			AccessMode: spec.AccessMode,
			Permanent:  spec.Permanent,
			Owner:      v.Owner,
			OwnerPIN:   ownerPIN,
		})
	}
	return changes, nil
}
