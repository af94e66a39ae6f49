package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/jeremyhahn/go-rtadmin/pkg/token"
	"github.com/jeremyhahn/go-rtadmin/pkg/volume"
)

// WithLocalPINLogins queues reading the [owner, pin] pairs used to log local
// users in for volume attribute changes.
func (b *Builder) WithLocalPINLogins() *Builder { return b.Then(localPINLogins{}) }

// WithLocalPIN queues setting a local user PIN.
func (b *Builder) WithLocalPIN() *Builder { return b.Then(setLocalPIN{}) }

// WithPIN2 queues setting PIN2 for the configured PIN2 owner.
func (b *Builder) WithPIN2() *Builder { return b.Then(setPIN2{}) }

// WithDriveFormat queues partitioning the flash drive.
func (b *Builder) WithDriveFormat() *Builder { return b.Then(formatDrive{}) }

// WithVolumeAttributes queues changing volume access modes.
func (b *Builder) WithVolumeAttributes() *Builder { return b.Then(volumeAttributes{}) }

// WithVolumeReport queues printing the volume table.
func (b *Builder) WithVolumeReport() *Builder { return b.Then(volumeReport{}) }

func requireFlashDrive(s *Session) error {
	if !s.caps.HasFlashDrive() {
		return fmt.Errorf("%w: token has no flash drive", token.ErrNotSupported)
	}
	return nil
}

type localPINLogins struct{}

func (localPINLogins) Name() string { return "local-pin-logins" }

func (localPINLogins) Execute(_ context.Context, s *Session) error {
	const subject = "local PIN logins"
	args := s.Options.LocalPINLogins
	if len(args) == 0 {
		return missingOption(subject)
	}
	if len(args)%2 != 0 {
		return invalidArgument(subject, "want owner/PIN pairs, got %d values", len(args))
	}

	pins := make(map[uint]string, len(args)/2)
	for i := 0; i < len(args); i += 2 {
		owner, err := s.Owners.LookupLocal(args[i])
		if err != nil {
			return &ValidationError{Subject: subject, Err: err}
		}
		pins[owner] = args[i+1]
	}
	s.LocalPINs = pins
	return nil
}

type setLocalPIN struct{}

func (setLocalPIN) Name() string { return "set-local-pin" }

func (setLocalPIN) Execute(ctx context.Context, s *Session) error {
	const subject = "local PIN arguments"
	args := s.Options.LocalPIN
	if len(args) == 0 {
		return missingOption("local PIN")
	}
	if len(args) != 2 {
		return invalidArgument(subject, "want [owner PIN], got %d values", len(args))
	}
	owner, err := s.Owners.LookupLocal(args[0])
	if err != nil {
		return &ValidationError{Subject: subject, Err: err}
	}

	if err := s.Device.SetLocalPIN(ctx, s.userAuthority().Value(), args[1], owner); err != nil {
		return deviceError("SetLocalPIN", err)
	}
	s.Logger.Info("local PIN set", "owner", volume.Name(owner))
	return nil
}

type setPIN2 struct{}

func (setPIN2) Name() string { return "set-pin2" }

func (setPIN2) Execute(ctx context.Context, s *Session) error {
	owner := s.Owners.PIN2Owner()
	if err := s.Device.SetPIN2(ctx, owner); err != nil {
		return deviceError("SetPIN2", err)
	}
	s.Logger.Info("PIN2 set", "owner", volume.Name(owner))
	return nil
}

type formatDrive struct{}

func (formatDrive) Name() string { return "format-drive" }

func (formatDrive) Execute(ctx context.Context, s *Session) error {
	if len(s.Options.FormatVolumes) == 0 {
		return missingOption("format volumes")
	}
	if err := requireFlashDrive(s); err != nil {
		return err
	}
	size, err := s.Device.DriveSize(ctx)
	if err != nil {
		return deviceError("DriveSize", err)
	}
	volumes, err := volume.ParseFormat(s.Options.FormatVolumes, s.Owners, size)
	if err != nil {
		return &ValidationError{Subject: "volume layout", Err: err}
	}

	if err := s.Device.FormatDrive(ctx, s.adminAuthority().Value(), volumes); err != nil {
		return deviceError("FormatDrive", err)
	}
	s.Logger.Info("flash drive formatted", "volumes", len(volumes), "drive_mb", size)
	return nil
}

type volumeAttributes struct{}

func (volumeAttributes) Name() string { return "volume-attributes" }

func (volumeAttributes) Execute(ctx context.Context, s *Session) error {
	if len(s.Options.VolumeAttributes) == 0 {
		return missingOption("volume attributes")
	}
	if err := requireFlashDrive(s); err != nil {
		return err
	}
	specs, err := volume.ParseAttributes(s.Options.VolumeAttributes)
	if err != nil {
		return &ValidationError{Subject: "volume attributes", Err: err}
	}
	infos, err := s.Device.VolumesInfo(ctx)
	if err != nil {
		return deviceError("VolumesInfo", err)
	}
	changes, err := volume.ResolveAttributes(specs, infos, s.ownerPIN)
	if err != nil {
		if errors.Is(err, volume.ErrInvalidSpec) {
			return &ValidationError{Subject: "volume attributes", Err: err}
		}
		return err
	}

	for _, c := range changes {
		if err := s.Device.ChangeVolumeAttributes(ctx, c); err != nil {
			return deviceError("ChangeVolumeAttributes", err)
		}
		s.Logger.Info("volume attributes changed", "volume", c.VolumeID, "access", c.AccessMode.String(), "permanent", c.Permanent)
	}
	return nil
}

type volumeReport struct{}

func (volumeReport) Name() string { return "volume-report" }

func (volumeReport) Execute(ctx context.Context, s *Session) error {
	if err := requireFlashDrive(s); err != nil {
		return err
	}
	infos, err := s.Device.VolumesInfo(ctx)
	if err != nil {
		return deviceError("VolumesInfo", err)
	}
	size, err := s.Device.DriveSize(ctx)
	if err != nil {
		return deviceError("DriveSize", err)
	}
	return volume.NewReport(s.caps.SerialDecimal, size, infos).Write(s.Out)
}
