// Package pipeline queues token administration commands and runs them in
// order against one token.
//
// A Builder is configured once with a device and the operator options, then
// collects commands through its With methods and finally runs them with
// Execute:
//
//	b := pipeline.New(pipeline.Config{Logger: logger, Out: os.Stdout})
//	if err := b.Configure(ctx, device, opts); err != nil {
//	    return err
//	}
//	err := b.WithGeneratedUserPIN().WithPINsChange().Execute(ctx)
//
// Execute validates the requested PIN lengths once, then runs the commands
// strictly in the order they were added and stops at the first failure.
// Commands that already ran are not rolled back.
package pipeline

import (
	"context"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/jeremyhahn/go-rtadmin/pkg/token"
	"github.com/jeremyhahn/go-rtadmin/pkg/volume"
)

// Config wires the collaborators shared by every run of a Builder.
type Config struct {
	// Logger receives one event per command; nil uses slog.Default().
	Logger *slog.Logger
	// Out receives command output such as activation passwords and volume
	// reports; nil discards it.
	Out io.Writer
	// Pool feeds WithPINsFromPool.
	Pool PINSource
	// Owners maps owner names to ids; nil uses volume.DefaultOwners().
	Owners *volume.Owners
}

// Builder accumulates commands for one token session.
type Builder struct {
	cfg     Config
	session *Session
	logger  *slog.Logger
	queue   Queue
}

// New returns an unconfigured Builder.
func New(cfg Config) *Builder {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Out == nil {
		cfg.Out = io.Discard
	}
	if cfg.Owners == nil {
		cfg.Owners = volume.DefaultOwners()
	}
	return &Builder{cfg: cfg}
}

// Configure captures the token capabilities and fills the session PIN slots
// from opts. It may be called once.
func (b *Builder) Configure(ctx context.Context, dev token.Device, opts Options) error {
	if b.session != nil {
		return ErrAlreadyConfigured
	}
	s, err := Capture(ctx, dev, opts)
	if err != nil {
		return err
	}
	b.attach(s)
	return nil
}

// ConfigureSession adopts a session built elsewhere, e.g. with NewSession.
func (b *Builder) ConfigureSession(s *Session) error {
	if b.session != nil {
		return ErrAlreadyConfigured
	}
	b.attach(s)
	return nil
}

func (b *Builder) attach(s *Session) {
	b.logger = b.cfg.Logger.With("token", s.caps.SerialDecimal)
	s.Logger = b.logger
	s.Out = b.cfg.Out
	s.Pool = b.cfg.Pool
	s.Owners = b.cfg.Owners
	b.session = s

	if admin, user := s.caps.DefaultPINs(); admin || user {
		b.logger.Warn("token uses factory default PINs", "admin", admin, "user", user)
	}
}

// Session returns the configured session, or nil.
func (b *Builder) Session() *Session { return b.session }

// Then queues c.
func (b *Builder) Then(c Command) *Builder {
	b.queue.Enqueue(c)
	return b
}

// Pending returns the number of queued commands.
func (b *Builder) Pending() int { return b.queue.Len() }

// Execute validates the requested PINs and runs the queued commands in
// order. The first failure stops the run and is returned wrapped in a
// *CommandError; later commands never run.
func (b *Builder) Execute(ctx context.Context) error {
	if b.session == nil {
		return ErrNotConfigured
	}
	s := b.session
	logger := b.logger.With("run", uuid.NewString())
	commands := b.queue.Drain()
	defer func() { s.Logger = b.logger }()

	if err := Validate(s.caps, s.NewAdminPIN, s.NewUserPIN); err != nil {
		logger.Error("PIN validation failed", "error", err)
		return err
	}

	for _, c := range commands {
		if err := ctx.Err(); err != nil {
			return err
		}
		op := logger.With("op", c.Name())
		s.Logger = op
		if err := c.Execute(ctx, s); err != nil {
			op.Error("operation failed", "error", err)
			return &CommandError{Op: c.Name(), Err: err}
		}
		op.Info("operation completed")
	}
	return nil
}
