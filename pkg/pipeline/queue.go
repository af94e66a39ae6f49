package pipeline

import (
	"context"
	"sync"
)

// Command is one queued operation. It owns no state of its own beyond its
// fixed parameters; everything it reads or changes lives in the Session it
// is handed at execution time.
type Command interface {
	Name() string
	Execute(ctx context.Context, s *Session) error
}

// CommandFunc adapts a function to the Command interface.
type CommandFunc struct {
	Op string
	Fn func(ctx context.Context, s *Session) error
}

// Name returns the operation name.
func (c CommandFunc) Name() string { return c.Op }

// Execute calls Fn.
func (c CommandFunc) Execute(ctx context.Context, s *Session) error { return c.Fn(ctx, s) }

// Queue is a FIFO of commands. Enqueue is safe for concurrent producers;
// Drain hands every queued command out exactly once.
type Queue struct {
	mu       sync.Mutex
	commands []Command
}

// Enqueue appends c.
func (q *Queue) Enqueue(c Command) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.commands = append(q.commands, c)
}

// Len returns the number of queued commands.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.commands)
}

// Drain removes and returns all queued commands in enqueue order.
func (q *Queue) Drain() []Command {
	q.mu.Lock()
	defer q.mu.Unlock()
	commands := q.commands
	q.commands = nil
	return commands
}
