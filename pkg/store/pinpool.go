// Package store provides the pre-generated PIN pools used for bulk token
// provisioning.
package store

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// ErrPoolExhausted indicates every PIN in the pool has been handed out.
var ErrPoolExhausted = errors.New("store: PIN pool exhausted")

// PINPool hands out PINs in file order, each at most once.
type PINPool struct {
	mu   sync.Mutex
	pins []string
	next int
}

// NewPINPool returns a pool over pins.
func NewPINPool(pins ...string) *PINPool {
	return &PINPool{pins: append([]string(nil), pins...)}
}

// LoadPINPool reads a pool file.
func LoadPINPool(path string) (*PINPool, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("store: open PIN pool: %w", err)
	}
	defer f.Close()
	return ReadPINPool(f)
}

// ReadPINPool reads one PIN per line. Blank lines and lines starting with
// '#' are skipped.
func ReadPINPool(r io.Reader) (*PINPool, error) {
	var pins []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		pins = append(pins, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("store: read PIN pool: %w", err)
	}
	return &PINPool{pins: pins}, nil
}

// Next returns the next unused PIN.
func (p *PINPool) Next() (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.next >= len(p.pins) {
		return "", ErrPoolExhausted
	}
	pin := p.pins[p.next]
	p.next++
	return pin, nil
}

// Remaining returns how many PINs are left.
func (p *PINPool) Remaining() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.pins) - p.next
}
