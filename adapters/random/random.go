// Package random provides number sources for inputs that generate data.
package random

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/artpar/modinput/ports"
)

// Real draws from crypto/rand.
type Real struct{}

// Float64 returns a uniformly distributed number in [0, 1).
func (Real) Float64() (float64, error) {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random: %w", err)
	}
	// Keep the top 53 bits: exactly the float64 mantissa.
	return float64(binary.BigEndian.Uint64(b[:])>>11) / (1 << 53), nil
}

// Between returns a number in [low, high) drawn from r.
func Between(r ports.Random, low, high float64) (float64, error) {
	f, err := r.Float64()
	if err != nil {
		return 0, err
	}
	return low + f*(high-low), nil
}

// Fake returns preset values in order, then repeats the last one.
type Fake struct {
	mu     sync.Mutex
	values []float64
	index  int
}

// NewFake creates a fake source. With no values it always returns 0.
func NewFake(values ...float64) *Fake {
	return &Fake{values: values}
}

// Float64 returns the next preset value.
func (f *Fake) Float64() (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.values) == 0 {
		return 0, nil
	}
	v := f.values[f.index]
	if f.index < len(f.values)-1 {
		f.index++
	}
	return v, nil
}

// Reset starts the preset sequence over.
func (f *Fake) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.index = 0
}

var (
	_ ports.Random = Real{}
	_ ports.Random = (*Fake)(nil)
)
