package distribution

import (
	"crypto/rand"
	"encoding/binary"
	"sync"
	"time"

	xrand "golang.org/x/exp/rand"
)

// engine is the single random stream shared by every Distribution.
var engine struct {
	once  sync.Once
	src   *xrand.PCGSource
	rng   *xrand.Rand
	seeds int
}

// Seed initialises the shared engine from two seed words. Only the first
// seeding of the process takes effect; Seed reports whether this call did it.
func Seed(s1, s2 uint64) bool {
	seeded := false
	engine.once.Do(func() {
		var state [16]byte
		binary.BigEndian.PutUint64(state[:8], s1)
		binary.BigEndian.PutUint64(state[8:], s2)

		src := &xrand.PCGSource{}
		// A 16 byte state never fails to unmarshal.
		_ = src.UnmarshalBinary(state[:])

		engine.src = src
		engine.rng = xrand.New(src)
		engine.seeds++
		seeded = true
	})
	return seeded
}

// SeedFromEntropy seeds the shared engine from two words of process entropy.
func SeedFromEntropy() bool {
	s1, s2 := entropyWords()
	return Seed(s1, s2)
}

// Seeded reports whether the shared engine has been initialised.
func Seeded() bool {
	return engine.seeds > 0
}

func entropyWords() (uint64, uint64) {
	var buf [16]byte
	if _, err := rand.Read(buf[:]); err != nil {
		now := uint64(time.Now().UnixNano())
		return now, now ^ 0x9e3779b97f4a7c15
	}
	return binary.LittleEndian.Uint64(buf[:8]), binary.LittleEndian.Uint64(buf[8:])
}

func ensureSeeded() {
	if engine.src == nil {
		SeedFromEntropy()
	}
}

func source() xrand.Source {
	ensureSeeded()
	return engine.src
}

func rng() *xrand.Rand {
	ensureSeeded()
	return engine.rng
}
