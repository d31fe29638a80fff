// Package idgen allocates collision-resistant, human-readable identifiers of the
// form PREFIX-TIME-RANDOM, where TIME is the base-36 clock reading and RANDOM is
// hex-encoded bytes from crypto/rand, both upper case.
package idgen

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// DefaultRandomBytes is the size of the random suffix before hex encoding
const DefaultRandomBytes = 8

// Allocator produces a fresh identifier for a prefix on every call
type Allocator interface {
	Allocate(prefix string) (string, error)
}

// Generator is the production Allocator
type Generator struct {
	now         func() time.Time
	random      io.Reader
	randomBytes int
}

func NewGenerator() *Generator {
	return &Generator{
		now:         time.Now,
		random:      rand.Reader,
		randomBytes: DefaultRandomBytes,
	}
}

// WithSource swaps the clock and entropy source
func (g *Generator) WithSource(now func() time.Time, random io.Reader) *Generator {
	return &Generator{now: now, random: random, randomBytes: g.randomBytes}
}

func (g *Generator) Allocate(prefix string) (string, error) {
	buf := make([]byte, g.randomBytes)
	if _, err := io.ReadFull(g.random, buf); err != nil {
		return "", fmt.Errorf("read random suffix: %w", err)
	}

	timePart := strings.ToUpper(strconv.FormatInt(g.now().UnixNano(), 36))
	randomPart := strings.ToUpper(hex.EncodeToString(buf))

	return strings.ToUpper(prefix) + "-" + timePart + "-" + randomPart, nil
}
