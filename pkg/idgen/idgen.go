package idgen

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// Generator produces unique identifiers for new records.
type Generator interface {
	NextID() string
}

// UUIDGenerator produces random UUIDs. Production default.
type UUIDGenerator struct{}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

func (UUIDGenerator) NextID() string {
	return uuid.New().String()
}

// SequenceGenerator produces prefixed sequential ids ("enc-1", "enc-2", ...).
// Deterministic, used in tests and local development.
type SequenceGenerator struct {
	prefix string
	next   atomic.Uint64
}

func NewSequenceGenerator(prefix string) *SequenceGenerator {
	if prefix == "" {
		prefix = "id"
	}
	return &SequenceGenerator{prefix: prefix}
}

func (g *SequenceGenerator) NextID() string {
	return fmt.Sprintf("%s-%d", g.prefix, g.next.Add(1))
}
