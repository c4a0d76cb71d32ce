package cart

import (
	"strconv"
	"sync/atomic"

	"github.com/google/uuid"
)

// IDGenerator produces ephemeral line identifiers.
type IDGenerator interface {
	NewID() string
}

// UUIDGenerator issues random UUIDv4 identifiers.
type UUIDGenerator struct{}

func (UUIDGenerator) NewID() string {
	return uuid.New().String()
}

// SequenceGenerator issues "line-1", "line-2", ... and never repeats.
type SequenceGenerator struct {
	n atomic.Uint64
}

func (g *SequenceGenerator) NewID() string {
	return "line-" + strconv.FormatUint(g.n.Add(1), 10)
}
