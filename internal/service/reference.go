package service

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// RefPrefix starts every booking reference.
const RefPrefix = "BK-"

// Reference strategies accepted by NewRefGenerator.
const (
	RefStrategyTimestamp = "timestamp"
	RefStrategyUUID      = "uuid"
)

// RefGenerator mints booking references.  Implementations must be safe
// for concurrent use and never return the same reference twice within a
// process.
type RefGenerator interface {
	Next() string
}

// TimestampRefs renders references as "BK-<unix seconds>".  When a
// reference was already issued for the current second (or the clock went
// backwards) the next unused integer is taken instead, so references stay
// unique and increasing.
type TimestampRefs struct {
	mu   sync.Mutex
	now  func() time.Time
	last int64
}

// NewTimestampRefs returns a generator reading the given clock; a nil
// clock means time.Now.
func NewTimestampRefs(now func() time.Time) *TimestampRefs {
	if now == nil {
		now = time.Now
	}
	return &TimestampRefs{now: now}
}

// Next implements RefGenerator.
func (g *TimestampRefs) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	n := g.now().UTC().Unix()
	if n <= g.last {
		n = g.last + 1
	}
	g.last = n
	return RefPrefix + strconv.FormatInt(n, 10)
}

// UUIDRefs renders references as "BK-<random uuid>".
type UUIDRefs struct{}

// Next implements RefGenerator.
func (UUIDRefs) Next() string {
	return RefPrefix + uuid.NewString()
}

// NewRefGenerator picks a generator by strategy name.  An empty strategy
// selects the timestamp generator.
func NewRefGenerator(strategy string) (RefGenerator, error) {
	switch strings.ToLower(strings.TrimSpace(strategy)) {
	case "", RefStrategyTimestamp:
		return NewTimestampRefs(nil), nil
	case RefStrategyUUID:
		return UUIDRefs{}, nil
	default:
		return nil, fmt.Errorf("unknown booking reference strategy %q", strategy)
	}
}
