// Package id provides centralized ID generation for the window scene client.
//
// Two families of identifiers exist:
//   - ULIDs for tracing: K-sortable, prefixed for readable logs (trace_*, span_*)
//   - Persistent window ids: positive int64 values handed out by a host
//
// Event channel tokens are random UUIDs so they cannot be guessed by a peer
// that only knows the window name.
package id

import (
	"crypto/rand"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// TraceID identifies a traced RPC chain
type TraceID string

// SpanID identifies one RPC inside a trace
type SpanID string

// ChannelToken identifies an event channel endpoint
type ChannelToken string

// PersistentID is the host-assigned window id. Zero is never assigned.
type PersistentID = int64

const (
	TracePrefix = "trace"
	SpanPrefix  = "span"
)

// Generator generates ULIDs with optional prefixes
type Generator struct {
	entropy   io.Reader
	entropyMu sync.Mutex
}

var (
	defaultGenerator *Generator
	once             sync.Once
)

// Default returns the singleton generator instance
func Default() *Generator {
	once.Do(func() {
		defaultGenerator = NewGenerator()
	})
	return defaultGenerator
}

// NewGenerator creates a new ULID generator
func NewGenerator() *Generator {
	return &Generator{
		entropy: rand.Reader,
	}
}

// NewGeneratorWithEntropy creates a generator with custom entropy source
func NewGeneratorWithEntropy(entropy io.Reader) *Generator {
	return &Generator{
		entropy: entropy,
	}
}

// Generate creates a new ULID
func (g *Generator) Generate() ulid.ULID {
	g.entropyMu.Lock()
	defer g.entropyMu.Unlock()

	return ulid.MustNew(ulid.Timestamp(time.Now()), g.entropy)
}

// GenerateWithPrefix creates a prefixed ULID string
func (g *Generator) GenerateWithPrefix(prefix string) string {
	return fmt.Sprintf("%s_%s", prefix, g.Generate().String())
}

// NewTraceID generates a new trace ID
func NewTraceID() TraceID {
	return TraceID(Default().GenerateWithPrefix(TracePrefix))
}

// NewSpanID generates a new span ID
func NewSpanID() SpanID {
	return SpanID(Default().GenerateWithPrefix(SpanPrefix))
}

// NewChannelToken generates a random event channel token
func NewChannelToken() ChannelToken {
	return ChannelToken(uuid.NewString())
}

func (id TraceID) String() string      { return string(id) }
func (id SpanID) String() string       { return string(id) }
func (id ChannelToken) String() string { return string(id) }

// IsValidChannelToken reports whether s parses as a channel token.
func IsValidChannelToken(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}

// Timestamp extracts the timestamp from a prefixed or bare ULID
func Timestamp(s string) (time.Time, error) {
	if n := len(s); n > 26 {
		s = s[n-26:]
	}
	parsed, err := ulid.Parse(s)
	if err != nil {
		return time.Time{}, err
	}
	return ulid.Time(parsed.Time()), nil
}

// Allocator hands out persistent window ids in increasing order.
type Allocator struct {
	next atomic.Int64
}

// NewAllocator creates an allocator whose first id is start (min 1).
func NewAllocator(start int64) *Allocator {
	if start < 1 {
		start = 1
	}
	a := &Allocator{}
	a.next.Store(start)
	return a
}

// Next returns a fresh persistent id
func (a *Allocator) Next() PersistentID {
	return a.next.Add(1) - 1
}
