package sim

import (
	"log"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/rs/xid"
)

// IDGenerator generates unique IDs for events and messages.
type IDGenerator interface {
	Generate() string
}

var (
	idGeneratorMu    sync.Mutex
	idGeneratorInUse bool
	idGenerator      IDGenerator
)

// UseSequentialIDGenerator makes all IDs sequential integers. Sequential IDs
// keep single-threaded simulations fully reproducible. This is the default.
func UseSequentialIDGenerator() {
	setIDGenerator(&sequentialIDGenerator{})
}

// UseParallelIDGenerator makes ID generation lock-free for multi-threaded
// engines. The IDs are no longer deterministic across runs.
func UseParallelIDGenerator() {
	setIDGenerator(parallelIDGenerator{})
}

func setIDGenerator(g IDGenerator) {
	idGeneratorMu.Lock()
	defer idGeneratorMu.Unlock()

	if idGeneratorInUse {
		log.Panic("cannot change the ID generator after an ID is generated")
	}

	idGenerator = g
	idGeneratorInUse = true
}

// GetIDGenerator returns the ID generator of the current simulation.
func GetIDGenerator() IDGenerator {
	idGeneratorMu.Lock()
	defer idGeneratorMu.Unlock()

	if !idGeneratorInUse {
		idGenerator = &sequentialIDGenerator{}
		idGeneratorInUse = true
	}

	return idGenerator
}

type sequentialIDGenerator struct {
	nextID uint64
}

func (g *sequentialIDGenerator) Generate() string {
	n := atomic.AddUint64(&g.nextID, 1)
	return strconv.FormatUint(n, 10)
}

type parallelIDGenerator struct{}

func (g parallelIDGenerator) Generate() string {
	return xid.New().String()
}
