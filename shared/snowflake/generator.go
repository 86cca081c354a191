package snowflake

import (
	"fmt"
	"os"
	"sync"
	"time"
)

const (
	workerBits   = 5
	processBits  = 5
	sequenceBits = 12

	maxWorker   = (1 << workerBits) - 1
	maxSequence = (1 << sequenceBits) - 1

	processShift = sequenceBits
	workerShift  = sequenceBits + processBits
)

// Generator mints snowflakes in the 42/5/5/12 layout used by the archive API.
type Generator struct {
	mu       sync.Mutex
	worker   uint64
	process  uint64
	sequence uint64
	now      func() time.Time
}

func NewGenerator(worker int) (*Generator, error) {
	if worker < 0 || worker > maxWorker {
		return nil, fmt.Errorf("worker id must be between 0 and %d, got %d", maxWorker, worker)
	}
	return &Generator{
		worker:  uint64(worker),
		process: uint64(os.Getpid()) & ((1 << processBits) - 1),
		now:     time.Now,
	}, nil
}

// Next returns a new ID. The sequence wraps every 4096 IDs; uniqueness within
// one millisecond is therefore bounded by that count.
func (g *Generator) Next() ID {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.sequence = (g.sequence + 1) & maxSequence
	ts := uint64(g.now().UnixMilli()-DiscordEpoch) << timestampShift
	return ID(ts | g.worker<<workerShift | g.process<<processShift | g.sequence)
}
