// Package analyze implements the security analyzer (component C): the
// pairwise-security predicate over candidate signal pairs (§4.3.1) and
// per-signal output-corruption data (§4.3.2), both driven by repeated
// calls into the bit-parallel simulator.
package analyze

import (
	"runtime"
	"sync"

	"github.com/rawblock/logiclock/internal/simulate"
	"github.com/rawblock/logiclock/pkg/models"
)

// Analyzer drives one Simulator over a fixed set of test-vector
// batches. The empty-toggle pass is evaluated once per batch and
// cached — every pairwise and corruption pass reuses it, per spec.md
// §4.3.1's "all four sim passes per pair share a common ∅-pass;
// implementations should cache it."
type Analyzer struct {
	sim     *simulate.Simulator
	batches []models.TestVectorBatch
	outputs []models.SignalID
	empty   []map[models.SignalID]uint64

	// Progress, if set, is invoked once per completed unit of work
	// inside parallelFor (a pair in Pairwise, a candidate row in
	// Corruption) with the running count and the total. It may be
	// called concurrently from multiple worker goroutines; callers
	// that forward this to a shared sink (e.g. a websocket hub) must
	// tolerate that themselves.
	Progress func(done, total int)
}

// New builds an Analyzer and runs the shared empty-toggle pass over
// every batch.
func New(sim *simulate.Simulator, batches []models.TestVectorBatch) *Analyzer {
	empty := make([]map[models.SignalID]uint64, len(batches))
	for k, batch := range batches {
		empty[k] = sim.Run(batch, nil)
	}
	return &Analyzer{sim: sim, batches: batches, outputs: sim.Outputs(), empty: empty}
}

// simPool hands out one Simulator per worker goroutine, each cloned
// from the Analyzer's base Simulator so they share the read-only AIG
// but never share a scratch buffer (spec.md §5: both analyzer loops
// are embarrassingly parallel over independent read-only AIG input).
// A plain channel-backed pool is used because no third-party
// worker-pool/queue library appears anywhere in the example pack this
// engine was built from.
type simPool struct {
	sims chan *simulate.Simulator
}

func newSimPool(base *simulate.Simulator, n int) *simPool {
	p := &simPool{sims: make(chan *simulate.Simulator, n)}
	p.sims <- base
	for i := 1; i < n; i++ {
		p.sims <- base.Clone()
	}
	return p
}

func (p *simPool) get() *simulate.Simulator  { return <-p.sims }
func (p *simPool) put(s *simulate.Simulator) { p.sims <- s }

// parallelFor runs fn(i, sim) for i in [0,n), handing each invocation
// a worker-private Simulator, across up to GOMAXPROCS goroutines, and
// waits for all to finish.
func (a *Analyzer) parallelFor(n int, fn func(i int, sim *simulate.Simulator)) {
	workers := runtime.GOMAXPROCS(0)
	if workers > n {
		workers = n
	}
	if workers < 1 {
		workers = 1
	}
	pool := newSimPool(a.sim, workers)

	var next, done int
	var mu sync.Mutex
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			sim := pool.get()
			defer pool.put(sim)
			for {
				mu.Lock()
				i := next
				next++
				mu.Unlock()
				if i >= n {
					return
				}
				fn(i, sim)
				if a.Progress != nil {
					mu.Lock()
					done++
					d := done
					mu.Unlock()
					a.Progress(d, n)
				}
			}
		}()
	}
	wg.Wait()
}
