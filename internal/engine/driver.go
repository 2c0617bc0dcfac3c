// Package engine implements the Driver (component F): it orchestrates
// the AIG builder, simulator, analyzer, and the two optimizers into one
// engine run over a single module, and is the only component that
// talks to the optional Run Store and Report Service.
package engine

import (
	"context"
	"crypto/rand"
	"fmt"
	"log"
	mrand "math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/rawblock/logiclock/internal/aig"
	"github.com/rawblock/logiclock/internal/analyze"
	"github.com/rawblock/logiclock/internal/keycodec"
	"github.com/rawblock/logiclock/internal/netlist"
	"github.com/rawblock/logiclock/internal/optimize"
	"github.com/rawblock/logiclock/internal/simulate"
	"github.com/rawblock/logiclock/pkg/models"
)

// testVectorSeed is fixed so the Bernoulli(½) test-vector sample is
// reproducible across runs (spec.md §4.6 step 2). It is explicitly
// not cryptographic — see §9's caveat — key-bit generation below uses
// crypto/rand instead.
const testVectorSeed = 1

// RunStore persists one EngineRun provenance record. Nil-safe: the
// Driver continues (and logs) if SaveRun fails or Store is nil,
// mirroring the teacher's "continue without persisting" pattern for
// its own optional Postgres dependency.
type RunStore interface {
	SaveRun(ctx context.Context, run models.EngineRun) error
}

// ProgressFunc receives the analyzer's per-unit-of-work ticks, each
// labelled with the name of the running pass ("pairwise" or
// "corruption").
type ProgressFunc func(phase string, done, total int)

// Driver runs one engine invocation over a single module.
type Driver struct {
	Module   netlist.Module
	Config   models.Config
	Store    RunStore
	Progress ProgressFunc
}

func (d *Driver) report(phase string, done, total int) {
	if d.Progress != nil {
		d.Progress(phase, done, total)
	}
}

// Run executes the full A–E pipeline (or an explicit bypass) and
// returns the provenance record. Every fatal condition is one of the
// typed errors in pkg/models.
func (d *Driver) Run(ctx context.Context) (*models.EngineRun, error) {
	started := time.Now()
	if err := d.validateConfig(); err != nil {
		return nil, err
	}

	a, err := aig.Build(d.Module)
	if err != nil {
		return nil, err
	}

	candidates, candidateBySignal, err := enumerateCandidates(d.Module, a)
	if err != nil {
		return nil, err
	}

	numVectors := roundUpToWord(d.Config.NumTestVectors)
	budget := d.Config.ResolveKeyBitBudget(len(d.Module.Cells()))
	if d.Config.Key != "" {
		if _, err := keycodec.Parse(d.Config.Key, budget); err != nil {
			return nil, err
		}
	}

	var selections []models.Selection
	var coverage []models.CoverageRow

	switch {
	case len(d.Config.LockGates) > 0 || len(d.Config.MixGates) > 0:
		selections, err = d.resolveExplicitSelection(candidateBySignal)
		if err != nil {
			return nil, err
		}

	default:
		sim := simulate.New(a)
		batches := generateTestVectors(a.Inputs, numVectors)
		analyzer := analyze.New(sim, batches)

		selections, coverage, err = d.optimize(analyzer, candidates, budget, numVectors)
		if err != nil {
			return nil, err
		}
	}

	if err := d.assignKeyBits(selections); err != nil {
		return nil, err
	}

	run := &models.EngineRun{
		RunID:          uuid.NewString(),
		Module:         d.Module.Name(),
		Target:         d.Config.Target,
		KeyBitBudget:   budget,
		NumTestVectors: numVectors,
		Seed:           testVectorSeed,
		StartedAt:      started,
		Duration:       time.Since(started),
		Selections:     selections,
		Coverage:       coverage,
	}

	if d.Store != nil {
		if err := d.Store.SaveRun(ctx, *run); err != nil {
			log.Printf("Warning: failed to persist engine run %s, continuing: %v", run.RunID, err)
		}
	}
	return run, nil
}

func (d *Driver) validateConfig() error {
	c := d.Config
	if c.KeyBits == 0 && (c.KeyPercent < 0 || c.KeyPercent > 100) {
		return &models.InvalidConfigurationError{Reason: "key-percent must be within [0,100]"}
	}
	if c.NumTestVectors < 4 {
		return &models.InvalidConfigurationError{Reason: "nb-test-vectors must be >= 4"}
	}
	switch c.Target {
	case models.TargetPairwise, models.TargetCorruption, models.TargetHybrid, "":
	default:
		return &models.InvalidConfigurationError{Reason: fmt.Sprintf("unknown target %q", c.Target)}
	}
	if (len(c.LockGates) > 0 || len(c.MixGates) > 0) && c.Report {
		return &models.InvalidConfigurationError{Reason: "-report cannot be combined with explicit -lock-gate/-mix-gate"}
	}
	return nil
}

// enumerateCandidates builds the candidate array (spec.md §4.6 step
// 1): the output of every supported combinational cell, in module
// cell order.
func enumerateCandidates(module netlist.Module, a *aig.AIG) ([]models.Candidate, map[models.SignalID]models.Candidate, error) {
	cells := module.Cells()
	candidates := make([]models.Candidate, 0, len(cells))
	bySignal := make(map[models.SignalID]models.Candidate, len(cells))
	for i, cell := range cells {
		node, ok := a.NodeFor(cell.Output())
		if !ok {
			return nil, nil, &models.MalformedNetlistError{Entity: cell.Name(), Reason: "cell output did not resolve to an AIG node"}
		}
		cand := models.Candidate{Index: i, Signal: cell.Output(), Node: node}
		candidates = append(candidates, cand)
		bySignal[cell.Output()] = cand
	}
	return candidates, bySignal, nil
}

// generateTestVectors samples numVectors test vectors for every input
// signal independently from Bernoulli(½) under the fixed seed,
// packing them into ceil(numVectors/64) batches (spec.md §4.6 step 2).
func generateTestVectors(inputs []models.SignalID, numVectors int) []models.TestVectorBatch {
	rng := mrand.New(mrand.NewSource(testVectorSeed))
	numBatches := numVectors / models.WordBits
	batches := make([]models.TestVectorBatch, numBatches)
	for k := range batches {
		batch := models.NewTestVectorBatch(inputs)
		for _, sig := range inputs {
			var word uint64
			for t := 0; t < models.WordBits; t++ {
				if rng.Intn(2) == 1 {
					word |= 1 << uint(t)
				}
			}
			batch.Words[sig] = word
		}
		batches[k] = batch
	}
	return batches
}

func roundUpToWord(n int) int {
	if rem := n % models.WordBits; rem != 0 {
		n += models.WordBits - rem
	}
	return n
}

// optimize runs the analyzer and the target-selected optimizer(s),
// producing an ordered selection and, if -report was requested, a
// coverage-vs-locked-cells table.
func (d *Driver) optimize(analyzer *analyze.Analyzer, candidates []models.Candidate, budget, numVectors int) ([]models.Selection, []models.CoverageRow, error) {
	target := d.Config.Target
	if target == "" {
		target = models.TargetPairwise
	}

	var ordered []int
	var matrix *models.CorruptionMatrix

	switch target {
	case models.TargetPairwise:
		analyzer.Progress = func(done, total int) { d.report("pairwise", done, total) }
		graph := analyzer.Pairwise(candidates)
		ordered = flattenCliques(optimize.Clique(graph, budget))

	case models.TargetCorruption:
		analyzer.Progress = func(done, total int) { d.report("corruption", done, total) }
		matrix = analyzer.Corruption(candidates)
		ordered = optimize.Corruption(matrix, budget, nil, numVectors)

	case models.TargetHybrid:
		analyzer.Progress = func(done, total int) { d.report("pairwise", done, total) }
		graph := analyzer.Pairwise(candidates)
		prefix := largestClique(optimize.Clique(graph, budget))

		analyzer.Progress = func(done, total int) { d.report("corruption", done, total) }
		matrix = analyzer.Corruption(candidates)
		ordered = optimize.Corruption(matrix, budget, prefix, numVectors)
	}

	selections := make([]models.Selection, len(ordered))
	for i, idx := range ordered {
		selections[i] = models.Selection{CandidateIndex: idx, Signal: candidates[idx].Signal, KeySlot: i}
	}

	var coverage []models.CoverageRow
	if d.Config.Report {
		if matrix == nil {
			analyzer.Progress = func(done, total int) { d.report("corruption", done, total) }
			matrix = analyzer.Corruption(candidates)
		}
		coverage = coverageTable(matrix, ordered, numVectors)
	}
	return selections, coverage, nil
}

// flattenCliques orders the clique optimizer's output into one flat
// candidate-index list, clique-by-clique, in emission order.
func flattenCliques(cliques [][]int) []int {
	out := make([]int, 0)
	for _, c := range cliques {
		out = append(out, c...)
	}
	return out
}

// largestClique returns the single biggest clique (ties broken by
// emission order, i.e. the greedy optimizer's own concentration
// preference), for the hybrid path's mandatory prefix (spec.md §4.6
// step 4).
func largestClique(cliques [][]int) []int {
	var best []int
	for _, c := range cliques {
		if len(c) > len(best) {
			best = c
		}
	}
	return best
}

// coverageTable computes corruption cover at every prefix length of
// the chosen ordering, for -report mode.
func coverageTable(matrix *models.CorruptionMatrix, ordered []int, numVectors int) []models.CoverageRow {
	rows := make([]models.CoverageRow, 0, len(ordered))
	for n := 1; n <= len(ordered); n++ {
		covered, total := matrix.CoverCount(ordered[:n], numVectors)
		cover := 0.0
		if total > 0 {
			cover = float64(covered) / float64(total)
		}
		rows = append(rows, models.CoverageRow{LockedCells: n, Cover: cover})
	}
	return rows
}

// resolveExplicitSelection handles -lock-gate/-mix-gate, bypassing the
// optimizers entirely (spec.md §4.6, §6).
func (d *Driver) resolveExplicitSelection(bySignal map[models.SignalID]models.Candidate) ([]models.Selection, error) {
	var selections []models.Selection
	slot := 0
	for _, name := range d.Config.LockGates {
		cand, ok := bySignal[name]
		if !ok {
			return nil, &models.SelectionImpossibleError{Name: string(name), Reason: "no such internal signal in module"}
		}
		selections = append(selections, models.Selection{CandidateIndex: cand.Index, Signal: cand.Signal, KeySlot: slot})
		slot++
	}
	for _, pair := range d.Config.MixGates {
		ca, ok := bySignal[pair.A]
		if !ok {
			return nil, &models.SelectionImpossibleError{Name: string(pair.A), Reason: "no such internal signal in module"}
		}
		cb, ok := bySignal[pair.B]
		if !ok {
			return nil, &models.SelectionImpossibleError{Name: string(pair.B), Reason: "no such internal signal in module"}
		}
		// A MUX lock consumes one key bit shared by both signals in
		// the pair, so both get the same KeySlot.
		selections = append(selections,
			models.Selection{CandidateIndex: ca.Index, Signal: ca.Signal, KeySlot: slot},
			models.Selection{CandidateIndex: cb.Index, Signal: cb.Signal, KeySlot: slot},
		)
		slot++
	}
	return selections, nil
}

// assignKeyBits fills in the KeyBit field of every selection, either
// from an explicit -key value or from a cryptographically secure
// random source (spec.md §9: test-vector sampling is reproducible by
// design, but key material must not be).
func (d *Driver) assignKeyBits(selections []models.Selection) error {
	if len(selections) == 0 {
		return nil
	}
	numSlots := 0
	for _, s := range selections {
		if s.KeySlot+1 > numSlots {
			numSlots = s.KeySlot + 1
		}
	}

	if d.Config.Key != "" {
		key, err := keycodec.Parse(d.Config.Key, numSlots)
		if err != nil {
			return err
		}
		for i := range selections {
			if key[selections[i].KeySlot] {
				selections[i].KeyBit = 1
			}
		}
		return nil
	}
	buf := make([]byte, (numSlots+7)/8)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Errorf("generating secure key bits: %w", err)
	}
	for i := range selections {
		slot := selections[i].KeySlot
		byteIdx, bitIdx := slot/8, slot%8
		if buf[byteIdx]&(1<<uint(bitIdx)) != 0 {
			selections[i].KeyBit = 1
		}
	}
	return nil
}
