// Command enginecli is the reference entrypoint: it parses the CLI
// surface of spec.md §6, wires a Driver over a single bundled demo
// module, and optionally attaches the Run Store and Report Service.
// Real netlist parsing is an external collaborator (spec.md §1) — this
// binary exists to exercise the engine end to end, not to read any
// production netlist format.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/rawblock/logiclock/internal/engine"
	"github.com/rawblock/logiclock/internal/netlist"
	"github.com/rawblock/logiclock/internal/report"
	"github.com/rawblock/logiclock/internal/store"
	"github.com/rawblock/logiclock/pkg/models"
)

func main() {
	log.Println("Starting logiclock engine...")

	target := flag.String("target", "pairwise", "optimization target: pairwise|corruption|hybrid")
	keyPercent := flag.Float64("key-percent", 5, "key-bit budget as a percentage of combinational cells")
	keyBits := flag.Int("key-bits", 0, "key-bit budget as an absolute count (overrides -key-percent)")
	numTestVectors := flag.Int("nb-test-vectors", 64, "number of test vectors to sample")
	key := flag.String("key", "", "explicit key, little-endian nibble hex")
	reportFlag := flag.Bool("report", false, "analyze only, emit coverage table, do not rewrite")
	lockGate := flag.String("lock-gate", "", "explicit per-gate XOR lock (bypasses optimizer)")
	mixGate := flag.String("mix-gate", "", "explicit per-pair MUX lock \"n1,n2\" (bypasses optimizer)")
	module := flag.String("module", "full_adder", "module to operate on (the bundled reference module)")
	flag.Parse()

	cfg := models.Config{
		Module:         *module,
		Target:         models.Target(*target),
		KeyPercent:     *keyPercent,
		KeyBits:        *keyBits,
		NumTestVectors: *numTestVectors,
		Key:            *key,
		Report:         *reportFlag,
	}
	if *lockGate != "" {
		cfg.LockGates = []models.SignalID{models.SignalID(*lockGate)}
	}
	if *mixGate != "" {
		parts := strings.SplitN(*mixGate, ",", 2)
		if len(parts) != 2 {
			log.Fatalf("fatal: invalid -mix-gate value %q, expected \"n1,n2\"", *mixGate)
		}
		cfg.MixGates = []models.MixPair{{
			A: models.SignalID(strings.TrimSpace(parts[0])),
			B: models.SignalID(strings.TrimSpace(parts[1])),
		}}
	}

	mod, err := referenceModule(*module)
	if err != nil {
		log.Fatalf("fatal: %v", err)
	}

	// ─── Optional Run Store ──────────────────────────────────────
	// All credentials MUST come from environment variables.
	var runStore *store.Store
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		s, err := store.Connect(context.Background(), dbURL)
		if err != nil {
			log.Printf("Warning: failed to connect to PostgreSQL, continuing without persisting run provenance. Error: %v", err)
		} else {
			defer s.Close()
			if err := s.InitSchema(context.Background()); err != nil {
				log.Printf("Warning: run store schema init failed: %v", err)
			}
			runStore = s
		}
	} else {
		log.Println("DATABASE_URL not set, continuing without persisting run provenance")
	}

	// ─── Optional Report Service ─────────────────────────────────
	var progress engine.ProgressFunc
	var reportHandler *report.Handler
	if getEnvOrDefault("REPORT_SERVE", "") == "true" {
		hub := report.NewHub()
		go hub.Run()
		reportHandler = report.NewHandler()
		progress = hub.BroadcastProgress

		addr := getEnvOrDefault("REPORT_ADDR", ":8090")
		go func() {
			if err := report.Router(hub, reportHandler).Run(addr); err != nil {
				log.Printf("Warning: report service stopped: %v", err)
			}
		}()
		log.Printf("Report service listening on %s (GET /report, GET /ws)", addr)
	}

	driver := &engine.Driver{Module: mod, Config: cfg, Progress: progress}
	if runStore != nil {
		driver.Store = runStore
	}

	run, err := driver.Run(context.Background())
	if err != nil {
		log.Fatalf("fatal: %v", err)
	}

	log.Printf("Run %s complete: %d signal(s) locked on module %q (target=%s, budget=%d)",
		run.RunID, len(run.Selections), run.Module, run.Target, run.KeyBitBudget)

	if cfg.Report {
		if reportHandler != nil {
			reportHandler.SetReport(run.Module, run.Target, run.Coverage)
		}
		for _, row := range run.Coverage {
			log.Printf("  locked=%d cover=%.4f", row.LockedCells, row.Cover)
		}
	}
}

func getEnvOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// referenceModule returns the single bundled demo circuit. It stands
// in for a real netlist collaborator (spec.md §6), which this core
// never implements.
func referenceModule(name string) (netlist.Module, error) {
	switch name {
	case "full_adder", "":
		return fullAdderModule(), nil
	default:
		return nil, fmt.Errorf("unknown module %q: the reference CLI only bundles \"full_adder\"", name)
	}
}

// fullAdderModule builds a one-bit full adder: sum = a XOR b XOR cin,
// cout = majority(a,b,cin). This is spec.md §8 scenario 5's fixture.
func fullAdderModule() *netlist.MemModule {
	m := netlist.NewMemModule("full_adder",
		[]models.SignalID{"a", "b", "cin"},
		[]models.SignalID{"sum", "cout"},
	)
	m.AddCell("u_xor1", netlist.CellXor, []models.SignalID{"a", "b"}, "x1")
	m.AddCell("u_xor2", netlist.CellXor, []models.SignalID{"x1", "cin"}, "sum")
	m.AddCell("u_and1", netlist.CellAnd, []models.SignalID{"a", "b"}, "and1")
	m.AddCell("u_and2", netlist.CellAnd, []models.SignalID{"x1", "cin"}, "and2")
	m.AddCell("u_or1", netlist.CellOr, []models.SignalID{"and1", "and2"}, "cout")
	return m
}
