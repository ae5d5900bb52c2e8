package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/clinicops/workflow-agent/internal/actions"
	"github.com/clinicops/workflow-agent/internal/agent"
	"github.com/clinicops/workflow-agent/internal/audit"
	appconfig "github.com/clinicops/workflow-agent/internal/config"
	"github.com/clinicops/workflow-agent/internal/store"
	"github.com/clinicops/workflow-agent/pkg/logging"
)

// demoRequests exercises the full range of agent behavior: lookups, the
// booking chain, a refusal, an unknown patient, and an out-of-scope action.
var demoRequests = []string{
	"Find patient Ravi Kumar",
	"Check insurance eligibility for patient Priya Sharma",
	"Book a cardiology appointment for patient Ravi Kumar next week",
	"What medication should I take for my headache?",
	"Book a dermatology appointment for patient John Doe",
	"Cancel my appointment for tomorrow",
}

func main() {
	_ = godotenv.Load()

	dryRun := flag.Bool("dry-run", false, "simulate bookings without mutating the store")
	request := flag.String("request", "", "process a single request instead of the demo set")
	showAudit := flag.Bool("audit", true, "print the audit trail after processing")
	flag.Parse()

	cfg := appconfig.Load()
	logger := logging.NewWithWriter("warn", "text", os.Stderr)

	st := store.NewSeeded(store.SeedConfig{
		Seed:        cfg.SeedValue,
		HorizonDays: cfg.SlotHorizonDays,
		Start:       time.Now(),
	})
	recorder := audit.NewRecorder()
	registry := actions.NewRegistry(st, logger)
	a := agent.New(registry, recorder, logger, agent.WithDryRun(cfg.DryRun))

	requests := demoRequests
	if *request != "" {
		requests = []string{*request}
	}

	ctx := context.Background()
	for i, text := range requests {
		fmt.Printf("%s\n[%d/%d] %q\n", divider(), i+1, len(requests), text)
		printResult(a.ProcessRequest(ctx, text, *dryRun))
	}

	if *showAudit {
		fmt.Printf("%s\nAudit trail (%d entries)\n%s\n", divider(), recorder.Len(), divider())
		for _, e := range recorder.Snapshot() {
			fmt.Printf("%s  %-18s %-8s %s\n",
				e.Timestamp.Format("15:04:05"), e.Action, e.Outcome, e.Detail)
		}
	}
}

func printResult(res *agent.Result) {
	fmt.Printf("  status: %s\n", res.Status)
	for _, step := range res.Steps {
		line := fmt.Sprintf("  step:   %-28s %s", step.Action, step.Status)
		if step.Error != "" {
			line += " (" + step.Error + ")"
		}
		fmt.Println(line)
	}
	fmt.Printf("  summary: %s\n", res.Summary)
}

func divider() string {
	return strings.Repeat("=", 64)
}
