package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/contact-cli/internal/email"
	"github.com/sells-group/contact-cli/internal/export"
	"github.com/sells-group/contact-cli/internal/model"
	"github.com/sells-group/contact-cli/internal/orgs"
	"github.com/sells-group/contact-cli/internal/pipeline"
	"github.com/sells-group/contact-cli/internal/store"
)

var (
	discoverInput         string
	discoverOutput        string
	discoverRoles         []string
	discoverBatchSize     int
	discoverMinConfidence float64
	discoverCheckpoint    string
	discoverPredictEmails bool
)

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Discover executive contacts for organizations in an input file",
	Long: `Runs the full discovery pipeline over a CSV or XLSX organization list.

Each organization is queried across all configured sources in parallel,
sightings are scored against the target roles, and corroborating sightings
merge into single records. Progress is checkpointed after every organization,
so an interrupted run resumes where it stopped.

Examples:
  # Default roles from config, resume from checkpoint.json
  contact-cli discover --input orgs.csv --output contacts.csv

  # Explicit roles, custom checkpoint, stricter cutoff
  contact-cli discover --input orgs.xlsx --roles "General Counsel,CFO" \
    --checkpoint run1.json --min-confidence 0.8 --output contacts.xlsx

  # Predict and verify missing email addresses after discovery
  contact-cli discover --input orgs.csv --predict-emails --output contacts.json`,
	RunE: runDiscover,
}

func runDiscover(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	queue, err := orgs.Load(discoverInput)
	if err != nil {
		return err
	}

	env, err := initDiscovery(ctx)
	if err != nil {
		return err
	}
	defer env.Close()

	roles := discoverRoles
	if len(roles) == 0 {
		roles = cfg.Discover.Roles
	}
	checkpointPath := discoverCheckpoint
	if checkpointPath == "" {
		checkpointPath = cfg.Discover.Checkpoint
	}
	batchSize := discoverBatchSize
	if batchSize == 0 {
		batchSize = cfg.Discover.BatchSize
	}
	minConfidence := discoverMinConfidence
	if minConfidence == 0 {
		minConfidence = cfg.Discover.MinConfidence
	}

	coordinator := pipeline.NewCoordinator(
		pipeline.Config{
			Roles:         roles,
			BatchSize:     batchSize,
			MinConfidence: minConfidence,
		},
		queue,
		env.adapters,
		env.classifier,
		pipeline.NewCheckpointFile(checkpointPath),
	)
	coordinator.OnProgress(func(p pipeline.Progress) {
		fmt.Printf("  [%d/%d] %s: %d contacts so far\n",
			p.OrgsProcessed, queue.Len(), p.Org.Name, p.ContactsFound)
	})

	run, err := env.store.CreateRun(ctx, discoverInput, roles, queue.Len())
	if err != nil {
		return err
	}

	results, discoverErr := coordinator.Discover(ctx)

	recordRunOutcome(ctx, env.store, run.ID, queue, len(results), discoverErr)
	if discoverErr != nil {
		return discoverErr
	}

	if discoverPredictEmails {
		results = predictEmails(ctx, results)
	}

	if discoverOutput != "" {
		if err := export.WriteFile(results, discoverOutput); err != nil {
			return err
		}
		fmt.Printf("Wrote %d contacts to %s\n", len(results), discoverOutput)
		return nil
	}

	fmt.Println(export.RenderTable(results))
	return nil
}

// recordRunOutcome closes out the run row: completed on a clean finish,
// failed with the error text otherwise. A store write failure is logged,
// not propagated, so it never masks the discovery error.
func recordRunOutcome(ctx context.Context, s *store.SQLiteStore, runID string, queue *orgs.Queue, contactsFound int, discoverErr error) {
	processed := 0
	for _, org := range queue.All() {
		if org.Processed {
			processed++
		}
	}
	status := model.RunStatusCompleted
	if discoverErr != nil {
		status = model.RunStatusFailed
	}
	if err := s.FinishRun(ctx, runID, status, processed, contactsFound, discoverErr); err != nil {
		zap.L().Warn("discover: record run failed", zap.Error(err))
	}
}

// predictEmails fills missing addresses with the best verified pattern
// candidate. Prediction failures leave the record as it was.
func predictEmails(ctx context.Context, records []model.ContactRecord) []model.ContactRecord {
	prober := email.NewNetProber(10 * time.Second)
	verifier := email.NewVerifier(prober, email.WithProbeRate(cfg.Email.ProbesPerSec))
	guesser := email.NewGuesser(prober, cfg.Email.TLDs...)

	for i := range records {
		r := &records[i]
		if r.Email != "" {
			continue
		}
		domain := email.DiscoverDomain("", "", r.OrgName)
		if guessed, err := guesser.Guess(ctx, r.OrgName); err == nil && guessed != "" {
			domain = guessed
		}
		if domain == "" {
			continue
		}
		verified, err := verifier.Verify(ctx, email.Candidates(r.Name, domain))
		if err != nil {
			zap.L().Warn("discover: email verification interrupted", zap.Error(err))
			break
		}
		if best, ok := email.BestMatch(verified); ok {
			r.Email = best.Address
			zap.L().Debug("discover: predicted email",
				zap.String("name", r.Name),
				zap.String("pattern", best.Pattern),
			)
		}
	}
	return records
}

func init() {
	discoverCmd.Flags().StringVar(&discoverInput, "input", "", "organization CSV or XLSX file (required)")
	discoverCmd.Flags().StringVar(&discoverOutput, "output", "", "output file (.csv, .json, .xlsx); prints a table when empty")
	discoverCmd.Flags().StringSliceVar(&discoverRoles, "roles", nil, "target roles (default from config)")
	discoverCmd.Flags().IntVar(&discoverBatchSize, "batch-size", 0, "organizations per batch (default from config)")
	discoverCmd.Flags().Float64Var(&discoverMinConfidence, "min-confidence", 0, "minimum confidence to keep (default from config)")
	discoverCmd.Flags().StringVar(&discoverCheckpoint, "checkpoint", "", "checkpoint file (default from config)")
	discoverCmd.Flags().BoolVar(&discoverPredictEmails, "predict-emails", false, "predict and verify missing email addresses")
	discoverCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(discoverCmd)
}
