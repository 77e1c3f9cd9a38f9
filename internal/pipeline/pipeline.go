package pipeline

import (
	"context"
	"sync"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/contact-cli/internal/identify"
	"github.com/sells-group/contact-cli/internal/model"
	"github.com/sells-group/contact-cli/internal/source"
)

// State is the coordinator lifecycle. Interruption is not a state that gets
// persisted anywhere: a dead process is recovered by restarting from the
// checkpoint.
type State string

const (
	StateNotStarted State = "not_started"
	StateRunning    State = "running"
	StateCompleted  State = "completed"
)

// OrgQueue supplies organizations in input order.
type OrgQueue interface {
	// NextBatch returns up to size unprocessed organizations, empty when
	// the queue is exhausted.
	NextBatch(size int) []model.Organization
	// MarkProcessed flips the processed flag for an organization.
	MarkProcessed(ein int64)
}

// Config bounds a discovery run.
type Config struct {
	Roles         []string
	BatchSize     int
	MinConfidence float64
}

// Progress is reported after each completed organization.
type Progress struct {
	Org           model.Organization
	OrgsProcessed int
	ContactsFound int
}

// Coordinator drives organizations through the source adapters in bounded
// batches, merging results and persisting a checkpoint after every
// organization so a crash loses at most the in-flight organization.
type Coordinator struct {
	cfg        Config
	queue      OrgQueue
	adapters   []source.Adapter
	classifier *identify.Classifier
	checkpoint *CheckpointFile

	state      State
	acc        *Accumulator
	completed  map[int64]struct{}
	onProgress func(Progress)
}

// NewCoordinator wires a Coordinator. The checkpoint may be nil for
// single-shot in-memory runs.
func NewCoordinator(cfg Config, queue OrgQueue, adapters []source.Adapter, classifier *identify.Classifier, checkpoint *CheckpointFile) *Coordinator {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 10
	}
	return &Coordinator{
		cfg:        cfg,
		queue:      queue,
		adapters:   adapters,
		classifier: classifier,
		checkpoint: checkpoint,
		state:      StateNotStarted,
		acc:        NewAccumulator(),
		completed:  make(map[int64]struct{}),
	}
}

// OnProgress registers a callback invoked after each completed organization.
func (c *Coordinator) OnProgress(fn func(Progress)) { c.onProgress = fn }

// State returns the current lifecycle state.
func (c *Coordinator) State() State { return c.state }

// Discover runs the full pipeline: validates roles, restores the checkpoint,
// processes every organization strictly in input order, and returns the
// merged records whose final confidence meets the threshold.
func (c *Coordinator) Discover(ctx context.Context) ([]model.ContactRecord, error) {
	// Unknown role keys fail before any adapter is invoked.
	if err := c.classifier.ValidateRoles(c.cfg.Roles); err != nil {
		return nil, err
	}

	if err := c.restore(); err != nil {
		return nil, err
	}

	c.state = StateRunning
	processed := 0

	for {
		batch := c.queue.NextBatch(c.cfg.BatchSize)
		if len(batch) == 0 {
			break
		}
		for _, org := range batch {
			if err := ctx.Err(); err != nil {
				return nil, eris.Wrap(err, "pipeline: interrupted")
			}
			if _, done := c.completed[org.EIN]; done {
				// Already durable from a previous run; no adapter calls.
				c.queue.MarkProcessed(org.EIN)
				continue
			}

			log := zap.L().With(zap.Int64("ein", org.EIN), zap.String("org", org.Name))
			log.Info("pipeline: processing organization")

			contacts := c.collect(ctx, org)
			merged := 0
			for _, rc := range contacts {
				record, ok := c.toRecord(org, rc)
				if !ok {
					continue
				}
				c.acc.Merge(record)
				merged++
			}

			c.completed[org.EIN] = struct{}{}
			c.queue.MarkProcessed(org.EIN)

			// Failing to persist here would break resumability, so it is
			// fatal: the next organization must not start first.
			if err := c.persist(); err != nil {
				return nil, err
			}

			processed++
			log.Info("pipeline: organization complete",
				zap.Int("sightings", len(contacts)),
				zap.Int("merged", merged),
			)
			if c.onProgress != nil {
				c.onProgress(Progress{
					Org:           org,
					OrgsProcessed: processed,
					ContactsFound: c.acc.Len(),
				})
			}
		}
	}

	c.state = StateCompleted
	results := c.acc.Filter(c.cfg.MinConfidence)
	zap.L().Info("pipeline: discovery complete",
		zap.Int("orgs_processed", processed),
		zap.Int("records_accumulated", c.acc.Len()),
		zap.Int("records_above_threshold", len(results)),
	)
	return results, nil
}

// collect queries every adapter for one organization in parallel. Adapter
// failures are logged and yield zero contacts; they never abort the batch.
// All adapters finish before the organization can be marked completed.
func (c *Coordinator) collect(ctx context.Context, org model.Organization) []model.RawContact {
	results := make([][]model.RawContact, len(c.adapters))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	for i, adapter := range c.adapters {
		g.Go(func() error {
			contacts, err := adapter.Fetch(gctx, org, c.cfg.Roles)
			if err != nil {
				zap.L().Warn("pipeline: source adapter failed",
					zap.String("source", string(adapter.Name())),
					zap.Int64("ein", org.EIN),
					zap.Error(err),
				)
				return nil
			}
			mu.Lock()
			results[i] = contacts
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait() // adapter goroutines never return errors

	// Flatten in adapter order so merge order is deterministic.
	var all []model.RawContact
	for _, contacts := range results {
		all = append(all, contacts...)
	}
	return all
}

// toRecord scores a sighting against the requested roles and converts it to
// a mergeable record. The confidence is the best composite score across
// roles; sightings matching no role are dropped, as are malformed ones.
func (c *Coordinator) toRecord(org model.Organization, rc model.RawContact) (model.ContactRecord, bool) {
	if rc.Name == "" {
		return model.ContactRecord{}, false
	}
	var best identify.Score
	matched := false
	for _, role := range c.cfg.Roles {
		score, ok := c.classifier.Scorer().Score(rc, role)
		if !ok {
			continue
		}
		if !matched || score.Raw > best.Raw {
			best = score
			matched = true
		}
	}
	if !matched {
		return model.ContactRecord{}, false
	}
	src := rc.Source
	if src == "" {
		src = model.SourceOther
	}
	return model.ContactRecord{
		OrgEIN:     org.EIN,
		OrgName:    org.Name,
		Name:       rc.Name,
		Title:      rc.Title,
		Sources:    []model.Source{src},
		Confidence: best.Composite,
		Email:      rc.Email,
		Phone:      rc.Phone,
	}, true
}

// restore seeds the completed set and accumulator from the checkpoint.
func (c *Coordinator) restore() error {
	if c.checkpoint == nil {
		return nil
	}
	cp, err := c.checkpoint.Load()
	if err != nil {
		return err
	}
	for _, ein := range cp.Completed {
		c.completed[ein] = struct{}{}
	}
	c.acc.Seed(cp.Results)
	return nil
}

// persist writes the checkpoint; the full accumulated set goes out every
// time so a reload reproduces the exact in-memory state.
func (c *Coordinator) persist() error {
	if c.checkpoint == nil {
		return nil
	}
	return c.checkpoint.Save(c.completed, c.acc.Records())
}

// Records exposes the full accumulated set regardless of threshold, for the
// status and export surfaces.
func (c *Coordinator) Records() []model.ContactRecord { return c.acc.Records() }
