package main

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/contact-cli/internal/email"
	"github.com/sells-group/contact-cli/internal/fetcher"
	"github.com/sells-group/contact-cli/internal/identify"
	"github.com/sells-group/contact-cli/internal/source"
	"github.com/sells-group/contact-cli/internal/store"
	"github.com/sells-group/contact-cli/pkg/trustees"
	"github.com/sells-group/contact-cli/pkg/websearch"
)

// discoveryEnv bundles the collaborators a discovery run needs.
type discoveryEnv struct {
	classifier *identify.Classifier
	adapters   []source.Adapter
	store      *store.SQLiteStore
	trustees   trustees.Querier
}

// initDiscovery wires adapters from config. The trustee database adapter
// joins only when a database URL is configured; everything else is always
// on.
func initDiscovery(ctx context.Context) (*discoveryEnv, error) {
	classifier := identify.NewClassifier()

	httpFetcher := fetcher.NewHTTPFetcher(fetcher.HTTPOptions{
		UserAgent:      cfg.Fetch.UserAgent,
		Timeout:        time.Duration(cfg.Fetch.TimeoutSecs) * time.Second,
		MaxRetries:     cfg.Fetch.MaxRetries,
		RequestsPerSec: cfg.Fetch.RequestsPerSec,
	})
	search := websearch.NewClient(
		websearch.WithBaseURL(cfg.Search.BaseURL),
		websearch.WithUserAgent(cfg.Fetch.UserAgent),
	)

	guesser := email.NewGuesser(
		email.NewNetProber(time.Duration(cfg.Fetch.TimeoutSecs)*time.Second),
		cfg.Email.TLDs...)
	website := source.NewWebsiteAdapter(httpFetcher, search, classifier.Matcher()).
		WithGuesser(guesser)

	adapters := []source.Adapter{
		website,
		source.NewNetworkAdapter(search),
	}

	var filingIndex source.FilingIndex
	switch {
	case cfg.Filings.LocalDir != "":
		filingIndex = source.NewDirIndex(cfg.Filings.LocalDir)
	case cfg.Filings.BaseURL != "":
		filingIndex = source.NewHTTPIndex(httpFetcher, cfg.Filings.BaseURL)
	}
	if filingIndex != nil {
		adapters = append(adapters,
			source.NewFilingsAdapter(filingIndex, classifier.Matcher()))
	}

	env := &discoveryEnv{classifier: classifier, adapters: adapters}

	if cfg.Trustees.DatabaseURL != "" {
		client, err := trustees.New(ctx, trustees.Config{
			URL:                 cfg.Trustees.DatabaseURL,
			SimilarityThreshold: cfg.Trustees.SimilarityThreshold,
			MaxCandidates:       cfg.Trustees.MaxCandidates,
		})
		if err != nil {
			return nil, err
		}
		env.trustees = client
		env.adapters = append(env.adapters, source.NewDatabaseAdapter(client))
	}

	s, err := store.NewSQLite(cfg.Store.Path)
	if err != nil {
		env.Close()
		return nil, err
	}
	if err := s.Migrate(ctx); err != nil {
		s.Close()
		env.Close()
		return nil, err
	}
	env.store = s

	zap.L().Debug("discovery environment ready", zap.Int("adapters", len(env.adapters)))
	return env, nil
}

func (e *discoveryEnv) Close() {
	if e.trustees != nil {
		e.trustees.Close()
	}
	if e.store != nil {
		e.store.Close()
	}
}
