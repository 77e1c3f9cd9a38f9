package email

import (
	"context"
	"strings"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Verification confidence bumps. MX and mailbox probes stack, plus a bonus
// when both pass. Confidence never exceeds 1.0.
const (
	mxBump      = 0.2
	mailboxBump = 0.3
	bothBump    = 0.1
)

// Prober answers whether a domain accepts mail and whether a specific
// mailbox exists. Implementations do the actual MX and SMTP work; the
// verifier only orchestrates.
type Prober interface {
	HasMX(ctx context.Context, domain string) (bool, error)
	ProbeMailbox(ctx context.Context, address string) (bool, error)
}

// probeResult is what the cache remembers per address.
type probeResult struct {
	ok         bool
	confidence float64
}

// Verifier checks candidate addresses against a Prober, caching results for
// the process lifetime so an address is probed at most once.
type Verifier struct {
	prober  Prober
	cache   *cache.Cache
	limiter *rate.Limiter
}

// VerifierOption configures a Verifier.
type VerifierOption func(*Verifier)

// WithProbeRate throttles probes to n per second.
func WithProbeRate(n float64) VerifierOption {
	return func(v *Verifier) {
		v.limiter = rate.NewLimiter(rate.Limit(n), 1)
	}
}

// NewVerifier creates a Verifier over a prober.
func NewVerifier(p Prober, opts ...VerifierOption) *Verifier {
	v := &Verifier{
		prober: p,
		cache:  cache.New(cache.NoExpiration, cache.NoExpiration),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Verify probes each candidate and returns the ones whose domain accepts
// mail, with confidence bumped by what the probes confirmed. Candidates
// with an unparseable address or a dead domain are dropped.
func (v *Verifier) Verify(ctx context.Context, candidates []Candidate) ([]Candidate, error) {
	var verified []Candidate
	for _, cand := range candidates {
		if err := ctx.Err(); err != nil {
			return verified, err
		}
		if cached, found := v.cache.Get(cand.Address); found {
			res := cached.(probeResult)
			if res.ok {
				cand.Confidence = res.confidence
				verified = append(verified, cand)
			}
			continue
		}
		res := v.probe(ctx, cand)
		v.cache.Set(cand.Address, res, cache.NoExpiration)
		if res.ok {
			cand.Confidence = res.confidence
			verified = append(verified, cand)
		}
	}
	return verified, nil
}

func (v *Verifier) probe(ctx context.Context, cand Candidate) probeResult {
	if !ValidAddress(cand.Address) {
		return probeResult{}
	}
	if v.limiter != nil {
		if err := v.limiter.Wait(ctx); err != nil {
			return probeResult{}
		}
	}

	_, domain, _ := strings.Cut(cand.Address, "@")
	mxOK, err := v.prober.HasMX(ctx, domain)
	if err != nil {
		zap.L().Debug("email: mx probe failed", zap.String("domain", domain), zap.Error(err))
		return probeResult{}
	}
	if !mxOK {
		return probeResult{}
	}

	mailboxOK, err := v.prober.ProbeMailbox(ctx, cand.Address)
	if err != nil {
		zap.L().Debug("email: mailbox probe failed", zap.String("address", cand.Address), zap.Error(err))
		mailboxOK = false
	}

	score := cand.Confidence + mxBump
	if mailboxOK {
		score += mailboxBump + bothBump
	}
	if score > 1.0 {
		score = 1.0
	}
	return probeResult{ok: true, confidence: score}
}
