package email

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProber struct {
	mxDomains     map[string]bool
	liveMailboxes map[string]bool
	mxCalls       map[string]int
	mailboxCalls  map[string]int
	mxErr         error
}

func newFakeProber() *fakeProber {
	return &fakeProber{
		mxDomains:     make(map[string]bool),
		liveMailboxes: make(map[string]bool),
		mxCalls:       make(map[string]int),
		mailboxCalls:  make(map[string]int),
	}
}

func (f *fakeProber) HasMX(_ context.Context, domain string) (bool, error) {
	f.mxCalls[domain]++
	if f.mxErr != nil {
		return false, f.mxErr
	}
	return f.mxDomains[domain], nil
}

func (f *fakeProber) ProbeMailbox(_ context.Context, address string) (bool, error) {
	f.mailboxCalls[address]++
	return f.liveMailboxes[address], nil
}

func TestVerify_BumpsConfidence(t *testing.T) {
	p := newFakeProber()
	p.mxDomains["alpha.example.org"] = true
	p.liveMailboxes["jane.smith@alpha.example.org"] = true

	v := NewVerifier(p)
	got, err := v.Verify(context.Background(), []Candidate{
		{Address: "jane.smith@alpha.example.org", Pattern: "first.last", Confidence: 0.4},
		{Address: "jsmith@alpha.example.org", Pattern: "flast", Confidence: 0.3},
	})
	require.NoError(t, err)

	require.Len(t, got, 2)
	// MX + mailbox + both bonus: 0.4 + 0.2 + 0.3 + 0.1.
	assert.InDelta(t, 1.0, got[0].Confidence, 0.0001)
	// MX only: 0.3 + 0.2.
	assert.InDelta(t, 0.5, got[1].Confidence, 0.0001)
}

func TestVerify_DropsDeadDomain(t *testing.T) {
	v := NewVerifier(newFakeProber())
	got, err := v.Verify(context.Background(), []Candidate{
		{Address: "jane@dead.example.org", Confidence: 0.4},
	})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestVerify_DropsMalformedAddress(t *testing.T) {
	p := newFakeProber()
	v := NewVerifier(p)
	got, err := v.Verify(context.Background(), []Candidate{
		{Address: "not-an-address", Confidence: 0.4},
	})
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Empty(t, p.mxCalls)
}

func TestVerify_ProbesEachAddressOnce(t *testing.T) {
	p := newFakeProber()
	p.mxDomains["alpha.example.org"] = true
	p.liveMailboxes["jane@alpha.example.org"] = true

	v := NewVerifier(p)
	cand := Candidate{Address: "jane@alpha.example.org", Confidence: 0.1}

	first, err := v.Verify(context.Background(), []Candidate{cand})
	require.NoError(t, err)
	second, err := v.Verify(context.Background(), []Candidate{cand})
	require.NoError(t, err)

	assert.Equal(t, 1, p.mxCalls["alpha.example.org"])
	assert.Equal(t, 1, p.mailboxCalls["jane@alpha.example.org"])

	// Cached result carries the bumped confidence.
	require.Len(t, first, 1)
	require.Len(t, second, 1)
	assert.Equal(t, first[0].Confidence, second[0].Confidence)
}

func TestVerify_NegativeResultCachedToo(t *testing.T) {
	p := newFakeProber()
	v := NewVerifier(p)
	cand := Candidate{Address: "jane@dead.example.org", Confidence: 0.4}

	_, err := v.Verify(context.Background(), []Candidate{cand})
	require.NoError(t, err)
	_, err = v.Verify(context.Background(), []Candidate{cand})
	require.NoError(t, err)

	assert.Equal(t, 1, p.mxCalls["dead.example.org"])
}

func TestVerify_ProberErrorSkipsCandidate(t *testing.T) {
	p := newFakeProber()
	p.mxErr = errors.New("resolver down")
	v := NewVerifier(p)

	got, err := v.Verify(context.Background(), []Candidate{
		{Address: "jane@alpha.example.org", Confidence: 0.4},
	})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestVerify_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	v := NewVerifier(newFakeProber())
	_, err := v.Verify(ctx, []Candidate{{Address: "jane@alpha.example.org"}})
	assert.Error(t, err)
}
