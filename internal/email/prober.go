package email

import (
	"context"
	"net"
	"net/smtp"
	"sort"
	"time"

	"github.com/rotisserie/eris"
)

// NetProber is the production Prober and Resolver: DNS MX lookups plus an
// SMTP RCPT probe against the lowest-preference exchange.
type NetProber struct {
	resolver *net.Resolver
	timeout  time.Duration
	heloHost string
}

// NewNetProber creates a NetProber using the system resolver.
func NewNetProber(timeout time.Duration) *NetProber {
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &NetProber{
		resolver: net.DefaultResolver,
		timeout:  timeout,
		heloHost: "localhost",
	}
}

// HasMX reports whether the domain publishes MX records.
func (p *NetProber) HasMX(ctx context.Context, domain string) (bool, error) {
	mxs, err := p.resolver.LookupMX(ctx, domain)
	if err != nil {
		var dnsErr *net.DNSError
		if eris.As(err, &dnsErr) && dnsErr.IsNotFound {
			return false, nil
		}
		return false, eris.Wrapf(err, "email: mx lookup %s", domain)
	}
	return len(mxs) > 0, nil
}

// ProbeMailbox asks the domain's mail exchange whether the address accepts
// mail. Any refusal or connection trouble counts as unconfirmed, not as an
// error: plenty of exchanges reject probes outright.
func (p *NetProber) ProbeMailbox(ctx context.Context, address string) (bool, error) {
	domain := address[indexAt(address)+1:]
	mxs, err := p.resolver.LookupMX(ctx, domain)
	if err != nil || len(mxs) == 0 {
		return false, nil
	}
	sort.Slice(mxs, func(i, j int) bool { return mxs[i].Pref < mxs[j].Pref })
	host := trimDot(mxs[0].Host)

	dialer := net.Dialer{Timeout: p.timeout}
	conn, err := dialer.DialContext(ctx, "tcp", net.JoinHostPort(host, "25"))
	if err != nil {
		return false, nil
	}
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(p.timeout))

	client, err := smtp.NewClient(conn, host)
	if err != nil {
		return false, nil
	}
	defer client.Close()

	if err := client.Hello(p.heloHost); err != nil {
		return false, nil
	}
	if err := client.Mail(""); err != nil {
		return false, nil
	}
	if err := client.Rcpt(address); err != nil {
		return false, nil
	}
	return true, nil
}

// Exists reports whether the domain resolves at all, satisfying Resolver
// for the domain guesser.
func (p *NetProber) Exists(ctx context.Context, domain string) (bool, error) {
	addrs, err := p.resolver.LookupHost(ctx, domain)
	if err != nil {
		var dnsErr *net.DNSError
		if eris.As(err, &dnsErr) && dnsErr.IsNotFound {
			return false, nil
		}
		return false, eris.Wrapf(err, "email: host lookup %s", domain)
	}
	return len(addrs) > 0, nil
}

func indexAt(address string) int {
	for i := len(address) - 1; i >= 0; i-- {
		if address[i] == '@' {
			return i
		}
	}
	return -1
}

func trimDot(host string) string {
	if len(host) > 0 && host[len(host)-1] == '.' {
		return host[:len(host)-1]
	}
	return host
}
