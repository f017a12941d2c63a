package driver

import "github.com/progracyd/newsim/internal/verify"

// newVerifier builds the Jaccard verifier for this run's window, τ,
// and shared stats counters.
func newVerifier(d *Driver) *verify.Verifier {
	return verify.New(d.idx, d.adapter, d.cfg.WindowSecs, d.cfg.Tau, d.stats)
}
