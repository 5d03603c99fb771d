package fetch

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/sync/singleflight"
)

var coalescedTotal = promauto.NewCounter(prometheus.CounterOpts{
	Name: "mcp_fetch_coalesced_total",
	Help: "Total fetch calls that joined another caller's in-flight fetch",
})

// Coordinator collapses concurrent fetches for the same endpoint key into a
// single outbound request. While a fetch for a key is in flight, additional
// callers for that key wait for its result instead of fetching themselves.
// The slot is released once the result is published, success or failure, so
// a failed fetch never locks out a key.
//
// The zero value is ready to use.
type Coordinator struct {
	group singleflight.Group
}

// Fetch runs fn under the coalescing slot for key. All callers waiting on
// the same key receive the same payload and error. joined reports whether
// this call attached to another caller's in-flight fetch instead of running
// fn itself; the leader of a shared fetch reports false.
func (c *Coordinator) Fetch(key string, fn func() ([]byte, error)) (payload []byte, joined bool, err error) {
	var leader bool
	v, err, _ := c.group.Do(key, func() (any, error) {
		leader = true
		return fn()
	})
	joined = !leader
	if joined {
		coalescedTotal.Inc()
	}
	if err != nil {
		return nil, joined, err
	}
	payload, _ = v.([]byte)
	return payload, joined, nil
}
