package model

import "time"

// ProbeResult describes a reachability check against a statistics server's web endpoint.
type ProbeResult struct {
	WebURL     string
	StatusCode int
	Reachable  bool
	FromCache  bool
	Latency    time.Duration
	CheckedAt  time.Time
}
