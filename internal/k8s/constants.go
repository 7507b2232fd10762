package k8s

import "time"

// Default performance settings applied to the rest.Config when the caller
// does not override them.
const (
	DefaultQPSLimit   float32 = 20.0
	DefaultBurstLimit         = 30
	DefaultTimeout            = 30 * time.Second
)
