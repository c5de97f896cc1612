package contracts

import "time"

type Scheduler interface {
	// Schedule runs action after delay, replacing any unfired action
	// registered under the same key.
	Schedule(key string, delay time.Duration, action func())
	Cancel(key string) bool
	Pending() int
	Stop()
}
