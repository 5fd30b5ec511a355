package dto

import "time"

// Event is one reminder: the configured threshold an active session's
// working time has crossed. Delivery (terminal, OS notification) is the
// consumer's concern.
type Event struct {
	SessionID string
	Subject   string
	Threshold time.Duration
	Elapsed   time.Duration
}
