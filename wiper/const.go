package wiper

import "time"

const (
	WipeInterval  = time.Minute
	RetryInterval = 10 * time.Second
)
