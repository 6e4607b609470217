package otp

import "time"

const (
	SendTimeout = 5 * time.Second
)
