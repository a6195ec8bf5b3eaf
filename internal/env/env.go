// Env packet describes all settings, common to whole application
package env

import (
	"time"

	"golang.org/x/sys/unix"
)

const (
	AppName = "nethealth"
	// Environment variables are NETHEALTH_<KEY>, dots and dashes become underscores
	EnvPrefix = "NETHEALTH"

	// Log timestamps
	TimeFormat = time.RFC3339

	// Probe defaults
	DefaultBind        = "0.0.0.0"
	DefaultInterval    = 100 * time.Millisecond
	DefaultTimeout     = time.Second
	DefaultRecvTimeout = 200 * time.Millisecond
	DefaultCapacity    = 60
	DefaultPayloadSize = 32
	DefaultRefresh     = 50 * time.Millisecond

	// Largest ICMP payload fitting into a 1500 byte MTU without fragmentation
	MaxPayloadSize = 1500 - 20 - 8
)

// Process exit codes. Errno values are used where one applies.
const (
	ExitOK         = 0
	ExitFailure    = 1
	ExitPermission = int(unix.EACCES)
)
