//go:build !tinygo

package core

import "sync"

// State is returned by disableInterrupts for symmetry with the TinyGo build
type State uintptr

// timerMu stands in for interrupt masking on hosts, where the producer and
// the output loop run on separate goroutines.
var timerMu sync.Mutex

func disableInterrupts() State {
	timerMu.Lock()
	return 0
}

func restoreInterrupts(state State) {
	timerMu.Unlock()
}
