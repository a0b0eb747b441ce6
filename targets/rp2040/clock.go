//go:build rp2040 || rp2350

package main

import (
	"runtime/volatile"
	"unsafe"

	"galvo/core"
)

// RP2040/RP2350 Timer peripheral memory map
const (
	timerBase     = 0x40054000
	timerTIMERAWL = timerBase + 0x0C // Raw timer low word
)

var timerRAWL = (*volatile.Register32)(unsafe.Pointer(uintptr(timerTIMERAWL)))

// GetHardwareTime reads the low 32 bits of the 1MHz microsecond timer,
// which matches core.TimerFreq
func GetHardwareTime() uint32 {
	return timerRAWL.Get()
}

// UpdateSystemTime updates the core timer with hardware time
// Called from the main loop before dispatching timers
func UpdateSystemTime() {
	core.SetTime(GetHardwareTime())
}
