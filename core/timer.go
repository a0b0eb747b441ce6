package core

// TimerFreq is the system tick rate. One tick is one microsecond, which is
// the cadence unit of the output loop.
const TimerFreq = 1000000

// GetTime returns the current system time in timer ticks
func GetTime() uint32 {
	return getSystemTicks()
}

// SetTime sets the current system time (for testing/hardware integration)
func SetTime(ticks uint32) {
	setSystemTicks(ticks)
}

// TimerFromUS converts microseconds to timer ticks
func TimerFromUS(us uint32) uint32 {
	return uint32(uint64(us) * TimerFreq / 1000000)
}

// TimerToUS converts timer ticks to microseconds
func TimerToUS(ticks uint32) uint32 {
	return uint32(uint64(ticks) * 1000000 / TimerFreq)
}

// TicksSince returns the ticks elapsed from then to now. The subtraction is
// done in uint32 so it stays correct across counter wrap.
func TicksSince(now, then uint32) uint32 {
	return now - then
}

// ProcessTimers runs every timer that is due at the current system time
func ProcessTimers() {
	state := disableInterrupts()
	currentTime = GetTime()
	restoreInterrupts(state)
	TimerDispatch()
}
