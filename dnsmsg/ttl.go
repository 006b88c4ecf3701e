package dnsmsg

import (
	"math"
	"time"
)

// SecondsTTL converts d to the wire representation of a DNS TTL: a 32-bit
// unsigned count of seconds. Any nonzero sub-second remainder rounds the
// result up by one second, and the result saturates at 0xFFFFFFFF rather
// than overflowing.
//
// Grounded on the original implementation's duration_to_secs: seconds plus
// one if subsec_nanos is nonzero, then a saturating min against u32::MAX.
func SecondsTTL(d time.Duration) uint32 {
	secs := d / time.Second
	if d%time.Second > 0 {
		secs++
	}

	if secs > math.MaxUint32 {
		return math.MaxUint32
	}

	if secs < 0 {
		return 0
	}

	return uint32(secs)
}
