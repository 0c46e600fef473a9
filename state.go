package syncprim

// The mutex's mode is packed into a single 32-bit word (spec §3, §4.A):
//
//	bit 31      WRITER   an exclusive holder is present
//	bit 30      UPGRADER an upgradeable holder is present
//	bit 29      PENDING  an upgradeable holder is draining readers to
//	                     become exclusive; blocks new shared acquirers
//	bits 0-28   READERS  count of active shared holders
const (
	writerBit   uint32 = 1 << 31
	upgraderBit uint32 = 1 << 30
	pendingBit  uint32 = 1 << 29
	readerMask  uint32 = pendingBit - 1
	maxReaders  uint32 = readerMask
)

func hasWriter(s uint32) bool     { return s&writerBit != 0 }
func hasUpgrader(s uint32) bool   { return s&upgraderBit != 0 }
func hasPending(s uint32) bool    { return s&pendingBit != 0 }
func readerCount(s uint32) uint32 { return s & readerMask }

// ReaderOverflowError is panicked by RLock if the 29-bit reader count would
// overflow (spec §7.2 permits, but does not mandate, a check here; this
// package chooses to fail fast rather than silently corrupt the WRITER and
// UPGRADER bits).
type ReaderOverflowError struct{}

func (ReaderOverflowError) Error() string {
	return "syncprim: shared lock count exceeds the 29-bit reader capacity"
}
