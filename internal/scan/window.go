package scan

// Window is an inclusive block range queried in one log-search call.
type Window struct {
	From uint64
	To   uint64
}

// Prev returns the next window of the backward walk. Its top equals this
// window's bottom, so successive windows are strictly monotonic.
func (w Window) Prev(width uint64) Window {
	next := Window{To: w.From}
	if next.To > width {
		next.From = next.To - width
	}
	return next
}

// startBlock estimates the top of the first search window. elapsed blocks
// since the origin timestamp are estimated from the chain's average block
// interval, and the start is biased backward by half that estimate so the
// first window sits around the likely mint block rather than at head.
func startBlock(head uint64, now, originTimestamp int64, blockInterval float64) uint64 {
	if now <= originTimestamp || blockInterval <= 0 {
		return head
	}
	elapsed := uint64(float64(now-originTimestamp) / blockInterval)
	bias := elapsed / 2
	if bias >= head {
		return head
	}
	return head - bias
}

// initialWindow builds the first window ending at top.
func initialWindow(top, width uint64) Window {
	w := Window{To: top}
	if top > width {
		w.From = top - width
	}
	return w
}
