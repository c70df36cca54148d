package meter

// peakTracker debounces burst detection. One physical hit keeps the
// loudness above the entry threshold across many classifier ticks; the
// tracker stays active for the whole excursion so that only the
// idle→active edge is ever reported.
type peakTracker struct {
	active   bool
	distance int // ticks since the burst registered
}

// observe evaluates one tick and reports whether a new burst registered.
// The active branch must run first: a still-active burst is only advanced
// toward re-arming, never re-tested against the entry threshold. Re-arming
// requires both the minimum distance and the level falling below reset.
func (p *peakTracker) observe(level, entry, reset float64, minDistance int) bool {
	if p.active {
		p.distance++
		if p.distance > minDistance && level < reset {
			p.active = false
		}
		return false
	}
	if level > entry {
		p.active = true
		p.distance = 0
		return true
	}
	return false
}
