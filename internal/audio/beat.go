package audio

// Beat detection parameters. The threshold tracks 1.5x the recent average
// volume with an absolute floor, so quiet noise never registers as beats.
const (
	beatHistorySize    = 8
	beatThresholdRatio = 1.5
	beatVolumeFloor    = 0.3
)

// beatDetector is a rising-edge threshold detector over the volume signal.
// A beat fires on the cycle the volume crosses the dynamic threshold, not on
// every cycle it stays above, so one sustained hit yields one event.
type beatDetector struct {
	history [beatHistorySize]float64
	idx     int
	above   bool
}

// detect processes one volume sample and reports whether a beat started
// this cycle, plus the normalized intensity while above threshold.
func (d *beatDetector) detect(volume float64) (beat bool, intensity float64) {
	d.history[d.idx] = volume
	d.idx = (d.idx + 1) % beatHistorySize

	var avg float64
	for _, v := range d.history {
		avg += v
	}
	avg /= beatHistorySize

	threshold := avg * beatThresholdRatio

	over := volume > threshold && volume > beatVolumeFloor
	beat = over && !d.above
	d.above = over

	if over && threshold < 1 {
		intensity = (volume - threshold) / (1 - threshold)
		if intensity > 1 {
			intensity = 1
		}
	}
	return beat, intensity
}
