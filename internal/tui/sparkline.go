package tui

import (
	"strings"
	"time"

	"github.com/SyntropyNet/nethealth/pkg/multiping/pingdata"
)

const (
	glyphLost = '━'
	epsilon   = time.Microsecond
)

var glyphs = []rune("▁▂▃▄▅▆▇")

// glyphIndex quantizes latency relative to maxRTT
func glyphIndex(latency, maxRTT time.Duration) int {
	maxRTT = max(maxRTT, epsilon)
	idx := int(float64(len(glyphs)-1) * float64(latency) / float64(maxRTT))
	if idx < 0 {
		return 0
	}
	if idx >= len(glyphs) {
		return len(glyphs) - 1
	}
	return idx
}

// Sparkline renders one glyph per finished probe, oldest first.
// Pending entries are skipped.
func Sparkline(snapshot []pingdata.Probe, maxRTT time.Duration) string {
	var sb strings.Builder
	color := -1

	setColor := func(c int) {
		if c != color {
			sb.WriteString(Fg(c))
			color = c
		}
	}

	for _, p := range snapshot {
		switch p.Status() {
		case pingdata.StatusComplete:
			setColor(Cyan)
			sb.WriteRune(glyphs[glyphIndex(p.Latency(), maxRTT)])
		case pingdata.StatusLost:
			setColor(Red)
			sb.WriteRune(glyphLost)
		}
	}

	sb.WriteString(Reset())
	return sb.String()
}
