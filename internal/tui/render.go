package tui

import (
	"fmt"
	"time"

	"github.com/SyntropyNet/nethealth/pkg/multiping/pingdata"
)

const labelWidth = 20

func ms(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

// Render formats a single host line. Numeric summary column is fixed
// by capacity, so it does not move while the history fills up.
func Render(host string, stats pingdata.Stats, snapshot []pingdata.Probe, capacity int) string {
	return fmt.Sprintf("%*s: %s%s%s[max: %3.0f, min: %3.0f, avg: %3.0f, loss: %d]%s",
		labelWidth, host,
		Sparkline(snapshot, stats.Max), EraseLine(EraseToEnd),
		CursorColumn(labelWidth+2+capacity+3),
		ms(stats.Max), ms(stats.Min), ms(stats.Mean), stats.Lost,
		EraseLine(EraseToEnd))
}
