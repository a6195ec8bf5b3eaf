package tui

import (
	"fmt"
	"net/netip"

	"github.com/pterm/pterm"

	"github.com/SyntropyNet/nethealth/pkg/multiping/pingdata"
)

var summaryHeader = []string{"Host", "Received", "Lost", "Loss", "Min", "Avg", "Max"}

// Summary renders final per-host statistics as a table
func Summary(hosts []netip.Addr, data *pingdata.PingData) (string, error) {
	table := pterm.TableData{summaryHeader}

	for _, host := range hosts {
		h, ok := data.Get(host)
		if !ok {
			continue
		}
		s := h.Stats()
		table = append(table, []string{
			host.String(),
			fmt.Sprint(s.Complete),
			fmt.Sprint(s.Lost),
			fmt.Sprintf("%.1f%%", 100*s.Loss()),
			fmt.Sprintf("%.1fms", ms(s.Min)),
			fmt.Sprintf("%.1fms", ms(s.Mean)),
			fmt.Sprintf("%.1fms", ms(s.Max)),
		})
	}

	out, err := pterm.DefaultTable.
		WithHasHeader(true).
		WithBoxed(true).
		WithData(table).
		Srender()
	if err != nil {
		return "", fmt.Errorf("failed to render summary: %w", err)
	}
	return out, nil
}
