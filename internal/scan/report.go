package scan

import (
	"fmt"
	"strings"
	"time"

	"go-mod.ewintr.nl/stockwatch/internal/bucket"
	"go-mod.ewintr.nl/stockwatch/internal/change"
)

const (
	reportTitle  = "📈 SHEINVERSE – MEN STOCK UPDATED"
	reportFooter = "🔥 Go and Buy !!!"
	clockLayout  = "03:04 PM"
)

// Report formats the operator message for a stock change. Only buckets that
// hold at least one item are listed.
func Report(ev change.Event, counts []bucket.Count, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	lines := []string{
		reportTitle,
		"🕒 " + ev.At.In(loc).Format(clockLayout),
		"",
		fmt.Sprintf("Previous stock : %d", ev.Previous),
		fmt.Sprintf("Current stock  : %d", ev.Current),
		"",
	}
	for _, c := range counts {
		lines = append(lines, fmt.Sprintf("%s : %d", c.Label, c.Count))
	}
	lines = append(lines, "\n"+reportFooter)

	return strings.Join(lines, "\n")
}
