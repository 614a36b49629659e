package billing

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	QuotePrefix   = "Q"
	InvoicePrefix = "INV"
)

// NextNumber returns PREFIX-YEAR-NNN where NNN is one more than the highest
// sequence already used for that prefix and year. Numbers of other years are
// ignored, so the sequence restarts at 001 every year. Unparseable suffixes
// count as zero.
func NextNumber(prefix string, year int, existing []string) string {
	head := fmt.Sprintf("%s-%d-", prefix, year)
	highest := 0
	for _, n := range existing {
		rest, ok := strings.CutPrefix(n, head)
		if !ok {
			continue
		}
		if v, err := strconv.Atoi(rest); err == nil && v > highest {
			highest = v
		}
	}
	return fmt.Sprintf("%s%03d", head, highest+1)
}
