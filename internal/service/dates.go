package service

import (
	"fmt"
	"time"

	"github.com/alexanderramin/mdplan/internal/domain"
	"github.com/alexanderramin/mdplan/internal/scheduler"
)

const dateLayout = "2006-01-02"

// alignWeek returns the Monday of the week containing date, or of the
// current week when date is empty.
func alignWeek(date string, clock Clock) (string, error) {
	if date == "" {
		return scheduler.WeekStart(clock.now()), nil
	}
	d, err := time.Parse(dateLayout, date)
	if err != nil {
		return "", fmt.Errorf("invalid week start %q: %w", date, domain.ErrInvalidInput)
	}
	return scheduler.WeekStart(d), nil
}
