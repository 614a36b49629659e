package service

import "time"

// Clock supplies the current time to services that stamp dates.
type Clock func() time.Time

func (c Clock) today() string {
	if c == nil {
		return time.Now().Format("2006-01-02")
	}
	return c().Format("2006-01-02")
}

func (c Clock) now() time.Time {
	if c == nil {
		return time.Now()
	}
	return c()
}
