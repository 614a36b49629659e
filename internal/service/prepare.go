package service

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/mdplan/internal/domain"
)

func requireText(kind, field, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s %s is required: %w", kind, field, domain.ErrInvalidInput)
	}
	return nil
}

// Dated fills an empty date with today and requires a title. It serves the
// retrospective, analysis, canvas and brief families.
func Dated[T any](kind string, clock Clock, head func(*T) (title, date *string)) func(*T) error {
	return func(v *T) error {
		title, date := head(v)
		if err := requireText(kind, "title", *title); err != nil {
			return err
		}
		*date = domain.CoalesceStr(*date, clock.today())
		return nil
	}
}

// PrepareCustomer requires a name and stamps the creation date.
func PrepareCustomer(clock Clock) func(*domain.Customer) error {
	return func(c *domain.Customer) error {
		if err := requireText("customer", "name", c.Name); err != nil {
			return err
		}
		c.Created = domain.CoalesceStr(c.Created, clock.today())
		return nil
	}
}

// PrepareRate requires a name and a non-negative rate.
func PrepareRate(r *domain.BillingRate) error {
	if err := requireText("billing rate", "name", r.Name); err != nil {
		return err
	}
	if r.HourlyRate < 0 {
		return fmt.Errorf("hourly rate must not be negative: %w", domain.ErrInvalidInput)
	}
	return nil
}

func PrepareCompany(clock Clock) func(*domain.Company) error {
	return func(c *domain.Company) error {
		if err := requireText("company", "name", c.Name); err != nil {
			return err
		}
		c.Created = domain.CoalesceStr(c.Created, clock.today())
		return nil
	}
}

func PrepareContact(clock Clock) func(*domain.Contact) error {
	return func(c *domain.Contact) error {
		if strings.TrimSpace(c.FirstName+c.LastName) == "" {
			return fmt.Errorf("contact name is required: %w", domain.ErrInvalidInput)
		}
		c.Created = domain.CoalesceStr(c.Created, clock.today())
		return nil
	}
}

// PrepareDeal defaults the stage to lead.
func PrepareDeal(clock Clock) func(*domain.Deal) error {
	return func(d *domain.Deal) error {
		if err := requireText("deal", "title", d.Title); err != nil {
			return err
		}
		if d.Probability < 0 || d.Probability > 100 {
			return fmt.Errorf("deal probability must be within 0-100: %w", domain.ErrInvalidInput)
		}
		d.Stage = domain.CoalesceStatus(d.Stage, domain.StageLead)
		d.Created = domain.CoalesceStr(d.Created, clock.today())
		return nil
	}
}

// PrepareInteraction defaults the type to note and the date to today.
func PrepareInteraction(clock Clock) func(*domain.Interaction) error {
	return func(i *domain.Interaction) error {
		if err := requireText("interaction", "summary", i.Summary); err != nil {
			return err
		}
		i.Type = domain.CoalesceStatus(i.Type, domain.InteractionNote)
		i.Date = domain.CoalesceStr(i.Date, clock.today())
		return nil
	}
}
