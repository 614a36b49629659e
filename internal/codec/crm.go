package codec

import (
	"strconv"
	"strings"

	"github.com/alexanderramin/mdplan/internal/domain"
	"github.com/alexanderramin/mdplan/internal/markdown"
)

var companySchema = markdown.Schema{
	Section: "Companies",
	Fields:  append([]string{"Industry", "Website", "Phone", "Created"}, addressFields...),
}

var Companies = Family[domain.Company]{
	Section: companySchema.Section,
	Parse: func(lines []string) []domain.Company {
		var out []domain.Company
		for _, r := range markdown.ScanRecords(lines, companySchema) {
			out = append(out, domain.Company{
				ID:       r.ID,
				Name:     r.Title,
				Industry: r.Field("Industry"),
				Website:  r.Field("Website"),
				Phone:    r.Field("Phone"),
				Address:  parseAddress(r.Sub("Address")),
				Notes:    r.Sub("Notes").Body(),
				Created:  r.Field("Created"),
			})
		}
		return out
	},
	Format: func(cs []domain.Company) []string {
		w := markdown.NewSectionWriter(companySchema.Section)
		for _, c := range cs {
			w.Line("## "+c.Name).
				Meta("id", c.ID).
				Field("Industry", c.Industry).
				Field("Website", c.Website).
				Field("Phone", c.Phone).
				Field("Created", c.Created)
			writeAddress(w, "Address", c.Address)
			writeNotesSub(w, "Notes", c.Notes)
			w.Blank()
		}
		return w.Lines()
	},
	ID: func(c *domain.Company) *string { return &c.ID },
}

var contactSchema = markdown.Schema{
	Section: "Contacts",
	Fields:  []string{"Email", "Phone", "Title", "Created"},
	Config:  true,
}

var Contacts = Family[domain.Contact]{
	Section: contactSchema.Section,
	Parse: func(lines []string) []domain.Contact {
		var out []domain.Contact
		for _, r := range markdown.ScanRecords(lines, contactSchema) {
			first, last, _ := strings.Cut(r.Title, " ")
			out = append(out, domain.Contact{
				ID:        r.ID,
				CompanyID: r.Config["company"],
				FirstName: first,
				LastName:  strings.TrimSpace(last),
				Email:     r.Field("Email"),
				Phone:     r.Field("Phone"),
				Title:     r.Field("Title"),
				IsPrimary: markdown.ParseBool(r.Config["primary"]),
				Notes:     r.Notes(),
				Created:   r.Field("Created"),
			})
		}
		return out
	},
	Format: func(cs []domain.Contact) []string {
		w := markdown.NewSectionWriter(contactSchema.Section)
		for _, c := range cs {
			primary := ""
			if c.IsPrimary {
				primary = "true"
			}
			name := strings.TrimSpace(c.FirstName + " " + c.LastName)
			w.Line("## "+name+markdown.FormatConfigBlock([]markdown.KV{
				{Key: "company", Value: c.CompanyID},
				{Key: "primary", Value: primary},
			})).
				Meta("id", c.ID).
				Field("Email", c.Email).
				Field("Phone", c.Phone).
				Field("Title", c.Title).
				Field("Created", c.Created)
			if notes := notesLines(c.Notes); len(notes) > 0 {
				w.Blank().Text(notes...)
			}
			w.Blank()
		}
		return w.Lines()
	},
	ID: func(c *domain.Contact) *string { return &c.ID },
}

var dealSchema = markdown.Schema{
	Section: "Deals",
	Fields:  []string{"Expected Close", "Created", "Closed At"},
	Config:  true,
}

var Deals = Family[domain.Deal]{
	Section: dealSchema.Section,
	Parse: func(lines []string) []domain.Deal {
		var out []domain.Deal
		for _, r := range markdown.ScanRecords(lines, dealSchema) {
			stage := parseEnumField(r.Config["stage"], domain.ValidDealStages, domain.StageLead)
			out = append(out, domain.Deal{
				ID:            r.ID,
				CompanyID:     r.Config["company"],
				ContactID:     r.Config["contact"],
				Title:         r.Title,
				Value:         markdown.FloatOr(r.Config["value"], 0),
				Stage:         stage,
				Probability:   markdown.FloatOr(r.Config["probability"], 0),
				ExpectedClose: r.Field("Expected Close"),
				Notes:         r.Sub("Notes").Body(),
				Created:       r.Field("Created"),
				ClosedAt:      r.Field("Closed At"),
			})
		}
		return out
	},
	Format: func(ds []domain.Deal) []string {
		w := markdown.NewSectionWriter(dealSchema.Section)
		for _, d := range ds {
			w.Line("## "+d.Title+markdown.FormatConfigBlock([]markdown.KV{
				{Key: "company", Value: d.CompanyID},
				{Key: "contact", Value: d.ContactID},
				{Key: "stage", Value: string(domain.CoalesceStatus(d.Stage, domain.StageLead))},
				{Key: "value", Value: floatField(d.Value)},
				{Key: "probability", Value: floatField(d.Probability)},
			})).
				Meta("id", d.ID).
				Field("Expected Close", d.ExpectedClose).
				Field("Created", d.Created).
				Field("Closed At", d.ClosedAt)
			writeNotesSub(w, "Notes", d.Notes)
			w.Blank()
		}
		return w.Lines()
	},
	ID: func(d *domain.Deal) *string { return &d.ID },
}

var interactionSchema = markdown.Schema{
	Section: "Interactions",
	Fields:  []string{"Duration", "Next Follow-up"},
	Config:  true,
}

var Interactions = Family[domain.Interaction]{
	Section: interactionSchema.Section,
	Parse: func(lines []string) []domain.Interaction {
		var out []domain.Interaction
		for _, r := range markdown.ScanRecords(lines, interactionSchema) {
			typ := parseEnumField(r.Config["type"], domain.ValidInteractionTypes, domain.InteractionNote)
			out = append(out, domain.Interaction{
				ID:           r.ID,
				CompanyID:    r.Config["company"],
				ContactID:    r.Config["contact"],
				DealID:       r.Config["deal"],
				Type:         typ,
				Summary:      r.Title,
				Notes:        r.Notes(),
				Date:         r.Config["date"],
				Duration:     markdown.ParseInt(r.Field("Duration")),
				NextFollowUp: r.Field("Next Follow-up"),
			})
		}
		return out
	},
	Format: func(is []domain.Interaction) []string {
		w := markdown.NewSectionWriter(interactionSchema.Section)
		for _, in := range is {
			duration := ""
			if in.Duration != nil {
				duration = strconv.Itoa(*in.Duration)
			}
			w.Line("## "+in.Summary+markdown.FormatConfigBlock([]markdown.KV{
				{Key: "company", Value: in.CompanyID},
				{Key: "contact", Value: in.ContactID},
				{Key: "deal", Value: in.DealID},
				{Key: "type", Value: string(domain.CoalesceStatus(in.Type, domain.InteractionNote))},
				{Key: "date", Value: in.Date},
			})).
				Meta("id", in.ID).
				Field("Duration", duration).
				Field("Next Follow-up", in.NextFollowUp)
			if notes := notesLines(in.Notes); len(notes) > 0 {
				w.Blank().Text(notes...)
			}
			w.Blank()
		}
		return w.Lines()
	},
	ID: func(in *domain.Interaction) *string { return &in.ID },
}
