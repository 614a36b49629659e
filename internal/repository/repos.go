package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/mdplan/internal/codec"
	"github.com/alexanderramin/mdplan/internal/domain"
	"github.com/alexanderramin/mdplan/internal/markdown"
)

// Repos groups every repository over one document.
type Repos struct {
	store DocumentStore

	Tasks         TaskRepo
	TimeLog       TimeLogRepo
	ProjectConfig ProjectConfigRepo

	Milestones   EntityRepo[domain.Milestone]
	Ideas        EntityRepo[domain.Idea]
	Retros       EntityRepo[domain.Retrospective]
	Swots        EntityRepo[domain.SwotAnalysis]
	Risks        EntityRepo[domain.RiskAnalysis]
	LeanCanvases EntityRepo[domain.LeanCanvas]
	BMCs         EntityRepo[domain.BusinessModelCanvas]
	ValueBoards  EntityRepo[domain.ProjectValueBoard]
	Briefs       EntityRepo[domain.Brief]
	Capacity     EntityRepo[domain.CapacityPlan]
	Strategy     EntityRepo[domain.StrategicLevelsBuilder]
	Customers    EntityRepo[domain.Customer]
	Rates        EntityRepo[domain.BillingRate]
	Quotes       EntityRepo[domain.Quote]
	Invoices     EntityRepo[domain.Invoice]
	Payments     EntityRepo[domain.Payment]
	Companies    EntityRepo[domain.Company]
	Contacts     EntityRepo[domain.Contact]
	Deals        EntityRepo[domain.Deal]
	Interactions EntityRepo[domain.Interaction]
}

// NewRepos wires all repositories to store. newID may be nil.
func NewRepos(store DocumentStore, newID domain.IDGen, columns []string) *Repos {
	milestones := NewCollection(store, codec.Milestones, newID)
	milestones.prepare = func(m *domain.Milestone) { m.ID = markdown.Slug(m.Name) }

	return &Repos{
		store:         store,
		Tasks:         NewTaskRepo(store, columns),
		TimeLog:       NewTimeLogRepo(store, newID),
		ProjectConfig: NewProjectConfigRepo(store),
		Milestones:    milestones,
		Ideas:         NewCollection(store, codec.Ideas, newID),
		Retros:        NewCollection(store, codec.Retrospectives, newID),
		Swots:         NewCollection(store, codec.SwotAnalyses, newID),
		Risks:         NewCollection(store, codec.RiskAnalyses, newID),
		LeanCanvases:  NewCollection(store, codec.LeanCanvases, newID),
		BMCs:          NewCollection(store, codec.BusinessModelCanvases, newID),
		ValueBoards:   NewCollection(store, codec.ProjectValueBoards, newID),
		Briefs:        NewCollection(store, codec.Briefs, newID),
		Capacity:      NewCollection(store, codec.CapacityPlans, newID),
		Strategy:      NewCollection(store, codec.StrategicBuilders, newID),
		Customers:     NewCollection(store, codec.Customers, newID),
		Rates:         NewCollection(store, codec.BillingRates, newID),
		Quotes:        NewCollection(store, codec.Quotes, newID),
		Invoices:      NewCollection(store, codec.Invoices, newID),
		Payments:      NewCollection(store, codec.Payments, newID),
		Companies:     NewCollection(store, codec.Companies, newID),
		Contacts:      NewCollection(store, codec.Contacts, newID),
		Deals:         NewCollection(store, codec.Deals, newID),
		Interactions:  NewCollection(store, codec.Interactions, newID),
	}
}

// Apply runs steps in order on one snapshot of the document and writes once.
// When a step fails nothing is written.
func (r *Repos) Apply(ctx context.Context, steps ...Step) error {
	err := r.store.Update(ctx, func(lines []string) ([]string, error) {
		var err error
		for _, step := range steps {
			if lines, err = step(lines); err != nil {
				return nil, err
			}
		}
		return lines, nil
	})
	if err != nil {
		return fmt.Errorf("applying changes: %w", err)
	}
	return nil
}
