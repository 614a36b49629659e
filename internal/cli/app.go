package cli

import (
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/alexanderramin/mdplan/internal/config"
	"github.com/alexanderramin/mdplan/internal/db"
	"github.com/alexanderramin/mdplan/internal/domain"
	"github.com/alexanderramin/mdplan/internal/index"
	"github.com/alexanderramin/mdplan/internal/repository"
	"github.com/alexanderramin/mdplan/internal/service"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Tasks      service.TaskService
	Milestones service.MilestoneService
	Ideas      service.IdeaService
	Strategy   service.StrategyService
	Capacity   service.CapacityService
	Billing    service.BillingService
	CRM        service.CRMService
	Time       service.TimeService
	Project    service.ProjectService
	Import     service.ImportService

	Retros       service.RecordService[domain.Retrospective]
	Swots        service.RecordService[domain.SwotAnalysis]
	Risks        service.RecordService[domain.RiskAnalysis]
	LeanCanvases service.RecordService[domain.LeanCanvas]
	BMCs         service.RecordService[domain.BusinessModelCanvas]
	ValueBoards  service.RecordService[domain.ProjectValueBoard]
	Briefs       service.RecordService[domain.Brief]

	Customers    service.RecordService[domain.Customer]
	Rates        service.RecordService[domain.BillingRate]
	Quotes       service.RecordService[domain.Quote]
	Invoices     service.RecordService[domain.Invoice]
	Companies    service.RecordService[domain.Company]
	Contacts     service.RecordService[domain.Contact]
	Deals        service.RecordService[domain.Deal]
	Interactions service.RecordService[domain.Interaction]

	Index   *index.Syncer
	Queries *index.Queries

	// Config is the resolved configuration. It is filled before any command
	// runs.
	Config config.Config
	// DocumentPath is the document the services were wired to.
	DocumentPath string
	Logger       *slog.Logger
	Now          func() time.Time

	IsInteractive func() bool

	// Connect wires the services once flags and config files are resolved.
	// Apps whose services are set up front leave it nil.
	Connect func(app *App) error

	closers []func() error
}

func (a *App) now() time.Time {
	if a.Now == nil {
		return time.Now()
	}
	return a.Now()
}

func (a *App) logger() *slog.Logger {
	if a.Logger == nil {
		return slog.Default()
	}
	return a.Logger
}

// UseRepos wires every document-backed service to repos. newID may be nil.
func (a *App) UseRepos(repos *repository.Repos, newID domain.IDGen, observers ...service.UseCaseObserver) {
	clock := service.Clock(a.now)

	a.Tasks = service.NewTaskService(repos.Tasks, observers...)
	a.Milestones = service.NewMilestoneService(repos.Milestones, repos.Tasks, observers...)
	a.Ideas = service.NewIdeaService(repos.Ideas, clock, observers...)
	a.Strategy = service.NewStrategyService(repos.Strategy, clock, newID, observers...)
	a.Capacity = service.NewCapacityService(repos, clock, newID, observers...)
	a.Billing = service.NewBillingService(repos, clock, newID, observers...)
	a.CRM = service.NewCRMService(repos, clock)
	a.Time = service.NewTimeService(repos.TimeLog, repos.Tasks, clock, observers...)
	a.Project = service.NewProjectService(repos.ProjectConfig, clock, observers...)
	a.Import = service.NewImportService(repos.Tasks, observers...)

	a.Retros = service.NewRecordService(repos.Retros, "retrospective",
		service.Dated("retrospective", clock, func(r *domain.Retrospective) (*string, *string) { return &r.Title, &r.Date }), observers...)
	a.Swots = service.NewRecordService(repos.Swots, "swot analysis",
		service.Dated("swot analysis", clock, func(r *domain.SwotAnalysis) (*string, *string) { return &r.Title, &r.Date }), observers...)
	a.Risks = service.NewRecordService(repos.Risks, "risk analysis",
		service.Dated("risk analysis", clock, func(r *domain.RiskAnalysis) (*string, *string) { return &r.Title, &r.Date }), observers...)
	a.LeanCanvases = service.NewRecordService(repos.LeanCanvases, "lean canvas",
		service.Dated("lean canvas", clock, func(r *domain.LeanCanvas) (*string, *string) { return &r.Title, &r.Date }), observers...)
	a.BMCs = service.NewRecordService(repos.BMCs, "business model canvas",
		service.Dated("business model canvas", clock, func(r *domain.BusinessModelCanvas) (*string, *string) { return &r.Title, &r.Date }), observers...)
	a.ValueBoards = service.NewRecordService(repos.ValueBoards, "value board",
		service.Dated("value board", clock, func(r *domain.ProjectValueBoard) (*string, *string) { return &r.Title, &r.Date }), observers...)
	a.Briefs = service.NewRecordService(repos.Briefs, "brief",
		service.Dated("brief", clock, func(r *domain.Brief) (*string, *string) { return &r.Title, &r.Date }), observers...)

	a.Customers = service.NewRecordService(repos.Customers, "customer", service.PrepareCustomer(clock), observers...)
	a.Rates = service.NewRecordService(repos.Rates, "billing rate", service.PrepareRate, observers...)
	a.Quotes = service.NewRecordService(repos.Quotes, "quote", nil, observers...)
	a.Invoices = service.NewRecordService(repos.Invoices, "invoice", nil, observers...)
	a.Companies = service.NewRecordService(repos.Companies, "company", service.PrepareCompany(clock), observers...)
	a.Contacts = service.NewRecordService(repos.Contacts, "contact", service.PrepareContact(clock), observers...)
	a.Deals = service.NewRecordService(repos.Deals, "deal", service.PrepareDeal(clock), observers...)
	a.Interactions = service.NewRecordService(repos.Interactions, "interaction", service.PrepareInteraction(clock), observers...)
}

// UseIndex wires the SQLite index over database. The database is closed
// with the app.
func (a *App) UseIndex(database *sql.DB, doc index.DocumentReader) {
	a.Index = index.NewSyncer(doc, db.NewSQLiteUnitOfWork(database),
		index.WithLogger(a.logger()),
		index.WithClock(a.now),
	)
	a.Queries = index.NewQueries(database)
	a.OnClose(database.Close)
}

// OnClose registers fn to run on Close.
func (a *App) OnClose(fn func() error) {
	a.closers = append(a.closers, fn)
}

// Close releases everything registered with OnClose, last first.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	a.closers = nil
	return errors.Join(errs...)
}
