package service

import (
	"context"

	"github.com/alexanderramin/mdplan/internal/billing"
	"github.com/alexanderramin/mdplan/internal/codec"
	"github.com/alexanderramin/mdplan/internal/domain"
	"github.com/alexanderramin/mdplan/internal/scheduler"
	"github.com/alexanderramin/mdplan/internal/tasktree"
)

type TaskService interface {
	Board(ctx context.Context) (codec.Board, error)
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	Create(ctx context.Context, t *domain.Task, parentID string) (*domain.Task, error)
	Update(ctx context.Context, id string, fn func(*domain.Task)) error
	SetCompleted(ctx context.Context, id string, done bool) error
	Toggle(ctx context.Context, id string) (*domain.Task, error)
	Move(ctx context.Context, id, section string) error
	Delete(ctx context.Context, id string) error
	AppendMarkdown(ctx context.Context, section, snippet string) ([]*domain.Task, error)
}

type MilestoneService interface {
	List(ctx context.Context) ([]domain.MilestoneProgress, error)
	Progress(ctx context.Context, nameOrID string) (domain.MilestoneProgress, error)
	Create(ctx context.Context, m domain.Milestone) (domain.Milestone, error)
	Update(ctx context.Context, id string, fn func(*domain.Milestone)) error
	Delete(ctx context.Context, id string) error
}

type IdeaService interface {
	List(ctx context.Context) ([]domain.IdeaWithBacklinks, error)
	Create(ctx context.Context, idea domain.Idea) (domain.Idea, error)
	Update(ctx context.Context, id string, fn func(*domain.Idea)) error
	Link(ctx context.Context, fromID, toID string) error
	Delete(ctx context.Context, id string) error
}

// RecordService is the plain CRUD surface of a record family.
type RecordService[T any] interface {
	List(ctx context.Context) ([]T, error)
	GetByID(ctx context.Context, id string) (T, error)
	Create(ctx context.Context, item T) (T, error)
	Update(ctx context.Context, id string, fn func(*T)) error
	Delete(ctx context.Context, id string) error
}

type StrategyService interface {
	RecordService[domain.StrategicLevelsBuilder]
	AddLevel(ctx context.Context, builderID string, level domain.StrategicLevel) (domain.StrategicLevel, error)
}

type CapacityService interface {
	RecordService[domain.CapacityPlan]
	AddMember(ctx context.Context, planID string, m domain.TeamMember) (domain.TeamMember, error)
	Allocate(ctx context.Context, planID string, a domain.WeeklyAllocation) (domain.WeeklyAllocation, error)
	Utilization(ctx context.Context, planID string) ([]scheduler.MemberUtilization, error)
	SuggestAssignments(ctx context.Context, planID string) ([]scheduler.Suggestion, error)
	ApplyAssignments(ctx context.Context, planID string, accepted []scheduler.Suggestion) (int, error)
}

type BillingService interface {
	CreateQuote(ctx context.Context, q domain.Quote) (domain.Quote, error)
	AddQuoteItem(ctx context.Context, quoteID string, item domain.LineItem) (domain.Quote, error)
	SetQuoteStatus(ctx context.Context, quoteID string, status domain.QuoteStatus) (domain.Quote, error)
	QuoteToInvoice(ctx context.Context, quoteID string) (domain.Invoice, error)
	CreateInvoice(ctx context.Context, inv domain.Invoice) (domain.Invoice, error)
	SetInvoiceStatus(ctx context.Context, invoiceID string, status domain.InvoiceStatus) (domain.Invoice, error)
	GenerateInvoice(ctx context.Context, customerID, title string, req billing.GenerateRequest) (domain.Invoice, error)
	RecordPayment(ctx context.Context, p domain.Payment) (domain.Invoice, error)
	Summary(ctx context.Context) (domain.BillingSummary, error)
}

type CRMService interface {
	Summary(ctx context.Context) (domain.CRMSummary, error)
}

type TimeService interface {
	List(ctx context.Context, taskID string) ([]domain.TaskTimeEntry, error)
	Log(ctx context.Context, taskID string, e domain.TimeEntry) (domain.TimeEntry, error)
	Delete(ctx context.Context, taskID, entryID string) error
}

type ProjectService interface {
	Get(ctx context.Context) (domain.ProjectConfig, error)
	Update(ctx context.Context, fn func(*domain.ProjectConfig)) (domain.ProjectConfig, error)
}

// ImportResult holds the outcome of a task import.
type ImportResult struct {
	Roots     int
	TaskCount int
}

type ImportService interface {
	ImportRows(ctx context.Context, rows []tasktree.FlatTask) (*ImportResult, error)
	ImportFile(ctx context.Context, path string) (*ImportResult, error)
	ExportRows(ctx context.Context) ([]tasktree.FlatTask, error)
}
