package domain

import "strings"

type MilestoneStatus string

const (
	MilestoneOpen      MilestoneStatus = "open"
	MilestoneCompleted MilestoneStatus = "completed"
)

type IdeaStatus string

const (
	IdeaNew         IdeaStatus = "new"
	IdeaConsidering IdeaStatus = "considering"
	IdeaPlanned     IdeaStatus = "planned"
	IdeaApproved    IdeaStatus = "approved"
	IdeaRejected    IdeaStatus = "rejected"
)

type RetroStatus string

const (
	RetroOpen   RetroStatus = "open"
	RetroClosed RetroStatus = "closed"
)

type AllocationTarget string

const (
	TargetProject   AllocationTarget = "project"
	TargetTask      AllocationTarget = "task"
	TargetMilestone AllocationTarget = "milestone"
)

type StrategicLevelType string

const (
	LevelVision     StrategicLevelType = "vision"
	LevelMission    StrategicLevelType = "mission"
	LevelGoals      StrategicLevelType = "goals"
	LevelObjectives StrategicLevelType = "objectives"
	LevelStrategies StrategicLevelType = "strategies"
	LevelTactics    StrategicLevelType = "tactics"
)

// StrategicLevelOrder is the fixed precedence of strategic level types,
// highest first.
var StrategicLevelOrder = []StrategicLevelType{
	LevelVision, LevelMission, LevelGoals, LevelObjectives, LevelStrategies, LevelTactics,
}

// Rank returns the position of t in StrategicLevelOrder, or -1.
func (t StrategicLevelType) Rank() int {
	for i, l := range StrategicLevelOrder {
		if l == t {
			return i
		}
	}
	return -1
}

type QuoteStatus string

const (
	QuoteDraft    QuoteStatus = "draft"
	QuoteSent     QuoteStatus = "sent"
	QuoteAccepted QuoteStatus = "accepted"
	QuoteRejected QuoteStatus = "rejected"
)

type InvoiceStatus string

const (
	InvoiceDraft     InvoiceStatus = "draft"
	InvoiceSent      InvoiceStatus = "sent"
	InvoicePaid      InvoiceStatus = "paid"
	InvoiceOverdue   InvoiceStatus = "overdue"
	InvoiceCancelled InvoiceStatus = "cancelled"
)

type PaymentMethod string

const (
	PaymentBank  PaymentMethod = "bank"
	PaymentCard  PaymentMethod = "card"
	PaymentCash  PaymentMethod = "cash"
	PaymentOther PaymentMethod = "other"
)

type DealStage string

const (
	StageLead        DealStage = "lead"
	StageQualified   DealStage = "qualified"
	StageProposal    DealStage = "proposal"
	StageNegotiation DealStage = "negotiation"
	StageWon         DealStage = "won"
	StageLost        DealStage = "lost"
)

// DealStages lists stages in pipeline order.
var DealStages = []DealStage{
	StageLead, StageQualified, StageProposal, StageNegotiation, StageWon, StageLost,
}

type InteractionType string

const (
	InteractionEmail   InteractionType = "email"
	InteractionCall    InteractionType = "call"
	InteractionMeeting InteractionType = "meeting"
	InteractionNote    InteractionType = "note"
)

var (
	ValidMilestoneStatuses = set(MilestoneOpen, MilestoneCompleted)
	ValidIdeaStatuses      = set(IdeaNew, IdeaConsidering, IdeaPlanned, IdeaApproved, IdeaRejected)
	ValidRetroStatuses     = set(RetroOpen, RetroClosed)
	ValidTargets           = set(TargetProject, TargetTask, TargetMilestone)
	ValidLevels            = set(StrategicLevelOrder...)
	ValidQuoteStatuses     = set(QuoteDraft, QuoteSent, QuoteAccepted, QuoteRejected)
	ValidInvoiceStatuses   = set(InvoiceDraft, InvoiceSent, InvoicePaid, InvoiceOverdue, InvoiceCancelled)
	ValidPaymentMethods    = set(PaymentBank, PaymentCard, PaymentCash, PaymentOther)
	ValidDealStages        = set(DealStages...)
	ValidInteractionTypes  = set(InteractionEmail, InteractionCall, InteractionMeeting, InteractionNote)
)

func set[T ~string](vals ...T) map[T]bool {
	m := make(map[T]bool, len(vals))
	for _, v := range vals {
		m[v] = true
	}
	return m
}

// ParseEnum lower-cases s and returns it as T when valid contains it.
// Otherwise it returns def and false.
func ParseEnum[T ~string](s string, valid map[T]bool, def T) (T, bool) {
	v := T(strings.ToLower(strings.TrimSpace(s)))
	if valid[v] {
		return v, true
	}
	return def, false
}

// CoalesceStatus returns v, or def when v is empty.
func CoalesceStatus[T ~string](v, def T) T {
	if v == "" {
		return def
	}
	return v
}
