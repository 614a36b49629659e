package service

import (
	"context"
	"time"

	"github.com/alexanderramin/mdplan/internal/domain"
	"github.com/alexanderramin/mdplan/internal/repository"
)

// recentInteractionDays is the window counted as recent activity.
const recentInteractionDays = 7

type crmService struct {
	repos *repository.Repos
	clock Clock
}

func NewCRMService(repos *repository.Repos, clock Clock) CRMService {
	return &crmService{repos: repos, clock: clock}
}

func (s *crmService) Summary(ctx context.Context) (domain.CRMSummary, error) {
	companies, err := s.repos.Companies.ReadAll(ctx)
	if err != nil {
		return domain.CRMSummary{}, err
	}
	contacts, err := s.repos.Contacts.ReadAll(ctx)
	if err != nil {
		return domain.CRMSummary{}, err
	}
	deals, err := s.repos.Deals.ReadAll(ctx)
	if err != nil {
		return domain.CRMSummary{}, err
	}
	interactions, err := s.repos.Interactions.ReadAll(ctx)
	if err != nil {
		return domain.CRMSummary{}, err
	}
	return SummarizeCRM(companies, contacts, deals, interactions, s.clock.now()), nil
}

// SummarizeCRM aggregates the CRM sections. The pipeline value weighs open
// deals by their probability; won and lost deals are summed separately.
// Interactions dated within the last seven days count as recent.
func SummarizeCRM(companies []domain.Company, contacts []domain.Contact, deals []domain.Deal, interactions []domain.Interaction, now time.Time) domain.CRMSummary {
	sum := domain.CRMSummary{
		TotalCompanies: len(companies),
		TotalContacts:  len(contacts),
		TotalDeals:     len(deals),
		DealsByStage:   make(map[domain.DealStage]domain.StageTotals, len(domain.DealStages)),
	}
	for _, st := range domain.DealStages {
		sum.DealsByStage[st] = domain.StageTotals{}
	}
	for _, d := range deals {
		st := sum.DealsByStage[d.Stage]
		st.Count++
		st.Value += d.Value
		sum.DealsByStage[d.Stage] = st
		switch d.Stage {
		case domain.StageWon:
			sum.WonValue += d.Value
		case domain.StageLost:
			sum.LostValue += d.Value
		default:
			sum.PipelineValue += d.Value * d.Probability / 100
		}
	}
	since := now.AddDate(0, 0, -recentInteractionDays).Format(dateLayout)
	for _, i := range interactions {
		if i.Date >= since {
			sum.RecentInteractions++
		}
	}
	return sum
}
