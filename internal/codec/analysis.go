package codec

import (
	"github.com/alexanderramin/mdplan/internal/domain"
	"github.com/alexanderramin/mdplan/internal/markdown"
)

var Retrospectives = listFamily[domain.Retrospective]{
	section: "Retrospectives",
	fields:  []string{"Status"},
	lists: []listField[domain.Retrospective]{
		{Header: "Continue", Get: func(r *domain.Retrospective) *[]string { return &r.Continue }},
		{Header: "Stop", Get: func(r *domain.Retrospective) *[]string { return &r.Stop }},
		{Header: "Start", Get: func(r *domain.Retrospective) *[]string { return &r.Start }},
	},
	head: func(r *domain.Retrospective) (*string, *string, *string) { return &r.ID, &r.Title, &r.Date },
	decode: func(r *domain.Retrospective, rec markdown.Record) {
		r.Status = parseEnumField(rec.Field("Status"), domain.ValidRetroStatuses, domain.RetroOpen)
	},
	encode: func(r *domain.Retrospective, w *markdown.Writer) {
		w.Field("Status", string(domain.CoalesceStatus(r.Status, domain.RetroOpen)))
	},
}.family()

var SwotAnalyses = listFamily[domain.SwotAnalysis]{
	section: "SWOT Analysis",
	lists: []listField[domain.SwotAnalysis]{
		{Header: "Strengths", Get: func(s *domain.SwotAnalysis) *[]string { return &s.Strengths }},
		{Header: "Weaknesses", Get: func(s *domain.SwotAnalysis) *[]string { return &s.Weaknesses }},
		{Header: "Opportunities", Get: func(s *domain.SwotAnalysis) *[]string { return &s.Opportunities }},
		{Header: "Threats", Get: func(s *domain.SwotAnalysis) *[]string { return &s.Threats }},
	},
	head: func(s *domain.SwotAnalysis) (*string, *string, *string) { return &s.ID, &s.Title, &s.Date },
}.family()

var RiskAnalyses = listFamily[domain.RiskAnalysis]{
	section: "Risk Analysis",
	lists: []listField[domain.RiskAnalysis]{
		{Header: "High Impact / High Probability", Get: func(r *domain.RiskAnalysis) *[]string { return &r.HighImpactHighProb }},
		{Header: "High Impact / Low Probability", Get: func(r *domain.RiskAnalysis) *[]string { return &r.HighImpactLowProb }},
		{Header: "Low Impact / High Probability", Get: func(r *domain.RiskAnalysis) *[]string { return &r.LowImpactHighProb }},
		{Header: "Low Impact / Low Probability", Get: func(r *domain.RiskAnalysis) *[]string { return &r.LowImpactLowProb }},
	},
	head: func(r *domain.RiskAnalysis) (*string, *string, *string) { return &r.ID, &r.Title, &r.Date },
}.family()
