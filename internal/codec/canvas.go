package codec

import "github.com/alexanderramin/mdplan/internal/domain"

type lean = domain.LeanCanvas

var LeanCanvases = listFamily[lean]{
	section: "Lean Canvas",
	lists: []listField[lean]{
		{Header: "Problem", Get: func(c *lean) *[]string { return &c.Problem }},
		{Header: "Solution", Get: func(c *lean) *[]string { return &c.Solution }},
		{Header: "Unique Value Proposition", Get: func(c *lean) *[]string { return &c.UniqueValueProposition }},
		{Header: "Unfair Advantage", Get: func(c *lean) *[]string { return &c.UnfairAdvantage }},
		{Header: "Customer Segments", Get: func(c *lean) *[]string { return &c.CustomerSegments }},
		{Header: "Existing Alternatives", Get: func(c *lean) *[]string { return &c.ExistingAlternatives }},
		{Header: "Key Metrics", Get: func(c *lean) *[]string { return &c.KeyMetrics }},
		{Header: "High-Level Concept", Get: func(c *lean) *[]string { return &c.HighLevelConcept }},
		{Header: "Channels", Get: func(c *lean) *[]string { return &c.Channels }},
		{Header: "Early Adopters", Get: func(c *lean) *[]string { return &c.EarlyAdopters }},
		{Header: "Cost Structure", Get: func(c *lean) *[]string { return &c.CostStructure }},
		{Header: "Revenue Streams", Get: func(c *lean) *[]string { return &c.RevenueStreams }},
	},
	head: func(c *lean) (*string, *string, *string) { return &c.ID, &c.Title, &c.Date },
}.family()

type bmc = domain.BusinessModelCanvas

var BusinessModelCanvases = listFamily[bmc]{
	section: "Business Model Canvas",
	lists: []listField[bmc]{
		{Header: "Key Partners", Get: func(c *bmc) *[]string { return &c.KeyPartners }},
		{Header: "Key Activities", Get: func(c *bmc) *[]string { return &c.KeyActivities }},
		{Header: "Key Resources", Get: func(c *bmc) *[]string { return &c.KeyResources }},
		{Header: "Value Proposition", Aliases: []string{"Value Propositions"}, Get: func(c *bmc) *[]string { return &c.ValueProposition }},
		{Header: "Customer Relationships", Get: func(c *bmc) *[]string { return &c.CustomerRelationships }},
		{Header: "Channels", Get: func(c *bmc) *[]string { return &c.Channels }},
		{Header: "Customer Segments", Get: func(c *bmc) *[]string { return &c.CustomerSegments }},
		{Header: "Cost Structure", Get: func(c *bmc) *[]string { return &c.CostStructure }},
		{Header: "Revenue Streams", Get: func(c *bmc) *[]string { return &c.RevenueStreams }},
	},
	head: func(c *bmc) (*string, *string, *string) { return &c.ID, &c.Title, &c.Date },
}.family()

type valueBoard = domain.ProjectValueBoard

var ProjectValueBoards = listFamily[valueBoard]{
	section: "Project Value Board",
	lists: []listField[valueBoard]{
		{Header: "Customer Segments", Get: func(b *valueBoard) *[]string { return &b.CustomerSegments }},
		{Header: "Problem", Get: func(b *valueBoard) *[]string { return &b.Problem }},
		{Header: "Solution", Get: func(b *valueBoard) *[]string { return &b.Solution }},
		{Header: "Benefit", Get: func(b *valueBoard) *[]string { return &b.Benefit }},
	},
	head: func(b *valueBoard) (*string, *string, *string) { return &b.ID, &b.Title, &b.Date },
}.family()

type brief = domain.Brief

// Briefs keep prose paragraphs as entries next to list items.
var Briefs = listFamily[brief]{
	section:    "Brief",
	paragraphs: true,
	lists: []listField[brief]{
		{Header: "Summary", Get: func(b *brief) *[]string { return &b.Summary }},
		{Header: "Mission", Get: func(b *brief) *[]string { return &b.Mission }},
		{Header: "Responsible", Get: func(b *brief) *[]string { return &b.Responsible }},
		{Header: "Accountable", Get: func(b *brief) *[]string { return &b.Accountable }},
		{Header: "Consulted", Get: func(b *brief) *[]string { return &b.Consulted }},
		{Header: "Informed", Get: func(b *brief) *[]string { return &b.Informed }},
		{Header: "High Level Budget", Get: func(b *brief) *[]string { return &b.HighLevelBudget }},
		{Header: "High Level Timeline", Get: func(b *brief) *[]string { return &b.HighLevelTimeline }},
		{Header: "Culture", Get: func(b *brief) *[]string { return &b.Culture }},
		{Header: "Change Capacity", Get: func(b *brief) *[]string { return &b.ChangeCapacity }},
		{Header: "Guiding Principles", Get: func(b *brief) *[]string { return &b.GuidingPrinciples }},
	},
	head: func(b *brief) (*string, *string, *string) { return &b.ID, &b.Title, &b.Date },
}.family()
