package domain

type LeanCanvas struct {
	ID                     string
	Title                  string
	Date                   string
	Problem                []string
	Solution               []string
	UniqueValueProposition []string
	UnfairAdvantage        []string
	CustomerSegments       []string
	ExistingAlternatives   []string
	KeyMetrics             []string
	HighLevelConcept       []string
	Channels               []string
	EarlyAdopters          []string
	CostStructure          []string
	RevenueStreams         []string
}

type BusinessModelCanvas struct {
	ID                    string
	Title                 string
	Date                  string
	KeyPartners           []string
	KeyActivities         []string
	KeyResources          []string
	ValueProposition      []string
	CustomerRelationships []string
	Channels              []string
	CustomerSegments      []string
	CostStructure         []string
	RevenueStreams        []string
}

type ProjectValueBoard struct {
	ID               string
	Title            string
	Date             string
	CustomerSegments []string
	Problem          []string
	Solution         []string
	Benefit          []string
}

// Brief is a one-page project charter. Each section holds list items or
// paragraphs.
type Brief struct {
	ID                string
	Title             string
	Date              string
	Summary           []string
	Mission           []string
	Responsible       []string
	Accountable       []string
	Consulted         []string
	Informed          []string
	HighLevelBudget   []string
	HighLevelTimeline []string
	Culture           []string
	ChangeCapacity    []string
	GuidingPrinciples []string
}
