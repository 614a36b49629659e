package domain

type Retrospective struct {
	ID       string
	Title    string
	Date     string
	Status   RetroStatus
	Continue []string
	Stop     []string
	Start    []string
}

type SwotAnalysis struct {
	ID            string
	Title         string
	Date          string
	Strengths     []string
	Weaknesses    []string
	Opportunities []string
	Threats       []string
}

// RiskAnalysis sorts risks into impact x probability quadrants.
type RiskAnalysis struct {
	ID                 string
	Title              string
	Date               string
	HighImpactHighProb []string
	HighImpactLowProb  []string
	LowImpactHighProb  []string
	LowImpactLowProb   []string
}
