package domain

type Company struct {
	ID       string
	Name     string
	Industry string
	Website  string
	Phone    string
	Address  *Address
	Notes    string
	Created  string
}

type Contact struct {
	ID        string
	CompanyID string
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Title     string
	IsPrimary bool
	Notes     string
	Created   string
}

// FullName joins first and last name.
func (c Contact) FullName() string {
	return CoalesceStr(joinNonEmpty(c.FirstName, c.LastName), c.Email, c.ID)
}

func joinNonEmpty(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	}
	return a + " " + b
}

type Deal struct {
	ID            string
	CompanyID     string
	ContactID     string
	Title         string
	Value         float64
	Stage         DealStage
	Probability   float64
	ExpectedClose string
	Notes         string
	Created       string
	ClosedAt      string
}

type Interaction struct {
	ID           string
	CompanyID    string
	ContactID    string
	DealID       string
	Type         InteractionType
	Summary      string
	Notes        string
	Date         string
	Duration     *int
	NextFollowUp string
}

// StageTotals counts deals and sums their value for one stage.
type StageTotals struct {
	Count int
	Value float64
}

// CRMSummary aggregates the CRM sections.
type CRMSummary struct {
	TotalCompanies     int
	TotalContacts      int
	TotalDeals         int
	PipelineValue      float64
	WonValue           float64
	LostValue          float64
	DealsByStage       map[DealStage]StageTotals
	RecentInteractions int
}
