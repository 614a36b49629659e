package domain

// Milestone is a named target date that tasks reference by name. Its id is
// the slug of its name.
type Milestone struct {
	ID          string
	Name        string
	Target      string
	Status      MilestoneStatus
	Description string
}

// MilestoneProgress is the derived completion view of a milestone.
type MilestoneProgress struct {
	Milestone
	TaskCount      int
	CompletedCount int
	Progress       int
}
