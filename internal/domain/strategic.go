package domain

// StrategicLevel is one node of a vision -> tactics cascade. ParentID points
// at a level of the same or higher precedence.
type StrategicLevel struct {
	ID               string
	Title            string
	Description      string
	Level            StrategicLevelType
	ParentID         string
	Order            int
	LinkedTasks      []string
	LinkedMilestones []string
}

type StrategicLevelsBuilder struct {
	ID     string
	Title  string
	Date   string
	Levels []StrategicLevel
}
