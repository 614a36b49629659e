package domain

// TaskConfig holds the inline {key: value} annotations of a task line.
type TaskConfig struct {
	Tags         []string
	DueDate      string
	Assignee     string
	Priority     *int
	Effort       *int
	Milestone    string
	BlockedBy    []string
	PlannedStart string
	PlannedEnd   string
}

// Task is one checkbox item on the board. Children are owned exclusively by
// their parent.
type Task struct {
	ID          string
	Title       string
	Section     string
	Completed   bool
	Config      TaskConfig
	Description []string
	Children    []*Task
}

// Clone returns a deep copy of t and its subtree.
func (t *Task) Clone() *Task {
	if t == nil {
		return nil
	}
	c := *t
	c.Config.Tags = append([]string(nil), t.Config.Tags...)
	c.Config.BlockedBy = append([]string(nil), t.Config.BlockedBy...)
	if t.Config.Priority != nil {
		c.Config.Priority = IntPtr(*t.Config.Priority)
	}
	if t.Config.Effort != nil {
		c.Config.Effort = IntPtr(*t.Config.Effort)
	}
	c.Description = append([]string(nil), t.Description...)
	c.Children = make([]*Task, 0, len(t.Children))
	for _, ch := range t.Children {
		c.Children = append(c.Children, ch.Clone())
	}
	if len(c.Children) == 0 {
		c.Children = nil
	}
	return &c
}

// Walk visits t and its descendants in pre-order. Returning false from fn
// stops the walk.
func Walk(tasks []*Task, fn func(t *Task, parent *Task) bool) bool {
	return walk(tasks, nil, fn)
}

func walk(tasks []*Task, parent *Task, fn func(*Task, *Task) bool) bool {
	for _, t := range tasks {
		if !fn(t, parent) {
			return false
		}
		if !walk(t.Children, t, fn) {
			return false
		}
	}
	return true
}
