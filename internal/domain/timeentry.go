package domain

// TimeEntry is hours logged against a task on one day.
type TimeEntry struct {
	ID          string
	Date        string
	Hours       float64
	Person      string
	Description string
}

// TimeLog maps task ids to their entries. Order keeps the task order of the
// document so serialization is stable.
type TimeLog struct {
	Order   []string
	Entries map[string][]TimeEntry
}

// NewTimeLog returns an empty log.
func NewTimeLog() *TimeLog {
	return &TimeLog{Entries: map[string][]TimeEntry{}}
}

// For returns the entries of a task.
func (l *TimeLog) For(taskID string) []TimeEntry {
	return l.Entries[taskID]
}

// Add appends an entry for a task, registering the task on first use.
func (l *TimeLog) Add(taskID string, e TimeEntry) {
	if _, ok := l.Entries[taskID]; !ok {
		l.Order = append(l.Order, taskID)
	}
	l.Entries[taskID] = append(l.Entries[taskID], e)
}

// Remove deletes the entry with the given id from a task. It reports whether
// an entry was removed.
func (l *TimeLog) Remove(taskID, entryID string) bool {
	entries := l.Entries[taskID]
	for i, e := range entries {
		if e.ID == entryID {
			l.Entries[taskID] = append(entries[:i:i], entries[i+1:]...)
			return true
		}
	}
	return false
}

// All returns every entry in document order, paired with its task id.
func (l *TimeLog) All() []TaskTimeEntry {
	var out []TaskTimeEntry
	for _, id := range l.Order {
		for _, e := range l.Entries[id] {
			out = append(out, TaskTimeEntry{TaskID: id, TimeEntry: e})
		}
	}
	return out
}

// TaskTimeEntry is a TimeEntry with the task it belongs to.
type TaskTimeEntry struct {
	TaskID string
	TimeEntry
}
