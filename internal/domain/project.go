package domain

// ProjectLink is a titled URL listed in the project configuration.
type ProjectLink struct {
	Title string
	URL   string
}

// ProjectConfig is the document-level configuration section.
type ProjectConfig struct {
	StartDate          string
	WorkingDaysPerWeek int
	WorkingDays        []string
	LastUpdated        string
	Assignees          []string
	Tags               []string
	Links              []ProjectLink
}
