package domain

type Idea struct {
	ID          string
	Title       string
	Status      IdeaStatus
	Category    string
	Created     string
	Description string
	Links       []string
}

// IdeaWithBacklinks pairs an idea with the ids of ideas that link to it.
type IdeaWithBacklinks struct {
	Idea
	Backlinks []string
}
