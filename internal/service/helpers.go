package service

import (
	"fmt"
	"math"
	"sort"

	"github.com/alexanderramin/mdplan/internal/domain"
	"github.com/alexanderramin/mdplan/internal/markdown"
)

// MilestoneProgress counts the tasks anywhere in the tree linked to the
// named milestone. Progress is round(100*completed/linked), 0 when nothing
// is linked.
func MilestoneProgress(tasks []*domain.Task, name string) (linked, completed, progress int) {
	domain.Walk(tasks, func(t, _ *domain.Task) bool {
		if t.Config.Milestone == name {
			linked++
			if t.Completed {
				completed++
			}
		}
		return true
	})
	if linked > 0 {
		progress = int(math.Round(100 * float64(completed) / float64(linked)))
	}
	return linked, completed, progress
}

// MergeMilestones adds a milestone for every name referenced by tasks but
// missing from the section. Those are completed once all their tasks are.
func MergeMilestones(section []domain.Milestone, tasks []*domain.Task) []domain.Milestone {
	out := append([]domain.Milestone(nil), section...)
	known := make(map[string]bool, len(section))
	for _, m := range section {
		known[m.Name] = true
	}
	var referenced []string
	domain.Walk(tasks, func(t, _ *domain.Task) bool {
		if name := t.Config.Milestone; name != "" && !known[name] {
			known[name] = true
			referenced = append(referenced, name)
		}
		return true
	})
	sort.Strings(referenced)
	for _, name := range referenced {
		m := domain.Milestone{ID: markdown.Slug(name), Name: name, Status: domain.MilestoneOpen}
		if linked, done, _ := MilestoneProgress(tasks, name); linked > 0 && linked == done {
			m.Status = domain.MilestoneCompleted
		}
		out = append(out, m)
	}
	return out
}

// WithProgress pairs each milestone with its computed progress.
func WithProgress(milestones []domain.Milestone, tasks []*domain.Task) []domain.MilestoneProgress {
	out := make([]domain.MilestoneProgress, 0, len(milestones))
	for _, m := range milestones {
		linked, done, pct := MilestoneProgress(tasks, m.Name)
		out = append(out, domain.MilestoneProgress{Milestone: m, TaskCount: linked, CompletedCount: done, Progress: pct})
	}
	return out
}

// Backlinks attaches to every idea the ids of the ideas linking to it.
func Backlinks(ideas []domain.Idea) []domain.IdeaWithBacklinks {
	out := make([]domain.IdeaWithBacklinks, len(ideas))
	for i, idea := range ideas {
		out[i].Idea = idea
		for _, other := range ideas {
			for _, link := range other.Links {
				if link == idea.ID {
					out[i].Backlinks = append(out[i].Backlinks, other.ID)
					break
				}
			}
		}
	}
	return out
}

func notFound(kind, id string) error {
	return fmt.Errorf("%s %q: %w", kind, id, domain.ErrNotFound)
}

// foundOr maps a repository (found, err) pair to an error.
func foundOr(found bool, err error, kind, id string) error {
	if err != nil {
		return err
	}
	if !found {
		return notFound(kind, id)
	}
	return nil
}

func idGenOrDefault(gen domain.IDGen) domain.IDGen {
	if gen == nil {
		return domain.NewShortID
	}
	return gen
}
