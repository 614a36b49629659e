package codec

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/alexanderramin/mdplan/internal/domain"
	"github.com/alexanderramin/mdplan/internal/markdown"
)

// ConfigSection is the document-level settings section.
const ConfigSection = "Configurations"

var linkRe = regexp.MustCompile(`^\[([^\]]+)\]\(([^)]+)\)$`)

// ParseProjectConfig decodes the Configurations section. Working Days holds
// either a day count or a comma separated day list.
func ParseProjectConfig(lines []string) domain.ProjectConfig {
	cfg := domain.ProjectConfig{WorkingDaysPerWeek: 5}
	list := ""
	for _, raw := range markdown.Section(lines, ConfigSection) {
		line := strings.TrimSpace(raw)
		switch {
		case line == "":
			list = ""
		case line == "Assignees:" || line == "Tags:" || line == "Links:":
			list = strings.TrimSuffix(line, ":")
		case strings.HasPrefix(line, "- ") && list != "":
			value := strings.TrimSpace(line[2:])
			switch list {
			case "Assignees":
				cfg.Assignees = append(cfg.Assignees, value)
			case "Tags":
				cfg.Tags = append(cfg.Tags, value)
			case "Links":
				if m := linkRe.FindStringSubmatch(value); m != nil {
					cfg.Links = append(cfg.Links, domain.ProjectLink{Title: m[1], URL: m[2]})
				}
			}
		default:
			key, value, ok := markdown.SplitField(line)
			if !ok {
				continue
			}
			switch key {
			case "Start Date":
				cfg.StartDate = value
			case "Last Updated":
				cfg.LastUpdated = value
			case "Working Days":
				if n, err := strconv.Atoi(value); err == nil {
					if n > 0 {
						cfg.WorkingDaysPerWeek = n
					}
				} else if days := markdown.ParseList(value); len(days) > 0 {
					cfg.WorkingDays = days
					cfg.WorkingDaysPerWeek = len(days)
				}
			}
		}
	}
	return cfg
}

// FormatProjectConfig renders the section. Assignees and tags are
// de-duplicated and sorted.
func FormatProjectConfig(cfg domain.ProjectConfig) []string {
	w := markdown.NewSectionWriter(ConfigSection)
	w.Field("Start Date", cfg.StartDate)
	switch {
	case len(cfg.WorkingDays) > 0:
		w.Field("Working Days", strings.Join(cfg.WorkingDays, ", "))
	case cfg.WorkingDaysPerWeek > 0 && cfg.WorkingDaysPerWeek != 5:
		w.Field("Working Days", strconv.Itoa(cfg.WorkingDaysPerWeek))
	}
	w.Field("Last Updated", cfg.LastUpdated)
	w.Blank()

	if names := sortedUnique(cfg.Assignees); len(names) > 0 {
		w.Line("Assignees:").Items(names).Blank()
	}
	if tags := sortedUnique(cfg.Tags); len(tags) > 0 {
		w.Line("Tags:").Items(tags).Blank()
	}
	if len(cfg.Links) > 0 {
		w.Line("Links:")
		for _, l := range cfg.Links {
			w.Line("- [" + l.Title + "](" + l.URL + ")")
		}
		w.Blank()
	}
	return w.Lines()
}

func sortedUnique(items []string) []string {
	seen := make(map[string]bool, len(items))
	var out []string
	for _, it := range items {
		if it = strings.TrimSpace(it); it != "" && !seen[it] {
			seen[it] = true
			out = append(out, it)
		}
	}
	sort.Strings(out)
	return out
}
