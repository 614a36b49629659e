package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/mdplan/internal/cli/formatter"
	"github.com/alexanderramin/mdplan/internal/domain"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

func mdplanHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// taskFormValues are the string inputs of the task form.
type taskFormValues struct {
	Title    string
	Section  string
	Priority string
	Effort   string
	Assignee string
	Due      string
}

// taskForm asks for the fields of a new task. sections feeds the column
// picker.
func taskForm(v *taskFormValues, sections []string) *huh.Form {
	options := make([]huh.Option[string], 0, len(sections))
	for _, s := range sections {
		options = append(options, huh.NewOption(s, s))
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Value(&v.Title).
				Validate(validateRequired),
			huh.NewSelect[string]().
				Title("Column").
				Options(options...).
				Value(&v.Section),
			huh.NewInput().
				Title("Priority (1-5, blank for none)").
				Value(&v.Priority).
				Validate(validatePositiveInt),
			huh.NewInput().
				Title("Effort (hours)").
				Value(&v.Effort).
				Validate(validatePositiveInt),
			huh.NewInput().
				Title("Assignee").
				Value(&v.Assignee),
			huh.NewInput().
				Title("Due Date (YYYY-MM-DD, blank for none)").
				Placeholder("2025-06-30").
				Value(&v.Due).
				Validate(validateOptionalDate),
		),
	).WithTheme(mdplanHuhTheme()).WithShowHelp(false)
}

func validateRequired(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("required")
	}
	return nil
}

// validatePositiveInt accepts empty or a positive integer.
func validatePositiveInt(s string) error {
	if s == "" {
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil || v <= 0 {
		return fmt.Errorf("enter a positive number")
	}
	return nil
}

func validateOptionalDate(s string) error {
	if s == "" {
		return nil
	}
	if _, err := time.Parse("2006-01-02", s); err != nil {
		return dateFormatError{}
	}
	return nil
}

// dateFormatError reads well inside a form and still matches
// domain.ErrInvalidInput.
type dateFormatError struct{}

func (dateFormatError) Error() string { return "use YYYY-MM-DD format" }
func (dateFormatError) Unwrap() error { return domain.ErrInvalidInput }
