package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/cmscontent/internal/cli/formatter"
	"github.com/alexanderramin/cmscontent/internal/domain"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// cmsHuhTheme returns a huh theme matching the formatter palette.
func cmsHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	// Focused state: orange accent
	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	// Blurred state: dimmed
	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// categoryOptions lists every category as "Section / Category" keyed by
// slug.
func categoryOptions(ctx context.Context, app *App) ([]huh.Option[string], error) {
	sections, err := app.Sections.List(ctx)
	if err != nil {
		return nil, err
	}
	var options []huh.Option[string]
	for _, s := range sections {
		d, err := app.Sections.Detail(ctx, s.Slug)
		if err != nil {
			return nil, err
		}
		for _, c := range d.Categories {
			options = append(options, huh.NewOption(fmt.Sprintf("%s / %s", s.Name, c.Name), c.Slug))
		}
	}
	return options, nil
}

func pubStatusOptions() []huh.Option[string] {
	order := []domain.PubStatus{domain.PubPublished, domain.PubDraft, domain.PubHidden}
	options := make([]huh.Option[string], len(order))
	for i, s := range order {
		options[i] = huh.NewOption(s.Label(), string(s))
	}
	return options
}

// articleForm builds the interactive article editor. Values already set
// from flags are used as defaults; the category picker is skipped when a
// category was given.
func articleForm(ctx context.Context, app *App, v *articleFormValues) *huh.Form {
	fields := []huh.Field{
		huh.NewInput().
			Title("Title").
			Value(&v.Title).
			Validate(validateRequired("title")),
		huh.NewInput().
			Title("Slug").
			Description("Blank derives it from the title").
			Value(&v.Slug).
			Validate(validateOptionalSlug),
	}

	if v.Category == "" {
		options, err := categoryOptions(ctx, app)
		if err == nil && len(options) > 0 {
			fields = append(fields, huh.NewSelect[string]().
				Title("Category").
				Options(options...).
				Value(&v.Category))
		}
	}

	if v.Status == "" {
		v.Status = string(domain.PubPublished)
	}

	fields = append(fields,
		huh.NewText().
			Title("Content (HTML)").
			Value(&v.Content).
			Validate(validateRequired("content")),
		huh.NewInput().
			Title("Tags").
			Description("Comma separated").
			Value(&v.Tags),
		huh.NewSelect[string]().
			Title("Status").
			Options(pubStatusOptions()...).
			Value(&v.Status),
	)

	return huh.NewForm(huh.NewGroup(fields...)).
		WithTheme(cmsHuhTheme()).
		WithShowHelp(false)
}

func validateRequired(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

func validateOptionalSlug(s string) error {
	if s == "" {
		return nil
	}
	return domain.ValidateSlug(s)
}
