package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/dori/projboard/internal/ui/theme"
	"github.com/spf13/cobra"
)

func newAddCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "add <name...> [@category]",
		Short: "Quick add a project",
		Long: `Add a project to the end of a category.

A word starting with @ selects the category (case-insensitive); without
one the project goes to the first configured category.

  projboard add Build a garden shed
  projboard add Quarterly report @professional`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, store, cleanup, err := opts.openStore()
			if err != nil {
				return err
			}
			defer cleanup()

			qa := parseQuickAdd(strings.Join(args, " "), cfg.Categories)
			if qa.Name == "" {
				return errors.New("project name is required")
			}

			id, err := store.AddProject(cmd.Context(), qa.Name, qa.Category)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created #%d: %s (%s)\n", id, qa.Name, qa.Category)
			return nil
		},
	}
}

// quickAdd is the parsed form of "projboard add" arguments
type quickAdd struct {
	Name     string
	Category string
}

// parseQuickAdd splits free text into a name and an @category. Unknown
// @words stay part of the name. The last matching @word wins.
func parseQuickAdd(text string, categories []string) quickAdd {
	qa := quickAdd{}
	if len(categories) > 0 {
		qa.Category = categories[0]
	}

	var nameParts []string
	for _, word := range strings.Fields(text) {
		if strings.HasPrefix(word, "@") {
			if category, ok := matchCategory(strings.TrimPrefix(word, "@"), categories); ok {
				qa.Category = category
				continue
			}
		}
		nameParts = append(nameParts, word)
	}

	qa.Name = strings.Join(nameParts, " ")
	return qa
}

func matchCategory(name string, categories []string) (string, bool) {
	for _, c := range categories {
		if strings.EqualFold(c, name) {
			return c, true
		}
	}
	return "", false
}

func stylesFor(name string) (theme.Styles, error) {
	if name == "" {
		return theme.NewStyles(theme.Default), nil
	}
	t, ok := theme.ByName(name)
	if !ok {
		return theme.Styles{}, fmt.Errorf("unknown theme %q", name)
	}
	return theme.NewStyles(t), nil
}

func newListCmd(opts *globalOptions) *cobra.Command {
	var themeName string

	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List active projects by category",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			styles, err := stylesFor(themeName)
			if err != nil {
				return err
			}

			cfg, store, cleanup, err := opts.openStore()
			if err != nil {
				return err
			}
			defer cleanup()

			projects, err := store.GetActiveProjects(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), styles.RenderBoard(projects, cfg.Categories))
			return nil
		},
	}
	cmd.Flags().StringVar(&themeName, "theme", "", "Theme (nord, gruvbox)")
	return cmd
}

func newShowCmd(opts *globalOptions) *cobra.Command {
	var (
		themeName string
		width     int
	)

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a project and its notes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || id <= 0 {
				return fmt.Errorf("invalid project id %q", args[0])
			}
			styles, err := stylesFor(themeName)
			if err != nil {
				return err
			}

			_, store, cleanup, err := opts.openStore()
			if err != nil {
				return err
			}
			defer cleanup()

			p, err := store.GetProject(cmd.Context(), id)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, styles.RenderDetails(p))
			if strings.TrimSpace(p.Notes) == "" {
				return nil
			}

			renderer, err := glamour.NewTermRenderer(
				glamour.WithAutoStyle(),
				glamour.WithWordWrap(width),
			)
			if err != nil {
				return fmt.Errorf("markdown renderer: %w", err)
			}
			notes, err := renderer.Render(p.Notes)
			if err != nil {
				// Fall back to the raw text
				notes = p.Notes + "\n"
			}
			fmt.Fprint(out, notes)
			return nil
		},
	}
	cmd.Flags().StringVar(&themeName, "theme", "", "Theme (nord, gruvbox)")
	cmd.Flags().IntVar(&width, "width", 80, "Wrap notes at this width")
	return cmd
}
