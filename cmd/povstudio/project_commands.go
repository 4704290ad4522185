package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"povstudio/internal/scenario"
)

func newProjectCommand(ctx *commandContext) *cobra.Command {
	projectCmd := &cobra.Command{
		Use:   "project",
		Short: "Manage projects in the local library",
	}

	projectCmd.AddCommand(newProjectListCommand(ctx))
	projectCmd.AddCommand(newProjectCreateCommand(ctx))
	projectCmd.AddCommand(newProjectShowCommand(ctx))
	projectCmd.AddCommand(newProjectRenameCommand(ctx))
	projectCmd.AddCommand(newProjectDeleteCommand(ctx))

	return projectCmd
}

func newProjectListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List projects, most recently updated first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLibrary(func(lib *library) error {
				metas, err := lib.projects.List(cmd.Context())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(metas) == 0 {
					fmt.Fprintln(out, "No projects in the library")
					return nil
				}

				rows := make([][]string, 0, len(metas))
				for _, meta := range metas {
					rows = append(rows, []string{
						meta.ID,
						meta.Name,
						truncate(meta.Description, 40),
						formatTimestamp(meta.UpdatedAt),
					})
				}
				writeTable(out, []string{"ID", "Name", "Description", "Updated"}, rows, nil)
				return nil
			})
		},
	}
}

func newProjectCreateCommand(ctx *commandContext) *cobra.Command {
	var description string

	cmd := &cobra.Command{
		Use:   "create [name]",
		Short: "Create an empty project",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) > 0 {
				name = args[0]
			}
			return ctx.withLibrary(func(lib *library) error {
				project, err := lib.projects.Create(cmd.Context(), name, description)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created project %s (%s)\n", project.Name, project.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "Project description")
	return cmd
}

func newProjectShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <project-id>",
		Short: "Show a project's metadata and graph summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLibrary(func(lib *library) error {
				project, err := lib.projects.Load(cmd.Context(), args[0])
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "ID:          %s\n", project.ID)
				fmt.Fprintf(out, "Name:        %s\n", project.Name)
				if project.Description != "" {
					fmt.Fprintf(out, "Description: %s\n", project.Description)
				}
				fmt.Fprintf(out, "Created:     %s\n", formatTimestamp(project.CreatedAt))
				fmt.Fprintf(out, "Updated:     %s\n", formatTimestamp(project.UpdatedAt))
				fmt.Fprintf(out, "Nodes:       %d\n", len(project.Nodes))
				fmt.Fprintf(out, "Edges:       %d\n", len(project.Edges))

				if warnings := scenario.Validate(project); len(warnings) > 0 {
					fmt.Fprintf(out, "Warnings:    %d\n", len(warnings))
					for _, warning := range warnings {
						fmt.Fprintf(out, "  - %s\n", warning)
					}
				}
				return nil
			})
		},
	}
}

func newProjectRenameCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <project-id> <name>",
		Short: "Rename a project",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(args[1]) == "" {
				return fmt.Errorf("new name must not be empty")
			}
			return ctx.withLibrary(func(lib *library) error {
				if err := lib.projects.Rename(cmd.Context(), args[0], args[1]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Renamed project %s to %s\n", args[0], args[1])
				return nil
			})
		},
	}
}

func newProjectDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <project-id>",
		Short: "Delete a project document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLibrary(func(lib *library) error {
				if err := lib.projects.Delete(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted project %s\n", args[0])
				return nil
			})
		},
	}
}
