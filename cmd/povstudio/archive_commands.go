package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"povstudio/internal/archive"
	"povstudio/internal/config"
)

func newExportCommand(ctx *commandContext) *cobra.Command {
	var output string
	var metadataOnly bool

	cmd := &cobra.Command{
		Use:   "export <project-id>",
		Short: "Export a project to a portable .pov archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLibrary(func(lib *library) error {
				project, err := lib.projects.Load(cmd.Context(), args[0])
				if err != nil {
					return err
				}

				mode := archive.ModeFull
				if metadataOnly {
					mode = archive.ModeMetadata
				}
				payload, report, err := lib.codec.Export(cmd.Context(), project, mode)
				if err != nil {
					return err
				}

				target := strings.TrimSpace(output)
				if target == "" {
					target = archiveFilename(project.Name)
				} else {
					if target, err = config.ExpandPath(target); err != nil {
						return err
					}
				}
				if err := os.WriteFile(target, payload, 0o644); err != nil {
					return fmt.Errorf("write archive %s: %w", target, err)
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Exported %s to %s (%d resources)\n", project.Name, target, report.Resources)
				for _, skipped := range report.Skipped {
					fmt.Fprintf(out, "  skipped asset %s on node %s: %s\n",
						skipped.MediaID, skipped.NodeID, skipped.Reason)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Archive path (defaults to <project name>.pov)")
	cmd.Flags().BoolVar(&metadataOnly, "metadata-only", false, "Omit asset payloads; archive structure only")
	return cmd
}

func newImportCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "import <archive.pov>",
		Short: "Import a .pov archive as a new project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.ExpandPath(args[0])
			if err != nil {
				return err
			}
			payload, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read archive %s: %w", path, err)
			}

			return ctx.withLibrary(func(lib *library) error {
				project, report, err := lib.codec.Import(cmd.Context(), payload)
				if err != nil {
					return fmt.Errorf("file could not be read as an archive: %w", err)
				}
				if err := lib.projects.Save(cmd.Context(), project); err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				missing := report.Missing + len(report.Failed)
				if missing > 0 {
					fmt.Fprintf(out, "Project %s imported as %s, %d assets missing\n",
						project.Name, project.ID, missing)
				} else {
					fmt.Fprintf(out, "Project %s imported as %s\n", project.Name, project.ID)
				}
				for _, failure := range report.Failed {
					fmt.Fprintf(out, "  resource %s failed: %s\n", failure.ResourceID, failure.Reason)
				}
				return nil
			})
		},
	}
}

// archiveFilename derives a safe default archive name from the project name.
func archiveFilename(name string) string {
	cleaned := strings.TrimSpace(name)
	if cleaned == "" {
		cleaned = "project"
	}
	var b strings.Builder
	for _, r := range cleaned {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('-')
		}
	}
	base := strings.ToLower(strings.Trim(b.String(), "-"))
	if base == "" {
		base = "project"
	}
	return base + archive.Extension
}
