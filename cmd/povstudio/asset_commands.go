package main

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"povstudio/internal/assetstore"
	"povstudio/internal/config"
)

func newAssetCommand(ctx *commandContext) *cobra.Command {
	assetCmd := &cobra.Command{
		Use:   "asset",
		Short: "Manage binary assets in the local library",
	}

	assetCmd.AddCommand(newAssetAddCommand(ctx))
	assetCmd.AddCommand(newAssetListCommand(ctx))
	assetCmd.AddCommand(newAssetRemoveCommand(ctx))

	return assetCmd
}

func newAssetAddCommand(ctx *commandContext) *cobra.Command {
	var mimeType string
	var filename string

	cmd := &cobra.Command{
		Use:   "add <file>",
		Short: "Store a file as a library asset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.ExpandPath(args[0])
			if err != nil {
				return err
			}
			payload, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}

			resolvedMime := strings.TrimSpace(mimeType)
			if resolvedMime == "" {
				resolvedMime = mime.TypeByExtension(filepath.Ext(path))
			}
			resolvedName := strings.TrimSpace(filename)
			if resolvedName == "" {
				resolvedName = filepath.Base(path)
			}

			return ctx.withLibrary(func(lib *library) error {
				id, err := lib.assets.Put(cmd.Context(), payload, resolvedMime, resolvedName)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Stored %s as asset %s (%s)\n",
					resolvedName, id, formatSize(int64(len(payload))))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&mimeType, "mime", "", "Content type (detected from the extension when omitted)")
	cmd.Flags().StringVar(&filename, "name", "", "Original filename to record (defaults to the file's base name)")
	return cmd
}

func newAssetListCommand(ctx *commandContext) *cobra.Command {
	var mimePrefix string
	var nameContains string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List cataloged assets, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLibrary(func(lib *library) error {
				infos, err := lib.assets.List(cmd.Context(), assetstore.Filter{
					MimePrefix:   mimePrefix,
					NameContains: nameContains,
				})
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(infos) == 0 {
					fmt.Fprintln(out, "No assets match")
					return nil
				}

				rows := make([][]string, 0, len(infos))
				for _, info := range infos {
					rows = append(rows, []string{
						info.ID,
						assetstore.DisplayName(info.Filename),
						info.MimeType,
						formatSize(info.Size),
						formatTimestamp(info.CreatedAt),
					})
				}
				writeTable(out,
					[]string{"ID", "Title", "Type", "Size", "Added"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft})
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&mimePrefix, "mime-prefix", "", "Only assets whose content type starts with this prefix")
	cmd.Flags().StringVar(&nameContains, "name", "", "Only assets whose filename contains this substring")
	return cmd
}

func newAssetRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <asset-id>",
		Short: "Remove an asset and its payload",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLibrary(func(lib *library) error {
				if err := lib.assets.Delete(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed asset %s\n", args[0])
				return nil
			})
		},
	}
}
