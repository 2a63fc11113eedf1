package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/dori/projboard/internal/backup"
	"github.com/dori/projboard/internal/db"
	"github.com/natefinch/atomic"
	"github.com/spf13/cobra"
)

func newBackupCmd(opts *globalOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Export every project as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, store, cleanup, err := opts.openStore()
			if err != nil {
				return err
			}
			defer cleanup()

			projects, err := store.ExportProjects(cmd.Context())
			if err != nil {
				return err
			}

			var buf bytes.Buffer
			if err := backup.Encode(&buf, projects); err != nil {
				return err
			}

			if output == "" {
				_, err := cmd.OutOrStdout().Write(buf.Bytes())
				return err
			}
			if err := atomic.WriteFile(output, &buf); err != nil {
				return fmt.Errorf("write backup: %w", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %d projects to %s\n", len(projects), output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to this file instead of stdout")
	return cmd
}

func newRestoreCmd(opts *globalOptions) *cobra.Command {
	var modeName string

	cmd := &cobra.Command{
		Use:   "restore <file>",
		Short: "Restore projects from a JSON backup",
		Long: `Restore projects from a file written by "projboard backup".

--mode merge appends the restored projects after the existing ones in each
category; --mode replace deletes every existing project first.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := db.ParseImportMode(modeName)
			if err != nil {
				return err
			}

			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			projects, err := backup.Decode(f)
			if err != nil {
				return err
			}

			_, store, cleanup, err := opts.openStore()
			if err != nil {
				return err
			}
			defer cleanup()

			n, err := store.ImportProjects(cmd.Context(), projects, mode)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Restored %d projects (%s)\n", n, mode)
			return nil
		},
	}
	cmd.Flags().StringVar(&modeName, "mode", "", "merge or replace (required)")
	_ = cmd.MarkFlagRequired("mode")
	return cmd
}
