package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dgallion1/docstruct/internal/outline"
)

func newOutlineCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "outline <file>",
		Short: "Print the heading outline with numbering labels",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := load(cmd, args[0])
			if err != nil {
				return err
			}
			entries := outline.Entries(doc.Root)
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(entries)
			}
			fmt.Fprintf(out, "%s\n", doc.Title)
			for _, e := range entries {
				line := strings.Repeat("  ", e.Level-1)
				if e.Label != "" {
					line += e.Label + " "
				}
				line += e.Title
				if e.Fold != nil {
					line += fmt.Sprintf("  [%d,%d)", e.Fold.From, e.Fold.To)
				}
				fmt.Fprintf(out, "%5d  %s\n", e.Pos, line)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print entries as JSON")
	return cmd
}

func newFoldCmd() *cobra.Command {
	var pos int
	cmd := &cobra.Command{
		Use:   "fold <file>",
		Short: "Print the range a heading hides when collapsed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := load(cmd, args[0])
			if err != nil {
				return err
			}
			rng, ok := outline.CalculateFoldRange(doc.Root, pos)
			if !ok {
				fmt.Fprintf(cmd.OutOrStdout(), "nothing to fold at %d\n", pos)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "[%d,%d)\n", rng.From, rng.To)
			return nil
		},
	}
	cmd.Flags().IntVar(&pos, "pos", 0, "Position of the heading")
	return cmd
}

func newTreeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tree <file>",
		Short: "Print the parsed document tree as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := load(cmd, args[0])
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(map[string]any{"title": doc.Title, "doc": doc.Root})
		},
	}
}
