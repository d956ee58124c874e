package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dgallion1/docstruct/internal/doctree"
	"github.com/dgallion1/docstruct/internal/parser"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "docstruct",
		Short:         "Inspect the structure of documents",
		Long:          `docstruct parses Markdown, HTML, text, CSV, DOCX and PDF files into a document tree and reports headings, numbering and fold ranges.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().Bool("pdftotext", true, "Fall back to pdftotext when a PDF has no extractable text")
	root.AddCommand(newOutlineCmd(), newFoldCmd(), newTreeCmd())
	return root
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// load parses the file at path with the parser its extension selects.
func load(cmd *cobra.Command, path string) (*doctree.Document, error) {
	fallback, _ := cmd.Flags().GetBool("pdftotext")
	p, err := parser.ForFile(path, parser.Options{PDFFallbackPdftotext: fallback})
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	doc, err := p.Parse(f, path)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return doc, nil
}
