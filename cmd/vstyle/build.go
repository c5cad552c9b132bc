package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/recera/vango-styles/pkg/styling"
	"github.com/recera/vango-styles/pkg/styling/sheet"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#3b82f6")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ef4444")).Padding(0, 1)
)

// compiled is the outcome of compiling one style object file
type compiled struct {
	Path      string
	Records   []*styling.RuleRecord
	ClassName string
	Err       error
}

// compileFile reads a style object from path and resolves its records
func compileFile(e *styling.Engine, path string) compiled {
	c := compiled{Path: path}
	f, err := os.Open(path)
	if err != nil {
		c.Err = err
		return c
	}
	defer f.Close()

	obj, err := styling.DecodeObject(f)
	if err != nil {
		c.Err = fmt.Errorf("%s: %w", path, err)
		return c
	}
	c.Records, c.ClassName, c.Err = e.Compute(obj)
	if c.Err != nil {
		c.Err = fmt.Errorf("%s: %w", path, c.Err)
	}
	return c
}

// ruleSheet is a sink that can also list its rules
type ruleSheet interface {
	styling.Sink
	sheet.RuleLister
}

func newSheet(mode styling.Mode, log *zap.Logger) ruleSheet {
	if mode == styling.ModeTyped {
		return sheet.NewTyped(sheet.WithLogger(log))
	}
	return sheet.NewText(sheet.WithLogger(log))
}

func newBuildCommand(a *app) *cobra.Command {
	var (
		output string
		asHTML bool
		quiet  bool
	)

	cmd := &cobra.Command{
		Use:   "build FILE...",
		Short: "Compile style object files into a style sheet",
		Long: `Compiles every style object file into atomic rules and writes the
combined sheet. Class names for each file are listed in a table. Files
that fail to compile are reported and skipped.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := a.cfg.SheetMode()
			if err != nil {
				return err
			}

			out, report := cmd.OutOrStdout(), cmd.OutOrStdout()
			if output == "" {
				// stdout carries the sheet
				report = cmd.ErrOrStderr()
				if err := a.logToStderr(cmd); err != nil {
					return err
				}
			}

			results, s, buildErr := build(a.engine(), args, newSheet(mode, a.log))
			if !quiet {
				fmt.Fprintln(report, renderTable(results))
			}

			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return multierr.Append(buildErr, err)
				}
				defer f.Close()
				out = f
			}
			if err := writeSheet(out, s, asHTML); err != nil {
				return multierr.Append(buildErr, err)
			}
			if output != "" {
				a.log.Info("Wrote style sheet", zap.String("path", output), zap.Int("rules", len(s.Rules())))
			}
			return buildErr
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the sheet to this file instead of stdout")
	cmd.Flags().BoolVar(&asHTML, "html", false, "Write a <style> element instead of plain CSS")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Do not print the class name table")
	return cmd
}

// build compiles every file and commits the results to s in argument order
func build(e *styling.Engine, paths []string, s ruleSheet) ([]compiled, ruleSheet, error) {
	attached, err := styling.Attach(s)
	if err != nil {
		return nil, s, err
	}

	var errs error
	results := make([]compiled, 0, len(paths))
	for _, p := range paths {
		c := compileFile(e, p)
		if c.Err == nil {
			if err := e.Commit(c.Records, attached); err != nil {
				c.Err = fmt.Errorf("%s: %w", p, err)
			}
		}
		errs = multierr.Append(errs, c.Err)
		results = append(results, c)
	}
	return results, s, errs
}

func writeSheet(w io.Writer, s sheet.RuleLister, asHTML bool) error {
	if asHTML {
		_, err := sheet.WriteStyleTag(w, s, "")
		if err == nil {
			_, err = io.WriteString(w, "\n")
		}
		return err
	}
	for _, r := range s.Rules() {
		if _, err := io.WriteString(w, r+"\n"); err != nil {
			return err
		}
	}
	return nil
}

func renderTable(results []compiled) string {
	rows := make([][]string, 0, len(results))
	for _, c := range results {
		status := fmt.Sprintf("%d rules", len(c.Records))
		classes := c.ClassName
		if c.Err != nil {
			status = "error"
			classes = c.Err.Error()
		}
		rows = append(rows, []string{filepath.Base(c.Path), status, wrapClasses(classes)})
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		Headers("FILE", "STATUS", "CLASS NAMES").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if row >= 0 && row < len(results) && results[row].Err != nil {
				return errorStyle
			}
			return cellStyle
		}).
		String()
}

// wrapClasses puts a few class names per line to keep the table narrow
func wrapClasses(classes string) string {
	const perLine = 4
	fields := strings.Fields(classes)
	if len(fields) <= perLine {
		return classes
	}
	var lines []string
	for i := 0; i < len(fields); i += perLine {
		end := min(i+perLine, len(fields))
		lines = append(lines, strings.Join(fields[i:end], " "))
	}
	return strings.Join(lines, "\n")
}
