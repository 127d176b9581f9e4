package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cellgraph/spreadsheet/sheet"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// book is the one in-memory sheet this process's commands all operate on.
// There is no persistence layer (spec Non-goal): every invocation of
// sheetcli starts from an empty sheet, so set/get/clear/print only
// compose usefully within a single repl session.
var book = sheet.New()

func Execute(ctx context.Context) error {
	rootCmd := &cobra.Command{
		Use:   "sheetcli",
		Short: "sheetcli - an in-memory spreadsheet shell",
		Long: `sheetcli holds a single in-memory spreadsheet with formula
evaluation and dependency tracking. Cells are addressed in A1 notation.`,
	}

	rootCmd.AddCommand(
		newSetCmd(),
		newGetCmd(),
		newClearCmd(),
		newPrintValuesCmd(),
		newPrintTextsCmd(),
		newReplCmd(),
	)

	return rootCmd.ExecuteContext(ctx)
}

func newSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "set <cell> <text>",
		Short:   "Set a cell's content",
		Example: "  sheetcli set A1 =B1+1",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSet(os.Stdout, args[0], args[1])
		},
	}
}

func newGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "get <cell>",
		Short:   "Print a cell's value and source text",
		Example: "  sheetcli get A1",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGet(os.Stdout, args[0])
		},
	}
}

func newClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "clear <cell>",
		Short:   "Clear a cell back to empty",
		Example: "  sheetcli clear A1",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClear(os.Stdout, args[0])
		},
	}
}

func newPrintValuesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "print-values",
		Short: "Print the printable rectangle as computed values",
		RunE: func(cmd *cobra.Command, args []string) error {
			return book.PrintValues(os.Stdout)
		},
	}
}

func newPrintTextsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "print-texts",
		Short: "Print the printable rectangle as editable source text",
		RunE: func(cmd *cobra.Command, args []string) error {
			return book.PrintTexts(os.Stdout)
		},
	}
}

func newReplCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive session",
		Long: `Start a line-oriented session reading commands from stdin:

  set <cell> <text>
  get <cell>
  clear <cell>
  print-values
  print-texts
  quit`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRepl(os.Stdin, os.Stdout)
		},
	}
}

func runSet(w io.Writer, cellArg, text string) error {
	pos, err := sheet.ParsePosition(cellArg)
	if err != nil {
		logger.WithFields(logrus.Fields{"cell": cellArg}).Warn("rejected set: not a valid cell")
		return err
	}
	if err := book.SetCell(pos, text); err != nil {
		logger.WithFields(logrus.Fields{"cell": cellArg, "text": text}).Warn("rejected edit: " + err.Error())
		return err
	}
	logger.WithFields(logrus.Fields{"cell": cellArg, "text": text}).Info("accepted edit")
	return nil
}

func runGet(w io.Writer, cellArg string) error {
	pos, err := sheet.ParsePosition(cellArg)
	if err != nil {
		return err
	}
	h, ok, err := book.GetCell(pos)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(w, "")
		return nil
	}
	fmt.Fprintf(w, "%s\t%s\n", formatCellValue(h.GetValue()), h.GetText())
	return nil
}

func runClear(w io.Writer, cellArg string) error {
	pos, err := sheet.ParsePosition(cellArg)
	if err != nil {
		return err
	}
	if err := book.ClearCell(pos); err != nil {
		return err
	}
	logger.WithFields(logrus.Fields{"cell": cellArg}).Info("cleared cell")
	return nil
}

func formatCellValue(v sheet.Value) string {
	switch v.Kind {
	case sheet.ValText:
		return v.Text
	case sheet.ValNumber:
		return fmt.Sprintf("%g", v.Number)
	case sheet.ValError:
		return v.Err.Error()
	}
	return ""
}

// runRepl reads commands from r, one per line, until EOF or a "quit" (or
// "exit") command, writing results and errors to w. A line is split on
// single spaces into at most three fields, so the text argument of "set"
// runs to the end of the line and may itself contain spaces.
func runRepl(r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.SplitN(line, " ", 3)
		cmdName := fields[0]

		var err error
		switch cmdName {
		case "quit", "exit":
			return nil
		case "set":
			if len(fields) != 3 {
				err = fmt.Errorf("usage: set <cell> <text>")
			} else {
				err = runSet(w, fields[1], fields[2])
			}
		case "get":
			if len(fields) != 2 {
				err = fmt.Errorf("usage: get <cell>")
			} else {
				err = runGet(w, fields[1])
			}
		case "clear":
			if len(fields) != 2 {
				err = fmt.Errorf("usage: clear <cell>")
			} else {
				err = runClear(w, fields[1])
			}
		case "print-values":
			err = book.PrintValues(w)
		case "print-texts":
			err = book.PrintTexts(w)
		default:
			err = fmt.Errorf("unknown command: %s", cmdName)
		}
		if err != nil {
			fmt.Fprintln(w, "error:", err)
		}
	}
	return scanner.Err()
}
