package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"text/tabwriter"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"sheetEngine/spreadsheet"
	"sheetEngine/workbook"
)

type options struct {
	namePattern string
	sheetName   string
	logLevel    string
	logger      *logrus.Logger
}

func newRootCmd() *cobra.Command {
	opts := &options{logger: logrus.New()}

	rootCmd := &cobra.Command{
		Use:          "sheetctl",
		Short:        "Edit spreadsheet files with recalculating formulas",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := logrus.ParseLevel(opts.logLevel)
			if err != nil {
				return err
			}
			opts.logger.SetLevel(level)
			opts.logger.SetOutput(cmd.ErrOrStderr())
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.namePattern, "pattern", "", "Regexp that new cell names must match (stored in new files)")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warning", "Log level: debug, info, warning, error")

	exportCmd := &cobra.Command{
		Use:   "export [file.json] [output.xlsx]",
		Short: "Write a spreadsheet file to an xlsx workbook",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(opts, args[0], args[1])
		},
	}
	exportCmd.Flags().StringVar(&opts.sheetName, "sheet", "", "Worksheet name (default: "+workbook.DefaultSheetName+")")

	importCmd := &cobra.Command{
		Use:   "import [input.xlsx] [file.json]",
		Short: "Read one worksheet of an xlsx workbook into a spreadsheet file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(opts, args[0], args[1])
		},
	}
	importCmd.Flags().StringVar(&opts.sheetName, "sheet", "", "Worksheet name (default: active worksheet)")

	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "set [file.json] [cell] [contents]",
			Short: "Set the contents of a cell and print every recalculated cell",
			Args:  cobra.ExactArgs(3),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runSet(opts, cmd.OutOrStdout(), args[0], args[1], args[2])
			},
		},
		&cobra.Command{
			Use:   "show [file.json] [cell...]",
			Short: "Print cells with their contents and values",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runShow(opts, cmd.OutOrStdout(), args[0], args[1:])
			},
		},
		exportCmd,
		importCmd,
	)

	return rootCmd
}

func runSet(opts *options, out io.Writer, path string, name string, contents string) error {
	sheet, err := openSheet(opts, path, true)
	if err != nil {
		return err
	}

	recalculated, err := sheet.SetContents(name, contents)
	if err != nil {
		return fmt.Errorf("set %s: %w", name, err)
	}

	if err = saveSheet(opts, sheet, path); err != nil {
		return err
	}

	return printCells(out, sheet, recalculated)
}

func runShow(opts *options, out io.Writer, path string, names []string) error {
	sheet, err := openSheet(opts, path, false)
	if err != nil {
		return err
	}

	if len(names) == 0 {
		names = sheet.NonEmptyCells()
	}

	return printCells(out, sheet, names)
}

func runExport(opts *options, path string, output string) error {
	sheet, err := openSheet(opts, path, false)
	if err != nil {
		return err
	}

	if err = workbook.Export(sheet, output, opts.sheetName); err != nil {
		return err
	}

	opts.logger.WithField("workbook", output).WithField("cells", len(sheet.NonEmptyCells())).Info("exported")
	return nil
}

func runImport(opts *options, input string, path string) error {
	sheetOptions, err := opts.sheetOptions()
	if err != nil {
		return err
	}

	sheet, err := workbook.Import(input, opts.sheetName, sheetOptions...)
	if err != nil {
		return err
	}

	return saveSheet(opts, sheet, path)
}

// openSheet reads the spreadsheet file at path. A missing file is an empty
// spreadsheet when create is set.
func openSheet(opts *options, path string, create bool) (*spreadsheet.Spreadsheet, error) {
	sheetOptions, err := opts.sheetOptions()
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) && create {
		opts.logger.WithField("file", path).Debug("new spreadsheet")
		return spreadsheet.New(sheetOptions...), nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	sheet, err := spreadsheet.ReadJSON(file, sheetOptions...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	opts.logger.WithField("file", path).WithField("cells", len(sheet.NonEmptyCells())).Debug("loaded")
	return sheet, nil
}

func saveSheet(opts *options, sheet *spreadsheet.Spreadsheet, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}

	if err = sheet.WriteJSON(file); err != nil {
		_ = file.Close()
		return err
	}

	opts.logger.WithField("file", path).Debug("saved")
	return file.Close()
}

func (opts *options) sheetOptions() ([]spreadsheet.Option, error) {
	if opts.namePattern == "" {
		return nil, nil
	}

	pattern, err := regexp.Compile(opts.namePattern)
	if err != nil {
		return nil, fmt.Errorf("--pattern: %w", err)
	}

	return []spreadsheet.Option{spreadsheet.WithNamePattern(pattern)}, nil
}

func printCells(out io.Writer, sheet *spreadsheet.Spreadsheet, names []string) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)

	for _, name := range names {
		contents, err := sheet.GetContents(name)
		if err != nil {
			return err
		}
		value, err := sheet.GetValue(name)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", name, contents, value)
	}

	return w.Flush()
}
