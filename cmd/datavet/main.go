package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	dv "github.com/wdm0006/datavet/pkg/datavet"
	"github.com/wdm0006/datavet/pkg/profile"
)

var version = "0.1.0-dev"

// errValidationFailed marks the data-failed outcome (exit 1) without skipping
// deferred cleanup the way an os.Exit inside RunE would. The report is already
// rendered by the time it propagates here.
var errValidationFailed = errors.New("validation failed")

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if errors.Is(err, errValidationFailed) {
			os.Exit(1)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
}

func newRootCmd() *cobra.Command {
	var verbose bool
	root := &cobra.Command{
		Use:           "datavet",
		Short:         "Declarative validation for tabular datasets",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	root.AddCommand(newValidateCmd(&verbose), newProfileCmd(&verbose))
	return root
}

func newLogger(verbose bool) *zap.SugaredLogger {
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg = zap.NewDevelopmentConfig()
	}
	log, err := cfg.Build()
	if err != nil {
		panic(err)
	}
	return log.Sugar()
}

func newValidateCmd(verbose *bool) *cobra.Command {
	var (
		configPath string
		inputPath  string
		outputPath string
		modeFlag   string
		format     string
		hasHeader  bool
		delimiter  string
	)
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Run a check config against a dataset",
		Long: `Loads a dataset (csv, jsonl, or parquet by extension), runs the checks
from the config in order, and reports violations. Exit code 1 means the data
failed validation; 2 means the run itself could not proceed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger(*verbose)
			defer func() { _ = log.Sync() }()

			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			mode, err := cfg.mode()
			if err != nil {
				return err
			}
			if modeFlag != "" {
				cfg.Mode = modeFlag
				if mode, err = cfg.mode(); err != nil {
					return err
				}
			}
			rules, err := buildRules(cfg)
			if err != nil {
				return err
			}

			f, warnings, err := loadFrame(inputPath, hasHeader, delimiter)
			if err != nil {
				return errors.Wrapf(err, "load %s", inputPath)
			}
			if warnings != "" {
				log.Warnw("input repaired while reading", "detail", warnings)
			}
			log.Debugw("dataset loaded", "rows", f.Rows(), "cols", f.Cols(), "mode", mode.String(), "rules", len(rules))

			out, err := dv.Run(cmd.Context(), f, rules, mode)
			if err != nil {
				var rep *dv.Report
				if errors.As(err, &rep) {
					renderReport(rep, format)
					return errValidationFailed
				}
				var se *dv.SchemaError
				if errors.As(err, &se) {
					return errors.Wrap(se, "config does not match dataset")
				}
				return err
			}

			log.Infow("validation passed", "rows", out.Rows(), "rules", len(rules))
			if outputPath != "" {
				if err := writeFrame(outputPath, out, delimiter); err != nil {
					return err
				}
				log.Infow("dataset forwarded", "path", outputPath)
			}
			if format != "json" {
				pterm.Success.Printfln("%d rows passed %d checks", out.Rows(), len(rules))
			} else {
				fmt.Println(`{"ok":true}`)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "check config (.yaml, .toml, or .json)")
	cmd.Flags().StringVarP(&inputPath, "input", "i", "", "dataset to validate")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "where to forward the dataset when it passes")
	cmd.Flags().StringVar(&modeFlag, "mode", "", "override config mode: fail-fast or collect-all")
	cmd.Flags().StringVar(&format, "format", "table", "report format: table or json")
	cmd.Flags().BoolVar(&hasHeader, "header", true, "csv input has a header row")
	cmd.Flags().StringVar(&delimiter, "delimiter", "", "csv delimiter (default: sniffed)")
	_ = cmd.MarkFlagRequired("config")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func renderReport(rep *dv.Report, format string) {
	if format == "json" {
		out := struct {
			OK         bool           `json:"ok"`
			Violations []dv.Violation `json:"violations"`
		}{OK: rep.OK(), Violations: rep.Violations}
		b, _ := json.MarshalIndent(out, "", "  ")
		fmt.Println(string(b))
		return
	}
	data := pterm.TableData{{"rule", "column", "row", "value", "message"}}
	for _, v := range rep.Violations {
		row := "-"
		if v.Row >= 0 {
			row = strconv.Itoa(v.Row)
		}
		val := ""
		if v.Value != nil {
			val = fmt.Sprint(v.Value)
		}
		data = append(data, []string{v.Rule, v.Column, row, val, v.Message})
	}
	_ = pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	pterm.Error.Printfln("%d violation(s)", len(rep.Violations))
}

func newProfileCmd(verbose *bool) *cobra.Command {
	var (
		inputPath string
		format    string
		topK      int
		hasHeader bool
		delimiter string
	)
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Summarize a dataset's columns",
		Long: `Prints per-column counts, null totals, and the distribution statistics
(min/max, mean/stddev, median/MAD) that bound and outlier checks are usually
tuned against.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger(*verbose)
			defer func() { _ = log.Sync() }()

			f, warnings, err := loadFrame(inputPath, hasHeader, delimiter)
			if err != nil {
				return errors.Wrapf(err, "load %s", inputPath)
			}
			if warnings != "" {
				log.Warnw("input repaired while reading", "detail", warnings)
			}

			sums := profile.Summarize(f, topK)
			if format == "json" {
				b, err := json.MarshalIndent(sums, "", "  ")
				if err != nil {
					return err
				}
				fmt.Println(string(b))
				return nil
			}
			fmt.Print(profile.Text(sums))
			return nil
		},
	}
	cmd.Flags().StringVarP(&inputPath, "input", "i", "", "dataset to profile")
	cmd.Flags().StringVar(&format, "format", "text", "output format: text or json")
	cmd.Flags().IntVar(&topK, "top", 5, "most frequent values to keep per string column")
	cmd.Flags().BoolVar(&hasHeader, "header", true, "csv input has a header row")
	cmd.Flags().StringVar(&delimiter, "delimiter", "", "csv delimiter (default: sniffed)")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}
