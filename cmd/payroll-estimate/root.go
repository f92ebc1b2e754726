package main

import (
	"fmt"

	"github.com/iwvelando/payroll-estimate/internal/config"
	"github.com/iwvelando/payroll-estimate/pkg/constants"
	"github.com/iwvelando/payroll-estimate/pkg/estimator"
	"github.com/iwvelando/payroll-estimate/pkg/output"
	"github.com/iwvelando/payroll-estimate/pkg/validation"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newRootCommand() *cobra.Command {
	var configFile string

	rootCmd := &cobra.Command{
		Use:   "payroll-estimate",
		Short: "Estimate the annual payroll (market cap) of a professional population",
		Long: `Splits a population into a high-earning and a standard-earning subgroup
and sums their salaries. The result is printed as a report or written as JSON.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.NoArgs(cmd, args); err != nil {
				return &usageError{err: err}
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEstimate(cmd, configFile)
		},
	}

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &usageError{err: err}
	})

	persistent := rootCmd.PersistentFlags()
	persistent.StringVarP(&configFile, "config", "c", "", "path to YAML configuration file")
	persistent.String("log-level", "", "log level override (debug, info, warn, error)")
	persistent.Bool("strict", false, "reject out-of-domain inputs instead of warning about them")
	persistent.String("currency", constants.DefaultCurrencySymbol, "currency symbol used in the text report")
	persistent.String("population-label", constants.DefaultPopulationLabel, "name of the population in the text report")

	flags := rootCmd.Flags()
	flags.Float64("avg-salary", constants.DefaultAvgSalary, "average annual salary of the standard-earning subgroup")
	flags.Float64("high-salary", constants.DefaultHighSalary, "average annual salary of the high-earning subgroup")
	flags.Int("n-active", constants.DefaultNActive, "number of active professionals")
	flags.Float64("percent-high", constants.DefaultHighPercentile, "fraction of the population assumed to be high earners")
	flags.String("json-out", "", "path to write the result as JSON; if not provided, the result is printed")
	flags.String("xlsx-out", "", "path to also write the result as an XLSX workbook")
	flags.String("output-format", "", "format printed to stdout: text, json, yaml, csv")

	rootCmd.AddCommand(newServeCommand(&configFile))
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

func runEstimate(cmd *cobra.Command, configFile string) error {
	conf, err := config.LoadConfiguration(configFile, cmd.Flags())
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := initializeLogger(conf.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	if conf.Output.JSONOut == "" {
		if err := validation.ValidateOutputFormat(conf.Output.Format); err != nil {
			return err
		}
	}

	in := conf.Inputs()
	for _, warning := range validation.Warnings(in) {
		logger.Warn("Input warning: "+warning,
			zap.String("op", "runEstimate"),
		)
	}
	if err := validation.Representable(in); err != nil {
		return &usageError{err: err}
	}
	if conf.Estimate.Strict {
		if err := validation.Strict(in); err != nil {
			return err
		}
	}

	result := estimator.Compute(in.NActive, in.AvgSalary, in.HighPercentile, in.HighSalary)
	logger.Debug("computed estimate",
		zap.String("op", "runEstimate"),
		zap.Int("count_high", result.CountHigh),
		zap.Int("count_remaining", result.CountRemaining),
		zap.Float64("total_market_cap", result.TotalMarketCap),
	)

	opts := output.ReportOptions{
		PopulationLabel: conf.Output.PopulationLabel,
		CurrencySymbol:  conf.Output.CurrencySymbol,
	}

	if conf.Output.XLSXOut != "" {
		if err := output.WriteFile(conf.Output.XLSXOut, constants.OutputFormatXLSX, result, opts); err != nil {
			return err
		}
		logger.Info("wrote workbook",
			zap.String("op", "runEstimate"),
			zap.String("path", conf.Output.XLSXOut),
		)
	}

	if conf.Output.JSONOut != "" {
		if err := output.WriteFile(conf.Output.JSONOut, constants.OutputFormatJSON, result, opts); err != nil {
			return err
		}
		logger.Info("wrote result",
			zap.String("op", "runEstimate"),
			zap.String("path", conf.Output.JSONOut),
		)
		return nil
	}

	return output.Render(cmd.OutOrStdout(), conf.Output.Format, result, opts)
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), version)
			return err
		},
	}
}
