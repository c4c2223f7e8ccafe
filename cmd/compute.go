package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/stat"

	"tawindow"
	"tawindow/internal/marketdata"
)

var (
	computeCSVPath    string
	computeConfigPath string
	computeSummary    bool
)

var computeCmd = &cobra.Command{
	Use:   "compute",
	Short: "Run one rolling-window operator over a CSV OHLCV series and print the result",
	RunE:  runCompute,
}

func init() {
	computeCmd.Flags().StringVar(&computeCSVPath, "csv", "", "path to a date,open,high,low,close,volume CSV file (required)")
	computeCmd.Flags().StringVar(&computeConfigPath, "config", "", "path to a YAML run config (operator, periods, context) (required)")
	computeCmd.Flags().BoolVar(&computeSummary, "summary", false, "also print gonum-computed mean/stddev of the loaded column")
	_ = computeCmd.MarkFlagRequired("csv")
	_ = computeCmd.MarkFlagRequired("config")
	rootCmd.AddCommand(computeCmd)
}

func runCompute(cmd *cobra.Command, args []string) error {
	cfg, err := loadRunConfig(computeConfigPath)
	if err != nil {
		return err
	}

	f, err := os.Open(computeCSVPath)
	if err != nil {
		return fmt.Errorf("opening csv: %w", err)
	}
	defer f.Close()

	frame, err := marketdata.LoadCSV(f, "series", "1d")
	if err != nil {
		return err
	}
	column, err := selectColumn(frame, cfg.Column)
	if err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"operator": cfg.Operator,
		"periods":  cfg.Periods,
		"bars":     len(column),
	}).Info("running operator")

	result := make([]float64, len(column))
	if err := runOperator(cfg, frame, column, result); err != nil {
		return err
	}

	for i, v := range result {
		fmt.Printf("%d\t%.6f\n", i, v)
	}

	if computeSummary {
		mean := stat.Mean(column, nil)
		stddev := stat.StdDev(column, nil)
		fmt.Printf("# summary: mean=%.6f stddev=%.6f\n", mean, stddev)
	}

	return nil
}

func selectColumn(frame *marketdata.Frame, name string) ([]float64, error) {
	switch name {
	case "close":
		return frame.Closes(), nil
	case "open":
		return frame.Opens(), nil
	case "high":
		return frame.Highs(), nil
	case "low":
		return frame.Lows(), nil
	case "volume":
		return frame.Volumes(), nil
	default:
		return nil, fmt.Errorf("unknown column %q", name)
	}
}

// runOperator dispatches cfg.Operator onto tawindow's public surface. It
// is the CLI's equivalent of the operator dispatch table a host-language
// binding layer would carry (spec.md §6) — here a plain Go switch, since
// there is no FFI boundary to marshal across in a native Go consumer.
func runOperator(cfg runConfig, frame *marketdata.Frame, column, result []float64) error {
	ctx := cfg.toContext()
	switch cfg.Operator {
	case "sum":
		return tawindow.Sum(ctx, result, column, cfg.Periods)
	case "ma", "mean":
		return tawindow.MA(ctx, result, column, cfg.Periods)
	case "lwma":
		return tawindow.LWMA(ctx, result, column, cfg.Periods)
	case "var":
		return tawindow.Var(ctx, result, column, cfg.Periods)
	case "stddev":
		return tawindow.StdDev(ctx, result, column, cfg.Periods)
	case "ema":
		return tawindow.EMA(ctx, result, column, cfg.Periods)
	case "hhv":
		return tawindow.HHV(ctx, result, column, cfg.Periods)
	case "llv":
		return tawindow.LLV(ctx, result, column, cfg.Periods)
	case "hhvbars":
		return tawindow.HHVBars(ctx, result, column, cfg.Periods)
	case "llvbars":
		return tawindow.LLVBars(ctx, result, column, cfg.Periods)
	case "tsrank":
		return tawindow.TSRank(ctx, result, column, cfg.Periods)
	case "ref":
		return tawindow.Ref(ctx, result, column, cfg.Periods)
	case "slope":
		return tawindow.Slope(ctx, result, column, cfg.Periods)
	case "intercept":
		return tawindow.Intercept(ctx, result, column, cfg.Periods)
	case "tscorrelation":
		return tawindow.TSCorrelation(ctx, result, column, cfg.Periods)
	case "fret", "forwardreturn":
		return tawindow.ForwardReturn(ctx, result, frame.Opens(), frame.Highs(), frame.Lows(), frame.Closes(), cfg.Delay, cfg.Periods)
	default:
		return fmt.Errorf("unknown operator %q", cfg.Operator)
	}
}
