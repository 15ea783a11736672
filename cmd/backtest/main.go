package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	engine_types "github.com/marcusgoll/robinhood-algo-trading-bot-sub001/internal/backtest/engine"
	engine "github.com/marcusgoll/robinhood-algo-trading-bot-sub001/internal/backtest/engine/engine_v1"
	"github.com/marcusgoll/robinhood-algo-trading-bot-sub001/internal/backtest/orchestrator"
	"github.com/marcusgoll/robinhood-algo-trading-bot-sub001/internal/backtest/writer"
	"github.com/marcusgoll/robinhood-algo-trading-bot-sub001/internal/datasource"
	"github.com/marcusgoll/robinhood-algo-trading-bot-sub001/internal/logger"
	"github.com/marcusgoll/robinhood-algo-trading-bot-sub001/internal/strategy"
	"github.com/marcusgoll/robinhood-algo-trading-bot-sub001/internal/version"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// runOptions are the resolved command line flags.
type runOptions struct {
	ConfigPath string
	DataPath   string
	OutputDir  string
	LogLevel   string
	Progress   io.Writer
}

func runAction(ctx context.Context, cmd *cli.Command) error {
	options := runOptions{
		ConfigPath: cmd.String("config"),
		DataPath:   cmd.String("data"),
		OutputDir:  cmd.String("output"),
		LogLevel:   cmd.String("log-level"),
		Progress:   os.Stderr,
	}

	if cmd.Bool("quiet") {
		options.Progress = io.Discard
	}

	paths, err := runBacktest(ctx, options)
	if err != nil {
		return err
	}

	fmt.Printf("Results written to %s\n", paths.Dir)

	return nil
}

// runBacktest loads the config and bars, runs the strategies and writes the
// result. A single configured strategy runs on the plain engine with the full
// capital; several strategies run through the orchestrator.
func runBacktest(ctx context.Context, options runOptions) (writer.Paths, error) {
	level, err := zapcore.ParseLevel(options.LogLevel)
	if err != nil {
		return writer.Paths{}, fmt.Errorf("invalid log level %q: %w", options.LogLevel, err)
	}

	appLogger, err := logger.NewLoggerWithLevel(level)
	if err != nil {
		return writer.Paths{}, fmt.Errorf("failed to create logger: %w", err)
	}
	defer appLogger.Sync() //nolint:errcheck

	data, err := os.ReadFile(options.ConfigPath)
	if err != nil {
		return writer.Paths{}, fmt.Errorf("failed to read config: %w", err)
	}

	config, err := orchestrator.ParseConfig(data)
	if err != nil {
		return writer.Paths{}, err
	}

	strategies, err := config.Build(strategy.NewDefaultRegistry())
	if err != nil {
		return writer.Paths{}, err
	}

	source, err := datasource.NewDuckDBDataSource(appLogger.Named("datasource"))
	if err != nil {
		return writer.Paths{}, err
	}
	defer source.Close()

	if err := source.Initialize(options.DataPath); err != nil {
		return writer.Paths{}, err
	}

	bars, err := datasource.LoadAll(ctx, source, config.Symbols, config.StartTime, config.EndTime, appLogger)
	if err != nil {
		return writer.Paths{}, err
	}

	callbacks := progressCallbacks(options.Progress)
	resultWriter := writer.NewResultWriter(options.OutputDir, appLogger)

	appLogger.Info("Starting backtest",
		zap.String("version", version.GetVersion()),
		zap.Int("strategies", len(strategies)),
		zap.Strings("symbols", config.Symbols),
	)

	if len(strategies) == 1 {
		backtest, err := engine.NewBacktestEngineV1(config.BacktestEngineV1Config, strategies[0].Strategy, appLogger)
		if err != nil {
			return writer.Paths{}, err
		}

		result, err := backtest.Run(ctx, bars, callbacks)
		if err != nil {
			return writer.Paths{}, err
		}

		return resultWriter.WriteBacktest(result)
	}

	runner, err := orchestrator.NewOrchestrator(config.BacktestEngineV1Config, strategies, appLogger)
	if err != nil {
		return writer.Paths{}, err
	}

	result, err := runner.Run(ctx, bars, callbacks)
	if err != nil {
		return writer.Paths{}, err
	}

	return resultWriter.WriteOrchestrator(result)
}

// progressCallbacks drives a progress bar from the engine lifecycle.
func progressCallbacks(out io.Writer) engine_types.LifecycleCallbacks {
	var bar *progressbar.ProgressBar

	onStart := engine_types.OnBacktestStartCallback(func(totalStrategies int, totalSymbols int, totalBars int) error {
		bar = progressbar.NewOptions(totalBars,
			progressbar.OptionSetWriter(out),
			progressbar.OptionSetDescription(fmt.Sprintf("%d strategies, %d symbols", totalStrategies, totalSymbols)),
			progressbar.OptionShowCount(),
		)

		return nil
	})

	onProcess := engine_types.OnProcessDataCallback(func(current int, total int) error {
		if bar == nil {
			return nil
		}

		return bar.Set(current)
	})

	onEnd := engine_types.OnBacktestEndCallback(func(err error) {
		if bar != nil {
			_ = bar.Finish()
		}
	})

	return engine_types.LifecycleCallbacks{
		OnBacktestStart: &onStart,
		OnBacktestEnd:   &onEnd,
		OnStrategyStart: nil,
		OnStrategyEnd:   nil,
		OnProcessData:   &onProcess,
	}
}

func schemaAction(ctx context.Context, cmd *cli.Command) error {
	if name := cmd.String("strategy"); name != "" {
		schema, err := strategy.ConfigSchema(name)
		if err != nil {
			return err
		}

		fmt.Println(schema)

		return nil
	}

	config := orchestrator.SampleConfig()

	schema, err := config.GenerateSchemaJSON()
	if err != nil {
		return fmt.Errorf("failed to generate schema: %w", err)
	}

	fmt.Println(schema)

	return nil
}

func main() {
	cmd := &cli.Command{
		Name:    "backtest",
		Usage:   "Run weighted strategy backtests over local bar files",
		Version: version.GetVersion(),
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "Run a backtest and write stats.yaml, trades.parquet and equity.parquet",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "config",
						Aliases:  []string{"c"},
						Usage:    "Path to the backtest YAML config",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "data",
						Aliases:  []string{"d"},
						Usage:    "Path to a parquet or CSV file with symbol, time, open, high, low, close and volume columns",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Directory for result files",
						Value:   "results",
					},
					&cli.StringFlag{
						Name:  "log-level",
						Usage: "Log level (debug, info, warn, error)",
						Value: "info",
					},
					&cli.BoolFlag{
						Name:    "quiet",
						Aliases: []string{"q"},
						Usage:   "Hide the progress bar",
					},
				},
				Action: runAction,
			},
			{
				Name:  "schema",
				Usage: "Print the JSON schema of the backtest config, or of one strategy's config",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "strategy",
						Usage: "Print the config schema of this strategy instead",
					},
				},
				Action: schemaAction,
			},
			{
				Name:  "strategies",
				Usage: "List the registered strategies",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					for _, name := range strategy.NewDefaultRegistry().Names() {
						fmt.Println(name)
					}

					return nil
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
