package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"pnl_checker/internal/app/port"
	"pnl_checker/internal/app/provider"
	"pnl_checker/internal/app/service"
	"pnl_checker/internal/infrastructure/configloader"
	clientprovider "pnl_checker/internal/infrastructure/network/client"
	networkdefinition "pnl_checker/internal/infrastructure/network/definition"
	"pnl_checker/internal/infrastructure/report"
	"pnl_checker/internal/infrastructure/restapi"
	"pnl_checker/internal/pkg/logger"
	"pnl_checker/internal/pkg/metrics"
	"pnl_checker/internal/pkg/utils"
	"pnl_checker/internal/storage/snapshots"
)

const shutdownTimeout = 5 * time.Second

type options struct {
	configPath   string
	baselinePath string
	csvPath      string
	jsonPath     string
	listenAddr   string
	snapshotDir  string
}

func main() {
	os.Exit(run(os.Args[1:]))
}

// run wires and executes one invocation and returns the process exit code.
// Exiting only from main lets the deferred closes (snapshot WAL, logger) run on every path.
func run(args []string) int {
	// .env необязателен: без него берутся значения по умолчанию
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "warning: failed to load .env: %v\n", err)
	}

	opts, jsonOutSet, err := parseFlags(args)
	if err != nil {
		return 2
	}

	cfg, err := configloader.Load(opts.configPath)
	if err != nil {
		logger.Error("Не удалось загрузить конфигурацию", "файл", opts.configPath, "error", err)
		return 1
	}
	if !jsonOutSet {
		opts.jsonPath = cfg.Report.JSONPath
	}
	if opts.snapshotDir == "" {
		opts.snapshotDir = cfg.Snapshots.Dir
	}
	if opts.listenAddr == "" && cfg.Server.Port != "" {
		opts.listenAddr = ":" + strings.TrimPrefix(cfg.Server.Port, ":")
	}

	zapLogger, err := logger.Init(cfg.Logging.Level)
	if err != nil {
		logger.Error("Не удалось инициализировать логгер", "error", err)
		return 1
	}
	defer logger.Sync()

	metrics.MustRegisterMetrics()
	appLogger := logger.NewSlogAdapter()
	logger.Info("Конфигурация загружена",
		"path", opts.configPath,
		"chains", len(cfg.Chains),
		"wallets", len(cfg.Wallets),
		"tokens", len(cfg.Tokens),
		"transport", cfg.RPCClient.Transport,
		"max_concurrent_chains", cfg.Performance.MaxConcurrentChains)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var snapshotStore *snapshots.WALStore
	if opts.snapshotDir != "" {
		snapshotStore, err = snapshots.NewWALStore(opts.snapshotDir)
		if err != nil {
			logger.Error("Не удалось открыть хранилище снимков", "dir", opts.snapshotDir, "error", err)
			return 1
		}
		defer func() {
			if err := snapshotStore.Close(); err != nil {
				logger.Warn("Не удалось закрыть хранилище снимков", "dir", opts.snapshotDir, "error", err)
			}
		}()
		logger.Info("Хранилище снимков открыто", "dir", opts.snapshotDir, "index", snapshotStore.CurrentIndex())
	}

	chainRegistry := networkdefinition.NewChainRegistry(appLogger, cfg.Chains)
	clientProvider := clientprovider.NewEVMClientProvider(cfg, zapLogger, appLogger.Info, appLogger.Debug, appLogger.Error)
	balanceService := service.NewBalanceService(clientProvider, logger.NewSlogAdapter("component", "balance_service"), cfg.Performance.MaxConcurrentChains, cfg.Policy.DecodeFailure)

	deps := service.PnLServiceDeps{
		Chains:   chainRegistry,
		Balances: balanceService,
		Emitter:  newEmitter(opts, cfg, appLogger),
		Logger:   appLogger,
	}
	var baselineSnapshots port.SnapshotStore
	if snapshotStore != nil {
		deps.Snapshots = snapshotStore
		baselineSnapshots = snapshotStore
	}
	deps.Baseline = provider.NewBaselineProvider(opts.baselinePath, baselineSnapshots, appLogger)

	pnlService := service.NewPnLService(deps, cfg.Wallets, cfg.Tokens, cfg.Report.SortRecords)

	if opts.listenAddr != "" {
		if err := serve(ctx, opts.listenAddr, restapi.NewPnLHandler(pnlService, chainRegistry, logger.NewSlogAdapter("component", "restapi")), zapLogger); err != nil {
			logger.Error("HTTP сервер завершился с ошибкой", "error", err)
			return 1
		}
		return 0
	}

	if _, err := pnlService.Run(ctx); err != nil {
		logger.Error("Запуск PnL завершился с ошибкой", "error", err)
		return 1
	}

	if cfg.Metrics.TextfilePath != "" {
		if err := utils.EnsureParentDir(cfg.Metrics.TextfilePath); err != nil {
			logger.Warn("Не удалось создать директорию для метрик", "path", cfg.Metrics.TextfilePath, "error", err)
		} else if err := metrics.WriteTextfile(cfg.Metrics.TextfilePath); err != nil {
			logger.Warn("Не удалось записать метрики", "path", cfg.Metrics.TextfilePath, "error", err)
		}
	}
	return 0
}

// parseFlags reads the CLI flags; the second value reports whether -json-out was given explicitly.
func parseFlags(args []string) (options, bool, error) {
	var opts options
	fs := flag.NewFlagSet("pnl_checker", flag.ContinueOnError)
	fs.StringVar(&opts.configPath, "config", utils.GetEnv("PNL_CONFIG", "config/config.yml"), "path to the run config (YAML or JSON)")
	fs.StringVar(&opts.baselinePath, "baseline", utils.GetEnv("PNL_BASELINE", ""), "path to the baseline JSON; empty uses the latest snapshot")
	fs.StringVar(&opts.csvPath, "out", utils.GetEnv("PNL_OUT", "pnl.csv"), "CSV report path")
	fs.StringVar(&opts.jsonPath, "json-out", "pnl.json", "JSON report path")
	fs.StringVar(&opts.listenAddr, "listen", "", "serve the API on this address instead of a one-shot run")
	fs.StringVar(&opts.snapshotDir, "snapshot-dir", "", "directory of the balance snapshot WAL")
	if err := fs.Parse(args); err != nil {
		return options{}, false, err
	}

	jsonOutSet := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "json-out" {
			jsonOutSet = true
		}
	})
	return opts, jsonOutSet, nil
}

func newEmitter(opts options, cfg *configloader.Config, appLogger port.Logger) port.ReportEmitter {
	emitters := []port.ReportEmitter{
		report.NewCSVEmitter(opts.csvPath, appLogger.Info),
		report.NewJSONEmitter(opts.jsonPath, appLogger.Info),
	}
	if cfg.Report.SQLitePath != "" {
		emitters = append(emitters, report.NewSQLiteEmitter(cfg.Report.SQLitePath, appLogger.Info))
	}
	return report.NewMultiEmitter(emitters...)
}

func serve(ctx context.Context, addr string, handler *restapi.PnLHandler, zapLogger *zap.Logger) error {
	gin.SetMode(gin.ReleaseMode)
	srv := &http.Server{
		Addr:              addr,
		Handler:           restapi.SetupRouter(handler, zapLogger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Запуск HTTP сервера", "адрес", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Получен сигнал завершения. Завершение работы HTTP сервера...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	logger.Info("HTTP сервер успешно остановлен.")
	return nil
}
