package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"gprcli/internal/batch"
	"gprcli/internal/config"
	"gprcli/internal/exporter"
	"gprcli/internal/files"
	"gprcli/internal/gather"
	"gprcli/internal/infrastructure"
	"gprcli/internal/kernel"
	"gprcli/internal/recipe"
	"gprcli/internal/validation"
)

// recipeFlags collects repeated -recipe values
type recipeFlags []string

func (r *recipeFlags) String() string {
	return strings.Join(*r, "; ")
}

func (r *recipeFlags) Set(v string) error {
	*r = append(*r, v)
	return nil
}

type options struct {
	in          string
	out         string
	recipes     recipeFlags
	workers     int
	report      string
	configPath  string
	list        bool
	metricsAddr string
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	opts := &options{}
	fs := flag.NewFlagSet("gprfilter", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.in, "in", "", "gather file or directory of gather files")
	fs.StringVar(&opts.out, "out", "", "directory for processed gathers")
	fs.Var(&opts.recipes, "recipe", "recipe command, e.g. \"mult 3.5\" (repeatable, applied in order)")
	fs.IntVar(&opts.workers, "workers", 0, "number of gathers processed in parallel")
	fs.StringVar(&opts.report, "report", "", "xlsx or csv processing report path")
	fs.StringVar(&opts.configPath, "config", "", "YAML config file (defaults to $GPR_CONFIG or gprfilter.yaml)")
	fs.BoolVar(&opts.list, "list", false, "list available recipes and exit")
	fs.StringVar(&opts.metricsAddr, "metrics-addr", "", "serve prometheus metrics on this address while running")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return opts, nil
}

// apply overlays command line values onto the loaded configuration
func (o *options) apply(cfg *config.Config) {
	if o.in != "" {
		cfg.Processing.InputDir = o.in
	}
	if o.out != "" {
		cfg.Processing.OutputDir = o.out
	}
	if o.workers > 0 {
		cfg.Processing.Workers = o.workers
	}
	if o.report != "" {
		cfg.Processing.ReportPath = o.report
	}
	if len(o.recipes) > 0 {
		cfg.Processing.DefaultRecipes = config.Lines(o.recipes...)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	return config.Load()
}

// commands normalizes configured recipe entries. A text entry is a command
// line; any other entry goes through recipe.CommandFrom.
func commands(entries config.RecipeList) ([]recipe.Command, error) {
	cmds := make([]recipe.Command, 0, len(entries))
	for i, e := range entries {
		if line, ok := e.(string); ok {
			cmds = append(cmds, recipe.ParseCommandString(line))
			continue
		}
		cmd, err := recipe.CommandFrom(e)
		if err != nil {
			return nil, fmt.Errorf("recipe entry %d: %w", i, err)
		}
		cmds = append(cmds, cmd)
	}
	return cmds, nil
}

func listRecipes(w io.Writer, reg *recipe.Registry) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, def := range reg.List() {
		status := ""
		if def.Unimplemented {
			status = " (not implemented)"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s%s\n", def.Name, def.Usage, def.Summary, status)
	}
	return tw.Flush()
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	registry := recipe.DefaultCatalog()
	if opts.list {
		if err := listRecipes(stdout, registry); err != nil {
			fmt.Fprintf(stderr, "failed to list recipes: %v\n", err)
			return 1
		}
		return 0
	}

	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		fmt.Fprintf(stderr, "failed to load config: %v\n", err)
		return 1
	}
	opts.apply(cfg)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "invalid configuration: %v\n", err)
		return 1
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(stderr, "failed to initialize logger: %v\n", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := process(ctx, cfg, registry, opts.metricsAddr, logger); err != nil {
		logger.ErrorContext(ctx, "gprfilter_failed", slog.String("error", err.Error()))
		return 1
	}
	return 0
}

func process(ctx context.Context, cfg *config.Config, registry *recipe.Registry, metricsAddr string, logger *slog.Logger) error {
	if cfg.Processing.InputDir == "" {
		return errors.New("no input given, use -in or processing.input_dir")
	}
	if len(cfg.Processing.DefaultRecipes) == 0 {
		return errors.New("no recipes given, use -recipe or processing.default_recipes")
	}
	cmds, err := commands(cfg.Processing.DefaultRecipes)
	if err != nil {
		return err
	}

	validator := validation.NewFileValidator(logger)
	if err := validator.ValidateInput(cfg.Processing.InputDir); err != nil {
		return err
	}
	if cfg.Processing.OutputDir != "" {
		if err := validator.ValidateOutputDirectory(cfg.Processing.OutputDir); err != nil {
			return err
		}
	}
	if path := cfg.ReportPathOrDefault(); path != "" {
		if err := validator.ValidateReportPath(path); err != nil {
			return err
		}
	}

	otelCfg := infrastructure.OTelConfigFromTelemetry(cfg.Telemetry)
	providers, err := infrastructure.InitializeOTel(otelCfg, logger)
	if err != nil {
		logger.WarnContext(ctx, "otel_init_failed", slog.String("error", err.Error()))
		providers = infrastructure.NoopProviders()
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := providers.Shutdown(shutdownCtx); err != nil {
			logger.Warn("otel_shutdown_failed", slog.String("error", err.Error()))
		}
	}()

	if metricsAddr != "" && providers.PrometheusHTTP != nil {
		srv := &http.Server{Addr: metricsAddr, Handler: providers.PrometheusHTTP, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Warn("metrics_server_failed", slog.String("error", err.Error()))
			}
		}()
		defer srv.Close()
	}

	tracer, err := recipe.NewTracer(providers)
	if err != nil {
		return err
	}

	caps, err := kernel.NewSet()
	if err != nil {
		return fmt.Errorf("failed to register capabilities: %w", err)
	}
	for name, missing := range registry.Missing(caps.Has) {
		logger.WarnContext(ctx, "recipe_capabilities_missing",
			slog.String("recipe", name),
			slog.String("capabilities", strings.Join(missing, ",")))
	}

	recorder := recipe.NewRecorder()
	dispatcher := recipe.NewDispatcher(registry, caps,
		recipe.WithReporter(recipe.MultiReporter{recipe.NewSlogReporter(logger), recorder}),
		recipe.WithTracer(tracer),
		recipe.WithLogger(logger))

	found, err := files.NewDiscovery("").Resolve(cfg.Processing.InputDir)
	if err != nil {
		return err
	}
	items := make([]batch.Item, 0, len(found))
	for _, fi := range found {
		fi := fi
		items = append(items, batch.Item{
			ID:   fi.ID(),
			Load: func() (*gather.Gather, error) { return gather.LoadFile(fi.Path) },
		})
	}

	runnerOpts := []batch.Option{
		batch.WithWorkers(cfg.Processing.Workers),
		batch.WithMetrics(tracer.Metrics()),
		batch.WithLogger(logger),
	}
	if cfg.Processing.OutputDir != "" {
		manager := files.NewManager(cfg.Processing.OutputDir)
		runnerOpts = append(runnerOpts, batch.WithSink(func(_ context.Context, id string, g *gather.Gather) (string, error) {
			return manager.WriteGather(id, g)
		}))
	}

	summary, runErr := batch.NewRunner(dispatcher, runnerOpts...).Run(ctx, items, cmds)

	if path := cfg.ReportPathOrDefault(); path != "" {
		if err := writeReport(path, summary); err != nil {
			return err
		}
	}

	logger.InfoContext(ctx, "gprfilter_complete",
		slog.String("run_id", summary.RunID),
		slog.Int("gathers", len(summary.Items)),
		slog.Int("failed_items", summary.FailedItems()),
		slog.Int("diagnostics", recorder.Len()))

	if runErr != nil {
		return runErr
	}
	if n := summary.FailedItems(); n > 0 {
		return fmt.Errorf("%d of %d gathers had failures", n, len(summary.Items))
	}
	return nil
}

func writeReport(path string, summary *batch.Summary) error {
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return exporter.NewCSVWriter("").WriteReportCSV(path, summary.RunID, summary.Items)
	}
	return exporter.WriteReport(path, summary.RunID, summary.Items)
}
