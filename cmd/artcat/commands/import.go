package commands

import (
	"context"
	"io"
	"os/signal"
	"syscall"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/openartmap/artcat/catalog"
	"github.com/openartmap/artcat/config"
	"github.com/openartmap/artcat/display"
	"github.com/openartmap/artcat/errors"
	exportapi "github.com/openartmap/artcat/exporters/api"
	exportconsole "github.com/openartmap/artcat/exporters/console"
	exportjsonfile "github.com/openartmap/artcat/exporters/jsonfile"
	"github.com/openartmap/artcat/importers/scraper"
	"github.com/openartmap/artcat/importers/vancouver"
	"github.com/openartmap/artcat/ingest/dedupe"
	"github.com/openartmap/artcat/ingest/mapper"
	"github.com/openartmap/artcat/ingest/photos"
	"github.com/openartmap/artcat/ingest/pipeline"
	"github.com/openartmap/artcat/ingest/report"
	"github.com/openartmap/artcat/logger"
	"github.com/openartmap/artcat/plugin"
	"github.com/openartmap/artcat/version"
)

// ErrRecordsFailed signals that the run completed but one or more records
// failed validation or export. main maps it to exit code 1.
var ErrRecordsFailed = errors.New("one or more records failed")

var importFlags struct {
	importer       string
	exporter       string
	input          string
	mapping        string
	output         string
	reportPath     string
	snapshot       string
	offset         int
	limit          int
	concurrency    int
	threshold      float64
	dryRun         bool
	autoApprove    bool
	skipPhotoCheck bool
}

// ImportCmd represents the import command
var ImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Run an import from a source dataset to a destination",
	Long: `Run an import: read raw records from the input file, map each onto a
canonical artwork record, skip records that already exist at the
destination, export the rest, and write a JSON report.

Exit codes:
  0  all records succeeded or were intentionally skipped as duplicates
  1  one or more records failed (validation or export)
  2  fatal configuration error; no report is produced

Examples:
  artcat import --importer vancouver --exporter api --input export.json
  artcat import --importer vancouver --exporter jsonfile --input export.json --output out.ndjson
  artcat import --importer scraper --exporter console --input pages.json --limit 10 --dry-run`,
	RunE: runImport,
}

func init() {
	flags := ImportCmd.Flags()
	flags.StringVar(&importFlags.importer, "importer", "", "Importer plugin name (required)")
	flags.StringVar(&importFlags.exporter, "exporter", "", "Exporter plugin name (required)")
	flags.StringVar(&importFlags.input, "input", "", "Path to the source dataset file (required)")
	flags.StringVar(&importFlags.mapping, "mapping", "", "Mapping script overriding the importer's default rules")
	flags.StringVar(&importFlags.output, "output", "", "Output file for the jsonfile exporter")
	flags.StringVar(&importFlags.reportPath, "report", "", "Report file path (default: reports/<timestamp>-<importer>-<exporter>.json)")
	flags.StringVar(&importFlags.snapshot, "snapshot", "", "Dedupe against a local catalog snapshot instead of the live API")
	flags.IntVar(&importFlags.offset, "offset", 0, "Skip the first n source records")
	flags.IntVar(&importFlags.limit, "limit", 0, "Process at most n source records (0 = no limit)")
	flags.IntVar(&importFlags.concurrency, "concurrency", 0, "Worker pool size (default from config, max 16)")
	flags.Float64Var(&importFlags.threshold, "dedupe-threshold", 0, "Duplicate score threshold in (0,1] (default from config)")
	flags.BoolVar(&importFlags.dryRun, "dry-run", false, "Run every stage except the export call")
	flags.BoolVar(&importFlags.autoApprove, "auto-approve", false, "Create artworks as approved, bypassing the moderation queue")
	flags.BoolVar(&importFlags.skipPhotoCheck, "skip-photo-check", false, "Skip photo URL verification")

	ImportCmd.MarkFlagRequired("importer")
	ImportCmd.MarkFlagRequired("exporter")
	ImportCmd.MarkFlagRequired("input")
}

func runImport(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return errors.WrapConfiguration(err, "loading configuration")
	}
	applyImportFlags(cfg)
	if err := cfg.Validate(); err != nil {
		return errors.WrapConfiguration(err, "validating configuration")
	}

	var rules []mapper.Rule
	if importFlags.mapping != "" {
		rules, err = mapper.LoadScript(importFlags.mapping)
		if err != nil {
			return err
		}
	}

	registry, err := buildRegistry(cfg, rules)
	if err != nil {
		return err
	}
	importer, err := registry.Importer(importFlags.importer)
	if err != nil {
		return err
	}
	exporter, err := registry.Exporter(importFlags.exporter)
	if err != nil {
		return err
	}
	if closer, ok := exporter.(io.Closer); ok {
		defer closer.Close()
	}

	nearby, cleanup, err := nearbyProvider(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	var photoChecker *photos.Checker
	if cfg.Photos.Verify && !importFlags.skipPhotoCheck {
		photoChecker = photos.NewChecker(cfg.Photos, logger.Logger)
	}

	tracker := report.NewTracker(importFlags.importer, importFlags.exporter, importFlags.dryRun)
	pipe := pipeline.New(
		importer,
		exporter,
		dedupe.NewDetector(cfg.Dedupe),
		nearby,
		photoChecker,
		tracker,
		pipeline.Options{
			Workers:            cfg.Import.Workers,
			Offset:             importFlags.offset,
			Limit:              importFlags.limit,
			DryRun:             importFlags.dryRun,
			NearbyRadiusMeters: cfg.Dedupe.NearbyRadiusMeters,
		},
		logger.Logger,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rep, err := pipe.Run(ctx)
	if err != nil {
		return err
	}

	path := importFlags.reportPath
	if path != "" {
		err = report.WriteTo(rep, path)
	} else {
		path, err = report.Write(rep, cfg.Report.Dir)
	}
	if err != nil {
		return err
	}

	if err := printRunSummary(cmd, rep, path); err != nil {
		return err
	}

	if rep.Summary.ValidationFailed+rep.Summary.ExportFailed > 0 {
		return ErrRecordsFailed
	}
	return nil
}

// applyImportFlags lets CLI flags override the loaded configuration
func applyImportFlags(cfg *config.Config) {
	if importFlags.concurrency > 0 {
		cfg.Import.Workers = importFlags.concurrency
	}
	if importFlags.threshold > 0 {
		cfg.Dedupe.Threshold = importFlags.threshold
	}
}

// buildRegistry registers the built-in plugins for this invocation
func buildRegistry(cfg *config.Config, rules []mapper.Rule) (*plugin.Registry, error) {
	registry := plugin.NewRegistry()

	importers := []plugin.Importer{
		vancouver.New(importFlags.input, rules, logger.Logger),
		scraper.New(importFlags.input, rules, logger.Logger),
	}
	for _, imp := range importers {
		if err := registry.RegisterImporter(imp); err != nil {
			return nil, err
		}
	}

	exporters := []plugin.Exporter{
		exportapi.New(cfg.Catalog, importFlags.autoApprove, logger.Logger),
		exportjsonfile.New(importFlags.output, logger.Logger),
		exportconsole.New(),
	}
	for _, exp := range exporters {
		if err := registry.RegisterExporter(exp); err != nil {
			return nil, err
		}
	}

	return registry, nil
}

// nearbyProvider picks the duplicate-candidate source: a local snapshot when
// --snapshot is given, the live read API otherwise
func nearbyProvider(cfg *config.Config) (catalog.NearbyProvider, func(), error) {
	snapshot := importFlags.snapshot
	if snapshot == "" {
		snapshot = cfg.Catalog.SnapshotPath
	}
	if snapshot != "" {
		store, err := catalog.OpenSnapshot(snapshot, logger.Logger)
		if err != nil {
			return nil, nil, errors.WrapConfiguration(err, "opening snapshot")
		}
		return store, func() { store.Close() }, nil
	}

	client := catalog.NewClient(cfg.Catalog.BaseURL, cfg.Catalog.Token,
		cfg.Catalog.Timeout(), logger.Logger)
	return client, func() {}, nil
}

func printRunSummary(cmd *cobra.Command, rep *report.Report, reportPath string) error {
	if display.ShouldOutputJSON(cmd) {
		return display.OutputJSON(map[string]interface{}{
			"metadata": rep.Metadata,
			"summary":  rep.Summary,
			"report":   reportPath,
		})
	}

	pterm.DefaultSection.Printf("Import %s -> %s (artcat %s)",
		rep.Metadata.Importer, rep.Metadata.Exporter, version.Version)

	rows := pterm.TableData{
		{"Total", pterm.Sprintf("%d", rep.Summary.Total)},
		{"Created", pterm.Green(rep.Summary.Created)},
		{"Skipped duplicates", pterm.Cyan(rep.Summary.SkippedDuplicates)},
		{"Validation failed", pterm.Yellow(rep.Summary.ValidationFailed)},
		{"Export failed", pterm.Red(rep.Summary.ExportFailed)},
		{"Duration", pterm.Sprintf("%.1fs", rep.Summary.DurationSeconds)},
	}
	if err := pterm.DefaultTable.WithData(rows).Render(); err != nil {
		return err
	}

	if rep.Metadata.DryRun {
		pterm.Info.Println("Dry run: no records were exported")
	}
	pterm.Info.Printf("Report written to %s\n", reportPath)
	return nil
}
