package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/muesli/termenv"

	"github.com/mavumo/jobbyist/internal/config"
	"github.com/mavumo/jobbyist/internal/export"
	"github.com/mavumo/jobbyist/internal/listings"
	"github.com/mavumo/jobbyist/internal/models"
	"github.com/mavumo/jobbyist/internal/network"
	"github.com/mavumo/jobbyist/internal/pipeline"
	"github.com/mavumo/jobbyist/internal/publish"
	"github.com/mavumo/jobbyist/internal/source"
)

type RunCmd struct {
	RunOptions
}

type RunOptions struct {
	Sites    string `help:"Comma-separated list of boards (default: all)." default:"all"`
	Locales  string `help:"Comma-separated country codes." env:"JOBBYIST_LOCALES"`
	Title    string `help:"Only keep listings whose title contains this text."`
	Company  string `help:"Only keep listings whose company contains this text."`
	Remote   bool   `help:"Remote-only listings."`
	NoDetail bool   `help:"Skip detail-page fetches; card data only."`

	Retention int    `help:"Maximum listings to retain."`
	DedupKey  string `help:"Dedup key mode: title-company or url." enum:",title-company,url" default:""`
	DataDir   string `help:"Directory for jobs.json and job_metadata.json."`
	Timeout   int    `help:"Per-board timeout in seconds." default:"120"`
	Proxies   string `help:"Comma-separated proxy URLs." env:"JOBBYIST_PROXIES"`

	Publish      bool   `help:"Publish the merged listing file after the run."`
	PublishRepo  string `help:"Target repository (owner/name)." env:"JOBBYIST_PUBLISH_REPO"`
	PublishToken string `help:"GitHub token for publishing." env:"GITHUB_TOKEN"`

	Format string `help:"Output format: csv, json, md." enum:",csv,json,md,table,tsv" default:""`
	Output string `name:"output" short:"o" help:"Write the run's listing set to a file."`
	Links  string `help:"Table link display: short or full." enum:"short,full" default:"full"`
}

func (r *RunCmd) Run(ctx *Context) error {
	opts, err := buildPipelineOptions(ctx, r.RunOptions)
	if err != nil {
		return err
	}

	summary, err := pipeline.Run(context.Background(), opts)
	if err != nil {
		return err
	}

	reportSourceFailures(ctx, summary.Failures)
	printRunSummary(ctx, summary)

	return writeRunOutput(ctx, opts.DataPath, r.RunOptions)
}

func buildPipelineOptions(ctx *Context, opts RunOptions) (pipeline.Options, error) {
	cfg := ctx.Config

	locales := splitList(opts.Locales)
	if len(locales) == 0 {
		locales = cfg.Locales
	}
	if len(locales) == 0 {
		return pipeline.Options{}, fmt.Errorf("at least one locale is required")
	}

	keyMode, err := listings.ParseKeyMode(firstNonEmpty(opts.DedupKey, cfg.DedupKey))
	if err != nil {
		return pipeline.Options{}, err
	}

	proxies, err := config.LoadProxies(opts.Proxies)
	if err != nil {
		return pipeline.Options{}, err
	}

	var rotator *network.Rotator
	if len(proxies) > 0 {
		rotator, err = network.NewRotator(proxies, 10*time.Minute)
		if err != nil {
			return pipeline.Options{}, err
		}
	}

	registry, err := source.Registry(rotator, !opts.NoDetail)
	if err != nil {
		return pipeline.Options{}, err
	}
	selected, err := selectSources(registry, opts.Sites)
	if err != nil {
		return pipeline.Options{}, err
	}

	publisher, err := resolvePublisher(cfg, opts)
	if err != nil {
		return pipeline.Options{}, err
	}

	dataDir := firstNonEmpty(opts.DataDir, cfg.DataDir)
	dirCfg := cfg
	dirCfg.DataDir = dataDir
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return pipeline.Options{}, err
	}

	return pipeline.Options{
		Locales: locales,
		Filters: models.Filters{
			Title:   firstNonEmpty(opts.Title, cfg.FilterTitle),
			Company: firstNonEmpty(opts.Company, cfg.FilterCompany),
			Remote:  opts.Remote || cfg.FilterRemote,
		},
		Sources:   selected,
		Retention: defaultInt(opts.Retention, cfg.Retention),
		KeyMode:   keyMode,
		Timeout:   time.Duration(opts.Timeout) * time.Second,
		DataPath:  dirCfg.ListingsPath(),
		MetaPath:  dirCfg.MetadataPath(),
		Publisher: publisher,
		Logger:    ctx.Logger,
	}, nil
}

func resolvePublisher(cfg config.Config, opts RunOptions) (publish.Publisher, error) {
	if !opts.Publish {
		return nil, nil
	}
	repo := firstNonEmpty(opts.PublishRepo, cfg.PublishRepo)
	if repo == "" {
		return nil, fmt.Errorf("--publish requires a repository (--publish-repo or config publish_repo)")
	}
	return publish.NewGitHub(opts.PublishToken, repo, cfg.PublishBranch, cfg.PublishPath)
}

// selectSources resolves requested board names against the registry, in
// stable name order so run summaries and dedup precedence don't shuffle.
func selectSources(registry map[string]source.Source, sitesArg string) ([]source.Source, error) {
	requested := source.NormalizeSites(strings.Split(sitesArg, ","))
	if len(requested) == 0 || (len(requested) == 1 && requested[0] == "all") {
		requested = make([]string, 0, len(registry))
		for site := range registry {
			requested = append(requested, site)
		}
		sort.Strings(requested)
	}

	selected := make([]source.Source, 0, len(requested))
	for _, site := range requested {
		src, ok := registry[site]
		if !ok {
			return nil, fmt.Errorf("unknown board: %s", site)
		}
		selected = append(selected, src)
	}

	return selected, nil
}

func reportSourceFailures(ctx *Context, failures []pipeline.SourceFailure) {
	if ctx == nil || ctx.UI == nil || !ctx.Verbose {
		return
	}
	if len(failures) == 0 {
		return
	}

	ctx.UI.Warnf("\nBoard errors:")
	for _, failure := range failures {
		ctx.UI.Warnf("  %s (%s): %v", failure.Site, failure.Locale, failure.Err)
	}
}

func printRunSummary(ctx *Context, summary pipeline.Summary) {
	if ctx == nil || ctx.Err == nil {
		return
	}
	_, _ = fmt.Fprintf(ctx.Err, "%s\n", formatRunSummary(summary))
}

func formatRunSummary(summary pipeline.Summary) string {
	return fmt.Sprintf(
		"summary: fetched=%d filtered_out=%d dropped_invalid=%d deduped_out=%d added=%d total=%d failures=%d",
		summary.Fetched,
		summary.FilteredOut,
		summary.DroppedInvalid,
		summary.DedupedOut,
		summary.Added,
		summary.Total,
		len(summary.Failures),
	)
}

func writeRunOutput(ctx *Context, dataPath string, opts RunOptions) error {
	if opts.Output == "" && opts.Format == "" && !ctx.JSONOutput && !ctx.PlainText {
		return nil
	}

	set, err := listings.ReadAllowMissing(dataPath)
	if err != nil {
		return err
	}
	return writeListings(ctx, set, opts.Format, opts.Output, opts.Links)
}

func writeListings(ctx *Context, set []models.Listing, formatArg string, outputPath string, links string) error {
	format, err := resolveFormat(ctx, formatArg, outputPath)
	if err != nil {
		return err
	}

	writer := ctx.Out
	var file *os.File
	if outputPath != "" {
		file, err = os.Create(outputPath)
		if err != nil {
			return err
		}
		defer file.Close()
		writer = file
	}

	colorEnabled := ctx.UI != nil && ctx.UI.ColorEnabled && outputPath == ""
	hyperlinks := colorEnabled && isTTY(writer)
	linkStyle := export.LinkStyleShort
	if strings.EqualFold(links, string(export.LinkStyleFull)) {
		linkStyle = export.LinkStyleFull
	}

	return export.WriteListings(writer, set, format, export.WriteOptions{
		ColorEnabled: colorEnabled,
		Hyperlinks:   hyperlinks,
		LinkStyle:    linkStyle,
	})
}

func resolveFormat(ctx *Context, value string, outputPath string) (export.Format, error) {
	if ctx.JSONOutput {
		return export.FormatJSON, nil
	}
	if ctx.PlainText {
		return export.FormatTSV, nil
	}
	if value != "" {
		return parseFormat(value)
	}
	if outputPath != "" {
		return export.FormatCSV, nil
	}
	if isTTY(ctx.Out) {
		return export.FormatTable, nil
	}
	return export.FormatCSV, nil
}

func parseFormat(value string) (export.Format, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "csv":
		return export.FormatCSV, nil
	case "json":
		return export.FormatJSON, nil
	case "md", "markdown":
		return export.FormatMarkdown, nil
	case "tsv":
		return export.FormatTSV, nil
	case "table", "":
		return export.FormatTable, nil
	default:
		return "", fmt.Errorf("unknown format: %s", value)
	}
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}

func defaultInt(value, fallback int) int {
	if value == 0 {
		return fallback
	}
	return value
}

func isTTY(out io.Writer) bool {
	output := termenv.NewOutput(out)
	return output.ColorProfile() != termenv.Ascii
}
