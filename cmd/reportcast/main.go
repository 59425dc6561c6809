package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/hyperifyio/reportcast/internal/app"
	"github.com/hyperifyio/reportcast/internal/extract"
	"github.com/hyperifyio/reportcast/internal/script"
)

func main() {
	// Logging setup
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd(&options{}, os.Stdout).ExecuteContext(ctx)
	stop()
	if err != nil {
		log.Error().Err(err).Msg("run failed")
		os.Exit(exitCode(err))
	}
}

// exitCode maps errors to the process status: 2 when the page layout no
// longer matches what the segmenter expects, 1 for everything else.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case app.IsFormatDrift(err):
		return 2
	default:
		return 1
	}
}

// options mirrors app.Config for flag binding; only flags the user actually
// set are copied over the file and env layers.
type options struct {
	configPath string
	envFiles   []string
	verbose    bool
	dryRun     bool

	outputPath  string
	outputDir   string
	scriptMD    string
	scriptPDF   string
	outlineJSON string

	llmBase    string
	llmModel   string
	llmKey     string
	llmTimeout time.Duration

	ttsModel    string
	ttsVoice    string
	ffmpeg      string
	concurrency int

	container      string
	delimiter      string
	metadataBlocks int
	filters        []string

	userAgent     string
	cacheDir      string
	cacheMaxAge   time.Duration
	cacheClear    bool
	cacheBypass   bool
	cacheStrict   bool
	httpCacheOnly bool
	llmCacheOnly  bool
}

func newRootCmd(o *options, stdout io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:   "reportcast",
		Short: "Turn a daily conflict assessment into a narrated audio briefing",
		Long: `reportcast fetches a daily assessment report, splits it into a fixed
narrative structure, adds an AI summary of the main efforts and renders the
result as a single WAV briefing.

Examples:
  # Narrate the default report
  reportcast narrate

  # Narrate a specific day with a local OpenAI-compatible server
  reportcast narrate https://www.understandingwar.org/backgrounder/... \
      --llm.base http://localhost:8080/v1 --llm.model local

  # Inspect the segmented outline without making audio
  reportcast outline --dry-run`,
		Version:       app.BuildVersion + " (" + app.BuildCommit + ")",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&o.configPath, "config", "", "Path to YAML or JSON config file")
	pf.StringSliceVar(&o.envFiles, "env-file", []string{".env"}, "Dotenv files to load before reading env (later files win)")
	pf.BoolVarP(&o.verbose, "verbose", "v", false, "Verbose debug logging")
	pf.BoolVar(&o.dryRun, "dry-run", false, "Skip summarization and speech; no API calls")

	pf.StringVarP(&o.outputPath, "output", "o", "", "WAV output path (default <output-dir>/<title>.wav)")
	pf.StringVar(&o.outputDir, "output-dir", "", "Directory for generated briefings")
	pf.StringVar(&o.scriptMD, "script-md", "", "Also write the narration script as Markdown")
	pf.StringVar(&o.scriptPDF, "script-pdf", "", "Also write the narration script as PDF")
	pf.StringVar(&o.outlineJSON, "outline-json", "", "Also write the segmented outline as JSON")

	pf.StringVar(&o.llmBase, "llm.base", "", "OpenAI-compatible base URL")
	pf.StringVar(&o.llmModel, "llm.model", "", "Summarization model name")
	pf.StringVar(&o.llmKey, "llm.key", "", "API key")
	pf.DurationVar(&o.llmTimeout, "llm.timeout", 0, "Per-call summarization timeout")

	pf.StringVar(&o.ttsModel, "tts.model", "", "Speech model name")
	pf.StringVar(&o.ttsVoice, "tts.voice", "", "Speech voice")
	pf.StringVar(&o.ffmpeg, "ffmpeg", "", "Path to the ffmpeg binary")
	pf.IntVar(&o.concurrency, "concurrency", 0, "Parallel speech requests")

	pf.StringVar(&o.container, "container", "", "CSS selector of the article body")
	pf.StringVar(&o.delimiter, "delimiter", "", "Heading text that ends the events section")
	pf.IntVar(&o.metadataBlocks, "metadata-blocks", 0, "Blocks after the title to drop as metadata")
	pf.StringArrayVar(&o.filters, "filter", nil, "Extra boilerplate pattern to drop (repeatable)")

	pf.StringVar(&o.userAgent, "user-agent", "", "User-Agent for page fetches")
	pf.StringVar(&o.cacheDir, "cache.dir", "", "Cache directory")
	pf.DurationVar(&o.cacheMaxAge, "cache.maxAge", 0, "Purge cache entries older than this (e.g. 72h)")
	pf.BoolVar(&o.cacheClear, "cache.clear", false, "Clear the cache before running")
	pf.BoolVar(&o.cacheBypass, "cache.bypass", false, "Always refetch the page, skipping revalidation, and refresh the HTTP cache")
	pf.BoolVar(&o.cacheStrict, "cache.strictPerms", false, "Restrict cache permissions (0700 dirs, 0600 files)")
	pf.BoolVar(&o.httpCacheOnly, "http-cache-only", false, "Serve pages only from the HTTP cache")
	pf.BoolVar(&o.llmCacheOnly, "llm-cache-only", false, "Serve summaries and speech only from cache")

	root.AddCommand(newNarrateCmd(o, stdout), newOutlineCmd(o, stdout), newBlocksCmd(o, stdout))
	return root
}

func newNarrateCmd(o *options, stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "narrate [url]",
		Short: "Render the report as a WAV briefing",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cfg, err := openApp(cmd, o, args)
			if err != nil {
				return err
			}
			defer a.Close()
			path, err := a.Narrate(cmd.Context(), cfg.ArticleURL)
			if err != nil {
				return err
			}
			if path != "" {
				fmt.Fprintln(stdout, path)
			}
			return nil
		},
	}
}

func newOutlineCmd(o *options, stdout io.Writer) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "outline [url]",
		Short: "Print the segmented report as a Markdown script",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cfg, err := openApp(cmd, o, args)
			if err != nil {
				return err
			}
			defer a.Close()
			out, err := a.Convert(cmd.Context(), cfg.ArticleURL)
			if err != nil {
				return err
			}
			if err := a.Export(out); err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(out)
			}
			_, err = io.WriteString(stdout, script.Markdown(out))
			return err
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of Markdown")
	return cmd
}

func newBlocksCmd(o *options, stdout io.Writer) *cobra.Command {
	var cleaned bool
	cmd := &cobra.Command{
		Use:   "blocks [url]",
		Short: "Dump the extracted block stream for debugging the extractor",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cfg, err := openApp(cmd, o, args)
			if err != nil {
				return err
			}
			defer a.Close()
			fetchBlocks := a.Blocks
			if cleaned {
				fetchBlocks = a.Cleaned
			}
			blocks, err := fetchBlocks(cmd.Context(), cfg.ArticleURL)
			if err != nil {
				return err
			}
			_, err = io.WriteString(stdout, extract.Dump(blocks))
			return err
		},
	}
	cmd.Flags().BoolVar(&cleaned, "cleaned", false, "Apply the cleaner before dumping")
	return cmd
}

func openApp(cmd *cobra.Command, o *options, args []string) (*app.App, app.Config, error) {
	cfg, err := loadConfig(cmd, o, args)
	if err != nil {
		return nil, cfg, err
	}
	if cfg.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	a, err := app.New(cmd.Context(), cfg)
	if err != nil {
		return nil, cfg, fmt.Errorf("init app: %w", err)
	}
	return a, cfg, nil
}

// loadConfig layers defaults, the config file, the environment and finally
// the flags the user set. A positional URL beats all of them.
func loadConfig(cmd *cobra.Command, o *options, args []string) (app.Config, error) {
	if err := app.LoadEnvFiles(o.envFiles...); err != nil {
		return app.Config{}, fmt.Errorf("load env: %w", err)
	}
	cfg := app.Defaults()
	if o.configPath != "" {
		fc, err := app.LoadConfigFile(o.configPath)
		if err != nil {
			return cfg, fmt.Errorf("load config: %w", err)
		}
		app.ApplyFileConfig(&cfg, fc)
	}
	app.ApplyEnvOverrides(&cfg)

	flags := cmd.Flags()
	set := func(name string, apply func()) {
		if flags.Changed(name) {
			apply()
		}
	}
	set("verbose", func() { cfg.Verbose = o.verbose })
	set("dry-run", func() { cfg.DryRun = o.dryRun })
	set("output", func() { cfg.OutputPath = o.outputPath })
	set("output-dir", func() { cfg.OutputDir = o.outputDir })
	set("script-md", func() { cfg.ScriptMarkdownPath = o.scriptMD })
	set("script-pdf", func() { cfg.ScriptPDFPath = o.scriptPDF })
	set("outline-json", func() { cfg.OutlineJSONPath = o.outlineJSON })
	set("llm.base", func() { cfg.LLMBaseURL = o.llmBase })
	set("llm.model", func() { cfg.LLMModel = o.llmModel })
	set("llm.key", func() { cfg.LLMAPIKey = o.llmKey })
	set("llm.timeout", func() { cfg.SummarizeTimeout = o.llmTimeout })
	set("tts.model", func() { cfg.TTSModel = o.ttsModel })
	set("tts.voice", func() { cfg.TTSVoice = o.ttsVoice })
	set("ffmpeg", func() { cfg.FFmpegPath = o.ffmpeg })
	set("concurrency", func() { cfg.MaxConcurrent = o.concurrency })
	set("container", func() { cfg.Container = o.container })
	set("delimiter", func() { cfg.Delimiter = o.delimiter })
	set("metadata-blocks", func() { cfg.MetadataBlocks = o.metadataBlocks })
	set("filter", func() { cfg.ExtraFilters = append(cfg.ExtraFilters, o.filters...) })
	set("user-agent", func() { cfg.UserAgent = o.userAgent })
	set("cache.dir", func() { cfg.CacheDir = o.cacheDir })
	set("cache.maxAge", func() { cfg.CacheMaxAge = o.cacheMaxAge })
	set("cache.clear", func() { cfg.CacheClear = o.cacheClear })
	set("cache.bypass", func() { cfg.CacheBypass = o.cacheBypass })
	set("cache.strictPerms", func() { cfg.CacheStrictPerms = o.cacheStrict })
	set("http-cache-only", func() { cfg.HTTPCacheOnly = o.httpCacheOnly })
	set("llm-cache-only", func() { cfg.LLMCacheOnly = o.llmCacheOnly })

	if len(args) > 0 {
		cfg.ArticleURL = args[0]
	}
	return cfg, nil
}
