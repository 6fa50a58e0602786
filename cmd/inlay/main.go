// Command inlay analyzes embedded-language code blocks inside host
// documents. One-shot mode prints diagnostics and exits non-zero when
// errors are found; watch mode keeps a terminal panel in sync with the
// file on disk.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/inlay/internal/app"
	"github.com/dshills/inlay/internal/config"
	"github.com/dshills/inlay/internal/hostwatch"
	"github.com/dshills/inlay/internal/rules"
	"github.com/dshills/inlay/internal/view"
)

// Build information, set via ldflags.
var (
	version = "dev"
	commit  = "unknown"
)

type options struct {
	configPath string
	rulesPath  string
	watch      bool
	version    bool
	host       string
}

func main() {
	os.Exit(run())
}

func run() int {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	if opts.version {
		fmt.Printf("inlay %s (%s)\n", version, commit)
		return 0
	}

	logger := log.New(os.Stderr, "inlay: ", 0)

	cfg, err := loadConfig(opts)
	if err != nil {
		logger.Print(err)
		return 2
	}

	ruleSet, err := loadRules(opts, cfg)
	if err != nil {
		logger.Print(err)
		return 2
	}

	hostText, err := os.ReadFile(opts.host)
	if err != nil {
		logger.Print(err)
		return 2
	}

	a, err := app.New(opts.host, string(hostText), app.Options{
		Config: cfg,
		Rules:  ruleSet,
		Logger: logger,
	})
	if err != nil {
		logger.Print(err)
		return 2
	}
	defer a.Close()

	if opts.watch {
		return runWatch(a, cfg, logger)
	}
	return report(a)
}

// parseFlags parses command-line arguments.
func parseFlags(args []string) (options, error) {
	var opts options

	fs := flag.NewFlagSet("inlay", flag.ContinueOnError)
	fs.StringVar(&opts.configPath, "config", "", "path to inlay.json (default: next to the host file)")
	fs.StringVar(&opts.rulesPath, "rules", "", "path to a Lua rules file (default: from config)")
	fs.BoolVar(&opts.watch, "watch", false, "watch the host file and show a live panel")
	fs.BoolVar(&opts.version, "version", false, "print version and exit")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "usage: inlay [flags] <host-file>\n\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	if opts.version {
		return opts, nil
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return options{}, fmt.Errorf("expected exactly one host file, got %d", fs.NArg())
	}
	opts.host = fs.Arg(0)

	return opts, nil
}

// loadConfig loads inlay.json from the flag path or next to the host file.
func loadConfig(opts options) (config.Config, error) {
	path := opts.configPath
	if path == "" {
		path = filepath.Join(filepath.Dir(opts.host), config.DefaultFileName)
	}
	return config.Load(path)
}

// loadRules loads the Lua rules file named by the flag or the config.
func loadRules(opts options, cfg config.Config) (*rules.Set, error) {
	path := opts.rulesPath
	if path == "" && cfg.RulesFile != "" {
		path = filepath.Join(filepath.Dir(opts.host), cfg.RulesFile)
	}
	if path == "" {
		return rules.DefaultSet(), nil
	}
	return rules.LoadFile(path)
}

// report prints one-shot results to stdout.
func report(a *app.App) int {
	for _, res := range a.Results() {
		if len(res.Diagnostics) == 0 {
			continue
		}
		fmt.Printf("%s (%s)\n", res.Region.Key, res.Region.Language)
		for _, d := range res.Diagnostics {
			// Positions are region-relative; map the line back to the host.
			hostLine := res.Region.HostLine(d.Range.Start.Line)
			fmt.Printf("  %s:%d %s\n", a.HostPath(), hostLine+1, d.Format())
		}
	}

	summary := a.Summary()
	fmt.Printf("%d errors, %d warnings across %d regions\n",
		summary.TotalErrors, summary.TotalWarnings, a.AdapterCount())

	if a.HasErrors() {
		return 1
	}
	return 0
}

// runWatch keeps a terminal panel in sync with the host file.
func runWatch(a *app.App, cfg config.Config, logger *log.Logger) int {
	screen, err := tcell.NewScreen()
	if err != nil {
		logger.Print(err)
		return 2
	}

	panel := view.New(screen)
	panel.Update(a.HostPath(), a.Results(), a.Summary())

	watcher, err := hostwatch.New(a.HostPath(),
		hostwatch.TargetFunc(func(text string) error {
			if err := a.ApplyHost(text); err != nil {
				return err
			}
			panel.Update(a.HostPath(), a.Results(), a.Summary())
			return nil
		}),
		hostwatch.WithDebounce(time.Duration(cfg.DebounceMs)*time.Millisecond),
		hostwatch.WithLogger(logger),
	)
	if err != nil {
		logger.Print(err)
		return 2
	}
	defer watcher.Close()

	if err := panel.Run(context.Background()); err != nil {
		logger.Print(err)
		return 2
	}
	return 0
}
