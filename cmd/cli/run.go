package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"docsite-frame-checker/internal/checks"
	"docsite-frame-checker/internal/crawler"
	"docsite-frame-checker/internal/ioformats"
	"docsite-frame-checker/internal/models"
	"docsite-frame-checker/internal/runner"
)

type runFlags struct {
	suites      []string
	langs       []string
	format      string
	output      string
	concurrency int
	timeout     time.Duration
}

func newRunCmd(root *rootFlags) *cobra.Command {
	flags := &runFlags{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the frame, homepage, release notes and robots suites",
		Example: `  frame run --base-url http://localhost:4000
  frame run --suite frame --lang ja,pt --format csv -o results.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			overrides := map[string]any{}
			if cmd.Flags().Changed("concurrency") {
				overrides["run.concurrency"] = flags.concurrency
			}
			if cmd.Flags().Changed("timeout") {
				overrides["run.timeout"] = flags.timeout
			}
			a, err := loadApp(cmd, root, overrides)
			if err != nil {
				return err
			}
			return runChecks(cmd, a, flags)
		},
	}
	f := cmd.Flags()
	f.StringSliceVar(&flags.suites, "suite", nil, "suites to run (frame, homepage, release notes, robots)")
	f.StringSliceVar(&flags.langs, "lang", nil, "languages to check (default: every non-default language)")
	f.StringVar(&flags.format, "format", "ndjson", "result format: ndjson or csv")
	f.StringVarP(&flags.output, "output", "o", "", "result file (default stdout)")
	f.IntVar(&flags.concurrency, "concurrency", 0, "checks run at once")
	f.DurationVar(&flags.timeout, "timeout", 0, "per-check timeout")
	return cmd
}

func runChecks(cmd *cobra.Command, a *app, flags *runFlags) error {
	suites := flags.suites
	if len(suites) == 0 {
		suites = a.cfg.Run.Suites
	}
	requested := flags.langs
	if len(requested) == 0 {
		requested = a.cfg.Run.Langs
	}
	langs, err := a.selectLangs(requested)
	if err != nil {
		return err
	}
	if flags.format != "ndjson" && flags.format != "csv" {
		return fmt.Errorf("unknown format %q", flags.format)
	}

	client, err := a.client()
	if err != nil {
		return err
	}
	env := &checks.Env{
		DOM:       crawler.NewDOMCache(client),
		HTTP:      client,
		Policy:    a.policy,
		Languages: a.langs,
		SiteURL:   a.cfg.SiteURL,
		UserAgent: a.cfg.Robots.Agent,
	}

	var list []checks.Check
	if wants(suites, checks.SuiteFrame) {
		list = append(list, checks.Frame(env, langs)...)
	}
	if wants(suites, checks.SuiteHomepage) {
		list = append(list, checks.Homepage(env, langs)...)
	}
	if wants(suites, checks.SuiteReleaseNotes) {
		page, err := a.releaseNotes()
		if err != nil {
			return fmt.Errorf("release notes page: %w", err)
		}
		list = append(list, checks.ReleaseNotes(env, langs, page)...)
	}
	if wants(suites, checks.SuiteRobots) {
		list = append(list, checks.Robots(env, langs)...)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a.log.Infof("running %d checks against %s for %s", len(list), a.cfg.BaseURL, strings.Join(langs, ","))
	results := runner.Run(ctx, list, runner.Options{
		Concurrency: a.cfg.Run.Concurrency,
		Timeout:     a.cfg.Run.Timeout,
		Logger:      a.log,
	})

	if err := writeResults(cmd.OutOrStdout(), flags, results); err != nil {
		return err
	}
	sum := models.Summarize(results)
	a.log.Infof("%d checks: %d passed, %d failed, %d skipped", sum.Total, sum.Passed, sum.Failed, sum.Skipped)
	if !sum.OK() {
		return errChecksFailed
	}
	return nil
}

func wants(suites []string, suite string) bool {
	if len(suites) == 0 {
		return true
	}
	for _, s := range suites {
		if strings.EqualFold(strings.TrimSpace(s), suite) {
			return true
		}
	}
	return false
}

func writeResults(stdout io.Writer, flags *runFlags, results []models.Result) error {
	w := stdout
	if flags.output != "" {
		f, err := os.Create(flags.output)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		w = f
	}
	if flags.format == "csv" {
		return ioformats.WriteResultsCSV(w, results)
	}
	return ioformats.WriteNDJSON(w, results)
}
