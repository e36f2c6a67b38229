package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var errChecksFailed = errors.New("some checks failed")

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errChecksFailed) {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}

type rootFlags struct {
	configPath    string
	baseURL       string
	siteURL       string
	contentDir    string
	languagesFile string
	versionsFile  string
	logLevel      string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	cmd := &cobra.Command{
		Use:   "frame",
		Short: "Check the translated frame of a running docs site",
		Long: `frame fetches pages from a running docs site and asserts the behaviors
every translation must keep: crawlable pages, localized breadcrumbs and
homepage links, hreflang alternates, <html lang>, localized sidebars and
versioned release notes.

Settings come from defaults, an optional YAML file (--config), FRAME_*
environment variables and flags, in increasing order of precedence.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&flags.configPath, "config", "c", "frame.yml", "YAML config file")
	pf.StringVar(&flags.baseURL, "base-url", "", "site to check, e.g. http://localhost:4000")
	pf.StringVar(&flags.siteURL, "site-url", "", "canonical origin hreflang links point at")
	pf.StringVar(&flags.contentDir, "content-dir", "", "content directory (default: built-in sample content)")
	pf.StringVar(&flags.languagesFile, "languages", "", "languages YAML (default: built-in registry)")
	pf.StringVar(&flags.versionsFile, "versions", "", "versions YAML (default: built-in catalog)")
	pf.StringVar(&flags.logLevel, "log-level", "", "debug, info, warn or error")

	cmd.AddCommand(
		newRunCmd(flags),
		newCombosCmd(flags),
		newPolicyCmd(flags),
		newInspectCmd(flags),
	)
	return cmd
}
