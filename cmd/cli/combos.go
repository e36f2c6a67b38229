package main

import (
	"github.com/spf13/cobra"

	"docsite-frame-checker/internal/content"
	"docsite-frame-checker/internal/ioformats"
	"docsite-frame-checker/internal/versions"
)

type comboRecord struct {
	Lang    string `json:"lang"`
	Version string `json:"version"`
	Path    string `json:"path"`
}

func newCombosCmd(root *rootFlags) *cobra.Command {
	var langFlags []string
	cmd := &cobra.Command{
		Use:   "combos",
		Short: "List the language/version pairs the release notes suite fetches",
		Long: `combos prints one NDJSON record per (language, version) pair: the first
applicable version of each product, paired with every selected language.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd, root, nil)
			if err != nil {
				return err
			}
			langs, err := a.selectLangs(langFlags)
			if err != nil {
				return err
			}
			page, err := a.releaseNotes()
			if err != nil {
				return err
			}
			var out []comboRecord
			for _, c := range versions.Combinations(langs, page.ApplicableVersions) {
				out = append(out, comboRecord{
					Lang:    c.Lang,
					Version: c.Version,
					Path:    content.Href(c.Lang, c.Version, page.Path()),
				})
			}
			return ioformats.WriteNDJSON(cmd.OutOrStdout(), out)
		},
	}
	cmd.Flags().StringSliceVar(&langFlags, "lang", nil, "languages (default: every non-default language)")
	return cmd
}
