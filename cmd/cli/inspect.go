package main

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"docsite-frame-checker/internal/classifier"
	"docsite-frame-checker/internal/crawler"
	"docsite-frame-checker/internal/ioformats"
	"docsite-frame-checker/internal/models"
	"docsite-frame-checker/internal/parser"
	"docsite-frame-checker/internal/robots"
)

func newInspectCmd(root *rootFlags) *cobra.Command {
	var (
		input       string
		concurrency int
		topics      int
	)
	cmd := &cobra.Command{
		Use:   "inspect [path...]",
		Short: "Fetch pages and report their frame: lang, breadcrumbs, alternates, kind",
		Long: `inspect fetches each path once and prints an NDJSON report per page.
Paths come from arguments or from --input (CSV with a 'path' column, or NDJSON).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd, root, nil)
			if err != nil {
				return err
			}
			paths := args
			if input != "" {
				more, err := ioformats.ReadPaths(input)
				if err != nil {
					return fmt.Errorf("read input: %w", err)
				}
				paths = append(paths, more...)
			}
			if len(paths) == 0 {
				return fmt.Errorf("pass paths as arguments or --input")
			}
			client, err := a.client()
			if err != nil {
				return err
			}
			if concurrency <= 0 {
				concurrency = a.cfg.Run.Concurrency
			}
			reports := inspectPaths(cmd.Context(), client, a.policy, paths, concurrency, topics)
			return ioformats.WriteNDJSON(cmd.OutOrStdout(), reports)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&input, "input", "i", "", "file of paths (csv or ndjson)")
	f.IntVar(&concurrency, "concurrency", 0, "pages fetched at once")
	f.IntVar(&topics, "topics", 10, "top keywords per page")
	return cmd
}

// inspectPaths returns one report per path, in input order. Fetch and parse
// errors are recorded on the report rather than failing the batch.
func inspectPaths(ctx context.Context, client *crawler.HTTPClient, policy *robots.Policy, paths []string, concurrency, topics int) []models.PageReport {
	cl := classifier.New()
	reports := make([]models.PageReport, len(paths))

	g := new(errgroup.Group)
	g.SetLimit(concurrency)
	for i, p := range paths {
		g.Go(func() error {
			reports[i] = inspectOne(ctx, client, policy, cl, p, topics)
			return nil
		})
	}
	_ = g.Wait()
	return reports
}

func inspectOne(ctx context.Context, client *crawler.HTTPClient, policy *robots.Policy, cl *classifier.Classifier, path string, topics int) models.PageReport {
	rep := models.PageReport{Path: path, NoIndex: policy.BlockIndex(path)}
	resp, err := client.Get(ctx, path)
	if err != nil {
		rep.Error = err.Error()
		return rep
	}
	rep.URL = resp.URL
	rep.StatusCode = resp.StatusCode
	rep.FetchMs = resp.Elapsed.Milliseconds()
	if strings.Contains(strings.ToLower(resp.Header.Get("X-Robots-Tag")), "noindex") {
		rep.NoIndex = true
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return rep
	}

	doc, err := parser.Parse(bytes.NewReader(resp.Body), resp.ContentType())
	if err != nil {
		rep.Error = err.Error()
		return rep
	}
	rep.Lang = doc.Lang()
	rep.Title = doc.Title()
	rep.Canonical = doc.Canonical()
	rep.Breadcrumbs = doc.BreadcrumbHrefs()
	rep.Alternates = doc.Alternates()
	rep.Class = cl.Classify(doc)
	rep.Topics = cl.TopTopics(doc.Text(), topics)
	return rep
}
