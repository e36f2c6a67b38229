package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newPolicyCmd(root *rootFlags) *cobra.Command {
	var robotsTxt bool
	cmd := &cobra.Command{
		Use:   "policy [path...]",
		Short: "Show whether paths are blocked from indexing",
		Example: `  frame policy /ja/articles/verifying-your-email-address /ko/get-started
  frame policy --robots-txt`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd, root, nil)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if robotsTxt {
				_, err := fmt.Fprint(out, a.policy.RobotsTxt())
				return err
			}
			if len(args) == 0 {
				return fmt.Errorf("pass at least one path, or --robots-txt")
			}
			for _, p := range args {
				verdict := "allow"
				if a.policy.BlockIndex(p) {
					verdict = "noindex"
				}
				if _, err := fmt.Fprintf(out, "%s\t%s\n", verdict, p); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&robotsTxt, "robots-txt", false, "print the robots.txt the policy produces")
	return cmd
}
