package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/prospect-cli/internal/extract"
	"github.com/sells-group/prospect-cli/internal/model"
)

var (
	routesRulesFile string
	routesCategory  string
)

var routesCmd = &cobra.Command{
	Use:   "routes URL [URL...]",
	Short: "Show which extractor the routing table picks for a URL",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rules, err := loadRouterRules(routesRulesFile)
		if err != nil {
			return err
		}

		cat := model.CategoryPediatricians
		if routesCategory != "" {
			c, ok := model.ParseCategory(routesCategory)
			if !ok {
				return eris.Errorf("unknown category %q", routesCategory)
			}
			cat = c
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "URL\tEXTRACTOR")
		for _, u := range args {
			fmt.Fprintf(w, "%s\t%s\n", u, extract.Resolve(rules, u, cat))
		}
		return eris.Wrap(w.Flush(), "flush output")
	},
}

func init() {
	routesCmd.Flags().StringVar(&routesRulesFile, "rules", "", "YAML rules file evaluated before the built-in table")
	routesCmd.Flags().StringVar(&routesCategory, "category", "", "category used for unmatched-domain fallback")
	rootCmd.AddCommand(routesCmd)
}
