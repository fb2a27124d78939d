package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/prospect-cli/internal/model"
	"github.com/sells-group/prospect-cli/internal/store"
)

var (
	prospectsCategory string
	prospectsMinScore int
	prospectsLimit    int
	prospectsJSON     bool
)

var prospectsCmd = &cobra.Command{
	Use:   "prospects",
	Short: "List stored prospects",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer func() { _ = st.Close() }()

		filter := store.ProspectFilter{
			MinScore: prospectsMinScore,
			Limit:    prospectsLimit,
		}
		if prospectsCategory != "" {
			cat, ok := model.ParseCategory(prospectsCategory)
			if !ok {
				return eris.Errorf("unknown category %q", prospectsCategory)
			}
			filter.Category = cat
		}

		prospects, err := st.ListProspects(ctx, filter)
		if err != nil {
			return err
		}

		if prospectsJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return eris.Wrap(enc.Encode(prospects), "encode prospects")
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "SCORE\tNAME\tTITLE\tORGANIZATION\tCATEGORY\tEMAIL\tPHONE")
		for _, p := range prospects {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
				p.Score, p.Name, p.Title, p.Organization, p.Category,
				p.Contact.Email, p.Contact.Phone)
		}
		if err := w.Flush(); err != nil {
			return eris.Wrap(err, "flush output")
		}

		zap.L().Info("prospects listed", zap.Int("count", len(prospects)))
		return nil
	},
}

func init() {
	prospectsCmd.Flags().StringVar(&prospectsCategory, "category", "", "filter by category")
	prospectsCmd.Flags().IntVar(&prospectsMinScore, "min-score", 0, "minimum score")
	prospectsCmd.Flags().IntVar(&prospectsLimit, "limit", 100, "maximum rows")
	prospectsCmd.Flags().BoolVar(&prospectsJSON, "json", false, "print as JSON")
	rootCmd.AddCommand(prospectsCmd)
}
