package main

import (
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/prospect-cli/internal/model"
	"github.com/sells-group/prospect-cli/internal/pipeline"
)

var (
	discoverCategories []string
	discoverLocation   string
	discoverMax        int
	discoverJSON       bool
)

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Run a discovery request for one or more categories in a location",
	Example: `  prospect-cli discover --category pediatricians --location "Washington DC"
  prospect-cli discover --category embassies --category psychologists --location "Washington DC" --max 50`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		var categories []model.Category
		for _, c := range discoverCategories {
			cat, ok := model.ParseCategory(c)
			if !ok {
				return eris.Errorf("unknown category %q (supported: %v)", c, model.Categories)
			}
			categories = append(categories, cat)
		}

		env, err := initPipeline(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		result, err := env.Pipeline.Run(ctx, pipeline.Request{
			Categories: categories,
			Location:   discoverLocation,
			MaxResults: discoverMax,
		})
		if err != nil {
			return err
		}

		if discoverJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return eris.Wrap(enc.Encode(result), "encode result")
		}

		for _, p := range result.Prospects {
			zap.L().Info("prospect",
				zap.String("name", p.Name),
				zap.String("title", p.Title),
				zap.String("organization", p.Organization),
				zap.String("category", string(p.Category)),
				zap.String("email", p.Contact.Email),
				zap.String("phone", p.Contact.Phone),
				zap.Int("score", p.Score),
			)
		}
		for _, f := range result.Failures {
			zap.L().Warn("failure", zap.String("url", f.URL), zap.String("reason", f.Reason))
		}
		zap.L().Info("done",
			zap.Int("prospects", len(result.Prospects)),
			zap.Any("per_category", result.PerCategoryCounts),
		)
		return nil
	},
}

func init() {
	discoverCmd.Flags().StringArrayVar(&discoverCategories, "category", nil, "category to search (repeatable)")
	discoverCmd.Flags().StringVar(&discoverLocation, "location", "", "target location, e.g. \"Washington DC\"")
	discoverCmd.Flags().IntVar(&discoverMax, "max", 50, "maximum prospects to return")
	discoverCmd.Flags().BoolVar(&discoverJSON, "json", false, "print the full result as JSON")
	_ = discoverCmd.MarkFlagRequired("category")
	_ = discoverCmd.MarkFlagRequired("location")
	rootCmd.AddCommand(discoverCmd)
}
