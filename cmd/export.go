package main

import (
	"strconv"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"

	"github.com/sells-group/prospect-cli/internal/model"
	"github.com/sells-group/prospect-cli/internal/store"
)

var (
	exportOut      string
	exportCategory string
	exportMinScore int
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export stored prospects to an XLSX workbook",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer func() { _ = st.Close() }()

		filter := store.ProspectFilter{MinScore: exportMinScore, Limit: 10000}
		if exportCategory != "" {
			cat, ok := model.ParseCategory(exportCategory)
			if !ok {
				return eris.Errorf("unknown category %q", exportCategory)
			}
			filter.Category = cat
		}

		prospects, err := st.ListProspects(ctx, filter)
		if err != nil {
			return err
		}

		if err := writeWorkbook(exportOut, prospects); err != nil {
			return err
		}

		zap.L().Info("export complete",
			zap.String("file", exportOut),
			zap.Int("prospects", len(prospects)),
		)
		return nil
	},
}

// exportHeader is the workbook column order.
var exportHeader = []string{
	"Name", "Title", "Organization", "Category", "Email", "Phone",
	"Website", "Profile URL", "Source URL", "Score",
}

// writeWorkbook renders prospects into one sheet per category plus an "All"
// sheet, the layout the outreach team works from.
func writeWorkbook(path string, prospects []model.Prospect) error {
	file := xlsx.NewFile()

	all, err := file.AddSheet("All")
	if err != nil {
		return eris.Wrap(err, "export: add sheet")
	}
	addHeaderRow(all)

	sheets := map[model.Category]*xlsx.Sheet{}
	for _, p := range prospects {
		addProspectRow(all, p)

		sheet, ok := sheets[p.Category]
		if !ok {
			sheet, err = file.AddSheet(string(p.Category))
			if err != nil {
				return eris.Wrapf(err, "export: add sheet %s", p.Category)
			}
			addHeaderRow(sheet)
			sheets[p.Category] = sheet
		}
		addProspectRow(sheet, p)
	}

	return eris.Wrapf(file.Save(path), "export: save %s", path)
}

func addHeaderRow(sheet *xlsx.Sheet) {
	row := sheet.AddRow()
	for _, h := range exportHeader {
		row.AddCell().Value = h
	}
}

func addProspectRow(sheet *xlsx.Sheet, p model.Prospect) {
	row := sheet.AddRow()
	for _, v := range []string{
		p.Name, p.Title, p.Organization, string(p.Category),
		p.Contact.Email, p.Contact.Phone, p.Contact.Website,
		p.Contact.ProfileURL, p.SourceURL, strconv.Itoa(p.Score),
	} {
		row.AddCell().Value = v
	}
}

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", "prospects.xlsx", "output file path")
	exportCmd.Flags().StringVar(&exportCategory, "category", "", "filter by category")
	exportCmd.Flags().IntVar(&exportMinScore, "min-score", 0, "minimum score")
	rootCmd.AddCommand(exportCmd)
}
