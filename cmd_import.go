package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/camden-git/communitybackend/apperr"
	"github.com/camden-git/communitybackend/database"
	"github.com/camden-git/communitybackend/importer"
)

type importOptions struct {
	file           string
	createSurnames bool
	country        string
}

func newImportCmd() *cobra.Command {
	var opts importOptions

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import members from a family book workbook or a Dashboard CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(opts.file)
			if err != nil {
				return apperr.Wrap(err, apperr.KindDecode, "input file could not be read")
			}

			a, err := loadApp()
			if err != nil {
				return err
			}
			defer a.close()

			if err := database.AutoMigrateModels(a.db); err != nil {
				return err
			}
			store, err := a.mediaStore()
			if err != nil {
				return err
			}

			importOpts := importer.Options{
				DefaultCountry:        a.cfg.DefaultCountry,
				CreateMissingSurnames: a.cfg.CreateMissingSurnames || opts.createSurnames,
			}
			if opts.country != "" {
				importOpts.DefaultCountry = opts.country
			}

			im := importer.New(a.db, store, importer.NewKeyedLock(), importOpts, a.log)
			result, err := im.Import(cmd.Context(), filepath.Base(opts.file), data)
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.file, "file", "", "Workbook (.xlsx) or CSV file to import (required)")
	cmd.Flags().BoolVar(&opts.createSurnames, "create-surnames", false, "Create surnames for unknown sheet names instead of skipping them")
	cmd.Flags().StringVar(&opts.country, "country", "", "Country for rows without one (default from DEFAULT_COUNTRY)")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}
