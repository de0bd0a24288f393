package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/princinho/storefront/config"
	"github.com/princinho/storefront/database"
	"github.com/princinho/storefront/logger"
	"github.com/princinho/storefront/utils"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "seed",
		Short:         "Load a product catalogue into the storefront database",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(newImportCommand())
	return cmd
}

func newImportCommand() *cobra.Command {
	var (
		file         string
		mirrorImages bool
		dryRun       bool
		workers      int
	)

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import products, categories and their reviews from a JSON file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if err := logger.Init(cfg.App.Env); err != nil {
				return err
			}

			f, err := os.Open(file)
			if err != nil {
				return fmt.Errorf("open catalogue: %w", err)
			}
			defer f.Close()

			cat, err := parseCatalogue(f)
			if err != nil {
				return err
			}
			logger.Info("catalogue parsed",
				zap.Int("products", len(cat.Products)),
				zap.Int("categories", len(cat.Categories)),
				zap.Int("reviews", len(cat.Reviews)),
			)
			if dryRun {
				return nil
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Minute)
			defer cancel()

			if mirrorImages {
				images, err := utils.NewImageStore(ctx, cfg.Storage)
				if err != nil {
					return fmt.Errorf("image store: %w", err)
				}
				if images == nil {
					return fmt.Errorf("--mirror-images needs STORAGE_PROVIDER gcs or r2")
				}
				defer images.Close()

				m := newMirror(images, nil, workers)
				if err := m.Run(ctx, cat.Products); err != nil {
					return err
				}
			}

			client, err := database.Connect(ctx, cfg.Mongo)
			if err != nil {
				return err
			}
			defer func() { _ = client.Disconnect(context.Background()) }()

			db := client.Database(cfg.Mongo.Database)
			if err := database.EnsureIndexes(ctx, db); err != nil {
				return err
			}
			return load(ctx, database.NewMongoStore(db), cat)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "products.json", "catalogue file (dummyjson format)")
	cmd.Flags().BoolVar(&mirrorImages, "mirror-images", false, "copy product images into the configured bucket")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "parse and report without writing")
	cmd.Flags().IntVar(&workers, "workers", 4, "concurrent image downloads")
	return cmd
}
