package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Additional-Code/orderloader/internal/app"
	"github.com/Additional-Code/orderloader/internal/config"
	"github.com/Additional-Code/orderloader/internal/ingest"
	"github.com/Additional-Code/orderloader/internal/loader"
	repositoryorder "github.com/Additional-Code/orderloader/internal/repository/order"
	"github.com/Additional-Code/orderloader/internal/seeder"
)

// NewRootCommand builds the root orderloader CLI command.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "orderloader",
		Short: "Batch loader for JSON order documents",
	}

	root.AddCommand(newLoadCmd())
	root.AddCommand(newSchemaCmd())
	root.AddCommand(newSeedCmd())

	return root
}

// Execute runs the orderloader CLI.
func Execute() error {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return err
	}
	return nil
}

func newLoadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "load [file]",
		Short: "Load an order batch into the store",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				cfg  config.Config
				log  *zap.Logger
				ld   *loader.Loader
				repo *repositoryorder.Repository
				pipe *ingest.Pipeline
			)
			opts := fx.Options(app.Core, fx.Populate(&cfg, &log, &ld, &repo, &pipe))
			return runWithApp(cmd.Context(), opts, func(ctx context.Context) error {
				path := cfg.Input.Path
				if flagInput, _ := cmd.Flags().GetString("input"); flagInput != "" {
					path = flagInput
				}
				if len(args) == 1 {
					path = args[0]
				}

				if err := repo.EnsureSchema(ctx); err != nil {
					log.Error("schema setup failed", zap.Error(err))
					return err
				}

				records, err := ld.ReadFile(path)
				if err != nil {
					log.Error("input load failed", zap.Error(err))
					return err
				}

				res, err := pipe.Run(ctx, records)
				if err != nil {
					log.Error("batch failed", zap.Error(err))
					return err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "inserted=%d, skipped=%d, errors=%d\n",
					res.Inserted, res.Skipped, res.Errors)
				return nil
			})
		},
	}
	cmd.Flags().String("input", "", "Path to the JSON order batch (overrides LOADER_INPUT_PATH)")
	return cmd
}

func newSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Create the orders table if absent",
		RunE: func(cmd *cobra.Command, args []string) error {
			var repo *repositoryorder.Repository
			opts := fx.Options(app.Core, fx.Populate(&repo))
			return runWithApp(cmd.Context(), opts, func(ctx context.Context) error {
				if err := repo.EnsureSchema(ctx); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "schema ready")
				return nil
			})
		},
	}
}

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert example orders",
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				repo *repositoryorder.Repository
				seed *seeder.Seeder
			)
			opts := fx.Options(app.Core, seeder.Module, fx.Populate(&repo, &seed))
			return runWithApp(cmd.Context(), opts, func(ctx context.Context) error {
				if err := repo.EnsureSchema(ctx); err != nil {
					return err
				}
				if err := seed.Orders(ctx); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "seed data applied")
				return nil
			})
		},
	}
}

// runWithApp starts an fx app, runs fn, and always stops the app afterwards,
// releasing the store connection on every exit path.
func runWithApp(ctx context.Context, opts fx.Option, fn func(context.Context) error) error {
	application := fx.New(opts, fx.NopLogger)
	if err := application.Start(ctx); err != nil {
		return err
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = application.Stop(stopCtx)
	}()
	return fn(ctx)
}
