package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/groundwork/internal/app"
	"github.com/felixgeelhaar/groundwork/internal/domain/config"
	"github.com/felixgeelhaar/groundwork/internal/domain/platform"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show what install would change, without changing anything",
	Long: `Plan probes every configured step and prints what install would do.

Nothing is mutated: already-satisfied steps show as ok, pending steps
show the change they would make, and steps whose probe failed show why.`,
	RunE: runPlan,
}

func init() {
	rootCmd.AddCommand(planCmd)
}

func runPlan(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	settings, err := config.LoadSettings()
	if err != nil {
		return err
	}

	gw, err := newApp(newLogger(), settings)
	if err != nil {
		return err
	}

	if err := gw.CheckPlatform(platform.Detect()); err != nil {
		return err
	}

	doc, err := loadDocument()
	if err != nil {
		return err
	}

	plan, err := gw.Plan(ctx, doc)
	if err != nil {
		return err
	}

	app.NewRenderer(os.Stdout).PrintPlan(plan)
	return nil
}
