package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/groundwork/internal/app"
	"github.com/felixgeelhaar/groundwork/internal/domain/config"
	"github.com/felixgeelhaar/groundwork/internal/domain/platform"
	"github.com/felixgeelhaar/groundwork/internal/ports"
	"github.com/felixgeelhaar/groundwork/internal/selfupdate"
)

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Bring the workstation to the configured state",
	Long: `Install probes every configured step and applies the ones whose
desired state does not hold.

The run is idempotent: steps that are already satisfied are left alone,
and a failed run can be repeated safely. Before anything is applied the
checkout containing the binary is fast-forwarded from upstream, so the
machine is set up from current code.`,
	RunE: runInstall,
}

var noSelfUpdate bool

func init() {
	installCmd.Flags().BoolVar(&noSelfUpdate, "no-self-update", false, "skip the pre-run self-update check")

	rootCmd.AddCommand(installCmd)
}

// Test seams for process-level facts.
var (
	geteuid        = os.Geteuid
	executablePath = os.Executable
)

// newApp builds the application; replaced in tests.
var newApp = func(logger ports.Logger, settings config.Settings) (*app.Groundwork, error) {
	return app.New(logger, settings)
}

func runInstall(_ *cobra.Command, _ []string) error {
	ctx := context.Background()
	logger := newLogger()

	// Refuse to run as root before doing anything at all. Steps elevate
	// individual commands with sudo; a root run would litter the home
	// directory with root-owned files.
	if geteuid() == 0 {
		return &config.UserError{
			Message:    "groundwork must not run as root",
			Suggestion: "Run it as your normal user; steps that need privileges use sudo.",
		}
	}

	settings, err := config.LoadSettings()
	if err != nil {
		return err
	}

	gw, err := newApp(logger, settings)
	if err != nil {
		return err
	}

	if err := gw.CheckPlatform(platform.Detect()); err != nil {
		return err
	}

	if !noSelfUpdate {
		updated, err := runSelfUpdate(ctx, gw, logger, settings)
		if err != nil {
			logger.Warn(ctx, "self-update failed, continuing with current code", ports.F("error", err.Error()))
		}
		if updated {
			fmt.Println("groundwork was updated; run 'groundwork install' again to use the new version.")
			return nil
		}
	}

	if gw.RebootPending() {
		fmt.Println("A system reboot is pending from an earlier update.")
		if !confirm("Continue without rebooting?") {
			fmt.Println("Aborted. Reboot and run 'groundwork install' again.")
			return nil
		}
	}

	doc, err := loadDocument()
	if err != nil {
		return err
	}

	plan, err := gw.Plan(ctx, doc)
	if err != nil {
		return err
	}

	renderer := app.NewRenderer(os.Stdout)
	renderer.PrintPlan(plan)

	if !plan.HasChanges() {
		fmt.Println("\nNothing to apply.")
		return nil
	}

	if !confirm(fmt.Sprintf("\nApply %d steps?", plan.Summary().NeedsApply)) {
		fmt.Println("Aborted.")
		return nil
	}

	fmt.Println()
	report := gw.Apply(ctx, plan)
	renderer.PrintReport(report)

	if report.Failed() {
		return fmt.Errorf("%d steps failed; fix the causes and run 'groundwork install' again", report.Summary().Failed)
	}
	return nil
}

// runSelfUpdate fast-forwards the checkout the binary runs from. Returns
// true when an update landed and the run should stop.
func runSelfUpdate(ctx context.Context, gw *app.Groundwork, logger ports.Logger, settings config.Settings) (bool, error) {
	exe, err := executablePath()
	if err != nil {
		return false, fmt.Errorf("locating binary: %w", err)
	}

	guard := selfupdate.NewGuard(gw.Runner(), logger, filepath.Dir(exe), settings.UpdateRemote, settings.UpdateBranch)
	result, err := guard.Run(ctx)
	if err != nil {
		return false, err
	}
	return result == selfupdate.ResultUpdated, nil
}
