package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/groundwork/internal/app"
	"github.com/felixgeelhaar/groundwork/internal/domain/config"
	"github.com/felixgeelhaar/groundwork/internal/domain/platform"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the environment groundwork runs in",
	Long: `Doctor verifies the host before a run: the distribution, the tools
groundwork shells out to, the root account state, and whether a reboot
is pending. It changes nothing.`,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	settings, err := config.LoadSettings()
	if err != nil {
		return err
	}

	gw, err := newApp(newLogger(), settings)
	if err != nil {
		return err
	}

	issues := 0
	report := func(ok bool, label, detail string) {
		mark := "ok"
		if !ok {
			mark = "!!"
			issues++
		}
		if detail != "" {
			fmt.Printf("  %s %-24s %s\n", mark, label, detail)
			return
		}
		fmt.Printf("  %s %s\n", mark, label)
	}

	p := platform.Detect()
	report(p.IsUbuntu(), "platform", p.String())

	for _, tool := range []string{settings.SudoCommand, "git", settings.DownloadCommand, "apt-get", "snap"} {
		_, lookErr := gw.Runner().LookPath(tool)
		report(lookErr == nil, tool, "")
	}

	reportRootLock(ctx, gw, settings, report)

	if gw.RebootPending() {
		report(false, "reboot", "pending since an earlier update")
	} else {
		report(true, "reboot", "none pending")
	}

	if _, docErr := loadDocument(); docErr != nil {
		report(false, "config", formatError(docErr))
	} else {
		report(true, "config", "")
	}

	if issues > 0 {
		fmt.Printf("\nFound %d issues.\n", issues)
	} else {
		fmt.Println("\nNo issues found.")
	}

	if !p.IsUbuntu() {
		return gw.CheckPlatform(p)
	}
	return nil
}

// reportRootLock probes the root account password state the same way the
// root-lock step does.
func reportRootLock(ctx context.Context, gw *app.Groundwork, settings config.Settings, report func(bool, string, string)) {
	result, err := gw.Runner().Run(ctx, settings.SudoCommand, "passwd", "-S", "root")
	if err != nil || !result.Success() {
		report(true, "root account", "state unknown (needs sudo)")
		return
	}

	fields := strings.Fields(result.Stdout)
	if len(fields) < 2 {
		report(true, "root account", "state unknown")
		return
	}
	if fields[1] == "P" {
		report(false, "root account", "password set; 'groundwork install' locks it when configured")
		return
	}
	report(true, "root account", "password locked")
}
