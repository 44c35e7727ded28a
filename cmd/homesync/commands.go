package main

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/homesync/pkg/commands"
)

func verbOptions() commands.Options {
	return commands.Options{
		DryRun:    dryRun,
		Verbose:   verbosity > 0,
		ForceYes:  forceYes,
		AllowRoot: allowRoot,
	}
}

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: MsgBackupShort,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := commands.Backup(verbOptions()); err != nil {
			return fail(err)
		}
		if dryRun {
			pterm.Info.Println("Dry run, nothing was changed")
		}
		return nil
	},
}

var restoreCmd = &cobra.Command{
	Use:   "restore",
	Short: MsgRestoreShort,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := commands.Restore(verbOptions()); err != nil {
			return fail(err)
		}
		if dryRun {
			pterm.Info.Println("Dry run, nothing was changed")
		}
		return nil
	},
}

var uninstallCmd = &cobra.Command{
	Use:   "uninstall",
	Short: MsgUninstallShort,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := commands.Uninstall(verbOptions()); err != nil {
			return fail(err)
		}
		if dryRun {
			pterm.Info.Println("Dry run, nothing was changed")
		}
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: MsgListShort,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		apps, err := commands.List()
		if err != nil {
			return fail(err)
		}
		rows := pterm.TableData{{"Name", "Application"}}
		for _, app := range apps {
			rows = append(rows, []string{app.Name, app.DisplayName})
		}
		return pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
	},
}
