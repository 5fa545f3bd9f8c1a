package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var installName string

var installCmd = &cobra.Command{
	Use:   "install <archive>",
	Short: "Install a mod from an archive",
	Long: `Extract an archive into a new mod directory and append the mod to
the order, disabled. Supported formats: .zip, .tar.gz, .tar.xz, and
.7z/.rar when the 7z command is available.

With no argument, lists extractable archives in the configured
downloads directory.

Examples:
  omm install ~/Downloads/SMIM-1.2.zip
  omm install ~/Downloads/SMIM-1.2.zip --name SMIM
  omm install`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInstall,
}

func init() {
	installCmd.Flags().StringVarP(&installName, "name", "n", "", "mod name (default: derived from the archive filename)")
	rootCmd.AddCommand(installCmd)
}

func runInstall(cmd *cobra.Command, args []string) error {
	session, closer, err := openSession()
	if err != nil {
		return err
	}
	defer closer()

	if len(args) == 0 {
		archives, err := session.Downloads()
		if err != nil {
			return err
		}
		if len(archives) == 0 {
			fmt.Println("No archives found in the downloads directory.")
			return nil
		}
		for _, archive := range archives {
			fmt.Println(archive)
		}
		return nil
	}

	mod, err := session.InstallArchive(cmd.Context(), args[0], installName)
	if err != nil {
		return err
	}
	if err := session.Save(); err != nil {
		return err
	}

	fmt.Printf("Installed %s (disabled).", mod.Name)
	fmt.Println()
	if mod.Fomod {
		fmt.Printf("This mod ships an installer; run 'omm configure %d' before enabling it.\n", len(session.Mods)-1)
	}
	return nil
}
