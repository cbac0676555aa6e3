package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/spboyer/prepscore/internal/projectconfig"
	"github.com/spboyer/prepscore/internal/wizard"
)

func newInitCommand() *cobra.Command {
	var interactive bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a PrepScore project",
		Long: `Initialize a project directory with a .prepscore.yaml configuration.

Use --interactive to run a guided wizard that collects paths, the scoring
engine, and server settings. Without it, a config with the defaults is
written.

If no directory is specified, the current directory is used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return initCommandE(cmd, args, interactive)
		},
	}

	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Run the guided configuration wizard")

	return cmd
}

func initCommandE(cmd *cobra.Command, args []string, interactive bool) error {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}

	// Create the root directory if it doesn't exist
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	configPath := filepath.Join(dir, ".prepscore.yaml")
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("%s already exists", configPath)
	}

	spec := &wizard.ProjectSpec{
		ModelPath:    projectconfig.DefaultModelPath,
		DatabasePath: projectconfig.DefaultDatabasePath,
		OutputPath:   projectconfig.DefaultOutputPath,
		Engine:       projectconfig.DefaultEngine,
		Port:         projectconfig.DefaultServerPort,
		Workers:      projectconfig.DefaultExportWorkers,
	}

	if interactive {
		var err error
		spec, err = wizard.RunProjectWizard(cmd.InOrStdin(), cmd.OutOrStdout())
		if err != nil {
			return err
		}
	}

	content, err := wizard.GenerateConfigYAML(spec)
	if err != nil {
		return err
	}
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", configPath, err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Initialized PrepScore project:") //nolint:errcheck
	fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", configPath)              //nolint:errcheck

	return nil
}
