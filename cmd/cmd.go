// cmd.go - Haupt-CLI Setup und Root Command
// Hauptfunktionen: NewCLI, appendEnvDocs
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/7blacky7/openclip-go/envconfig"
)

// appendEnvDocs - Fuegt Umgebungsvariablen-Dokumentation zum Command hinzu
func appendEnvDocs(cmd *cobra.Command, envs []envconfig.EnvVar) {
	if len(envs) == 0 {
		return
	}

	envUsage := `
Environment Variables:
`
	for _, e := range envs {
		envUsage += fmt.Sprintf("      %-24s   %s\n", e.Name, e.Description)
	}

	cmd.SetUsageTemplate(cmd.UsageTemplate() + envUsage)
}

// NewCLI - Erstellt das Haupt-CLI mit allen Commands
func NewCLI() *cobra.Command {
	cobra.EnableCommandSorting = false

	rootCmd := &cobra.Command{
		Use:           "openclip",
		Short:         "Multimodal model factory",
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Print(cmd.UsageString())
		},
	}

	listCmd := newListCmd()
	showCmd := newShowCmd()
	pullCmd := newPullCmd()
	preprocessCmd := newPreprocessCmd()

	envVars := envconfig.AsMap()
	for _, cmd := range []*cobra.Command{listCmd, showCmd} {
		appendEnvDocs(cmd, []envconfig.EnvVar{envVars["OPENCLIP_CONFIGS"]})
	}
	appendEnvDocs(pullCmd, []envconfig.EnvVar{
		envVars["OPENCLIP_CACHE"],
		envVars["OPENCLIP_NOPROGRESS"],
	})

	rootCmd.AddCommand(
		listCmd,
		showCmd,
		pullCmd,
		preprocessCmd,
	)

	return rootCmd
}
