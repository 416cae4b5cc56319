// cmd_list.go - List Command
// Hauptfunktionen: ListHandler
package cmd

import (
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/7blacky7/openclip-go/openclip"
	"github.com/7blacky7/openclip-go/pretrained"
)

// ListHandler - Listet alle registrierten Architekturen auf
func ListHandler(cmd *cobra.Command, args []string) error {
	var data [][]string

	for _, name := range openclip.ListModels() {
		if len(args) > 0 && !strings.HasPrefix(strings.ToLower(name), strings.ToLower(args[0])) {
			continue
		}

		tags := pretrained.Tags(name)
		weights := "-"
		if len(tags) > 0 {
			weights = strings.Join(tags, ", ")
		}

		data = append(data, []string{name, weights})
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"NAME", "PRETRAINED"})
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetNoWhiteSpace(true)
	table.SetTablePadding("    ")
	table.AppendBulk(data)
	table.Render()

	return nil
}

// newListCmd - Erstellt den list Command
func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list [PREFIX]",
		Aliases: []string{"ls"},
		Short:   "List model architectures",
		Args:    cobra.MaximumNArgs(1),
		RunE:    ListHandler,
	}
}
