// cmd_pull.go - Pull Command fuer vortrainierte Gewichte
// Hauptfunktionen: PullHandler
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/7blacky7/openclip-go/pretrained"
)

// PullHandler - Laedt vortrainierte Gewichte in den Cache
func PullHandler(cmd *cobra.Command, args []string) error {
	name := args[0]

	all, err := cmd.Flags().GetBool("all")
	if err != nil {
		return err
	}

	if all {
		var urls []string
		for _, tag := range pretrained.Tags(name) {
			urls = append(urls, pretrained.GetURL(name, tag))
		}
		if len(urls) == 0 {
			return fmt.Errorf("no pretrained weights known for %s", name)
		}

		paths, err := pretrained.DownloadAll(cmd.Context(), urls)
		if err != nil {
			return err
		}
		for _, p := range paths {
			fmt.Println(p)
		}
		return nil
	}

	tag := pretrained.TagOpenAI
	if len(args) > 1 {
		tag = args[1]
	}

	url := pretrained.GetURL(name, tag)
	if url == "" {
		return fmt.Errorf("no pretrained weights for %s:%s (known: %v)", name, tag, pretrained.Tags(name))
	}

	path, err := pretrained.Download(cmd.Context(), url)
	if err != nil {
		return err
	}

	fmt.Println(path)
	return nil
}

// newPullCmd - Erstellt den pull Command
func newPullCmd() *cobra.Command {
	pullCmd := &cobra.Command{
		Use:   "pull MODEL [TAG]",
		Short: "Download pretrained weights",
		Args:  cobra.RangeArgs(1, 2),
		RunE:  PullHandler,
	}

	pullCmd.Flags().Bool("all", false, "Download all known weights for the model")

	return pullCmd
}
