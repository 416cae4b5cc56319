// cmd_show.go - Show Command
// Hauptfunktionen: ShowHandler
package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/7blacky7/openclip-go/config"
	"github.com/7blacky7/openclip-go/model"
	"github.com/7blacky7/openclip-go/pretrained"
)

// ShowHandler - Zeigt Details einer Architektur an
func ShowHandler(cmd *cobra.Command, args []string) error {
	name := args[0]

	cfg, ok := config.Get(name)
	if !ok {
		return fmt.Errorf("model config not found: %s", name)
	}

	// Tuerme ueber den Modellbau dekodieren, nicht per Hand parsen
	m, err := model.New(cfg)
	if err != nil {
		return err
	}

	p := func(k string, v any) {
		fmt.Printf("  %-18s %v\n", k, v)
	}

	fmt.Println(name)
	p("embed_dim", m.EmbedDim)
	p("quick_gelu", m.QuickGELU)

	fmt.Println("\nVision")
	p("image_size", m.Visual.ImageSize)
	if m.Visual.Layers.IsResNet() {
		p("layers", fmt.Sprintf("%v (ResNet)", m.Visual.Layers.Stages))
	} else {
		p("layers", strconv.Itoa(m.Visual.Layers.Depth))
	}
	p("width", m.Visual.Width)
	if m.Visual.PatchSize > 0 {
		p("patch_size", m.Visual.PatchSize)
	}

	fmt.Println("\nText")
	p("context_length", m.Text.ContextLength)
	p("vocab_size", m.Text.VocabSize)
	p("width", m.Text.Width)
	p("heads", m.Text.Heads)
	p("layers", m.Text.Layers)

	if tags := pretrained.Tags(name); len(tags) > 0 {
		fmt.Println("\nPretrained")
		for _, tag := range tags {
			fmt.Printf("  %s\n", tag)
		}
	}

	return nil
}

// newShowCmd - Erstellt den show Command
func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show MODEL",
		Short: "Show architecture details",
		Args:  cobra.ExactArgs(1),
		RunE:  ShowHandler,
	}
}
