// cmd_preprocess.go - Preprocess Command
// Hauptfunktionen: PreprocessHandler
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/stat"

	"github.com/7blacky7/openclip-go/config"
	"github.com/7blacky7/openclip-go/model"
	"github.com/7blacky7/openclip-go/transform"
)

// PreprocessHandler - Fuehrt die Bild-Pipeline aus und zeigt Tensor-Statistiken
func PreprocessHandler(cmd *cobra.Command, args []string) error {
	size, err := cmd.Flags().GetInt("size")
	if err != nil {
		return err
	}
	train, err := cmd.Flags().GetBool("train")
	if err != nil {
		return err
	}
	name, err := cmd.Flags().GetString("model")
	if err != nil {
		return err
	}

	// --model leitet die Bildgroesse aus der Architektur ab
	if name != "" {
		cfg, ok := config.Get(name)
		if !ok {
			return fmt.Errorf("model config not found: %s", name)
		}
		m, err := model.New(cfg)
		if err != nil {
			return err
		}
		size = m.VisualImageSize()
	}

	p := transform.ImageTransform(size, train)
	out, err := p.ProcessFile(args[0])
	if err != nil {
		return err
	}

	data := out.Data().([]float32)
	values := make([]float64, len(data))
	for i, v := range data {
		values[i] = float64(v)
	}

	mean, std := stat.MeanStdDev(values, nil)
	lo, hi := values[0], values[0]
	for _, v := range values {
		lo, hi = min(lo, v), max(hi, v)
	}

	fmt.Printf("shape   %v\n", out.Shape())
	fmt.Printf("mean    %.6f\n", mean)
	fmt.Printf("std     %.6f\n", std)
	fmt.Printf("min     %.6f\n", lo)
	fmt.Printf("max     %.6f\n", hi)

	return nil
}

// newPreprocessCmd - Erstellt den preprocess Command
func newPreprocessCmd() *cobra.Command {
	preprocessCmd := &cobra.Command{
		Use:   "preprocess IMAGE",
		Short: "Run the image pipeline and print tensor statistics",
		Args:  cobra.ExactArgs(1),
		RunE:  PreprocessHandler,
	}

	preprocessCmd.Flags().String("model", "", "Derive image size from this architecture")
	preprocessCmd.Flags().Int("size", 224, "Target image size")
	preprocessCmd.Flags().Bool("train", false, "Use the training pipeline (random crop)")

	return preprocessCmd
}
