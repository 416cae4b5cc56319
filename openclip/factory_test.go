// MODUL: factory_test
// ZWECK: Tests fuer die Modell-Factory-Fassade
// HINWEISE: Nutzt WithRegistry fuer Isolation von der globalen Registry

package openclip

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/pdevine/tensor"
	"github.com/stretchr/testify/require"

	"github.com/7blacky7/openclip-go/checkpoint"
	"github.com/7blacky7/openclip-go/config"
	"github.com/7blacky7/openclip-go/model"
	"github.com/7blacky7/openclip-go/openai"
)

func TestCreateModelFromConfig(t *testing.T) {
	m, err := CreateModel(context.Background(), "ViT-B-32")
	require.NoError(t, err)

	require.Equal(t, 512, m.EmbedDim)
	require.Equal(t, 224, m.VisualImageSize())
	require.Equal(t, model.DTypeFP32, m.DType())
	require.False(t, m.QuickGELU)
	require.True(t, m.Device().IsCPU())
}

func TestCreateModelUnknownName(t *testing.T) {
	_, err := CreateModel(context.Background(), "ViT-B-33")
	require.ErrorIs(t, err, ErrModelConfigNotFound)

	// Levenshtein-Vorschlag fuer den Tippfehler
	require.Contains(t, err.Error(), "ViT-B-32")
}

func TestCreateModelSlashNormalized(t *testing.T) {
	// HF-Style Namen mit Slash werden auf Dateinamen-Form abgebildet
	m, err := CreateModel(context.Background(), "ViT-B/32")
	require.NoError(t, err)
	require.Equal(t, 512, m.EmbedDim)
}

func TestCreateModelForceQuickGELU(t *testing.T) {
	m, err := CreateModel(context.Background(), "RN50", WithForceQuickGELU(true))
	require.NoError(t, err)
	require.True(t, m.QuickGELU)

	// Registry-Eintrag bleibt unveraendert (Clone-Semantik)
	cfg, ok := config.Get("RN50")
	require.True(t, ok)
	require.False(t, cfg.QuickGELU)
}

func TestCreateModelLocalCheckpoint(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weights.safetensors")

	sd := checkpoint.NewStateDict()
	sd.Set("visual.proj", tensor.New(tensor.WithShape(2, 2), tensor.WithBacking([]float32{1, 2, 3, 4})))
	require.NoError(t, checkpoint.SaveSafetensors(path, sd))

	m, err := CreateModel(context.Background(), "RN50", WithPretrained(path))
	require.NoError(t, err)
	require.Equal(t, int64(4), m.ParamCount())
	require.Equal(t, []string{"visual.proj"}, checkpoint.Keys(m.StateDict()))
}

func TestCreateModelPretrainedNotFound(t *testing.T) {
	_, err := CreateModel(context.Background(), "RN50", WithPretrained("no-such-tag"))
	require.ErrorIs(t, err, ErrPretrainedNotFound)
}

func TestCreateModelHalfOnCPU(t *testing.T) {
	_, err := CreateModel(context.Background(), "ViT-B-32", WithPrecision(model.PrecisionFP16))
	require.ErrorIs(t, err, model.ErrHalfOnCPU)
}

func TestCreateModelUnknownPrecisionPassThrough(t *testing.T) {
	// Unbekannte Precision loest nichts aus, insbesondere keinen Fehler
	m, err := CreateModel(context.Background(), "ViT-B-32", WithPrecision("bf16"))
	require.NoError(t, err)
	require.Equal(t, model.DTypeFP32, m.DType())
}

func TestCreateModelJIT(t *testing.T) {
	m, err := CreateModel(context.Background(), "ViT-B-32", WithJIT(true))
	require.NoError(t, err)
	require.True(t, m.Traced())
}

func TestProviderPathIgnoresRegistry(t *testing.T) {
	// Eine Aufrufer-Registry darf den Provider-Pfad nicht beeinflussen:
	// ein nur dort registrierter Name bleibt dem Provider unbekannt.
	reg := config.NewRegistry()
	dir := t.TempDir()
	writeConfig(t, dir, "Custom-Model.json")
	reg.AddPath(dir)

	_, err := CreateModel(context.Background(), "Custom-Model",
		WithPretrained("OpenAI"), WithRegistry(reg))
	require.ErrorIs(t, err, openai.ErrUnknownModel)
}

func TestCreateModelCustomRegistry(t *testing.T) {
	reg := config.NewRegistry()
	dir := t.TempDir()
	writeConfig(t, dir, "Custom-Model.json")
	reg.AddPath(dir)

	m, err := CreateModel(context.Background(), "Custom-Model", WithRegistry(reg))
	require.NoError(t, err)
	require.Equal(t, 64, m.EmbedDim)

	// Globale Registry kennt den Namen nicht
	require.False(t, config.DefaultRegistry.Has("Custom-Model"))
}

func TestCreateModelAndTransforms(t *testing.T) {
	m, train, eval, err := CreateModelAndTransforms(context.Background(), "ViT-B-32")
	require.NoError(t, err)

	require.Equal(t, m.VisualImageSize(), train.ImageSize())
	require.Equal(t, m.VisualImageSize(), eval.ImageSize())
	require.True(t, train.IsTrain())
	require.False(t, eval.IsTrain())
}

func TestListModels(t *testing.T) {
	names := ListModels()
	for _, want := range []string{"RN50", "RN101", "ViT-B-16", "ViT-B-32", "ViT-L-14"} {
		if !slices.Contains(names, want) {
			t.Errorf("%s fehlt in ListModels: %v", want, names)
		}
	}
}

func TestClosestName(t *testing.T) {
	candidates := []string{"RN50", "ViT-B-32", "ViT-L-14"}

	if got := closestName("vit-b-32", candidates); got != "ViT-B-32" {
		t.Errorf("closestName = %q", got)
	}
	if got := closestName("completely-unrelated-name", candidates); got != "" {
		t.Errorf("erwartet keinen Vorschlag, bekam %q", got)
	}
}

// writeConfig legt ein minimales gueltiges Architektur-Dokument ab.
func writeConfig(t *testing.T, dir, name string) {
	t.Helper()

	doc := `{
		"embed_dim": 64,
		"vision_cfg": {"image_size": 32, "layers": 2, "width": 64, "patch_size": 16},
		"text_cfg": {"context_length": 16, "vocab_size": 1000, "width": 64, "heads": 2, "layers": 2}
	}`
	if err := os.WriteFile(filepath.Join(dir, name), []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
}
