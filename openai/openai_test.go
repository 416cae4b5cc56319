// MODUL: openai_test
// ZWECK: Tests fuer den Original-Provider-Loader
package openai

import (
	"context"
	"errors"
	"slices"
	"testing"
)

func TestModels(t *testing.T) {
	models := Models()
	if len(models) == 0 {
		t.Fatal("keine Provider-Modelle")
	}

	for _, want := range []string{"RN50", "ViT-B-32", "ViT-L-14"} {
		if !slices.Contains(models, want) {
			t.Errorf("%s fehlt: %v", want, models)
		}
	}

	// natuerliche Ordnung der Presets bleibt erhalten
	if i16, i32 := slices.Index(models, "ViT-B-16"), slices.Index(models, "ViT-B-32"); i16 > i32 {
		t.Errorf("ViT-B-16 muss vor ViT-B-32 stehen: %v", models)
	}
}

func TestLoadUnknownModel(t *testing.T) {
	_, err := Load(context.Background(), "GPT-7", "cpu", false)
	if !errors.Is(err, ErrUnknownModel) {
		t.Errorf("err = %v, erwartet ErrUnknownModel", err)
	}
}
