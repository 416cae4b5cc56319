// MODUL: openai
// ZWECK: Laden der Original-Provider-Modelle (OpenAI CLIP)
// INPUT: Modell-Name, Device, JIT-Flag
// OUTPUT: Fertiges model.Model mit geladenen Gewichten
// NEBENEFFEKTE: Download in das Checkpoint-Cache-Verzeichnis
// ABHAENGIGKEITEN: pretrained (URL-Registry, Download), checkpoint, model
// HINWEISE: Nutzt ausschliesslich die eingebetteten Presets, nie eine
//           vom Aufrufer registrierte Config-Quelle. OpenAI-Modelle
//           verwenden immer QuickGELU.

package openai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/7blacky7/openclip-go/checkpoint"
	"github.com/7blacky7/openclip-go/config"
	"github.com/7blacky7/openclip-go/model"
	"github.com/7blacky7/openclip-go/pretrained"
)

// ErrUnknownModel wird zurueckgegeben wenn der Provider das Modell
// nicht kennt.
var ErrUnknownModel = errors.New("openai: unknown model")

// presets enthaelt nur die eingebetteten Architekturen.
// Bewusst getrennt von config.DefaultRegistry: der Provider-Pfad darf
// nie auf Aufrufer-Quellen zugreifen.
var presets = config.NewRegistry()

// Models gibt die Namen der verfuegbaren Provider-Modelle in
// natuerlicher Ordnung zurueck.
func Models() []string {
	var names []string
	for _, name := range presets.List() {
		if pretrained.Has(name, pretrained.TagOpenAI) {
			names = append(names, name)
		}
	}
	return names
}

// Load laedt ein Provider-Modell: Checkpoint herunterladen, Gewichte in
// die passende Preset-Architektur laden, auf das Ziel-Geraet verschieben.
func Load(ctx context.Context, name string, device model.Device, jit bool) (*model.Model, error) {
	url := pretrained.GetURL(name, pretrained.TagOpenAI)
	if url == "" {
		return nil, fmt.Errorf("%w: %s (available: %v)", ErrUnknownModel, name, Models())
	}

	cfg, ok := presets.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s has weights but no preset architecture", ErrUnknownModel, name)
	}

	path, err := pretrained.Download(ctx, url)
	if err != nil {
		return nil, err
	}

	sd, err := checkpoint.Load(path)
	if err != nil {
		return nil, err
	}

	cfg = cfg.Clone()
	cfg.QuickGELU = true

	m, err := model.New(cfg)
	if err != nil {
		return nil, err
	}
	if err := m.LoadStateDict(sd); err != nil {
		return nil, err
	}

	slog.Debug("loaded provider model", "model", name, "params", m.ParamCount())

	m.To(device)
	if jit {
		m.Trace()
	}

	return m, nil
}
