// MODUL: factory
// ZWECK: Oeffentliche Fassade: Modell-Erzeugung aus Name + Optionen
// INPUT: Architektur-Name, funktionale Optionen (Gewichte, Precision, Device)
// OUTPUT: Fertiges model.Model, optional mit Preprocessing-Pipelines
// NEBENEFFEKTE: Downloads in das Cache-Verzeichnis, Registry-Scans
// ABHAENGIGKEITEN: config, checkpoint, pretrained, model, transform, openai
// HINWEISE: "openai" als Pretrained-Wert waehlt den Provider-Pfad und
//           ignoriert die Config-Registry vollstaendig

package openclip

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/7blacky7/openclip-go/checkpoint"
	"github.com/7blacky7/openclip-go/config"
	"github.com/7blacky7/openclip-go/model"
	"github.com/7blacky7/openclip-go/openai"
	"github.com/7blacky7/openclip-go/pretrained"
	"github.com/7blacky7/openclip-go/transform"
)

// ============================================================================
// Fehler-Definitionen
// ============================================================================

var (
	// ErrModelConfigNotFound: kein Architektur-Dokument fuer den Namen.
	ErrModelConfigNotFound = errors.New("openclip: model config not found")

	// ErrPretrainedNotFound: Pretrained-Wert ist weder bekannter Tag
	// noch existierende Datei.
	ErrPretrainedNotFound = errors.New("openclip: pretrained weights not found")
)

// ============================================================================
// CreateModel - Kern der Factory
// ============================================================================

// CreateModel baut ein Modell fuer den gegebenen Architektur-Namen.
//
// Zwei Pfade:
//   - Pretrained == "openai" (case-insensitiv): Provider-Pfad. Die
//     Architektur kommt aus den eingebetteten Presets des Providers,
//     nie aus der Registry. Precision amp/fp32 konvertiert die
//     Gewichte anschliessend nach fp32.
//   - Sonst: Config-Pfad. Architektur aus der Registry, optional
//     Gewichte per Tag-Download oder lokalem Checkpoint-Pfad.
func CreateModel(ctx context.Context, name string, opts ...Option) (*model.Model, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	// Bindestriche in Dateinamen, Slashes in HF-Style Namen angleichen
	name = strings.ReplaceAll(name, "/", "-")

	if strings.EqualFold(o.pretrained, pretrained.TagOpenAI) {
		return createProviderModel(ctx, name, o)
	}
	return createConfigModel(ctx, name, o)
}

// createProviderModel laedt ein Original-Provider-Modell und passt die
// Praezision an den angeforderten Modus an.
func createProviderModel(ctx context.Context, name string, o createOptions) (*model.Model, error) {
	slog.Info("loading pretrained model from provider", "model", name)

	m, err := openai.Load(ctx, name, o.device, o.jit)
	if err != nil {
		return nil, err
	}

	// Provider-Checkpoints sind fp16; amp und fp32 brauchen float-Gewichte
	if o.precision == model.PrecisionAMP || o.precision == model.PrecisionFP32 {
		m.Float()
	}

	return m, nil
}

// createConfigModel baut das Modell aus einem Registry-Dokument.
func createConfigModel(ctx context.Context, name string, o createOptions) (*model.Model, error) {
	cfg, ok := o.registry.Get(name)
	if !ok {
		available := o.registry.List()
		slog.Error("model config not found", "model", name, "available", available)

		if hint := closestName(name, available); hint != "" {
			return nil, fmt.Errorf("%w: %s (did you mean %q?)", ErrModelConfigNotFound, name, hint)
		}
		return nil, fmt.Errorf("%w: %s", ErrModelConfigNotFound, name)
	}

	slog.Info("building model from config", "model", name)

	cfg = cfg.Clone()
	if o.forceQuickGELU {
		cfg.QuickGELU = true
	}

	m, err := model.New(cfg)
	if err != nil {
		return nil, err
	}

	if o.pretrained != "" {
		path, err := resolveWeights(ctx, name, o.pretrained)
		if err != nil {
			return nil, err
		}

		sd, err := checkpoint.Load(path)
		if err != nil {
			return nil, err
		}
		if err := m.LoadStateDict(sd); err != nil {
			return nil, err
		}

		slog.Info("loaded pretrained weights", "model", name, "source", o.pretrained, "params", m.ParamCount())
	}

	m.To(o.device)

	if o.precision == model.PrecisionFP16 {
		if err := model.ConvertWeightsToFP16(m); err != nil {
			return nil, err
		}
	}

	if o.jit {
		m.Trace()
	}

	return m, nil
}

// resolveWeights loest einen Pretrained-Wert auf: erst als bekannten
// Tag (Download), dann als lokalen Dateipfad.
func resolveWeights(ctx context.Context, name, source string) (string, error) {
	if url := pretrained.GetURL(name, source); url != "" {
		return pretrained.Download(ctx, url)
	}

	if _, err := os.Stat(source); err == nil {
		return source, nil
	}

	slog.Warn("pretrained weights not found",
		"model", name, "requested", source, "known_tags", pretrained.Tags(name))
	return "", fmt.Errorf("%w: %s for model %s", ErrPretrainedNotFound, source, name)
}

// ============================================================================
// CreateModelAndTransforms - Modell plus Preprocessing
// ============================================================================

// CreateModelAndTransforms baut das Modell und die zwei passenden
// Preprocessing-Pipelines (Training und Evaluation), dimensioniert auf
// die Bildgroesse des Vision-Turms.
func CreateModelAndTransforms(ctx context.Context, name string, opts ...Option) (*model.Model, *transform.Pipeline, *transform.Pipeline, error) {
	m, err := CreateModel(ctx, name, opts...)
	if err != nil {
		return nil, nil, nil, err
	}

	size := m.VisualImageSize()
	train := transform.ImageTransform(size, true)
	eval := transform.ImageTransform(size, false)

	return m, train, eval, nil
}

// ============================================================================
// Registry-Fassade
// ============================================================================

// ListModels gibt die Namen aller registrierten Architekturen in
// natuerlicher Ordnung zurueck.
func ListModels() []string {
	return config.DefaultRegistry.List()
}

// AddModelConfigPath registriert eine zusaetzliche Config-Quelle (Datei
// oder Verzeichnis) und scannt alle Quellen neu.
func AddModelConfigPath(path string) *config.ScanReport {
	return config.DefaultRegistry.AddPath(path)
}

// closestName schlaegt den aehnlichsten bekannten Namen vor.
// Leerer String wenn nichts nahe genug liegt.
func closestName(name string, candidates []string) string {
	const maxDistance = 5

	best, bestDist := "", maxDistance+1
	for _, c := range candidates {
		d := levenshtein.ComputeDistance(strings.ToLower(name), strings.ToLower(c))
		if d < bestDist {
			best, bestDist = c, d
		}
	}
	if bestDist > maxDistance {
		return ""
	}
	return best
}
