// MODUL: model
// ZWECK: CLIP-Modellobjekt aus einer Architektur-Config bauen
// INPUT: config.ModelConfig, optional ein kanonisches StateDict
// OUTPUT: Model mit Vision/Text-Tuermen, Device- und DType-Zustand
// NEBENEFFEKTE: Keine
// ABHAENGIGKEITEN: config (ModelConfig), checkpoint (StateDict), x448/float16
// HINWEISE: Die Tensor-Kernels gehoeren dem Backend; dieses Modul haelt
//           Struktur, Gewichte und Praezisions-Zustand

package model

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/x448/float16"

	"github.com/7blacky7/openclip-go/checkpoint"
	"github.com/7blacky7/openclip-go/config"
)

// ============================================================================
// Fehler-Definitionen
// ============================================================================

var (
	ErrHalfOnCPU      = errors.New("model: fp16 weights require an accelerator device")
	ErrEmptyStateDict = errors.New("model: empty state dict")
	ErrTraced         = errors.New("model: traced model is frozen")
)

// ============================================================================
// Turm-Konfigurationen
// ============================================================================

// LayerSpec beschreibt die Tiefe des Vision-Turms: entweder eine
// Transformer-Tiefe (Zahl) oder ResNet-Stufen (Liste).
type LayerSpec struct {
	Depth  int   // ViT: Anzahl Transformer-Bloecke
	Stages []int // ResNet: Bloecke pro Stufe
}

// IsResNet meldet ob die Spezifikation ein ResNet beschreibt.
func (l LayerSpec) IsResNet() bool {
	return len(l.Stages) > 0
}

// UnmarshalJSON akzeptiert Zahl oder Liste.
func (l *LayerSpec) UnmarshalJSON(data []byte) error {
	var depth int
	if err := json.Unmarshal(data, &depth); err == nil {
		*l = LayerSpec{Depth: depth}
		return nil
	}

	var stages []int
	if err := json.Unmarshal(data, &stages); err != nil {
		return fmt.Errorf("model: layers muss Zahl oder Liste sein: %w", err)
	}
	*l = LayerSpec{Stages: stages}
	return nil
}

// MarshalJSON gibt die urspruengliche Form wieder aus.
func (l LayerSpec) MarshalJSON() ([]byte, error) {
	if l.IsResNet() {
		return json.Marshal(l.Stages)
	}
	return json.Marshal(l.Depth)
}

// VisionConfig ist die dekodierte Vision-Teilkonfiguration.
type VisionConfig struct {
	ImageSize int       `json:"image_size"`
	Layers    LayerSpec `json:"layers"`
	Width     int       `json:"width"`
	PatchSize int       `json:"patch_size,omitempty"`
}

// TextConfig ist die dekodierte Text-Teilkonfiguration.
type TextConfig struct {
	ContextLength int `json:"context_length"`
	VocabSize     int `json:"vocab_size"`
	Width         int `json:"width"`
	Heads         int `json:"heads"`
	Layers        int `json:"layers"`
}

// defaultImageSize gilt wenn die Vision-Config keine Bildgroesse nennt.
const defaultImageSize = 224

// ============================================================================
// Model
// ============================================================================

// DType ist der Speicher-Typ der Modell-Gewichte.
type DType string

const (
	DTypeFP32 DType = "fp32"
	DTypeFP16 DType = "fp16"
)

// Model ist das gebaute multimodale Modell: Struktur-Hyperparameter
// plus (optional) geladene Gewichte.
type Model struct {
	EmbedDim  int
	Visual    VisionConfig
	Text      TextConfig
	QuickGELU bool

	device Device
	dtype  DType
	traced bool
	params checkpoint.StateDict
}

// New baut ein Model aus einer validierten Architektur-Config.
func New(cfg *config.ModelConfig) (*Model, error) {
	if cfg == nil {
		return nil, errors.New("model: nil config")
	}
	if cfg.EmbedDim <= 0 {
		return nil, fmt.Errorf("model: invalid embed_dim %d", cfg.EmbedDim)
	}

	var visual VisionConfig
	if err := json.Unmarshal(cfg.VisionCfg, &visual); err != nil {
		return nil, fmt.Errorf("model: vision_cfg: %w", err)
	}
	if visual.ImageSize <= 0 {
		visual.ImageSize = defaultImageSize
	}

	var text TextConfig
	if err := json.Unmarshal(cfg.TextCfg, &text); err != nil {
		return nil, fmt.Errorf("model: text_cfg: %w", err)
	}

	return &Model{
		EmbedDim:  cfg.EmbedDim,
		Visual:    visual,
		Text:      text,
		QuickGELU: cfg.QuickGELU,
		device:    DefaultDevice,
		dtype:     DTypeFP32,
	}, nil
}

// VisualImageSize gibt die erwartete Eingabe-Bildgroesse zurueck.
func (m *Model) VisualImageSize() int {
	return m.Visual.ImageSize
}

// Device gibt das aktuelle Ziel-Geraet zurueck.
func (m *Model) Device() Device { return m.device }

// DType gibt den aktuellen Gewichts-Typ zurueck.
func (m *Model) DType() DType { return m.dtype }

// Traced meldet ob das Modell kompiliert/eingefroren wurde.
func (m *Model) Traced() bool { return m.traced }

// StateDict gibt die geladenen Gewichte zurueck (nil wenn keine).
func (m *Model) StateDict() checkpoint.StateDict { return m.params }

// ============================================================================
// Gewichte laden
// ============================================================================

// LoadStateDict uebernimmt ein kanonisches Parameter-Mapping.
func (m *Model) LoadStateDict(sd checkpoint.StateDict) error {
	if m.traced {
		return ErrTraced
	}
	if sd == nil || sd.Len() == 0 {
		return ErrEmptyStateDict
	}

	m.params = sd
	return nil
}

// ParamCount gibt die Gesamtzahl geladener Parameter zurueck.
func (m *Model) ParamCount() int64 {
	if m.params == nil {
		return 0
	}

	var n int64
	for pair := m.params.Oldest(); pair != nil; pair = pair.Next() {
		n += int64(len(pair.Value.Data().([]float32)))
	}
	return n
}

// ============================================================================
// Device- und Praezisions-Transformationen
// ============================================================================

// To verschiebt das Modell auf das Ziel-Geraet. Chainable.
func (m *Model) To(d Device) *Model {
	if d == "" {
		d = DefaultDevice
	}
	m.device = d
	return m
}

// Float stellt den Gewichts-Typ auf fp32 um. Bereits quantisierte Werte
// behalten ihren Informationsverlust. Chainable.
func (m *Model) Float() *Model {
	m.dtype = DTypeFP32
	return m
}

// Half konvertiert die Gewichte in-place nach fp16.
// Wrapper fuer ConvertWeightsToFP16.
func (m *Model) Half() error {
	return ConvertWeightsToFP16(m)
}

// ConvertWeightsToFP16 rundet alle Gewichte durch IEEE-754 half und
// markiert das Modell als fp16. Auf dem CPU-Kontext ist das ein Fehler:
// der Low-Precision-Pfad setzt Beschleuniger-Hardware voraus.
func ConvertWeightsToFP16(m *Model) error {
	if m.device.IsCPU() {
		return ErrHalfOnCPU
	}

	if m.params != nil {
		for pair := m.params.Oldest(); pair != nil; pair = pair.Next() {
			data := pair.Value.Data().([]float32)
			for i, v := range data {
				data[i] = float16.Fromfloat32(v).Float32()
			}
		}
	}

	m.dtype = DTypeFP16
	return nil
}

// Trace friert das Modell fuer die Ausfuehrung ein (JIT-Aequivalent).
// Nach Trace sind keine Gewichts-Mutationen mehr erlaubt.
func (m *Model) Trace() *Model {
	m.traced = true
	return m
}
