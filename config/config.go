// MODUL: config
// ZWECK: Architektur-Konfigurationen fuer multimodale CLIP-Modelle
// INPUT: JSON-Dokumente (eine Datei pro Architektur)
// OUTPUT: Validierte ModelConfig Strukturen
// NEBENEFFEKTE: Keine
// ABHAENGIGKEITEN: encoding/json (Standard-Library)
// HINWEISE: Pflichtfelder sind embed_dim, vision_cfg und text_cfg

package config

import (
	"bytes"
	"encoding/json"
)

// ============================================================================
// ModelConfig - Architektur-Beschreibung
// ============================================================================

// ModelConfig beschreibt eine Modell-Architektur.
// Die Vision- und Text-Teilkonfigurationen bleiben opak und werden erst
// vom model-Package interpretiert.
type ModelConfig struct {
	EmbedDim  int             `json:"embed_dim"`
	VisionCfg json.RawMessage `json:"vision_cfg"`
	TextCfg   json.RawMessage `json:"text_cfg"`

	// QuickGELU erzwingt die QuickGELU-Aktivierung (OpenAI-Konvention).
	// Wird von Aufrufern vor dem Modellbau auf der Kopie gesetzt.
	QuickGELU bool `json:"quick_gelu,omitempty"`
}

// Clone gibt eine tiefe Kopie zurueck.
// Registry-Eintraege sind unveraenderlich; jede Mutation passiert auf Kopien.
func (c *ModelConfig) Clone() *ModelConfig {
	clone := *c
	clone.VisionCfg = bytes.Clone(c.VisionCfg)
	clone.TextCfg = bytes.Clone(c.TextCfg)
	return &clone
}

// requiredFields sind die Pflichtfelder einer gueltigen Architektur.
var requiredFields = []string{"embed_dim", "vision_cfg", "text_cfg"}

// ============================================================================
// Validierung
// ============================================================================

// ValidationResult beschreibt das Ergebnis einer Dokument-Pruefung.
type ValidationResult struct {
	OK      bool     // true wenn alle Pflichtfelder vorhanden sind
	Missing []string // fehlende Pflichtfelder
}

// ValidateDocument prueft ein rohes JSON-Dokument auf die Pflichtfelder.
// Das Dokument muss ein JSON-Objekt sein.
func ValidateDocument(doc []byte) (ValidationResult, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(doc, &fields); err != nil {
		return ValidationResult{}, err
	}

	var result ValidationResult
	for _, f := range requiredFields {
		if _, ok := fields[f]; !ok {
			result.Missing = append(result.Missing, f)
		}
	}
	result.OK = len(result.Missing) == 0

	return result, nil
}

// Parse validiert und dekodiert ein Architektur-Dokument.
// Gibt (nil, result, nil) zurueck wenn Pflichtfelder fehlen.
func Parse(doc []byte) (*ModelConfig, ValidationResult, error) {
	result, err := ValidateDocument(doc)
	if err != nil || !result.OK {
		return nil, result, err
	}

	var cfg ModelConfig
	if err := json.Unmarshal(doc, &cfg); err != nil {
		return nil, result, err
	}

	return &cfg, result, nil
}
