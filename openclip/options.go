// MODUL: options
// ZWECK: Functional Options Pattern fuer die Modell-Factory
// INPUT: Optionale Parameter (Pretrained, Precision, Device, JIT, Registry)
// OUTPUT: createOptions Struct mit Konfiguration
// NEBENEFFEKTE: Keine
// ABHAENGIGKEITEN: model (Device, Precision), config (Registry)
// HINWEISE: WithRegistry ermoeglicht Test-Isolation ohne globale Registry

package openclip

import (
	"github.com/7blacky7/openclip-go/config"
	"github.com/7blacky7/openclip-go/model"
)

// ============================================================================
// createOptions - Zentrale Konfigurationsstruktur
// ============================================================================

// createOptions enthaelt die Konfiguration fuer einen Factory-Aufruf.
type createOptions struct {
	pretrained     string           // Tag, lokaler Pfad oder "openai"
	precision      model.Precision  // fp32, amp, fp16
	device         model.Device     // cpu, cuda, metal
	jit            bool             // Modell nach dem Bau tracen
	forceQuickGELU bool             // QuickGELU-Aktivierung erzwingen
	registry       *config.Registry // Config-Quelle (Default: DefaultRegistry)
}

// Option ist eine funktionale Option fuer Factory-Aufrufe.
type Option func(*createOptions)

// defaultOptions gibt die Standard-Konfiguration zurueck:
// keine Gewichte, fp32, CPU, globale DefaultRegistry.
func defaultOptions() createOptions {
	return createOptions{
		precision: model.PrecisionFP32,
		device:    model.DefaultDevice,
		registry:  config.DefaultRegistry,
	}
}

// ============================================================================
// Functional Options - Builder-Funktionen
// ============================================================================

// WithPretrained setzt die Gewichts-Quelle: ein bekannter Tag
// (z.B. "yfcc15m"), der reservierte Wert "openai" oder ein lokaler
// Checkpoint-Pfad.
func WithPretrained(source string) Option {
	return func(o *createOptions) {
		o.pretrained = source
	}
}

// WithPrecision setzt den numerischen Modus.
// Unbekannte Werte werden akzeptiert, loesen aber nichts aus.
func WithPrecision(p model.Precision) Option {
	return func(o *createOptions) {
		o.precision = p
	}
}

// WithDevice setzt das Ziel-Geraet.
func WithDevice(d model.Device) Option {
	return func(o *createOptions) {
		o.device = d
	}
}

// WithJIT aktiviert das Tracen des fertigen Modells.
func WithJIT(enabled bool) Option {
	return func(o *createOptions) {
		o.jit = enabled
	}
}

// WithForceQuickGELU erzwingt QuickGELU auf Nicht-Provider-Modellen.
func WithForceQuickGELU(enabled bool) Option {
	return func(o *createOptions) {
		o.forceQuickGELU = enabled
	}
}

// WithRegistry ersetzt die globale DefaultRegistry durch eine eigene
// Instanz. Nuetzlich fuer Tests und eingebettete Anwendungen.
func WithRegistry(r *config.Registry) Option {
	return func(o *createOptions) {
		if r != nil {
			o.registry = r
		}
	}
}
