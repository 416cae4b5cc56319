// MODUL: registry
// ZWECK: Registry fuer Architektur-Configs mit Scan/Validate-Logik
// INPUT: Config-Quellen (Dateien oder Verzeichnisse mit *.json)
// OUTPUT: Natuerlich sortierte Name->ModelConfig Zuordnung, ScanReport
// NEBENEFFEKTE: Dateisystem-Lesezugriffe bei Rescan
// ABHAENGIGKEITEN: emirpasic/gods/v2 (TreeMap), presets.go (eingebettete Configs)
// HINWEISE: Ungueltige Dokumente werden still uebersprungen, aber im
//           ScanReport mit Grund ausgewiesen

package config

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/emirpasic/gods/v2/maps/treemap"
)

// configExt ist die einzige akzeptierte Dateiendung fuer Config-Dokumente.
const configExt = ".json"

// ============================================================================
// ScanReport - Ergebnis eines Rescans
// ============================================================================

// RejectedFile beschreibt eine beim Scan verworfene Datei.
type RejectedFile struct {
	Path   string // Dateipfad (oder eingebetteter Name)
	Reason string // Ablehnungsgrund (Parse-Fehler, fehlende Felder)
}

// ScanReport fasst einen Rescan zusammen.
// Verworfene Dateien sind kein Fehler; der Report macht das stille
// Ueberspringen lediglich sichtbar.
type ScanReport struct {
	Accepted []string       // aufgenommene Architektur-Namen
	Rejected []RejectedFile // verworfene Dateien mit Grund
}

// ============================================================================
// Registry - Architektur-Verwaltung
// ============================================================================

// Registry haelt die Zuordnung von Architektur-Name zu ModelConfig.
// Die TreeMap sortiert Eintraege dauerhaft in natuerlicher Ordnung.
// Thread-sicher durch RWMutex.
type Registry struct {
	mu      sync.RWMutex
	paths   []string // registrierte Quellen, waechst nur
	entries *treemap.Map[string, *ModelConfig]
}

// NewRegistry erstellt eine Registry und befuellt sie mit den
// eingebetteten Preset-Architekturen.
func NewRegistry() *Registry {
	r := &Registry{
		entries: treemap.NewWith[string, *ModelConfig](NaturalCompare),
	}
	r.Rescan()
	return r
}

// ============================================================================
// Rescan - Quellen einlesen
// ============================================================================

// Rescan leert die Registry und liest alle Quellen neu ein:
// zuerst die eingebetteten Presets, dann jede registrierte Quelle in
// Registrierungs-Reihenfolge. Spaetere Quellen ueberschreiben gleichnamige
// Eintraege. Ungueltige Dokumente werden uebersprungen, nie als Fehler
// gemeldet; der ScanReport weist sie mit Grund aus.
func (r *Registry) Rescan() *ScanReport {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries := treemap.NewWith[string, *ModelConfig](NaturalCompare)
	report := &ScanReport{}

	scanEmbedded(entries, report)
	for _, p := range r.paths {
		scanPath(entries, report, p)
	}

	report.Accepted = entries.Keys()
	r.entries = entries

	return report
}

// AddPath registriert eine weitere Quelle (Datei oder Verzeichnis) und
// loest einen vollen Rescan aus. Quellen werden nie wieder entfernt.
func (r *Registry) AddPath(path string) *ScanReport {
	r.mu.Lock()
	r.paths = append(r.paths, path)
	r.mu.Unlock()

	return r.Rescan()
}

// Paths gibt die registrierten Quellen zurueck (Kopie).
func (r *Registry) Paths() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, len(r.paths))
	copy(out, r.paths)
	return out
}

// ============================================================================
// Abfrage
// ============================================================================

// Get gibt die Config fuer einen Architektur-Namen zurueck.
// Der Eintrag ist geteilt und unveraenderlich; Aufrufer muessen vor
// jeder Mutation Clone() verwenden.
func (r *Registry) Get(name string) (*ModelConfig, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.entries.Get(name)
}

// Has prueft ob eine Architektur registriert ist.
func (r *Registry) Has(name string) bool {
	_, ok := r.Get(name)
	return ok
}

// List gibt alle Architektur-Namen in natuerlicher Ordnung zurueck.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.entries.Keys()
}

// Count gibt die Anzahl registrierter Architekturen zurueck.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.entries.Size()
}

// ============================================================================
// Scan-Helfer
// ============================================================================

// scanEmbedded liest die eingebetteten Preset-Configs ein.
func scanEmbedded(entries *treemap.Map[string, *ModelConfig], report *ScanReport) {
	files, err := fs.ReadDir(presetsFS, presetsDir)
	if err != nil {
		// Presets sind zur Build-Zeit eingebettet; ein Fehler hier ist
		// ein Programmierfehler, kein Laufzeitzustand.
		panic("config: embedded presets unreadable: " + err.Error())
	}

	for _, f := range files {
		doc, err := fs.ReadFile(presetsFS, presetsDir+"/"+f.Name())
		if err != nil {
			report.Rejected = append(report.Rejected, RejectedFile{Path: f.Name(), Reason: err.Error()})
			continue
		}
		insertDocument(entries, report, f.Name(), doc)
	}
}

// scanPath verarbeitet eine registrierte Quelle.
// Eine Datei mit passender Endung ist genau ein Kandidat; ein Verzeichnis
// liefert alle *.json Dateien (nicht rekursiv). Fehlende oder unlesbare
// Quellen werden wie ungueltige Dokumente behandelt: ueberspringen.
func scanPath(entries *treemap.Map[string, *ModelConfig], report *ScanReport, path string) {
	info, err := os.Stat(path)
	if err != nil {
		report.Rejected = append(report.Rejected, RejectedFile{Path: path, Reason: err.Error()})
		return
	}

	var candidates []string
	switch {
	case !info.IsDir():
		if filepath.Ext(path) == configExt {
			candidates = append(candidates, path)
		}
	default:
		dirents, err := os.ReadDir(path)
		if err != nil {
			report.Rejected = append(report.Rejected, RejectedFile{Path: path, Reason: err.Error()})
			return
		}
		for _, d := range dirents {
			if !d.IsDir() && filepath.Ext(d.Name()) == configExt {
				candidates = append(candidates, filepath.Join(path, d.Name()))
			}
		}
	}

	for _, c := range candidates {
		doc, err := os.ReadFile(c)
		if err != nil {
			report.Rejected = append(report.Rejected, RejectedFile{Path: c, Reason: err.Error()})
			continue
		}
		insertDocument(entries, report, c, doc)
	}
}

// insertDocument parst und validiert ein Kandidaten-Dokument und traegt es
// unter seinem Basis-Dateinamen (ohne Endung) ein.
func insertDocument(entries *treemap.Map[string, *ModelConfig], report *ScanReport, path string, doc []byte) {
	cfg, result, err := Parse(doc)
	if err != nil {
		slog.Debug("skipping unparsable model config", "path", path, "error", err)
		report.Rejected = append(report.Rejected, RejectedFile{Path: path, Reason: err.Error()})
		return
	}
	if !result.OK {
		slog.Debug("skipping invalid model config", "path", path, "missing", result.Missing)
		report.Rejected = append(report.Rejected, RejectedFile{
			Path:   path,
			Reason: "missing required fields: " + strings.Join(result.Missing, ", "),
		})
		return
	}

	name := strings.TrimSuffix(filepath.Base(path), configExt)
	entries.Put(name, cfg)
}
