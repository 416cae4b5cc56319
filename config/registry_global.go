// Package config - Globale Registry-Instanz und Package-Level Funktionen.
//
// MODUL: registry_global
// ZWECK: Stellt eine globale DefaultRegistry bereit plus Convenience-Wrapper
// INPUT: Architektur-Name, Config-Quellen
// OUTPUT: ModelConfig Eintraege, Namenslisten, ScanReports
// NEBENEFFEKTE: Aendert globale DefaultRegistry
// ABHAENGIGKEITEN: registry.go (Registry)
// HINWEISE: Fuer Test-Isolation eigene Registry via NewRegistry erstellen
//           und per openclip.WithRegistry injizieren

package config

// ============================================================================
// Globale Registry-Instanz
// ============================================================================

// DefaultRegistry ist die prozessweite Registry fuer Architektur-Configs.
// Sie wird beim Package-Import mit den eingebetteten Presets befuellt.
var DefaultRegistry = NewRegistry()

// ============================================================================
// Package-Level Convenience-Funktionen
// ============================================================================

// Rescan liest alle Quellen der DefaultRegistry neu ein.
// Wrapper fuer DefaultRegistry.Rescan().
func Rescan() *ScanReport {
	return DefaultRegistry.Rescan()
}

// AddPath registriert eine weitere Quelle in der DefaultRegistry.
// Wrapper fuer DefaultRegistry.AddPath().
func AddPath(path string) *ScanReport {
	return DefaultRegistry.AddPath(path)
}

// Get gibt die Config fuer einen Namen aus der DefaultRegistry zurueck.
// Wrapper fuer DefaultRegistry.Get().
func Get(name string) (*ModelConfig, bool) {
	return DefaultRegistry.Get(name)
}

// List gibt alle Architektur-Namen der DefaultRegistry zurueck.
// Wrapper fuer DefaultRegistry.List().
func List() []string {
	return DefaultRegistry.List()
}
