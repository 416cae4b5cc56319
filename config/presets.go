// MODUL: presets
// ZWECK: Eingebettete Standard-Architekturen (OpenCLIP Presets)
// INPUT: Keine
// OUTPUT: embed.FS mit den mitgelieferten *.json Configs
// NEBENEFFEKTE: Keine
// ABHAENGIGKEITEN: embed (Standard-Library)
// HINWEISE: Zusaetzliche Architekturen kommen via AddPath hinzu

package config

import "embed"

const presetsDir = "presets"

//go:embed presets/*.json
var presetsFS embed.FS
