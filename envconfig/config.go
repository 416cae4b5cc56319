// config.go - Environment-Konfiguration fuer die OpenCLIP Factory
//
// Dieses Modul enthaelt:
// - ConfigPaths: Zusaetzliche Config-Verzeichnisse (OPENCLIP_CONFIGS)
// - CacheDir: Cache-Verzeichnis fuer Checkpoints (OPENCLIP_CACHE)
// - LogLevel: Log-Level (OPENCLIP_DEBUG)
// - NoProgress: Download-Progress unterdruecken (OPENCLIP_NOPROGRESS)
package envconfig

import (
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ConfigPaths gibt zusaetzliche Verzeichnisse oder Dateien mit
// Architektur-Configs zurueck.
// Konfigurierbar via OPENCLIP_CONFIGS (Pfad-Liste, getrennt durch os.PathListSeparator)
func ConfigPaths() []string {
	s := Var("OPENCLIP_CONFIGS")
	if s == "" {
		return nil
	}

	var paths []string
	for _, p := range filepath.SplitList(s) {
		if p = strings.TrimSpace(p); p != "" {
			paths = append(paths, p)
		}
	}
	return paths
}

// CacheDir gibt das Cache-Verzeichnis fuer heruntergeladene Checkpoints zurueck.
// Konfigurierbar via OPENCLIP_CACHE
// Default: $HOME/.cache/openclip, letzter Fallback: temporaeres Verzeichnis
func CacheDir() string {
	if s := Var("OPENCLIP_CACHE"); s != "" {
		return s
	}

	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".cache", "openclip")
	}

	return filepath.Join(os.TempDir(), "openclip-cache")
}

// NoProgress unterdrueckt Download-Progress-Logs.
// Konfigurierbar via OPENCLIP_NOPROGRESS
func NoProgress() bool {
	if s := Var("OPENCLIP_NOPROGRESS"); s != "" {
		b, err := strconv.ParseBool(s)
		if err != nil {
			return true
		}
		return b
	}
	return false
}

// LogLevel gibt das Log-Level zurueck
// Konfigurierbar via OPENCLIP_DEBUG
// Werte: 0/false = INFO (Default), 1/true = DEBUG, 2 = TRACE
func LogLevel() slog.Level {
	level := slog.LevelInfo
	if s := Var("OPENCLIP_DEBUG"); s != "" {
		if b, _ := strconv.ParseBool(s); b {
			level = slog.LevelDebug
		} else if i, _ := strconv.ParseInt(s, 10, 64); i != 0 {
			level = slog.Level(i * -4)
		}
	}

	return level
}

// Var gibt eine Environment-Variable zurueck
// Entfernt fuehrende/trailing Quotes und Leerzeichen
func Var(key string) string {
	return strings.Trim(strings.TrimSpace(os.Getenv(key)), "\"'")
}

// EnvVar beschreibt eine Umgebungsvariable fuer die CLI-Dokumentation.
type EnvVar struct {
	Name        string
	Value       any
	Description string
}

// AsMap gibt alle bekannten Umgebungsvariablen mit aktuellem Wert zurueck.
func AsMap() map[string]EnvVar {
	return map[string]EnvVar{
		"OPENCLIP_CONFIGS":    {"OPENCLIP_CONFIGS", ConfigPaths(), "Additional model config files or directories (path list)"},
		"OPENCLIP_CACHE":      {"OPENCLIP_CACHE", CacheDir(), "Cache directory for downloaded checkpoints"},
		"OPENCLIP_DEBUG":      {"OPENCLIP_DEBUG", LogLevel(), "Show additional debug information (e.g. OPENCLIP_DEBUG=1)"},
		"OPENCLIP_NOPROGRESS": {"OPENCLIP_NOPROGRESS", NoProgress(), "Suppress download progress output"},
	}
}
