// main.go - CLI-Einstiegspunkt
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/7blacky7/openclip-go/cmd"
	"github.com/7blacky7/openclip-go/config"
	"github.com/7blacky7/openclip-go/envconfig"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: envconfig.LogLevel(),
	})))

	// Zusaetzliche Config-Quellen aus der Umgebung registrieren
	for _, p := range envconfig.ConfigPaths() {
		config.AddPath(p)
	}

	if err := cmd.NewCLI().ExecuteContext(context.Background()); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}
