// pretrained_test.go - Tests fuer Registry und Download-Cache
package pretrained

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func TestGetURL(t *testing.T) {
	if url := GetURL("ViT-B-32", "openai"); url == "" {
		t.Error("ViT-B-32:openai muss bekannt sein")
	}
	// Tag case-insensitiv
	if url := GetURL("ViT-B-32", "OpenAI"); url == "" {
		t.Error("Tag-Lookup muss case-insensitiv sein")
	}
	if url := GetURL("ViT-B-32", "unknown-tag"); url != "" {
		t.Errorf("unbekannter Tag liefert %q", url)
	}
	if url := GetURL("NoSuchModel", "openai"); url != "" {
		t.Errorf("unbekannte Architektur liefert %q", url)
	}
}

func TestListNaturalOrder(t *testing.T) {
	pairs := List()
	if len(pairs) == 0 {
		t.Fatal("List() leer")
	}

	idx16 := slices.IndexFunc(pairs, func(s string) bool { return s == "ViT-B-16:openai" })
	idx32 := slices.IndexFunc(pairs, func(s string) bool { return s == "ViT-B-32:openai" })
	if idx16 < 0 || idx32 < 0 || idx16 > idx32 {
		t.Errorf("ViT-B-16 muss vor ViT-B-32 stehen: %v", pairs)
	}
}

func TestDownloadCachesFile(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write([]byte("checkpoint-bytes"))
	}))
	defer srv.Close()

	t.Setenv("OPENCLIP_CACHE", t.TempDir())
	t.Setenv("OPENCLIP_NOPROGRESS", "1")

	path, err := Download(context.Background(), srv.URL+"/weights/model.pt")
	if err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "checkpoint-bytes" {
		t.Errorf("unerwarteter Inhalt: %q", data)
	}
	if filepath.Base(path) != "model.pt" {
		t.Errorf("Cache-Dateiname = %q", filepath.Base(path))
	}

	// zweiter Aufruf trifft den Cache, nicht den Server
	if _, err := Download(context.Background(), srv.URL+"/weights/model.pt"); err != nil {
		t.Fatal(err)
	}
	if hits != 1 {
		t.Errorf("Server-Hits = %d, erwartet 1", hits)
	}
}

func TestDownloadRetriesOnServerError(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		if hits == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	t.Setenv("OPENCLIP_CACHE", t.TempDir())
	t.Setenv("OPENCLIP_NOPROGRESS", "1")

	if _, err := Download(context.Background(), srv.URL+"/retry.pt"); err != nil {
		t.Fatal(err)
	}
	if hits != 2 {
		t.Errorf("Server-Hits = %d, erwartet 2", hits)
	}
}

func TestDownloadAll(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(r.URL.Path))
	}))
	defer srv.Close()

	t.Setenv("OPENCLIP_CACHE", t.TempDir())
	t.Setenv("OPENCLIP_NOPROGRESS", "1")

	paths, err := DownloadAll(context.Background(), []string{srv.URL + "/a.pt", srv.URL + "/b.pt"})
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) != 2 {
		t.Fatalf("paths = %v", paths)
	}
	if filepath.Base(paths[0]) != "a.pt" || filepath.Base(paths[1]) != "b.pt" {
		t.Errorf("Reihenfolge nicht erhalten: %v", paths)
	}
}

func TestDownloadContextCancelled(t *testing.T) {
	t.Setenv("OPENCLIP_CACHE", t.TempDir())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := Download(ctx, "http://127.0.0.1:0/x.pt"); err == nil {
		t.Error("abgebrochener Context muss einen Fehler liefern")
	}
}
