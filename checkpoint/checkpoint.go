// MODUL: checkpoint
// ZWECK: Laden serialisierter Parameter-Mappings (State Dicts)
// INPUT: Checkpoint-Pfad (PyTorch Pickle oder Safetensors)
// OUTPUT: Kanonisches StateDict (Name -> Tensor, Einfuege-Reihenfolge erhalten)
// NEBENEFFEKTE: Dateisystem-Lesezugriff
// ABHAENGIGKEITEN: wk8/go-ordered-map (StateDict), torch.go, safetensors.go
// HINWEISE: Entfernt den "state_dict"-Wrapper und den "module."-Prefix
//           verteilter Trainings-Checkpoints (DistributedDataParallel)

package checkpoint

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pdevine/tensor"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// ============================================================================
// StateDict - kanonisches Parameter-Mapping
// ============================================================================

// StateDict ist das kanonische Parameter-Mapping: Name -> Tensor.
// Die Einfuege-Reihenfolge bleibt erhalten, damit "erster Schluessel"
// wohldefiniert ist.
type StateDict = *orderedmap.OrderedMap[string, *tensor.Dense]

// NewStateDict erstellt ein leeres StateDict.
func NewStateDict() StateDict {
	return orderedmap.New[string, *tensor.Dense]()
}

// Keys gibt alle Parameter-Namen in Reihenfolge zurueck.
func Keys(sd StateDict) []string {
	keys := make([]string, 0, sd.Len())
	for pair := sd.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// ============================================================================
// Fehler-Definitionen
// ============================================================================

var (
	ErrEmptyStateDict   = errors.New("checkpoint: empty state dict")
	ErrUnsupportedValue = errors.New("checkpoint: unsupported value in state dict")
)

// ============================================================================
// Load - Checkpoint deserialisieren
// ============================================================================

// stateDictKey ist der bekannte Wrapper-Schluessel von Trainings-Checkpoints.
const stateDictKey = "state_dict"

// ddpPrefix ist der Schluessel-Prefix von DistributedDataParallel-Checkpoints.
const ddpPrefix = "module."

// Load deserialisiert den Checkpoint unter path und gibt das kanonische
// StateDict zurueck. Zwei Ablage-Varianten werden normalisiert:
//   - ein Wrapper-Mapping mit "state_dict"-Schluessel wird ausgepackt
//   - traegt der erste Schluessel den "module."-Prefix, wird er ueberall entfernt
//
// Deserialisierungs-Fehler (fehlende Datei, korruptes oder unbekanntes
// Format) werden unveraendert weitergereicht.
func Load(path string) (StateDict, error) {
	var sd StateDict
	var err error

	switch strings.ToLower(filepath.Ext(path)) {
	case ".safetensors":
		sd, err = loadSafetensors(path)
	default:
		// .pt, .pth, .bin: PyTorch Pickle (Zip-Archiv oder Legacy-Format)
		sd, err = loadTorch(path)
	}
	if err != nil {
		return nil, err
	}

	return stripModulePrefix(sd), nil
}

// stripModulePrefix entfernt den 7 Zeichen langen "module."-Prefix von
// allen Schluesseln, wenn der erste Schluessel ihn traegt.
func stripModulePrefix(sd StateDict) StateDict {
	first := sd.Oldest()
	if first == nil || !strings.HasPrefix(first.Key, ddpPrefix) {
		return sd
	}

	stripped := NewStateDict()
	for pair := sd.Oldest(); pair != nil; pair = pair.Next() {
		stripped.Set(strings.TrimPrefix(pair.Key, ddpPrefix), pair.Value)
	}
	return stripped
}

// numElements gibt die Element-Anzahl fuer eine Tensor-Form zurueck.
func numElements(shape []int) int {
	n := 1
	for _, d := range shape {
		n *= d
	}
	return n
}

// newDense baut einen Tensor aus Form und float32-Daten.
// Skalare (leere Form) werden als Form [1] abgelegt.
func newDense(shape []int, data []float32) (*tensor.Dense, error) {
	if len(shape) == 0 {
		shape = []int{1}
	}
	if want := numElements(shape); want != len(data) {
		return nil, fmt.Errorf("checkpoint: shape %v braucht %d Elemente, %d vorhanden", shape, want, len(data))
	}
	return tensor.New(tensor.WithShape(shape...), tensor.WithBacking(data)), nil
}
