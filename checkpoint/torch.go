// MODUL: torch
// ZWECK: PyTorch Pickle-Checkpoints in das kanonische StateDict ueberfuehren
// INPUT: Pfad zu .pt/.pth/.bin Datei (Zip-Archiv oder Legacy-Pickle)
// OUTPUT: StateDict mit float32-Tensoren
// NEBENEFFEKTE: Dateisystem-Lesezugriff
// ABHAENGIGKEITEN: nlpodyssey/gopickle (pytorch, types), pdevine/tensor
// HINWEISE: Alle Storage-Typen werden nach float32 materialisiert;
//           nicht-zusammenhaengende Tensoren werden ueber Strides gelesen

package checkpoint

import (
	"fmt"

	"github.com/nlpodyssey/gopickle/pytorch"
	"github.com/nlpodyssey/gopickle/types"
	"github.com/pdevine/tensor"
)

// loadTorch deserialisiert einen PyTorch-Checkpoint.
func loadTorch(path string) (StateDict, error) {
	obj, err := pytorch.Load(path)
	if err != nil {
		return nil, fmt.Errorf("checkpoint: torch load %s: %w", path, err)
	}

	entries, ok := dictEntries(obj)
	if !ok {
		return nil, fmt.Errorf("%w: top-level %T is not a dict", ErrUnsupportedValue, obj)
	}

	entries = unwrapStateDict(entries)

	sd := NewStateDict()
	for _, e := range entries {
		t, ok := e.value.(*pytorch.Tensor)
		if !ok {
			return nil, fmt.Errorf("%w: %s is %T", ErrUnsupportedValue, e.key, e.value)
		}

		dense, err := convertTorchTensor(t)
		if err != nil {
			return nil, fmt.Errorf("checkpoint: tensor %s: %w", e.key, err)
		}
		sd.Set(e.key, dense)
	}

	if sd.Len() == 0 {
		return nil, ErrEmptyStateDict
	}

	return sd, nil
}

// ============================================================================
// Dict-Traversierung
// ============================================================================

type dictEntry struct {
	key   string
	value any
}

// unwrapStateDict ersetzt die Eintraege durch das innere "state_dict"-
// Mapping, falls vorhanden. Uebrige Wrapper-Schluessel von Trainings-
// Checkpoints (epoch, optimizer, ...) entfallen dabei. Ohne Wrapper
// kommen die Eintraege unveraendert zurueck.
func unwrapStateDict(entries []dictEntry) []dictEntry {
	for _, e := range entries {
		if e.key != stateDictKey {
			continue
		}
		if inner, ok := dictEntries(e.value); ok {
			return inner
		}
		break
	}
	return entries
}

// dictEntries liefert die Eintraege eines gopickle-Dicts in Original-
// Reihenfolge. Unterstuetzt werden Python dict und collections.OrderedDict.
func dictEntries(obj any) ([]dictEntry, bool) {
	switch d := obj.(type) {
	case *types.Dict:
		out := make([]dictEntry, 0, len(*d))
		for _, e := range *d {
			k, ok := e.Key.(string)
			if !ok {
				return nil, false
			}
			out = append(out, dictEntry{key: k, value: e.Value})
		}
		return out, true
	case *types.OrderedDict:
		out := make([]dictEntry, 0, len(d.Map))
		for el := d.List.Front(); el != nil; el = el.Next() {
			e := el.Value.(*types.OrderedDictEntry)
			k, ok := e.Key.(string)
			if !ok {
				return nil, false
			}
			out = append(out, dictEntry{key: k, value: e.Value})
		}
		return out, true
	default:
		return nil, false
	}
}

// ============================================================================
// Tensor-Konvertierung
// ============================================================================

// convertTorchTensor materialisiert einen pytorch.Tensor als float32-Dense.
func convertTorchTensor(t *pytorch.Tensor) (*tensor.Dense, error) {
	data, err := storageFloats(t.Source)
	if err != nil {
		return nil, err
	}

	gathered, err := gather(data, t)
	if err != nil {
		return nil, err
	}

	return newDense(t.Size, gathered)
}

// storageFloats gibt den kompletten Storage als float32-Slice zurueck.
// Half und BFloat16 sind von gopickle bereits dekodiert.
func storageFloats(src pytorch.StorageInterface) ([]float32, error) {
	switch s := src.(type) {
	case *pytorch.FloatStorage:
		return s.Data, nil
	case *pytorch.HalfStorage:
		return s.Data, nil
	case *pytorch.BFloat16Storage:
		return s.Data, nil
	case *pytorch.DoubleStorage:
		out := make([]float32, len(s.Data))
		for i, v := range s.Data {
			out[i] = float32(v)
		}
		return out, nil
	case *pytorch.IntStorage:
		out := make([]float32, len(s.Data))
		for i, v := range s.Data {
			out[i] = float32(v)
		}
		return out, nil
	case *pytorch.LongStorage:
		out := make([]float32, len(s.Data))
		for i, v := range s.Data {
			out[i] = float32(v)
		}
		return out, nil
	case *pytorch.ByteStorage:
		out := make([]float32, len(s.Data))
		for i, v := range s.Data {
			out[i] = float32(v)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: storage %T", ErrUnsupportedValue, src)
	}
}

// gather liest die Tensor-Elemente aus dem Storage.
// Zusammenhaengende Tensoren werden direkt kopiert, sonst ueber Strides.
func gather(data []float32, t *pytorch.Tensor) ([]float32, error) {
	n := numElements(t.Size)
	offset := int(t.StorageOffset)

	if isContiguous(t.Size, t.Stride) {
		if offset+n > len(data) {
			return nil, fmt.Errorf("checkpoint: storage zu klein: offset %d + %d > %d", offset, n, len(data))
		}
		out := make([]float32, n)
		copy(out, data[offset:offset+n])
		return out, nil
	}

	out := make([]float32, n)
	idx := make([]int, len(t.Size))
	for i := range out {
		src := offset
		for d, v := range idx {
			src += v * t.Stride[d]
		}
		if src >= len(data) {
			return nil, fmt.Errorf("checkpoint: stride-zugriff ausserhalb des storage: %d >= %d", src, len(data))
		}
		out[i] = data[src]

		for d := len(idx) - 1; d >= 0; d-- {
			idx[d]++
			if idx[d] < t.Size[d] {
				break
			}
			idx[d] = 0
		}
	}
	return out, nil
}

// isContiguous prueft auf row-major Layout ohne Luecken.
func isContiguous(size, stride []int) bool {
	if len(stride) != len(size) {
		return false
	}
	expected := 1
	for d := len(size) - 1; d >= 0; d-- {
		if size[d] != 1 && stride[d] != expected {
			return false
		}
		expected *= size[d]
	}
	return true
}
