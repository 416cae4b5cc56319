// MODUL: safetensors
// ZWECK: Safetensors-Dateien lesen und schreiben
// INPUT: Pfad zu .safetensors Datei bzw. StateDict
// OUTPUT: StateDict mit float32-Tensoren bzw. Datei auf Platte
// NEBENEFFEKTE: Dateisystem-Zugriffe
// ABHAENGIGKEITEN: x448/float16 (F16), d4l3k/go-bfloat16 (BF16), pdevine/tensor
// HINWEISE: Format: 8 Byte Header-Laenge (LE), JSON-Header, Roh-Daten.
//           Die Eintrags-Reihenfolge folgt den data_offsets.

package checkpoint

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"sort"

	"github.com/d4l3k/go-bfloat16"
	"github.com/x448/float16"
)

// safetensorsMaxHeader begrenzt die Header-Groesse gegen korrupte Dateien.
const safetensorsMaxHeader = 100 << 20

// safetensorEntry ist ein Header-Eintrag einer Safetensors-Datei.
type safetensorEntry struct {
	DType       string `json:"dtype"`
	Shape       []int  `json:"shape"`
	DataOffsets [2]int `json:"data_offsets"`
}

// ============================================================================
// Lesen
// ============================================================================

// loadSafetensors liest eine Safetensors-Datei als StateDict ein.
func loadSafetensors(path string) (StateDict, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("checkpoint: safetensors read %s: %w", path, err)
	}

	if len(raw) < 8 {
		return nil, fmt.Errorf("checkpoint: safetensors %s: datei zu kurz", path)
	}
	headerLen := binary.LittleEndian.Uint64(raw[:8])
	if headerLen > safetensorsMaxHeader || 8+headerLen > uint64(len(raw)) {
		return nil, fmt.Errorf("checkpoint: safetensors %s: ungueltige header-laenge %d", path, headerLen)
	}

	var header map[string]json.RawMessage
	if err := json.Unmarshal(raw[8:8+headerLen], &header); err != nil {
		return nil, fmt.Errorf("checkpoint: safetensors %s: header: %w", path, err)
	}
	delete(header, "__metadata__")

	type namedEntry struct {
		name  string
		entry safetensorEntry
	}
	entries := make([]namedEntry, 0, len(header))
	for name, rawEntry := range header {
		var e safetensorEntry
		if err := json.Unmarshal(rawEntry, &e); err != nil {
			return nil, fmt.Errorf("checkpoint: safetensors %s: eintrag %s: %w", path, name, err)
		}
		entries = append(entries, namedEntry{name: name, entry: e})
	}

	// Reihenfolge ist durch die Daten-Offsets gegeben, nicht durch die
	// (unsortierte) JSON-Map.
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].entry.DataOffsets[0] < entries[j].entry.DataOffsets[0]
	})

	data := raw[8+headerLen:]
	sd := NewStateDict()
	for _, ne := range entries {
		begin, end := ne.entry.DataOffsets[0], ne.entry.DataOffsets[1]
		if begin < 0 || end < begin || end > len(data) {
			return nil, fmt.Errorf("checkpoint: safetensors %s: offsets %v ausserhalb der daten", path, ne.entry.DataOffsets)
		}

		values, err := decodeDType(ne.entry.DType, data[begin:end])
		if err != nil {
			return nil, fmt.Errorf("checkpoint: safetensors %s: %s: %w", path, ne.name, err)
		}

		dense, err := newDense(ne.entry.Shape, values)
		if err != nil {
			return nil, err
		}
		sd.Set(ne.name, dense)
	}

	if sd.Len() == 0 {
		return nil, ErrEmptyStateDict
	}

	return sd, nil
}

// decodeDType materialisiert Roh-Daten eines Eintrags als float32.
func decodeDType(dtype string, raw []byte) ([]float32, error) {
	switch dtype {
	case "F32":
		out := make([]float32, len(raw)/4)
		for i := range out {
			out[i] = math.Float32frombits(binary.LittleEndian.Uint32(raw[i*4:]))
		}
		return out, nil
	case "F16":
		out := make([]float32, len(raw)/2)
		for i := range out {
			out[i] = float16.Frombits(binary.LittleEndian.Uint16(raw[i*2:])).Float32()
		}
		return out, nil
	case "BF16":
		return bfloat16.DecodeFloat32(raw), nil
	case "F64":
		out := make([]float32, len(raw)/8)
		for i := range out {
			out[i] = float32(math.Float64frombits(binary.LittleEndian.Uint64(raw[i*8:])))
		}
		return out, nil
	case "I64":
		out := make([]float32, len(raw)/8)
		for i := range out {
			out[i] = float32(int64(binary.LittleEndian.Uint64(raw[i*8:])))
		}
		return out, nil
	case "I32":
		out := make([]float32, len(raw)/4)
		for i := range out {
			out[i] = float32(int32(binary.LittleEndian.Uint32(raw[i*4:])))
		}
		return out, nil
	case "U8":
		out := make([]float32, len(raw))
		for i, v := range raw {
			out[i] = float32(v)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: dtype %s", ErrUnsupportedValue, dtype)
	}
}

// ============================================================================
// Schreiben
// ============================================================================

// SaveSafetensors schreibt ein StateDict als Safetensors-Datei (dtype F32).
// Die Eintrags-Reihenfolge des StateDicts bleibt ueber die Daten-Offsets
// erhalten.
func SaveSafetensors(path string, sd StateDict) error {
	header := make(map[string]safetensorEntry, sd.Len())

	var offset int
	var payload []byte
	for pair := sd.Oldest(); pair != nil; pair = pair.Next() {
		data := pair.Value.Data().([]float32)
		begin := offset
		for _, v := range data {
			payload = binary.LittleEndian.AppendUint32(payload, math.Float32bits(v))
		}
		offset += 4 * len(data)

		header[pair.Key] = safetensorEntry{
			DType:       "F32",
			Shape:       []int(pair.Value.Shape()),
			DataOffsets: [2]int{begin, offset},
		}
	}

	headerJSON, err := json.Marshal(header)
	if err != nil {
		return fmt.Errorf("checkpoint: safetensors header: %w", err)
	}

	out := binary.LittleEndian.AppendUint64(nil, uint64(len(headerJSON)))
	out = append(out, headerJSON...)
	out = append(out, payload...)

	return os.WriteFile(path, out, 0o644)
}
