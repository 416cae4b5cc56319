// MODUL: options
// ZWECK: Device- und Precision-Typen fuer den Modellbau
// INPUT: String-Werte aus CLI/Aufrufer-Code
// OUTPUT: Typisierte Device/Precision Werte
// NEBENEFFEKTE: Keine
// ABHAENGIGKEITEN: Keine (nur Standard-Library)
// HINWEISE: Unbekannte Precision-Werte sind dokumentierter Pass-through

package model

// ============================================================================
// Device - Ziel-Geraet fuer Modell-Gewichte
// ============================================================================

// Device bezeichnet das Ziel-Geraet eines Modells.
type Device string

const (
	DeviceCPU   Device = "cpu"
	DeviceCUDA  Device = "cuda"
	DeviceMetal Device = "metal"
)

// DefaultDevice ist das Standard-Geraet.
const DefaultDevice = DeviceCPU

// IsCPU meldet ob das Device der (Default-)CPU-Kontext ist.
func (d Device) IsCPU() bool {
	return d == "" || d == DeviceCPU
}

// ============================================================================
// Precision - numerische Genauigkeit
// ============================================================================

// Precision bezeichnet den numerischen Modus eines Builds.
//
// Erkannt werden fp32, amp und fp16. Andere Werte werden akzeptiert,
// loesen aber keinerlei Sonderbehandlung aus.
type Precision string

const (
	PrecisionFP32 Precision = "fp32" // volle Genauigkeit
	PrecisionAMP  Precision = "amp"  // Mixed-Precision Training
	PrecisionFP16 Precision = "fp16" // halbe Genauigkeit, braucht Beschleuniger
)

// Known meldet ob der Wert eine erkannte Precision ist.
func (p Precision) Known() bool {
	switch p {
	case PrecisionFP32, PrecisionAMP, PrecisionFP16:
		return true
	}
	return false
}
