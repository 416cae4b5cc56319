// MODUL: transform
// ZWECK: Preprocessing-Pipelines fuer Training und Evaluation
// INPUT: Bildgroesse, Train/Eval-Flag, dekodierte Bilder
// OUTPUT: Normalisierte CHW float32-Tensoren
// NEBENEFFEKTE: Keine (abgesehen von Datei-Zugriff in ProcessFile)
// ABHAENGIGKEITEN: image.go (Geometrie), pdevine/tensor
// HINWEISE: Training nutzt RandomResizedCrop (Skala 0.9-1.0),
//           Evaluation Resize der kuerzeren Seite plus Center-Crop

package transform

import (
	"fmt"
	"image"
	"math"
	"math/rand"

	"github.com/pdevine/tensor"
)

// ============================================================================
// Normalisierungs-Presets
// ============================================================================

var (
	// CLIP Default (WIT-Trainingsdaten)
	ClipMean = [3]float32{0.48145466, 0.4578275, 0.40821073}
	ClipStd  = [3]float32{0.26862954, 0.26130258, 0.27577711}

	// ImageNet Default (ResNet, EfficientNet, etc.)
	ImageNetMean = [3]float32{0.485, 0.456, 0.406}
	ImageNetStd  = [3]float32{0.229, 0.224, 0.225}
)

// RandomResizedCrop-Parameter fuer den Trainings-Pfad.
const (
	cropScaleMin = 0.9
	cropScaleMax = 1.0
	cropRatioMin = 3.0 / 4.0
	cropRatioMax = 4.0 / 3.0
	cropAttempts = 10
)

// ============================================================================
// Pipeline
// ============================================================================

// Pipeline ist eine konfigurierte Preprocessing-Kette.
// Eine Pipeline ist nach dem Bau unveraenderlich bis auf den
// Zufallszustand des Trainings-Crops.
type Pipeline struct {
	size  int
	train bool
	mean  [3]float32
	std   [3]float32
	rng   *rand.Rand
}

// Option ist eine funktionale Option fuer den Pipeline-Bau.
type Option func(*Pipeline)

// WithMeanStd ueberschreibt die Normalisierungswerte.
func WithMeanStd(mean, std [3]float32) Option {
	return func(p *Pipeline) {
		p.mean, p.std = mean, std
	}
}

// WithSeed macht den Trainings-Crop deterministisch.
func WithSeed(seed int64) Option {
	return func(p *Pipeline) {
		p.rng = rand.New(rand.NewSource(seed))
	}
}

// ImageTransform baut eine Preprocessing-Pipeline fuer die gegebene
// Bildgroesse. isTrain waehlt zwischen RandomResizedCrop (Training) und
// Resize+CenterCrop (Evaluation). Default-Normalisierung ist CLIP.
func ImageTransform(imageSize int, isTrain bool, opts ...Option) *Pipeline {
	p := &Pipeline{
		size:  imageSize,
		train: isTrain,
		mean:  ClipMean,
		std:   ClipStd,
		rng:   rand.New(rand.NewSource(rand.Int63())),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ImageSize gibt die Ziel-Bildgroesse zurueck.
func (p *Pipeline) ImageSize() int { return p.size }

// IsTrain meldet ob dies die Trainings-Pipeline ist.
func (p *Pipeline) IsTrain() bool { return p.train }

// ============================================================================
// Verarbeitung
// ============================================================================

// Process fuehrt die Pipeline auf einem dekodierten Bild aus und gibt
// einen normalisierten CHW-Tensor der Form [3, size, size] zurueck.
func (p *Pipeline) Process(img image.Image) (*tensor.Dense, error) {
	if p.size <= 0 {
		return nil, fmt.Errorf("transform: ungueltige bildgroesse %d", p.size)
	}

	rgba := toRGBA(img)

	if p.train {
		rgba = p.randomResizedCrop(rgba)
	} else {
		rgba = centerCrop(resizeShortestSide(rgba, p.size), p.size, p.size)
	}

	rgba = compositeWhite(rgba)
	data := normalizeCHW(rgba, p.mean, p.std)

	return tensor.New(tensor.WithShape(3, p.size, p.size), tensor.WithBacking(data)), nil
}

// ProcessBytes dekodiert und verarbeitet Bild-Daten.
func (p *Pipeline) ProcessBytes(data []byte) (*tensor.Dense, error) {
	img, err := DecodeImage(data)
	if err != nil {
		return nil, err
	}
	return p.Process(img)
}

// ProcessFile laedt und verarbeitet eine Bilddatei.
func (p *Pipeline) ProcessFile(path string) (*tensor.Dense, error) {
	img, err := LoadImage(path)
	if err != nil {
		return nil, err
	}
	return p.Process(img)
}

// randomResizedCrop zieht einen zufaelligen Ausschnitt mit Flaechen-Skala
// in [0.9, 1.0] und Seitenverhaeltnis in [3/4, 4/3] und skaliert ihn auf
// die Zielgroesse. Nach zehn Fehlversuchen faellt er auf Center-Crop zurueck.
func (p *Pipeline) randomResizedCrop(img *image.RGBA) *image.RGBA {
	b := img.Bounds()
	area := float64(b.Dx() * b.Dy())

	for range cropAttempts {
		targetArea := area * (cropScaleMin + p.rng.Float64()*(cropScaleMax-cropScaleMin))
		logRatio := math.Log(cropRatioMin) + p.rng.Float64()*(math.Log(cropRatioMax)-math.Log(cropRatioMin))
		ratio := math.Exp(logRatio)

		w := int(math.Round(math.Sqrt(targetArea * ratio)))
		h := int(math.Round(math.Sqrt(targetArea / ratio)))
		if w <= 0 || h <= 0 || w > b.Dx() || h > b.Dy() {
			continue
		}

		x := b.Min.X + p.rng.Intn(b.Dx()-w+1)
		y := b.Min.Y + p.rng.Intn(b.Dy()-h+1)
		return cropResize(img, x, y, w, h, p.size)
	}

	return centerCrop(resizeShortestSide(img, p.size), p.size, p.size)
}

// ============================================================================
// Normalisierung
// ============================================================================

// normalizeCHW skaliert Pixel auf [0,1], normalisiert mit mean/std und
// gibt das Ergebnis im CHW-Layout zurueck (Channel-First).
func normalizeCHW(img *image.RGBA, mean, std [3]float32) []float32 {
	bounds := img.Bounds()
	h, w := bounds.Dy(), bounds.Dx()
	plane := h * w

	result := make([]float32, 3*plane)
	idx := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()

			// RGBA liefert 16-bit Werte, auf [0,1] skalieren
			result[idx] = (float32(r>>8)/255.0 - mean[0]) / std[0]
			result[plane+idx] = (float32(g>>8)/255.0 - mean[1]) / std[1]
			result[2*plane+idx] = (float32(b>>8)/255.0 - mean[2]) / std[2]
			idx++
		}
	}

	return result
}
