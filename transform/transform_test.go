// MODUL: transform_test
// ZWECK: Tests fuer Preprocessing-Pipelines
// HINWEISE: Nutzt synthetische RGBA-Bilder

package transform

import (
	"image"
	"image/color"
	"math"
	"testing"
)

// solidImage erzeugt ein einfarbiges Testbild.
func solidImage(w, h int, c color.Color) *image.RGBA {
	rgba := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			rgba.Set(x, y, c)
		}
	}
	return rgba
}

func TestEvalPipelineShape(t *testing.T) {
	p := ImageTransform(224, false)
	out, err := p.Process(solidImage(640, 480, color.RGBA{128, 128, 128, 255}))
	if err != nil {
		t.Fatal(err)
	}

	shape := out.Shape()
	if len(shape) != 3 || shape[0] != 3 || shape[1] != 224 || shape[2] != 224 {
		t.Errorf("Shape = %v, erwartet [3 224 224]", shape)
	}
	if n := len(out.Data().([]float32)); n != 3*224*224 {
		t.Errorf("Datenlaenge = %d", n)
	}
}

func TestEvalPipelineNormalization(t *testing.T) {
	// Weisses Bild: Kanalwert 1.0, normalisiert (1 - mean) / std
	p := ImageTransform(32, false)
	out, err := p.Process(solidImage(64, 64, color.RGBA{255, 255, 255, 255}))
	if err != nil {
		t.Fatal(err)
	}

	data := out.Data().([]float32)
	want := (1.0 - ClipMean[0]) / ClipStd[0]
	if math.Abs(float64(data[0]-want)) > 1e-4 {
		t.Errorf("R-Kanal = %f, erwartet %f", data[0], want)
	}
}

func TestCustomMeanStd(t *testing.T) {
	p := ImageTransform(16, false, WithMeanStd(ImageNetMean, ImageNetStd))
	out, err := p.Process(solidImage(16, 16, color.RGBA{0, 0, 0, 255}))
	if err != nil {
		t.Fatal(err)
	}

	data := out.Data().([]float32)
	want := (0.0 - ImageNetMean[0]) / ImageNetStd[0]
	if math.Abs(float64(data[0]-want)) > 1e-4 {
		t.Errorf("R-Kanal = %f, erwartet %f", data[0], want)
	}
}

func TestTrainPipelineDeterministicWithSeed(t *testing.T) {
	img := gradientImage(64, 64)

	first, err := ImageTransform(32, true, WithSeed(7)).Process(img)
	if err != nil {
		t.Fatal(err)
	}
	second, err := ImageTransform(32, true, WithSeed(7)).Process(img)
	if err != nil {
		t.Fatal(err)
	}

	a, b := first.Data().([]float32), second.Data().([]float32)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("gleicher Seed muss gleiche Tensoren liefern (Index %d: %f != %f)", i, a[i], b[i])
		}
	}
}

func TestTrainPipelineShape(t *testing.T) {
	p := ImageTransform(48, true, WithSeed(1))
	out, err := p.Process(gradientImage(100, 80))
	if err != nil {
		t.Fatal(err)
	}

	shape := out.Shape()
	if shape[0] != 3 || shape[1] != 48 || shape[2] != 48 {
		t.Errorf("Shape = %v", shape)
	}
}

func TestAlphaComposite(t *testing.T) {
	// Voll transparentes Bild wird gegen Weiss aufgeloest
	p := ImageTransform(8, false)
	out, err := p.Process(solidImage(8, 8, color.RGBA{0, 0, 0, 0}))
	if err != nil {
		t.Fatal(err)
	}

	data := out.Data().([]float32)
	want := (1.0 - ClipMean[0]) / ClipStd[0]
	if math.Abs(float64(data[0]-want)) > 1e-2 {
		t.Errorf("transparenter Pixel = %f, erwartet weiss (%f)", data[0], want)
	}
}

func TestSmallImageUpscaled(t *testing.T) {
	// Bild kleiner als Zielgroesse: Center-Crop skaliert hoch
	p := ImageTransform(32, false)
	out, err := p.Process(solidImage(10, 10, color.RGBA{255, 0, 0, 255}))
	if err != nil {
		t.Fatal(err)
	}
	if shape := out.Shape(); shape[1] != 32 || shape[2] != 32 {
		t.Errorf("Shape = %v", shape)
	}
}

// gradientImage erzeugt ein Bild mit Positions-abhaengigen Farben.
func gradientImage(w, h int) *image.RGBA {
	rgba := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			rgba.Set(x, y, color.RGBA{uint8(x * 255 / w), uint8(y * 255 / h), 128, 255})
		}
	}
	return rgba
}
