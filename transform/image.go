// MODUL: image
// ZWECK: Bild-Dekodierung und Geometrie-Operationen fuer Preprocessing
// INPUT: Dateipfad, Bytes oder image.Image
// OUTPUT: RGBA-Bilder in Zielgroesse
// NEBENEFFEKTE: Dateisystem-Lesezugriff bei LoadImage
// ABHAENGIGKEITEN: golang.org/x/image (draw, webp, bmp, tiff)
// HINWEISE: Skalierung mit Catmull-Rom (bikubische Naeherung),
//           Alpha-Kanal wird gegen weissen Hintergrund aufgeloest

package transform

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"os"

	// Standard- und erweiterte Decoder registrieren
	_ "image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// LoadImage laedt und dekodiert ein Bild von einem Dateipfad.
func LoadImage(path string) (image.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("transform: bild lesen fehlgeschlagen: %w", err)
	}
	return DecodeImage(data)
}

// DecodeImage dekodiert ein Bild aus Byte-Daten.
func DecodeImage(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("transform: bild dekodieren fehlgeschlagen: %w", err)
	}
	return img, nil
}

// toRGBA konvertiert ein beliebiges image.Image zu *image.RGBA.
func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}

	bounds := img.Bounds()
	rgba := image.NewRGBA(bounds)
	draw.Draw(rgba, bounds, img, bounds.Min, draw.Src)
	return rgba
}

// resize skaliert auf exakt width x height.
func resize(img *image.RGBA, width, height int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}

// resizeShortestSide skaliert so, dass die kuerzere Seite target misst.
// Das Seitenverhaeltnis bleibt erhalten.
func resizeShortestSide(img *image.RGBA, target int) *image.RGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	var newW, newH int
	if w < h {
		newW = target
		newH = int(float64(h) * float64(target) / float64(w))
	} else {
		newH = target
		newW = int(float64(w) * float64(target) / float64(h))
	}

	return resize(img, newW, newH)
}

// centerCrop schneidet einen zentrierten width x height Bereich aus.
// Ist das Bild kleiner, wird zuvor hochskaliert.
func centerCrop(img *image.RGBA, width, height int) *image.RGBA {
	b := img.Bounds()
	if b.Dx() < width || b.Dy() < height {
		img = resize(img, max(b.Dx(), width), max(b.Dy(), height))
		b = img.Bounds()
	}

	offsetX := b.Min.X + (b.Dx()-width)/2
	offsetY := b.Min.Y + (b.Dy()-height)/2

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	src := image.Rect(offsetX, offsetY, offsetX+width, offsetY+height)
	draw.Draw(dst, dst.Bounds(), img, src.Min, draw.Src)
	return dst
}

// crop schneidet den Bereich [x, y, x+w, y+h] aus und skaliert auf size.
func cropResize(img *image.RGBA, x, y, w, h, size int) *image.RGBA {
	region := image.NewRGBA(image.Rect(0, 0, w, h))
	src := image.Rect(x, y, x+w, y+h)
	draw.Draw(region, region.Bounds(), img, src.Min, draw.Src)
	return resize(region, size, size)
}

// compositeWhite loest den Alpha-Kanal gegen weissen Hintergrund auf.
func compositeWhite(img *image.RGBA) *image.RGBA {
	bounds := img.Bounds()
	dst := image.NewRGBA(bounds)

	draw.Draw(dst, bounds, &image.Uniform{color.White}, image.Point{}, draw.Src)
	draw.Draw(dst, bounds, img, bounds.Min, draw.Over)
	return dst
}
