// MODUL: model_test
// ZWECK: Tests fuer Modellbau, LayerSpec und Praezisions-Transformationen
package model

import (
	"testing"

	"github.com/pdevine/tensor"

	"github.com/7blacky7/openclip-go/checkpoint"
	"github.com/7blacky7/openclip-go/config"
)

func vitConfig(t *testing.T) *config.ModelConfig {
	t.Helper()
	cfg, result, err := config.Parse([]byte(`{
		"embed_dim": 512,
		"vision_cfg": {"image_size": 224, "layers": 12, "width": 768, "patch_size": 32},
		"text_cfg": {"context_length": 77, "vocab_size": 49408, "width": 512, "heads": 8, "layers": 12}
	}`))
	if err != nil || !result.OK {
		t.Fatalf("Parse: %v %+v", err, result)
	}
	return cfg
}

func testStateDict(t *testing.T, values []float32) checkpoint.StateDict {
	t.Helper()
	sd := checkpoint.NewStateDict()
	sd.Set("visual.proj", tensor.New(tensor.WithShape(len(values)), tensor.WithBacking(values)))
	return sd
}

func TestNewViT(t *testing.T) {
	m, err := New(vitConfig(t))
	if err != nil {
		t.Fatal(err)
	}

	if m.VisualImageSize() != 224 {
		t.Errorf("VisualImageSize = %d", m.VisualImageSize())
	}
	if m.Visual.Layers.IsResNet() {
		t.Error("ViT-Config darf kein ResNet sein")
	}
	if m.Visual.Layers.Depth != 12 {
		t.Errorf("Depth = %d", m.Visual.Layers.Depth)
	}
	if m.Device() != DeviceCPU || m.DType() != DTypeFP32 {
		t.Errorf("frisches Modell: device=%s dtype=%s", m.Device(), m.DType())
	}
}

func TestNewResNetLayerSpec(t *testing.T) {
	cfg, _, err := config.Parse([]byte(`{
		"embed_dim": 1024,
		"vision_cfg": {"image_size": 224, "layers": [3, 4, 6, 3], "width": 64},
		"text_cfg": {"context_length": 77, "vocab_size": 49408, "width": 512, "heads": 8, "layers": 12}
	}`))
	if err != nil {
		t.Fatal(err)
	}

	m, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if !m.Visual.Layers.IsResNet() {
		t.Fatal("erwartete ResNet-Stufen")
	}
	if got := m.Visual.Layers.Stages; len(got) != 4 || got[2] != 6 {
		t.Errorf("Stages = %v", got)
	}
}

func TestNewDefaultImageSize(t *testing.T) {
	cfg, _, err := config.Parse([]byte(`{
		"embed_dim": 512,
		"vision_cfg": {"layers": 12, "width": 768, "patch_size": 32},
		"text_cfg": {"context_length": 77, "vocab_size": 49408, "width": 512, "heads": 8, "layers": 12}
	}`))
	if err != nil {
		t.Fatal(err)
	}

	m, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if m.VisualImageSize() != 224 {
		t.Errorf("Default-Bildgroesse = %d, erwartet 224", m.VisualImageSize())
	}
}

func TestLoadStateDict(t *testing.T) {
	m, _ := New(vitConfig(t))

	if err := m.LoadStateDict(nil); err != ErrEmptyStateDict {
		t.Errorf("nil StateDict: %v", err)
	}

	sd := testStateDict(t, []float32{1, 2, 3})
	if err := m.LoadStateDict(sd); err != nil {
		t.Fatal(err)
	}
	if m.ParamCount() != 3 {
		t.Errorf("ParamCount = %d", m.ParamCount())
	}
}

func TestConvertWeightsToFP16RequiresAccelerator(t *testing.T) {
	m, _ := New(vitConfig(t))
	if err := m.LoadStateDict(testStateDict(t, []float32{1, 2})); err != nil {
		t.Fatal(err)
	}

	if err := ConvertWeightsToFP16(m); err != ErrHalfOnCPU {
		t.Fatalf("CPU-Konvertierung: %v, erwartet ErrHalfOnCPU", err)
	}
	if m.DType() != DTypeFP32 {
		t.Error("fehlgeschlagene Konvertierung darf den DType nicht aendern")
	}

	m.To(DeviceCUDA)
	if err := ConvertWeightsToFP16(m); err != nil {
		t.Fatal(err)
	}
	if m.DType() != DTypeFP16 {
		t.Errorf("DType = %s", m.DType())
	}
}

func TestConvertWeightsToFP16Quantizes(t *testing.T) {
	m, _ := New(vitConfig(t))
	// 1e-8 ist in half nicht darstellbar (flush to zero),
	// Pi verliert Nachkommastellen
	if err := m.LoadStateDict(testStateDict(t, []float32{1e-8, 3.14159265})); err != nil {
		t.Fatal(err)
	}
	m.To(DeviceCUDA)

	if err := m.Half(); err != nil {
		t.Fatal(err)
	}

	pair := m.StateDict().Oldest()
	data := pair.Value.Data().([]float32)
	if data[0] != 0 {
		t.Errorf("1e-8 in fp16 = %g, erwartet 0", data[0])
	}
	if data[1] == 3.14159265 {
		t.Error("Pi muss durch fp16 Praezision verlieren")
	}
}

func TestTraceFreezesModel(t *testing.T) {
	m, _ := New(vitConfig(t))
	m.Trace()

	if !m.Traced() {
		t.Fatal("Trace() muss das Modell markieren")
	}
	if err := m.LoadStateDict(testStateDict(t, []float32{1})); err != ErrTraced {
		t.Errorf("LoadStateDict nach Trace: %v, erwartet ErrTraced", err)
	}
}

func TestPrecisionKnown(t *testing.T) {
	for _, p := range []Precision{PrecisionFP32, PrecisionAMP, PrecisionFP16} {
		if !p.Known() {
			t.Errorf("%s muss bekannt sein", p)
		}
	}
	if Precision("bf16").Known() {
		t.Error("bf16 ist (noch) keine erkannte Precision")
	}
}
