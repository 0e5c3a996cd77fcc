package classify

import (
	"image"
	"image/color"
	"testing"
)

func uniformGray(w, h int, v uint8) image.Image {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = v
	}
	return img
}

func uniformRGBA(w, h int, r, g, b, a uint8) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: r, G: g, B: b, A: a})
		}
	}
	return img
}

func TestPreprocess_ShapeAcrossModes(t *testing.T) {
	inputs := []struct {
		name string
		img  image.Image
	}{
		{"gray", uniformGray(100, 100, 128)},
		{"rgba", uniformRGBA(100, 100, 10, 20, 30, 200)},
		{"rgb", uniformRGBA(100, 100, 10, 20, 30, 255)},
		{"wide", uniformGray(400, 60, 128)},
		{"tall", uniformGray(60, 400, 128)},
	}
	for _, tt := range inputs {
		tensor := Preprocess(tt.img, 224, 224)
		if got := tensor.Shape(); got != [4]int{1, 224, 224, 3} {
			t.Errorf("%s: shape = %v, want [1 224 224 3]", tt.name, got)
		}
		if len(tensor.Data) != 224*224*3 {
			t.Errorf("%s: data length = %d, want %d", tt.name, len(tensor.Data), 224*224*3)
		}
		for _, v := range tensor.Data {
			if v < 0 || v > 1 {
				t.Fatalf("%s: pixel value %f outside [0,1]", tt.name, v)
			}
		}
	}
}

func TestPreprocess_NonSquareTarget(t *testing.T) {
	tensor := Preprocess(uniformGray(100, 100, 128), 128, 96)
	if got := tensor.Shape(); got != [4]int{1, 96, 128, 3} {
		t.Fatalf("shape = %v, want [1 96 128 3]", got)
	}
}

func TestPreprocess_GrayscaleReplicatesChannels(t *testing.T) {
	tensor := Preprocess(uniformGray(64, 64, 200), 32, 32)
	for i := 0; i < len(tensor.Data); i += 3 {
		r, g, b := tensor.Data[i], tensor.Data[i+1], tensor.Data[i+2]
		if r != g || g != b {
			t.Fatalf("expected replicated channels at pixel %d, got %f %f %f", i/3, r, g, b)
		}
	}
}

func TestTensor_Mean(t *testing.T) {
	tensor := Preprocess(uniformGray(64, 64, 255), 16, 16)
	if m := tensor.Mean(); m < 0.99 || m > 1.0 {
		t.Fatalf("expected mean near 1.0 for white image, got %f", m)
	}
	tensor = Preprocess(uniformGray(64, 64, 0), 16, 16)
	if m := tensor.Mean(); m != 0 {
		t.Fatalf("expected mean 0 for black image, got %f", m)
	}
}

func TestTensor_ToCHW(t *testing.T) {
	// 1x2 image: pixel 0 = (1,2,3), pixel 1 = (4,5,6).
	tensor := &Tensor{Data: []float32{1, 2, 3, 4, 5, 6}, H: 1, W: 2}
	got := tensor.toCHW()
	want := []float32{1, 4, 2, 5, 3, 6}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("toCHW = %v, want %v", got, want)
		}
	}
}
