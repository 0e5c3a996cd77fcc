package classify

import (
	"image"

	"github.com/disintegration/imaging"
)

// Tensor is a preprocessed image ready for inference: flat float32 pixel
// data in NHWC order with a batch dimension of 1 and exactly 3 channels,
// values scaled to [0,1].
type Tensor struct {
	Data []float32 // len == H*W*3
	H, W int
}

// Shape returns the tensor shape (1, H, W, 3).
func (t *Tensor) Shape() [4]int {
	return [4]int{1, t.H, t.W, 3}
}

// Mean returns the mean pixel intensity across all channels. Used by the
// demo fallback to derive a deterministic class index.
func (t *Tensor) Mean() float64 {
	if len(t.Data) == 0 {
		return 0
	}
	var sum float64
	for _, v := range t.Data {
		sum += float64(v)
	}
	return sum / float64(len(t.Data))
}

// toCHW repacks the NHWC data into channels-first order for models that
// declare an NCHW input.
func (t *Tensor) toCHW() []float32 {
	out := make([]float32, len(t.Data))
	hw := t.H * t.W
	for i := 0; i < hw; i++ {
		out[i] = t.Data[i*3]
		out[hw+i] = t.Data[i*3+1]
		out[2*hw+i] = t.Data[i*3+2]
	}
	return out
}

// Preprocess converts an image into a model input tensor: Lanczos resize to
// w×h ignoring aspect ratio, pixel values scaled to [0,1] as float32,
// exactly 3 channels. Grayscale inputs are replicated across channels and an
// alpha channel is dropped by the NRGBA conversion.
func Preprocess(img image.Image, w, h int) *Tensor {
	resized := imaging.Resize(img, w, h, imaging.Lanczos)

	data := make([]float32, h*w*3)
	i := 0
	for y := 0; y < h; y++ {
		row := resized.Pix[y*resized.Stride : y*resized.Stride+w*4]
		for x := 0; x < w; x++ {
			data[i] = float32(row[x*4]) / 255.0
			data[i+1] = float32(row[x*4+1]) / 255.0
			data[i+2] = float32(row[x*4+2]) / 255.0
			i += 3
		}
	}
	return &Tensor{Data: data, H: h, W: w}
}
