package codec

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeJPEG(t *testing.T, width, height int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 37), G: uint8(y * 91), B: 128, A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}))
	return buf.Bytes()
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    Format
		wantErr bool
	}{
		{input: "webp", want: FormatWebP},
		{input: "avif", want: FormatAVIF},
		{input: "both", wantErr: true},
		{input: "", wantErr: true},
		{input: "WEBP", wantErr: true},
	}

	for _, tt := range tests {
		t.Run("parse "+tt.input, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestDetect(t *testing.T) {
	support := Detect()

	// WebP encoding is always compiled in
	assert.True(t, support.Has(FormatWebP))
}

func TestConverter_ConvertWebP(t *testing.T) {
	conv := New()
	src := makeJPEG(t, 16, 16)

	out, err := conv.Convert(bytes.NewReader(src), FormatWebP, Options{Quality: 80})
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

func TestConverter_ConvertAVIF(t *testing.T) {
	conv := New()
	if !conv.Supports(FormatAVIF) {
		t.Skip("AVIF encoder not available on this platform")
	}

	src := makeJPEG(t, 16, 16)

	out, err := conv.Convert(bytes.NewReader(src), FormatAVIF, Options{Quality: 80, Speed: 10})
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

func TestConverter_QualityBounds(t *testing.T) {
	conv := New()
	src := makeJPEG(t, 8, 8)

	for _, quality := range []int{1, 100} {
		out, err := conv.Convert(bytes.NewReader(src), FormatWebP, Options{Quality: quality})
		require.NoError(t, err, "quality %d should be accepted", quality)
		assert.NotEmpty(t, out)
	}

	for _, quality := range []int{0, 101, -5} {
		_, err := conv.Convert(bytes.NewReader(src), FormatWebP, Options{Quality: quality})
		require.Error(t, err, "quality %d should be rejected", quality)
	}
}

func TestConverter_BadInput(t *testing.T) {
	conv := New()

	_, err := conv.Convert(bytes.NewReader([]byte("not an image")), FormatWebP, Options{Quality: 80})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decoding image")
}

func TestConverter_UnsupportedFormat(t *testing.T) {
	conv := &Converter{support: Support{FormatWebP: true}}
	src := makeJPEG(t, 8, 8)

	_, err := conv.Convert(bytes.NewReader(src), FormatAVIF, Options{Quality: 80})
	require.ErrorIs(t, err, ErrUnsupportedFormat)
}
