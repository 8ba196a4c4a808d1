package codec

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/gen2brain/avif"
)

// Format identifies a target image format
type Format string

const (
	FormatWebP Format = "webp"
	FormatAVIF Format = "avif"
)

// ErrUnsupportedFormat is returned when the encoder for the requested
// format is not available at runtime
var ErrUnsupportedFormat = errors.New("encoder for requested format is not available")

// ParseFormat validates a user-supplied format name
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatWebP:
		return FormatWebP, nil
	case FormatAVIF:
		return FormatAVIF, nil
	default:
		return "", fmt.Errorf("unknown format %q (expected webp or avif)", s)
	}
}

// Ext returns the output file extension for the format
func (f Format) Ext() string {
	return "." + string(f)
}

// Options holds encoder settings for a single conversion
type Options struct {
	Quality int // 1-100, higher is better
	Speed   int // AVIF encoder speed, 0-10, lower is slower but better
}

// Support is the set of formats the runtime encoders can produce
type Support map[Format]bool

// Has reports whether the format can be encoded
func (s Support) Has(f Format) bool {
	return s[f]
}

// Detect probes each encoder once with a 1x1 image and returns the set of
// formats that encoded successfully. AVIF goes through an embedded libavif
// build that can be unavailable on some platforms, so it is verified the
// same way as everything else instead of being assumed.
func Detect() Support {
	probe := image.NewRGBA(image.Rect(0, 0, 1, 1))
	support := Support{}

	var buf bytes.Buffer
	if err := webp.Encode(&buf, probe, &webp.Options{Quality: 80}); err == nil {
		support[FormatWebP] = true
	}

	buf.Reset()
	if err := avif.Encode(&buf, probe, avif.Options{Quality: 80, Speed: 10}); err == nil {
		support[FormatAVIF] = true
	}

	return support
}

// Converter re-encodes JPEG images into WebP or AVIF
type Converter struct {
	support Support
}

// New creates a Converter, probing encoder availability once
func New() *Converter {
	return &Converter{support: Detect()}
}

// Supports reports whether the converter can encode the given format
func (c *Converter) Supports(f Format) bool {
	return c.support.Has(f)
}

// Supported returns the detected format capability set
func (c *Converter) Supported() Support {
	return c.support
}

// Convert decodes the image from r and re-encodes it into the requested
// format. The decoded image is auto-oriented from EXIF metadata so output
// pixels match what viewers display for the source JPEG.
func (c *Converter) Convert(r io.Reader, format Format, opts Options) ([]byte, error) {
	if opts.Quality < 1 || opts.Quality > 100 {
		return nil, fmt.Errorf("quality %d out of range 1-100", opts.Quality)
	}
	if !c.Supports(format) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}

	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("error decoding image: %w", err)
	}

	var buf bytes.Buffer

	switch format {
	case FormatWebP:
		err = webp.Encode(&buf, img, &webp.Options{Quality: float32(opts.Quality)})
	case FormatAVIF:
		err = avif.Encode(&buf, img, avif.Options{
			Quality:           opts.Quality,
			QualityAlpha:      opts.Quality,
			Speed:             opts.Speed,
			ChromaSubsampling: image.YCbCrSubsampleRatio420,
		})
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}

	if err != nil {
		return nil, fmt.Errorf("error encoding to %s: %w", format, err)
	}

	return buf.Bytes(), nil
}
