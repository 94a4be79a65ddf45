package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"path/filepath"
	"strings"

	_ "image/gif"
	_ "image/png"

	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// Errors reported before any file is written; callers reject the whole
// request on either.
var (
	ErrUnsupportedType = errors.New("file type not allowed")
	ErrTooLarge        = errors.New("file too large")
)

var defaultExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true,
}

// File is an uploaded payload before validation.
type File struct {
	Filename string
	Data     []byte
}

// Processed is a validated upload ready for storage. Compressed reports
// whether the payload was re-encoded to fit the size ceiling (in which case
// the filename extension becomes .jpg).
type Processed struct {
	Filename   string
	Data       []byte
	Compressed bool
}

// Processor validates upload types and transparently recompresses raster
// images that exceed the configured size ceiling.
type Processor struct {
	maxSize int
	allowed map[string]bool
}

// NewProcessor creates a Processor with the given size ceiling in bytes and
// the default raster extension set.
func NewProcessor(maxSize int) *Processor {
	return &Processor{maxSize: maxSize, allowed: defaultExtensions}
}

// ProcessAll validates every file before returning; one bad file rejects the
// whole batch so callers never partially persist an upload set.
func (p *Processor) ProcessAll(files []File) ([]Processed, error) {
	processed := make([]Processed, 0, len(files))
	for _, f := range files {
		out, err := p.Process(f)
		if err != nil {
			return nil, err
		}
		processed = append(processed, out)
	}
	return processed, nil
}

// Process validates a single file and recompresses it if oversized.
func (p *Processor) Process(f File) (Processed, error) {
	ext := strings.ToLower(filepath.Ext(f.Filename))
	if !p.allowed[ext] {
		return Processed{}, fmt.Errorf("%w: %s", ErrUnsupportedType, ext)
	}
	if len(f.Data) <= p.maxSize {
		return Processed{Filename: f.Filename, Data: f.Data}, nil
	}

	data, err := compress(f.Data, p.maxSize)
	if err != nil {
		return Processed{}, fmt.Errorf("failed to compress %s: %w", f.Filename, err)
	}
	name := strings.TrimSuffix(f.Filename, filepath.Ext(f.Filename)) + ".jpg"
	return Processed{Filename: name, Data: data, Compressed: true}, nil
}

// compress re-encodes an image as JPEG, first stepping quality down, then
// progressively downscaling. It never drops the upload: if nothing fits the
// ceiling it returns the smallest rendition it could make.
func compress(data []byte, maxSize int) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	img := flatten(src)

	for quality := 95; quality > 10; quality -= 5 {
		out, err := encodeJPEG(img, quality)
		if err != nil {
			return nil, err
		}
		if len(out) <= maxSize {
			return out, nil
		}
	}

	bounds := img.Bounds()
	var smallest []byte
	for scale := 0.9; scale > 0.3; scale -= 0.1 {
		w := int(float64(bounds.Dx()) * scale)
		h := int(float64(bounds.Dy()) * scale)
		if w < 1 || h < 1 {
			break
		}
		resized := image.NewRGBA(image.Rect(0, 0, w, h))
		xdraw.CatmullRom.Scale(resized, resized.Bounds(), img, bounds, xdraw.Over, nil)

		out, err := encodeJPEG(resized, 85)
		if err != nil {
			return nil, err
		}
		if len(out) <= maxSize {
			return out, nil
		}
		smallest, err = encodeJPEG(resized, 50)
		if err != nil {
			return nil, err
		}
	}
	if smallest == nil {
		return encodeJPEG(img, 50)
	}
	return smallest, nil
}

// flatten composites the image onto a white background so transparent
// sources survive JPEG encoding.
func flatten(src image.Image) *image.RGBA {
	bounds := src.Bounds()
	dst := image.NewRGBA(bounds)
	draw.Draw(dst, bounds, image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(dst, bounds, src, bounds.Min, draw.Over)
	return dst
}

func encodeJPEG(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}
