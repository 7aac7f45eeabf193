package animation

import (
	"fmt"
	"image"
	_ "image/png"
	"os"
)

// Decoder turns a frame identifier into an image.
type Decoder interface {
	Decode(id string) (image.Image, error)
}

// DecoderFunc adapts a function to Decoder.
type DecoderFunc func(id string) (image.Image, error)

// Decode calls f(id).
func (f DecoderFunc) Decode(id string) (image.Image, error) {
	return f(id)
}

// FileDecoder decodes frames from image files on disk.
type FileDecoder struct{}

// Decode opens the file at id and decodes it.
func (FileDecoder) Decode(id string) (image.Image, error) {
	f, err := os.Open(id)
	if err != nil {
		return nil, fmt.Errorf("failed to open frame: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode frame %s: %w", id, err)
	}
	return img, nil
}
