package render

import (
	"errors"
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"io"
	"os"
)

var ErrNoFrames = errors.New("render: no frames captured")

// GIFRecorder collects frames for an animated GIF.
type GIFRecorder struct {
	// Delay between frames in hundredths of a second.
	Delay int
	// MaxFrames caps memory use; older frames are dropped. Zero means no cap.
	MaxFrames int
	frames    []*image.Paletted
}

func NewGIFRecorder(fps int) *GIFRecorder {
	delay := 2
	if fps > 0 {
		delay = max(100/fps, 1)
	}
	return &GIFRecorder{Delay: delay}
}

// Capture quantizes img to the Plan 9 palette and appends it. A frame of a
// different size than the ones already held starts the recording over.
func (r *GIFRecorder) Capture(img image.Image) {
	b := img.Bounds()
	if len(r.frames) > 0 && r.frames[0].Bounds() != b {
		r.frames = nil
	}
	frame := image.NewPaletted(b, palette.Plan9)
	draw.FloydSteinberg.Draw(frame, b, img, b.Min)
	r.frames = append(r.frames, frame)
	if r.MaxFrames > 0 && len(r.frames) > r.MaxFrames {
		r.frames = r.frames[len(r.frames)-r.MaxFrames:]
	}
}

func (r *GIFRecorder) Len() int { return len(r.frames) }

func (r *GIFRecorder) Reset() { r.frames = nil }

func (r *GIFRecorder) Encode(w io.Writer) error {
	if len(r.frames) == 0 {
		return ErrNoFrames
	}
	anim := gif.GIF{LoopCount: 0}
	for _, frame := range r.frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, r.Delay)
	}
	return gif.EncodeAll(w, &anim)
}

func (r *GIFRecorder) Save(path string) error {
	if len(r.frames) == 0 {
		return ErrNoFrames
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := r.Encode(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
