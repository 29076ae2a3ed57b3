package render

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"

	"github.com/icza/mjpeg"

	"snow-ca/internal/sims/snowflake"
)

// ErrFrameSize is returned when a frame does not match the first frame's size.
var ErrFrameSize = errors.New("frame size changed")

// Recorder writes snapshots as frames of a Motion-JPEG AVI time-lapse. The
// file is created on the first frame, whose size fixes the video size.
type Recorder struct {
	path    string
	fps     int32
	opts    PNGOptions
	quality int

	aw     mjpeg.AviWriter
	size   image.Point
	frames int
	buf    bytes.Buffer
}

// NewRecorder prepares a recorder for path. Frames are rendered with opts.
func NewRecorder(path string, fps int, opts PNGOptions) *Recorder {
	if fps <= 0 {
		fps = 1
	}
	return &Recorder{path: path, fps: int32(fps), opts: opts, quality: 90}
}

// AddFrame renders s and appends it to the video.
func (r *Recorder) AddFrame(s *snowflake.Snapshot) error {
	img := HexImage(s, r.opts)
	size := img.Bounds().Size()
	if r.aw == nil {
		aw, err := mjpeg.New(r.path, int32(size.X), int32(size.Y), r.fps)
		if err != nil {
			return fmt.Errorf("create %s: %w", r.path, err)
		}
		r.aw = aw
		r.size = size
	} else if size != r.size {
		return fmt.Errorf("%w: %v, want %v", ErrFrameSize, size, r.size)
	}

	r.buf.Reset()
	if err := jpeg.Encode(&r.buf, img, &jpeg.Options{Quality: r.quality}); err != nil {
		return err
	}
	if err := r.aw.AddFrame(r.buf.Bytes()); err != nil {
		return err
	}
	r.frames++
	return nil
}

// Frames is the number of frames written so far.
func (r *Recorder) Frames() int { return r.frames }

// Close finalises the AVI index. A recorder that never received a frame
// leaves no file behind.
func (r *Recorder) Close() error {
	if r.aw == nil {
		return nil
	}
	err := r.aw.Close()
	r.aw = nil
	return err
}
