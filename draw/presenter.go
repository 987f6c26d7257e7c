package draw

import (
	"io"
	"sync"
)

// Presenter paints frames. The visual shell calls Present after every
// render and every tooltip change.
type Presenter interface {
	Present(f *Frame) error
}

// PresenterFunc adapts a function to Presenter.
type PresenterFunc func(f *Frame) error

func (fn PresenterFunc) Present(f *Frame) error { return fn(f) }

// Recorder keeps every presented frame. It backs the CLI and the MCP
// server, which paint once at the end, and tests.
type Recorder struct {
	mu     sync.Mutex
	frames []*Frame
}

func (r *Recorder) Present(f *Frame) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frames = append(r.frames, f)
	return nil
}

// Last returns the most recent frame, or nil.
func (r *Recorder) Last() *Frame {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.frames) == 0 {
		return nil
	}
	return r.frames[len(r.frames)-1]
}

// Count returns how many frames were presented.
func (r *Recorder) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.frames)
}

// SVGPresenter writes each frame as an SVG document to W.
type SVGPresenter struct {
	W io.Writer
}

func (p SVGPresenter) Present(f *Frame) error { return WriteSVG(p.W, f) }
