package signature

import (
	"bytes"
	"errors"
	"math"

	"github.com/fogleman/gg"
)

const penWidth = 2.5

var errBadDimensions = errors.New("pad dimensions must be positive")

// Point is a pad coordinate in logical (unscaled) pixels.
type Point struct {
	X float64
	Y float64
}

// State is the pull-based capture result exposed after every stroke-end
// and clear. Payload is nil when the surface is blank.
type State struct {
	Payload []byte
	Empty   bool
}

// Pad accumulates pointer strokes into a raster surface. The raster is
// sized by the device pixel ratio while strokes are recorded in logical
// coordinates, so a resize can replay them at the new density instead of
// discarding an in-progress signature.
//
// Emptiness is decided against a baseline encoding captured per surface
// instance rather than a hardcoded constant: the painted background varies
// with the pixel ratio, and a raw "no strokes yet" flag alone misses
// strokes that never touched the visible surface. The contract is
// empty = (no strokes recorded) OR (encoding == baseline).
type Pad struct {
	width  int
	height int
	scale  float64

	dc       *gg.Context
	baseline []byte

	strokes [][]Point
	current []Point
}

// NewPad creates a capture surface of the given logical size. A scale of
// zero or less falls back to 1.
func NewPad(width, height int, scale float64) (*Pad, error) {
	if width <= 0 || height <= 0 {
		return nil, errBadDimensions
	}

	if scale <= 0 {
		scale = 1
	}

	p := &Pad{width: width, height: height, scale: scale}
	if err := p.rebuild(); err != nil {
		return nil, err
	}

	return p, nil
}

// BeginStroke starts a new stroke at the given logical coordinates.
func (p *Pad) BeginStroke(x, y float64) {
	p.current = []Point{{X: x, Y: y}}
}

// ExtendStroke appends a point to the in-progress stroke.
func (p *Pad) ExtendStroke(x, y float64) {
	if p.current == nil {
		p.BeginStroke(x, y)
		return
	}

	p.current = append(p.current, Point{X: x, Y: y})
}

// EndStroke commits the in-progress stroke to the raster and returns the
// resulting capture state. The pad never auto-submits; deciding what to do
// with the state is the caller's job.
func (p *Pad) EndStroke() (State, error) {
	if p.current != nil {
		p.strokes = append(p.strokes, p.current)
		p.current = nil
		p.redraw()
	}

	return p.State()
}

// Clear resets the raster to its baseline and reports a nil payload.
func (p *Pad) Clear() State {
	p.strokes = nil
	p.current = nil
	p.redraw()

	return State{Payload: nil, Empty: true}
}

// Resize re-establishes the raster at a new size and pixel density and
// replays the recorded strokes, so existing content is never silently
// dropped by a container reflow.
func (p *Pad) Resize(width, height int, scale float64) error {
	if width <= 0 || height <= 0 {
		return errBadDimensions
	}

	if scale <= 0 {
		scale = 1
	}

	p.width = width
	p.height = height
	p.scale = scale

	return p.rebuild()
}

// State returns the latest (payload, isEmpty) pair. The payload is nil
// when the surface is blank.
func (p *Pad) State() (State, error) {
	enc, err := p.encode()
	if err != nil {
		return State{}, err
	}

	empty := len(p.strokes) == 0 || bytes.Equal(enc, p.baseline)
	if empty {
		return State{Payload: nil, Empty: true}, nil
	}

	return State{Payload: enc, Empty: false}, nil
}

// Artifact returns the current drawing as a drawn artifact.
func (p *Pad) Artifact() (Artifact, error) {
	st, err := p.State()
	if err != nil {
		return Artifact{}, err
	}

	return Artifact{Kind: KindDrawn, Payload: st.Payload}, nil
}

// rebuild recreates the raster context for the current dimensions. The
// baseline encoding is captured from the freshly painted background before
// any stroke is replayed.
func (p *Pad) rebuild() error {
	pw := int(math.Round(float64(p.width) * p.scale))
	ph := int(math.Round(float64(p.height) * p.scale))

	dc := gg.NewContext(pw, ph)
	dc.Scale(p.scale, p.scale)
	p.dc = dc

	p.paintBackground()

	baseline, err := p.encode()
	if err != nil {
		return err
	}

	p.baseline = baseline
	p.redraw()

	return nil
}

func (p *Pad) paintBackground() {
	p.dc.SetRGB(1, 1, 1)
	p.dc.Clear()
}

func (p *Pad) redraw() {
	p.paintBackground()

	dc := p.dc
	dc.SetRGB(0, 0, 0)
	dc.SetLineWidth(penWidth)
	dc.SetLineCap(gg.LineCapRound)
	dc.SetLineJoin(gg.LineJoinRound)

	for _, stroke := range p.strokes {
		if len(stroke) == 1 {
			dc.DrawCircle(stroke[0].X, stroke[0].Y, penWidth/2)
			dc.Fill()

			continue
		}

		dc.MoveTo(stroke[0].X, stroke[0].Y)
		for _, pt := range stroke[1:] {
			dc.LineTo(pt.X, pt.Y)
		}

		dc.Stroke()
	}
}

func (p *Pad) encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := p.dc.EncodePNG(&buf); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
