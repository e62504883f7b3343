// Package widgets provides custom Fyne widgets for the GoScope application.
package widgets

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/vector"

	"github.com/tejashwikalptaru/goscope/internal/scope"
)

// ScopeSource is what the oscilloscope widget draws from.
// *scope.Oscilloscope satisfies it.
type ScopeSource interface {
	Resize(width, height int)
	Scale() scope.Scale
	VisitTraces(fn func(scope.Trace))
	SetCursor(x, y int)
	ClearCursor()
	Readout() (scope.Readout, bool)
}

var (
	backgroundColor = color.RGBA{R: 14, G: 18, B: 16, A: 255}
	gridColor       = color.RGBA{R: 40, G: 54, B: 44, A: 255}
	axisColor       = color.RGBA{R: 78, G: 104, B: 84, A: 255}
	tickLabelColor  = color.RGBA{R: 128, G: 150, B: 132, A: 255}
	readoutBgColor  = color.RGBA{R: 0, G: 0, B: 0, A: 200}
	readoutColor    = color.RGBA{R: 235, G: 235, B: 235, A: 255}
)

// channelPalette is indexed by channel number and wraps around.
var channelPalette = []color.RGBA{
	{R: 38, G: 247, B: 74, A: 255},  // green
	{R: 247, G: 226, B: 38, A: 255}, // yellow
	{R: 70, G: 140, B: 255, A: 255}, // blue
	{R: 38, G: 230, B: 230, A: 255}, // cyan
	{R: 255, G: 150, B: 40, A: 255}, // orange
	{R: 230, G: 60, B: 220, A: 255}, // magenta
}

// ChannelColor returns the trace colour of channel ch.
func ChannelColor(ch int) color.RGBA {
	if ch < 0 {
		ch = -ch
	}
	return channelPalette[ch%len(channelPalette)]
}

// traceHalfWidth is half the stroke width of a trace, in pixels.
const traceHalfWidth = 0.75

// Oscilloscope is a widget that shows the traces of a ScopeSource.
//
// It is made of two stacked rasters. The background holds the grid and tick
// labels and only redraws on RefreshScale; the foreground holds the traces
// and the cursor readout and redraws on RefreshWaveform or pointer moves.
type Oscilloscope struct {
	widget.BaseWidget

	source ScopeSource
	label  scope.LabelSize

	background *canvas.Raster
	foreground *canvas.Raster

	// pixel size of the last draw, used to map pointer positions
	mu      sync.Mutex
	pixelsW int
	pixelsH int

	raster *vector.Rasterizer

	// OnSecondaryTapped is called on a right click, if set.
	OnSecondaryTapped func(*fyne.PointEvent)
}

// NewOscilloscope creates an oscilloscope widget over source.
// label is the readout box size, in pixels.
func NewOscilloscope(source ScopeSource, label scope.LabelSize) *Oscilloscope {
	o := &Oscilloscope{
		source: source,
		label:  label,
		raster: vector.NewRasterizer(0, 0),
	}

	o.background = canvas.NewRaster(o.drawBackground)
	o.foreground = canvas.NewRaster(o.drawForeground)
	o.ExtendBaseWidget(o)

	return o
}

// CreateRenderer implements fyne.Widget.
func (o *Oscilloscope) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(container.NewStack(o.background, o.foreground))
}

// MinSize returns a minimal size so the widget expands to fill available space.
func (o *Oscilloscope) MinSize() fyne.Size {
	return fyne.NewSize(0, 0)
}

// RefreshWaveform redraws the traces and readout. Must run on the UI thread.
func (o *Oscilloscope) RefreshWaveform() {
	o.foreground.Refresh()
}

// RefreshScale redraws the grid and tick labels. Must run on the UI thread.
func (o *Oscilloscope) RefreshScale() {
	o.background.Refresh()
}

// MouseIn implements desktop.Hoverable.
func (o *Oscilloscope) MouseIn(ev *desktop.MouseEvent) {
	o.MouseMoved(ev)
}

// MouseMoved implements desktop.Hoverable.
func (o *Oscilloscope) MouseMoved(ev *desktop.MouseEvent) {
	x, y := o.toPixels(ev.Position)
	o.source.SetCursor(x, y)
	o.foreground.Refresh()
}

// MouseOut implements desktop.Hoverable.
func (o *Oscilloscope) MouseOut() {
	o.source.ClearCursor()
	o.foreground.Refresh()
}

// TappedSecondary implements fyne.SecondaryTappable.
func (o *Oscilloscope) TappedSecondary(pe *fyne.PointEvent) {
	if o.OnSecondaryTapped != nil {
		o.OnSecondaryTapped(pe)
	}
}

// toPixels converts a position in canvas units to raster pixels.
func (o *Oscilloscope) toPixels(pos fyne.Position) (int, int) {
	size := o.Size()

	o.mu.Lock()
	w, h := o.pixelsW, o.pixelsH
	o.mu.Unlock()

	if size.Width <= 0 || size.Height <= 0 || w == 0 || h == 0 {
		return -1, -1
	}

	x := int(pos.X * float32(w) / size.Width)
	y := int(pos.Y * float32(h) / size.Height)
	if x < 0 || y < 0 || x >= w || y >= h {
		return -1, -1
	}
	return x, y
}

// resize records the raster size and forwards it to the source.
func (o *Oscilloscope) resize(w, h int) {
	o.mu.Lock()
	o.pixelsW, o.pixelsH = w, h
	o.mu.Unlock()

	o.source.Resize(w, h)
}

// drawBackground is the raster generator for the grid layer.
func (o *Oscilloscope) drawBackground(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.Draw(img, img.Bounds(), image.NewUniform(backgroundColor), image.Point{}, xdraw.Src)

	if w == 0 || h == 0 {
		return img
	}
	o.resize(w, h)

	sc := o.source.Scale()

	// every tick is labelled; the lines on the top and left edges are not drawn
	for _, t := range sc.Amplitude {
		y := int(math.Round(t.Pixel))
		if y > 0 {
			hline(img, y, lineColor(t.Value))
		}
		drawText(img, fmt.Sprintf("%.1f", t.Value), 3, y+2, tickLabelColor, false)
	}

	for _, t := range sc.Time {
		x := int(math.Round(t.Pixel))
		if x > 0 {
			vline(img, x, gridColor)
		}
		drawText(img, fmt.Sprintf("%d", int(t.Value)), x+3, h-textHeight()-2, tickLabelColor, false)
	}

	return img
}

// drawForeground is the raster generator for the trace layer.
func (o *Oscilloscope) drawForeground(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	if w == 0 || h == 0 {
		return img
	}
	o.resize(w, h)

	o.source.VisitTraces(func(t scope.Trace) {
		o.strokeTrace(img, t.Points, ChannelColor(t.Channel))
	})

	if r, ok := o.source.Readout(); ok {
		o.drawReadout(img, r)
	}

	return img
}

// strokeTrace draws points as a connected anti-aliased line.
// Every segment is added as a quad of the same winding so overlaps at the
// joints do not cancel out.
func (o *Oscilloscope) strokeTrace(img *image.RGBA, points []scope.Point, col color.RGBA) {
	if len(points) < 2 {
		return
	}

	b := img.Bounds()
	o.raster.Reset(b.Dx(), b.Dy())

	for i := 1; i < len(points); i++ {
		p, q := points[i-1], points[i]

		dx, dy := q.X-p.X, q.Y-p.Y
		l := float32(math.Hypot(float64(dx), float64(dy)))
		if l == 0 {
			dx, dy, l = 1, 0, 1
		}
		nx, ny := -dy/l*traceHalfWidth, dx/l*traceHalfWidth

		o.raster.MoveTo(p.X+nx, p.Y+ny)
		o.raster.LineTo(q.X+nx, q.Y+ny)
		o.raster.LineTo(q.X-nx, q.Y-ny)
		o.raster.LineTo(p.X-nx, p.Y-ny)
		o.raster.ClosePath()
	}

	o.raster.Draw(img, b, image.NewUniform(col), image.Point{})
}

// drawReadout draws the "sample, amplitude" box.
func (o *Oscilloscope) drawReadout(img *image.RGBA, r scope.Readout) {
	text := fmt.Sprintf("%d, %.1f", r.Sample, r.Amplitude)

	box := image.Rect(r.Label.X, r.Label.Y, r.Label.X+o.label.Width, r.Label.Y+max(o.label.Height, textHeight()))
	xdraw.Draw(img, box, image.NewUniform(readoutBgColor), image.Point{}, xdraw.Over)

	if r.Label.AlignRight {
		drawText(img, text, box.Max.X-2, box.Min.Y, readoutColor, true)
	} else {
		drawText(img, text, box.Min.X+2, box.Min.Y, readoutColor, false)
	}
}

func lineColor(value float64) color.RGBA {
	if math.Abs(value) < 1e-9 {
		return axisColor
	}
	return gridColor
}

func hline(img *image.RGBA, y int, col color.RGBA) {
	b := img.Bounds()
	xdraw.Draw(img, image.Rect(b.Min.X, y, b.Max.X, y+1), image.NewUniform(col), image.Point{}, xdraw.Over)
}

func vline(img *image.RGBA, x int, col color.RGBA) {
	b := img.Bounds()
	xdraw.Draw(img, image.Rect(x, b.Min.Y, x+1, b.Max.Y), image.NewUniform(col), image.Point{}, xdraw.Over)
}

var _ desktop.Hoverable = (*Oscilloscope)(nil)
var _ fyne.SecondaryTappable = (*Oscilloscope)(nil)
var _ fyne.Widget = (*Oscilloscope)(nil)
var _ ScopeSource = (*scope.Oscilloscope)(nil)
