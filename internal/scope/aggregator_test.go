package scope

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tejashwikalptaru/goscope/internal/domain"
)

func TestReducers(t *testing.T) {
	assert.Equal(t, float32(0.3), Nearest().Reduce([]float32{0.3, -0.9}))
	assert.Equal(t, float32(-0.9), Maximum().Reduce([]float32{0.3, -0.9}))
	assert.Equal(t, float32(0.5), Maximum().Reduce([]float32{0.5, -0.5}), "ties keep the earliest sample")
	assert.InDelta(t, 0.4, Average().Reduce([]float32{0.2, 0.4, 0.6}), 1e-6)
}

func TestReducerFor(t *testing.T) {
	run := []float32{0.1, -0.8, 0.4}

	assert.Equal(t, float32(0.1), ReducerFor(domain.AggregationNearest).Reduce(run))
	assert.Equal(t, float32(-0.8), ReducerFor(domain.AggregationMaximum).Reduce(run))
	assert.InDelta(t, -0.1, ReducerFor(domain.AggregationAverage).Reduce(run), 1e-6)

	// unknown methods fall back to nearest
	assert.Equal(t, float32(0.1), ReducerFor(domain.AggregationMethod(42)).Reduce(run))
}

func sine(n int, cycles float64) []float32 {
	row := make([]float32, n)
	for i := range row {
		row[i] = float32(math.Sin(2 * math.Pi * cycles * float64(i) / float64(n)))
	}
	return row
}

func TestAggregator_OneVertexPerColumn(t *testing.T) {
	row := sine(4096, 3)
	m := NewMapper(domain.Viewport{Width: 800, Height: 600}, domain.SampleWindow{Max: 4096}, 1)

	for _, method := range domain.AggregationMethods() {
		t.Run(method.String(), func(t *testing.T) {
			points := Aggregator{}.Append(nil, row, m, ReducerFor(method))

			require.NotEmpty(t, points)
			assert.LessOrEqual(t, len(points), 800)
			for i := 1; i < len(points); i++ {
				assert.Greater(t, points[i].X, points[i-1].X)
				assert.NotEqual(t, int(points[i].X), int(points[i-1].X), "two vertices in column %d", int(points[i].X))
			}
		})
	}
}

func TestAggregator_ZoomedInKeepsEverySample(t *testing.T) {
	row := []float32{0, 0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9}
	m := NewMapper(domain.Viewport{Width: 100, Height: 100}, domain.SampleWindow{Max: 10}, 1)

	points := Aggregator{}.Append(nil, row, m, Nearest())

	require.Len(t, points, 9)
	for i, p := range points {
		assert.InDelta(t, float64(i+1)*10, p.X, 1e-4)
		assert.InDelta(t, m.PixelY(float64(row[i+1])), p.Y, 1e-4)
	}
}

func TestAggregator_MaximumKeepsPeaks(t *testing.T) {
	// a single spike in a quiet row must survive decimation
	row := make([]float32, 1000)
	row[501] = -0.95
	m := NewMapper(domain.Viewport{Width: 10, Height: 200}, domain.SampleWindow{Max: 1000}, 1)

	nearest := Aggregator{}.Append(nil, row, m, Nearest())
	peak := Aggregator{}.Append(nil, row, m, Maximum())

	lowest := func(ps []Point) float32 {
		var y float32
		for _, p := range ps {
			y = max(y, p.Y)
		}
		return y
	}
	assert.InDelta(t, 100, lowest(nearest), 1e-4)
	assert.InDelta(t, m.PixelY(-0.95), lowest(peak), 1e-3)
}

func TestAggregator_RowShorterThanWindow(t *testing.T) {
	row := sine(64, 1)
	m := NewMapper(domain.Viewport{Width: 200, Height: 100}, domain.SampleWindow{Max: 128}, 1)

	points := Aggregator{}.Append(nil, row, m, Average())
	assert.Len(t, points, 63)
}

func TestAggregator_WindowStartIsOnlyTheStartVertex(t *testing.T) {
	frame := NewFrame(1, 1000)
	frame[0][0] = -0.9
	m := NewMapper(domain.Viewport{Width: 10, Height: 200}, domain.SampleWindow{Max: 1000}, 1)

	runs := Aggregator{}.Append(nil, frame[0], m, Maximum())
	require.NotEmpty(t, runs)
	assert.InDelta(t, m.PixelX(1), runs[0].X, 1e-4, "runs begin after the window start")
	assert.InDelta(t, m.PixelY(0), runs[0].Y, 1e-4)

	// the renderer still draws the start sample
	trace := NewRenderer(1, 10).Render(frame, m, domain.AggregationMaximum)[0]
	assert.InDelta(t, m.PixelY(-0.9), trace.Points[0].Y, 1e-4)
	assert.LessOrEqual(t, len(trace.Points), 11)
}
