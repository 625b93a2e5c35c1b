package plot

import (
	"bytes"
	"io"
	"math"
	"strings"
	"testing"
)

func TestPlotWriteTo(t *testing.T) {
	t.Parallel()

	p := New(Title("Test Plot"), Downsample(100))

	for i := 0; i < 1000; i++ {
		ts := float64(i) * 0.05
		if err := p.Add("raw", ts, math.Sin(ts)); err != nil {
			t.Fatal(err)
		}
		v := math.Cos(ts)
		if i%7 == 0 {
			v = math.NaN() // gaps render as NaN literals
		}
		if err := p.Add("other", ts, v); err != nil {
			t.Fatal(err)
		}
	}
	p.Close()

	var buf bytes.Buffer
	n, err := p.WriteTo(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if n != int64(buf.Len()) {
		t.Errorf("reported %d bytes, wrote %d", n, buf.Len())
	}

	html := buf.String()
	for _, want := range []string{"Test Plot", `"raw"`, `"other"`, "NaN", "new Dygraph"} {
		if !strings.Contains(html, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestPlotMonotonicTimestamps(t *testing.T) {
	t.Parallel()

	p := New()
	for _, ts := range []float64{1, 3} {
		if err := p.Add("a", ts, 1); err != nil {
			t.Fatal(err)
		}
	}
	if err := p.Add("a", 2, 1); err != errMonotonicTimestamp {
		t.Errorf("got %v, want %v", err, errMonotonicTimestamp)
	}
}

func BenchmarkPlot(b *testing.B) {
	b.StopTimer()
	p := New(Title("Benchmark"), Downsample(5000))
	for i := 0; i < 1000000; i++ {
		ts := float64(i) * 0.001
		if err := p.Add("series", ts, math.Sin(ts)); err != nil {
			b.Fatal(err)
		}
	}
	p.Close()
	b.StartTimer()

	for i := 0; i < b.N; i++ {
		if _, err := p.WriteTo(io.Discard); err != nil {
			b.Fatal(err)
		}
	}
}
