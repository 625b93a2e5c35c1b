// Package plot renders series as an interactive HTML time series plot,
// downsampled through the core reduction so that large inputs stay
// responsive in the browser. Built with http://dygraphs.com/
package plot

import (
	"encoding/json"
	"html/template"
	"io"
	"math"
	"sort"
	"strconv"
)

// A Plot represents an interactive HTML time series plot of one or more
// labeled series.
type Plot struct {
	title     string
	threshold int
	series    map[string]*timeSeries
	labels    []string
}

// An Opt is a functional option type for Plot.
type Opt func(*Plot)

// Title returns an Opt that sets the title of a Plot.
func Title(title string) Opt {
	return func(p *Plot) { p.title = title }
}

// Downsample returns an Opt that enables downsampling to the given
// threshold number of data points per labeled series.
func Downsample(threshold int) Opt {
	return func(p *Plot) { p.threshold = threshold }
}

// New returns a Plot with the given Opts applied.
func New(opts ...Opt) *Plot {
	p := &Plot{series: map[string]*timeSeries{}}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Add adds the sample (t, v) to the series with the given label, creating
// the series on first use. Samples must be added in timestamp order per
// label.
func (p *Plot) Add(label string, t, v float64) error {
	s, ok := p.series[label]
	if !ok {
		s = newTimeSeries(label)
		p.series[label] = s
		p.labels = append(p.labels, label)
	}
	return s.add(t, v)
}

// Close closes the Plot for writing.
func (p *Plot) Close() {
	for _, ts := range p.series {
		ts.data.Finish()
	}
}

// WriteTo writes the HTML plot to the given io.Writer.
func (p *Plot) WriteTo(w io.Writer) (n int64, err error) {
	type dygraphsOpts struct {
		Title       string   `json:"title"`
		Labels      []string `json:"labels,omitempty"`
		YLabel      string   `json:"ylabel"`
		XLabel      string   `json:"xlabel"`
		Legend      string   `json:"legend"`
		ShowRoller  bool     `json:"showRoller"`
		StrokeWidth float64  `json:"strokeWidth"`
	}

	type plotData struct {
		Title string
		Data  template.JS
		Opts  template.JS
	}

	dp, labels, err := p.data()
	if err != nil {
		return 0, err
	}

	var sz int
	if len(dp) > 0 {
		sz = len(dp) * len(dp[0]) * 12 // heuristic
	}

	data := dp.Append(make([]byte, 0, sz))

	opts := dygraphsOpts{
		Title:       p.title,
		Labels:      labels,
		YLabel:      "Value",
		XLabel:      "Seconds",
		Legend:      "always",
		ShowRoller:  true,
		StrokeWidth: 1.3,
	}

	optsJSON, err := json.MarshalIndent(&opts, "    ", " ")
	if err != nil {
		return 0, err
	}

	cw := countingWriter{w: w}
	err = plotTemplate.Execute(&cw, &plotData{
		Title: p.title,
		Data:  template.JS(data),
		Opts:  template.JS(optsJSON),
	})

	return cw.n, err
}

// See http://dygraphs.com/data.html
func (p *Plot) data() (dataPoints, []string, error) {
	var (
		size   = 1 + len(p.labels)
		nan    = math.NaN()
		labels = make([]string, size)
		data   dataPoints
	)

	labels[0] = "Seconds"

	for i, label := range p.labels {
		t, v, err := p.series[label].downsampled(p.threshold)
		if err != nil {
			return nil, nil, err
		}

		for j := range t {
			pt := make([]float64, size)
			for k := range pt {
				pt[k] = nan
			}
			pt[0], pt[i+1] = t[j], v[j]
			data = append(data, pt)
		}

		labels[i+1] = label
	}

	sort.Sort(data)

	return data, labels, nil
}

type countingWriter struct {
	n int64
	w io.Writer
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	return n, err
}

type dataPoints [][]float64

func (ps dataPoints) Len() int { return len(ps) }

func (ps dataPoints) Less(i, j int) bool {
	// Sort by X axis (seconds)
	return ps[i][0] < ps[j][0]
}

func (ps dataPoints) Swap(i, j int) {
	ps[i], ps[j] = ps[j], ps[i]
}

func (ps dataPoints) Append(buf []byte) []byte {
	buf = append(buf, "[\n  "...)

	for i, p := range ps {
		buf = append(buf, "  ["...)

		for j, f := range p {
			if math.IsNaN(f) {
				buf = append(buf, "NaN"...)
			} else {
				buf = strconv.AppendFloat(buf, f, 'f', -1, 64)
			}

			if j < len(p)-1 {
				buf = append(buf, ',')
			}
		}

		if buf = append(buf, "]"...); i < len(ps)-1 {
			buf = append(buf, ",\n  "...)
		}
	}

	return append(buf, "  ]"...)
}

var plotTemplate = template.Must(template.New("plot").Parse(`<!doctype html>
<html>
<head>
  <title>{{.Title}}</title>
  <meta charset="utf-8">
  <link rel="stylesheet" href="https://cdnjs.cloudflare.com/ajax/libs/dygraph/2.2.1/dygraph.min.css">
  <script src="https://cdnjs.cloudflare.com/ajax/libs/dygraph/2.2.1/dygraph.min.js"></script>
</head>
<body>
  <div id="plot" style="font-family: Courier; width: 100%; height: 600px"></div>
  <script>
  new Dygraph(
    document.getElementById("plot"),
    {{.Data}},
    {{.Opts}}
  );
  </script>
</body>
</html>`))
