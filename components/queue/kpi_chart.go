package queue

import (
	"bytes"
	"io"
	"time"

	"github.com/ettle/strcase"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
)

const kpiChartHeight = "280px"

var sharedKpiCache = NewTTLRenderCache(time.Minute)

// KpiChartRenderer renders the KPI snapshot as server-side bar chart HTML.
type KpiChartRenderer struct {
	cache RenderCache
	theme string
	title string
}

// KpiChartOption customizes renderer behavior.
type KpiChartOption func(*KpiChartRenderer)

// WithKpiCache injects a render cache.
func WithKpiCache(cache RenderCache) KpiChartOption {
	return func(r *KpiChartRenderer) { r.cache = cache }
}

// WithKpiTheme sets the chart theme (defaults to Westeros).
func WithKpiTheme(theme string) KpiChartOption {
	return func(r *KpiChartRenderer) { r.theme = theme }
}

// NewKpiChartRenderer builds a renderer for the aggregate cards chart.
func NewKpiChartRenderer(options ...KpiChartOption) *KpiChartRenderer {
	r := &KpiChartRenderer{
		cache: sharedKpiCache,
		theme: types.ThemeWesteros,
		title: "Activation Queue",
	}
	for _, opt := range options {
		opt(r)
	}
	return r
}

// Render converts a snapshot into chart markup, memoized per (snapshot,
// filters) so a refresh that changed nothing is served from cache.
func (r *KpiChartRenderer) Render(snapshot KpiSnapshot, filters FilterState) (string, error) {
	renderFn := func() (string, error) { return r.render(snapshot) }
	if r.cache != nil {
		return r.cache.GetOrRender(snapshotKey(snapshot, filters), renderFn)
	}
	return renderFn()
}

func (r *KpiChartRenderer) render(snapshot KpiSnapshot) (string, error) {
	metrics := []struct {
		code  string
		value int
	}{
		{"planned_today", snapshot.PlannedToday},
		{"pending", snapshot.Pending},
		{"in_progress", snapshot.InProgress},
		{"completed", snapshot.Completed},
	}
	labels := make([]string, len(metrics))
	data := make([]opts.BarData, len(metrics))
	for i, m := range metrics {
		labels[i] = humanizeMetric(m.code)
		data[i] = opts.BarData{Name: labels[i], Value: m.value}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: r.title}),
		charts.WithInitializationOpts(opts.Initialization{
			Theme:  r.theme,
			Width:  "100%",
			Height: kpiChartHeight,
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(labels)
	bar.AddSeries("Activations", data)
	return renderChartHTML(bar)
}

func renderChartHTML(renderable interface{ Render(io.Writer) error }) (string, error) {
	var buf bytes.Buffer
	if err := renderable.Render(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func humanizeMetric(code string) string {
	return strcase.ToCase(code, strcase.TitleCase, ' ')
}
