// Package report renders the results of a run as a static HTML page.
package report

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/gmaffy/genome-compare/assembly"
	"github.com/gmaffy/genome-compare/matrix"
	"github.com/gmaffy/genome-compare/phylo"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
)

// Input is everything a report can show. Any part may be empty.
type Input struct {
	Stats      []assembly.Stats
	Similarity matrix.Similarity
	Tree       *phylo.Tree
}

// Render writes the page to w: bars of N50 and GC% per assembly, the
// similarity heatmap and the tree.
func Render(w io.Writer, in Input) error {
	page := components.NewPage()
	page.SetLayout(components.PageFlexLayout)

	if len(in.Stats) > 0 {
		page.AddCharts(
			createBarChart(in.Stats, "N50", "Length (bp)", func(s assembly.Stats) float64 { return float64(s.N50) }),
			createBarChart(in.Stats, "GC content", "GC%", assembly.Stats.GCRounded),
		)
	}
	if in.Similarity.Len() > 0 {
		page.AddCharts(createHeatMap(in.Similarity))
	}
	if in.Tree != nil {
		page.AddCharts(createTreeChart(in.Tree))
	}
	return page.Render(w)
}

func createBarChart(stats []assembly.Stats, title, ylabel string, value func(assembly.Stats) float64) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Theme: types.ThemeWesteros}),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithYAxisOpts(opts.YAxis{Name: ylabel}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Assembly"}),
	)

	var x []string
	var data []opts.BarData
	for _, s := range stats {
		x = append(x, s.ID)
		data = append(data, opts.BarData{Value: value(s)})
	}
	bar.SetXAxis(x).AddSeries(title, data)
	return bar
}

// createHeatMap plots the available similarity scores. Unavailable pairs are
// left blank.
func createHeatMap(s matrix.Similarity) *charts.HeatMap {
	labels := s.Labels()
	low := matrix.MaxSimilarity
	var data []opts.HeatMapData
	for i := range labels {
		for j := range labels {
			v := s.At(i, j)
			if math.IsNaN(v) {
				continue
			}
			low = math.Min(low, v)
			data = append(data, opts.HeatMapData{
				Name:  labels[i] + " vs " + labels[j],
				Value: [3]interface{}{j, i, math.Round(v*100) / 100},
			})
		}
	}

	hm := charts.NewHeatMap()
	hm.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Theme: types.ThemeWesteros}),
		charts.WithTitleOpts(opts.Title{Title: "ANI similarity (%)"}),
		charts.WithXAxisOpts(opts.XAxis{Type: "category", Data: labels}),
		charts.WithYAxisOpts(opts.YAxis{Type: "category", Data: labels}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Min: float32(math.Floor(low)),
			Max: float32(matrix.MaxSimilarity),
			InRange: &opts.VisualMapInRange{
				Color: []string{"#f6efa6", "#d88273", "#bf444c"},
			},
		}),
	)
	hm.SetXAxis(labels).AddSeries("ANI", data)
	return hm
}

func createTreeChart(t *phylo.Tree) *charts.Tree {
	tree := charts.NewTree()
	tree.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Theme: types.ThemeWesteros}),
		charts.WithTitleOpts(opts.Title{Title: "Neighbor-joining tree"}),
	)
	root := treeData(t, t.Root(), math.NaN())
	tree.AddSeries("tree", []opts.TreeData{*root}, charts.WithTreeOpts(opts.TreeChart{
		Layout:           "orthogonal",
		Orient:           "LR",
		InitialTreeDepth: -1,
	}))
	return tree
}

// treeData converts the subtree under node. Branch lengths are shown in the
// node names since the chart does not scale edges by length.
func treeData(t *phylo.Tree, node int, length float64) *opts.TreeData {
	d := &opts.TreeData{Name: t.Name(node)}
	if !math.IsNaN(length) {
		d.Name = fmt.Sprintf("%s (%s)", d.Name, strconv.FormatFloat(length, 'g', 4, 64))
	}
	for _, e := range t.Children(node) {
		d.Children = append(d.Children, treeData(t, e.To, e.Length))
	}
	return d
}
