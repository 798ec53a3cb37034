package gateway

import (
	"bytes"
	"context"
	"fmt"
	"math"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"visitboard/domain"
)

const (
	chartWidth  = 1000
	chartHeight = 600
	chartTitle  = "Titanic Survival by Gender"
	xAxisName   = "Gender"
	yAxisName   = "Number of People"
)

var (
	colorBackground = drawing.ColorFromHex("212529")
	colorCanvas     = drawing.ColorFromHex("2b3035")
	colorText       = drawing.ColorWhite
	outcomeColors   = map[domain.Outcome]drawing.Color{
		domain.OutcomeDied:     drawing.ColorFromHex("ff6b6b"),
		domain.OutcomeSurvived: drawing.ColorFromHex("4ecdc4"),
	}
)

// ChartGateway implements ChartPort with go-chart, producing a dark-themed PNG.
type ChartGateway struct {
	width  int
	height int
}

// NewChartGateway creates a new ChartGateway.
func NewChartGateway() *ChartGateway {
	return &ChartGateway{width: chartWidth, height: chartHeight}
}

// Render draws one bar per (group, outcome) pair, grouped by group and colored by outcome.
func (g *ChartGateway) Render(ctx context.Context, summary domain.GroupSummary) (*domain.ChartImage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if summary.IsEmpty() {
		return nil, fmt.Errorf("%w: no rows to plot", domain.ErrRenderFailure)
	}

	sbc := g.buildChart(summary)

	var buf bytes.Buffer
	if err := sbc.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrRenderFailure, err)
	}

	return &domain.ChartImage{
		PNG:    buf.Bytes(),
		Width:  g.width,
		Height: g.height,
	}, nil
}

func (g *ChartGateway) buildChart(summary domain.GroupSummary) chart.BarChart {
	bars := make([]chart.Value, 0, len(summary.Groups)*(len(domain.Outcomes)+1))
	peak := 0
	for i, grp := range summary.Groups {
		if i > 0 {
			// Empty slot between groups keeps each group's bars together.
			bars = append(bars, chart.Value{Value: 0, Style: chart.Style{Hidden: true}})
		}
		for _, o := range domain.Outcomes {
			n := grp.Count(o)
			peak = max(peak, n)
			bars = append(bars, chart.Value{
				Label: grp.Group,
				Value: float64(n),
				Style: chart.Style{
					FillColor:   outcomeColors[o],
					StrokeColor: outcomeColors[o],
					StrokeWidth: 1,
				},
			})
		}
	}

	axisStyle := chart.Style{
		FontColor:   colorText,
		StrokeColor: colorText,
		FontSize:    12,
	}

	return chart.BarChart{
		Title: chartTitle,
		TitleStyle: chart.Style{
			FontColor: colorText,
			FontSize:  16,
		},
		Width:  g.width,
		Height: g.height,
		Background: chart.Style{
			FillColor: colorBackground,
			Padding:   chart.Box{Top: 70, Left: 30, Right: 30, Bottom: 50},
		},
		Canvas: chart.Style{
			FillColor: colorCanvas,
		},
		XAxis: axisStyle,
		YAxis: chart.YAxis{
			Style: axisStyle,
			// A fixed zero-based range keeps equal-height bars renderable.
			Range:          &chart.ContinuousRange{Min: 0, Max: math.Ceil(float64(peak) * 1.1)},
			ValueFormatter: chart.IntValueFormatter,
		},
		BarWidth:   90,
		BarSpacing: 30,
		Bars:       bars,
		Elements: []chart.Renderable{
			outcomeLegend(),
			axisCaptions(),
		},
	}
}

// outcomeLegend draws the fixed two-entry legend in the upper right corner.
func outcomeLegend() chart.Renderable {
	return func(r chart.Renderer, canvasBox chart.Box, defaults chart.Style) {
		const swatch = 14
		left := canvasBox.Right - 160
		top := canvasBox.Top + 10

		for i, o := range domain.Outcomes {
			y := top + i*(swatch+8)
			chart.Draw.Box(r, chart.Box{Top: y, Left: left, Right: left + swatch, Bottom: y + swatch}, chart.Style{
				FillColor:   outcomeColors[o],
				StrokeColor: outcomeColors[o],
				StrokeWidth: 1,
			})
			chart.Draw.Text(r, o.Label(), left+swatch+6, y+swatch-2, chart.Style{
				FontColor: colorText,
				FontSize:  10,
			}.InheritFrom(defaults))
		}
	}
}

// axisCaptions names the axes; bar charts only style them.
func axisCaptions() chart.Renderable {
	return func(r chart.Renderer, canvasBox chart.Box, defaults chart.Style) {
		style := chart.Style{
			FontColor: colorText,
			FontSize:  12,
		}.InheritFrom(defaults)

		chart.Draw.Text(r, yAxisName, canvasBox.Left, canvasBox.Top-8, style)

		width := chart.Draw.MeasureText(r, xAxisName, style).Width()
		chart.Draw.Text(r, xAxisName, canvasBox.Left+(canvasBox.Width()-width)/2, canvasBox.Bottom+40, style)
	}
}
