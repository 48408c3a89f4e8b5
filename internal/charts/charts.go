// Package charts renders report series as PNG images.
package charts

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"expense-manager/internal/report"

	"github.com/sirupsen/logrus"
	"github.com/wcharczuk/go-chart/v2"
	"golang.org/x/sync/errgroup"
)

// ErrNoData is returned when a series has nothing to draw.
var ErrNoData = errors.New("no data to render")

// Renderer draws the four report charts.
type Renderer struct {
	Width  int
	Height int
}

// NewRenderer creates a renderer with the default image size.
func NewRenderer() *Renderer {
	return &Renderer{Width: 1000, Height: 600}
}

func (r *Renderer) background() chart.Style {
	return chart.Style{
		Padding: chart.Box{
			Top:    40,
			Left:   20,
			Right:  20,
			Bottom: 20,
		},
		FillColor: chart.ColorWhite,
	}
}

func amountFormatter(v interface{}) string {
	if f, ok := v.(float64); ok {
		return fmt.Sprintf("%.2f", f)
	}
	return ""
}

// hasPositive reports whether any point is above zero. A series without one
// leaves go-chart with a zero value range.
func hasPositive(s report.Series) bool {
	for _, p := range s.Points {
		if p.Value > 0 {
			return true
		}
	}
	return false
}

// Daily renders daily totals as a line over time. A single day is drawn as
// a bar since a line needs two points.
func (r *Renderer) Daily(s report.Series) ([]byte, error) {
	if !hasPositive(s) {
		return nil, ErrNoData
	}
	if s.Len() < 2 {
		return r.bars(s, "daily chart")
	}

	xValues := make([]time.Time, s.Len())
	yValues := make([]float64, s.Len())
	minValue, maxValue := 0.0, 0.0
	for i, p := range s.Points {
		xValues[i] = p.Time
		yValues[i] = p.Value
		minValue = min(minValue, p.Value)
		maxValue = max(maxValue, p.Value)
	}

	graph := chart.Chart{
		Title:      s.Name,
		Width:      r.Width,
		Height:     r.Height,
		Background: r.background(),
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeValueFormatterWithFormat("2006-01-02"),
		},
		YAxis: chart.YAxis{
			ValueFormatter: amountFormatter,
			Range: &chart.ContinuousRange{
				Min: minValue * 1.1,
				Max: maxValue * 1.1,
			},
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    s.Name,
				XValues: xValues,
				YValues: yValues,
				Style: chart.Style{
					StrokeColor: chart.ColorBlue,
					StrokeWidth: 2,
					DotWidth:    3,
					DotColor:    chart.ColorBlue,
				},
			},
		},
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("failed to render daily chart: %w", err)
	}
	return buffer.Bytes(), nil
}

// Category renders category totals as a pie with percentage labels.
func (r *Renderer) Category(s report.Series) ([]byte, error) {
	if !hasPositive(s) {
		return nil, ErrNoData
	}

	shares := s.Shares()
	values := make([]chart.Value, 0, s.Len())
	for i, p := range s.Points {
		if p.Value <= 0 {
			continue
		}
		values = append(values, chart.Value{
			Label: fmt.Sprintf("%s: %.2f (%.1f%%)", p.Display, p.Value, shares[i]),
			Value: p.Value,
		})
	}
	if len(values) == 0 {
		return nil, ErrNoData
	}

	pie := chart.PieChart{
		Title:      s.Name,
		Width:      r.Height,
		Height:     r.Height,
		Values:     values,
		Background: r.background(),
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := pie.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("failed to render category chart: %w", err)
	}
	return buffer.Bytes(), nil
}

// Monthly renders monthly totals as bars.
func (r *Renderer) Monthly(s report.Series) ([]byte, error) {
	if !hasPositive(s) {
		return nil, ErrNoData
	}
	return r.bars(s, "monthly chart")
}

// Top renders the largest expenses as bars, largest last.
func (r *Renderer) Top(s report.Series) ([]byte, error) {
	if !hasPositive(s) {
		return nil, ErrNoData
	}
	return r.bars(s, "top expenses chart")
}

func (r *Renderer) bars(s report.Series, what string) ([]byte, error) {
	bars := make([]chart.Value, s.Len())
	for i, p := range s.Points {
		bars[i] = chart.Value{
			Label: p.Display,
			Value: p.Value,
		}
	}

	graph := chart.BarChart{
		Title:        s.Name,
		Width:        r.Width,
		Height:       r.Height,
		BarWidth:     60,
		Background:   r.background(),
		UseBaseValue: true,
		BaseValue:    0,
		YAxis: chart.YAxis{
			ValueFormatter: amountFormatter,
		},
		Bars: bars,
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", what, err)
	}
	return buffer.Bytes(), nil
}

// File names written by RenderAll.
const (
	DailyFile    = "daily.png"
	CategoryFile = "category.png"
	MonthlyFile  = "monthly.png"
	TopFile      = "top5.png"
)

// RenderAll writes one PNG per non-empty aggregate of sum into dir and
// returns the paths written. Charts are rendered concurrently.
func (r *Renderer) RenderAll(dir string, sum report.Summary) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create chart directory: %w", err)
	}

	jobs := []struct {
		file   string
		series report.Series
		render func(report.Series) ([]byte, error)
	}{
		{DailyFile, sum.Daily, r.Daily},
		{CategoryFile, sum.Category, r.Category},
		{MonthlyFile, sum.Monthly, r.Monthly},
		{TopFile, sum.Top, r.Top},
	}

	// Load the shared font before the goroutines race to initialize it.
	if _, err := chart.GetDefaultFont(); err != nil {
		return nil, fmt.Errorf("load chart font: %w", err)
	}

	written := make([]string, len(jobs))
	var g errgroup.Group
	for i, job := range jobs {
		g.Go(func() error {
			png, err := job.render(job.series)
			if errors.Is(err, ErrNoData) {
				logrus.WithField("chart", job.file).Debug("skipping empty chart")
				return nil
			}
			if err != nil {
				return err
			}
			path := filepath.Join(dir, job.file)
			if err := os.WriteFile(path, png, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", job.file, err)
			}
			written[i] = path
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	paths := written[:0]
	for _, p := range written {
		if p != "" {
			paths = append(paths, p)
		}
	}
	return paths, nil
}
