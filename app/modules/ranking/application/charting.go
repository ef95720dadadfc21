package rankingservice

import (
	"bytes"
	"fmt"

	rankingdomain "github.com/Black-And-White-Club/game-manager-bot/app/modules/ranking/domain"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ChartPalette holds the colors used for rendered charts.
type ChartPalette struct {
	Background drawing.Color
	Bar        drawing.Color
	Podium     drawing.Color
	Text       drawing.Color
}

// DefaultPalette is a dark theme with gold bars for the top three.
var DefaultPalette = ChartPalette{
	Background: drawing.ColorFromHex("1e1f22"),
	Bar:        drawing.ColorFromHex("5865f2"),
	Podium:     drawing.ColorFromHex("f1c40f"),
	Text:       drawing.ColorFromHex("f2f3f5"),
}

const maxChartBars = 20

// GenerateLeaderboardChart produces a PNG bar chart of win ratios in percent.
func GenerateLeaderboardChart(title string, board []rankingdomain.Row, palette ChartPalette) ([]byte, error) {
	if len(board) == 0 {
		return renderNoDataPlaceholder(palette)
	}
	if len(board) > maxChartBars {
		board = board[:maxChartBars]
	}

	bars := make([]chart.Value, 0, len(board))
	for i, row := range board {
		fill := palette.Bar
		if i < 3 {
			fill = palette.Podium
		}
		bars = append(bars, chart.Value{
			Label: fmt.Sprintf("%s (%d-%d)", row.Name, row.Wins, row.Losses),
			Value: *row.Ratio * 100,
			Style: chart.Style{
				FillColor:   fill,
				StrokeColor: fill,
			},
		})
	}

	graph := chart.BarChart{
		Title:      title,
		TitleStyle: chart.Style{FontColor: palette.Text},
		Width:      120 + 90*len(bars),
		Height:     480,
		BarWidth:   60,
		Background: chart.Style{
			FillColor: palette.Background,
			Padding:   chart.Box{Top: 48, Left: 16, Right: 16, Bottom: 16},
		},
		Canvas: chart.Style{FillColor: palette.Background},
		XAxis:  chart.Style{FontColor: palette.Text, StrokeColor: palette.Text},
		YAxis: chart.YAxis{
			Style:          chart.Style{FontColor: palette.Text},
			Range:          &chart.ContinuousRange{Min: 0, Max: 100},
			ValueFormatter: func(v interface{}) string { return fmt.Sprintf("%.0f%%", v) },
		},
		Bars: bars,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("failed to render leaderboard chart: %w", err)
	}
	return buf.Bytes(), nil
}

// renderNoDataPlaceholder draws the message straight onto a PNG canvas; go-chart
// refuses to render a chart without series or bars.
func renderNoDataPlaceholder(palette ChartPalette) ([]byte, error) {
	const (
		width  = 400
		height = 200
		msg    = "No games played yet"
	)

	r, err := chart.PNG(width, height)
	if err != nil {
		return nil, fmt.Errorf("failed to create canvas: %w", err)
	}
	font, err := chart.GetDefaultFont()
	if err != nil {
		return nil, fmt.Errorf("failed to load font: %w", err)
	}

	r.SetFillColor(palette.Background)
	r.SetStrokeColor(palette.Background)
	r.MoveTo(0, 0)
	r.LineTo(width, 0)
	r.LineTo(width, height)
	r.LineTo(0, height)
	r.LineTo(0, 0)
	r.Close()
	r.FillStroke()

	r.SetFont(font)
	r.SetFontColor(palette.Text)
	r.SetFontSize(14.0)
	tb := r.MeasureText(msg)
	r.Text(msg, (width-tb.Width())/2, (height+tb.Height())/2)

	var buf bytes.Buffer
	if err := r.Save(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode placeholder chart: %w", err)
	}
	return buf.Bytes(), nil
}
