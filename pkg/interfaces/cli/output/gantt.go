package output

import (
	"fmt"
	"html"
	"io"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/vsinha/poolplan/pkg/application/dto"
	"github.com/vsinha/poolplan/pkg/domain/entities"
)

// GanttChart lays out pool slots against time
type GanttChart struct {
	Width        int
	Height       int
	MarginLeft   int
	MarginTop    int
	MarginRight  int
	MarginBottom int
	RowHeight    int
	StartTime    time.Time
	EndTime      time.Time
}

// GanttBar is one changeout occupying a slot until its component arrives
type GanttBar struct {
	Component     entities.ComponentCode
	Equipment     string
	Serial        string
	Type          entities.ChangeoutType
	ArrivalStatus entities.ArrivalStatus
	ChangeoutDate time.Time
	ArrivalDate   time.Time
	X             int
	Width         int
	Color         string
}

// slotRow identifies one line of the chart
type slotRow struct {
	Component entities.ComponentCode
	Slot      int
}

// NewGanttChart sizes a chart for the slotted rows of a result
func NewGanttChart(result *dto.AllocationResult) *GanttChart {
	rows := slottedRows(result)
	if len(rows) == 0 {
		return &GanttChart{
			Width:        800,
			Height:       200,
			MarginLeft:   150,
			MarginTop:    50,
			MarginRight:  50,
			MarginBottom: 50,
			RowHeight:    25,
		}
	}

	startTime := rows[0].ChangeoutDate
	endTime := rows[0].ArrivalDate
	lanes := make(map[slotRow]bool)
	for _, row := range rows {
		if row.ChangeoutDate.Before(startTime) {
			startTime = row.ChangeoutDate
		}
		if row.ArrivalDate.After(endTime) {
			endTime = row.ArrivalDate
		}
		if row.ChangeoutDate.After(endTime) {
			endTime = row.ChangeoutDate
		}
		lanes[slotRow{row.Component, row.PoolSlot}] = true
	}

	totalDuration := endTime.Sub(startTime)
	padding := time.Duration(float64(totalDuration) * 0.05)
	if padding < 24*time.Hour {
		padding = 24 * time.Hour
	}
	startTime = startTime.Add(-padding)
	endTime = endTime.Add(padding)

	rowHeight := 24
	return &GanttChart{
		Width:        1400,
		Height:       len(lanes)*rowHeight + 160,
		MarginLeft:   240,
		MarginTop:    60,
		MarginRight:  60,
		MarginBottom: 80,
		RowHeight:    rowHeight,
		StartTime:    startTime,
		EndTime:      endTime,
	}
}

// slottedRows drops rows without a slot; they have no lane to draw on
func slottedRows(result *dto.AllocationResult) []dto.AllocationRow {
	var rows []dto.AllocationRow
	for _, row := range result.Rows {
		if row.HasSlot() {
			rows = append(rows, row)
		}
	}
	return rows
}

// GenerateSVG creates an SVG representation of the slot timeline
func (gc *GanttChart) GenerateSVG(result *dto.AllocationResult, catalog *entities.Catalog) string {
	rows := slottedRows(result)
	if len(rows) == 0 {
		return gc.generateEmptyChart()
	}

	var svg strings.Builder

	svg.WriteString(fmt.Sprintf(`<svg width="%d" height="%d" xmlns="http://www.w3.org/2000/svg">`, gc.Width, gc.Height))
	svg.WriteString(`<defs>`)
	svg.WriteString(`<style>`)
	svg.WriteString(`.slot-label { font-family: Arial, sans-serif; font-size: 12px; fill: #333; }`)
	svg.WriteString(`.time-label { font-family: Arial, sans-serif; font-size: 10px; fill: #666; }`)
	svg.WriteString(`.title { font-family: Arial, sans-serif; font-size: 16px; font-weight: bold; fill: #333; }`)
	svg.WriteString(`.grid-line { stroke: #e0e0e0; stroke-width: 1; }`)
	svg.WriteString(`.epoch-line { stroke: #d32f2f; stroke-width: 1; stroke-dasharray: 4 3; }`)
	svg.WriteString(`.changeout-bar { stroke: #333; stroke-width: 1; }`)
	svg.WriteString(`.blocked-bar { stroke: #b71c1c; stroke-width: 2; }`)
	svg.WriteString(`.bar-text { font-family: Arial, sans-serif; font-size: 9px; fill: white; }`)
	svg.WriteString(`</style>`)
	svg.WriteString(`</defs>`)

	svg.WriteString(fmt.Sprintf(`<rect width="%d" height="%d" fill="white"/>`, gc.Width, gc.Height))
	svg.WriteString(fmt.Sprintf(`<text x="%d" y="30" class="title" text-anchor="middle">Component Pool Slots - epoch %s</text>`,
		gc.Width/2, entities.FormatDate(result.Epoch)))

	bars := gc.createBars(rows)
	lanes, order := gc.organizeBars(bars, rows, catalog)

	gc.drawTimeAxis(&svg)
	gc.drawTimeGrid(&svg, len(order))
	gc.drawEpoch(&svg, result.Epoch, len(order))
	gc.drawSlotRows(&svg, lanes, order, catalog)
	gc.drawLegend(&svg)

	svg.WriteString(`</svg>`)
	return svg.String()
}

// xFor maps a date onto the chart's horizontal axis
func (gc *GanttChart) xFor(t time.Time) int {
	chartWidth := gc.Width - gc.MarginLeft - gc.MarginRight
	totalDuration := gc.EndTime.Sub(gc.StartTime)
	offset := t.Sub(gc.StartTime)
	return gc.MarginLeft + int(float64(offset)/float64(totalDuration)*float64(chartWidth))
}

// createBars converts slotted rows to bars spanning changeout to arrival
func (gc *GanttChart) createBars(rows []dto.AllocationRow) []GanttBar {
	bars := make([]GanttBar, 0, len(rows))
	for _, row := range rows {
		end := row.ArrivalDate
		if end.IsZero() {
			end = row.ChangeoutDate
		}

		x := gc.xFor(row.ChangeoutDate)
		width := gc.xFor(end) - x
		if width < 2 {
			width = 2
		}

		bars = append(bars, GanttBar{
			Component:     row.Component,
			Equipment:     row.Equipment,
			Serial:        row.ComponentSerial,
			Type:          row.Type,
			ArrivalStatus: row.ArrivalStatus,
			ChangeoutDate: row.ChangeoutDate,
			ArrivalDate:   end,
			X:             x,
			Width:         width,
			Color:         gc.getBarColor(row.ArrivalStatus),
		})
	}
	return bars
}

// organizeBars groups bars by slot; lanes are ordered by catalog, then slot
func (gc *GanttChart) organizeBars(bars []GanttBar, rows []dto.AllocationRow, catalog *entities.Catalog) (map[slotRow][]GanttBar, []slotRow) {
	lanes := make(map[slotRow][]GanttBar)
	for i, bar := range bars {
		key := slotRow{rows[i].Component, rows[i].PoolSlot}
		lanes[key] = append(lanes[key], bar)
	}

	order := make([]slotRow, 0, len(lanes))
	for key := range lanes {
		order = append(order, key)
		sort.Slice(lanes[key], func(i, j int) bool {
			return lanes[key][i].ChangeoutDate.Before(lanes[key][j].ChangeoutDate)
		})
	}
	sort.Slice(order, func(i, j int) bool {
		ci, cj := catalog.Index(order[i].Component), catalog.Index(order[j].Component)
		if ci != cj {
			return ci < cj
		}
		return order[i].Slot < order[j].Slot
	})
	return lanes, order
}

func (gc *GanttChart) gridInterval() (time.Duration, string) {
	days := int(math.Ceil(gc.EndTime.Sub(gc.StartTime).Hours() / 24))
	switch {
	case days <= 30:
		return 24 * time.Hour, "Jan 2"
	case days <= 180:
		return 7 * 24 * time.Hour, "Jan 2"
	default:
		return 30 * 24 * time.Hour, "Jan 2006"
	}
}

// drawTimeAxis draws the time axis labels
func (gc *GanttChart) drawTimeAxis(svg *strings.Builder) {
	interval, labelFormat := gc.gridInterval()

	for t := gc.StartTime.Truncate(interval); t.Before(gc.EndTime); t = t.Add(interval) {
		x := gc.xFor(t)
		if x >= gc.MarginLeft && x <= gc.Width-gc.MarginRight {
			svg.WriteString(fmt.Sprintf(`<text x="%d" y="%d" class="time-label" text-anchor="middle">%s</text>`,
				x, gc.Height-gc.MarginBottom+15, t.Format(labelFormat)))
		}
	}

	svg.WriteString(fmt.Sprintf(`<line x1="%d" y1="%d" x2="%d" y2="%d" class="grid-line"/>`,
		gc.MarginLeft, gc.Height-gc.MarginBottom, gc.Width-gc.MarginRight, gc.Height-gc.MarginBottom))
}

// rowHeight shrinks rows that would otherwise run into the time axis
func (gc *GanttChart) rowHeight(numRows int) int {
	maxRowY := gc.Height - gc.MarginBottom - 30
	height := (maxRowY - gc.MarginTop) / numRows
	if height > gc.RowHeight {
		height = gc.RowHeight
	}
	return height
}

func (gc *GanttChart) drawTimeGrid(svg *strings.Builder, numRows int) {
	interval, _ := gc.gridInterval()
	gridBottom := gc.MarginTop + numRows*gc.rowHeight(numRows)

	for t := gc.StartTime.Truncate(interval); t.Before(gc.EndTime); t = t.Add(interval) {
		x := gc.xFor(t)
		if x >= gc.MarginLeft && x <= gc.Width-gc.MarginRight {
			svg.WriteString(fmt.Sprintf(`<line x1="%d" y1="%d" x2="%d" y2="%d" class="grid-line"/>`,
				x, gc.MarginTop, x, gridBottom))
		}
	}
}

// drawEpoch marks the allocation epoch; rows left of it are history
func (gc *GanttChart) drawEpoch(svg *strings.Builder, epoch time.Time, numRows int) {
	if epoch.Before(gc.StartTime) || epoch.After(gc.EndTime) {
		return
	}
	x := gc.xFor(epoch)
	svg.WriteString(fmt.Sprintf(`<line x1="%d" y1="%d" x2="%d" y2="%d" class="epoch-line"/>`,
		x, gc.MarginTop-10, x, gc.MarginTop+numRows*gc.rowHeight(numRows)))
}

func (gc *GanttChart) drawSlotRows(svg *strings.Builder, lanes map[slotRow][]GanttBar, order []slotRow, catalog *entities.Catalog) {
	height := gc.rowHeight(len(order))

	for i, lane := range order {
		y := gc.MarginTop + i*height

		label := fmt.Sprintf("%s #%d", catalog.DisplayName(lane.Component), lane.Slot)
		svg.WriteString(fmt.Sprintf(`<text x="%d" y="%d" class="slot-label" text-anchor="end">%s</text>`,
			gc.MarginLeft-15, y+height/2+4, html.EscapeString(label)))

		svg.WriteString(fmt.Sprintf(`<line x1="%d" y1="%d" x2="%d" y2="%d" class="grid-line"/>`,
			gc.MarginLeft, y+height, gc.Width-gc.MarginRight, y+height))

		for _, bar := range lanes[lane] {
			gc.drawBar(svg, bar, y, height)
		}
	}
}

func (gc *GanttChart) drawBar(svg *strings.Builder, bar GanttBar, rowY int, rowHeight int) {
	barHeight := rowHeight - 4
	barY := rowY + 2

	class := "changeout-bar"
	if bar.Type == entities.BlockedWaiting {
		class = "blocked-bar"
	}

	svg.WriteString(`<g>`)
	svg.WriteString(fmt.Sprintf(`<rect x="%d" y="%d" width="%d" height="%d" fill="%s" class="%s"/>`,
		bar.X, barY, bar.Width, barHeight, bar.Color, class))

	if bar.Width > 50 {
		svg.WriteString(fmt.Sprintf(`<text x="%d" y="%d" class="bar-text" text-anchor="middle">%s</text>`,
			bar.X+bar.Width/2, barY+barHeight/2+3, html.EscapeString(bar.Equipment)))
	}

	tooltip := fmt.Sprintf("%s %s serial %s, type %s, out %s, back %s (%s)",
		bar.Component, bar.Equipment, bar.Serial, bar.Type.Code(),
		entities.FormatDate(bar.ChangeoutDate),
		entities.FormatDate(bar.ArrivalDate),
		bar.ArrivalStatus)
	svg.WriteString(fmt.Sprintf(`<title>%s</title>`, html.EscapeString(tooltip)))
	svg.WriteString(`</g>`)
}

func (gc *GanttChart) drawLegend(svg *strings.Builder) {
	legendX := gc.Width - gc.MarginRight - 200
	legendY := 40

	svg.WriteString(fmt.Sprintf(`<rect x="%d" y="%d" width="180" height="60" fill="white" stroke="#ccc" stroke-width="1"/>`,
		legendX, legendY))
	svg.WriteString(fmt.Sprintf(`<text x="%d" y="%d" class="slot-label" font-weight="bold">Arrival</text>`,
		legendX+10, legendY+15))

	items := []struct {
		status entities.ArrivalStatus
		label  string
	}{
		{entities.Historical, "Historical"},
		{entities.Confirmed, "Confirmed"},
		{entities.Unconfirmed, "Projected"},
	}

	for i, item := range items {
		itemY := legendY + 25 + i*12
		svg.WriteString(fmt.Sprintf(`<rect x="%d" y="%d" width="12" height="8" fill="%s"/>`,
			legendX+10, itemY, gc.getBarColor(item.status)))
		svg.WriteString(fmt.Sprintf(`<text x="%d" y="%d" class="time-label">%s</text>`,
			legendX+30, itemY+6, item.label))
	}
}

func (gc *GanttChart) getBarColor(status entities.ArrivalStatus) string {
	switch status {
	case entities.Historical:
		return "#9E9E9E"
	case entities.Confirmed:
		return "#2196F3"
	case entities.Unconfirmed:
		return "#FF9800"
	default:
		return "#616161"
	}
}

func (gc *GanttChart) generateEmptyChart() string {
	return fmt.Sprintf(`<svg width="%d" height="%d" xmlns="http://www.w3.org/2000/svg">
		<rect width="%d" height="%d" fill="white"/>
		<text x="%d" y="%d" class="title" text-anchor="middle">No Slotted Changeouts</text>
		<style>
			.title { font-family: Arial, sans-serif; font-size: 16px; fill: #666; }
		</style>
	</svg>`, gc.Width, gc.Height, gc.Width, gc.Height, gc.Width/2, gc.Height/2)
}

// generateSVGOutput writes the slot timeline to allocation_gantt.svg, or stdout
func generateSVGOutput(result *dto.AllocationResult, config Config) error {
	chart := NewGanttChart(result)
	svg := chart.GenerateSVG(result, config.Catalog)

	if config.OutputDir == "" {
		_, err := fmt.Fprintln(config.Out, svg)
		return err
	}

	filename, err := createFile(config.OutputDir, "allocation_gantt.svg")
	if err != nil {
		return err
	}
	if err := writeFile(filename, func(w io.Writer) error {
		_, err := io.WriteString(w, svg)
		return err
	}); err != nil {
		return fmt.Errorf("failed to write gantt chart: %w", err)
	}
	if config.Verbose {
		fmt.Fprintf(config.Out, "Gantt chart saved to: %s\n", filename)
	}
	return nil
}
