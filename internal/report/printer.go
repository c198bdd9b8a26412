package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"daytrack/internal/core"
)

// Printer renders analytics views as terminal tables.
type Printer struct {
	Out io.Writer

	noColor bool
	bold    *color.Color
	faint   *color.Color
	today   *color.Color
}

// NewPrinter writes to out. With noColor set no escape codes are emitted.
func NewPrinter(out io.Writer, noColor bool) *Printer {
	p := &Printer{
		Out:     out,
		noColor: noColor,
		bold:    color.New(color.Bold),
		faint:   color.New(color.Faint),
		today:   color.New(color.Bold, color.Underline),
	}
	if noColor {
		p.bold.DisableColor()
		p.faint.DisableColor()
		p.today.DisableColor()
	}
	return p
}

func (p *Printer) title(s string) {
	_, _ = fmt.Fprintln(p.Out, p.bold.Sprint(s))
}

func (p *Printer) table() *uitable.Table {
	tbl := uitable.New()
	tbl.Separator = "  "
	return tbl
}

// Week prints one week summary.
func (p *Printer) Week(snap core.WeekSnapshot) {
	p.title(fmt.Sprintf("Week %s to %s", snap.WeekStart, snap.WeekEnd))
	top := snap.TopCategoryName
	if top == "" {
		top = "-"
	}
	tbl := p.table()
	tbl.AddRow("Total", core.FormatDuration(snap.TotalMinutes))
	tbl.AddRow("Avg per day", core.FormatDuration(snap.AvgMinutesPerDay))
	tbl.AddRow("Top category", top)
	tbl.AddRow("Active days", snap.DaysWithActivities)
	_, _ = fmt.Fprintln(p.Out, tbl)
}

// Overview prints the totals, the category breakdown and the rating counts.
func (p *Printer) Overview(o core.Overview) {
	label := o.Range.Label
	if label == "" {
		label = "Range"
	}
	p.title(fmt.Sprintf("%s (%s to %s)", label, o.Range.Start, o.Range.End))

	tbl := p.table()
	tbl.AddRow("Total", core.FormatDuration(o.TotalMinutes))
	tbl.AddRow("Avg per active day", core.FormatDuration(o.AvgMinutesPerDay))
	tbl.AddRow("Rated days", o.RatedDays)
	if o.TopCategoryName != "" {
		tbl.AddRow("Top category", o.TopCategoryName)
	}
	_, _ = fmt.Fprintln(p.Out, tbl)

	_, _ = fmt.Fprintln(p.Out)
	if len(o.Breakdown) == 0 {
		_, _ = fmt.Fprintln(p.Out, p.faint.Sprint("No activities logged"))
	} else {
		tbl = p.table()
		tbl.AddRow(p.bold.Sprint("Category"), p.bold.Sprint("Time"), p.bold.Sprint("Share"))
		for _, row := range o.Breakdown {
			tbl.AddRow(row.Name, row.Duration, fmt.Sprintf("%.1f%%", row.Percentage))
		}
		_, _ = fmt.Fprintln(p.Out, tbl)
	}

	_, _ = fmt.Fprintln(p.Out)
	tbl = p.table()
	for _, r := range []core.Rating{core.Great, core.OK, core.Tough} {
		tbl.AddRow(p.ratingColor(r).Sprint(core.RatingLabels[r]), o.Ratings.Get(r))
	}
	_, _ = fmt.Fprintln(p.Out, tbl)
}

// Calendar prints the month grid, one row per week. Each cell carries the
// day number, the logged time and the rating marker.
func (p *Printer) Calendar(m core.MonthView) {
	p.title(m.Title)
	tbl := p.table()
	header := make([]interface{}, len(m.Weekdays))
	for i, d := range m.Weekdays {
		header[i] = p.bold.Sprint(d)
	}
	tbl.AddRow(header...)

	for start := 0; start < len(m.Days); start += 7 {
		row := make([]interface{}, 0, 7)
		for _, day := range m.Days[start:min(start+7, len(m.Days))] {
			row = append(row, p.cell(day))
		}
		tbl.AddRow(row...)
	}
	_, _ = fmt.Fprintln(p.Out, tbl)
}

func (p *Printer) cell(d core.DayTotal) string {
	parts := []string{fmt.Sprintf("%2d", d.Date.Day())}
	if d.Minutes > 0 {
		parts = append(parts, core.FormatDuration(d.Minutes))
	}
	if d.Rating != "" {
		parts = append(parts, p.ratingColor(d.Rating).Sprint(ratingMarker(d.Rating)))
	}
	s := strings.Join(parts, " ")
	switch {
	case d.IsToday:
		return p.today.Sprint(s)
	case !d.InMonth:
		return p.faint.Sprint(s)
	}
	return s
}

func ratingMarker(r core.Rating) string {
	switch r {
	case core.Great:
		return "+"
	case core.Tough:
		return "-"
	}
	return "~"
}

func (p *Printer) ratingColor(r core.Rating) *color.Color {
	c := color.New(color.FgYellow)
	switch r {
	case core.Great:
		c = color.New(color.FgGreen)
	case core.Tough:
		c = color.New(color.FgRed)
	}
	if p.noColor {
		c.DisableColor()
	}
	return c
}
