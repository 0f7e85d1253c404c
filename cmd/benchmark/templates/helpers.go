package templates

//go:generate qtc -skipLineComments -dir=.

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

type PropagateRow struct {
	Width, Height int
	Avg, Min, P75 time.Duration
	P99, Max      time.Duration
	Recomputes    uint64
}

type LayersRow struct {
	Name           string
	Width, Layers  int
	Sources        int
	ReadFraction   float64
	StaticFraction float64
	Iterations     int
	Duration       time.Duration
	UpdateRate     int64
	Sum            float64
	Count          int64
	Verified       bool
}

type ReportData struct {
	Title     string
	Generated time.Time
	Propagate []PropagateRow
	Layers    []LayersRow
}

func mdRow(cells ...string) string {
	var sb strings.Builder
	sb.WriteString("|")
	for _, cell := range cells {
		sb.WriteString(" ")
		sb.WriteString(strings.ReplaceAll(cell, "|", `\|`))
		sb.WriteString(" |")
	}
	return sb.String()
}

func mdDivider(count int) string {
	var sb strings.Builder
	sb.WriteString("|")
	for i := 0; i < count; i++ {
		sb.WriteString(" --- |")
	}
	return sb.String()
}

func propagateCells(row PropagateRow) []string {
	return []string{
		fmt.Sprintf("%d * %d", row.Width, row.Height),
		row.Avg.String(),
		row.Min.String(),
		row.P75.String(),
		row.P99.String(),
		row.Max.String(),
		humanize.Comma(int64(row.Recomputes)),
	}
}

func layersCells(row LayersRow) []string {
	verified := "yes"
	if !row.Verified {
		verified = "no"
	}
	return []string{
		row.Name,
		fmt.Sprintf("%dx%d", row.Width, row.Layers),
		fmt.Sprint(row.Sources),
		fmt.Sprint(row.ReadFraction),
		fmt.Sprint(row.StaticFraction),
		humanize.Comma(int64(row.Iterations)),
		row.Duration.String(),
		humanize.Comma(row.UpdateRate),
		verified,
	}
}
