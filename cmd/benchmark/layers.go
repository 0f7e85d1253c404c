package main

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v3"

	"github.com/delaneyj/signalgraph/cmd/benchmark/templates"
	"github.com/delaneyj/signalgraph/graph"
)

const testRepeats = 5

func runLayers(ctx context.Context, cmd *cli.Command) error {
	log := newLogger(cmd)
	log.Info("starting layers benchmark, please wait...")
	defer log.Info("finished layers benchmark")

	scenarios, err := loadScenarios(cmd.String(scenariosKey))
	if err != nil {
		return err
	}

	var rows []templates.LayersRow
	for _, sc := range scenarios {
		if n := int(cmd.Int(iterationsKey)); n > 0 {
			sc.Iterations = n
		}

		clog := log.WithField("scenario", sc.Name)
		clog.Info("running")

		best := layersRun{duration: time.Hour}
		// run once to warm up
		runScenario(sc)
		for i := 0; i < testRepeats; i++ {
			res := runScenario(sc)
			clog.WithField("repeat", i+1).WithField("duration", res.duration).Debug("repeat done")
			if res.duration < best.duration {
				best = res
			}
		}

		verified := (sc.ExpectedSum == 0 || best.sum == sc.ExpectedSum) &&
			(sc.ExpectedCount == 0 || best.count == sc.ExpectedCount)
		if !verified {
			clog.WithField("sum", best.sum).WithField("count", best.count).Warn("result does not match the expected values")
		}

		rows = append(rows, templates.LayersRow{
			Name:           sc.Name,
			Width:          sc.Width,
			Layers:         sc.TotalLayers,
			Sources:        sc.Sources,
			ReadFraction:   sc.ReadFraction,
			StaticFraction: sc.StaticFraction,
			Iterations:     sc.Iterations,
			Duration:       best.duration,
			UpdateRate:     int64(float64(best.count) / (float64(best.duration) / float64(time.Millisecond))),
			Sum:            best.sum,
			Count:          best.count,
			Verified:       verified,
		})
	}

	renderLayers(rows, cmd.Bool(plainKey))
	return writeReport(cmd.String(reportKey), &templates.ReportData{Layers: rows})
}

func renderLayers(rows []templates.LayersRow, plain bool) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{
		"size", "sources", "read%", "static%",
		"nTimes", "test", "time", "updateRate", "ok", "title",
	})
	if plain {
		table.SetBorder(false)
		table.SetCenterSeparator(" ")
		table.SetColumnSeparator(" ")
		table.SetRowSeparator("-")
	}

	for _, row := range rows {
		table.Append([]string{
			fmt.Sprintf("%dx%d", row.Width, row.Layers),
			fmt.Sprint(row.Sources),
			fmt.Sprint(row.ReadFraction),
			fmt.Sprint(row.StaticFraction),
			humanize.Comma(int64(row.Iterations)),
			row.Name,
			fmt.Sprint(row.Duration),
			humanize.Comma(row.UpdateRate),
			fmt.Sprint(row.Verified),
			layersTitle(row),
		})
	}
	table.Render()
}

func layersTitle(row templates.LayersRow) string {
	sb := strings.Builder{}
	sb.WriteString(fmt.Sprintf("%dx%d %d sources", row.Width, row.Layers, row.Sources))
	if row.StaticFraction < 1 {
		sb.WriteString(" dynamic")
	}
	if row.ReadFraction < 1 {
		sb.WriteString(fmt.Sprintf(" read %0.2f%%", 100*row.ReadFraction))
	}
	return sb.String()
}

type layersRun struct {
	sum      float64
	count    int64
	duration time.Duration
}

// runScenario builds a fresh graph and times the write and read loop on it.
func runScenario(sc scenario) layersRun {
	rt := graph.NewRuntime()
	counter := new(int64)
	g := makeLayers(rt, sc, counter)

	start := time.Now()
	sum := runLayersGraph(g, sc.Iterations, sc.ReadFraction)
	return layersRun{sum: sum, count: *counter, duration: time.Since(start)}
}

type layersGraph struct {
	sources []*graph.Signal[int]
	layers  [][]*graph.Memo[int]
}

// node is what a memo in the next layer reads: a source signal or a memo.
type node interface {
	graph.Source
	Read(sc *graph.Scope) int
}

func makeLayers(rt *graph.Runtime, sc scenario, counter *int64) *layersGraph {
	sources := make([]*graph.Signal[int], sc.Width)
	prevRow := make([]node, sc.Width)
	for i := range sources {
		sources[i] = graph.CreateSignal(rt, i)
		prevRow[i] = sources[i]
	}

	random := rand.New(rand.NewSource(0))
	g := &layersGraph{sources: sources}
	for l := 0; l < sc.TotalLayers-1; l++ {
		row := makeRow(rt, prevRow, sc, counter, random)
		g.layers = append(g.layers, row)

		prevRow = make([]node, len(row))
		for i, m := range row {
			prevRow[i] = m
		}
	}
	return g
}

func makeRow(rt *graph.Runtime, prev []node, sc scenario, counter *int64, random *rand.Rand) []*graph.Memo[int] {
	row := make([]*graph.Memo[int], len(prev))

	for myDex := range prev {
		mySources := make([]node, 0, sc.Sources)
		for sourceDex := 0; sourceDex < sc.Sources; sourceDex++ {
			mySources = append(mySources, prev[(myDex+sourceDex)%len(prev)])
		}

		if random.Float64() < sc.StaticFraction {
			row[myDex] = graph.CreateMemo(rt, func(s *graph.Scope, _ int) (int, error) {
				*counter++
				sum := 0
				for _, src := range mySources {
					sum += src.Read(s)
				}
				return sum, nil
			})
			continue
		}

		first, tail := mySources[0], mySources[1:]
		row[myDex] = graph.CreateMemo(rt, func(s *graph.Scope, _ int) (int, error) {
			*counter++
			sum := first.Read(s)
			shouldDrop := sum&0x1 > 0
			dropDex := sum % len(tail)

			for i := range tail {
				if shouldDrop && i == dropDex {
					continue
				}
				sum += tail[i].Read(s)
			}
			return sum, nil
		})
	}
	return row
}

// runLayersGraph writes one source per iteration and reads a fixed random
// subset of the leaves. It returns the sum of those leaves at the end.
func runLayersGraph(g *layersGraph, iterations int, readFraction float64) float64 {
	random := rand.New(rand.NewSource(0))
	leaves := g.layers[len(g.layers)-1]
	skipCount := int(math.Round(float64(len(leaves)) * (1 - readFraction)))
	readLeaves := removeElems(leaves, skipCount, random)

	for i := 0; i < iterations; i++ {
		sourceDex := i % len(g.sources)
		g.sources[sourceDex].Set(i + sourceDex)

		for _, leaf := range readLeaves {
			leaf.Peek()
		}
	}

	var sum float64
	for _, leaf := range readLeaves {
		v, _ := leaf.Peek()
		sum += float64(v)
	}
	return sum
}

func removeElems[T any](src []T, rmCount int, random *rand.Rand) []T {
	out := make([]T, len(src))
	copy(out, src)
	for i := 0; i < rmCount; i++ {
		rmDex := random.Intn(len(out))
		out[rmDex] = out[len(out)-1]
		out = out[:len(out)-1]
	}
	return out
}
