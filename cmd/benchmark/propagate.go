package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"runtime/pprof"
	"time"

	"github.com/jamiealquiza/tachymeter"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"

	"github.com/delaneyj/signalgraph/cmd/benchmark/templates"
	"github.com/delaneyj/signalgraph/graph"
	"github.com/delaneyj/signalgraph/graphmetrics"
)

const cpuProfileKey = "cpuprofile"

var (
	ww = []int{1, 10, 100, 1_000}
	hh = []int{1, 10, 100, 1_000}
)

func runPropagate(ctx context.Context, cmd *cli.Command) error {
	log := newLogger(cmd)
	iters := int(cmd.Int(iterationsKey))

	if path := cmd.String(cpuProfileKey); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			return err
		}
		defer pprof.StopCPUProfile()
	}

	reg := prometheus.NewRegistry()
	if addr := cmd.String(metricsAddrKey); addr != "" {
		srv := &http.Server{Addr: addr, Handler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{})}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.WithError(err).Error("metrics server failed")
			}
		}()
		defer srv.Shutdown(context.Background())
		log.WithField("addr", addr).Info("serving metrics")
	}

	tbl := table.NewWriter()
	tbl.SetTitle("signalgraph propagate")
	tbl.SetOutputMirror(os.Stdout)
	tbl.AppendHeader(table.Row{"benchmark", "avg", "min", "p75", "p99", "max", "recomputes"})
	if !cmd.Bool(plainKey) {
		tbl.SetStyle(table.StyleRounded)
	}

	var rows []templates.PropagateRow
	for _, w := range ww {
		for _, h := range hh {
			row, err := propagateCase(reg, log, w, h, iters)
			if err != nil {
				return err
			}
			rows = append(rows, row)
			tbl.AppendRow(table.Row{
				fmt.Sprintf("propagate: %d * %d", w, h),
				row.Avg,
				row.Min,
				row.P75,
				row.P99,
				row.Max,
				row.Recomputes,
			})
		}
	}
	tbl.Render()

	return writeReport(cmd.String(reportKey), &templates.ReportData{Propagate: rows})
}

// propagateCase builds w chains of h memos hanging off one signal, each
// chain read by an effect, and times iters writes plus the flush that follows.
func propagateCase(reg prometheus.Registerer, log logrus.FieldLogger, w, h, iters int) (templates.PropagateRow, error) {
	clog := log.WithField("case", fmt.Sprintf("%dx%d", w, h))
	rt := graph.NewRuntime(graph.WithLogger(clog))

	collector, err := graphmetrics.New(rt,
		graphmetrics.WithRegistry(reg),
		graphmetrics.WithConstLabels(prometheus.Labels{"case": fmt.Sprintf("%dx%d", w, h)}),
	)
	if err != nil {
		return templates.PropagateRow{}, err
	}
	defer reg.Unregister(collector)

	src, effectRuns := buildChains(rt, w, h)
	if err := collector.Flush(); err != nil {
		return templates.PropagateRow{}, err
	}

	tach := tachymeter.New(&tachymeter.Config{Size: iters})
	for i := 0; i < iters; i++ {
		start := time.Now()
		if err := src.Set(i + 2); err != nil {
			return templates.PropagateRow{}, err
		}
		if err := collector.Flush(); err != nil {
			return templates.PropagateRow{}, err
		}
		tach.AddTime(time.Since(start))
	}

	if want := w * (iters + 1); *effectRuns != want {
		clog.WithField("effect_runs", *effectRuns).WithField("want", want).Warn("unexpected effect run count")
	}

	calc := tach.Calc()
	clog.WithField("avg", calc.Time.Avg).Debug("case done")
	return templates.PropagateRow{
		Width:      w,
		Height:     h,
		Avg:        calc.Time.Avg,
		Min:        calc.Time.Min,
		P75:        calc.Time.P75,
		P99:        calc.Time.P99,
		Max:        calc.Time.Max,
		Recomputes: rt.Stats().Recomputes,
	}, nil
}

func buildChains(rt *graph.Runtime, w, h int) (*graph.Signal[int], *int) {
	src := graph.CreateSignal(rt, 1, graph.WithTag("src"))
	effectRuns := new(int)

	for i := 0; i < w; i++ {
		var last node = src
		for j := 0; j < h; j++ {
			prev := last
			last = graph.CreateMemo(rt, func(sc *graph.Scope, _ int) (int, error) {
				return prev.Read(sc) + 1, nil
			})
		}

		leaf := last
		graph.CreateEffect(rt, func(sc *graph.Scope) error {
			*effectRuns++
			leaf.Read(sc)
			return nil
		})
	}
	return src, effectRuns
}
