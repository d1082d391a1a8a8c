package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v3"

	"github.com/delaneyj/uiparty/property"
	"github.com/delaneyj/uiparty/timer"
)

const repeatsKey = "repeats"

func main() {
	cmd := &cli.Command{
		Name:  "benchmark_trackers",
		Usage: "Measure tracker re-evaluation and timer dispatch throughput",
		Flags: []cli.Flag{
			&cli.UintFlag{
				Name:  repeatsKey,
				Usage: "Best-of repeats per configuration",
				Value: 5,
			},
		},
		Action: run,
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	log.Print("Starting tracker benchmark, please wait...")
	defer log.Print("Finished tracker benchmark")

	repeats := int(cmd.Uint(repeatsKey))
	benchmarkTrackers(repeats)
	benchmarkTimers(repeats)
	return nil
}

type trackerTestConfig struct {
	name       string
	nProps     int // properties read by every tracker
	nTrackers  int
	iterations int
}

func benchmarkTrackers(repeats int) {
	cfgs := []trackerTestConfig{
		{name: "single listener", nProps: 10, nTrackers: 1, iterations: 200_000},
		{name: "fanout", nProps: 10, nTrackers: 100, iterations: 10_000},
		{name: "wide reads", nProps: 1_000, nTrackers: 10, iterations: 2_000},
		{name: "many listeners", nProps: 100, nTrackers: 1_000, iterations: 500},
	}

	tbl := tablewriter.NewWriter(os.Stdout)
	tbl.SetHeader([]string{
		"scenario", "props", "trackers", "nTimes", "time", "evalRate",
	})

	for _, cfg := range cfgs {
		log.Printf("Running '%s' config", cfg.name)

		g := property.NewGraph()
		props := make([]*property.Property[int], cfg.nProps)
		for i := range props {
			props[i] = property.New(g, i)
		}
		trackers := make([]*property.Tracker, cfg.nTrackers)
		for i := range trackers {
			trackers[i] = property.NewTracker(g)
		}
		readAll := func() {
			for _, p := range props {
				p.Get()
			}
		}

		best := time.Duration(1<<63 - 1)
		evals := 0
		for r := 0; r < repeats; r++ {
			evals = 0
			start := time.Now()
			for i := 0; i < cfg.iterations; i++ {
				props[i%cfg.nProps].Set(i + cfg.nProps)
				for _, tr := range trackers {
					if tr.EvaluateIfDirty(readAll) {
						evals++
					}
				}
			}
			if d := time.Since(start); d < best {
				best = d
			}
		}

		evalRate := float64(evals) / (float64(best) / float64(time.Millisecond))
		tbl.Append([]string{
			cfg.name,
			fmt.Sprint(cfg.nProps),
			fmt.Sprint(cfg.nTrackers),
			humanize.Comma(int64(cfg.iterations)),
			fmt.Sprint(best),
			humanize.Comma(int64(evalRate)),
		})
	}

	tbl.Render()
}

type timerTestConfig struct {
	name     string
	nTimers  int
	interval time.Duration
	steps    int
	stepSize time.Duration
}

func benchmarkTimers(repeats int) {
	cfgs := []timerTestConfig{
		{name: "frame tick", nTimers: 1, interval: 16 * time.Millisecond, steps: 100_000, stepSize: 16 * time.Millisecond},
		{name: "animation storm", nTimers: 1_000, interval: 16 * time.Millisecond, steps: 1_000, stepSize: 16 * time.Millisecond},
		{name: "sparse timeouts", nTimers: 10_000, interval: time.Second, steps: 100, stepSize: 250 * time.Millisecond},
	}

	tbl := tablewriter.NewWriter(os.Stdout)
	tbl.SetHeader([]string{
		"scenario", "timers", "interval", "steps", "time", "fireRate",
	})

	for _, cfg := range cfgs {
		log.Printf("Running '%s' config", cfg.name)

		best := time.Duration(1<<63 - 1)
		fired := 0
		for r := 0; r < repeats; r++ {
			clock := timer.NewFakeClock(time.Unix(0, 0))
			q := timer.NewQueue(clock)
			fired = 0
			for i := 0; i < cfg.nTimers; i++ {
				t := q.NewTimer()
				t.Start(timer.Repeated, cfg.interval, func() { fired++ })
			}

			start := time.Now()
			for s := 0; s < cfg.steps; s++ {
				clock.Advance(cfg.stepSize)
				q.MaybeActivateTimers(clock.Now())
			}
			if d := time.Since(start); d < best {
				best = d
			}
		}

		fireRate := float64(fired) / (float64(best) / float64(time.Millisecond))
		tbl.Append([]string{
			cfg.name,
			fmt.Sprint(cfg.nTimers),
			fmt.Sprint(cfg.interval),
			humanize.Comma(int64(cfg.steps)),
			fmt.Sprint(best),
			humanize.Comma(int64(fireRate)),
		})
	}

	tbl.Render()
}
