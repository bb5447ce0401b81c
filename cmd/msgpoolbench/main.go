// Command msgpoolbench drives a Pool under configurable concurrent
// allocate/deallocate load, the way an operator would exercise a live
// deployment's allocator before trusting it in production.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/standardbeagle/msgpool"
	"github.com/standardbeagle/msgpool/internal/debug"
	"github.com/standardbeagle/msgpool/internal/version"

	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"
)

func main() {
	app := &cli.App{
		Name:                   "msgpoolbench",
		Usage:                  "concurrent load harness for the msgpool allocator",
		Version:                version.Version,
		UseShortOptionHandling: true,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "workers",
				Usage: "number of goroutines issuing allocate/deallocate pairs",
				Value: 8,
			},
			&cli.IntFlag{
				Name:  "iterations",
				Usage: "allocate/deallocate pairs per worker",
				Value: 100000,
			},
			&cli.IntFlag{
				Name:  "class-bytes",
				Usage: "bytes requested per Allocate call",
				Value: 256,
			},
			&cli.IntFlag{
				Name:  "base-size",
				Usage: "pool's class-0 cell size in bytes",
				Value: msgpool.DefaultBaseSize,
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "enable growth/bench tracing to stderr",
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	if c.Bool("debug") {
		debug.EnableDebug = "true"
		debug.SetDebugOutput(os.Stderr)
	}

	p, err := msgpool.New(msgpool.Config{BaseSize: c.Int("base-size")})
	if err != nil {
		return fmt.Errorf("construct pool: %w", err)
	}
	defer p.Destroy()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		debug.LogBench("shutdown signal received, cancelling outstanding workers\n")
		cancel()
	}()

	workers := c.Int("workers")
	iterations := c.Int("iterations")
	classBytes := c.Int("class-bytes")

	var completed atomic.Int64
	start := time.Now()

	// Per-worker latency samples are collected into a plain
	// preallocated slice; sampling only every 64th iteration keeps this
	// bookkeeping from perturbing the measurement it's taking.
	var samplesMu sync.Mutex
	var allSamples []time.Duration

	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		w := w
		g.Go(func() error {
			batch := make([]time.Duration, 0, iterations/64+1)
			for i := 0; i < iterations; i++ {
				select {
				case <-gctx.Done():
					return gctx.Err()
				default:
				}
				opStart := time.Now()
				cell, err := p.Allocate(classBytes)
				allocLatency := time.Since(opStart)
				if err != nil {
					return fmt.Errorf("worker %d: allocate: %w", w, err)
				}
				p.Deallocate(cell)
				completed.Add(1)

				if i%64 == 0 {
					batch = append(batch, allocLatency)
				}
			}
			samplesMu.Lock()
			allSamples = append(allSamples, batch...)
			samplesMu.Unlock()

			debug.LogBench("worker %d finished %d iterations\n", w, iterations)
			return nil
		})
	}

	runErr := g.Wait()
	elapsed := time.Since(start)

	fmt.Printf("completed %d allocate/deallocate pairs in %s\n", completed.Load(), elapsed)
	fmt.Printf("free cells remaining: %d, tag live: %t\n", p.Size(), p.CheckTag())
	if len(allSamples) > 0 {
		fmt.Printf("sampled %d allocate latencies, max %s\n", len(allSamples), maxDuration(allSamples))
	}

	if runErr != nil {
		return fmt.Errorf("bench run: %w", runErr)
	}
	return nil
}

func maxDuration(ds []time.Duration) time.Duration {
	max := ds[0]
	for _, d := range ds[1:] {
		if d > max {
			max = d
		}
	}
	return max
}
