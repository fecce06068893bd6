// Command sightline runs the real-time Wi-Fi sighting collector: a periodic
// sampling task feeding a bounded queue, an aggregation task merging
// sightings into per-network history, and persistence of that history as a
// text report and a sqlite archive.
//
// Usage:
//
//	sightline [flags] <interval-seconds>
//
// The interval is the sampling period in whole seconds and is mandatory.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/banshee-data/sightline/internal/api"
	"github.com/banshee-data/sightline/internal/config"
	"github.com/banshee-data/sightline/internal/db"
	"github.com/banshee-data/sightline/internal/monitoring"
	"github.com/banshee-data/sightline/internal/pipeline"
	"github.com/banshee-data/sightline/internal/queue"
	"github.com/banshee-data/sightline/internal/report"
	"github.com/banshee-data/sightline/internal/rt"
	"github.com/banshee-data/sightline/internal/scan"
	"github.com/banshee-data/sightline/internal/schedule"
	"github.com/banshee-data/sightline/internal/sightings"
	"github.com/banshee-data/sightline/internal/timeutil"
	"github.com/banshee-data/sightline/internal/version"
)

// Exit codes for startup failures. Distinct values let supervisors tell an
// environment problem from an operator mistake.
const (
	exitMemoryLock = 2
	exitAffinity   = 3
	exitBadArgs    = 4
)

var (
	listen     = flag.String("listen", ":8080", "Status API listen address (empty disables)")
	reportPath = flag.String("report", "ssids.txt", "Path of the text sighting report")
	dbPath     = flag.String("db", "sightings.db", "Path of the sqlite sighting archive (empty disables)")
	source     = flag.String("source", "script", "Sampling source: \"script\" or \"serial\"")
	script     = flag.String("script", "searchWifi.sh", "Scan script for the script source")
	serialPort = flag.String("serial-port", "/dev/ttyUSB0", "Port for the serial source")
	tuningPath = flag.String("tuning", "", "Optional tuning JSON file")
	noRT       = flag.Bool("no-rt", false, "Skip real-time process configuration (dev mode)")
	verbose    = flag.Bool("verbose", false, "Enable per-cycle telemetry logging")
)

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] <interval-seconds>\n\nFlags:\n", os.Args[0])
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	flag.Parse()

	if *verbose {
		monitoring.SetDebugLogger(log.Printf)
	}

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "sightline: exactly one argument required: the sampling interval in seconds")
		usage()
		os.Exit(exitBadArgs)
	}
	seconds, err := strconv.Atoi(flag.Arg(0))
	if err != nil || seconds <= 0 {
		fmt.Fprintf(os.Stderr, "sightline: invalid sampling interval %q: want a positive integer of seconds\n", flag.Arg(0))
		os.Exit(exitBadArgs)
	}
	interval := time.Duration(seconds) * time.Second

	tuning := config.Default()
	if *tuningPath != "" {
		tuning, err = config.Load(*tuningPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "sightline: %v\n", err)
			os.Exit(exitBadArgs)
		}
	}

	// Real-time environment setup must precede task creation: affinity is
	// inherited by threads created afterwards.
	if !*noRT {
		err := rt.Configure(rt.Config{
			CPU:                tuning.GetCPU(),
			Priority:           tuning.GetTaskPriority(),
			StackPrefaultBytes: tuning.GetStackPrefaultBytes(),
		})
		switch {
		case errors.Is(err, rt.ErrMemoryLock):
			fmt.Fprintf(os.Stderr, "sightline: %v\n", err)
			os.Exit(exitMemoryLock)
		case errors.Is(err, rt.ErrAffinity):
			fmt.Fprintf(os.Stderr, "sightline: %v\n", err)
			os.Exit(exitAffinity)
		case err != nil:
			fmt.Fprintf(os.Stderr, "sightline: %v\n", err)
			os.Exit(1)
		}
	}

	var src scan.Source
	switch *source {
	case "script":
		src = scan.NewScriptSource(*script)
	case "serial":
		s, err := scan.NewSerialSource(*serialPort, tuning.GetSerialBaud())
		if err != nil {
			log.Fatalf("failed to open serial source: %v", err)
		}
		defer s.Close()
		src = s
	default:
		fmt.Fprintf(os.Stderr, "sightline: unknown source %q (want \"script\" or \"serial\")\n", *source)
		os.Exit(exitBadArgs)
	}

	clock := timeutil.RealClock{}
	watch := timeutil.NewStopwatch(clock)
	q := queue.New(tuning.GetQueueCapacity(), tuning.GetFullPolicy())
	store := sightings.NewStore()

	sinks := []report.Sink{report.NewWriter(*reportPath)}

	cache := api.NewSnapshotCache()
	sinks = append(sinks, cache)

	if *dbPath != "" {
		archive, err := db.NewDB(*dbPath)
		if err != nil {
			log.Fatalf("failed to open sighting archive: %v", err)
		}
		defer archive.Close()
		log.Printf("sighting archive %s open, run %s", *dbPath, archive.RunID())
		sinks = append(sinks, db.NewArchiveSink(archive))
	}

	sched, err := schedule.NewPeriodic(clock, interval)
	if err != nil {
		fmt.Fprintf(os.Stderr, "sightline: %v\n", err)
		os.Exit(exitBadArgs)
	}

	priority := tuning.GetTaskPriority()
	if *noRT {
		priority = 0
	}
	sampler := pipeline.NewSampler(sched, src, tuning.GetFilterPolicy(), q, watch, priority)
	aggregator := pipeline.NewAggregator(q, store, watch, priority, sinks...)
	pipe := pipeline.New(sampler, aggregator)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := pipe.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("pipeline stopped: %v", err)
		} else {
			log.Print("pipeline stopped")
		}
	}()

	if *listen != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()

			server := &http.Server{
				Addr:    *listen,
				Handler: api.NewServer(cache, q).ServeMux(),
			}

			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatalf("failed to start status server: %v", err)
				}
			}()
			log.Printf("status API listening on %s", *listen)

			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				log.Printf("status server shutdown error: %v", err)
				server.Close()
			}
		}()
	}

	log.Printf("sightline %s (%s): sampling every %v from %v, queue %d slots (%s policy)",
		version.Version, version.GitSHA, interval, src, q.Cap(), q.Policy())

	wg.Wait()
	log.Print("shutdown complete")
}
