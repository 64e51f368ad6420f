// Command radard fuses radar tracks with the vision model's lead
// hypotheses into the radarState message consumed by longitudinal
// planning. See SPEC_FULL.md for the full component design.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"tailscale.com/tsweb"

	"github.com/banshee-data/radard/internal/bus"
	"github.com/banshee-data/radard/internal/config"
	"github.com/banshee-data/radard/internal/core"
	"github.com/banshee-data/radard/internal/messages"
	"github.com/banshee-data/radard/internal/radarsim"
	"github.com/banshee-data/radard/internal/timeutil"
	"github.com/banshee-data/radard/internal/version"
)

var (
	listen        = flag.String("listen", ":8082", "Admin/debug HTTP listen address")
	configFile    = flag.String("config", config.DefaultConfigPath, "Path to JSON tuning configuration file")
	carParamsFile = flag.String("car-params", "carParams.json", "Path to JSON CarParams file (blocking, required at startup)")
	fixturePath   = flag.String("fixture", "", "Replay radar frames from a JSONL fixture file instead of a serial device")
	serialPort    = flag.String("port", "", "Serial port the radar transport listens on (e.g. /dev/ttyUSB0)")
	baudRate      = flag.Int("baud", 115200, "Serial baud rate for the radar transport")
	delay         = flag.Int("v-ego-delay", 0, "Ego-velocity alignment delay, in radar cycles")
	versionFlag   = flag.Bool("version", false, "Print version information and exit")
)

func main() {
	flag.Parse()

	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	log.SetOutput(os.Stdout)

	if *versionFlag {
		fmt.Printf("radard v%s (git SHA: %s)\n", version.Version, version.GitSHA)
		os.Exit(0)
	}

	carParams, err := config.LoadCarParams(*carParamsFile)
	if err != nil {
		log.Fatalf("failed to load car params: %v", err)
	}
	log.Printf("radard v%s (git SHA: %s) starting for car %q", version.Version, version.GitSHA, carParams.CarName)

	period := time.Duration(carParams.RadarTimeStep * float64(time.Second))

	transport, err := openTransport(*fixturePath, *serialPort, *baudRate, period)
	if err != nil {
		log.Fatalf("failed to open radar transport: %v", err)
	}
	defer transport.Close()

	paramStore := config.NewParamStore(*configFile)

	hubs := core.Hubs{
		CarState:    bus.NewHub[messages.CarState](),
		ModelV2:     bus.NewHub[messages.ModelV2](),
		LateralPlan: bus.NewHub[messages.LateralPlan](),
		RadarState:  bus.NewHub[messages.RadarState](),
		LiveTracks:  bus.NewHub[[]messages.LiveTrack](),
	}

	orchestrator, err := core.New(period, *delay, paramStore, hubs, timeutil.RealClock{})
	if err != nil {
		log.Fatalf("failed to construct core: %v", err)
	}

	var wg sync.WaitGroup
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := orchestrator.Run(ctx, transport); err != nil && err != context.Canceled {
			log.Printf("core run error: %v", err)
		}
		log.Print("core run terminated")
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		mux := http.NewServeMux()
		debug := tsweb.Debugger(mux)
		hubs.CarState.AttachAdminRoute(mux, debug, "carstate", "last published CarState")
		hubs.ModelV2.AttachAdminRoute(mux, debug, "modelv2", "last published ModelV2")
		hubs.RadarState.AttachAdminRoute(mux, debug, "radarstate", "last published RadarState")
		hubs.LiveTracks.AttachAdminRoute(mux, debug, "livetracks", "last published track dump")

		server := &http.Server{Addr: *listen, Handler: mux}
		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			server.Shutdown(shutdownCtx)
		}()
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("admin HTTP server error: %v", err)
		}
	}()

	wg.Wait()
}

func openTransport(fixturePath, serialPort string, baudRate int, period time.Duration) (radarsim.Transport, error) {
	switch {
	case fixturePath != "":
		log.Printf("replaying radar frames from fixture %s", fixturePath)
		return radarsim.NewFixtureTransport(fixturePath, period, timeutil.RealClock{})
	case serialPort != "":
		log.Printf("reading radar frames from serial port %s", serialPort)
		return radarsim.NewSerialTransport(serialPort, baudRate)
	default:
		return nil, fmt.Errorf("one of -fixture or -port is required")
	}
}
