package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"

	"github.com/gorilla/handlers"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"ipusink/config"
	"ipusink/preset"
	"ipusink/serve"
	"ipusink/video/blitter"
	"ipusink/video/sink"
	"ipusink/video/source"
)

var (
	port       = flag.Int("port", 8080, "Port to host the control API and preview.")
	configPath = flag.String("config", "", "Path to the JSON configuration file.")
	verbose    = flag.Bool("v", false, "Enable debug logging.")
)

func main() {
	flag.Parse()
	if *verbose {
		log.SetLevel(log.DebugLevel)
	}

	if *configPath == "" {
		fmt.Println("How to run:\n\tipusink -config [config.json]")
		os.Exit(1)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloads := make(chan *config.Config, 1)
	if err := config.Load(ctx, *configPath, func(c *config.Config) {
		// Keep only the newest pending config.
		select {
		case <-reloads:
		default:
		}
		reloads <- c
	}); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	cfg := config.Get()

	cap, err := source.NewVideoCapture(source.VideoCaptureOptions{
		URI:        cfg.URI,
		FPS:        cfg.FPS,
		Interlaced: cfg.Interlaced,
	})
	if err != nil {
		log.Fatalf("Failed to open capture %v: %v", cfg.URI, err)
	}
	defer cap.Close()

	mjpegServer := sink.NewMJPEGServer()
	var output sink.Sink = sink.NewRateLimit(mjpegServer.NewStream("rendered"), cfg.PreviewFPS)
	if cfg.Window {
		output = sink.Tee{sink.NewWindow("ipusink"), output}
	}

	ipu := sink.NewIPUSink("ipu0", output, blitter.GoCVFactory(blitter.GoCVOptions{
		MaxSize: cfg.MaxFrameSize(),
	}))
	updater := serve.NewPropertyUpdater()
	defer updater.Close()
	ipu.Listeners = append(ipu.Listeners, updater)

	if err := ipu.ApplyProperties(sink.Properties{
		OutputRotation:  cfg.OutputRotation,
		DeinterlaceMode: cfg.DeinterlaceMode,
	}); err != nil {
		log.Fatalf("Invalid sink properties in config: %v", err)
	}
	defer ipu.Close()

	if err := ipu.Start(); err != nil {
		// Keep serving so the sink can be started through the API.
		log.Errorf("Sink did not start: %v", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/mjpeg", mjpegServer)
	mux.Handle("/property", &serve.PropertyServer{Sink: ipu})
	mux.Handle("/propertyws", updater)
	mux.Handle("/state", &serve.StateServer{Sink: ipu})
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/debug/pprof/", http.DefaultServeMux)

	if cfg.PresetDSN != "" {
		store, err := preset.OpenMySQL(cfg.PresetDSN)
		if err != nil {
			log.Fatalf("Failed to open preset store: %v", err)
		}
		defer store.Close()
		mux.Handle("/presets", &serve.PresetServer{Store: store, Sink: ipu})
	}

	go func() {
		log.Infof("Hosting control API on port %d", *port)
		h := handlers.RecoveryHandler(handlers.PrintRecoveryStack(true))(
			handlers.CombinedLoggingHandler(log.StandardLogger().Writer(), mux))
		log.Error(http.ListenAndServe(fmt.Sprintf(":%d", *port), h))
	}()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	frames := cap.Get()
	for {
		select {
		case i, ok := <-frames:
			if !ok {
				log.Info("Capture ended")
				return
			}
			ipu.Put(i)

		case c := <-reloads:
			p := sink.Properties{
				OutputRotation:  c.OutputRotation,
				DeinterlaceMode: c.DeinterlaceMode,
			}
			if p == ipu.Properties() {
				continue
			}
			log.Infof("Applying reloaded sink properties %v/%v", p.OutputRotation, p.DeinterlaceMode)
			if err := ipu.ApplyProperties(p); err != nil {
				log.Errorf("Ignoring reloaded sink properties: %v", err)
			}

		case sig := <-sigs:
			log.Println("Caught signal", sig)
			return
		}
	}
}
