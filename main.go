/*
Package main
File: main.go
Description: Server entry point. Loads the upgrade catalog, restores the
saved session (with offline catch-up), starts the real-time hub and the
idle scheduler, and tears everything down with a final flush on exit.
*/

package main

import (
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/duskworks/nightfall-idle/internal/api"
	"github.com/duskworks/nightfall-idle/internal/clock"
	"github.com/duskworks/nightfall-idle/internal/game"
	"github.com/duskworks/nightfall-idle/internal/save"
)

const (
	catalogPath = "catalog.yaml"
	storePath   = "nightfall_store.json"
	port        = ":8081"
)

func main() {
	// 1. Load the static upgrade catalog from YAML
	catalog, err := game.LoadCatalog(catalogPath)
	if err != nil {
		log.Fatalf("Catalog Fail: %v", err)
	}

	// 2. Restore the saved session, if a valid save exists
	codec := save.NewCodec(save.NewStore(storePath), os.Getenv("GAME_SECRET"))
	clk := clock.RealClock{}

	var session *game.Session
	if saved, ok := codec.Load(); ok {
		session = game.NewSession(catalog, &saved, clk)
		log.Printf("SAVE: restored session (level %d, %d clicks)", saved.Level, saved.ClickCount)
	} else {
		session = game.NewSession(catalog, nil, clk)
		log.Println("SAVE: no usable save, starting fresh")
	}

	// 3. Initialize and start the real-time WebSocket hub
	hub := api.NewHub()
	go hub.Run()

	// 4. THE IDLE HEARTBEAT
	// 100ms passive accrual + 1s persistence flush, plus the one-shot
	// offline catch-up for the time the server was down.
	scheduler := game.NewScheduler(session, codec, clk)
	scheduler.OnSync = func(snap game.Snapshot) {
		hub.BroadcastJSON("state_sync", snap)
	}
	if ref := session.LastSaveMillis(); ref > 0 {
		scheduler.ReconcileOnLoad(ref)
	}
	scheduler.Start()

	// 5. Hot-reload logic: listen for SIGHUP to refresh the catalog
	// without restarting or touching player progress.
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGHUP)
		for range sigChan {
			log.Println("SIGNAL: Reloading catalog...")
			cat, err := game.LoadCatalog(catalogPath)
			if err != nil {
				log.Printf("Catalog reload failed, keeping current: %v", err)
				continue
			}
			session.ReplaceCatalog(cat)
			hub.BroadcastJSON("catalog_reload", cat)
		}
	}()

	// 6. Setup router and handlers
	server := &api.Server{Session: session, Scheduler: scheduler, Hub: hub}
	srv := &http.Server{Addr: port, Handler: api.CORSMiddleware(server.Routes())}

	go func() {
		log.Printf("NIGHTFALL Server live on %s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}()

	// 7. Graceful teardown: cancel the timers and flush the final state
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Println("SIGNAL: Shutting down...")
	scheduler.Stop()
	srv.Close()
}
