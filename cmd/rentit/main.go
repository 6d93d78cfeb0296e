package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dacaug2504/rentit/config"
	"github.com/dacaug2504/rentit/internal/adminapi"
	"github.com/dacaug2504/rentit/internal/app"
	"github.com/dacaug2504/rentit/internal/billingapi"
	"github.com/dacaug2504/rentit/internal/catalogapi"
	"github.com/dacaug2504/rentit/internal/orderapi"
	"github.com/dacaug2504/rentit/internal/ownerapi"
	"github.com/dacaug2504/rentit/internal/portalapi"
	"github.com/dacaug2504/rentit/internal/webserver"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	h        = flag.Bool("h", false, "help usage")
	showVer  = flag.Bool("v", false, "show version")
	conffile = flag.String("c", "", "config file")
	initdb   = flag.Bool("initdb", false, "initialize database tables and seed data, then exit")
)

var version = "dev"

func printHelp() {
	if *h {
		fmt.Fprintf(os.Stderr, "rentit version: %s\nUsage: rentit -c rentit.yml\n", version)
		flag.PrintDefaults()
		os.Exit(0)
	}
}

func main() {
	flag.Parse()
	printHelp()
	if *showVer {
		fmt.Println(version)
		os.Exit(0)
	}

	cfg := config.LoadConfig(*conffile)
	app.InitGlobalApplication(cfg)
	defer app.GApp().Release()

	if *initdb {
		app.GApp().InitDb()
		zap.S().Info("database initialized")
		return
	}

	webserver.Init(app.GApp())
	adminapi.InitRouter()
	billingapi.InitRouter()
	catalogapi.InitRouter()
	orderapi.InitRouter()
	ownerapi.InitRouter()
	portalapi.InitRouter()

	g, ctx := errgroup.WithContext(context.Background())

	g.Go(func() error {
		return webserver.Listen()
	})

	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		select {
		case sig := <-quit:
			zap.S().Infof("received signal %s, shutting down", sig)
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return webserver.Shutdown(shutdownCtx)
		case <-ctx.Done():
			return ctx.Err()
		}
	})

	if err := g.Wait(); err != nil {
		zap.S().Errorf("server stopped: %s", err)
	}
}
