package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/menulink/menulink/config"
	"github.com/menulink/menulink/internal/apiserver"
	"github.com/menulink/menulink/internal/app"
	"github.com/menulink/menulink/internal/webserver"
)

var (
	h        = flag.Bool("h", false, "help usage")
	showVer  = flag.Bool("v", false, "show version")
	conffile = flag.String("c", "menulink.yml", "config file")
	initdb   = flag.Bool("initdb", false, "drop and recreate all tables")
)

var version = "dev"

func main() {
	flag.Parse()
	if *h {
		flag.Usage()
		os.Exit(0)
	}
	if *showVer {
		fmt.Println(version)
		os.Exit(0)
	}

	cfg := config.LoadConfig(*conffile)
	application := app.NewApplication(cfg)
	application.Init()
	defer application.Release()

	if *initdb {
		application.InitDb()
		zap.S().Info("database initialized")
		return
	}

	ws := webserver.Init(application)
	apiserver.Init()

	if err := ws.Start(); err != nil {
		zap.S().Fatal(err)
	}
}
