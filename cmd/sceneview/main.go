// Command sceneview renders a demo scene through the scene graph, the
// projector and the render lists. With -headless it prints the draw order
// of one frame instead of opening a window.
package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"

	"github.com/gekko3d/scenegraph"
	"github.com/gekko3d/scenegraph/config"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	configPath := flag.String("config", "", "YAML configuration file")
	headless := flag.Bool("headless", false, "Print the draw order of one frame and exit")
	dump := flag.String("dump", "", "With -headless, write a draw order overlay PNG to this path")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if *debug {
		cfg.Log.Debug = true
	}
	cfg.Apply()

	logger := cfg.Logger()
	scenegraph.SetLogger(logger.Named("scene"))

	if *headless {
		err = runHeadless(cfg, logger, os.Stdout, *dump)
	} else {
		err = runWindowed(cfg, logger)
	}
	if err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}
}
