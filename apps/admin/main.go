package main

import (
	"fmt"
	"log"
	"os"

	"github.com/trezcool/shusseki/core"
	logsvc "github.com/trezcool/shusseki/services/logger"
)

func main() {
	conf := core.NewConfig()
	conf.Log.Name = "admin"

	zl, err := logsvc.NewZap(conf.Log)
	if err != nil {
		log.Fatalf("setting up logger: %v", err)
	}
	logger := logsvc.NewZapLogger(zl)

	// start CLI
	cli := commandLine{
		stdin:  os.Stdin,
		stdout: os.Stdout,
		fd:     int(os.Stdin.Fd()),
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Error(fmt.Sprintf("%s failed", cli.command), err)
		}
		_ = logger.Sync()
		os.Exit(1)
	}
	_ = logger.Sync()
}
