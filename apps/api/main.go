package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof"

	"github.com/go-playground/validator/v10"

	echoapi "github.com/trezcool/shusseki/apps/api/echo"
	"github.com/trezcool/shusseki/core"
	"github.com/trezcool/shusseki/core/attendance"
	logsvc "github.com/trezcool/shusseki/services/logger"
	"github.com/trezcool/shusseki/services/scheduler"
	inmemdb "github.com/trezcool/shusseki/storage/database/inmem"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()
	conf.Log.Name = "api"

	// set up loggers
	zl, err := logsvc.NewZap(conf.Log)
	if err != nil {
		log.Fatalf("setting up logger: %v", err)
	}
	stdLogger := logsvc.NewZapLogger(zl)
	defer func() { _ = stdLogger.Sync() }()

	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug && conf.RollbarToken != "")

	// set up DB
	db, err := inmemdb.Open()
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}

	// set up services
	boardSvc := attendance.NewService(inmemdb.NewClassRepository(db), logger, conf.Board.GridColumns)

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	validate := validator.New()
	translator := core.NewTranslator(conf.Locale)
	core.InitValidators(validate, translator)
	attendance.InitValidators(validate, translator)

	if conf.Board.Seed {
		if _, err = boardSvc.SeedIfEmpty(); err != nil {
			logger.Fatal(fmt.Sprintf("seeding classes: %v", err), err)
		}
	}

	if conf.Board.RolloverSchedule != "" {
		cr, err := scheduler.StartRollover(conf.Board.RolloverSchedule, boardSvc, logger)
		if err != nil {
			logger.Fatal(fmt.Sprintf("starting rollover: %v", err), err)
		}
		defer cr.Stop()
	}

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.

	if conf.Server.DebugHost != "" {
		expvar.NewString("build").Set(conf.Build)
		expvar.NewString("env").Set(conf.Env)

		go func() {
			if err := http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
				logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
			}
		}()
	}

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(
		echoapi.ServerDeps{
			Conf:       conf,
			Logger:     logger,
			BoardSvc:   boardSvc,
			Validate:   validate,
			Translator: translator,
		},
	)

	go func() {
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err = server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}
