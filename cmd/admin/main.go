// Package main provides the back-office CLI for the catalog API.
// Usage: admin <catalog> <command> [args]
//
//	admin rubros list todos
//	admin rubros create codigo=001 nombre=Bebidas
//	admin condiciones-iva retire <id>
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"backoffice/internal/app"
	"backoffice/internal/config"
	appctx "backoffice/internal/core/context"
	"backoffice/internal/infrastructure/apiclient"
	"backoffice/internal/infrastructure/notify"
	"backoffice/pkg/logger"
)

func main() {
	if len(os.Args) < 2 || isHelp(os.Args[1]) {
		printUsage()
		return
	}

	cfg, err := config.LoadClient()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.LogLevel,
		Development: cfg.AppEnv == "development",
		Encoding:    logger.EncodingConsole,
		OutputPaths: []string{"stderr"},
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	client, err := apiclient.New(apiclient.Config{
		BaseURL: cfg.APIBaseURL,
		Timeout: cfg.APITimeout,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	// one request id for every API call of this command
	ctx = appctx.WithTrace(ctx, appctx.NewTraceContext("", ""))
	ctx = logger.WithLogger(ctx, log)

	env := &cliEnv{
		transport: client,
		notify:    notify.NewSink(log, os.Stdout),
		registry:  app.NewMetadataRegistry(),
		out:       os.Stdout,
		in:        bufio.NewReader(os.Stdin),
	}

	if err := env.dispatch(ctx, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func isHelp(arg string) bool {
	return arg == "help" || arg == "--help" || arg == "-h"
}

func printUsage() {
	fmt.Println(`Catalog back-office CLI

Usage:
  admin catalogs
  admin <catalog> <command> [args]

Catalogs:
  rubros, subrubros, unidades-medida, condiciones-iva, productos

Commands:
  list [activos|inactivos|todos]   List records (default: todos)
  get <id>                         Show one record
  create campo=valor...            Create a record
  update <id> campo=valor...       Change the editable fields of a record
  retire <id>                      Soft-delete a record
  reactivate <id>                  Reactivate a retired record
  clone <id> <codigo>              Create a copy of a record under a new code
  next-code                        Next free numeric code (rubros, subrubros)
  history <id> [limite]            Audit journal of a record
  fields                           Describe the fields of the catalog

Values are parsed as JSON when possible (e.g. es_kit=true,
stock_depositos='[{"deposito_id":"D1","stock_real":"3"}]'); text fields are
always taken literally.

Environment Variables:
  API_BASE_URL   Catalog API address (default http://127.0.0.1:8000)
  API_TIMEOUT    Per-request timeout (default 15s)
  LOG_LEVEL      debug, info, warn, error (default warn)`)
}
