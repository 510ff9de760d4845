// Copyright (c) 2025 The Sled developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/sledhq/sled/log"
)

func initLogger(ctx *cli.Context) {
	level := log.FromVerbosity(ctx.Int(verbosityFlag.Name))
	useColor := isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
	log.SetDefault(log.NewTerminalHandler(os.Stderr, level, useColor))
}

func startAPIServer(ctx *cli.Context, handler http.HandlerFunc) (*http.Server, string, error) {
	addr := ctx.String(apiAddrFlag.Name)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, "", errors.WithMessage(err, "listen API addr ["+addr+"]")
	}
	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: time.Second * 10,
	}
	go func() {
		if err := srv.Serve(listener); err != http.ErrServerClosed {
			log.Error("API server stopped", "error", err)
		}
	}()
	return srv, "http://" + listener.Addr().String() + "/", nil
}

func shutdownAPIServer(srv *http.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Warn("API server shutdown", "error", err)
	}
}

func handleExitSignal() context.Context {
	exitSignalCh := make(chan os.Signal, 1)
	signal.Notify(exitSignalCh, os.Interrupt, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		sig := <-exitSignalCh
		log.Info("exit signal received", "signal", sig)
		cancel()
	}()
	return ctx
}
