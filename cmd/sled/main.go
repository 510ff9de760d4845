// Copyright (c) 2025 The Sled developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"os"

	cli "gopkg.in/urfave/cli.v1"

	"github.com/sledhq/sled/api"
	"github.com/sledhq/sled/ledger"
	"github.com/sledhq/sled/ledger/auth"
	"github.com/sledhq/sled/log"
	"github.com/sledhq/sled/metrics"
	"github.com/sledhq/sled/sled"
	"github.com/sledhq/sled/state"
)

var (
	version   string
	gitCommit string
	gitTag    string
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func main() {
	app := cli.App{
		Version:   fullVersion(),
		Name:      "Sled",
		Usage:     "Position-bound staking ledger service",
		Copyright: "2025 The Sled developers",
		Flags: []cli.Flag{
			apiAddrFlag,
			apiCorsFlag,
			verbosityFlag,
			configFlag,
			enableMetricsFlag,
		},
		Action: defaultAction,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func defaultAction(ctx *cli.Context) error {
	defer log.Info("exited")

	initLogger(ctx)

	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
	}

	config, err := loadConfig(ctx.String(configFlag.Name))
	if err != nil {
		return err
	}
	admin, err := config.adminAddress()
	if err != nil {
		return err
	}
	operators, err := config.operatorAddresses()
	if err != nil {
		return err
	}

	roles := auth.NewRoles(admin)
	for _, operator := range operators {
		if err := roles.GrantOperator(admin, operator); err != nil {
			return err
		}
	}

	l := ledger.New(sled.BytesToAddress([]byte("sled-ledger")), state.New(), roles)
	defer l.Close()

	for _, t := range config.StakeTypes {
		if err := l.AddStakeType(admin, t.Name, t.LockDays); err != nil {
			return err
		}
	}
	if config.BaseURI != "" {
		if err := l.SetBaseURI(admin, config.BaseURI); err != nil {
			return err
		}
	}

	handler, closeAPI := api.New(l, api.Options{
		AllowedOrigins: ctx.String(apiCorsFlag.Name),
		EnableMetrics:  ctx.Bool(enableMetricsFlag.Name),
	})
	defer closeAPI()

	srv, apiURL, err := startAPIServer(ctx, handler)
	if err != nil {
		return err
	}
	defer shutdownAPIServer(srv)

	log.Info("ledger service started",
		"api", apiURL,
		"admin", admin,
		"operators", len(operators),
		"stakeTypes", len(config.StakeTypes),
	)

	<-handleExitSignal().Done()
	return nil
}
