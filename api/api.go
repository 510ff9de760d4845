// Copyright (c) 2025 The Sled developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package api exposes the read surface of the ledger over http.
package api

import (
	"net/http"
	"strings"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/sledhq/sled/api/stakes"
	"github.com/sledhq/sled/api/staketypes"
	"github.com/sledhq/sled/api/subscriptions"
	"github.com/sledhq/sled/ledger"
	"github.com/sledhq/sled/metrics"
)

type Options struct {
	AllowedOrigins string
	EnableMetrics  bool
}

// New returns the api handler plus a close function that terminates active
// websocket subscriptions.
func New(l *ledger.Ledger, opts Options) (http.HandlerFunc, func()) {
	origins := strings.Split(strings.TrimSpace(opts.AllowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}

	router := mux.NewRouter()

	stakesAPI := stakes.New(l)
	stakesAPI.Mount(router, "/stakes")
	stakesAPI.MountAccounts(router, "/accounts")
	staketypes.New(l).Mount(router, "/staketypes")
	subs := subscriptions.New(l, origins)
	subs.Mount(router, "/subscriptions")

	if opts.EnableMetrics {
		router.Use(metricsMiddleware)
		router.Path("/metrics").Handler(metrics.HTTPHandler())
	}

	handler := handlers.CompressHandler(router)
	handler = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedHeaders([]string{"content-type"}),
	)(handler)

	return handler.ServeHTTP, subs.Close
}
