/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	metricSessionsStarted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gameday_sessions_started_total",
		Help: "Number of game sessions created, including restarts.",
	})

	metricRoundsCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gameday_rounds_completed_total",
		Help: "Number of rounds that reached the result card.",
	})

	metricOutcomesServed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gameday_outcomes_served_total",
		Help: "Number of outcomes served by the API, by severity.",
	}, []string{"severity"})
)

func registerMetricsHandler(cfg *Config, mux *httprouter.Router) {
	mux.Handler("GET", cfg.prefix+"/metrics", promhttp.Handler())
}
