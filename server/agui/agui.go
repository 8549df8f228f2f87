//
// Tencent is pleased to support the open source community by making trpc-agui-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agui-go is licensed under the Apache License Version 2.0.
//
//

// Package agui serves AG-UI agents over HTTP.
package agui

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"trpc.group/trpc-go/trpc-agui-go/log"
	"trpc.group/trpc-go/trpc-agui-go/server/agui/adapter"
	"trpc.group/trpc-go/trpc-agui-go/server/agui/runner"
	"trpc.group/trpc-go/trpc-agui-go/server/agui/service"
)

// Server provides AG-UI server.
type Server struct {
	agent      adapter.Agent
	runner     runner.Runner
	path       string
	healthPath string
	handler    http.Handler
}

// New creates a AG-UI server instance.
func New(agent adapter.Agent, opt ...Option) (*Server, error) {
	if agent == nil {
		return nil, errors.New("agui: agent must not be nil")
	}
	opts := newOptions(opt...)
	if opts.serviceFactory == nil {
		return nil, errors.New("agui: serviceFactory must not be nil")
	}
	aguiRunner, err := runner.New(agent, opts.runnerOptions...)
	if err != nil {
		return nil, err
	}
	aguiService := opts.serviceFactory(aguiRunner,
		service.WithPath(opts.path),
		service.WithProtobuf(opts.protobuf),
	)
	s := &Server{
		agent:      agent,
		runner:     aguiRunner,
		path:       opts.path,
		healthPath: opts.healthPath,
	}
	router := mux.NewRouter()
	if s.healthPath != "" {
		router.HandleFunc(s.healthPath, s.handleHealth).Methods(http.MethodGet)
	}
	router.PathPrefix("/").Handler(aguiService.Handler())
	c := cors.New(cors.Options{
		AllowedOrigins:   opts.allowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"Content-Type", adapter.HeaderRequestID},
	})
	s.handler = c.Handler(router)
	return s, nil
}

// Handler returns the http.Handler serving AG-UI requests.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Path returns the route path for HTTP.
func (s *Server) Path() string {
	return s.path
}

// HealthPath returns the route path of the health endpoint.
func (s *Server) HealthPath() string {
	return s.healthPath
}

// Init runs the agent's Init hook, if it has one.
func (s *Server) Init(ctx context.Context) error {
	if i, ok := s.agent.(adapter.Initializer); ok {
		return i.Init(ctx)
	}
	return nil
}

// Shutdown runs the agent's Shutdown hook, if it has one, and releases
// the run pool.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	if sd, ok := s.agent.(adapter.Shutdowner); ok {
		err = sd.Shutdown(ctx)
	}
	return errors.Join(err, s.runner.Close())
}

// Health reports the agent's health. Agents without a HealthChecker are
// always healthy.
func (s *Server) Health(ctx context.Context) adapter.Health {
	h := adapter.Health{Status: adapter.HealthHealthy}
	if hc, ok := s.agent.(adapter.HealthChecker); ok {
		h = hc.Health(ctx)
	}
	if h.Agent == "" {
		h.Agent = s.agent.Name()
	}
	return h
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	h := s.Health(r.Context())
	status := http.StatusOK
	if h.Status == adapter.HealthUnhealthy {
		status = http.StatusServiceUnavailable
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(h); err != nil {
		log.Debugf("agui: write health: %v", err)
	}
}
