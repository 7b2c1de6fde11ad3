package server

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	defaultListenAddressConstant      = ":10000"
	defaultReadTimeoutConstant        = 10 * time.Second
	defaultWriteTimeoutConstant       = 30 * time.Minute
	defaultShutdownTimeoutConstant    = 5 * time.Second
	healthRoutePatternConstant        = "GET /"
	runRoutePatternConstant           = "GET /run"
	healthBannerConstant              = "screener publisher is running"
	statusOkValueConstant             = "ok"
	statusErrorValueConstant          = "error"
	runTimestampLayoutConstant        = "2006-01-02T15:04:05Z"
	contentTypeHeaderConstant         = "Content-Type"
	jsonContentTypeConstant           = "application/json"
	textContentTypeConstant           = "text/plain; charset=utf-8"
	runnerNotConfiguredMessage        = "run executor not configured"
	runRequestedLogMessageConstant    = "run requested"
	runFailedLogMessageConstant       = "run failed"
	serverStartedLogMessageConstant   = "http trigger listening"
	logFieldListenAddressConstant     = "listen_address"
	logFieldRemoteAddressConstant     = "remote_address"
)

// ErrRunnerNotConfigured reports missing run wiring.
var ErrRunnerNotConfigured = errors.New(runnerNotConfiguredMessage)

// RunExecutor triggers a single export-and-publish run.
type RunExecutor interface {
	Run(executionContext context.Context) error
}

// Clock abstracts time acquisition for deterministic response bodies.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

// Configuration controls the HTTP trigger listener.
type Configuration struct {
	ListenAddress string        `mapstructure:"listen_address"`
	ReadTimeout   time.Duration `mapstructure:"read_timeout"`
	WriteTimeout  time.Duration `mapstructure:"write_timeout"`
}

// Sanitize fills zero values with listener defaults.
func (configuration Configuration) Sanitize() Configuration {
	if len(strings.TrimSpace(configuration.ListenAddress)) == 0 {
		configuration.ListenAddress = defaultListenAddressConstant
	}
	if configuration.ReadTimeout == 0 {
		configuration.ReadTimeout = defaultReadTimeoutConstant
	}
	if configuration.WriteTimeout == 0 {
		configuration.WriteTimeout = defaultWriteTimeoutConstant
	}
	return configuration
}

type runResponse struct {
	Status   string `json:"status"`
	RanAtUTC string `json:"ran_at_utc,omitempty"`
	Message  string `json:"message,omitempty"`
}

// Server hosts the HTTP trigger endpoints.
type Server struct {
	configuration Configuration
	runner        RunExecutor
	clock         Clock
	logger        *zap.Logger
}

// NewServer validates dependencies and constructs a Server.
func NewServer(configuration Configuration, runner RunExecutor, clock Clock, logger *zap.Logger) (*Server, error) {
	if runner == nil {
		return nil, ErrRunnerNotConfigured
	}

	if clock == nil {
		clock = systemClock{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Server{
		configuration: configuration.Sanitize(),
		runner:        runner,
		clock:         clock,
		logger:        logger,
	}, nil
}

// Handler builds the HTTP routing table for the trigger endpoints.
func (server *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(healthRoutePatternConstant, server.handleHealth)
	mux.HandleFunc(runRoutePatternConstant, server.handleRun)
	return mux
}

// ListenAndServe runs the HTTP listener until the provided context is cancelled.
func (server *Server) ListenAndServe(executionContext context.Context) error {
	httpServer := &http.Server{
		Addr:         server.configuration.ListenAddress,
		Handler:      server.Handler(),
		ReadTimeout:  server.configuration.ReadTimeout,
		WriteTimeout: server.configuration.WriteTimeout,
		BaseContext: func(net.Listener) context.Context {
			return executionContext
		},
	}

	shutdownComplete := make(chan struct{})
	go func() {
		defer close(shutdownComplete)
		<-executionContext.Done()
		shutdownContext, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeoutConstant)
		defer cancel()
		_ = httpServer.Shutdown(shutdownContext)
	}()

	server.logger.Info(serverStartedLogMessageConstant, zap.String(logFieldListenAddressConstant, server.configuration.ListenAddress))

	serveError := httpServer.ListenAndServe()
	<-shutdownComplete
	if errors.Is(serveError, http.ErrServerClosed) {
		return nil
	}
	return serveError
}

func (server *Server) handleHealth(responseWriter http.ResponseWriter, _ *http.Request) {
	responseWriter.Header().Set(contentTypeHeaderConstant, textContentTypeConstant)
	responseWriter.WriteHeader(http.StatusOK)
	_, _ = responseWriter.Write([]byte(healthBannerConstant))
}

func (server *Server) handleRun(responseWriter http.ResponseWriter, request *http.Request) {
	server.logger.Info(runRequestedLogMessageConstant, zap.String(logFieldRemoteAddressConstant, request.RemoteAddr))

	if runError := server.runner.Run(request.Context()); runError != nil {
		server.logger.Error(runFailedLogMessageConstant, zap.Error(runError))
		server.writeJSON(responseWriter, http.StatusInternalServerError, runResponse{
			Status:  statusErrorValueConstant,
			Message: runError.Error(),
		})
		return
	}

	server.writeJSON(responseWriter, http.StatusOK, runResponse{
		Status:   statusOkValueConstant,
		RanAtUTC: server.clock.Now().UTC().Format(runTimestampLayoutConstant),
	})
}

func (server *Server) writeJSON(responseWriter http.ResponseWriter, statusCode int, payload runResponse) {
	responseWriter.Header().Set(contentTypeHeaderConstant, jsonContentTypeConstant)
	responseWriter.WriteHeader(statusCode)
	_ = json.NewEncoder(responseWriter).Encode(payload)
}
