package main

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"github.com/echoaio/aio"
)

// server exposes the device over a Huma v2 REST API.
type server struct {
	api        huma.API
	mux        *http.ServeMux
	httpServer *http.Server
	dev        *aio.Device
	metrics    *metrics
	logger     *slog.Logger
}

func newServer(dev *aio.Device, m *metrics, logger *slog.Logger, opts *Options) *server {
	mux := http.NewServeMux()

	config := huma.DefaultConfig("Echo AIO API", "1.0.0")
	config.Info.Description = "Control API for the Echo AIO audio test interface"
	config.Servers = []*huma.Server{}
	config.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"basicAuth": {
			Type:   "http",
			Scheme: "basic",
		},
	}

	s := &server{
		api:     humago.New(mux, config),
		mux:     mux,
		dev:     dev,
		metrics: m,
		logger:  logger,
	}

	if opts.AuthUsername != "" && opts.AuthPassword != "" {
		s.api.UseMiddleware(s.basicAuthMiddleware(opts.AuthUsername, opts.AuthPassword))
	}

	// Metrics are scraped unauthenticated.
	mux.Handle("GET /metrics", m.handler())

	s.registerRoutes()

	return s
}

// basicAuthMiddleware enforces HTTP basic authentication on operations
// that declare a security requirement.
func (s *server) basicAuthMiddleware(username, password string) func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		op := ctx.Operation()
		if op != nil && len(op.Security) == 0 {
			next(ctx)
			return
		}

		const prefix = "Basic "

		authHeader := ctx.Header("Authorization")
		if !strings.HasPrefix(authHeader, prefix) {
			ctx.SetHeader("WWW-Authenticate", `Basic realm="Echo AIO API"`)
			huma.WriteErr(s.api, ctx, http.StatusUnauthorized, "Authentication required")
			return
		}

		decoded, err := base64.StdEncoding.DecodeString(authHeader[len(prefix):])
		if err != nil {
			ctx.SetHeader("WWW-Authenticate", `Basic realm="Echo AIO API"`)
			huma.WriteErr(s.api, ctx, http.StatusUnauthorized, "Invalid credentials format", err)
			return
		}

		parts := strings.SplitN(string(decoded), ":", 2)
		if len(parts) != 2 || parts[0] != username || parts[1] != password {
			ctx.SetHeader("WWW-Authenticate", `Basic realm="Echo AIO API"`)
			huma.WriteErr(s.api, ctx, http.StatusUnauthorized, "Invalid credentials")
			return
		}

		next(ctx)
	}
}

// withAuth returns the security requirement for basic auth.
func withAuth() []map[string][]string {
	return []map[string][]string{
		{"basicAuth": {}},
	}
}

// Start serves HTTP on the given address until the server is stopped.
func (s *server) Start(addr string) error {
	s.logger.Info("starting HTTP server", "addr", addr)

	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: s.mux,
	}

	return s.httpServer.ListenAndServe()
}

// Stop shuts the HTTP server down.
func (s *server) Stop() error {
	if s.httpServer == nil {
		return nil
	}

	return s.httpServer.Close()
}

// apiError maps device errors onto HTTP status errors.
func apiError(err error, message string) error {
	switch {
	case errors.Is(err, aio.AIO_ERROR_INVALID_CHANNEL):
		return huma.Error404NotFound(message, err)
	case errors.Is(err, aio.AIO_ERROR_TEDS_NOT_PRESENT):
		return huma.Error404NotFound(message, err)
	case errors.Is(err, aio.AIO_ERROR_INVALID_VALUE):
		return huma.Error422UnprocessableEntity(message, err)
	case errors.Is(err, aio.AIO_ERROR_NOT_SUPPORTED):
		return huma.Error409Conflict(message, err)
	case errors.Is(err, aio.AIO_ERROR_NOT_CONNECTED):
		return huma.Error503ServiceUnavailable(message, err)
	}

	return huma.Error500InternalServerError(message, err)
}

// StatusData describes the unit and its connection state.
type StatusData struct {
	Product   string `json:"product" doc:"Product name of the attached unit"`
	Serial    string `json:"serial" doc:"Serial number of the attached unit"`
	Firmware  string `json:"firmware" doc:"Firmware version as major.minor"`
	Connected bool   `json:"connected" doc:"Whether the unit is currently connected"`
	Inputs    int    `json:"inputs" doc:"Number of input channels"`
	Outputs   int    `json:"outputs" doc:"Number of output channels"`
}

// StatusResponse wraps StatusData for Huma.
type StatusResponse struct {
	Body StatusData
}

// ChannelInput selects a channel by path parameter.
type ChannelInput struct {
	Channel int `path:"channel" minimum:"0" doc:"Channel index"`
}

// GainData reports a channel gain and its valid range.
type GainData struct {
	Channel int    `json:"channel"`
	Module  string `json:"module,omitempty" doc:"Input module type, empty for outputs"`
	Gain    int    `json:"gain" doc:"Current gain in dB"`
	Min     int    `json:"min" doc:"Minimum supported gain in dB"`
	Max     int    `json:"max" doc:"Maximum supported gain in dB"`
}

// GainResponse wraps GainData for Huma.
type GainResponse struct {
	Body GainData
}

// SetGainInput carries a gain update for a channel.
type SetGainInput struct {
	Channel int `path:"channel" minimum:"0" doc:"Channel index"`
	Body    struct {
		Gain int `json:"gain" doc:"New gain in dB"`
	}
}

// CCPData reports the constant-current state of an input channel.
type CCPData struct {
	Channel int    `json:"channel"`
	Module  string `json:"module"`
	Enabled bool   `json:"enabled" doc:"Whether constant-current power is enabled"`
}

// CCPResponse wraps CCPData for Huma.
type CCPResponse struct {
	Body CCPData
}

// SetCCPInput carries a constant-current update for an input channel.
type SetCCPInput struct {
	Channel int `path:"channel" minimum:"0" doc:"Channel index"`
	Body    struct {
		Enabled bool `json:"enabled" doc:"Whether constant-current power should be enabled"`
	}
}

// TEDSData reports the parsed TEDS block of an input channel.
type TEDSData struct {
	Channel        int    `json:"channel"`
	ManufacturerID uint16 `json:"manufacturer_id"`
	ModelNumber    uint16 `json:"model_number"`
	Version        string `json:"version" doc:"Version as letter.number, e.g. A.2"`
	SerialNumber   uint32 `json:"serial_number"`
}

// TEDSResponse wraps TEDSData for Huma.
type TEDSResponse struct {
	Body TEDSData
}

// registerRoutes sets up all API endpoints.
func (s *server) registerRoutes() {
	// Status is readable without credentials so probes can use it.
	huma.Register(s.api, huma.Operation{
		OperationID: "get-status",
		Method:      http.MethodGet,
		Path:        "/api/status",
		Summary:     "Status",
		Description: "Report the attached unit and its connection state",
		Tags:        []string{"status"},
		Security:    []map[string][]string{},
	}, func(ctx context.Context, _ *struct{}) (*StatusResponse, error) {
		connected, err := s.dev.Connected()
		s.metrics.observe("get-status", err)
		if err != nil {
			return nil, apiError(err, "Failed to query connection state")
		}

		return &StatusResponse{
			Body: StatusData{
				Product:   s.dev.Product().String(),
				Serial:    s.dev.SerialNumber(),
				Firmware:  s.dev.FirmwareVersion(),
				Connected: connected,
				Inputs:    s.dev.NumInputs(),
				Outputs:   s.dev.NumOutputs(),
			},
		}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "get-input-gain",
		Method:      http.MethodGet,
		Path:        "/api/inputs/{channel}/gain",
		Summary:     "Input Gain",
		Description: "Get the gain of an input channel",
		Tags:        []string{"inputs"},
		Security:    withAuth(),
	}, func(ctx context.Context, input *ChannelInput) (*GainResponse, error) {
		resp, err := s.inputGain(input.Channel)
		s.metrics.observe("get-input-gain", err)

		return resp, err
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "set-input-gain",
		Method:      http.MethodPut,
		Path:        "/api/inputs/{channel}/gain",
		Summary:     "Set Input Gain",
		Description: "Set the gain of an input channel",
		Tags:        []string{"inputs"},
		Security:    withAuth(),
	}, func(ctx context.Context, input *SetGainInput) (*GainResponse, error) {
		in, err := s.dev.Input(input.Channel)
		if err == nil {
			err = in.SetGain(input.Body.Gain)
		}

		s.metrics.observe("set-input-gain", err)

		if err != nil {
			return nil, apiError(err, "Failed to set input gain")
		}

		s.logger.Info("input gain changed", "channel", input.Channel, "gain", input.Body.Gain)

		return s.inputGain(input.Channel)
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "get-input-ccp",
		Method:      http.MethodGet,
		Path:        "/api/inputs/{channel}/ccp",
		Summary:     "Constant-Current State",
		Description: "Get the constant-current power state of an input channel",
		Tags:        []string{"inputs"},
		Security:    withAuth(),
	}, func(ctx context.Context, input *ChannelInput) (*CCPResponse, error) {
		resp, err := s.inputCCP(input.Channel)
		s.metrics.observe("get-input-ccp", err)

		return resp, err
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "set-input-ccp",
		Method:      http.MethodPut,
		Path:        "/api/inputs/{channel}/ccp",
		Summary:     "Set Constant-Current State",
		Description: "Enable or disable constant-current power on an input channel",
		Tags:        []string{"inputs"},
		Security:    withAuth(),
	}, func(ctx context.Context, input *SetCCPInput) (*CCPResponse, error) {
		in, err := s.dev.Input(input.Channel)
		if err == nil {
			err = in.SetConstantCurrent(input.Body.Enabled)
		}

		s.metrics.observe("set-input-ccp", err)

		if err != nil {
			return nil, apiError(err, "Failed to set constant-current state")
		}

		s.logger.Info("constant-current state changed", "channel", input.Channel, "enabled", input.Body.Enabled)

		return s.inputCCP(input.Channel)
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "get-input-teds",
		Method:      http.MethodGet,
		Path:        "/api/inputs/{channel}/teds",
		Summary:     "Input TEDS",
		Description: "Read and parse the TEDS block of the transducer on an input channel",
		Tags:        []string{"inputs"},
		Security:    withAuth(),
	}, func(ctx context.Context, input *ChannelInput) (*TEDSResponse, error) {
		in, err := s.dev.Input(input.Channel)
		if err != nil {
			s.metrics.observe("get-input-teds", err)

			return nil, apiError(err, "No such input channel")
		}

		teds, err := in.TEDS()
		s.metrics.observe("get-input-teds", err)
		if err != nil {
			return nil, apiError(err, "Failed to read TEDS")
		}

		return &TEDSResponse{
			Body: TEDSData{
				Channel:        input.Channel,
				ManufacturerID: teds.ManufacturerID,
				ModelNumber:    teds.ModelNumber,
				Version:        fmt.Sprintf("%c.%d", teds.VersionLetter, teds.VersionNumber),
				SerialNumber:   teds.SerialNumber,
			},
		}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "get-output-gain",
		Method:      http.MethodGet,
		Path:        "/api/outputs/{channel}/gain",
		Summary:     "Output Gain",
		Description: "Get the gain of an output channel",
		Tags:        []string{"outputs"},
		Security:    withAuth(),
	}, func(ctx context.Context, input *ChannelInput) (*GainResponse, error) {
		resp, err := s.outputGain(input.Channel)
		s.metrics.observe("get-output-gain", err)

		return resp, err
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "set-output-gain",
		Method:      http.MethodPut,
		Path:        "/api/outputs/{channel}/gain",
		Summary:     "Set Output Gain",
		Description: "Set the gain of an output channel",
		Tags:        []string{"outputs"},
		Security:    withAuth(),
	}, func(ctx context.Context, input *SetGainInput) (*GainResponse, error) {
		out, err := s.dev.Output(input.Channel)
		if err == nil {
			err = out.SetGain(input.Body.Gain)
		}

		s.metrics.observe("set-output-gain", err)

		if err != nil {
			return nil, apiError(err, "Failed to set output gain")
		}

		s.logger.Info("output gain changed", "channel", input.Channel, "gain", input.Body.Gain)

		return s.outputGain(input.Channel)
	})
}

func (s *server) inputGain(channel int) (*GainResponse, error) {
	in, err := s.dev.Input(channel)
	if err != nil {
		return nil, apiError(err, "No such input channel")
	}

	gain, err := in.Gain()
	if err != nil {
		return nil, apiError(err, "Failed to read input gain")
	}

	min, max := in.GainRange()

	return &GainResponse{
		Body: GainData{
			Channel: channel,
			Module:  in.Module().String(),
			Gain:    gain,
			Min:     min,
			Max:     max,
		},
	}, nil
}

func (s *server) inputCCP(channel int) (*CCPResponse, error) {
	in, err := s.dev.Input(channel)
	if err != nil {
		return nil, apiError(err, "No such input channel")
	}

	enabled, err := in.ConstantCurrent()
	if err != nil {
		return nil, apiError(err, "Failed to read constant-current state")
	}

	return &CCPResponse{
		Body: CCPData{
			Channel: channel,
			Module:  in.Module().String(),
			Enabled: enabled,
		},
	}, nil
}

func (s *server) outputGain(channel int) (*GainResponse, error) {
	out, err := s.dev.Output(channel)
	if err != nil {
		return nil, apiError(err, "No such output channel")
	}

	gain, err := out.Gain()
	if err != nil {
		return nil, apiError(err, "Failed to read output gain")
	}

	min, max := out.GainRange()

	return &GainResponse{
		Body: GainData{
			Channel: channel,
			Gain:    gain,
			Min:     min,
			Max:     max,
		},
	}, nil
}
