package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/davidjspooner/asn1map/internal/render"
	"github.com/davidjspooner/asn1map/pkg/asn1/asn1binary"
	"github.com/davidjspooner/asn1map/pkg/asn1/asn1error"
	"github.com/davidjspooner/asn1map/pkg/asn1/asn1map"
	"github.com/davidjspooner/asn1map/pkg/logevent"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MaxRequestBody bounds the octets read from a request.
const MaxRequestBody = 1 << 20

var requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "asn1map_http_requests_total",
	Help: "Total number of requests",
}, []string{"code", "method"})

var apiHistogram = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name: "asn1map_api_duration_seconds",
	Help: "Duration of API requests",
}, []string{"operation", "code"})

var apiResponseBytes = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "asn1map_api_response_bytes",
	Help: "Total number of bytes sent in response to API requests",
}, []string{"operation", "code"})

var decodeOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "asn1map_decode_total",
	Help: "Decoded documents by outcome",
}, []string{"rules", "outcome"})

var mapOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "asn1map_map_total",
	Help: "Mapped documents by schema and outcome",
}, []string{"schema", "outcome"})

type Server struct {
	decoder *asn1binary.Decoder
	mappers map[string]*asn1map.Mapper
	logger  *slog.Logger
}

func NewServer(config *Config, logger *slog.Logger) (*Server, error) {
	decoder, err := config.Decoder()
	if err != nil {
		return nil, err
	}
	schemas, err := config.LoadSchemas()
	if err != nil {
		return nil, err
	}
	s := &Server{
		decoder: decoder,
		mappers: make(map[string]*asn1map.Mapper, len(schemas)),
		logger:  logger,
	}
	for name, schema := range schemas {
		mapper, err := asn1map.New(schema, asn1map.WithLogger(logger.WithGroup("map").With("schema", name)))
		if err != nil {
			return nil, fmt.Errorf("schema %s: %w", name, err)
		}
		s.mappers[name] = mapper
	}
	return s, nil
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Heartbeat("/health"))
	r.Use(middleware.RequestID)
	r.Use(s.withLogger)
	r.Use(middleware.Recoverer)
	r.Use(func(h http.Handler) http.Handler {
		return promhttp.InstrumentHandlerCounter(requestsTotal, h)
	})

	r.Get("/metrics", promhttp.Handler().ServeHTTP)
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/decode", s.Decode)
		r.Get("/schemas", s.Schemas)
		r.Post("/map/{schema}", s.Map)
	})
	r.Get("/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad request", http.StatusBadRequest)
	}))
	return r
}

func (s *Server) withLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := s.logger.With("request_id", middleware.GetReqID(r.Context()))
		next.ServeHTTP(w, r.WithContext(logevent.WithLogger(r.Context(), logger)))
	})
}

type errorResponse struct {
	Error  string `json:"error"`
	Kind   string `json:"kind,omitempty"`
	Offset *int   `json:"offset,omitempty"`
}

type decodeResponse struct {
	Rules  string             `json:"rules"`
	Octets int                `json:"octets"`
	Nodes  []*render.NodeJSON `json:"nodes"`
}

type mapResponse struct {
	Schema string `json:"schema"`
	Match  bool   `json:"match"`
	Result any    `json:"result,omitempty"`
}

// observe records the metrics of one API call when the handler returns.
func observe(operation string, stats *RequestStats) {
	code := strconv.Itoa(stats.statusCode)
	apiHistogram.WithLabelValues(operation, code).Observe(time.Since(stats.started).Seconds())
	apiResponseBytes.WithLabelValues(operation, code).Add(float64(stats.bytesWritten))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	e := json.NewEncoder(w)
	e.SetEscapeHTML(false)
	e.Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	resp := errorResponse{Error: err.Error()}
	if kind := asn1error.KindOf(err); kind != nil {
		resp.Kind = kind.Error()
	}
	var withOffset interface{ Offset() int }
	if errors.As(err, &withOffset) && withOffset.Offset() >= 0 {
		offset := withOffset.Offset()
		resp.Offset = &offset
	}
	writeJSON(w, status, resp)
}

// readBody returns the request body, hex decoded when ?format=hex.
func readBody(r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, MaxRequestBody+1))
	if err != nil {
		return nil, err
	}
	if len(body) > MaxRequestBody {
		return nil, fmt.Errorf("request body exceeds %d octets", MaxRequestBody)
	}
	switch r.URL.Query().Get("format") {
	case "", "binary":
		return body, nil
	case "hex":
		return parseHex(string(body))
	default:
		return nil, fmt.Errorf("unknown format %q", r.URL.Query().Get("format"))
	}
}

// Decode decodes every TLV in the request body.
func (s *Server) Decode(w http.ResponseWriter, r *http.Request) {
	stats := NewRequestStats(w)
	defer observe("decode", stats)
	logger := logevent.LoggerFromContext(r.Context())
	rules := s.decoder.Rules.String()

	data, err := readBody(r)
	if err != nil {
		writeError(stats, http.StatusBadRequest, err)
		return
	}
	resp := decodeResponse{Rules: rules, Octets: len(data), Nodes: []*render.NodeJSON{}}
	// an empty body is a truncated TLV, so the first pass always decodes
	for offset := 0; offset == 0 || offset < len(data); {
		node, n, err := s.decoder.Decode(data, offset)
		if err != nil {
			decodeOutcomes.WithLabelValues(rules, "error").Inc()
			logger.Info("decode failed", "event", "decode_error", "error", err)
			writeError(stats, http.StatusUnprocessableEntity, err)
			return
		}
		resp.Nodes = append(resp.Nodes, render.Node(node))
		offset += n
	}
	decodeOutcomes.WithLabelValues(rules, "ok").Inc()
	writeJSON(stats, http.StatusOK, resp)
}

// Map decodes the first TLV of the body and matches it against a configured
// schema. A well formed document that does not match is reported with
// match=false, not as an error.
func (s *Server) Map(w http.ResponseWriter, r *http.Request) {
	stats := NewRequestStats(w)
	defer observe("map", stats)
	logger := logevent.LoggerFromContext(r.Context())

	name := chi.URLParam(r, "schema")
	mapper, ok := s.mappers[name]
	if !ok {
		writeError(stats, http.StatusNotFound, fmt.Errorf("unknown schema %q", name))
		return
	}
	data, err := readBody(r)
	if err != nil {
		writeError(stats, http.StatusBadRequest, err)
		return
	}
	node, _, err := s.decoder.Decode(data, 0)
	if err != nil {
		mapOutcomes.WithLabelValues(name, "error").Inc()
		logger.Info("decode failed", "event", "decode_error", "schema", name, "error", err)
		writeError(stats, http.StatusUnprocessableEntity, err)
		return
	}
	result, ok := mapper.Map(node)
	if !ok {
		mapOutcomes.WithLabelValues(name, "no_match").Inc()
		writeJSON(stats, http.StatusOK, mapResponse{Schema: name})
		return
	}
	mapOutcomes.WithLabelValues(name, "match").Inc()
	writeJSON(stats, http.StatusOK, mapResponse{Schema: name, Match: true, Result: render.Result(result)})
}

// Schemas lists the configured schemas.
func (s *Server) Schemas(w http.ResponseWriter, r *http.Request) {
	stats := NewRequestStats(w)
	defer observe("schemas", stats)
	out := make([]map[string]string, 0, len(s.mappers))
	names := make([]string, 0, len(s.mappers))
	for name := range s.mappers {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		out = append(out, map[string]string{"name": name, "schema": s.mappers[name].Schema().String()})
	}
	writeJSON(stats, http.StatusOK, out)
}
