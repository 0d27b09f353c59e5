// Package schemasvc serves Avro schemas of registered types over HTTP.
package schemasvc

import (
	"log/slog"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/ggicci/httpin"
	gojson "github.com/goccy/go-json"
	"github.com/pkg/errors"
	"github.com/utrack/avrogen/avroschema"
	"github.com/utrack/avrogen/typedesc"
)

// ErrNotFound is returned for names that were never registered.
var ErrNotFound = errors.New("schema not found")

// Service is a collection of named root types whose schemas are compiled
// on request.
type Service struct {
	compiler *avroschema.Compiler
	cfg      HandlerConfig

	mu    sync.RWMutex
	types map[string]typedesc.Descriptor
}

func New(c *avroschema.Compiler, opts ...ServiceOption) *Service {
	cfg := HandlerConfig{logger: slog.Default()}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Service{
		compiler: c,
		cfg:      cfg,
		types:    map[string]typedesc.Descriptor{},
	}
}

// Register adds root types under their type name. Names must be unique.
func (s *Service) Register(ds ...typedesc.Descriptor) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, d := range ds {
		name := d.TypeName()
		if prev, ok := s.types[name]; ok {
			return errors.Errorf("type name '%v' of '%v' is already taken by '%v'", name, d.TypeID(), prev.TypeID())
		}
		s.types[name] = d
	}
	return nil
}

// Names returns the registered type names, sorted.
func (s *Service) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ret := make([]string, 0, len(s.types))
	for n := range s.types {
		ret = append(ret, n)
	}
	sort.Strings(ret)
	return ret
}

// Schema compiles the schema of a registered type.
func (s *Service) Schema(name string) (avroschema.Node, error) {
	s.mu.RLock()
	d, ok := s.types[name]
	s.mu.RUnlock()
	if !ok {
		return nil, errors.Wrapf(ErrNotFound, "type '%v'", name)
	}
	return s.compiler.Compile(d)
}

type schemaRequest struct {
	// Name of the registered type
	Name string `in:"query=name;required"`
	// Pretty-print the schema
	Pretty bool `in:"query=pretty"`
}

// Handler returns the HTTP surface of the service:
//
//	GET /schemas       registered type names
//	GET /schema        compiled schema of one type
//	GET /openapi.json  OpenAPI description of the above
func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()
	for _, rt := range s.routes() {
		h := rt.handler
		if rt.in != nil {
			h = httpin.NewInput(rt.in)(h)
		}
		mux.Handle(rt.method+" "+rt.path, h)
	}

	cfg := s.cfg.Clone()
	var ret http.Handler = mux
	mws := cfg.Middlewares()
	for i := len(mws) - 1; i >= 0; i-- {
		ret = mws[i](ret)
	}
	return s.logRequests(ret)
}

type route struct {
	method      string
	path        string
	description string
	in          any
	out         string
	handler     http.Handler
}

const (
	outNames  = "names"
	outSchema = "schema"
	outDoc    = "doc"
)

func (s *Service) routes() []route {
	return []route{
		{
			method:      http.MethodGet,
			path:        "/schemas",
			description: "Lists registered type names.",
			out:         outNames,
			handler:     http.HandlerFunc(s.listSchemas),
		},
		{
			method:      http.MethodGet,
			path:        "/schema",
			description: "Returns the Avro schema of a registered type.",
			in:          schemaRequest{},
			out:         outSchema,
			handler:     http.HandlerFunc(s.getSchema),
		},
		{
			method:      http.MethodGet,
			path:        "/openapi.json",
			description: "Returns this document.",
			out:         outDoc,
			handler:     http.HandlerFunc(s.getOpenAPI),
		},
	}
}

func (s *Service) listSchemas(w http.ResponseWriter, r *http.Request) {
	buf, err := gojson.Marshal(s.Names())
	if err != nil {
		s.fail(w, r, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, buf)
}

func (s *Service) getSchema(w http.ResponseWriter, r *http.Request) {
	in := r.Context().Value(httpin.Input).(*schemaRequest)

	n, err := s.Schema(in.Name)
	if err != nil {
		status := http.StatusUnprocessableEntity
		if errors.Is(err, ErrNotFound) {
			status = http.StatusNotFound
		}
		s.fail(w, r, status, err)
		return
	}

	var buf []byte
	if in.Pretty {
		buf, err = avroschema.MarshalIndent(n, "", "  ")
	} else {
		buf, err = avroschema.Marshal(n)
	}
	if err != nil {
		s.fail(w, r, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, buf)
}

func (s *Service) getOpenAPI(w http.ResponseWriter, r *http.Request) {
	buf, err := genOpenAPI(s.routes())
	if err != nil {
		s.fail(w, r, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, buf)
}

type errorBody struct {
	Error string `json:"error"`
}

func (s *Service) fail(w http.ResponseWriter, r *http.Request, status int, err error) {
	s.cfg.logger.Warn("request failed",
		"method", r.Method,
		"url", r.URL.String(),
		"status", status,
		"error", err)

	buf, _ := gojson.Marshal(errorBody{Error: err.Error()})
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(buf)
}

func writeJSON(w http.ResponseWriter, buf []byte) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(buf)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Service) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.cfg.logger.Debug("served",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start))
	})
}
