package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/usestring/jsontypegen/internal/cache"
	"github.com/usestring/jsontypegen/pkg/decl"
	"github.com/usestring/jsontypegen/pkg/render"
	"github.com/usestring/jsontypegen/pkg/sample"
	"github.com/usestring/jsontypegen/pkg/stats"
	"github.com/usestring/jsontypegen/pkg/typegen"
	"github.com/usestring/jsontypegen/pkg/validate"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

type generateResponse struct {
	*typegen.Result
	Cached bool `json:"cached"`
}

type statsResponse struct {
	Name        string            `json:"name"`
	SampleCount int               `json:"sample_count"`
	Fields      []stats.FieldStat `json:"fields"`
}

type checkResponse struct {
	Name  string `json:"name"`
	Valid bool   `json:"valid"`
	*validate.Report
}

type targetInfo struct {
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Defaults    render.Rules `json:"defaults"`
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	res, cached, ok := s.generate(w, r)
	if !ok {
		return
	}
	if r.URL.Query().Get("format") == "code" {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, res.Code)
		return
	}
	writeJSON(w, http.StatusOK, generateResponse{Result: res, Cached: cached})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	res, _, ok := s.generate(w, r)
	if !ok {
		return
	}
	var opts []stats.Option
	if v := r.URL.Query().Get("max_depth"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_INPUT", "max_depth must be an integer")
			return
		}
		opts = append(opts, stats.WithMaxDepth(n))
	}
	writeJSON(w, http.StatusOK, statsResponse{
		Name:        res.Name,
		SampleCount: res.StatsSamples(),
		Fields:      res.Stats(opts...),
	})
}

func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	res, _, ok := s.generate(w, r)
	if !ok {
		return
	}
	report, err := res.Check()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "INTERNAL", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, checkResponse{Name: res.Name, Valid: report.Valid(), Report: report})
}

func (s *Server) handleTargets(w http.ResponseWriter, _ *http.Request) {
	var out []targetInfo
	for _, t := range render.Targets() {
		rules, err := t.Rules(render.Decimal)
		if err != nil {
			continue
		}
		out = append(out, targetInfo{Name: t.Name(), Description: t.Description(), Defaults: rules})
	}
	writeJSON(w, http.StatusOK, out)
}

// generate reads the body, resolves options and runs a cached
// generation. It writes the error response itself and reports ok=false
// on failure.
func (s *Server) generate(w http.ResponseWriter, r *http.Request) (*typegen.Result, bool, bool) {
	q := r.URL.Query()
	name := q.Get("name")
	if name == "" {
		name = "Root"
	}
	opts, err := optionsFromQuery(s.cfg.Defaults, q)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_INPUT", err.Error())
		return nil, false, false
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "INVALID_INPUT",
				fmt.Sprintf("body exceeds %d bytes", tooLarge.Limit))
			return nil, false, false
		}
		writeError(w, http.StatusBadRequest, "INVALID_INPUT", err.Error())
		return nil, false, false
	}

	target := opts.Target
	if target == "" {
		target = render.DefaultTarget
	}
	res, cached, err := s.cache.Generate(cache.Request{
		Name:    name,
		Options: opts,
		Inputs: []sample.Input{{
			Name:        q.Get("filename"),
			ContentType: r.Header.Get("Content-Type"),
			Data:        body,
		}},
	})
	if err != nil {
		s.metrics.generation(target, "error")
		status, code := classify(err)
		writeError(w, status, code, err.Error())
		return nil, false, false
	}
	s.metrics.generation(target, "ok")
	return res, cached, true
}

// optionsFromQuery overlays query parameters on defaults.
func optionsFromQuery(defaults typegen.Options, q url.Values) (typegen.Options, error) {
	o := defaults
	if v := q.Get("target"); v != "" {
		o.Target = v
	}
	if v := q.Get("number_policy"); v != "" {
		o.NumberPolicy = render.NumberPolicy(v)
	}
	if q.Has("type_visibility") {
		v := q.Get("type_visibility")
		o.TypeVisibility = &v
	}
	if q.Has("field_visibility") {
		v := q.Get("field_visibility")
		o.FieldVisibility = &v
	}
	if q.Has("derive") {
		o.Derives = nil
		for _, d := range q["derive"] {
			for _, part := range strings.Split(d, ",") {
				if part = strings.TrimSpace(part); part != "" {
					o.Derives = append(o.Derives, part)
				}
			}
		}
	}
	if v := q.Get("package"); v != "" {
		o.Package = v
	}
	if q.Has("imports") {
		b, err := strconv.ParseBool(q.Get("imports"))
		if err != nil {
			return o, errors.New("imports must be a boolean")
		}
		o.Imports = &b
	}
	if q.Has("tuple") {
		b, err := strconv.ParseBool(q.Get("tuple"))
		if err != nil {
			return o, errors.New("tuple must be a boolean")
		}
		o.Tuple = b
	}
	if v := q.Get("jq"); v != "" {
		o.Selector.JQ = v
	}
	if v := q.Get("xpath"); v != "" {
		o.Selector.XPath = v
	}
	if v := q.Get("css"); v != "" {
		o.Selector.CSS = v
	}
	return o, nil
}

// classify maps generation errors to a status and error code.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, sample.ErrUnsupportedContent):
		return http.StatusUnsupportedMediaType, "UNSUPPORTED_CONTENT"
	case errors.Is(err, render.ErrInvalidRules):
		return http.StatusUnprocessableEntity, "INVALID_CONFIG"
	case errors.Is(err, decl.ErrInvalidIdentifier),
		errors.Is(err, sample.ErrInvalidSelector),
		errors.Is(err, typegen.ErrNoSamples):
		return http.StatusUnprocessableEntity, "INVALID_INPUT"
	}
	// Anything else is a body that failed to decode.
	return http.StatusBadRequest, "INVALID_INPUT"
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		slog.Warn("failed to encode response", slog.String("error", err.Error()))
	}
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, errorBody{Error: msg, Code: code})
}
