package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/KaramelBytes/zeroml/internal/dataset"
	"github.com/KaramelBytes/zeroml/internal/pipeline"
	"github.com/KaramelBytes/zeroml/internal/prompt"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"go.uber.org/zap"
)

// User-facing error texts.
const (
	msgReadError    = "Error reading file"
	msgNoData       = "Please upload data first"
	msgProcessError = "Error processing data. Please try again."
)

var errNoUpload = errors.New("no upload")

type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

type modelsResponse struct {
	Regression     []string `json:"regression"`
	Classification []string `json:"classification"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{"status": "ok"})
}

// models handles GET /api/models
func (s *Server) models(w http.ResponseWriter, r *http.Request) {
	cat := prompt.Catalog()
	render.JSON(w, r, modelsResponse{
		Regression:     cat[prompt.KindRegression],
		Classification: cat[prompt.KindClassification],
	})
}

// process handles POST /api/process
func (s *Server) process(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	ds, err := s.readUpload(r)
	switch {
	case errors.Is(err, errNoUpload):
		s.fail(w, r, http.StatusBadRequest, msgNoData)
		return
	case err != nil:
		s.log.Warn("upload rejected", zap.String("request_id", middleware.GetReqID(r.Context())), zap.Error(err))
		s.fail(w, r, http.StatusBadRequest, msgReadError)
		return
	}

	opts := pipeline.Options{
		Task:          strings.TrimSpace(r.FormValue("task")),
		SelectedModel: strings.TrimSpace(r.FormValue("model")),
	}
	if opts.SelectedModel != "" {
		if _, ok := prompt.LookupKind(opts.SelectedModel); !ok {
			s.fail(w, r, http.StatusBadRequest, fmt.Sprintf("Unknown model: %s", opts.SelectedModel))
			return
		}
	}

	agg, err := s.proc.Process(r.Context(), ds, opts)
	if err != nil {
		s.log.Error("processing failed", zap.String("request_id", middleware.GetReqID(r.Context())), zap.Error(err))
		s.fail(w, r, http.StatusInternalServerError, msgProcessError)
		return
	}
	render.JSON(w, r, agg)
}

// readUpload accepts a multipart "file" field or a raw text body.
func (s *Server) readUpload(r *http.Request) (dataset.Dataset, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		f, hdr, err := r.FormFile("file")
		if errors.Is(err, http.ErrMissingFile) {
			return nil, errNoUpload
		}
		if err != nil {
			return nil, err
		}
		defer f.Close()
		if !dataset.AcceptedFile(hdr.Filename) {
			return nil, fmt.Errorf("unsupported file type: %s", hdr.Filename)
		}
		return dataset.Read(f)
	}
	b, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", dataset.ErrUnreadable, err)
	}
	if len(b) == 0 {
		return nil, errNoUpload
	}
	return dataset.Parse(string(b)), nil
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, status int, msg string) {
	render.Status(r, status)
	render.JSON(w, r, errorResponse{Error: msg, RequestID: middleware.GetReqID(r.Context())})
}
