package server

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/maax3v3/colorreduce"
	"github.com/maax3v3/colorreduce/internal/imaging"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok"))
}

func (s *Server) handleReduce(w http.ResponseWriter, r *http.Request) {
	opts, format, err := s.optionsFromQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if len(opts.Palette) == 0 {
		http.Error(w, colorreduce.ErrEmptyPalette.Error(), http.StatusUnprocessableEntity)
		return
	}

	body := http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	img, err := imaging.Decode(body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, "image too large", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	out, stats, err := colorreduce.ReduceWithStats(img, opts)
	switch {
	case errors.Is(err, colorreduce.ErrEmptyPalette):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	case errors.Is(err, colorreduce.ErrUnknownMatcher), errors.Is(err, colorreduce.ErrUnknownLabeler):
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	case err != nil:
		s.internalError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, out, format); err != nil {
		s.internalError(w, r, err)
		return
	}

	h := w.Header()
	h.Set("Content-Type", format.ContentType())
	h.Set("Content-Length", strconv.Itoa(buf.Len()))
	h.Set("X-Regions", strconv.Itoa(stats.Regions))
	h.Set("X-Merged-Regions", strconv.Itoa(stats.Merged))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// optionsFromQuery reads reduction options from the query string.
func (s *Server) optionsFromQuery(r *http.Request) (colorreduce.Options, imaging.Format, error) {
	q := r.URL.Query()
	opts := colorreduce.DefaultOptions()
	opts.AreaThreshold = s.cfg.DefaultThreshold
	opts.Workers = s.cfg.Workers

	palette, err := colorreduce.ParsePalette(q.Get("palette"))
	if err != nil {
		return opts, "", fmt.Errorf("palette: %w", err)
	}
	opts.Palette = palette

	if v := q.Get("threshold"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return opts, "", fmt.Errorf("threshold must be a positive integer, got %q", v)
		}
		opts.AreaThreshold = n
	}
	if v := q.Get("matcher"); v != "" {
		opts.Matcher = v
	}
	if v := q.Get("labeler"); v != "" {
		opts.Labeler = v
	}

	format, err := imaging.ParseFormat(q.Get("format"))
	if err != nil {
		return opts, "", err
	}
	return opts, format, nil
}

func (s *Server) internalError(w http.ResponseWriter, r *http.Request, err error) {
	log.Printf("[%s] reduce failed: %v", middleware.GetReqID(r.Context()), err)
	http.Error(w, "internal error", http.StatusInternalServerError)
}
