package server

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/matzehuels/tessera/pkg/buildinfo"
	"github.com/matzehuels/tessera/pkg/cache"
	"github.com/matzehuels/tessera/pkg/errors"
	"github.com/matzehuels/tessera/pkg/observability"
	"github.com/matzehuels/tessera/pkg/pipeline"
	"github.com/matzehuels/tessera/pkg/render/svg"
	"github.com/matzehuels/tessera/pkg/scene"
	"github.com/matzehuels/tessera/pkg/shapes"
	"github.com/matzehuels/tessera/pkg/transform"
)

type healthResponse struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
}

type presetResponse struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Shapes      int    `json:"shapes"`
	Markup      string `json:"markup"`
}

type renderResponse struct {
	ID        string            `json:"id"`
	Hash      string            `json:"hash,omitempty"`
	Artifacts map[string]string `json:"artifacts"`
	Cells     int               `json:"cells"`
	Shapes    int               `json:"shapes"`
	Cached    bool              `json:"cached"`
}

type errorResponse struct {
	Error string      `json:"error"`
	Code  errors.Code `json:"code,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Build: buildinfo.Get()})
}

func (s *Server) handlePresets(w http.ResponseWriter, r *http.Request) {
	presets := shapes.Presets()
	out := make([]presetResponse, len(presets))
	for i, p := range presets {
		g := p.Build(shapes.DefaultSize, shapes.DefaultFill)
		out[i] = presetResponse{
			Name:        p.Name,
			Description: p.Description,
			Shapes:      len(g),
			Markup:      svg.GroupMarkup(g),
		}
	}
	writeJSON(w, http.StatusOK, out)
}

// handleRender renders a JSON scene and stores every artifact under a new id.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	body := http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	sc, err := scene.Read(body, scene.FormatJSON)
	if err != nil {
		s.writeError(w, err)
		return
	}
	opts, err := sc.Options()
	if err != nil {
		s.writeError(w, err)
		return
	}

	res, err := s.execute(r, opts)
	if err != nil {
		s.writeError(w, err)
		return
	}

	id := uuid.NewString()
	links := make(map[string]string, len(res.Artifacts))
	for format, data := range res.Artifacts {
		if err := s.store.Set(r.Context(), s.keyer.UploadKey(id, format), data, cache.TTLUpload); err != nil {
			s.writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "store artifact"))
			return
		}
		observability.Cache().OnCacheSet(r.Context(), "upload", len(data))
		links[format] = "/artifacts/" + id + "/" + format
	}

	writeJSON(w, http.StatusCreated, renderResponse{
		ID:        id,
		Hash:      res.Hash,
		Artifacts: links,
		Cells:     res.Stats.CellCount,
		Shapes:    res.Stats.ShapeCount,
		Cached:    res.CacheInfo.RenderHit,
	})
}

// handleArtifact serves an artifact stored by handleRender.
func (s *Server) handleArtifact(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	format := chi.URLParam(r, "format")

	if _, err := uuid.Parse(id); err != nil {
		s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "invalid artifact id %q", id))
		return
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		s.writeError(w, err)
		return
	}

	data, hit, err := s.store.Get(r.Context(), s.keyer.UploadKey(id, format))
	if err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "load artifact"))
		return
	}
	if !hit {
		observability.Cache().OnCacheMiss(r.Context(), "upload")
		s.writeError(w, errors.New(errors.ErrCodeNotFound, "artifact %s/%s not found", id, format))
		return
	}
	observability.Cache().OnCacheHit(r.Context(), "upload")
	writeArtifact(w, format, data)
}

// handleRenderQuery renders an SVG from query parameters. Transforms are
// given as repeated t=kind=value (uniform) or c=kind=value (random).
func (s *Server) handleRenderQuery(w http.ResponseWriter, r *http.Request) {
	opts, err := optionsFromQuery(r.URL.Query())
	if err != nil {
		s.writeError(w, err)
		return
	}
	opts.Formats = []string{pipeline.FormatSVG}

	res, err := s.execute(r, opts)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeArtifact(w, pipeline.FormatSVG, res.Artifacts[pipeline.FormatSVG])
}

// execute validates the request size and runs the pipeline.
func (s *Server) execute(r *http.Request, opts pipeline.Options) (*pipeline.Result, error) {
	opts.Logger = s.logger
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if limit := s.cfg.MaxCells; limit > 0 && (opts.Rows > limit || opts.Cols > limit || opts.Rows > limit/opts.Cols) {
		return nil, errors.New(errors.ErrCodeInvalidCanvas,
			"grid of %dx%d exceeds the limit of %d cells", opts.Rows, opts.Cols, s.cfg.MaxCells)
	}
	return s.runner.Execute(r.Context(), opts)
}

// optionsFromQuery maps query parameters onto pipeline options.
func optionsFromQuery(q url.Values) (pipeline.Options, error) {
	var opts pipeline.Options
	var err error

	floatParam := func(name string, dst *float64) {
		if v := q.Get(name); v != "" && err == nil {
			if *dst, err = strconv.ParseFloat(v, 64); err != nil {
				err = errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid %s", name)
			}
		}
	}
	intParam := func(name string, dst *int) {
		if v := q.Get(name); v != "" && err == nil {
			if *dst, err = strconv.Atoi(v); err != nil {
				err = errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid %s", name)
			}
		}
	}

	floatParam("width", &opts.Width)
	floatParam("height", &opts.Height)
	intParam("rows", &opts.Rows)
	intParam("cols", &opts.Cols)
	floatParam("size", &opts.Size)
	floatParam("stroke_width", &opts.StrokeWidth)
	if v := q.Get("target"); v != "" && err == nil {
		var target int
		intParam("target", &target)
		opts.Target = &target
	}
	if v := q.Get("seed"); v != "" && err == nil {
		if opts.Seed, err = strconv.ParseUint(v, 10, 64); err != nil {
			err = errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid seed")
		}
	}
	if err != nil {
		return pipeline.Options{}, err
	}

	opts.Preset = q.Get("preset")
	opts.Fill = q.Get("fill")
	opts.Mode = strings.ToLower(q.Get("mode"))
	opts.Background = q.Get("background")
	opts.Stroke = q.Get("stroke")
	opts.Center = q.Get("center") == "true"
	opts.Palette = q.Get("palette") == "true"
	opts.Shimmer = q.Get("shimmer") == "true"

	if opts.Transforms, err = parseTransforms(q["t"]); err != nil {
		return pipeline.Options{}, err
	}
	if opts.Candidates, err = parseTransforms(q["c"]); err != nil {
		return pipeline.Options{}, err
	}
	return opts, nil
}

func parseTransforms(values []string) ([]transform.Transform, error) {
	var out []transform.Transform
	for _, v := range values {
		t, err := transform.Parse(v)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// writeError maps coded errors to HTTP status codes.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	var maxErr *http.MaxBytesError
	switch {
	case stderrors.As(err, &maxErr):
		status = http.StatusRequestEntityTooLarge
	case errors.IsInvalid(err):
		status = http.StatusBadRequest
	case errors.Is(err, errors.ErrCodeNotFound):
		status = http.StatusNotFound
	}

	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
		writeJSON(w, status, errorResponse{Error: "internal error", Code: errors.ErrCodeInternal})
		return
	}
	writeJSON(w, status, errorResponse{Error: errors.UserMessage(err), Code: errors.GetCode(err)})
}

func writeArtifact(w http.ResponseWriter, format string, data []byte) {
	w.Header().Set("Content-Type", pipeline.ContentTypes[format])
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
