package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/epicflow/pkg/buildinfo"
	"github.com/matzehuels/epicflow/pkg/epic"
	errs "github.com/matzehuels/epicflow/pkg/errors"
	"github.com/matzehuels/epicflow/pkg/graph"
	"github.com/matzehuels/epicflow/pkg/pipeline"
	"github.com/matzehuels/epicflow/pkg/source"
)

// CacheHeader reports whether a rendered artifact came from cache.
const CacheHeader = "X-Epicflow-Cache"

var contentTypes = map[string]string{
	graph.FormatSVG:  "image/svg+xml",
	graph.FormatPNG:  "image/png",
	graph.FormatPDF:  "application/pdf",
	graph.FormatDOT:  "text/vnd.graphviz; charset=utf-8",
	graph.FormatJSON: "application/json",
}

// LayoutRequest is the body of POST /v1/layout.
type LayoutRequest struct {
	pipeline.Options
	// Save stores the layout as a snapshot. Requires a configured store.
	Save bool `json:"save,omitempty"`
}

// LayoutResponse is the body of a successful POST /v1/layout.
type LayoutResponse struct {
	Layout     graph.Layout `json:"layout"`
	EpicHash   string       `json:"epic_hash"`
	Cache      CacheStatus  `json:"cache"`
	SnapshotID string       `json:"snapshot_id,omitempty"`
	// Superseded is set when Save was requested but a newer request for
	// the same epic started before this one reached the save, so nothing
	// was saved.
	Superseded bool `json:"superseded,omitempty"`
}

// CacheStatus reports cache hits per stage.
type CacheStatus struct {
	Fetch  bool `json:"fetch"`
	Layout bool `json:"layout"`
}

// RenderRequest is the body of POST /v1/render/{format}. When Layout is
// set it is rendered as is; otherwise the epic is fetched and laid out
// first. Formats is ignored in favour of the path parameter.
type RenderRequest struct {
	pipeline.Options
	Layout *graph.Layout `json:"layout,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	var req LayoutRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.Save && s.store == nil {
		s.writeError(w, r, errs.New(errs.ErrCodeUnsupported, "snapshot storage is not configured"))
		return
	}
	opts := req.Options
	if err := checkSource(opts); err != nil {
		s.writeError(w, r, err)
		return
	}

	ctx := r.Context()
	e, fetchHit, err := s.runner.FetchWithCacheInfo(ctx, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var ticket pipeline.Ticket
	if req.Save {
		ticket = s.latest.Begin(snapshotKey(e))
	}

	l, layoutHit, err := s.runner.LayoutWithCacheInfo(ctx, e, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	hash, err := e.Hash()
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := LayoutResponse{
		Layout:   l,
		EpicHash: hash,
		Cache:    CacheStatus{Fetch: fetchHit, Layout: layoutHit},
	}
	if req.Save {
		var saveErr error
		committed := s.latest.Commit(ticket, func() {
			resp.SnapshotID, saveErr = s.store.Save(ctx, l, resp.EpicHash)
		})
		if saveErr != nil {
			s.writeError(w, r, saveErr)
			return
		}
		resp.Superseded = !committed
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	format := strings.ToLower(chi.URLParam(r, "format"))
	if err := pipeline.ValidateFormat(format); err != nil {
		s.writeError(w, r, err)
		return
	}

	var req RenderRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	opts := req.Options
	opts.Formats = []string{format}

	ctx := r.Context()
	var (
		artifacts map[string][]byte
		hit       bool
		err       error
	)
	if req.Layout != nil {
		var e *epic.Epic
		if opts.Epic != nil {
			if e, err = s.runner.Fetch(ctx, opts); err != nil {
				s.writeError(w, r, err)
				return
			}
		}
		artifacts, hit, err = s.runner.RenderWithCacheInfo(ctx, *req.Layout, e, opts)
	} else {
		if err = checkSource(opts); err != nil {
			s.writeError(w, r, err)
			return
		}
		var res *pipeline.Result
		if res, err = s.runner.Execute(ctx, opts); err == nil {
			artifacts, hit = res.Artifacts, res.CacheInfo.RenderHit
		}
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", contentTypes[format])
	if hit {
		w.Header().Set(CacheHeader, "hit")
	} else {
		w.Header().Set(CacheHeader, "miss")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(artifacts[format])
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := s.store.Load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleLatest(w http.ResponseWriter, r *http.Request) {
	owner, repo, err := errs.ValidateRepoRef(chi.URLParam(r, "owner") + "/" + chi.URLParam(r, "repo"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	number, err := strconv.Atoi(chi.URLParam(r, "number"))
	if err != nil {
		s.writeError(w, r, errs.New(errs.ErrCodeInvalidInput, "invalid issue number %q", chi.URLParam(r, "number")))
		return
	}
	if err := errs.ValidateIssueNumber(number); err != nil {
		s.writeError(w, r, err)
		return
	}

	snap, err := s.store.Latest(r.Context(), owner, repo, number)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// checkSource rejects file references. Inline epics and GitHub refs pass.
func checkSource(opts pipeline.Options) error {
	if opts.Epic != nil || opts.Source == "" {
		return nil
	}
	ref, err := source.ParseRef(opts.Source)
	if err != nil {
		return err
	}
	if ref.Kind == source.KindFile {
		return errs.New(errs.ErrCodeInvalidInput,
			"file sources are not served over HTTP; send the epic inline or use owner/repo#N")
	}
	return nil
}

// snapshotKey identifies an epic for the latest-request-wins policy.
// Inline epics without a repository are keyed by title.
func snapshotKey(e *epic.Epic) string {
	return strings.ToLower(e.Locator())
}
