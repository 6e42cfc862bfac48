package host

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/qbicsoftware/samplegraph/pkg/errors"
	"github.com/qbicsoftware/samplegraph/pkg/observability"
	"github.com/qbicsoftware/samplegraph/pkg/render"
	"github.com/qbicsoftware/samplegraph/pkg/sample"
	"github.com/qbicsoftware/samplegraph/pkg/scene"
)

// maxBody limits pushed states and click reports.
const maxBody = 8 << 20

// SceneInfo answers a state push or factor selection.
type SceneInfo struct {
	ID     string         `json:"id"`
	Width  float64        `json:"width"`
	Height float64        `json:"height"`
	Nodes  int            `json:"nodes"`
	Factor string         `json:"factor,omitempty"`
	Issues []sample.Issue `json:"issues,omitempty"`
}

func sceneInfo(v *view) SceneInfo {
	return SceneInfo{
		ID:     v.scene.ID,
		Width:  v.scene.Width,
		Height: v.scene.Height,
		Nodes:  v.graph.NodeCount(),
		Factor: v.factor,
		Issues: v.issues,
	}
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	st, err := sample.DecodeState(http.MaxBytesReader(w, r.Body, maxBody))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	observability.Interaction().OnStatePush(r.Context(), len(st.Project))

	v, err := s.show(r.Context(), st, "")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	_ = writeJSON(w, http.StatusOK, sceneInfo(v))
}

func (s *Server) handleScene(f render.Format) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v := s.current.Load()
		if v == nil {
			s.writeError(w, r, errors.New(errors.ErrCodeNoScene, "nothing has been rendered yet"))
			return
		}

		opts := s.opts.Export
		q := r.URL.Query()
		if static, _ := strconv.ParseBool(q.Get("static")); static {
			opts.Static = true
		}
		if raw := q.Get("scale"); raw != "" {
			scale, err := strconv.ParseFloat(raw, 64)
			if err != nil || scale <= 0 || scale > 8 {
				s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "scale must be in (0, 8], got %q", raw))
				return
			}
			opts.Scale = scale
		}

		out, err := s.runner.Export(r.Context(), v.scene, []render.Format{f}, opts)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		w.Header().Set("Content-Type", f.ContentType())
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("ETag", strconv.Quote(v.scene.ID))
		_, _ = w.Write(out[f])
	}
}

// factorList answers GET /api/factors.
type factorList struct {
	Project string   `json:"project,omitempty"`
	Factors []string `json:"factors"`
	Current string   `json:"current,omitempty"`
}

func (s *Server) handleFactors(w http.ResponseWriter, r *http.Request) {
	out := factorList{Factors: []string{}}
	if p := s.project.Load(); p != nil {
		out.Project = p.Name
		out.Factors = p.FactorNames()
	}
	if v := s.current.Load(); v != nil {
		out.Current = v.factor
	}
	_ = writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleFactor(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := errors.ValidateFactorName(name); err != nil {
		s.writeError(w, r, err)
		return
	}
	p := s.project.Load()
	if p == nil {
		s.writeError(w, r, errors.New(errors.ErrCodeFactorNotFound, "no project loaded"))
		return
	}
	st, err := p.State(name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	v, err := s.show(r.Context(), st, name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	_ = writeJSON(w, http.StatusOK, sceneInfo(v))
}

// clickReport is the body the SVG script posts.
type clickReport struct {
	Scene    string   `json:"scene"`
	SampleID string   `json:"sample_id"`
	Label    string   `json:"label"`
	Codes    []string `json:"codes"`
}

// ClickResponse answers a click with the resolved details.
type ClickResponse struct {
	ID      string           `json:"id"`
	Event   scene.ClickEvent `json:"event"`
	Details []Detail         `json:"details"`
	// Stale is set when the click came from a scene that has since been
	// replaced; details then come from the current render.
	Stale bool `json:"stale,omitempty"`
}

func (s *Server) handleClick(w http.ResponseWriter, r *http.Request) {
	var rep clickReport
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody)).Decode(&rep); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode click"))
		return
	}
	if rep.SampleID == "" && rep.Label == "" {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "click names no sample"))
		return
	}

	ev := scene.ClickEvent{SampleID: rep.SampleID, Label: rep.Label, Codes: rep.Codes}
	if ev.Codes == nil {
		ev.Codes = []string{}
	}
	resp := ClickResponse{ID: uuid.NewString(), Event: ev}
	v := s.current.Load()
	if v != nil {
		resp.Details = details(v.graph, ev)
		resp.Stale = rep.Scene != "" && rep.Scene != v.scene.ID
	} else {
		resp.Details = details(nil, ev)
	}

	observability.Interaction().OnClick(r.Context(), ev.Label, len(ev.Codes))
	s.logger.Info("sample clicked", "label", ev.Label, "codes", len(ev.Codes), "stale", resp.Stale)
	if s.opts.OnClick != nil {
		s.opts.OnClick(r.Context(), ev, resp.Details)
	}
	msg := Message{Type: MessageClick, ID: resp.ID, Click: &ev, Details: resp.Details}
	if v != nil {
		msg.Scene = v.scene.ID
	}
	s.events.broadcast(msg)

	_ = writeJSON(w, http.StatusOK, resp)
}
