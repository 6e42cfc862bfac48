package render

import (
	"encoding/json"

	"github.com/qbicsoftware/samplegraph/pkg/scene"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	paths bool
}

// WithArcPaths adds the SVG path data of every arc to the output, for
// consumers that draw the scene without computing the geometry themselves.
func WithArcPaths() JSONOption { return func(r *jsonRenderer) { r.paths = true } }

type jsonOutput struct {
	*scene.Scene
	ArcPaths map[int]string `json:"arc_paths,omitempty"`
}

// RenderJSON exports the scene as a pretty-printed JSON document.
func RenderJSON(sc *scene.Scene, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	out := jsonOutput{Scene: sc}
	if r.paths {
		out.ArcPaths = make(map[int]string)
		for i, sh := range sc.Shapes {
			if sh.Kind == scene.KindArc && sh.Arc != nil {
				out.ArcPaths[i] = sh.Arc.Path()
			}
		}
	}
	return json.MarshalIndent(out, "", "  ")
}
