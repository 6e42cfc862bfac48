package cache

// Keyer generates cache keys.
type Keyer interface {
	// LayoutKey identifies the layout of one graph under one set of options.
	LayoutKey(graphHash string, opts LayoutKeyOpts) string
	// ArtifactKey identifies one exported rendering of a scene.
	ArtifactKey(sceneHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts are the layout inputs that are not part of the graph.
type LayoutKeyOpts struct {
	Engine   string  `json:"engine"`
	NodeSize float64 `json:"node_size"`
	Margin   float64 `json:"margin"`
	RankSep  float64 `json:"rank_sep"`
	NodeSep  float64 `json:"node_sep"`
}

// ArtifactKeyOpts are the export options of one artifact.
type ArtifactKeyOpts struct {
	Format string  `json:"format"`
	Scale  float64 `json:"scale,omitempty"`
	Static bool    `json:"static,omitempty"`
}

// DefaultKeyer builds keys as "<kind>:<sha256>".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// LayoutKey implements [Keyer].
func (DefaultKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", graphHash, opts)
}

// ArtifactKey implements [Keyer].
func (DefaultKeyer) ArtifactKey(sceneHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", sceneHash, opts)
}
