package cache

// DecomposeKeyOpts are the options that change a decomposition result.
type DecomposeKeyOpts struct {
	Policy string `json:"policy"`
}

// LayoutKeyOpts are the options that change a layout result.
type LayoutKeyOpts struct {
	Engine         string  `json:"engine"`
	Separation     float64 `json:"separation"`
	DimensionsHash string  `json:"dimensions_hash"`
}

// Keyer builds cache keys. graphHash is the [Hash] of the canonical graph
// document.
type Keyer interface {
	DecomposeKey(graphHash string, opts DecomposeKeyOpts) string
	LayoutKey(graphHash string, opts LayoutKeyOpts) string
	AnalysisKey(graphHash string) string
}

// DefaultKeyer hashes the graph hash and options into a prefixed key.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// DecomposeKey returns "decompose:<sha256>".
func (DefaultKeyer) DecomposeKey(graphHash string, opts DecomposeKeyOpts) string {
	return hashKey("decompose", graphHash, opts)
}

// LayoutKey returns "layout:<sha256>".
func (DefaultKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", graphHash, opts)
}

// AnalysisKey returns "analysis:<sha256>".
func (DefaultKeyer) AnalysisKey(graphHash string) string {
	return hashKey("analysis", graphHash)
}
