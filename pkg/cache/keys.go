package cache

import "strings"

// Keyer generates cache keys. Every component that reads or writes the cache
// goes through a Keyer so keys stay consistent between the CLI and the API.
type Keyer interface {
	// HTTPKey is the key for a raw HTTP response in a namespace
	// (e.g. "github:").
	HTTPKey(namespace, key string) string

	// EpicKey is the key for a fetched epic snapshot.
	EpicKey(source string, ref EpicRef) string

	// LayoutKey is the key for a layout computed from an epic with the given
	// content hash.
	LayoutKey(epicHash string, opts LayoutKeyOpts) string

	// ArtifactKey is the key for a rendered output of a layout.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// EpicRef identifies an epic at its source.
type EpicRef struct {
	Owner  string `json:"owner,omitempty"`
	Repo   string `json:"repo,omitempty"`
	Number int    `json:"number,omitempty"`
	Path   string `json:"path,omitempty"` // for file sources
}

// LayoutKeyOpts are the layout inputs besides the epic itself.
type LayoutKeyOpts struct {
	VizType string `json:"viz_type"`
	Config  string `json:"config"` // layout.Config.Key()
}

// ArtifactKeyOpts are the render inputs besides the layout itself.
type ArtifactKeyOpts struct {
	Format    string `json:"format"`
	Title     bool   `json:"title,omitempty"`
	EdgeLabel bool   `json:"edge_labels,omitempty"`
}

// DefaultKeyer produces keys of the form "<kind>:<sha256>", except HTTP keys
// which stay readable.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// HTTPKey implements [Keyer].
func (DefaultKeyer) HTTPKey(namespace, key string) string {
	return "http:" + namespace + ":" + key
}

// EpicKey implements [Keyer]. Owner and repo are case-insensitive on GitHub.
func (DefaultKeyer) EpicKey(source string, ref EpicRef) string {
	ref.Owner = strings.ToLower(ref.Owner)
	ref.Repo = strings.ToLower(ref.Repo)
	return hashKey("epic", source, ref)
}

// LayoutKey implements [Keyer].
func (DefaultKeyer) LayoutKey(epicHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", epicHash, opts)
}

// ArtifactKey implements [Keyer].
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}

var _ Keyer = DefaultKeyer{}
