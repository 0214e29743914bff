package cache

// Keyer generates cache keys for the audit pipeline's cacheable
// products. Keys embed every input that affects the output, so a
// change in thresholds or journal never serves a stale report.
type Keyer interface {
	// ReportKey generates a key for a cached audit report.
	ReportKey(figureHash string, opts ReportKeyOpts) string

	// FixKey generates a key for a cached fixed figure.
	FixKey(figureHash string, opts FixKeyOpts) string

	// ArtifactKey generates a key for a rendered report artifact.
	ArtifactKey(reportHash string, opts ArtifactKeyOpts) string
}

// ReportKeyOpts are the audit inputs that shape a report.
type ReportKeyOpts struct {
	Journal        string  `json:"journal"`
	OcclusionWarn  float64 `json:"occlusion_warn"`
	OcclusionError float64 `json:"occlusion_error"`
	SizeTolerance  float64 `json:"size_tolerance"`
	ColorDistance  float64 `json:"color_distance"`
}

// FixKeyOpts are the fix inputs that shape a fixed figure.
type FixKeyOpts struct {
	Journal string   `json:"journal"`
	Kinds   []string `json:"kinds"` // issue kinds applied, in order
}

// ArtifactKeyOpts are the render inputs that shape an artifact.
type ArtifactKeyOpts struct {
	Format  string `json:"format"`
	Journal string `json:"journal"`
}

// DefaultKeyer hashes key components with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// ReportKey generates a key for a cached audit report.
func (k *DefaultKeyer) ReportKey(figureHash string, opts ReportKeyOpts) string {
	return hashKey("report", figureHash, opts)
}

// FixKey generates a key for a cached fixed figure.
func (k *DefaultKeyer) FixKey(figureHash string, opts FixKeyOpts) string {
	return hashKey("fix", figureHash, opts)
}

// ArtifactKey generates a key for a rendered report artifact.
func (k *DefaultKeyer) ArtifactKey(reportHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", reportHash, opts)
}

// ScopedKeyer wraps a Keyer with a prefix for multi-tenant isolation,
// so different users of a shared Redis instance get separate cache
// namespaces.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// ReportKey generates a prefixed report key.
func (k *ScopedKeyer) ReportKey(figureHash string, opts ReportKeyOpts) string {
	return k.prefix + k.inner.ReportKey(figureHash, opts)
}

// FixKey generates a prefixed fix key.
func (k *ScopedKeyer) FixKey(figureHash string, opts FixKeyOpts) string {
	return k.prefix + k.inner.FixKey(figureHash, opts)
}

// ArtifactKey generates a prefixed artifact key.
func (k *ScopedKeyer) ArtifactKey(reportHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(reportHash, opts)
}
