package model

// BundleKind is the kind of bundle found at the top level of an extracted release archive.
type BundleKind string

const (
	BundleKindApp      BundleKind = "app"
	BundleKindPrefPane BundleKind = "prefpane"
)

const (
	// InfoPlistSubpath is the manifest location relative to the bundle root.
	InfoPlistSubpath = "Contents/Info.plist"

	ManifestKeyBundleVersion        = "CFBundleVersion"
	ManifestKeyMinimumSystemVersion = "LSMinimumSystemVersion"
)

// BundleInfo is what the bundle inspector learns about a release.
type BundleInfo struct {
	Kind                 BundleKind
	Path                 string
	Version              string
	MinimumSystemVersion string
}

// Skipped reports whether the release is excluded from the feed. Preference pane
// distributions are not represented in the appcast.
func (x *BundleInfo) Skipped() bool {
	return x.Kind == BundleKindPrefPane
}
