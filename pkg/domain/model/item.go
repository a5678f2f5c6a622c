package model

// MIMETypeOctetStream is the enclosure type of every feed item.
const MIMETypeOctetStream = "application/octet-stream"

// FeedItem is one processed release, ready to be rendered into both appcast channels.
type FeedItem struct {
	Title                string
	PublishedAt          string
	MinimumSystemVersion string
	NotesHTML            string
	URL                  string
	Version              string // bundle build number (CFBundleVersion)
	ShortVersion         string // display version (release name)
	Signature            Signature
	MIMEType             string
	Prerelease           bool
}

// NewFeedItem builds the feed item of a release that has been inspected and signed.
func NewFeedItem(release *Release, bundle *BundleInfo, notesHTML string, sig *Signature) *FeedItem {
	return &FeedItem{
		Title:                release.Name + " available!",
		PublishedAt:          release.PublishedAt,
		MinimumSystemVersion: bundle.MinimumSystemVersion,
		NotesHTML:            notesHTML,
		URL:                  release.AssetURL,
		Version:              bundle.Version,
		ShortVersion:         release.Name,
		Signature:            *sig,
		MIMEType:             MIMETypeOctetStream,
		Prerelease:           release.Prerelease,
	}
}

// FeedItems accumulates items for the two channels.
type FeedItems struct {
	Stable []*FeedItem
	All    []*FeedItem
}

// Append adds item to the prerelease-inclusive channel and, unless it is a prerelease,
// to the stable channel. Order of appends is preserved in both.
func (x *FeedItems) Append(item *FeedItem) {
	x.All = append(x.All, item)
	if !item.Prerelease {
		x.Stable = append(x.Stable, item)
	}
}
