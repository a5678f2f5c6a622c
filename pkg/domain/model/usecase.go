package model

import (
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/noah-nuebling/appcaster/pkg/domain/types"
)

// GenerateAppcastInput configures one run of the appcast pipeline.
type GenerateAppcastInput struct {
	Repository

	// Root is the project root. Output files and relative tool paths are resolved
	// against it; the process working directory is never changed.
	Root string
	// ScratchDir is the parent of the run's scratch space. Empty means the OS temp dir.
	ScratchDir string

	AppBundleName      string
	PrefPaneBundleName string

	Feed FeedSettings
}

// FeedSettings describes the two generated documents.
type FeedSettings struct {
	AppName            string
	BaseURL            string // public location the feed files are served from
	StableFileName     string
	PrereleaseFileName string
}

func (x *GenerateAppcastInput) Validate() error {
	if x.Owner == "" || x.Repo == "" {
		return goerr.New("repository owner and name are required",
			goerr.T(types.ErrTagInvalidOption),
			goerr.V("repository", x.Repository.String()),
		)
	}
	if x.Root == "" {
		return goerr.New("root is required", goerr.T(types.ErrTagInvalidOption))
	}
	if x.AppBundleName == "" || x.PrefPaneBundleName == "" {
		return goerr.New("bundle names are required",
			goerr.T(types.ErrTagInvalidOption),
			goerr.V("app", x.AppBundleName),
			goerr.V("prefpane", x.PrefPaneBundleName),
		)
	}
	if x.AppBundleName == x.PrefPaneBundleName {
		return goerr.New("app and preference pane bundle names must differ",
			goerr.T(types.ErrTagInvalidOption),
			goerr.V("name", x.AppBundleName),
		)
	}
	return x.Feed.Validate()
}

func (x *FeedSettings) Validate() error {
	if x.AppName == "" {
		return goerr.New("app name is required", goerr.T(types.ErrTagInvalidOption))
	}
	if x.StableFileName == "" || x.PrereleaseFileName == "" {
		return goerr.New("feed file names are required", goerr.T(types.ErrTagInvalidOption))
	}
	if x.StableFileName == x.PrereleaseFileName {
		return goerr.New("stable and prerelease feed file names must differ",
			goerr.T(types.ErrTagInvalidOption),
			goerr.V("name", x.StableFileName),
		)
	}
	return nil
}

// StableMeta is the channel header of the stable feed.
func (x *FeedSettings) StableMeta() ChannelMeta {
	return ChannelMeta{
		Title:       x.AppName + " Update Feed",
		Link:        x.url(x.StableFileName),
		Description: "Stable releases of " + x.AppName,
		Language:    "en",
	}
}

// PrereleaseMeta is the channel header of the prerelease-inclusive feed.
func (x *FeedSettings) PrereleaseMeta() ChannelMeta {
	return ChannelMeta{
		Title:       x.AppName + " Update Feed for Prereleases",
		Link:        x.url(x.PrereleaseFileName),
		Description: "Prereleases of " + x.AppName,
		Language:    "en",
	}
}

func (x *FeedSettings) url(fileName string) string {
	return strings.TrimSuffix(x.BaseURL, "/") + "/" + fileName
}
