package usecase

import (
	"bytes"

	"github.com/m-mizutani/goerr/v2"
	"github.com/mmcdole/gofeed"
	"github.com/noah-nuebling/appcaster/pkg/domain/model"
	"github.com/noah-nuebling/appcaster/pkg/domain/types"
)

func renderAppcast(meta model.ChannelMeta, items []*model.FeedItem) ([]byte, error) {
	raw, err := model.NewAppcast(meta, items).Marshal()
	if err != nil {
		return nil, err
	}

	if err := verifyAppcast(raw, len(items)); err != nil {
		return nil, goerr.Wrap(err, "rendered appcast failed verification", goerr.V("title", meta.Title))
	}

	return raw, nil
}

// verifyAppcast parses the document back as a feed reader would and checks that no
// item was lost.
func verifyAppcast(raw []byte, expected int) error {
	feed, err := gofeed.NewParser().Parse(bytes.NewReader(raw))
	if err != nil {
		return goerr.Wrap(err, "rendered appcast is not a valid feed", goerr.T(types.ErrTagRender))
	}
	if len(feed.Items) != expected {
		return goerr.New("rendered appcast has unexpected number of items",
			goerr.T(types.ErrTagRender),
			goerr.V("expected", expected),
			goerr.V("actual", len(feed.Items)),
		)
	}
	return nil
}
