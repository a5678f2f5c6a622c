package usecase_test

import (
	"strings"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/noah-nuebling/appcaster/pkg/domain/model"
	"github.com/noah-nuebling/appcaster/pkg/domain/types"
	"github.com/noah-nuebling/appcaster/pkg/usecase"
)

func TestRenderAppcast(t *testing.T) {
	settings := model.FeedSettings{
		AppName:            "Mac Mouse Fix",
		BaseURL:            "https://example.com/feeds/",
		StableFileName:     "appcast.xml",
		PrereleaseFileName: "appcast-pre.xml",
	}
	item := &model.FeedItem{
		Title:                "2.1.0 available!",
		PublishedAt:          "2021-09-01T10:00:00Z",
		MinimumSystemVersion: "10.13",
		NotesHTML:            "<p>Notes</p>\n",
		URL:                  "https://example.com/MacMouseFix-2.1.0.zip",
		Version:              "21000",
		ShortVersion:         "2.1.0",
		Signature: model.Signature{Attrs: []model.SignatureAttr{
			{Name: "sparkle:edSignature", Value: "abc=="},
			{Name: "length", Value: "1234"},
		}},
		MIMEType: model.MIMETypeOctetStream,
	}

	raw := gt.R1(usecase.RenderAppcastForTest(settings.StableMeta(), []*model.FeedItem{item})).NoError(t)
	doc := string(raw)

	gt.True(t, strings.HasPrefix(doc, `<?xml version="1.0" encoding="UTF-8"?>`))
	gt.S(t, doc).Contains(`<rss version="2.0" xmlns:sparkle="http://www.andymatuschak.org/xml-namespaces/sparkle" xmlns:dc="http://purl.org/dc/elements/1.1/">`)
	gt.S(t, doc).Contains(`<link>https://example.com/feeds/appcast.xml</link>`)
	gt.S(t, doc).Contains(`<language>en</language>`)
	gt.S(t, doc).Contains(`<description><![CDATA[<p>Notes</p>` + "\n" + `]]></description>`)
	gt.S(t, doc).Contains(`<enclosure url="https://example.com/MacMouseFix-2.1.0.zip" sparkle:version="21000" sparkle:shortVersionString="2.1.0" sparkle:edSignature="abc==" length="1234" type="application/octet-stream"></enclosure>`)
}

func TestVerifyAppcast(t *testing.T) {
	t.Run("item count mismatch", func(t *testing.T) {
		raw := gt.R1(usecase.RenderAppcastForTest(model.ChannelMeta{Title: "Feed"}, nil)).NoError(t)
		err := usecase.VerifyAppcastForTest(raw, 1)
		gt.Error(t, err)
		gt.True(t, goerr.HasTag(err, types.ErrTagRender))
	})

	t.Run("not a feed", func(t *testing.T) {
		err := usecase.VerifyAppcastForTest([]byte("<html><body>oops</body></html>"), 0)
		gt.Error(t, err)
		gt.True(t, goerr.HasTag(err, types.ErrTagRender))
	})
}
