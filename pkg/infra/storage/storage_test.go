package storage_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/noah-nuebling/appcaster/pkg/domain/model"
	"github.com/noah-nuebling/appcaster/pkg/domain/types"
	"github.com/noah-nuebling/appcaster/pkg/infra/storage"
	"github.com/noah-nuebling/appcaster/pkg/utils/testutil"
)

func feedDocs(stable, prerelease string) []*model.Document {
	return []*model.Document{
		{Name: "appcast.xml", Body: []byte(stable)},
		{Name: "appcast-pre.xml", Body: []byte(prerelease)},
	}
}

func dirNames(t *testing.T, dir string) []string {
	t.Helper()
	var names []string
	for _, entry := range gt.R1(os.ReadDir(dir)).NoError(t) {
		names = append(names, entry.Name())
	}
	return names
}

func TestFile(t *testing.T) {
	ctx := context.Background()

	t.Run("writes and overwrites", func(t *testing.T) {
		dir := t.TempDir()
		pub := storage.NewFile(dir)

		staging := gt.R1(pub.Stage(ctx, feedDocs("<rss>old</rss>", "<rss>old-pre</rss>"))).NoError(t)
		gt.NoError(t, staging.Commit(ctx))
		staging = gt.R1(pub.Stage(ctx, feedDocs("<rss>new</rss>", "<rss>new-pre</rss>"))).NoError(t)
		gt.NoError(t, staging.Commit(ctx))

		data := gt.R1(os.ReadFile(filepath.Join(dir, "appcast.xml"))).NoError(t)
		gt.V(t, string(data)).Equal("<rss>new</rss>")
		data = gt.R1(os.ReadFile(filepath.Join(dir, "appcast-pre.xml"))).NoError(t)
		gt.V(t, string(data)).Equal("<rss>new-pre</rss>")

		st := gt.R1(os.Stat(filepath.Join(dir, "appcast.xml"))).NoError(t)
		gt.V(t, st.Mode().Perm()).Equal(os.FileMode(0644))
		gt.V(t, dirNames(t, dir)).Equal([]string{"appcast-pre.xml", "appcast.xml"})
	})

	t.Run("staged documents are not visible", func(t *testing.T) {
		dir := t.TempDir()
		staging := gt.R1(storage.NewFile(dir).Stage(ctx, feedDocs("<rss/>", "<rss/>"))).NoError(t)

		_, err := os.Stat(filepath.Join(dir, "appcast.xml"))
		gt.True(t, os.IsNotExist(err))

		staging.Discard(ctx)
		gt.A(t, dirNames(t, dir)).Length(0)
	})

	t.Run("stage failure of the second document leaves nothing", func(t *testing.T) {
		dir := t.TempDir()
		gt.NoError(t, os.Mkdir(filepath.Join(dir, "appcast-pre.xml"), 0755))

		_, err := storage.NewFile(dir).Stage(ctx, feedDocs("<rss/>", "<rss/>"))
		gt.Error(t, err)
		gt.True(t, goerr.HasTag(err, types.ErrTagPublish))
		gt.V(t, dirNames(t, dir)).Equal([]string{"appcast-pre.xml"})
	})

	t.Run("commit failure restores previous documents", func(t *testing.T) {
		dir := t.TempDir()
		gt.NoError(t, os.WriteFile(filepath.Join(dir, "appcast.xml"), []byte("<rss>previous</rss>"), 0644))

		staging := gt.R1(storage.NewFile(dir).Stage(ctx, feedDocs("<rss>new</rss>", "<rss>new-pre</rss>"))).NoError(t)
		// the prerelease target turns into a non-empty directory after staging
		gt.NoError(t, os.MkdirAll(filepath.Join(dir, "appcast-pre.xml", "keep"), 0755))

		err := staging.Commit(ctx)
		gt.Error(t, err)
		gt.True(t, goerr.HasTag(err, types.ErrTagPublish))

		data := gt.R1(os.ReadFile(filepath.Join(dir, "appcast.xml"))).NoError(t)
		gt.V(t, string(data)).Equal("<rss>previous</rss>")
		gt.V(t, dirNames(t, dir)).Equal([]string{"appcast-pre.xml", "appcast.xml"})
	})

	t.Run("commit failure removes documents that did not exist", func(t *testing.T) {
		dir := t.TempDir()

		staging := gt.R1(storage.NewFile(dir).Stage(ctx, feedDocs("<rss>new</rss>", "<rss>new-pre</rss>"))).NoError(t)
		gt.NoError(t, os.MkdirAll(filepath.Join(dir, "appcast-pre.xml", "keep"), 0755))

		gt.Error(t, staging.Commit(ctx))
		gt.V(t, dirNames(t, dir)).Equal([]string{"appcast-pre.xml"})
	})

	t.Run("missing directory", func(t *testing.T) {
		pub := storage.NewFile(filepath.Join(t.TempDir(), "missing"))
		_, err := pub.Stage(ctx, feedDocs("<rss/>", "<rss/>"))
		gt.Error(t, err)
		gt.True(t, goerr.HasTag(err, types.ErrTagPublish))
	})
}

func TestGCS(t *testing.T) {
	bucket := testutil.GetEnvOrSkip(t, "TEST_GCS_BUCKET")
	ctx := context.Background()

	pub := gt.R1(storage.NewGCS(ctx, bucket, "appcaster-test/"+uuid.NewString())).NoError(t)
	defer func() { gt.NoError(t, pub.Close()) }()

	t.Run("stage and commit", func(t *testing.T) {
		staging := gt.R1(pub.Stage(ctx, feedDocs(`<rss version="2.0"></rss>`, `<rss version="2.0"></rss>`))).NoError(t)
		gt.NoError(t, staging.Commit(ctx))
	})

	t.Run("discard", func(t *testing.T) {
		staging := gt.R1(pub.Stage(ctx, feedDocs(`<rss version="2.0"></rss>`, `<rss version="2.0"></rss>`))).NoError(t)
		staging.Discard(ctx)
	})
}

func TestGCSStagingName(t *testing.T) {
	pub := storage.NewTestGCS("bucket", "feeds")
	first := pub.StagingName("feeds/appcast.xml")
	second := pub.StagingName("feeds/appcast.xml")

	gt.True(t, strings.HasPrefix(first, "feeds/appcast.xml.staging-"))
	gt.V(t, first).NotEqual(second)
}

func TestGCSObjectName(t *testing.T) {
	testCases := map[string]struct {
		prefix string
		expect string
	}{
		"no prefix":       {prefix: "", expect: "appcast-pre.xml"},
		"prefix":          {prefix: "feeds", expect: "feeds/appcast-pre.xml"},
		"trailing slash":  {prefix: "feeds/", expect: "feeds/appcast-pre.xml"},
		"nested prefixes": {prefix: "mac-mouse-fix/feeds", expect: "mac-mouse-fix/feeds/appcast-pre.xml"},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			pub := storage.NewTestGCS("bucket", tc.prefix)
			gt.V(t, pub.ObjectName("appcast-pre.xml")).Equal(tc.expect)
		})
	}
}
