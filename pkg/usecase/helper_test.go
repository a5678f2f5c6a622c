package usecase_test

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/noah-nuebling/appcaster/pkg/domain/interfaces"
	"github.com/noah-nuebling/appcaster/pkg/domain/model"
	"github.com/noah-nuebling/appcaster/pkg/domain/types"
	"github.com/noah-nuebling/appcaster/pkg/infra"
	"github.com/noah-nuebling/appcaster/pkg/infra/storage"
	"github.com/noah-nuebling/appcaster/pkg/usecase"
)

const (
	testAppBundle      = "Mac Mouse Fix.app"
	testPrefPaneBundle = "Mouse Fix.prefpane"
)

func infoPlist(version, minOS string) string {
	minOSEntry := ""
	if minOS != "" {
		minOSEntry = fmt.Sprintf("\t<key>LSMinimumSystemVersion</key>\n\t<string>%s</string>\n", minOS)
	}
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
	<key>CFBundleVersion</key>
	<string>%s</string>
%s</dict>
</plist>
`, version, minOSEntry)
}

// bundleZip builds a release archive holding a single bundle with an Info.plist.
func bundleZip(t *testing.T, bundleName, plist string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)

	fw := gt.R1(w.Create(bundleName + "/Contents/Info.plist")).NoError(t)
	gt.R1(io.WriteString(fw, plist)).NoError(t)
	fw = gt.R1(w.Create(bundleName + "/Contents/MacOS/binary")).NoError(t)
	gt.R1(io.WriteString(fw, "binary")).NoError(t)

	gt.NoError(t, w.Close())
	return buf.Bytes()
}

type releaseListerMock struct {
	releases []*model.Release
	err      error
	calls    int
}

func (x *releaseListerMock) ListReleases(ctx context.Context, repo model.Repository) ([]*model.Release, error) {
	x.calls++
	return x.releases, x.err
}

type sourceControlMock struct {
	dirty   bool
	commits map[types.TagName]types.CommitID
}

func (x *sourceControlMock) IsClean(ctx context.Context) (bool, error) {
	return !x.dirty, nil
}

func (x *sourceControlMock) ResolveTagCommit(ctx context.Context, tag types.TagName) (types.CommitID, error) {
	if commit, ok := x.commits[tag]; ok {
		return commit, nil
	}
	if x.commits != nil {
		return "", goerr.New("tag not found", goerr.T(types.ErrTagSourceControl), goerr.V("tag", tag))
	}
	return types.CommitID("commit-" + string(tag)), nil
}

type signerMock struct {
	err   error
	paths []string
}

func (x *signerMock) SignArchive(ctx context.Context, path string) (*model.Signature, error) {
	x.paths = append(x.paths, path)
	if x.err != nil {
		return nil, x.err
	}

	st, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	return &model.Signature{
		Attrs: []model.SignatureAttr{
			{Name: "sparkle:edSignature", Value: "sig-" + filepath.Base(path)},
			{Name: "length", Value: fmt.Sprint(st.Size())},
		},
	}, nil
}

type publisherMock struct {
	stageErr  error
	commitErr error
	staged    int
	committed int
	discarded int
}

func (x *publisherMock) Stage(ctx context.Context, docs []*model.Document) (interfaces.Staging, error) {
	if x.stageErr != nil {
		return nil, x.stageErr
	}
	x.staged++
	return &stagingMock{pub: x}, nil
}

type stagingMock struct {
	pub *publisherMock
}

func (x *stagingMock) Commit(ctx context.Context) error {
	if x.pub.commitErr != nil {
		return x.pub.commitErr
	}
	x.pub.committed++
	return nil
}

func (x *stagingMock) Discard(ctx context.Context) {
	x.pub.discarded++
}

// assetServer serves release archives by URL path and counts requests.
type assetServer struct {
	*httptest.Server
	mutex  sync.Mutex
	assets map[string][]byte
	hits   int
}

func newAssetServer(t *testing.T) *assetServer {
	t.Helper()
	srv := &assetServer{assets: map[string][]byte{}}
	srv.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		srv.mutex.Lock()
		defer srv.mutex.Unlock()
		srv.hits++

		body, ok := srv.assets[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/zip")
		_, _ = w.Write(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

// addRelease registers an archive and returns the matching release record.
func (x *assetServer) addRelease(name string, prerelease bool, archive []byte) *model.Release {
	p := fmt.Sprintf("/releases/download/%s/MacMouseFix-%s.zip", name, name)
	x.assets[p] = archive
	return &model.Release{
		Name:        name,
		Notes:       "## " + name + "\n\n- Improvements",
		PublishedAt: "2021-09-01T10:00:00Z",
		Prerelease:  prerelease,
		TagName:     types.TagName(name),
		AssetURL:    x.URL + p,
	}
}

type testEnv struct {
	root    string
	scratch string
	lister  *releaseListerMock
	sc      *sourceControlMock
	signer  *signerMock
	server  *assetServer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return &testEnv{
		root:    t.TempDir(),
		scratch: t.TempDir(),
		lister:  &releaseListerMock{},
		sc:      &sourceControlMock{},
		signer:  &signerMock{},
		server:  newAssetServer(t),
	}
}

func (x *testEnv) useCase() *usecase.UseCase {
	return x.useCaseWith(storage.NewFile(x.root))
}

func (x *testEnv) useCaseWith(publishers ...interfaces.Publisher) *usecase.UseCase {
	options := []infra.Option{
		infra.WithReleaseLister(x.lister),
		infra.WithSourceControl(x.sc),
		infra.WithSigner(x.signer),
		infra.WithHTTPClient(x.server.Client()),
	}
	for _, pub := range publishers {
		options = append(options, infra.WithPublisher(pub))
	}
	return usecase.New(infra.New(options...))
}

func (x *testEnv) input() *model.GenerateAppcastInput {
	return &model.GenerateAppcastInput{
		Repository: model.Repository{
			Owner: "noah-nuebling",
			Repo:  "mac-mouse-fix",
		},
		Root:               x.root,
		ScratchDir:         x.scratch,
		AppBundleName:      testAppBundle,
		PrefPaneBundleName: testPrefPaneBundle,
		Feed: model.FeedSettings{
			AppName:            "Mac Mouse Fix",
			BaseURL:            "https://raw.githubusercontent.com/noah-nuebling/mac-mouse-fix/master",
			StableFileName:     "appcast.xml",
			PrereleaseFileName: "appcast-pre.xml",
		},
	}
}

func (x *testEnv) readOutput(t *testing.T, name string) string {
	t.Helper()
	data := gt.R1(os.ReadFile(filepath.Join(x.root, name))).NoError(t)
	return string(data)
}

func (x *testEnv) assertNoOutput(t *testing.T) {
	t.Helper()
	for _, name := range []string{"appcast.xml", "appcast-pre.xml"} {
		_, err := os.Stat(filepath.Join(x.root, name))
		gt.True(t, os.IsNotExist(err))
	}
}

// assertRootOnly checks that root holds exactly the named entries.
func (x *testEnv) assertRootOnly(t *testing.T, names ...string) {
	t.Helper()
	entries := gt.R1(os.ReadDir(x.root)).NoError(t)
	gt.A(t, entries).Length(len(names))
	for i, entry := range entries {
		gt.V(t, entry.Name()).Equal(names[i])
	}
}

func (x *testEnv) assertScratchRemoved(t *testing.T) {
	t.Helper()
	entries := gt.R1(os.ReadDir(x.scratch)).NoError(t)
	gt.A(t, entries).Length(0)
}
