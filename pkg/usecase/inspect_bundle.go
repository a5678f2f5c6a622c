package usecase

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/m-mizutani/goerr/v2"
	"github.com/noah-nuebling/appcaster/pkg/domain/model"
	"github.com/noah-nuebling/appcaster/pkg/domain/types"
)

// inspectBundle finds the bundle in an extracted release and reads its version metadata.
// Preference pane bundles are reported without reading their manifest.
func (x *UseCase) inspectBundle(ctx context.Context, input *model.GenerateAppcastInput, dir string) (*model.BundleInfo, error) {
	bundle, err := probeBundle(dir, input.AppBundleName, input.PrefPaneBundleName)
	if err != nil {
		return nil, err
	}
	if bundle.Skipped() {
		return bundle, nil
	}

	manifest := filepath.Join(bundle.Path, filepath.FromSlash(model.InfoPlistSubpath))
	reader := x.clients.ManifestReader()

	if bundle.Version, err = reader.ReadManifestKey(ctx, manifest, model.ManifestKeyBundleVersion); err != nil {
		return nil, err
	}
	if bundle.MinimumSystemVersion, err = reader.ReadManifestKey(ctx, manifest, model.ManifestKeyMinimumSystemVersion); err != nil {
		return nil, err
	}

	return bundle, nil
}

// probeBundle checks for the app bundle first and the preference pane second.
func probeBundle(dir, appName, prefPaneName string) (*model.BundleInfo, error) {
	candidates := []struct {
		name string
		kind model.BundleKind
	}{
		{name: appName, kind: model.BundleKindApp},
		{name: prefPaneName, kind: model.BundleKindPrefPane},
	}

	for _, c := range candidates {
		p := filepath.Join(dir, c.name)
		_, err := os.Stat(p)
		if err == nil {
			return &model.BundleInfo{Kind: c.kind, Path: p}, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, goerr.Wrap(err, "failed to probe bundle", goerr.T(types.ErrTagExtract), goerr.V("path", p))
		}
	}

	return nil, goerr.New("unknown bundle name after extraction",
		goerr.T(types.ErrTagUnknownBundle),
		goerr.V("dir", dir),
		goerr.V("expected", []string{appName, prefPaneName}),
	)
}
