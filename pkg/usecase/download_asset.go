package usecase

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"

	"github.com/m-mizutani/goerr/v2"
	"github.com/noah-nuebling/appcaster/pkg/domain/types"
	"github.com/noah-nuebling/appcaster/pkg/infra"
	"github.com/noah-nuebling/appcaster/pkg/utils/logging"
	"github.com/noah-nuebling/appcaster/pkg/utils/safe"
)

const maxErrorBody = 1024

// downloadAsset saves the asset into dir under the last segment of its URL path and
// returns the local file path. An existing file with the same name is overwritten.
func downloadAsset(ctx context.Context, httpClient infra.HTTPClient, assetURL, dir string) (string, error) {
	u, err := url.Parse(assetURL)
	if err != nil {
		return "", goerr.Wrap(err, "invalid asset URL", goerr.T(types.ErrTagDownload), goerr.V("url", assetURL))
	}

	name := path.Base(u.Path)
	switch name {
	case "", ".", "/", "..":
		return "", goerr.New("asset URL has no file name", goerr.T(types.ErrTagDownload), goerr.V("url", assetURL))
	}
	dst := filepath.Join(dir, name)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return "", goerr.Wrap(err, "failed to create request for asset", goerr.T(types.ErrTagDownload), goerr.V("url", assetURL))
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return "", goerr.Wrap(err, "failed to download asset", goerr.T(types.ErrTagDownload), goerr.V("url", assetURL))
	}
	defer safe.Close(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return "", goerr.New("failed to download asset",
			goerr.T(types.ErrTagDownload),
			goerr.V("url", assetURL),
			goerr.V("status", resp.StatusCode),
			goerr.V("body", string(body)),
		)
	}

	// #nosec G304
	out, err := os.Create(dst)
	if err != nil {
		return "", goerr.Wrap(err, "failed to create asset file", goerr.T(types.ErrTagDownload), goerr.V("path", dst))
	}

	n, err := io.Copy(out, resp.Body)
	if err != nil {
		safe.Close(out)
		return "", goerr.Wrap(err, "failed to write asset file",
			goerr.T(types.ErrTagDownload),
			goerr.V("url", assetURL),
			goerr.V("path", dst),
		)
	}
	if err := out.Close(); err != nil {
		return "", goerr.Wrap(err, "failed to close asset file",
			goerr.T(types.ErrTagDownload),
			goerr.V("path", dst),
		)
	}

	logging.From(ctx).Debug("Downloaded asset", "url", assetURL, "path", dst, "size", n)
	return dst, nil
}
