package storage

import (
	"context"
	"errors"
	"io"
	"path"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"github.com/noah-nuebling/appcaster/pkg/domain/interfaces"
	"github.com/noah-nuebling/appcaster/pkg/domain/model"
	"github.com/noah-nuebling/appcaster/pkg/domain/types"
	"github.com/noah-nuebling/appcaster/pkg/utils/logging"
	"github.com/noah-nuebling/appcaster/pkg/utils/safe"
	"google.golang.org/api/option"
)

const (
	feedContentType  = "application/rss+xml; charset=utf-8"
	feedCacheControl = "no-cache, max-age=0"
)

// GCS uploads feed documents to a Cloud Storage bucket. Objects are named
// <prefix>/<name> and overwritten on every run; documents are uploaded under a
// temporary name first and copied into place on commit.
type GCS struct {
	client *storage.Client
	bucket string
	prefix string
}

var _ interfaces.Publisher = (*GCS)(nil)

func NewGCS(ctx context.Context, bucket, prefix string, opts ...option.ClientOption) (*GCS, error) {
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create Cloud Storage client",
			goerr.T(types.ErrTagPublish),
			goerr.V("bucket", bucket),
		)
	}

	return &GCS{
		client: client,
		bucket: bucket,
		prefix: prefix,
	}, nil
}

func (x *GCS) objectName(name string) string {
	if x.prefix == "" {
		return name
	}
	return path.Join(x.prefix, name)
}

func (x *GCS) stagingName(objName string) string {
	return objName + ".staging-" + uuid.NewString()
}

type stagedObject struct {
	name    string
	tmp     string
	size    int
	prev    []byte
	existed bool
}

type gcsStaging struct {
	gcs     *GCS
	objects []*stagedObject
}

var _ interfaces.Staging = (*gcsStaging)(nil)

// Stage uploads every document under a temporary object name next to its target.
func (x *GCS) Stage(ctx context.Context, docs []*model.Document) (interfaces.Staging, error) {
	staging := &gcsStaging{gcs: x}
	for _, doc := range docs {
		obj := &stagedObject{name: x.objectName(doc.Name), size: len(doc.Body)}
		obj.tmp = x.stagingName(obj.name)

		prev, err := x.download(ctx, obj.name)
		switch {
		case err == nil:
			obj.prev, obj.existed = prev, true
		case errors.Is(err, storage.ErrObjectNotExist):
		default:
			staging.Discard(ctx)
			return nil, goerr.Wrap(err, "failed to read existing feed",
				goerr.T(types.ErrTagPublish),
				goerr.V("bucket", x.bucket),
				goerr.V("object", obj.name),
			)
		}

		if err := x.upload(ctx, obj.tmp, doc.Body); err != nil {
			staging.Discard(ctx)
			return nil, err
		}
		staging.objects = append(staging.objects, obj)
	}
	return staging, nil
}

// Commit copies the staged objects onto their final names. Objects copied before a
// failure get their previous content back.
func (x *gcsStaging) Commit(ctx context.Context) error {
	bucket := x.gcs.client.Bucket(x.gcs.bucket)

	for i, obj := range x.objects {
		copier := bucket.Object(obj.name).CopierFrom(bucket.Object(obj.tmp))
		copier.ContentType = feedContentType
		copier.CacheControl = feedCacheControl

		if _, err := copier.Run(ctx); err != nil {
			x.restore(ctx, x.objects[:i])
			x.Discard(ctx)
			return goerr.Wrap(err, "failed to publish feed",
				goerr.T(types.ErrTagPublish),
				goerr.V("bucket", x.gcs.bucket),
				goerr.V("object", obj.name),
			)
		}
	}

	x.Discard(ctx)
	for _, obj := range x.objects {
		logging.From(ctx).Info("Uploaded feed", "bucket", x.gcs.bucket, "object", obj.name, "size", obj.size)
	}
	return nil
}

func (x *gcsStaging) Discard(ctx context.Context) {
	for _, obj := range x.objects {
		x.gcs.delete(ctx, obj.tmp)
	}
}

func (x *gcsStaging) restore(ctx context.Context, objects []*stagedObject) {
	for _, obj := range objects {
		if !obj.existed {
			x.gcs.delete(ctx, obj.name)
			continue
		}
		if err := x.gcs.upload(ctx, obj.name, obj.prev); err != nil {
			logging.From(ctx).Warn("Failed to restore feed", "bucket", x.gcs.bucket, "object", obj.name, "error", err)
		}
	}
}

func (x *GCS) download(ctx context.Context, objName string) ([]byte, error) {
	r, err := x.client.Bucket(x.bucket).Object(objName).NewReader(ctx)
	if err != nil {
		return nil, err
	}
	defer safe.Close(r)
	return io.ReadAll(r)
}

func (x *GCS) upload(ctx context.Context, objName string, body []byte) error {
	// cancelling the writer context aborts the upload instead of committing a partial object
	wctx, cancel := context.WithCancel(ctx)
	defer cancel()

	w := x.client.Bucket(x.bucket).Object(objName).NewWriter(wctx)
	w.ContentType = feedContentType
	w.CacheControl = feedCacheControl

	if _, err := w.Write(body); err != nil {
		cancel()
		safe.Close(w)
		return goerr.Wrap(err, "failed to upload feed",
			goerr.T(types.ErrTagPublish),
			goerr.V("bucket", x.bucket),
			goerr.V("object", objName),
		)
	}
	if err := w.Close(); err != nil {
		return goerr.Wrap(err, "failed to finalize feed upload",
			goerr.T(types.ErrTagPublish),
			goerr.V("bucket", x.bucket),
			goerr.V("object", objName),
		)
	}
	return nil
}

func (x *GCS) delete(ctx context.Context, objName string) {
	if err := x.client.Bucket(x.bucket).Object(objName).Delete(ctx); err != nil {
		logging.From(ctx).Warn("Failed to delete object", "bucket", x.bucket, "object", objName, "error", err)
	}
}

func (x *GCS) Close() error {
	return x.client.Close()
}
