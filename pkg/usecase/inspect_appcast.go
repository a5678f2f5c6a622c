package usecase

import (
	"bytes"
	"context"
	"encoding/xml"
	"io"
	"os"
	"path/filepath"

	"github.com/m-mizutani/goerr/v2"
	"github.com/mmcdole/gofeed"
	"github.com/noah-nuebling/appcaster/pkg/domain/model"
	"github.com/noah-nuebling/appcaster/pkg/domain/types"
	"github.com/noah-nuebling/appcaster/pkg/utils/logging"
)

const sparkleExtension = "sparkle"

// InspectAppcast reads an appcast file back and returns its items in document order.
func (x *UseCase) InspectAppcast(ctx context.Context, path string) ([]*model.AppcastEntry, error) {
	raw, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read appcast", goerr.T(types.ErrTagParse), goerr.V("path", path))
	}

	feed, err := gofeed.NewParser().Parse(bytes.NewReader(raw))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to parse appcast", goerr.T(types.ErrTagParse), goerr.V("path", path))
	}

	versions, err := readEnclosureVersions(raw)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read enclosures", goerr.T(types.ErrTagParse), goerr.V("path", path))
	}

	var entries []*model.AppcastEntry
	for i, item := range feed.Items {
		entry := &model.AppcastEntry{
			Title:   item.Title,
			PubDate: item.Published,
		}
		if ext, ok := item.Extensions[sparkleExtension]; ok {
			if values := ext["minimumSystemVersion"]; len(values) > 0 {
				entry.MinimumSystemVersion = values[0].Value
			}
		}
		if len(item.Enclosures) > 0 {
			entry.URL = item.Enclosures[0].URL
			entry.Length = item.Enclosures[0].Length
			entry.Type = item.Enclosures[0].Type
		}
		if i < len(versions) {
			entry.Version = versions[i].version
			entry.ShortVersion = versions[i].shortVersion
		}
		entries = append(entries, entry)
	}

	logging.From(ctx).Debug("Inspected appcast", "path", path, "title", feed.Title, "items", len(entries))
	return entries, nil
}

type enclosureVersion struct {
	version      string
	shortVersion string
}

// readEnclosureVersions collects the Sparkle version attributes of every enclosure in
// document order. Generic feed parsers only keep url, length and type.
func readEnclosureVersions(raw []byte) ([]enclosureVersion, error) {
	var versions []enclosureVersion
	dec := xml.NewDecoder(bytes.NewReader(raw))
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return versions, nil
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to decode appcast")
		}

		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "enclosure" {
			continue
		}

		var v enclosureVersion
		for _, attr := range start.Attr {
			if attr.Name.Space != model.SparkleNamespace {
				continue
			}
			switch attr.Name.Local {
			case "version":
				v.version = attr.Value
			case "shortVersionString":
				v.shortVersion = attr.Value
			}
		}
		versions = append(versions, v)
	}
}
