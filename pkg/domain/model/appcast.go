package model

import (
	"bytes"
	"encoding/xml"

	"github.com/m-mizutani/goerr/v2"
	"github.com/noah-nuebling/appcaster/pkg/domain/types"
)

const (
	SparkleNamespace    = "http://www.andymatuschak.org/xml-namespaces/sparkle"
	DublinCoreNamespace = "http://purl.org/dc/elements/1.1/"
)

// ChannelMeta is the fixed header of one appcast document.
type ChannelMeta struct {
	Title       string
	Link        string
	Description string
	Language    string
}

// Appcast is an RSS 2.0 document with Sparkle extensions.
type Appcast struct {
	XMLName      xml.Name       `xml:"rss"`
	Version      string         `xml:"version,attr"`
	XMLNSSparkle string         `xml:"xmlns:sparkle,attr"`
	XMLNSDC      string         `xml:"xmlns:dc,attr"`
	Channel      AppcastChannel `xml:"channel"`
}

type AppcastChannel struct {
	Title       string        `xml:"title"`
	Link        string        `xml:"link"`
	Description string        `xml:"description"`
	Language    string        `xml:"language"`
	Items       []AppcastItem `xml:"item"`
}

type AppcastItem struct {
	Title                string           `xml:"title"`
	PubDate              string           `xml:"pubDate"`
	MinimumSystemVersion string           `xml:"sparkle:minimumSystemVersion"`
	Description          AppcastCDATA     `xml:"description"`
	Enclosure            AppcastEnclosure `xml:"enclosure"`
}

type AppcastCDATA struct {
	Text string `xml:",cdata"`
}

// AppcastEnclosure keeps attribute order url, version, short version, signature, type.
type AppcastEnclosure struct {
	URL                string     `xml:"url,attr"`
	Version            string     `xml:"sparkle:version,attr"`
	ShortVersionString string     `xml:"sparkle:shortVersionString,attr"`
	Signature          []xml.Attr `xml:",any,attr"`
	Type               string     `xml:"type,attr"`
}

// NewAppcast builds a document from items, keeping their order.
func NewAppcast(meta ChannelMeta, items []*FeedItem) *Appcast {
	doc := &Appcast{
		Version:      "2.0",
		XMLNSSparkle: SparkleNamespace,
		XMLNSDC:      DublinCoreNamespace,
		Channel: AppcastChannel{
			Title:       meta.Title,
			Link:        meta.Link,
			Description: meta.Description,
			Language:    meta.Language,
		},
	}

	for _, item := range items {
		enclosure := AppcastEnclosure{
			URL:                item.URL,
			Version:            item.Version,
			ShortVersionString: item.ShortVersion,
			Type:               item.MIMEType,
		}
		for _, attr := range item.Signature.Attrs {
			enclosure.Signature = append(enclosure.Signature, xml.Attr{
				Name:  xml.Name{Local: attr.Name},
				Value: attr.Value,
			})
		}

		doc.Channel.Items = append(doc.Channel.Items, AppcastItem{
			Title:                item.Title,
			PubDate:              item.PublishedAt,
			MinimumSystemVersion: item.MinimumSystemVersion,
			Description:          AppcastCDATA{Text: item.NotesHTML},
			Enclosure:            enclosure,
		})
	}

	return doc
}

// Marshal serializes the document with an XML declaration. Output is deterministic.
func (x *Appcast) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)

	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(x); err != nil {
		return nil, goerr.Wrap(err, "failed to encode appcast",
			goerr.T(types.ErrTagRender),
			goerr.V("title", x.Channel.Title),
		)
	}
	if err := enc.Close(); err != nil {
		return nil, goerr.Wrap(err, "failed to flush appcast", goerr.T(types.ErrTagRender))
	}
	buf.WriteString("\n")

	return buf.Bytes(), nil
}

// AppcastEntry is an item read back from an existing appcast document.
type AppcastEntry struct {
	Title                string
	PubDate              string
	MinimumSystemVersion string
	Version              string
	ShortVersion         string
	URL                  string
	Length               string
	Type                 string
}
