package infra

import (
	"net/http"

	"github.com/noah-nuebling/appcaster/pkg/domain/interfaces"
	"github.com/noah-nuebling/appcaster/pkg/infra/archive"
	"github.com/noah-nuebling/appcaster/pkg/infra/markdown"
	"github.com/noah-nuebling/appcaster/pkg/infra/plist"
)

type Clients struct {
	releaseLister  interfaces.ReleaseLister
	sourceControl  interfaces.SourceControl
	httpClient     HTTPClient
	extractor      interfaces.Extractor
	manifestReader interfaces.ManifestReader
	signer         interfaces.Signer
	notesRenderer  interfaces.NotesRenderer
	publishers     []interfaces.Publisher
}

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type Option func(*Clients)

func New(options ...Option) *Clients {
	client := &Clients{
		httpClient:     http.DefaultClient,
		extractor:      archive.NewZip(),
		manifestReader: plist.New(),
		notesRenderer:  markdown.New(),
	}

	for _, opt := range options {
		opt(client)
	}

	return client
}

func (x *Clients) ReleaseLister() interfaces.ReleaseLister {
	return x.releaseLister
}
func (x *Clients) SourceControl() interfaces.SourceControl {
	return x.sourceControl
}
func (x *Clients) HTTPClient() HTTPClient {
	return x.httpClient
}
func (x *Clients) Extractor() interfaces.Extractor {
	return x.extractor
}
func (x *Clients) ManifestReader() interfaces.ManifestReader {
	return x.manifestReader
}
func (x *Clients) Signer() interfaces.Signer {
	return x.signer
}
func (x *Clients) NotesRenderer() interfaces.NotesRenderer {
	return x.notesRenderer
}
func (x *Clients) Publishers() []interfaces.Publisher {
	return x.publishers
}

func WithReleaseLister(client interfaces.ReleaseLister) Option {
	return func(x *Clients) {
		x.releaseLister = client
	}
}

func WithSourceControl(client interfaces.SourceControl) Option {
	return func(x *Clients) {
		x.sourceControl = client
	}
}

func WithHTTPClient(client HTTPClient) Option {
	return func(x *Clients) {
		x.httpClient = client
	}
}

func WithExtractor(client interfaces.Extractor) Option {
	return func(x *Clients) {
		x.extractor = client
	}
}

func WithManifestReader(client interfaces.ManifestReader) Option {
	return func(x *Clients) {
		x.manifestReader = client
	}
}

func WithSigner(client interfaces.Signer) Option {
	return func(x *Clients) {
		x.signer = client
	}
}

func WithNotesRenderer(client interfaces.NotesRenderer) Option {
	return func(x *Clients) {
		x.notesRenderer = client
	}
}

// WithPublisher adds a destination for finished feed documents. It can be given
// more than once. Documents are staged on every publisher before any is committed,
// and publishers commit in the order given.
func WithPublisher(pub interfaces.Publisher) Option {
	return func(x *Clients) {
		x.publishers = append(x.publishers, pub)
	}
}
