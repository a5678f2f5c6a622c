package config

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/m-mizutani/goerr/v2"
	"github.com/noah-nuebling/appcaster/pkg/domain/interfaces"
	"github.com/noah-nuebling/appcaster/pkg/domain/types"
	"github.com/noah-nuebling/appcaster/pkg/infra"
	"github.com/noah-nuebling/appcaster/pkg/infra/archive"
	"github.com/noah-nuebling/appcaster/pkg/infra/command"
	"github.com/noah-nuebling/appcaster/pkg/infra/markdown"
	"github.com/noah-nuebling/appcaster/pkg/infra/plist"
	"github.com/noah-nuebling/appcaster/pkg/infra/signer"
	"github.com/urfave/cli/v3"
)

const (
	ExtractorZip   = "zip"
	ExtractorDitto = "ditto"

	ManifestReaderPlist      = "plist"
	ManifestReaderPlistBuddy = "plistbuddy"

	NotesRendererMarkdown = "markdown"
	NotesRendererPandoc   = "pandoc"
)

// Tools selects the implementation of each pipeline stage. External tools run
// with the project root as working directory.
type Tools struct {
	signUpdatePath string
	signingKeyFile string
	extractor      string
	dittoPath      string
	manifestReader string
	plistBuddyPath string
	notesRenderer  string
	pandocPath     string
}

func (x *Tools) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "sign-update-path",
			Usage:       "Path to Sparkle's sign_update tool, relative to the root",
			Category:    "Tools",
			Value:       signer.DefaultSignUpdatePath,
			Destination: &x.signUpdatePath,
			Sources:     cli.EnvVars("APPCASTER_SIGN_UPDATE_PATH"),
		},
		&cli.StringFlag{
			Name:        "signing-key-file",
			Usage:       "File with a base64 EdDSA private key; signs in-process instead of running sign_update",
			Category:    "Tools",
			Destination: &x.signingKeyFile,
			Sources:     cli.EnvVars("APPCASTER_SIGNING_KEY_FILE"),
		},
		&cli.StringFlag{
			Name:        "extractor",
			Usage:       "Archive extractor [zip|ditto]",
			Category:    "Tools",
			Value:       ExtractorZip,
			Destination: &x.extractor,
			Sources:     cli.EnvVars("APPCASTER_EXTRACTOR"),
		},
		&cli.StringFlag{
			Name:        "ditto-path",
			Usage:       "Path to ditto",
			Category:    "Tools",
			Value:       archive.DefaultDittoPath,
			Destination: &x.dittoPath,
			Sources:     cli.EnvVars("APPCASTER_DITTO_PATH"),
		},
		&cli.StringFlag{
			Name:        "manifest-reader",
			Usage:       "Info.plist reader [plist|plistbuddy]",
			Category:    "Tools",
			Value:       ManifestReaderPlist,
			Destination: &x.manifestReader,
			Sources:     cli.EnvVars("APPCASTER_MANIFEST_READER"),
		},
		&cli.StringFlag{
			Name:        "plistbuddy-path",
			Usage:       "Path to PlistBuddy",
			Category:    "Tools",
			Value:       plist.DefaultPlistBuddyPath,
			Destination: &x.plistBuddyPath,
			Sources:     cli.EnvVars("APPCASTER_PLISTBUDDY_PATH"),
		},
		&cli.StringFlag{
			Name:        "notes-renderer",
			Usage:       "Release notes renderer [markdown|pandoc]",
			Category:    "Tools",
			Value:       NotesRendererMarkdown,
			Destination: &x.notesRenderer,
			Sources:     cli.EnvVars("APPCASTER_NOTES_RENDERER"),
		},
		&cli.StringFlag{
			Name:        "pandoc-path",
			Usage:       "Path to pandoc",
			Category:    "Tools",
			Value:       markdown.DefaultPandocPath,
			Destination: &x.pandocPath,
			Sources:     cli.EnvVars("APPCASTER_PANDOC_PATH"),
		},
	}
}

// Options builds the client options of the selected tools. root is the working
// directory of external tools.
func (x *Tools) Options(root string) ([]infra.Option, error) {
	runner := command.New(root)
	var options []infra.Option

	switch x.extractor {
	case ExtractorZip:
		options = append(options, infra.WithExtractor(archive.NewZip()))
	case ExtractorDitto:
		options = append(options, infra.WithExtractor(archive.NewDitto(runner, x.dittoPath)))
	default:
		return nil, invalidChoice("extractor", x.extractor)
	}

	switch x.manifestReader {
	case ManifestReaderPlist:
		options = append(options, infra.WithManifestReader(plist.New()))
	case ManifestReaderPlistBuddy:
		options = append(options, infra.WithManifestReader(plist.NewPlistBuddy(runner, x.plistBuddyPath)))
	default:
		return nil, invalidChoice("manifest-reader", x.manifestReader)
	}

	switch x.notesRenderer {
	case NotesRendererMarkdown:
		options = append(options, infra.WithNotesRenderer(markdown.New()))
	case NotesRendererPandoc:
		options = append(options, infra.WithNotesRenderer(markdown.NewPandoc(runner, x.pandocPath)))
	default:
		return nil, invalidChoice("notes-renderer", x.notesRenderer)
	}

	s, err := x.newSigner(runner, root)
	if err != nil {
		return nil, err
	}
	options = append(options, infra.WithSigner(s))

	return options, nil
}

func (x *Tools) newSigner(runner command.Runner, root string) (interfaces.Signer, error) {
	if x.signingKeyFile == "" {
		return signer.NewCommand(runner, x.signUpdatePath), nil
	}

	path := x.signingKeyFile
	if !filepath.IsAbs(path) {
		path = filepath.Join(root, path)
	}
	// #nosec G304
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read signing key file",
			goerr.T(types.ErrTagInvalidOption),
			goerr.V("path", path),
		)
	}

	return signer.NewEd25519(types.SigningKey(raw))
}

func invalidChoice(flag, value string) error {
	return goerr.New("invalid option value",
		goerr.T(types.ErrTagInvalidOption),
		goerr.V("flag", flag),
		goerr.V("value", value),
	)
}

func (x *Tools) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("SignUpdatePath", x.signUpdatePath),
		slog.Bool("SigningKey", x.signingKeyFile != ""),
		slog.String("Extractor", x.extractor),
		slog.String("ManifestReader", x.manifestReader),
		slog.String("NotesRenderer", x.notesRenderer),
	)
}
