package markdown

import (
	"context"
	"strings"

	"github.com/noah-nuebling/appcaster/pkg/domain/interfaces"
	"github.com/russross/blackfriday/v2"
)

// Renderer converts release notes with blackfriday using the extensions GitHub
// release bodies rely on (tables, fenced code, autolinks, strikethrough).
type Renderer struct {
	extensions blackfriday.Extensions
}

var _ interfaces.NotesRenderer = (*Renderer)(nil)

func New() *Renderer {
	return &Renderer{
		extensions: blackfriday.CommonExtensions | blackfriday.HardLineBreak,
	}
}

func (x *Renderer) RenderNotes(ctx context.Context, markdown string) (string, error) {
	// GitHub stores release bodies with CRLF line endings
	src := strings.ReplaceAll(markdown, "\r\n", "\n")
	html := blackfriday.Run([]byte(src), blackfriday.WithExtensions(x.extensions))
	return string(html), nil
}
