package model

import (
	"regexp"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/noah-nuebling/appcaster/pkg/domain/types"
)

// SignatureAttr is one name="value" pair emitted by a signer, e.g. sparkle:edSignature.
type SignatureAttr struct {
	Name  string
	Value string
}

// Signature is the detached signature of an archive as enclosure attributes. The
// attribute names and values are opaque and copied into the feed as they are.
type Signature struct {
	Attrs []SignatureAttr
}

var ptnSignatureAttr = regexp.MustCompile(`([A-Za-z_][A-Za-z0-9_.:-]*)="([^"]*)"`)

// ParseSignature splits a signer output line such as
// `sparkle:edSignature="abc==" length="1234"` into attributes.
func ParseSignature(line string) (*Signature, error) {
	line = strings.TrimSpace(line)
	matches := ptnSignatureAttr.FindAllStringSubmatch(line, -1)
	if len(matches) == 0 {
		return nil, goerr.New("no attributes in signer output",
			goerr.T(types.ErrTagSigning),
			goerr.V("output", line),
		)
	}

	sig := &Signature{}
	for _, m := range matches {
		sig.Attrs = append(sig.Attrs, SignatureAttr{Name: m[1], Value: m[2]})
	}
	return sig, nil
}

// Get returns the value of the named attribute, or "" if absent.
func (x *Signature) Get(name string) string {
	for _, attr := range x.Attrs {
		if attr.Name == name {
			return attr.Value
		}
	}
	return ""
}
