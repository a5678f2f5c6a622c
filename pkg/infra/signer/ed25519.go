package signer

import (
	"context"
	"crypto/ed25519"
	"encoding/base64"
	"os"
	"strconv"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/noah-nuebling/appcaster/pkg/domain/interfaces"
	"github.com/noah-nuebling/appcaster/pkg/domain/model"
	"github.com/noah-nuebling/appcaster/pkg/domain/types"
)

const (
	AttrEdSignature = "sparkle:edSignature"
	AttrLength      = "length"
)

// Ed25519 produces the same attributes as sign_update from a Sparkle EdDSA private key.
type Ed25519 struct {
	key ed25519.PrivateKey
}

var _ interfaces.Signer = (*Ed25519)(nil)

// NewEd25519 accepts the base64 private key exported by Sparkle's generate_keys,
// either the 32 byte seed or the 64 byte seed+public key form.
func NewEd25519(encoded types.SigningKey) (*Ed25519, error) {
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(string(encoded)))
	if err != nil {
		return nil, goerr.Wrap(err, "signing key is not base64", goerr.T(types.ErrTagInvalidOption))
	}

	switch len(raw) {
	case ed25519.SeedSize:
		return &Ed25519{key: ed25519.NewKeyFromSeed(raw)}, nil
	case ed25519.PrivateKeySize:
		return &Ed25519{key: ed25519.NewKeyFromSeed(raw[:ed25519.SeedSize])}, nil
	default:
		return nil, goerr.New("invalid signing key size",
			goerr.T(types.ErrTagInvalidOption),
			goerr.V("size", len(raw)),
		)
	}
}

func (x *Ed25519) PublicKey() ed25519.PublicKey {
	return x.key.Public().(ed25519.PublicKey)
}

func (x *Ed25519) SignArchive(ctx context.Context, path string) (*model.Signature, error) {
	// #nosec G304
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read archive",
			goerr.T(types.ErrTagSigning),
			goerr.V("archive", path),
		)
	}

	sig := ed25519.Sign(x.key, data)
	return &model.Signature{
		Attrs: []model.SignatureAttr{
			{Name: AttrEdSignature, Value: base64.StdEncoding.EncodeToString(sig)},
			{Name: AttrLength, Value: strconv.Itoa(len(data))},
		},
	}, nil
}
