package signer_test

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/noah-nuebling/appcaster/pkg/domain/model"
	"github.com/noah-nuebling/appcaster/pkg/domain/types"
	"github.com/noah-nuebling/appcaster/pkg/infra/command"
	"github.com/noah-nuebling/appcaster/pkg/infra/signer"
	"github.com/noah-nuebling/appcaster/pkg/utils/testutil"
)

type runnerMock struct {
	out   string
	err   error
	calls [][]string
}

func (x *runnerMock) Run(ctx context.Context, stdin io.Reader, name string, args ...string) ([]byte, error) {
	x.calls = append(x.calls, append([]string{name}, args...))
	return []byte(x.out), x.err
}

func TestCommand(t *testing.T) {
	ctx := context.Background()

	t.Run("passes attributes through", func(t *testing.T) {
		mock := &runnerMock{out: "sparkle:edSignature=\"c2lnbmF0dXJl\" length=\"1234\"\n"}
		s := signer.NewCommand(mock, signer.DefaultSignUpdatePath)

		sig := gt.R1(s.SignArchive(ctx, "/tmp/work/App.zip")).NoError(t)
		gt.V(t, sig.Attrs).Equal([]model.SignatureAttr{
			{Name: "sparkle:edSignature", Value: "c2lnbmF0dXJl"},
			{Name: "length", Value: "1234"},
		})
		gt.V(t, mock.calls[0]).Equal([]string{signer.DefaultSignUpdatePath, "/tmp/work/App.zip"})
	})

	t.Run("tool failure", func(t *testing.T) {
		mock := &runnerMock{err: goerr.New("exit status 1")}
		_, err := signer.NewCommand(mock, "sign_update").SignArchive(ctx, "/tmp/App.zip")
		gt.Error(t, err)
		gt.True(t, goerr.HasTag(err, types.ErrTagSigning))
	})

	t.Run("output without attributes", func(t *testing.T) {
		mock := &runnerMock{out: "ERROR! Unable to access required key in the Keychain\n"}
		_, err := signer.NewCommand(mock, "sign_update").SignArchive(ctx, "/tmp/App.zip")
		gt.Error(t, err)
		gt.True(t, goerr.HasTag(err, types.ErrTagSigning))
	})
}

func TestEd25519(t *testing.T) {
	ctx := context.Background()
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	gt.NoError(t, err)

	archive := filepath.Join(t.TempDir(), "App.zip")
	body := []byte("zip archive body")
	gt.NoError(t, os.WriteFile(archive, body, 0644))

	keys := map[string]string{
		"seed":     base64.StdEncoding.EncodeToString(priv.Seed()),
		"full key": base64.StdEncoding.EncodeToString(priv),
	}
	for name, encoded := range keys {
		t.Run("signs with "+name, func(t *testing.T) {
			s := gt.R1(signer.NewEd25519(types.SigningKey(encoded + "\n"))).NoError(t)
			gt.V(t, s.PublicKey()).Equal(priv.Public().(ed25519.PublicKey))

			sig := gt.R1(s.SignArchive(ctx, archive)).NoError(t)
			gt.V(t, sig.Get(signer.AttrLength)).Equal("16")

			raw := gt.R1(base64.StdEncoding.DecodeString(sig.Get(signer.AttrEdSignature))).NoError(t)
			gt.True(t, ed25519.Verify(s.PublicKey(), body, raw))
		})
	}

	t.Run("invalid keys", func(t *testing.T) {
		for _, key := range []string{"not base64!", base64.StdEncoding.EncodeToString([]byte("short"))} {
			_, err := signer.NewEd25519(types.SigningKey(key))
			gt.Error(t, err)
			gt.True(t, goerr.HasTag(err, types.ErrTagInvalidOption))
		}
	})

	t.Run("missing archive", func(t *testing.T) {
		s := gt.R1(signer.NewEd25519(types.SigningKey(keys["seed"]))).NoError(t)
		_, err := s.SignArchive(ctx, filepath.Join(t.TempDir(), "missing.zip"))
		gt.Error(t, err)
		gt.True(t, goerr.HasTag(err, types.ErrTagSigning))
	})
}

func TestSignUpdateCommand(t *testing.T) {
	toolPath := testutil.GetEnvOrSkip(t, "TEST_SIGN_UPDATE_PATH")

	archive := filepath.Join(t.TempDir(), "App.zip")
	gt.NoError(t, os.WriteFile(archive, []byte("zip archive body"), 0644))

	s := signer.NewCommand(command.New(filepath.Dir(archive)), toolPath)
	sig := gt.R1(s.SignArchive(context.Background(), archive)).NoError(t)
	gt.V(t, sig.Get("length")).Equal("16")
}
