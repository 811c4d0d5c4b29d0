package server

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gossh "golang.org/x/crypto/ssh"

	"github.com/bnema/zoompan/internal/config"
)

func newSigner(t *testing.T) gossh.Signer {
	t.Helper()
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	signer, err := gossh.NewSignerFromKey(priv)
	require.NoError(t, err)
	return signer
}

func writeAuthorizedKeys(t *testing.T, keys ...gossh.PublicKey) string {
	t.Helper()
	var data []byte
	for _, k := range keys {
		data = append(data, gossh.MarshalAuthorizedKey(k)...)
	}
	data = append(data, []byte("# trailing comment\n")...)
	path := filepath.Join(t.TempDir(), "authorized_keys")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port
}

func testServerConfig(t *testing.T) config.ServerConfig {
	return config.ServerConfig{
		Port:        freePort(t),
		BindAddress: "127.0.0.1",
		HostKeyPath: filepath.Join(t.TempDir(), "host_ed25519"),
		MaxSessions: 1,
	}
}

func TestLoadAuthorizedKeys(t *testing.T) {
	a, b := newSigner(t), newSigner(t)
	path := writeAuthorizedKeys(t, a.PublicKey(), b.PublicKey())

	keys, err := LoadAuthorizedKeys(path)
	require.NoError(t, err)
	require.Len(t, keys, 2)
	assert.Equal(t, a.PublicKey().Marshal(), keys[0].Marshal())
	assert.Equal(t, b.PublicKey().Marshal(), keys[1].Marshal())

	keys, err = LoadAuthorizedKeys("")
	assert.NoError(t, err)
	assert.Empty(t, keys)

	_, err = LoadAuthorizedKeys(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestNewRequiresKeys(t *testing.T) {
	cfg := testServerConfig(t)
	store := config.NewStore(viper.New())

	_, err := New(cfg, config.DefaultConfig.Viewer, store)
	assert.ErrorIs(t, err, ErrNoAuthorizedKeys)

	cfg.AllowAnyKey = true
	s, err := New(cfg, config.DefaultConfig.Viewer, store)
	require.NoError(t, err)
	assert.Equal(t, 0, s.Sessions())
}

func TestServerAuthentication(t *testing.T) {
	allowed, denied := newSigner(t), newSigner(t)
	cfg := testServerConfig(t)
	cfg.AuthorizedKeysPath = writeAuthorizedKeys(t, allowed.PublicKey())

	s, err := New(cfg, config.DefaultConfig.Viewer, config.NewStore(viper.New()))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx) }()
	defer func() {
		cancel()
		assert.NoError(t, <-done)
	}()

	addr := net.JoinHostPort(cfg.BindAddress, strconv.Itoa(cfg.Port))
	dial := func(signer gossh.Signer) (*gossh.Client, error) {
		var (
			client *gossh.Client
			err    error
		)
		// The listener comes up asynchronously
		for i := 0; i < 50; i++ {
			client, err = gossh.Dial("tcp", addr, &gossh.ClientConfig{
				User:            "tester",
				Auth:            []gossh.AuthMethod{gossh.PublicKeys(signer)},
				HostKeyCallback: gossh.InsecureIgnoreHostKey(),
				Timeout:         time.Second,
			})
			if _, ok := err.(*net.OpError); !ok {
				break
			}
			time.Sleep(20 * time.Millisecond)
		}
		return client, err
	}

	client, err := dial(allowed)
	require.NoError(t, err)
	_ = client.Close()

	_, err = dial(denied)
	assert.Error(t, err)
}
