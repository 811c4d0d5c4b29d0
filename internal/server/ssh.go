// Package server serves the terminal viewer over SSH
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	bm "github.com/charmbracelet/wish/bubbletea"
	"github.com/charmbracelet/wish/logging"
	gossh "golang.org/x/crypto/ssh"

	"github.com/bnema/zoompan/internal/canvas"
	"github.com/bnema/zoompan/internal/config"
	"github.com/bnema/zoompan/internal/input"
	"github.com/bnema/zoompan/internal/logger"
	"github.com/bnema/zoompan/internal/ui"
)

const shutdownTimeout = 5 * time.Second

// ErrNoAuthorizedKeys is returned when key checking is on but no key was loaded
var ErrNoAuthorizedKeys = errors.New("no authorized keys")

// Server runs one viewer per SSH session. Every session gets its own scene
// and a copy of the option store, so toggles in one session do not leak
// into another.
type Server struct {
	cfg     config.ServerConfig
	viewer  config.ViewerConfig
	options *config.Store

	authorized []ssh.PublicKey
	sshServer  *ssh.Server

	mu       sync.Mutex
	sessions map[string]ssh.Session
}

// New creates an SSH server. Unless cfg.AllowAnyKey is set, the keys in
// cfg.AuthorizedKeysPath are the only ones accepted.
func New(cfg config.ServerConfig, viewer config.ViewerConfig, options *config.Store) (*Server, error) {
	s := &Server{
		cfg:      cfg,
		viewer:   viewer,
		options:  options,
		sessions: make(map[string]ssh.Session),
	}

	if !cfg.AllowAnyKey {
		keys, err := LoadAuthorizedKeys(cfg.AuthorizedKeysPath)
		if err != nil {
			return nil, err
		}
		if len(keys) == 0 {
			return nil, fmt.Errorf("%w in %q", ErrNoAuthorizedKeys, cfg.AuthorizedKeysPath)
		}
		s.authorized = keys
	}

	srv, err := wish.NewServer(
		wish.WithAddress(net.JoinHostPort(cfg.BindAddress, strconv.Itoa(cfg.Port))),
		wish.WithHostKeyPath(cfg.HostKeyPath),
		wish.WithPublicKeyAuth(s.publicKeyAuth),
		wish.WithMiddleware(
			bm.Middleware(s.teaHandler),
			s.sessionLimit(),
			activeterm.Middleware(),
			logging.MiddlewareWithLogger(logger.Logger),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create SSH server: %w", err)
	}
	s.sshServer = srv
	return s, nil
}

// LoadAuthorizedKeys parses an authorized_keys file
func LoadAuthorizedKeys(path string) ([]ssh.PublicKey, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read authorized keys: %w", err)
	}

	var keys []ssh.PublicKey
	for len(data) > 0 {
		key, _, _, rest, err := gossh.ParseAuthorizedKey(data)
		if err != nil {
			// Trailing comments and blank lines end up here
			break
		}
		keys = append(keys, key)
		data = rest
	}
	return keys, nil
}

// ListenAndServe serves until ctx is done, then shuts the server down
func (s *Server) ListenAndServe(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Infof("SSH server listening on %s", s.sshServer.Addr)
		errCh <- s.sshServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			return fmt.Errorf("SSH server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down SSH server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.sshServer.Shutdown(shutdownCtx); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
		// Sessions still open after the timeout are cut
		logger.Warnf("graceful shutdown failed: %v", err)
		_ = s.sshServer.Close()
	}
	return nil
}

// Sessions returns the number of active sessions
func (s *Server) Sessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *Server) publicKeyAuth(ctx ssh.Context, key ssh.PublicKey) bool {
	fingerprint := gossh.FingerprintSHA256(key)
	if s.cfg.AllowAnyKey {
		logger.Debugf("accepting key %s from %s", fingerprint, ctx.RemoteAddr())
		return true
	}
	for _, k := range s.authorized {
		if ssh.KeysEqual(k, key) {
			logger.Infof("authorized key %s user=%s addr=%s", fingerprint, ctx.User(), ctx.RemoteAddr())
			return true
		}
	}
	logger.Infof("denied key %s user=%s addr=%s", fingerprint, ctx.User(), ctx.RemoteAddr())
	return false
}

// sessionLimit rejects sessions beyond cfg.MaxSessions
func (s *Server) sessionLimit() wish.Middleware {
	return func(next ssh.Handler) ssh.Handler {
		return func(sess ssh.Session) {
			id := sess.Context().SessionID()

			s.mu.Lock()
			if s.cfg.MaxSessions > 0 && len(s.sessions) >= s.cfg.MaxSessions {
				s.mu.Unlock()
				logger.Infof("rejecting session, limit of %d reached addr=%s", s.cfg.MaxSessions, sess.RemoteAddr())
				wish.Fatalln(sess, "too many active sessions, try again later")
				return
			}
			s.sessions[id] = sess
			s.mu.Unlock()

			defer func() {
				s.mu.Lock()
				delete(s.sessions, id)
				s.mu.Unlock()
			}()
			next(sess)
		}
	}
}

// teaHandler builds the viewer for one session
func (s *Server) teaHandler(sess ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, _ := sess.Pty()
	geometry := ui.CellGeometry{CellWidth: s.viewer.CellWidth, CellHeight: s.viewer.CellHeight}
	store := s.options.Clone()

	world, err := canvas.NewWorld(s.viewer, store, input.Size{
		Width:  float64(pty.Window.Width) * geometry.CellWidth,
		Height: float64(pty.Window.Height) * geometry.CellHeight,
	})
	if err != nil {
		logger.Errorf("failed to build scene for %s: %v", sess.RemoteAddr(), err)
		wish.Fatalln(sess, "failed to start viewer")
		return nil, nil
	}

	logger.Infof("viewer started for %s (%dx%d)", sess.User(), pty.Window.Width, pty.Window.Height)
	return ui.NewViewer(world, store, geometry), ui.ProgramOptions()
}
