package google

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/exec"
	"runtime"
	"time"

	"golang.org/x/oauth2"
)

// ErrConsentTimeout is returned when the user does not finish the browser
// consent in time.
var ErrConsentTimeout = errors.New("timed out waiting for authorization")

const callbackPath = "/callback"

// ConsentFlow obtains a new token from the user.
type ConsentFlow interface {
	Authorize(ctx context.Context, conf *oauth2.Config) (*oauth2.Token, error)
}

// LoopbackConsent runs the installed-app flow: it serves a single callback on
// a random localhost port, sends the user to the authorization URL and
// exchanges the returned code.
type LoopbackConsent struct {
	// Timeout bounds the wait for the callback (default: 5m)
	Timeout time.Duration

	// Out receives the authorization URL (default: os.Stderr)
	Out io.Writer

	// OpenBrowser opens the authorization URL. Failures are only logged.
	OpenBrowser func(url string) error

	Logger *slog.Logger
}

type callbackResult struct {
	code string
	err  error
}

// Authorize implements ConsentFlow.
func (l *LoopbackConsent) Authorize(ctx context.Context, conf *oauth2.Config) (*oauth2.Token, error) {
	timeout := l.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	out := l.Out
	if out == nil {
		out = os.Stderr
	}
	logger := l.Logger
	if logger == nil {
		logger = slog.Default()
	}
	open := l.OpenBrowser
	if open == nil {
		open = openBrowser
	}

	state, err := randomState()
	if err != nil {
		return nil, err
	}

	listener, err := net.Listen("tcp", "localhost:0")
	if err != nil {
		return nil, fmt.Errorf("failed to listen for oauth callback: %w", err)
	}
	port := listener.Addr().(*net.TCPAddr).Port

	// Work on a copy, the redirect URL depends on the port.
	cfg := *conf
	cfg.RedirectURL = fmt.Sprintf("http://localhost:%d%s", port, callbackPath)

	results := make(chan callbackResult, 1)
	mux := http.NewServeMux()
	mux.HandleFunc(callbackPath, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		var res callbackResult
		switch {
		case q.Get("state") != state:
			res.err = errors.New("oauth callback state mismatch")
		case q.Get("error") != "":
			res.err = fmt.Errorf("authorization denied: %s", q.Get("error"))
		case q.Get("code") == "":
			res.err = errors.New("oauth callback without code")
		default:
			res.code = q.Get("code")
		}

		if res.err != nil {
			http.Error(w, res.err.Error(), http.StatusBadRequest)
		} else {
			fmt.Fprintln(w, "Authentication successful. You can close this window.")
		}

		select {
		case results <- res:
		default:
		}
	})

	server := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	serveErr := make(chan error, 1)
	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Debug("oauth callback server shutdown failed", "error", err)
		}
	}()

	authURL := cfg.AuthCodeURL(state, oauth2.AccessTypeOffline)
	fmt.Fprintf(out, "Please visit this URL to authorize access:\n%s\n", authURL)
	if err := open(authURL); err != nil {
		logger.Debug("failed to open browser", "error", err)
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	var code string
	select {
	case res := <-results:
		if res.err != nil {
			return nil, res.err
		}
		code = res.code
	case err := <-serveErr:
		return nil, fmt.Errorf("oauth callback server failed: %w", err)
	case <-timer.C:
		return nil, fmt.Errorf("%w after %s", ErrConsentTimeout, timeout)
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	tok, err := cfg.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange auth code: %w", err)
	}
	return tok, nil
}

func randomState() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate oauth state: %w", err)
	}
	return hex.EncodeToString(b), nil
}

func openBrowser(url string) error {
	switch runtime.GOOS {
	case "linux":
		return exec.Command("xdg-open", url).Start()
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start()
	case "darwin":
		return exec.Command("open", url).Start()
	default:
		return fmt.Errorf("unsupported platform %s", runtime.GOOS)
	}
}
