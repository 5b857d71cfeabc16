package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/nbessler/graphtutorial/internal/auth"
	"github.com/nbessler/graphtutorial/internal/config"
	"github.com/nbessler/graphtutorial/internal/graph"
)

// appScopes is the resource-wide scope set for the client-credentials
// grant; the effective roles come from the app registration, not from
// here.
var appScopes = []string{"https://graph.microsoft.com/.default"}

// session ties one interactive run together: the loaded settings, the
// console, and the Graph clients built from them. The app-only client is
// constructed on first use so user mode works without a client secret
// until an app-only option is chosen.
type session struct {
	cfg *config.Config
	in  *bufio.Scanner
	out io.Writer

	userClient *graph.Client
	appClient  *graph.Client
}

func newSession(cfg *config.Config, in io.Reader, out io.Writer) *session {
	return &session{cfg: cfg, in: bufio.NewScanner(in), out: out}
}

// ensureAppClient lazily builds the app-only client.
func (s *session) ensureAppClient() (*graph.Client, error) {
	if s.appClient != nil {
		return s.appClient, nil
	}
	if err := s.cfg.ForAppAuth(); err != nil {
		return nil, fmt.Errorf("%w: %v", graph.ErrNotAuthenticated, err)
	}
	source, err := auth.NewClientSecretSource(s.cfg.ClientID, s.cfg.TenantID, s.cfg.ClientSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", graph.ErrNotAuthenticated, err)
	}
	s.appClient = graph.NewClient(source, appScopes)
	return s.appClient, nil
}

// displayToken prints the raw access token for the given client, forcing
// an acquisition if none is cached.
func (s *session) displayToken(ctx context.Context, client *graph.Client) error {
	token, err := client.Token(ctx)
	if err != nil {
		return fmt.Errorf("getting access token: %w", err)
	}
	fmt.Fprintf(s.out, "Access token: %s\n", token.Value)
	return nil
}

// makeGraphCall is a scratch action for experimenting with arbitrary
// Graph requests.
func (s *session) makeGraphCall(context.Context) error {
	// INSERT YOUR CODE HERE
	return nil
}

// loadConfig reads the settings file named by --config.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("unable to read OAuth configuration, make sure %s is present and well formed: %w", configPath, err)
	}
	return cfg, nil
}
