package calendar_sync

import (
	"context"
	"errors"

	"github.com/studianta/studianta/pkg/custom_event"
	"github.com/studianta/studianta/pkg/subject"
	"golang.org/x/oauth2"
)

var (
	ErrUnauthenticated = errors.New("user is unauthenticated, authentication is required")
	ErrSyncInProgress  = errors.New("calendar sync already in progress")
	ErrInvalidState    = errors.New("invalid oauth state")
)

// DefaultFinalUrl is where the OAuth callback lands when login named no final URL.
const DefaultFinalUrl = "/"

// Result summarizes one push to the external calendar. Errors holds the per-event
// failures that did not abort the run.
type Result struct {
	Created int
	Updated int
	Errors  []string
}

// Bridge is the boundary to an external calendar provider.
type Bridge interface {
	IsConnected(ctx context.Context, userId int) (bool, error)
	// AuthURL starts the OAuth flow. finalUrl is where the user lands once the callback is handled.
	AuthURL(ctx context.Context, userId int, finalUrl string) (string, error)
	// HandleCallback completes the OAuth flow and returns the finalUrl passed to AuthURL.
	HandleCallback(ctx context.Context, code, state string) (string, error)
	SaveTokens(ctx context.Context, userId int, token *oauth2.Token) error
	// LoadTokens returns nil without error when the user never connected.
	LoadTokens(ctx context.Context, userId int) (*oauth2.Token, error)
	SyncEvents(ctx context.Context, userId int, subjects []subject.Subject, customEvents []custom_event.Event) (Result, error)
	Disconnect(ctx context.Context, userId int) error
}
