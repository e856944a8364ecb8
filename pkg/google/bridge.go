package google

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/studianta/studianta/pkg/calendar_sync"
	"github.com/studianta/studianta/pkg/custom_event"
	"github.com/studianta/studianta/pkg/subject"
	"github.com/studianta/studianta/pkg/user"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gcal "google.golang.org/api/calendar/v3"
)

const (
	PrimaryCalendar = "primary"
	CallbackPath    = "/api/integrations/google/auth/callback"
	stateSeparator  = "|"
)

type Config struct {
	ClientId     string
	ClientSecret string
	// Host is the public base URL the OAuth callback is served on.
	Host       string
	CalendarId string
}

// Bridge pushes calendar data to Google Calendar. It implements calendar_sync.Bridge.
type Bridge struct {
	store       Store
	oauthConfig *oauth2.Config
	eventsAPI   EventsAPIFactory
	calendarId  string
}

func NewBridge(store Store, cfg Config, eventsAPI EventsAPIFactory) *Bridge {
	oauthConfig := &oauth2.Config{
		ClientID:     cfg.ClientId,
		ClientSecret: cfg.ClientSecret,
		Endpoint:     google.Endpoint,
		RedirectURL:  strings.TrimSuffix(cfg.Host, "/") + CallbackPath,
		Scopes:       []string{gcal.CalendarEventsScope},
	}
	calendarId := cfg.CalendarId
	if calendarId == "" {
		calendarId = PrimaryCalendar
	}
	if eventsAPI == nil {
		eventsAPI = NewEventsAPI
	}
	return &Bridge{store: store, oauthConfig: oauthConfig, eventsAPI: eventsAPI, calendarId: calendarId}
}

func (b *Bridge) IsConnected(ctx context.Context, userId int) (bool, error) {
	token, err := b.store.LoadTokens(ctx, userId)
	if err != nil {
		return false, err
	}
	return token != nil, nil
}

func (b *Bridge) AuthURL(ctx context.Context, userId int, finalUrl string) (string, error) {
	if finalUrl == "" {
		finalUrl = calendar_sync.DefaultFinalUrl
	}
	nonce := uuid.New().String()
	if err := b.store.ReplaceNonce(ctx, userId, nonce); err != nil {
		return "", err
	}
	log.Tracef("redirecting user %d to Google auth with nonce %s", userId, nonce)
	return b.oauthConfig.AuthCodeURL(finalUrl+stateSeparator+nonce, oauth2.AccessTypeOffline, oauth2.ApprovalForce), nil
}

func (b *Bridge) HandleCallback(ctx context.Context, code, state string) (string, error) {
	// the nonce never contains the separator, the final URL might
	i := strings.LastIndex(state, stateSeparator)
	if i < 0 {
		return "", calendar_sync.ErrInvalidState
	}
	finalUrl, nonce := state[:i], state[i+len(stateSeparator):]
	if finalUrl == "" || nonce == "" {
		return "", calendar_sync.ErrInvalidState
	}

	token, err := b.oauthConfig.Exchange(ctx, code)
	if err != nil {
		err = fmt.Errorf("unable to exchange code for token: %w", err)
		log.Error(err)
		return finalUrl, err
	}
	if err := b.store.SaveTokensByNonce(ctx, nonce, token); err != nil {
		return finalUrl, err
	}
	log.Debugf("stored Google auth token for nonce %s", nonce)
	return finalUrl, nil
}

func (b *Bridge) SaveTokens(ctx context.Context, userId int, token *oauth2.Token) error {
	return b.store.SaveTokens(ctx, userId, token)
}

func (b *Bridge) LoadTokens(ctx context.Context, userId int) (*oauth2.Token, error) {
	return b.store.LoadTokens(ctx, userId)
}

func (b *Bridge) Disconnect(ctx context.Context, userId int) error {
	return b.store.Delete(ctx, userId)
}

// SyncEvents creates or updates one Google event per milestone, custom event and class
// schedule. Failures of single events are collected in the result; the run stops early
// only when the context ends.
func (b *Bridge) SyncEvents(
	ctx context.Context,
	userId int,
	subjects []subject.Subject,
	customEvents []custom_event.Event,
) (calendar_sync.Result, error) {
	var result calendar_sync.Result

	token, err := b.store.LoadTokens(ctx, userId)
	if err != nil {
		return result, err
	}
	if token == nil {
		return result, calendar_sync.ErrUnauthenticated
	}

	tokenSource := oauth2.ReuseTokenSource(token, b.oauthConfig.TokenSource(ctx, token))
	api, err := b.eventsAPI(ctx, oauth2.NewClient(ctx, tokenSource))
	if err != nil {
		return result, err
	}
	links, err := b.store.EventLinks(ctx, userId)
	if err != nil {
		return result, err
	}

	for _, pe := range pushEvents(subjects, customEvents, timeZoneOf(ctx)) {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if googleId, ok := links[pe.sourceId]; ok {
			if _, err := api.Update(ctx, b.calendarId, googleId, pe.event); err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", pe.sourceId, err))
				continue
			}
			result.Updated++
			continue
		}

		created, err := api.Insert(ctx, b.calendarId, pe.event)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", pe.sourceId, err))
			continue
		}
		result.Created++
		if err := b.store.SaveEventLink(ctx, userId, pe.sourceId, created.Id); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", pe.sourceId, err))
		}
	}

	b.persistRefreshedToken(ctx, userId, token, tokenSource)
	if len(result.Errors) > 0 {
		log.Warnf("Google sync for user %d finished with %d failed events", userId, len(result.Errors))
	}
	return result, nil
}

func (b *Bridge) persistRefreshedToken(ctx context.Context, userId int, old *oauth2.Token, source oauth2.TokenSource) {
	fresh, err := source.Token()
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) {
			log.Warnf("Google token of user %d can no longer be refreshed: %v", userId, err)
		}
		return
	}
	if fresh.AccessToken == old.AccessToken {
		return
	}
	if err := b.store.SaveTokens(ctx, userId, fresh); err != nil {
		log.Warnf("failed to persist refreshed Google token of user %d: %v", userId, err)
	}
}

func timeZoneOf(ctx context.Context) string {
	u, err := user.CurrentUser(ctx)
	if err != nil || u.Timezone == "" {
		return "UTC"
	}
	return u.Timezone
}
