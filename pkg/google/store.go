package google

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
)

var ErrUnknownNonce = errors.New("unknown oauth nonce")

// Store keeps OAuth state and tokens, and the links between local records and the
// Google events created for them.
type Store interface {
	// ReplaceNonce drops any previous authorization of the user and records a new nonce.
	ReplaceNonce(ctx context.Context, userId int, nonce string) error
	// SaveTokensByNonce stores the tokens of the authorization started with nonce and
	// consumes the nonce.
	SaveTokensByNonce(ctx context.Context, nonce string, token *oauth2.Token) error
	SaveTokens(ctx context.Context, userId int, token *oauth2.Token) error
	LoadTokens(ctx context.Context, userId int) (*oauth2.Token, error)
	Delete(ctx context.Context, userId int) error
	EventLinks(ctx context.Context, userId int) (map[string]string, error)
	SaveEventLink(ctx context.Context, userId int, sourceId, googleEventId string) error
}

type PgStore struct {
	db *pgxpool.Pool
}

func NewPgStore(db *pgxpool.Pool) *PgStore {
	return &PgStore{db: db}
}

func (s *PgStore) ReplaceNonce(ctx context.Context, userId int, nonce string) error {
	_, err := s.db.Exec(ctx, `INSERT INTO google_calendar_auth (user_id, nonce) VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET nonce = EXCLUDED.nonce, access_token = NULL, refresh_token = NULL, expiry = NULL`,
		userId, nonce)
	if err != nil {
		err = fmt.Errorf("failed to store Google auth nonce for user %d: %w", userId, err)
		log.Error(err)
		return err
	}
	return nil
}

func (s *PgStore) SaveTokensByNonce(ctx context.Context, nonce string, token *oauth2.Token) error {
	tag, err := s.db.Exec(ctx, `UPDATE google_calendar_auth
		SET access_token = $1, refresh_token = $2, expiry = $3, nonce = NULL WHERE nonce = $4`,
		token.AccessToken, token.RefreshToken, expiryOf(token), nonce)
	if err != nil {
		err = fmt.Errorf("unable to store Google auth token for nonce: %w", err)
		log.Error(err)
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUnknownNonce
	}
	return nil
}

func (s *PgStore) SaveTokens(ctx context.Context, userId int, token *oauth2.Token) error {
	_, err := s.db.Exec(ctx, `INSERT INTO google_calendar_auth (user_id, access_token, refresh_token, expiry)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE SET access_token = EXCLUDED.access_token,
			refresh_token = EXCLUDED.refresh_token, expiry = EXCLUDED.expiry`,
		userId, token.AccessToken, token.RefreshToken, expiryOf(token))
	if err != nil {
		err = fmt.Errorf("unable to store Google auth token for user %d: %w", userId, err)
		log.Error(err)
		return err
	}
	return nil
}

func (s *PgStore) LoadTokens(ctx context.Context, userId int) (*oauth2.Token, error) {
	var accessToken, refreshToken *string
	var expiry *int64
	err := s.db.QueryRow(ctx, `SELECT access_token, refresh_token, expiry FROM google_calendar_auth WHERE user_id = $1`, userId).
		Scan(&accessToken, &refreshToken, &expiry)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		err = fmt.Errorf("unable to retrieve Google auth token: %w", err)
		log.Error(err)
		return nil, err
	}
	if accessToken == nil || *accessToken == "" {
		// authorization started but never completed
		return nil, nil
	}

	token := &oauth2.Token{AccessToken: *accessToken, TokenType: "Bearer"}
	if refreshToken != nil {
		token.RefreshToken = *refreshToken
	}
	if expiry != nil && *expiry > 0 {
		token.Expiry = time.Unix(*expiry, 0)
	}
	return token, nil
}

func (s *PgStore) Delete(ctx context.Context, userId int) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM google_calendar_event_link WHERE user_id = $1`, userId); err != nil {
		err = fmt.Errorf("failed to delete Google event links for user %d: %w", userId, err)
		log.Error(err)
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM google_calendar_auth WHERE user_id = $1`, userId); err != nil {
		err = fmt.Errorf("failed to delete Google auth row for user %d: %w", userId, err)
		log.Error(err)
		return err
	}
	return tx.Commit(ctx)
}

func (s *PgStore) EventLinks(ctx context.Context, userId int) (map[string]string, error) {
	rows, err := s.db.Query(ctx, `SELECT source_id, google_event_id FROM google_calendar_event_link WHERE user_id = $1`, userId)
	if err != nil {
		err = fmt.Errorf("could not query Google event links: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	links := map[string]string{}
	for rows.Next() {
		var sourceId, googleEventId string
		if err := rows.Scan(&sourceId, &googleEventId); err != nil {
			err = fmt.Errorf("error scanning Google event link: %w", err)
			log.Error(err)
			return nil, err
		}
		links[sourceId] = googleEventId
	}
	return links, rows.Err()
}

func (s *PgStore) SaveEventLink(ctx context.Context, userId int, sourceId, googleEventId string) error {
	_, err := s.db.Exec(ctx, `INSERT INTO google_calendar_event_link (user_id, source_id, google_event_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, source_id) DO UPDATE SET google_event_id = EXCLUDED.google_event_id`,
		userId, sourceId, googleEventId)
	if err != nil {
		err = fmt.Errorf("failed to link %s to Google event %s: %w", sourceId, googleEventId, err)
		log.Error(err)
		return err
	}
	return nil
}

func expiryOf(token *oauth2.Token) *int64 {
	if token.Expiry.IsZero() {
		return nil
	}
	expiry := token.Expiry.Unix()
	return &expiry
}
