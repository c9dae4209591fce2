package tokens

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dmitrijs2005/medrecords/internal/client/models"
	"github.com/dmitrijs2005/medrecords/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/medrecords/internal/common"
	"github.com/dmitrijs2005/medrecords/internal/dbx"
	"github.com/dmitrijs2005/medrecords/internal/logging"
)

const savedAtKey = common.TokensStorageKey + "_saved_at"

// SQLiteStore keeps the JSON-serialized pair in the local metadata table
// under common.TokensStorageKey, so a session survives restarts.
type SQLiteStore struct {
	db  *sql.DB
	log logging.Logger
	now func() time.Time
}

func NewSQLiteStore(db *sql.DB, log logging.Logger) *SQLiteStore {
	return &SQLiteStore{db: db, log: log.With("component", "tokens"), now: time.Now}
}

func (s *SQLiteStore) Get(ctx context.Context) (models.CredentialPair, bool) {
	raw, err := metadata.NewSQLiteRepository(s.db).Get(ctx, common.TokensStorageKey)
	if err != nil {
		s.log.Error(ctx, "failed to read stored tokens", "error", err)
		return models.CredentialPair{}, false
	}
	if raw == nil {
		return models.CredentialPair{}, false
	}

	var pair models.CredentialPair
	if err := json.Unmarshal(raw, &pair); err != nil {
		s.log.Error(ctx, "failed to parse stored tokens", "error", err)
		return models.CredentialPair{}, false
	}
	if isEmpty(pair) {
		return models.CredentialPair{}, false
	}
	return pair, true
}

// Set replaces the stored pair and its saved-at timestamp in one transaction.
func (s *SQLiteStore) Set(ctx context.Context, pair models.CredentialPair) error {
	if isEmpty(pair) {
		return s.Clear(ctx)
	}

	data, err := json.Marshal(pair)
	if err != nil {
		return fmt.Errorf("encode tokens: %w", err)
	}
	savedAt := s.now().UTC().Format(time.RFC3339)

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		if err := repo.Set(ctx, common.TokensStorageKey, data); err != nil {
			return err
		}
		return repo.Set(ctx, savedAtKey, []byte(savedAt))
	})
}

func (s *SQLiteStore) Clear(ctx context.Context) error {
	return metadata.NewSQLiteRepository(s.db).Delete(ctx, common.TokensStorageKey, savedAtKey)
}

// SavedAt reports when the current pair was last written, by login or by
// a refresh.
func (s *SQLiteStore) SavedAt(ctx context.Context) (time.Time, bool) {
	raw, err := metadata.NewSQLiteRepository(s.db).Get(ctx, savedAtKey)
	if err != nil || raw == nil {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, string(raw))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
