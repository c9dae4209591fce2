// Package tokens persists the credential pair issued by the records
// service. It is the only owner of the pair: the gateway reads it on every
// call and replaces it after a refresh, the session writes it on login and
// clears it on logout.
//
// All operations are best-effort. A stored value that cannot be read or
// decoded is reported as absent and logged, never returned to the caller.
package tokens

import (
	"context"

	"github.com/dmitrijs2005/medrecords/internal/client/models"
)

// Store holds at most one credential pair. Set and Clear replace or drop
// the whole pair; there is no partial update.
type Store interface {
	Get(ctx context.Context) (models.CredentialPair, bool)
	Set(ctx context.Context, pair models.CredentialPair) error
	Clear(ctx context.Context) error
}

func isEmpty(p models.CredentialPair) bool {
	return p.Access == "" && p.Refresh == ""
}
