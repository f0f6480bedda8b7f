// Package metadata stores small key/value facts about the local session,
// such as the identity token and the last signed-in user.
package metadata

import (
	"context"
)

// Well-known keys.
const (
	KeyIDToken  = "id_token"
	KeyLastUser = "last_user"
)

type Repository interface {
	// Get returns the value for key. A missing key yields ("", false, nil).
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string]string, error)
}
