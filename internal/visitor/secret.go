package visitor

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"fmt"

	"github.com/erazemk/heartshare/internal/store"
)

// secretKey is the settings row holding the cookie signing key.
const secretKey = "visitor.signing_secret"

// LoadSecret returns the cookie signing key, creating it on first use.
func LoadSecret(ctx context.Context, db *sql.DB) (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating visitor secret: %w", err)
	}
	return store.InitSetting(ctx, db, secretKey, hex.EncodeToString(buf))
}
