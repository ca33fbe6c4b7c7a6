package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/safar/shop-admin/internal/database"
	"github.com/safar/shop-admin/internal/slug"
)

// slugWriteAttempts bounds how often a write is retried after losing a slug
// race to a concurrent writer; the unique index is the final arbiter.
const slugWriteAttempts = 5

// writeWithSlug probes for a free variant of base, hands it to write and
// re-probes when write hits the slug unique index.
func writeWithSlug(ctx context.Context, q database.Querier, table string, excludeID int64, base string, write func(candidate string) error) (string, error) {
	for attempt := 1; ; attempt++ {
		candidate, err := slug.Unique(ctx, base, slugTaken(q, table, excludeID))
		if err != nil {
			return "", fmt.Errorf("generate %s slug: %w", table, err)
		}

		err = write(candidate)
		if err == nil {
			return candidate, nil
		}
		if !database.IsUniqueViolation(err, "slug") || attempt == slugWriteAttempts {
			return "", err
		}
	}
}

// slugSource picks the text a slug is derived from: an explicit client slug
// wins over the title.
func slugSource(explicit, title string) string {
	if s := strings.TrimSpace(explicit); s != "" {
		return s
	}
	return title
}
