package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"master-data-service/models"
	"master-data-service/repository"
)

// Missing-column shapes across the stores we have seen: Postgres reports
// `column "X" does not exist` (sometimes table-qualified), PostgREST reports
// `Could not find the 'X' column ... in the schema cache`.
var missingColumnPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)column\s+[A-Za-z0-9_."-]+\."?(\w+)"?\s+does not exist`),
	regexp.MustCompile(`(?i)column\s+"?(\w+)"?\s+does not exist`),
	regexp.MustCompile(`(?i)could not find the ['"](\w+)['"] column`),
}

// ParseMissingColumn extracts the canonical header named by a missing-column
// store error, or "" when the error is something else entirely.
func ParseMissingColumn(msg string) models.Header {
	for _, re := range missingColumnPatterns {
		if m := re.FindStringSubmatch(msg); m != nil {
			name := strings.ToUpper(m[1])
			if models.IsRequiredHeader(name) {
				return models.Header(name)
			}
		}
	}
	return ""
}

// IsMissingStateTable reports whether a ledger error means the ledger table
// itself is absent, which is a tolerated degraded mode.
func IsMissingStateTable(msg string) bool {
	lower := strings.ToLower(msg)
	if !strings.Contains(lower, "master_import_state") {
		return false
	}
	return strings.Contains(lower, "does not exist") ||
		strings.Contains(lower, "schema cache") ||
		strings.Contains(lower, "could not find the table")
}

// ResolveWritableHeaders discovers which of the canonical headers actually
// exist on the brand view by probing and narrowing: each probe failure that
// names a missing optional column removes it and the probe repeats. ITEM_SKU
// is never negotiable.
func ResolveWritableHeaders(ctx context.Context, repo repository.MasterRepository, view string, logger *zap.Logger) ([]models.Header, error) {
	candidates := make([]models.Header, 0, len(models.RequiredHeaders))
	candidates = append(candidates, models.HeaderItemSKU)
	for _, h := range models.RequiredHeaders {
		if h != models.HeaderItemSKU {
			candidates = append(candidates, h)
		}
	}

	for len(candidates) > 0 {
		columns := make([]string, len(candidates))
		for i, h := range candidates {
			columns[i] = string(h)
		}
		err := repo.ProbeColumns(ctx, view, columns)
		if err == nil {
			return candidates, nil
		}

		missing := ParseMissingColumn(err.Error())
		if missing == "" {
			return nil, fmt.Errorf("failed to probe %s schema: %w", view, err)
		}
		if missing == models.HeaderItemSKU {
			return nil, fmt.Errorf("%s is missing the ITEM_SKU column", view)
		}
		next := candidates[:0]
		found := false
		for _, h := range candidates {
			if h == missing {
				found = true
				continue
			}
			next = append(next, h)
		}
		if !found {
			return nil, fmt.Errorf("failed to probe %s schema: %w", view, err)
		}
		logger.Warn("view is missing a column, continuing without it",
			zap.String("view", view),
			zap.String("column", string(missing)),
		)
		candidates = next
	}
	return nil, fmt.Errorf("%s has no usable columns", view)
}
