package services

import (
	"master-data-service/models"
)

// RowPatch is a per-row update: the target row key and only the columns
// whose values actually differ.
type RowPatch struct {
	ItemSKU string
	Patch   map[string]interface{}
}

// ReconciliationPlan partitions the upload into inserts, column-level
// updates and rows already identical to the store.
type ReconciliationPlan struct {
	Inserts   []models.Row
	Updates   []RowPatch
	Unchanged int
}

// BuildPlan diffs the normalized upload rows against the fetched existing
// rows (keyed by ITEM_SKU), considering only the writable headers.
func BuildPlan(rows []models.Row, existing map[string]map[string]interface{}, headers []models.Header) *ReconciliationPlan {
	plan := &ReconciliationPlan{}
	for _, row := range rows {
		key, ok := models.NormalizeForCompare(row[models.HeaderItemSKU])
		if !ok {
			continue
		}
		current, found := existing[key]
		if !found {
			plan.Inserts = append(plan.Inserts, row)
			continue
		}
		patch := ChangedColumns(row, current, headers)
		if len(patch) == 0 {
			plan.Unchanged++
			continue
		}
		plan.Updates = append(plan.Updates, RowPatch{ItemSKU: key, Patch: patch})
	}
	return plan
}

// ChangedColumns returns the columns (excluding the ITEM_SKU key) whose
// normalized values differ between the upload row and the stored row. Nulls
// and empty strings compare equal.
func ChangedColumns(row models.Row, current map[string]interface{}, headers []models.Header) map[string]interface{} {
	patch := make(map[string]interface{})
	for _, h := range headers {
		if h == models.HeaderItemSKU {
			continue
		}
		av, aok := models.NormalizeForCompare(row[h])
		bv, bok := models.NormalizeForCompare(current[string(h)])
		if aok == bok && av == bv {
			continue
		}
		if v := row[h]; v != nil {
			patch[string(h)] = *v
		} else {
			patch[string(h)] = nil
		}
	}
	return patch
}

// ProjectRow renders a normalized row as an insertable column map limited to
// the writable headers.
func ProjectRow(row models.Row, headers []models.Header) map[string]interface{} {
	out := make(map[string]interface{}, len(headers))
	for _, h := range headers {
		if v := row[h]; v != nil {
			out[string(h)] = *v
		} else {
			out[string(h)] = nil
		}
	}
	return out
}
