package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"master-data-service/models"
	"master-data-service/services"
)

// ---- mock master repository ----

type mockMasterRepo struct {
	probeErrs  []error
	probeCalls [][]string

	fetched  []map[string]interface{}
	fetchErr error

	insertErr     error
	insertedRows  [][]map[string]interface{}
	updateErr     error
	updatedSKUs   []string
	updatePatches []map[string]interface{}

	searchSKUs []string
	searchTot  int64
	searchErr  error

	variationRows []map[string]interface{}
	variationErr  error
}

func (m *mockMasterRepo) ProbeColumns(_ context.Context, _ string, columns []string) error {
	m.probeCalls = append(m.probeCalls, columns)
	if len(m.probeErrs) == 0 {
		return nil
	}
	err := m.probeErrs[0]
	m.probeErrs = m.probeErrs[1:]
	return err
}

func (m *mockMasterRepo) FetchBySKUs(_ context.Context, _ string, _ []string, skus []string) ([]map[string]interface{}, error) {
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	var out []map[string]interface{}
	for _, rec := range m.fetched {
		for _, sku := range skus {
			if rec["ITEM_SKU"] == sku {
				out = append(out, rec)
			}
		}
	}
	return out, nil
}

func (m *mockMasterRepo) InsertRows(_ context.Context, _ string, rows []map[string]interface{}) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	m.insertedRows = append(m.insertedRows, rows)
	return nil
}

func (m *mockMasterRepo) UpdateBySKU(_ context.Context, _ string, itemSKU string, patch map[string]interface{}) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.updatedSKUs = append(m.updatedSKUs, itemSKU)
	m.updatePatches = append(m.updatePatches, patch)
	return nil
}

func (m *mockMasterRepo) SearchVariations(_ context.Context, _ string, _ string, _, _ int) ([]string, int64, error) {
	return m.searchSKUs, m.searchTot, m.searchErr
}

func (m *mockMasterRepo) FetchByVariations(_ context.Context, _ string, variations []string) ([]map[string]interface{}, error) {
	if m.variationErr != nil {
		return nil, m.variationErr
	}
	var out []map[string]interface{}
	for _, rec := range m.variationRows {
		for _, v := range variations {
			if rec["VARIATION_SKU"] == v {
				out = append(out, rec)
			}
		}
	}
	return out, nil
}

// ---- tests ----

func TestParseMissingColumn(t *testing.T) {
	cases := map[string]models.Header{
		`column "BARCODE" does not exist`:                               models.HeaderBarcode,
		`ERROR: column master_pan_public.GROUP does not exist`:          models.HeaderGroup,
		`Could not find the 'CBV' column of 'master_pan_public'`:        models.HeaderCBV,
		`could not find the "VAT" column in the schema cache`:           models.HeaderVAT,
		`column "price" does not exist`:                                 "", // not a canonical header
		`duplicate key value violates unique constraint "master_pkey"`:  "",
		`connection refused`:                                            "",
	}
	for msg, want := range cases {
		assert.Equal(t, want, services.ParseMissingColumn(msg), msg)
	}
}

func TestIsMissingStateTable(t *testing.T) {
	assert.True(t, services.IsMissingStateTable(`relation "master_import_state" does not exist`))
	assert.True(t, services.IsMissingStateTable(`Could not find the table 'public.master_import_state' in the schema cache`))
	assert.False(t, services.IsMissingStateTable(`relation "orders" does not exist`))
	assert.False(t, services.IsMissingStateTable(`master_import_state: permission denied`))
}

func TestResolveWritableHeaders_AllPresent(t *testing.T) {
	repo := &mockMasterRepo{}
	headers, err := services.ResolveWritableHeaders(context.Background(), repo, "master_pan_public", zap.NewNop())
	assert.Nil(t, err)
	assert.Len(t, headers, len(models.RequiredHeaders))
	assert.Equal(t, models.HeaderItemSKU, headers[0])
	assert.Len(t, repo.probeCalls, 1)
}

func TestResolveWritableHeaders_NarrowsMissingColumns(t *testing.T) {
	repo := &mockMasterRepo{probeErrs: []error{
		errors.New(`column "BARCODE" does not exist`),
		errors.New(`column "MONTH" does not exist`),
	}}
	headers, err := services.ResolveWritableHeaders(context.Background(), repo, "master_pan_public", zap.NewNop())
	assert.Nil(t, err)
	assert.Len(t, headers, len(models.RequiredHeaders)-2)
	for _, h := range headers {
		assert.NotEqual(t, models.HeaderBarcode, h)
		assert.NotEqual(t, models.HeaderMonth, h)
	}
	assert.Len(t, repo.probeCalls, 3)
}

func TestResolveWritableHeaders_ItemSKUIsFatal(t *testing.T) {
	repo := &mockMasterRepo{probeErrs: []error{
		errors.New(`column "ITEM_SKU" does not exist`),
	}}
	_, err := services.ResolveWritableHeaders(context.Background(), repo, "master_pan_public", zap.NewNop())
	assert.NotNil(t, err)
	assert.Contains(t, err.Error(), "ITEM_SKU")
}

func TestResolveWritableHeaders_UnclassifiedErrorIsFatal(t *testing.T) {
	repo := &mockMasterRepo{probeErrs: []error{
		errors.New("connection refused"),
	}}
	_, err := services.ResolveWritableHeaders(context.Background(), repo, "master_pan_public", zap.NewNop())
	assert.NotNil(t, err)
	assert.Len(t, repo.probeCalls, 1)
}
