package services_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/xuri/excelize/v2"

	"master-data-service/models"
	"master-data-service/services"
)

const csvHeader = "BRAND,GROUP,PARENTS_SKU,VARIATION_SKU,ITEM_SKU,DESCRIPTION,BARCODE,PRICELIST,CBV,VAT,COST,YEAR,MONTH"

func TestExtractRows_CSV(t *testing.T) {
	data := []byte(csvHeader + "\n" +
		"PAN,SHOES,P1,V1,I1,Desc one,123,\"1,990\",100,7,50,2024,1\n" +
		"PAN,SHOES,P1,V2,I2,Desc two,456,200,100,7,50,2024,1\n")

	rows, err := services.ExtractRows(data, "MASTER_PAN_150124.csv", models.BrandPan)
	assert.Nil(t, err)
	assert.Len(t, rows, 2)

	assert.Equal(t, "I1", rows[0].ItemSKU())
	// Thousands separators stripped from numeric columns.
	assert.Equal(t, "1990", *rows[0][models.HeaderPricelist])
	assert.Equal(t, "Desc one", *rows[0][models.HeaderDescription])
}

func TestExtractRows_BOMAndHeaderAliases(t *testing.T) {
	data := []byte("\uFEFFbrand,group,parents_sku,variation_sku,item_sku,description,barcode,pricelist,Before Vat,vat,cost,year,month\n" +
		"PAN,G,P,V,I,D,B,10,20,7,5,2024,1\n")

	rows, err := services.ExtractRows(data, "MASTER_PAN_150124.csv", models.BrandPan)
	assert.Nil(t, err)
	assert.Len(t, rows, 1)
	assert.Equal(t, "20", *rows[0][models.HeaderCBV])
}

func TestExtractRows_BrandDefaultsFromFilename(t *testing.T) {
	data := []byte(csvHeader + "\n" +
		",G,P,V,I,D,B,10,20,7,5,2024,1\n")

	rows, err := services.ExtractRows(data, "MASTER_ARENA_150124.csv", models.BrandArena)
	assert.Nil(t, err)
	assert.Len(t, rows, 1)
	assert.Equal(t, "ARENA", *rows[0][models.HeaderBrand])
}

func TestExtractRows_DropsRowsMissingKeys(t *testing.T) {
	data := []byte(csvHeader + "\n" +
		"PAN,G,P,V1,I1,D,B,10,20,7,5,2024,1\n" +
		"PAN,G,P,,I2,D,B,10,20,7,5,2024,1\n" + // no variation SKU
		"PAN,G,P,V3,,D,B,10,20,7,5,2024,1\n") // no item SKU

	rows, err := services.ExtractRows(data, "MASTER_PAN_150124.csv", models.BrandPan)
	assert.Nil(t, err)
	assert.Len(t, rows, 1)
	assert.Equal(t, "I1", rows[0].ItemSKU())
}

func TestExtractRows_ShortRecordsPadWithNulls(t *testing.T) {
	data := []byte(csvHeader + "\n" +
		"PAN,G,P,V1,I1\n")

	rows, err := services.ExtractRows(data, "MASTER_PAN_150124.csv", models.BrandPan)
	assert.Nil(t, err)
	assert.Len(t, rows, 1)
	assert.Nil(t, rows[0][models.HeaderCost])
}

func TestExtractRows_MissingColumnsListedTogether(t *testing.T) {
	data := []byte("BRAND,GROUP,PARENTS_SKU,VARIATION_SKU,ITEM_SKU,DESCRIPTION,BARCODE,PRICELIST,CBV,VAT,COST\n" +
		"PAN,G,P,V,I,D,B,10,20,7,5\n")

	_, err := services.ExtractRows(data, "MASTER_PAN_150124.csv", models.BrandPan)
	if assert.NotNil(t, err) {
		assert.Equal(t, "missing required columns: YEAR, MONTH", err.Error())
	}
}

func TestExtractRows_NoDataRows(t *testing.T) {
	_, err := services.ExtractRows([]byte(csvHeader+"\n"), "MASTER_PAN_150124.csv", models.BrandPan)
	if assert.NotNil(t, err) {
		assert.Equal(t, "no data rows found", err.Error())
	}
}

func TestExtractRows_XLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	headers := []interface{}{"BRAND", "GROUP", "PARENTS_SKU", "VARIATION_SKU", "ITEM_SKU", "DESCRIPTION", "BARCODE", "PRICELIST", "CBV", "VAT", "COST", "YEAR", "MONTH"}
	assert.Nil(t, f.SetSheetRow(sheet, "A1", &headers))
	row := []interface{}{"PAN", "G", "P", "V1", "I1", "D", "B", "1,500", "20", "7", "5", "2024", "1"}
	assert.Nil(t, f.SetSheetRow(sheet, "A2", &row))

	var buf bytes.Buffer
	_, err := f.WriteTo(&buf)
	assert.Nil(t, err)

	rows, err := services.ExtractRows(buf.Bytes(), "MASTER_PAN_150124.xlsx", models.BrandPan)
	assert.Nil(t, err)
	assert.Len(t, rows, 1)
	assert.Equal(t, "I1", rows[0].ItemSKU())
	assert.Equal(t, "1500", *rows[0][models.HeaderPricelist])
}

func TestExtractRows_CorruptWorkbook(t *testing.T) {
	_, err := services.ExtractRows([]byte("not an excel file"), "MASTER_PAN_150124.xlsx", models.BrandPan)
	assert.NotNil(t, err)
}
