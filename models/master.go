package models

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Header identifies one of the canonical master-data columns.
type Header string

const (
	HeaderBrand        Header = "BRAND"
	HeaderGroup        Header = "GROUP"
	HeaderParentsSKU   Header = "PARENTS_SKU"
	HeaderVariationSKU Header = "VARIATION_SKU"
	HeaderItemSKU      Header = "ITEM_SKU"
	HeaderDescription  Header = "DESCRIPTION"
	HeaderBarcode      Header = "BARCODE"
	HeaderPricelist    Header = "PRICELIST"
	HeaderCBV          Header = "CBV"
	HeaderVAT          Header = "VAT"
	HeaderCost         Header = "COST"
	HeaderYear         Header = "YEAR"
	HeaderMonth        Header = "MONTH"
)

// RequiredHeaders is the canonical 13-column schema every upload is
// normalized into, in import order.
var RequiredHeaders = []Header{
	HeaderBrand,
	HeaderGroup,
	HeaderParentsSKU,
	HeaderVariationSKU,
	HeaderItemSKU,
	HeaderDescription,
	HeaderBarcode,
	HeaderPricelist,
	HeaderCBV,
	HeaderVAT,
	HeaderCost,
	HeaderYear,
	HeaderMonth,
}

// NumericHeaders are the columns whose values get thousands separators
// stripped during normalization. They stay opaque strings and are compared
// by value equality, never parsed to numbers.
var NumericHeaders = []Header{
	HeaderPricelist,
	HeaderCBV,
	HeaderVAT,
	HeaderCost,
	HeaderYear,
	HeaderMonth,
}

// IsRequiredHeader reports whether name (already uppercased) is one of the
// canonical headers.
func IsRequiredHeader(name string) bool {
	for _, h := range RequiredHeaders {
		if string(h) == name {
			return true
		}
	}
	return false
}

// Row is one normalized master-data record, keyed by the canonical header
// enumeration. A nil value means the cell is null.
type Row map[Header]*string

// ItemSKU returns the row's ITEM_SKU value, or "" when null.
func (r Row) ItemSKU() string {
	if v := r[HeaderItemSKU]; v != nil {
		return *v
	}
	return ""
}

// NormalizeValue trims a raw cell value; empty becomes nil.
func NormalizeValue(raw string) *string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}
	return &s
}

// NormalizeForCompare collapses nil pointers, SQL NULLs and empty strings
// into a single null sentinel (ok=false) and stringifies everything else.
// Diffing and projection both go through this one function so there is a
// single equivalence rule.
func NormalizeForCompare(v interface{}) (string, bool) {
	switch t := v.(type) {
	case nil:
		return "", false
	case *string:
		if t == nil {
			return "", false
		}
		return nonEmpty(*t)
	case string:
		return nonEmpty(t)
	default:
		return nonEmpty(fmt.Sprint(t))
	}
}

func nonEmpty(s string) (string, bool) {
	if s == "" {
		return "", false
	}
	return s, true
}

// Brand identifies which remote master view a request targets.
type Brand string

const (
	BrandPan      Brand = "PAN"
	BrandArena    Brand = "ARENA"
	BrandDaybreak Brand = "DAYBREAK"
	BrandHeelcare Brand = "HEELCARE"
)

// Brands lists every supported brand.
var Brands = []Brand{BrandPan, BrandArena, BrandDaybreak, BrandHeelcare}

var brandMasterViews = map[Brand]string{
	BrandPan:      "master_pan_public",
	BrandArena:    "master_arena_public",
	BrandDaybreak: "master_daybreak_public",
	BrandHeelcare: "master_heelcare_public",
}

var brandVariationViews = map[Brand]string{
	BrandPan:      "master_pan_variations",
	BrandArena:    "master_arena_variations",
	BrandDaybreak: "master_daybreak_variations",
	BrandHeelcare: "master_heelcare_variations",
}

// MasterView returns the brand's master data view name.
func (b Brand) MasterView() string {
	if v, ok := brandMasterViews[b]; ok {
		return v
	}
	return brandMasterViews[BrandPan]
}

// VariationView returns the brand's variation-SKU view name.
func (b Brand) VariationView() string {
	if v, ok := brandVariationViews[b]; ok {
		return v
	}
	return brandVariationViews[BrandPan]
}

// ParseBrand maps a raw brand string to its enumeration value, defaulting
// to PAN for unknown or empty input.
func ParseBrand(s string) Brand {
	b := Brand(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := brandMasterViews[b]; ok {
		return b
	}
	return BrandPan
}

var masterFileRe = regexp.MustCompile(`(?i)^MASTER_(PAN|ARENA|DAYBREAK|HEELCARE)_(\d{6})\.(csv|xlsx|xls)$`)

// FileIdentity is the (brand, date-key) identity derived from an upload's
// filename. DateKey is a zero-padded YYYYMMDD string used only for
// lexicographic "newer than" comparison.
type FileIdentity struct {
	Brand    Brand
	DateKey  string
	Filename string
}

// ParseMasterFilename validates the MASTER_<BRAND>_DDMMYY.(csv|xlsx|xls)
// pattern and derives the file identity.
func ParseMasterFilename(name string) (*FileIdentity, error) {
	m := masterFileRe.FindStringSubmatch(name)
	if m == nil {
		return nil, fmt.Errorf("filename must be MASTER_<BRAND>_DDMMYY.(csv|xlsx|xls)")
	}
	dateKey := parseDateKey(m[2])
	if dateKey == "" {
		return nil, fmt.Errorf("invalid date in filename")
	}
	return &FileIdentity{
		Brand:    Brand(strings.ToUpper(m[1])),
		DateKey:  dateKey,
		Filename: name,
	}, nil
}

// parseDateKey converts DDMMYY into YYYYMMDD (years mapped to 2000+YY).
// Only day 1-31 and month 1-12 ranges are checked; the key is a sort key,
// not a calendar date.
func parseDateKey(ddmmyy string) string {
	dd, _ := strconv.Atoi(ddmmyy[0:2])
	mm, _ := strconv.Atoi(ddmmyy[2:4])
	yy, _ := strconv.Atoi(ddmmyy[4:6])
	if dd < 1 || dd > 31 || mm < 1 || mm > 12 {
		return ""
	}
	return fmt.Sprintf("%04d%02d%02d", 2000+yy, mm, dd)
}
