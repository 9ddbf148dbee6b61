package model

// Category classifies a document. Exactly one per document.
type Category string

const (
	CategoryAnnualStatement        Category = "JA"
	CategoryResidualStatement      Category = "SR"
	CategorySupplementaryTax       Category = "NAST"
	CategoryLedger                 Category = "FIBU"
	CategoryCombinedLedger         Category = "FIBU_COMBINED"
	CategoryIncomeStatementExcerpt Category = "ER"
	CategoryBalanceSheetExcerpt    Category = "BILANZ"
	CategoryWithholdingTax         Category = "QST"
	CategoryUnknown                Category = "UNKNOWN"
)

// Categories lists every category in declaration order.
var Categories = []Category{
	CategoryAnnualStatement,
	CategoryResidualStatement,
	CategorySupplementaryTax,
	CategoryLedger,
	CategoryCombinedLedger,
	CategoryIncomeStatementExcerpt,
	CategoryBalanceSheetExcerpt,
	CategoryWithholdingTax,
	CategoryUnknown,
}

// IsTaxStatement reports whether c is one of JA, SR or NAST.
func (c Category) IsTaxStatement() bool {
	switch c {
	case CategoryAnnualStatement, CategoryResidualStatement, CategorySupplementaryTax:
		return true
	}
	return false
}

// IsLedger reports whether c is a single or combined FiBu extract.
func (c Category) IsLedger() bool {
	return c == CategoryLedger || c == CategoryCombinedLedger
}

// IsAnnualReport reports whether c is an income statement or balance sheet excerpt.
func (c Category) IsAnnualReport() bool {
	return c == CategoryIncomeStatementExcerpt || c == CategoryBalanceSheetExcerpt
}

// Valid reports whether c is a member of the closed set.
func (c Category) Valid() bool {
	for _, k := range Categories {
		if k == c {
			return true
		}
	}
	return false
}
