package accounts

import "github.com/revipro-dev/revipro/internal/model"

// DefaultChart returns the tax accounts of the Swiss municipal chart (HRM2).
func DefaultChart() []model.Account {
	return []model.Account{
		{ID: "1012.00", Name: "Steuerforderungen", Role: model.AccountRoleReceivables, Description: "Offene Steuerforderungen gegenüber Steuerpflichtigen"},
		{ID: "2002.00", Name: "Steuerverpflichtungen", Role: model.AccountRolePayables, Description: "Vorauszahlungen und Rückerstattungen"},
		{ID: "2006.00", Name: "Kontokorrent Steuern", Role: model.AccountRoleLedger, Description: "Kontokorrent mit dem Steueramt"},
	}
}
