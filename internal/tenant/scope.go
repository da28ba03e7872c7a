// Package tenant keeps journal queries inside one company.
package tenant

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const Column = "company_id"

// Scope limits a query to companyID. Identities without a company share the
// empty id, so they only ever see each other's rows.
func Scope(companyID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(clause.Eq{Column: clause.Column{Name: Column}, Value: companyID})
	}
}
