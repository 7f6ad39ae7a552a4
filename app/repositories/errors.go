// Package repositories holds all database access. Controllers never see
// gorm errors; each repository translates them into the sentinel errors
// below or ErrPersistence.
package repositories

import (
	"errors"

	gomysql "github.com/go-sql-driver/mysql"
	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"
)

var (
	// ErrNotFound replaces gorm.ErrRecordNotFound at the domain boundary.
	ErrNotFound = errors.New("registro não encontrado")

	// ErrEmailInUse signals a duplicate email on register/update.
	ErrEmailInUse = errors.New("email já cadastrado")

	// ErrCategoryInUse blocks deleting a category still referenced by
	// vehicles.
	ErrCategoryInUse = errors.New("categoria possui veículos vinculados")

	// ErrCategoryExists signals a duplicate category name.
	ErrCategoryExists = errors.New("categoria já cadastrada")

	// ErrVehicleSold blocks deleting a vehicle referenced by a sale.
	ErrVehicleSold = errors.New("veículo já vendido")

	// ErrPersistence is the generic storage failure; details go to the log,
	// never to the client.
	ErrPersistence = errors.New("erro de persistência")
)

// mysqlDuplicateEntry is MySQL error 1062 (ER_DUP_ENTRY).
const mysqlDuplicateEntry = 1062

// isDuplicateKey reports whether err is a unique-constraint violation.
// GORM's TranslateError covers most dialectors; the direct driver checks
// handle versions that predate translation. Never matches on message text.
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	var myErr *gomysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == mysqlDuplicateEntry
	}

	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.Code == sqlite3.ErrConstraint &&
			(liteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
				liteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey)
	}

	return false
}

// isNotFound reports whether err is gorm's empty-result error.
func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
