package database

import (
	"fmt"

	"github.com/google/uuid"
)

// InMemorySQLiteDSN returns a DSN for a private, shared-cache in-memory sqlite
// database. Each call names a new database so callers never see each other's rows.
func InMemorySQLiteDSN() string {
	return fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", uuid.NewString())
}
