//go:build !sqlcipher

package storage

import (
	"database/sql"
	"errors"
)

func openSecureSQLite(string, string) (*sql.DB, error) {
	return nil, errors.New("this build has no sqlcipher support")
}

func secureSQLiteSupported() bool {
	return false
}
