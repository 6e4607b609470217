package dao

import (
	"fmt"
	"reflect"
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Database is an in-memory sqlite instance for unit tests. The sqlite3
// dialect is the same one the service config accepts, so the DAOs under test
// run against a real dialect without an external daemon.
type Database struct {
	Name string
	DB   *gorm.DB
}

// RunDB opens a named shared in-memory database for a test suite.
func RunDB(dbName string) (*Database, error) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", dbName)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	return &Database{
		Name: dbName,
		DB:   db,
	}, nil
}

// StopDB closes the underlying connection, dropping the in-memory data.
func (d *Database) StopDB() error {
	conn, err := d.DB.DB()
	if err != nil {
		return err
	}
	return conn.Close()
}

// ClearDB drops every table in the database.
func (d *Database) ClearDB() error {
	tables, err := d.DB.Migrator().GetTables()
	if err != nil {
		return err
	}
	for _, table := range tables {
		if err := d.DB.Migrator().DropTable(table); err != nil {
			return err
		}
	}
	return nil
}

// GetDBName get a db name by using the Suite struct in each test
func GetDBName(s interface{}) string {
	return strings.ReplaceAll(reflect.TypeOf(s).Name(), "/", "_")
}
