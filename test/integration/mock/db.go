// Package mock provides in-process stand-ins for the database and cache used by the BDD suite.
package mock

import (
	"database/sql"
	"fmt"
	"sync"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var once sync.Once
var db *Db

// Db is a shared in-memory sqlite database with the service schema.
type Db struct {
	DbConn *gorm.DB
	models map[string]any
	order  []string
}

// NewDb opens the shared database once and migrates the given tables.
// order lists the table names parents first; rows are cleared in reverse.
func NewDb(models map[string]any, order []string) *Db {
	once.Do(func() {
		db = open(models, order)
	})
	return db
}

func open(models map[string]any, order []string) *Db {
	dbSQL, err := sql.Open("sqlite", "file:bdd?mode=memory&cache=shared")
	if err != nil {
		panic(err)
	}

	dbSQL.SetMaxOpenConns(1)

	dbConn, err := gorm.Open(sqlite.Dialector{Conn: dbSQL}, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		panic("failed to connect to database. err: " + err.Error())
	}

	d := &Db{
		DbConn: dbConn,
		models: models,
		order:  order,
	}

	for _, table := range order {
		model, ok := models[table]
		if !ok {
			panic(fmt.Sprintf("no model registered for table %s", table))
		}
		if err := dbConn.AutoMigrate(model); err != nil {
			panic(fmt.Sprintf("failed to migrate %s. err: %s", table, err.Error()))
		}
	}

	return d
}

// ClearDB deletes every row, soft-deleted ones included.
func (d *Db) ClearDB() error {
	for i := len(d.order) - 1; i >= 0; i-- {
		model := d.models[d.order[i]]
		err := d.DbConn.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(model).Error
		if err != nil {
			return fmt.Errorf("failed to clear %s: %w", d.order[i], err)
		}
	}
	return nil
}

// GetModel returns the model registered for a table.
func (d *Db) GetModel(table string) (any, bool) {
	model, ok := d.models[table]
	return model, ok
}
