// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package conddb holds types to describe the condition and configuration
// database for the SIT detector.
package conddb // import "github.com/go-lpc/sit/conddb"

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

const (
	host = "localhost"
)

var (
	usr = "username"
	pwd = "s3cr3t"

	drvName = "mysql"
)

// DB exposes convenience methods to easily retrieve conditions data
// and configuration data from the SIT database.
type DB struct {
	db   *sql.DB
	name string // name of the SIT database
}

// Open opens a connection to the SIT database dbname.
func Open(dbname string) (*DB, error) {
	db, err := sql.Open(drvName, dsn(dbname))
	if err != nil {
		return nil, fmt.Errorf("conddb: could not open %q db: %w", dbname, err)
	}

	err = ping(db, dbname)
	if err != nil {
		return nil, fmt.Errorf("conddb: could not ping %q db: %w", dbname, err)
	}

	return &DB{db: db, name: dbname}, nil
}

func dsn(db string) string {
	return fmt.Sprintf("%s:%s@tcp(%s)/%s", usr, pwd, host, db)
}

func ping(db *sql.DB, dbname string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := db.PingContext(ctx)
	if err != nil {
		return fmt.Errorf("conddb: could not ping %q db: %w", dbname, err)
	}

	return nil
}

func (db *DB) Close() error {
	return db.db.Close()
}

func (db *DB) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return db.db.QueryContext(ctx, query, args...)
}

// CableMap returns the hardware-to-software cable mapping stored in
// the SIT database.
func (db *DB) CableMap(ctx context.Context) (*CableMap, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := db.db.QueryContext(
		ctx,
		"SELECT rutype, hwid, swid FROM cablemap ORDER BY rutype, hwid",
	)
	if err != nil {
		return nil, fmt.Errorf("conddb: could not query cable map: %w", err)
	}
	defer rows.Close()

	cmap := newEmptyCableMap()
	for rows.Next() {
		var (
			typ uint8
			hw  uint8
			sw  uint8
		)
		err = rows.Scan(&typ, &hw, &sw)
		if err != nil {
			return nil, fmt.Errorf("conddb: could not scan cable map row: %w", err)
		}
		err = cmap.set(RUType(typ), hw, sw)
		if err != nil {
			return nil, fmt.Errorf("conddb: invalid cable map row: %w", err)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("conddb: could not scan db for cable map: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("conddb: context error while retrieving cable map: %w", err)
	}

	return cmap, nil
}
