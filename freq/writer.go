// Copyright 2020 Tomas Machalek <tomas.machalek@gmail.com>
// Copyright 2020 Charles University, Faculty of Arts,
//                Institute of the Czech National Corpus
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package freq

import (
	"database/sql"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/czcorpus/gocma/cnf"

	_ "github.com/go-sql-driver/mysql" // load the driver
	_ "github.com/mattn/go-sqlite3"    // load the driver
)

// Writer stores collected frequency records into a concrete
// database backend.
type Writer interface {
	Initialize() error
	Write(rec Record) error
	Commit() error
	Close() error
}

// NewWriter instantiates a backend based on the db configuration
// block (either "sqlite" or "mysql").
func NewWriter(conf cnf.DBConf) (Writer, error) {
	switch conf.Type {
	case "sqlite":
		db, err := sql.Open("sqlite3", conf.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open frequency db: %w", err)
		}
		return &sqlWriter{db: db}, nil
	case "mysql":
		dsn := fmt.Sprintf(
			"%s:%s@tcp(%s)/%s?charset=utf8mb4", conf.User, conf.Passwd, conf.Host, conf.Name)
		db, err := sql.Open("mysql", dsn)
		if err != nil {
			return nil, fmt.Errorf("failed to open frequency db: %w", err)
		}
		return &sqlWriter{db: db}, nil
	}
	return nil, fmt.Errorf("unsupported frequency db type %q", conf.Type)
}

// sqlWriter writes frequency rows through database/sql; the schema
// is plain enough to be shared by both supported drivers.
type sqlWriter struct {
	db   *sql.DB
	tx   *sql.Tx
	ins  *sql.Stmt
	rows int
}

func (w *sqlWriter) Initialize() error {
	_, err := w.db.Exec(
		"CREATE TABLE IF NOT EXISTS word_freq (word TEXT NOT NULL, pos TEXT NOT NULL, count INTEGER NOT NULL)")
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	if _, err = w.db.Exec("DELETE FROM word_freq"); err != nil {
		return fmt.Errorf("failed to clear existing data: %w", err)
	}
	w.tx, err = w.db.Begin()
	if err != nil {
		return err
	}
	w.ins, err = w.tx.Prepare("INSERT INTO word_freq (word, pos, count) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare INSERT: %w", err)
	}
	return nil
}

func (w *sqlWriter) Write(rec Record) error {
	_, err := w.ins.Exec(rec.Word, rec.POS, rec.Count)
	if err == nil {
		w.rows++
	}
	return err
}

func (w *sqlWriter) Commit() error {
	if w.tx == nil {
		return nil
	}
	if err := w.tx.Commit(); err != nil {
		return err
	}
	log.Info().Int("rows", w.rows).Msg("stored frequency records")
	w.tx = nil
	return nil
}

func (w *sqlWriter) Close() error {
	return w.db.Close()
}

// Export flushes a whole counter through a writer.
func Export(c *Counter, w Writer) error {
	if err := w.Initialize(); err != nil {
		return err
	}
	for _, rec := range c.Records() {
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return w.Commit()
}
