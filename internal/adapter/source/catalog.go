package source

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/mmcdole/gamelib/internal/domain"
	"github.com/tidwall/gjson"
	_ "modernc.org/sqlite"
)

const catalogSchema = `
CREATE TABLE IF NOT EXISTS catalog_entries (
  source      TEXT NOT NULL,
  id          TEXT NOT NULL,
  name        TEXT NOT NULL DEFAULT '',
  installed   INTEGER NOT NULL DEFAULT 0 CHECK (installed IN (0,1)),
  install_dir TEXT NOT NULL DEFAULT '',
  owner_ids   TEXT NOT NULL DEFAULT '[]',
  icon_ref    TEXT NOT NULL DEFAULT '',
  type        TEXT NOT NULL DEFAULT '',
  PRIMARY KEY (source, id)
);
CREATE INDEX IF NOT EXISTS idx_catalog_source ON catalog_entries(source);
`

// Catalog is the SQLite table that storefront syncs write entries into.
type Catalog struct {
	db *sql.DB
}

// OpenCatalog opens (and if needed creates) the catalog database at path.
func OpenCatalog(path string) (*Catalog, error) {
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
	}
	if _, err := db.Exec(catalogSchema); err != nil {
		db.Close()
		return nil, err
	}
	return &Catalog{db: db}, nil
}

// Close closes the database.
func (c *Catalog) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}

// Entries returns every entry of src ordered by id.
func (c *Catalog) Entries(ctx context.Context, src domain.Source) ([]domain.RawEntry, error) {
	rows, err := c.db.QueryContext(ctx,
		"SELECT id, name, installed, install_dir, owner_ids, icon_ref, type FROM catalog_entries WHERE source = ? ORDER BY id",
		string(src))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
	}
	defer rows.Close()

	var out []domain.RawEntry
	for rows.Next() {
		var (
			e         domain.RawEntry
			installed int
			owners    string
			typ       string
		)
		if err := rows.Scan(&e.ID, &e.Name, &installed, &e.InstallDir, &owners, &e.IconRef, &typ); err != nil {
			return nil, err
		}
		e.Installed = installed == 1
		e.Type = domain.AppType(typ)
		for _, id := range gjson.Parse(owners).Array() {
			e.OwnerIDs = append(e.OwnerIDs, int(id.Int()))
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Upsert inserts or replaces entries of src in one transaction.
func (c *Catalog) Upsert(ctx context.Context, src domain.Source, entries []domain.RawEntry) (err error) {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO catalog_entries (source, id, name, installed, install_dir, owner_ids, icon_ref, type)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(source, id) DO UPDATE SET
  name = excluded.name,
  installed = excluded.installed,
  install_dir = excluded.install_dir,
  owner_ids = excluded.owner_ids,
  icon_ref = excluded.icon_ref,
  type = excluded.type`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, e := range entries {
		owners, err := json.Marshal(ownerList(e.OwnerIDs))
		if err != nil {
			return err
		}
		installed := 0
		if e.Installed {
			installed = 1
		}
		if _, err = stmt.ExecContext(ctx, string(src), e.ID, e.Name, installed, e.InstallDir, string(owners), e.IconRef, string(e.Type)); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Delete removes one entry.
func (c *Catalog) Delete(ctx context.Context, src domain.Source, id string) error {
	_, err := c.db.ExecContext(ctx, "DELETE FROM catalog_entries WHERE source = ? AND id = ?", string(src), id)
	return err
}

func ownerList(ids []int) []int {
	if ids == nil {
		return []int{}
	}
	return ids
}
