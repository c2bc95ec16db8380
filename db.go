package paintwall

import (
	"database/sql"
	"fmt"
	"os"

	_ "github.com/mattn/go-sqlite3"
)

// PaletteDB stores named palettes of paint colors.
type PaletteDB struct {
	db *sql.DB
}

func NewPaletteDB(file string) (*PaletteDB, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_foreign_keys=on", file))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS palette (id INTEGER PRIMARY KEY NOT NULL, name TEXT NOT NULL UNIQUE)"); err != nil {
		db.Close()
		return nil, err
	}

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS color (palette_id INTEGER NOT NULL, position INTEGER NOT NULL, r INTEGER NOT NULL, g INTEGER NOT NULL, b INTEGER NOT NULL, PRIMARY KEY(palette_id, position), FOREIGN KEY(palette_id) REFERENCES palette(id) ON DELETE CASCADE)"); err != nil {
		db.Close()
		return nil, err
	}

	return &PaletteDB{
		db: db,
	}, nil
}

func (db *PaletteDB) Close() error {
	return db.db.Close()
}

// ImportFile reads a palette from file and stores it as name, replacing any
// existing palette with that name.
func (db *PaletteDB) ImportFile(name, file string) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	p, err := ParsePalette(f)
	if err != nil {
		return fmt.Errorf("%s: %w", file, err)
	}

	return db.Set(name, p)
}

// Set stores p as name, replacing any existing palette with that name.
func (db *PaletteDB) Set(name string, p Palette) error {
	if len(p) == 0 {
		return ErrEmptyPalette
	}

	tx, err := db.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var id int64
	switch err := tx.QueryRow("SELECT id FROM palette WHERE name = ?", name).Scan(&id); err {
	case sql.ErrNoRows:
		result, err := tx.Exec("INSERT INTO palette (name) VALUES (?)", name)
		if err != nil {
			return err
		}
		if id, err = result.LastInsertId(); err != nil {
			return err
		}
	case nil:
		if _, err := tx.Exec("DELETE FROM color WHERE palette_id = ?", id); err != nil {
			return err
		}
	default:
		return err
	}

	for i, c := range p {
		if _, err := tx.Exec("INSERT INTO color (palette_id, position, r, g, b) VALUES (?, ?, ?, ?, ?)", id, i, c[0], c[1], c[2]); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Find returns the palette stored as name, or nil if there isn't one.
func (db *PaletteDB) Find(name string) (Palette, error) {
	rows, err := db.db.Query("SELECT c.r, c.g, c.b FROM palette AS p JOIN color AS c ON c.palette_id = p.id WHERE p.name = ? ORDER BY c.position", name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var p Palette
	for rows.Next() {
		var c Color
		if err := rows.Scan(&c[0], &c[1], &c[2]); err != nil {
			return nil, err
		}
		p = append(p, c)
	}

	return p, rows.Err()
}

// Names returns the names of all stored palettes in alphabetical order.
func (db *PaletteDB) Names() ([]string, error) {
	rows, err := db.db.Query("SELECT name FROM palette ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}

	return names, rows.Err()
}

// Delete removes the palette stored as name. It is not an error if there
// isn't one.
func (db *PaletteDB) Delete(name string) error {
	_, err := db.db.Exec("DELETE FROM palette WHERE name = ?", name)
	return err
}
