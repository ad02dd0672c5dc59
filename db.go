package posterize

import (
	"crypto/sha1"
	"database/sql"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"

	"github.com/bodgit/posterize/dither"
	"github.com/bodgit/posterize/palette"
	"github.com/klauspost/compress/zstd"
	_ "github.com/mattn/go-sqlite3"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Catalog is a sqlite database of DG5 encoded images keyed by the SHA-1 of
// the source file and the modes used to encode it. Encodings are stored
// zstd compressed.
type Catalog struct {
	db  *sql.DB
	enc *zstd.Encoder
	dec *zstd.Decoder
}

// Entry describes one stored encoding.
type Entry struct {
	SHA1   string
	Name   string
	Mode   palette.Mode
	Dither dither.Mode
	Width  int
	Height int
	Size   int
}

// NewCatalog opens or creates the catalog stored in file.
func NewCatalog(file string) (*Catalog, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_foreign_keys=on", file))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS source (id INTEGER PRIMARY KEY NOT NULL, sha1 TEXT NOT NULL UNIQUE, name TEXT NOT NULL)"); err != nil {
		db.Close()
		return nil, err
	}

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS encoding (source_id INTEGER NOT NULL, mode INTEGER NOT NULL, dither INTEGER NOT NULL, width INTEGER NOT NULL, height INTEGER NOT NULL, size INTEGER NOT NULL, dg5 BLOB NOT NULL, UNIQUE(source_id, mode, dither), FOREIGN KEY(source_id) REFERENCES source(id))"); err != nil {
		db.Close()
		return nil, err
	}

	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	if err != nil {
		db.Close()
		return nil, err
	}

	dec, err := zstd.NewReader(nil)
	if err != nil {
		enc.Close()
		db.Close()
		return nil, err
	}

	return &Catalog{
		db:  db,
		enc: enc,
		dec: dec,
	}, nil
}

// Close closes the database.
func (c *Catalog) Close() error {
	c.dec.Close()
	if err := c.enc.Close(); err != nil {
		c.db.Close()
		return err
	}
	return c.db.Close()
}

// Import decodes the image in file, encodes it with the given options and
// stores the result. It returns the SHA-1 of the file contents.
func (c *Catalog) Import(file string, o Options) (string, error) {
	f, err := os.Open(file)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha1.New()
	r := io.TeeReader(f, h)
	m, _, err := image.Decode(r)
	if err != nil {
		return "", fmt.Errorf("%s: %w", file, err)
	}
	// Decoders don't always consume trailing data
	if _, err := io.Copy(io.Discard, r); err != nil {
		return "", err
	}
	sha := fmt.Sprintf("%X", h.Sum(nil))

	b, err := encodeBytes(m, o)
	if err != nil {
		return "", fmt.Errorf("%s: %w", file, err)
	}

	id, err := c.addSource(sha, filepath.Base(file))
	if err != nil {
		return "", err
	}

	bounds := m.Bounds()
	if _, err := c.db.Exec("INSERT OR REPLACE INTO encoding (source_id, mode, dither, width, height, size, dg5) VALUES (?, ?, ?, ?, ?, ?, ?)", id, int(o.Mode), int(o.Dither), bounds.Dx(), bounds.Dy(), len(b), c.enc.EncodeAll(b, nil)); err != nil {
		return "", err
	}

	return sha, nil
}

func (c *Catalog) addSource(sha, name string) (int64, error) {
	var id int64
	switch err := c.db.QueryRow("SELECT id FROM source WHERE sha1 = ?", sha).Scan(&id); err {
	case sql.ErrNoRows:
		result, err := c.db.Exec("INSERT INTO source (sha1, name) VALUES (?, ?)", sha, name)
		if err != nil {
			return 0, err
		}
		return result.LastInsertId()
	case nil:
		return id, nil
	default:
		return 0, err
	}
}

// Find returns the DG5 encoding of the source with the given SHA-1 and
// options, or nil if there isn't one.
func (c *Catalog) Find(sha string, o Options) ([]byte, error) {
	var b []byte
	switch err := c.db.QueryRow("SELECT e.dg5 FROM encoding AS e JOIN source AS s ON e.source_id = s.id WHERE s.sha1 = ? AND e.mode = ? AND e.dither = ?", sha, int(o.Mode), int(o.Dither)).Scan(&b); err {
	case sql.ErrNoRows:
		return nil, nil
	case nil:
		return c.dec.DecodeAll(b, nil)
	default:
		return nil, err
	}
}

// List returns every stored encoding ordered by source name.
func (c *Catalog) List() ([]Entry, error) {
	rows, err := c.db.Query("SELECT s.sha1, s.name, e.mode, e.dither, e.width, e.height, e.size FROM encoding AS e JOIN source AS s ON e.source_id = s.id ORDER BY s.name, e.mode, e.dither")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var mode, dm int
		if err := rows.Scan(&e.SHA1, &e.Name, &mode, &dm, &e.Width, &e.Height, &e.Size); err != nil {
			return nil, err
		}
		e.Mode, e.Dither = palette.Mode(mode), dither.Mode(dm)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
