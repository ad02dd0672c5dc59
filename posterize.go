/*
Package posterize is a library for reducing images to a 32 color palette and
storing them in the bit-packed DG5 format.

The algorithms live in the sub-packages; this package ties them together and
maintains a catalog of encoded images.
*/
package posterize

import (
	"log"

	"github.com/bodgit/posterize/dither"
	"github.com/bodgit/posterize/palette"
)

// Options select the palette and dithering modes.
type Options struct {
	Mode   palette.Mode
	Dither dither.Mode
}

// Posterizer maintains a catalog of DG5 encoded images.
type Posterizer struct {
	db     *Catalog
	logger *log.Logger
}

// New opens or creates the catalog at file.
func New(file string, logger *log.Logger) (*Posterizer, error) {
	db, err := NewCatalog(file)
	if err != nil {
		return nil, err
	}

	return &Posterizer{
		db:     db,
		logger: logger,
	}, nil
}

// Catalog returns the underlying catalog.
func (p *Posterizer) Catalog() *Catalog {
	return p.db
}

// Close closes the catalog.
func (p *Posterizer) Close() error {
	return p.db.Close()
}
