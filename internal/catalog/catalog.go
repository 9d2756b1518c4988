// Package catalog keeps named snapshots in the local database.
package catalog

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"dirdiff/internal/collection"
	"dirdiff/internal/errors"
	"dirdiff/internal/fingerprint"
	"dirdiff/internal/snapshot"
	"dirdiff/internal/storage"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

const prefix = "snapshot"

// Record is one saved snapshot. Data holds the zstd compressed snapshot
// document.
type Record struct {
	ID        uuid.UUID             `json:"id"`
	Name      string                `json:"name"`
	Root      string                `json:"root"`
	Algorithm fingerprint.Algorithm `json:"algorithm"`
	Files     int                   `json:"files"`
	CreatedAt time.Time             `json:"created_at"`
	Data      []byte                `json:"data"`
}

func (r *Record) GetID() string { return r.Name }

type Catalog struct {
	store *storage.BadgerStore
}

func New(db *badger.DB) *Catalog {
	return &Catalog{store: storage.NewBadgerStore(db, prefix)}
}

func validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return errors.ValidationError("snapshot name cannot be empty", nil)
	}
	if strings.ContainsRune(name, 0) {
		return errors.ValidationError("invalid snapshot name", map[string]string{"name": name})
	}
	return nil
}

// Save stores c under name, replacing any snapshot with the same name.
func (c *Catalog) Save(name string, col *collection.Collection) (*Record, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	data, err := snapshot.Encode(col)
	if err != nil {
		return nil, err
	}

	record := &Record{
		ID:        uuid.New(),
		Name:      name,
		Root:      col.Root(),
		Algorithm: col.Algorithm(),
		Files:     col.Size(),
		CreatedAt: time.Now().UTC(),
		Data:      snapshot.Compress(data),
	}
	if err := c.store.Put(record); err != nil {
		return nil, fmt.Errorf("saving snapshot %s: %w", name, err)
	}
	return record, nil
}

func (c *Catalog) Get(name string) (*Record, error) {
	var record Record
	if err := c.store.Get(name, &record); err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.NotFound(fmt.Sprintf("no snapshot named %q", name))
		}
		return nil, fmt.Errorf("reading snapshot %s: %w", name, err)
	}
	return &record, nil
}

// Load decodes the collection saved under name.
func (c *Catalog) Load(name string) (*collection.Collection, error) {
	record, err := c.Get(name)
	if err != nil {
		return nil, err
	}
	return record.Collection()
}

func (r *Record) Collection() (*collection.Collection, error) {
	data, err := snapshot.Decompress(r.Data)
	if err != nil {
		return nil, errors.Wrap(err, fmt.Sprintf("snapshot %s", r.Name))
	}
	col, err := snapshot.Decode(data)
	if err != nil {
		return nil, errors.Wrap(err, fmt.Sprintf("snapshot %s", r.Name))
	}
	return col, nil
}

// List returns every record sorted by name, without their data.
func (c *Catalog) List() ([]Record, error) {
	var records []Record
	if err := c.store.List(&records); err != nil {
		return nil, err
	}
	for i := range records {
		records[i].Data = nil
	}
	slices.SortFunc(records, func(a, b Record) int {
		return strings.Compare(a.Name, b.Name)
	})
	return records, nil
}

func (c *Catalog) Remove(name string) error {
	if err := c.store.Delete(name); err != nil {
		if errors.IsNotFound(err) {
			return errors.NotFound(fmt.Sprintf("no snapshot named %q", name))
		}
		return fmt.Errorf("removing snapshot %s: %w", name, err)
	}
	return nil
}
