package persistent

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/buntdb"
)

var ErrTableNotFound = errors.New("keyvalue table not found")

// Item is the record shape the key/value collaborator stores.
type Item struct {
	Id         string            `json:"ID"`
	Attributes map[string]string `json:"Attributes"`
}

type TableDescription struct {
	Name      string
	KeySchema []string
}

// KeyValueTable is a handle to one named table of a durable key/value
// backend. Every operation is a single round trip with no retry policy.
type KeyValueTable interface {
	Describe() TableDescription

	PutItem(item Item) error

	// GetItem reports absence through the bool, not an error.
	GetItem(id string) (Item, bool, error)

	DeleteItem(id string) error

	Scan(visit func(item Item) error) error
}

type KeyValueClient interface {
	// Table fails with ErrTableNotFound for an unknown table name.
	Table(name string) (KeyValueTable, error)
}

// BuntClient backs the key/value table contract with buntdb. Tables are
// registered up front with their key schema; items live under
// "kv:<table>:<id>" keys as JSON.
type BuntClient struct {
	db     *buntdb.DB
	tables map[string]TableDescription
}

func NewBuntClient(db *buntdb.DB) *BuntClient {
	return &BuntClient{
		db:     db,
		tables: map[string]TableDescription{},
	}
}

var _ KeyValueClient = (*BuntClient)(nil)

func (c *BuntClient) CreateTable(name string, keySchema ...string) error {
	err := c.db.CreateIndex("kv_"+name, tableKeyPrefix(name)+"*", buntdb.IndexString)
	if err != nil && !errors.Is(err, buntdb.ErrIndexExists) {
		return fmt.Errorf("create table index: %w", err)
	}
	c.tables[name] = TableDescription{Name: name, KeySchema: keySchema}
	return nil
}

func (c *BuntClient) Table(name string) (KeyValueTable, error) {
	description, ok := c.tables[name]
	if !ok {
		return nil, ErrTableNotFound
	}
	return &buntTable{db: c.db, description: description}, nil
}

type buntTable struct {
	db          *buntdb.DB
	description TableDescription
}

func (t *buntTable) Describe() TableDescription {
	return t.description
}

func (t *buntTable) PutItem(item Item) error {
	serialized, err := json.Marshal(&item)
	if err != nil {
		return fmt.Errorf("serialize item: %w", err)
	}
	err = t.db.Update(func(tx *buntdb.Tx) error {
		_, _, err := tx.Set(t.key(item.Id), string(serialized), nil)
		return err
	})
	if err != nil {
		return fmt.Errorf("bunt update: %w", err)
	}
	return nil
}

func (t *buntTable) GetItem(id string) (Item, bool, error) {
	var item Item
	err := t.db.View(func(tx *buntdb.Tx) error {
		serialized, err := tx.Get(t.key(id))
		if err != nil {
			return err
		}
		return json.Unmarshal([]byte(serialized), &item)
	})
	if err != nil {
		if errors.Is(err, buntdb.ErrNotFound) {
			return Item{}, false, nil
		}
		return Item{}, false, fmt.Errorf("bunt view: %w", err)
	}
	return item, true, nil
}

func (t *buntTable) DeleteItem(id string) error {
	err := t.db.Update(func(tx *buntdb.Tx) error {
		_, err := tx.Delete(t.key(id))
		return err
	})
	if err != nil && !errors.Is(err, buntdb.ErrNotFound) {
		return fmt.Errorf("bunt update: %w", err)
	}
	return nil
}

func (t *buntTable) Scan(visit func(item Item) error) error {
	var visitErr error
	err := t.db.View(func(tx *buntdb.Tx) error {
		prefix := t.key("")
		return tx.AscendKeys(prefix+"*", func(key, value string) bool {
			var item Item
			if err := json.Unmarshal([]byte(value), &item); err != nil {
				visitErr = fmt.Errorf("deserialize item %q: %w", key, err)
				return false
			}
			if err := visit(item); err != nil {
				visitErr = err
				return false
			}
			return true
		})
	})
	if err != nil {
		return fmt.Errorf("bunt view: %w", err)
	}
	return visitErr
}

func (t *buntTable) key(id string) string {
	return tableKeyPrefix(t.description.Name) + id
}

func tableKeyPrefix(name string) string {
	// colons would leak items into a neighbouring table's key range
	return "kv:" + strings.Replace(name, ":", "_", -1) + ":"
}
