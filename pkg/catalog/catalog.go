// Package catalog indexes decoded traces in a pebble database so they can
// be listed and served without re-reading the XH files.
//
// Keys:
//
//	trace/<ksuid>           msgpack Entry
//	path/<path>\x00<ksuid>  empty, one per entry of a file
package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"sync"

	"github.com/cockroachdb/pebble"
	"github.com/segmentio/ksuid"
	"github.com/vmihailenco/msgpack/v5"
)

var (
	tracePrefix = []byte("trace/")
	pathPrefix  = []byte("path/")
)

// Catalog is a pebble-backed trace index. It is safe for concurrent use.
type Catalog struct {
	db *pebble.DB
	// serializes the read-modify-write of a file's entries
	mu sync.Mutex
}

// Open opens or creates the catalog in dir.
func Open(dir string) (*Catalog, error) {
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("open catalog %s: %w", dir, err)
	}
	return &Catalog{db: db}, nil
}

func traceKey(id ksuid.KSUID) []byte {
	return append(append([]byte(nil), tracePrefix...), id.String()...)
}

func pathIndexPrefix(path string) []byte {
	key := append(append([]byte(nil), pathPrefix...), path...)
	return append(key, 0)
}

func pathKey(path string, id ksuid.KSUID) []byte {
	return append(pathIndexPrefix(path), id.String()...)
}

// upperBound returns the smallest key greater than every key with prefix.
func upperBound(prefix []byte) []byte {
	end := append([]byte(nil), prefix...)
	for i := len(end) - 1; i >= 0; i-- {
		end[i]++
		if end[i] != 0 {
			return end[:i+1]
		}
	}
	return nil
}

func (c *Catalog) iter(prefix []byte) (*pebble.Iterator, error) {
	return c.db.NewIter(&pebble.IterOptions{
		LowerBound: prefix,
		UpperBound: upperBound(prefix),
	})
}

func stage(b *pebble.Batch, e *Entry) error {
	if e.ID.IsNil() {
		e.ID = ksuid.New()
	}
	data, err := msgpack.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode entry: %w", err)
	}
	if err := b.Set(traceKey(e.ID), data, nil); err != nil {
		return err
	}
	return b.Set(pathKey(e.Path, e.ID), nil, nil)
}

// Put stores e, assigning a new id when e.ID is nil.
func (c *Catalog) Put(e *Entry) (ksuid.KSUID, error) {
	b := c.db.NewBatch()
	defer b.Close()

	if err := stage(b, e); err != nil {
		return ksuid.Nil, err
	}
	if err := b.Commit(pebble.Sync); err != nil {
		return ksuid.Nil, fmt.Errorf("commit entry: %w", err)
	}
	return e.ID, nil
}

// ReplacePath atomically swaps every entry of path for entries.
func (c *Catalog) ReplacePath(path string, entries []*Entry) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	b := c.db.NewBatch()
	defer b.Close()

	if _, err := c.stageDelete(b, path); err != nil {
		return err
	}
	// Ids of one file run in sequence so listings keep record order.
	id := ksuid.New()
	for _, e := range entries {
		e.Path = path
		if e.ID.IsNil() {
			e.ID = id
			id = id.Next()
		}
		if err := stage(b, e); err != nil {
			return err
		}
	}
	if err := b.Commit(pebble.Sync); err != nil {
		return fmt.Errorf("commit %s: %w", path, err)
	}
	return nil
}

// DeleteByPath removes every entry of path and returns how many there were.
func (c *Catalog) DeleteByPath(path string) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	b := c.db.NewBatch()
	defer b.Close()

	n, err := c.stageDelete(b, path)
	if err != nil || n == 0 {
		return 0, err
	}
	if err := b.Commit(pebble.Sync); err != nil {
		return 0, fmt.Errorf("commit delete %s: %w", path, err)
	}
	return n, nil
}

func (c *Catalog) stageDelete(b *pebble.Batch, path string) (int, error) {
	prefix := pathIndexPrefix(path)
	it, err := c.iter(prefix)
	if err != nil {
		return 0, err
	}
	defer it.Close()

	n := 0
	for it.First(); it.Valid(); it.Next() {
		id, err := ksuid.Parse(string(bytes.TrimPrefix(it.Key(), prefix)))
		if err != nil {
			return 0, fmt.Errorf("corrupt path index key %q: %w", it.Key(), err)
		}
		if err := b.Delete(traceKey(id), nil); err != nil {
			return 0, err
		}
		if err := b.Delete(pathKey(path, id), nil); err != nil {
			return 0, err
		}
		n++
	}
	return n, it.Error()
}

// Get returns the entry with id.
func (c *Catalog) Get(id ksuid.KSUID) (*Entry, error) {
	data, closer, err := c.db.Get(traceKey(id))
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	defer closer.Close()

	return decode(id, data)
}

func decode(id ksuid.KSUID, data []byte) (*Entry, error) {
	var e Entry
	if err := msgpack.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("decode entry %s: %w", id, err)
	}
	e.ID = id
	e.StartTime = e.StartTime.UTC()
	e.EndTime = e.EndTime.UTC()
	return &e, nil
}

// List returns the entries matching f in id order.
func (c *Catalog) List(f Filter) ([]*Entry, error) {
	var out []*Entry
	err := c.scan(func(e *Entry) {
		if f.match(e) {
			out = append(out, e)
		}
	})
	return out, err
}

// Count returns the number of entries.
func (c *Catalog) Count() (int, error) {
	it, err := c.iter(tracePrefix)
	if err != nil {
		return 0, err
	}
	defer it.Close()

	n := 0
	for it.First(); it.Valid(); it.Next() {
		n++
	}
	return n, it.Error()
}

// Summarize aggregates counts over every entry.
func (c *Catalog) Summarize() (Summary, error) {
	var s Summary
	files := make(map[string]struct{})
	channels := make(map[string]struct{})
	err := c.scan(func(e *Entry) {
		s.Traces++
		s.Samples += int64(e.NPTS)
		files[e.Path] = struct{}{}
		channels[e.SeedID()] = struct{}{}
	})
	s.Files = len(files)
	s.Channels = len(channels)
	return s, err
}

func (c *Catalog) scan(fn func(*Entry)) error {
	it, err := c.iter(tracePrefix)
	if err != nil {
		return err
	}
	defer it.Close()

	for it.First(); it.Valid(); it.Next() {
		id, err := ksuid.Parse(string(bytes.TrimPrefix(it.Key(), tracePrefix)))
		if err != nil {
			return fmt.Errorf("corrupt trace key %q: %w", it.Key(), err)
		}
		e, err := decode(id, it.Value())
		if err != nil {
			return err
		}
		fn(e)
	}
	return it.Error()
}

// Close closes the database.
func (c *Catalog) Close() error {
	return c.db.Close()
}
