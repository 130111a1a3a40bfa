// Package store keeps an inverted index and its documents in badger.
package store

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/RoaringBitmap/roaring"
	"github.com/dgraph-io/badger/v3"
	"github.com/xkmsoft/stemsearch/pkg/engine"
)

const (
	indexPrefix    = "idx:"
	documentPrefix = "doc:"
)

type BadgerStore struct {
	DB *badger.DB
	mu *sync.Mutex
}

var _ engine.IndexStore = (*BadgerStore)(nil)

func Open(path string) (*BadgerStore, error) {
	return open(badger.DefaultOptions(path).WithLoggingLevel(badger.WARNING))
}

// OpenInMemory opens a store that lives only as long as the process.
func OpenInMemory() (*BadgerStore, error) {
	return open(badger.DefaultOptions("").WithInMemory(true).WithLoggingLevel(badger.WARNING))
}

func open(opts badger.Options) (*BadgerStore, error) {
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &BadgerStore{DB: db, mu: new(sync.Mutex)}, nil
}

func (s *BadgerStore) Close() error {
	return s.DB.Close()
}

// SaveIndex replaces every stored posting list with indexes.
func (s *BadgerStore) SaveIndex(indexes map[string]*roaring.Bitmap) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.deletePrefix([]byte(indexPrefix)); err != nil {
		return err
	}

	wb := s.DB.NewWriteBatch()
	defer wb.Cancel()

	// the batch commits in as many transactions as it needs
	for token, bitmap := range indexes {
		val, err := bitmap.ToBytes()
		if err != nil {
			return fmt.Errorf("encode posting list %q: %w", token, err)
		}
		if err := wb.Set([]byte(indexPrefix+token), val); err != nil {
			return err
		}
	}
	return wb.Flush()
}

func (s *BadgerStore) LoadIndex() (map[string]*roaring.Bitmap, error) {
	indexes := make(map[string]*roaring.Bitmap)
	prefix := []byte(indexPrefix)
	return indexes, s.DB.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			token := string(item.Key()[len(prefix):])
			val, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			bitmap := roaring.New()
			if err := bitmap.UnmarshalBinary(val); err != nil {
				return fmt.Errorf("decode posting list %q: %w", token, err)
			}
			indexes[token] = bitmap
		}
		return nil
	})
}

// SaveDocuments replaces every stored document with data.
func (s *BadgerStore) SaveDocuments(data map[uint32]engine.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.deletePrefix([]byte(documentPrefix)); err != nil {
		return err
	}

	wb := s.DB.NewWriteBatch()
	defer wb.Cancel()

	for index, doc := range data {
		val, err := json.Marshal(doc)
		if err != nil {
			return err
		}
		if err := wb.Set(documentKey(index), val); err != nil {
			return err
		}
	}
	return wb.Flush()
}

func (s *BadgerStore) LoadDocuments() (map[uint32]engine.Document, error) {
	data := make(map[uint32]engine.Document)
	prefix := []byte(documentPrefix)
	return data, s.DB.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			val, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			var doc engine.Document
			if err := json.Unmarshal(val, &doc); err != nil {
				return err
			}
			data[binary.BigEndian.Uint32(item.Key()[len(prefix):])] = doc
		}
		return nil
	})
}

// HasIndex reports whether at least one posting list is stored.
func (s *BadgerStore) HasIndex() (bool, error) {
	found := false
	prefix := []byte(indexPrefix)
	err := s.DB.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()
		it.Rewind()
		found = it.ValidForPrefix(prefix)
		return nil
	})
	return found, err
}

func (s *BadgerStore) deletePrefix(prefix []byte) error {
	var keys [][]byte
	err := s.DB.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.ValidForPrefix(prefix); it.Next() {
			keys = append(keys, it.Item().KeyCopy(nil))
		}
		return nil
	})
	if err != nil || len(keys) == 0 {
		return err
	}

	wb := s.DB.NewWriteBatch()
	defer wb.Cancel()
	for _, key := range keys {
		if err := wb.Delete(key); err != nil {
			return err
		}
	}
	return wb.Flush()
}

func documentKey(index uint32) []byte {
	key := make([]byte, len(documentPrefix)+4)
	copy(key, documentPrefix)
	binary.BigEndian.PutUint32(key[len(documentPrefix):], index)
	return key
}
