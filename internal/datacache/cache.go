package datacache

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const (
	tableFileExtensionConstant         = ".csv"
	currentDirectoryConstant           = "."
	readOnlyMessageConstant            = "cache is read-only"
	tableDecodeErrorTemplateConstant   = "decode cached table %q: %w"
	tableEncodeErrorTemplateConstant   = "encode cached table %q: %w"
	tableWriteErrorTemplateConstant    = "write cached table %q: %w"
	directoryScanErrorTemplateConstant = "scan cache directory %s: %w"
	entryInspectErrorTemplateConstant  = "inspect cache entry %s: %w"
	tableFilePermissionsConstant       = 0o644
)

// ErrReadOnly is returned by mutating operations on a read-only cache.
var ErrReadOnly = errors.New(readOnlyMessageConstant)

// EntryInfo describes a table file present under the cache prefix.
type EntryInfo struct {
	Key        string
	Path       string
	Size       int64
	ModifiedAt time.Time
	Loaded     bool
}

// Cache maps keys to tables persisted at <prefix><key>.csv.
type Cache struct {
	prefix   string
	readOnly bool
	entries  map[string]Table
}

// New creates a cache rooted at prefix. The initial tables seed the in-memory layer only.
func New(prefix string, readOnly bool, initial map[string]Table) *Cache {
	entries := make(map[string]Table, len(initial))
	for key, table := range initial {
		entries[key] = table
	}
	return &Cache{prefix: prefix, readOnly: readOnly, entries: entries}
}

// Prefix returns the path prefix prepended to every key.
func (cache *Cache) Prefix() string {
	return cache.prefix
}

// ReadOnly reports whether mutations are refused.
func (cache *Cache) ReadOnly() bool {
	return cache.readOnly
}

// Path returns the backing file location for key.
func (cache *Cache) Path(key string) string {
	return cache.prefix + key + tableFileExtensionConstant
}

// Contains reports whether the backing file exists. The memory layer is not consulted.
func (cache *Cache) Contains(key string) bool {
	_, statError := os.Stat(cache.Path(key))
	return statError == nil
}

// Loaded reports whether key is held in memory.
func (cache *Cache) Loaded(key string) bool {
	_, loaded := cache.entries[key]
	return loaded
}

// Get returns the table for key, reading and memoizing the backing file on a miss.
func (cache *Cache) Get(key string) (Table, error) {
	if table, loaded := cache.entries[key]; loaded {
		return table, nil
	}
	tableFile, openError := os.Open(cache.Path(key))
	if openError != nil {
		return Table{}, openError
	}
	defer tableFile.Close()

	table, readError := ReadTable(tableFile)
	if readError != nil {
		return Table{}, fmt.Errorf(tableDecodeErrorTemplateConstant, key, readError)
	}
	cache.entries[key] = table
	return table, nil
}

// Set writes the table to the backing file, replacing any previous content.
// The memory layer is left untouched.
func (cache *Cache) Set(key string, table Table) error {
	if cache.readOnly {
		return ErrReadOnly
	}
	var encoded bytes.Buffer
	if encodeError := WriteTable(&encoded, table); encodeError != nil {
		return fmt.Errorf(tableEncodeErrorTemplateConstant, key, encodeError)
	}
	if writeError := os.WriteFile(cache.Path(key), encoded.Bytes(), tableFilePermissionsConstant); writeError != nil {
		return fmt.Errorf(tableWriteErrorTemplateConstant, key, writeError)
	}
	return nil
}

// Delete evicts key from memory and removes its backing file when one exists.
func (cache *Cache) Delete(key string) error {
	cache.InvalidateMemory(key)
	if !cache.Contains(key) {
		return nil
	}
	return cache.InvalidateDisk(key)
}

// InvalidateMemory drops the in-memory copy of key.
func (cache *Cache) InvalidateMemory(key string) {
	delete(cache.entries, key)
}

// InvalidateDisk removes the backing file of key.
func (cache *Cache) InvalidateDisk(key string) error {
	if cache.readOnly {
		return ErrReadOnly
	}
	return os.Remove(cache.Path(key))
}

// Keys returns the sorted keys of every table file under the cache prefix.
func (cache *Cache) Keys() ([]string, error) {
	entries, entriesError := cache.Entries()
	if entriesError != nil {
		return nil, entriesError
	}
	keys := make([]string, 0, len(entries))
	for _, entry := range entries {
		keys = append(keys, entry.Key)
	}
	return keys, nil
}

// Entries returns the table files under the cache prefix sorted by key.
func (cache *Cache) Entries() ([]EntryInfo, error) {
	directory, namePrefix := filepath.Split(cache.prefix)
	scanDirectory := directory
	if len(scanDirectory) == 0 {
		scanDirectory = currentDirectoryConstant
	}
	directoryEntries, readError := os.ReadDir(scanDirectory)
	if readError != nil {
		return nil, fmt.Errorf(directoryScanErrorTemplateConstant, scanDirectory, readError)
	}

	entries := make([]EntryInfo, 0, len(directoryEntries))
	for _, directoryEntry := range directoryEntries {
		if directoryEntry.IsDir() {
			continue
		}
		key, matched := keyFromFileName(namePrefix, directoryEntry.Name())
		if !matched {
			continue
		}
		fileInfo, infoError := directoryEntry.Info()
		if infoError != nil {
			return nil, fmt.Errorf(entryInspectErrorTemplateConstant, directoryEntry.Name(), infoError)
		}
		entries = append(entries, EntryInfo{
			Key:        key,
			Path:       cache.Path(key),
			Size:       fileInfo.Size(),
			ModifiedAt: fileInfo.ModTime(),
			Loaded:     cache.Loaded(key),
		})
	}
	sort.Slice(entries, func(leftIndex, rightIndex int) bool {
		return entries[leftIndex].Key < entries[rightIndex].Key
	})
	return entries, nil
}

func keyFromFileName(namePrefix string, fileName string) (string, bool) {
	if !strings.HasPrefix(fileName, namePrefix) || !strings.HasSuffix(fileName, tableFileExtensionConstant) {
		return "", false
	}
	key := strings.TrimSuffix(strings.TrimPrefix(fileName, namePrefix), tableFileExtensionConstant)
	return key, len(key) > 0
}
