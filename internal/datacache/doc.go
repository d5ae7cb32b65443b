// Package datacache maps string keys to tables stored as one CSV file per key.
//
// Files live at <prefix><key>.csv and are encoded as ISO-8859-1 so that legacy
// exports round-trip byte for byte. Tables are loaded lazily into an in-memory
// layer on first access. A Cache opened read-only never touches the filesystem
// beyond reads. Cache values are not safe for concurrent use.
package datacache
