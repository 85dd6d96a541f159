// Package journal records cipher runs in a BoltDB file.
//
// Only digests, sizes and the produced text are stored. Keys never are.
package journal

import (
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"path/filepath"
	"time"
	"unicode/utf8"

	"go.etcd.io/bbolt"
	"golang.org/x/crypto/sha3"
)

type Config struct {
	File string `yaml:"file"`
}

var (
	bucketRuns = []byte("runs")
)

var db *bbolt.DB

func Open(config Config) {
	if db != nil {
		panic("journal: already opened")
	}
	if config.File == "" {
		panic("journal: file is required")
	}

	err := os.MkdirAll(filepath.Dir(config.File), 0755)
	if err != nil {
		panic(fmt.Errorf("journal: create dir: %w", err))
	}

	db, err = bbolt.Open(config.File, 0600, &bbolt.Options{
		Timeout: 30 * time.Second,
	})
	if err != nil {
		panic(fmt.Errorf("journal: open bbolt db: %w", err))
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketRuns)
		if err != nil {
			return fmt.Errorf("create bucket %q: %w", bucketRuns, err)
		}
		return nil
	})
	if err != nil {
		db.Close()
		db = nil
		panic(fmt.Errorf("journal: initialize buckets: %w", err))
	}
}

func Close() error {
	if db == nil {
		panic("journal: not opened")
	}

	err := db.Close()
	db = nil
	if err != nil {
		return fmt.Errorf("journal: close bbolt db: %w", err)
	}
	return nil
}

type closerFunc func() error

func (f closerFunc) Close() error {
	return f()
}

func Closer() io.Closer {
	return closerFunc(Close)
}

// Entry is one recorded encode or decode run.
type Entry struct {
	Time          time.Time `json:"time"`
	Op            string    `json:"op"`
	Base          int       `json:"base"`
	InputSymbols  int       `json:"input_symbols"`
	OutputSymbols int       `json:"output_symbols"`
	InputDigest   string    `json:"input_digest"`
	OutputDigest  string    `json:"output_digest"`
	Output        string    `json:"output"`
}

// Digest returns the hex SHA3-256 of s.
func Digest(s string) string {
	sum := sha3.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

// NewEntry describes a run that turned input into output over an alphabet
// of the given base.
func NewEntry(op string, base int, input, output string, t time.Time) Entry {
	return Entry{
		Time:          t,
		Op:            op,
		Base:          base,
		InputSymbols:  utf8.RuneCountInString(input),
		OutputSymbols: utf8.RuneCountInString(output),
		InputDigest:   Digest(input),
		OutputDigest:  Digest(output),
		Output:        output,
	}
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(fmt.Errorf("journal: must: %w", err))
	}
	return v
}

// Append stores e and returns its sequence number, starting at 1.
func Append(e Entry) (uint64, error) {
	if db == nil {
		panic("journal: not opened")
	}

	var seq uint64
	err := db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketRuns)
		if b == nil {
			return fmt.Errorf("journal: runs bucket not found")
		}

		var err error
		seq, err = b.NextSequence()
		if err != nil {
			return fmt.Errorf("journal: next sequence: %w", err)
		}

		return b.Put(binary.BigEndian.AppendUint64(nil, seq), must(json.Marshal(e)))
	})
	if err != nil {
		return 0, err
	}
	return seq, nil
}

var errStop = fmt.Errorf("stop iteration")

// All yields every entry in the order it was appended.
func All() iter.Seq2[uint64, Entry] {
	if db == nil {
		panic("journal: not opened")
	}

	return func(yield func(uint64, Entry) bool) {
		err := db.View(func(tx *bbolt.Tx) error {
			b := tx.Bucket(bucketRuns)
			if b == nil {
				return fmt.Errorf("journal: runs bucket not found")
			}

			return b.ForEach(func(k, v []byte) error {
				if len(k) != 8 {
					return fmt.Errorf("journal: malformed key %x", k)
				}
				seq := binary.BigEndian.Uint64(k)

				var e Entry
				err := json.Unmarshal(v, &e)
				if err != nil {
					return fmt.Errorf("journal: unmarshal entry %d: %w", seq, err)
				}

				if !yield(seq, e) {
					return errStop
				}
				return nil
			})
		})

		if err != nil {
			if errors.Is(err, errStop) {
				return
			}
			panic(fmt.Errorf("journal: list entries: %w", err))
		}
	}
}
