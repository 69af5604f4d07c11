// Package archive stores finished runs in a bolt database.
//
// Every run is kept in its own bucket under the runs bucket. The run
// bucket holds the run information and two nested buckets with the
// observed (count > 0) keys of the nucleotide and the amino acid
// keyspaces. Saving a run replaces a previous run with the same name;
// runs are never merged.
package archive

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/op/go-logging"

	bolt "go.etcd.io/bbolt"

	"bitbucket.org/abseq/ninemer/index"
	"bitbucket.org/abseq/ninemer/keyspace"
)

// log is the global logging variable.
var log = logging.MustGetLogger("archive")

var (
	// RunsBucket is the top level bucket.
	RunsBucket = []byte("runs")
	// InfoKey stores RunInfo in a run bucket.
	InfoKey = []byte("info")
)

// ErrNoRun is returned when a run is not in the archive.
var ErrNoRun = errors.New("no such run")

// RunInfo describes a stored run.
type RunInfo struct {
	Name         string      `json:"name"`
	Time         time.Time   `json:"time"`
	Dataset      string      `json:"dataset"`
	Alphabet     string      `json:"alphabet"`
	WindowLength int         `json:"windowLength"`
	Step         int         `json:"step"`
	GeneticCode  int         `json:"geneticCode"`
	Stats        index.Stats `json:"stats"`

	// Summary is an arbitrary JSON run summary.
	Summary json.RawMessage `json:"summary,omitempty"`
}

// Archive is a bolt database with runs.
type Archive struct {
	db *bolt.DB
}

// Open opens or creates an archive.
func Open(path string) (*Archive, error) {
	db, err := bolt.Open(path, 0666, &bolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening archive %s: %w", path, err)
	}
	return &Archive{db: db}, nil
}

// Close closes the database.
func (a *Archive) Close() error {
	return a.db.Close()
}

// putEntries stores the observed keys in a bucket.
func putEntries(b *bolt.Bucket, ks *keyspace.Keyspace) (n int, err error) {
	for k, s := range ks.Entries {
		if s.Count == 0 {
			continue
		}
		data, err := json.Marshal(s)
		if err != nil {
			return n, err
		}
		if err := b.Put([]byte(k), data); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

// Save stores a run, replacing a run with the same name.
func (a *Archive) Save(info *RunInfo, nuc, amino *keyspace.Keyspace) error {
	if info.Name == "" {
		return errors.New("run without a name")
	}
	infoB, err := json.Marshal(info)
	if err != nil {
		log.Error("Error serializing run info", err)
		return err
	}
	err = a.db.Update(func(tx *bolt.Tx) error {
		runs, err := tx.CreateBucketIfNotExists(RunsBucket)
		if err != nil {
			return err
		}
		name := []byte(info.Name)
		if runs.Bucket(name) != nil {
			log.Noticef("Replacing archived run %s", info.Name)
			if err := runs.DeleteBucket(name); err != nil {
				return err
			}
		}
		rb, err := runs.CreateBucket(name)
		if err != nil {
			return err
		}
		if err := rb.Put(InfoKey, infoB); err != nil {
			return err
		}
		for _, p := range []struct {
			kind index.Kind
			ks   *keyspace.Keyspace
		}{{index.KindNucleotide, nuc}, {index.KindAmino, amino}} {
			b, err := rb.CreateBucket([]byte(p.kind))
			if err != nil {
				return err
			}
			n, err := putEntries(b, p.ks)
			if err != nil {
				return err
			}
			log.Debugf("Archived %d %s keys", n, p.kind)
		}
		return nil
	})
	if err != nil {
		log.Error("Error saving run", err)
	}
	return err
}

// runBucket returns the bucket of a run or ErrNoRun.
func runBucket(tx *bolt.Tx, name string) (*bolt.Bucket, error) {
	runs := tx.Bucket(RunsBucket)
	if runs == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoRun, name)
	}
	rb := runs.Bucket([]byte(name))
	if rb == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoRun, name)
	}
	return rb, nil
}

// Info returns information on a run.
func (a *Archive) Info(name string) (*RunInfo, error) {
	var info *RunInfo
	err := a.db.View(func(tx *bolt.Tx) error {
		rb, err := runBucket(tx, name)
		if err != nil {
			return err
		}
		// the value is only valid during the transaction,
		// json.Unmarshal copies everything it needs
		return json.Unmarshal(rb.Get(InfoKey), &info)
	})
	if err != nil {
		return nil, err
	}
	return info, nil
}

// Runs returns information on all the runs sorted by name.
func (a *Archive) Runs() ([]*RunInfo, error) {
	var res []*RunInfo
	err := a.db.View(func(tx *bolt.Tx) error {
		runs := tx.Bucket(RunsBucket)
		if runs == nil {
			return nil
		}
		return runs.ForEach(func(k, v []byte) error {
			rb := runs.Bucket(k)
			if rb == nil {
				return nil
			}
			var info *RunInfo
			if err := json.Unmarshal(rb.Get(InfoKey), &info); err != nil {
				return fmt.Errorf("run %s: %w", k, err)
			}
			res = append(res, info)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Name < res[j].Name })
	return res, nil
}

// Entries returns the observed keys of a run keyspace.
func (a *Archive) Entries(name string, kind index.Kind) (keyspace.Entries, error) {
	entries := keyspace.Entries{}
	err := a.db.View(func(tx *bolt.Tx) error {
		rb, err := runBucket(tx, name)
		if err != nil {
			return err
		}
		b := rb.Bucket([]byte(kind))
		if b == nil {
			return fmt.Errorf("run %s has no %s keyspace", name, kind)
		}
		return b.ForEach(func(k, v []byte) error {
			var s keyspace.KeyStats
			if err := json.Unmarshal(v, &s); err != nil {
				return err
			}
			entries[string(k)] = &s
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// Lookup returns statistics of a single key. Keys which were not
// observed in the run have zero statistics.
func (a *Archive) Lookup(name string, kind index.Kind, key string) (*keyspace.KeyStats, error) {
	s := &keyspace.KeyStats{Indices: []int{}}
	err := a.db.View(func(tx *bolt.Tx) error {
		rb, err := runBucket(tx, name)
		if err != nil {
			return err
		}
		b := rb.Bucket([]byte(kind))
		if b == nil {
			return fmt.Errorf("run %s has no %s keyspace", name, kind)
		}
		v := b.Get([]byte(key))
		if v == nil {
			return nil
		}
		return json.Unmarshal(v, s)
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Delete removes a run.
func (a *Archive) Delete(name string) error {
	return a.db.Update(func(tx *bolt.Tx) error {
		if _, err := runBucket(tx, name); err != nil {
			return err
		}
		return tx.Bucket(RunsBucket).DeleteBucket([]byte(name))
	})
}
