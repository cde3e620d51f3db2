package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/dgraph-io/badger/v4"

	"github.com/soaringjerry/TalentFlow/internal/models"
)

// Key layout. Parts are joined with a NUL byte so ids containing '/' cannot
// collide in prefix scans.
//
//	schema\x00<jobID>                                  -> assessment JSON
//	resp\x00<responseID>                               -> response JSON
//	cand\x00<candidateID>\x00<submittedAt>\x00<id>     -> empty
//	asmt\x00<assessmentID>\x00<submittedAt>\x00<id>    -> empty
const sep = "\x00"

func schemaKey(jobID string) []byte { return []byte("schema" + sep + jobID) }
func responseKey(id string) []byte  { return []byte("resp" + sep + id) }

func indexPrefix(kind, owner string) []byte { return []byte(kind + sep + owner + sep) }

func indexKey(kind, owner string, r *models.Response) []byte {
	// formatTime is fixed width, so index keys sort by submission time.
	return append(indexPrefix(kind, owner), []byte(formatTime(r.SubmittedAt)+sep+r.ID)...)
}

// BadgerConfig selects where the KV store lives.
type BadgerConfig struct {
	Path       string
	InMemory   bool
	SyncWrites bool
	Logger     *slog.Logger
}

// BadgerStore keeps the same data as SQLiteStore in an embedded KV store.
// Listing by candidate or assessment is a prefix scan over index keys.
type BadgerStore struct {
	db *badger.DB
}

type badgerLogger struct{ logger *slog.Logger }

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

func OpenBadgerStore(cfg BadgerConfig) (*BadgerStore, error) {
	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if cfg.Path == "" {
			return nil, errors.New("badger path is required")
		}
		if err := os.MkdirAll(cfg.Path, 0o750); err != nil {
			return nil, fmt.Errorf("create badger dir %s: %w", cfg.Path, err)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts = opts.WithSyncWrites(cfg.SyncWrites).WithNumVersionsToKeep(1)
	if cfg.Logger != nil {
		opts = opts.WithLogger(&badgerLogger{logger: cfg.Logger})
	} else {
		opts = opts.WithLogger(nil)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return &BadgerStore{db: db}, nil
}

func (s *BadgerStore) Close() error { return s.db.Close() }

func (s *BadgerStore) GetSchema(_ context.Context, jobID string) (*models.Assessment, error) {
	var a *models.Assessment
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(schemaKey(jobID))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			a = &models.Assessment{}
			return json.Unmarshal(val, a)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get assessment %s: %w", jobID, err)
	}
	if a.Sections == nil {
		a.Sections = []*models.Section{}
	}
	return a, nil
}

func (s *BadgerStore) PutSchema(ctx context.Context, jobID string, a *models.Assessment) error {
	if a == nil {
		return errors.New("nil assessment")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	raw, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("encode assessment: %w", err)
	}
	if err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(schemaKey(jobID), raw)
	}); err != nil {
		return fmt.Errorf("put assessment %s: %w", jobID, err)
	}
	return nil
}

// AppendResponse writes the record and both index keys in one transaction.
func (s *BadgerStore) AppendResponse(ctx context.Context, r *models.Response) error {
	if r == nil {
		return errors.New("nil response")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	raw, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encode response: %w", err)
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(responseKey(r.ID)); err == nil {
			return fmt.Errorf("response %s already exists", r.ID)
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		if err := txn.Set(responseKey(r.ID), raw); err != nil {
			return err
		}
		if err := txn.Set(indexKey("cand", r.CandidateID, r), nil); err != nil {
			return err
		}
		return txn.Set(indexKey("asmt", r.AssessmentID, r), nil)
	})
	if err != nil {
		return fmt.Errorf("append response %s: %w", r.ID, err)
	}
	return nil
}

func (s *BadgerStore) ListResponses(ctx context.Context, candidateID string) ([]*models.Response, error) {
	return s.scan(ctx, indexPrefix("cand", candidateID))
}

func (s *BadgerStore) ListResponsesByAssessment(ctx context.Context, assessmentID string) ([]*models.Response, error) {
	return s.scan(ctx, indexPrefix("asmt", assessmentID))
}

func (s *BadgerStore) scan(ctx context.Context, prefix []byte) ([]*models.Response, error) {
	out := []*models.Response{}
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			key := it.Item().KeyCopy(nil)
			id := lastPart(key)
			item, err := txn.Get(responseKey(id))
			if err != nil {
				return fmt.Errorf("load response %s: %w", id, err)
			}
			var r models.Response
			if err := item.Value(func(val []byte) error { return json.Unmarshal(val, &r) }); err != nil {
				return fmt.Errorf("decode response %s: %w", id, err)
			}
			out = append(out, &r)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func lastPart(key []byte) string {
	for i := len(key) - 1; i >= 0; i-- {
		if key[i] == 0 {
			return string(key[i+1:])
		}
	}
	return string(key)
}
