package repos

import (
	"context"
	"fmt"
	"strings"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/sprachhaus/sprachhaus-backend/internal/domain"
	"github.com/sprachhaus/sprachhaus-backend/internal/platform/logger"
)

type AttemptStore interface {
	Exists(ctx context.Context, key string) (bool, error)
	CreateBatch(ctx context.Context, rows []*domain.StoredAttempt) (written int, skipped int, err error)
	ListByStudentLevel(ctx context.Context, studentCode, level string) ([]*domain.StoredAttempt, error)
	ListByLevel(ctx context.Context, level string) ([]*domain.StoredAttempt, error)
}

type attemptStore struct {
	client     *firestore.Client
	collection string
	log        *logger.Logger
}

func NewAttemptStore(client *firestore.Client, collection string, baseLog *logger.Logger) (AttemptStore, error) {
	if client == nil {
		return nil, fmt.Errorf("firestore client required")
	}
	if strings.TrimSpace(collection) == "" {
		return nil, fmt.Errorf("attempt collection name required")
	}
	return &attemptStore{
		client:     client,
		collection: collection,
		log:        baseLog.With("repo", "AttemptStore"),
	}, nil
}

func (s *attemptStore) Exists(ctx context.Context, key string) (bool, error) {
	_, err := s.client.Collection(s.collection).Doc(key).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// CreateBatch commits the staged documents in one write batch using Create
// semantics, so a concurrent run racing past the existence check cannot
// overwrite anything. A conflicting batch falls back to per-document
// creates; conflicts count as skipped, never as errors.
func (s *attemptStore) CreateBatch(ctx context.Context, rows []*domain.StoredAttempt) (int, int, error) {
	if len(rows) == 0 {
		return 0, 0, nil
	}

	batch := s.client.Batch()
	for _, row := range rows {
		batch.Create(s.client.Collection(s.collection).Doc(row.Key), row)
	}
	if _, err := batch.Commit(ctx); err == nil {
		return len(rows), 0, nil
	} else if status.Code(err) != codes.AlreadyExists {
		return 0, 0, err
	}

	written, skipped := 0, 0
	for _, row := range rows {
		_, err := s.client.Collection(s.collection).Doc(row.Key).Create(ctx, row)
		switch {
		case err == nil:
			written++
		case status.Code(err) == codes.AlreadyExists:
			skipped++
		default:
			return written, skipped, err
		}
	}
	s.log.Debug("Batch fell back to per-document creates", "written", written, "skipped", skipped)
	return written, skipped, nil
}

func (s *attemptStore) ListByStudentLevel(ctx context.Context, studentCode, level string) ([]*domain.StoredAttempt, error) {
	q := s.client.Collection(s.collection).
		Where("studentCode", "==", strings.TrimSpace(studentCode))
	if strings.TrimSpace(level) != "" {
		q = q.Where("level", "==", strings.TrimSpace(level))
	}
	return s.collect(ctx, q)
}

func (s *attemptStore) ListByLevel(ctx context.Context, level string) ([]*domain.StoredAttempt, error) {
	q := s.client.Collection(s.collection).
		Where("level", "==", strings.TrimSpace(level))
	return s.collect(ctx, q)
}

func (s *attemptStore) collect(ctx context.Context, q firestore.Query) ([]*domain.StoredAttempt, error) {
	var results []*domain.StoredAttempt
	iter := q.Documents(ctx)
	defer iter.Stop()
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		var row domain.StoredAttempt
		if err := doc.DataTo(&row); err != nil {
			// One malformed document must not take down a page render.
			s.log.Warn("Skipping malformed attempt document", "doc_id", doc.Ref.ID, "error", err)
			continue
		}
		row.Key = doc.Ref.ID
		results = append(results, &row)
	}
	return results, nil
}
