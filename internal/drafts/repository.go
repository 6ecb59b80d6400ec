// internal/drafts/repository.go
package drafts

import (
	"context"
	"errors"
	"sort"
	"sync"

	"loan-origination/internal/models"
)

var ErrNotFound = errors.New("DRAFT_NOT_FOUND")

// Repository is the key-value backing for drafts, scoped per applicant.
// ListByApplicant returns drafts most recently saved first.
type Repository interface {
	Put(ctx context.Context, draft models.Draft) error
	Get(ctx context.Context, id string) (*models.Draft, error)
	Delete(ctx context.Context, id string) error
	ListByApplicant(ctx context.Context, applicantID string) ([]models.Draft, error)
}

// MemoryRepository keeps drafts in process memory.
type MemoryRepository struct {
	mu     sync.RWMutex
	drafts map[string]models.Draft
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{drafts: make(map[string]models.Draft)}
}

func (r *MemoryRepository) Put(_ context.Context, draft models.Draft) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.drafts[draft.ID] = draft
	return nil
}

func (r *MemoryRepository) Get(_ context.Context, id string) (*models.Draft, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.drafts[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &d, nil
}

func (r *MemoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.drafts, id)
	return nil
}

func (r *MemoryRepository) ListByApplicant(_ context.Context, applicantID string) ([]models.Draft, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []models.Draft
	for _, d := range r.drafts {
		if d.ApplicantID == applicantID {
			out = append(out, d)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func sortNewestFirst(drafts []models.Draft) {
	sort.SliceStable(drafts, func(i, j int) bool {
		if drafts[i].LastSaved.Equal(drafts[j].LastSaved) {
			return drafts[i].ID > drafts[j].ID
		}
		return drafts[i].LastSaved.After(drafts[j].LastSaved)
	})
}
