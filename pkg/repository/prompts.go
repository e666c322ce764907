package repository

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/samber/lo"

	"github.com/dskvich/chatwriting/pkg/domain"
	"github.com/dskvich/chatwriting/pkg/logger"
	"github.com/dskvich/chatwriting/pkg/storage"
)

type promptsRepository struct {
	mu         sync.RWMutex
	store      Store
	prompts    []domain.PromptTemplate
	selectedID string
}

// NewPromptsRepository loads the persisted prompt library, seeding the default writing
// prompts when the store has nothing usable. The first template starts out selected as
// the system prompt.
func NewPromptsRepository(ctx context.Context, store Store) *promptsRepository {
	var prompts []domain.PromptTemplate
	ok, err := store.Load(ctx, storage.KeyPromptLibrary, &prompts)
	if err != nil {
		slog.WarnContext(ctx, "Loading prompt library", logger.Err(err))
	}
	if !ok || len(prompts) == 0 {
		prompts = defaultPrompts()
	}

	r := &promptsRepository{
		store:   store,
		prompts: prompts,
	}
	if len(prompts) > 0 {
		r.selectedID = prompts[0].ID
	}
	return r
}

// Upsert inserts the template, or replaces an existing one in place keeping its
// position. When nothing is selected as the system prompt, the upserted template
// becomes the selection.
func (r *promptsRepository) Upsert(ctx context.Context, prompt domain.PromptTemplate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, i, found := lo.FindIndexOf(r.prompts, func(p domain.PromptTemplate) bool {
		return p.ID == prompt.ID
	})
	if found {
		prompt.CreatedAt = r.prompts[i].CreatedAt
		prompt.UpdatedAt = time.Now()
		r.prompts[i] = prompt
	} else {
		r.prompts = append(r.prompts, prompt)
	}

	if r.selectedID == "" {
		r.selectedID = prompt.ID
	}

	return r.persist(ctx)
}

// Remove deletes the template. When the removed id was selected, the selection falls
// back to the first remaining template, or to none.
func (r *promptsRepository) Remove(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.prompts = lo.Reject(r.prompts, func(p domain.PromptTemplate, _ int) bool {
		return p.ID == id
	})

	if r.selectedID == id {
		r.selectedID = ""
		if len(r.prompts) > 0 {
			r.selectedID = r.prompts[0].ID
		}
	}

	return r.persist(ctx)
}

// Select sets the active system prompt id, or clears it when id is empty. The id is
// not validated here: it is resolved against the live library at the point of use.
func (r *promptsRepository) Select(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.selectedID = id
}

func (r *promptsRepository) GetByID(id string) (domain.PromptTemplate, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return lo.Find(r.prompts, func(p domain.PromptTemplate) bool {
		return p.ID == id
	})
}

// Selected resolves the current system prompt selection against the library.
func (r *promptsRepository) Selected() (domain.PromptTemplate, bool) {
	r.mu.RLock()
	selectedID := r.selectedID
	r.mu.RUnlock()

	if selectedID == "" {
		return domain.PromptTemplate{}, false
	}
	return r.GetByID(selectedID)
}

func (r *promptsRepository) SelectedID() string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.selectedID
}

func (r *promptsRepository) All() []domain.PromptTemplate {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.PromptTemplate, len(r.prompts))
	copy(out, r.prompts)
	return out
}

func (r *promptsRepository) persist(ctx context.Context) error {
	if err := r.store.Save(ctx, storage.KeyPromptLibrary, r.prompts); err != nil {
		return fmt.Errorf("persisting prompt library: %w", err)
	}
	return nil
}

func defaultPrompts() []domain.PromptTemplate {
	now := time.Now()
	return []domain.PromptTemplate{
		{
			ID:          "writing-coach",
			Name:        "Writing coach",
			Description: "Structured feedback with example passages.",
			Content: "You are a rigorous writing coach. Analyze the topic, tone and audience " +
				"I provide, respond with structured advice and include a sample paragraph.",
			CreatedAt: now,
			UpdatedAt: now,
		},
		{
			ID:          "release-notes",
			Name:        "Release notes",
			Description: "Turns raw changes into a concise changelog.",
			Content: "Turn the changes I describe into user-facing release notes with a summary, " +
				"a highlights list and upgrade caveats. Keep the language short and direct.",
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
}
