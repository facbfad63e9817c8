package memory

import (
	"time"

	"studyspace-be/pkg/workspace"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// WorkspaceRepository keeps live workspaces in memory. An entry expires
// after ttl without access and its pending extraction is stopped.
type WorkspaceRepository struct {
	cache *cache.Cache
}

func NewWorkspaceRepository(ttl time.Duration) *WorkspaceRepository {
	c := cache.New(ttl, 10*time.Minute)
	c.OnEvicted(func(_ string, v interface{}) {
		if ws, ok := v.(*workspace.Workspace); ok {
			ws.Close()
		}
	})
	return &WorkspaceRepository{
		cache: c,
	}
}

// Get returns the live workspace and extends its lifetime.
func (r *WorkspaceRepository) Get(userID uuid.UUID) (*workspace.Workspace, bool) {
	x, found := r.cache.Get(userID.String())
	if !found {
		return nil, false
	}
	ws := x.(*workspace.Workspace)
	r.cache.Set(userID.String(), ws, cache.DefaultExpiration)
	return ws, true
}

// GetOrLoad returns the live workspace or stores the one built by load.
// When two callers race, the first stored workspace wins and the loser's
// copy is closed.
func (r *WorkspaceRepository) GetOrLoad(userID uuid.UUID, load func() *workspace.Workspace) *workspace.Workspace {
	if ws, ok := r.Get(userID); ok {
		return ws
	}

	ws := load()
	if err := r.cache.Add(userID.String(), ws, cache.DefaultExpiration); err != nil {
		ws.Close()
		if existing, ok := r.Get(userID); ok {
			return existing
		}
		r.cache.Set(userID.String(), ws, cache.DefaultExpiration)
	}
	return ws
}

func (r *WorkspaceRepository) Delete(userID uuid.UUID) {
	r.cache.Delete(userID.String())
}

func (r *WorkspaceRepository) Count() int {
	return r.cache.ItemCount()
}
