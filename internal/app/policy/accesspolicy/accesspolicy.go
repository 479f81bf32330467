// Package accesspolicy is the access-control decision engine. Every file
// operation resolves through one of its four predicates, combining the
// principal's global grant, per-folder overrides, team grants, and
// time-limited file-level grants.
//
// Decision rules:
//   - Admins pass every predicate unconditionally.
//   - Navigation (browse) is two-directional: a path is reachable when it
//     is inside an allowed folder or is an ancestor of one (browse-through).
//   - Writing is one-directional: being a parent of an allowed folder does
//     not make a path a valid write target.
//   - The mere existence of a live file-level grant establishes
//     reachability; which named permissions it carries is checked
//     separately.
//   - Grant lookup is first-match: a personal grant pre-empts team grants
//     even when a team grant is broader. Grants are never merged.
//
// Failure semantics: an unknown principal is a plain deny. A backing-store
// failure surfaces as ErrUndetermined; callers must treat it as deny,
// never as allow.
package accesspolicy

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	userstore "github.com/filedock/filedock/internal/app/store/users"
	"github.com/filedock/filedock/internal/app/system/pathmatch"
	"github.com/filedock/filedock/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// ErrUndetermined marks a decision that could not be computed because a
// backing store was unreachable or timed out. It is never returned for an
// ordinary "no".
var ErrUndetermined = errors.New("access decision undetermined")

// PrincipalDirectory resolves principals and their team memberships.
// Implemented by the users store.
type PrincipalDirectory interface {
	GetByUsername(ctx context.Context, username string) (*models.User, bool, error)
	TeamsOf(ctx context.Context, username string) ([]models.Team, error)
}

// GrantFinder performs first-match file grant lookup.
// Implemented by the grants store.
type GrantFinder interface {
	FindForPath(ctx context.Context, filePath, username string, teamIDs []primitive.ObjectID) (*models.FileGrant, bool, error)
}

// Resolver combines the principal directory and grant finder into the four
// decision predicates. It holds no mutable state of its own beyond the
// optional principal cache; every call recomputes its answer from current
// store values.
type Resolver struct {
	principals PrincipalDirectory
	grants     GrantFinder
	cache      *Cache
	log        *zap.Logger
	timeout    time.Duration
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithCache attaches a short-TTL principal cache. Admin handlers that
// mutate permissions must call Invalidate afterwards.
func WithCache(c *Cache) Option {
	return func(r *Resolver) { r.cache = c }
}

// WithLookupTimeout bounds each remote lookup. Defaults to 5s.
func WithLookupTimeout(d time.Duration) Option {
	return func(r *Resolver) { r.timeout = d }
}

// New creates a Resolver.
func New(principals PrincipalDirectory, grants GrantFinder, logger *zap.Logger, opts ...Option) *Resolver {
	r := &Resolver{
		principals: principals,
		grants:     grants,
		log:        logger,
		timeout:    5 * time.Second,
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Invalidate drops all cached principal records. Called after any
// permission-mutating admin operation.
func (r *Resolver) Invalidate() {
	if r.cache != nil {
		r.cache.Purge()
	}
}

// principal bundles the user row with its resolved teams.
type principal struct {
	user  *models.User
	teams []models.Team
}

func (r *Resolver) lookupCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

// loadPrincipal fetches the user and its teams, via the cache when one is
// attached. A missing user returns (nil, nil): the caller denies.
func (r *Resolver) loadPrincipal(ctx context.Context, username string) (*principal, error) {
	if r.cache != nil {
		if p, ok := r.cache.get(username); ok {
			return p, nil
		}
	}

	lctx, cancel := r.lookupCtx(ctx)
	defer cancel()

	u, found, err := r.principals.GetByUsername(lctx, username)
	if err != nil {
		return nil, fmt.Errorf("%w: load principal %q: %v", ErrUndetermined, username, err)
	}
	if !found {
		return nil, nil
	}

	var teams []models.Team
	// Admins never consult teams or grants; skip the extra lookup.
	if !u.IsAdmin() {
		teams, err = r.principals.TeamsOf(lctx, username)
		if err != nil {
			return nil, fmt.Errorf("%w: load teams for %q: %v", ErrUndetermined, username, err)
		}
	}

	p := &principal{user: u, teams: teams}
	if r.cache != nil {
		r.cache.put(username, p)
	}
	return p, nil
}

func (r *Resolver) findGrant(ctx context.Context, p *principal, path string) (*models.FileGrant, bool, error) {
	teamIDs := make([]primitive.ObjectID, 0, len(p.teams))
	for _, t := range p.teams {
		teamIDs = append(teamIDs, t.ID)
	}

	lctx, cancel := r.lookupCtx(ctx)
	defer cancel()

	g, ok, err := r.grants.FindForPath(lctx, path, p.user.Username, teamIDs)
	if err != nil {
		return nil, false, fmt.Errorf("%w: grant lookup for %q at %q: %v", ErrUndetermined, p.user.Username, path, err)
	}
	return g, ok, nil
}

// CanNavigate reports whether the path is reachable while browsing. This
// is the weakest check, used for list, content, and public-URL operations.
func (r *Resolver) CanNavigate(ctx context.Context, username, path string) (bool, error) {
	path = pathmatch.Normalize(path)

	p, err := r.loadPrincipal(ctx, username)
	if err != nil {
		return false, err
	}
	if p == nil {
		return false, nil
	}
	if p.user.IsAdmin() {
		return true, nil
	}

	if bundleReaches(p.user.Perms, path, true) {
		return true, nil
	}
	for _, t := range p.teams {
		if bundleReaches(t.Perms, path, true) {
			return true, nil
		}
	}

	// Any live grant at the exact path establishes reachability, whatever
	// named permissions it carries.
	_, ok, err := r.findGrant(ctx, p, path)
	if err != nil {
		return false, err
	}
	return ok, nil
}

// CanWrite reports whether the path is a valid target for upload, edit,
// delete, rename, or create-folder. Unlike CanNavigate there is no
// browse-through: being an ancestor of an allowed folder grants nothing.
func (r *Resolver) CanWrite(ctx context.Context, username, path string) (bool, error) {
	path = pathmatch.Normalize(path)

	p, err := r.loadPrincipal(ctx, username)
	if err != nil {
		return false, err
	}
	if p == nil {
		return false, nil
	}
	if p.user.IsAdmin() {
		return true, nil
	}

	if bundleReaches(p.user.Perms, path, false) {
		return true, nil
	}
	for _, t := range p.teams {
		if bundleReaches(t.Perms, path, false) {
			return true, nil
		}
	}

	// Existence of any grant passes the write gate too; the specific named
	// permission is gated separately by HasNamedPermission.
	_, ok, err := r.findGrant(ctx, p, path)
	if err != nil {
		return false, err
	}
	return ok, nil
}

// HasNamedPermission reports whether the named permission applies at the
// path. Strict variant: callers use it to gate an action after CanWrite
// (or CanNavigate, per the operation contract) has passed.
func (r *Resolver) HasNamedPermission(ctx context.Context, username, permission, path string) (bool, error) {
	return r.namedPermission(ctx, username, permission, path)
}

// HasNamedPermissionEnhanced is the display-gating variant used where
// browse-through already applies (e.g. whether to render an upload
// control). It evaluates the same sources as HasNamedPermission without
// requiring any reachability gate to have passed first, and must not be
// used to authorize the write itself.
func (r *Resolver) HasNamedPermissionEnhanced(ctx context.Context, username, permission, path string) (bool, error) {
	return r.namedPermission(ctx, username, permission, path)
}

func (r *Resolver) namedPermission(ctx context.Context, username, permission, path string) (bool, error) {
	path = pathmatch.Normalize(path)

	p, err := r.loadPrincipal(ctx, username)
	if err != nil {
		return false, err
	}
	if p == nil {
		return false, nil
	}
	if p.user.IsAdmin() {
		return true, nil
	}

	// Global set plus per-folder overrides, longest prefix wins.
	if userstore.EffectivePermissions(p.user, path).Has(permission) {
		return true, nil
	}

	// Team layer: the global team set, or the first matching per-folder
	// key. No longest-prefix refinement here; keys are scanned in sorted
	// order so the answer is stable.
	for _, t := range p.teams {
		if t.Perms.Global.Has(permission) {
			return true, nil
		}
		if teamFolderHas(t.Perms.PerFolder, permission, path) {
			return true, nil
		}
	}

	g, ok, err := r.findGrant(ctx, p, path)
	if err != nil {
		return false, err
	}
	if ok && g.Perms.Has(permission) {
		return true, nil
	}
	return false, nil
}

// bundleReaches applies the allowed-paths test for one permission bundle.
// browseThrough enables the descendant direction used only by CanNavigate.
func bundleReaches(b models.PermissionBundle, path string, browseThrough bool) bool {
	if b.AllowsAllPaths() {
		return true
	}
	for _, raw := range b.AllowedPaths {
		if raw == models.PathWildcard {
			continue
		}
		ap := pathmatch.Normalize(raw)
		if pathmatch.IsAncestorOrEqual(ap, path) {
			return true
		}
		if browseThrough && pathmatch.IsDescendantOrEqual(ap, path) {
			return true
		}
	}
	return false
}

// teamFolderHas scans a team's per-folder overrides for the first folder
// key that is an ancestor of the path and reports that folder's value.
func teamFolderHas(perFolder map[string]models.PermissionSet, permission, path string) bool {
	if len(perFolder) == 0 {
		return false
	}
	keys := make([]string, 0, len(perFolder))
	for k := range perFolder {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if pathmatch.IsAncestorOrEqual(pathmatch.Normalize(k), path) {
			return perFolder[k].Has(permission)
		}
	}
	return false
}
