package accesspolicy_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/filedock/filedock/internal/app/policy/accesspolicy"
	"github.com/filedock/filedock/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// fakeDirectory is an in-memory PrincipalDirectory.
type fakeDirectory struct {
	users map[string]*models.User
	teams map[string][]models.Team
	err   error
}

func (f *fakeDirectory) GetByUsername(_ context.Context, username string) (*models.User, bool, error) {
	if f.err != nil {
		return nil, false, f.err
	}
	u, ok := f.users[username]
	return u, ok, nil
}

func (f *fakeDirectory) TeamsOf(_ context.Context, username string) ([]models.Team, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.teams[username], nil
}

// fakeGrants mirrors the store's first-match contract: the user's personal
// grant first, then team grants in membership order, expiry filtered.
type fakeGrants struct {
	grants []models.FileGrant
	err    error
}

func (f *fakeGrants) FindForPath(_ context.Context, filePath, username string, teamIDs []primitive.ObjectID) (*models.FileGrant, bool, error) {
	if f.err != nil {
		return nil, false, f.err
	}
	now := time.Now().UTC()
	find := func(targetType, targetID string) (*models.FileGrant, bool) {
		for i := range f.grants {
			g := &f.grants[i]
			if g.FilePath == filePath && g.TargetType == targetType && g.TargetID == targetID && g.Active(now) {
				return g, true
			}
		}
		return nil, false
	}
	if g, ok := find(models.TargetUser, username); ok {
		return g, true, nil
	}
	for _, id := range teamIDs {
		if g, ok := find(models.TargetTeam, id.Hex()); ok {
			return g, true, nil
		}
	}
	return nil, false, nil
}

func user(username, role string, allowed []string) *models.User {
	return &models.User{
		ID:       primitive.NewObjectID(),
		Username: username,
		Role:     role,
		Perms:    models.PermissionBundle{AllowedPaths: allowed},
	}
}

func newResolver(dir *fakeDirectory, gr *fakeGrants, opts ...accesspolicy.Option) *accesspolicy.Resolver {
	return accesspolicy.New(dir, gr, zap.NewNop(), opts...)
}

func TestAdminBypass(t *testing.T) {
	dir := &fakeDirectory{users: map[string]*models.User{
		"root": user("root", models.RoleAdmin, nil),
	}}
	r := newResolver(dir, &fakeGrants{})
	ctx := context.Background()

	for _, path := range []string{"", "anything", "deep/nested/leaf.txt"} {
		if ok, err := r.CanNavigate(ctx, "root", path); err != nil || !ok {
			t.Errorf("CanNavigate(root, %q) = %v, %v; want true", path, ok, err)
		}
		if ok, err := r.CanWrite(ctx, "root", path); err != nil || !ok {
			t.Errorf("CanWrite(root, %q) = %v, %v; want true", path, ok, err)
		}
		for _, perm := range models.AllPermissions {
			if ok, err := r.HasNamedPermission(ctx, "root", perm, path); err != nil || !ok {
				t.Errorf("HasNamedPermission(root, %s, %q) = %v, %v; want true", perm, path, ok, err)
			}
		}
	}
}

func TestWildcardSubsumption(t *testing.T) {
	dir := &fakeDirectory{users: map[string]*models.User{
		"wild": user("wild", models.RoleEmployee, []string{models.PathWildcard}),
	}}
	r := newResolver(dir, &fakeGrants{})
	ctx := context.Background()

	for _, path := range []string{"", "x", "a/b/c.txt"} {
		if ok, _ := r.CanNavigate(ctx, "wild", path); !ok {
			t.Errorf("CanNavigate(wild, %q): want true", path)
		}
		if ok, _ := r.CanWrite(ctx, "wild", path); !ok {
			t.Errorf("CanWrite(wild, %q): want true", path)
		}
	}
}

func TestLongestPrefixWins(t *testing.T) {
	u := user("pat", models.RoleEmployee, []string{"proj"})
	u.Perms.Global = models.PermissionSet{CanEdit: false}
	u.Perms.PerFolder = map[string]models.PermissionSet{
		"proj":     {CanEdit: false, CanUpload: true},
		"proj/sub": {CanEdit: true},
	}
	dir := &fakeDirectory{users: map[string]*models.User{"pat": u}}
	r := newResolver(dir, &fakeGrants{})
	ctx := context.Background()

	ok, err := r.HasNamedPermission(ctx, "pat", models.PermEdit, "proj/sub/file.txt")
	if err != nil || !ok {
		t.Fatalf("can_edit under proj/sub: got %v, %v; want true (longest prefix wins)", ok, err)
	}
	ok, _ = r.HasNamedPermission(ctx, "pat", models.PermEdit, "proj/readme.md")
	if ok {
		t.Fatal("can_edit under proj: want false from the proj override")
	}
	// Overrides do not inherit: can_upload is true at proj but unset at
	// proj/sub, so it is false there.
	ok, _ = r.HasNamedPermission(ctx, "pat", models.PermUpload, "proj/sub/file.txt")
	if ok {
		t.Fatal("can_upload under proj/sub: want false, overrides do not inherit")
	}
}

func TestBrowseThroughAsymmetry(t *testing.T) {
	dir := &fakeDirectory{users: map[string]*models.User{
		"lee": user("lee", models.RoleEmployee, []string{"team/final"}),
	}}
	r := newResolver(dir, &fakeGrants{})
	ctx := context.Background()

	if ok, _ := r.CanNavigate(ctx, "lee", "team"); !ok {
		t.Error("CanNavigate(team): want true via ancestor browse-through")
	}
	if ok, _ := r.CanWrite(ctx, "lee", "team"); ok {
		t.Error("CanWrite(team): want false, no write browse-through")
	}
	if ok, _ := r.CanWrite(ctx, "lee", "team/final/report.pdf"); !ok {
		t.Error("CanWrite(team/final/report.pdf): want true")
	}
}

func TestGrantExistenceVsContent(t *testing.T) {
	dir := &fakeDirectory{users: map[string]*models.User{
		"gia": user("gia", models.RoleClient, nil),
	}}
	gr := &fakeGrants{grants: []models.FileGrant{{
		FilePath:   "x/y",
		TargetType: models.TargetUser,
		TargetID:   "gia",
		Perms:      models.PermissionSet{CanDownload: true},
	}}}
	r := newResolver(dir, gr)
	ctx := context.Background()

	if ok, _ := r.CanWrite(ctx, "gia", "x/y"); !ok {
		t.Error("CanWrite(x/y): want true, grant existence is enough for reachability")
	}
	if ok, _ := r.CanNavigate(ctx, "gia", "x/y"); !ok {
		t.Error("CanNavigate(x/y): want true via grant existence")
	}
	if ok, _ := r.HasNamedPermission(ctx, "gia", models.PermEdit, "x/y"); ok {
		t.Error("HasNamedPermission(can_edit, x/y): want false, grant does not carry it")
	}
	if ok, _ := r.HasNamedPermission(ctx, "gia", models.PermDownload, "x/y"); !ok {
		t.Error("HasNamedPermission(can_download, x/y): want true from the grant")
	}
}

func TestExpiryExclusion(t *testing.T) {
	past := time.Now().UTC().Add(-time.Minute)
	future := time.Now().UTC().Add(time.Hour)

	dir := &fakeDirectory{users: map[string]*models.User{
		"tim": user("tim", models.RoleClient, nil),
	}}
	gr := &fakeGrants{grants: []models.FileGrant{{
		FilePath:   "docs/a.txt",
		TargetType: models.TargetUser,
		TargetID:   "tim",
		Perms:      models.PermissionSet{CanDownload: true},
		ExpiresAt:  &future,
	}}}
	r := newResolver(dir, gr)
	ctx := context.Background()

	if ok, _ := r.HasNamedPermission(ctx, "tim", models.PermDownload, "docs/a.txt"); !ok {
		t.Fatal("live grant: want true")
	}

	// Flip only the expiry; no sweep runs. The answer must flip too.
	gr.grants[0].ExpiresAt = &past
	if ok, _ := r.HasNamedPermission(ctx, "tim", models.PermDownload, "docs/a.txt"); ok {
		t.Fatal("expired grant: want false without any sweep having run")
	}
	if ok, _ := r.CanNavigate(ctx, "tim", "docs/a.txt"); ok {
		t.Fatal("expired grant: reachability must be excluded too")
	}
}

func TestFirstMatchNoMerge(t *testing.T) {
	teamID := primitive.NewObjectID()
	dir := &fakeDirectory{
		users: map[string]*models.User{
			"ana": user("ana", models.RoleEmployee, nil),
		},
		teams: map[string][]models.Team{
			"ana": {{ID: teamID, Name: "broad"}},
		},
	}
	gr := &fakeGrants{grants: []models.FileGrant{
		{
			FilePath:   "p",
			TargetType: models.TargetUser,
			TargetID:   "ana",
			Perms:      models.PermissionSet{CanDownload: false},
		},
		{
			FilePath:   "p",
			TargetType: models.TargetTeam,
			TargetID:   teamID.Hex(),
			Perms:      models.PermissionSet{CanDownload: true},
		},
	}}
	r := newResolver(dir, gr)

	ok, err := r.HasNamedPermission(context.Background(), "ana", models.PermDownload, "p")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatal("personal grant must pre-empt the broader team grant; want false")
	}
}

func TestAliceScenario(t *testing.T) {
	dir := &fakeDirectory{users: map[string]*models.User{
		"alice": user("alice", models.RoleClient, []string{"clients/acme"}),
	}}
	r := newResolver(dir, &fakeGrants{})
	ctx := context.Background()

	cases := []struct {
		name string
		got  func() (bool, error)
		want bool
	}{
		{"navigate clients", func() (bool, error) { return r.CanNavigate(ctx, "alice", "clients") }, true},
		{"navigate clients/other", func() (bool, error) { return r.CanNavigate(ctx, "alice", "clients/other") }, false},
		{"write clients/acme/doc.pdf", func() (bool, error) { return r.CanWrite(ctx, "alice", "clients/acme/doc.pdf") }, true},
		{"write clients", func() (bool, error) { return r.CanWrite(ctx, "alice", "clients") }, false},
	}
	for _, c := range cases {
		ok, err := c.got()
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", c.name, err)
		}
		if ok != c.want {
			t.Errorf("%s: got %v, want %v", c.name, ok, c.want)
		}
	}
}

func TestTeamAllowedPaths(t *testing.T) {
	teamID := primitive.NewObjectID()
	dir := &fakeDirectory{
		users: map[string]*models.User{
			"kim": user("kim", models.RoleEmployee, nil),
		},
		teams: map[string][]models.Team{
			"kim": {{
				ID:    teamID,
				Name:  "ops",
				Perms: models.PermissionBundle{AllowedPaths: []string{"shared/ops"}},
			}},
		},
	}
	r := newResolver(dir, &fakeGrants{})
	ctx := context.Background()

	if ok, _ := r.CanWrite(ctx, "kim", "shared/ops/runbook.md"); !ok {
		t.Error("team allowed path must grant write inside the folder")
	}
	if ok, _ := r.CanNavigate(ctx, "kim", "shared"); !ok {
		t.Error("team allowed path must grant ancestor browse-through")
	}
	if ok, _ := r.CanWrite(ctx, "kim", "shared"); ok {
		t.Error("no write browse-through for the team layer either")
	}
}

func TestTeamNamedPermissions(t *testing.T) {
	teamID := primitive.NewObjectID()
	dir := &fakeDirectory{
		users: map[string]*models.User{
			"raj": user("raj", models.RoleEmployee, nil),
		},
		teams: map[string][]models.Team{
			"raj": {{
				ID:   teamID,
				Name: "review-crew",
				Perms: models.PermissionBundle{
					Global:    models.PermissionSet{CanReview: true},
					PerFolder: map[string]models.PermissionSet{"archive": {CanDownload: true}},
				},
			}},
		},
	}
	r := newResolver(dir, &fakeGrants{})
	ctx := context.Background()

	if ok, _ := r.HasNamedPermission(ctx, "raj", models.PermReview, "anywhere/file"); !ok {
		t.Error("team global can_review must apply")
	}
	if ok, _ := r.HasNamedPermission(ctx, "raj", models.PermDownload, "archive/old.zip"); !ok {
		t.Error("team per-folder can_download must apply under the folder")
	}
	if ok, _ := r.HasNamedPermission(ctx, "raj", models.PermDownload, "elsewhere/f"); ok {
		t.Error("team per-folder permission must not leak outside its folder")
	}
}

func TestUnknownPrincipalDenied(t *testing.T) {
	r := newResolver(&fakeDirectory{users: map[string]*models.User{}}, &fakeGrants{})
	ctx := context.Background()

	ok, err := r.CanNavigate(ctx, "ghost", "anything")
	if err != nil {
		t.Fatalf("missing principal must be a plain deny, got error %v", err)
	}
	if ok {
		t.Fatal("missing principal: want false")
	}
}

func TestStoreFailureIsUndetermined(t *testing.T) {
	dir := &fakeDirectory{err: errors.New("connection refused")}
	r := newResolver(dir, &fakeGrants{})

	ok, err := r.CanWrite(context.Background(), "whoever", "p")
	if ok {
		t.Fatal("store failure must never produce allow")
	}
	if !errors.Is(err, accesspolicy.ErrUndetermined) {
		t.Fatalf("want ErrUndetermined, got %v", err)
	}

	// Same for a grant-layer failure.
	dir2 := &fakeDirectory{users: map[string]*models.User{
		"kay": user("kay", models.RoleClient, nil),
	}}
	r2 := newResolver(dir2, &fakeGrants{err: errors.New("timeout")})
	ok, err = r2.CanNavigate(context.Background(), "kay", "p")
	if ok {
		t.Fatal("grant store failure must never produce allow")
	}
	if !errors.Is(err, accesspolicy.ErrUndetermined) {
		t.Fatalf("want ErrUndetermined, got %v", err)
	}
}

func TestEnhancedMatchesStrictSources(t *testing.T) {
	u := user("di", models.RoleEmployee, nil)
	u.Perms.Global = models.PermissionSet{CanUpload: true}
	dir := &fakeDirectory{users: map[string]*models.User{"di": u}}
	r := newResolver(dir, &fakeGrants{})
	ctx := context.Background()

	strict, _ := r.HasNamedPermission(ctx, "di", models.PermUpload, "any/where")
	enhanced, _ := r.HasNamedPermissionEnhanced(ctx, "di", models.PermUpload, "any/where")
	if strict != enhanced || !strict {
		t.Fatalf("strict=%v enhanced=%v; both must be true from the global set", strict, enhanced)
	}
}

func TestCacheInvalidation(t *testing.T) {
	u := user("cam", models.RoleEmployee, []string{"old"})
	dir := &fakeDirectory{users: map[string]*models.User{"cam": u}}
	cache := accesspolicy.NewCache(time.Hour)
	r := newResolver(dir, &fakeGrants{}, accesspolicy.WithCache(cache))
	ctx := context.Background()

	if ok, _ := r.CanWrite(ctx, "cam", "old/file"); !ok {
		t.Fatal("initial allowed path must grant write")
	}

	// Admin edit swaps the allowed paths; without invalidation the long-TTL
	// cache still serves the old bundle.
	dir.users["cam"] = user("cam", models.RoleEmployee, []string{"new"})
	if ok, _ := r.CanWrite(ctx, "cam", "new/file"); ok {
		t.Fatal("stale cache should still deny the new path")
	}

	r.Invalidate()
	if ok, _ := r.CanWrite(ctx, "cam", "new/file"); !ok {
		t.Fatal("after invalidation the new bundle must apply")
	}
	if ok, _ := r.CanWrite(ctx, "cam", "old/file"); ok {
		t.Fatal("after invalidation the old path must be gone")
	}
}

func TestPathNormalizationInPredicates(t *testing.T) {
	dir := &fakeDirectory{users: map[string]*models.User{
		"nia": user("nia", models.RoleEmployee, []string{"docs/"}),
	}}
	r := newResolver(dir, &fakeGrants{})
	ctx := context.Background()

	if ok, _ := r.CanWrite(ctx, "nia", "docs/report.txt/"); !ok {
		t.Error("trailing slashes on both sides must normalize away")
	}
}
