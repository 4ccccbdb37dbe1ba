package api

import (
	"context"
	"testing"

	"WorshipHub/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedKeys fills the cache with one entry per kind for ids g1/m1/s1/u1 plus
// a second, unrelated id of each.
func seedKeys(t *testing.T, c *Client) []cache.Key {
	ctx := context.Background()
	keys := []cache.Key{
		cache.Scalar(cache.KindGroups),
		cache.Scalar(cache.KindMusics),
		cache.Scalar(cache.KindSetlists),
	}
	for _, id := range []string{"g1", "g9"} {
		for _, k := range []cache.Kind{cache.KindGroup, cache.KindGroupMembers, cache.KindGroupInfo, cache.KindMusicsGroup, cache.KindSetlistsGroup} {
			keys = append(keys, cache.For(k, id))
		}
	}
	keys = append(keys,
		cache.For(cache.KindMusic, "m1"), cache.For(cache.KindMusic, "m9"),
		cache.For(cache.KindSetlist, "s1"), cache.For(cache.KindSetlist, "s9"),
		cache.For(cache.KindGroupsUser, "u1"), cache.For(cache.KindUsersEmail, "ana"),
	)
	for _, k := range keys {
		require.NoError(t, c.cache.Store().Set(ctx, k, k.String()))
	}
	return keys
}

func liveKeys(t *testing.T, c *Client) map[string]bool {
	keys, err := c.cache.Store().Keys(context.Background())
	require.NoError(t, err)
	out := map[string]bool{}
	for _, k := range keys {
		out[k.String()] = true
	}
	return out
}

func TestInvalidationRules(t *testing.T) {
	cases := []struct {
		mutation Mutation
		scope    Scope
		dropped  []string
	}{
		{MutCreateGroup, Scope{Group: "g1"}, []string{"groups", "groups_user_u1"}},
		{MutUpdateGroup, Scope{Group: "g1"}, []string{"groups", "group_g1", "group_info_g1", "groups_user_u1"}},
		{MutDeleteGroup, Scope{Group: "g1", Deleted: "g1"}, []string{"groups", "group_g1", "group_members_g1", "group_info_g1", "musics_group_g1", "setlists_group_g1", "groups_user_u1"}},
		{MutAddMember, Scope{Group: "g1"}, []string{"group_g1", "group_members_g1", "group_info_g1", "groups_user_u1"}},
		{MutCreateMusic, Scope{Group: "g1", Music: "m1"}, []string{"musics", "musics_group_g1", "group_info_g1"}},
		{MutUpdateMusic, Scope{Group: "g1", Music: "m1"}, []string{"musics", "music_m1", "musics_group_g1", "setlist_s1", "setlist_s9"}},
		{MutDeleteMusic, Scope{Group: "g1", Music: "m1", Deleted: "m1"}, []string{"musics", "music_m1", "musics_group_g1", "group_info_g1", "setlist_s1", "setlist_s9"}},
		{MutCreateSetlist, Scope{Group: "g1", Setlist: "s1"}, []string{"setlists", "setlists_group_g1", "group_info_g1"}},
		{MutUpdateSetlist, Scope{Group: "g1", Setlist: "s1"}, []string{"setlists", "setlist_s1", "setlists_group_g1"}},
		{MutDeleteSetlist, Scope{Group: "g1", Setlist: "s1", Deleted: "s1"}, []string{"setlists", "setlist_s1", "setlists_group_g1", "group_info_g1"}},
		{MutAddSetlistMusic, Scope{Setlist: "s1"}, []string{"setlist_s1"}},
		{MutReorderSetlistMusics, Scope{Setlist: "s1"}, []string{"setlist_s1"}},
		// unknown group: every per-group list of the kind goes
		{MutDeleteMusic, Scope{Music: "m1", Deleted: "m1"}, []string{"musics", "music_m1", "musics_group_g1", "musics_group_g9", "group_info_g1", "group_info_g9", "setlist_s1", "setlist_s9"}},
	}

	for _, tc := range cases {
		t.Run(string(tc.mutation), func(t *testing.T) {
			c := NewClient(Options{})
			all := seedKeys(t, c)

			c.invalidate(context.Background(), tc.mutation, tc.scope)

			live := liveKeys(t, c)
			dropped := map[string]bool{}
			for _, k := range tc.dropped {
				dropped[k] = true
				assert.False(t, live[k], "%s should be invalidated", k)
			}
			for _, k := range all {
				if !dropped[k.String()] {
					assert.True(t, live[k.String()], "%s should survive", k)
				}
			}
		})
	}
}

func TestInvalidationRules_ReorderCanIncludeInfo(t *testing.T) {
	c := NewClient(Options{ReorderInvalidatesInfo: true})
	seedKeys(t, c)

	c.invalidate(context.Background(), MutReorderSetlistMusics, Scope{Setlist: "s1"})

	live := liveKeys(t, c)
	assert.False(t, live["setlist_s1"])
	assert.False(t, live["group_info_g1"])
	assert.False(t, live["group_info_g9"])
	assert.True(t, live["setlists_group_g1"])
}

func TestInvalidationRules_ProfileWipes(t *testing.T) {
	c := NewClient(Options{})
	seedKeys(t, c)

	c.invalidate(context.Background(), MutUpdateProfile, Scope{})

	assert.Empty(t, liveKeys(t, c))
}
