package api

import (
	"context"

	"WorshipHub/cache"
	"WorshipHub/logger"
)

// Mutation names a write operation.
type Mutation string

const (
	MutCreateGroup          Mutation = "create_group"
	MutUpdateGroup          Mutation = "update_group"
	MutDeleteGroup          Mutation = "delete_group"
	MutAddMember            Mutation = "add_member"
	MutRemoveMember         Mutation = "remove_member"
	MutSetPermission        Mutation = "set_permission"
	MutCreateMusic          Mutation = "create_music"
	MutUpdateMusic          Mutation = "update_music"
	MutDeleteMusic          Mutation = "delete_music"
	MutCreateSetlist        Mutation = "create_setlist"
	MutUpdateSetlist        Mutation = "update_setlist"
	MutDeleteSetlist        Mutation = "delete_setlist"
	MutAddSetlistMusic      Mutation = "add_setlist_music"
	MutRemoveSetlistMusic   Mutation = "remove_setlist_music"
	MutReorderSetlistMusics Mutation = "reorder_setlist_musics"
	MutUpdateProfile        Mutation = "update_profile"
)

// Rule declares which cache entries a mutation makes stale.
type Rule struct {
	// Scalars are whole-collection keys such as "groups".
	Scalars []cache.Kind
	// ByGroup, ByMusic and BySetlist are per-id kinds keyed by the ids the
	// mutation touched. When the id is unknown the whole kind is dropped.
	ByGroup   []cache.Kind
	ByMusic   []cache.Kind
	BySetlist []cache.Kind
	// Kinds are dropped entirely, e.g. every "groups_user_*" list.
	Kinds []cache.Kind
	// Containing drops every key whose name contains the deleted entity id.
	Containing bool
	// Wipe clears the whole cache.
	Wipe bool
}

// Scope carries the ids a mutation touched.
type Scope struct {
	Group   string
	Music   string
	Setlist string
	// Deleted is the id of a deleted entity, used by Containing rules.
	Deleted string
}

var memberRule = Rule{
	ByGroup: []cache.Kind{cache.KindGroupMembers, cache.KindGroupInfo, cache.KindGroup},
	Kinds:   []cache.Kind{cache.KindGroupsUser},
}

// Rules returns the invalidation table. reorderInfo widens setlist reordering
// to the group's info counters.
func Rules(reorderInfo bool) map[Mutation]Rule {
	rules := map[Mutation]Rule{
		MutCreateGroup: {
			Scalars: []cache.Kind{cache.KindGroups},
			Kinds:   []cache.Kind{cache.KindGroupsUser},
		},
		MutUpdateGroup: {
			Scalars: []cache.Kind{cache.KindGroups},
			ByGroup: []cache.Kind{cache.KindGroup, cache.KindGroupInfo},
			Kinds:   []cache.Kind{cache.KindGroupsUser},
		},
		MutDeleteGroup: {
			Scalars:    []cache.Kind{cache.KindGroups},
			ByGroup:    []cache.Kind{cache.KindGroup, cache.KindGroupMembers, cache.KindGroupInfo, cache.KindMusicsGroup, cache.KindSetlistsGroup},
			Kinds:      []cache.Kind{cache.KindGroupsUser},
			Containing: true,
		},
		MutAddMember:     memberRule,
		MutRemoveMember:  memberRule,
		MutSetPermission: memberRule,
		MutCreateMusic: {
			Scalars: []cache.Kind{cache.KindMusics},
			ByGroup: []cache.Kind{cache.KindMusicsGroup, cache.KindGroupInfo},
		},
		MutUpdateMusic: {
			Scalars: []cache.Kind{cache.KindMusics},
			ByMusic: []cache.Kind{cache.KindMusic},
			ByGroup: []cache.Kind{cache.KindMusicsGroup},
			Kinds:   []cache.Kind{cache.KindSetlist},
		},
		MutDeleteMusic: {
			Scalars:    []cache.Kind{cache.KindMusics},
			ByMusic:    []cache.Kind{cache.KindMusic},
			ByGroup:    []cache.Kind{cache.KindMusicsGroup, cache.KindGroupInfo},
			Kinds:      []cache.Kind{cache.KindSetlist},
			Containing: true,
		},
		MutCreateSetlist: {
			Scalars: []cache.Kind{cache.KindSetlists},
			ByGroup: []cache.Kind{cache.KindSetlistsGroup, cache.KindGroupInfo},
		},
		MutUpdateSetlist: {
			Scalars:   []cache.Kind{cache.KindSetlists},
			BySetlist: []cache.Kind{cache.KindSetlist},
			ByGroup:   []cache.Kind{cache.KindSetlistsGroup},
		},
		MutDeleteSetlist: {
			Scalars:    []cache.Kind{cache.KindSetlists},
			BySetlist:  []cache.Kind{cache.KindSetlist},
			ByGroup:    []cache.Kind{cache.KindSetlistsGroup, cache.KindGroupInfo},
			Containing: true,
		},
		MutAddSetlistMusic:    {BySetlist: []cache.Kind{cache.KindSetlist}},
		MutRemoveSetlistMusic: {BySetlist: []cache.Kind{cache.KindSetlist}},
		MutReorderSetlistMusics: {
			BySetlist: []cache.Kind{cache.KindSetlist},
		},
		MutUpdateProfile: {Wipe: true},
	}
	if reorderInfo {
		r := rules[MutReorderSetlistMusics]
		r.ByGroup = append(r.ByGroup, cache.KindGroupInfo)
		rules[MutReorderSetlistMusics] = r
	}
	return rules
}

// invalidate applies the rule of m after a successful write.
func (c *Client) invalidate(ctx context.Context, m Mutation, scope Scope) {
	rule, ok := c.rules[m]
	if !ok {
		logger.Warn("no invalidation rule, clearing cache", logger.String("mutation", string(m)))
		c.cache.Clear(ctx)
		return
	}
	if rule.Wipe {
		c.cache.Clear(ctx)
		return
	}

	var keys []cache.Key
	for _, k := range rule.Scalars {
		keys = append(keys, cache.Scalar(k))
	}
	keys = c.perID(ctx, keys, rule.ByGroup, scope.Group)
	keys = c.perID(ctx, keys, rule.ByMusic, scope.Music)
	keys = c.perID(ctx, keys, rule.BySetlist, scope.Setlist)
	c.cache.Invalidate(ctx, keys...)

	for _, k := range rule.Kinds {
		c.cache.InvalidateKind(ctx, k)
	}
	if rule.Containing && scope.Deleted != "" {
		c.cache.InvalidateContaining(ctx, scope.Deleted)
	}

	logger.Debug("cache invalidated",
		logger.String("mutation", string(m)),
		logger.Int("keys", len(keys)),
		logger.Int("kinds", len(rule.Kinds)))
}

func (c *Client) perID(ctx context.Context, keys []cache.Key, kinds []cache.Kind, id string) []cache.Key {
	for _, k := range kinds {
		if id == "" {
			c.cache.InvalidateKind(ctx, k)
			continue
		}
		keys = append(keys, cache.For(k, id))
	}
	return keys
}

// InvalidateAll wipes the cache so the next read of anything is fresh.
func (c *Client) InvalidateAll(ctx context.Context) {
	c.cache.Clear(ctx)
	logger.Info("cache cleared on request")
}
