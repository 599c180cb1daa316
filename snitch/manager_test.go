package snitch

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddWordsIdempotent(t *testing.T) {
	ctx := context.Background()
	m := NewManager(NewMemoryStore())

	added, existing, err := m.AddWords(ctx, testGuildID, "tech", []string{"Foo"})
	require.NoError(t, err)
	assert.Equal(t, []string{"foo"}, added)
	assert.Empty(t, existing)

	added, existing, err = m.AddWords(ctx, testGuildID, "tech", []string{"Foo", "FOO", " "})
	require.NoError(t, err)
	assert.Empty(t, added)
	assert.Equal(t, []string{"foo", "foo"}, existing)

	list, err := m.List(ctx, testGuildID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, []string{"foo"}, list[0].Words)
	assert.NotNil(t, list[0].Targets, "a new group has its targets initialised")
}

func TestRemoveWords(t *testing.T) {
	ctx := context.Background()
	m := NewManager(NewMemoryStore())

	_, _, err := m.RemoveWords(ctx, testGuildID, "tech", []string{"wifi"})
	assert.ErrorIs(t, err, ErrGroupNotFound)

	_, _, err = m.AddWords(ctx, testGuildID, "tech", []string{"wifi", "router", "printer"})
	require.NoError(t, err)

	removed, missing, err := m.RemoveWords(ctx, testGuildID, "tech", []string{"ROUTER", "modem"})
	require.NoError(t, err)
	assert.Equal(t, []string{"router"}, removed)
	assert.Equal(t, []string{"modem"}, missing)

	list, err := m.List(ctx, testGuildID)
	require.NoError(t, err)
	assert.Equal(t, []string{"printer", "wifi"}, list[0].Words)
}

func TestTargetsRoundTrip(t *testing.T) {
	ctx := context.Background()
	g := testGuild()
	m := NewManager(NewMemoryStore())

	results, err := m.AddTargets(ctx, g, "tech", []string{"Tech", "<@100>", "nobody", "#general"})
	require.NoError(t, err)
	require.Len(t, results, 4)

	assert.NoError(t, results[0].Err)
	assert.NoError(t, results[1].Err)
	assert.ErrorIs(t, results[2].Err, ErrTargetNotFound)
	assert.NoError(t, results[3].Err)

	list, err := m.List(ctx, testGuildID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "tech", list[0].Name)
	assert.Equal(t, map[string]TargetRef{
		"Tech":     {KindRole, 42},
		"<@100>":   {KindMember, 100},
		"#general": {KindChannel, 10},
	}, list[0].Targets)
	assert.Equal(t, []string{"#general", "<@100>", "Tech"}, list[0].TargetTokens())
}

func TestAddUnresolvedTargetsOnly(t *testing.T) {
	ctx := context.Background()
	m := NewManager(NewMemoryStore())

	results, err := m.AddTargets(ctx, testGuild(), "tech", []string{"nobody"})
	require.NoError(t, err)
	assert.ErrorIs(t, results[0].Err, ErrTargetNotFound)

	list, err := m.List(ctx, testGuildID)
	require.NoError(t, err)
	assert.Empty(t, list, "no group is created when nothing resolved")
}

func TestChannelTargetAddRemoveList(t *testing.T) {
	ctx := context.Background()
	m := NewManager(NewMemoryStore())

	results, err := m.AddTargets(ctx, testGuild(), "tech", []string{"#general"})
	require.NoError(t, err)
	require.NoError(t, results[0].Err)
	assert.Equal(t, KindChannel, results[0].Target.Kind)

	removed, missing, err := m.RemoveTargets(ctx, testGuildID, "tech", []string{"#general", "#random"})
	require.NoError(t, err)
	assert.Equal(t, []string{"#general"}, removed)
	assert.Equal(t, []string{"#random"}, missing)

	list, err := m.List(ctx, testGuildID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "tech", list[0].Name)
	assert.Empty(t, list[0].Targets)
}

func TestRemoveTargetsMissingGroup(t *testing.T) {
	m := NewManager(NewMemoryStore())

	_, _, err := m.RemoveTargets(context.Background(), testGuildID, "nope", []string{"x"})
	assert.ErrorIs(t, err, ErrGroupNotFound)
}

func TestSetTemplateAndClear(t *testing.T) {
	ctx := context.Background()
	m := NewManager(NewMemoryStore())

	require.NoError(t, m.SetTemplate(ctx, testGuildID, "tech", "{{author}} said {{words}}"))
	require.NoError(t, m.SetTemplate(ctx, testGuildID, "other", ""))

	list, err := m.List(ctx, testGuildID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "other", list[0].Name, "groups are sorted by name")
	assert.Equal(t, DefaultTemplate, list[0].MessageTemplate())
	assert.Equal(t, "{{author}} said {{words}}", list[1].MessageTemplate())
	assert.NotNil(t, list[1].Words)

	require.NoError(t, m.ClearAll(ctx, testGuildID))
	list, err = m.List(ctx, testGuildID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestEmptyGroupName(t *testing.T) {
	ctx := context.Background()
	m := NewManager(NewMemoryStore())

	_, _, err := m.AddWords(ctx, testGuildID, "", []string{"x"})
	assert.ErrorIs(t, err, ErrNoGroupName)
	_, err = m.AddTargets(ctx, testGuild(), "", []string{"Tech"})
	assert.ErrorIs(t, err, ErrNoGroupName)
	assert.ErrorIs(t, m.SetTemplate(ctx, testGuildID, "", "x"), ErrNoGroupName)
}

func TestConcurrentEditsAreNotLost(t *testing.T) {
	ctx := context.Background()
	m := NewManager(NewMemoryStore())

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _, err := m.AddWords(ctx, testGuildID, fmt.Sprintf("group%d", i%5), []string{fmt.Sprintf("word%d", i)})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	list, err := m.List(ctx, testGuildID)
	require.NoError(t, err)
	require.Len(t, list, 5)

	total := 0
	for _, e := range list {
		total += len(e.Words)
	}
	assert.Equal(t, 50, total)
}

func TestStoreReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	m := NewManager(s)

	_, _, err := m.AddWords(ctx, testGuildID, "tech", []string{"wifi"})
	require.NoError(t, err)

	groups, err := s.Groups(ctx, testGuildID)
	require.NoError(t, err)
	grp := groups["tech"]
	grp.Words[0] = "changed"
	grp.Targets["x"] = TargetRef{KindRole, 1}

	groups, err = s.Groups(ctx, testGuildID)
	require.NoError(t, err)
	assert.Equal(t, []string{"wifi"}, groups["tech"].Words)
	assert.Empty(t, groups["tech"].Targets)
}

func TestFailedUpdateIsNotSaved(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	err := s.UpdateGroups(ctx, testGuildID, func(groups map[string]Group) error {
		groups["tech"] = NewGroup()
		return ErrGroupNotFound
	})
	assert.ErrorIs(t, err, ErrGroupNotFound)

	groups, err := s.Groups(ctx, testGuildID)
	require.NoError(t, err)
	assert.Empty(t, groups)
}
