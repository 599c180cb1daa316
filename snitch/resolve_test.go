package snitch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	g := testGuild()

	tests := []struct {
		name  string
		token string
		want  TargetRef
	}{
		{"member mention", "<@100>", TargetRef{KindMember, 100}},
		{"nickname member mention", "<@!102>", TargetRef{KindMember, 102}},
		{"role mention", "<@&43>", TargetRef{KindRole, 43}},
		{"channel mention", "<#12>", TargetRef{KindChannel, 12}},
		{"bare member id", "101", TargetRef{KindMember, 101}},
		{"bare role id", "42", TargetRef{KindRole, 42}},
		{"role name before member display name", "tech", TargetRef{KindRole, 42}},
		{"role name case insensitive", "HELPERS", TargetRef{KindRole, 43}},
		{"username", "Alice", TargetRef{KindMember, 100}},
		{"channel name", "general", TargetRef{KindChannel, 10}},
		{"channel name with hash", "#general", TargetRef{KindChannel, 10}},
		{"everyone role", "@everyone", TargetRef{KindRole, 1}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Resolve(tc.token, g)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestResolveNotFound(t *testing.T) {
	g := testGuild()

	for _, tok := range []string{"", "nobody", "999", "<#999>", "Voice", "11"} {
		_, err := Resolve(tok, g)
		assert.ErrorIs(t, err, ErrTargetNotFound, "token %q", tok)
	}

	_, err := Resolve("alice", nil)
	assert.ErrorIs(t, err, ErrTargetNotFound)
}

func TestResolveNumericName(t *testing.T) {
	g := testGuild()
	g.Roles = append(g.Roles, Role{ID: 50, Name: "2024"})

	// a number that isn't an ID falls through to name matching
	got, err := Resolve("2024", g)
	require.NoError(t, err)
	assert.Equal(t, TargetRef{KindRole, 50}, got)
}

func TestResolveFirstMatchWins(t *testing.T) {
	g := testGuild()
	g.Roles = append(g.Roles, Role{ID: 44, Name: "tech"})

	got, err := Resolve("Tech", g)
	require.NoError(t, err)
	assert.Equal(t, TargetRef{KindRole, 42}, got)
}
