package model

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestParseList(t *testing.T) {
	tests := []struct {
		in   string
		want StringList
	}{
		{"go,rust, c++", StringList{"go", "rust", "c++"}},
		{"  go  ", StringList{"go"}},
		{"go,,rust,", StringList{"go", "rust"}},
		{"", nil},
		{" , ,", nil},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseList(tt.in), "input %q", tt.in)
	}
}

func TestParseList_RoundTrip(t *testing.T) {
	stored := ParseList("go,rust, c++")
	assert.Equal(t, stored, ParseList(stored.String()))
}

func TestStringList_ValueScan(t *testing.T) {
	v, err := StringList{"go", "sql"}.Value()
	require.NoError(t, err)
	assert.Equal(t, `["go","sql"]`, v)

	var l StringList
	require.NoError(t, l.Scan([]byte(`["a","b"]`)))
	assert.Equal(t, StringList{"a", "b"}, l)

	require.NoError(t, l.Scan(`["c"]`))
	assert.Equal(t, StringList{"c"}, l)

	require.NoError(t, l.Scan(nil))
	assert.Nil(t, l)

	assert.Error(t, l.Scan(42))
}

func TestRoleValid(t *testing.T) {
	assert.True(t, RoleSeeker.Valid())
	assert.True(t, RoleRecruiter.Valid())
	assert.False(t, Role("admin").Valid())
	assert.False(t, Role("").Valid())
}

func TestSafeUserOmitsPassword(t *testing.T) {
	u := &User{
		ID:       uuid.New(),
		Fullname: "Ada",
		Email:    "ada@x.com",
		Password: "$2a$10$hash",
		Role:     RoleSeeker,
	}

	b, err := json.Marshal(u.Safe())
	require.NoError(t, err)
	assert.NotContains(t, string(b), "password")
	assert.NotContains(t, string(b), "$2a$10$hash")
	assert.Contains(t, string(b), `"skills":[]`)

	b, err = json.Marshal(u)
	require.NoError(t, err)
	assert.NotContains(t, string(b), "$2a$10$hash")
}

func TestUserPatch_ApplyAndColumns(t *testing.T) {
	u := &User{Fullname: "Ada", Email: "ada@x.com", Profile: Profile{Skills: StringList{"go"}}}
	patch := UserPatch{Bio: strPtr("engineer")}

	assert.False(t, patch.Empty())
	patch.Apply(u)
	assert.Equal(t, "Ada", u.Fullname)
	assert.Equal(t, "ada@x.com", u.Email)
	assert.Equal(t, StringList{"go"}, u.Profile.Skills)
	assert.Equal(t, "engineer", u.Profile.Bio)

	assert.Equal(t, map[string]any{"profile_bio": "engineer"}, patch.Columns())
	assert.True(t, UserPatch{}.Empty())
}

func TestCompanyPatch_Columns(t *testing.T) {
	p := CompanyPatch{Name: strPtr("Acme"), Logo: strPtr("https://cdn/logo.png")}
	assert.Equal(t, map[string]any{"name": "Acme", "logo": "https://cdn/logo.png"}, p.Columns())
	assert.True(t, CompanyPatch{}.Empty())
}
