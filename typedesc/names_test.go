package typedesc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNamespaceFromPkgPath(t *testing.T) {
	tests := map[string]string{
		"":                            "",
		"time":                        "time",
		"github.com/utrack/avrogen":   "github.com.utrack.avrogen",
		"example.com/my-svc/v2/model": "example.com.my_svc.v2.model",
		"gopkg.in/yaml.v3":            "gopkg.in.yaml.v3",
		"example.com/3d/mesh":         "example.com._3d.mesh",
	}
	for in, want := range tests {
		assert.Equal(t, want, NamespaceFromPkgPath(in), in)
	}
}

func TestParseFieldTag(t *testing.T) {
	assert.Equal(t, FieldTag{}, ParseFieldTag(`json:"x"`))
	assert.Equal(t, FieldTag{Skip: true}, ParseFieldTag("`avro:\"-\"`"))
	assert.Equal(t, FieldTag{Name: "id"}, ParseFieldTag(`avro:"id" json:"ident"`))
	assert.Equal(t, FieldTag{Name: "note", Nullable: true}, ParseFieldTag(`avro:"note,nullable"`))
	assert.Equal(t, FieldTag{Nullable: true}, ParseFieldTag(`avro:",nullable"`))
}

func TestNaming(t *testing.T) {
	tests := []struct {
		naming Naming
		in     string
		want   string
	}{
		{NamingAsIs, "CreatedAt", "CreatedAt"},
		{NamingSnake, "CreatedAt", "created_at"},
		{NamingCamel, "created_at", "CreatedAt"},
		{NamingLowerCamel, "CreatedAt", "createdAt"},
		{NamingKebab, "CreatedAt", "created-at"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.naming.Apply(tt.in))
	}

	assert.Equal(t, "CreatedAt", FieldName("CreatedAt", FieldTag{}, NamingAsIs))
	assert.Equal(t, "ts", FieldName("CreatedAt", FieldTag{Name: "ts"}, NamingSnake))
}

func TestParseNaming(t *testing.T) {
	for in, want := range map[string]Naming{
		"":           NamingAsIs,
		"snake":      NamingSnake,
		"Camel":      NamingCamel,
		"lowerCamel": NamingLowerCamel,
		"kebab":      NamingKebab,
	} {
		got, err := ParseNaming(in)
		require.NoError(t, err)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseNaming("shouting")
	assert.Error(t, err)
}

func TestGenericNames(t *testing.T) {
	base, args := SplitGenericName("Pair[github.com/x/model.User,map[string]int]")
	assert.Equal(t, "Pair", base)
	assert.Equal(t, []string{"github.com/x/model.User", "map[string]int"}, args)

	assert.Equal(t, "Pair_User_mapstringint", GenericName(base, args))
	assert.Equal(t, "Page_Box_int", GenericName("Page", []string{"example.com/a.Box[int]"}))
	assert.Equal(t, "Plain", GenericName("Plain", nil))

	base, args = SplitGenericName("Plain")
	assert.Equal(t, "Plain", base)
	assert.Nil(t, args)
}

func TestIsSQLNull(t *testing.T) {
	assert.True(t, IsSQLNull("database/sql", "NullString"))
	assert.True(t, IsSQLNull("database/sql", "Null[int64]"))
	assert.False(t, IsSQLNull("database/sql", "DB"))
	assert.False(t, IsSQLNull("example.com/sql", "NullString"))
}
