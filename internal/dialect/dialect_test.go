package dialect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVersion(t *testing.T) {
	tests := []struct {
		in        string
		canonical string
	}{
		{"0.10", "v0.10.0"},
		{"0.12.4", "v0.12.4"},
		{"1.0.0b1", "v1.0.0-b.1"},
		{"1.0.0b6", "v1.0.0-b.6"},
		{"1.0.0a3", "v1.0.0-a.3"},
		{"2.0.0rc2", "v2.0.0-rc.2"},
		{"1.1.0", "v1.1.0"},
		{" 2.6.1\n", "v2.6.1"},
		{"01.02.03", "v1.2.3"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			v, err := ParseVersion(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.canonical, v.Canonical())
		})
	}
}

func TestParseVersion_Invalid(t *testing.T) {
	for _, in := range []string{"", "1", "v1.0.0", "1.0.0-beta", "1.0.0.post1", "1.0.0b", "latest", "1.0.0c1"} {
		t.Run(in, func(t *testing.T) {
			_, err := ParseVersion(in)
			assert.ErrorIs(t, err, ErrInvalidVersion)
		})
	}
}

func TestVersionOrdering(t *testing.T) {
	ordered := []string{"0.10", "0.12.4", "1.0.0a1", "1.0.0b1", "1.0.0b6", "1.0.0rc1", "1.0.0", "1.1.0", "2.0.0"}
	for i := 0; i < len(ordered)-1; i++ {
		a := MustParseVersion(ordered[i])
		b := MustParseVersion(ordered[i+1])
		assert.True(t, a.Less(b), "%s < %s", ordered[i], ordered[i+1])
		assert.Equal(t, 1, b.Compare(a))
	}
	assert.Equal(t, 0, MustParseVersion("1.0").Compare(MustParseVersion("1.0.0")))
}

func TestDefaultTableSelect(t *testing.T) {
	tests := []struct {
		version string
		dialect string
	}{
		{"0.10", "legacy"},
		{"0.12.4", "legacy"},
		{"1.0.0a3", "legacy"},
		{"1.0.0b1", "current"},
		{"1.0.0b6", "current"},
		{"1.0.0", "current"},
		{"1.1.0", "current"},
		{"2.6.1", "current"},
	}
	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			d, v, err := Default.SelectString(tt.version)
			require.NoError(t, err)
			assert.Equal(t, tt.dialect, d.Name)
			assert.Equal(t, tt.version, v.String())
		})
	}
}

func TestSelect_UnparsableFailsLoudly(t *testing.T) {
	_, _, err := Default.SelectString("not-a-version")
	assert.ErrorIs(t, err, ErrInvalidVersion)

	_, err = Default.Select(Version{})
	assert.ErrorIs(t, err, ErrInvalidVersion)
}

func TestSelect_NoApplicableDialect(t *testing.T) {
	table := Table{{Name: "future", MinVersion: MustParseVersion("3.0.0"), Fields: fields("node_type")}}
	_, err := table.Select(MustParseVersion("2.0.0"))
	assert.ErrorIs(t, err, ErrNoDialect)
}

func TestSelect_ExtensibleTable(t *testing.T) {
	future := Dialect{Name: "future", MinVersion: MustParseVersion("3.0.0"), Fields: fields("node_type", "label")}
	table := Table{future, Legacy, Current}

	d, err := table.Select(MustParseVersion("3.1.0"))
	require.NoError(t, err)
	assert.Equal(t, "future", d.Name)

	d, err = table.Select(MustParseVersion("2.9.0"))
	require.NoError(t, err)
	assert.Equal(t, "current", d.Name)

	sorted := table.Sorted()
	assert.Equal(t, []string{"legacy", "current", "future"}, []string{sorted[0].Name, sorted[1].Name, sorted[2].Name})
	assert.Equal(t, "future", table[0].Name, "Sorted must not reorder the receiver")
}

func TestFieldAttributePath(t *testing.T) {
	assert.Nil(t, Field{Name: "node_type"}.AttributePath())
	assert.False(t, Field{Name: "node_type"}.IsAttribute())
	assert.Equal(t, []string{"version", "core"}, Field{Name: "attributes.version.core"}.AttributePath())
	assert.Equal(t, []string{"node_type", "process_type", "attributes.version.core", "attributes.version.plugin"}, Current.FieldNames())
	assert.Equal(t, []string{"type"}, Legacy.FieldNames())
}

func TestLookup(t *testing.T) {
	d, ok := Default.Lookup("current")
	require.True(t, ok)
	assert.Len(t, d.Fields, 4)
	_, ok = Default.Lookup("nope")
	assert.False(t, ok)
}
