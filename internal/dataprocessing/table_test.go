package dataprocessing

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "crmsynth/internal/errors"
)

func TestParseTable(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"plain", "user_id,user_type\nUSER00001,Buyer\nUSER00002,Supplier\n"},
		{"with BOM", "\xEF\xBB\xBFuser_id,user_type\nUSER00001,Buyer\nUSER00002,Supplier\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := ParseTable(strings.NewReader(tt.input))
			require.NoError(t, err)

			assert.Equal(t, []string{"user_id", "user_type"}, table.Headers)
			assert.Equal(t, 2, table.Len())
			assert.Equal(t, "Supplier", table.Get(1, "user_type"))
			assert.True(t, table.HasColumn("user_id"))
		})
	}
}

func TestParseTable_Empty(t *testing.T) {
	_, err := ParseTable(strings.NewReader(""))
	assert.Error(t, err)
}

func TestReadTable_Missing(t *testing.T) {
	_, err := ReadTable(filepath.Join(t.TempDir(), "absent.csv"))
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestReadTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "campaigns.csv")
	require.NoError(t, os.WriteFile(path, []byte("campaign_id,campaign_budget\nCAMP0001,100\n"), 0644))

	table, err := ReadTable(path)
	require.NoError(t, err)
	assert.Equal(t, path, table.Name)
	assert.Equal(t, []string{"100"}, table.Column("campaign_budget"))
}

func TestTable_GetSet(t *testing.T) {
	table, err := ParseTable(strings.NewReader("a,b,c\n1,2,3\n4\n"))
	require.NoError(t, err)

	// short rows read as empty
	assert.Equal(t, "", table.Get(1, "c"))
	assert.Equal(t, "", table.Get(5, "a"))
	assert.Equal(t, "", table.Get(0, "missing"))

	require.NoError(t, table.Set(1, "c", "6"))
	assert.Equal(t, "6", table.Get(1, "c"))

	assert.ErrorIs(t, table.Set(0, "missing", "x"), apperrors.ErrNotFound)
	assert.ErrorIs(t, table.Set(9, "a", "x"), apperrors.ErrValidation)
}

func TestTable_AddColumn(t *testing.T) {
	table, err := ParseTable(strings.NewReader("a,b\n1,2\n3\n"))
	require.NoError(t, err)

	table.AddColumn("json", "{}")
	assert.Equal(t, []string{"a", "b", "json"}, table.Headers)
	assert.Equal(t, []string{"1", "2", "{}"}, table.Rows[0])
	assert.Equal(t, []string{"3", "", "{}"}, table.Rows[1])

	require.NoError(t, table.Set(0, "json", `{"x":1}`))
	table.AddColumn("json", "{}")
	assert.Equal(t, "{}", table.Get(0, "json"))
	assert.Len(t, table.Headers, 3)
}

func TestTable_RowsWhereAndAppend(t *testing.T) {
	table := NewTable("insights", []string{"id", "keep"})
	table.AppendRow([]string{"1", "yes"})
	table.AppendRow([]string{"2", "no"})
	table.AppendRow([]string{"3", "yes"})

	rows := table.RowsWhere(func(i int) bool { return table.Get(i, "keep") == "yes" })
	assert.Equal(t, []int{0, 2}, rows)

	ds := table.Dataset()
	assert.Equal(t, "insights", ds.Name)
	assert.Len(t, ds.Records, 3)
}
