package exporter

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestXLSXWriter_WriteWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "book.xlsx")

	datasets := []Dataset{
		{
			Name:    "campaign_details_en.csv",
			Headers: []string{"campaign_id", "campaign_budget"},
			Records: [][]string{{"CAMP0001", "1500.5"}, {"CAMP0002", "2000"}},
		},
		{
			Name:    "user_details_en.csv",
			Headers: []string{"user_id", "zip"},
			Records: [][]string{{"USER00001", "01234"}},
		},
	}

	require.NoError(t, NewXLSXWriter().WriteWorkbook(path, datasets))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"campaign_details_en", "user_details_en"}, f.GetSheetList())

	rows, err := f.GetRows("campaign_details_en")
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"campaign_id", "campaign_budget"},
		{"CAMP0001", "1500.5"},
		{"CAMP0002", "2000"},
	}, rows)

	users, err := f.GetRows("user_details_en")
	require.NoError(t, err)
	assert.Equal(t, "01234", users[1][1])
}

func TestXLSXWriter_NoDatasets(t *testing.T) {
	err := NewXLSXWriter().WriteWorkbook(filepath.Join(t.TempDir(), "x.xlsx"), nil)
	assert.Error(t, err)
}

func TestSheetName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"marketing_interactions_enriched_en.csv", "marketing_interactions_enriched"},
		{"/data/a:b.csv", "a_b"},
		{"", "Sheet1"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := SheetName(tt.in)
			assert.Equal(t, tt.want, got)
			assert.LessOrEqual(t, len(got), 31)
		})
	}
}

func TestCellValue(t *testing.T) {
	assert.Equal(t, 1500.5, cellValue("1500.5"))
	assert.Equal(t, 0.0, cellValue("0"))
	assert.Equal(t, "01234", cellValue("01234"))
	assert.Equal(t, "CAMP0001", cellValue("CAMP0001"))
	assert.Equal(t, "", cellValue(""))
	assert.Equal(t, "NaN", cellValue("NaN"))
}
