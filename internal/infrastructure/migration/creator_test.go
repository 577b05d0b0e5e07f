package migration

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"add payout index", "add_payout_index"},
		{"Add-Payout-Index", "add_payout_index"},
		{"ADD__PAYOUT__INDEX", "add_payout_index"},
		{"   spaces   ", "spaces"},
		{"special!@#$chars", "specialchars"},
		{"_leading", "leading"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeName(tt.input))
		})
	}
}

func TestCreateMigration(t *testing.T) {
	dir := t.TempDir()

	first, err := CreateMigration(dir, "seller handle check", "Handles are lowercase")
	require.NoError(t, err)
	assert.Equal(t, "000001", first.Version)
	assert.Equal(t, filepath.Join(dir, "000001_seller_handle_check.up.sql"), first.UpPath)
	assert.Equal(t, filepath.Join(dir, "000001_seller_handle_check.down.sql"), first.DownPath)

	up, err := os.ReadFile(first.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(up), "seller handle check")
	assert.Contains(t, string(up), "Handles are lowercase")

	down, err := os.ReadFile(first.DownPath)
	require.NoError(t, err)
	assert.Contains(t, string(down), "Rollback")

	second, err := CreateMigration(dir, "payout index", "")
	require.NoError(t, err)
	assert.Equal(t, "000002", second.Version)

	_, err = CreateMigration(dir, "!!!", "")
	assert.Error(t, err)
}

func TestListMigrations(t *testing.T) {
	fsys := fstest.MapFS{
		"000010_late.up.sql":    {},
		"000010_late.down.sql":  {},
		"000002_early.up.sql":   {},
		"000002_early.down.sql": {},
		"README.md":             {},
		"draft.up.sql":          {},
		"000003_dir/nested.sql": {},
	}

	names, err := ListMigrations(fsys)
	require.NoError(t, err)
	assert.Equal(t, []string{"000002_early", "000010_late"}, names)
}

func TestAvailable(t *testing.T) {
	names, err := Available()
	require.NoError(t, err)
	assert.Equal(t, []string{
		"000001_commission_rule_constraints",
		"000002_return_request_constraints",
		"000003_quantity_and_amount_checks",
	}, names)
}
