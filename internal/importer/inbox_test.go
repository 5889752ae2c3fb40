package importer

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScan_FindsCSVs(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bank.csv"), []byte("data"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "BANK2.CSV"), []byte("data"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.txt"), []byte("data"), 0o644))

	files, err := Scan(dir)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "BANK2.CSV", files[0].Name)
	assert.Equal(t, "bank.csv", files[1].Name)
	assert.Equal(t, int64(4), files[1].Size)
}

func TestScan_IgnoresSubdirectories(t *testing.T) {
	dir := t.TempDir()
	processed := filepath.Join(dir, "processed")
	require.NoError(t, os.MkdirAll(processed, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "new.csv"), []byte("data"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(processed, "old.csv"), []byte("data"), 0o644))

	files, err := Scan(dir)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "new.csv", files[0].Name)
}

func TestScan_MissingDir(t *testing.T) {
	files, err := Scan(filepath.Join(t.TempDir(), "inbox"))
	require.NoError(t, err)
	assert.Nil(t, files)
}

func TestMarkProcessed(t *testing.T) {
	dir := t.TempDir()
	inbox := filepath.Join(dir, "inbox")
	processed := filepath.Join(dir, "inbox", "processed")
	require.NoError(t, os.MkdirAll(inbox, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(inbox, "bank.csv"), []byte("data"), 0o644))

	require.NoError(t, MarkProcessed(inbox, processed, "bank.csv"))

	_, err := os.Stat(filepath.Join(inbox, "bank.csv"))
	assert.True(t, os.IsNotExist(err))
	assert.FileExists(t, filepath.Join(processed, "bank.csv"))
}

func TestImportInbox(t *testing.T) {
	dir := t.TempDir()
	inbox := filepath.Join(dir, "inbox")
	processed := filepath.Join(dir, "processed")
	require.NoError(t, os.MkdirAll(inbox, 0o755))

	writeImportFile(t, inbox, "01-may.csv", "2023-05-01;salary;100.00")
	writeImportFile(t, inbox, "02-bad.csv", "2023-05-02;;-5.00")
	writeImportFile(t, inbox, "03-empty.csv")

	l := &memLedger{acct: debitAccount}
	results, err := newTestPipeline(l).ImportInbox(context.Background(), inbox, processed, ImportOptions{})
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, StatusImported, results[0].Status)
	assert.Equal(t, StatusAborted, results[1].Status)
	assert.ErrorIs(t, results[1].Err, ErrTransactionDataMissing)
	assert.Equal(t, StatusEmpty, results[2].Status)

	assert.FileExists(t, filepath.Join(processed, "01-may.csv"))
	assert.FileExists(t, filepath.Join(processed, "03-empty.csv"))
	assert.FileExists(t, filepath.Join(inbox, "02-bad.csv"), "aborted files stay in the inbox")
	assert.Equal(t, "100.00", balanceOf(t, l, testToday))
}
