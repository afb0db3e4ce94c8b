package docsync

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestIsProcedureFile(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"trackman-troubleshooting-sop.txt", true},
		{"refund-procedure.md", true},
		{"Emergency_Process.pdf", true},
		{"equipment-manual.txt", true},
		{"notes.txt", false},
		{"sop-backup.zip", false},
		{"menu.pdf", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isProcedureFile(tt.name))
		})
	}
}

func TestParseDocument(t *testing.T) {
	content := `TrackMan Troubleshooting

When the trackman unit stops tracking:

1. Check power cable connections
2. Restart the trackman unit and projector
3. Verify calibration readings

Call maintenance if the repair fails.
`

	doc := ParseDocument("trackman-troubleshooting-sop.txt", content)

	assert.Equal(t, "trackman-troubleshooting-sop", doc.ID)
	assert.Equal(t, "trackman troubleshooting sop", doc.Title)
	require.Len(t, doc.Steps, 3)
	assert.Equal(t, "1. Check power cable connections", doc.Steps[0])
	assert.Equal(t, []string{"trackman", "projector"}, doc.Equipment)
	assert.Equal(t, []string{"troubleshoot", "maintenance", "repair"}, doc.Keywords)
	assert.Equal(t, content, doc.Content)
}

func TestParseDocumentNoSteps(t *testing.T) {
	doc := ParseDocument("hvac-process.md", "General guidance without numbered lines.")

	assert.Empty(t, doc.Steps)
	assert.Empty(t, doc.Equipment)
}

func TestIsNumberedStep(t *testing.T) {
	assert.True(t, isNumberedStep("1. Check the cable"))
	assert.True(t, isNumberedStep("12. Confirm with the member"))
	assert.False(t, isNumberedStep("Step one: check the cable"))
	assert.False(t, isNumberedStep("2020 was the install year"))
	assert.False(t, isNumberedStep(""))
}

func TestSyncAll(t *testing.T) {
	dir := t.TempDir()

	writeFile(t, dir, "trackman-sop.txt", "1. Restart the trackman unit\n")
	writeFile(t, dir, "refund-procedure.md", "1. Verify the charge\n2. Process a refund of $35\n")
	writeFile(t, dir, "empty-sop.txt", "   \n")
	writeFile(t, dir, "unrelated.txt", "1. Not a procedure\n")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "archive-sop"), 0o755))

	s := NewSyncer(dir, zap.NewNop())
	docs, errs, err := s.SyncAll(context.Background())

	require.NoError(t, err)
	assert.Empty(t, errs)
	require.Len(t, docs, 2)

	// directory entries come back sorted by name
	assert.Equal(t, "refund-procedure", docs[0].ID)
	assert.Equal(t, filepath.Join(dir, "refund-procedure.md"), docs[0].SourceLink)
	assert.Equal(t, "trackman-sop", docs[1].ID)
	require.Len(t, docs[1].Steps, 1)
}

func TestSyncAllMissingDirectory(t *testing.T) {
	s := NewSyncer(filepath.Join(t.TempDir(), "missing"), zap.NewNop())

	_, _, err := s.SyncAll(context.Background())
	assert.ErrorContains(t, err, "failed to read docs directory")
}

func TestSyncAllUnreadableFileIsReported(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "good-sop.txt", "1. Check the unit\n")
	// a .pdf that is not a real PDF fails extraction but must not abort the run
	writeFile(t, dir, "broken-sop.pdf", "not a pdf")

	s := NewSyncer(dir, zap.NewNop())
	docs, errs, err := s.SyncAll(context.Background())

	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "good-sop", docs[0].ID)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "broken-sop.pdf")
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}
