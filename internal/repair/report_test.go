// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package repair

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportRecordsAndEchoes(t *testing.T) {
	var out bytes.Buffer
	rep := NewReport("in.docx", &out)

	rep.Actionf("extracted %d parts", 4)
	rep.Errorf("styles part malformed")

	require.Len(t, rep.Actions, 1)
	require.Len(t, rep.Errors, 1)
	assert.Equal(t, "extracted 4 parts", rep.Actions[0].Msg)
	assert.False(t, rep.Actions[0].Time.IsZero())
	assert.Contains(t, out.String(), "extracted 4 parts")
	assert.Contains(t, out.String(), "error: styles part malformed")
}

func TestReportNilWriter(t *testing.T) {
	rep := NewReport("in.docx", nil)
	rep.Actionf("quiet mode")
	assert.Len(t, rep.Actions, 1)
}

func TestReportSave(t *testing.T) {
	rep := NewReport("in.docx", nil)
	rep.BackupPath = "in.docx.backup.20260826120000"
	rep.Actionf("backed up original")
	rep.FinalPath = "in.repaired.docx"
	rep.FinalOK = true

	path := filepath.Join(t.TempDir(), "report.json")
	require.NoError(t, rep.Save(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var loaded Report
	require.NoError(t, json.Unmarshal(data, &loaded))
	assert.Equal(t, "in.docx", loaded.InputPath)
	assert.Equal(t, rep.BackupPath, loaded.BackupPath)
	assert.True(t, loaded.FinalOK)
	require.Len(t, loaded.Actions, 1)
	assert.Equal(t, "backed up original", loaded.Actions[0].Msg)
	assert.Empty(t, loaded.Errors)
}
