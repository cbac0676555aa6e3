package dataset

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/spboyer/prepscore/internal/features"
	"github.com/spboyer/prepscore/internal/weights"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSchema(t *testing.T) features.Schema {
	t.Helper()
	schema, err := features.NewSchema(features.VariantKeyword, weights.New())
	require.NoError(t, err)
	return schema
}

func exampleRow(schema features.Schema, fill float64, target int) Example {
	fs := make([]float64, schema.Len())
	for i := range fs {
		fs[i] = fill
	}
	return Example{Features: fs, Target: target}
}

func TestHeader(t *testing.T) {
	schema := testSchema(t)
	h := Header(schema)

	require.Len(t, h, schema.Len()+1)
	assert.Equal(t, "num_skills", h[0])
	assert.Equal(t, TargetColumn, h[len(h)-1])
}

func TestWriteTraining_RoundTrip(t *testing.T) {
	schema := testSchema(t)
	path := filepath.Join(t.TempDir(), "training.csv")

	examples := []Example{
		exampleRow(schema, 1, 46),
		exampleRow(schema, 0, 0),
	}
	require.NoError(t, WriteTraining(path, schema, examples, false))

	rows, err := LoadCSV(path)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "46", rows[0][TargetColumn])
	assert.Equal(t, "1", rows[0]["num_skills"])
	assert.Equal(t, "0", rows[1][TargetColumn])
}

func TestWriteTraining_AppendKeepsSingleHeader(t *testing.T) {
	schema := testSchema(t)
	path := filepath.Join(t.TempDir(), "training.csv")

	require.NoError(t, WriteTraining(path, schema, []Example{exampleRow(schema, 1, 10)}, false))
	require.NoError(t, WriteTraining(path, schema, []Example{exampleRow(schema, 2, 20)}, true))

	rows, err := LoadCSV(path)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "10", rows[0][TargetColumn])
	assert.Equal(t, "20", rows[1][TargetColumn])
}

func TestWriteTraining_AppendToFreshFile(t *testing.T) {
	schema := testSchema(t)
	path := filepath.Join(t.TempDir(), "training.csv")

	// Append mode against a missing file behaves like a fresh write.
	require.NoError(t, WriteTraining(path, schema, []Example{exampleRow(schema, 1, 10)}, true))

	rows, err := LoadCSV(path)
	require.NoError(t, err)
	require.Len(t, rows, 1)
}

func TestWriteTraining_AppendRejectsMismatchedColumns(t *testing.T) {
	schema := testSchema(t)
	path := filepath.Join(t.TempDir(), "training.csv")
	require.NoError(t, os.WriteFile(path, []byte("a,b,c\n1,2,3\n"), 0o644))

	err := WriteTraining(path, schema, []Example{exampleRow(schema, 1, 10)}, true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected")
}

func TestWriteTraining_RejectsShortVector(t *testing.T) {
	schema := testSchema(t)
	path := filepath.Join(t.TempDir(), "training.csv")

	err := WriteTraining(path, schema, []Example{{Features: []float64{1, 2}, Target: 5}}, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "features")
}

func TestVerifyTrainingFile(t *testing.T) {
	schema := testSchema(t)
	dir := t.TempDir()

	good := filepath.Join(dir, "good.csv")
	require.NoError(t, WriteTraining(good, schema, nil, false))
	require.NoError(t, VerifyTrainingFile(good, schema))

	stale := filepath.Join(dir, "stale.csv")
	require.NoError(t, os.WriteFile(stale, []byte("num_skills,wrong\n"), 0o644))
	require.Error(t, VerifyTrainingFile(stale, schema))
}

func TestLoadCSV(t *testing.T) {
	tests := []struct {
		name     string
		csv      string
		wantRows int
		wantErr  string
	}{
		{
			name:     "happy path",
			csv:      "num_skills,target_score\n3,46\n0,0\n",
			wantRows: 2,
		},
		{
			name:     "headers only",
			csv:      "num_skills,target_score\n",
			wantRows: 0,
		},
		{
			name:    "mismatched column count",
			csv:     "num_skills,target_score\n3,46\n7\n",
			wantErr: "wrong number of fields",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "test.csv")
			require.NoError(t, os.WriteFile(path, []byte(tt.csv), 0o644))

			rows, err := LoadCSV(path)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Len(t, rows, tt.wantRows)
		})
	}
}

func TestLoadCSV_MissingFile(t *testing.T) {
	_, err := LoadCSV("/nonexistent/path/data.csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "csv: open")
}

func TestWriteTraining_TargetParsesBack(t *testing.T) {
	schema := testSchema(t)
	path := filepath.Join(t.TempDir(), "training.csv")
	require.NoError(t, WriteTraining(path, schema, []Example{exampleRow(schema, 1, 87)}, false))

	rows, err := LoadCSV(path)
	require.NoError(t, err)
	n, err := strconv.Atoi(rows[0][TargetColumn])
	require.NoError(t, err)
	assert.Equal(t, 87, n)
}
