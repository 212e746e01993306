package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWithoutFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 2.5, c.OutlierZScoreThreshold)
	assert.Equal(t, 0.80, c.NumericShareThreshold)
	assert.Equal(t, 5, c.MinSampleSize)
	assert.Equal(t, 5, c.MinGroupSupport)
	assert.Equal(t, 2, c.CategoricalMinUnique)
	assert.Equal(t, 200, c.CategoricalMaxUnique)
	assert.Equal(t, 10, c.SampleRows)
	assert.Equal(t, "eda_out", c.OutputDir)
	assert.Equal(t, "percent", c.GradeScheme)
	assert.Contains(t, c.NATokens, "NULL")
	assert.NoError(t, c.Validate())
}

func TestLoadFileThenEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cfg.yaml")
	require.NoError(t, os.WriteFile(path, []byte("outlier_zscore_threshold: 3.0\nkey_column: StudentID\ngroup_by: [Gender]\nsample_rows: 4\n"), 0o644))
	t.Setenv("EDUPROBE_SAMPLE_ROWS", "7")

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3.0, c.OutlierZScoreThreshold)
	assert.Equal(t, "StudentID", c.KeyColumn)
	assert.Equal(t, []string{"Gender"}, c.GroupBy)
	assert.Equal(t, 7, c.SampleRows, "env wins over the file")
}

func TestLoadExplicitMissingFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	c := Default()
	require.NoError(t, c.Set("metrics", "ExamScore, FinalGrade"))
	require.NoError(t, c.Set("xlsx_report", "true"))
	require.NoError(t, Save(c, path))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"ExamScore", "FinalGrade"}, got.Metrics)
	assert.True(t, got.XLSXReport)
}

func TestSetRejectsBadValues(t *testing.T) {
	cases := []struct {
		key, val string
	}{
		{"outlier_zscore_threshold", "abc"},
		{"outlier_zscore_threshold", "0"},
		{"numeric_share_threshold", "1.5"},
		{"min_sample_size", "0"},
		{"grade_scheme", "gpa"},
		{"log_level", "loud"},
		{"xlsx_report", "maybe"},
		{"no_such_key", "1"},
	}
	for _, tc := range cases {
		t.Run(tc.key+"="+tc.val, func(t *testing.T) {
			c := Default()
			assert.Error(t, c.Set(tc.key, tc.val))
		})
	}
}

func TestSetGradeSchemeNormalizes(t *testing.T) {
	c := Default()
	require.NoError(t, c.Set("grade_scheme", " CODE "))
	assert.Equal(t, "code", c.GradeScheme)
	assert.Error(t, c.Set("grade_scheme", "gpa"))
	assert.Equal(t, "code", c.GradeScheme, "failed set leaves the value alone")
}

func TestKeysSorted(t *testing.T) {
	keys := Keys()
	assert.Contains(t, keys, "outlier_zscore_threshold")
	assert.IsIncreasing(t, keys)
}
