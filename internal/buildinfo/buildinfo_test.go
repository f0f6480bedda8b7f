package buildinfo

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPrintBuildData(t *testing.T) {
	oldV, oldD, oldC := Version, Date, Commit
	t.Cleanup(func() { Version, Date, Commit = oldV, oldD, oldC })

	var buf bytes.Buffer
	PrintBuildData(&buf)
	require.Equal(t, "Build version: N/A\nBuild date: N/A\nBuild commit: N/A\n", buf.String())

	Version, Commit = "v0.3.0", "abc123"
	buf.Reset()
	PrintBuildData(&buf)
	require.Contains(t, buf.String(), "Build version: v0.3.0\n")
	require.Contains(t, buf.String(), "Build commit: abc123\n")
}
