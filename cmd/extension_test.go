package cmd

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunExtension(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("extensions are tested with a shell script")
	}
	dir := setup(t)
	bin := t.TempDir()
	out := filepath.Join(bin, "env.txt")

	script := "#!/bin/sh\nenv | grep FUNDSCREEN_ > " + out + "\necho \"$@\" >> " + out + "\nexit 3\n"
	require.NoError(t, os.WriteFile(filepath.Join(bin, "fsc-hello"), []byte(script), 0o755))
	t.Setenv("PATH", bin+string(os.PathListSeparator)+os.Getenv("PATH"))

	*Verbose = true
	t.Cleanup(func() { *Verbose = false })

	found, code := RunExtension("hello", []string{"a", "b"})
	require.True(t, found)
	assert.Equal(t, 3, code)

	env, err := os.ReadFile(out)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(env)), "\n")
	assert.Contains(t, lines, EnvDataDir+"="+dir)
	assert.Contains(t, lines, EnvVerbose+"=true")
	assert.Contains(t, lines, EnvConfigFile+"=")
	assert.Equal(t, "a b", lines[len(lines)-1])
}

func TestRunExtension_NotFound(t *testing.T) {
	setup(t)
	found, code := RunExtension("does-not-exist-anywhere", nil)
	assert.False(t, found)
	assert.Equal(t, 0, code)
}
