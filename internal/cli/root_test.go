package cli

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetRootCmd(t *testing.T) {
	root := GetRootCmd()

	require.NotNil(t, root)
	assert.Equal(t, "eigo", root.Use)
}

func TestChatCommandRegistered(t *testing.T) {
	root := GetRootCmd()

	var found bool
	for _, c := range root.Commands() {
		if c.Use == "chat" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestVersion(t *testing.T) {
	assert.Equal(t, version, GetVersion())

	root := GetRootCmd()
	buf := &bytes.Buffer{}
	root.SetOut(buf)
	root.SetArgs([]string{"--version"})

	require.NoError(t, root.Execute())
	assert.Contains(t, buf.String(), version)
}

func TestChatFailsFastWithoutEndpoint(t *testing.T) {
	t.Setenv("PROJECT_ENDPOINT", "")
	t.Setenv("MODEL_DEPLOYMENT_NAME", "")
	t.Setenv("AGENT_ID", "")
	// Point the config file somewhere empty so a developer's real config
	// can't provide the endpoint.
	oldWD, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(oldWD) })

	root := GetRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"chat", "--config", "does-not-exist.json"})

	err = root.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "PROJECT_ENDPOINT")
}
