package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(args ...string) (string, error) {
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestCommandTree(t *testing.T) {
	root := newRootCmd()

	for _, path := range [][]string{
		{"migrate", "up"},
		{"migrate", "down"},
		{"migrate", "version"},
		{"users", "create"},
		{"users", "confirm"},
		{"users", "delete"},
	} {
		cmd, _, err := root.Find(path)
		require.NoError(t, err, path)
		assert.Equal(t, path[len(path)-1], cmd.Name())
	}
}

func TestUsersCreate_RequiresFlags(t *testing.T) {
	_, err := execute("users", "create", "--email", "ada@example.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"password"`)
}

func TestUsersConfirm_RequiresEmail(t *testing.T) {
	_, err := execute("users", "confirm")
	assert.Error(t, err)
}

func TestMigrateDown_DefaultSteps(t *testing.T) {
	cmd, _, err := newRootCmd().Find([]string{"migrate", "down"})
	require.NoError(t, err)
	assert.Equal(t, "1", cmd.Flags().Lookup("steps").DefValue)
}
