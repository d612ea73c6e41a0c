package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandTree(t *testing.T) {
	cmd := Command()
	assert.Equal(t, "search", cmd.Name())

	var names []string
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	assert.ElementsMatch(t, []string{"dump-config", "from-store", "from-file"}, names)
}

func TestFromStoreFlags(t *testing.T) {
	cmd := fromStoreCommand()

	numSeeds := cmd.Flags().Lookup("num-seeds")
	require.NotNil(t, numSeeds)
	assert.Equal(t, "n", numSeeds.Shorthand)
	assert.Equal(t, "5", numSeeds.DefValue)

	require.NotNil(t, cmd.Flags().Lookup("new"))
	require.NotNil(t, cmd.Flags().Lookup("any"))
}

func TestFromFileRequiresArgument(t *testing.T) {
	cmd := fromFileCommand()
	assert.Error(t, cmd.Args(cmd, nil))
	assert.NoError(t, cmd.Args(cmd, []string{"seeds.txt"}))
}
