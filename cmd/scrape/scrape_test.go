package scrape

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandTree(t *testing.T) {
	cmd := Command()
	assert.Equal(t, "scrape", cmd.Name())

	var names []string
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	assert.ElementsMatch(t, []string{"dump-config", "gen-seeds", "from-store", "from-file"}, names)

	seed := cmd.PersistentFlags().Lookup("seed")
	require.NotNil(t, seed)
	assert.Equal(t, "false", seed.DefValue)
}

func TestFromStoreFlags(t *testing.T) {
	cmd := fromStoreCommand()

	numURLs := cmd.Flags().Lookup("num-urls")
	require.NotNil(t, numURLs)
	assert.Equal(t, "n", numURLs.Shorthand)
	assert.Equal(t, "20", numURLs.DefValue)

	require.NotNil(t, cmd.Flags().Lookup("new"))
	require.NotNil(t, cmd.Flags().Lookup("any"))
}

func TestGenSeedsFlags(t *testing.T) {
	cmd := genSeedsCommand()

	require.NotNil(t, cmd.Flags().Lookup("dry-run"))
	assert.Equal(t, "s", cmd.Flags().Lookup("num-sentences").Shorthand)
	assert.Equal(t, "n", cmd.Flags().Lookup("num").Shorthand)
}

func TestFromFileRequiresArgument(t *testing.T) {
	cmd := fromFileCommand()
	assert.Error(t, cmd.Args(cmd, nil))
	assert.NoError(t, cmd.Args(cmd, []string{"urls.txt"}))
}
