package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmd_Flags(t *testing.T) {
	t.Run("employees defaults to zero", func(t *testing.T) {
		f := rootCmd.Flags().Lookup("employees")
		require.NotNil(t, f)
		assert.Equal(t, "e", f.Shorthand)
		assert.Equal(t, "0", f.DefValue)
	})

	t.Run("short and long forms set the option", func(t *testing.T) {
		t.Cleanup(func() { opts = seedOptions{} })

		require.NoError(t, rootCmd.ParseFlags([]string{"-e", "25"}))
		assert.Equal(t, 25, opts.Employees)

		require.NoError(t, rootCmd.ParseFlags([]string{"--employees=7"}))
		assert.Equal(t, 7, opts.Employees)
	})

	t.Run("positional arguments are rejected", func(t *testing.T) {
		assert.Error(t, rootCmd.Args(rootCmd, []string{"extra"}))
	})
}
