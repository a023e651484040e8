package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/openartmap/artcat/cmd/artcat/commands"
	"github.com/openartmap/artcat/errors"
)

func TestExitCode(t *testing.T) {
	assert.Equal(t, 1, exitCode(commands.ErrRecordsFailed))
	assert.Equal(t, 1, exitCode(errors.Wrap(commands.ErrRecordsFailed, "import run")))
	assert.Equal(t, 2, exitCode(errors.NewConfigurationError("unknown plugin")))
	assert.Equal(t, 2, exitCode(errors.New("something else")))
}
