package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunMain_Version(t *testing.T) {
	exitCode := -1
	runMain([]string{"locsearch", "--version"}, func(code int) { exitCode = code })
	assert.Equal(t, -1, exitCode, "exit must not be called on success")
}

func TestRunMain_InvalidFlag(t *testing.T) {
	exitCode := -1
	runMain([]string{"locsearch", "--invalid-flag"}, func(code int) { exitCode = code })
	assert.Equal(t, 1, exitCode)
}
