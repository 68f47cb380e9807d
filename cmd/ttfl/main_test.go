package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"os"
	"path/filepath"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omarshaarawi/ttfl/internal/api/trashtalk"
	"github.com/omarshaarawi/ttfl/internal/service"
)

func TestParseFlagsDefaults(t *testing.T) {
	o, err := parseFlags(nil, "cookies.txt", &bytes.Buffer{})
	require.NoError(t, err)

	assert.Equal(t, 10, o.top)
	assert.Equal(t, "cookies.txt", o.cookies)
	assert.Zero(t, o.plan)
	assert.False(t, o.ignoreLocks)

	opts := recommendOptions(o)
	assert.True(t, opts.UseForm)
	assert.True(t, opts.UseDefense)
	assert.Equal(t, 10, opts.TopN)
}

func TestParseFlagsShorthands(t *testing.T) {
	args := []string{"-d", "2025-01-15", "-n", "5", "-c", "other.txt", "-o", "out/picks.txt", "-v", "-p", "3",
		"--show-risky", "--show-locked", "--ignore-locks", "--no-defense", "--no-form", "--discord"}

	o, err := parseFlags(args, "cookies.txt", &bytes.Buffer{})
	require.NoError(t, err)

	assert.Equal(t, "2025-01-15", o.date)
	assert.Equal(t, 5, o.top)
	assert.Equal(t, "other.txt", o.cookies)
	assert.Equal(t, "out/picks.txt", o.output)
	assert.True(t, o.verbose)
	assert.Equal(t, 3, o.plan)
	assert.True(t, o.discord)

	opts := recommendOptions(o)
	assert.True(t, opts.IncludeRisky)
	assert.True(t, opts.IncludeLocked)
	assert.False(t, opts.UseForm)
	assert.False(t, opts.UseDefense)
}

func TestParseFlagsRejectsExtraArguments(t *testing.T) {
	_, err := parseFlags([]string{"lebron"}, "", &bytes.Buffer{})
	assert.Error(t, err)
}

func TestRunMissingCookieFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.txt")

	err := run(context.Background(), []string{"--cookies", missing}, &bytes.Buffer{}, &bytes.Buffer{})
	require.ErrorIs(t, err, trashtalk.ErrCookieFileMissing)

	var stderr bytes.Buffer
	assert.Equal(t, 1, exitCode(err, &bytes.Buffer{}, &stderr))
	assert.Contains(t, stderr.String(), "--ignore-locks")
}

func TestRunInvalidDate(t *testing.T) {
	err := run(context.Background(), []string{"--ignore-locks", "--date", "15/01/2025"}, &bytes.Buffer{}, &bytes.Buffer{})
	require.ErrorIs(t, err, service.ErrInvalidDate)
}

func TestExitCode(t *testing.T) {
	var stdout, stderr bytes.Buffer

	assert.Equal(t, 0, exitCode(nil, &stdout, &stderr))
	assert.Equal(t, 0, exitCode(flag.ErrHelp, &stdout, &stderr))

	assert.Equal(t, 1, exitCode(context.Canceled, &stdout, &stderr))
	assert.Contains(t, stdout.String(), "Aborted.")

	stdout.Reset()
	interrupted := errors.Join(syscall.ECONNREFUSED, context.Canceled)
	assert.Equal(t, 1, exitCode(interrupted, &stdout, &stderr))
	assert.Contains(t, stdout.String(), "Aborted.")

	assert.Equal(t, 1, exitCode(errors.New("boom"), &stdout, &stderr))
	assert.Contains(t, stderr.String(), "Error: boom")
}

func TestWriteOutputCreatesDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports", "day", "picks.txt")

	require.NoError(t, writeOutput(path, "picks"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "picks", string(data))
}
