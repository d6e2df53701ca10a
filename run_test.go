package cmdline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"github.com/mfridman/cmdline/pkg/ctxlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecute(t *testing.T) {
	t.Parallel()

	t.Run("parse and run", func(t *testing.T) {
		t.Parallel()
		var count int

		root := MustCommand(CommandConfig{
			Name:    "count",
			Version: "1.0.0\n",
			Options: []OptionConfig{
				{LongForm: "dry-run", ShortForm: 'n', Type: TypeBoolean},
			},
			Subcommands: []*Command{
				MustCommand(CommandConfig{
					Name: "echo",
					Action: func(ctx context.Context, c *Command) error {
						_, err := fmt.Fprintln(c.Stdout(), strings.Join(c.Arguments(), " "))
						return err
					},
				}),
			},
			Action: func(ctx context.Context, c *Command) error {
				if GetValue[bool](c, "dry-run") {
					return nil
				}
				count++
				return nil
			},
		})

		output := bytes.NewBuffer(nil)
		err := root.Execute(context.Background(), []string{"count", "echo", "a", "b"}, &ExecuteOptions{
			Stdout: output,
		})
		require.NoError(t, err)
		require.Equal(t, "a b\n", output.String())
		output.Reset()

		for i := 0; i < 3; i++ {
			err := root.Execute(context.Background(), []string{"count"}, &ExecuteOptions{Stdout: output})
			require.NoError(t, err)
		}
		require.Equal(t, 3, count)
		err = root.Execute(context.Background(), []string{"count", "--dry-run"}, &ExecuteOptions{Stdout: output})
		require.NoError(t, err)
		require.Equal(t, 3, count)
		require.Empty(t, output.String())
	})
	t.Run("switch action wins over command action", func(t *testing.T) {
		t.Parallel()
		var ran []string

		root := MustCommand(CommandConfig{
			Name: "root",
			Options: []OptionConfig{
				{LongForm: "list", Type: TypeSwitch, Action: func(ctx context.Context, c *Command) error {
					ran = append(ran, "list:"+c.Name())
					return nil
				}},
			},
			Action: func(ctx context.Context, c *Command) error {
				ran = append(ran, "root")
				return nil
			},
		})

		require.NoError(t, root.Execute(context.Background(), []string{"root", "--list"}, &ExecuteOptions{Stdout: &bytes.Buffer{}}))
		require.NoError(t, root.Execute(context.Background(), []string{"root"}, &ExecuteOptions{Stdout: &bytes.Buffer{}}))
		assert.Equal(t, []string{"list:root", "root"}, ran)
	})
	t.Run("nested action receives deepest command", func(t *testing.T) {
		t.Parallel()
		var got *Command

		leaf := MustCommand(CommandConfig{
			Name:    "leaf",
			Options: []OptionConfig{{LongForm: "count", ShortForm: 'c', Type: TypeInt}},
			Action: func(ctx context.Context, c *Command) error {
				got = c
				return nil
			},
		})
		mid := MustCommand(CommandConfig{Name: "mid", Subcommands: []*Command{leaf}})
		root := MustCommand(CommandConfig{Name: "root", Subcommands: []*Command{mid}})

		require.NoError(t, root.Execute(context.Background(), []string{"root", "mid", "leaf", "-c", "3", "file"}, &ExecuteOptions{Stdout: &bytes.Buffer{}}))
		require.Same(t, leaf, got)
		assert.Equal(t, 3, GetValue[int](got, "count"))
		assert.Equal(t, []string{"file"}, got.Arguments())
	})
	t.Run("no action prints help", func(t *testing.T) {
		t.Parallel()
		kid := MustCommand(CommandConfig{Name: "kid", Description: "A kid."})
		root := MustCommand(CommandConfig{Name: "root", Subcommands: []*Command{kid}})

		var output bytes.Buffer
		require.NoError(t, root.Execute(context.Background(), []string{"root"}, &ExecuteOptions{Stdout: &output}))
		assert.Equal(t, root.Usage(), output.String())
		assert.Contains(t, output.String(), "SUBCOMMANDS")

		output.Reset()
		require.NoError(t, root.Execute(context.Background(), []string{"root", "kid"}, &ExecuteOptions{Stdout: &output}))
		assert.Equal(t, kid.Usage(), output.String())
		assert.Contains(t, output.String(), "root kid [OPTIONS]")
	})
	t.Run("help option and subcommand", func(t *testing.T) {
		t.Parallel()
		var ran bool
		kid := MustCommand(CommandConfig{Name: "kid", Description: "A kid."})
		root := MustCommand(CommandConfig{
			Name:        "root",
			Subcommands: []*Command{kid},
			Action: func(ctx context.Context, c *Command) error {
				ran = true
				return nil
			},
		})

		var output bytes.Buffer
		require.NoError(t, root.Execute(context.Background(), []string{"root", "--help"}, &ExecuteOptions{Stdout: &output}))
		assert.Equal(t, root.Usage(), output.String())

		output.Reset()
		require.NoError(t, root.Execute(context.Background(), []string{"root", "help"}, &ExecuteOptions{Stdout: &output}))
		assert.Equal(t, root.Usage(), output.String())

		output.Reset()
		require.NoError(t, root.Execute(context.Background(), []string{"root", "help", "kid"}, &ExecuteOptions{Stdout: &output}))
		assert.Equal(t, kid.Usage(), output.String())

		output.Reset()
		require.NoError(t, root.Execute(context.Background(), []string{"root", "kid", "-h"}, &ExecuteOptions{Stdout: &output}))
		assert.Equal(t, kid.Usage(), output.String())
		assert.False(t, ran)

		err := root.Execute(context.Background(), []string{"root", "help", "ki"}, &ExecuteOptions{Stdout: &output})
		require.Error(t, err)
		assert.True(t, IsCode(err, ErrUnknownSubcommand))
		assert.ErrorContains(t, err, `unknown command "ki". Did you mean one of these?`)
	})
	t.Run("version printed verbatim", func(t *testing.T) {
		t.Parallel()
		kid := MustCommand(CommandConfig{Name: "kid"})
		root := MustCommand(CommandConfig{Name: "root", Version: "root 1.0.0", Subcommands: []*Command{kid}})

		var output bytes.Buffer
		require.NoError(t, root.Execute(context.Background(), []string{"root", "--version"}, &ExecuteOptions{Stdout: &output}))
		assert.Equal(t, "root 1.0.0", output.String())

		output.Reset()
		require.NoError(t, root.Execute(context.Background(), []string{"root", "version"}, &ExecuteOptions{Stdout: &output}))
		assert.Equal(t, "root 1.0.0", output.String())
	})
	t.Run("custom formatter", func(t *testing.T) {
		t.Parallel()
		root := MustCommand(CommandConfig{
			Name:      "root",
			Formatter: func(c *Command) string { return "usage of " + c.Name() + "\n" },
		})

		var output bytes.Buffer
		require.NoError(t, root.Execute(context.Background(), []string{"root", "-h"}, &ExecuteOptions{Stdout: &output}))
		assert.Equal(t, "usage of root\n", output.String())
	})
	t.Run("errors returned or printed", func(t *testing.T) {
		t.Parallel()
		failed := errors.New("boom")
		root := MustCommand(CommandConfig{
			Name:    "root",
			Options: []OptionConfig{{LongForm: "count", Type: TypeInt}},
			Action:  func(ctx context.Context, c *Command) error { return failed },
		})

		err := root.Execute(context.Background(), []string{"root", "--count", "x"}, nil)
		require.Error(t, err)
		assert.True(t, IsCode(err, ErrInvalidOptionValue))

		err = root.Execute(context.Background(), []string{"root"}, nil)
		require.ErrorIs(t, err, failed)

		var stderr bytes.Buffer
		err = root.Execute(context.Background(), []string{"root"}, &ExecuteOptions{PrintErrors: true, Stderr: &stderr})
		require.NoError(t, err)
		assert.Equal(t, "error: boom\n", stderr.String())
	})
	t.Run("engine wraps execution", func(t *testing.T) {
		t.Parallel()
		var calls int
		var order []string
		root := MustCommand(CommandConfig{
			Name: "root",
			Engine: EngineFunc(func(ctx context.Context, fn func(context.Context) error) error {
				calls++
				order = append(order, "engine")
				return fn(ctx)
			}),
			Action: func(ctx context.Context, c *Command) error {
				order = append(order, "action")
				return nil
			},
		})

		require.NoError(t, root.Execute(context.Background(), []string{"root"}, nil))
		assert.Equal(t, 1, calls)
		assert.Equal(t, []string{"engine", "action"}, order)
	})
	t.Run("engine sees parse errors", func(t *testing.T) {
		t.Parallel()
		var seen error
		root := MustCommand(CommandConfig{
			Name: "root",
			Engine: EngineFunc(func(ctx context.Context, fn func(context.Context) error) error {
				seen = fn(ctx)
				return seen
			}),
		})

		err := root.Execute(context.Background(), []string{"root", "--nope"}, nil)
		require.Error(t, err)
		assert.Equal(t, seen, err)
	})
	t.Run("no engine", func(t *testing.T) {
		t.Parallel()
		var calls int
		root := MustCommand(CommandConfig{
			Name:     "root",
			NoEngine: true,
			Engine: EngineFunc(func(ctx context.Context, fn func(context.Context) error) error {
				calls++
				return fn(ctx)
			}),
			Action: noop,
		})

		require.NoError(t, root.Execute(context.Background(), []string{"root"}, nil))
		assert.Equal(t, 0, calls)
	})
	t.Run("default engine recovers panics", func(t *testing.T) {
		t.Parallel()
		var logs bytes.Buffer
		root := MustCommand(CommandConfig{
			Name: "root",
			Action: func(ctx context.Context, c *Command) error {
				panic("kaboom")
			},
		})

		err := root.Execute(context.Background(), []string{"root"}, &ExecuteOptions{
			Logger: slog.New(slog.NewTextHandler(&logs, nil)),
		})
		require.Error(t, err)
		var panicErr *PanicError
		require.ErrorAs(t, err, &panicErr)
		assert.Equal(t, "kaboom", panicErr.Value)
		assert.NotEmpty(t, panicErr.Stack)
		assert.Equal(t, "panic: kaboom", err.Error())
		assert.Contains(t, logs.String(), "command panicked")
	})
	t.Run("logger reaches actions", func(t *testing.T) {
		t.Parallel()
		var logs bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
		root := MustCommand(CommandConfig{
			Name: "root",
			Action: func(ctx context.Context, c *Command) error {
				ctxlog.FromContext(ctx).Info("from action")
				return nil
			},
		})

		require.NoError(t, root.Execute(context.Background(), []string{"root", "arg"}, &ExecuteOptions{Logger: logger}))
		assert.Contains(t, logs.String(), "msg=\"running command action\" command=root")
		assert.Contains(t, logs.String(), "msg=\"from action\"")
	})
}
