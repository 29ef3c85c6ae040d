// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package logger

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	t.Run("new returns a usable logger", func(t *testing.T) {
		l := New(slog.LevelWarn)
		if l == nil || l.Logger == nil {
			t.Fatal("expected logger to be non-nil")
		}
		if l.Enabled(t.Context(), slog.LevelInfo) {
			t.Error("expected info level to be disabled")
		}
	})
}

func TestNewLogger(t *testing.T) {
	t.Run("only messages at or above the level are written", func(t *testing.T) {
		messages := []struct {
			level slog.Level
			msg   string
		}{
			{slog.LevelDebug, "segment entered"},
			{slog.LevelInfo, "animation started"},
			{slog.LevelWarn, "event dropped"},
			{slog.LevelError, "stream server stopped"},
		}
		for i, tc := range messages {
			t.Run(tc.level.String(), func(t *testing.T) {
				buf := bytes.NewBuffer(nil)
				l := NewLogger(tc.level, buf)
				for _, m := range messages {
					l.Log(t.Context(), m.level, m.msg)
				}
				for j, m := range messages {
					logged := strings.Contains(buf.String(), m.msg)
					if j < i && logged {
						t.Errorf("did not expect %s message to be logged", m.level)
					}
					if j >= i && !logged {
						t.Errorf("expected %s message to be logged", m.level)
					}
				}
			})
		}
	})
	t.Run("output uses the text format", func(t *testing.T) {
		buf := bytes.NewBuffer(nil)
		l := NewLogger(slog.LevelInfo, buf)
		l.Info("timeline planned", slog.Int("segments", 3))
		want := `level=INFO msg="timeline planned" segments=3`
		if !strings.Contains(buf.String(), want) {
			t.Errorf("expected log to contain %q, got %q", want, buf.String())
		}
	})
}

func TestErr(t *testing.T) {
	t.Run("error attributes should be logged", func(t *testing.T) {
		buf := bytes.NewBuffer(nil)
		l := NewLogger(slog.LevelDebug, buf)
		want := "intentionally failing"
		l.Error("this is a test", Err(errors.New(want)))

		if !strings.Contains(buf.String(), `error="`+want+`"`) {
			t.Errorf("expected error message to contain %q, got: %q", want, buf.String())
		}
	})
	t.Run("error attribute uses the error key", func(t *testing.T) {
		attr := Err(errors.New("failed"))
		if attr.Key != "error" {
			t.Errorf("expected attribute key to be error, got %s", attr.Key)
		}
	})
}
