// Movie App Admin - Administrative Console for a Video Streaming Catalog
// Copyright 2026 Rahul O. (rahulonit)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rahulonit/movie-app-admin

package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestSlogHandlerWritesThroughZerolog(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewSlogHandlerWithLogger(NewTestLogger(&buf)))

	logger.Info("supervisor started", "supervisor", "console")

	out := buf.String()
	if !strings.Contains(out, `"level":"info"`) {
		t.Errorf("expected info level, got %q", out)
	}
	if !strings.Contains(out, `"supervisor":"console"`) {
		t.Errorf("expected attr field, got %q", out)
	}
	if !strings.Contains(out, "supervisor started") {
		t.Errorf("expected message, got %q", out)
	}
}

func TestSlogHandlerLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewSlogHandlerWithLogger(NewTestLogger(&buf)))

	logger.Warn("w")
	logger.Error("e")

	out := buf.String()
	if !strings.Contains(out, `"level":"warn"`) {
		t.Errorf("expected warn level, got %q", out)
	}
	if !strings.Contains(out, `"level":"error"`) {
		t.Errorf("expected error level, got %q", out)
	}
}

func TestSlogHandlerWithAttrsAndGroups(t *testing.T) {
	var buf bytes.Buffer
	base := NewSlogHandlerWithLogger(NewTestLogger(&buf))
	logger := slog.New(base.WithGroup("service").WithAttrs([]slog.Attr{
		slog.String("name", "hub"),
	}))

	logger.Info("restarting")

	out := buf.String()
	if !strings.Contains(out, `"service.name":"hub"`) {
		t.Errorf("expected group-prefixed attr, got %q", out)
	}
}
