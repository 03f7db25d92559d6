package mcp

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/lml/internal/config"
	"github.com/standardbeagle/lml/internal/display"
	"github.com/standardbeagle/lml/testhelpers"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	tree := testhelpers.NewSourceTree(t).
		AddFile("src/io.c", `#include <stdio.h>

void report(const char *dev) {
    printf("disk full on %s", dev);
}
`).
		AddFile("src/weak.c", `const char *s = "disk";
`).
		AddFile("web/app.js", `console.log('disk almost full');
`)
	cfg := config.Defaults(tree.Root())
	return NewServer(cfg, tree.Root())
}

func locate(t *testing.T, s *Server, params map[string]interface{}) display.Envelope {
	t.Helper()
	text, err := s.CallTool("locate_message", params)
	require.NoError(t, err)
	var env display.Envelope
	require.NoError(t, json.Unmarshal([]byte(text), &env))
	return env
}

func TestLocateMessage(t *testing.T) {
	s := testServer(t)

	t.Run("finds_printf_literal", func(t *testing.T) {
		env := locate(t, s, map[string]interface{}{
			"message": "disk full on sda1",
		})

		require.NotEmpty(t, env.Results)
		files := make([]string, 0, len(env.Results))
		for _, r := range env.Results {
			files = append(files, r.File)
		}
		// Paths come back relative to the scan root.
		assert.Contains(t, files, "src/io.c")
		assert.Equal(t, len(env.Results), env.Count)
		assert.Positive(t, env.Stats.FilesRead)
	})

	t.Run("min_score_filters_weak_candidates", func(t *testing.T) {
		env := locate(t, s, map[string]interface{}{
			"message":   "disk full on sda1",
			"min_score": 9.0,
		})

		require.Len(t, env.Results, 1)
		assert.Equal(t, "src/io.c", env.Results[0].File)
		assert.Equal(t, 4, env.Results[0].Line)
	})

	t.Run("max_results_caps_output", func(t *testing.T) {
		env := locate(t, s, map[string]interface{}{
			"message":     "disk full on sda1",
			"sort":        true,
			"max_results": 1,
		})

		require.Len(t, env.Results, 1)
		assert.Equal(t, "src/io.c", env.Results[0].File)
	})

	t.Run("sort_orders_by_score_descending", func(t *testing.T) {
		env := locate(t, s, map[string]interface{}{
			"message": "disk full on sda1",
			"sort":    true,
		})

		require.Greater(t, len(env.Results), 1)
		for i := 1; i < len(env.Results); i++ {
			assert.GreaterOrEqual(t, env.Results[i-1].Score, env.Results[i].Score)
		}
	})

	t.Run("empty_results_serialize_as_array", func(t *testing.T) {
		text, err := s.CallTool("locate_message", map[string]interface{}{
			"message":   "zebra quartz xylophone",
			"min_score": 50.0,
		})
		require.NoError(t, err)
		assert.Contains(t, text, `"results":[]`)
	})

	t.Run("missing_message_is_error", func(t *testing.T) {
		_, err := s.CallTool("locate_message", map[string]interface{}{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "message is required")
	})

	t.Run("negative_min_score_is_error", func(t *testing.T) {
		_, err := s.CallTool("locate_message", map[string]interface{}{
			"message":   "disk full",
			"min_score": -1.0,
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "min_score")
	})

	t.Run("bad_directory_is_error", func(t *testing.T) {
		_, err := s.CallTool("locate_message", map[string]interface{}{
			"message":   "disk full",
			"directory": "/nonexistent/path/for/lml",
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not a scannable directory")
	})
}

func TestExplainMessage(t *testing.T) {
	s := testServer(t)

	t.Run("diagnoses_each_token", func(t *testing.T) {
		text, err := s.CallTool("explain_message", map[string]interface{}{
			"message":   "file opened successfully",
			"candidate": "file opening rejected%s",
		})
		require.NoError(t, err)

		var resp explainResponse
		require.NoError(t, json.Unmarshal([]byte(text), &resp))

		assert.Equal(t, "file opening rejected", resp.Normalized)
		assert.False(t, resp.Degenerate)
		assert.InDelta(t, 4.2, resp.Score, 0.001)

		require.Len(t, resp.Tokens, 5)
		assert.Equal(t, "file", resp.Tokens[0].Token)
		assert.EqualValues(t, "matched", resp.Tokens[0].Verdict)
		assert.Equal(t, 0, resp.Tokens[0].MessageIndex)

		assert.Equal(t, "opening", resp.Tokens[2].Token)
		assert.EqualValues(t, "absent", resp.Tokens[2].Verdict)
		assert.Equal(t, "opened", resp.Tokens[2].Nearest)
		assert.True(t, resp.Tokens[2].SharesStem)

		assert.Equal(t, "rejected", resp.Tokens[4].Token)
		assert.EqualValues(t, "absent", resp.Tokens[4].Verdict)
		assert.Empty(t, resp.Tokens[4].Nearest)
	})

	t.Run("degenerate_candidate_flagged", func(t *testing.T) {
		text, err := s.CallTool("explain_message", map[string]interface{}{
			"message":   "disk full",
			"candidate": "%s",
		})
		require.NoError(t, err)

		var resp explainResponse
		require.NoError(t, json.Unmarshal([]byte(text), &resp))
		assert.True(t, resp.Degenerate)
		assert.Zero(t, resp.Score)
		assert.Empty(t, resp.Tokens)
	})

	t.Run("missing_candidate_is_error", func(t *testing.T) {
		_, err := s.CallTool("explain_message", map[string]interface{}{
			"message": "disk full",
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "candidate is required")
	})

	t.Run("unknown_tool_rejected", func(t *testing.T) {
		_, err := s.CallTool("search", map[string]interface{}{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown tool")
	})
}
