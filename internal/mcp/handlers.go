package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/standardbeagle/lml/internal/debug"
	"github.com/standardbeagle/lml/internal/display"
	"github.com/standardbeagle/lml/internal/msgtoken"
	"github.com/standardbeagle/lml/internal/scan"
	"github.com/standardbeagle/lml/internal/score"
	"github.com/standardbeagle/lml/pkg/pathutil"
)

type locateParams struct {
	Message    string  `json:"message"`
	Directory  string  `json:"directory"`
	MinScore   float64 `json:"min_score"`
	MaxResults int     `json:"max_results"`
	Sort       bool    `json:"sort"`
}

type explainParams struct {
	Message   string `json:"message"`
	Candidate string `json:"candidate"`
}

// explainResponse is the explain_message payload: the normalized literal and
// the per-token verdicts of the scoring walk.
type explainResponse struct {
	Message    string                 `json:"message"`
	Candidate  string                 `json:"candidate"`
	Normalized string                 `json:"normalized"`
	Degenerate bool                   `json:"degenerate,omitempty"`
	Score      float64                `json:"score"`
	Tokens     []score.TokenDiagnosis `json:"tokens"`
}

func (s *Server) handleLocate(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params locateParams
	if err := json.Unmarshal(req.Params.Arguments, &params); err != nil {
		return errorResult("locate_message", fmt.Errorf("invalid parameters: %w", err))
	}
	if strings.TrimSpace(params.Message) == "" {
		return errorResult("locate_message", errors.New("message is required"))
	}
	if params.MinScore < 0 {
		return errorResult("locate_message", fmt.Errorf("min_score must not be negative, got %v", params.MinScore))
	}

	root := s.root
	if params.Directory != "" {
		root = params.Directory
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return errorResult("locate_message", fmt.Errorf("resolving directory %q: %w", root, err))
	}
	if info, statErr := os.Stat(absRoot); statErr != nil || !info.IsDir() {
		return errorResult("locate_message", fmt.Errorf("not a scannable directory: %s", root))
	}

	// Per-request knobs act on a copy; the server config stays pristine for
	// the next call.
	runCfg := *s.cfg
	runCfg.Match.MinScore = params.MinScore
	runCfg.Match.Sort = params.Sort

	debug.LogMCP("locate_message root=%s min_score=%v sort=%v\n", absRoot, params.MinScore, params.Sort)

	q := msgtoken.NewQuery(params.Message, runCfg.Match.MinScore)
	result, err := scan.New(&runCfg).Run(ctx, q, absRoot)
	if err != nil {
		return errorResult("locate_message", err)
	}

	if params.MaxResults > 0 && len(result.Candidates) > params.MaxResults {
		result.Candidates = result.Candidates[:params.MaxResults]
	}
	result.Candidates = pathutil.ToRelativeCandidates(result.Candidates, absRoot)

	return jsonResult(display.NewEnvelope(params.Message, absRoot, result))
}

func (s *Server) handleExplain(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params explainParams
	if err := json.Unmarshal(req.Params.Arguments, &params); err != nil {
		return errorResult("explain_message", fmt.Errorf("invalid parameters: %w", err))
	}
	if strings.TrimSpace(params.Message) == "" {
		return errorResult("explain_message", errors.New("message is required"))
	}
	if params.Candidate == "" {
		return errorResult("explain_message", errors.New("candidate is required"))
	}

	q := msgtoken.NewQuery(params.Message, 0)
	normalized := score.StripFormatDirectives(params.Candidate)
	tokens := msgtoken.Tokenize(normalized)

	resp := explainResponse{
		Message:    params.Message,
		Candidate:  params.Candidate,
		Normalized: normalized,
		Degenerate: score.Degenerate(tokens),
	}
	exp := score.Explain(q, tokens)
	resp.Score = exp.Score
	resp.Tokens = exp.Tokens

	return jsonResult(resp)
}
