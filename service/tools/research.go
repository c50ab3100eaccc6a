package tools

import (
	"context"
	"encoding/json"
	"fmt"
)

type getThinkingModelsArgs struct {
	Problem string `json:"problem"`
}

func newGetThinkingModelsTool(researcher Researcher) *Tool {
	return &Tool{
		Name:        "getThinkingModels",
		Description: "Retrieve a list of thinking models that can be applied to the problem at hand.",
		Parameters: paramSchema(map[string]any{
			"problem": map[string]any{"type": "string", "description": "The problem or challenge you are facing."},
		}, []string{"problem"}),
		parse: func(raw string) (any, error) {
			var args getThinkingModelsArgs
			if err := json.Unmarshal([]byte(raw), &args); err != nil {
				return nil, fmt.Errorf("malformed arguments: %v", err)
			}
			if args.Problem == "" {
				return nil, fmt.Errorf("problem is required")
			}
			return args, nil
		},
		run: func(ctx context.Context, email string, v any) (string, error) {
			args := v.(getThinkingModelsArgs)
			return researcher.SuggestThinkingModels(ctx, args.Problem)
		},
	}
}

type searchWebArgs struct {
	Query string `json:"query"`
}

func newSearchWebTool(researcher Researcher) *Tool {
	return &Tool{
		Name:        "searchWeb",
		Description: "Perform a web search to gather real-time data or external resources such as trends, statistics, or competitor insights to support your analysis.",
		Parameters: paramSchema(map[string]any{
			"query": map[string]any{"type": "string", "description": "The topic or question you want to search for."},
		}, []string{"query"}),
		parse: func(raw string) (any, error) {
			var args searchWebArgs
			if err := json.Unmarshal([]byte(raw), &args); err != nil {
				return nil, fmt.Errorf("malformed arguments: %v", err)
			}
			if args.Query == "" {
				return nil, fmt.Errorf("query is required")
			}
			return args, nil
		},
		run: func(ctx context.Context, email string, v any) (string, error) {
			args := v.(searchWebArgs)
			content, err := researcher.SearchWeb(ctx, args.Query)
			if err != nil {
				return "", err
			}
			return args.Query + " " + content, nil
		},
	}
}
