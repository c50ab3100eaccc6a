package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"logic-agent-backend/model"
	"strings"

	"github.com/google/uuid"
)

type saveInsightArgs struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Content     string  `json:"content"`
	Emoji       *string `json:"emoji"`
	Type        string  `json:"type"`
}

func newSaveInsightTool(store InsightStore) *Tool {
	return &Tool{
		Name:        "saveInsight",
		Description: "Store valuable insights or information gathered during the conversation for future reference.",
		Parameters: paramSchema(map[string]any{
			"title":       map[string]any{"type": "string", "description": "A brief title for the insight."},
			"description": map[string]any{"type": "string", "description": "An abstract or summary of the insight."},
			"content":     map[string]any{"type": "string", "description": "The content or details of the insight."},
			"emoji":       map[string]any{"type": []string{"string", "null"}, "description": "An emoji to represent the insight."},
			"type":        map[string]any{"type": "string", "enum": insightCategoryNames(), "description": "The type or category of the insight."},
		}, []string{"title", "description", "content", "type"}),
		parse: func(raw string) (any, error) {
			var args saveInsightArgs
			if err := json.Unmarshal([]byte(raw), &args); err != nil {
				return nil, fmt.Errorf("malformed arguments: %v", err)
			}
			if args.Title == "" {
				return nil, fmt.Errorf("title is required")
			}
			if args.Content == "" {
				return nil, fmt.Errorf("content is required")
			}
			if !model.ValidInsightCategory(model.InsightCategory(args.Type)) {
				return nil, fmt.Errorf("unknown insight type %q", args.Type)
			}
			return args, nil
		},
		run: func(ctx context.Context, email string, v any) (string, error) {
			args := v.(saveInsightArgs)

			insight := &model.Insight{
				ID:        uuid.New().String(),
				UserEmail: email,
				Title:     args.Title,
				Desc:      args.Description,
				Content:   args.Content,
				Category:  model.InsightCategory(args.Type),
			}
			if args.Emoji != nil {
				insight.Emoji = *args.Emoji
			}

			if err := store.Save(insight); err != nil {
				return "", err
			}
			return "Insight saved successfully: " + args.Title + " - " + args.Content, nil
		},
	}
}

type getInsightsArgs struct {
	Type *string `json:"type"`
}

func newGetInsightsTool(store InsightStore) *Tool {
	return &Tool{
		Name:        "getInsights",
		Description: "Retrieve the insights or information gathered during the conversation.",
		Parameters: paramSchema(map[string]any{
			"type": map[string]any{
				"type":        []string{"string", "null"},
				"enum":        insightCategoryNames(),
				"description": "Filter if you're looking for a specific type of insight.",
			},
		}, nil),
		parse: func(raw string) (any, error) {
			var args getInsightsArgs
			if raw != "" {
				if err := json.Unmarshal([]byte(raw), &args); err != nil {
					return nil, fmt.Errorf("malformed arguments: %v", err)
				}
			}
			if args.Type != nil && !model.ValidInsightCategory(model.InsightCategory(*args.Type)) {
				return nil, fmt.Errorf("unknown insight type %q", *args.Type)
			}
			return args, nil
		},
		run: func(ctx context.Context, email string, v any) (string, error) {
			args := v.(getInsightsArgs)

			var category model.InsightCategory
			if args.Type != nil {
				category = model.InsightCategory(*args.Type)
			}

			insights, err := store.List(email, category)
			if err != nil {
				return "", err
			}
			if len(insights) == 0 {
				return "No insights found.", nil
			}

			lines := make([]string, 0, len(insights))
			for _, insight := range insights {
				lines = append(lines, fmt.Sprintf("%s - %s (%s)", insight.Title, insight.Content, insight.Category))
			}
			return strings.Join(lines, "\n"), nil
		},
	}
}

func insightCategoryNames() []string {
	names := make([]string, 0, len(model.InsightCategories))
	for _, c := range model.InsightCategories {
		names = append(names, string(c))
	}
	return names
}
