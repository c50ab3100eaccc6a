package tools

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
)

//go:embed techniques.json
var techniquesJSON []byte

type TechniqueStep struct {
	Step        string `json:"step"`
	Description string `json:"description"`
}

type Technique struct {
	Description string          `json:"description"`
	Steps       []TechniqueStep `json:"steps"`
}

// 思维技法静态知识，进程启动时加载一次
var techniqueDetails map[string]Technique

var techniqueNames = []string{
	"designThinking",
	"systemThinking",
	"integratedThinking",
	"criticalThinking",
	"lateralThinking",
	"divergentThinking",
	"convergentThinking",
	"intuitiveThinking",
	"logicalThinking",
	"creativeThinking",
	"metaThinking",
	"analyticalThinking",
	"holisticThinking",
	"strategicThinking",
	"empatheticThinking",
	"evidenceBasedThinking",
	"causalThinking",
	"pragmaticThinking",
	"hypotheticalThinking",
	"reverseThinking",
}

var techniquesBrief = []string{
	"Design Thinking: Human-centered approach focusing on empathy, ideation, prototyping, and testing.",
	"System Thinking: Holistic approach to understanding relationships and interactions within a system.",
	"Integrated Thinking: Combines analysis and synthesis to resolve complex and conflicting problems.",
	"Critical Thinking: Objective analysis and evaluation of an issue to form a well-reasoned judgment.",
	"Lateral Thinking: Solving problems through an indirect and creative approach, looking beyond the obvious.",
	"Divergent Thinking: Generating multiple creative solutions for an open-ended problem.",
	"Convergent Thinking: Focusing on finding a single, correct solution to a problem using logical reasoning.",
	"Intuitive Thinking: Relying on instinct and experience to make quick decisions without systematic reasoning.",
	"Logical Thinking: Analyzing information systematically based on logic and cause-effect relationships.",
	"Creative Thinking: Developing new, unique, and unconventional solutions to a problem.",
	"Meta Thinking: Reflecting on your own thinking processes to improve the quality and effectiveness of your thoughts.",
	"Analytical Thinking: Breaking down complex information into smaller components for better understanding.",
	"Holistic Thinking: Viewing problems as part of an overall system rather than in isolation, considering all interconnections.",
	"Strategic Thinking: Planning for the future by identifying goals and determining the most effective path to achieve them.",
	"Empathetic Thinking: Understanding a problem from others’ perspectives to create more human-centered solutions.",
	"Evidence-Based Thinking: Relying on data and factual evidence to form conclusions and make decisions.",
	"Causal Thinking: Identifying cause-and-effect relationships to understand the root of a problem.",
	"Pragmatic Thinking: Taking a practical approach to problem-solving, focusing on feasible and realistic solutions.",
	"Hypothetical Thinking: Exploring \"what-if\" scenarios to understand potential outcomes and implications.",
	"Reverse Thinking: Challenging assumptions by looking at a problem from the opposite perspective to find new possibilities.",
}

func init() {
	if err := json.Unmarshal(techniquesJSON, &techniqueDetails); err != nil {
		panic(fmt.Sprintf("failed to parse techniques.json: %v", err))
	}
	for _, name := range techniqueNames {
		if _, ok := techniqueDetails[name]; !ok {
			panic(fmt.Sprintf("technique %s missing from techniques.json", name))
		}
	}
}

func newGetThinkingTechniquesBriefTool() *Tool {
	return &Tool{
		Name:        "getThinkingTechniquesBrief",
		Description: "Retrieve a brief overview of key thinking techniques to help you choose the most suitable one for problem-solving.",
		Parameters:  paramSchema(map[string]any{}, nil),
		parse: func(raw string) (any, error) {
			return nil, nil
		},
		run: func(ctx context.Context, email string, v any) (string, error) {
			return strings.Join(techniquesBrief, "\n"), nil
		},
	}
}

type getTechniqueDetailsArgs struct {
	Technique string `json:"technique"`
}

func newGetThinkingTechniqueDetailsTool() *Tool {
	return &Tool{
		Name:        "getThinkingTechniqueDetails",
		Description: "Get detailed, actionable information on a specific thinking technique, including its purpose, steps, and examples to help you apply it effectively.",
		Parameters: paramSchema(map[string]any{
			"technique": map[string]any{
				"type":        "string",
				"enum":        techniqueNames,
				"description": "A specific thinking technique to get detailed information about.",
			},
		}, []string{"technique"}),
		parse: func(raw string) (any, error) {
			var args getTechniqueDetailsArgs
			if err := json.Unmarshal([]byte(raw), &args); err != nil {
				return nil, fmt.Errorf("malformed arguments: %v", err)
			}
			if _, ok := techniqueDetails[args.Technique]; !ok {
				return nil, fmt.Errorf("unknown technique %q", args.Technique)
			}
			return args, nil
		},
		run: func(ctx context.Context, email string, v any) (string, error) {
			args := v.(getTechniqueDetailsArgs)
			detail := techniqueDetails[args.Technique]

			var sb strings.Builder
			sb.WriteString(detail.Description)
			sb.WriteString("\n\nSteps:")
			for _, step := range detail.Steps {
				sb.WriteString(fmt.Sprintf("\n- %s: %s", step.Step, step.Description))
			}
			return sb.String(), nil
		},
	}
}
