// Package pipeline generates career reports and drives the application state machine.
package pipeline

import (
	"fmt"

	"github.com/ritikiit/careergps1/internal/prompts"
	"github.com/ritikiit/careergps1/internal/types"
)

// BuildPrompt combines the fixed instructions with the user input block.
func BuildPrompt(req types.ReportRequest) (string, error) {
	system, err := prompts.Get(prompts.CareerFile, prompts.KeySystem)
	if err != nil {
		return "", err
	}
	input, err := prompts.Render(prompts.CareerFile, prompts.KeyUserInput, req)
	if err != nil {
		return "", fmt.Errorf("failed to render user input: %w", err)
	}
	return system + "\n\n" + input, nil
}
