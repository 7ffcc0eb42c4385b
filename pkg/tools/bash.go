package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/parleyhq/parley/pkg/shell"
)

// BashToolName is the name of the built-in shell tool.
const BashToolName = "bash"

const bashDescription = "Execute a bash command in a persistent shell session. " +
	"Working directory and environment variables persist across commands " +
	"within the same conversation."

var bashInputSchema = json.RawMessage(`{
	"type": "object",
	"properties": {
		"command": {
			"type": "string",
			"description": "The bash command to execute"
		}
	},
	"required": ["command"],
	"additionalProperties": false
}`)

// NewBashDefinition builds the bash tool over a shell session pool. Each
// conversation gets its own long-lived session, so cwd and env survive
// across commands.
//
// A command that exits non-zero is still a successful tool run: the model
// receives the error text as the result. Only transport failures — dead
// session, timeout, pool errors — fail the tool call.
func NewBashDefinition(pool *shell.Pool) *Definition {
	return &Definition{
		Name:        BashToolName,
		Description: bashDescription,
		InputSchema: bashInputSchema,
		Run: func(ctx context.Context, req Request) (string, error) {
			command, _ := req.Input["command"].(string)
			if strings.TrimSpace(command) == "" {
				return "", &InvalidInputError{Tool: BashToolName, Message: "command must be a non-empty string"}
			}

			sess, err := pool.GetSession(ctx, req.ConversationID)
			if err != nil {
				return "", fmt.Errorf("failed to acquire shell session: %w", err)
			}

			res, err := sess.Exec(ctx, command, shell.Callbacks{
				OnOutput: req.Emit,
			})
			if err != nil {
				switch {
				case errors.Is(err, shell.ErrCommandTimeout):
					return "", fmt.Errorf("command timed out: %w", err)
				case errors.Is(err, shell.ErrSessionDied):
					return "", fmt.Errorf("shell session died: %w", err)
				default:
					return "", err
				}
			}

			output := strings.TrimRight(res.Output, "\n")
			if !res.Success {
				if output == "" {
					output = fmt.Sprintf("command exited with status %d", res.ExitCode)
				} else {
					output = fmt.Sprintf("%s\n[exit status %d]", output, res.ExitCode)
				}
			}
			return output, nil
		},
	}
}
