package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sandeepkv93/matrixd/internal/model"
)

type Type string

const (
	TypeAdd    Type = "add"
	TypeDone   Type = "done"
	TypeMove   Type = "move"
	TypeDelete Type = "delete"
	TypeClear  Type = "clear"
)

type ErrorCode string

const (
	ErrCodeEmptyInput      ErrorCode = "empty_input"
	ErrCodeUnknownCommand  ErrorCode = "unknown_command"
	ErrCodeInvalidArgument ErrorCode = "invalid_argument"
	ErrCodeHandlerMissing  ErrorCode = "handler_missing"
)

type CommandError struct {
	Code    ErrorCode
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

type AddArgs struct {
	Category    model.Category
	Title       string
	Description string
}

// TargetArgs addresses a card by its 1-based position in the focused quadrant.
type TargetArgs struct {
	Position int
}

type MoveArgs struct {
	Position int
	Category model.Category
}

type Command struct {
	Type   Type
	Raw    string
	Add    *AddArgs
	Done   *TargetArgs
	Move   *MoveArgs
	Delete *TargetArgs
}

func Parse(input string) (Command, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}
	if strings.HasPrefix(raw, "/") {
		raw = strings.TrimSpace(strings.TrimPrefix(raw, "/"))
	}
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}

	parts := strings.Fields(raw)
	head := strings.ToLower(parts[0])
	args := parts[1:]

	switch head {
	case "add", "new":
		return parseAdd(input, strings.TrimSpace(raw[len(parts[0]):]), args)
	case "done", "toggle", "x":
		return parseTarget(input, TypeDone, args)
	case "move", "mv":
		return parseMove(input, args)
	case "delete", "del", "rm":
		return parseTarget(input, TypeDelete, args)
	case "clear":
		return Command{Type: TypeClear, Raw: input}, nil
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

func parseAdd(input, body string, args []string) (Command, error) {
	if len(args) < 2 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "add requires a category and a title"}
	}
	category, err := model.ParseCategory(args[0])
	if err != nil {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("unknown category: %s", args[0])}
	}
	// body starts with the category token; the title runs up to the first '|'.
	rest := strings.TrimSpace(body[len(args[0]):])
	title, description, _ := strings.Cut(rest, "|")
	title = strings.TrimSpace(title)
	if title == "" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "add requires a title"}
	}
	return Command{Type: TypeAdd, Raw: input, Add: &AddArgs{
		Category:    category,
		Title:       title,
		Description: strings.TrimSpace(description),
	}}, nil
}

func parseTarget(input string, typ Type, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("%s requires a card number", typ)}
	}
	pos, err := parsePosition(args[0])
	if err != nil {
		return Command{}, err
	}
	cmd := Command{Type: typ, Raw: input}
	if typ == TypeDone {
		cmd.Done = &TargetArgs{Position: pos}
	} else {
		cmd.Delete = &TargetArgs{Position: pos}
	}
	return cmd, nil
}

func parseMove(input string, args []string) (Command, error) {
	if len(args) != 2 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "move requires a card number and a category"}
	}
	pos, err := parsePosition(args[0])
	if err != nil {
		return Command{}, err
	}
	category, catErr := model.ParseCategory(args[1])
	if catErr != nil {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("unknown category: %s", args[1])}
	}
	return Command{Type: TypeMove, Raw: input, Move: &MoveArgs{Position: pos, Category: category}}, nil
}

func parsePosition(raw string) (int, error) {
	n, err := strconv.Atoi(strings.TrimPrefix(raw, "#"))
	if err != nil || n <= 0 {
		return 0, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("invalid card number: %s", raw)}
	}
	return n, nil
}
