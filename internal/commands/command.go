package commands

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

type Type string

const (
	TypeAdd      Type = "add"
	TypeDone     Type = "done"
	TypeUndone   Type = "undone"
	TypeStart    Type = "start"
	TypeStop     Type = "stop"
	TypeDel      Type = "del"
	TypeClear    Type = "clear"
	TypeFilter   Type = "filter"
	TypeFocus    Type = "focus"
	TypePage     Type = "page"
	TypePageSize Type = "pagesize"
	TypeAttach   Type = "attach"
	TypeOpen     Type = "open"
	TypeDetach   Type = "detach"
	TypeDismiss  Type = "dismiss"
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

var (
	datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	timePattern = regexp.MustCompile(`^\d{2}:\d{2}$`)
)

type AddArgs struct {
	Title string
	DueAt string
}

type TaskArgs struct {
	TaskID string
}

// FilterArgs carries one of three shapes: Off, an exact pin (date
// and/or time), or a between range with optional bounds.
type FilterArgs struct {
	Off       bool
	Exact     bool
	ExactDate string
	ExactTime string
	FromDate  string
	ToDate    string
	FromTime  string
	ToTime    string
}

type FocusArgs struct {
	// Mode is "on", "off", or "" to toggle.
	Mode string
}

type PageArgs struct {
	Number int
}

type PageSizeArgs struct {
	Size int
}

type AttachArgs struct {
	TaskID string
	Path   string
}

type OpenArgs struct {
	TaskID       string
	AttachmentID string
}

type DetachArgs struct {
	TaskID       string
	AttachmentID string
}

type Command struct {
	Type     Type
	Raw      string
	Add      *AddArgs
	Done     *TaskArgs
	Undone   *TaskArgs
	Start    *TaskArgs
	Del      *TaskArgs
	Filter   *FilterArgs
	Focus    *FocusArgs
	Page     *PageArgs
	PageSize *PageSizeArgs
	Attach   *AttachArgs
	Open     *OpenArgs
	Detach   *DetachArgs
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

	switch Type(head) {
	case TypeAdd:
		return parseAdd(input, args)
	case TypeDone:
		return parseTaskID(input, TypeDone, "done", args)
	case TypeUndone:
		return parseTaskID(input, TypeUndone, "undone", args)
	case TypeStart:
		return parseTaskID(input, TypeStart, "start", args)
	case TypeStop:
		return parseNoArgs(input, TypeStop, "stop", args)
	case TypeDel:
		return parseTaskID(input, TypeDel, "del", args)
	case TypeClear:
		return parseNoArgs(input, TypeClear, "clear", args)
	case TypeFilter:
		return parseFilter(input, args)
	case TypeFocus:
		return parseFocus(input, args)
	case TypePage:
		return parsePage(input, args)
	case TypePageSize:
		return parsePageSize(input, args)
	case TypeAttach:
		return parseAttach(input, args)
	case TypeOpen:
		return parseOpen(input, args)
	case TypeDetach:
		return parseDetach(input, args)
	case TypeDismiss:
		return parseNoArgs(input, TypeDismiss, "dismiss", args)
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

// parseAdd accepts "add <title>" or "add <title> @ <due>" where due
// is YYYY-MM-DDTHH:MM.
func parseAdd(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "add requires a title"}
	}
	joined := strings.Join(args, " ")
	title := joined
	dueAt := ""
	if before, after, found := strings.Cut(joined, "@"); found {
		title = strings.TrimSpace(before)
		dueAt = strings.TrimSpace(after)
		if dueAt == "" {
			return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "add: empty due after @"}
		}
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "add requires a title"}
	}
	return Command{Type: TypeAdd, Raw: raw, Add: &AddArgs{Title: title, DueAt: dueAt}}, nil
}

func parseTaskID(raw string, t Type, name string, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: name + " requires a task id"}
	}
	cmd := Command{Type: t, Raw: raw}
	ta := &TaskArgs{TaskID: args[0]}
	switch t {
	case TypeDone:
		cmd.Done = ta
	case TypeUndone:
		cmd.Undone = ta
	case TypeStart:
		cmd.Start = ta
	case TypeDel:
		cmd.Del = ta
	}
	return cmd, nil
}

func parseNoArgs(raw string, t Type, name string, args []string) (Command, error) {
	if len(args) != 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: name + " takes no arguments"}
	}
	return Command{Type: t, Raw: raw}, nil
}

// parseFilter accepts:
//
//	filter off
//	filter exact <date> [time] | filter exact <time>
//	filter between [from:<date>] [to:<date>] [after:<hh:mm>] [before:<hh:mm>]
func parseFilter(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "filter requires a mode (off, exact, between)"}
	}
	mode := strings.ToLower(args[0])
	rest := args[1:]
	switch mode {
	case "off":
		if len(rest) != 0 {
			return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "filter off takes no arguments"}
		}
		return Command{Type: TypeFilter, Raw: raw, Filter: &FilterArgs{Off: true}}, nil
	case "exact":
		if len(rest) == 0 {
			return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "filter exact requires a date and/or time"}
		}
		fa := &FilterArgs{Exact: true}
		for _, arg := range rest {
			switch {
			case datePattern.MatchString(arg):
				fa.ExactDate = arg
			case timePattern.MatchString(arg):
				fa.ExactTime = arg
			default:
				return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("filter exact: %q is neither a date nor a time", arg)}
			}
		}
		return Command{Type: TypeFilter, Raw: raw, Filter: fa}, nil
	case "between":
		fa := &FilterArgs{}
		for _, arg := range rest {
			key, value, found := strings.Cut(strings.ToLower(arg), ":")
			if !found {
				return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("filter between: expected key:value, got %q", arg)}
			}
			switch key {
			case "from":
				fa.FromDate = value
			case "to":
				fa.ToDate = value
			case "after":
				fa.FromTime = value
			case "before":
				fa.ToTime = value
			default:
				return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("filter between: unknown bound %q", key)}
			}
		}
		return Command{Type: TypeFilter, Raw: raw, Filter: fa}, nil
	default:
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("filter: unknown mode %q", mode)}
	}
}

func parseFocus(raw string, args []string) (Command, error) {
	switch len(args) {
	case 0:
		return Command{Type: TypeFocus, Raw: raw, Focus: &FocusArgs{}}, nil
	case 1:
		mode := strings.ToLower(args[0])
		if mode != "on" && mode != "off" {
			return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "focus accepts on or off"}
		}
		return Command{Type: TypeFocus, Raw: raw, Focus: &FocusArgs{Mode: mode}}, nil
	default:
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "focus accepts at most one argument"}
	}
}

func parsePage(raw string, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "page requires a page number"}
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "page requires a positive number"}
	}
	return Command{Type: TypePage, Raw: raw, Page: &PageArgs{Number: n}}, nil
}

func parsePageSize(raw string, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "pagesize requires a size"}
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "pagesize requires a positive number"}
	}
	return Command{Type: TypePageSize, Raw: raw, PageSize: &PageSizeArgs{Size: n}}, nil
}

func parseAttach(raw string, args []string) (Command, error) {
	if len(args) < 2 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "attach requires a task id and a file path"}
	}
	path := strings.Join(args[1:], " ")
	return Command{Type: TypeAttach, Raw: raw, Attach: &AttachArgs{TaskID: args[0], Path: path}}, nil
}

func parseOpen(raw string, args []string) (Command, error) {
	if len(args) != 2 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "open requires a task id and an attachment id"}
	}
	return Command{Type: TypeOpen, Raw: raw, Open: &OpenArgs{TaskID: args[0], AttachmentID: args[1]}}, nil
}

func parseDetach(raw string, args []string) (Command, error) {
	if len(args) != 2 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "detach requires a task id and an attachment id"}
	}
	return Command{Type: TypeDetach, Raw: raw, Detach: &DetachArgs{TaskID: args[0], AttachmentID: args[1]}}, nil
}
