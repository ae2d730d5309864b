package commands

import "fmt"

type Result struct {
	Message string
}

type Handlers struct {
	Add      func(AddArgs) (Result, error)
	Done     func(TaskArgs) (Result, error)
	Undone   func(TaskArgs) (Result, error)
	Start    func(TaskArgs) (Result, error)
	Stop     func() (Result, error)
	Del      func(TaskArgs) (Result, error)
	Clear    func() (Result, error)
	Filter   func(FilterArgs) (Result, error)
	Focus    func(FocusArgs) (Result, error)
	Page     func(PageArgs) (Result, error)
	PageSize func(PageSizeArgs) (Result, error)
	Attach   func(AttachArgs) (Result, error)
	Open     func(OpenArgs) (Result, error)
	Detach   func(DetachArgs) (Result, error)
	Dismiss  func() (Result, error)
}

func Execute(cmd Command, handlers Handlers) (Result, error) {
	switch cmd.Type {
	case TypeAdd:
		if handlers.Add == nil {
			return Result{}, missingHandler("add")
		}
		return handlers.Add(*cmd.Add)
	case TypeDone:
		if handlers.Done == nil {
			return Result{}, missingHandler("done")
		}
		return handlers.Done(*cmd.Done)
	case TypeUndone:
		if handlers.Undone == nil {
			return Result{}, missingHandler("undone")
		}
		return handlers.Undone(*cmd.Undone)
	case TypeStart:
		if handlers.Start == nil {
			return Result{}, missingHandler("start")
		}
		return handlers.Start(*cmd.Start)
	case TypeStop:
		if handlers.Stop == nil {
			return Result{}, missingHandler("stop")
		}
		return handlers.Stop()
	case TypeDel:
		if handlers.Del == nil {
			return Result{}, missingHandler("del")
		}
		return handlers.Del(*cmd.Del)
	case TypeClear:
		if handlers.Clear == nil {
			return Result{}, missingHandler("clear")
		}
		return handlers.Clear()
	case TypeFilter:
		if handlers.Filter == nil {
			return Result{}, missingHandler("filter")
		}
		return handlers.Filter(*cmd.Filter)
	case TypeFocus:
		if handlers.Focus == nil {
			return Result{}, missingHandler("focus")
		}
		return handlers.Focus(*cmd.Focus)
	case TypePage:
		if handlers.Page == nil {
			return Result{}, missingHandler("page")
		}
		return handlers.Page(*cmd.Page)
	case TypePageSize:
		if handlers.PageSize == nil {
			return Result{}, missingHandler("pagesize")
		}
		return handlers.PageSize(*cmd.PageSize)
	case TypeAttach:
		if handlers.Attach == nil {
			return Result{}, missingHandler("attach")
		}
		return handlers.Attach(*cmd.Attach)
	case TypeOpen:
		if handlers.Open == nil {
			return Result{}, missingHandler("open")
		}
		return handlers.Open(*cmd.Open)
	case TypeDetach:
		if handlers.Detach == nil {
			return Result{}, missingHandler("detach")
		}
		return handlers.Detach(*cmd.Detach)
	case TypeDismiss:
		if handlers.Dismiss == nil {
			return Result{}, missingHandler("dismiss")
		}
		return handlers.Dismiss()
	default:
		return Result{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unknown command type: %s", cmd.Type)}
	}
}

func missingHandler(name string) error {
	return &CommandError{Code: ErrCodeHandlerMissing, Message: name + " handler not configured"}
}
