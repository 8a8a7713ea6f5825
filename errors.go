package uvatlas

import "errors"

var (
	ErrAdjacency  = errors.New("adjacency: malformed mesh")
	ErrValidation = errors.New("validate: invalid mesh")
	ErrClean      = errors.New("clean: duplicate references vertex outside original range")
	ErrChart      = errors.New("chart: generation failed")
	ErrAborted    = errors.New("chart: aborted")
	ErrPack       = errors.New("pack: inconsistent chart result")
	ErrOptions    = errors.New("options: invalid")
)

// abortedError 同时匹配 ErrAborted 与 ErrChart
type abortedError struct {
	cause error
}

func (e *abortedError) Error() string {
	if e.cause == nil {
		return ErrAborted.Error()
	}
	return ErrAborted.Error() + ": " + e.cause.Error()
}

func (e *abortedError) Is(target error) bool {
	return target == ErrAborted || target == ErrChart
}

func (e *abortedError) Unwrap() error {
	return e.cause
}

// Aborted 包装取消原因, 供 ChartGenerator 实现在响应取消时返回
func Aborted(cause error) error {
	return &abortedError{cause: cause}
}
