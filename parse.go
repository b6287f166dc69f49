package intellitype

import (
	"context"
	"errors"
	"io"

	eng "github.com/reoring/intellitype/internal/engine"
)

// ParseFrom decodes the Source into an any value (applying the enforcement
// options) and delegates validation to the Schema.
func ParseFrom[T any](ctx context.Context, s Schema[T], src Source, opts ...ParseOpt) (T, error) {
	var zero T
	if s == nil {
		return zero, singleIssue(CodeParseError, "nil schema")
	}
	opt := lastOpt(opts)
	if opt.FailFast {
		ctx = WithFailFast(ctx, true)
	}
	v, err := Decode(src, opt)
	if err != nil {
		return zero, err
	}
	return s.Parse(ctx, v)
}

// Decode builds an any value (map[string]any, []any, string, bool, nil and
// json.Number or float64 depending on the NumberMode) from the Source.
// Decoding and enforcement failures are returned as Issues.
func Decode(src Source, opts ...ParseOpt) (any, error) {
	if src == nil {
		return nil, singleIssue(CodeParseError, "nil source")
	}
	opt := lastOpt(opts)
	var sink func(eng.SimpleIssue)
	if opt.Warnings != nil {
		sink = func(si eng.SimpleIssue) {
			opt.Warnings(Issue{Path: si.Path, Code: si.Code, Message: si.Message})
		}
	}
	enforced := eng.WrapWithEnforcement(engineTokenSource(src), eng.EnforceOptions{
		OnDuplicate: toEngineDup(opt.Strictness.OnDuplicateKey),
		MaxDepth:    opt.MaxDepth,
		MaxBytes:    opt.MaxBytes,
		IssueSink:   sink,
		FailFast:    opt.FailFast,
	})
	conv := eng.JSONNumber
	if src.NumberMode() == NumberFloat64 {
		conv = eng.Float64
	}
	v, err := eng.DecodeAny(enforced, conv)
	if err != nil {
		return nil, toIssues(err)
	}
	return v, nil
}

func lastOpt(opts []ParseOpt) ParseOpt {
	if len(opts) == 0 {
		return ParseOpt{}
	}
	return opts[len(opts)-1]
}

func toEngineDup(s Severity) eng.DuplicateStrictness {
	switch s {
	case Warn:
		return eng.DupWarn
	case Error:
		return eng.DupError
	default:
		return eng.DupIgnore
	}
}

func toIssues(err error) Issues {
	if ii, ok := AsIssues(err); ok {
		return ii
	}
	var ie eng.IssueError
	if errors.As(err, &ie) {
		return AppendIssues(nil, Issue{Code: ie.Code, Path: ie.Path, Message: ie.Message})
	}
	if errors.Is(err, io.EOF) {
		err = io.ErrUnexpectedEOF
	}
	return AppendIssues(nil, Issue{Path: "/", Code: CodeParseError, Message: err.Error(), Cause: err})
}

func singleIssue(code, msg string) Issues {
	return AppendIssues(nil, Issue{Path: "/", Code: code, Message: msg})
}
