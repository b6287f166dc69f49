package intellitype

import "strings"

var pointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")

// JoinPointer appends one reference token to a JSON Pointer.
func JoinPointer(base, token string) string {
	if base == "/" {
		base = ""
	}
	return base + "/" + pointerEscaper.Replace(token)
}

// RebaseIssues prefixes every issue path in err with base. Errors that are not
// Issues become a single parse_error issue at base.
func RebaseIssues(base string, err error) Issues {
	iss, ok := AsIssues(err)
	if !ok {
		return Issues{{Path: base, Code: CodeParseError, Message: err.Error(), Cause: err}}
	}
	out := make(Issues, 0, len(iss))
	for _, it := range iss {
		switch {
		case it.Path == "" || it.Path == "/":
			it.Path = base
		case base == "/" || base == "":
		default:
			it.Path = base + it.Path
		}
		out = append(out, it)
	}
	return out
}

// IssueAt creates an Issue at the given path with the provided code, message
// and hint.
func IssueAt(path, code, msg, hint string) Issue {
	if path == "" {
		path = "/"
	}
	return Issue{Path: path, Code: code, Message: msg, Hint: hint}
}
