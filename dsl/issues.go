package dsl

import (
	"fmt"
	"sort"

	intellitype "github.com/reoring/intellitype"
)

// sortIssues orders issues by path so map iteration order never leaks into
// error output.
func sortIssues(iss intellitype.Issues) {
	sort.SliceStable(iss, func(i, j int) bool { return iss[i].Path < iss[j].Path })
}

func describeKey(k any) string { return fmt.Sprint(k) }
