package diag

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Render formats diags as the teacher's source-context + caret format: a
// position header, the offending source line, and a caret pointing at the
// column, one block per diagnostic.
func Render(diags []*Diagnostic, source string) string {
	if len(diags) == 0 {
		return ""
	}
	lines := strings.Split(source, "\n")

	var sb strings.Builder
	if len(diags) > 1 {
		fmt.Fprintf(&sb, "%d diagnostics:\n\n", len(diags))
	}
	for i, d := range diags {
		fmt.Fprintf(&sb, "%s [%s] %s\n", d.Severity, d.Phase, d.Pos)
		if d.Pos.Line >= 1 && d.Pos.Line <= len(lines) {
			sourceLine := lines[d.Pos.Line-1]
			lineNumStr := fmt.Sprintf("%4d | ", d.Pos.Line)
			sb.WriteString(lineNumStr)
			sb.WriteString(sourceLine)
			sb.WriteByte('\n')
			col := d.Pos.Column
			if col < 1 {
				col = 1
			}
			sb.WriteString(strings.Repeat(" ", len(lineNumStr)+col-1))
			sb.WriteString("^\n")
		}
		sb.WriteString(d.Message)
		if i < len(diags)-1 {
			sb.WriteString("\n\n")
		}
	}
	return sb.String()
}

// RenderJSON renders diags as a JSON array, built incrementally with sjson
// (per SPEC_FULL.md §4.8) rather than through encoding/json, so the CLI's
// JSON path stays consistent with the rest of the corpus's JSON-handling
// idiom. When pretty is true the array is re-indented via gjson's "@pretty"
// result modifier.
func RenderJSON(diags []*Diagnostic, pretty bool) (string, error) {
	arr := "[]"
	for i, d := range diags {
		obj := "{}"
		var err error
		if obj, err = sjson.Set(obj, "severity", string(d.Severity)); err != nil {
			return "", err
		}
		if obj, err = sjson.Set(obj, "phase", string(d.Phase)); err != nil {
			return "", err
		}
		if obj, err = sjson.Set(obj, "line", d.Pos.Line); err != nil {
			return "", err
		}
		if obj, err = sjson.Set(obj, "column", d.Pos.Column); err != nil {
			return "", err
		}
		if obj, err = sjson.Set(obj, "message", d.Message); err != nil {
			return "", err
		}
		if arr, err = sjson.SetRaw(arr, strconv.Itoa(i), obj); err != nil {
			return "", err
		}
	}
	if pretty {
		return gjson.Get(arr, "@pretty").String(), nil
	}
	return arr, nil
}
