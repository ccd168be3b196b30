// Package irgen lowers a checked nlang AST (internal/ast, typed by
// internal/semantic) to a textual, LLVM-style SSA intermediate
// representation. Per spec.md §4.5 the emitter is strictly per-AST: every
// expression must already carry a non-Unknown type, and the entry function
// is renamed to main regardless of its source name.
package irgen

import (
	"bytes"
	"fmt"

	"github.com/nlangteam/nlang/internal/types"
)

// extern names the external C-ABI declarations a module may need. Only the
// ones actually exercised by the program are emitted, per spec.md §6
// ("external declarations for printf, scanf/fgets, malloc, pow/exp as
// needed").
type extern string

const (
	externPrintf     extern = "printf"
	externFgets      extern = "fgets"
	externStdin      extern = "stdin_getter" // wraps the libc stdin FILE* global
	externMalloc     extern = "malloc"
	externPow        extern = "pow"
	externStrlen     extern = "strlen"
	externStrcat     extern = "nlang_strcat"
	externStreq      extern = "nlang_streq"
	externIntToStr   extern = "nlang_int_to_str"
	externFloatToStr extern = "nlang_float_to_str"
	externBoolToStr  extern = "nlang_bool_to_str"
	externParseInt   extern = "nlang_parse_int"
	externParseFloat extern = "nlang_parse_float"
	externStripNL    extern = "nlang_strip_newline"
	externIPow       extern = "nlang_ipow"
	externFatal      extern = "nlang_fatal"
)

// externSignatures gives each extern's declared LLVM-style prototype.
var externSignatures = map[extern]string{
	externPrintf:     "declare i32 @printf(i8*, ...)",
	externFgets:      "declare i8* @fgets(i8*, i32, i8*)",
	externStdin:      "declare i8* @nlang_stdin()",
	externMalloc:     "declare i8* @malloc(i64)",
	externPow:        "declare double @pow(double, double)",
	externStrlen:     "declare i64 @strlen(i8*)",
	externStrcat:     "declare i8* @nlang_strcat(i8*, i8*)",
	externStreq:      "declare i1 @nlang_streq(i8*, i8*)",
	externIntToStr:   "declare i8* @nlang_int_to_str(i64)",
	externFloatToStr: "declare i8* @nlang_float_to_str(double)",
	externBoolToStr:  "declare i8* @nlang_bool_to_str(i1)",
	externParseInt:   "declare i64 @nlang_parse_int(i8*)",
	externParseFloat: "declare double @nlang_parse_float(i8*)",
	externStripNL:    "declare i8* @nlang_strip_newline(i8*)",
	externIPow:       "declare i64 @nlang_ipow(i64, i64)",
	externFatal:      "declare void @nlang_fatal(i8*)",
}

// module accumulates the pieces of the emitted translation unit: the
// string constant pool, the set of external declarations actually used,
// the module-level global variables (spec.md §3: top-level `store`
// declarations are true globals visible from every function), and each
// function's already-rendered body text.
type module struct {
	strings     []string // constant pool, in first-seen order
	strIndex    map[string]int
	externs     map[extern]bool
	globals     map[string]string // source name -> IR type
	globalOrder []string          // first-seen order, for deterministic output
	functions   []string
}

func newModule() *module {
	return &module{
		strIndex: make(map[string]int),
		externs:  make(map[extern]bool),
		globals:  make(map[string]string),
	}
}

// intern returns the global name of s's constant, adding it to the pool on
// first use.
func (m *module) intern(s string) string {
	if idx, ok := m.strIndex[s]; ok {
		return fmt.Sprintf("@.str.%d", idx)
	}
	idx := len(m.strings)
	m.strings = append(m.strings, s)
	m.strIndex[s] = idx
	return fmt.Sprintf("@.str.%d", idx)
}

func (m *module) use(e extern) { m.externs[e] = true }

// addGlobal registers name as a module-level global of IR type ty, unless
// it's already registered (a program can only declare it once per
// internal/semantic's duplicate-declaration check). name is the source
// identifier; the rendered symbol is globalRef(name).
func (m *module) addGlobal(name, ty string) {
	if _, ok := m.globals[name]; ok {
		return
	}
	m.globals[name] = ty
	m.globalOrder = append(m.globalOrder, name)
}

// globalRef returns the IR symbol a module-level global called name is
// addressed by.
func globalRef(name string) string { return "@g." + name }

func (m *module) addFunction(body string) { m.functions = append(m.functions, body) }

// render assembles the final textual module: header, externs, string
// constants, global variables, then function definitions, in that order.
func (m *module) render() string {
	var out bytes.Buffer
	out.WriteString("; nlang generated module\n\n")
	for _, e := range externOrder {
		if m.externs[e] {
			out.WriteString(externSignatures[e])
			out.WriteByte('\n')
		}
	}
	if len(m.externs) > 0 {
		out.WriteByte('\n')
	}
	for _, name := range m.globalOrder {
		ty := m.globals[name]
		fmt.Fprintf(&out, "%s = global %s %s\n", globalRef(name), ty, zeroValue(ty))
	}
	if len(m.globalOrder) > 0 {
		out.WriteByte('\n')
	}
	for i, s := range m.strings {
		out.WriteString(renderStringConstant(i, s))
		out.WriteByte('\n')
	}
	if len(m.strings) > 0 {
		out.WriteByte('\n')
	}
	for i, fn := range m.functions {
		if i > 0 {
			out.WriteByte('\n')
		}
		out.WriteString(fn)
	}
	return out.String()
}

// externOrder fixes declaration order so output is deterministic.
var externOrder = []extern{
	externPrintf, externFgets, externStdin, externMalloc, externPow,
	externStrlen, externStrcat, externStreq, externIntToStr,
	externFloatToStr, externBoolToStr, externParseInt, externParseFloat,
	externStripNL, externIPow, externFatal,
}

func renderStringConstant(idx int, s string) string {
	escaped, length := escapeC(s)
	return fmt.Sprintf("@.str.%d = private unnamed_addr constant [%d x i8] c\"%s\"", idx, length, escaped)
}

// escapeC renders s as an LLVM/C string body (escaped bytes plus the
// trailing NUL) and returns the escaped text and its total byte length
// including that NUL.
func escapeC(s string) (string, int) {
	var out bytes.Buffer
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '"' || c == '\\':
			fmt.Fprintf(&out, "\\%02X", c)
		case c == '\n':
			out.WriteString("\\0A")
		case c < 0x20 || c >= 0x7f:
			fmt.Fprintf(&out, "\\%02X", c)
		default:
			out.WriteByte(c)
		}
	}
	out.WriteString("\\00")
	return out.String(), len(s) + 1
}

// irType maps an nlang static type to its IR representation. Function
// values never reach codegen (nlang has no first-class functions), so the
// mapping only covers the five primitives.
func irType(t types.Type) string {
	switch t.Kind {
	case types.Int:
		return "i64"
	case types.Float:
		return "double"
	case types.Bool:
		return "i1"
	case types.String:
		return "i8*"
	case types.Null:
		return "void"
	default:
		return "i64" // unreachable for a fully type-checked program
	}
}
