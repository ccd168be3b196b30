package irgen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nlangteam/nlang/internal/ast"
	"github.com/nlangteam/nlang/internal/builtins"
)

// emitExpr lowers expr and returns the SSA value (a register name like
// "%t3" or an immediate like "42") together with its IR type.
func (fe *funcEmitter) emitExpr(expr ast.Expression) (string, string) {
	switch e := expr.(type) {
	case *ast.IntegerLiteral:
		return strconv.FormatInt(e.Value, 10), "i64"
	case *ast.FloatLiteral:
		return floatLiteral(e.Value), "double"
	case *ast.BooleanLiteral:
		if e.Value {
			return "1", "i1"
		}
		return "0", "i1"
	case *ast.NullLiteral:
		return "0", "i64"
	case *ast.StringLiteral:
		return fe.emitStringConstant(e.Value), "i8*"
	case *ast.Identifier:
		return fe.emitIdentifier(e)
	case *ast.GroupedExpr:
		return fe.emitExpr(e.Inner)
	case *ast.UnaryExpr:
		return fe.emitUnary(e)
	case *ast.BinaryExpr:
		return fe.emitBinary(e)
	case *ast.CallExpr:
		return fe.emitCall(e)
	}
	return "0", "i64"
}

// floatLiteral renders v the way LLVM IR wants a float constant: always
// with a decimal point so it can't be mistaken for an integer token.
func floatLiteral(v float64) string {
	s := strconv.FormatFloat(v, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

func (fe *funcEmitter) emitStringConstant(s string) string {
	name := fe.mod.intern(s)
	length := len(s) + 1
	t := fe.newTemp()
	fe.emit("%s = getelementptr [%d x i8], [%d x i8]* %s, i64 0, i64 0", t, length, length, name)
	return t
}

func (fe *funcEmitter) emitIdentifier(e *ast.Identifier) (string, string) {
	if sl, ok := fe.locals[e.Value]; ok {
		t := fe.newTemp()
		fe.emit("%s = load %s, %s* %s", t, sl.ty, sl.ty, sl.ptr)
		return t, sl.ty
	}
	// Not a local/parameter: must be a module-level global (spec.md §3 —
	// "only globals and own parameters/locals are visible"; function names
	// are never referenced as values).
	ty := fe.mod.globals[e.Value]
	t := fe.newTemp()
	fe.emit("%s = load %s, %s* %s", t, ty, ty, globalRef(e.Value))
	return t, ty
}

func (fe *funcEmitter) emitUnary(e *ast.UnaryExpr) (string, string) {
	val, ty := fe.emitExpr(e.Operand)
	switch e.Operator {
	case "-":
		t := fe.newTemp()
		if ty == "double" {
			fe.emit("%s = fsub double 0.0, %s", t, val)
		} else {
			fe.emit("%s = sub i64 0, %s", t, val)
		}
		return t, ty
	case "not":
		t := fe.newTemp()
		fe.emit("%s = xor i1 %s, 1", t, val)
		return t, "i1"
	}
	return val, ty
}

func (fe *funcEmitter) emitBinary(e *ast.BinaryExpr) (string, string) {
	switch e.Operator {
	case "and":
		return fe.emitShortCircuit(e, false)
	case "or":
		return fe.emitShortCircuit(e, true)
	}

	left, leftTy := fe.emitExpr(e.Left)
	right, rightTy := fe.emitExpr(e.Right)

	if leftTy == "i8*" || rightTy == "i8*" {
		return fe.emitStringOp(e, left, right)
	}

	left, right, ty := fe.unifyNumeric(left, leftTy, right, rightTy)

	switch e.Operator {
	case "==", "!=", "<", "<=", ">", ">=":
		return fe.emitCompare(e.Operator, left, right, ty), "i1"
	case "+", "-", "*":
		return fe.emitArith(e.Operator, left, right, ty), ty
	case "/":
		return fe.emitDivide(left, right, ty), ty
	case "%":
		return fe.emitModulo(left, right), "i64"
	}
	return "0", "i64"
}

// emitShortCircuit lowers `and`/`or` with real short-circuit control flow:
// the right operand is only evaluated when the left one doesn't already
// decide the result. isOr selects `or` semantics (short-circuit on true)
// versus `and` (short-circuit on false).
func (fe *funcEmitter) emitShortCircuit(e *ast.BinaryExpr, isOr bool) (string, string) {
	fe.valueCount++
	resultPtr := fmt.Sprintf("%%sc.%d", fe.valueCount)
	fe.emit("%s = alloca i1", resultPtr)

	left, _ := fe.emitExpr(e.Left)
	fe.emit("store i1 %s, i1* %s", left, resultPtr)

	rhsL := fe.newLabel("sc.rhs")
	endL := fe.newLabel("sc.end")
	if isOr {
		fe.emit("br i1 %s, label %%%s, label %%%s", left, endL, rhsL)
	} else {
		fe.emit("br i1 %s, label %%%s, label %%%s", left, rhsL, endL)
	}

	fe.emitLabel(rhsL)
	right, _ := fe.emitExpr(e.Right)
	fe.emit("store i1 %s, i1* %s", right, resultPtr)
	fe.emit("br label %%%s", endL)

	fe.emitLabel(endL)
	t := fe.newTemp()
	fe.emit("%s = load i1, i1* %s", t, resultPtr)
	return t, "i1"
}

// unifyNumeric inserts the explicit sitofp conversion spec.md §4.5 requires
// when one numeric operand is Int and the other Float.
func (fe *funcEmitter) unifyNumeric(left, leftTy, right, rightTy string) (string, string, string) {
	if leftTy == rightTy {
		return left, right, leftTy
	}
	if leftTy == "i64" && rightTy == "double" {
		return fe.coerce(left, "i64", "double"), right, "double"
	}
	if rightTy == "i64" && leftTy == "double" {
		return left, fe.coerce(right, "i64", "double"), "double"
	}
	return left, right, leftTy
}

func (fe *funcEmitter) emitStringOp(e *ast.BinaryExpr, left, right string) (string, string) {
	switch e.Operator {
	case "+":
		fe.mod.use(externStrcat)
		t := fe.newTemp()
		fe.emit("%s = call i8* @nlang_strcat(i8* %s, i8* %s)", t, left, right)
		return t, "i8*"
	case "==", "!=":
		fe.mod.use(externStreq)
		t := fe.newTemp()
		fe.emit("%s = call i1 @nlang_streq(i8* %s, i8* %s)", t, left, right)
		if e.Operator == "!=" {
			neg := fe.newTemp()
			fe.emit("%s = xor i1 %s, 1", neg, t)
			return neg, "i1"
		}
		return t, "i1"
	}
	return "0", "i1"
}

func (fe *funcEmitter) emitCompare(op, left, right, ty string) string {
	t := fe.newTemp()
	if ty == "double" {
		fe.emit("%s = fcmp %s double %s, %s", t, fcmpPredicate(op), left, right)
	} else {
		fe.emit("%s = icmp %s i64 %s, %s", t, icmpPredicate(op), left, right)
	}
	return t
}

func icmpPredicate(op string) string {
	switch op {
	case "==":
		return "eq"
	case "!=":
		return "ne"
	case "<":
		return "slt"
	case "<=":
		return "sle"
	case ">":
		return "sgt"
	case ">=":
		return "sge"
	}
	return "eq"
}

func fcmpPredicate(op string) string {
	switch op {
	case "==":
		return "oeq"
	case "!=":
		return "one"
	case "<":
		return "olt"
	case "<=":
		return "ole"
	case ">":
		return "ogt"
	case ">=":
		return "oge"
	}
	return "oeq"
}

func (fe *funcEmitter) emitArith(op, left, right, ty string) string {
	t := fe.newTemp()
	var opcode string
	if ty == "double" {
		switch op {
		case "+":
			opcode = "fadd"
		case "-":
			opcode = "fsub"
		case "*":
			opcode = "fmul"
		}
	} else {
		switch op {
		case "+":
			opcode = "add"
		case "-":
			opcode = "sub"
		case "*":
			opcode = "mul"
		}
	}
	fe.emit("%s = %s %s %s, %s", t, opcode, ty, left, right)
	return t
}

// emitDivide lowers `/`. Integer division by zero is a runtime error
// (spec.md §7), so it is guarded by a call to the fatal-error helper
// before the division executes, the same defensive pattern spec.md §4.6
// mandates for the C back-end. Float division by zero is left to IEEE 754
// (±Inf/NaN), matching the interpreter.
func (fe *funcEmitter) emitDivide(left, right, ty string) string {
	if ty == "double" {
		t := fe.newTemp()
		fe.emit("%s = fdiv double %s, %s", t, left, right)
		return t
	}
	fe.guardIntZero(right, "division by zero")
	t := fe.newTemp()
	fe.emit("%s = sdiv i64 %s, %s", t, left, right)
	return t
}

func (fe *funcEmitter) emitModulo(left, right string) string {
	fe.guardIntZero(right, "modulo by zero")
	t := fe.newTemp()
	fe.emit("%s = srem i64 %s, %s", t, left, right)
	return t
}

func (fe *funcEmitter) guardIntZero(divisor, message string) {
	fe.mod.use(externFatal)
	isZero := fe.newTemp()
	fe.emit("%s = icmp eq i64 %s, 0", isZero, divisor)
	failL := fe.newLabel("div.fail")
	okL := fe.newLabel("div.ok")
	fe.emit("br i1 %s, label %%%s, label %%%s", isZero, failL, okL)

	fe.emitLabel(failL)
	msg := fe.emitStringConstant(message)
	fe.emit("call void @nlang_fatal(i8* %s)", msg)
	fe.emit("unreachable")
	fe.terminated = true

	fe.emitLabel(okL)
}

func (fe *funcEmitter) emitCall(e *ast.CallExpr) (string, string) {
	name := e.Callee.Value
	if schema := fe.reg.Lookup(name); schema != nil {
		return fe.emitBuiltinCall(e, schema)
	}

	fn := fe.funcs[name]
	args := make([]string, len(e.Args))
	for i, a := range e.Args {
		val, ty := fe.emitExpr(a)
		val = fe.coerce(val, ty, irType(fn.ParamTypes[i]))
		args[i] = fmt.Sprintf("%s %s", irType(fn.ParamTypes[i]), val)
	}
	retTy := irType(fn.ReturnType)
	target := fe.mangledName(name)
	if retTy == "void" {
		fe.emit("call void @%s(%s)", target, strings.Join(args, ", "))
		return "0", "i64"
	}
	t := fe.newTemp()
	fe.emit("%s = call %s @%s(%s)", t, retTy, target, strings.Join(args, ", "))
	return t, retTy
}

func (fe *funcEmitter) stringify(val, ty string) string {
	switch ty {
	case "i8*":
		return val
	case "i64":
		fe.mod.use(externIntToStr)
		t := fe.newTemp()
		fe.emit("%s = call i8* @nlang_int_to_str(i64 %s)", t, val)
		return t
	case "double":
		fe.mod.use(externFloatToStr)
		t := fe.newTemp()
		fe.emit("%s = call i8* @nlang_float_to_str(double %s)", t, val)
		return t
	case "i1":
		fe.mod.use(externBoolToStr)
		t := fe.newTemp()
		fe.emit("%s = call i8* @nlang_bool_to_str(i1 %s)", t, val)
		return t
	default:
		return fe.emitStringConstant("null")
	}
}

func (fe *funcEmitter) emitBuiltinCall(e *ast.CallExpr, schema *builtins.Schema) (string, string) {
	switch schema.Tag {
	case builtins.TagPrint, builtins.TagPrintln:
		val, ty := fe.emitExpr(e.Args[0])
		str := fe.stringify(val, ty)
		fe.mod.use(externPrintf)
		format := "%s"
		if schema.Tag == builtins.TagPrintln {
			format = "%s\n"
		}
		fmtPtr := fe.emitStringConstant(format)
		fe.emit("call i32 (i8*, ...) @printf(i8* %s, i8* %s)", fmtPtr, str)
		return "0", "i64"

	case builtins.TagInput:
		fe.mod.use(externMalloc)
		fe.mod.use(externFgets)
		fe.mod.use(externStdin)
		fe.mod.use(externStripNL)
		buf := fe.newTemp()
		fe.emit("%s = call i8* @malloc(i64 4096)", buf)
		stream := fe.newTemp()
		fe.emit("%s = call i8* @nlang_stdin()", stream)
		read := fe.newTemp()
		fe.emit("%s = call i8* @fgets(i8* %s, i32 4096, i8* %s)", read, buf, stream)
		stripped := fe.newTemp()
		fe.emit("%s = call i8* @nlang_strip_newline(i8* %s)", stripped, read)
		return stripped, "i8*"

	case builtins.TagLen:
		val, _ := fe.emitExpr(e.Args[0])
		fe.mod.use(externStrlen)
		t := fe.newTemp()
		fe.emit("%s = call i64 @strlen(i8* %s)", t, val)
		return t, "i64"

	case builtins.TagStr:
		val, ty := fe.emitExpr(e.Args[0])
		return fe.stringify(val, ty), "i8*"

	case builtins.TagInt:
		val, _ := fe.emitExpr(e.Args[0])
		fe.mod.use(externParseInt)
		t := fe.newTemp()
		fe.emit("%s = call i64 @nlang_parse_int(i8* %s)", t, val)
		return t, "i64"

	case builtins.TagFloat:
		val, _ := fe.emitExpr(e.Args[0])
		fe.mod.use(externParseFloat)
		t := fe.newTemp()
		fe.emit("%s = call double @nlang_parse_float(i8* %s)", t, val)
		return t, "double"

	case builtins.TagBool:
		return fe.emitBoolConversion(e)

	case builtins.TagAbs:
		return fe.emitAbs(e)
	case builtins.TagMax:
		return fe.emitMinMax(e, true)
	case builtins.TagMin:
		return fe.emitMinMax(e, false)
	case builtins.TagPow:
		return fe.emitPow(e)
	}
	return "0", "i64"
}

func (fe *funcEmitter) emitBoolConversion(e *ast.CallExpr) (string, string) {
	val, ty := fe.emitExpr(e.Args[0])
	t := fe.newTemp()
	switch ty {
	case "i64":
		fe.emit("%s = icmp ne i64 %s, 0", t, val)
	case "double":
		fe.emit("%s = fcmp one double %s, 0.0", t, val)
	case "i8*":
		fe.mod.use(externStrlen)
		length := fe.newTemp()
		fe.emit("%s = call i64 @strlen(i8* %s)", length, val)
		fe.emit("%s = icmp ne i64 %s, 0", t, length)
	case "i1":
		return val, "i1"
	default:
		fe.emit("%s = add i1 0, 0", t)
	}
	return t, "i1"
}

func (fe *funcEmitter) emitAbs(e *ast.CallExpr) (string, string) {
	val, ty := fe.emitExpr(e.Args[0])
	cmp := fe.newTemp()
	neg := fe.newTemp()
	t := fe.newTemp()
	if ty == "double" {
		fe.emit("%s = fcmp olt double %s, 0.0", cmp, val)
		fe.emit("%s = fsub double 0.0, %s", neg, val)
		fe.emit("%s = select i1 %s, double %s, double %s", t, cmp, neg, val)
	} else {
		fe.emit("%s = icmp slt i64 %s, 0", cmp, val)
		fe.emit("%s = sub i64 0, %s", neg, val)
		fe.emit("%s = select i1 %s, i64 %s, i64 %s", t, cmp, neg, val)
	}
	return t, ty
}

func (fe *funcEmitter) emitMinMax(e *ast.CallExpr, wantMax bool) (string, string) {
	left, leftTy := fe.emitExpr(e.Args[0])
	right, rightTy := fe.emitExpr(e.Args[1])
	left, right, ty := fe.unifyNumeric(left, leftTy, right, rightTy)

	cmp := fe.newTemp()
	t := fe.newTemp()
	if ty == "double" {
		pred := "ogt"
		if !wantMax {
			pred = "olt"
		}
		fe.emit("%s = fcmp %s double %s, %s", cmp, pred, left, right)
		fe.emit("%s = select i1 %s, double %s, double %s", t, cmp, left, right)
	} else {
		pred := "sgt"
		if !wantMax {
			pred = "slt"
		}
		fe.emit("%s = icmp %s i64 %s, %s", cmp, pred, left, right)
		fe.emit("%s = select i1 %s, i64 %s, i64 %s", t, cmp, left, right)
	}
	return t, ty
}

// emitPow lowers pow: Int/Int delegates to nlang_ipow (repeated
// multiplication, matching the interpreter's semantics exactly, per
// spec.md §4.4); anything involving a Float widens both operands and calls
// the libm exponential.
func (fe *funcEmitter) emitPow(e *ast.CallExpr) (string, string) {
	left, leftTy := fe.emitExpr(e.Args[0])
	right, rightTy := fe.emitExpr(e.Args[1])
	if leftTy == "i64" && rightTy == "i64" {
		fe.mod.use(externIPow)
		t := fe.newTemp()
		fe.emit("%s = call i64 @nlang_ipow(i64 %s, i64 %s)", t, left, right)
		return t, "i64"
	}
	left, right, _ = fe.unifyNumeric(left, leftTy, right, rightTy)
	fe.mod.use(externPow)
	t := fe.newTemp()
	fe.emit("%s = call double @pow(double %s, double %s)", t, left, right)
	return t, "double"
}
