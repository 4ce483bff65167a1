// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package ndarray

import (
	"fmt"
	"math"

	"github.com/gomlx/exceptions"
)

// OpType tags the elementwise operation of a Broadcast node.
type OpType int

const (
	OpInvalid OpType = iota

	// Unary.
	OpNeg
	OpAbs
	OpSquare
	OpSqrt
	OpExp
	OpLog
	OpSign
	OpIdentity

	// Binary.
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod
	OpPow
	OpMax
	OpMin

	// Ternary and masked.
	OpWhere
	OpFMA
	OpNegIfNot

	// Comparisons, returning bool.
	OpEqual
	OpNotEqual
	OpLess
	OpLessEqual
	OpGreater
	OpGreaterEqual

	// Logical, over bool.
	OpLogicalAnd
	OpLogicalOr
	OpLogicalNot

	// OpConvert converts the element type.
	OpConvert

	opLast
)

var opNames = [...]string{
	OpInvalid:      "Invalid",
	OpNeg:          "Neg",
	OpAbs:          "Abs",
	OpSquare:       "Square",
	OpSqrt:         "Sqrt",
	OpExp:          "Exp",
	OpLog:          "Log",
	OpSign:         "Sign",
	OpIdentity:     "Identity",
	OpAdd:          "Add",
	OpSub:          "Sub",
	OpMul:          "Mul",
	OpDiv:          "Div",
	OpMod:          "Mod",
	OpPow:          "Pow",
	OpMax:          "Max",
	OpMin:          "Min",
	OpWhere:        "Where",
	OpFMA:          "FMA",
	OpNegIfNot:     "NegIfNot",
	OpEqual:        "Equal",
	OpNotEqual:     "NotEqual",
	OpLess:         "Less",
	OpLessEqual:    "LessEqual",
	OpGreater:      "Greater",
	OpGreaterEqual: "GreaterEqual",
	OpLogicalAnd:   "LogicalAnd",
	OpLogicalOr:    "LogicalOr",
	OpLogicalNot:   "LogicalNot",
	OpConvert:      "Convert",
}

// String implements fmt.Stringer.
func (op OpType) String() string {
	if op < 0 || op >= opLast {
		return fmt.Sprintf("OpType(%d)", int(op))
	}
	return opNames[op]
}

// Arity returns the number of operands of the operation.
func (op OpType) Arity() int {
	switch {
	case op >= OpNeg && op <= OpIdentity, op == OpLogicalNot, op == OpConvert:
		return 1
	case op == OpWhere, op == OpFMA:
		return 3
	case op == OpInvalid || op >= opLast:
		return 0
	}
	return 2
}

// ParseOpType returns the operation with the given name (as in OpType.String), or OpInvalid.
func ParseOpType(name string) OpType {
	for op := OpNeg; op < opLast; op++ {
		if opNames[op] == name {
			return op
		}
	}
	return OpInvalid
}

// numericOp returns the scalar function of a numeric operation that keeps the element type.
func numericOp[T Number](op OpType) func(args []T) T {
	switch op {
	case OpNeg:
		return func(a []T) T { return -a[0] }
	case OpAbs:
		return func(a []T) T {
			if a[0] < 0 {
				return -a[0]
			}
			return a[0]
		}
	case OpSquare:
		return func(a []T) T { return a[0] * a[0] }
	case OpSqrt:
		return func(a []T) T { return T(math.Sqrt(float64(a[0]))) }
	case OpExp:
		return func(a []T) T { return T(math.Exp(float64(a[0]))) }
	case OpLog:
		return func(a []T) T { return T(math.Log(float64(a[0]))) }
	case OpSign:
		return func(a []T) T {
			var one T = 1
			switch {
			case a[0] > 0:
				return one
			case a[0] < 0:
				return -one
			}
			return a[0]
		}
	case OpIdentity:
		return func(a []T) T { return a[0] }
	case OpAdd:
		return func(a []T) T { return a[0] + a[1] }
	case OpSub:
		return func(a []T) T { return a[0] - a[1] }
	case OpMul:
		return func(a []T) T { return a[0] * a[1] }
	case OpDiv:
		return func(a []T) T { return a[0] / a[1] }
	case OpMod:
		if isFloat[T]() {
			return func(a []T) T { return T(math.Mod(float64(a[0]), float64(a[1]))) }
		}
		return func(a []T) T { return a[0] - (a[0]/a[1])*a[1] }
	case OpPow:
		if isFloat[T]() {
			return func(a []T) T { return T(math.Pow(float64(a[0]), float64(a[1]))) }
		}
		return func(a []T) T { return integerPow(a[0], a[1]) }
	case OpMax:
		return func(a []T) T { return max(a[0], a[1]) }
	case OpMin:
		return func(a []T) T { return min(a[0], a[1]) }
	case OpWhere:
		return func(a []T) T {
			if a[0] != 0 {
				return a[1]
			}
			return a[2]
		}
	case OpFMA:
		return func(a []T) T { return a[0]*a[1] + a[2] }
	case OpNegIfNot:
		return func(a []T) T {
			if a[1] != 0 {
				return a[0]
			}
			return -a[0]
		}
	}
	exceptions.Panicf("%s is not a numeric operation", op)
	return nil
}

// integerPow uses exponentiation by squaring. Negative exponents yield 0, except for base 1.
func integerPow[T Number](base, exponent T) T {
	if exponent < 0 {
		if base == 1 {
			return 1
		}
		return 0
	}
	result := T(1)
	for exponent > 0 {
		if exponent-(exponent/2)*2 == 1 {
			result *= base
		}
		base *= base
		exponent /= 2
	}
	return result
}

func compareOp[T Number](op OpType) func(args []T) bool {
	switch op {
	case OpEqual:
		return func(a []T) bool { return a[0] == a[1] }
	case OpNotEqual:
		return func(a []T) bool { return a[0] != a[1] }
	case OpLess:
		return func(a []T) bool { return a[0] < a[1] }
	case OpLessEqual:
		return func(a []T) bool { return a[0] <= a[1] }
	case OpGreater:
		return func(a []T) bool { return a[0] > a[1] }
	case OpGreaterEqual:
		return func(a []T) bool { return a[0] >= a[1] }
	}
	exceptions.Panicf("%s is not a comparison", op)
	return nil
}

func logicalOp(op OpType) func(args []bool) bool {
	switch op {
	case OpLogicalAnd:
		return func(a []bool) bool { return a[0] && a[1] }
	case OpLogicalOr:
		return func(a []bool) bool { return a[0] || a[1] }
	case OpLogicalNot:
		return func(a []bool) bool { return !a[0] }
	case OpEqual:
		return func(a []bool) bool { return a[0] == a[1] }
	case OpNotEqual:
		return func(a []bool) bool { return a[0] != a[1] }
	}
	exceptions.Panicf("%s is not a logical operation", op)
	return nil
}

// Apply builds the Broadcast of a numeric operation by its tag. The number of operands must match
// op.Arity(). Masks of Where (first operand) and NegIfNot (second operand) are given as numbers,
// non-zero being true.
func Apply[T Number](op OpType, args ...Expr[T]) *Broadcast[T, T] {
	if op == OpConvert {
		exceptions.Panicf("use AsType for conversions")
	}
	if arity := op.Arity(); arity != len(args) {
		exceptions.Panicf("%s takes %d operands, got %d", op, arity, len(args))
	}
	return newBroadcast(op, numericOp[T](op), args...)
}

func unary[T Number](op OpType, x Expr[T]) *Broadcast[T, T] {
	return newBroadcast(op, numericOp[T](op), x)
}

func binary[T Number](op OpType, lhs, rhs Expr[T]) *Broadcast[T, T] {
	return newBroadcast(op, numericOp[T](op), lhs, rhs)
}

// Neg returns the lazy elementwise -x.
func Neg[T Number](x Expr[T]) *Broadcast[T, T] { return unary(OpNeg, x) }

// Abs returns the lazy elementwise |x|.
func Abs[T Number](x Expr[T]) *Broadcast[T, T] { return unary(OpAbs, x) }

// Square returns the lazy elementwise x*x.
func Square[T Number](x Expr[T]) *Broadcast[T, T] { return unary(OpSquare, x) }

// Sqrt returns the lazy elementwise square root, computed in float64.
func Sqrt[T Number](x Expr[T]) *Broadcast[T, T] { return unary(OpSqrt, x) }

// Exp returns the lazy elementwise e^x, computed in float64.
func Exp[T Number](x Expr[T]) *Broadcast[T, T] { return unary(OpExp, x) }

// Log returns the lazy elementwise natural logarithm, computed in float64.
func Log[T Number](x Expr[T]) *Broadcast[T, T] { return unary(OpLog, x) }

// Sign returns the lazy elementwise sign: -1, 0 or 1.
func Sign[T Number](x Expr[T]) *Broadcast[T, T] { return unary(OpSign, x) }

// Identity wraps x in a Broadcast node that returns its elements unchanged.
func Identity[T Number](x Expr[T]) *Broadcast[T, T] { return unary(OpIdentity, x) }

// Add returns the lazy broadcast lhs + rhs.
func Add[T Number](lhs, rhs Expr[T]) *Broadcast[T, T] { return binary(OpAdd, lhs, rhs) }

// Sub returns the lazy broadcast lhs - rhs.
func Sub[T Number](lhs, rhs Expr[T]) *Broadcast[T, T] { return binary(OpSub, lhs, rhs) }

// Mul returns the lazy broadcast lhs * rhs.
func Mul[T Number](lhs, rhs Expr[T]) *Broadcast[T, T] { return binary(OpMul, lhs, rhs) }

// Div returns the lazy broadcast lhs / rhs. Integer division by zero panics when evaluated.
func Div[T Number](lhs, rhs Expr[T]) *Broadcast[T, T] { return binary(OpDiv, lhs, rhs) }

// Mod returns the lazy broadcast remainder of lhs / rhs, with the sign of lhs.
func Mod[T Number](lhs, rhs Expr[T]) *Broadcast[T, T] { return binary(OpMod, lhs, rhs) }

// Pow returns the lazy broadcast lhs^rhs.
func Pow[T Number](lhs, rhs Expr[T]) *Broadcast[T, T] { return binary(OpPow, lhs, rhs) }

// Max returns the lazy broadcast elementwise maximum.
func Max[T Number](lhs, rhs Expr[T]) *Broadcast[T, T] { return binary(OpMax, lhs, rhs) }

// Min returns the lazy broadcast elementwise minimum.
func Min[T Number](lhs, rhs Expr[T]) *Broadcast[T, T] { return binary(OpMin, lhs, rhs) }

// FMA returns the lazy broadcast a*b + c.
func FMA[T Number](a, b, c Expr[T]) *Broadcast[T, T] {
	return newBroadcast(OpFMA, numericOp[T](OpFMA), a, b, c)
}

// Where returns the lazy broadcast selection onTrue where cond is true, and onFalse otherwise.
func Where[T Number](cond Expr[bool], onTrue, onFalse Expr[T]) *Broadcast[T, T] {
	return newBroadcast[T, T](OpWhere, numericOp[T](OpWhere), AsType[T](cond), onTrue, onFalse)
}

// NegIfNot returns the lazy broadcast x where mask is true, and -x where it is false.
func NegIfNot[T Number](x Expr[T], mask Expr[bool]) *Broadcast[T, T] {
	return newBroadcast[T, T](OpNegIfNot, numericOp[T](OpNegIfNot), x, AsType[T](mask))
}

func compare[T Number](op OpType, lhs, rhs Expr[T]) *Broadcast[T, bool] {
	return newBroadcast(op, compareOp[T](op), lhs, rhs)
}

// EqualTo returns the lazy broadcast lhs == rhs.
func EqualTo[T Number](lhs, rhs Expr[T]) *Broadcast[T, bool] { return compare(OpEqual, lhs, rhs) }

// NotEqualTo returns the lazy broadcast lhs != rhs.
func NotEqualTo[T Number](lhs, rhs Expr[T]) *Broadcast[T, bool] { return compare(OpNotEqual, lhs, rhs) }

// Less returns the lazy broadcast lhs < rhs.
func Less[T Number](lhs, rhs Expr[T]) *Broadcast[T, bool] { return compare(OpLess, lhs, rhs) }

// LessEqual returns the lazy broadcast lhs <= rhs.
func LessEqual[T Number](lhs, rhs Expr[T]) *Broadcast[T, bool] { return compare(OpLessEqual, lhs, rhs) }

// Greater returns the lazy broadcast lhs > rhs.
func Greater[T Number](lhs, rhs Expr[T]) *Broadcast[T, bool] { return compare(OpGreater, lhs, rhs) }

// GreaterEqual returns the lazy broadcast lhs >= rhs.
func GreaterEqual[T Number](lhs, rhs Expr[T]) *Broadcast[T, bool] {
	return compare(OpGreaterEqual, lhs, rhs)
}

// LogicalAnd returns the lazy broadcast lhs && rhs.
func LogicalAnd(lhs, rhs Expr[bool]) *Broadcast[bool, bool] {
	return newBroadcast(OpLogicalAnd, logicalOp(OpLogicalAnd), lhs, rhs)
}

// LogicalOr returns the lazy broadcast lhs || rhs.
func LogicalOr(lhs, rhs Expr[bool]) *Broadcast[bool, bool] {
	return newBroadcast(OpLogicalOr, logicalOp(OpLogicalOr), lhs, rhs)
}

// LogicalNot returns the lazy elementwise !x.
func LogicalNot(x Expr[bool]) *Broadcast[bool, bool] {
	return newBroadcast(OpLogicalNot, logicalOp(OpLogicalNot), x)
}

// AsType returns the lazy elementwise conversion of x to type To. Booleans convert to 0 or 1, and
// numbers convert to true if they are not zero.
func AsType[To, From Supported](x Expr[From]) *Broadcast[From, To] {
	return newBroadcast(OpConvert, func(a []From) To { return convertValue[From, To](a[0]) }, x)
}
