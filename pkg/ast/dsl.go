package ast

// Literal and identifier helpers.

func ID(name string) *Identifier {
	return NewIdentifier(name)
}

func Int(value int64) *IntegerLiteral {
	return NewIntegerLiteral(value)
}

func Flt(value float64) *FloatLiteral {
	return NewFloatLiteral(value)
}

func Str(value string) *StringLiteral {
	return NewStringLiteral(value)
}

func Bool(value bool) *BooleanLiteral {
	return NewBooleanLiteral(value)
}

func Arr(elements ...Expression) *ArrayLiteral {
	return NewArrayLiteral(elements)
}

// Mat builds a nested array literal from rows of numeric literals.
func Mat(rows ...[]float64) *ArrayLiteral {
	out := make([]Expression, 0, len(rows))
	for _, row := range rows {
		cells := make([]Expression, 0, len(row))
		for _, cell := range row {
			cells = append(cells, Flt(cell))
		}
		out = append(out, Arr(cells...))
	}
	return NewArrayLiteral(out)
}

// Type helpers.

func Ty(base DataType) TypeInfo {
	return TypeInfo{Base: base}
}

func ArrTy(base DataType, size int) TypeInfo {
	return TypeInfo{Base: base, IsArray: true, ArraySize: size}
}

// Expression helpers.

func Bin(operator BinaryOperator, left, right Expression) *BinaryExpression {
	return NewBinaryExpression(operator, left, right)
}

func Un(operator UnaryOperator, operand Expression) *UnaryExpression {
	return NewUnaryExpression(operator, operand)
}

func PreInc(operand Expression) *UpdateExpression {
	return NewUpdateExpression(UpdateIncrement, true, operand)
}

func PreDec(operand Expression) *UpdateExpression {
	return NewUpdateExpression(UpdateDecrement, true, operand)
}

func PostInc(operand Expression) *UpdateExpression {
	return NewUpdateExpression(UpdateIncrement, false, operand)
}

func PostDec(operand Expression) *UpdateExpression {
	return NewUpdateExpression(UpdateDecrement, false, operand)
}

func Assign(name string, value Expression) *AssignmentExpression {
	return NewAssignmentExpression(AssignmentAssign, ID(name), value)
}

func AssignOp(op AssignmentOperator, left Expression, value Expression) *AssignmentExpression {
	return NewAssignmentExpression(op, left, value)
}

func Range(start, end Expression, inclusive bool) *RangeExpression {
	kind := RangeExclusive
	if inclusive {
		kind = RangeInclusive
	}
	return NewRangeExpression(kind, start, end, nil)
}

func RangeStep(start, end, step Expression) *RangeExpression {
	return NewRangeExpression(RangeStepped, start, end, step)
}

func Call(name string, args ...Expression) *FunctionCall {
	return NewFunctionCall(ID(name), args)
}

func CallExpr(callee Expression, args ...Expression) *FunctionCall {
	return NewFunctionCall(callee, args)
}

func Index(object, index Expression) *IndexExpression {
	return NewIndexExpression(object, index)
}

// Statement helpers.

func Var(varType DataType, name string, initializer Expression) *VariableDeclaration {
	return NewVariableDeclaration(Ty(varType), name, initializer)
}

func ArrDecl(elementType DataType, name string, size Expression, initializer *ArrayLiteral) *ArrayDeclaration {
	return NewArrayDeclaration(Ty(elementType), name, size, initializer)
}

func Param(paramType DataType, name string) *Parameter {
	return NewParameter(Ty(paramType), name)
}

func Fn(name string, returnType DataType, params []*Parameter, body ...Statement) *FunctionDeclaration {
	return NewFunctionDeclaration(Ty(returnType), name, params, Block(body...))
}

func Block(statements ...Statement) *StatementList {
	return NewStatementList(statements)
}

func Expr(expr Expression) *ExpressionStatement {
	return NewExpressionStatement(expr)
}

func If(condition Expression, then Statement) *IfStatement {
	return NewIfStatement(condition, then, nil)
}

func IfElse(condition Expression, then, els Statement) *IfStatement {
	return NewIfStatement(condition, then, els)
}

func While(condition Expression, body ...Statement) *WhileStatement {
	return NewWhileStatement(condition, Block(body...))
}

func For(init Statement, condition, increment Expression, body ...Statement) *ForStatement {
	return NewForStatement(init, condition, increment, Block(body...))
}

func ForRange(iterator string, rng *RangeExpression, body ...Statement) *ForRangeStatement {
	return NewForRangeStatement(iterator, rng, Block(body...))
}

func Ret(argument Expression) *ReturnStatement {
	return NewReturnStatement(argument)
}

func Brk() *BreakStatement {
	return NewBreakStatement()
}

func Cont() *ContinueStatement {
	return NewContinueStatement()
}

// Print is shorthand for an expression statement calling the print built-in.
func Print(args ...Expression) *ExpressionStatement {
	return Expr(Call("print", args...))
}

func Prog(declarations ...Declaration) *Program {
	return NewProgram(declarations)
}
