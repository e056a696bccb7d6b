package ast

type NodeType string

const (
	NodeIntegerLiteral       NodeType = "IntegerLiteral"
	NodeFloatLiteral         NodeType = "FloatLiteral"
	NodeStringLiteral        NodeType = "StringLiteral"
	NodeBooleanLiteral       NodeType = "BooleanLiteral"
	NodeArrayLiteral         NodeType = "ArrayLiteral"
	NodeIdentifier           NodeType = "Identifier"
	NodeBinaryExpression     NodeType = "BinaryExpression"
	NodeUnaryExpression      NodeType = "UnaryExpression"
	NodeUpdateExpression     NodeType = "UpdateExpression"
	NodeAssignmentExpression NodeType = "AssignmentExpression"
	NodeRangeExpression      NodeType = "RangeExpression"
	NodeFunctionCall         NodeType = "FunctionCall"
	NodeIndexExpression      NodeType = "IndexExpression"
	NodeVariableDeclaration  NodeType = "VariableDeclaration"
	NodeArrayDeclaration     NodeType = "ArrayDeclaration"
	NodeFunctionDeclaration  NodeType = "FunctionDeclaration"
	NodeParameter            NodeType = "Parameter"
	NodeIfStatement          NodeType = "IfStatement"
	NodeWhileStatement       NodeType = "WhileStatement"
	NodeForStatement         NodeType = "ForStatement"
	NodeForRangeStatement    NodeType = "ForRangeStatement"
	NodeReturnStatement      NodeType = "ReturnStatement"
	NodeBreakStatement       NodeType = "BreakStatement"
	NodeContinueStatement    NodeType = "ContinueStatement"
	NodeExpressionStatement  NodeType = "ExpressionStatement"
	NodeStatementList        NodeType = "StatementList"
	NodeProgram              NodeType = "Program"
)

// Node is implemented by every syntax tree node. The interpreter never
// mutates a tree once it has been handed over.
type Node interface {
	NodeType() NodeType
	Line() int
	isNode()
}

type nodeImpl struct {
	Type   NodeType `json:"type"`
	LineNo int      `json:"line,omitempty"`
}

func newNodeImpl(kind NodeType) nodeImpl {
	return nodeImpl{Type: kind}
}

func (n nodeImpl) NodeType() NodeType { return n.Type }
func (n nodeImpl) Line() int          { return n.LineNo }
func (nodeImpl) isNode()              {}

func (n *nodeImpl) setLine(line int) { n.LineNo = line }

// SetLine annotates node with the source line it was produced from.
func SetLine(node Node, line int) {
	if node == nil {
		return
	}
	if setter, ok := node.(interface{ setLine(int) }); ok {
		setter.setLine(line)
	}
}

// At is SetLine returning the node, for building trees inline.
func At[T Node](line int, node T) T {
	SetLine(node, line)
	return node
}

// Marker interfaces.

type Expression interface {
	Node
	expressionNode()
}

type expressionMarker struct{}

func (expressionMarker) expressionNode() {}

type Statement interface {
	Node
	statementNode()
}

type statementMarker struct{}

func (statementMarker) statementNode() {}

// Declaration is anything allowed at the top level of a program.
type Declaration interface {
	Statement
}

// DataType names the declared base type of a variable, parameter or function.
type DataType string

const (
	TypeInt     DataType = "int"
	TypeFloat   DataType = "float"
	TypeString  DataType = "string"
	TypeBool    DataType = "bool"
	TypeVoid    DataType = "void"
	TypeMatrix  DataType = "matrix"
	TypeArray   DataType = "array"
	TypeUnknown DataType = "unknown"
)

type TypeInfo struct {
	Base      DataType `json:"base"`
	IsArray   bool     `json:"isArray,omitempty"`
	ArraySize int      `json:"arraySize,omitempty"`
}

// Literals

type IntegerLiteral struct {
	nodeImpl
	expressionMarker

	Value int64 `json:"value"`
}

func NewIntegerLiteral(value int64) *IntegerLiteral {
	return &IntegerLiteral{nodeImpl: newNodeImpl(NodeIntegerLiteral), Value: value}
}

type FloatLiteral struct {
	nodeImpl
	expressionMarker

	Value float64 `json:"value"`
}

func NewFloatLiteral(value float64) *FloatLiteral {
	return &FloatLiteral{nodeImpl: newNodeImpl(NodeFloatLiteral), Value: value}
}

type StringLiteral struct {
	nodeImpl
	expressionMarker

	Value string `json:"value"`
}

func NewStringLiteral(value string) *StringLiteral {
	return &StringLiteral{nodeImpl: newNodeImpl(NodeStringLiteral), Value: value}
}

type BooleanLiteral struct {
	nodeImpl
	expressionMarker

	Value bool `json:"value"`
}

func NewBooleanLiteral(value bool) *BooleanLiteral {
	return &BooleanLiteral{nodeImpl: newNodeImpl(NodeBooleanLiteral), Value: value}
}

// ArrayLiteral is a bracketed element list. Nested array literals form matrix
// rows; the same node doubles as the initializer list of array declarations.
type ArrayLiteral struct {
	nodeImpl
	expressionMarker

	Elements []Expression `json:"elements"`
}

func NewArrayLiteral(elements []Expression) *ArrayLiteral {
	return &ArrayLiteral{nodeImpl: newNodeImpl(NodeArrayLiteral), Elements: elements}
}

type Identifier struct {
	nodeImpl
	expressionMarker

	Name string `json:"name"`
}

func NewIdentifier(name string) *Identifier {
	return &Identifier{nodeImpl: newNodeImpl(NodeIdentifier), Name: name}
}

// Expressions

type BinaryOperator string

const (
	OpAdd          BinaryOperator = "+"
	OpSub          BinaryOperator = "-"
	OpMul          BinaryOperator = "*"
	OpDiv          BinaryOperator = "/"
	OpMod          BinaryOperator = "%"
	OpMatMul       BinaryOperator = "@"
	OpEq           BinaryOperator = "=="
	OpNe           BinaryOperator = "!="
	OpLt           BinaryOperator = "<"
	OpGt           BinaryOperator = ">"
	OpLe           BinaryOperator = "<="
	OpGe           BinaryOperator = ">="
	OpPatternMatch BinaryOperator = "=~"
	OpAnd          BinaryOperator = "&&"
	OpOr           BinaryOperator = "||"
)

type BinaryExpression struct {
	nodeImpl
	expressionMarker

	Operator BinaryOperator `json:"operator"`
	Left     Expression     `json:"left"`
	Right    Expression     `json:"right"`
}

func NewBinaryExpression(operator BinaryOperator, left, right Expression) *BinaryExpression {
	return &BinaryExpression{nodeImpl: newNodeImpl(NodeBinaryExpression), Operator: operator, Left: left, Right: right}
}

type UnaryOperator string

const (
	UnaryOperatorNegate UnaryOperator = "-"
	UnaryOperatorNot    UnaryOperator = "!"
)

type UnaryExpression struct {
	nodeImpl
	expressionMarker

	Operator UnaryOperator `json:"operator"`
	Operand  Expression    `json:"operand"`
}

func NewUnaryExpression(operator UnaryOperator, operand Expression) *UnaryExpression {
	return &UnaryExpression{nodeImpl: newNodeImpl(NodeUnaryExpression), Operator: operator, Operand: operand}
}

type UpdateOperator string

const (
	UpdateIncrement UpdateOperator = "++"
	UpdateDecrement UpdateOperator = "--"
)

// UpdateExpression is ++/-- in prefix or postfix position.
type UpdateExpression struct {
	nodeImpl
	expressionMarker

	Operator UpdateOperator `json:"operator"`
	Prefix   bool           `json:"prefix"`
	Operand  Expression     `json:"operand"`
}

func NewUpdateExpression(operator UpdateOperator, prefix bool, operand Expression) *UpdateExpression {
	return &UpdateExpression{nodeImpl: newNodeImpl(NodeUpdateExpression), Operator: operator, Prefix: prefix, Operand: operand}
}

type AssignmentOperator string

const (
	AssignmentAssign AssignmentOperator = "="
	AssignmentAdd    AssignmentOperator = "+="
	AssignmentSub    AssignmentOperator = "-="
	AssignmentMul    AssignmentOperator = "*="
	AssignmentDiv    AssignmentOperator = "/="
)

type AssignmentExpression struct {
	nodeImpl
	expressionMarker

	Operator AssignmentOperator `json:"operator"`
	Left     Expression         `json:"left"`
	Right    Expression         `json:"right"`
}

func NewAssignmentExpression(operator AssignmentOperator, left, right Expression) *AssignmentExpression {
	return &AssignmentExpression{nodeImpl: newNodeImpl(NodeAssignmentExpression), Operator: operator, Left: left, Right: right}
}

type RangeKind string

const (
	RangeInclusive RangeKind = "inclusive"
	RangeExclusive RangeKind = "exclusive"
	// RangeStepped is `start..end step s`; it includes its end bound.
	RangeStepped RangeKind = "step"
)

type RangeExpression struct {
	nodeImpl
	expressionMarker

	Kind  RangeKind  `json:"kind"`
	Start Expression `json:"start"`
	End   Expression `json:"end"`
	Step  Expression `json:"step,omitempty"`
}

func NewRangeExpression(kind RangeKind, start, end, step Expression) *RangeExpression {
	return &RangeExpression{nodeImpl: newNodeImpl(NodeRangeExpression), Kind: kind, Start: start, End: end, Step: step}
}

// Inclusive reports whether iteration reaches the end bound.
func (r *RangeExpression) Inclusive() bool {
	return r.Kind == RangeInclusive || r.Kind == RangeStepped
}

type FunctionCall struct {
	nodeImpl
	expressionMarker

	Callee    Expression   `json:"callee"`
	Arguments []Expression `json:"arguments"`
}

func NewFunctionCall(callee Expression, args []Expression) *FunctionCall {
	return &FunctionCall{nodeImpl: newNodeImpl(NodeFunctionCall), Callee: callee, Arguments: args}
}

type IndexExpression struct {
	nodeImpl
	expressionMarker

	Object Expression `json:"object"`
	Index  Expression `json:"index"`
}

func NewIndexExpression(object, index Expression) *IndexExpression {
	return &IndexExpression{nodeImpl: newNodeImpl(NodeIndexExpression), Object: object, Index: index}
}

// Declarations

type VariableDeclaration struct {
	nodeImpl
	statementMarker

	VarType     TypeInfo   `json:"varType"`
	Name        string     `json:"name"`
	Initializer Expression `json:"initializer,omitempty"`
}

func NewVariableDeclaration(varType TypeInfo, name string, initializer Expression) *VariableDeclaration {
	return &VariableDeclaration{nodeImpl: newNodeImpl(NodeVariableDeclaration), VarType: varType, Name: name, Initializer: initializer}
}

type ArrayDeclaration struct {
	nodeImpl
	statementMarker

	ElementType TypeInfo      `json:"elementType"`
	Name        string        `json:"name"`
	Size        Expression    `json:"size,omitempty"`
	Initializer *ArrayLiteral `json:"initializer,omitempty"`
}

func NewArrayDeclaration(elementType TypeInfo, name string, size Expression, initializer *ArrayLiteral) *ArrayDeclaration {
	return &ArrayDeclaration{nodeImpl: newNodeImpl(NodeArrayDeclaration), ElementType: elementType, Name: name, Size: size, Initializer: initializer}
}

type Parameter struct {
	nodeImpl

	ParamType TypeInfo `json:"paramType"`
	Name      string   `json:"name"`
}

func NewParameter(paramType TypeInfo, name string) *Parameter {
	return &Parameter{nodeImpl: newNodeImpl(NodeParameter), ParamType: paramType, Name: name}
}

type FunctionDeclaration struct {
	nodeImpl
	statementMarker

	ReturnType TypeInfo       `json:"returnType"`
	Name       string         `json:"name"`
	Params     []*Parameter   `json:"params"`
	Body       *StatementList `json:"body"`
}

func NewFunctionDeclaration(returnType TypeInfo, name string, params []*Parameter, body *StatementList) *FunctionDeclaration {
	return &FunctionDeclaration{nodeImpl: newNodeImpl(NodeFunctionDeclaration), ReturnType: returnType, Name: name, Params: params, Body: body}
}

// Statements

type IfStatement struct {
	nodeImpl
	statementMarker

	Condition Expression `json:"condition"`
	Then      Statement  `json:"then"`
	Else      Statement  `json:"else,omitempty"`
}

func NewIfStatement(condition Expression, then, els Statement) *IfStatement {
	return &IfStatement{nodeImpl: newNodeImpl(NodeIfStatement), Condition: condition, Then: then, Else: els}
}

type WhileStatement struct {
	nodeImpl
	statementMarker

	Condition Expression `json:"condition"`
	Body      Statement  `json:"body"`
}

func NewWhileStatement(condition Expression, body Statement) *WhileStatement {
	return &WhileStatement{nodeImpl: newNodeImpl(NodeWhileStatement), Condition: condition, Body: body}
}

// ForStatement is the C-style three-clause loop. Any clause may be nil.
type ForStatement struct {
	nodeImpl
	statementMarker

	Init      Statement  `json:"init,omitempty"`
	Condition Expression `json:"condition,omitempty"`
	Increment Expression `json:"increment,omitempty"`
	Body      Statement  `json:"body"`
}

func NewForStatement(init Statement, condition, increment Expression, body Statement) *ForStatement {
	return &ForStatement{nodeImpl: newNodeImpl(NodeForStatement), Init: init, Condition: condition, Increment: increment, Body: body}
}

type ForRangeStatement struct {
	nodeImpl
	statementMarker

	Iterator string           `json:"iterator"`
	Range    *RangeExpression `json:"range"`
	Body     Statement        `json:"body"`
}

func NewForRangeStatement(iterator string, rng *RangeExpression, body Statement) *ForRangeStatement {
	return &ForRangeStatement{nodeImpl: newNodeImpl(NodeForRangeStatement), Iterator: iterator, Range: rng, Body: body}
}

type ReturnStatement struct {
	nodeImpl
	statementMarker

	Argument Expression `json:"argument,omitempty"`
}

func NewReturnStatement(argument Expression) *ReturnStatement {
	return &ReturnStatement{nodeImpl: newNodeImpl(NodeReturnStatement), Argument: argument}
}

type BreakStatement struct {
	nodeImpl
	statementMarker
}

func NewBreakStatement() *BreakStatement {
	return &BreakStatement{nodeImpl: newNodeImpl(NodeBreakStatement)}
}

type ContinueStatement struct {
	nodeImpl
	statementMarker
}

func NewContinueStatement() *ContinueStatement {
	return &ContinueStatement{nodeImpl: newNodeImpl(NodeContinueStatement)}
}

type ExpressionStatement struct {
	nodeImpl
	statementMarker

	Expression Expression `json:"expression,omitempty"`
}

func NewExpressionStatement(expr Expression) *ExpressionStatement {
	return &ExpressionStatement{nodeImpl: newNodeImpl(NodeExpressionStatement), Expression: expr}
}

type StatementList struct {
	nodeImpl
	statementMarker

	Statements []Statement `json:"statements"`
}

func NewStatementList(statements []Statement) *StatementList {
	return &StatementList{nodeImpl: newNodeImpl(NodeStatementList), Statements: statements}
}

// Program is the root declaration list handed over by the parser.
type Program struct {
	nodeImpl

	Declarations []Declaration `json:"declarations"`
}

func NewProgram(declarations []Declaration) *Program {
	return &Program{nodeImpl: newNodeImpl(NodeProgram), Declarations: declarations}
}
