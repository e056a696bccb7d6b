package ast

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DecodeJSON decodes a serialized program tree.
func DecodeJSON(data []byte) (*Program, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode tree: %w", err)
	}
	return decodeProgram(raw)
}

// DecodeYAML decodes a program tree written as YAML. The node shapes are the
// same as the JSON form.
func DecodeYAML(data []byte) (*Program, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode tree: %w", err)
	}
	return decodeProgram(raw)
}

// DecodeFile decodes a tree read from name, picking YAML for .yml/.yaml and
// JSON otherwise.
func DecodeFile(name string, data []byte) (*Program, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yml", ".yaml":
		return DecodeYAML(data)
	default:
		return DecodeJSON(data)
	}
}

func decodeProgram(raw map[string]any) (*Program, error) {
	node, err := DecodeNode(raw)
	if err != nil {
		return nil, err
	}
	prog, ok := node.(*Program)
	if !ok {
		return nil, fmt.Errorf("decoded root is %s, expected Program", node.NodeType())
	}
	return prog, nil
}

// DecodeNode converts a generic map (as produced by encoding/json or yaml.v3)
// into a typed node.
func DecodeNode(node map[string]any) (Node, error) {
	out, err := decodeNode(node)
	if err != nil {
		return nil, err
	}
	if line, ok := toInt(node["line"]); ok {
		SetLine(out, int(line))
	}
	return out, nil
}

func decodeNode(node map[string]any) (Node, error) {
	typ, _ := node["type"].(string)
	switch NodeType(typ) {
	case NodeIntegerLiteral:
		val, ok := toInt(node["value"])
		if !ok {
			return nil, fmt.Errorf("IntegerLiteral: invalid value %v", node["value"])
		}
		return NewIntegerLiteral(val), nil
	case NodeFloatLiteral:
		val, ok := toFloat(node["value"])
		if !ok {
			return nil, fmt.Errorf("FloatLiteral: invalid value %v", node["value"])
		}
		return NewFloatLiteral(val), nil
	case NodeStringLiteral:
		val, _ := node["value"].(string)
		return NewStringLiteral(val), nil
	case NodeBooleanLiteral:
		val, _ := node["value"].(bool)
		return NewBooleanLiteral(val), nil
	case NodeArrayLiteral:
		elements, err := decodeExpressions(node, "elements")
		if err != nil {
			return nil, err
		}
		return NewArrayLiteral(elements), nil
	case NodeIdentifier:
		name, _ := node["name"].(string)
		if name == "" {
			return nil, fmt.Errorf("Identifier: missing name")
		}
		return NewIdentifier(name), nil
	case NodeBinaryExpression:
		op, _ := node["operator"].(string)
		left, err := decodeExpression(node, "left", true)
		if err != nil {
			return nil, err
		}
		right, err := decodeExpression(node, "right", true)
		if err != nil {
			return nil, err
		}
		return NewBinaryExpression(BinaryOperator(op), left, right), nil
	case NodeUnaryExpression:
		op, _ := node["operator"].(string)
		operand, err := decodeExpression(node, "operand", true)
		if err != nil {
			return nil, err
		}
		return NewUnaryExpression(UnaryOperator(op), operand), nil
	case NodeUpdateExpression:
		op, _ := node["operator"].(string)
		prefix, _ := node["prefix"].(bool)
		operand, err := decodeExpression(node, "operand", true)
		if err != nil {
			return nil, err
		}
		return NewUpdateExpression(UpdateOperator(op), prefix, operand), nil
	case NodeAssignmentExpression:
		op, _ := node["operator"].(string)
		if op == "" {
			op = string(AssignmentAssign)
		}
		left, err := decodeExpression(node, "left", true)
		if err != nil {
			return nil, err
		}
		right, err := decodeExpression(node, "right", true)
		if err != nil {
			return nil, err
		}
		return NewAssignmentExpression(AssignmentOperator(op), left, right), nil
	case NodeRangeExpression:
		return decodeRange(node)
	case NodeFunctionCall:
		callee, err := decodeExpression(node, "callee", true)
		if err != nil {
			return nil, err
		}
		args, err := decodeExpressions(node, "arguments")
		if err != nil {
			return nil, err
		}
		return NewFunctionCall(callee, args), nil
	case NodeIndexExpression:
		object, err := decodeExpression(node, "object", true)
		if err != nil {
			return nil, err
		}
		index, err := decodeExpression(node, "index", true)
		if err != nil {
			return nil, err
		}
		return NewIndexExpression(object, index), nil
	case NodeVariableDeclaration:
		name, _ := node["name"].(string)
		init, err := decodeExpression(node, "initializer", false)
		if err != nil {
			return nil, err
		}
		return NewVariableDeclaration(decodeTypeInfo(node["varType"]), name, init), nil
	case NodeArrayDeclaration:
		name, _ := node["name"].(string)
		size, err := decodeExpression(node, "size", false)
		if err != nil {
			return nil, err
		}
		var init *ArrayLiteral
		if raw, ok := node["initializer"].(map[string]any); ok {
			decoded, err := DecodeNode(raw)
			if err != nil {
				return nil, err
			}
			lit, ok := decoded.(*ArrayLiteral)
			if !ok {
				return nil, fmt.Errorf("ArrayDeclaration: initializer must be ArrayLiteral, got %s", decoded.NodeType())
			}
			init = lit
		}
		return NewArrayDeclaration(decodeTypeInfo(node["elementType"]), name, size, init), nil
	case NodeParameter:
		name, _ := node["name"].(string)
		return NewParameter(decodeTypeInfo(node["paramType"]), name), nil
	case NodeFunctionDeclaration:
		return decodeFunctionDeclaration(node)
	case NodeIfStatement:
		cond, err := decodeExpression(node, "condition", true)
		if err != nil {
			return nil, err
		}
		then, err := decodeStatement(node, "then", true)
		if err != nil {
			return nil, err
		}
		els, err := decodeStatement(node, "else", false)
		if err != nil {
			return nil, err
		}
		return NewIfStatement(cond, then, els), nil
	case NodeWhileStatement:
		cond, err := decodeExpression(node, "condition", true)
		if err != nil {
			return nil, err
		}
		body, err := decodeStatement(node, "body", true)
		if err != nil {
			return nil, err
		}
		return NewWhileStatement(cond, body), nil
	case NodeForStatement:
		init, err := decodeStatement(node, "init", false)
		if err != nil {
			return nil, err
		}
		cond, err := decodeExpression(node, "condition", false)
		if err != nil {
			return nil, err
		}
		incr, err := decodeExpression(node, "increment", false)
		if err != nil {
			return nil, err
		}
		body, err := decodeStatement(node, "body", true)
		if err != nil {
			return nil, err
		}
		return NewForStatement(init, cond, incr, body), nil
	case NodeForRangeStatement:
		iterator, _ := node["iterator"].(string)
		rawRange, ok := node["range"].(map[string]any)
		if !ok {
			return nil, fmt.Errorf("ForRangeStatement: missing range")
		}
		decoded, err := DecodeNode(rawRange)
		if err != nil {
			return nil, err
		}
		rng, ok := decoded.(*RangeExpression)
		if !ok {
			return nil, fmt.Errorf("ForRangeStatement: range must be RangeExpression, got %s", decoded.NodeType())
		}
		body, err := decodeStatement(node, "body", true)
		if err != nil {
			return nil, err
		}
		return NewForRangeStatement(iterator, rng, body), nil
	case NodeReturnStatement:
		arg, err := decodeExpression(node, "argument", false)
		if err != nil {
			return nil, err
		}
		return NewReturnStatement(arg), nil
	case NodeBreakStatement:
		return NewBreakStatement(), nil
	case NodeContinueStatement:
		return NewContinueStatement(), nil
	case NodeExpressionStatement:
		expr, err := decodeExpression(node, "expression", false)
		if err != nil {
			return nil, err
		}
		return NewExpressionStatement(expr), nil
	case NodeStatementList:
		stmts, err := decodeStatements(node, "statements")
		if err != nil {
			return nil, err
		}
		return NewStatementList(stmts), nil
	case NodeProgram:
		stmts, err := decodeStatements(node, "declarations")
		if err != nil {
			return nil, err
		}
		var decls []Declaration
		for _, stmt := range stmts {
			decls = append(decls, stmt)
		}
		return NewProgram(decls), nil
	default:
		return nil, fmt.Errorf("unsupported node type %q", typ)
	}
}

func decodeRange(node map[string]any) (*RangeExpression, error) {
	kind, _ := node["kind"].(string)
	if kind == "" {
		kind = string(RangeExclusive)
	}
	switch RangeKind(kind) {
	case RangeInclusive, RangeExclusive, RangeStepped:
	default:
		return nil, fmt.Errorf("RangeExpression: unknown kind %q", kind)
	}
	start, err := decodeExpression(node, "start", true)
	if err != nil {
		return nil, err
	}
	end, err := decodeExpression(node, "end", true)
	if err != nil {
		return nil, err
	}
	step, err := decodeExpression(node, "step", false)
	if err != nil {
		return nil, err
	}
	return NewRangeExpression(RangeKind(kind), start, end, step), nil
}

func decodeFunctionDeclaration(node map[string]any) (*FunctionDeclaration, error) {
	name, _ := node["name"].(string)
	if name == "" {
		return nil, fmt.Errorf("FunctionDeclaration: missing name")
	}
	rawParams, _ := node["params"].([]any)
	var params []*Parameter
	for _, raw := range rawParams {
		child, ok := raw.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("FunctionDeclaration %s: invalid parameter %T", name, raw)
		}
		decoded, err := DecodeNode(child)
		if err != nil {
			return nil, err
		}
		param, ok := decoded.(*Parameter)
		if !ok {
			return nil, fmt.Errorf("FunctionDeclaration %s: expected Parameter, got %s", name, decoded.NodeType())
		}
		params = append(params, param)
	}
	var body *StatementList
	if raw, ok := node["body"].(map[string]any); ok {
		decoded, err := DecodeNode(raw)
		if err != nil {
			return nil, err
		}
		list, ok := decoded.(*StatementList)
		if !ok {
			return nil, fmt.Errorf("FunctionDeclaration %s: body must be StatementList, got %s", name, decoded.NodeType())
		}
		body = list
	} else {
		body = NewStatementList(nil)
	}
	return NewFunctionDeclaration(decodeTypeInfo(node["returnType"]), name, params, body), nil
}

func decodeTypeInfo(raw any) TypeInfo {
	switch v := raw.(type) {
	case string:
		return TypeInfo{Base: DataType(v)}
	case map[string]any:
		info := TypeInfo{Base: TypeUnknown}
		if base, ok := v["base"].(string); ok {
			info.Base = DataType(base)
		}
		info.IsArray, _ = v["isArray"].(bool)
		if size, ok := toInt(v["arraySize"]); ok {
			info.ArraySize = int(size)
		}
		return info
	default:
		return TypeInfo{Base: TypeUnknown}
	}
}

func decodeExpression(node map[string]any, key string, required bool) (Expression, error) {
	raw, ok := node[key].(map[string]any)
	if !ok {
		if required {
			return nil, fmt.Errorf("%v: missing %s", node["type"], key)
		}
		return nil, nil
	}
	decoded, err := DecodeNode(raw)
	if err != nil {
		return nil, err
	}
	expr, ok := decoded.(Expression)
	if !ok {
		return nil, fmt.Errorf("%v: %s must be an expression, got %s", node["type"], key, decoded.NodeType())
	}
	return expr, nil
}

func decodeStatement(node map[string]any, key string, required bool) (Statement, error) {
	raw, ok := node[key].(map[string]any)
	if !ok {
		if required {
			return nil, fmt.Errorf("%v: missing %s", node["type"], key)
		}
		return nil, nil
	}
	decoded, err := DecodeNode(raw)
	if err != nil {
		return nil, err
	}
	stmt, ok := decoded.(Statement)
	if !ok {
		return nil, fmt.Errorf("%v: %s must be a statement, got %s", node["type"], key, decoded.NodeType())
	}
	return stmt, nil
}

func decodeExpressions(node map[string]any, key string) ([]Expression, error) {
	rawList, _ := node[key].([]any)
	var out []Expression
	for _, raw := range rawList {
		child, ok := raw.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%v: invalid %s entry %T", node["type"], key, raw)
		}
		decoded, err := DecodeNode(child)
		if err != nil {
			return nil, err
		}
		expr, ok := decoded.(Expression)
		if !ok {
			return nil, fmt.Errorf("%v: %s entry must be an expression, got %s", node["type"], key, decoded.NodeType())
		}
		out = append(out, expr)
	}
	return out, nil
}

func decodeStatements(node map[string]any, key string) ([]Statement, error) {
	rawList, _ := node[key].([]any)
	var out []Statement
	for _, raw := range rawList {
		child, ok := raw.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%v: invalid %s entry %T", node["type"], key, raw)
		}
		decoded, err := DecodeNode(child)
		if err != nil {
			return nil, err
		}
		stmt, ok := decoded.(Statement)
		if !ok {
			return nil, fmt.Errorf("%v: %s entry must be a statement, got %s", node["type"], key, decoded.NodeType())
		}
		out = append(out, stmt)
	}
	return out, nil
}

func toInt(raw any) (int64, bool) {
	switch v := raw.(type) {
	case json.Number:
		n, err := v.Int64()
		return n, err == nil
	case int:
		return int64(v), true
	case int64:
		return v, true
	case uint64:
		if v > math.MaxInt64 {
			return 0, false
		}
		return int64(v), true
	case float64:
		if v != math.Trunc(v) {
			return 0, false
		}
		return int64(v), true
	default:
		return 0, false
	}
}

func toFloat(raw any) (float64, bool) {
	switch v := raw.(type) {
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint64:
		return float64(v), true
	default:
		return 0, false
	}
}
