package interpreter

import (
	"bufio"
	"errors"
	"io"
	"strconv"
	"strings"

	"mlang/interpreter-go/pkg/ast"
	"mlang/interpreter-go/pkg/runtime"
)

type builtinFunc func(i *Interpreter, args []ast.Expression, env *runtime.Environment) (runtime.Value, error)

// builtins shadow any user binding of the same name.
var builtins map[string]builtinFunc

func init() {
	builtins = map[string]builtinFunc{
		"print":  builtinPrint,
		"printm": builtinPrintm,
		"read":   builtinRead,
	}
}

func builtinPrint(i *Interpreter, args []ast.Expression, env *runtime.Environment) (runtime.Value, error) {
	for idx, arg := range args {
		val, err := i.evaluateExpression(arg, env)
		if err != nil {
			return nil, err
		}
		if idx > 0 {
			io.WriteString(i.stdout, " ")
		}
		io.WriteString(i.stdout, runtime.Format(val))
	}
	io.WriteString(i.stdout, "\n")
	return runtime.VoidValue{}, nil
}

func builtinPrintm(i *Interpreter, args []ast.Expression, env *runtime.Environment) (runtime.Value, error) {
	for _, arg := range args {
		val, err := i.evaluateExpression(arg, env)
		if err != nil {
			return nil, err
		}
		mat, ok := val.(*runtime.MatrixValue)
		if !ok {
			i.warn("printm() expects a matrix argument")
			continue
		}
		io.WriteString(i.stdout, runtime.FormatMatrix(mat.M))
	}
	return runtime.VoidValue{}, nil
}

// builtinRead ignores its arguments.
func builtinRead(i *Interpreter, _ []ast.Expression, _ *runtime.Environment) (runtime.Value, error) {
	line, err := i.stdin.ReadLine()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return runtime.VoidValue{}, nil
		}
		return nil, err
	}
	return ParseInput(line), nil
}

// ParseInput classifies one input line: an integer when the whole line is
// one (an empty line reads as 0), else a float, else the raw string.
func ParseInput(line string) runtime.Value {
	if line == "" {
		return runtime.IntValue{}
	}
	trimmed := strings.TrimLeft(line, " \t\n\v\f\r")
	if n, err := strconv.ParseInt(trimmed, 10, 64); err == nil || isRangeError(err) {
		return runtime.IntValue{Val: n}
	}
	if f, err := strconv.ParseFloat(trimmed, 64); err == nil || isRangeError(err) {
		return runtime.FloatValue{Val: f}
	}
	return runtime.StringValue{Val: line}
}

func isRangeError(err error) bool {
	return errors.Is(err, strconv.ErrRange)
}

// InputReader supplies lines to read().
type InputReader interface {
	// ReadLine returns the next line without its terminator, or io.EOF when
	// no input remains.
	ReadLine() (string, error)
}

type lineReader struct {
	r *bufio.Reader
}

// NewLineReader reads lines from r. A final line without a newline is still
// returned.
func NewLineReader(r io.Reader) InputReader {
	return &lineReader{r: bufio.NewReader(r)}
}

func (l *lineReader) ReadLine() (string, error) {
	line, err := l.r.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return trimLineEnding(line), nil
		}
		return "", err
	}
	return trimLineEnding(line), nil
}

func trimLineEnding(line string) string {
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r")
}
