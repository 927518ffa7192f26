package report

import (
	"io"
)

// Message is the interface for all messages handled by the reporter.
type Message interface {
	display(w io.Writer)
	isError() bool
}

// Enumeration of the kinds of generation messages.  Each kind corresponds to
// one named diagnostic.
const (
	MKInvalidFileName = iota
	MKInvalidFileHandler
	MKInvalidByIndexArg
	MKInvalidMultiplication
	MKInvalidIterable
	MKInvalidSeparatorType
	MKInvalidSeparatorLen
	MKInvalidArguments
	MKInvalidOperand
	MKFunction
	MKVariableNotFound
	MKUnimplemented
	MKComparison
)

var genMsgStrings = map[int]string{
	MKInvalidFileName:       "File Name",
	MKInvalidFileHandler:    "File Handler",
	MKInvalidByIndexArg:     "Index",
	MKInvalidMultiplication: "Multiplication",
	MKInvalidIterable:       "Iterable",
	MKInvalidSeparatorType:  "Separator",
	MKInvalidSeparatorLen:   "Separator",
	MKInvalidArguments:      "Argument",
	MKInvalidOperand:        "Operand",
	MKFunction:              "Function",
	MKVariableNotFound:      "Name",
	MKUnimplemented:         "Unimplemented",
	MKComparison:            "Comparison",
}

// KindName returns the display name of a message kind.
func KindName(kind int) string {
	if name, ok := genMsgStrings[kind]; ok {
		return name
	}

	return "Generation"
}

// GenMessage is an error or warning produced while generating code.
type GenMessage struct {
	Kind    int
	Name    string
	Message string
	IsError bool
}

func (gm *GenMessage) isError() bool {
	return gm.IsError
}

func (gm *GenMessage) display(w io.Writer) {
	displayGenMessage(w, gm)
}

// StdError is a standard Go error tagged with where it came from.
type StdError struct {
	Tag string
	Err error
}

func (se *StdError) isError() bool {
	return true
}

func (se *StdError) display(w io.Writer) {
	displayErrorMessage(w, se.Tag, se.Err)
}
