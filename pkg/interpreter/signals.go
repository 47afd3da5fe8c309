package interpreter

import "github.com/zojize/viz-list/pkg/runtime"

type completionKind int

const (
	completeNormal completionKind = iota
	completeBreak
	completeContinue
	completeReturn
)

func (k completionKind) String() string {
	switch k {
	case completeBreak:
		return "break"
	case completeContinue:
		return "continue"
	case completeReturn:
		return "return"
	default:
		return "normal"
	}
}

// completion is the outcome of executing a statement. Only completeReturn
// carries a value; "no return yet" is completeNormal, never a language null.
type completion struct {
	kind  completionKind
	value runtime.Value
}

var (
	normal     = completion{kind: completeNormal}
	breakOut   = completion{kind: completeBreak}
	continueOn = completion{kind: completeContinue}
)

func returned(v runtime.Value) completion {
	return completion{kind: completeReturn, value: v}
}

// abrupt reports whether the surrounding statement list must stop.
func (c completion) abrupt() bool { return c.kind != completeNormal }
