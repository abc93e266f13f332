package editor

import (
	"errors"
	"fmt"
	"strings"

	"github.com/saurabhkr66/jsonbuilder/pkg/model"
)

// Op names a user action.
type Op string

const (
	// OpAdd appends a default field to the forest at Action.Path (roots when
	// the path is empty).
	OpAdd Op = "add"
	// OpAddChild appends a default child under the nested field at Path.
	OpAddChild Op = "add-child"
	OpSetKey   Op = "set-key"
	OpSetType  Op = "set-type"
	// OpUpdate applies Key and Type to the field at Path in one step, the way
	// a submitted editor row does.
	OpUpdate     Op = "update"
	OpMakeNested Op = "make-nested"
	OpDelete     Op = "delete"
)

// ErrUnknownOp is returned for actions the editor cannot dispatch.
var ErrUnknownOp = errors.New("editor: unknown op")

// Action is one edit event. Path addresses the field the action targets,
// except for OpAdd where it addresses the parent forest.
type Action struct {
	Op   Op              `json:"op"`
	Path model.Path      `json:"path,omitempty"`
	Key  string          `json:"key,omitempty"`
	Type model.FieldType `json:"type,omitempty"`
}

// ParseOp validates a raw op name.
func ParseOp(raw string) (Op, error) {
	op := Op(strings.ToLower(strings.TrimSpace(raw)))
	switch op {
	case OpAdd, OpAddChild, OpSetKey, OpSetType, OpUpdate, OpMakeNested, OpDelete:
		return op, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownOp, raw)
	}
}

func (a Action) String() string {
	return fmt.Sprintf("%s@%q", a.Op, a.Path.String())
}
