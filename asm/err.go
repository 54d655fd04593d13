// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package asm

import (
	"errors"

	"github.com/ezrec/bfasm/translate"
)

var f = translate.From

var (
	// Generator errors
	ErrTapeSize = errors.New(f("tape size must be positive"))
)

// ErrUnexpectedNode is an internal error: the syntax tree held a node the
// generator has no template for.
type ErrUnexpectedNode struct {
	Node any
}

func (err *ErrUnexpectedNode) Error() string {
	return f("unexpected node %v when generating assembly", err.Node)
}

// ErrRoleMissing reports a role a register file has no register for.
type ErrRoleMissing struct {
	Role Role
	Low  bool
}

func (err *ErrRoleMissing) Error() string {
	if err.Low {
		return f("no low byte register for role %v", err.Role)
	}
	return f("no register for role %v", err.Role)
}

// ErrRoleConflict reports two roles that may not share a register.
type ErrRoleConflict struct {
	Register string
	Roles    [2]Role
}

func (err *ErrRoleConflict) Error() string {
	return f("register %v used by both %v and %v", err.Register, err.Roles[0], err.Roles[1])
}
