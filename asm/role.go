// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package asm

import (
	"fmt"
)

// Role is the purpose a register serves in the generated program.
type Role int

//go:generate go tool stringer -linecomment -type=Role
const (
	ROLE_POINTER        = Role(0) // pointer
	ROLE_LENGTH         = Role(1) // length
	ROLE_ADDRESS        = Role(2) // address
	ROLE_VALUE          = Role(3) // value
	ROLE_SAVE_LENGTH    = Role(4) // save_length
	ROLE_SAVE_POINTER   = Role(5) // save_pointer
	ROLE_SYSCALL_NUMBER = Role(6) // syscall_number
	ROLE_SYSCALL_FD     = Role(7) // syscall_fd
	ROLE_SYSCALL_BUFFER = Role(8) // syscall_buffer
	ROLE_SYSCALL_COUNT  = Role(9) // syscall_count

	roleCount = 10
)

// Program roles hold state across instructions; syscall roles only hold
// the arguments of a single system call.
var (
	programRoles = []Role{ROLE_POINTER, ROLE_LENGTH, ROLE_ADDRESS, ROLE_VALUE, ROLE_SAVE_LENGTH, ROLE_SAVE_POINTER}
	syscallRoles = []Role{ROLE_SYSCALL_NUMBER, ROLE_SYSCALL_FD, ROLE_SYSCALL_BUFFER, ROLE_SYSCALL_COUNT}
)

// RegisterFile resolves roles to register names.
type RegisterFile struct {
	Name string          // Name of the register file, for diagnostics.
	Word map[Role]string // 32-bit register for each role.
	Low  map[Role]string // Low 8-bit register, for roles that need one.
}

// I386 is the Linux i386 register file, using the 'int $0x80' system call
// convention.
var I386 = &RegisterFile{
	Name: "i386",
	Word: map[Role]string{
		ROLE_POINTER:        "%edx",
		ROLE_LENGTH:         "%ecx",
		ROLE_ADDRESS:        "%ebx",
		ROLE_VALUE:          "%eax",
		ROLE_SAVE_LENGTH:    "%esi",
		ROLE_SAVE_POINTER:   "%edi",
		ROLE_SYSCALL_NUMBER: "%eax",
		ROLE_SYSCALL_FD:     "%ebx",
		ROLE_SYSCALL_BUFFER: "%ecx",
		ROLE_SYSCALL_COUNT:  "%edx",
	},
	Low: map[Role]string{
		ROLE_VALUE: "%al",
	},
}

// Resolve returns the register name for a role, or its low byte register.
func (rf *RegisterFile) Resolve(role Role, low bool) (name string, err error) {
	names := rf.Word
	if low {
		names = rf.Low
	}

	name, ok := names[role]
	if !ok {
		err = &ErrRoleMissing{Role: role, Low: low}
	}

	return
}

// Validate checks the register file can run generated code. Program roles
// must use distinct registers, the save slots must survive a system call,
// and the value role needs a low byte register.
//
// Roles shared between pointer or length and the system call arguments are
// permitted, as they are saved and restored around each call.
func (rf *RegisterFile) Validate() (err error) {
	for role := range Role(roleCount) {
		_, err = rf.Resolve(role, false)
		if err != nil {
			return
		}
	}

	_, err = rf.Resolve(ROLE_VALUE, true)
	if err != nil {
		return
	}

	owner := map[string]Role{}
	for _, role := range programRoles {
		name := rf.Word[role]
		if other, ok := owner[name]; ok {
			err = &ErrRoleConflict{Register: name, Roles: [2]Role{other, role}}
			return
		}
		owner[name] = role
	}

	for _, saved := range []Role{ROLE_SAVE_LENGTH, ROLE_SAVE_POINTER} {
		for _, role := range syscallRoles {
			if rf.Word[saved] == rf.Word[role] {
				err = &ErrRoleConflict{Register: rf.Word[role], Roles: [2]Role{saved, role}}
				return
			}
		}
	}

	return
}

// String describes the register assignments.
func (rf *RegisterFile) String() (text string) {
	text = rf.Name + ":"
	for role := range Role(roleCount) {
		text += fmt.Sprintf(" %v=%v", role, rf.Word[role])
	}
	return
}
