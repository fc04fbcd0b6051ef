package qemu

import (
	"fmt"
	"strings"
)

// componentArgs splits a rendered component into its option and value, the
// value is kept whole so paths may contain spaces
func componentArgs(c fmt.Stringer) []string {
	s := c.String()
	if s == "" {
		return nil
	}
	return strings.SplitN(s, " ", 2)
}

type drive struct {
	path   string
	format string
	iftype string
	index  string
	ID     string
}

func (d drive) String() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("-drive file=%s", d.path))
	if len(d.format) > 0 {
		sb.WriteString(fmt.Sprintf(",format=%s", d.format))
	}
	if len(d.index) > 0 {
		sb.WriteString(fmt.Sprintf(",index=%s", d.index))
	}
	if len(d.iftype) > 0 {
		sb.WriteString(fmt.Sprintf(",if=%s", d.iftype))
	}
	if len(d.ID) > 0 {
		sb.WriteString(fmt.Sprintf(",id=%s", d.ID))
	}
	return sb.String()
}

type machine struct {
	mtype string
	accel string
}

func (m machine) String() string {
	if len(m.accel) > 0 {
		return fmt.Sprintf("-machine %s,accel=%s", m.mtype, m.accel)
	}
	return fmt.Sprintf("-machine %s", m.mtype)
}

// firmware is only rendered for uefi boots, bios boots use qemu's seabios
type firmware struct {
	path string
}

func (f firmware) String() string {
	if f.path == "" {
		return ""
	}
	return fmt.Sprintf("-bios %s", f.path)
}

type display struct {
	disptype string
}

func (d display) String() string {
	return fmt.Sprintf("-display %s", d.disptype)
}

type serial struct {
	serialtype string
}

func (s serial) String() string {
	return fmt.Sprintf("-serial %s", s.serialtype)
}
