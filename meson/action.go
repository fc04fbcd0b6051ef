package meson

import (
	"context"
	"fmt"
	"strings"
)

// Action is a build driver verb
type Action string

// Driver actions
const (
	ActionSetup   Action = "setup"
	ActionBuild   Action = "build"
	ActionRebuild Action = "rebuild"
	ActionRun     Action = "run"
	ActionRunBIOS Action = "run-bios"
	ActionRunUEFI Action = "run-uefi"
)

var actionAliases = map[string]Action{
	"s":  ActionSetup,
	"b":  ActionBuild,
	"rb": ActionRebuild,
	"r":  ActionRun,
}

// ValidActions lists every accepted action name, aliases included
var ValidActions = []string{"setup", "build", "rebuild", "run", "run-bios", "run-uefi", "s", "b", "rb", "r"}

// ParseAction resolves an action name or alias
func ParseAction(s string) (Action, error) {
	if a, ok := actionAliases[s]; ok {
		return a, nil
	}
	switch a := Action(s); a {
	case ActionSetup, ActionBuild, ActionRebuild, ActionRun, ActionRunBIOS, ActionRunUEFI:
		return a, nil
	}
	return "", fmt.Errorf("invalid action '%s', choose from %s", s, strings.Join(ValidActions, ", "))
}

// Firmware is the emulator firmware a run action selects
func (a Action) Firmware() Firmware {
	if fw := strings.TrimPrefix(string(a), "run-"); fw != string(a) {
		return Firmware(fw)
	}
	return UEFI
}

// Do performs a. confirm is only consulted by rebuild.
func (d *Driver) Do(ctx context.Context, a Action, confirm func(message string) (bool, error)) error {
	switch a {
	case ActionSetup:
		return d.Setup(ctx)
	case ActionBuild:
		return d.Build(ctx)
	case ActionRebuild:
		return d.Rebuild(ctx, confirm)
	case ActionRun, ActionRunBIOS, ActionRunUEFI:
		return d.Run(ctx, a.Firmware())
	}
	return fmt.Errorf("invalid action '%s'", a)
}
