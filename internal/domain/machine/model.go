package machine

import (
	"errors"
	"fmt"
	"strings"
)

// MachineRef is a read-only snapshot of an Arc-enabled server, taken at
// selection time and discarded after the run.
type MachineRef struct {
	Name          string `json:"name"`
	ResourceGroup string `json:"resource_group"`
	ResourceID    string `json:"resource_id"`
	Location      string `json:"location"`
	OSName        string `json:"os_name"`
}

// IsWindows reports whether the machine runs Windows. The agent reports
// anything from "windows" to "Windows Server 2022 Datacenter" depending on
// its version, so this is a case-insensitive substring match.
func (m MachineRef) IsWindows() bool {
	return strings.Contains(strings.ToLower(m.OSName), "windows")
}

// ScopeKind discriminates the selection breadth of a run.
type ScopeKind string

const (
	ScopeMachine       ScopeKind = "machine"
	ScopeResourceGroup ScopeKind = "resource-group"
	ScopeSubscription  ScopeKind = "subscription"
)

// Scope selects the set of machines a run operates on.
type Scope struct {
	Kind          ScopeKind
	ResourceGroup string
	MachineName   string
}

// SingleMachine targets one machine by resource group and name.
func SingleMachine(resourceGroup, name string) Scope {
	return Scope{Kind: ScopeMachine, ResourceGroup: resourceGroup, MachineName: name}
}

// AllInResourceGroup targets every Arc Windows machine in one resource group.
func AllInResourceGroup(resourceGroup string) Scope {
	return Scope{Kind: ScopeResourceGroup, ResourceGroup: resourceGroup}
}

// AllInSubscription targets every Arc Windows machine in the subscription.
func AllInSubscription() Scope {
	return Scope{Kind: ScopeSubscription}
}

func (s Scope) String() string {
	switch s.Kind {
	case ScopeMachine:
		return fmt.Sprintf("machine %s/%s", s.ResourceGroup, s.MachineName)
	case ScopeResourceGroup:
		return fmt.Sprintf("resource group %s", s.ResourceGroup)
	case ScopeSubscription:
		return "subscription"
	default:
		return string(s.Kind)
	}
}

var (
	// ErrNotFound means the explicitly named machine does not exist.
	ErrNotFound = errors.New("machine not found")

	// ErrNoMachines means filtering and exclusion left nothing to process.
	ErrNoMachines = errors.New("no eligible machines in scope")
)
