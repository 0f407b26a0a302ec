package domain

import "strings"

type TargetKind int

const (
	TargetDirect TargetKind = iota
	TargetGroup
)

// Target is the typed form of a raw wire target id. The wire format keeps
// the lexical-prefix convention; internally routing switches on Kind.
type Target struct {
	Kind   TargetKind
	Client ClientID
	Group  GroupID
}

// ParseTarget classifies a raw target id. Anything carrying the group
// prefix resolves as a group target, everything else as a direct one.
func ParseTarget(raw string) Target {
	if strings.HasPrefix(raw, GroupIDPrefix) {
		return Target{Kind: TargetGroup, Group: GroupID(raw)}
	}
	return Target{Kind: TargetDirect, Client: ClientID(raw)}
}
