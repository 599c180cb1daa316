// Package snitch watches guild messages for trigger words and notifies the
// channels, members and roles configured for them.
//
// The package does not talk to Discord directly. Guild state comes in as a
// Guild snapshot or through a Directory, configuration through a Store, and
// notifications leave through a Deliverer.
package snitch

import (
	"strconv"
	"strings"

	"emperror.dev/errors"
)

// ID is a platform snowflake.
type ID uint64

func (id ID) String() string { return strconv.FormatUint(uint64(id), 10) }

// IsValid returns true if the ID is not zero.
func (id ID) IsValid() bool { return id != 0 }

// Kind is the kind of a notification target.
type Kind uint8

const (
	KindChannel Kind = iota + 1
	KindMember
	KindRole
)

const ErrUnknownKind = errors.Sentinel("unknown target kind")

func (k Kind) String() string {
	switch k {
	case KindChannel:
		return "channel"
	case KindMember:
		return "member"
	case KindRole:
		return "role"
	}
	return "unknown"
}

// Title is the capitalised kind name, used in command replies.
func (k Kind) Title() string {
	s := k.String()
	return strings.ToUpper(s[:1]) + s[1:]
}

func (k Kind) MarshalText() ([]byte, error) {
	if k < KindChannel || k > KindRole {
		return nil, errors.WithStack(ErrUnknownKind)
	}
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(b []byte) error {
	switch string(b) {
	case "channel":
		*k = KindChannel
	case "member":
		*k = KindMember
	case "role":
		*k = KindRole
	default:
		return errors.Wrapf(ErrUnknownKind, "%q", string(b))
	}
	return nil
}

// TargetRef is a resolved notification target.
// The kind is decided once, when the target is resolved, and never re-derived.
type TargetRef struct {
	Kind Kind `json:"kind"`
	ID   ID   `json:"id,string"`
}

func (t TargetRef) String() string {
	return t.Kind.String() + ":" + t.ID.String()
}
