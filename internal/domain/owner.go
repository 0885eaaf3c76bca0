package domain

import (
	"fmt"
	"strconv"
)

type OwnerKind int

const (
	OwnerSession OwnerKind = iota
	OwnerAccount
)

// Owner identifies who a cart belongs to: either an anonymous session
// (opaque token) or a registered account. The two are never mixed; a
// session cart and a user cart are distinct aggregates even for the
// same person.
type Owner struct {
	Kind      OwnerKind
	SessionID string
	UserID    int64
}

func SessionOwner(token string) Owner {
	return Owner{Kind: OwnerSession, SessionID: token}
}

func AccountOwner(userID int64) Owner {
	return Owner{Kind: OwnerAccount, UserID: userID}
}

func (o Owner) IsAccount() bool {
	return o.Kind == OwnerAccount
}

// Key is the stable storage and cache key for this owner. At most one
// cart exists per key.
func (o Owner) Key() string {
	if o.Kind == OwnerAccount {
		return "user:" + strconv.FormatInt(o.UserID, 10)
	}
	return "session:" + o.SessionID
}

func (o Owner) String() string {
	if o.Kind == OwnerAccount {
		return fmt.Sprintf("user %d", o.UserID)
	}
	return fmt.Sprintf("session %s", o.SessionID)
}
