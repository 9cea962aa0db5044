package membership

import "strings"

var transitions = map[Status][]Status{
	StatusPendingInvitation: {StatusRemoved},
	StatusActive:            {StatusSuspended, StatusRemoved},
	StatusSuspended:         {StatusActive, StatusRemoved},
	StatusRemoved:           nil,
}

// CanTransition は UpdateMembership で from から to へ遷移できるかを返します。同じ状態への遷移は許可されます。
// pending_invitation から active への遷移は招待された本人の AcceptInvitation でのみ行います。
func CanTransition(from, to Status) bool {
	if from == to {
		return from != StatusRemoved
	}
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func isValidStatus(status Status) bool {
	_, ok := transitions[status]
	return ok
}

func normalizeRole(raw Role) (Role, error) {
	role := Role(strings.ToLower(strings.TrimSpace(string(raw))))
	if !isValidRole(role) {
		return "", ErrInvalidRole
	}
	return role, nil
}

func isValidRole(role Role) bool {
	switch role {
	case RoleOwner, RoleAdmin, RoleMember:
		return true
	default:
		return false
	}
}
