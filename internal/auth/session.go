package auth

import (
	"strconv"

	"villfinder-backend/internal/pkg/apperrors"
)

// SessionProfile is the identity the session layer stores under "user".
type SessionProfile struct {
	UserID    string `json:"user_id"`
	ProfileID uint   `json:"profile_id"`
	Username  string `json:"username"`
}

// Map returns the session representation of p.
func (p SessionProfile) Map() map[string]interface{} {
	return map[string]interface{}{
		"user_id":    p.UserID,
		"profile_id": p.ProfileID,
		"username":   p.Username,
	}
}

// CurrentProfile validates the session user and resolves the acting profile.
// Anything without a usable profile id is ErrUnauthenticated.
func CurrentProfile(sessionUser interface{}) (*SessionProfile, error) {
	switch u := sessionUser.(type) {
	case *SessionProfile:
		if u == nil || u.ProfileID == 0 {
			return nil, apperrors.ErrUnauthenticated
		}
		return u, nil
	case SessionProfile:
		if u.ProfileID == 0 {
			return nil, apperrors.ErrUnauthenticated
		}
		return &u, nil
	case map[string]interface{}:
		id, ok := profileID(u["profile_id"])
		if !ok {
			return nil, apperrors.ErrUnauthenticated
		}
		return &SessionProfile{
			UserID:    str(u["user_id"]),
			ProfileID: id,
			Username:  str(u["username"]),
		}, nil
	}
	return nil, apperrors.ErrUnauthenticated
}

// ProfileID is CurrentProfile reduced to the id, zero for anonymous callers.
func ProfileID(sessionUser interface{}) uint {
	p, err := CurrentProfile(sessionUser)
	if err != nil {
		return 0
	}
	return p.ProfileID
}

// Session JSON decodes numbers as float64; ids written by other services may be strings.
func profileID(v interface{}) (uint, bool) {
	switch x := v.(type) {
	case float64:
		if x >= 1 && x == float64(uint(x)) {
			return uint(x), true
		}
	case int:
		if x > 0 {
			return uint(x), true
		}
	case uint:
		return x, x > 0
	case string:
		n, err := strconv.ParseUint(x, 10, 64)
		if err == nil && n > 0 {
			return uint(n), true
		}
	}
	return 0, false
}

func str(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}
