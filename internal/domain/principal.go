package domain

// Principal аутентифицированный пользователь запроса
type Principal struct {
	UserID    int64
	SessionID string
	Role      Role
	Email     string
}

// IsPractice returns true for practice owners
func (p *Principal) IsPractice() bool {
	return p.Role == RolePractice
}
