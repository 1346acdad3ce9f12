package request

// CreateUserRequest represents a staff account creation request
type CreateUserRequest struct {
	FirstName string `json:"first_name" binding:"required,min=1,max=255"`
	LastName  string `json:"last_name" binding:"max=255"`
	Username  string `json:"username" binding:"max=255"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	StaffID   *uint  `json:"staff_id"`
	Role      string `json:"role" binding:"omitempty,oneof=owner stylist"`
}

// UpdateUserRolesRequest replaces the roles of a user
type UpdateUserRolesRequest struct {
	RoleIDs []uint `json:"role_ids" binding:"required"`
}
