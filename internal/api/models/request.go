package models

// SignupRequest represents a new account registration
type SignupRequest struct {
	Name       string `json:"name" binding:"required,max=100" example:"Ada Obi"`
	Age        int    `json:"age" binding:"required,gt=0" example:"34"`
	Email      string `json:"email,omitempty" binding:"omitempty,email,max=255" example:"ada@example.com"`
	Mobile     string `json:"mobile,omitempty" binding:"max=20" example:"+2348012345678"`
	Address    string `json:"address" binding:"required" example:"12 Marina Road"`
	NationalID string `json:"nationalId" binding:"required,max=32" example:"123456789012"`
	Password   string `json:"password" binding:"required" example:"s3cret!"`
	Role       string `json:"role,omitempty" binding:"omitempty,oneof=voter admin" example:"voter"`
}

// LoginRequest represents authentication login request
type LoginRequest struct {
	NationalID string `json:"nationalId" binding:"required" example:"123456789012"`
	Password   string `json:"password" binding:"required" example:"s3cret!"`
}

// PasswordChangeRequest represents a password change for the caller
type PasswordChangeRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required"`
}

// CandidateRequest represents candidate creation
type CandidateRequest struct {
	Name  string `json:"name" binding:"required,max=100" example:"Asha Bello"`
	Party string `json:"party" binding:"required,max=100" example:"Green"`
	Age   int    `json:"age" binding:"required,gt=0" example:"45"`
}

// CandidatePatchRequest represents a partial candidate update
type CandidatePatchRequest struct {
	Name  *string `json:"name,omitempty" binding:"omitempty,max=100"`
	Party *string `json:"party,omitempty" binding:"omitempty,max=100"`
	Age   *int    `json:"age,omitempty"`
}

// AuditQuery represents audit log filters
type AuditQuery struct {
	Action string `form:"action"`
	UserID string `form:"user_id"`
	Limit  int    `form:"limit" binding:"omitempty,min=1,max=500"`
	Offset int    `form:"offset" binding:"omitempty,min=0"`
}
