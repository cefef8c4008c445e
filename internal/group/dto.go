package group

// CreateGroupRequest represents the request body for creating a group.
// ID is optional; one is generated when omitted.
type CreateGroupRequest struct {
	ID   string `json:"id,omitempty" validate:"omitempty,max=64"`
	Name string `json:"name" validate:"required,max=100"`
}

// UpdateGroupRequest represents the request body for renaming a group
type UpdateGroupRequest struct {
	Name *string `json:"name,omitempty" validate:"omitempty,max=100"`
}

// MemberRequest represents the request body for adding a participant or admin
type MemberRequest struct {
	Username string `json:"username" validate:"required"`
}

// GroupResponse represents the response for a single group
type GroupResponse struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Participants []string `json:"participants"`
	Admins       []string `json:"admins"`
	CreatedAt    string   `json:"created_at"`
}

// MemberResponse reports the outcome of a membership mutation
type MemberResponse struct {
	Username string `json:"username"`
	Added    bool   `json:"added"`
}

// MembershipResponse represents a membership query result
type MembershipResponse struct {
	Username    string `json:"username"`
	Participant bool   `json:"participant"`
	Admin       bool   `json:"admin"`
}

// ToResponse converts a Group model to a GroupResponse DTO
func (g *Group) ToResponse() *GroupResponse {
	return &GroupResponse{
		ID:           g.ID,
		Name:         g.Name,
		Participants: g.Participants,
		Admins:       g.Admins,
		CreatedAt:    g.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
