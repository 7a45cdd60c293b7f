package dto

type CreateCategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type UpdateCategoryRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// Patch emits only the assignments for fields the caller actually supplied.
func (r *UpdateCategoryRequest) Patch() map[string]interface{} {
	assignments := make(map[string]interface{})
	if r.Name != nil {
		assignments["name"] = *r.Name
	}
	if r.Description != nil {
		assignments["description"] = *r.Description
	}
	return assignments
}
