package dto

// CreateTaskRequest fields are pointers so a missing field can be told apart from an empty one.
type CreateTaskRequest struct {
	Title       *string `json:"title" validate:"required,notblank,max=255"`
	Description *string `json:"description" validate:"required,max=5000"`
}

type UpdateTaskRequest struct {
	Title       *string `json:"title" validate:"omitempty,notblank,max=255"`
	Description *string `json:"description" validate:"omitempty,min=1,max=5000"`
	Status      *string `json:"status" validate:"omitempty,oneof=todo in_progress done archived"`
}
