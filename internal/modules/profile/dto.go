package profile

type UpdateRequest struct {
	FirstName string `json:"firstName" validate:"required,max=50"`
	LastName  string `json:"lastName" validate:"required,max=50"`
	ImageURL  string `json:"image_url" validate:"required,url"`
}
