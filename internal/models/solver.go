package models

type SolveRequest struct {
	Image    string `json:"image,omitempty" validate:"omitempty,startswith=data:image/"`
	Equation string `json:"equation,omitempty" validate:"required_without=Image"`
}

type SolveResponse struct {
	Equation string   `json:"equation"`
	Solution string   `json:"solution"`
	Steps    []string `json:"steps"`
}
