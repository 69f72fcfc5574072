package dto

type SynthesizeRequest struct {
	Text  string `json:"text" validate:"required,max=4096"`
	Voice string `json:"voice" validate:"omitempty,oneof=alloy echo fable onyx nova shimmer"`
}
