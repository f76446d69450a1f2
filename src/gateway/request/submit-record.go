package request

type SubmitRecord struct {
	Title string `json:"title" binding:"required,max=200"`

	// Kept as text, non-numeric scores are submitted as 0
	MoodScore   string `json:"moodScore"`
	SupportType string `json:"supportType" binding:"omitempty,oneof=emotional peer professional community"`
}

type ListOperations struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=100"`
}
