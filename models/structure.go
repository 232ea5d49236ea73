package models

// ProductStructure is the part/module tree for course- or software-shaped
// products.
type ProductStructure struct {
	Type             string        `json:"type"`
	Parts            []Part        `json:"parts"`
	TotalModules     int           `json:"totalModules,omitempty"`
	EstimatedHours   int           `json:"estimatedHours,omitempty"`
	Deliverables     []Deliverable `json:"deliverables,omitempty"`
	TechRequirements []string      `json:"tech_requirements,omitempty"`
}

type Part struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Modules     []Module `json:"modules"`
}

type Module struct {
	ID                 string        `json:"id,omitempty"`
	Title              string        `json:"title"`
	Description        string        `json:"description,omitempty"`
	LearningObjectives []string      `json:"learning_objectives,omitempty"`
	DurationMinutes    int           `json:"duration_minutes,omitempty"`
	ContentItems       []ContentItem `json:"contentItems,omitempty"`
}

// ContentItemType defines the set of allowed typed content references inside
// a module.
type ContentItemType string

const (
	ContentItemVideo    ContentItemType = "video"
	ContentItemText     ContentItemType = "text"
	ContentItemExercise ContentItemType = "exercise"
	ContentItemQuiz     ContentItemType = "quiz"
	ContentItemDownload ContentItemType = "download"
)

type ContentItem struct {
	Type  ContentItemType `json:"type"`
	Title string          `json:"title"`
}

type Deliverable struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}
