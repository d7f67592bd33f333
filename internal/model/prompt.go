package model

// Prompt is one entry of the fixed product catalog players write reviews about.
type Prompt struct {
	ID       string `json:"id" bson:"_id"`
	Name     string `json:"name" bson:"name"`
	Category string `json:"category" bson:"category"`
	Image    string `json:"image" bson:"image"`
}
