package models

// GeneratedImage is one image returned by the image tool.
type GeneratedImage struct {
	URL           string `json:"url"`
	RevisedPrompt string `json:"revisedPrompt,omitempty"`
}
