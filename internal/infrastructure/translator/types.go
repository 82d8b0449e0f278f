package translator

// textItem is one element of the request body array.
type textItem struct {
	Text string `json:"Text"`
}

type detectResult struct {
	Language                   string  `json:"language"`
	Score                      float64 `json:"score"`
	IsTranslationSupported     bool    `json:"isTranslationSupported"`
	IsTransliterationSupported bool    `json:"isTransliterationSupported"`
}

type translateResult struct {
	DetectedLanguage *detectedLanguage `json:"detectedLanguage,omitempty"`
	Translations     []translation     `json:"translations"`
}

type detectedLanguage struct {
	Language string  `json:"language"`
	Score    float64 `json:"score"`
}

type translation struct {
	Text string `json:"text"`
	To   string `json:"to"`
}
