package coach

import "server/internal/providers/genai"

// analysisSchema declares the exact JSON shape the analyst must return. The
// seven day keys are individually required; a partial schedule is rejected.
func analysisSchema() *genai.Schema {
	day := func(desc string) *genai.Schema {
		return &genai.Schema{Type: genai.TypeString, Description: desc}
	}
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"strikeAccuracy": {
				Type:        genai.TypeNumber,
				Description: "The estimated strike accuracy of the primary fighter as a percentage (e.g., 87 for 87%).",
			},
			"successfulTakedowns": {
				Type:        genai.TypeInteger,
				Description: "The total number of successful takedowns by the primary fighter.",
			},
			"avgStrikesPerMin": {
				Type:        genai.TypeNumber,
				Description: "The average number of significant strikes landed per minute by the primary fighter.",
			},
			"keyInsights": {
				Type:        genai.TypeArray,
				Description: "A list of 3-5 brief, actionable key insights about the fighter's performance.",
				Items:       &genai.Schema{Type: genai.TypeString},
			},
			"trainingFocus": {
				Type:        genai.TypeObject,
				Description: "A recommended training focus based on the analysis.",
				Properties: map[string]*genai.Schema{
					"title":  {Type: genai.TypeString, Description: "A concise title for the training focus area."},
					"points": {Type: genai.TypeArray, Description: "A list of 2-3 specific drills or areas to work on.", Items: &genai.Schema{Type: genai.TypeString}},
				},
				Required: []string{"title", "points"},
			},
			"trainingSchedule": {
				Type:        genai.TypeObject,
				Description: "A recommended 7-day training schedule based on the analysis findings. Each day should have a specific focus.",
				Properties: map[string]*genai.Schema{
					"monday":    day("Training focus for Monday."),
					"tuesday":   day("Training focus for Tuesday."),
					"wednesday": day("Training focus for Wednesday."),
					"thursday":  day("Training focus for Thursday."),
					"friday":    day("Training focus for Friday."),
					"saturday":  day("Training focus for Saturday."),
					"sunday":    day("Training focus or rest day for Sunday."),
				},
				Required: []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"},
			},
		},
		Required: []string{"strikeAccuracy", "successfulTakedowns", "avgStrikesPerMin", "keyInsights", "trainingFocus", "trainingSchedule"},
	}
}
