package domain

// AnalysisParams carries the inputs the coach needs alongside the fight
// footage. Immutable for the duration of a run.
type AnalysisParams struct {
	FighterName  string `json:"fighter_name"`
	OpponentName string `json:"opponent_name"`
	WeightClass  string `json:"weight_class"`
}

// TrainingFocus is the recommended focus area returned by the analyst.
type TrainingFocus struct {
	Title  string   `json:"title"`
	Points []string `json:"points"`
}

// TrainingSchedule maps every day of the week to a training task. All seven
// days must be present for a result to be valid.
type TrainingSchedule struct {
	Monday    string `json:"monday"`
	Tuesday   string `json:"tuesday"`
	Wednesday string `json:"wednesday"`
	Thursday  string `json:"thursday"`
	Friday    string `json:"friday"`
	Saturday  string `json:"saturday"`
	Sunday    string `json:"sunday"`
}

// Days returns the schedule entries in Monday..Sunday order.
func (s TrainingSchedule) Days() []string {
	return []string{s.Monday, s.Tuesday, s.Wednesday, s.Thursday, s.Friday, s.Saturday, s.Sunday}
}

// AnalysisResult is the structured report produced by the inference stage.
// The numbers are advisory content from the model, not verified measurement.
type AnalysisResult struct {
	StrikeAccuracy      float64          `json:"strikeAccuracy"`
	SuccessfulTakedowns int              `json:"successfulTakedowns"`
	AvgStrikesPerMin    float64          `json:"avgStrikesPerMin"`
	KeyInsights         []string         `json:"keyInsights"`
	TrainingFocus       TrainingFocus    `json:"trainingFocus"`
	TrainingSchedule    TrainingSchedule `json:"trainingSchedule"`
}
